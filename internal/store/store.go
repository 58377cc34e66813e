// Package store defines the persistence contract the search engine and HTTP
// adapter depend on: stream all rows, insert batches transactionally, and
// hydrate word ids into full result rows. Concrete backends live in the
// postgres and sqlite subpackages.
package store

import (
	"context"

	"github.com/saltbo/cedictx/internal/entity"
)

// WordRow is one row streamed from the word table, used by the index loader
// to feed Index.InsertCharacters.
type WordRow struct {
	WordID      int64
	Traditional string
	Simplified  string
}

// PronunciationRow is one row streamed from the word_pronunciation table,
// used by the index loader to feed Index.InsertPronunciation.
type PronunciationRow struct {
	PronunciationID int64
	Type            entity.PronunciationType
	Pronunciation   string
}

// HydrationRow is one row of the join across word, word_entry and
// word_pronunciation for a set of requested word ids. Hydration is returned
// flat, not pre-nested: the HTTP adapter groups rows by dictionary_id and
// pronunciation_type itself.
//
// HasPronunciation is false when a WordEntry carries no WordPronunciation row
// at all (the join is a LEFT JOIN); PronunciationType/Pronunciation are the
// zero value in that case and must be ignored.
type HydrationRow struct {
	WordID      int64
	Traditional string
	Simplified  string

	EntryID      int64
	DictionaryID int64
	Definitions  string

	HasPronunciation  bool
	PronunciationType entity.PronunciationType
	Pronunciation     string
}

// StagingRow is one row of the importer's temporary staging table: one
// non-empty pronunciation of one Entry. An Entry with both Pinyin and
// Jyutping empty contributes no StagingRow at all and is therefore never
// reflected in the persistent store by this import run.
type StagingRow struct {
	Traditional  string
	Simplified   string
	DictionaryID int64
	Definition   string
	Type          entity.PronunciationType
	Pronunciation string
}

// BuildStagingRows expands entries into the rows the move step consumes:
// one row per non-empty pronunciation, Jyutping before Pinyin.
func BuildStagingRows(dictionaryID int64, entries []entity.Entry) []StagingRow {
	rows := make([]StagingRow, 0, len(entries))
	for _, e := range entries {
		if e.Jyutping != "" {
			rows = append(rows, StagingRow{
				Traditional: e.Traditional, Simplified: e.Simplified,
				DictionaryID: dictionaryID, Definition: e.Definition,
				Type: entity.Jyutping, Pronunciation: e.Jyutping,
			})
		}
		if e.Pinyin != "" {
			rows = append(rows, StagingRow{
				Traditional: e.Traditional, Simplified: e.Simplified,
				DictionaryID: dictionaryID, Definition: e.Definition,
				Type: entity.Pinyin, Pronunciation: e.Pinyin,
			})
		}
	}
	return rows
}

// The move step is identical SQL across both backends: a unique constraint
// on word(traditional, simplified) makes the word upsert a plain ON CONFLICT
// DO NOTHING, and the rest follows by joining staging rows back through the
// tables the previous statement just populated. Staging exists because one
// corpus line fans out across three tables; the join-and-dedup runs in the
// database instead of the importer.
const (
	// WHERE TRUE is load-bearing: SQLite's parser treats INSERT...SELECT...FROM
	// immediately followed by ON CONFLICT as a syntax error unless a
	// WHERE/GROUP BY/ORDER BY clause separates FROM from the upsert clause.
	MoveWordsSQL = `
INSERT INTO word (traditional, simplified)
SELECT DISTINCT traditional, simplified FROM import_staging
WHERE TRUE
ON CONFLICT (traditional, simplified) DO NOTHING`

	MoveWordEntrySQL = `
INSERT INTO word_entry (word_id, dictionary_id, definitions)
SELECT DISTINCT w.word_id, s.dictionary_id, s.definition
FROM import_staging s
JOIN word w ON w.traditional = s.traditional AND w.simplified = s.simplified`

	MoveWordPronunciationSQL = `
INSERT INTO word_pronunciation (entry_id, pronunciation_type, pronunciation)
SELECT DISTINCT we.entry_id, s.pronunciation_type, s.pronunciation
FROM import_staging s
JOIN word w ON w.traditional = s.traditional AND w.simplified = s.simplified
JOIN word_entry we ON we.word_id = w.word_id AND we.dictionary_id = s.dictionary_id AND we.definitions = s.definition`
)

// Store is the persistence contract. Implementations must make Import
// atomic (all-or-nothing per dictionary_id) and must issue
// "PRAGMA foreign_keys = ON" once per acquired connection when the backend
// is SQLite.
type Store interface {
	// EnsureSchema creates the three tables if they do not already exist.
	EnsureSchema(ctx context.Context) error

	// Import atomically replaces a dictionary's content: delete the
	// dictionary's existing WordEntries (cascading WordPronunciations),
	// stage the entries, then move-and-dedupe them into Word/WordEntry/
	// WordPronunciation. batchSize controls the staging insert's chunking
	// only; it has no effect on the result.
	Import(ctx context.Context, dictionaryID int64, entries []entity.Entry, batchSize int) error

	// StreamWords calls fn once per row of the word table, in no particular
	// order. Returning an error from fn aborts the stream.
	StreamWords(ctx context.Context, fn func(WordRow) error) error

	// StreamPronunciations calls fn once per row of the word_pronunciation
	// table, in no particular order. Returning an error from fn aborts the
	// stream.
	StreamPronunciations(ctx context.Context, fn func(PronunciationRow) error) error

	// WordIDsForPronunciations resolves pronunciation ids (what a
	// pronunciation search yields) to the distinct word ids that own them.
	WordIDsForPronunciations(ctx context.Context, pronunciationIDs []int64) ([]int64, error)

	// HydrateWords fetches the full WordResult-shaped join for the given
	// word ids. Word ids with no matching row are simply absent from the
	// result, not an error.
	HydrateWords(ctx context.Context, wordIDs []int64) ([]HydrationRow, error)

	// Close releases the underlying connection pool.
	Close() error
}
