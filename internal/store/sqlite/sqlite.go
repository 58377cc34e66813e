// Package sqlite is the secondary store.Store backend: database/sql over
// mattn/go-sqlite3, used for local development and the test suite in place
// of a running Postgres instance.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/saltbo/cedictx/internal/entity"
	"github.com/saltbo/cedictx/internal/store"
)

// Store implements store.Store over a database/sql pool using the sqlite3
// driver.
type Store struct {
	db *sql.DB
}

// Open connects to a SQLite database at dsn (a plain path or a "file:" DSN).
// foreign_keys is forced on for every physical connection the pool opens by
// appending the driver's _fk=1 DSN parameter: mattn/go-sqlite3 issues the
// PRAGMA immediately after opening each new connection, so every connection
// the pool hands out already has it applied.
func Open(dsn string) (*Store, func(), error) {
	dsn = ensureForeignKeysParam(dsn)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite serializes writers internally; a single physical connection
	// avoids "database is locked" errors under concurrent access.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &Store{db: db}, func() { db.Close() }, nil
}

func ensureForeignKeysParam(dsn string) string {
	if strings.Contains(dsn, "_fk=") || strings.Contains(dsn, "_foreign_keys=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_fk=1"
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS word (
	word_id INTEGER PRIMARY KEY AUTOINCREMENT,
	traditional TEXT NOT NULL,
	simplified TEXT NOT NULL,
	UNIQUE (traditional, simplified)
);
CREATE TABLE IF NOT EXISTS word_entry (
	entry_id INTEGER PRIMARY KEY AUTOINCREMENT,
	word_id INTEGER NOT NULL REFERENCES word(word_id) ON DELETE CASCADE,
	dictionary_id INTEGER NOT NULL,
	definitions TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS word_entry_dictionary_id_idx ON word_entry(dictionary_id);
CREATE TABLE IF NOT EXISTS word_pronunciation (
	pronunciation_id INTEGER PRIMARY KEY AUTOINCREMENT,
	entry_id INTEGER NOT NULL REFERENCES word_entry(entry_id) ON DELETE CASCADE,
	pronunciation_type INTEGER NOT NULL,
	pronunciation TEXT NOT NULL
);`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("%w: ensure schema: %v", entity.ErrDatabase, err)
	}
	return nil
}

// Import runs on a single acquired *sql.Conn scoped to the transaction's
// lifetime, so the whole import holds exactly one connection.
func (s *Store) Import(ctx context.Context, dictionaryID int64, entries []entity.Entry, batchSize int) error {
	if batchSize <= 0 {
		batchSize = 10000
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: acquire connection: %v", entity.ErrDatabase, err)
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", entity.ErrDatabase, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM word_entry WHERE dictionary_id = ?`, dictionaryID); err != nil {
		return fmt.Errorf("%w: delete existing dictionary rows: %v", entity.ErrDatabase, err)
	}

	if _, err := tx.ExecContext(ctx, `CREATE TEMP TABLE import_staging (
		traditional TEXT NOT NULL,
		simplified TEXT NOT NULL,
		dictionary_id INTEGER NOT NULL,
		definition TEXT NOT NULL,
		pronunciation_type INTEGER NOT NULL,
		pronunciation TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("%w: create staging table: %v", entity.ErrDatabase, err)
	}
	// Dropped via conn, not tx: by the time this defer runs on the success
	// path, tx has already been committed and can no longer execute
	// statements, but conn (which outlives the transaction) still can.
	defer conn.ExecContext(ctx, `DROP TABLE IF EXISTS import_staging`)

	rows := store.BuildStagingRows(dictionaryID, entries)
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		if err := stageBatch(ctx, tx, rows[start:end]); err != nil {
			return err
		}
	}

	for _, stmt := range []string{store.MoveWordsSQL, store.MoveWordEntrySQL, store.MoveWordPronunciationSQL} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: move staged rows: %v", entity.ErrDatabase, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit import: %v", entity.ErrDatabase, err)
	}
	return nil
}

// stageBatch builds one multi-valued INSERT per call; pgx.Batch has no
// database/sql equivalent, so the VALUES list is assembled by hand.
func stageBatch(ctx context.Context, tx *sql.Tx, rows []store.StagingRow) error {
	if len(rows) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO import_staging (traditional, simplified, dictionary_id, definition, pronunciation_type, pronunciation) VALUES ")
	args := make([]any, 0, len(rows)*6)
	for i, r := range rows {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?,?,?,?,?,?)")
		args = append(args, r.Traditional, r.Simplified, r.DictionaryID, r.Definition, int(r.Type), r.Pronunciation)
	}

	if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("%w: stage row batch: %v", entity.ErrDatabase, err)
	}
	return nil
}

func (s *Store) StreamWords(ctx context.Context, fn func(store.WordRow) error) error {
	rows, err := s.db.QueryContext(ctx, `SELECT word_id, traditional, simplified FROM word`)
	if err != nil {
		return fmt.Errorf("%w: stream words: %v", entity.ErrDatabase, err)
	}
	defer rows.Close()

	for rows.Next() {
		var r store.WordRow
		if err := rows.Scan(&r.WordID, &r.Traditional, &r.Simplified); err != nil {
			return fmt.Errorf("%w: scan word row: %v", entity.ErrDatabase, err)
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterate words: %v", entity.ErrDatabase, err)
	}
	return nil
}

func (s *Store) StreamPronunciations(ctx context.Context, fn func(store.PronunciationRow) error) error {
	rows, err := s.db.QueryContext(ctx, `SELECT pronunciation_id, pronunciation_type, pronunciation FROM word_pronunciation`)
	if err != nil {
		return fmt.Errorf("%w: stream pronunciations: %v", entity.ErrDatabase, err)
	}
	defer rows.Close()

	for rows.Next() {
		var r store.PronunciationRow
		var pronType int
		if err := rows.Scan(&r.PronunciationID, &pronType, &r.Pronunciation); err != nil {
			return fmt.Errorf("%w: scan pronunciation row: %v", entity.ErrDatabase, err)
		}
		r.Type = entity.PronunciationType(pronType)
		if err := fn(r); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterate pronunciations: %v", entity.ErrDatabase, err)
	}
	return nil
}

func (s *Store) WordIDsForPronunciations(ctx context.Context, pronunciationIDs []int64) ([]int64, error) {
	if len(pronunciationIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(pronunciationIDs)), ",")
	args := make([]any, len(pronunciationIDs))
	for i, id := range pronunciationIDs {
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT we.word_id
		FROM word_pronunciation wp
		JOIN word_entry we ON we.entry_id = wp.entry_id
		WHERE wp.pronunciation_id IN (%s)`, placeholders)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve pronunciation ids: %v", entity.ErrDatabase, err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: scan word id: %v", entity.ErrDatabase, err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate word ids: %v", entity.ErrDatabase, err)
	}
	return out, nil
}

func (s *Store) HydrateWords(ctx context.Context, wordIDs []int64) ([]store.HydrationRow, error) {
	if len(wordIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(wordIDs)), ",")
	args := make([]any, len(wordIDs))
	for i, id := range wordIDs {
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT w.word_id, w.traditional, w.simplified,
		       we.entry_id, we.dictionary_id, we.definitions,
		       wp.pronunciation_type, wp.pronunciation
		FROM word w
		JOIN word_entry we ON we.word_id = w.word_id
		LEFT JOIN word_pronunciation wp ON wp.entry_id = we.entry_id
		WHERE w.word_id IN (%s)`, placeholders)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: hydrate words: %v", entity.ErrDatabase, err)
	}
	defer rows.Close()

	var out []store.HydrationRow
	for rows.Next() {
		var r store.HydrationRow
		var pronType *int
		var pron *string
		if err := rows.Scan(&r.WordID, &r.Traditional, &r.Simplified, &r.EntryID, &r.DictionaryID, &r.Definitions, &pronType, &pron); err != nil {
			return nil, fmt.Errorf("%w: scan hydration row: %v", entity.ErrDatabase, err)
		}
		if pronType != nil && pron != nil {
			r.HasPronunciation = true
			r.PronunciationType = entity.PronunciationType(*pronType)
			r.Pronunciation = *pron
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate hydration rows: %v", entity.ErrDatabase, err)
	}
	return out, nil
}
