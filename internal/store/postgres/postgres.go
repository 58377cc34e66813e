// Package postgres is the primary store.Store backend, built on pgx/pgxpool.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saltbo/cedictx/internal/entity"
	"github.com/saltbo/cedictx/internal/store"
)

// Store implements store.Store over a pgxpool-managed connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an already-connected pool. Call postgres.Connect to build one
// from a DSN, or pass a pool built some other way.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS word (
	word_id BIGSERIAL PRIMARY KEY,
	traditional TEXT NOT NULL,
	simplified TEXT NOT NULL,
	UNIQUE (traditional, simplified)
);
CREATE TABLE IF NOT EXISTS word_entry (
	entry_id BIGSERIAL PRIMARY KEY,
	word_id BIGINT NOT NULL REFERENCES word(word_id) ON DELETE CASCADE,
	dictionary_id BIGINT NOT NULL,
	definitions TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS word_entry_dictionary_id_idx ON word_entry(dictionary_id);
CREATE TABLE IF NOT EXISTS word_pronunciation (
	pronunciation_id BIGSERIAL PRIMARY KEY,
	entry_id BIGINT NOT NULL REFERENCES word_entry(entry_id) ON DELETE CASCADE,
	pronunciation_type SMALLINT NOT NULL,
	pronunciation TEXT NOT NULL
);`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("%w: ensure schema: %v", entity.ErrDatabase, err)
	}
	return nil
}

// Import runs inside one transaction on one acquired connection: delete,
// stage in pgx.Batch-sized chunks, move, commit.
func (s *Store) Import(ctx context.Context, dictionaryID int64, entries []entity.Entry, batchSize int) error {
	if batchSize <= 0 {
		batchSize = 10000
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: acquire connection: %v", entity.ErrDatabase, err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", entity.ErrDatabase, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM word_entry WHERE dictionary_id = $1`, dictionaryID); err != nil {
		return fmt.Errorf("%w: delete existing dictionary rows: %v", entity.ErrDatabase, err)
	}

	if _, err := tx.Exec(ctx, `CREATE TEMP TABLE import_staging (
		traditional TEXT NOT NULL,
		simplified TEXT NOT NULL,
		dictionary_id BIGINT NOT NULL,
		definition TEXT NOT NULL,
		pronunciation_type SMALLINT NOT NULL,
		pronunciation TEXT NOT NULL
	) ON COMMIT DROP`); err != nil {
		return fmt.Errorf("%w: create staging table: %v", entity.ErrDatabase, err)
	}

	rows := store.BuildStagingRows(dictionaryID, entries)
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		if err := stageBatch(ctx, tx, rows[start:end]); err != nil {
			return err
		}
	}

	for _, stmt := range []string{store.MoveWordsSQL, store.MoveWordEntrySQL, store.MoveWordPronunciationSQL} {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%w: move staged rows: %v", entity.ErrDatabase, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit import: %v", entity.ErrDatabase, err)
	}
	return nil
}

func stageBatch(ctx context.Context, tx pgx.Tx, rows []store.StagingRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(
			`INSERT INTO import_staging (traditional, simplified, dictionary_id, definition, pronunciation_type, pronunciation)
			 VALUES ($1,$2,$3,$4,$5,$6)`,
			r.Traditional, r.Simplified, r.DictionaryID, r.Definition, int16(r.Type), r.Pronunciation,
		)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("%w: stage row batch: %v", entity.ErrDatabase, err)
		}
	}
	return nil
}

func (s *Store) StreamWords(ctx context.Context, fn func(store.WordRow) error) error {
	rows, err := s.pool.Query(ctx, `SELECT word_id, traditional, simplified FROM word`)
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
	rows, err := s.pool.Query(ctx, `SELECT pronunciation_id, pronunciation_type, pronunciation FROM word_pronunciation`)
	if err != nil {
		return fmt.Errorf("%w: stream pronunciations: %v", entity.ErrDatabase, err)
	}
	defer rows.Close()

	for rows.Next() {
		var r store.PronunciationRow
		var pronType int16
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

	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT we.word_id
		FROM word_pronunciation wp
		JOIN word_entry we ON we.entry_id = wp.entry_id
		WHERE wp.pronunciation_id = ANY($1)`, pronunciationIDs)
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

	rows, err := s.pool.Query(ctx, `
		SELECT w.word_id, w.traditional, w.simplified,
		       we.entry_id, we.dictionary_id, we.definitions,
		       wp.pronunciation_type, wp.pronunciation
		FROM word w
		JOIN word_entry we ON we.word_id = w.word_id
		LEFT JOIN word_pronunciation wp ON wp.entry_id = we.entry_id
		WHERE w.word_id = ANY($1)`, wordIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: hydrate words: %v", entity.ErrDatabase, err)
	}
	defer rows.Close()

	var out []store.HydrationRow
	for rows.Next() {
		var r store.HydrationRow
		var pronType *int16
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
