// Package loader builds a searchindex.Index from a store.Store at service
// start: stream every WordPronunciation row and insert it, then stream every
// Word row and insert it. It runs once, on one goroutine, before the index
// is handed off to request handlers.
package loader

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/saltbo/cedictx/internal/searchindex"
	"github.com/saltbo/cedictx/internal/store"
)

// Load streams pronunciations then words from s into a fresh Index. A row
// with an out-of-range pronunciation_type is corruption, not a fatal error:
// it is logged and skipped so that one bad row does not prevent the service
// from starting.
func Load(ctx context.Context, s store.Store, log *logrus.Logger) (*searchindex.Index, error) {
	idx := searchindex.New()

	var skipped int
	err := s.StreamPronunciations(ctx, func(row store.PronunciationRow) error {
		if !row.Type.Valid() {
			skipped++
			log.WithFields(logrus.Fields{
				"pronunciation_id": row.PronunciationID,
				"type":             int(row.Type),
			}).Warn("skipping word_pronunciation row with unrecognised pronunciation_type")
			return nil
		}
		idx.InsertPronunciation(row.PronunciationID, row.Pronunciation, row.Type)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load pronunciations: %w", err)
	}

	var wordCount int
	err = s.StreamWords(ctx, func(row store.WordRow) error {
		idx.InsertCharacters(row.WordID, row.Traditional, row.Simplified)
		wordCount++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}

	log.WithFields(logrus.Fields{
		"words":                  wordCount,
		"skipped_pronunciations": skipped,
	}).Info("search index built")

	return idx, nil
}
