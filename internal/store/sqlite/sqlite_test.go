package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/saltbo/cedictx/internal/entity"
	"github.com/saltbo/cedictx/internal/store"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	s, cleanup, err := Open(dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(cleanup)
	ctx := context.Background()
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return s
}

func TestImport_NormalisesOneEntry(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	entries := []entity.Entry{
		{Traditional: "好", Simplified: "好", Pinyin: "hao3", Jyutping: "hou2", Definition: "|good|well|"},
	}
	if err := s.Import(ctx, 1, entries, 0); err != nil {
		t.Fatalf("import: %v", err)
	}

	var words []store.WordRow
	if err := s.StreamWords(ctx, func(w store.WordRow) error { words = append(words, w); return nil }); err != nil {
		t.Fatalf("stream words: %v", err)
	}
	if len(words) != 1 || words[0].Traditional != "好" {
		t.Fatalf("got %+v", words)
	}

	var prons []store.PronunciationRow
	if err := s.StreamPronunciations(ctx, func(p store.PronunciationRow) error { prons = append(prons, p); return nil }); err != nil {
		t.Fatalf("stream pronunciations: %v", err)
	}
	if len(prons) != 2 {
		t.Fatalf("expected 2 pronunciations (pinyin + jyutping), got %+v", prons)
	}

	wordIDs, err := s.WordIDsForPronunciations(ctx, []int64{prons[0].PronunciationID, prons[1].PronunciationID})
	if err != nil {
		t.Fatalf("resolve pronunciations: %v", err)
	}
	if len(wordIDs) != 1 || wordIDs[0] != words[0].WordID {
		t.Fatalf("expected both pronunciations to resolve to the one word, got %v", wordIDs)
	}

	rows, err := s.HydrateWords(ctx, []int64{words[0].WordID})
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 hydration rows (one per pronunciation), got %+v", rows)
	}
	if rows[0].Definitions != "|good|well|" || rows[0].DictionaryID != 1 {
		t.Fatalf("got %+v", rows[0])
	}
}

func TestImport_EntryWithNoPronunciationIsDropped(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	entries := []entity.Entry{{Traditional: "甲", Simplified: "甲", Definition: "no pronunciation"}}
	if err := s.Import(ctx, 1, entries, 0); err != nil {
		t.Fatalf("import: %v", err)
	}

	var words []store.WordRow
	if err := s.StreamWords(ctx, func(w store.WordRow) error { words = append(words, w); return nil }); err != nil {
		t.Fatalf("stream words: %v", err)
	}
	if len(words) != 0 {
		t.Fatalf("expected an entry with no pronunciation to be dropped per the staging algorithm, got %+v", words)
	}
}

func TestImport_SharesWordAcrossDictionaries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	shared := entity.Entry{Traditional: "愛", Simplified: "爱", Pinyin: "ai4", Definition: "love"}
	if err := s.Import(ctx, 1, []entity.Entry{shared}, 0); err != nil {
		t.Fatalf("import dict 1: %v", err)
	}
	if err := s.Import(ctx, 2, []entity.Entry{shared}, 0); err != nil {
		t.Fatalf("import dict 2: %v", err)
	}

	var words []store.WordRow
	if err := s.StreamWords(ctx, func(w store.WordRow) error { words = append(words, w); return nil }); err != nil {
		t.Fatalf("stream words: %v", err)
	}
	if len(words) != 1 {
		t.Fatalf("expected the word to be shared across dictionaries, got %+v", words)
	}
}

func TestImport_ReplacesDictionaryContentAtomically(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := []entity.Entry{{Traditional: "一", Simplified: "一", Pinyin: "yi1", Definition: "one"}}
	if err := s.Import(ctx, 5, first, 0); err != nil {
		t.Fatalf("first import: %v", err)
	}

	second := []entity.Entry{{Traditional: "二", Simplified: "二", Pinyin: "er4", Definition: "two"}}
	if err := s.Import(ctx, 5, second, 0); err != nil {
		t.Fatalf("second import: %v", err)
	}

	// Words are never deleted, so both remain; only the second import's word
	// may still carry entries for dictionary 5.
	var words []store.WordRow
	if err := s.StreamWords(ctx, func(w store.WordRow) error { words = append(words, w); return nil }); err != nil {
		t.Fatalf("stream words: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("expected both words to survive the replacement, got %+v", words)
	}
	for _, w := range words {
		rows, err := s.HydrateWords(ctx, []int64{w.WordID})
		if err != nil {
			t.Fatalf("hydrate %q: %v", w.Traditional, err)
		}
		switch w.Traditional {
		case "一":
			if len(rows) != 0 {
				t.Fatalf("expected the first import's entries to be gone, got %+v", rows)
			}
		case "二":
			if len(rows) == 0 {
				t.Fatalf("expected the second import's entries to exist")
			}
		}
	}
}

func TestImport_BatchingDoesNotAffectResult(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	entries := []entity.Entry{
		{Traditional: "一", Simplified: "一", Pinyin: "yi1", Definition: "one"},
		{Traditional: "二", Simplified: "二", Pinyin: "er4", Definition: "two"},
		{Traditional: "三", Simplified: "三", Pinyin: "san1", Definition: "three"},
	}
	if err := s.Import(ctx, 1, entries, 1); err != nil {
		t.Fatalf("import with batch size 1: %v", err)
	}

	var words []store.WordRow
	if err := s.StreamWords(ctx, func(w store.WordRow) error { words = append(words, w); return nil }); err != nil {
		t.Fatalf("stream words: %v", err)
	}
	if len(words) != 3 {
		t.Fatalf("expected all 3 words regardless of batch size, got %+v", words)
	}
}
