package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/saltbo/cedictx/internal/entity"
	"github.com/saltbo/cedictx/internal/searchindex"
	"github.com/saltbo/cedictx/internal/store"
)

// fakeStore hands back canned hydration rows so handler tests never need a
// real database.
type fakeStore struct {
	pronWords map[int64][]int64
	hydration map[int64][]store.HydrationRow
}

func (f *fakeStore) EnsureSchema(ctx context.Context) error { return nil }

func (f *fakeStore) Import(ctx context.Context, dictionaryID int64, entries []entity.Entry, batchSize int) error {
	return nil
}

func (f *fakeStore) StreamWords(ctx context.Context, fn func(store.WordRow) error) error { return nil }

func (f *fakeStore) StreamPronunciations(ctx context.Context, fn func(store.PronunciationRow) error) error {
	return nil
}

func (f *fakeStore) WordIDsForPronunciations(ctx context.Context, pronunciationIDs []int64) ([]int64, error) {
	var out []int64
	for _, id := range pronunciationIDs {
		out = append(out, f.pronWords[id]...)
	}
	return out, nil
}

func (f *fakeStore) HydrateWords(ctx context.Context, wordIDs []int64) ([]store.HydrationRow, error) {
	var out []store.HydrationRow
	for _, id := range wordIDs {
		out = append(out, f.hydration[id]...)
	}
	return out, nil
}

func (f *fakeStore) Close() error { return nil }

func newTestHandler() (*Handler, *fakeStore) {
	idx := searchindex.New()
	idx.InsertCharacters(1, "好", "好")
	idx.InsertPronunciation(100, "hou2", entity.Jyutping)

	fs := &fakeStore{
		pronWords: map[int64][]int64{100: {1}},
		hydration: map[int64][]store.HydrationRow{
			1: {
				{
					WordID: 1, Traditional: "好", Simplified: "好",
					EntryID: 10, DictionaryID: 1, Definitions: "good",
					HasPronunciation: true, PronunciationType: entity.Jyutping, Pronunciation: "hou2",
				},
			},
		},
	}

	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewHandler(idx, fs, log, 4), fs
}

func TestSearchCharacters_ReturnsHydratedWordResult(t *testing.T) {
	h, _ := newTestHandler()
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/search/characters/好")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var results []WordResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1: %+v", len(results), results)
	}
	if results[0].Traditional != "好" {
		t.Fatalf("traditional = %q", results[0].Traditional)
	}
	entries := results[0].Entries[1]
	if len(entries) != 1 || entries[0].Definitions != "good" {
		t.Fatalf("entries = %+v", entries)
	}
	if prons := entries[0].Pronunciations[entity.Jyutping]; len(prons) != 1 || prons[0] != "hou2" {
		t.Fatalf("pronunciations = %+v", entries[0].Pronunciations)
	}
}

func TestSearchCharacters_InvalidInputIs400(t *testing.T) {
	h, _ := newTestHandler()
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	// A literal '?' would start the query string, so it has to travel escaped.
	resp, err := http.Get(srv.URL + "/search/characters/%3F")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message == "" {
		t.Fatalf("expected a non-empty error message")
	}
}

func TestSearchJyutping_ResolvesPronunciationToWord(t *testing.T) {
	h, _ := newTestHandler()
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/search/jyutping/hou2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var results []WordResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 1 || results[0].Traditional != "好" {
		t.Fatalf("got %+v, want the word owning pronunciation hou2", results)
	}
}

func TestSearchPinyin_NoMatches_ReturnsEmptyList(t *testing.T) {
	h, _ := newTestHandler()
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/search/pinyin/hao3")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var results []WordResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("got %d results, want 0: %+v", len(results), results)
	}
}

func TestGetWord_HydratesDirectly(t *testing.T) {
	h, _ := newTestHandler()
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/word/1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var result WordResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Simplified != "好" {
		t.Fatalf("simplified = %q", result.Simplified)
	}
}

func TestGetWord_UnknownID_Is400(t *testing.T) {
	h, _ := newTestHandler()
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/word/999")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
