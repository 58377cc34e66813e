// Package httpapi is the thin JSON adapter over the search engine: it runs
// the in-memory search synchronously, then offloads relational hydration to
// a bounded blocking worker pool so request-serving goroutines are never
// stalled on the database.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"

	"github.com/saltbo/cedictx/internal/entity"
	"github.com/saltbo/cedictx/internal/searchindex"
	"github.com/saltbo/cedictx/internal/store"
)

// Handler wires the in-memory search index to the persistent store behind
// the search and word-lookup routes. It is immutable after construction and
// safe for concurrent use: the index never mutates once built and the worker
// pool accepts concurrent Go() calls.
type Handler struct {
	index *searchindex.Index
	store store.Store
	pool  *pool.Pool
	log   *logrus.Logger
}

// NewHandler builds a Handler. maxWorkers bounds how many hydration queries
// may be in flight against the store at once, independent of how many HTTP
// requests are concurrently being served.
func NewHandler(index *searchindex.Index, s store.Store, log *logrus.Logger, maxWorkers int) *Handler {
	if maxWorkers <= 0 {
		maxWorkers = 10
	}
	return &Handler{
		index: index,
		store: s,
		pool:  pool.New().WithMaxGoroutines(maxWorkers),
		log:   log,
	}
}

// Routes returns the ServeMux carrying the four endpoints.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search/jyutping/{query}", h.searchPronunciation(entity.Jyutping))
	mux.HandleFunc("GET /search/pinyin/{query}", h.searchPronunciation(entity.Pinyin))
	mux.HandleFunc("GET /search/characters/{query}", h.searchCharacters)
	mux.HandleFunc("GET /word/{word_id}", h.getWord)
	return mux
}

// searchPronunciation builds the shared handler body behind both the
// /search/jyutping and /search/pinyin routes; only the routing layer differs.
func (h *Handler) searchPronunciation(t entity.PronunciationType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.PathValue("query")

		pronunciationIDs, err := h.index.SearchPronunciation(query, t)
		if err != nil {
			h.writeError(w, err)
			return
		}

		// Pronunciation hits name word_pronunciation rows; the owning word
		// ids are resolved inside the same blocking job as the hydration.
		rows, err := h.runBlocking(r, func(ctx context.Context) ([]store.HydrationRow, error) {
			wordIDs, err := h.store.WordIDsForPronunciations(ctx, pronunciationIDs)
			if err != nil {
				return nil, err
			}
			return h.store.HydrateWords(ctx, wordIDs)
		})
		if err != nil {
			h.writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, buildWordResults(rows))
	}
}

func (h *Handler) searchCharacters(w http.ResponseWriter, r *http.Request) {
	query := r.PathValue("query")

	ids, err := h.index.SearchCharacters(query)
	if err != nil {
		h.writeError(w, err)
		return
	}

	rows, err := h.hydrate(r, ids)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, buildWordResults(rows))
}

func (h *Handler) getWord(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("word_id")
	wordID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.writeError(w, fmt.Errorf("%w: word_id %q is not an integer", entity.ErrInvalidInput, raw))
		return
	}

	rows, err := h.hydrate(r, []int64{wordID})
	if err != nil {
		h.writeError(w, err)
		return
	}

	results := buildWordResults(rows)
	if len(results) == 0 {
		h.writeError(w, fmt.Errorf("%w: word %d not found", entity.ErrInvalidInput, wordID))
		return
	}
	writeJSON(w, http.StatusOK, results[0])
}

// hydrate loads the full result rows for a set of word ids on the worker
// pool.
func (h *Handler) hydrate(r *http.Request, wordIDs []int64) ([]store.HydrationRow, error) {
	if len(wordIDs) == 0 {
		return nil, nil
	}
	return h.runBlocking(r, func(ctx context.Context) ([]store.HydrationRow, error) {
		return h.store.HydrateWords(ctx, wordIDs)
	})
}

// runBlocking dispatches fn to the bounded worker pool and awaits it. If the
// request's context is cancelled first, the dispatched job is left to
// complete and its result discarded rather than synchronised with.
func (h *Handler) runBlocking(r *http.Request, fn func(ctx context.Context) ([]store.HydrationRow, error)) ([]store.HydrationRow, error) {
	type result struct {
		rows []store.HydrationRow
		err  error
	}
	done := make(chan result, 1)
	ctx := r.Context()

	h.pool.Go(func() {
		rows, err := fn(ctx)
		done <- result{rows: rows, err: err}
	})

	select {
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrDatabase, res.err)
		}
		return res.rows, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", entity.ErrInternal, ctx.Err())
	}
}

type errorBody struct {
	Message string `json:"message"`
}

// writeError maps the domain error kinds onto HTTP status codes:
// InvalidInput -> 400, Database and Internal -> 500. Server-side failures
// are logged; client mistakes are not.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, entity.ErrInvalidInput) {
		status = http.StatusBadRequest
	} else {
		h.log.WithError(err).Error("request failed")
	}
	writeJSON(w, status, errorBody{Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
