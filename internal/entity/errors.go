package entity

import "errors"

// The three error kinds the system surfaces, per the error handling design:
// InvalidInput maps to HTTP 400, Database and Internal both map to 500. Call
// sites compare with errors.Is; wrap with fmt.Errorf("...: %w", ErrXxx) to add
// context without losing the sentinel.
var (
	// ErrInvalidInput is returned when a search query fails to tokenise or
	// carries no broad-filter anchor (empty or all-wildcard).
	ErrInvalidInput = errors.New("invalid input")

	// ErrDatabase wraps any failure surfaced by the persistent store.
	ErrDatabase = errors.New("database error")

	// ErrInternal covers worker-pool cancellation and other infrastructure
	// faults that are not the caller's fault and not a database failure.
	ErrInternal = errors.New("internal error")
)

// ErrParse is returned by the corpus parser when a non-blank line does not
// match the ENTRY grammar. It is fatal to an importer run: no partial import
// is ever committed.
var ErrParse = errors.New("parse error")
