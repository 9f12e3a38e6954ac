package domain

import "errors"

// Sentinel errors shared across aggregates. Services and repositories return
// these (possibly wrapped with %w) so that boundaries — HTTP controllers and
// the queue consumer — can apply a single mapping table.
var (
	// ErrNotFound means the referenced aggregate does not exist. Queue
	// consumers treat it as an orphan message and discard rather than retry.
	ErrNotFound = errors.New("not found")

	// ErrInvalidOperation means a state-machine precondition was violated,
	// e.g. approving an already-resolved request or exceeding club capacity.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrInvalidInput means a value failed validation before any state change.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden means the caller lacks authorization over the target
	// aggregate, e.g. acting on a club they are not the principal of.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthorized means missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict means a concurrent modification was detected on a versioned
	// aggregate. Callers should reload and retry; it is never retried server-side.
	ErrConflict = errors.New("conflict")
)
