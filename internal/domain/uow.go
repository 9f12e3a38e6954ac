package domain

import "context"

// UnitOfWork brackets a use-case's repository writes in a single transaction.
// Execute runs fn with a transactional context: every repository call made
// with that context observes one transaction boundary. If fn returns an
// error, all writes are rolled back and the original error propagates
// unchanged; if fn returns nil, all writes commit atomically before Execute
// returns. Nested Execute calls are not supported.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}
