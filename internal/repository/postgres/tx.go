package postgres

import (
	"context"
	"database/sql"
)

// querier is the subset of *sql.DB and *sql.Tx the repositories use. Each
// repository resolves its querier from the context, so the same repository
// instance works inside and outside a unit-of-work transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txContextKey struct{}

// ContextWithTx returns a context carrying an open transaction. Repositories
// called with it route all statements through that transaction.
func ContextWithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// TxFromContext returns the transaction carried by the context, if any.
func TxFromContext(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txContextKey{}).(*sql.Tx)
	return tx, ok
}

// dbtx resolves the active querier: the context's transaction when present,
// the raw handle otherwise.
func dbtx(ctx context.Context, db *sql.DB) querier {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return db
}
