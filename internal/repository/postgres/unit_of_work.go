package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"clubhub/internal/domain"
)

type unitOfWork struct {
	db *sql.DB
}

// NewUnitOfWork returns a UnitOfWork over the given database handle.
func NewUnitOfWork(db *sql.DB) domain.UnitOfWork {
	return &unitOfWork{db: db}
}

// Execute begins a transaction, injects it into the context, and runs fn.
// Every repository call made with the transactional context observes the same
// transaction. fn's error — domain or otherwise — propagates unchanged after
// rollback; begin/commit failures are wrapped as infrastructure errors.
// Nested Execute calls are not supported and fail immediately.
func (u *unitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := TxFromContext(ctx); ok {
		return fmt.Errorf("nested transactions are not supported")
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(ContextWithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
