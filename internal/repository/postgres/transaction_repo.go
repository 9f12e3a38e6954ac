package postgres

import (
	"context"
	"database/sql"
	"errors"

	"clubhub/internal/domain"
)

type transactionRepository struct {
	DB *sql.DB
}

func NewTransactionRepository(db *sql.DB) domain.TransactionRepository {
	return &transactionRepository{DB: db}
}

const transactionColumns = `id, family_id, gateway_id, amount_cents, purpose, status, created_at, updated_at`

func (r *transactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	query := `
		INSERT INTO transactions (family_id, gateway_id, amount_cents, purpose, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return dbtx(ctx, r.DB).QueryRowContext(ctx, query,
		t.FamilyID, t.GatewayID, t.AmountCents, t.Purpose, t.Status, t.CreatedAt, t.UpdatedAt).
		Scan(&t.ID)
}

func (r *transactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return scanTransaction(dbtx(ctx, r.DB).QueryRowContext(ctx, query, id))
}

func (r *transactionRepository) GetByGatewayID(ctx context.Context, gatewayID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE gateway_id = $1`
	return scanTransaction(dbtx(ctx, r.DB).QueryRowContext(ctx, query, gatewayID))
}

// Update only ever moves status; every other column is immutable after create.
func (r *transactionRepository) Update(ctx context.Context, t *domain.Transaction) error {
	query := `
		UPDATE transactions
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	res, err := dbtx(ctx, r.DB).ExecContext(ctx, query, t.Status, t.UpdatedAt, t.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanTransaction(row *sql.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(&t.ID, &t.FamilyID, &t.GatewayID, &t.AmountCents, &t.Purpose, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}
