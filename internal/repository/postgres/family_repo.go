package postgres

import (
	"context"
	"database/sql"
	"errors"

	"clubhub/internal/domain"
)

type familyRepository struct {
	DB *sql.DB
}

func NewFamilyRepository(db *sql.DB) domain.FamilyRepository {
	return &familyRepository{DB: db}
}

func (r *familyRepository) Create(ctx context.Context, f *domain.Family) error {
	query := `
		INSERT INTO families (holder_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := dbtx(ctx, r.DB).QueryRowContext(ctx, query, f.HolderID, f.Status, f.CreatedAt, f.UpdatedAt).
		Scan(&f.ID)
	if err != nil {
		// holder_id carries a unique constraint: one family per holder.
		if isUniqueViolation(err) {
			return domain.ErrHolderHasFamily
		}
		return err
	}
	return nil
}

func (r *familyRepository) GetByID(ctx context.Context, id string) (*domain.Family, error) {
	query := `
		SELECT id, holder_id, status, created_at, updated_at
		FROM families
		WHERE id = $1
	`
	return r.getFamily(ctx, query, id)
}

func (r *familyRepository) GetByHolderID(ctx context.Context, holderID string) (*domain.Family, error) {
	query := `
		SELECT id, holder_id, status, created_at, updated_at
		FROM families
		WHERE holder_id = $1
	`
	return r.getFamily(ctx, query, holderID)
}

func (r *familyRepository) getFamily(ctx context.Context, query, arg string) (*domain.Family, error) {
	q := dbtx(ctx, r.DB)
	f := &domain.Family{}
	err := q.QueryRowContext(ctx, query, arg).
		Scan(&f.ID, &f.HolderID, &f.Status, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	deps, err := r.listDependants(ctx, q, f.ID)
	if err != nil {
		return nil, err
	}
	f.Dependants = deps
	return f, nil
}

func (r *familyRepository) listDependants(ctx context.Context, q querier, familyID string) ([]*domain.Dependant, error) {
	query := `
		SELECT id, family_id, first_name, last_name, birth_date, created_at
		FROM dependants
		WHERE family_id = $1
		ORDER BY created_at
	`
	rows, err := q.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deps []*domain.Dependant
	for rows.Next() {
		d := &domain.Dependant{}
		if err := rows.Scan(&d.ID, &d.FamilyID, &d.FirstName, &d.LastName, &d.BirthDate, &d.CreatedAt); err != nil {
			return nil, err
		}
		deps = append(deps, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if deps == nil {
		deps = []*domain.Dependant{}
	}
	return deps, nil
}

func (r *familyRepository) Update(ctx context.Context, f *domain.Family) error {
	query := `
		UPDATE families
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	res, err := dbtx(ctx, r.DB).ExecContext(ctx, query, f.Status, f.UpdatedAt, f.ID)
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

func (r *familyRepository) AddDependant(ctx context.Context, d *domain.Dependant) error {
	query := `
		INSERT INTO dependants (family_id, first_name, last_name, birth_date, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return dbtx(ctx, r.DB).QueryRowContext(ctx, query, d.FamilyID, d.FirstName, d.LastName, d.BirthDate, d.CreatedAt).
		Scan(&d.ID)
}
