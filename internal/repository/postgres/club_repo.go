package postgres

import (
	"context"
	"database/sql"
	"errors"

	"clubhub/internal/domain"
)

type clubRepository struct {
	DB *sql.DB
}

func NewClubRepository(db *sql.DB) domain.ClubRepository {
	return &clubRepository{DB: db}
}

const clubColumns = `id, name, principal_id, street, city, state, zip_code, max_members, created_at, updated_at`

func (r *clubRepository) Create(ctx context.Context, c *domain.Club) error {
	query := `
		INSERT INTO clubs (name, principal_id, street, city, state, zip_code, max_members, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	return dbtx(ctx, r.DB).QueryRowContext(ctx, query,
		c.Name, c.PrincipalID, c.Address.Street, c.Address.City, c.Address.State, c.Address.ZipCode,
		c.MaxMembers, c.CreatedAt, c.UpdatedAt).
		Scan(&c.ID)
}

func (r *clubRepository) GetByID(ctx context.Context, id string) (*domain.Club, error) {
	query := `SELECT ` + clubColumns + ` FROM clubs WHERE id = $1`
	return scanClub(dbtx(ctx, r.DB).QueryRowContext(ctx, query, id))
}

func (r *clubRepository) GetByPrincipalID(ctx context.Context, principalID string) (*domain.Club, error) {
	query := `SELECT ` + clubColumns + ` FROM clubs WHERE principal_id = $1`
	return scanClub(dbtx(ctx, r.DB).QueryRowContext(ctx, query, principalID))
}

func (r *clubRepository) Update(ctx context.Context, c *domain.Club) error {
	query := `
		UPDATE clubs
		SET name = $1, street = $2, city = $3, state = $4, zip_code = $5, max_members = $6, updated_at = $7
		WHERE id = $8
	`
	res, err := dbtx(ctx, r.DB).ExecContext(ctx, query,
		c.Name, c.Address.Street, c.Address.City, c.Address.State, c.Address.ZipCode,
		c.MaxMembers, c.UpdatedAt, c.ID)
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

func (r *clubRepository) Search(ctx context.Context, filter domain.ClubSearchFilter) ([]*domain.Club, error) {
	query := `
		SELECT ` + clubColumns + `
		FROM clubs
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR city ILIKE $2)
		ORDER BY name
		LIMIT $3 OFFSET $4
	`
	limit := filter.PageSize
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}
	rows, err := dbtx(ctx, r.DB).QueryContext(ctx, query, filter.Name, filter.City, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clubs []*domain.Club
	for rows.Next() {
		c := &domain.Club{}
		if err := rows.Scan(&c.ID, &c.Name, &c.PrincipalID,
			&c.Address.Street, &c.Address.City, &c.Address.State, &c.Address.ZipCode,
			&c.MaxMembers, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		clubs = append(clubs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if clubs == nil {
		clubs = []*domain.Club{}
	}
	return clubs, nil
}

func (r *clubRepository) CountActiveMembers(ctx context.Context, clubID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM club_memberships
		WHERE club_id = $1 AND status = 'ACTIVE'
	`
	var count int
	if err := dbtx(ctx, r.DB).QueryRowContext(ctx, query, clubID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanClub(row *sql.Row) (*domain.Club, error) {
	c := &domain.Club{}
	err := row.Scan(&c.ID, &c.Name, &c.PrincipalID,
		&c.Address.Street, &c.Address.City, &c.Address.State, &c.Address.ZipCode,
		&c.MaxMembers, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}
