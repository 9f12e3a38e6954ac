package postgres

import (
	"context"
	"database/sql"
	"errors"

	"clubhub/internal/domain"
)

type clubRequestRepository struct {
	DB *sql.DB
}

func NewClubRequestRepository(db *sql.DB) domain.ClubRequestRepository {
	return &clubRequestRepository{DB: db}
}

const clubRequestColumns = `id, requester_id, club_name, street, city, state, zip_code, max_members, status, rejection_reason, resolved_at, created_at`

func (r *clubRequestRepository) Create(ctx context.Context, req *domain.ClubRequest) error {
	query := `
		INSERT INTO club_requests (requester_id, club_name, street, city, state, zip_code, max_members, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	return dbtx(ctx, r.DB).QueryRowContext(ctx, query,
		req.RequesterID, req.ClubName,
		req.Address.Street, req.Address.City, req.Address.State, req.Address.ZipCode,
		req.MaxMembers, req.Status, req.CreatedAt).
		Scan(&req.ID)
}

func (r *clubRequestRepository) GetByID(ctx context.Context, id string) (*domain.ClubRequest, error) {
	query := `SELECT ` + clubRequestColumns + ` FROM club_requests WHERE id = $1`
	req := &domain.ClubRequest{}
	err := dbtx(ctx, r.DB).QueryRowContext(ctx, query, id).Scan(
		&req.ID, &req.RequesterID, &req.ClubName,
		&req.Address.Street, &req.Address.City, &req.Address.State, &req.Address.ZipCode,
		&req.MaxMembers, &req.Status, &req.RejectionReason, &req.ResolvedAt, &req.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *clubRequestRepository) Update(ctx context.Context, req *domain.ClubRequest) error {
	query := `
		UPDATE club_requests
		SET status = $1, rejection_reason = $2, resolved_at = $3
		WHERE id = $4
	`
	res, err := dbtx(ctx, r.DB).ExecContext(ctx, query, req.Status, req.RejectionReason, req.ResolvedAt, req.ID)
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

func (r *clubRequestRepository) ListPending(ctx context.Context) ([]*domain.ClubRequest, error) {
	query := `SELECT ` + clubRequestColumns + ` FROM club_requests WHERE status = 'PENDING' ORDER BY created_at`
	return r.list(ctx, query)
}

func (r *clubRequestRepository) ListByRequesterID(ctx context.Context, requesterID string) ([]*domain.ClubRequest, error) {
	query := `SELECT ` + clubRequestColumns + ` FROM club_requests WHERE requester_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, requesterID)
}

func (r *clubRequestRepository) list(ctx context.Context, query string, args ...any) ([]*domain.ClubRequest, error) {
	rows, err := dbtx(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []*domain.ClubRequest
	for rows.Next() {
		req := &domain.ClubRequest{}
		if err := rows.Scan(
			&req.ID, &req.RequesterID, &req.ClubName,
			&req.Address.Street, &req.Address.City, &req.Address.State, &req.Address.ZipCode,
			&req.MaxMembers, &req.Status, &req.RejectionReason, &req.ResolvedAt, &req.CreatedAt); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if reqs == nil {
		reqs = []*domain.ClubRequest{}
	}
	return reqs, nil
}
