package postgres

import (
	"context"
	"database/sql"
	"errors"

	"clubhub/internal/domain"
)

type enrollmentRequestRepository struct {
	DB *sql.DB
}

func NewEnrollmentRequestRepository(db *sql.DB) domain.EnrollmentRequestRepository {
	return &enrollmentRequestRepository{DB: db}
}

const enrollmentColumns = `id, dependant_id, family_id, club_id, status, rejection_reason, resolved_at, created_at`

// Create persists a new request. The table carries a partial unique index on
// (dependant_id, club_id) WHERE status = 'PENDING', which closes the race
// window between two concurrent duplicate requests that both passed the
// read-time check.
func (r *enrollmentRequestRepository) Create(ctx context.Context, req *domain.EnrollmentRequest) error {
	query := `
		INSERT INTO enrollment_requests (dependant_id, family_id, club_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := dbtx(ctx, r.DB).QueryRowContext(ctx, query,
		req.DependantID, req.FamilyID, req.ClubID, req.Status, req.CreatedAt).
		Scan(&req.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicatePendingEnrollment
		}
		return err
	}
	return nil
}

func (r *enrollmentRequestRepository) GetByID(ctx context.Context, id string) (*domain.EnrollmentRequest, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollment_requests WHERE id = $1`
	return scanEnrollment(dbtx(ctx, r.DB).QueryRowContext(ctx, query, id))
}

func (r *enrollmentRequestRepository) Update(ctx context.Context, req *domain.EnrollmentRequest) error {
	query := `
		UPDATE enrollment_requests
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

func (r *enrollmentRequestRepository) GetPendingByDependantAndClub(ctx context.Context, dependantID, clubID string) (*domain.EnrollmentRequest, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		FROM enrollment_requests
		WHERE dependant_id = $1 AND club_id = $2 AND status = 'PENDING'
	`
	return scanEnrollment(dbtx(ctx, r.DB).QueryRowContext(ctx, query, dependantID, clubID))
}

func (r *enrollmentRequestRepository) ListPendingByClubID(ctx context.Context, clubID string) ([]*domain.EnrollmentRequest, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		FROM enrollment_requests
		WHERE club_id = $1 AND status = 'PENDING'
		ORDER BY created_at
	`
	return r.list(ctx, query, clubID)
}

func (r *enrollmentRequestRepository) ListByFamilyID(ctx context.Context, familyID string) ([]*domain.EnrollmentRequest, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		FROM enrollment_requests
		WHERE family_id = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, familyID)
}

func (r *enrollmentRequestRepository) list(ctx context.Context, query string, args ...any) ([]*domain.EnrollmentRequest, error) {
	rows, err := dbtx(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []*domain.EnrollmentRequest
	for rows.Next() {
		req := &domain.EnrollmentRequest{}
		if err := rows.Scan(&req.ID, &req.DependantID, &req.FamilyID, &req.ClubID,
			&req.Status, &req.RejectionReason, &req.ResolvedAt, &req.CreatedAt); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if reqs == nil {
		reqs = []*domain.EnrollmentRequest{}
	}
	return reqs, nil
}

func scanEnrollment(row *sql.Row) (*domain.EnrollmentRequest, error) {
	req := &domain.EnrollmentRequest{}
	err := row.Scan(&req.ID, &req.DependantID, &req.FamilyID, &req.ClubID,
		&req.Status, &req.RejectionReason, &req.ResolvedAt, &req.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

type clubMembershipRepository struct {
	DB *sql.DB
}

func NewClubMembershipRepository(db *sql.DB) domain.ClubMembershipRepository {
	return &clubMembershipRepository{DB: db}
}

const membershipColumns = `id, club_id, dependant_id, family_id, status, created_at, updated_at`

func (r *clubMembershipRepository) Create(ctx context.Context, m *domain.ClubMembership) error {
	query := `
		INSERT INTO club_memberships (club_id, dependant_id, family_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return dbtx(ctx, r.DB).QueryRowContext(ctx, query,
		m.ClubID, m.DependantID, m.FamilyID, m.Status, m.CreatedAt, m.UpdatedAt).
		Scan(&m.ID)
}

func (r *clubMembershipRepository) GetActiveByDependantAndClub(ctx context.Context, dependantID, clubID string) (*domain.ClubMembership, error) {
	query := `
		SELECT ` + membershipColumns + `
		FROM club_memberships
		WHERE dependant_id = $1 AND club_id = $2 AND status = 'ACTIVE'
	`
	m := &domain.ClubMembership{}
	err := dbtx(ctx, r.DB).QueryRowContext(ctx, query, dependantID, clubID).
		Scan(&m.ID, &m.ClubID, &m.DependantID, &m.FamilyID, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *clubMembershipRepository) ListActiveByClubID(ctx context.Context, clubID string) ([]*domain.ClubMembership, error) {
	query := `
		SELECT ` + membershipColumns + `
		FROM club_memberships
		WHERE club_id = $1 AND status = 'ACTIVE'
		ORDER BY created_at
	`
	rows, err := dbtx(ctx, r.DB).QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.ClubMembership
	for rows.Next() {
		m := &domain.ClubMembership{}
		if err := rows.Scan(&m.ID, &m.ClubID, &m.DependantID, &m.FamilyID, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if members == nil {
		members = []*domain.ClubMembership{}
	}
	return members, nil
}

func (r *clubMembershipRepository) Update(ctx context.Context, m *domain.ClubMembership) error {
	query := `
		UPDATE club_memberships
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	res, err := dbtx(ctx, r.DB).ExecContext(ctx, query, m.Status, m.UpdatedAt, m.ID)
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
