package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"clubhub/internal/domain"
)

type tournamentRepository struct {
	DB *sql.DB
}

func NewTournamentRepository(db *sql.DB) domain.TournamentRepository {
	return &tournamentRepository{DB: db}
}

func (r *tournamentRepository) Create(ctx context.Context, t *domain.Tournament) error {
	query := `
		INSERT INTO tournaments (name, type, registration_start, registration_end, fee_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return dbtx(ctx, r.DB).QueryRowContext(ctx, query,
		t.Name, t.Type, t.RegistrationStart, t.RegistrationEnd, t.FeeCents, t.CreatedAt).
		Scan(&t.ID)
}

func (r *tournamentRepository) GetByID(ctx context.Context, id string) (*domain.Tournament, error) {
	query := `
		SELECT id, name, type, registration_start, registration_end, fee_cents, created_at
		FROM tournaments
		WHERE id = $1
	`
	t := &domain.Tournament{}
	err := dbtx(ctx, r.DB).QueryRowContext(ctx, query, id).
		Scan(&t.ID, &t.Name, &t.Type, &t.RegistrationStart, &t.RegistrationEnd, &t.FeeCents, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *tournamentRepository) List(ctx context.Context) ([]*domain.Tournament, error) {
	query := `
		SELECT id, name, type, registration_start, registration_end, fee_cents, created_at
		FROM tournaments
		ORDER BY registration_start
	`
	rows, err := dbtx(ctx, r.DB).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*domain.Tournament
	for rows.Next() {
		t := &domain.Tournament{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Type, &t.RegistrationStart, &t.RegistrationEnd, &t.FeeCents, &t.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if list == nil {
		list = []*domain.Tournament{}
	}
	return list, nil
}

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{DB: db}
}

const registrationColumns = `id, tournament_id, competitor_id, status, version, created_at, updated_at`

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (tournament_id, competitor_id, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return dbtx(ctx, r.DB).QueryRowContext(ctx, query,
		reg.TournamentID, reg.CompetitorID, reg.Status, reg.Version, reg.CreatedAt, reg.UpdatedAt).
		Scan(&reg.ID)
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	return scanRegistration(dbtx(ctx, r.DB).QueryRowContext(ctx, query, id))
}

func (r *registrationRepository) GetByTournamentAndCompetitor(ctx context.Context, tournamentID, competitorID string) (*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE tournament_id = $1 AND competitor_id = $2
	`
	return scanRegistration(dbtx(ctx, r.DB).QueryRowContext(ctx, query, tournamentID, competitorID))
}

// UpdateVersioned writes the registration only if the stored row is still at
// expectedVersion, bumping the version as part of the same statement. Zero
// rows affected means a concurrent writer got there first: ErrConflict.
func (r *registrationRepository) UpdateVersioned(ctx context.Context, reg *domain.Registration, expectedVersion int) error {
	query := `
		UPDATE registrations
		SET status = $1, version = version + 1, updated_at = $2
		WHERE id = $3 AND version = $4
	`
	res, err := dbtx(ctx, r.DB).ExecContext(ctx, query, reg.Status, reg.UpdatedAt, reg.ID, expectedVersion)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: registration %s was modified concurrently", domain.ErrConflict, reg.ID)
	}
	reg.Version = expectedVersion + 1
	return nil
}

func scanRegistration(row *sql.Row) (*domain.Registration, error) {
	reg := &domain.Registration{}
	err := row.Scan(&reg.ID, &reg.TournamentID, &reg.CompetitorID, &reg.Status, &reg.Version, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

type registrationSyncRepository struct {
	DB *sql.DB
}

func NewRegistrationSyncRepository(db *sql.DB) domain.RegistrationSyncRepository {
	return &registrationSyncRepository{DB: db}
}

// Create inserts a PENDING sync row. registration_id is unique, so redelivered
// confirmation messages surface as a unique violation mapped to ErrConflict.
func (r *registrationSyncRepository) Create(ctx context.Context, s *domain.RegistrationSync) error {
	query := `
		INSERT INTO registration_syncs (registration_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := dbtx(ctx, r.DB).QueryRowContext(ctx, query, s.RegistrationID, s.Status, s.CreatedAt, s.UpdatedAt).
		Scan(&s.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *registrationSyncRepository) GetByRegistrationID(ctx context.Context, registrationID string) (*domain.RegistrationSync, error) {
	query := `
		SELECT id, registration_id, status, created_at, updated_at
		FROM registration_syncs
		WHERE registration_id = $1
	`
	s := &domain.RegistrationSync{}
	err := dbtx(ctx, r.DB).QueryRowContext(ctx, query, registrationID).
		Scan(&s.ID, &s.RegistrationID, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}
