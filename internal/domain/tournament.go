package domain

import (
	"context"
	"time"
)

// TournamentType distinguishes the event formats offered.
type TournamentType string

const (
	TournamentDebate TournamentType = "DEBATE"
	TournamentSpeech TournamentType = "SPEECH"
)

// Tournament is a competitive event with a registration window and fee.
// swagger:model Tournament
type Tournament struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Type              TournamentType `json:"type"`
	RegistrationStart time.Time      `json:"registration_start"`
	RegistrationEnd   time.Time      `json:"registration_end"`
	FeeCents          int            `json:"fee_cents"`
	CreatedAt         time.Time      `json:"created_at"`
}

// RegistrationOpen reports whether the registration window is open at now.
func (t *Tournament) RegistrationOpen(now time.Time) bool {
	return !now.Before(t.RegistrationStart) && now.Before(t.RegistrationEnd)
}

// RegistrationStatus is the state of a tournament registration.
type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "PENDING"
	RegistrationConfirmed RegistrationStatus = "CONFIRMED"
	RegistrationCancelled RegistrationStatus = "CANCELLED"
)

// Registration ties a competitor (dependant) to a tournament. It is the one
// versioned aggregate: cancellation races against confirmation, and a stale
// version surfaces as ErrConflict for the caller to refresh and retry.
// swagger:model Registration
type Registration struct {
	ID           string             `json:"id"`
	TournamentID string             `json:"tournament_id"`
	CompetitorID string             `json:"competitor_id"`
	Status       RegistrationStatus `json:"status"`
	Version      int                `json:"version"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// NewRegistration returns a new PENDING registration at version 1.
func NewRegistration(tournamentID, competitorID string, createdAt time.Time) *Registration {
	return &Registration{
		TournamentID: tournamentID,
		CompetitorID: competitorID,
		Status:       RegistrationPending,
		Version:      1,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

// Confirm transitions PENDING -> CONFIRMED.
func (r *Registration) Confirm(now time.Time) error {
	if r.Status != RegistrationPending {
		return errInvalidRegistrationTransition(r.Status)
	}
	r.Status = RegistrationConfirmed
	r.UpdatedAt = now
	return nil
}

// Cancel transitions PENDING or CONFIRMED -> CANCELLED.
func (r *Registration) Cancel(now time.Time) error {
	if r.Status == RegistrationCancelled {
		return errInvalidRegistrationTransition(r.Status)
	}
	r.Status = RegistrationCancelled
	r.UpdatedAt = now
	return nil
}

func errInvalidRegistrationTransition(s RegistrationStatus) error {
	return &registrationTransitionError{status: s}
}

type registrationTransitionError struct {
	status RegistrationStatus
}

func (e *registrationTransitionError) Error() string {
	return "invalid operation: registration is already " + string(e.status)
}

func (e *registrationTransitionError) Unwrap() error {
	return ErrInvalidOperation
}

// SyncStatus is the state of an outbound registration sync row.
type SyncStatus string

const (
	SyncPending SyncStatus = "PENDING"
	SyncDone    SyncStatus = "DONE"
	SyncFailed  SyncStatus = "FAILED"
)

// RegistrationSync records the asynchronous fan-out of a confirmed
// registration to downstream systems. Created PENDING by the consumer of
// registration-confirmed messages; keyed by registration so redelivery is
// idempotent.
type RegistrationSync struct {
	ID             string     `json:"id"`
	RegistrationID string     `json:"registration_id"`
	Status         SyncStatus `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TournamentRepository defines storage operations for tournaments.
type TournamentRepository interface {
	Create(ctx context.Context, t *Tournament) error
	GetByID(ctx context.Context, id string) (*Tournament, error)
	List(ctx context.Context) ([]*Tournament, error)
}

// RegistrationRepository defines storage operations for registrations.
// UpdateVersioned must fail with ErrConflict when the stored version differs
// from the expected one.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	GetByID(ctx context.Context, id string) (*Registration, error)
	GetByTournamentAndCompetitor(ctx context.Context, tournamentID, competitorID string) (*Registration, error)
	UpdateVersioned(ctx context.Context, reg *Registration, expectedVersion int) error
}

// RegistrationSyncRepository defines storage operations for sync rows.
type RegistrationSyncRepository interface {
	Create(ctx context.Context, s *RegistrationSync) error
	GetByRegistrationID(ctx context.Context, registrationID string) (*RegistrationSync, error)
}

// TournamentService defines tournament registration and its asynchronous
// confirmation fan-out.
type TournamentService interface {
	List(ctx context.Context) ([]*Tournament, error)
	Register(ctx context.Context, holderID, tournamentID, dependantID string) (*Registration, error)
	Confirm(ctx context.Context, registrationID string) (*Registration, error)
	Cancel(ctx context.Context, holderID, registrationID string, version int) (*Registration, error)
	// RecordConfirmationSync is the consumer-triggered half: it creates the
	// PENDING sync row for a confirmed registration, idempotently.
	RecordConfirmationSync(ctx context.Context, registrationID string) (*RegistrationSync, error)
}
