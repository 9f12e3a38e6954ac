package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clubhub/internal/domain"
)

type tournamentService struct {
	tournamentRepo domain.TournamentRepository
	regRepo        domain.RegistrationRepository
	syncRepo       domain.RegistrationSyncRepository
	familyRepo     domain.FamilyRepository
	publisher      domain.EventPublisher
	logger         *slog.Logger
}

// NewTournamentService creates a TournamentService with the given
// repositories and event publisher.
func NewTournamentService(
	tournamentRepo domain.TournamentRepository,
	regRepo domain.RegistrationRepository,
	syncRepo domain.RegistrationSyncRepository,
	familyRepo domain.FamilyRepository,
	publisher domain.EventPublisher,
	logger *slog.Logger,
) domain.TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		regRepo:        regRepo,
		syncRepo:       syncRepo,
		familyRepo:     familyRepo,
		publisher:      publisher,
		logger:         logger,
	}
}

func (s *tournamentService) List(ctx context.Context) ([]*domain.Tournament, error) {
	return s.tournamentRepo.List(ctx)
}

func (s *tournamentService) Register(ctx context.Context, holderID, tournamentID, dependantID string) (*domain.Registration, error) {
	family, err := s.familyRepo.GetByHolderID(ctx, holderID)
	if err != nil {
		return nil, fmt.Errorf("get family: %w", err)
	}
	if !family.Owns(dependantID) {
		return nil, domain.ErrForbidden
	}
	if !family.IsAffiliated() {
		return nil, domain.ErrNotAffiliated
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("get tournament: %w", err)
	}
	now := time.Now()
	if !tournament.RegistrationOpen(now) {
		return nil, fmt.Errorf("%w: registration window is closed", domain.ErrInvalidOperation)
	}

	if _, err := s.regRepo.GetByTournamentAndCompetitor(ctx, tournamentID, dependantID); err == nil {
		return nil, fmt.Errorf("%w: competitor is already registered", domain.ErrInvalidOperation)
	} else if err != domain.ErrNotFound {
		return nil, fmt.Errorf("check registration: %w", err)
	}

	reg := domain.NewRegistration(tournamentID, dependantID, now)
	if err := s.regRepo.Create(ctx, reg); err != nil {
		return nil, fmt.Errorf("create registration: %w", err)
	}
	return reg, nil
}

// Confirm transitions a registration to CONFIRMED and relays the confirmation
// to the sync consumer. As with club-request approval, the event goes out only
// after the state change is durably persisted.
func (s *tournamentService) Confirm(ctx context.Context, registrationID string) (*domain.Registration, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, fmt.Errorf("get registration: %w", err)
	}

	expected := reg.Version
	if err := reg.Confirm(time.Now()); err != nil {
		return nil, err
	}
	if err := s.regRepo.UpdateVersioned(ctx, reg, expected); err != nil {
		return nil, err
	}

	event := domain.RegistrationConfirmedEvent{
		RegistrationID: reg.ID,
		TournamentID:   reg.TournamentID,
		CompetitorID:   reg.CompetitorID,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		return nil, fmt.Errorf("publish confirmation event: %w", err)
	}
	return reg, nil
}

// Cancel applies an optimistic-lock cancellation: the caller supplies the
// version it last read, and a stale version surfaces as ErrConflict telling
// the caller to refresh and retry. The conflict is never retried server-side.
func (s *tournamentService) Cancel(ctx context.Context, holderID, registrationID string, version int) (*domain.Registration, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, fmt.Errorf("get registration: %w", err)
	}

	family, err := s.familyRepo.GetByHolderID(ctx, holderID)
	if err != nil {
		return nil, fmt.Errorf("get family: %w", err)
	}
	if !family.Owns(reg.CompetitorID) {
		return nil, domain.ErrForbidden
	}

	if err := reg.Cancel(time.Now()); err != nil {
		return nil, err
	}
	if err := s.regRepo.UpdateVersioned(ctx, reg, version); err != nil {
		return nil, err
	}
	return reg, nil
}

// RecordConfirmationSync is the consumer-triggered half of the confirmation
// fan-out: it creates the PENDING sync row for a confirmed registration.
// Redelivery is idempotent: an existing row is returned as-is.
func (s *tournamentService) RecordConfirmationSync(ctx context.Context, registrationID string) (*domain.RegistrationSync, error) {
	if _, err := s.regRepo.GetByID(ctx, registrationID); err != nil {
		// ErrNotFound marks the message as an orphan for the consumer.
		return nil, fmt.Errorf("get registration: %w", err)
	}

	if existing, err := s.syncRepo.GetByRegistrationID(ctx, registrationID); err == nil {
		return existing, nil
	} else if err != domain.ErrNotFound {
		return nil, fmt.Errorf("check sync row: %w", err)
	}

	now := time.Now()
	sync := &domain.RegistrationSync{
		RegistrationID: registrationID,
		Status:         domain.SyncPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.syncRepo.Create(ctx, sync); err != nil {
		// A concurrent redelivery created the row between the check and the
		// insert; read it back instead of failing.
		if err == domain.ErrConflict {
			return s.syncRepo.GetByRegistrationID(ctx, registrationID)
		}
		return nil, fmt.Errorf("create sync row: %w", err)
	}

	s.logger.InfoContext(ctx, "registration sync recorded", "registration_id", registrationID)
	return sync, nil
}
