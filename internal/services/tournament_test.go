package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"clubhub/internal/domain"
)

func openTournament() *domain.Tournament {
	now := time.Now()
	return &domain.Tournament{
		ID:                "t1",
		Name:              "Spring Open",
		Type:              domain.TournamentDebate,
		RegistrationStart: now.Add(-time.Hour),
		RegistrationEnd:   now.Add(time.Hour),
		FeeCents:          5000,
	}
}

func TestTournamentService_Register(t *testing.T) {
	dep := &domain.Dependant{ID: "d1", FamilyID: "fam-u1"}

	tests := []struct {
		name        string
		tournament  *domain.Tournament
		family      *domain.Family
		dependantID string
		existing    bool
		wantErr     error
	}{
		{name: "success", tournament: openTournament(), family: affiliatedFamily("u1", dep), dependantID: "d1"},
		{name: "dependant of another family", tournament: openTournament(), family: affiliatedFamily("u1", dep), dependantID: "d2", wantErr: domain.ErrForbidden},
		{name: "family not affiliated", tournament: openTournament(), family: unaffiliatedFamily("u1", dep), dependantID: "d1", wantErr: domain.ErrNotAffiliated},
		{
			name: "registration window closed",
			tournament: &domain.Tournament{
				ID:                "t1",
				RegistrationStart: time.Now().Add(-2 * time.Hour),
				RegistrationEnd:   time.Now().Add(-time.Hour),
			},
			family:      affiliatedFamily("u1", dep),
			dependantID: "d1",
			wantErr:     domain.ErrInvalidOperation,
		},
		{name: "already registered", tournament: openTournament(), family: affiliatedFamily("u1", dep), dependantID: "d1", existing: true, wantErr: domain.ErrInvalidOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			regRepo := &mockRegistrationRepo{byKey: map[string]*domain.Registration{}}
			if tt.existing {
				regRepo.byKey["t1:d1"] = &domain.Registration{ID: "r0", Status: domain.RegistrationPending}
			}
			svc := &tournamentService{
				tournamentRepo: &mockTournamentRepo{tournaments: map[string]*domain.Tournament{"t1": tt.tournament}},
				regRepo:        regRepo,
				familyRepo:     &mockFamilyRepo{byHolder: map[string]*domain.Family{"u1": tt.family}},
				publisher:      &mockPublisher{},
				logger:         testLogger(),
			}

			reg, err := svc.Register(context.Background(), "u1", "t1", tt.dependantID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if len(regRepo.created) != 0 {
					t.Fatal("no registration may be persisted on failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if reg.Status != domain.RegistrationPending || reg.Version != 1 {
				t.Errorf("expected PENDING at version 1, got %s v%d", reg.Status, reg.Version)
			}
		})
	}
}

func TestTournamentService_Confirm(t *testing.T) {
	t.Run("publishes only after the confirmation is persisted", func(t *testing.T) {
		reg := &domain.Registration{ID: "r1", TournamentID: "t1", CompetitorID: "d1", Status: domain.RegistrationPending, Version: 1}
		regRepo := &mockRegistrationRepo{regs: map[string]*domain.Registration{"r1": reg}}
		publisher := &mockPublisher{}
		var persistedBeforePublish bool
		publisher.onPublish = func(e domain.Event) {
			persistedBeforePublish = len(regRepo.versions) == 1
		}
		svc := &tournamentService{
			regRepo:   regRepo,
			publisher: publisher,
			logger:    testLogger(),
		}

		got, err := svc.Confirm(context.Background(), "r1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != domain.RegistrationConfirmed || got.Version != 2 {
			t.Errorf("expected CONFIRMED at version 2, got %s v%d", got.Status, got.Version)
		}
		if !persistedBeforePublish {
			t.Error("event must be published after the versioned write")
		}
		ev, ok := publisher.events[0].(domain.RegistrationConfirmedEvent)
		if !ok {
			t.Fatalf("unexpected event type %T", publisher.events[0])
		}
		if ev.RegistrationID != "r1" || ev.TournamentID != "t1" || ev.CompetitorID != "d1" {
			t.Errorf("unexpected event payload: %+v", ev)
		}
	})

	t.Run("concurrent writer surfaces as conflict", func(t *testing.T) {
		reg := &domain.Registration{ID: "r1", Status: domain.RegistrationPending, Version: 1}
		regRepo := &mockRegistrationRepo{regs: map[string]*domain.Registration{"r1": reg}, stale: true}
		publisher := &mockPublisher{}
		svc := &tournamentService{regRepo: regRepo, publisher: publisher, logger: testLogger()}

		_, err := svc.Confirm(context.Background(), "r1")
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
		if len(publisher.events) != 0 {
			t.Error("no event may be published on a conflicting write")
		}
	})

	t.Run("cancelled registration cannot be confirmed", func(t *testing.T) {
		reg := &domain.Registration{ID: "r1", Status: domain.RegistrationCancelled, Version: 2}
		svc := &tournamentService{
			regRepo:   &mockRegistrationRepo{regs: map[string]*domain.Registration{"r1": reg}},
			publisher: &mockPublisher{},
			logger:    testLogger(),
		}
		_, err := svc.Confirm(context.Background(), "r1")
		if !errors.Is(err, domain.ErrInvalidOperation) {
			t.Fatalf("expected ErrInvalidOperation, got %v", err)
		}
	})
}

func TestTournamentService_Cancel(t *testing.T) {
	dep := &domain.Dependant{ID: "d1", FamilyID: "fam-u1"}

	t.Run("stale version surfaces as conflict for the caller to retry", func(t *testing.T) {
		reg := &domain.Registration{ID: "r1", CompetitorID: "d1", Status: domain.RegistrationConfirmed, Version: 3}
		regRepo := &mockRegistrationRepo{regs: map[string]*domain.Registration{"r1": reg}, stale: true}
		svc := &tournamentService{
			regRepo:    regRepo,
			familyRepo: &mockFamilyRepo{byHolder: map[string]*domain.Family{"u1": affiliatedFamily("u1", dep)}},
			logger:     testLogger(),
		}

		_, err := svc.Cancel(context.Background(), "u1", "r1", 2)
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
		if len(regRepo.versions) != 1 || regRepo.versions[0] != 2 {
			t.Errorf("caller version must be used in the conditional write, got %v", regRepo.versions)
		}
	})

	t.Run("success with matching version", func(t *testing.T) {
		reg := &domain.Registration{ID: "r1", CompetitorID: "d1", Status: domain.RegistrationConfirmed, Version: 2}
		regRepo := &mockRegistrationRepo{regs: map[string]*domain.Registration{"r1": reg}}
		svc := &tournamentService{
			regRepo:    regRepo,
			familyRepo: &mockFamilyRepo{byHolder: map[string]*domain.Family{"u1": affiliatedFamily("u1", dep)}},
			logger:     testLogger(),
		}

		got, err := svc.Cancel(context.Background(), "u1", "r1", 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != domain.RegistrationCancelled || got.Version != 3 {
			t.Errorf("expected CANCELLED at version 3, got %s v%d", got.Status, got.Version)
		}
	})

	t.Run("holder cannot cancel another family's registration", func(t *testing.T) {
		reg := &domain.Registration{ID: "r1", CompetitorID: "someone-elses-kid", Status: domain.RegistrationPending, Version: 1}
		svc := &tournamentService{
			regRepo:    &mockRegistrationRepo{regs: map[string]*domain.Registration{"r1": reg}},
			familyRepo: &mockFamilyRepo{byHolder: map[string]*domain.Family{"u1": affiliatedFamily("u1", dep)}},
			logger:     testLogger(),
		}
		_, err := svc.Cancel(context.Background(), "u1", "r1", 1)
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})
}

func TestTournamentService_RecordConfirmationSync(t *testing.T) {
	confirmed := &domain.Registration{ID: "r1", Status: domain.RegistrationConfirmed, Version: 2}

	t.Run("creates a pending sync row", func(t *testing.T) {
		syncRepo := &mockSyncRepo{byReg: map[string]*domain.RegistrationSync{}}
		svc := &tournamentService{
			regRepo:  &mockRegistrationRepo{regs: map[string]*domain.Registration{"r1": confirmed}},
			syncRepo: syncRepo,
			logger:   testLogger(),
		}

		sync, err := svc.RecordConfirmationSync(context.Background(), "r1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sync.Status != domain.SyncPending || sync.RegistrationID != "r1" {
			t.Errorf("unexpected sync row: %+v", sync)
		}
		if len(syncRepo.created) != 1 {
			t.Errorf("expected one sync row, got %d", len(syncRepo.created))
		}
	})

	t.Run("redelivery returns the existing row", func(t *testing.T) {
		existing := &domain.RegistrationSync{ID: "s1", RegistrationID: "r1", Status: domain.SyncDone}
		syncRepo := &mockSyncRepo{byReg: map[string]*domain.RegistrationSync{"r1": existing}}
		svc := &tournamentService{
			regRepo:  &mockRegistrationRepo{regs: map[string]*domain.Registration{"r1": confirmed}},
			syncRepo: syncRepo,
			logger:   testLogger(),
		}

		sync, err := svc.RecordConfirmationSync(context.Background(), "r1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sync != existing {
			t.Error("expected the existing sync row back")
		}
		if len(syncRepo.created) != 0 {
			t.Error("no second sync row may be created")
		}
	})

	t.Run("unknown registration is an orphan", func(t *testing.T) {
		svc := &tournamentService{
			regRepo:  &mockRegistrationRepo{regs: map[string]*domain.Registration{}},
			syncRepo: &mockSyncRepo{},
			logger:   testLogger(),
		}
		_, err := svc.RecordConfirmationSync(context.Background(), "missing")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("concurrent insert falls back to the winner's row", func(t *testing.T) {
		winner := &domain.RegistrationSync{ID: "s1", RegistrationID: "r1", Status: domain.SyncPending}
		syncRepo := &mockSyncRepo{
			byReg:     map[string]*domain.RegistrationSync{"r1": winner},
			createErr: domain.ErrConflict,
			missFirst: true,
		}
		svc := &tournamentService{
			regRepo:  &mockRegistrationRepo{regs: map[string]*domain.Registration{"r1": confirmed}},
			syncRepo: syncRepo,
			logger:   testLogger(),
		}
		sync, err := svc.RecordConfirmationSync(context.Background(), "r1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sync != winner {
			t.Error("expected the concurrently inserted row back")
		}
	})
}
