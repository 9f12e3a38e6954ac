package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"clubhub/internal/domain"
)

func affiliatedFamily(holderID string, deps ...*domain.Dependant) *domain.Family {
	f := unaffiliatedFamily(holderID, deps...)
	f.Affiliate(time.Now())
	return f
}

func unaffiliatedFamily(holderID string, deps ...*domain.Dependant) *domain.Family {
	f := domain.NewFamily(holderID, time.Now())
	f.ID = "fam-" + holderID
	f.Dependants = deps
	return f
}

func TestClubRequestService_Create(t *testing.T) {
	addr := domain.Address{Street: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701"}

	tests := []struct {
		name       string
		familyRepo *mockFamilyRepo
		clubRepo   *mockClubRepo
		wantErr    error
	}{
		{
			name: "success",
			familyRepo: &mockFamilyRepo{
				byHolder: map[string]*domain.Family{"u1": affiliatedFamily("u1")},
			},
			clubRepo: &mockClubRepo{},
		},
		{
			name: "requester without family",
			familyRepo: &mockFamilyRepo{
				byHolder: map[string]*domain.Family{},
			},
			clubRepo: &mockClubRepo{},
			wantErr:  domain.ErrNotFound,
		},
		{
			name: "family not affiliated",
			familyRepo: &mockFamilyRepo{
				byHolder: map[string]*domain.Family{
					"u1": domain.NewFamily("u1", time.Now()),
				},
			},
			clubRepo: &mockClubRepo{},
			wantErr:  domain.ErrNotAffiliated,
		},
		{
			name: "requester already owns a club",
			familyRepo: &mockFamilyRepo{
				byHolder: map[string]*domain.Family{"u1": affiliatedFamily("u1")},
			},
			clubRepo: &mockClubRepo{
				byPrincipal: map[string]*domain.Club{"u1": {ID: "c1", PrincipalID: "u1"}},
			},
			wantErr: domain.ErrAlreadyOwnsClub,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requestRepo := &mockClubRequestRepo{}
			svc := &clubRequestService{
				requestRepo: requestRepo,
				clubRepo:    tt.clubRepo,
				familyRepo:  tt.familyRepo,
				userRepo:    &mockUserRepo{},
				publisher:   &mockPublisher{},
				logger:      testLogger(),
			}

			req, err := svc.Create(context.Background(), "u1", "Debate Club", addr, 20)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if len(requestRepo.created) != 0 {
					t.Fatal("no request should be persisted on failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Status != domain.ClubRequestPending {
				t.Errorf("expected PENDING, got %s", req.Status)
			}
			if req.ResolvedAt != nil || req.RejectionReason != nil {
				t.Error("new request must have no resolution fields set")
			}
		})
	}
}

func TestClubRequestService_Approve(t *testing.T) {
	pending := func() *domain.ClubRequest {
		return &domain.ClubRequest{
			ID:          "cr1",
			RequesterID: "u1",
			ClubName:    "Clube X",
			MaxMembers:  15,
			Status:      domain.ClubRequestPending,
			CreatedAt:   time.Now(),
		}
	}

	t.Run("publishes only after the approval is persisted", func(t *testing.T) {
		requestRepo := &mockClubRequestRepo{reqs: map[string]*domain.ClubRequest{"cr1": pending()}}
		publisher := &mockPublisher{}
		var updatedBeforePublish bool
		publisher.onPublish = func(e domain.Event) {
			updatedBeforePublish = len(requestRepo.updated) == 1
		}
		mailer := &mockMailer{}
		svc := &clubRequestService{
			requestRepo: requestRepo,
			clubRepo:    &mockClubRepo{},
			familyRepo:  &mockFamilyRepo{},
			userRepo:    &mockUserRepo{users: map[string]*domain.User{"u1": {ID: "u1", Email: "u1@example.com"}}},
			publisher:   publisher,
			mailer:      mailer,
			logger:      testLogger(),
		}

		req, err := svc.Approve(context.Background(), "cr1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.Status != domain.ClubRequestApproved {
			t.Errorf("expected APPROVED, got %s", req.Status)
		}
		if req.ResolvedAt == nil {
			t.Error("expected resolvedAt to be set")
		}
		if !updatedBeforePublish {
			t.Error("event must be published after the state change is persisted")
		}
		if len(publisher.events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(publisher.events))
		}
		ev, ok := publisher.events[0].(domain.ClubRequestApprovedEvent)
		if !ok {
			t.Fatalf("unexpected event type %T", publisher.events[0])
		}
		if ev.RequestID != "cr1" || ev.RequesterID != "u1" {
			t.Errorf("unexpected event payload: %+v", ev)
		}
		if ev.Queue() != domain.QueueClubRequestApproved {
			t.Errorf("unexpected queue %q", ev.Queue())
		}
		if len(mailer.sent) != 1 || mailer.sent[0].to != "u1@example.com" {
			t.Errorf("expected one notification to the requester, got %+v", mailer.sent)
		}
	})

	t.Run("second approval fails and publishes nothing", func(t *testing.T) {
		requestRepo := &mockClubRequestRepo{reqs: map[string]*domain.ClubRequest{"cr1": pending()}}
		publisher := &mockPublisher{}
		svc := &clubRequestService{
			requestRepo: requestRepo,
			clubRepo:    &mockClubRepo{},
			familyRepo:  &mockFamilyRepo{},
			userRepo:    &mockUserRepo{users: map[string]*domain.User{"u1": {ID: "u1", Email: "u1@example.com"}}},
			publisher:   publisher,
			logger:      testLogger(),
		}

		if _, err := svc.Approve(context.Background(), "cr1"); err != nil {
			t.Fatalf("first approval: %v", err)
		}
		_, err := svc.Approve(context.Background(), "cr1")
		if !errors.Is(err, domain.ErrInvalidOperation) {
			t.Fatalf("expected ErrInvalidOperation, got %v", err)
		}
		if len(publisher.events) != 1 {
			t.Errorf("expected exactly 1 event, got %d", len(publisher.events))
		}
	})

	t.Run("publish failure surfaces but the request stays approved", func(t *testing.T) {
		requestRepo := &mockClubRequestRepo{reqs: map[string]*domain.ClubRequest{"cr1": pending()}}
		publisher := &mockPublisher{err: errors.New("broker down")}
		svc := &clubRequestService{
			requestRepo: requestRepo,
			clubRepo:    &mockClubRepo{},
			familyRepo:  &mockFamilyRepo{},
			userRepo:    &mockUserRepo{},
			publisher:   publisher,
			logger:      testLogger(),
		}

		_, err := svc.Approve(context.Background(), "cr1")
		if err == nil {
			t.Fatal("expected error")
		}
		if requestRepo.reqs["cr1"].Status != domain.ClubRequestApproved {
			t.Error("approval must remain persisted when only the publish fails")
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc := &clubRequestService{
			requestRepo: &mockClubRequestRepo{reqs: map[string]*domain.ClubRequest{}},
			publisher:   &mockPublisher{},
			logger:      testLogger(),
		}
		_, err := svc.Approve(context.Background(), "missing")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestClubRequestService_Reject(t *testing.T) {
	tests := []struct {
		name    string
		reason  string
		wantErr error
	}{
		{name: "success", reason: "incomplete club information"},
		{name: "reason too short", reason: "too vague", wantErr: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &domain.ClubRequest{ID: "cr1", RequesterID: "u1", ClubName: "Clube X", Status: domain.ClubRequestPending}
			requestRepo := &mockClubRequestRepo{reqs: map[string]*domain.ClubRequest{"cr1": req}}
			mailer := &mockMailer{}
			svc := &clubRequestService{
				requestRepo: requestRepo,
				userRepo:    &mockUserRepo{users: map[string]*domain.User{"u1": {ID: "u1", Email: "u1@example.com"}}},
				publisher:   &mockPublisher{},
				mailer:      mailer,
				logger:      testLogger(),
			}

			got, err := svc.Reject(context.Background(), "cr1", tt.reason)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if req.Status != domain.ClubRequestPending {
					t.Error("status must not change on a failed rejection")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Status != domain.ClubRequestRejected {
				t.Errorf("expected REJECTED, got %s", got.Status)
			}
			if got.RejectionReason == nil || *got.RejectionReason != tt.reason {
				t.Errorf("expected reason %q, got %v", tt.reason, got.RejectionReason)
			}
			if len(mailer.sent) != 1 {
				t.Errorf("expected one notification, got %d", len(mailer.sent))
			}
		})
	}
}
