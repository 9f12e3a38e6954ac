package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clubhub/internal/domain"
)

type clubRequestService struct {
	requestRepo domain.ClubRequestRepository
	clubRepo    domain.ClubRepository
	familyRepo  domain.FamilyRepository
	userRepo    domain.UserRepository
	publisher   domain.EventPublisher
	mailer      domain.Mailer
	logger      *slog.Logger
}

// NewClubRequestService creates a ClubRequestService with the given
// repositories, event publisher, and mailer.
func NewClubRequestService(
	requestRepo domain.ClubRequestRepository,
	clubRepo domain.ClubRepository,
	familyRepo domain.FamilyRepository,
	userRepo domain.UserRepository,
	publisher domain.EventPublisher,
	mailer domain.Mailer,
	logger *slog.Logger,
) domain.ClubRequestService {
	return &clubRequestService{
		requestRepo: requestRepo,
		clubRepo:    clubRepo,
		familyRepo:  familyRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		mailer:      mailer,
		logger:      logger,
	}
}

func (s *clubRequestService) Create(ctx context.Context, requesterID, clubName string, address domain.Address, maxMembers int) (*domain.ClubRequest, error) {
	family, err := s.familyRepo.GetByHolderID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("get family: %w", err)
	}
	if !family.IsAffiliated() {
		return nil, domain.ErrNotAffiliated
	}

	// HTTP-time pre-check; the consumer re-checks inside its transaction
	// because this read is not transactionally linked to the async step.
	if _, err := s.clubRepo.GetByPrincipalID(ctx, requesterID); err == nil {
		return nil, domain.ErrAlreadyOwnsClub
	} else if err != domain.ErrNotFound {
		return nil, fmt.Errorf("check existing club: %w", err)
	}

	req, err := domain.NewClubRequest(requesterID, clubName, address, maxMembers, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create club request: %w", err)
	}
	return req, nil
}

// Approve marks a pending request APPROVED and relays the approval to the
// asynchronous club-creation consumer. The event is published only after the
// state change is durably persisted, so a consumer can never observe an
// approval for a request still PENDING in the store of record.
func (s *clubRequestService) Approve(ctx context.Context, requestID string) (*domain.ClubRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get club request: %w", err)
	}
	if err := req.Approve(time.Now()); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("update club request: %w", err)
	}

	event := domain.ClubRequestApprovedEvent{
		RequestID:   req.ID,
		RequesterID: req.RequesterID,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		// The request stays APPROVED; creation will not happen until the
		// message is replayed. Surface the failure so the admin can retry.
		return nil, fmt.Errorf("publish approval event: %w", err)
	}

	s.notifyRequester(ctx, req, "Your club request was approved",
		fmt.Sprintf("Your request to create %q has been approved. The club is being set up now.", req.ClubName))
	return req, nil
}

func (s *clubRequestService) Reject(ctx context.Context, requestID, reason string) (*domain.ClubRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get club request: %w", err)
	}
	if err := req.Reject(reason, time.Now()); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("update club request: %w", err)
	}

	s.notifyRequester(ctx, req, "Your club request was rejected",
		fmt.Sprintf("Your request to create %q was rejected: %s", req.ClubName, reason))
	return req, nil
}

func (s *clubRequestService) ListPending(ctx context.Context) ([]*domain.ClubRequest, error) {
	reqs, err := s.requestRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending club requests: %w", err)
	}
	return reqs, nil
}

func (s *clubRequestService) ListMine(ctx context.Context, requesterID string) ([]*domain.ClubRequest, error) {
	reqs, err := s.requestRepo.ListByRequesterID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("list club requests: %w", err)
	}
	return reqs, nil
}

// notifyRequester emails the requester about a resolution. Best-effort: a
// mailer failure is logged and never fails the workflow.
func (s *clubRequestService) notifyRequester(ctx context.Context, req *domain.ClubRequest, subject, text string) {
	if s.mailer == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, req.RequesterID)
	if err != nil {
		s.logger.WarnContext(ctx, "skip notification, requester lookup failed", "request_id", req.ID, "err", err)
		return
	}
	if err := s.mailer.Send(user.Email, subject, "", text); err != nil {
		s.logger.WarnContext(ctx, "club request notification failed", "request_id", req.ID, "err", err)
	}
}
