package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clubhub/internal/domain"
)

type enrollmentService struct {
	uow            domain.UnitOfWork
	requestRepo    domain.EnrollmentRequestRepository
	membershipRepo domain.ClubMembershipRepository
	familyRepo     domain.FamilyRepository
	clubRepo       domain.ClubRepository
	userRepo       domain.UserRepository
	mailer         domain.Mailer
	logger         *slog.Logger
}

// NewEnrollmentService creates an EnrollmentService with the given unit of
// work and repositories.
func NewEnrollmentService(
	uow domain.UnitOfWork,
	requestRepo domain.EnrollmentRequestRepository,
	membershipRepo domain.ClubMembershipRepository,
	familyRepo domain.FamilyRepository,
	clubRepo domain.ClubRepository,
	userRepo domain.UserRepository,
	mailer domain.Mailer,
	logger *slog.Logger,
) domain.EnrollmentService {
	return &enrollmentService{
		uow:            uow,
		requestRepo:    requestRepo,
		membershipRepo: membershipRepo,
		familyRepo:     familyRepo,
		clubRepo:       clubRepo,
		userRepo:       userRepo,
		mailer:         mailer,
		logger:         logger,
	}
}

// Request files a PENDING enrollment request after every invariant passes
// inside one transaction: the dependant belongs to the caller's family, the
// family is affiliated, no duplicate pending request or active membership
// exists, and the club has a free seat.
func (s *enrollmentService) Request(ctx context.Context, holderID, dependantID, clubID string) (*domain.EnrollmentRequest, error) {
	var req *domain.EnrollmentRequest

	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		family, err := s.familyRepo.GetByHolderID(ctx, holderID)
		if err != nil {
			return fmt.Errorf("get family: %w", err)
		}
		if !family.Owns(dependantID) {
			return domain.ErrForbidden
		}
		if !family.IsAffiliated() {
			return domain.ErrNotAffiliated
		}

		club, err := s.clubRepo.GetByID(ctx, clubID)
		if err != nil {
			return fmt.Errorf("get club: %w", err)
		}

		if _, err := s.requestRepo.GetPendingByDependantAndClub(ctx, dependantID, clubID); err == nil {
			return domain.ErrDuplicatePendingEnrollment
		} else if err != domain.ErrNotFound {
			return fmt.Errorf("check pending request: %w", err)
		}

		if _, err := s.membershipRepo.GetActiveByDependantAndClub(ctx, dependantID, clubID); err == nil {
			return domain.ErrAlreadyMember
		} else if err != domain.ErrNotFound {
			return fmt.Errorf("check active membership: %w", err)
		}

		corum, err := s.clubRepo.CountActiveMembers(ctx, clubID)
		if err != nil {
			return fmt.Errorf("count active members: %w", err)
		}
		if club.IsAtMaxCapacity(corum) {
			return domain.ErrClubFull
		}

		req = domain.NewEnrollmentRequest(dependantID, family.ID, clubID, time.Now())
		if err := s.requestRepo.Create(ctx, req); err != nil {
			return fmt.Errorf("create enrollment request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Approve resolves a pending request and materializes the ACTIVE membership,
// both in one transaction. Capacity is re-checked here because approval is
// the write that actually consumes a seat.
func (s *enrollmentService) Approve(ctx context.Context, principalID, requestID string) (*domain.EnrollmentRequest, error) {
	var req *domain.EnrollmentRequest

	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		req, err = s.loadForPrincipal(ctx, principalID, requestID)
		if err != nil {
			return err
		}

		club, err := s.clubRepo.GetByID(ctx, req.ClubID)
		if err != nil {
			return fmt.Errorf("get club: %w", err)
		}
		corum, err := s.clubRepo.CountActiveMembers(ctx, req.ClubID)
		if err != nil {
			return fmt.Errorf("count active members: %w", err)
		}
		if club.IsAtMaxCapacity(corum) {
			return domain.ErrClubFull
		}

		now := time.Now()
		if err := req.Approve(now); err != nil {
			return err
		}
		if err := s.requestRepo.Update(ctx, req); err != nil {
			return fmt.Errorf("update enrollment request: %w", err)
		}

		membership := domain.NewClubMembership(req.ClubID, req.DependantID, req.FamilyID, now)
		if err := s.membershipRepo.Create(ctx, membership); err != nil {
			return fmt.Errorf("create membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyFamily(ctx, req, "Enrollment approved", "The enrollment request for your dependant was approved.")
	return req, nil
}

func (s *enrollmentService) Reject(ctx context.Context, principalID, requestID, reason string) (*domain.EnrollmentRequest, error) {
	req, err := s.loadForPrincipal(ctx, principalID, requestID)
	if err != nil {
		return nil, err
	}
	if err := req.Reject(reason, time.Now()); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("update enrollment request: %w", err)
	}

	s.notifyFamily(ctx, req, "Enrollment rejected",
		fmt.Sprintf("The enrollment request for your dependant was rejected: %s", reason))
	return req, nil
}

// RemoveMember revokes an approved enrollment and deactivates its membership
// in one transaction. Revocation is a distinct transition from rejection and
// goes through the aggregate's guarded Revoke.
func (s *enrollmentService) RemoveMember(ctx context.Context, principalID, requestID string) (*domain.EnrollmentRequest, error) {
	var req *domain.EnrollmentRequest

	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		req, err = s.loadForPrincipal(ctx, principalID, requestID)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := req.Revoke(now); err != nil {
			return err
		}
		if err := s.requestRepo.Update(ctx, req); err != nil {
			return fmt.Errorf("update enrollment request: %w", err)
		}

		membership, err := s.membershipRepo.GetActiveByDependantAndClub(ctx, req.DependantID, req.ClubID)
		if err != nil {
			return fmt.Errorf("get membership: %w", err)
		}
		if err := membership.Revoke(now); err != nil {
			return err
		}
		if err := s.membershipRepo.Update(ctx, membership); err != nil {
			return fmt.Errorf("update membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (s *enrollmentService) ListPending(ctx context.Context, principalID, clubID string) ([]*domain.EnrollmentRequest, error) {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("get club: %w", err)
	}
	if club.PrincipalID != principalID {
		return nil, domain.ErrForbidden
	}
	reqs, err := s.requestRepo.ListPendingByClubID(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	return reqs, nil
}

// loadForPrincipal loads a request and verifies the acting user is the
// principal of its club.
func (s *enrollmentService) loadForPrincipal(ctx context.Context, principalID, requestID string) (*domain.EnrollmentRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get enrollment request: %w", err)
	}
	club, err := s.clubRepo.GetByID(ctx, req.ClubID)
	if err != nil {
		return nil, fmt.Errorf("get club: %w", err)
	}
	if club.PrincipalID != principalID {
		return nil, domain.ErrForbidden
	}
	return req, nil
}

func (s *enrollmentService) notifyFamily(ctx context.Context, req *domain.EnrollmentRequest, subject, text string) {
	if s.mailer == nil {
		return
	}
	family, err := s.familyRepo.GetByID(ctx, req.FamilyID)
	if err != nil {
		s.logger.WarnContext(ctx, "skip notification, family lookup failed", "request_id", req.ID, "err", err)
		return
	}
	holder, err := s.userRepo.GetByID(ctx, family.HolderID)
	if err != nil {
		s.logger.WarnContext(ctx, "skip notification, holder lookup failed", "request_id", req.ID, "err", err)
		return
	}
	if err := s.mailer.Send(holder.Email, subject, "", text); err != nil {
		s.logger.WarnContext(ctx, "enrollment notification failed", "request_id", req.ID, "err", err)
	}
}
