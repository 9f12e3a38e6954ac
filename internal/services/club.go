package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clubhub/internal/domain"
)

type clubService struct {
	uow         domain.UnitOfWork
	clubRepo    domain.ClubRepository
	requestRepo domain.ClubRequestRepository
	userRepo    domain.UserRepository
	familyRepo  domain.FamilyRepository
	tokens      domain.TokenService
	logger      *slog.Logger
}

// NewClubService creates a ClubService with the given unit of work,
// repositories, and token service.
func NewClubService(
	uow domain.UnitOfWork,
	clubRepo domain.ClubRepository,
	requestRepo domain.ClubRequestRepository,
	userRepo domain.UserRepository,
	familyRepo domain.FamilyRepository,
	tokens domain.TokenService,
	logger *slog.Logger,
) domain.ClubService {
	return &clubService{
		uow:         uow,
		clubRepo:    clubRepo,
		requestRepo: requestRepo,
		userRepo:    userRepo,
		familyRepo:  familyRepo,
		tokens:      tokens,
		logger:      logger,
	}
}

// CreateFromRequest performs the asynchronous half of club creation. It runs
// entirely inside one transaction and re-validates every invariant, because
// the synchronous checks at request time are not transactionally linked to
// this step: the message may be stale or redelivered.
func (s *clubService) CreateFromRequest(ctx context.Context, requestID string) (*domain.ClubCreationResult, error) {
	var result *domain.ClubCreationResult

	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		req, err := s.requestRepo.GetByID(ctx, requestID)
		if err != nil {
			// ErrNotFound signals an orphan or already-processed message.
			return fmt.Errorf("get club request: %w", err)
		}

		if _, err := s.clubRepo.GetByPrincipalID(ctx, req.RequesterID); err == nil {
			return domain.ErrAlreadyOwnsClub
		} else if err != domain.ErrNotFound {
			return fmt.Errorf("check existing club: %w", err)
		}

		user, err := s.userRepo.GetByID(ctx, req.RequesterID)
		if err != nil {
			return fmt.Errorf("get requester: %w", err)
		}
		family, err := s.familyRepo.GetByHolderID(ctx, req.RequesterID)
		if err != nil {
			return fmt.Errorf("get requester family: %w", err)
		}
		if !family.IsAffiliated() {
			return domain.ErrNotAffiliated
		}

		now := time.Now()
		user.GrantRole(domain.RoleClubOwner)
		user.UpdatedAt = now
		if err := s.userRepo.Update(ctx, user); err != nil {
			return fmt.Errorf("grant owner role: %w", err)
		}

		club, err := domain.NewClub(req.ClubName, req.RequesterID, req.Address, req.MaxMembers, now)
		if err != nil {
			return err
		}
		if err := s.clubRepo.Create(ctx, club); err != nil {
			return fmt.Errorf("create club: %w", err)
		}

		// The role set changed, so hand back a fresh pair reflecting it.
		pair, err := s.tokens.IssuePair(user.ID, user.Email, user.RoleStrings())
		if err != nil {
			return fmt.Errorf("issue tokens: %w", err)
		}

		result = &domain.ClubCreationResult{Club: club, Tokens: pair}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "club created from approved request",
		"request_id", requestID, "club_id", result.Club.ID, "principal_id", result.Club.PrincipalID)
	return result, nil
}

func (s *clubService) UpdateInfo(ctx context.Context, principalID, clubID, name string, address domain.Address, maxMembers int) (*domain.Club, error) {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("get club: %w", err)
	}
	if club.PrincipalID != principalID {
		return nil, domain.ErrForbidden
	}
	if name == "" {
		return nil, fmt.Errorf("%w: club name is required", domain.ErrInvalidInput)
	}
	if maxMembers <= 0 {
		return nil, fmt.Errorf("%w: max members must be positive", domain.ErrInvalidInput)
	}

	// Shrinking below the current active member count would break the
	// capacity invariant for existing members.
	corum, err := s.clubRepo.CountActiveMembers(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("count active members: %w", err)
	}
	if maxMembers < corum {
		return nil, fmt.Errorf("%w: max members cannot drop below current member count %d", domain.ErrInvalidOperation, corum)
	}

	club.Name = name
	club.Address = address
	club.MaxMembers = maxMembers
	club.UpdatedAt = time.Now()
	if err := s.clubRepo.Update(ctx, club); err != nil {
		return nil, fmt.Errorf("update club: %w", err)
	}
	club.Corum = corum
	return club, nil
}

func (s *clubService) GetByID(ctx context.Context, id string) (*domain.Club, error) {
	club, err := s.clubRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get club: %w", err)
	}
	corum, err := s.clubRepo.CountActiveMembers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count active members: %w", err)
	}
	club.Corum = corum
	return club, nil
}

func (s *clubService) Search(ctx context.Context, filter domain.ClubSearchFilter) ([]*domain.Club, error) {
	clubs, err := s.clubRepo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search clubs: %w", err)
	}
	return clubs, nil
}
