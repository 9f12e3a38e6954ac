package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"clubhub/internal/domain"
)

const minPasswordLen = 8

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type userService struct {
	userRepo domain.UserRepository
	hasher   domain.PasswordHasher
	tokens   domain.TokenService
}

// NewUserService creates a UserService with the given repository and auth ports.
func NewUserService(userRepo domain.UserRepository, hasher domain.PasswordHasher, tokens domain.TokenService) domain.UserService {
	return &userService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

func (s *userService) Register(ctx context.Context, email, firstName, lastName, password string) (*domain.User, *domain.TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return nil, nil, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return nil, nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.NewUser(email, firstName, lastName, hash, salt, time.Now())
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Email, user.RoleStrings())
	if err != nil {
		return nil, nil, fmt.Errorf("issue tokens: %w", err)
	}
	return user, pair, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, nil, domain.ErrUnauthorized
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return nil, nil, domain.ErrUnauthorized
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Email, user.RoleStrings())
	if err != nil {
		return nil, nil, fmt.Errorf("issue tokens: %w", err)
	}
	return user, pair, nil
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	pair, err := s.tokens.IssuePair(user.ID, user.Email, user.RoleStrings())
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	return pair, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *userService) ReplaceRoles(ctx context.Context, userID string, roles []domain.Role) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := user.ReplaceRoles(roles); err != nil {
		return nil, err
	}
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}
