package domain

import (
	"context"
	"fmt"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrDuplicateEmail = fmt.Errorf("%w: email already in use", ErrInvalidOperation)
)

// Role is an application role tag carried on a user.
type Role string

// RoleParent is the default role: every user holds it and it can never be
// revoked. The functional roles (club_owner, admin) are granted on top of it.
const (
	RoleParent    Role = "parent"
	RoleClubOwner Role = "club_owner"
	RoleAdmin     Role = "admin"
)

// User represents a registered account holder.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User holding the default role. ID is typically set by
// the repository on create.
func NewUser(email, firstName, lastName, passwordHash, salt string, createdAt time.Time) *User {
	return &User{
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
		Salt:         salt,
		Roles:        []Role{RoleParent},
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// GrantRole adds a role to the user's role set. Granting a role the user
// already holds is a no-op, which keeps the grant idempotent under message
// redelivery.
func (u *User) GrantRole(role Role) {
	if u.HasRole(role) {
		return
	}
	u.Roles = append(u.Roles, role)
}

// ReplaceRoles swaps the entire role set for a new one. The new set must be
// free of duplicates and must still contain the default role.
func (u *User) ReplaceRoles(roles []Role) error {
	seen := make(map[Role]struct{}, len(roles))
	hasDefault := false
	for _, r := range roles {
		if _, dup := seen[r]; dup {
			return fmt.Errorf("%w: duplicate role %q", ErrInvalidInput, r)
		}
		seen[r] = struct{}{}
		if r == RoleParent {
			hasDefault = true
		}
	}
	if !hasDefault {
		return fmt.Errorf("%w: the %q role cannot be revoked", ErrInvalidOperation, RoleParent)
	}
	u.Roles = append([]Role(nil), roles...)
	return nil
}

// RevokeRole removes a role from the user's role set. The default role is
// irrevocable.
func (u *User) RevokeRole(role Role) error {
	if role == RoleParent {
		return fmt.Errorf("%w: the %q role cannot be revoked", ErrInvalidOperation, RoleParent)
	}
	for i, r := range u.Roles {
		if r == role {
			u.Roles = append(u.Roles[:i], u.Roles[i+1:]...)
			return nil
		}
	}
	return nil
}

// RoleStrings returns the role set as plain strings, for token claims.
func (u *User) RoleStrings() []string {
	out := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		out[i] = string(r)
	}
	return out
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenPair is an access/refresh token pair issued to an authenticated user.
// swagger:model TokenPair
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AccessClaims are the verified claims carried by an access token.
type AccessClaims struct {
	UserID string
	Email  string
	Roles  []string
}

// HasRole reports whether the claims carry the given role.
func (c *AccessClaims) HasRole(role Role) bool {
	for _, r := range c.Roles {
		if r == string(role) {
			return true
		}
	}
	return false
}

// TokenService signs and verifies access/refresh tokens (e.g. JWT).
type TokenService interface {
	IssuePair(userID, email string, roles []string) (*TokenPair, error)
	VerifyAccess(token string) (*AccessClaims, error)
	VerifyRefresh(token string) (userID string, err error)
}

// IDGenerator produces unique string identifiers.
type IDGenerator interface {
	Generate() string
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
}

// UserService defines registration, authentication, and role management.
type UserService interface {
	Register(ctx context.Context, email, firstName, lastName, password string) (*User, *TokenPair, error)
	Login(ctx context.Context, email, password string) (*User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	GetByID(ctx context.Context, id string) (*User, error)
	ReplaceRoles(ctx context.Context, userID string, roles []Role) (*User, error)
}
