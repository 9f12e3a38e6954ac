package domain

import (
	"context"
	"fmt"
	"time"
)

// Sentinel errors for club operations, both invalid-operation kinds.
var (
	ErrAlreadyOwnsClub = fmt.Errorf("%w: user already owns a club", ErrInvalidOperation)
	ErrClubFull        = fmt.Errorf("%w: club is at maximum capacity", ErrInvalidOperation)
)

// Address is a value object describing where a club meets.
// swagger:model Address
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

// Club is administered by exactly one principal. The one-club-per-principal
// rule is enforced by a repository lookup inside the creating transaction, not
// by a database constraint.
// swagger:model Club
type Club struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PrincipalID string    `json:"principal_id"`
	Address     Address   `json:"address"`
	MaxMembers  int       `json:"max_members"`
	// Corum is the current count of active members, derived at read time.
	Corum     int       `json:"corum"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewClub validates capacity and returns a new Club.
func NewClub(name, principalID string, address Address, maxMembers int, createdAt time.Time) (*Club, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: club name is required", ErrInvalidInput)
	}
	if maxMembers <= 0 {
		return nil, fmt.Errorf("%w: max members must be positive", ErrInvalidInput)
	}
	return &Club{
		Name:        name,
		PrincipalID: principalID,
		Address:     address,
		MaxMembers:  maxMembers,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}, nil
}

// IsAtMaxCapacity reports whether the active member count has reached the cap.
// Only ACTIVE memberships count; pending enrollment requests do not hold a
// seat until approved.
func (c *Club) IsAtMaxCapacity(activeMembers int) bool {
	return activeMembers >= c.MaxMembers
}

// ClubSearchFilter narrows club searches. Zero values mean "any".
// Page and PageSize control result pagination; callers are expected to
// pass sane values (see the HTTP helpers).
type ClubSearchFilter struct {
	Name     string
	City     string
	Page     int
	PageSize int
}

// ClubRepository defines storage operations for clubs.
type ClubRepository interface {
	Create(ctx context.Context, club *Club) error
	GetByID(ctx context.Context, id string) (*Club, error)
	GetByPrincipalID(ctx context.Context, principalID string) (*Club, error)
	Update(ctx context.Context, club *Club) error
	Search(ctx context.Context, filter ClubSearchFilter) ([]*Club, error)
	CountActiveMembers(ctx context.Context, clubID string) (int, error)
}

// ClubCreationResult bundles the club created from an approved request with
// the fresh token pair issued to the newly promoted principal.
type ClubCreationResult struct {
	Club   *Club      `json:"club"`
	Tokens *TokenPair `json:"tokens"`
}

// ClubService defines club creation (consumer-triggered), maintenance, and search.
type ClubService interface {
	// CreateFromRequest runs the asynchronous half of club creation: it
	// re-validates every invariant inside one transaction and persists the
	// club together with the principal's role grant.
	CreateFromRequest(ctx context.Context, requestID string) (*ClubCreationResult, error)
	UpdateInfo(ctx context.Context, principalID, clubID, name string, address Address, maxMembers int) (*Club, error)
	GetByID(ctx context.Context, id string) (*Club, error)
	Search(ctx context.Context, filter ClubSearchFilter) ([]*Club, error)
}
