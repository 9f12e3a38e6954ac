package domain

import (
	"context"
	"fmt"
	"time"
)

// minRejectionReasonLen is the minimum length of a rejection reason for both
// club requests and enrollment requests.
const minRejectionReasonLen = 10

// ClubRequestStatus is the state of a pending ask to create a club.
type ClubRequestStatus string

const (
	ClubRequestPending  ClubRequestStatus = "PENDING"
	ClubRequestApproved ClubRequestStatus = "APPROVED"
	ClubRequestRejected ClubRequestStatus = "REJECTED"
)

// ClubRequest represents a pending ask to create a Club. Only PENDING
// requests may transition; APPROVED and REJECTED are terminal, and ResolvedAt
// is set exactly once, on the terminal transition.
// swagger:model ClubRequest
type ClubRequest struct {
	ID              string            `json:"id"`
	RequesterID     string            `json:"requester_id"`
	ClubName        string            `json:"club_name"`
	Address         Address           `json:"address"`
	MaxMembers      int               `json:"max_members"`
	Status          ClubRequestStatus `json:"status"`
	RejectionReason *string           `json:"rejection_reason,omitempty"`
	ResolvedAt      *time.Time        `json:"resolved_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// NewClubRequest returns a new PENDING request with no resolution fields set.
func NewClubRequest(requesterID, clubName string, address Address, maxMembers int, createdAt time.Time) (*ClubRequest, error) {
	if clubName == "" {
		return nil, fmt.Errorf("%w: club name is required", ErrInvalidInput)
	}
	if maxMembers <= 0 {
		return nil, fmt.Errorf("%w: max members must be positive", ErrInvalidInput)
	}
	return &ClubRequest{
		RequesterID: requesterID,
		ClubName:    clubName,
		Address:     address,
		MaxMembers:  maxMembers,
		Status:      ClubRequestPending,
		CreatedAt:   createdAt,
	}, nil
}

// Approve transitions PENDING -> APPROVED. Any other starting state fails and
// leaves the request unchanged.
func (r *ClubRequest) Approve(now time.Time) error {
	if r.Status != ClubRequestPending {
		return fmt.Errorf("%w: club request is already %s", ErrInvalidOperation, r.Status)
	}
	r.Status = ClubRequestApproved
	r.ResolvedAt = &now
	return nil
}

// Reject transitions PENDING -> REJECTED with a reason of at least ten
// characters. On failure neither status nor resolvedAt is mutated.
func (r *ClubRequest) Reject(reason string, now time.Time) error {
	if r.Status != ClubRequestPending {
		return fmt.Errorf("%w: club request is already %s", ErrInvalidOperation, r.Status)
	}
	if len(reason) < minRejectionReasonLen {
		return fmt.Errorf("%w: rejection reason must be at least %d characters", ErrInvalidInput, minRejectionReasonLen)
	}
	r.Status = ClubRequestRejected
	r.RejectionReason = &reason
	r.ResolvedAt = &now
	return nil
}

// ClubRequestRepository defines storage operations for club requests.
type ClubRequestRepository interface {
	Create(ctx context.Context, req *ClubRequest) error
	GetByID(ctx context.Context, id string) (*ClubRequest, error)
	Update(ctx context.Context, req *ClubRequest) error
	ListPending(ctx context.Context) ([]*ClubRequest, error)
	ListByRequesterID(ctx context.Context, requesterID string) ([]*ClubRequest, error)
}

// ClubRequestService defines the synchronous half of the club-creation flow:
// requesters file a request, admins resolve it, and an approval is relayed to
// the asynchronous club-creation consumer.
type ClubRequestService interface {
	Create(ctx context.Context, requesterID, clubName string, address Address, maxMembers int) (*ClubRequest, error)
	Approve(ctx context.Context, requestID string) (*ClubRequest, error)
	Reject(ctx context.Context, requestID, reason string) (*ClubRequest, error)
	ListPending(ctx context.Context) ([]*ClubRequest, error)
	ListMine(ctx context.Context, requesterID string) ([]*ClubRequest, error)
}
