package domain

import (
	"context"
	"fmt"
	"time"
)

// Sentinel errors for enrollment operations, both invalid-operation kinds.
var (
	ErrDuplicatePendingEnrollment = fmt.Errorf("%w: a pending enrollment request already exists for this dependant and club", ErrInvalidOperation)
	ErrAlreadyMember              = fmt.Errorf("%w: dependant is already an active member of this club", ErrInvalidOperation)
)

// EnrollmentStatus is the state of an enrollment request.
type EnrollmentStatus string

const (
	EnrollmentPending  EnrollmentStatus = "PENDING"
	EnrollmentApproved EnrollmentStatus = "APPROVED"
	EnrollmentRejected EnrollmentStatus = "REJECTED"
	EnrollmentRevoked  EnrollmentStatus = "REVOKED"
)

// EnrollmentRequest links a dependant, its family, and a club. PENDING may
// move to APPROVED or REJECTED; REVOKED is reachable only from APPROVED, when
// a principal removes an already-approved member.
// swagger:model EnrollmentRequest
type EnrollmentRequest struct {
	ID              string           `json:"id"`
	DependantID     string           `json:"dependant_id"`
	FamilyID        string           `json:"family_id"`
	ClubID          string           `json:"club_id"`
	Status          EnrollmentStatus `json:"status"`
	RejectionReason *string          `json:"rejection_reason,omitempty"`
	ResolvedAt      *time.Time       `json:"resolved_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// NewEnrollmentRequest returns a new PENDING request.
func NewEnrollmentRequest(dependantID, familyID, clubID string, createdAt time.Time) *EnrollmentRequest {
	return &EnrollmentRequest{
		DependantID: dependantID,
		FamilyID:    familyID,
		ClubID:      clubID,
		Status:      EnrollmentPending,
		CreatedAt:   createdAt,
	}
}

// Approve transitions PENDING -> APPROVED.
func (r *EnrollmentRequest) Approve(now time.Time) error {
	if r.Status != EnrollmentPending {
		return fmt.Errorf("%w: enrollment request is already %s", ErrInvalidOperation, r.Status)
	}
	r.Status = EnrollmentApproved
	r.ResolvedAt = &now
	return nil
}

// Reject transitions PENDING -> REJECTED with a reason of at least ten
// characters. On failure neither status nor resolvedAt is mutated.
func (r *EnrollmentRequest) Reject(reason string, now time.Time) error {
	if r.Status != EnrollmentPending {
		return fmt.Errorf("%w: enrollment request is already %s", ErrInvalidOperation, r.Status)
	}
	if len(reason) < minRejectionReasonLen {
		return fmt.Errorf("%w: rejection reason must be at least %d characters", ErrInvalidInput, minRejectionReasonLen)
	}
	r.Status = EnrollmentRejected
	r.RejectionReason = &reason
	r.ResolvedAt = &now
	return nil
}

// Revoke transitions APPROVED -> REVOKED. Used when a principal removes an
// already-approved member; it is a distinct transition from Reject and never
// applies to pending requests.
func (r *EnrollmentRequest) Revoke(now time.Time) error {
	if r.Status != EnrollmentApproved {
		return fmt.Errorf("%w: only an approved enrollment can be revoked, got %s", ErrInvalidOperation, r.Status)
	}
	r.Status = EnrollmentRevoked
	r.ResolvedAt = &now
	return nil
}

// MembershipStatus is the state of a club membership.
type MembershipStatus string

const (
	MembershipActive  MembershipStatus = "ACTIVE"
	MembershipRevoked MembershipStatus = "REVOKED"
)

// ClubMembership materializes an approved enrollment as an active relationship
// between a dependant and a club.
// swagger:model ClubMembership
type ClubMembership struct {
	ID          string           `json:"id"`
	ClubID      string           `json:"club_id"`
	DependantID string           `json:"dependant_id"`
	FamilyID    string           `json:"family_id"`
	Status      MembershipStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// NewClubMembership returns a new ACTIVE membership.
func NewClubMembership(clubID, dependantID, familyID string, createdAt time.Time) *ClubMembership {
	return &ClubMembership{
		ClubID:      clubID,
		DependantID: dependantID,
		FamilyID:    familyID,
		Status:      MembershipActive,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

// Revoke deactivates the membership.
func (m *ClubMembership) Revoke(now time.Time) error {
	if m.Status != MembershipActive {
		return fmt.Errorf("%w: membership is already %s", ErrInvalidOperation, m.Status)
	}
	m.Status = MembershipRevoked
	m.UpdatedAt = now
	return nil
}

// EnrollmentRequestRepository defines storage operations for enrollment requests.
type EnrollmentRequestRepository interface {
	Create(ctx context.Context, req *EnrollmentRequest) error
	GetByID(ctx context.Context, id string) (*EnrollmentRequest, error)
	Update(ctx context.Context, req *EnrollmentRequest) error
	GetPendingByDependantAndClub(ctx context.Context, dependantID, clubID string) (*EnrollmentRequest, error)
	ListPendingByClubID(ctx context.Context, clubID string) ([]*EnrollmentRequest, error)
	ListByFamilyID(ctx context.Context, familyID string) ([]*EnrollmentRequest, error)
}

// ClubMembershipRepository defines storage operations for club memberships.
type ClubMembershipRepository interface {
	Create(ctx context.Context, m *ClubMembership) error
	GetActiveByDependantAndClub(ctx context.Context, dependantID, clubID string) (*ClubMembership, error)
	ListActiveByClubID(ctx context.Context, clubID string) ([]*ClubMembership, error)
	Update(ctx context.Context, m *ClubMembership) error
}

// EnrollmentService defines the enrollment lifecycle: families request a seat,
// principals resolve requests and remove members.
type EnrollmentService interface {
	Request(ctx context.Context, holderID, dependantID, clubID string) (*EnrollmentRequest, error)
	Approve(ctx context.Context, principalID, requestID string) (*EnrollmentRequest, error)
	Reject(ctx context.Context, principalID, requestID, reason string) (*EnrollmentRequest, error)
	RemoveMember(ctx context.Context, principalID, requestID string) (*EnrollmentRequest, error)
	ListPending(ctx context.Context, principalID, clubID string) ([]*EnrollmentRequest, error)
}
