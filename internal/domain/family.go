package domain

import (
	"context"
	"fmt"
	"time"
)

// Sentinel errors for family operations. Both are invalid-operation kinds, so
// errors.Is(err, ErrInvalidOperation) also matches them.
var (
	ErrHolderHasFamily = fmt.Errorf("%w: user already holds a family", ErrInvalidOperation)
	ErrNotAffiliated   = fmt.Errorf("%w: family is not affiliated", ErrInvalidOperation)
)

// FamilyStatus is the affiliation state of a family.
type FamilyStatus string

const (
	FamilyNotAffiliated      FamilyStatus = "NOT_AFFILIATED"
	FamilyAffiliated         FamilyStatus = "AFFILIATED"
	FamilyPendingAffiliation FamilyStatus = "PENDING_AFFILIATION"
	FamilyAffiliationExpired FamilyStatus = "AFFILIATION_EXPIRED"
)

// Dependant is a minor recorded under a family, eligible for club enrollment.
// swagger:model Dependant
type Dependant struct {
	ID        string    `json:"id"`
	FamilyID  string    `json:"family_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	BirthDate time.Time `json:"birth_date"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDependant validates the birthdate and returns a new Dependant.
// A dependant must already be born and must be under 18 at creation time.
func NewDependant(familyID, firstName, lastName string, birthDate, now time.Time) (*Dependant, error) {
	if birthDate.After(now) {
		return nil, fmt.Errorf("%w: birth date is in the future", ErrInvalidInput)
	}
	if age(birthDate, now) >= 18 {
		return nil, fmt.Errorf("%w: dependant must be under 18", ErrInvalidInput)
	}
	return &Dependant{
		FamilyID:  familyID,
		FirstName: firstName,
		LastName:  lastName,
		BirthDate: birthDate,
		CreatedAt: now,
	}, nil
}

// Age returns the dependant's age in whole years at the given time.
func (d *Dependant) Age(now time.Time) int {
	return age(d.BirthDate, now)
}

func age(birthDate, now time.Time) int {
	years := now.Year() - birthDate.Year()
	if now.YearDay() < birthDate.YearDay() {
		years--
	}
	return years
}

// Family is the one-per-holder record owning a list of dependants. Only an
// AFFILIATED family may add dependants, request enrollment, or create a club.
// swagger:model Family
type Family struct {
	ID         string       `json:"id"`
	HolderID   string       `json:"holder_id"`
	Status     FamilyStatus `json:"status"`
	Dependants []*Dependant `json:"dependants,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// NewFamily returns a new unaffiliated Family for the holder.
func NewFamily(holderID string, createdAt time.Time) *Family {
	return &Family{
		HolderID:  holderID,
		Status:    FamilyNotAffiliated,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// IsAffiliated reports whether the family currently holds an active affiliation.
func (f *Family) IsAffiliated() bool {
	return f.Status == FamilyAffiliated
}

// Affiliate moves the family into the AFFILIATED state (e.g. after a paid
// affiliation transaction).
func (f *Family) Affiliate(now time.Time) {
	f.Status = FamilyAffiliated
	f.UpdatedAt = now
}

// ExpireAffiliation marks an affiliated family as expired.
func (f *Family) ExpireAffiliation(now time.Time) error {
	if f.Status != FamilyAffiliated {
		return fmt.Errorf("%w: only an affiliated family can expire", ErrInvalidOperation)
	}
	f.Status = FamilyAffiliationExpired
	f.UpdatedAt = now
	return nil
}

// Owns reports whether the given dependant belongs to this family.
func (f *Family) Owns(dependantID string) bool {
	for _, d := range f.Dependants {
		if d.ID == dependantID {
			return true
		}
	}
	return false
}

// FamilyRepository defines storage operations for families and dependants.
type FamilyRepository interface {
	Create(ctx context.Context, family *Family) error
	GetByID(ctx context.Context, id string) (*Family, error)
	GetByHolderID(ctx context.Context, holderID string) (*Family, error)
	Update(ctx context.Context, family *Family) error
	AddDependant(ctx context.Context, dep *Dependant) error
}

// FamilyService defines family and dependant management.
type FamilyService interface {
	RegisterFamily(ctx context.Context, holderID string) (*Family, error)
	GetMyFamily(ctx context.Context, holderID string) (*Family, error)
	AddDependant(ctx context.Context, holderID, firstName, lastName string, birthDate time.Time) (*Dependant, error)
	ActivateAffiliation(ctx context.Context, familyID string) (*Family, error)
}
