package services

import (
	"context"
	"fmt"
	"time"

	"clubhub/internal/domain"
)

type familyService struct {
	familyRepo domain.FamilyRepository
}

// NewFamilyService creates a FamilyService with the given repository.
func NewFamilyService(familyRepo domain.FamilyRepository) domain.FamilyService {
	return &familyService{familyRepo: familyRepo}
}

func (s *familyService) RegisterFamily(ctx context.Context, holderID string) (*domain.Family, error) {
	if _, err := s.familyRepo.GetByHolderID(ctx, holderID); err == nil {
		return nil, domain.ErrHolderHasFamily
	} else if err != domain.ErrNotFound {
		return nil, fmt.Errorf("check existing family: %w", err)
	}

	family := domain.NewFamily(holderID, time.Now())
	if err := s.familyRepo.Create(ctx, family); err != nil {
		return nil, fmt.Errorf("create family: %w", err)
	}
	family.Dependants = []*domain.Dependant{}
	return family, nil
}

func (s *familyService) GetMyFamily(ctx context.Context, holderID string) (*domain.Family, error) {
	family, err := s.familyRepo.GetByHolderID(ctx, holderID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get family: %w", err)
	}
	return family, nil
}

func (s *familyService) AddDependant(ctx context.Context, holderID, firstName, lastName string, birthDate time.Time) (*domain.Dependant, error) {
	family, err := s.familyRepo.GetByHolderID(ctx, holderID)
	if err != nil {
		return nil, fmt.Errorf("get family: %w", err)
	}
	if !family.IsAffiliated() {
		return nil, domain.ErrNotAffiliated
	}

	dep, err := domain.NewDependant(family.ID, firstName, lastName, birthDate, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.familyRepo.AddDependant(ctx, dep); err != nil {
		return nil, fmt.Errorf("add dependant: %w", err)
	}
	return dep, nil
}

func (s *familyService) ActivateAffiliation(ctx context.Context, familyID string) (*domain.Family, error) {
	family, err := s.familyRepo.GetByID(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("get family: %w", err)
	}
	family.Affiliate(time.Now())
	if err := s.familyRepo.Update(ctx, family); err != nil {
		return nil, fmt.Errorf("update family: %w", err)
	}
	return family, nil
}
