package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clubhub/internal/domain"
)

// PurposeAffiliation marks a checkout that, once paid, activates the family's
// affiliation.
const PurposeAffiliation = "affiliation"

type paymentService struct {
	uow             domain.UnitOfWork
	transactionRepo domain.TransactionRepository
	familyRepo      domain.FamilyRepository
	ids             domain.IDGenerator
	logger          *slog.Logger
}

// NewPaymentService creates a PaymentService with the given unit of work and
// repositories.
func NewPaymentService(
	uow domain.UnitOfWork,
	transactionRepo domain.TransactionRepository,
	familyRepo domain.FamilyRepository,
	ids domain.IDGenerator,
	logger *slog.Logger,
) domain.PaymentService {
	return &paymentService{
		uow:             uow,
		transactionRepo: transactionRepo,
		familyRepo:      familyRepo,
		ids:             ids,
		logger:          logger,
	}
}

func (s *paymentService) CreateCheckout(ctx context.Context, holderID, purpose string, amountCents int) (*domain.Transaction, error) {
	family, err := s.familyRepo.GetByHolderID(ctx, holderID)
	if err != nil {
		return nil, fmt.Errorf("get family: %w", err)
	}

	// The gateway correlation id is generated locally and handed to the
	// gateway at checkout; its webhook echoes it back.
	tx, err := domain.NewTransaction(family.ID, s.ids.Generate(), purpose, amountCents, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return tx, nil
}

// ApplyGatewayStatus moves a transaction forward per the gateway's webhook.
// A payment that settles an affiliation checkout also activates the family's
// affiliation, in the same transaction as the status change.
func (s *paymentService) ApplyGatewayStatus(ctx context.Context, gatewayID string, status domain.TransactionStatus) (*domain.Transaction, error) {
	var tx *domain.Transaction

	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		tx, err = s.transactionRepo.GetByGatewayID(ctx, gatewayID)
		if err != nil {
			return fmt.Errorf("get transaction: %w", err)
		}

		now := time.Now()
		if err := tx.AdvanceStatus(status, now); err != nil {
			return err
		}
		if err := s.transactionRepo.Update(ctx, tx); err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}

		if status == domain.TransactionPaid && tx.Purpose == PurposeAffiliation {
			family, err := s.familyRepo.GetByID(ctx, tx.FamilyID)
			if err != nil {
				return fmt.Errorf("get family: %w", err)
			}
			family.Affiliate(now)
			if err := s.familyRepo.Update(ctx, family); err != nil {
				return fmt.Errorf("activate affiliation: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "transaction status applied", "gateway_id", gatewayID, "status", string(status))
	return tx, nil
}
