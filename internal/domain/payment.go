package domain

import (
	"context"
	"fmt"
	"time"
)

// TransactionStatus is the state of a gateway-correlated payment record.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "PENDING"
	TransactionPaid      TransactionStatus = "PAID"
	TransactionFailed    TransactionStatus = "FAILED"
	TransactionExpired   TransactionStatus = "EXPIRED"
	TransactionCancelled TransactionStatus = "CANCELLED"
	TransactionRefunded  TransactionStatus = "REFUNDED"
)

// transactionRank orders statuses so that a transaction only ever moves
// forward. PENDING is the sole starting point; REFUNDED is only reachable
// after PAID.
var transactionRank = map[TransactionStatus]int{
	TransactionPending:   0,
	TransactionPaid:      1,
	TransactionFailed:    1,
	TransactionExpired:   1,
	TransactionCancelled: 1,
	TransactionRefunded:  2,
}

// Transaction is a payment record correlated with the gateway by GatewayID.
// Every field except Status is immutable after creation.
// swagger:model Transaction
type Transaction struct {
	ID          string            `json:"id"`
	FamilyID    string            `json:"family_id"`
	GatewayID   string            `json:"gateway_id"`
	AmountCents int               `json:"amount_cents"`
	Purpose     string            `json:"purpose"`
	Status      TransactionStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NewTransaction returns a new PENDING transaction.
func NewTransaction(familyID, gatewayID, purpose string, amountCents int, createdAt time.Time) (*Transaction, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	return &Transaction{
		FamilyID:    familyID,
		GatewayID:   gatewayID,
		AmountCents: amountCents,
		Purpose:     purpose,
		Status:      TransactionPending,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}, nil
}

// AdvanceStatus moves the transaction forward to the given status. Moving
// backwards (or sideways between terminal states other than PAID -> REFUNDED)
// fails without mutation.
func (t *Transaction) AdvanceStatus(next TransactionStatus, now time.Time) error {
	nextRank, ok := transactionRank[next]
	if !ok {
		return fmt.Errorf("%w: unknown transaction status %q", ErrInvalidInput, next)
	}
	if next == TransactionRefunded && t.Status != TransactionPaid {
		return fmt.Errorf("%w: only a paid transaction can be refunded", ErrInvalidOperation)
	}
	if nextRank <= transactionRank[t.Status] {
		return fmt.Errorf("%w: transaction status cannot move from %s to %s", ErrInvalidOperation, t.Status, next)
	}
	t.Status = next
	t.UpdatedAt = now
	return nil
}

// TransactionRepository defines storage operations for payment transactions.
type TransactionRepository interface {
	Create(ctx context.Context, t *Transaction) error
	GetByID(ctx context.Context, id string) (*Transaction, error)
	GetByGatewayID(ctx context.Context, gatewayID string) (*Transaction, error)
	Update(ctx context.Context, t *Transaction) error
}

// PaymentService defines checkout creation and gateway status updates. The
// gateway wire format is out of scope; the webhook handler only validates the
// correlation id and the forward-only status rule.
type PaymentService interface {
	CreateCheckout(ctx context.Context, holderID, purpose string, amountCents int) (*Transaction, error)
	ApplyGatewayStatus(ctx context.Context, gatewayID string, status TransactionStatus) (*Transaction, error)
}
