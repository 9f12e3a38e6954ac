package domain

import "context"

// Queue names for the event relay. Exact names matter for interoperability;
// each queue has a companion dead-letter queue named "<queue>-dlq".
const (
	QueueClubRequestApproved   = "ClubRequest.Approved"
	QueueRegistrationConfirmed = "registration.confirmed"
)

// DeadLetterQueueName returns the dead-letter companion of a queue.
func DeadLetterQueueName(queue string) string {
	return queue + "-dlq"
}

// Event is a tagged domain event routed to a queue. Each variant carries a
// strongly-typed payload; consumers validate the payload at the boundary
// instead of passing untyped maps around.
type Event interface {
	// Queue is the durable queue the event is published to.
	Queue() string
	// EventType discriminates the payload variant.
	EventType() string
}

// ClubRequestApprovedEvent is published after an approved club request is
// durably persisted. A consumer must never observe this event for a request
// that is not yet APPROVED in the store of record.
type ClubRequestApprovedEvent struct {
	RequestID   string `json:"requestId"`
	RequesterID string `json:"requesterId"`
}

func (ClubRequestApprovedEvent) Queue() string     { return QueueClubRequestApproved }
func (ClubRequestApprovedEvent) EventType() string { return "ClubRequest.Approved" }

// RegistrationConfirmedEvent is published after a tournament registration is
// confirmed and persisted.
type RegistrationConfirmedEvent struct {
	RegistrationID string `json:"registrationId"`
	TournamentID   string `json:"tournamentId"`
	CompetitorID   string `json:"competitorId"`
}

func (RegistrationConfirmedEvent) Queue() string     { return QueueRegistrationConfirmed }
func (RegistrationConfirmedEvent) EventType() string { return "registration.confirmed" }

// EventPublisher delivers domain events onto their durable queues. Delivery is
// fire-and-forget from the producing use-case's perspective: the broker's own
// confirms are not awaited synchronously.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
