package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"clubhub/internal/domain"
)

// ClubRequestApprovedHandler consumes approval events and runs the
// transactional half of club creation.
func ClubRequestApprovedHandler(clubs domain.ClubService, logger *slog.Logger) HandlerFunc {
	return func(ctx context.Context, body []byte) error {
		var ev domain.ClubRequestApprovedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal %s payload: %w", domain.QueueClubRequestApproved, err)
		}
		if ev.RequestID == "" {
			return fmt.Errorf("%s payload is missing requestId", domain.QueueClubRequestApproved)
		}

		result, err := clubs.CreateFromRequest(ctx, ev.RequestID)
		if err != nil {
			// A requester who already owns a club means a previous delivery
			// of this message succeeded; the redelivery is done.
			if errors.Is(err, domain.ErrAlreadyOwnsClub) {
				logger.InfoContext(ctx, "club already exists for requester, redelivery complete",
					"request_id", ev.RequestID, "requester_id", ev.RequesterID)
				return nil
			}
			return err
		}

		logger.InfoContext(ctx, "club created",
			"request_id", ev.RequestID, "club_id", result.Club.ID, "principal_id", result.Club.PrincipalID)
		return nil
	}
}

// RegistrationConfirmedHandler consumes confirmation events and records the
// pending sync row for downstream fan-out. Redelivery is idempotent.
func RegistrationConfirmedHandler(tournaments domain.TournamentService, logger *slog.Logger) HandlerFunc {
	return func(ctx context.Context, body []byte) error {
		var ev domain.RegistrationConfirmedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal %s payload: %w", domain.QueueRegistrationConfirmed, err)
		}
		if ev.RegistrationID == "" {
			return fmt.Errorf("%s payload is missing registrationId", domain.QueueRegistrationConfirmed)
		}

		sync, err := tournaments.RecordConfirmationSync(ctx, ev.RegistrationID)
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "registration sync recorded",
			"registration_id", ev.RegistrationID, "sync_status", string(sync.Status))
		return nil
	}
}
