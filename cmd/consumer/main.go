package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"clubhub/config"
	"clubhub/internal/adapters/auth"
	"clubhub/internal/domain"
	"clubhub/internal/messaging"
	"clubhub/internal/repository/postgres"
	"clubhub/internal/services"
)

// The consumer binary runs the asynchronous half of the two queue-driven
// workflows: club creation after request approval, and the registration
// sync row after confirmation. It shares the database with the API server
// but holds its own broker connection.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	uow := postgres.NewUnitOfWork(db)
	userRepo := postgres.NewUserRepository(db)
	familyRepo := postgres.NewFamilyRepository(db)
	clubRepo := postgres.NewClubRepository(db)
	requestRepo := postgres.NewClubRequestRepository(db)
	tournamentRepo := postgres.NewTournamentRepository(db)
	regRepo := postgres.NewRegistrationRepository(db)
	syncRepo := postgres.NewRegistrationSyncRepository(db)

	clubSvc := services.NewClubService(uow, clubRepo, requestRepo, userRepo, familyRepo, tokens, logger)
	tournamentSvc := services.NewTournamentService(tournamentRepo, regRepo, syncRepo, familyRepo, nil, logger)

	consumer := messaging.NewConsumer(cfg.AMQPUrl, logger)
	consumer.Handle(domain.QueueClubRequestApproved, messaging.ClubRequestApprovedHandler(clubSvc, logger))
	consumer.Handle(domain.QueueRegistrationConfirmed, messaging.RegistrationConfirmedHandler(tournamentSvc, logger))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("consumer starting", "env", cfg.Environment)
	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("consumer stopped unexpectedly", "error", err)
		os.Exit(1)
	}
	logger.Info("consumer stopped")
}
