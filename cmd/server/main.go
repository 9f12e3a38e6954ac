package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"clubhub/config"
	"clubhub/internal/adapters/auth"
	"clubhub/internal/adapters/email"
	"clubhub/internal/adapters/ids"
	httpdelivery "clubhub/internal/delivery/http"
	"clubhub/internal/delivery/http/controllers"
	"clubhub/internal/delivery/http/middleware"
	"clubhub/internal/messaging"
	"clubhub/internal/repository/postgres"
	"clubhub/internal/services"
)

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

	mqClient, err := messaging.NewClient(cfg.AMQPUrl)
	if err != nil {
		logger.Error("failed to connect to broker", "error", err)
		os.Exit(1)
	}
	defer mqClient.Close()
	publisher := messaging.NewPublisher(mqClient, logger)

	mailer, err := email.NewMailer(cfg.Mailer, logger)
	if err != nil {
		logger.Error("failed to create mailer", "error", err)
		os.Exit(1)
	}

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	tokens := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	idGen := ids.NewUUIDGenerator()

	uow := postgres.NewUnitOfWork(db)
	userRepo := postgres.NewUserRepository(db)
	familyRepo := postgres.NewFamilyRepository(db)
	clubRepo := postgres.NewClubRepository(db)
	requestRepo := postgres.NewClubRequestRepository(db)
	enrollmentRepo := postgres.NewEnrollmentRequestRepository(db)
	membershipRepo := postgres.NewClubMembershipRepository(db)
	tournamentRepo := postgres.NewTournamentRepository(db)
	regRepo := postgres.NewRegistrationRepository(db)
	syncRepo := postgres.NewRegistrationSyncRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)

	userSvc := services.NewUserService(userRepo, hasher, tokens)
	familySvc := services.NewFamilyService(familyRepo)
	clubRequestSvc := services.NewClubRequestService(requestRepo, clubRepo, familyRepo, userRepo, publisher, mailer, logger)
	clubSvc := services.NewClubService(uow, clubRepo, requestRepo, userRepo, familyRepo, tokens, logger)
	enrollmentSvc := services.NewEnrollmentService(uow, enrollmentRepo, membershipRepo, familyRepo, clubRepo, userRepo, mailer, logger)
	tournamentSvc := services.NewTournamentService(tournamentRepo, regRepo, syncRepo, familyRepo, publisher, logger)
	paymentSvc := services.NewPaymentService(uow, transactionRepo, familyRepo, idGen, logger)

	ctrls := &httpdelivery.Controllers{
		Auth:        controllers.NewAuthController(logger, userSvc),
		User:        controllers.NewUserController(logger, userSvc),
		Family:      controllers.NewFamilyController(logger, familySvc),
		ClubRequest: controllers.NewClubRequestController(logger, clubRequestSvc),
		Club:        controllers.NewClubController(logger, clubSvc),
		Enrollment:  controllers.NewEnrollmentController(logger, enrollmentSvc),
		Tournament:  controllers.NewTournamentController(logger, tournamentSvc),
		Payment:     controllers.NewPaymentController(logger, paymentSvc),
	}

	mux := httpdelivery.NewRouter(ctrls, tokens, logger)
	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "port", cfg.Port, "env", cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
