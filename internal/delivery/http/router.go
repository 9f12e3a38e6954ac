package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"clubhub/internal/delivery/http/controllers"
	"clubhub/internal/delivery/http/middleware"
	"clubhub/internal/domain"
)

// Controllers bundles every controller the router serves.
type Controllers struct {
	Auth        *controllers.AuthController
	User        *controllers.UserController
	Family      *controllers.FamilyController
	ClubRequest *controllers.ClubRequestController
	Club        *controllers.ClubController
	Enrollment  *controllers.EnrollmentController
	Tournament  *controllers.TournamentController
	Payment     *controllers.PaymentController
}

// NewRouter initializes the HTTP router with all application routes.
// Role checks run against the access token's claims; principal ownership is
// still verified inside the services.
func NewRouter(c *Controllers, tokens domain.TokenService, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(tokens, logger)
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireRole(domain.RoleAdmin)(next))
	}
	principal := func(next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireRole(domain.RoleClubOwner)(next))
	}

	// Auth
	mux.HandleFunc("POST /auth/register", c.Auth.Register)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("POST /auth/refresh", c.Auth.Refresh)

	// Users
	mux.HandleFunc("GET /users/me", auth(c.User.GetMe))

	// Families
	mux.HandleFunc("POST /families", auth(c.Family.RegisterFamily))
	mux.HandleFunc("GET /families/me", auth(c.Family.GetMyFamily))
	mux.HandleFunc("POST /families/dependants", auth(c.Family.AddDependant))

	// Club requests
	mux.HandleFunc("POST /club-requests", auth(c.ClubRequest.Create))
	mux.HandleFunc("GET /club-requests", auth(c.ClubRequest.ListMine))

	// Clubs
	mux.HandleFunc("GET /clubs", c.Club.Search)
	mux.HandleFunc("GET /clubs/{clubID}", c.Club.GetByID)
	mux.HandleFunc("PATCH /clubs/{clubID}", principal(c.Club.UpdateInfo))

	// Enrollments
	mux.HandleFunc("POST /enrollments", auth(c.Enrollment.Create))
	mux.HandleFunc("GET /club-management/enrollments", principal(c.Enrollment.ListPending))
	mux.HandleFunc("POST /club-management/enrollments/{requestID}/approve", principal(c.Enrollment.Approve))
	mux.HandleFunc("POST /club-management/enrollments/{requestID}/reject", principal(c.Enrollment.Reject))
	mux.HandleFunc("DELETE /club-management/enrollments/{requestID}", principal(c.Enrollment.RemoveMember))

	// Tournaments
	mux.HandleFunc("GET /tournaments", c.Tournament.List)
	mux.HandleFunc("POST /tournaments/{tournamentID}/registrations", auth(c.Tournament.Register))
	mux.HandleFunc("DELETE /registrations/{registrationID}", auth(c.Tournament.Cancel))

	// Payments
	mux.HandleFunc("POST /payments/checkout", auth(c.Payment.CreateCheckout))
	mux.HandleFunc("POST /payments/webhook", c.Payment.GatewayWebhook)

	// Admin back-office
	mux.HandleFunc("GET /admin/club-requests", admin(c.ClubRequest.ListPending))
	mux.HandleFunc("POST /admin/club-requests/{requestID}/approve", admin(c.ClubRequest.Approve))
	mux.HandleFunc("POST /admin/club-requests/{requestID}/reject", admin(c.ClubRequest.Reject))
	mux.HandleFunc("POST /admin/families/{familyID}/activate", admin(c.Family.ActivateAffiliation))
	mux.HandleFunc("POST /admin/registrations/{registrationID}/confirm", admin(c.Tournament.Confirm))
	mux.HandleFunc("PUT /admin/users/{userID}/roles", admin(c.User.ReplaceRoles))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
