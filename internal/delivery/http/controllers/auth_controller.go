package controllers

import (
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	h "clubhub/internal/delivery/http/helpers"
	"clubhub/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RegisterRequest is the request body for POST /auth/register
type RegisterRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// Validate implements Validator.
func (s RegisterRequest) Validate() []string {
	var errs []string
	email := strings.TrimSpace(strings.ToLower(s.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	if strings.TrimSpace(s.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(s.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	if s.Password == "" {
		errs = append(errs, "password is required")
	} else if len(s.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	return errs
}

// LoginRequest is the request body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Email) == "" {
		errs = append(errs, "email is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// RefreshRequest is the request body for POST /auth/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Validate implements Validator.
func (r RefreshRequest) Validate() []string {
	if strings.TrimSpace(r.RefreshToken) == "" {
		return []string{"refresh_token is required"}
	}
	return nil
}

// AuthResponse is the response body for register and login.
type AuthResponse struct {
	User   *domain.User      `json:"user"`
	Tokens *domain.TokenPair `json:"tokens"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewAuthController(logger *slog.Logger, svc domain.UserService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register a new account
// @Description Create a new user with email, name, and password. Every account starts with the parent role. Password is stored hashed.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} helpers.APIResponse "data contains the user and a token pair"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/register [post]
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	user, tokens, err := c.Service.Register(r.Context(), req.Email, req.FirstName, req.LastName, req.Password)
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, AuthResponse{User: user, Tokens: tokens})
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password. Returns the user together with an access/refresh token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} helpers.APIResponse "data contains the user and a token pair"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	user, tokens, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, AuthResponse{User: user, Tokens: tokens})
}

// Refresh godoc
// @Summary Refresh the token pair
// @Description Exchange a valid refresh token for a fresh access/refresh pair carrying the user's current roles.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "Refresh token"
// @Success 200 {object} helpers.APIResponse "data contains a token pair"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/refresh [post]
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	tokens, err := c.Service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, tokens)
}
