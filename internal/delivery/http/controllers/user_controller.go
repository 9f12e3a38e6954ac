package controllers

import (
	"log/slog"
	"net/http"

	h "clubhub/internal/delivery/http/helpers"
	"clubhub/internal/delivery/http/middleware"
	"clubhub/internal/domain"
)

// ReplaceRolesRequest is the request body for PUT /admin/users/{userID}/roles
type ReplaceRolesRequest struct {
	Roles []string `json:"roles"`
}

// Validate implements Validator.
func (r ReplaceRolesRequest) Validate() []string {
	if len(r.Roles) == 0 {
		return []string{"roles is required"}
	}
	for _, role := range r.Roles {
		switch domain.Role(role) {
		case domain.RoleParent, domain.RoleClubOwner, domain.RoleAdmin:
		default:
			return []string{"unknown role " + role}
		}
	}
	return nil
}

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// GetMe godoc
// @Summary Get the current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me [get]
func (c *UserController) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	user, err := c.Service.GetByID(r.Context(), userID)
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, user)
}

// ReplaceRoles godoc
// @Summary Replace a user's role set
// @Description Admin operation. The full role set is replaced atomically; the parent role cannot be dropped. Existing access tokens keep their old roles until they expire.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID"
// @Param body body ReplaceRolesRequest true "New role set"
// @Success 200 {object} helpers.APIResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/users/{userID}/roles [put]
func (c *UserController) ReplaceRoles(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if userID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing userID")
		return
	}
	var req ReplaceRolesRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	roles := make([]domain.Role, 0, len(req.Roles))
	for _, role := range req.Roles {
		roles = append(roles, domain.Role(role))
	}
	user, err := c.Service.ReplaceRoles(r.Context(), userID, roles)
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, user)
}
