package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "clubhub/internal/delivery/http/helpers"
	"clubhub/internal/delivery/http/middleware"
	"clubhub/internal/domain"
)

// UpdateClubRequest is the request body for PATCH /clubs/{clubID}
type UpdateClubRequest struct {
	Name       string         `json:"name"`
	Address    domain.Address `json:"address"`
	MaxMembers int            `json:"max_members"`
}

// Validate implements Validator.
func (u UpdateClubRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(u.Name) == "" {
		errs = append(errs, "name is required")
	}
	if u.MaxMembers <= 0 {
		errs = append(errs, "max_members must be positive")
	}
	return errs
}

type ClubController struct {
	Logger  *slog.Logger
	Service domain.ClubService
}

func NewClubController(logger *slog.Logger, svc domain.ClubService) *ClubController {
	return &ClubController{
		Logger:  logger,
		Service: svc,
	}
}

// Search godoc
// @Summary Search clubs
// @Description Filters by name substring and exact city, both optional. Results are paginated.
// @Tags clubs
// @Produce json
// @Param name query string false "Name substring"
// @Param city query string false "City"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains matching clubs"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /clubs [get]
func (c *ClubController) Search(w http.ResponseWriter, r *http.Request) {
	page, pageSize := h.ParsePagination(r)
	filter := domain.ClubSearchFilter{
		Name:     strings.TrimSpace(r.URL.Query().Get("name")),
		City:     strings.TrimSpace(r.URL.Query().Get("city")),
		Page:     page,
		PageSize: pageSize,
	}
	clubs, err := c.Service.Search(r.Context(), filter)
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, clubs)
}

// GetByID godoc
// @Summary Get a club by ID
// @Description Returns the club including its corum, the current count of active members.
// @Tags clubs
// @Produce json
// @Param clubID path string true "Club ID"
// @Success 200 {object} helpers.APIResponse "data contains the club"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /clubs/{clubID} [get]
func (c *ClubController) GetByID(w http.ResponseWriter, r *http.Request) {
	clubID := r.PathValue("clubID")
	if clubID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing clubID")
		return
	}
	club, err := c.Service.GetByID(r.Context(), clubID)
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, club)
}

// UpdateInfo godoc
// @Summary Update club information
// @Description Principal-only. Capacity may not drop below the current count of active members.
// @Tags clubs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clubID path string true "Club ID"
// @Param body body UpdateClubRequest true "Updated club data"
// @Success 200 {object} helpers.APIResponse "data contains the updated club"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /clubs/{clubID} [patch]
func (c *ClubController) UpdateInfo(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	clubID := r.PathValue("clubID")
	if clubID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing clubID")
		return
	}
	var req UpdateClubRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	club, err := c.Service.UpdateInfo(r.Context(), principalID, clubID, strings.TrimSpace(req.Name), req.Address, req.MaxMembers)
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, club)
}
