package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	h "clubhub/internal/delivery/http/helpers"
	"clubhub/internal/delivery/http/middleware"
	"clubhub/internal/domain"
)

// RegisterCompetitorRequest is the request body for POST /tournaments/{tournamentID}/registrations
type RegisterCompetitorRequest struct {
	DependantID string `json:"dependant_id"`
}

// Validate implements Validator.
func (r RegisterCompetitorRequest) Validate() []string {
	if strings.TrimSpace(r.DependantID) == "" {
		return []string{"dependant_id is required"}
	}
	return nil
}

type TournamentController struct {
	Logger  *slog.Logger
	Service domain.TournamentService
}

func NewTournamentController(logger *slog.Logger, svc domain.TournamentService) *TournamentController {
	return &TournamentController{
		Logger:  logger,
		Service: svc,
	}
}

// List godoc
// @Summary List tournaments
// @Tags tournaments
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains all tournaments"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tournaments [get]
func (c *TournamentController) List(w http.ResponseWriter, r *http.Request) {
	tournaments, err := c.Service.List(r.Context())
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, tournaments)
}

// Register godoc
// @Summary Register a dependant for a tournament
// @Description The caller must hold the dependant's family and be AFFILIATED, and the registration window must be open. The registration starts PENDING at version 1.
// @Tags tournaments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tournamentID path string true "Tournament ID"
// @Param body body RegisterCompetitorRequest true "Competitor data"
// @Success 201 {object} helpers.APIResponse "data contains the pending registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tournaments/{tournamentID}/registrations [post]
func (c *TournamentController) Register(w http.ResponseWriter, r *http.Request) {
	holderID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	tournamentID := r.PathValue("tournamentID")
	if tournamentID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing tournamentID")
		return
	}
	var req RegisterCompetitorRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	reg, err := c.Service.Register(r.Context(), holderID, tournamentID, strings.TrimSpace(req.DependantID))
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// Confirm godoc
// @Summary Confirm a tournament registration
// @Description Admin operation. Persists the confirmation, then publishes registration.confirmed for the sync consumer.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID"
// @Success 200 {object} helpers.APIResponse "data contains the confirmed registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/registrations/{registrationID}/confirm [post]
func (c *TournamentController) Confirm(w http.ResponseWriter, r *http.Request) {
	registrationID := r.PathValue("registrationID")
	if registrationID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing registrationID")
		return
	}
	reg, err := c.Service.Confirm(r.Context(), registrationID)
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, reg)
}

// Cancel godoc
// @Summary Cancel a tournament registration
// @Description The caller must hold the competitor's family. The version query parameter carries the version the caller last read; a stale version yields 409 and is never retried server-side.
// @Tags tournaments
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID"
// @Param version query int true "Last seen registration version"
// @Success 200 {object} helpers.APIResponse "data contains the cancelled registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID} [delete]
func (c *TournamentController) Cancel(w http.ResponseWriter, r *http.Request) {
	holderID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	registrationID := r.PathValue("registrationID")
	if registrationID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing registrationID")
		return
	}
	version, err := strconv.Atoi(r.URL.Query().Get("version"))
	if err != nil || version < 1 {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "version must be a positive integer")
		return
	}
	reg, err := c.Service.Cancel(r.Context(), holderID, registrationID, version)
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, reg)
}
