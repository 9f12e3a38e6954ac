package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "clubhub/internal/delivery/http/helpers"
	"clubhub/internal/delivery/http/middleware"
	"clubhub/internal/domain"
)

// CreateClubRequestRequest is the request body for POST /club-requests
type CreateClubRequestRequest struct {
	Name       string         `json:"name"`
	Address    domain.Address `json:"address"`
	MaxMembers int            `json:"max_members"`
}

// Validate implements Validator.
func (c CreateClubRequestRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if c.MaxMembers <= 0 {
		errs = append(errs, "max_members must be positive")
	}
	if strings.TrimSpace(c.Address.City) == "" {
		errs = append(errs, "address.city is required")
	}
	return errs
}

// RejectClubRequestRequest is the request body for POST /admin/club-requests/{requestID}/reject
type RejectClubRequestRequest struct {
	Reason string `json:"reason"`
}

// Validate implements Validator.
func (r RejectClubRequestRequest) Validate() []string {
	if strings.TrimSpace(r.Reason) == "" {
		return []string{"reason is required"}
	}
	return nil
}

type ClubRequestController struct {
	Logger  *slog.Logger
	Service domain.ClubRequestService
}

func NewClubRequestController(logger *slog.Logger, svc domain.ClubRequestService) *ClubRequestController {
	return &ClubRequestController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary Request the creation of a new club
// @Description The caller becomes the prospective principal. Requires an AFFILIATED family and no existing club. The request starts PENDING and waits for admin review.
// @Tags club-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateClubRequestRequest true "Club data"
// @Success 201 {object} helpers.APIResponse "data contains the pending request"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /club-requests [post]
func (c *ClubRequestController) Create(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateClubRequestRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	created, err := c.Service.Create(r.Context(), requesterID, strings.TrimSpace(req.Name), req.Address, req.MaxMembers)
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, created)
}

// ListMine godoc
// @Summary List the caller's club requests
// @Tags club-requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the caller's requests"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /club-requests [get]
func (c *ClubRequestController) ListMine(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	reqs, err := c.Service.ListMine(r.Context(), requesterID)
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, reqs)
}

// ListPending godoc
// @Summary List pending club requests
// @Description Admin back-office view of requests awaiting review.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains pending requests"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/club-requests [get]
func (c *ClubRequestController) ListPending(w http.ResponseWriter, r *http.Request) {
	reqs, err := c.Service.ListPending(r.Context())
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, reqs)
}

// Approve godoc
// @Summary Approve a pending club request
// @Description Persists the approval, then publishes ClubRequest.Approved for the consumer to create the club asynchronously.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param requestID path string true "Club request ID"
// @Success 200 {object} helpers.APIResponse "data contains the approved request"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/club-requests/{requestID}/approve [post]
func (c *ClubRequestController) Approve(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("requestID")
	if requestID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing requestID")
		return
	}
	approved, err := c.Service.Approve(r.Context(), requestID)
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, approved)
}

// Reject godoc
// @Summary Reject a pending club request
// @Description Requires a rejection reason of at least 10 characters.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param requestID path string true "Club request ID"
// @Param body body RejectClubRequestRequest true "Rejection reason"
// @Success 200 {object} helpers.APIResponse "data contains the rejected request"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/club-requests/{requestID}/reject [post]
func (c *ClubRequestController) Reject(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("requestID")
	if requestID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing requestID")
		return
	}
	var req RejectClubRequestRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	rejected, err := c.Service.Reject(r.Context(), requestID, strings.TrimSpace(req.Reason))
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, rejected)
}
