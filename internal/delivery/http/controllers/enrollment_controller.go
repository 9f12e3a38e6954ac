package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "clubhub/internal/delivery/http/helpers"
	"clubhub/internal/delivery/http/middleware"
	"clubhub/internal/domain"
)

// CreateEnrollmentRequest is the request body for POST /enrollments
type CreateEnrollmentRequest struct {
	DependantID string `json:"dependant_id"`
	ClubID      string `json:"club_id"`
}

// Validate implements Validator.
func (c CreateEnrollmentRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.DependantID) == "" {
		errs = append(errs, "dependant_id is required")
	}
	if strings.TrimSpace(c.ClubID) == "" {
		errs = append(errs, "club_id is required")
	}
	return errs
}

// RejectEnrollmentRequest is the request body for POST /club-management/enrollments/{requestID}/reject
type RejectEnrollmentRequest struct {
	Reason string `json:"reason"`
}

// Validate implements Validator.
func (r RejectEnrollmentRequest) Validate() []string {
	if strings.TrimSpace(r.Reason) == "" {
		return []string{"reason is required"}
	}
	return nil
}

type EnrollmentController struct {
	Logger  *slog.Logger
	Service domain.EnrollmentService
}

func NewEnrollmentController(logger *slog.Logger, svc domain.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary Request enrollment of a dependant into a club
// @Description The caller must hold the dependant's family and be AFFILIATED. Duplicate pending requests, existing memberships, and full clubs are rejected. The request starts PENDING.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEnrollmentRequest true "Enrollment data"
// @Success 201 {object} helpers.APIResponse "data contains the pending enrollment request"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /enrollments [post]
func (c *EnrollmentController) Create(w http.ResponseWriter, r *http.Request) {
	holderID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateEnrollmentRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	created, err := c.Service.Request(r.Context(), holderID, strings.TrimSpace(req.DependantID), strings.TrimSpace(req.ClubID))
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, created)
}

// ListPending godoc
// @Summary List pending enrollment requests for a club
// @Description Principal-only view of requests awaiting a decision.
// @Tags club-management
// @Produce json
// @Security BearerAuth
// @Param club_id query string true "Club ID"
// @Success 200 {object} helpers.APIResponse "data contains pending requests"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /club-management/enrollments [get]
func (c *EnrollmentController) ListPending(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	clubID := strings.TrimSpace(r.URL.Query().Get("club_id"))
	if clubID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing club_id")
		return
	}
	reqs, err := c.Service.ListPending(r.Context(), principalID, clubID)
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, reqs)
}

// Approve godoc
// @Summary Approve a pending enrollment request
// @Description Principal-only. Approval and membership creation happen in one transaction; capacity is re-checked at approval time.
// @Tags club-management
// @Produce json
// @Security BearerAuth
// @Param requestID path string true "Enrollment request ID"
// @Success 200 {object} helpers.APIResponse "data contains the approved request"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /club-management/enrollments/{requestID}/approve [post]
func (c *EnrollmentController) Approve(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	requestID := r.PathValue("requestID")
	if requestID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing requestID")
		return
	}
	approved, err := c.Service.Approve(r.Context(), principalID, requestID)
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, approved)
}

// Reject godoc
// @Summary Reject a pending enrollment request
// @Description Principal-only. Requires a rejection reason of at least 10 characters.
// @Tags club-management
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param requestID path string true "Enrollment request ID"
// @Param body body RejectEnrollmentRequest true "Rejection reason"
// @Success 200 {object} helpers.APIResponse "data contains the rejected request"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /club-management/enrollments/{requestID}/reject [post]
func (c *EnrollmentController) Reject(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	requestID := r.PathValue("requestID")
	if requestID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing requestID")
		return
	}
	var req RejectEnrollmentRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	rejected, err := c.Service.Reject(r.Context(), principalID, requestID, strings.TrimSpace(req.Reason))
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, rejected)
}

// RemoveMember godoc
// @Summary Remove an enrolled member from a club
// @Description Principal-only. Revokes the approved enrollment and deactivates the membership in one transaction.
// @Tags club-management
// @Produce json
// @Security BearerAuth
// @Param requestID path string true "Enrollment request ID"
// @Success 200 {object} helpers.APIResponse "data contains the revoked request"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /club-management/enrollments/{requestID} [delete]
func (c *EnrollmentController) RemoveMember(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	requestID := r.PathValue("requestID")
	if requestID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing requestID")
		return
	}
	revoked, err := c.Service.RemoveMember(r.Context(), principalID, requestID)
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, revoked)
}
