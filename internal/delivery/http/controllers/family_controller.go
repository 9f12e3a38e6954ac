package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "clubhub/internal/delivery/http/helpers"
	"clubhub/internal/delivery/http/middleware"
	"clubhub/internal/domain"
)

// AddDependantRequest is the request body for POST /families/dependants
type AddDependantRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthDate string `json:"birth_date"` // YYYY-MM-DD
}

// Validate implements Validator.
func (a AddDependantRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(a.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(a.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	if a.BirthDate == "" {
		errs = append(errs, "birth_date is required")
	} else if _, err := time.Parse("2006-01-02", a.BirthDate); err != nil {
		errs = append(errs, "birth_date must be YYYY-MM-DD")
	}
	return errs
}

type FamilyController struct {
	Logger  *slog.Logger
	Service domain.FamilyService
}

func NewFamilyController(logger *slog.Logger, svc domain.FamilyService) *FamilyController {
	return &FamilyController{
		Logger:  logger,
		Service: svc,
	}
}

// RegisterFamily godoc
// @Summary Register a family for the current user
// @Description Creates the caller's family record. A user holds at most one family; the family starts NOT_AFFILIATED.
// @Tags families
// @Produce json
// @Security BearerAuth
// @Success 201 {object} helpers.APIResponse "data contains the created family"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /families [post]
func (c *FamilyController) RegisterFamily(w http.ResponseWriter, r *http.Request) {
	holderID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	family, err := c.Service.RegisterFamily(r.Context(), holderID)
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, family)
}

// GetMyFamily godoc
// @Summary Get the current user's family
// @Tags families
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the family with its dependants"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /families/me [get]
func (c *FamilyController) GetMyFamily(w http.ResponseWriter, r *http.Request) {
	holderID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	family, err := c.Service.GetMyFamily(r.Context(), holderID)
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, family)
}

// AddDependant godoc
// @Summary Add a dependant to the current user's family
// @Description Requires an AFFILIATED family. Dependants must be under 18 and already born.
// @Tags families
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AddDependantRequest true "Dependant data"
// @Success 201 {object} helpers.APIResponse "data contains the created dependant"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /families/dependants [post]
func (c *FamilyController) AddDependant(w http.ResponseWriter, r *http.Request) {
	holderID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req AddDependantRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "birth_date must be YYYY-MM-DD")
		return
	}
	dep, err := c.Service.AddDependant(r.Context(), holderID, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName), birthDate)
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, dep)
}

// ActivateAffiliation godoc
// @Summary Activate a family's affiliation manually
// @Description Back-office path for affiliations settled outside the payment gateway (e.g. checks).
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param familyID path string true "Family ID"
// @Success 200 {object} helpers.APIResponse "data contains the affiliated family"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/families/{familyID}/activate [post]
func (c *FamilyController) ActivateAffiliation(w http.ResponseWriter, r *http.Request) {
	family, err := c.Service.ActivateAffiliation(r.Context(), r.PathValue("familyID"))
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, family)
}
