package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"clubhub/internal/delivery/http/helpers"
	"clubhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTournamentService implements domain.TournamentService for handler tests.
type fakeTournamentService struct {
	tournaments []*domain.Tournament
	reg         *domain.Registration
	sync        *domain.RegistrationSync
	err         error
	lastVersion int
}

func (f *fakeTournamentService) List(ctx context.Context) ([]*domain.Tournament, error) {
	return f.tournaments, f.err
}

func (f *fakeTournamentService) Register(ctx context.Context, holderID, tournamentID, dependantID string) (*domain.Registration, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.reg, nil
}

func (f *fakeTournamentService) Confirm(ctx context.Context, registrationID string) (*domain.Registration, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.reg, nil
}

func (f *fakeTournamentService) Cancel(ctx context.Context, holderID, registrationID string, version int) (*domain.Registration, error) {
	f.lastVersion = version
	if f.err != nil {
		return nil, f.err
	}
	return f.reg, nil
}

func (f *fakeTournamentService) RecordConfirmationSync(ctx context.Context, registrationID string) (*domain.RegistrationSync, error) {
	return f.sync, f.err
}

func TestTournamentController_Register(t *testing.T) {
	pending := &domain.Registration{ID: "r1", TournamentID: "t1", CompetitorID: "d1", Status: domain.RegistrationPending, Version: 1}

	tests := []struct {
		name          string
		contextUserID string
		body          string
		fakeErr       error
		wantStatus    int
		wantBodyCode  string
	}{
		{
			name:          "success",
			contextUserID: "u1",
			body:          `{"dependant_id":"d1"}`,
			wantStatus:    http.StatusCreated,
		},
		{
			name:          "missing dependant_id",
			contextUserID: "u1",
			body:          `{}`,
			wantStatus:    http.StatusBadRequest,
			wantBodyCode:  helpers.ErrCodeBadRequest,
		},
		{
			name:          "registration window closed",
			contextUserID: "u1",
			body:          `{"dependant_id":"d1"}`,
			fakeErr:       domain.ErrInvalidOperation,
			wantStatus:    http.StatusBadRequest,
			wantBodyCode:  helpers.ErrCodeBadRequest,
		},
		{
			name:          "unknown tournament",
			contextUserID: "u1",
			body:          `{"dependant_id":"d1"}`,
			fakeErr:       domain.ErrNotFound,
			wantStatus:    http.StatusNotFound,
			wantBodyCode:  helpers.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeTournamentService{reg: pending, err: tt.fakeErr}
			ctrl := NewTournamentController(testControllerLogger(), fake)

			req := authedRequest(http.MethodPost, "http://test/tournaments/t1/registrations", tt.body, tt.contextUserID)
			req.SetPathValue("tournamentID", "t1")
			rr := httptest.NewRecorder()

			ctrl.Register(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBodyCode != "" {
				var envelope helpers.APIResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
			}
		})
	}
}

func TestTournamentController_Cancel(t *testing.T) {
	t.Run("passes the caller's last seen version to the service", func(t *testing.T) {
		cancelled := &domain.Registration{ID: "r1", Status: domain.RegistrationCancelled, Version: 3}
		fake := &fakeTournamentService{reg: cancelled}
		ctrl := NewTournamentController(testControllerLogger(), fake)

		req := authedRequest(http.MethodDelete, "http://test/registrations/r1?version=2", "", "u1")
		req.SetPathValue("registrationID", "r1")
		rr := httptest.NewRecorder()

		ctrl.Cancel(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 2, fake.lastVersion)
	})

	t.Run("stale version maps to 409", func(t *testing.T) {
		fake := &fakeTournamentService{err: domain.ErrConflict}
		ctrl := NewTournamentController(testControllerLogger(), fake)

		req := authedRequest(http.MethodDelete, "http://test/registrations/r1?version=1", "", "u1")
		req.SetPathValue("registrationID", "r1")
		rr := httptest.NewRecorder()

		ctrl.Cancel(rr, req)

		require.Equal(t, http.StatusConflict, rr.Code)
		var envelope helpers.APIResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
		require.NotNil(t, envelope.Error)
		assert.Equal(t, helpers.ErrCodeConflict, envelope.Error.Code)
	})

	t.Run("missing version is rejected before the service runs", func(t *testing.T) {
		fake := &fakeTournamentService{}
		ctrl := NewTournamentController(testControllerLogger(), fake)

		req := authedRequest(http.MethodDelete, "http://test/registrations/r1", "", "u1")
		req.SetPathValue("registrationID", "r1")
		rr := httptest.NewRecorder()

		ctrl.Cancel(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Zero(t, fake.lastVersion)
	})

	t.Run("another family's registration maps to 403", func(t *testing.T) {
		fake := &fakeTournamentService{err: domain.ErrForbidden}
		ctrl := NewTournamentController(testControllerLogger(), fake)

		req := authedRequest(http.MethodDelete, "http://test/registrations/r1?version=1", "", "u2")
		req.SetPathValue("registrationID", "r1")
		rr := httptest.NewRecorder()

		ctrl.Cancel(rr, req)

		require.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestTournamentController_Confirm(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		confirmed := &domain.Registration{ID: "r1", Status: domain.RegistrationConfirmed, Version: 2}
		fake := &fakeTournamentService{reg: confirmed}
		ctrl := NewTournamentController(testControllerLogger(), fake)

		req := authedRequest(http.MethodPost, "http://test/admin/registrations/r1/confirm", "", "admin-1")
		req.SetPathValue("registrationID", "r1")
		rr := httptest.NewRecorder()

		ctrl.Confirm(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var envelope helpers.APIResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
		require.Nil(t, envelope.Error)
		dataBytes, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		var reg domain.Registration
		require.NoError(t, json.Unmarshal(dataBytes, &reg))
		assert.Equal(t, domain.RegistrationConfirmed, reg.Status)
		assert.Equal(t, 2, reg.Version)
	})

	t.Run("concurrent writer maps to 409", func(t *testing.T) {
		fake := &fakeTournamentService{err: domain.ErrConflict}
		ctrl := NewTournamentController(testControllerLogger(), fake)

		req := authedRequest(http.MethodPost, "http://test/admin/registrations/r1/confirm", "", "admin-1")
		req.SetPathValue("registrationID", "r1")
		rr := httptest.NewRecorder()

		ctrl.Confirm(rr, req)

		require.Equal(t, http.StatusConflict, rr.Code)
	})
}
