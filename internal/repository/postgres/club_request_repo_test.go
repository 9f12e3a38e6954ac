package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"clubhub/internal/domain"
)

var clubRequestCols = []string{
	"id", "requester_id", "club_name", "street", "city", "state", "zip_code",
	"max_members", "status", "rejection_reason", "resolved_at", "created_at",
}

func TestClubRequestRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			id:   "req-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM club_requests`).
					WithArgs("req-1").
					WillReturnRows(sqlmock.NewRows(clubRequestCols).
						AddRow("req-1", "user-1", "Clube X", "1 Main St", "Springfield", "IL", "62701",
							20, "PENDING", nil, nil, created))
			},
		},
		{
			name: "not found",
			id:   "missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM club_requests`).
					WithArgs("missing").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: true,
			errIs:   domain.ErrNotFound,
		},
		{
			name: "db error",
			id:   "req-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM club_requests`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewClubRequestRepository(db)
			got, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
				require.Equal(t, "req-1", got.ID)
				require.Equal(t, domain.ClubRequestPending, got.Status)
				require.Nil(t, got.ResolvedAt)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestClubRequestRepository_Update(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)

	req := &domain.ClubRequest{
		ID:          "req-1",
		RequesterID: "user-1",
		ClubName:    "Clube X",
		MaxMembers:  20,
		Status:      domain.ClubRequestApproved,
		ResolvedAt:  &now,
	}

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE club_requests`).
		WithArgs(string(domain.ClubRequestApproved), nil, now, "req-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewClubRequestRepository(db)
	require.NoError(t, repo.Update(ctx, req))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClubRequestRepository_UpdateNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE club_requests`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewClubRequestRepository(db)
	err = repo.Update(context.Background(), &domain.ClubRequest{ID: "missing", Status: domain.ClubRequestApproved})
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
