package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"clubhub/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (email, first_name, last_name, password_hash, salt, roles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := dbtx(ctx, r.DB).QueryRowContext(ctx, query,
		u.Email, u.FirstName, u.LastName, u.PasswordHash, u.Salt, pq.Array(u.RoleStrings()), u.CreatedAt, u.UpdatedAt).
		Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, email, first_name, last_name, password_hash, salt, roles, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(dbtx(ctx, r.DB).QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, first_name, last_name, password_hash, salt, roles, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return r.scanUser(dbtx(ctx, r.DB).QueryRowContext(ctx, query, email))
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, password_hash = $4, salt = $5, roles = $6, updated_at = $7
		WHERE id = $8
	`
	res, err := dbtx(ctx, r.DB).ExecContext(ctx, query,
		u.Email, u.FirstName, u.LastName, u.PasswordHash, u.Salt, pq.Array(u.RoleStrings()), u.UpdatedAt, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) scanUser(row *sql.Row) (*domain.User, error) {
	u := &domain.User{}
	var roles []string
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.Salt, pq.Array(&roles), &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.Roles = make([]domain.Role, len(roles))
	for i, s := range roles {
		u.Roles[i] = domain.Role(s)
	}
	return u, nil
}

// isUniqueViolation reports whether err is a postgres unique constraint error.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
