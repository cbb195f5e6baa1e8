package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/farmdirect/backend/internal/core/domain/entity"
	"github.com/farmdirect/backend/internal/core/ports"
)

var _ ports.UserRepository = (*UserRepo)(nil)

// UserRepo is the SQLite implementation of ports.UserRepository.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(s *Store) *UserRepo {
	return &UserRepo{db: s.db}
}

// Create inserts a new account. Duplicate email or phone surfaces as
// ports.ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	badges, err := json.Marshal(badgesOrEmpty(u.Badges))
	if err != nil {
		return fmt.Errorf("sqlite: marshal badges: %w", err)
	}

	const q = `
		INSERT INTO users
			(id, name, email, phone, password_hash, role,
			 owner, address, latitude, longitude, badges, created_at, updated_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, q,
		u.ID, u.Name, u.Email, u.Phone, u.PasswordHash, string(u.Role),
		u.Owner, u.Address, u.Latitude, u.Longitude, string(badges),
		formatTime(u.CreatedAt), formatTime(u.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ports.ErrConflict
		}
		return fmt.Errorf("sqlite: create user %q: %w", u.Email, err)
	}
	return nil
}

// ByID returns the account with the given id, or ports.ErrNotFound.
func (r *UserRepo) ByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE id = ?`, id), id)
}

// ByEmail returns the account with the given email, or ports.ErrNotFound.
func (r *UserRepo) ByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE email = ?`, email), email)
}

const userSelect = `
	SELECT id, name, email, phone, password_hash, role,
	       owner, address, latitude, longitude, badges, created_at, updated_at
	FROM   users`

func scanUser(row *sql.Row, key string) (*entity.User, error) {
	var u entity.User
	var role, badges, createdAt, updatedAt string
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &role,
		&u.Owner, &u.Address, &u.Latitude, &u.Longitude, &badges,
		&createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get user %q: %w", key, err)
	}

	u.Role = entity.Role(role)
	if err := json.Unmarshal([]byte(badges), &u.Badges); err != nil {
		return nil, fmt.Errorf("sqlite: unmarshal badges for %q: %w", key, err)
	}
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func badgesOrEmpty(b []string) []string {
	if b == nil {
		return []string{}
	}
	return b
}

// isUniqueViolation matches the modernc driver's constraint error text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
