package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, name, email, password_hash, role, is_active,
	address_line1, address_line2, city, state, zip_code, reset_token, created_at, updated_at`

func scanUser(s scanner) (*model.User, error) {
	var u model.User
	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive,
		&u.Address.Line1, &u.Address.Line2, &u.Address.City, &u.Address.State, &u.Address.ZipCode,
		&u.ResetToken, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// NormalizeEmail lower-cases and trims an address the way it is stored.
func NormalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Create inserts u.  ID and timestamps are assigned when empty.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = NormalizeEmail(u.Email)
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, is_active,
			address_line1, address_line2, city, state, zip_code, reset_token, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.IsActive,
		u.Address.Line1, u.Address.Line2, u.Address.City, u.Address.State, u.Address.ZipCode,
		u.ResetToken, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", NormalizeEmail(email)))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id))
}

func (r *UserRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE id = ?", id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns users ordered by name; an empty role lists everyone.
func (r *UserRepo) List(ctx context.Context, role string) ([]model.User, error) {
	q := "SELECT " + userColumns + " FROM users"
	var args []any
	if role != "" {
		q += " WHERE role = ?"
		args = append(args, role)
	}
	q += " ORDER BY name, email"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// Update writes every mutable column of u.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	u.Email = NormalizeEmail(u.Email)
	u.UpdatedAt = time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, password_hash = ?, role = ?, is_active = ?,
			address_line1 = ?, address_line2 = ?, city = ?, state = ?, zip_code = ?, reset_token = ?, updated_at = ?
		WHERE id = ?`,
		u.Name, u.Email, u.PasswordHash, u.Role, u.IsActive,
		u.Address.Line1, u.Address.Line2, u.Address.City, u.Address.State, u.Address.ZipCode,
		u.ResetToken, u.UpdatedAt, u.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	return expectOne(res)
}

// ToggleActive flips is_active in place.
func (r *UserRepo) ToggleActive(ctx context.Context, id uuid.UUID) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_active = NOT is_active, updated_at = ? WHERE id = ?", time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// SetResetToken stores a pending password reset token.
func (r *UserRepo) SetResetToken(ctx context.Context, id uuid.UUID, token string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET reset_token = ?, updated_at = ? WHERE id = ?", token, time.Now().UTC(), id)
	return err
}

// ResetPassword replaces the password hash only while token is still the
// pending one, and clears it.  It reports whether the token matched.
func (r *UserRepo) ResetPassword(ctx context.Context, id uuid.UUID, token, hash string) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash = ?, reset_token = '', updated_at = ? WHERE id = ? AND reset_token = ? AND reset_token <> ''",
		hash, time.Now().UTC(), id, token)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// expectOne maps an UPDATE that matched nothing to ErrNotFound.  The DSN
// sets clientFoundRows so unchanged rows still count as matched.
func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
