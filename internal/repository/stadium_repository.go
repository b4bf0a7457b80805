// This file holds the venue repositories: stadiums, sports and teams.
// Sport events reference all three and draw their capacity from the
// stadium.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

// StadiumRepo encapsulates all database queries related to stadiums.
type StadiumRepo struct {
	db *sql.DB
}

func NewStadiumRepo(db *sql.DB) *StadiumRepo { return &StadiumRepo{db: db} }

const stadiumColumns = `id, name, capacity, address_line1, address_line2, city, state, zip_code, created_at, updated_at`

func scanStadium(s scanner) (*model.Stadium, error) {
	var st model.Stadium
	err := s.Scan(&st.ID, &st.Name, &st.Capacity,
		&st.Address.Line1, &st.Address.Line2, &st.Address.City, &st.Address.State, &st.Address.ZipCode,
		&st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

// Create inserts a new stadium.  Duplicate names map to ErrConflict.
func (r *StadiumRepo) Create(ctx context.Context, st *model.Stadium) error {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	now := time.Now().UTC()
	st.CreatedAt, st.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO stadiums ("+stadiumColumns+") VALUES (?,?,?,?,?,?,?,?,?,?)",
		st.ID, st.Name, st.Capacity,
		st.Address.Line1, st.Address.Line2, st.Address.City, st.Address.State, st.Address.ZipCode,
		st.CreatedAt, st.UpdatedAt)
	if isDuplicateKey(err) {
		return ErrConflict
	}
	return err
}

// Update rewrites a stadium.  Shrinking the capacity below the active
// reservations of an event leaves those reservations in place; the event
// simply reports zero available seats.
func (r *StadiumRepo) Update(ctx context.Context, st *model.Stadium) error {
	st.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE stadiums SET name = ?, capacity = ?, address_line1 = ?, address_line2 = ?,
			city = ?, state = ?, zip_code = ?, updated_at = ? WHERE id = ?`,
		st.Name, st.Capacity, st.Address.Line1, st.Address.Line2,
		st.Address.City, st.Address.State, st.Address.ZipCode, st.UpdatedAt, st.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	return expectOne(res)
}

func (r *StadiumRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Stadium, error) {
	return scanStadium(r.db.QueryRowContext(ctx, "SELECT "+stadiumColumns+" FROM stadiums WHERE id = ?", id))
}

func (r *StadiumRepo) List(ctx context.Context) ([]model.Stadium, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+stadiumColumns+" FROM stadiums ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Stadium, 0)
	for rows.Next() {
		st, err := scanStadium(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	return out, rows.Err()
}
