package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

// GeneralEventRepo stores general events, which carry their own capacity
// and address.
type GeneralEventRepo struct{ db *sql.DB }

func NewGeneralEventRepo(db *sql.DB) *GeneralEventRepo { return &GeneralEventRepo{db: db} }

const generalEventSelect = `SELECT e.id, e.name, e.description, e.starts_at, e.ends_at, e.is_active, e.capacity,
	(SELECT COUNT(*) FROM general_reservations r WHERE r.event_id = e.id AND r.is_cancelled = 0),
	e.address_line1, e.address_line2, e.city, e.state, e.zip_code,
	e.organizer_id, e.created_at, e.updated_at
	FROM general_events e`

func scanGeneralEvent(s scanner) (*model.GeneralEvent, error) {
	var e model.GeneralEvent
	err := s.Scan(&e.ID, &e.Name, &e.Description, &e.StartsAt, &e.EndsAt, &e.IsActive, &e.Capacity,
		&e.Reserved,
		&e.Address.Line1, &e.Address.Line2, &e.Address.City, &e.Address.State, &e.Address.ZipCode,
		&e.OrganizerID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	e.AvailableSeats = model.SeatsLeft(e.Capacity, e.Reserved)
	return &e, nil
}

func (r *GeneralEventRepo) Create(ctx context.Context, e *model.GeneralEvent) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt, e.IsActive = now, now, true
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO general_events (id, name, description, starts_at, ends_at, is_active, capacity,
			address_line1, address_line2, city, state, zip_code, organizer_id, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		e.ID, e.Name, e.Description, e.StartsAt, e.EndsAt, e.IsActive, e.Capacity,
		e.Address.Line1, e.Address.Line2, e.Address.City, e.Address.State, e.Address.ZipCode,
		e.OrganizerID, e.CreatedAt, e.UpdatedAt)
	return err
}

func (r *GeneralEventRepo) Update(ctx context.Context, e *model.GeneralEvent) error {
	e.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE general_events SET name = ?, description = ?, starts_at = ?, ends_at = ?, capacity = ?,
			address_line1 = ?, address_line2 = ?, city = ?, state = ?, zip_code = ?, updated_at = ?
		WHERE id = ?`,
		e.Name, e.Description, e.StartsAt, e.EndsAt, e.Capacity,
		e.Address.Line1, e.Address.Line2, e.Address.City, e.Address.State, e.Address.ZipCode,
		e.UpdatedAt, e.ID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *GeneralEventRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.GeneralEvent, error) {
	return scanGeneralEvent(r.db.QueryRowContext(ctx, generalEventSelect+" WHERE e.id = ?", id))
}

func (r *GeneralEventRepo) List(ctx context.Context, f EventFilter) ([]model.GeneralEvent, error) {
	where, args := eventWhere(f)
	rows, err := r.db.QueryContext(ctx, generalEventSelect+where+" ORDER BY e.starts_at, e.name", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.GeneralEvent, 0)
	for rows.Next() {
		e, err := scanGeneralEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *GeneralEventRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	return deactivate(ctx, r.db, "general_events", id)
}
