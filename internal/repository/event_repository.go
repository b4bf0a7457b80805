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

// EventFilter narrows event listings.
type EventFilter struct {
	ActiveOnly  bool
	OrganizerID *uuid.UUID
}

// EventRepo stores sport events.  Reads join the stadium, sport and both
// teams and count the active reservations so callers get seat figures
// without a second round trip.
type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

const eventSelect = `SELECT e.id, e.name, e.description, e.starts_at, e.ends_at, e.is_active, e.organizer_id,
	e.stadium_id, st.name, st.capacity, e.sport_id, sp.name,
	e.team_one_id, t1.name, e.team_two_id, t2.name,
	(SELECT COUNT(*) FROM reservations r WHERE r.event_id = e.id AND r.is_cancelled = 0),
	e.created_at, e.updated_at
	FROM events e
	JOIN stadiums st ON st.id = e.stadium_id
	JOIN sports sp ON sp.id = e.sport_id
	JOIN teams t1 ON t1.id = e.team_one_id
	JOIN teams t2 ON t2.id = e.team_two_id`

func scanEvent(s scanner) (*model.Event, error) {
	var e model.Event
	err := s.Scan(&e.ID, &e.Name, &e.Description, &e.StartsAt, &e.EndsAt, &e.IsActive, &e.OrganizerID,
		&e.StadiumID, &e.StadiumName, &e.Capacity, &e.SportID, &e.SportName,
		&e.TeamOneID, &e.TeamOneName, &e.TeamTwoID, &e.TeamTwoName,
		&e.Reserved, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	e.AvailableSeats = model.SeatsLeft(e.Capacity, e.Reserved)
	return &e, nil
}

// Create inserts e as an active event.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt, e.IsActive = now, now, true
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO events (id, name, description, starts_at, ends_at, is_active, organizer_id,
			stadium_id, sport_id, team_one_id, team_two_id, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		e.ID, e.Name, e.Description, e.StartsAt, e.EndsAt, e.IsActive, e.OrganizerID,
		e.StadiumID, e.SportID, e.TeamOneID, e.TeamTwoID, e.CreatedAt, e.UpdatedAt)
	return err
}

// Update rewrites the descriptive columns.  is_active is only ever changed
// by Deactivate.
func (r *EventRepo) Update(ctx context.Context, e *model.Event) error {
	e.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET name = ?, description = ?, starts_at = ?, ends_at = ?,
			stadium_id = ?, sport_id = ?, team_one_id = ?, team_two_id = ?, updated_at = ?
		WHERE id = ?`,
		e.Name, e.Description, e.StartsAt, e.EndsAt,
		e.StadiumID, e.SportID, e.TeamOneID, e.TeamTwoID, e.UpdatedAt, e.ID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *EventRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	return scanEvent(r.db.QueryRowContext(ctx, eventSelect+" WHERE e.id = ?", id))
}

// List returns events ordered by start time.
func (r *EventRepo) List(ctx context.Context, f EventFilter) ([]model.Event, error) {
	where, args := eventWhere(f)
	rows, err := r.db.QueryContext(ctx, eventSelect+where+" ORDER BY e.starts_at, e.name", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// Deactivate marks the event inactive.  Reserve locks the same row, so once
// this commits no new reservation can be issued for the event.
func (r *EventRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	return deactivate(ctx, r.db, "events", id)
}

func eventWhere(f EventFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.ActiveOnly {
		conds = append(conds, "e.is_active = 1")
	}
	if f.OrganizerID != nil {
		conds = append(conds, "e.organizer_id = ?")
		args = append(args, *f.OrganizerID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func deactivate(ctx context.Context, db *sql.DB, table string, id uuid.UUID) error {
	res, err := db.ExecContext(ctx, "UPDATE "+table+" SET is_active = 0, updated_at = ? WHERE id = ?", time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return expectOne(res)
}
