package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

// ReservationRepo persists the reservations of one Catalog.  The same code
// serves sport and general events; only the Catalog differs.
type ReservationRepo struct {
	db  *sql.DB
	cat Catalog
}

// NewReservationRepo returns a ReservationRepo bound to db and cat.
func NewReservationRepo(db *sql.DB, cat Catalog) *ReservationRepo {
	return &ReservationRepo{db: db, cat: cat}
}

// Catalog returns the event family this repository serves.
func (r *ReservationRepo) Catalog() Catalog { return r.cat }

// ReservationFilter narrows List.  Nil ids are ignored.
type ReservationFilter struct {
	EventID    *uuid.UUID
	StudentID  *uuid.UUID
	ActiveOnly bool
}

// Reserve issues one seat of eventID to studentID.  The whole decision runs
// in a single transaction holding a row lock on the event, so concurrent
// calls for the same event are serialised and can neither overbook the
// event nor double-book the student:
//
//  1. lock the event row; missing → ErrNotFound, inactive → ErrEventInactive
//  2. count its reservations; no free seat → ErrNoSeatsAvailable
//  3. student already holds an active seat → ErrAlreadyReserved
//  4. insert the reservation with the next seat label and commit
func (r *ReservationRepo) Reserve(ctx context.Context, studentID, eventID uuid.UUID) (*model.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	lockQ := fmt.Sprintf(`SELECT e.name, e.is_active, e.organizer_id, %s, %s FROM %s e%s WHERE e.id = ? FOR UPDATE`,
		r.cat.capacityExpr, r.cat.labelExpr, r.cat.EventTable, r.cat.venueJoin)
	var (
		eventName   string
		active      bool
		organizerID uuid.UUID
		capacity    int
		labelSource string
	)
	if err := tx.QueryRowContext(ctx, lockQ, eventID).Scan(&eventName, &active, &organizerID, &capacity, &labelSource); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !active {
		return nil, ErrEventInactive
	}

	countQ := fmt.Sprintf(`SELECT COUNT(*),
		COALESCE(SUM(CASE WHEN is_cancelled = 0 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN is_cancelled = 0 AND student_id = ? THEN 1 ELSE 0 END), 0)
		FROM %s WHERE event_id = ?`, r.cat.ReservationTable)
	var total, activeCount, mine int
	if err := tx.QueryRowContext(ctx, countQ, studentID, eventID).Scan(&total, &activeCount, &mine); err != nil {
		return nil, err
	}
	if capacity-activeCount <= 0 {
		return nil, ErrNoSeatsAvailable
	}
	if mine > 0 {
		return nil, ErrAlreadyReserved
	}

	now := time.Now().UTC()
	res := &model.Reservation{
		ID:          uuid.New(),
		EventID:     eventID,
		EventName:   eventName,
		StudentID:   studentID,
		OrganizerID: organizerID,
		SeatNumber:  SeatLabel(labelSource, total),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	insQ := fmt.Sprintf(`INSERT INTO %s (id, event_id, student_id, seat_number, is_cancelled, created_at, updated_at) VALUES (?, ?, ?, ?, 0, ?, ?)`,
		r.cat.ReservationTable)
	if _, err := tx.ExecContext(ctx, insQ, res.ID, res.EventID, res.StudentID, res.SeatNumber, res.CreatedAt, res.UpdatedAt); err != nil {
		if isDuplicateKey(err) {
			return nil, ErrAlreadyReserved
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return res, nil
}

func (r *ReservationRepo) selectSQL() string {
	return fmt.Sprintf(`SELECT r.id, r.event_id, e.name, e.organizer_id, r.student_id, u.name, u.email,
		r.seat_number, r.is_cancelled, r.created_at, r.updated_at
		FROM %s r
		JOIN %s e ON e.id = r.event_id
		JOIN users u ON u.id = r.student_id`, r.cat.ReservationTable, r.cat.EventTable)
}

func scanReservation(s scanner) (model.Reservation, error) {
	var m model.Reservation
	err := s.Scan(&m.ID, &m.EventID, &m.EventName, &m.OrganizerID, &m.StudentID, &m.StudentName, &m.StudentEmail,
		&m.SeatNumber, &m.IsCancelled, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// GetByID returns ErrNotFound when no reservation has the given id.
func (r *ReservationRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	m, err := scanReservation(r.db.QueryRowContext(ctx, r.selectSQL()+" WHERE r.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// MarkCancelled flips is_cancelled from 0 to 1.  It reports false when the
// reservation was already cancelled (or does not exist), which makes
// concurrent cancellations of the same reservation produce a single winner.
func (r *ReservationRepo) MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error) {
	q := fmt.Sprintf(`UPDATE %s SET is_cancelled = 1, updated_at = ? WHERE id = ? AND is_cancelled = 0`, r.cat.ReservationTable)
	res, err := r.db.ExecContext(ctx, q, time.Now().UTC(), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// List returns reservations in creation order.
func (r *ReservationRepo) List(ctx context.Context, f ReservationFilter) ([]model.Reservation, error) {
	var (
		where []string
		args  []any
	)
	if f.EventID != nil {
		where = append(where, "r.event_id = ?")
		args = append(args, *f.EventID)
	}
	if f.StudentID != nil {
		where = append(where, "r.student_id = ?")
		args = append(args, *f.StudentID)
	}
	if f.ActiveOnly {
		where = append(where, "r.is_cancelled = 0")
	}
	q := r.selectSQL()
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY r.created_at, r.id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		m, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Availability computes the live seat arithmetic of an event.
func (r *ReservationRepo) Availability(ctx context.Context, eventID uuid.UUID) (model.Availability, error) {
	q := fmt.Sprintf(`SELECT %s,
		(SELECT COUNT(*) FROM %s x WHERE x.event_id = e.id AND x.is_cancelled = 0)
		FROM %s e%s WHERE e.id = ?`, r.cat.capacityExpr, r.cat.ReservationTable, r.cat.EventTable, r.cat.venueJoin)
	var capacity, reserved int
	if err := r.db.QueryRowContext(ctx, q, eventID).Scan(&capacity, &reserved); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Availability{}, ErrNotFound
		}
		return model.Availability{}, err
	}
	return model.NewAvailability(eventID, capacity, reserved), nil
}
