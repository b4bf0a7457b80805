package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

type TeamRepo struct {
	db *sql.DB
}

func NewTeamRepo(db *sql.DB) *TeamRepo { return &TeamRepo{db: db} }

const teamSelect = `SELECT t.id, t.name, t.sport_id, s.name, t.created_at, t.updated_at
	FROM teams t JOIN sports s ON s.id = t.sport_id`

func scanTeam(s scanner) (*model.Team, error) {
	var t model.Team
	if err := s.Scan(&t.ID, &t.Name, &t.SportID, &t.SportName, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TeamRepo) Create(ctx context.Context, t *model.Team) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO teams (id, name, sport_id, created_at, updated_at) VALUES (?,?,?,?,?)",
		t.ID, t.Name, t.SportID, t.CreatedAt, t.UpdatedAt)
	if isDuplicateKey(err) {
		return ErrConflict
	}
	return err
}

func (r *TeamRepo) Update(ctx context.Context, t *model.Team) error {
	t.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		"UPDATE teams SET name = ?, sport_id = ?, updated_at = ? WHERE id = ?",
		t.Name, t.SportID, t.UpdatedAt, t.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	return expectOne(res)
}

func (r *TeamRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Team, error) {
	return scanTeam(r.db.QueryRowContext(ctx, teamSelect+" WHERE t.id = ?", id))
}

// List returns teams, optionally only those of one sport.
func (r *TeamRepo) List(ctx context.Context, sportID *uuid.UUID) ([]model.Team, error) {
	q := teamSelect
	var args []any
	if sportID != nil {
		q += " WHERE t.sport_id = ?"
		args = append(args, *sportID)
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY t.name", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Team, 0)
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}
