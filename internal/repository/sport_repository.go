package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

type SportRepo struct {
	db *sql.DB
}

func NewSportRepo(db *sql.DB) *SportRepo { return &SportRepo{db: db} }

func scanSport(s scanner) (*model.Sport, error) {
	var sp model.Sport
	if err := s.Scan(&sp.ID, &sp.Name, &sp.Description, &sp.CreatedAt, &sp.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sp, nil
}

func (r *SportRepo) Create(ctx context.Context, sp *model.Sport) error {
	if sp.ID == uuid.Nil {
		sp.ID = uuid.New()
	}
	now := time.Now().UTC()
	sp.CreatedAt, sp.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sports (id, name, description, created_at, updated_at) VALUES (?,?,?,?,?)",
		sp.ID, sp.Name, sp.Description, sp.CreatedAt, sp.UpdatedAt)
	if isDuplicateKey(err) {
		return ErrConflict
	}
	return err
}

func (r *SportRepo) Update(ctx context.Context, sp *model.Sport) error {
	sp.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		"UPDATE sports SET name = ?, description = ?, updated_at = ? WHERE id = ?",
		sp.Name, sp.Description, sp.UpdatedAt, sp.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	return expectOne(res)
}

func (r *SportRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Sport, error) {
	return scanSport(r.db.QueryRowContext(ctx,
		"SELECT id, name, description, created_at, updated_at FROM sports WHERE id = ?", id))
}

func (r *SportRepo) List(ctx context.Context) ([]model.Sport, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, description, created_at, updated_at FROM sports ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Sport, 0)
	for rows.Next() {
		sp, err := scanSport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sp)
	}
	return out, rows.Err()
}
