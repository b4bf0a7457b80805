package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventGetByIDReportsAvailableSeats(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEventRepo(db)
	id := uuid.New()

	cols := []string{"id", "name", "description", "starts_at", "ends_at", "is_active", "organizer_id",
		"stadium_id", "stadium", "capacity", "sport_id", "sport", "team_one_id", "team_one", "team_two_id", "team_two",
		"reserved", "created_at", "updated_at"}
	mock.ExpectQuery(`(?s)SELECT e\.id, .*FROM events e.*WHERE e\.id = \?`).WithArgs(id).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(id.String(), "Derby", "", fixedTime, fixedTime, true, uuid.NewString(),
			uuid.NewString(), "Wembley", 10, uuid.NewString(), "Football", uuid.NewString(), "Home", uuid.NewString(), "Away",
			7, fixedTime, fixedTime))

	e, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 10, e.Capacity)
	assert.Equal(t, 7, e.Reserved)
	assert.Equal(t, 3, e.AvailableSeats)

	body, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"available_seats":3`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGeneralEventAvailableSeatsNeverNegative(t *testing.T) {
	db, mock := newMock(t)
	repo := NewGeneralEventRepo(db)
	id := uuid.New()

	cols := []string{"id", "name", "description", "starts_at", "ends_at", "is_active", "capacity", "reserved",
		"line1", "line2", "city", "state", "zip", "organizer_id", "created_at", "updated_at"}
	// capacity lowered below the active reservations
	mock.ExpectQuery(`(?s)SELECT e\.id, .*FROM general_events e WHERE e\.id = \?`).WithArgs(id).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(id.String(), "Fair", "", fixedTime, fixedTime, true, 2, 5,
			"", "", "Oslo", "", "", uuid.NewString(), fixedTime, fixedTime))

	e, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 0, e.AvailableSeats)

	body, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"available_seats":0`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
