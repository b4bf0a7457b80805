package database

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatements(t *testing.T) {
	stmts := Statements()
	require.NotEmpty(t, stmts)
	tables := map[string]bool{}
	for _, s := range stmts {
		assert.NotEmpty(t, s)
		assert.False(t, strings.HasSuffix(s, ";"))
		if m := regexp.MustCompile(`CREATE TABLE IF NOT EXISTS (\w+)`).FindStringSubmatch(s); m != nil {
			tables[m[1]] = true
		}
	}
	for _, want := range []string{"users", "refresh_tokens", "stadiums", "sports", "teams",
		"events", "reservations", "general_events", "general_reservations"} {
		assert.True(t, tables[want], want)
	}
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	stmts := Statements()
	mock.ExpectExec(stmts[0]).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(stmts[1]).WillReturnError(errors.New("denied"))

	err = Migrate(context.Background(), db)
	assert.EqualError(t, err, "schema statement 2: denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}
