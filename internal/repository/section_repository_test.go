package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConflictExistsOccupiedSlot(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSectionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM sections WHERE semester = $1 AND year = $2 AND day_of_week = $3 AND start_time = $4 AND classroom = $5 LIMIT 1")).
		WithArgs("FALL", 2026, "MONDAY", "09:00", "B-101").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	conflict, err := repo.ConflictExists(context.Background(), "FALL", 2026, "MONDAY", "09:00", "B-101", 0)
	require.NoError(t, err)
	assert.True(t, conflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConflictExistsFreeSlot(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSectionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM sections WHERE semester = $1 AND year = $2 AND day_of_week = $3 AND start_time = $4 AND classroom = $5 LIMIT 1")).
		WithArgs("FALL", 2026, "MONDAY", "09:00", "B-101").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	conflict, err := repo.ConflictExists(context.Background(), "FALL", 2026, "MONDAY", "09:00", "B-101", 0)
	require.NoError(t, err)
	assert.False(t, conflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConflictExistsSkipsOwnRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSectionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM sections WHERE semester = $1 AND year = $2 AND day_of_week = $3 AND start_time = $4 AND classroom = $5 AND id <> $6 LIMIT 1")).
		WithArgs("FALL", 2026, "MONDAY", "09:00", "B-101", int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	conflict, err := repo.ConflictExists(context.Background(), "FALL", 2026, "MONDAY", "09:00", "B-101", 7)
	require.NoError(t, err)
	assert.False(t, conflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsTaughtBy(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSectionRepository(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(10), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	owns, err := repo.IsTaughtBy(context.Background(), 10, 3)
	require.NoError(t, err)
	assert.True(t, owns)
	assert.NoError(t, mock.ExpectationsWereMet())
}
