package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/registrar-api/internal/models"
)

func TestSumWeights(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(weight), 0) FROM assignments WHERE section_id = $1")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(62.5))

	sum, err := repo.SumWeights(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 62.5, sum)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSumWeightsExcludesRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(weight), 0) FROM assignments WHERE section_id = $1 AND id <> $2")).
		WithArgs(int64(10), int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(40.0))

	sum, err := repo.SumWeights(context.Background(), 10, 5)
	require.NoError(t, err)
	assert.Equal(t, 40.0, sum)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAssignment(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery("INSERT INTO assignments").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	assignment := &models.Assignment{SectionID: 10, Title: "Quiz", Weight: 10, MaxScore: 20, DueAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Create(context.Background(), assignment))
	assert.Equal(t, int64(3), assignment.ID)
	assert.False(t, assignment.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBySectionOrdered(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, section_id, title, weight, max_score, due_at, created_at FROM assignments WHERE section_id = $1 ORDER BY due_at")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "section_id", "title", "weight", "max_score", "due_at", "created_at"}).
			AddRow(1, 10, "Quiz", 10.0, 20.0, now, now).
			AddRow(2, 10, "Final", 40.0, 100.0, now.Add(time.Hour), now))

	assignments, err := repo.ListBySection(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, assignments, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
