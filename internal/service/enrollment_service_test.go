package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opencampus/registrar-api/internal/models"
	"github.com/opencampus/registrar-api/internal/repository"
	appErrors "github.com/opencampus/registrar-api/pkg/errors"
)

type mockEnrollmentUsers struct {
	user *models.User
}

func (m *mockEnrollmentUsers) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return m.user, nil
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(ctx context.Context) { c.calls++ }

func newEnrollmentFixture(t *testing.T) (*EnrollmentService, sqlmock.Sqlmock, *countingInvalidator, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")

	repo := repository.NewEnrollmentRepository(sqlxdb)
	users := &mockEnrollmentUsers{user: &models.User{ID: 5, Role: models.RoleStudent, Active: true}}
	invalidator := &countingInvalidator{}
	svc := NewEnrollmentService(repo, users, NewAccessGuard(&mockOwnership{}), invalidator, zap.NewNop())
	return svc, mock, invalidator, func() { db.Close() }
}

func expectSeatLock(mock sqlmock.Sqlmock, sectionID, courseID int64, capacity int) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course_id, capacity FROM sections WHERE id = $1 FOR UPDATE")).
		WithArgs(sectionID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "course_id", "capacity"}).AddRow(sectionID, courseID, capacity))
}

func TestEnrollAdmitsStudent(t *testing.T) {
	svc, mock, invalidator, cleanup := newEnrollmentFixture(t)
	defer cleanup()

	mock.ExpectBegin()
	expectSeatLock(mock, 10, 2, 30)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM enrollments WHERE section_id = $1")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery("SELECT cp.prerequisite_id").
		WithArgs(int64(2), int64(5), string(models.EnrollmentStatusCompleted)).
		WillReturnRows(sqlmock.NewRows([]string{"prerequisite_id"}))
	mock.ExpectQuery("INSERT INTO enrollments").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(77))
	mock.ExpectCommit()

	claims := &models.JWTClaims{UserID: 5, Role: models.RoleStudent}
	enrollment, err := svc.Enroll(context.Background(), claims, models.CreateEnrollmentRequest{StudentID: 5, SectionID: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(77), enrollment.ID)
	assert.Equal(t, models.EnrollmentStatusEnrolled, enrollment.Status)
	assert.Equal(t, 1, invalidator.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollSectionFull(t *testing.T) {
	svc, mock, invalidator, cleanup := newEnrollmentFixture(t)
	defer cleanup()

	mock.ExpectBegin()
	expectSeatLock(mock, 10, 2, 30)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM enrollments WHERE section_id = $1")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(30))
	mock.ExpectRollback()

	claims := &models.JWTClaims{UserID: 5, Role: models.RoleStudent}
	_, err := svc.Enroll(context.Background(), claims, models.CreateEnrollmentRequest{StudentID: 5, SectionID: 10})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSectionFull.Code, appErrors.FromError(err).Code)
	assert.Zero(t, invalidator.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollPrerequisiteUnmet(t *testing.T) {
	svc, mock, _, cleanup := newEnrollmentFixture(t)
	defer cleanup()

	mock.ExpectBegin()
	expectSeatLock(mock, 10, 2, 30)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM enrollments WHERE section_id = $1")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT cp.prerequisite_id").
		WithArgs(int64(2), int64(5), string(models.EnrollmentStatusCompleted)).
		WillReturnRows(sqlmock.NewRows([]string{"prerequisite_id"}).AddRow(1))
	mock.ExpectRollback()

	claims := &models.JWTClaims{UserID: 5, Role: models.RoleStudent}
	_, err := svc.Enroll(context.Background(), claims, models.CreateEnrollmentRequest{StudentID: 5, SectionID: 10})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPrerequisiteUnmet.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "course 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollDuplicateRejected(t *testing.T) {
	svc, mock, invalidator, cleanup := newEnrollmentFixture(t)
	defer cleanup()

	mock.ExpectBegin()
	expectSeatLock(mock, 10, 2, 30)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM enrollments WHERE section_id = $1")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery("SELECT cp.prerequisite_id").
		WithArgs(int64(2), int64(5), string(models.EnrollmentStatusCompleted)).
		WillReturnRows(sqlmock.NewRows([]string{"prerequisite_id"}))
	mock.ExpectQuery("INSERT INTO enrollments").
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	claims := &models.JWTClaims{UserID: 5, Role: models.RoleStudent}
	_, err := svc.Enroll(context.Background(), claims, models.CreateEnrollmentRequest{StudentID: 5, SectionID: 10})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAlreadyEnrolled.Code, appErrors.FromError(err).Code)
	assert.Zero(t, invalidator.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollOtherStudentForbidden(t *testing.T) {
	svc, mock, _, cleanup := newEnrollmentFixture(t)
	defer cleanup()

	claims := &models.JWTClaims{UserID: 6, Role: models.RoleStudent}
	_, err := svc.Enroll(context.Background(), claims, models.CreateEnrollmentRequest{StudentID: 5, SectionID: 10})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateGradeRecomputesGPA(t *testing.T) {
	svc, mock, invalidator, cleanup := newEnrollmentFixture(t)
	defer cleanup()

	enrolledAt := time.Now()
	findRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "student_id", "section_id", "status", "grade", "enrolled_at"}).
			AddRow(77, 5, 10, string(models.EnrollmentStatusEnrolled), nil, enrolledAt)
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, section_id, status, grade, enrolled_at FROM enrollments WHERE id = $1")).
		WithArgs(int64(77)).
		WillReturnRows(findRows())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE enrollments SET grade = $2, status = $3 WHERE id = $1")).
		WithArgs(int64(77), 3.3, string(models.EnrollmentStatusCompleted)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT e.grade, c.credits").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"grade", "credits"}).
			AddRow(3.3, 4).
			AddRow(1.3, 3))
	// (3.3*4 + 1.3*3) / 7 rounds to 2.44
	mock.ExpectExec(regexp.QuoteMeta("UPDATE student_profiles SET gpa = $2, credits_earned = $3 WHERE user_id = $1")).
		WithArgs(int64(5), 2.44, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, section_id, status, grade, enrolled_at FROM enrollments WHERE id = $1")).
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "section_id", "status", "grade", "enrolled_at"}).
			AddRow(77, 5, 10, string(models.EnrollmentStatusCompleted), 3.3, enrolledAt))

	enrollment, err := svc.UpdateGrade(context.Background(), adminClaims(), 77, models.GradeEnrollmentRequest{Grade: 3.3})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusCompleted, enrollment.Status)
	assert.Equal(t, 1, invalidator.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateGradeBelowOneFails(t *testing.T) {
	svc, mock, _, cleanup := newEnrollmentFixture(t)
	defer cleanup()

	enrolledAt := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, section_id, status, grade, enrolled_at FROM enrollments WHERE id = $1")).
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "section_id", "status", "grade", "enrolled_at"}).
			AddRow(77, 5, 10, string(models.EnrollmentStatusEnrolled), nil, enrolledAt))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE enrollments SET grade = $2, status = $3 WHERE id = $1")).
		WithArgs(int64(77), 0.7, string(models.EnrollmentStatusFailed)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT e.grade, c.credits").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"grade", "credits"}).AddRow(0.7, 4))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE student_profiles SET gpa = $2, credits_earned = $3 WHERE user_id = $1")).
		WithArgs(int64(5), 0.7, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, section_id, status, grade, enrolled_at FROM enrollments WHERE id = $1")).
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "section_id", "status", "grade", "enrolled_at"}).
			AddRow(77, 5, 10, string(models.EnrollmentStatusFailed), 0.7, enrolledAt))

	enrollment, err := svc.UpdateGrade(context.Background(), adminClaims(), 77, models.GradeEnrollmentRequest{Grade: 0.7})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusFailed, enrollment.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateGradeDroppedEnrollment(t *testing.T) {
	svc, mock, _, cleanup := newEnrollmentFixture(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, section_id, status, grade, enrolled_at FROM enrollments WHERE id = $1")).
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "section_id", "status", "grade", "enrolled_at"}).
			AddRow(77, 5, 10, string(models.EnrollmentStatusDropped), nil, time.Now()))

	_, err := svc.UpdateGrade(context.Background(), adminClaims(), 77, models.GradeEnrollmentRequest{Grade: 3.0})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecomputeAcademicsCountsFailedCredits(t *testing.T) {
	svc, mock, _, cleanup := newEnrollmentFixture(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT e.grade, c.credits").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"grade", "credits"}).AddRow(0.7, 4))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE student_profiles SET gpa = $2, credits_earned = $3 WHERE user_id = $1")).
		WithArgs(int64(5), 0.7, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	academics, err := svc.RecomputeAcademics(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 0.7, academics.GPA)
	assert.Equal(t, 4, academics.CreditsEarned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDropOwnEnrollment(t *testing.T) {
	svc, mock, invalidator, cleanup := newEnrollmentFixture(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, section_id, status, grade, enrolled_at FROM enrollments WHERE id = $1")).
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "section_id", "status", "grade", "enrolled_at"}).
			AddRow(77, 5, 10, string(models.EnrollmentStatusEnrolled), nil, time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE enrollments SET status = $2 WHERE id = $1")).
		WithArgs(int64(77), string(models.EnrollmentStatusDropped)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	claims := &models.JWTClaims{UserID: 5, Role: models.RoleStudent}
	require.NoError(t, svc.Drop(context.Background(), claims, 77))
	assert.Equal(t, 1, invalidator.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDropCompletedEnrollmentRejected(t *testing.T) {
	svc, mock, _, cleanup := newEnrollmentFixture(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, section_id, status, grade, enrolled_at FROM enrollments WHERE id = $1")).
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "section_id", "status", "grade", "enrolled_at"}).
			AddRow(77, 5, 10, string(models.EnrollmentStatusCompleted), 3.0, time.Now()))

	claims := &models.JWTClaims{UserID: 5, Role: models.RoleStudent}
	err := svc.Drop(context.Background(), claims, 77)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
