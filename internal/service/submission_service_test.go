package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/registrar-api/internal/models"
	appErrors "github.com/opencampus/registrar-api/pkg/errors"
)

type mockSubmissionStore struct {
	byID      map[int64]*models.Submission
	createErr error
	created   *models.Submission
	graded    *float64
}

func (m *mockSubmissionStore) ListByAssignment(ctx context.Context, assignmentID int64) ([]models.SubmissionDetail, error) {
	return nil, nil
}

func (m *mockSubmissionStore) ListByStudent(ctx context.Context, studentID int64) ([]models.SubmissionDetail, error) {
	return nil, nil
}

func (m *mockSubmissionStore) FindByID(ctx context.Context, id int64) (*models.Submission, error) {
	return m.byID[id], nil
}

func (m *mockSubmissionStore) Create(ctx context.Context, submission *models.Submission) error {
	if m.createErr != nil {
		return m.createErr
	}
	submission.ID = 1
	m.created = submission
	return nil
}

func (m *mockSubmissionStore) UpdateGrade(ctx context.Context, id int64, grade float64) error {
	m.graded = &grade
	if sub, ok := m.byID[id]; ok {
		sub.Grade = &grade
	}
	return nil
}

func (m *mockSubmissionStore) Delete(ctx context.Context, id int64) error { return nil }

type mockSubmissionAssignments struct {
	assignment *models.Assignment
}

func (m *mockSubmissionAssignments) FindByID(ctx context.Context, id int64) (*models.Assignment, error) {
	return m.assignment, nil
}

type mockSubmissionEnrollments struct {
	enrolled bool
}

func (m *mockSubmissionEnrollments) ExistsForStudentSection(ctx context.Context, studentID, sectionID int64) (bool, error) {
	return m.enrolled, nil
}

func newSubmissionFixture(dueIn time.Duration, enrolled bool) (*SubmissionService, *mockSubmissionStore) {
	store := &mockSubmissionStore{byID: map[int64]*models.Submission{}}
	assignments := &mockSubmissionAssignments{assignment: &models.Assignment{
		ID: 3, SectionID: 10, Title: "Essay", Weight: 20, MaxScore: 100, DueAt: time.Now().Add(dueIn),
	}}
	svc := NewSubmissionService(store, assignments, &mockSubmissionEnrollments{enrolled: enrolled}, NewAccessGuard(&mockOwnership{}))
	return svc, store
}

func TestSubmitAcceptsBeforeDeadline(t *testing.T) {
	svc, store := newSubmissionFixture(time.Hour, true)
	claims := &models.JWTClaims{UserID: 5, Role: models.RoleStudent}

	submission, err := svc.Submit(context.Background(), claims, models.CreateSubmissionRequest{AssignmentID: 3, Content: "answer"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), submission.StudentID)
	assert.NotNil(t, store.created)
}

func TestSubmitRejectsAfterDeadline(t *testing.T) {
	svc, store := newSubmissionFixture(-time.Minute, true)
	claims := &models.JWTClaims{UserID: 5, Role: models.RoleStudent}

	_, err := svc.Submit(context.Background(), claims, models.CreateSubmissionRequest{AssignmentID: 3, Content: "late"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDeadlinePassed.Code, appErrors.FromError(err).Code)
	assert.Nil(t, store.created)
}

func TestSubmitRejectsUnenrolledStudent(t *testing.T) {
	svc, store := newSubmissionFixture(time.Hour, false)
	claims := &models.JWTClaims{UserID: 5, Role: models.RoleStudent}

	_, err := svc.Submit(context.Background(), claims, models.CreateSubmissionRequest{AssignmentID: 3, Content: "answer"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Nil(t, store.created)
}

func TestGradeSubmissionCapsAtMaxScore(t *testing.T) {
	svc, store := newSubmissionFixture(time.Hour, true)
	store.byID[7] = &models.Submission{ID: 7, AssignmentID: 3, StudentID: 5}

	_, err := svc.Grade(context.Background(), adminClaims(), 7, models.GradeSubmissionRequest{Grade: 101})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrGradeExceedsMax.Code, appErrors.FromError(err).Code)
	assert.Nil(t, store.graded)
}

func TestGradeSubmissionAtMaxScore(t *testing.T) {
	svc, store := newSubmissionFixture(time.Hour, true)
	store.byID[7] = &models.Submission{ID: 7, AssignmentID: 3, StudentID: 5}

	graded, err := svc.Grade(context.Background(), adminClaims(), 7, models.GradeSubmissionRequest{Grade: 100})
	require.NoError(t, err)
	require.NotNil(t, graded.Grade)
	assert.Equal(t, 100.0, *graded.Grade)
}

func TestListByStudentForbidsOtherStudents(t *testing.T) {
	svc, _ := newSubmissionFixture(time.Hour, true)

	_, err := svc.ListByStudent(context.Background(), &models.JWTClaims{UserID: 5, Role: models.RoleStudent}, 6)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = svc.ListByStudent(context.Background(), &models.JWTClaims{UserID: 5, Role: models.RoleStudent}, 5)
	assert.NoError(t, err)
}
