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

type mockAttendanceStore struct {
	exists  bool
	byID    map[int64]*models.AttendanceRecord
	created *models.AttendanceRecord
	updated *models.AttendanceStatus
	listed  struct {
		sectionID int64
		studentID int64
	}
}

func (m *mockAttendanceStore) Exists(ctx context.Context, sectionID, studentID int64, date time.Time) (bool, error) {
	return m.exists, nil
}

func (m *mockAttendanceStore) Create(ctx context.Context, record *models.AttendanceRecord) error {
	record.ID = 1
	m.created = record
	return nil
}

func (m *mockAttendanceStore) List(ctx context.Context, sectionID, studentID int64, date *time.Time) ([]models.AttendanceRecord, error) {
	m.listed.sectionID = sectionID
	m.listed.studentID = studentID
	return nil, nil
}

func (m *mockAttendanceStore) FindByID(ctx context.Context, id int64) (*models.AttendanceRecord, error) {
	return m.byID[id], nil
}

func (m *mockAttendanceStore) UpdateStatus(ctx context.Context, id int64, status models.AttendanceStatus) error {
	m.updated = &status
	return nil
}

func TestAttendanceRecordSuccess(t *testing.T) {
	store := &mockAttendanceStore{}
	svc := NewAttendanceService(store, &mockSubmissionEnrollments{enrolled: true}, NewAccessGuard(&mockOwnership{}))

	record, err := svc.Record(context.Background(), adminClaims(), models.CreateAttendanceRequest{
		SectionID: 10, StudentID: 5, Date: "2026-03-02", Status: models.AttendancePresent,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AttendancePresent, record.Status)
	assert.Equal(t, 2026, store.created.Date.Year())
}

func TestAttendanceRecordDuplicate(t *testing.T) {
	store := &mockAttendanceStore{exists: true}
	svc := NewAttendanceService(store, &mockSubmissionEnrollments{enrolled: true}, NewAccessGuard(&mockOwnership{}))

	_, err := svc.Record(context.Background(), adminClaims(), models.CreateAttendanceRequest{
		SectionID: 10, StudentID: 5, Date: "2026-03-02", Status: models.AttendanceAbsent,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAlreadyRecorded.Code, appErrors.FromError(err).Code)
	assert.Nil(t, store.created)
}

func TestAttendanceRecordUnenrolledStudent(t *testing.T) {
	store := &mockAttendanceStore{}
	svc := NewAttendanceService(store, &mockSubmissionEnrollments{enrolled: false}, NewAccessGuard(&mockOwnership{}))

	_, err := svc.Record(context.Background(), adminClaims(), models.CreateAttendanceRequest{
		SectionID: 10, StudentID: 5, Date: "2026-03-02", Status: models.AttendancePresent,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAttendanceUpdateStatus(t *testing.T) {
	store := &mockAttendanceStore{byID: map[int64]*models.AttendanceRecord{
		4: {ID: 4, SectionID: 10, StudentID: 5, Status: models.AttendanceAbsent},
	}}
	svc := NewAttendanceService(store, &mockSubmissionEnrollments{enrolled: true}, NewAccessGuard(&mockOwnership{}))

	record, err := svc.UpdateStatus(context.Background(), adminClaims(), 4, models.UpdateAttendanceRequest{Status: models.AttendanceExcused})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceExcused, record.Status)
	require.NotNil(t, store.updated)
	assert.Equal(t, models.AttendanceExcused, *store.updated)
}

func TestAttendanceListForcesStudentScope(t *testing.T) {
	store := &mockAttendanceStore{}
	svc := NewAttendanceService(store, &mockSubmissionEnrollments{enrolled: true}, NewAccessGuard(&mockOwnership{}))

	_, err := svc.List(context.Background(), &models.JWTClaims{UserID: 5, Role: models.RoleStudent}, 10, 99, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), store.listed.studentID)
}
