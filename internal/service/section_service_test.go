package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/registrar-api/internal/models"
	"github.com/opencampus/registrar-api/internal/repository"
	appErrors "github.com/opencampus/registrar-api/pkg/errors"
)

type mockSectionStore struct {
	byID          map[int64]*models.Section
	conflict      bool
	conflictArgs  []interface{}
	conflictCalls int
	hasEnrolled   bool
	created       *models.Section
	updated       *repository.UpdateSectionParams
	deleted       int64
}

func (m *mockSectionStore) List(ctx context.Context, filter models.SectionFilter) ([]models.SectionDetail, int, error) {
	return nil, 0, nil
}

func (m *mockSectionStore) FindByID(ctx context.Context, id int64) (*models.Section, error) {
	section, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return section, nil
}

func (m *mockSectionStore) FindDetailByID(ctx context.Context, id int64) (*models.SectionDetail, error) {
	section, ok := m.byID[id]
	if !ok {
		return &models.SectionDetail{Section: models.Section{ID: id}}, nil
	}
	return &models.SectionDetail{Section: *section}, nil
}

func (m *mockSectionStore) ConflictExists(ctx context.Context, semester string, year int, dayOfWeek, startTime, classroom string, excludeID int64) (bool, error) {
	m.conflictCalls++
	m.conflictArgs = []interface{}{semester, year, dayOfWeek, startTime, classroom, excludeID}
	return m.conflict, nil
}

func (m *mockSectionStore) Create(ctx context.Context, section *models.Section) error {
	section.ID = 1
	m.created = section
	return nil
}

func (m *mockSectionStore) Update(ctx context.Context, id int64, params repository.UpdateSectionParams) error {
	m.updated = &params
	return nil
}

func (m *mockSectionStore) HasEnrollments(ctx context.Context, id int64) (bool, error) {
	return m.hasEnrolled, nil
}

func (m *mockSectionStore) Delete(ctx context.Context, id int64) error {
	m.deleted = id
	return nil
}

type mockSectionCourses struct {
	course *models.Course
}

func (m *mockSectionCourses) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	if m.course == nil {
		return nil, sql.ErrNoRows
	}
	return m.course, nil
}

type mockSectionUsers struct {
	user *models.User
}

func (m *mockSectionUsers) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if m.user == nil {
		return nil, sql.ErrNoRows
	}
	return m.user, nil
}

func validCreateSectionRequest() models.CreateSectionRequest {
	return models.CreateSectionRequest{
		CourseID:     2,
		InstructorID: 3,
		Semester:     "FALL",
		Year:         2026,
		DayOfWeek:    "MONDAY",
		StartTime:    "09:00",
		Classroom:    "B-101",
		Capacity:     30,
	}
}

func TestSectionCreateSuccess(t *testing.T) {
	store := &mockSectionStore{byID: map[int64]*models.Section{}}
	svc := NewSectionService(store,
		&mockSectionCourses{course: &models.Course{ID: 2}},
		&mockSectionUsers{user: &models.User{ID: 3, Role: models.RoleInstructor, Active: true}})

	_, err := svc.Create(context.Background(), validCreateSectionRequest())
	require.NoError(t, err)
	require.NotNil(t, store.created)
	assert.Equal(t, "B-101", store.created.Classroom)
}

func TestSectionCreateScheduleConflict(t *testing.T) {
	store := &mockSectionStore{conflict: true}
	svc := NewSectionService(store,
		&mockSectionCourses{course: &models.Course{ID: 2}},
		&mockSectionUsers{user: &models.User{ID: 3, Role: models.RoleInstructor, Active: true}})

	_, err := svc.Create(context.Background(), validCreateSectionRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrScheduleConflict.Code, appErrors.FromError(err).Code)
	assert.Nil(t, store.created)
}

func TestSectionCreateRejectsNonInstructor(t *testing.T) {
	store := &mockSectionStore{}
	svc := NewSectionService(store,
		&mockSectionCourses{course: &models.Course{ID: 2}},
		&mockSectionUsers{user: &models.User{ID: 3, Role: models.RoleStudent, Active: true}})

	_, err := svc.Create(context.Background(), validCreateSectionRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSectionUpdateMergesScheduleForConflictCheck(t *testing.T) {
	current := &models.Section{
		ID: 7, CourseID: 2, InstructorID: 3,
		Semester: "FALL", Year: 2026, DayOfWeek: "MONDAY", StartTime: "09:00", Classroom: "B-101", Capacity: 30,
	}
	store := &mockSectionStore{byID: map[int64]*models.Section{7: current}}
	svc := NewSectionService(store, &mockSectionCourses{course: &models.Course{ID: 2}}, &mockSectionUsers{})

	room := "C-202"
	_, err := svc.Update(context.Background(), 7, models.UpdateSectionRequest{Classroom: &room})
	require.NoError(t, err)
	require.Equal(t, 1, store.conflictCalls)
	assert.Equal(t, []interface{}{"FALL", 2026, "MONDAY", "09:00", "C-202", int64(7)}, store.conflictArgs)
}

func TestSectionUpdateSkipsConflictCheckWithoutScheduleChange(t *testing.T) {
	current := &models.Section{ID: 7, Semester: "FALL", Year: 2026, DayOfWeek: "MONDAY", StartTime: "09:00", Classroom: "B-101", Capacity: 30}
	store := &mockSectionStore{byID: map[int64]*models.Section{7: current}}
	svc := NewSectionService(store, &mockSectionCourses{course: &models.Course{ID: 2}}, &mockSectionUsers{})

	capacity := 45
	_, err := svc.Update(context.Background(), 7, models.UpdateSectionRequest{Capacity: &capacity})
	require.NoError(t, err)
	assert.Equal(t, 0, store.conflictCalls)
}

func TestSectionDeleteWithEnrollments(t *testing.T) {
	store := &mockSectionStore{byID: map[int64]*models.Section{7: {ID: 7}}, hasEnrolled: true}
	svc := NewSectionService(store, &mockSectionCourses{}, &mockSectionUsers{})

	err := svc.Delete(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSectionHasStudents.Code, appErrors.FromError(err).Code)
	assert.Zero(t, store.deleted)
}
