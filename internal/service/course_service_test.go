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

type mockCourseStore struct {
	byID       map[int64]*models.Course
	inUse      bool
	created    *models.Course
	prereqEdge [2]int64
	deleted    int64
}

func (m *mockCourseStore) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	return nil, 0, nil
}

func (m *mockCourseStore) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	course, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return course, nil
}

func (m *mockCourseStore) FindDetailByID(ctx context.Context, id int64) (*models.CourseDetail, error) {
	course, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.CourseDetail{Course: *course}, nil
}

func (m *mockCourseStore) Create(ctx context.Context, course *models.Course) error {
	course.ID = 1
	m.created = course
	return nil
}

func (m *mockCourseStore) Update(ctx context.Context, id int64, params repository.UpdateCourseParams) error {
	return nil
}

func (m *mockCourseStore) AddPrerequisite(ctx context.Context, courseID, prerequisiteID int64) error {
	m.prereqEdge = [2]int64{courseID, prerequisiteID}
	return nil
}

func (m *mockCourseStore) RemovePrerequisite(ctx context.Context, courseID, prerequisiteID int64) error {
	return nil
}

func (m *mockCourseStore) InUse(ctx context.Context, id int64) (bool, error) {
	return m.inUse, nil
}

func (m *mockCourseStore) Delete(ctx context.Context, id int64) error {
	m.deleted = id
	return nil
}

type mockCourseDepartments struct {
	department *models.Department
}

func (m *mockCourseDepartments) FindByID(ctx context.Context, id int64) (*models.Department, error) {
	if m.department == nil {
		return nil, sql.ErrNoRows
	}
	return m.department, nil
}

func TestCourseCreateUnknownDepartment(t *testing.T) {
	svc := NewCourseService(&mockCourseStore{}, &mockCourseDepartments{})

	_, err := svc.Create(context.Background(), models.CreateCourseRequest{
		Code: "CS101", Title: "Intro", Credits: 3, DepartmentID: 99,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCourseAddPrerequisite(t *testing.T) {
	store := &mockCourseStore{byID: map[int64]*models.Course{
		1: {ID: 1}, 2: {ID: 2},
	}}
	svc := NewCourseService(store, &mockCourseDepartments{})

	err := svc.AddPrerequisite(context.Background(), 2, models.AddPrerequisiteRequest{PrerequisiteID: 1})
	require.NoError(t, err)
	assert.Equal(t, [2]int64{2, 1}, store.prereqEdge)
}

func TestCourseSelfPrerequisiteRejected(t *testing.T) {
	store := &mockCourseStore{byID: map[int64]*models.Course{1: {ID: 1}}}
	svc := NewCourseService(store, &mockCourseDepartments{})

	err := svc.AddPrerequisite(context.Background(), 1, models.AddPrerequisiteRequest{PrerequisiteID: 1})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, store.prereqEdge[0])
}

func TestCourseDeleteInUse(t *testing.T) {
	store := &mockCourseStore{byID: map[int64]*models.Course{1: {ID: 1}}, inUse: true}
	svc := NewCourseService(store, &mockCourseDepartments{})

	err := svc.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCourseInUse.Code, appErrors.FromError(err).Code)
	assert.Zero(t, store.deleted)
}
