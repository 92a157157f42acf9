package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/opencampus/registrar-api/internal/models"
	"github.com/opencampus/registrar-api/internal/repository"
	appErrors "github.com/opencampus/registrar-api/pkg/errors"
)

type courseStore interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	FindDetailByID(ctx context.Context, id int64) (*models.CourseDetail, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, id int64, params repository.UpdateCourseParams) error
	AddPrerequisite(ctx context.Context, courseID, prerequisiteID int64) error
	RemovePrerequisite(ctx context.Context, courseID, prerequisiteID int64) error
	InUse(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type courseDepartmentStore interface {
	FindByID(ctx context.Context, id int64) (*models.Department, error)
}

// CourseService manages the catalog and the prerequisite graph.
type CourseService struct {
	courses     courseStore
	departments courseDepartmentStore
}

// NewCourseService constructs the service.
func NewCourseService(courses courseStore, departments courseDepartmentStore) *CourseService {
	return &CourseService{courses: courses, departments: departments}
}

// List returns catalog entries matching the filter.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	courses, total, err := s.courses.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return courses, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a course with its department and prerequisites.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.CourseDetail, error) {
	detail, err := s.courses.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}
	return detail, nil
}

// Create registers a catalog entry under an existing department.
func (s *CourseService) Create(ctx context.Context, req models.CreateCourseRequest) (*models.Course, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if _, err := s.departments.FindByID(ctx, req.DepartmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "department does not exist")
		}
		return nil, err
	}

	course := &models.Course{Code: req.Code, Title: req.Title, Credits: req.Credits, DepartmentID: req.DepartmentID}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Update applies sparse course changes.
func (s *CourseService) Update(ctx context.Context, id int64, req models.UpdateCourseRequest) (*models.CourseDetail, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if _, err := s.courses.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}
	if req.DepartmentID != nil {
		if _, err := s.departments.FindByID(ctx, *req.DepartmentID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "department does not exist")
			}
			return nil, err
		}
	}

	params := repository.UpdateCourseParams{Code: req.Code, Title: req.Title, Credits: req.Credits, DepartmentID: req.DepartmentID}
	if err := s.courses.Update(ctx, id, params); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// AddPrerequisite records that prerequisiteID must be completed before
// enrolling in courseID. A course can never be its own prerequisite.
func (s *CourseService) AddPrerequisite(ctx context.Context, courseID int64, req models.AddPrerequisiteRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}
	if courseID == req.PrerequisiteID {
		return appErrors.Clone(appErrors.ErrValidation, "course cannot be its own prerequisite")
	}
	for _, id := range []int64{courseID, req.PrerequisiteID} {
		if _, err := s.courses.FindByID(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.ErrNotFound
			}
			return err
		}
	}
	return s.courses.AddPrerequisite(ctx, courseID, req.PrerequisiteID)
}

// RemovePrerequisite drops a prerequisite edge.
func (s *CourseService) RemovePrerequisite(ctx context.Context, courseID, prerequisiteID int64) error {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return err
	}
	return s.courses.RemovePrerequisite(ctx, courseID, prerequisiteID)
}

// Delete removes a course unless sections or prerequisite edges reference it.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if _, err := s.courses.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return err
	}
	used, err := s.courses.InUse(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return appErrors.ErrCourseInUse
	}
	return s.courses.Delete(ctx, id)
}
