package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/opencampus/registrar-api/internal/models"
	"github.com/opencampus/registrar-api/internal/repository"
	appErrors "github.com/opencampus/registrar-api/pkg/errors"
)

type sectionStore interface {
	List(ctx context.Context, filter models.SectionFilter) ([]models.SectionDetail, int, error)
	FindByID(ctx context.Context, id int64) (*models.Section, error)
	FindDetailByID(ctx context.Context, id int64) (*models.SectionDetail, error)
	ConflictExists(ctx context.Context, semester string, year int, dayOfWeek, startTime, classroom string, excludeID int64) (bool, error)
	Create(ctx context.Context, section *models.Section) error
	Update(ctx context.Context, id int64, params repository.UpdateSectionParams) error
	HasEnrollments(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type sectionCourseStore interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
}

type sectionUserStore interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// SectionService manages section scheduling. No two sections may occupy the
// same (semester, year, day, start time, classroom) tuple.
type SectionService struct {
	sections sectionStore
	courses  sectionCourseStore
	users    sectionUserStore
}

// NewSectionService constructs the service.
func NewSectionService(sections sectionStore, courses sectionCourseStore, users sectionUserStore) *SectionService {
	return &SectionService{sections: sections, courses: courses, users: users}
}

// List returns section details matching the filter.
func (s *SectionService) List(ctx context.Context, filter models.SectionFilter) ([]models.SectionDetail, *models.Pagination, error) {
	sections, total, err := s.sections.List(ctx, filter)
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
	return sections, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a section with course and instructor context.
func (s *SectionService) Get(ctx context.Context, id int64) (*models.SectionDetail, error) {
	detail, err := s.sections.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}
	return detail, nil
}

// Create schedules a section after checking the course, the instructor and
// the classroom slot.
func (s *SectionService) Create(ctx context.Context, req models.CreateSectionRequest) (*models.SectionDetail, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "course does not exist")
		}
		return nil, err
	}
	if err := s.requireInstructor(ctx, req.InstructorID); err != nil {
		return nil, err
	}

	conflict, err := s.sections.ConflictExists(ctx, req.Semester, req.Year, req.DayOfWeek, req.StartTime, req.Classroom, 0)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, appErrors.ErrScheduleConflict
	}

	section := &models.Section{
		CourseID:     req.CourseID,
		InstructorID: req.InstructorID,
		Semester:     req.Semester,
		Year:         req.Year,
		DayOfWeek:    req.DayOfWeek,
		StartTime:    req.StartTime,
		Classroom:    req.Classroom,
		Capacity:     req.Capacity,
	}
	if err := s.sections.Create(ctx, section); err != nil {
		return nil, err
	}
	return s.Get(ctx, section.ID)
}

// Update applies sparse section changes. The conflict check runs against the
// merged schedule so a partial update still sees the full tuple, and the
// section is excluded so it never conflicts with itself.
func (s *SectionService) Update(ctx context.Context, id int64, req models.UpdateSectionRequest) (*models.SectionDetail, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	current, err := s.sections.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}
	if req.InstructorID != nil {
		if err := s.requireInstructor(ctx, *req.InstructorID); err != nil {
			return nil, err
		}
	}

	semester := current.Semester
	year := current.Year
	day := current.DayOfWeek
	start := current.StartTime
	classroom := current.Classroom
	scheduleChanged := false
	if req.Semester != nil {
		semester = *req.Semester
		scheduleChanged = true
	}
	if req.Year != nil {
		year = *req.Year
		scheduleChanged = true
	}
	if req.DayOfWeek != nil {
		day = *req.DayOfWeek
		scheduleChanged = true
	}
	if req.StartTime != nil {
		start = *req.StartTime
		scheduleChanged = true
	}
	if req.Classroom != nil {
		classroom = *req.Classroom
		scheduleChanged = true
	}

	if scheduleChanged {
		conflict, err := s.sections.ConflictExists(ctx, semester, year, day, start, classroom, id)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, appErrors.ErrScheduleConflict
		}
	}

	params := repository.UpdateSectionParams{
		InstructorID: req.InstructorID,
		Semester:     req.Semester,
		Year:         req.Year,
		DayOfWeek:    req.DayOfWeek,
		StartTime:    req.StartTime,
		Classroom:    req.Classroom,
		Capacity:     req.Capacity,
	}
	if err := s.sections.Update(ctx, id, params); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a section unless students have enrolled in it.
func (s *SectionService) Delete(ctx context.Context, id int64) error {
	if _, err := s.sections.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return err
	}
	has, err := s.sections.HasEnrollments(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return appErrors.ErrSectionHasStudents
	}
	return s.sections.Delete(ctx, id)
}

func (s *SectionService) requireInstructor(ctx context.Context, userID int64) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "instructor does not exist")
		}
		return err
	}
	if user.Role != models.RoleInstructor {
		return appErrors.Clone(appErrors.ErrValidation, "assigned user is not an instructor")
	}
	if !user.Active {
		return appErrors.Clone(appErrors.ErrValidation, "assigned instructor is inactive")
	}
	return nil
}
