package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/opencampus/registrar-api/internal/models"
	"github.com/opencampus/registrar-api/internal/repository"
	appErrors "github.com/opencampus/registrar-api/pkg/errors"
)

type userStore interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, id int64, params repository.UpdateUserParams) error
	Deactivate(ctx context.Context, id int64) error
	HardDelete(ctx context.Context, id int64) error
}

type profileStore interface {
	FindStudent(ctx context.Context, userID int64) (*models.StudentDetail, error)
	FindInstructor(ctx context.Context, userID int64) (*models.InstructorDetail, error)
	ListStudents(ctx context.Context, departmentID int64) ([]models.StudentDetail, error)
	ListInstructors(ctx context.Context, departmentID int64) ([]models.InstructorDetail, error)
	UpdateStudent(ctx context.Context, userID int64, params repository.UpdateStudentParams) error
	UpdateInstructor(ctx context.Context, userID int64, params repository.UpdateInstructorParams) error
}

// UserService manages accounts and role profiles.
type UserService struct {
	users    userStore
	profiles profileStore
	guard    *AccessGuard
	log      *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(users userStore, profiles profileStore, guard *AccessGuard, log *zap.Logger) *UserService {
	return &UserService{users: users, profiles: profiles, guard: guard, log: log}
}

// List returns accounts matching the filter. Admin only, enforced at the route.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	users, total, err := s.users.List(ctx, filter)
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
	return users, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one account. Admins may read anyone, others only themselves.
func (s *UserService) Get(ctx context.Context, claims *models.JWTClaims, id int64) (*models.User, error) {
	if err := s.guard.RequireSelf(claims, id); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// Update applies sparse account changes.
func (s *UserService) Update(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}

	params := repository.UpdateUserParams{Email: req.Email, FullName: req.FullName, Active: req.Active}
	if err := s.users.Update(ctx, id, params); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

// Deactivate disables login without destroying history.
func (s *UserService) Deactivate(ctx context.Context, id int64) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return err
	}
	s.log.Info("account deactivated", zap.Int64("user_id", id))
	return s.users.Deactivate(ctx, id)
}

// Delete removes the account and its dependent rows permanently.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return err
	}
	s.log.Warn("account hard deleted", zap.Int64("user_id", id))
	return s.users.HardDelete(ctx, id)
}

// GetStudent returns the joined student profile.
func (s *UserService) GetStudent(ctx context.Context, claims *models.JWTClaims, userID int64) (*models.StudentDetail, error) {
	if claims.Role == models.RoleStudent {
		if err := s.guard.RequireSelf(claims, userID); err != nil {
			return nil, err
		}
	}
	detail, err := s.profiles.FindStudent(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}
	return detail, nil
}

// GetInstructor returns the joined instructor profile.
func (s *UserService) GetInstructor(ctx context.Context, userID int64) (*models.InstructorDetail, error) {
	detail, err := s.profiles.FindInstructor(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}
	return detail, nil
}

// ListStudents returns student profiles, optionally scoped to a department.
func (s *UserService) ListStudents(ctx context.Context, departmentID int64) ([]models.StudentDetail, error) {
	return s.profiles.ListStudents(ctx, departmentID)
}

// ListInstructors returns instructor profiles, optionally scoped to a department.
func (s *UserService) ListInstructors(ctx context.Context, departmentID int64) ([]models.InstructorDetail, error) {
	return s.profiles.ListInstructors(ctx, departmentID)
}

// UpdateStudentProfile applies sparse student profile changes.
func (s *UserService) UpdateStudentProfile(ctx context.Context, userID int64, req models.UpdateStudentProfileRequest) (*models.StudentDetail, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if _, err := s.profiles.FindStudent(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}
	params := repository.UpdateStudentParams{DepartmentID: req.DepartmentID, EnrollmentYear: req.EnrollmentYear}
	if err := s.profiles.UpdateStudent(ctx, userID, params); err != nil {
		return nil, err
	}
	return s.profiles.FindStudent(ctx, userID)
}

// UpdateInstructorProfile applies sparse instructor profile changes.
func (s *UserService) UpdateInstructorProfile(ctx context.Context, userID int64, req models.UpdateInstructorProfileRequest) (*models.InstructorDetail, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if _, err := s.profiles.FindInstructor(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}
	params := repository.UpdateInstructorParams{DepartmentID: req.DepartmentID, Title: req.Title}
	if err := s.profiles.UpdateInstructor(ctx, userID, params); err != nil {
		return nil, err
	}
	return s.profiles.FindInstructor(ctx, userID)
}
