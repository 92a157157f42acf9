package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/opencampus/registrar-api/internal/models"
	"github.com/opencampus/registrar-api/internal/repository"
	appErrors "github.com/opencampus/registrar-api/pkg/errors"
)

type officeHourStore interface {
	ListByInstructor(ctx context.Context, instructorID int64) ([]models.OfficeHour, error)
	FindByID(ctx context.Context, id int64) (*models.OfficeHour, error)
	Create(ctx context.Context, hour *models.OfficeHour) error
	Update(ctx context.Context, id int64, params repository.UpdateOfficeHourParams) error
	Delete(ctx context.Context, id int64) error
}

// OfficeHourService manages instructor availability slots. Instructors manage
// their own slots; admins manage anyone's.
type OfficeHourService struct {
	hours officeHourStore
	guard *AccessGuard
}

// NewOfficeHourService constructs the service.
func NewOfficeHourService(hours officeHourStore, guard *AccessGuard) *OfficeHourService {
	return &OfficeHourService{hours: hours, guard: guard}
}

// ListByInstructor returns the weekly slots of an instructor. Visible to any
// authenticated user.
func (s *OfficeHourService) ListByInstructor(ctx context.Context, instructorID int64) ([]models.OfficeHour, error) {
	return s.hours.ListByInstructor(ctx, instructorID)
}

// Create adds a slot for the named instructor.
func (s *OfficeHourService) Create(ctx context.Context, claims *models.JWTClaims, req models.CreateOfficeHourRequest) (*models.OfficeHour, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.guard.RequireSelf(claims, req.InstructorID); err != nil {
		return nil, err
	}

	hour := &models.OfficeHour{
		InstructorID: req.InstructorID,
		DayOfWeek:    req.DayOfWeek,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Location:     req.Location,
	}
	if err := s.hours.Create(ctx, hour); err != nil {
		return nil, err
	}
	return hour, nil
}

// Update applies sparse slot changes.
func (s *OfficeHourService) Update(ctx context.Context, claims *models.JWTClaims, id int64, req models.UpdateOfficeHourRequest) (*models.OfficeHour, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	hour, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RequireSelf(claims, hour.InstructorID); err != nil {
		return nil, err
	}

	params := repository.UpdateOfficeHourParams{
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  req.Location,
	}
	if err := s.hours.Update(ctx, id, params); err != nil {
		return nil, err
	}
	return s.find(ctx, id)
}

// Delete removes a slot.
func (s *OfficeHourService) Delete(ctx context.Context, claims *models.JWTClaims, id int64) error {
	hour, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.RequireSelf(claims, hour.InstructorID); err != nil {
		return err
	}
	return s.hours.Delete(ctx, id)
}

func (s *OfficeHourService) find(ctx context.Context, id int64) (*models.OfficeHour, error) {
	hour, err := s.hours.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}
	return hour, nil
}
