package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/opencampus/registrar-api/internal/models"
	appErrors "github.com/opencampus/registrar-api/pkg/errors"
)

const attendanceDateLayout = "2006-01-02"

type attendanceStore interface {
	Exists(ctx context.Context, sectionID, studentID int64, date time.Time) (bool, error)
	Create(ctx context.Context, record *models.AttendanceRecord) error
	List(ctx context.Context, sectionID, studentID int64, date *time.Time) ([]models.AttendanceRecord, error)
	FindByID(ctx context.Context, id int64) (*models.AttendanceRecord, error)
	UpdateStatus(ctx context.Context, id int64, status models.AttendanceStatus) error
}

type attendanceEnrollmentStore interface {
	ExistsForStudentSection(ctx context.Context, studentID, sectionID int64) (bool, error)
}

// AttendanceService manages per-day presence records. One row per
// (section, student, date); corrections go through status updates rather than
// duplicate rows.
type AttendanceService struct {
	attendance  attendanceStore
	enrollments attendanceEnrollmentStore
	guard       *AccessGuard
}

// NewAttendanceService constructs the service.
func NewAttendanceService(attendance attendanceStore, enrollments attendanceEnrollmentStore, guard *AccessGuard) *AttendanceService {
	return &AttendanceService{attendance: attendance, enrollments: enrollments, guard: guard}
}

// Record stores presence for one student on one date in a section the caller
// teaches.
func (s *AttendanceService) Record(ctx context.Context, claims *models.JWTClaims, req models.CreateAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.guard.RequireSectionOwner(ctx, claims, req.SectionID); err != nil {
		return nil, err
	}

	date, err := time.Parse(attendanceDateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	enrolled, err := s.enrollments.ExistsForStudentSection(ctx, req.StudentID, req.SectionID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student is not enrolled in this section")
	}

	exists, err := s.attendance.Exists(ctx, req.SectionID, req.StudentID, date)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, appErrors.ErrAlreadyRecorded
	}

	record := &models.AttendanceRecord{
		SectionID: req.SectionID,
		StudentID: req.StudentID,
		Date:      date,
		Status:    req.Status,
	}
	if err := s.attendance.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateStatus corrects an existing record in a section the caller teaches.
func (s *AttendanceService) UpdateStatus(ctx context.Context, claims *models.JWTClaims, id int64, req models.UpdateAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	record, err := s.attendance.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}
	if err := s.guard.RequireSectionOwner(ctx, claims, record.SectionID); err != nil {
		return nil, err
	}

	if err := s.attendance.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, err
	}
	record.Status = req.Status
	return record, nil
}

// List returns attendance for a section. Students are forced onto their own
// rows; instructors must teach the section.
func (s *AttendanceService) List(ctx context.Context, claims *models.JWTClaims, sectionID, studentID int64, date *time.Time) ([]models.AttendanceRecord, error) {
	switch claims.Role {
	case models.RoleStudent:
		studentID = claims.UserID
	case models.RoleInstructor:
		if err := s.guard.RequireSectionOwner(ctx, claims, sectionID); err != nil {
			return nil, err
		}
	}
	return s.attendance.List(ctx, sectionID, studentID, date)
}
