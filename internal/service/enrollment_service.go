package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/opencampus/registrar-api/internal/models"
	"github.com/opencampus/registrar-api/internal/repository"
	appErrors "github.com/opencampus/registrar-api/pkg/errors"
)

type enrollmentUserStore interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type analyticsInvalidator interface {
	Invalidate(ctx context.Context)
}

// EnrollmentService runs the admission and grading workflows. Both execute
// inside a single transaction owned here: the section row is locked first, so
// concurrent admissions on the same section serialize, and the unique index on
// (student_id, section_id) remains the final arbiter of duplicates.
type EnrollmentService struct {
	enrollments *repository.EnrollmentRepository
	students    enrollmentUserStore
	guard       *AccessGuard
	rollups     analyticsInvalidator
	log         *zap.Logger
}

// NewEnrollmentService constructs the service. rollups may be nil when
// analytics are disabled.
func NewEnrollmentService(enrollments *repository.EnrollmentRepository, students enrollmentUserStore, guard *AccessGuard, rollups analyticsInvalidator, log *zap.Logger) *EnrollmentService {
	return &EnrollmentService{enrollments: enrollments, students: students, guard: guard, rollups: rollups, log: log}
}

// Enroll admits a student into a section. Students may only enroll
// themselves; admins may enroll anyone. Capacity, prerequisites and
// duplicates are checked in that order, and the first unmet prerequisite is
// the one reported.
func (s *EnrollmentService) Enroll(ctx context.Context, claims *models.JWTClaims, req models.CreateEnrollmentRequest) (*models.Enrollment, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if claims.Role == models.RoleStudent && claims.UserID != req.StudentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "students may only enroll themselves")
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "student does not exist")
		}
		return nil, err
	}
	if student.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrValidation, "account is not a student")
	}
	if !student.Active {
		return nil, appErrors.ErrInactiveAccount
	}

	tx, err := s.enrollments.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin admission: %w", err)
	}

	seat, err := s.enrollments.SeatForUpdate(ctx, tx, req.SectionID)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, err
	}

	occupied, err := s.enrollments.CountBySectionTx(ctx, tx, req.SectionID)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, err
	}
	if occupied >= seat.Capacity {
		tx.Rollback() //nolint:errcheck
		return nil, appErrors.ErrSectionFull
	}

	unmet, err := s.enrollments.FirstUnmetPrerequisiteTx(ctx, tx, req.StudentID, seat.CourseID)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, err
	}
	if unmet != 0 {
		tx.Rollback() //nolint:errcheck
		return nil, appErrors.Clone(appErrors.ErrPrerequisiteUnmet, fmt.Sprintf("prerequisite course %d not completed", unmet))
	}

	enrollment := &models.Enrollment{StudentID: req.StudentID, SectionID: req.SectionID}
	if err := s.enrollments.InsertTx(ctx, tx, enrollment); err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit admission: %w", err)
	}

	s.log.Info("student admitted",
		zap.Int64("student_id", req.StudentID),
		zap.Int64("section_id", req.SectionID),
		zap.Int64("enrollment_id", enrollment.ID))
	s.invalidateRollups(ctx)
	return enrollment, nil
}

// UpdateGrade finalizes an enrollment with a 0.0-4.0 grade and recomputes the
// student's GPA and earned credits in the same transaction. Grading again
// replaces the grade and recomputes, so the operation is idempotent.
func (s *EnrollmentService) UpdateGrade(ctx context.Context, claims *models.JWTClaims, enrollmentID int64, req models.GradeEnrollmentRequest) (*models.Enrollment, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	enrollment, err := s.enrollments.FindByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}
	if err := s.guard.RequireSectionOwner(ctx, claims, enrollment.SectionID); err != nil {
		return nil, err
	}
	if enrollment.Status == models.EnrollmentStatusDropped {
		return nil, appErrors.Clone(appErrors.ErrConflict, "dropped enrollments cannot be graded")
	}

	status := models.EnrollmentStatusCompleted
	if req.Grade < 1.0 {
		status = models.EnrollmentStatusFailed
	}

	tx, err := s.enrollments.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin grading: %w", err)
	}

	if err := s.enrollments.UpdateGradeTx(ctx, tx, enrollmentID, req.Grade, status); err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, err
	}
	if err := s.recomputeAcademicsTx(ctx, tx, enrollment.StudentID); err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit grading: %w", err)
	}

	s.invalidateRollups(ctx)
	return s.enrollments.FindByID(ctx, enrollmentID)
}

// Drop withdraws an ENROLLED student from a section. Students may drop their
// own enrollments; admins may drop anyone's.
func (s *EnrollmentService) Drop(ctx context.Context, claims *models.JWTClaims, enrollmentID int64) error {
	enrollment, err := s.enrollments.FindByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return err
	}
	if claims.Role != models.RoleAdmin && claims.UserID != enrollment.StudentID {
		return appErrors.ErrForbidden
	}
	if enrollment.Status != models.EnrollmentStatusEnrolled {
		return appErrors.Clone(appErrors.ErrConflict, "only active enrollments can be dropped")
	}

	if err := s.enrollments.UpdateStatus(ctx, enrollmentID, models.EnrollmentStatusDropped); err != nil {
		return err
	}
	s.invalidateRollups(ctx)
	return nil
}

// RecomputeAcademics rebuilds a student's GPA and earned credits from their
// graded enrollments. Admin maintenance entry point.
func (s *EnrollmentService) RecomputeAcademics(ctx context.Context, studentID int64) (*models.Academics, error) {
	tx, err := s.enrollments.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin recompute: %w", err)
	}

	academics, err := s.computeAcademicsTx(ctx, tx, studentID)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, err
	}
	if err := s.enrollments.UpdateAcademicsTx(ctx, tx, studentID, academics.GPA, academics.CreditsEarned); err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit recompute: %w", err)
	}
	return academics, nil
}

// List returns enrollments matching the filter. Students are always scoped to
// their own rows; instructors must name a section they teach.
func (s *EnrollmentService) List(ctx context.Context, claims *models.JWTClaims, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, *models.Pagination, error) {
	switch claims.Role {
	case models.RoleStudent:
		filter.StudentID = claims.UserID
	case models.RoleInstructor:
		if filter.SectionID == 0 {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "section_id is required")
		}
		if err := s.guard.RequireSectionOwner(ctx, claims, filter.SectionID); err != nil {
			return nil, nil, err
		}
	}

	enrollments, total, err := s.enrollments.List(ctx, filter)
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
	return enrollments, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one enrollment. Visible to admins, the enrolled student, and
// the instructor teaching its section.
func (s *EnrollmentService) Get(ctx context.Context, claims *models.JWTClaims, id int64) (*models.EnrollmentDetail, error) {
	detail, err := s.enrollments.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}

	switch claims.Role {
	case models.RoleAdmin:
	case models.RoleStudent:
		if claims.UserID != detail.StudentID {
			return nil, appErrors.ErrForbidden
		}
	case models.RoleInstructor:
		if err := s.guard.RequireSectionOwner(ctx, claims, detail.SectionID); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

func (s *EnrollmentService) recomputeAcademicsTx(ctx context.Context, tx *sqlx.Tx, studentID int64) error {
	academics, err := s.computeAcademicsTx(ctx, tx, studentID)
	if err != nil {
		return err
	}
	return s.enrollments.UpdateAcademicsTx(ctx, tx, studentID, academics.GPA, academics.CreditsEarned)
}

func (s *EnrollmentService) computeAcademicsTx(ctx context.Context, tx *sqlx.Tx, studentID int64) (*models.Academics, error) {
	rows, err := s.enrollments.GradeCreditsTx(ctx, tx, studentID)
	if err != nil {
		return nil, err
	}

	var weighted float64
	var totalCredits int
	for _, row := range rows {
		weighted += row.Grade * float64(row.Credits)
		totalCredits += row.Credits
	}

	// Credits count every graded enrollment, failed ones included.
	academics := &models.Academics{CreditsEarned: totalCredits}
	if totalCredits > 0 {
		academics.GPA = round2(weighted / float64(totalCredits))
	}
	return academics, nil
}

func (s *EnrollmentService) invalidateRollups(ctx context.Context) {
	if s.rollups != nil {
		s.rollups.Invalidate(ctx)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
