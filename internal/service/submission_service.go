package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/opencampus/registrar-api/internal/models"
	appErrors "github.com/opencampus/registrar-api/pkg/errors"
)

type submissionStore interface {
	ListByAssignment(ctx context.Context, assignmentID int64) ([]models.SubmissionDetail, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.SubmissionDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Submission, error)
	Create(ctx context.Context, submission *models.Submission) error
	UpdateGrade(ctx context.Context, id int64, grade float64) error
	Delete(ctx context.Context, id int64) error
}

type submissionAssignmentStore interface {
	FindByID(ctx context.Context, id int64) (*models.Assignment, error)
}

type submissionEnrollmentStore interface {
	ExistsForStudentSection(ctx context.Context, studentID, sectionID int64) (bool, error)
}

// SubmissionService manages hand-ins. A submission is accepted only from an
// enrolled student, only before the deadline, and only once; grading is
// capped at the assignment's max score.
type SubmissionService struct {
	submissions submissionStore
	assignments submissionAssignmentStore
	enrollments submissionEnrollmentStore
	guard       *AccessGuard
	now         func() time.Time
}

// NewSubmissionService constructs the service.
func NewSubmissionService(submissions submissionStore, assignments submissionAssignmentStore, enrollments submissionEnrollmentStore, guard *AccessGuard) *SubmissionService {
	return &SubmissionService{
		submissions: submissions,
		assignments: assignments,
		enrollments: enrollments,
		guard:       guard,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Submit hands in work for an assignment on behalf of the authenticated
// student.
func (s *SubmissionService) Submit(ctx context.Context, claims *models.JWTClaims, req models.CreateSubmissionRequest) (*models.Submission, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	assignment, err := s.assignments.FindByID(ctx, req.AssignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, err
	}
	if s.now().After(assignment.DueAt) {
		return nil, appErrors.ErrDeadlinePassed
	}

	enrolled, err := s.enrollments.ExistsForStudentSection(ctx, claims.UserID, assignment.SectionID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "student is not enrolled in this section")
	}

	submission := &models.Submission{
		AssignmentID: req.AssignmentID,
		StudentID:    claims.UserID,
		Content:      req.Content,
		SubmittedAt:  s.now(),
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		return nil, err
	}
	return submission, nil
}

// Grade scores a submission. Only the instructor of the assignment's section
// (or an admin) may grade, and the score may not exceed the max.
func (s *SubmissionService) Grade(ctx context.Context, claims *models.JWTClaims, submissionID int64, req models.GradeSubmissionRequest) (*models.Submission, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	submission, err := s.Get(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	assignment, err := s.assignments.FindByID(ctx, submission.AssignmentID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RequireSectionOwner(ctx, claims, assignment.SectionID); err != nil {
		return nil, err
	}
	if req.Grade > assignment.MaxScore {
		return nil, appErrors.ErrGradeExceedsMax
	}

	if err := s.submissions.UpdateGrade(ctx, submissionID, req.Grade); err != nil {
		return nil, err
	}
	return s.Get(ctx, submissionID)
}

// Get returns one submission.
func (s *SubmissionService) Get(ctx context.Context, id int64) (*models.Submission, error) {
	submission, err := s.submissions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}
	return submission, nil
}

// ListByAssignment returns an assignment's submissions. Restricted to the
// section's instructor or an admin.
func (s *SubmissionService) ListByAssignment(ctx context.Context, claims *models.JWTClaims, assignmentID int64) ([]models.SubmissionDetail, error) {
	assignment, err := s.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}
	if err := s.guard.RequireSectionOwner(ctx, claims, assignment.SectionID); err != nil {
		return nil, err
	}
	return s.submissions.ListByAssignment(ctx, assignmentID)
}

// ListByStudent returns a student's submissions. Students see only their own.
func (s *SubmissionService) ListByStudent(ctx context.Context, claims *models.JWTClaims, studentID int64) ([]models.SubmissionDetail, error) {
	if claims.Role == models.RoleStudent && claims.UserID != studentID {
		return nil, appErrors.ErrForbidden
	}
	return s.submissions.ListByStudent(ctx, studentID)
}

// Delete removes a submission. Admin maintenance entry point.
func (s *SubmissionService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.submissions.Delete(ctx, id)
}
