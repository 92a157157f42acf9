package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/opencampus/registrar-api/internal/models"
	appErrors "github.com/opencampus/registrar-api/pkg/errors"
)

// SubmissionRepository handles persistence of submissions.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository constructs the repository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// ListByAssignment returns submissions for an assignment with student names.
func (r *SubmissionRepository) ListByAssignment(ctx context.Context, assignmentID int64) ([]models.SubmissionDetail, error) {
	const query = `SELECT sub.id, sub.assignment_id, sub.student_id, sub.content, sub.grade, sub.submitted_at,
        a.title AS assignment_title, a.max_score, u.full_name AS student_name
        FROM submissions sub
        JOIN assignments a ON a.id = sub.assignment_id
        JOIN users u ON u.id = sub.student_id
        WHERE sub.assignment_id = $1
        ORDER BY sub.submitted_at`
	var submissions []models.SubmissionDetail
	if err := r.db.SelectContext(ctx, &submissions, query, assignmentID); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return submissions, nil
}

// ListByStudent returns a student's submissions with assignment context.
func (r *SubmissionRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.SubmissionDetail, error) {
	const query = `SELECT sub.id, sub.assignment_id, sub.student_id, sub.content, sub.grade, sub.submitted_at,
        a.title AS assignment_title, a.max_score, u.full_name AS student_name
        FROM submissions sub
        JOIN assignments a ON a.id = sub.assignment_id
        JOIN users u ON u.id = sub.student_id
        WHERE sub.student_id = $1
        ORDER BY sub.submitted_at DESC`
	var submissions []models.SubmissionDetail
	if err := r.db.SelectContext(ctx, &submissions, query, studentID); err != nil {
		return nil, fmt.Errorf("list student submissions: %w", err)
	}
	return submissions, nil
}

// FindByID returns a submission by its id.
func (r *SubmissionRepository) FindByID(ctx context.Context, id int64) (*models.Submission, error) {
	const query = `SELECT id, assignment_id, student_id, content, grade, submitted_at FROM submissions WHERE id = $1`
	var submission models.Submission
	if err := r.db.GetContext(ctx, &submission, query, id); err != nil {
		return nil, err
	}
	return &submission, nil
}

// Create inserts a submission. The unique index on (assignment_id,
// student_id) arbitrates duplicate attempts.
func (r *SubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = time.Now().UTC()
	}
	const query = `INSERT INTO submissions (assignment_id, student_id, content, grade, submitted_at)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.GetContext(ctx, &submission.ID, query,
		submission.AssignmentID, submission.StudentID, submission.Content, submission.Grade, submission.SubmittedAt); err != nil {
		if isUniqueViolation(err) {
			return appErrors.ErrAlreadySubmitted
		}
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

// UpdateGrade stores the graded value on a submission.
func (r *SubmissionRepository) UpdateGrade(ctx context.Context, id int64, grade float64) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE submissions SET grade = $2 WHERE id = $1", id, grade); err != nil {
		return fmt.Errorf("grade submission: %w", err)
	}
	return nil
}

// Delete removes a submission row.
func (r *SubmissionRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM submissions WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	return nil
}
