package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/opencampus/registrar-api/internal/models"
	appErrors "github.com/opencampus/registrar-api/pkg/errors"
)

// EnrollmentRepository handles persistence of enrollments. The admission
// workflow runs inside a caller-owned transaction so that a failure at any
// step leaves no partial state; the Tx-suffixed methods participate in it.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// BeginTx opens a transaction for the admission and grading workflows.
func (r *EnrollmentRepository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, nil)
}

// SeatForUpdate locks the section row for the duration of the admission
// transaction, serializing concurrent capacity checks on the same section.
func (r *EnrollmentRepository) SeatForUpdate(ctx context.Context, tx *sqlx.Tx, sectionID int64) (*models.SectionSeat, error) {
	const query = `SELECT id, course_id, capacity FROM sections WHERE id = $1 FOR UPDATE`
	var seat models.SectionSeat
	if err := tx.GetContext(ctx, &seat, query, sectionID); err != nil {
		return nil, err
	}
	return &seat, nil
}

// CountBySectionTx returns the section occupancy inside the transaction.
func (r *EnrollmentRepository) CountBySectionTx(ctx context.Context, tx *sqlx.Tx, sectionID int64) (int, error) {
	var count int
	if err := tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM enrollments WHERE section_id = $1", sectionID); err != nil {
		return 0, fmt.Errorf("count section enrollments: %w", err)
	}
	return count, nil
}

// FirstUnmetPrerequisiteTx returns the lowest-id prerequisite of the course
// the student has not completed, or 0 when every prerequisite is satisfied.
// At most one unmet course is reported per admission attempt.
func (r *EnrollmentRepository) FirstUnmetPrerequisiteTx(ctx context.Context, tx *sqlx.Tx, studentID, courseID int64) (int64, error) {
	const query = `SELECT cp.prerequisite_id
        FROM course_prerequisites cp
        WHERE cp.course_id = $1
          AND NOT EXISTS (
            SELECT 1 FROM enrollments e
            JOIN sections s ON s.id = e.section_id
            WHERE e.student_id = $2 AND s.course_id = cp.prerequisite_id AND e.status = $3)
        ORDER BY cp.prerequisite_id
        LIMIT 1`
	var unmet []int64
	if err := tx.SelectContext(ctx, &unmet, query, courseID, studentID, models.EnrollmentStatusCompleted); err != nil {
		return 0, fmt.Errorf("check prerequisites: %w", err)
	}
	if len(unmet) == 0 {
		return 0, nil
	}
	return unmet[0], nil
}

// InsertTx inserts the enrollment row. A unique violation on
// (student_id, section_id) means a concurrent request won the race.
func (r *EnrollmentRepository) InsertTx(ctx context.Context, tx *sqlx.Tx, enrollment *models.Enrollment) error {
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now().UTC()
	}
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentStatusEnrolled
	}
	const query = `INSERT INTO enrollments (student_id, section_id, status, grade, enrolled_at)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := tx.GetContext(ctx, &enrollment.ID, query,
		enrollment.StudentID, enrollment.SectionID, enrollment.Status, enrollment.Grade, enrollment.EnrolledAt); err != nil {
		if isUniqueViolation(err) {
			return appErrors.ErrAlreadyEnrolled
		}
		return fmt.Errorf("insert enrollment: %w", err)
	}
	return nil
}

// UpdateGradeTx sets grade and status on an enrollment within the transaction.
func (r *EnrollmentRepository) UpdateGradeTx(ctx context.Context, tx *sqlx.Tx, id int64, grade float64, status models.EnrollmentStatus) error {
	if _, err := tx.ExecContext(ctx, "UPDATE enrollments SET grade = $2, status = $3 WHERE id = $1", id, grade, status); err != nil {
		return fmt.Errorf("update enrollment grade: %w", err)
	}
	return nil
}

// GradeCreditsTx pulls every graded enrollment joined to its course credits,
// the inputs of the GPA recomputation, inside the transaction.
func (r *EnrollmentRepository) GradeCreditsTx(ctx context.Context, tx *sqlx.Tx, studentID int64) ([]models.GradeCredit, error) {
	const query = `SELECT e.grade, c.credits
        FROM enrollments e
        JOIN sections s ON s.id = e.section_id
        JOIN courses c ON c.id = s.course_id
        WHERE e.student_id = $1 AND e.grade IS NOT NULL`
	var rows []models.GradeCredit
	if err := tx.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("load grade credits: %w", err)
	}
	return rows, nil
}

// UpdateAcademicsTx persists the recomputed GPA and credit count onto the
// student profile within the transaction.
func (r *EnrollmentRepository) UpdateAcademicsTx(ctx context.Context, tx *sqlx.Tx, studentID int64, gpa float64, creditsEarned int) error {
	if _, err := tx.ExecContext(ctx, "UPDATE student_profiles SET gpa = $2, credits_earned = $3 WHERE user_id = $1", studentID, gpa, creditsEarned); err != nil {
		return fmt.Errorf("update student academics: %w", err)
	}
	return nil
}

// List returns enrollment details matching the filter.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	base := ` FROM enrollments e
        JOIN sections s ON s.id = e.section_id
        JOIN courses c ON c.id = s.course_id
        JOIN users u ON u.id = e.student_id`
	var conditions []string
	var args []interface{}

	if filter.StudentID != 0 {
		conditions = append(conditions, fmt.Sprintf("e.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.SectionID != 0 {
		conditions = append(conditions, fmt.Sprintf("e.section_id = $%d", len(args)+1))
		args = append(args, filter.SectionID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("e.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT e.id, e.student_id, e.section_id, e.status, e.grade, e.enrolled_at,
        s.course_id, c.code AS course_code, c.title AS course_title, s.semester, s.year, u.full_name AS student_name
        %s ORDER BY e.enrolled_at DESC LIMIT %d OFFSET %d`, base+clause, size, offset)

	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+base+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}
	return enrollments, total, nil
}

// FindByID returns an enrollment by its id.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	const query = `SELECT id, student_id, section_id, status, grade, enrolled_at FROM enrollments WHERE id = $1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindDetailByID returns an enrollment with contextual info.
func (r *EnrollmentRepository) FindDetailByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.student_id, e.section_id, e.status, e.grade, e.enrolled_at,
        s.course_id, c.code AS course_code, c.title AS course_title, s.semester, s.year, u.full_name AS student_name
        FROM enrollments e
        JOIN sections s ON s.id = e.section_id
        JOIN courses c ON c.id = s.course_id
        JOIN users u ON u.id = e.student_id
        WHERE e.id = $1`
	var detail models.EnrollmentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// UpdateStatus transitions an enrollment without touching the grade.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE enrollments SET status = $2 WHERE id = $1", id, status); err != nil {
		return fmt.Errorf("update enrollment status: %w", err)
	}
	return nil
}

// ExistsForStudentSection reports whether the student holds any enrollment in
// the section, used by the submission admission check.
func (r *EnrollmentRepository) ExistsForStudentSection(ctx context.Context, studentID, sectionID int64) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM enrollments WHERE student_id = $1 AND section_id = $2)", studentID, sectionID); err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return exists, nil
}
