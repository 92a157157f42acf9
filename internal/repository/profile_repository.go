package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/opencampus/registrar-api/internal/models"
)

// ProfileRepository handles student and instructor profile rows.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository constructs the repository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindStudent returns the joined student detail for a user id.
func (r *ProfileRepository) FindStudent(ctx context.Context, userID int64) (*models.StudentDetail, error) {
	const query = `SELECT sp.user_id, sp.department_id, sp.enrollment_year, sp.gpa, sp.credits_earned,
        u.email, u.full_name, u.active, d.name AS department_name
        FROM student_profiles sp
        JOIN users u ON u.id = sp.user_id
        JOIN departments d ON d.id = sp.department_id
        WHERE sp.user_id = $1`
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, userID); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FindInstructor returns the joined instructor detail for a user id.
func (r *ProfileRepository) FindInstructor(ctx context.Context, userID int64) (*models.InstructorDetail, error) {
	const query = `SELECT ip.user_id, ip.department_id, ip.title,
        u.email, u.full_name, u.active, d.name AS department_name
        FROM instructor_profiles ip
        JOIN users u ON u.id = ip.user_id
        JOIN departments d ON d.id = ip.department_id
        WHERE ip.user_id = $1`
	var detail models.InstructorDetail
	if err := r.db.GetContext(ctx, &detail, query, userID); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListStudents returns student details, optionally scoped to a department.
func (r *ProfileRepository) ListStudents(ctx context.Context, departmentID int64) ([]models.StudentDetail, error) {
	query := `SELECT sp.user_id, sp.department_id, sp.enrollment_year, sp.gpa, sp.credits_earned,
        u.email, u.full_name, u.active, d.name AS department_name
        FROM student_profiles sp
        JOIN users u ON u.id = sp.user_id
        JOIN departments d ON d.id = sp.department_id`
	var args []interface{}
	if departmentID != 0 {
		query += " WHERE sp.department_id = $1"
		args = append(args, departmentID)
	}
	query += " ORDER BY u.full_name"
	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// ListInstructors returns instructor details, optionally scoped to a department.
func (r *ProfileRepository) ListInstructors(ctx context.Context, departmentID int64) ([]models.InstructorDetail, error) {
	query := `SELECT ip.user_id, ip.department_id, ip.title,
        u.email, u.full_name, u.active, d.name AS department_name
        FROM instructor_profiles ip
        JOIN users u ON u.id = ip.user_id
        JOIN departments d ON d.id = ip.department_id`
	var args []interface{}
	if departmentID != 0 {
		query += " WHERE ip.department_id = $1"
		args = append(args, departmentID)
	}
	query += " ORDER BY u.full_name"
	var instructors []models.InstructorDetail
	if err := r.db.SelectContext(ctx, &instructors, query, args...); err != nil {
		return nil, fmt.Errorf("list instructors: %w", err)
	}
	return instructors, nil
}

// UpdateStudentParams defines the mutable student profile fields.
type UpdateStudentParams struct {
	DepartmentID   *int64
	EnrollmentYear *int
}

// UpdateStudent persists the provided student profile changes.
func (r *ProfileRepository) UpdateStudent(ctx context.Context, userID int64, params UpdateStudentParams) error {
	set := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)
	argPos := 1

	if params.DepartmentID != nil {
		set = append(set, fmt.Sprintf("department_id = $%d", argPos))
		args = append(args, *params.DepartmentID)
		argPos++
	}
	if params.EnrollmentYear != nil {
		set = append(set, fmt.Sprintf("enrollment_year = $%d", argPos))
		args = append(args, *params.EnrollmentYear)
		argPos++
	}

	if len(set) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE student_profiles SET %s WHERE user_id = $%d", strings.Join(set, ", "), argPos)
	args = append(args, userID)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update student profile: %w", err)
	}
	return nil
}

// UpdateInstructorParams defines the mutable instructor profile fields.
type UpdateInstructorParams struct {
	DepartmentID *int64
	Title        *string
}

// UpdateInstructor persists the provided instructor profile changes.
func (r *ProfileRepository) UpdateInstructor(ctx context.Context, userID int64, params UpdateInstructorParams) error {
	set := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)
	argPos := 1

	if params.DepartmentID != nil {
		set = append(set, fmt.Sprintf("department_id = $%d", argPos))
		args = append(args, *params.DepartmentID)
		argPos++
	}
	if params.Title != nil {
		set = append(set, fmt.Sprintf("title = $%d", argPos))
		args = append(args, *params.Title)
		argPos++
	}

	if len(set) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE instructor_profiles SET %s WHERE user_id = $%d", strings.Join(set, ", "), argPos)
	args = append(args, userID)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update instructor profile: %w", err)
	}
	return nil
}
