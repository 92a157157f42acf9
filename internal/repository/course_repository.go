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

// CourseRepository handles persistence of the course catalog and its
// prerequisite graph.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns catalog entries matching the filter.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	var conditions []string
	var args []interface{}

	if filter.DepartmentID != 0 {
		conditions = append(conditions, fmt.Sprintf("department_id = $%d", len(args)+1))
		args = append(args, filter.DepartmentID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(code ILIKE $%d OR title ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
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

	query := fmt.Sprintf("SELECT id, code, title, credits, department_id, created_at FROM courses%s ORDER BY code LIMIT %d OFFSET %d", clause, size, offset)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM courses"+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	return courses, total, nil
}

// FindByID returns a course by its id.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	const query = `SELECT id, code, title, credits, department_id, created_at FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindDetailByID returns a course with department name and prerequisite ids.
func (r *CourseRepository) FindDetailByID(ctx context.Context, id int64) (*models.CourseDetail, error) {
	const query = `SELECT c.id, c.code, c.title, c.credits, c.department_id, c.created_at, d.name AS department_name
        FROM courses c
        JOIN departments d ON d.id = c.department_id
        WHERE c.id = $1`
	var detail models.CourseDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	prereqs, err := r.PrerequisiteIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Prerequisites = prereqs
	return &detail, nil
}

// PrerequisiteIDs returns the direct prerequisite course ids.
func (r *CourseRepository) PrerequisiteIDs(ctx context.Context, courseID int64) ([]int64, error) {
	const query = `SELECT prerequisite_id FROM course_prerequisites WHERE course_id = $1 ORDER BY prerequisite_id`
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, courseID); err != nil {
		return nil, fmt.Errorf("list prerequisites: %w", err)
	}
	return ids, nil
}

// Create inserts a catalog entry and fills in the generated id.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO courses (code, title, credits, department_id, created_at)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.GetContext(ctx, &course.ID, query, course.Code, course.Title, course.Credits, course.DepartmentID, course.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "course code already exists")
		}
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// UpdateCourseParams defines the mutable course fields.
type UpdateCourseParams struct {
	Code         *string
	Title        *string
	Credits      *int
	DepartmentID *int64
}

// Update persists the provided course changes.
func (r *CourseRepository) Update(ctx context.Context, id int64, params UpdateCourseParams) error {
	set := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	argPos := 1

	if params.Code != nil {
		set = append(set, fmt.Sprintf("code = $%d", argPos))
		args = append(args, *params.Code)
		argPos++
	}
	if params.Title != nil {
		set = append(set, fmt.Sprintf("title = $%d", argPos))
		args = append(args, *params.Title)
		argPos++
	}
	if params.Credits != nil {
		set = append(set, fmt.Sprintf("credits = $%d", argPos))
		args = append(args, *params.Credits)
		argPos++
	}
	if params.DepartmentID != nil {
		set = append(set, fmt.Sprintf("department_id = $%d", argPos))
		args = append(args, *params.DepartmentID)
		argPos++
	}

	if len(set) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE courses SET %s WHERE id = $%d", strings.Join(set, ", "), argPos)
	args = append(args, id)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "course code already exists")
		}
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// AddPrerequisite records a prerequisite edge. Self-loops are rejected by the
// service before this call.
func (r *CourseRepository) AddPrerequisite(ctx context.Context, courseID, prerequisiteID int64) error {
	const query = `INSERT INTO course_prerequisites (course_id, prerequisite_id) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, query, courseID, prerequisiteID); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "prerequisite already recorded")
		}
		return fmt.Errorf("add prerequisite: %w", err)
	}
	return nil
}

// RemovePrerequisite drops a prerequisite edge.
func (r *CourseRepository) RemovePrerequisite(ctx context.Context, courseID, prerequisiteID int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM course_prerequisites WHERE course_id = $1 AND prerequisite_id = $2", courseID, prerequisiteID); err != nil {
		return fmt.Errorf("remove prerequisite: %w", err)
	}
	return nil
}

// InUse reports whether the course has sections or appears as a prerequisite.
func (r *CourseRepository) InUse(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM sections WHERE course_id = $1)
        OR EXISTS (SELECT 1 FROM course_prerequisites WHERE prerequisite_id = $1)`
	var used bool
	if err := r.db.GetContext(ctx, &used, query, id); err != nil {
		return false, fmt.Errorf("check course references: %w", err)
	}
	return used, nil
}

// Delete removes a course and its outgoing prerequisite edges.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete course: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM course_prerequisites WHERE course_id = $1", id); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("delete course prerequisites: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM courses WHERE id = $1", id); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("delete course: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete course: %w", err)
	}
	return nil
}
