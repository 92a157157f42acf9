package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/opencampus/registrar-api/internal/models"
)

// SectionRepository handles persistence of course sections.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository constructs the repository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

const sectionDetailQuery = `SELECT s.id, s.course_id, s.instructor_id, s.semester, s.year, s.day_of_week, s.start_time, s.classroom, s.capacity,
        c.code AS course_code, c.title AS course_title, u.full_name AS instructor_name,
        (SELECT COUNT(*) FROM enrollments e WHERE e.section_id = s.id) AS enrolled_count
        FROM sections s
        JOIN courses c ON c.id = s.course_id
        JOIN users u ON u.id = s.instructor_id`

// List returns section details matching the filter.
func (r *SectionRepository) List(ctx context.Context, filter models.SectionFilter) ([]models.SectionDetail, int, error) {
	var conditions []string
	var args []interface{}

	if filter.CourseID != 0 {
		conditions = append(conditions, fmt.Sprintf("s.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.InstructorID != 0 {
		conditions = append(conditions, fmt.Sprintf("s.instructor_id = $%d", len(args)+1))
		args = append(args, filter.InstructorID)
	}
	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("s.semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.Year != 0 {
		conditions = append(conditions, fmt.Sprintf("s.year = $%d", len(args)+1))
		args = append(args, filter.Year)
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

	query := fmt.Sprintf("%s%s ORDER BY s.year DESC, s.semester, c.code LIMIT %d OFFSET %d", sectionDetailQuery, clause, size, offset)
	var sections []models.SectionDetail
	if err := r.db.SelectContext(ctx, &sections, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list sections: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM sections s"+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("count sections: %w", err)
	}
	return sections, total, nil
}

// FindByID returns a section by its id.
func (r *SectionRepository) FindByID(ctx context.Context, id int64) (*models.Section, error) {
	const query = `SELECT id, course_id, instructor_id, semester, year, day_of_week, start_time, classroom, capacity FROM sections WHERE id = $1`
	var section models.Section
	if err := r.db.GetContext(ctx, &section, query, id); err != nil {
		return nil, err
	}
	return &section, nil
}

// FindDetailByID returns a section with course/instructor context.
func (r *SectionRepository) FindDetailByID(ctx context.Context, id int64) (*models.SectionDetail, error) {
	query := sectionDetailQuery + " WHERE s.id = $1"
	var detail models.SectionDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ConflictExists reports whether another section occupies the schedule tuple.
// The section identified by excludeID is ignored so updates never collide
// with themselves.
func (r *SectionRepository) ConflictExists(ctx context.Context, semester string, year int, dayOfWeek, startTime, classroom string, excludeID int64) (bool, error) {
	query := `SELECT 1 FROM sections WHERE semester = $1 AND year = $2 AND day_of_week = $3 AND start_time = $4 AND classroom = $5`
	args := []interface{}{semester, year, dayOfWeek, startTime, classroom}
	if excludeID != 0 {
		query += fmt.Sprintf(" AND id <> $%d", len(args)+1)
		args = append(args, excludeID)
	}
	query += " LIMIT 1"
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check schedule conflict: %w", err)
	}
	return true, nil
}

// Create inserts a section and fills in the generated id.
func (r *SectionRepository) Create(ctx context.Context, section *models.Section) error {
	const query = `INSERT INTO sections (course_id, instructor_id, semester, year, day_of_week, start_time, classroom, capacity)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := r.db.GetContext(ctx, &section.ID, query,
		section.CourseID, section.InstructorID, section.Semester, section.Year,
		section.DayOfWeek, section.StartTime, section.Classroom, section.Capacity); err != nil {
		return fmt.Errorf("create section: %w", err)
	}
	return nil
}

// UpdateSectionParams defines the mutable section fields.
type UpdateSectionParams struct {
	InstructorID *int64
	Semester     *string
	Year         *int
	DayOfWeek    *string
	StartTime    *string
	Classroom    *string
	Capacity     *int
}

// Update persists the provided section changes.
func (r *SectionRepository) Update(ctx context.Context, id int64, params UpdateSectionParams) error {
	set := make([]string, 0, 7)
	args := make([]interface{}, 0, 8)
	argPos := 1

	if params.InstructorID != nil {
		set = append(set, fmt.Sprintf("instructor_id = $%d", argPos))
		args = append(args, *params.InstructorID)
		argPos++
	}
	if params.Semester != nil {
		set = append(set, fmt.Sprintf("semester = $%d", argPos))
		args = append(args, *params.Semester)
		argPos++
	}
	if params.Year != nil {
		set = append(set, fmt.Sprintf("year = $%d", argPos))
		args = append(args, *params.Year)
		argPos++
	}
	if params.DayOfWeek != nil {
		set = append(set, fmt.Sprintf("day_of_week = $%d", argPos))
		args = append(args, *params.DayOfWeek)
		argPos++
	}
	if params.StartTime != nil {
		set = append(set, fmt.Sprintf("start_time = $%d", argPos))
		args = append(args, *params.StartTime)
		argPos++
	}
	if params.Classroom != nil {
		set = append(set, fmt.Sprintf("classroom = $%d", argPos))
		args = append(args, *params.Classroom)
		argPos++
	}
	if params.Capacity != nil {
		set = append(set, fmt.Sprintf("capacity = $%d", argPos))
		args = append(args, *params.Capacity)
		argPos++
	}

	if len(set) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE sections SET %s WHERE id = $%d", strings.Join(set, ", "), argPos)
	args = append(args, id)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update section: %w", err)
	}
	return nil
}

// HasEnrollments reports whether any student has ever enrolled in the section.
func (r *SectionRepository) HasEnrollments(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM enrollments WHERE section_id = $1)", id); err != nil {
		return false, fmt.Errorf("check section enrollments: %w", err)
	}
	return exists, nil
}

// IsTaughtBy reports whether the section is assigned to the instructor.
func (r *SectionRepository) IsTaughtBy(ctx context.Context, sectionID, instructorID int64) (bool, error) {
	var owns bool
	if err := r.db.GetContext(ctx, &owns, "SELECT EXISTS (SELECT 1 FROM sections WHERE id = $1 AND instructor_id = $2)", sectionID, instructorID); err != nil {
		return false, fmt.Errorf("check section instructor: %w", err)
	}
	return owns, nil
}

// Delete removes a section row.
func (r *SectionRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sections WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	return nil
}
