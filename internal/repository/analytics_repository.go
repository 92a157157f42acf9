package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/opencampus/registrar-api/internal/models"
)

// AnalyticsRepository runs the read-only reporting rollups.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository constructs the repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// InstructorWorkload aggregates sections, distinct students and the share of
// completed enrollments finishing with grade >= 2.0, per instructor.
func (r *AnalyticsRepository) InstructorWorkload(ctx context.Context, filter models.WorkloadFilter) ([]models.InstructorWorkload, error) {
	const query = `SELECT u.id AS instructor_id, u.full_name AS instructor_name,
        COUNT(DISTINCT s.id) AS sections_taught,
        COUNT(DISTINCT e.student_id) AS total_students,
        COALESCE(ROUND(100.0 * COUNT(*) FILTER (WHERE e.status = 'COMPLETED' AND e.grade >= 2.0)
            / NULLIF(COUNT(*) FILTER (WHERE e.status = 'COMPLETED'), 0), 2), 0) AS success_pct
        FROM users u
        JOIN sections s ON s.instructor_id = u.id
        LEFT JOIN enrollments e ON e.section_id = s.id
        WHERE u.role = 'INSTRUCTOR'
        GROUP BY u.id, u.full_name
        HAVING COUNT(DISTINCT e.student_id) >= $1
        ORDER BY success_pct DESC, total_students DESC`
	var rows []models.InstructorWorkload
	if err := r.db.SelectContext(ctx, &rows, query, filter.MinStudents); err != nil {
		return nil, fmt.Errorf("query instructor workload: %w", err)
	}
	return rows, nil
}

// CourseDifficulty aggregates completion volume and the share of completed
// enrollments finishing under grade 1.0, per course.
func (r *AnalyticsRepository) CourseDifficulty(ctx context.Context, filter models.DifficultyFilter) ([]models.CourseDifficulty, error) {
	const query = `SELECT c.id AS course_id, c.code AS course_code, c.title AS course_title,
        COUNT(*) FILTER (WHERE e.status = 'COMPLETED') AS completed,
        COUNT(*) FILTER (WHERE e.status = 'COMPLETED' AND e.grade < 1.0) AS failures,
        COALESCE(ROUND(100.0 * COUNT(*) FILTER (WHERE e.status = 'COMPLETED' AND e.grade < 1.0)
            / NULLIF(COUNT(*) FILTER (WHERE e.status = 'COMPLETED'), 0), 2), 0) AS failure_rate
        FROM courses c
        JOIN sections s ON s.course_id = c.id
        JOIN enrollments e ON e.section_id = s.id
        GROUP BY c.id, c.code, c.title
        HAVING COUNT(*) FILTER (WHERE e.status = 'COMPLETED') >= $1
        ORDER BY failure_rate DESC, completed DESC`
	var rows []models.CourseDifficulty
	if err := r.db.SelectContext(ctx, &rows, query, filter.MinStudents); err != nil {
		return nil, fmt.Errorf("query course difficulty: %w", err)
	}
	return rows, nil
}

// StudentRiskAggregates pulls the per-student counters the composite risk
// score is built from, scoped to one semester. GPA comes straight from graded
// enrollments so a student with no grades carries NULL rather than 0.
func (r *AnalyticsRepository) StudentRiskAggregates(ctx context.Context, filter models.RiskFilter) ([]models.StudentRiskAggregate, error) {
	const query = `SELECT u.id AS student_id, u.full_name AS student_name,
        (SELECT ROUND(SUM(ge.grade * gc.credits) / NULLIF(SUM(gc.credits), 0), 2)
            FROM enrollments ge
            JOIN sections gs ON gs.id = ge.section_id
            JOIN courses gc ON gc.id = gs.course_id
            WHERE ge.student_id = u.id AND ge.grade IS NOT NULL) AS gpa,
        (SELECT COUNT(*) FROM attendance_records ar
            JOIN sections ats ON ats.id = ar.section_id
            WHERE ar.student_id = u.id AND ats.semester = $1 AND ats.year = $2) AS total_classes,
        (SELECT COUNT(*) FROM attendance_records ar
            JOIN sections ats ON ats.id = ar.section_id
            WHERE ar.student_id = u.id AND ats.semester = $1 AND ats.year = $2 AND ar.status = 'ABSENT') AS absences,
        (SELECT COUNT(*) FROM assignments a
            JOIN sections asx ON asx.id = a.section_id
            JOIN enrollments ae ON ae.section_id = asx.id AND ae.student_id = u.id
            WHERE asx.semester = $1 AND asx.year = $2) AS total_assignments,
        (SELECT COUNT(*) FROM submissions sub
            JOIN assignments sa ON sa.id = sub.assignment_id
            JOIN sections ss ON ss.id = sa.section_id
            WHERE sub.student_id = u.id AND ss.semester = $1 AND ss.year = $2) AS submitted
        FROM users u
        JOIN student_profiles sp ON sp.user_id = u.id
        WHERE u.role = 'STUDENT' AND u.active
        ORDER BY u.id`
	var rows []models.StudentRiskAggregate
	if err := r.db.SelectContext(ctx, &rows, query, filter.Semester, filter.Year); err != nil {
		return nil, fmt.Errorf("query student risk aggregates: %w", err)
	}
	return rows, nil
}
