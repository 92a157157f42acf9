package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/opencampus/registrar-api/internal/models"
)

// AssignmentRepository handles persistence of assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ListBySection returns the assignments of a section ordered by due time.
func (r *AssignmentRepository) ListBySection(ctx context.Context, sectionID int64) ([]models.Assignment, error) {
	const query = `SELECT id, section_id, title, weight, max_score, due_at, created_at FROM assignments WHERE section_id = $1 ORDER BY due_at`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, sectionID); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// FindByID returns an assignment by its id.
func (r *AssignmentRepository) FindByID(ctx context.Context, id int64) (*models.Assignment, error) {
	const query = `SELECT id, section_id, title, weight, max_score, due_at, created_at FROM assignments WHERE id = $1`
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// SumWeights returns the weight total of a section's assignments, skipping
// excludeID so updates do not count the row being replaced.
func (r *AssignmentRepository) SumWeights(ctx context.Context, sectionID, excludeID int64) (float64, error) {
	query := "SELECT COALESCE(SUM(weight), 0) FROM assignments WHERE section_id = $1"
	args := []interface{}{sectionID}
	if excludeID != 0 {
		query += fmt.Sprintf(" AND id <> $%d", len(args)+1)
		args = append(args, excludeID)
	}
	var sum float64
	if err := r.db.GetContext(ctx, &sum, query, args...); err != nil {
		return 0, fmt.Errorf("sum assignment weights: %w", err)
	}
	return sum, nil
}

// Create inserts an assignment and fills in the generated id.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO assignments (section_id, title, weight, max_score, due_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.GetContext(ctx, &assignment.ID, query,
		assignment.SectionID, assignment.Title, assignment.Weight, assignment.MaxScore, assignment.DueAt, assignment.CreatedAt); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// UpdateAssignmentParams defines the mutable assignment fields.
type UpdateAssignmentParams struct {
	Title    *string
	Weight   *float64
	MaxScore *float64
	DueAt    *time.Time
}

// Update persists the provided assignment changes.
func (r *AssignmentRepository) Update(ctx context.Context, id int64, params UpdateAssignmentParams) error {
	set := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	argPos := 1

	if params.Title != nil {
		set = append(set, fmt.Sprintf("title = $%d", argPos))
		args = append(args, *params.Title)
		argPos++
	}
	if params.Weight != nil {
		set = append(set, fmt.Sprintf("weight = $%d", argPos))
		args = append(args, *params.Weight)
		argPos++
	}
	if params.MaxScore != nil {
		set = append(set, fmt.Sprintf("max_score = $%d", argPos))
		args = append(args, *params.MaxScore)
		argPos++
	}
	if params.DueAt != nil {
		set = append(set, fmt.Sprintf("due_at = $%d", argPos))
		args = append(args, *params.DueAt)
		argPos++
	}

	if len(set) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE assignments SET %s WHERE id = $%d", strings.Join(set, ", "), argPos)
	args = append(args, id)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	return nil
}

// Delete removes an assignment row.
func (r *AssignmentRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM assignments WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}
