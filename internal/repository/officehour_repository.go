package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/opencampus/registrar-api/internal/models"
)

// OfficeHourRepository handles persistence of office hours.
type OfficeHourRepository struct {
	db *sqlx.DB
}

// NewOfficeHourRepository constructs the repository.
func NewOfficeHourRepository(db *sqlx.DB) *OfficeHourRepository {
	return &OfficeHourRepository{db: db}
}

// ListByInstructor returns the weekly slots of an instructor.
func (r *OfficeHourRepository) ListByInstructor(ctx context.Context, instructorID int64) ([]models.OfficeHour, error) {
	const query = `SELECT id, instructor_id, day_of_week, start_time, end_time, location
        FROM office_hours WHERE instructor_id = $1 ORDER BY day_of_week, start_time`
	var hours []models.OfficeHour
	if err := r.db.SelectContext(ctx, &hours, query, instructorID); err != nil {
		return nil, fmt.Errorf("list office hours: %w", err)
	}
	return hours, nil
}

// FindByID returns an office hour by its id.
func (r *OfficeHourRepository) FindByID(ctx context.Context, id int64) (*models.OfficeHour, error) {
	const query = `SELECT id, instructor_id, day_of_week, start_time, end_time, location FROM office_hours WHERE id = $1`
	var hour models.OfficeHour
	if err := r.db.GetContext(ctx, &hour, query, id); err != nil {
		return nil, err
	}
	return &hour, nil
}

// Create inserts an office hour and fills in the generated id.
func (r *OfficeHourRepository) Create(ctx context.Context, hour *models.OfficeHour) error {
	const query = `INSERT INTO office_hours (instructor_id, day_of_week, start_time, end_time, location)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.GetContext(ctx, &hour.ID, query,
		hour.InstructorID, hour.DayOfWeek, hour.StartTime, hour.EndTime, hour.Location); err != nil {
		return fmt.Errorf("create office hour: %w", err)
	}
	return nil
}

// UpdateOfficeHourParams defines the mutable office hour fields.
type UpdateOfficeHourParams struct {
	DayOfWeek *string
	StartTime *string
	EndTime   *string
	Location  *string
}

// Update persists the provided office hour changes.
func (r *OfficeHourRepository) Update(ctx context.Context, id int64, params UpdateOfficeHourParams) error {
	set := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	argPos := 1

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
	if params.EndTime != nil {
		set = append(set, fmt.Sprintf("end_time = $%d", argPos))
		args = append(args, *params.EndTime)
		argPos++
	}
	if params.Location != nil {
		set = append(set, fmt.Sprintf("location = $%d", argPos))
		args = append(args, *params.Location)
		argPos++
	}

	if len(set) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE office_hours SET %s WHERE id = $%d", strings.Join(set, ", "), argPos)
	args = append(args, id)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update office hour: %w", err)
	}
	return nil
}

// Delete removes an office hour row.
func (r *OfficeHourRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM office_hours WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete office hour: %w", err)
	}
	return nil
}
