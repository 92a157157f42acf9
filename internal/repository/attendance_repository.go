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

// AttendanceRepository handles persistence of attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Exists reports whether a record already covers (section, student, date).
func (r *AttendanceRepository) Exists(ctx context.Context, sectionID, studentID int64, date time.Time) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM attendance_records WHERE section_id = $1 AND student_id = $2 AND date = $3)",
		sectionID, studentID, date); err != nil {
		return false, fmt.Errorf("check attendance: %w", err)
	}
	return exists, nil
}

// Create inserts an attendance record. The unique index on
// (section_id, student_id, date) backstops the pre-check under concurrency.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	const query = `INSERT INTO attendance_records (section_id, student_id, date, status)
        VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.GetContext(ctx, &record.ID, query,
		record.SectionID, record.StudentID, record.Date, record.Status); err != nil {
		if isUniqueViolation(err) {
			return appErrors.ErrAlreadyRecorded
		}
		return fmt.Errorf("create attendance record: %w", err)
	}
	return nil
}

// List returns attendance rows for a section, optionally narrowed to a
// student or a single date.
func (r *AttendanceRepository) List(ctx context.Context, sectionID, studentID int64, date *time.Time) ([]models.AttendanceRecord, error) {
	conditions := []string{"section_id = $1"}
	args := []interface{}{sectionID}

	if studentID != 0 {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, studentID)
	}
	if date != nil {
		conditions = append(conditions, fmt.Sprintf("date = $%d", len(args)+1))
		args = append(args, *date)
	}

	query := fmt.Sprintf("SELECT id, section_id, student_id, date, status FROM attendance_records WHERE %s ORDER BY date DESC, student_id",
		strings.Join(conditions, " AND "))
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// FindByID returns an attendance record by its id.
func (r *AttendanceRepository) FindByID(ctx context.Context, id int64) (*models.AttendanceRecord, error) {
	const query = `SELECT id, section_id, student_id, date, status FROM attendance_records WHERE id = $1`
	var record models.AttendanceRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateStatus corrects the status of an existing record.
func (r *AttendanceRepository) UpdateStatus(ctx context.Context, id int64, status models.AttendanceStatus) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE attendance_records SET status = $2 WHERE id = $1", id, status); err != nil {
		return fmt.Errorf("update attendance status: %w", err)
	}
	return nil
}
