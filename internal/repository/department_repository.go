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

// DepartmentRepository handles persistence of departments.
type DepartmentRepository struct {
	db *sqlx.DB
}

// NewDepartmentRepository constructs the repository.
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// List returns all departments ordered by code.
func (r *DepartmentRepository) List(ctx context.Context) ([]models.Department, error) {
	const query = `SELECT id, code, name, created_at FROM departments ORDER BY code`
	var departments []models.Department
	if err := r.db.SelectContext(ctx, &departments, query); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return departments, nil
}

// FindByID returns a department by its id.
func (r *DepartmentRepository) FindByID(ctx context.Context, id int64) (*models.Department, error) {
	const query = `SELECT id, code, name, created_at FROM departments WHERE id = $1`
	var department models.Department
	if err := r.db.GetContext(ctx, &department, query, id); err != nil {
		return nil, err
	}
	return &department, nil
}

// Create inserts a department and fills in the generated id.
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	if department.CreatedAt.IsZero() {
		department.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO departments (code, name, created_at) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.GetContext(ctx, &department.ID, query, department.Code, department.Name, department.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "department code or name already exists")
		}
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

// UpdateDepartmentParams defines the mutable department fields.
type UpdateDepartmentParams struct {
	Code *string
	Name *string
}

// Update persists the provided department changes.
func (r *DepartmentRepository) Update(ctx context.Context, id int64, params UpdateDepartmentParams) error {
	set := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)
	argPos := 1

	if params.Code != nil {
		set = append(set, fmt.Sprintf("code = $%d", argPos))
		args = append(args, *params.Code)
		argPos++
	}
	if params.Name != nil {
		set = append(set, fmt.Sprintf("name = $%d", argPos))
		args = append(args, *params.Name)
		argPos++
	}

	if len(set) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE departments SET %s WHERE id = $%d", strings.Join(set, ", "), argPos)
	args = append(args, id)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "department code or name already exists")
		}
		return fmt.Errorf("update department: %w", err)
	}
	return nil
}

// InUse reports whether any course or profile still references the department.
func (r *DepartmentRepository) InUse(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM courses WHERE department_id = $1)
        OR EXISTS (SELECT 1 FROM student_profiles WHERE department_id = $1)
        OR EXISTS (SELECT 1 FROM instructor_profiles WHERE department_id = $1)`
	var used bool
	if err := r.db.GetContext(ctx, &used, query, id); err != nil {
		return false, fmt.Errorf("check department references: %w", err)
	}
	return used, nil
}

// Delete removes a department row.
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM departments WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	return nil
}
