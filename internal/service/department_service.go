package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/opencampus/registrar-api/internal/models"
	"github.com/opencampus/registrar-api/internal/repository"
	appErrors "github.com/opencampus/registrar-api/pkg/errors"
)

type departmentStore interface {
	List(ctx context.Context) ([]models.Department, error)
	FindByID(ctx context.Context, id int64) (*models.Department, error)
	Create(ctx context.Context, department *models.Department) error
	Update(ctx context.Context, id int64, params repository.UpdateDepartmentParams) error
	InUse(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}

// DepartmentService manages the department registry.
type DepartmentService struct {
	departments departmentStore
}

// NewDepartmentService constructs the service.
func NewDepartmentService(departments departmentStore) *DepartmentService {
	return &DepartmentService{departments: departments}
}

// List returns all departments.
func (s *DepartmentService) List(ctx context.Context) ([]models.Department, error) {
	return s.departments.List(ctx)
}

// Get returns one department.
func (s *DepartmentService) Get(ctx context.Context, id int64) (*models.Department, error) {
	department, err := s.departments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}
	return department, nil
}

// Create registers a department.
func (s *DepartmentService) Create(ctx context.Context, req models.CreateDepartmentRequest) (*models.Department, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	department := &models.Department{Code: req.Code, Name: req.Name}
	if err := s.departments.Create(ctx, department); err != nil {
		return nil, err
	}
	return department, nil
}

// Update applies sparse department changes.
func (s *DepartmentService) Update(ctx context.Context, id int64, req models.UpdateDepartmentRequest) (*models.Department, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.departments.Update(ctx, id, repository.UpdateDepartmentParams{Code: req.Code, Name: req.Name}); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a department unless courses or profiles still reference it.
func (s *DepartmentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	used, err := s.departments.InUse(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return appErrors.ErrDepartmentInUse
	}
	return s.departments.Delete(ctx, id)
}
