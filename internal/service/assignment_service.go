package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/opencampus/registrar-api/internal/models"
	"github.com/opencampus/registrar-api/internal/repository"
	appErrors "github.com/opencampus/registrar-api/pkg/errors"
)

// weightBudget is the total assignment weight a section may carry.
const weightBudget = 100.0

type assignmentStore interface {
	ListBySection(ctx context.Context, sectionID int64) ([]models.Assignment, error)
	FindByID(ctx context.Context, id int64) (*models.Assignment, error)
	SumWeights(ctx context.Context, sectionID, excludeID int64) (float64, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, id int64, params repository.UpdateAssignmentParams) error
	Delete(ctx context.Context, id int64) error
}

// AssignmentService manages assignments and enforces the per-section weight
// budget: the weights of a section's assignments never sum past 100.
type AssignmentService struct {
	assignments assignmentStore
	guard       *AccessGuard
}

// NewAssignmentService constructs the service.
func NewAssignmentService(assignments assignmentStore, guard *AccessGuard) *AssignmentService {
	return &AssignmentService{assignments: assignments, guard: guard}
}

// ListBySection returns the assignments of a section.
func (s *AssignmentService) ListBySection(ctx context.Context, sectionID int64) ([]models.Assignment, error) {
	return s.assignments.ListBySection(ctx, sectionID)
}

// Get returns one assignment.
func (s *AssignmentService) Get(ctx context.Context, id int64) (*models.Assignment, error) {
	assignment, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}
	return assignment, nil
}

// Create adds an assignment to a section the caller teaches, provided the
// new weight still fits the budget.
func (s *AssignmentService) Create(ctx context.Context, claims *models.JWTClaims, req models.CreateAssignmentRequest) (*models.Assignment, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.guard.RequireSectionOwner(ctx, claims, req.SectionID); err != nil {
		return nil, err
	}

	used, err := s.assignments.SumWeights(ctx, req.SectionID, 0)
	if err != nil {
		return nil, err
	}
	if used+req.Weight > weightBudget {
		return nil, appErrors.ErrWeightBudget
	}

	assignment := &models.Assignment{
		SectionID: req.SectionID,
		Title:     req.Title,
		Weight:    req.Weight,
		MaxScore:  req.MaxScore,
		DueAt:     req.DueAt,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// Update applies sparse assignment changes. A weight change is checked
// against the budget with the old weight excluded.
func (s *AssignmentService) Update(ctx context.Context, claims *models.JWTClaims, id int64, req models.UpdateAssignmentRequest) (*models.Assignment, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	assignment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RequireSectionOwner(ctx, claims, assignment.SectionID); err != nil {
		return nil, err
	}

	if req.Weight != nil {
		used, err := s.assignments.SumWeights(ctx, assignment.SectionID, id)
		if err != nil {
			return nil, err
		}
		if used+*req.Weight > weightBudget {
			return nil, appErrors.ErrWeightBudget
		}
	}

	params := repository.UpdateAssignmentParams{Title: req.Title, Weight: req.Weight, MaxScore: req.MaxScore, DueAt: req.DueAt}
	if err := s.assignments.Update(ctx, id, params); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes an assignment from a section the caller teaches.
func (s *AssignmentService) Delete(ctx context.Context, claims *models.JWTClaims, id int64) error {
	assignment, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.RequireSectionOwner(ctx, claims, assignment.SectionID); err != nil {
		return err
	}
	return s.assignments.Delete(ctx, id)
}
