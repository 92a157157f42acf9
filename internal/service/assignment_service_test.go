package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/registrar-api/internal/models"
	"github.com/opencampus/registrar-api/internal/repository"
	appErrors "github.com/opencampus/registrar-api/pkg/errors"
)

type mockAssignmentStore struct {
	byID       map[int64]*models.Assignment
	sumWeights float64
	created    *models.Assignment
	updated    *repository.UpdateAssignmentParams
	deleted    int64
}

func (m *mockAssignmentStore) ListBySection(ctx context.Context, sectionID int64) ([]models.Assignment, error) {
	return nil, nil
}

func (m *mockAssignmentStore) FindByID(ctx context.Context, id int64) (*models.Assignment, error) {
	return m.byID[id], nil
}

func (m *mockAssignmentStore) SumWeights(ctx context.Context, sectionID, excludeID int64) (float64, error) {
	return m.sumWeights, nil
}

func (m *mockAssignmentStore) Create(ctx context.Context, assignment *models.Assignment) error {
	assignment.ID = 1
	m.created = assignment
	return nil
}

func (m *mockAssignmentStore) Update(ctx context.Context, id int64, params repository.UpdateAssignmentParams) error {
	m.updated = &params
	return nil
}

func (m *mockAssignmentStore) Delete(ctx context.Context, id int64) error {
	m.deleted = id
	return nil
}

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: 1, Role: models.RoleAdmin}
}

func TestAssignmentCreateWithinBudget(t *testing.T) {
	store := &mockAssignmentStore{sumWeights: 70}
	svc := NewAssignmentService(store, NewAccessGuard(&mockOwnership{}))

	assignment, err := svc.Create(context.Background(), adminClaims(), models.CreateAssignmentRequest{
		SectionID: 10,
		Title:     "Final exam",
		Weight:    30,
		MaxScore:  100,
		DueAt:     time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), assignment.ID)
	assert.Equal(t, 30.0, store.created.Weight)
}

func TestAssignmentCreateOverBudget(t *testing.T) {
	store := &mockAssignmentStore{sumWeights: 70.5}
	svc := NewAssignmentService(store, NewAccessGuard(&mockOwnership{}))

	_, err := svc.Create(context.Background(), adminClaims(), models.CreateAssignmentRequest{
		SectionID: 10,
		Title:     "Final exam",
		Weight:    30,
		MaxScore:  100,
		DueAt:     time.Now().Add(24 * time.Hour),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrWeightBudget.Code, appErrors.FromError(err).Code)
	assert.Nil(t, store.created)
}

func TestAssignmentUpdateWeightExcludesSelf(t *testing.T) {
	existing := &models.Assignment{ID: 5, SectionID: 10, Title: "Quiz", Weight: 20, MaxScore: 50, DueAt: time.Now()}
	store := &mockAssignmentStore{byID: map[int64]*models.Assignment{5: existing}, sumWeights: 60}
	svc := NewAssignmentService(store, NewAccessGuard(&mockOwnership{}))

	weight := 40.0
	_, err := svc.Update(context.Background(), adminClaims(), 5, models.UpdateAssignmentRequest{Weight: &weight})
	require.NoError(t, err)
	require.NotNil(t, store.updated)
	assert.Equal(t, 40.0, *store.updated.Weight)
}

func TestAssignmentUpdateWeightOverBudget(t *testing.T) {
	existing := &models.Assignment{ID: 5, SectionID: 10, Title: "Quiz", Weight: 20, MaxScore: 50, DueAt: time.Now()}
	store := &mockAssignmentStore{byID: map[int64]*models.Assignment{5: existing}, sumWeights: 80}
	svc := NewAssignmentService(store, NewAccessGuard(&mockOwnership{}))

	weight := 21.0
	_, err := svc.Update(context.Background(), adminClaims(), 5, models.UpdateAssignmentRequest{Weight: &weight})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrWeightBudget.Code, appErrors.FromError(err).Code)
	assert.Nil(t, store.updated)
}

func TestAssignmentCreateForeignSection(t *testing.T) {
	store := &mockAssignmentStore{}
	svc := NewAssignmentService(store, NewAccessGuard(&mockOwnership{taughtBy: map[int64]int64{10: 3}}))

	_, err := svc.Create(context.Background(), &models.JWTClaims{UserID: 4, Role: models.RoleInstructor}, models.CreateAssignmentRequest{
		SectionID: 10,
		Title:     "Quiz",
		Weight:    10,
		MaxScore:  20,
		DueAt:     time.Now().Add(time.Hour),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
