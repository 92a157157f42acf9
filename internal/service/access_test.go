package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/registrar-api/internal/models"
	appErrors "github.com/opencampus/registrar-api/pkg/errors"
)

type mockOwnership struct {
	taughtBy map[int64]int64
	err      error
}

func (m *mockOwnership) IsTaughtBy(ctx context.Context, sectionID, instructorID int64) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.taughtBy[sectionID] == instructorID, nil
}

func TestRequireSelf(t *testing.T) {
	guard := NewAccessGuard(&mockOwnership{})

	assert.NoError(t, guard.RequireSelf(&models.JWTClaims{UserID: 5, Role: models.RoleStudent}, 5))
	assert.NoError(t, guard.RequireSelf(&models.JWTClaims{UserID: 1, Role: models.RoleAdmin}, 5))

	err := guard.RequireSelf(&models.JWTClaims{UserID: 6, Role: models.RoleStudent}, 5)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	assert.Error(t, guard.RequireSelf(nil, 5))
}

func TestRequireSectionOwner(t *testing.T) {
	guard := NewAccessGuard(&mockOwnership{taughtBy: map[int64]int64{10: 3}})
	ctx := context.Background()

	assert.NoError(t, guard.RequireSectionOwner(ctx, &models.JWTClaims{UserID: 3, Role: models.RoleInstructor}, 10))
	assert.NoError(t, guard.RequireSectionOwner(ctx, &models.JWTClaims{UserID: 1, Role: models.RoleAdmin}, 10))

	err := guard.RequireSectionOwner(ctx, &models.JWTClaims{UserID: 4, Role: models.RoleInstructor}, 10)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	err = guard.RequireSectionOwner(ctx, &models.JWTClaims{UserID: 3, Role: models.RoleStudent}, 10)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
