package service

import (
	"context"

	"github.com/opencampus/registrar-api/internal/models"
	appErrors "github.com/opencampus/registrar-api/pkg/errors"
)

type sectionOwnership interface {
	IsTaughtBy(ctx context.Context, sectionID, instructorID int64) (bool, error)
}

// AccessGuard evaluates the ownership policies that sit beyond the role gate:
// acting on your own account, and acting on a section you teach. Admins pass
// every check.
type AccessGuard struct {
	sections sectionOwnership
}

// NewAccessGuard constructs the guard.
func NewAccessGuard(sections sectionOwnership) *AccessGuard {
	return &AccessGuard{sections: sections}
}

// RequireSelf allows admins and the account owner.
func (g *AccessGuard) RequireSelf(claims *models.JWTClaims, targetUserID int64) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if claims.Role == models.RoleAdmin || claims.UserID == targetUserID {
		return nil
	}
	return appErrors.ErrForbidden
}

// RequireSectionOwner allows admins and the instructor assigned to the section.
func (g *AccessGuard) RequireSectionOwner(ctx context.Context, claims *models.JWTClaims, sectionID int64) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if claims.Role == models.RoleAdmin {
		return nil
	}
	if claims.Role != models.RoleInstructor {
		return appErrors.ErrForbidden
	}

	owns, err := g.sections.IsTaughtBy(ctx, sectionID, claims.UserID)
	if err != nil {
		return err
	}
	if !owns {
		return appErrors.Clone(appErrors.ErrForbidden, "section is assigned to another instructor")
	}
	return nil
}
