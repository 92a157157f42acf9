package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/registrar-api/internal/middleware"
	"github.com/opencampus/registrar-api/internal/models"
	appErrors "github.com/opencampus/registrar-api/pkg/errors"
)

// claimsFrom pulls the authenticated claims stored by the JWT middleware.
func claimsFrom(c *gin.Context) (*models.JWTClaims, error) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return nil, appErrors.ErrUnauthorized
	}
	return claims, nil
}

// idParam parses a path parameter as int64.
func idParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid "+name)
	}
	return id, nil
}

// intQuery parses an optional integer query parameter.
func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// int64Query parses an optional int64 query parameter.
func int64Query(c *gin.Context, name string) int64 {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
