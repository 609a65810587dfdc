package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/easyapps/poly-schedule-api/internal/middleware"
	"github.com/easyapps/poly-schedule-api/internal/models"
	appErrors "github.com/easyapps/poly-schedule-api/pkg/errors"
)

// claimsFromContext extracts the authenticated JWT claims set by the middleware.
func claimsFromContext(c *gin.Context) (*models.JWTClaims, error) {
	value, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil, appErrors.ErrUnauthorized
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok || claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	return claims, nil
}
