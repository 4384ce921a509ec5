package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/rentr/api/internal/errors"
	"github.com/rentr/api/internal/middleware"
	"github.com/rentr/api/internal/models"
	"github.com/rentr/api/internal/scoring"
	"github.com/rentr/api/internal/services"
)

// requireViewer returns the authenticated caller or writes a 401.
func requireViewer(c *gin.Context) (models.Viewer, bool) {
	viewer, ok := middleware.GetViewer(c)
	if !ok {
		apierrors.MissingIdentity(c)
	}
	return viewer, ok
}

// resolveTenantID maps the "me" path alias to the caller's own id.
func resolveTenantID(c *gin.Context, param string, viewer models.Viewer) string {
	id := c.Param(param)
	if id == "me" {
		return viewer.UserID
	}
	return id
}

// respondBindError writes a validation or bad-request response for a failed bind.
func respondBindError(c *gin.Context, err error, message string) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		apierrors.ValidationError(c, validationErrors)
		return
	}
	apierrors.BadRequest(c, message, nil)
}

// respondServiceError maps service-layer errors to the error envelope.
// failure is the client-facing message for unexpected errors.
func respondServiceError(c *gin.Context, err error, failure string) {
	switch {
	case errors.Is(err, services.ErrScoreNotFound):
		apierrors.NotFound(c, "Tenant score not found")
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, "You do not have access to this tenant")
	case errors.Is(err, scoring.ErrValidation):
		apierrors.BadRequest(c, err.Error(), nil)
	default:
		apierrors.InternalServerError(c, failure, err)
	}
}
