package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rentr/api/internal/models"
)

const (
	// UserIDHeader carries the authenticated user id set by the gateway
	UserIDHeader = "X-User-ID"
	// UserRoleHeader carries the authenticated user's role
	UserRoleHeader = "X-User-Role"
	// ViewerKey is the context key for the parsed models.Viewer
	ViewerKey = "viewer"
)

// Identity parses the gateway identity headers into a models.Viewer.
// Requests without a user id or with an unknown role are left anonymous.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
		role := models.Role(strings.ToLower(strings.TrimSpace(c.GetHeader(UserRoleHeader))))

		if userID != "" && role.Valid() {
			c.Set(ViewerKey, models.Viewer{UserID: userID, Role: role})
		}

		c.Next()
	}
}

// RequireIdentity aborts anonymous requests through reject, which is
// expected to write the response.
func RequireIdentity(reject gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetViewer(c); !ok {
			reject(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetViewer returns the caller parsed by Identity.
func GetViewer(c *gin.Context) (models.Viewer, bool) {
	if v, exists := c.Get(ViewerKey); exists {
		viewer, ok := v.(models.Viewer)
		return viewer, ok
	}
	return models.Viewer{}, false
}
