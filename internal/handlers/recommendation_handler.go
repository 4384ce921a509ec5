package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rentr/api/internal/services"
)

// RecommendationHandler handles score improvement HTTP requests.
type RecommendationHandler struct {
	recommendations services.RecommendationService
	policy          services.AccessPolicy
}

// NewRecommendationHandler creates a new RecommendationHandler instance.
func NewRecommendationHandler(recommendations services.RecommendationService, policy services.AccessPolicy) *RecommendationHandler {
	return &RecommendationHandler{
		recommendations: recommendations,
		policy:          policy,
	}
}

// ForUser handles GET /api/score-improvement-recommendations/:userId.
func (h *RecommendationHandler) ForUser(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	userID := resolveTenantID(c, "userId", viewer)

	if err := h.policy.CanViewTenant(c.Request.Context(), viewer, userID); err != nil {
		respondServiceError(c, err, "Failed to check tenant access")
		return
	}

	recs, err := h.recommendations.RecommendForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to compute recommendations")
		return
	}

	c.JSON(http.StatusOK, recs)
}
