package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/rentr/api/internal/errors"
	"github.com/rentr/api/internal/middleware"
	"github.com/rentr/api/internal/models"
	"github.com/rentr/api/internal/services"
)

// ScoreHandler handles tenant score HTTP requests.
type ScoreHandler struct {
	scores services.ScoreService
	policy services.AccessPolicy
}

// NewScoreHandler creates a new ScoreHandler instance.
func NewScoreHandler(scores services.ScoreService, policy services.AccessPolicy) *ScoreHandler {
	return &ScoreHandler{
		scores: scores,
		policy: policy,
	}
}

// GetMine handles GET /api/tenant-scores/me.
func (h *ScoreHandler) GetMine(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}

	score, err := h.scores.GetScore(c.Request.Context(), viewer.UserID)
	if err != nil {
		respondServiceError(c, err, "Failed to load tenant score")
		return
	}

	c.JSON(http.StatusOK, score)
}

// Get handles GET /api/tenant-scores/:tenantId.
func (h *ScoreHandler) Get(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	tenantID := resolveTenantID(c, "tenantId", viewer)

	if err := h.policy.CanViewTenant(c.Request.Context(), viewer, tenantID); err != nil {
		respondServiceError(c, err, "Failed to check tenant access")
		return
	}

	score, err := h.scores.GetScore(c.Request.Context(), tenantID)
	if err != nil {
		respondServiceError(c, err, "Failed to load tenant score")
		return
	}

	c.JSON(http.StatusOK, score)
}

// CreateDefault handles POST /api/tenant-scores/me/default.
// Only tenants onboard; the call is idempotent and returns the active score.
func (h *ScoreHandler) CreateDefault(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	if viewer.Role != models.RoleTenant {
		apierrors.Forbidden(c, "Only tenants can create a default score")
		return
	}

	score, err := h.scores.EnsureDefault(c.Request.Context(), viewer.UserID)
	if err != nil {
		respondServiceError(c, err, "Failed to create default score")
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Debug("Default score ensured", map[string]interface{}{
			"tenant_id": viewer.UserID,
			"score_id":  score.ID.String(),
		})
	}

	c.JSON(http.StatusOK, score)
}

// Update handles PUT /api/tenant-scores/:tenantId. The body is a partial
// set of sub-scores applied over the current ones.
func (h *ScoreHandler) Update(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	tenantID := resolveTenantID(c, "tenantId", viewer)

	var patch models.SubScores
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, err, "Request body must be a JSON object of sub-scores")
		return
	}
	if isEmptyPatch(patch) {
		apierrors.BadRequest(c, "At least one sub-score is required", nil)
		return
	}

	if err := h.policy.CanUpdateTenant(c.Request.Context(), viewer, tenantID); err != nil {
		respondServiceError(c, err, "Failed to check tenant access")
		return
	}

	score, err := h.scores.UpdateSubScores(c.Request.Context(), tenantID, patch)
	if err != nil {
		respondServiceError(c, err, "Failed to update tenant score")
		return
	}

	c.JSON(http.StatusOK, score)
}

func isEmptyPatch(patch models.SubScores) bool {
	for _, key := range models.SubScoreKeys {
		if patch.Get(key) != nil {
			return false
		}
	}
	return true
}
