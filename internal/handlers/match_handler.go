package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rentr/api/internal/models"
	"github.com/rentr/api/internal/services"
)

// moveInLayout is the accepted format of the moveIn query parameter.
const moveInLayout = "2006-01-02"

// MatchHandler handles property match HTTP requests.
type MatchHandler struct {
	matches services.MatchService
	policy  services.AccessPolicy
}

// NewMatchHandler creates a new MatchHandler instance.
func NewMatchHandler(matches services.MatchService, policy services.AccessPolicy) *MatchHandler {
	return &MatchHandler{
		matches: matches,
		policy:  policy,
	}
}

// MatchQuery holds the optional preference overrides accepted by the
// property-matches endpoint.
type MatchQuery struct {
	Budget      *int64 `form:"budget" binding:"omitempty,gt=0"`
	MinBedrooms *int   `form:"minBedrooms" binding:"omitempty,gte=0,lte=20"`
	MinAreaSqft *int   `form:"minAreaSqft" binding:"omitempty,gte=0,lte=100000"`
	City        string `form:"city" binding:"max=120"`
	Region      string `form:"region" binding:"max=120"`
	Amenities   string `form:"amenities" binding:"max=2000"`
	MoveIn      string `form:"moveIn" binding:"omitempty,datetime=2006-01-02"`
	Limit       int    `form:"limit" binding:"omitempty,gte=1,lte=200"`
}

// Overrides converts the query into preference overrides.
func (q MatchQuery) Overrides() models.TenantPreferences {
	prefs := models.TenantPreferences{
		BudgetCents: q.Budget,
		MinBedrooms: q.MinBedrooms,
		MinAreaSqft: q.MinAreaSqft,
		City:        strings.TrimSpace(q.City),
		Region:      strings.TrimSpace(q.Region),
		Amenities:   splitList(q.Amenities),
	}
	if q.MoveIn != "" {
		// Already checked by the datetime binding.
		if t, err := time.Parse(moveInLayout, q.MoveIn); err == nil {
			prefs.MoveInDate = &t
		}
	}
	return prefs
}

// PropertyMatches handles GET /api/tenant-scores/:tenantId/property-matches.
func (h *MatchHandler) PropertyMatches(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	tenantID := resolveTenantID(c, "tenantId", viewer)

	var query MatchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err, "Invalid query parameters")
		return
	}

	if err := h.policy.CanViewTenant(c.Request.Context(), viewer, tenantID); err != nil {
		respondServiceError(c, err, "Failed to check tenant access")
		return
	}

	result, err := h.matches.MatchForTenant(c.Request.Context(), services.MatchRequest{
		TenantID:  tenantID,
		Overrides: query.Overrides(),
		Limit:     query.Limit,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to compute property matches")
		return
	}

	c.JSON(http.StatusOK, result)
}

// splitList splits a comma separated parameter, dropping blanks.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
