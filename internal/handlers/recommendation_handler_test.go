package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "github.com/rentr/api/internal/errors"
	"github.com/rentr/api/internal/models"
	"github.com/rentr/api/internal/scoring"
	"github.com/rentr/api/internal/services"
)

func setupRecommendationRouter(recs *MockRecommendationService, policy *MockAccessPolicy) *gin.Engine {
	handler := NewRecommendationHandler(recs, policy)

	router := newTestRouter()
	router.GET("/api/score-improvement-recommendations/:userId", handler.ForUser)
	return router
}

func TestRecommendationHandler_ForUser(t *testing.T) {
	t.Run("returns score and analysis", func(t *testing.T) {
		recs := new(MockRecommendationService)
		policy := new(MockAccessPolicy)
		policy.On("CanViewTenant", mock.Anything, *tenantViewer, "tenant-1").Return(nil)
		recs.On("RecommendForUser", mock.Anything, "tenant-1").Return(&services.Recommendations{
			Score: sampleScore("tenant-1", 58),
			Analysis: scoring.Analysis{
				Recommendations: []scoring.RecommendationItem{
					{
						Type:        scoring.PriorityHigh,
						Dimension:   models.PaymentHistory,
						Message:     "Your payment history score is 30",
						ActionItems: []string{"Set up automatic rent payments"},
						Impact:      14,
					},
				},
				ImprovementPlans: []scoring.ImprovementPlan{},
				ActionableItems:  []scoring.ActionableItem{},
			},
		}, nil)

		w := serve(setupRecommendationRouter(recs, policy), http.MethodGet,
			"/api/score-improvement-recommendations/tenant-1", "", tenantViewer)

		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Contains(t, body, "score")
		assert.JSONEq(t, `[]`, string(body["improvementPlans"]))
		assert.JSONEq(t, `[]`, string(body["actionableItems"]))

		var items []scoring.RecommendationItem
		require.NoError(t, json.Unmarshal(body["recommendations"], &items))
		require.Len(t, items, 1)
		assert.Equal(t, 14, items[0].Impact)
		assert.Equal(t, models.PaymentHistory, items[0].Dimension)
		recs.AssertExpectations(t)
	})

	t.Run("404 without a score", func(t *testing.T) {
		recs := new(MockRecommendationService)
		policy := new(MockAccessPolicy)
		policy.On("CanViewTenant", mock.Anything, *adminViewer, "tenant-4").Return(nil)
		recs.On("RecommendForUser", mock.Anything, "tenant-4").Return(nil, services.ErrScoreNotFound)

		w := serve(setupRecommendationRouter(recs, policy), http.MethodGet,
			"/api/score-improvement-recommendations/tenant-4", "", adminViewer)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apierrors.ErrNotFound, decodeError(t, w).Code)
	})

	t.Run("403 for another tenant", func(t *testing.T) {
		recs := new(MockRecommendationService)
		policy := new(MockAccessPolicy)
		policy.On("CanViewTenant", mock.Anything, *tenantViewer, "tenant-2").Return(services.ErrForbidden)

		w := serve(setupRecommendationRouter(recs, policy), http.MethodGet,
			"/api/score-improvement-recommendations/tenant-2", "", tenantViewer)

		assert.Equal(t, http.StatusForbidden, w.Code)
		recs.AssertNotCalled(t, "RecommendForUser", mock.Anything, mock.Anything)
	})

	t.Run("401 without identity", func(t *testing.T) {
		w := serve(setupRecommendationRouter(new(MockRecommendationService), new(MockAccessPolicy)), http.MethodGet,
			"/api/score-improvement-recommendations/tenant-2", "", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
