package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "github.com/rentr/api/internal/errors"
	"github.com/rentr/api/internal/logger"
	"github.com/rentr/api/internal/middleware"
	"github.com/rentr/api/internal/models"
	"github.com/rentr/api/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockScoreService is a mock implementation of services.ScoreService for testing
type MockScoreService struct {
	mock.Mock
}

func (m *MockScoreService) GetScore(ctx context.Context, tenantID string) (*models.TenantScore, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TenantScore), args.Error(1)
}

func (m *MockScoreService) EnsureDefault(ctx context.Context, tenantID string) (*models.TenantScore, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TenantScore), args.Error(1)
}

func (m *MockScoreService) UpdateSubScores(ctx context.Context, tenantID string, patch models.SubScores) (*models.TenantScore, error) {
	args := m.Called(ctx, tenantID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TenantScore), args.Error(1)
}

// MockMatchService is a mock implementation of services.MatchService for testing
type MockMatchService struct {
	mock.Mock
}

func (m *MockMatchService) MatchForTenant(ctx context.Context, req services.MatchRequest) (*services.MatchResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.MatchResult), args.Error(1)
}

// MockRecommendationService is a mock implementation of services.RecommendationService for testing
type MockRecommendationService struct {
	mock.Mock
}

func (m *MockRecommendationService) RecommendForUser(ctx context.Context, userID string) (*services.Recommendations, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Recommendations), args.Error(1)
}

// MockAccessPolicy is a mock implementation of services.AccessPolicy for testing
type MockAccessPolicy struct {
	mock.Mock
}

func (m *MockAccessPolicy) CanViewTenant(ctx context.Context, viewer models.Viewer, tenantID string) error {
	return m.Called(ctx, viewer, tenantID).Error(0)
}

func (m *MockAccessPolicy) CanUpdateTenant(ctx context.Context, viewer models.Viewer, tenantID string) error {
	return m.Called(ctx, viewer, tenantID).Error(0)
}

// newTestRouter builds a router with the production middleware chain minus
// CORS and rate limiting.
func newTestRouter() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Nop()))
	router.Use(middleware.Recovery(logger.Nop()))
	router.Use(middleware.Identity())
	return router
}

// serve sends a request as viewer, or anonymously when viewer is nil.
func serve(router *gin.Engine, method, target, body string, viewer *models.Viewer) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if viewer != nil {
		req.Header.Set(middleware.UserIDHeader, viewer.UserID)
		req.Header.Set(middleware.UserRoleHeader, string(viewer.Role))
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var (
	tenantViewer   = &models.Viewer{UserID: "tenant-1", Role: models.RoleTenant}
	landlordViewer = &models.Viewer{UserID: "landlord-1", Role: models.RoleLandlord}
	adminViewer    = &models.Viewer{UserID: "admin-1", Role: models.RoleAdmin}
)

// decodeError parses the error envelope from w.
func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierrors.ErrorDetail {
	t.Helper()
	var response apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response.Error
}
