package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rentr/api/internal/models"
	"github.com/rentr/api/internal/scoring"
)

// MockScoreRepository is a mock implementation of ScoreRepository for testing
type MockScoreRepository struct {
	mock.Mock
}

func (m *MockScoreRepository) FindActiveByTenant(ctx context.Context, tenantID string) (*models.TenantScore, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TenantScore), args.Error(1)
}

func (m *MockScoreRepository) InsertActive(ctx context.Context, score models.TenantScore) error {
	args := m.Called(ctx, score)
	return args.Error(0)
}

func (m *MockScoreRepository) Supersede(ctx context.Context, currentID uuid.UUID, score models.TenantScore) error {
	args := m.Called(ctx, currentID, score)
	return args.Error(0)
}

// MockPreferenceRepository is a mock implementation of PreferenceRepository for testing
type MockPreferenceRepository struct {
	mock.Mock
}

func (m *MockPreferenceRepository) FindByTenant(ctx context.Context, tenantID string) (*models.TenantPreferences, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TenantPreferences), args.Error(1)
}

// MockPropertyRepository is a mock implementation of PropertyRepository for testing
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) ListAvailable(ctx context.Context, limit int) ([]models.Property, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

// MockApplicationRepository is a mock implementation of ApplicationRepository for testing
type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) ExistsForLandlord(ctx context.Context, tenantID, landlordID string) (bool, error) {
	args := m.Called(ctx, tenantID, landlordID)
	return args.Bool(0), args.Error(1)
}

func newEngine(t *testing.T) *scoring.Engine {
	t.Helper()
	e, err := scoring.NewEngine(scoring.DefaultConfig())
	require.NoError(t, err)
	return e
}
