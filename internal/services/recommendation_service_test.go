package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentr/api/internal/logger"
	"github.com/rentr/api/internal/models"
)

func TestRecommendForUser_Success(t *testing.T) {
	repo := new(MockScoreRepository)
	engine := newEngine(t)
	scores := NewScoreService(repo, engine, logger.New("test"))
	service := NewRecommendationService(scores, engine, logger.New("test"))
	ctx := context.Background()

	subs := uniform(100)
	subs.PaymentHistory = models.IntPtr(30)
	current := &models.TenantScore{TenantID: "tenant-1", SubScores: subs, Overall: 86, Active: true}
	repo.On("FindActiveByTenant", ctx, "tenant-1").Return(current, nil)

	result, err := service.RecommendForUser(ctx, "tenant-1")

	require.NoError(t, err)
	assert.Equal(t, current, result.Score)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, models.PaymentHistory, result.Recommendations[0].Dimension)
	assert.Equal(t, 14, result.Recommendations[0].Impact)
	require.Len(t, result.ImprovementPlans, 1)
	assert.Equal(t, 14, result.ImprovementPlans[0].PotentialIncrease)
	require.Len(t, result.ActionableItems, 1)
	assert.Equal(t, "Set up automatic rent payments", result.ActionableItems[0].Name)
	repo.AssertExpectations(t)
}

func TestRecommendForUser_NoScore(t *testing.T) {
	repo := new(MockScoreRepository)
	engine := newEngine(t)
	service := NewRecommendationService(NewScoreService(repo, engine, logger.New("test")), engine, logger.New("test"))
	ctx := context.Background()

	repo.On("FindActiveByTenant", ctx, "tenant-1").Return(nil, nil)

	result, err := service.RecommendForUser(ctx, "tenant-1")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrScoreNotFound)
}
