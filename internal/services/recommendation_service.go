package services

import (
	"context"

	"github.com/rentr/api/internal/logger"
	"github.com/rentr/api/internal/models"
	"github.com/rentr/api/internal/scoring"
)

// Recommendations is the score-improvement response body: the current score
// alongside everything derived from it.
type Recommendations struct {
	Score *models.TenantScore `json:"score"`
	scoring.Analysis
}

// RecommendationService derives improvement advice from a tenant's score.
type RecommendationService interface {
	// RecommendForUser analyzes the user's active score.
	// Returns ErrScoreNotFound if the user has no score.
	RecommendForUser(ctx context.Context, userID string) (*Recommendations, error)
}

type recommendationService struct {
	scores ScoreService
	engine *scoring.Engine
	log    *logger.Logger
}

// NewRecommendationService creates a new instance of RecommendationService.
func NewRecommendationService(scores ScoreService, engine *scoring.Engine, log *logger.Logger) RecommendationService {
	return &recommendationService{
		scores: scores,
		engine: engine,
		log:    log,
	}
}

func (s *recommendationService) RecommendForUser(ctx context.Context, userID string) (*Recommendations, error) {
	score, err := s.scores.GetScore(ctx, userID)
	if err != nil {
		return nil, err
	}

	analysis := s.engine.Analyze(*score)

	s.log.Debug("Recommendations computed", map[string]interface{}{
		"user_id":         userID,
		"recommendations": len(analysis.Recommendations),
		"actionable":      len(analysis.ActionableItems),
	})

	return &Recommendations{
		Score:    score,
		Analysis: analysis,
	}, nil
}
