package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rentr/api/internal/logger"
	"github.com/rentr/api/internal/models"
	"github.com/rentr/api/internal/repository"
	"github.com/rentr/api/internal/scoring"
)

// maxUpdateAttempts bounds retries when concurrent writers race to replace
// the same active score.
const maxUpdateAttempts = 3

// ScoreService defines the business operations on tenant scores.
type ScoreService interface {
	// GetScore returns the tenant's active score.
	// Returns ErrScoreNotFound if the tenant has none.
	GetScore(ctx context.Context, tenantID string) (*models.TenantScore, error)

	// EnsureDefault returns the tenant's active score, creating a neutral
	// default first if none exists. Repeated and concurrent calls return the
	// same record.
	EnsureDefault(ctx context.Context, tenantID string) (*models.TenantScore, error)

	// UpdateSubScores applies patch on top of the current sub-scores,
	// recomputes the overall score and replaces the active record.
	// Returns scoring.ErrValidation for out-of-range values.
	UpdateSubScores(ctx context.Context, tenantID string, patch models.SubScores) (*models.TenantScore, error)
}

type scoreService struct {
	repo   repository.ScoreRepository
	engine *scoring.Engine
	log    *logger.Logger
	now    func() time.Time
}

// NewScoreService creates a new instance of ScoreService.
func NewScoreService(repo repository.ScoreRepository, engine *scoring.Engine, log *logger.Logger) ScoreService {
	return &scoreService{
		repo:   repo,
		engine: engine,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *scoreService) GetScore(ctx context.Context, tenantID string) (*models.TenantScore, error) {
	score, err := s.repo.FindActiveByTenant(ctx, tenantID)
	if err != nil {
		s.log.Error("Failed to load tenant score", err, map[string]interface{}{
			"tenant_id": tenantID,
		})
		return nil, fmt.Errorf("failed to load tenant score: %w", err)
	}
	if score == nil {
		return nil, ErrScoreNotFound
	}
	return score, nil
}

func (s *scoreService) EnsureDefault(ctx context.Context, tenantID string) (*models.TenantScore, error) {
	existing, err := s.repo.FindActiveByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant score: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	score := s.engine.NewDefault(tenantID, s.now())
	err = s.repo.InsertActive(ctx, score)
	switch {
	case err == nil:
		s.log.Info("Created default tenant score", map[string]interface{}{
			"tenant_id": tenantID,
			"score_id":  score.ID.String(),
		})
		return &score, nil
	case errors.Is(err, repository.ErrConflict):
		// Another request created the default first; return its row.
		s.log.Debug("Default score already created concurrently", map[string]interface{}{
			"tenant_id": tenantID,
		})
		winner, err := s.repo.FindActiveByTenant(ctx, tenantID)
		if err != nil {
			return nil, fmt.Errorf("failed to load tenant score: %w", err)
		}
		if winner == nil {
			return nil, fmt.Errorf("active score for tenant %s vanished after conflict", tenantID)
		}
		return winner, nil
	default:
		s.log.Error("Failed to create default tenant score", err, map[string]interface{}{
			"tenant_id": tenantID,
		})
		return nil, fmt.Errorf("failed to create default score: %w", err)
	}
}

func (s *scoreService) UpdateSubScores(ctx context.Context, tenantID string, patch models.SubScores) (*models.TenantScore, error) {
	if err := scoring.ValidateSubScores(patch); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		current, err := s.repo.FindActiveByTenant(ctx, tenantID)
		if err != nil {
			return nil, fmt.Errorf("failed to load tenant score: %w", err)
		}

		var base models.SubScores
		if current != nil {
			base = current.SubScores
		} else {
			base = s.engine.NewDefault(tenantID, s.now()).SubScores
		}

		next, err := s.engine.Rescore(tenantID, base.Merge(patch), s.now())
		if err != nil {
			return nil, err
		}

		if current == nil {
			err = s.repo.InsertActive(ctx, next)
		} else {
			err = s.repo.Supersede(ctx, current.ID, next)
		}
		if errors.Is(err, repository.ErrConflict) {
			s.log.Warn("Concurrent score update, retrying", map[string]interface{}{
				"tenant_id": tenantID,
				"attempt":   attempt,
			})
			continue
		}
		if err != nil {
			s.log.Error("Failed to store tenant score", err, map[string]interface{}{
				"tenant_id": tenantID,
			})
			return nil, fmt.Errorf("failed to store tenant score: %w", err)
		}

		s.log.Info("Tenant score updated", map[string]interface{}{
			"tenant_id": tenantID,
			"score_id":  next.ID.String(),
			"overall":   next.Overall,
		})
		return &next, nil
	}

	return nil, fmt.Errorf("failed to store tenant score after %d attempts: %w", maxUpdateAttempts, repository.ErrConflict)
}
