package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/rentr/api/internal/logger"
	"github.com/rentr/api/internal/models"
	"github.com/rentr/api/internal/repository"
	"github.com/rentr/api/internal/scoring"
)

// MatchRequest asks for the property matches of one tenant. Set fields of
// Overrides replace the tenant's stored preferences for this request only.
type MatchRequest struct {
	TenantID  string
	Overrides models.TenantPreferences
	Limit     int
}

// MatchResult is the property-matches response body.
type MatchResult struct {
	Matches []scoring.PropertyMatch `json:"matches"`
	Message string                  `json:"message"`
}

// MatchService ranks available properties for a tenant.
type MatchService interface {
	// MatchForTenant scores every available property against the tenant's
	// preferences. Returns ErrScoreNotFound if the tenant has no score and
	// scoring.ErrValidation for bad preferences or an empty catalog.
	MatchForTenant(ctx context.Context, req MatchRequest) (*MatchResult, error)
}

type matchService struct {
	scores         repository.ScoreRepository
	preferences    repository.PreferenceRepository
	properties     repository.PropertyRepository
	engine         *scoring.Engine
	log            *logger.Logger
	candidateLimit int
}

// NewMatchService creates a new instance of MatchService. candidateLimit caps
// how many available properties are scored per request.
func NewMatchService(
	scores repository.ScoreRepository,
	preferences repository.PreferenceRepository,
	properties repository.PropertyRepository,
	engine *scoring.Engine,
	candidateLimit int,
	log *logger.Logger,
) MatchService {
	return &matchService{
		scores:         scores,
		preferences:    preferences,
		properties:     properties,
		engine:         engine,
		candidateLimit: candidateLimit,
		log:            log,
	}
}

func (s *matchService) MatchForTenant(ctx context.Context, req MatchRequest) (*MatchResult, error) {
	var (
		score      *models.TenantScore
		stored     *models.TenantPreferences
		candidates []models.Property
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		score, err = s.scores.FindActiveByTenant(gctx, req.TenantID)
		return err
	})
	g.Go(func() error {
		var err error
		stored, err = s.preferences.FindByTenant(gctx, req.TenantID)
		return err
	})
	g.Go(func() error {
		var err error
		candidates, err = s.properties.ListAvailable(gctx, s.candidateLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("Failed to load match inputs", err, map[string]interface{}{
			"tenant_id": req.TenantID,
		})
		return nil, fmt.Errorf("failed to load match inputs: %w", err)
	}

	if score == nil {
		return nil, ErrScoreNotFound
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no available properties to match", scoring.ErrValidation)
	}

	prefs := models.TenantPreferences{TenantID: req.TenantID}
	if stored != nil {
		prefs = *stored
	}
	prefs = prefs.Override(req.Overrides)

	matches, err := s.engine.MatchProperties(score, prefs, candidates)
	if err != nil {
		return nil, err
	}

	total := len(matches)
	if req.Limit > 0 && req.Limit < total {
		matches = matches[:req.Limit]
	}
	// A full page means the catalog may hold more than was scored.
	capped := s.candidateLimit > 0 && len(candidates) >= s.candidateLimit

	s.log.Info("Property matches computed", map[string]interface{}{
		"tenant_id":  req.TenantID,
		"candidates": total,
		"returned":   len(matches),
		"capped":     capped,
	})

	return &MatchResult{
		Matches: matches,
		Message: matchMessage(len(matches), total, capped),
	}, nil
}

func matchMessage(returned, total int, capped bool) string {
	var msg string
	switch {
	case returned != total:
		msg = fmt.Sprintf("Showing top %d of %d property matches", returned, total)
	case total == 1:
		msg = "Found 1 property match"
	default:
		msg = fmt.Sprintf("Found %d property matches", total)
	}
	if capped {
		msg += fmt.Sprintf(" (only the first %d available properties were scored)", total)
	}
	return msg
}
