package scoring

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/rentr/api/internal/models"
)

// Score bounds shared by sub-scores, overall scores, and match dimensions.
const (
	MinScore = 0
	MaxScore = 100
)

// ErrValidation marks malformed or empty engine inputs.
var ErrValidation = errors.New("validation failed")

// ComputeOverall returns the weighted aggregate of subs. Absent sub-scores
// count as the neutral value so partial profiles can still be scored.
// The result is rounded half away from zero and clamped to 0-100.
func (e *Engine) ComputeOverall(subs models.SubScores) int {
	var total float64
	for _, key := range models.SubScoreKeys {
		total += e.cfg.weight(key) * float64(e.effective(subs, key))
	}
	return clampScore(int(math.Round(total)))
}

// effective returns the value used for key, substituting the neutral
// sub-score when the dimension has not been assessed.
func (e *Engine) effective(subs models.SubScores, key models.SubScoreKey) int {
	if v := subs.Get(key); v != nil {
		return *v
	}
	return e.cfg.NeutralSubScore
}

// NewDefault builds the baseline score for a tenant with no history:
// every sub-score neutral and the record active.
func (e *Engine) NewDefault(tenantID string, now time.Time) models.TenantScore {
	var subs models.SubScores
	for _, key := range models.SubScoreKeys {
		subs.Set(key, models.IntPtr(e.cfg.NeutralSubScore))
	}
	return models.TenantScore{
		ID:        uuid.New(),
		TenantID:  tenantID,
		SubScores: subs,
		Overall:   e.ComputeOverall(subs),
		Active:    true,
		CreatedAt: now,
	}
}

// Rescore returns a new active record for tenantID whose overall score is
// derived from subs. The overall score is never taken from the caller.
func (e *Engine) Rescore(tenantID string, subs models.SubScores, now time.Time) (models.TenantScore, error) {
	if err := ValidateSubScores(subs); err != nil {
		return models.TenantScore{}, err
	}
	return models.TenantScore{
		ID:        uuid.New(),
		TenantID:  tenantID,
		SubScores: subs,
		Overall:   e.ComputeOverall(subs),
		Active:    true,
		CreatedAt: now,
	}, nil
}

// ValidateSubScores rejects any present sub-score outside 0-100.
func ValidateSubScores(subs models.SubScores) error {
	for _, key := range models.SubScoreKeys {
		v := subs.Get(key)
		if v == nil {
			continue
		}
		if *v < MinScore || *v > MaxScore {
			return fmt.Errorf("%w: %s must be between %d and %d, got %d",
				ErrValidation, key, MinScore, MaxScore, *v)
		}
	}
	return nil
}

func clampScore(v int) int {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}
