package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentr/api/internal/models"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig())
	require.NoError(t, err)
	return e
}

func uniformSubScores(v int) models.SubScores {
	var subs models.SubScores
	for _, key := range models.SubScoreKeys {
		subs.Set(key, models.IntPtr(v))
	}
	return subs
}

func TestComputeOverall_Bounds(t *testing.T) {
	e := newTestEngine(t)

	assert.Equal(t, 100, e.ComputeOverall(uniformSubScores(100)))
	assert.Equal(t, 0, e.ComputeOverall(uniformSubScores(0)))
	assert.Equal(t, 50, e.ComputeOverall(uniformSubScores(50)))
}

func TestComputeOverall_MissingSubScoresAreNeutral(t *testing.T) {
	e := newTestEngine(t)

	assert.Equal(t, 50, e.ComputeOverall(models.SubScores{}))

	// Payment history at 100, everything else absent: 0.20*100 + 0.80*50
	subs := models.SubScores{PaymentHistory: models.IntPtr(100)}
	assert.Equal(t, 60, e.ComputeOverall(subs))
}

func TestComputeOverall_Weighted(t *testing.T) {
	e := newTestEngine(t)

	subs := uniformSubScores(80)
	subs.CreditScore = models.IntPtr(40)

	// 0.85*80 + 0.15*40 = 68 + 6
	assert.Equal(t, 74, e.ComputeOverall(subs))
}

func TestComputeOverall_Monotonic(t *testing.T) {
	e := newTestEngine(t)

	bases := []models.SubScores{
		uniformSubScores(0),
		uniformSubScores(37),
		uniformSubScores(50),
		{},
	}

	for _, base := range bases {
		for _, key := range models.SubScoreKeys {
			prev := e.ComputeOverall(base)
			for v := 0; v <= 100; v += 5 {
				subs := base
				subs.Set(key, models.IntPtr(v))
				if v == 0 {
					prev = e.ComputeOverall(subs)
					continue
				}
				cur := e.ComputeOverall(subs)
				assert.GreaterOrEqual(t, cur, prev, "raising %s to %d lowered overall", key, v)
				prev = cur
			}
		}
	}
}

func TestComputeOverall_Deterministic(t *testing.T) {
	e := newTestEngine(t)
	subs := models.SubScores{
		PaymentHistory: models.IntPtr(91),
		CreditScore:    models.IntPtr(63),
		References:     models.IntPtr(12),
	}

	first := e.ComputeOverall(subs)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, e.ComputeOverall(subs))
	}
}

func TestComputeOverall_AlternateWeights(t *testing.T) {
	cfg := DefaultConfig()
	for key := range cfg.SubScoreWeights {
		cfg.SubScoreWeights[key] = 0
	}
	cfg.SubScoreWeights[models.PaymentHistory] = 1

	e, err := NewEngine(cfg)
	require.NoError(t, err)

	subs := uniformSubScores(0)
	subs.PaymentHistory = models.IntPtr(73)
	assert.Equal(t, 73, e.ComputeOverall(subs))
}

func TestNewDefault(t *testing.T) {
	e := newTestEngine(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	score := e.NewDefault("tenant-1", now)

	assert.Equal(t, "tenant-1", score.TenantID)
	assert.Equal(t, 50, score.Overall)
	assert.True(t, score.Active)
	assert.Equal(t, now, score.CreatedAt)
	assert.NotEmpty(t, score.ID.String())
	for _, key := range models.SubScoreKeys {
		v := score.Get(key)
		require.NotNil(t, v, "sub-score %s should be set", key)
		assert.Equal(t, 50, *v)
	}
}

func TestRescore(t *testing.T) {
	e := newTestEngine(t)
	now := time.Now()

	score, err := e.Rescore("tenant-1", uniformSubScores(90), now)
	require.NoError(t, err)
	assert.Equal(t, 90, score.Overall)
	assert.True(t, score.Active)

	_, err = e.Rescore("tenant-1", models.SubScores{CreditScore: models.IntPtr(101)}, now)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "creditScore")
}

func TestValidateSubScores(t *testing.T) {
	assert.NoError(t, ValidateSubScores(models.SubScores{}))
	assert.NoError(t, ValidateSubScores(uniformSubScores(0)))
	assert.NoError(t, ValidateSubScores(uniformSubScores(100)))
	assert.ErrorIs(t, ValidateSubScores(models.SubScores{References: models.IntPtr(-1)}), ErrValidation)
}
