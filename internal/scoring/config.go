// Package scoring implements the tenant score model, the tenant/property
// compatibility engine, and the score improvement recommendation engine.
// Everything here is a pure function of its inputs and safe for concurrent use.
package scoring

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rentr/api/internal/models"
)

// weightTolerance bounds floating point drift when checking weight sums.
const weightTolerance = 1e-9

// ErrInvalidConfig is returned when a Config fails validation.
var ErrInvalidConfig = errors.New("invalid scoring config")

// Config is the single source of weights and thresholds used by the engines.
type Config struct {
	SubScoreWeights map[models.SubScoreKey]float64 `yaml:"sub_score_weights"`
	Match           MatchConfig                    `yaml:"match"`
	Recommendation  RecommendationConfig           `yaml:"recommendations"`
	NeutralSubScore int                            `yaml:"neutral_sub_score"`
}

// MatchConfig holds compatibility weights and per-dimension scoring constants.
type MatchConfig struct {
	Weights              MatchWeights `yaml:"weights"`
	MaxOverBudgetRatio   float64      `yaml:"max_over_budget_ratio"`
	NoBudgetScore        int          `yaml:"no_budget_score"`
	NoLocationScore      int          `yaml:"no_location_score"`
	SameRegionScore      int          `yaml:"same_region_score"`
	BedroomPenalty       int          `yaml:"bedroom_penalty"`
	AreaUnitSqft         int          `yaml:"area_unit_sqft"`
	AreaPenalty          int          `yaml:"area_penalty"`
	WeeklyDelayPenalty   int          `yaml:"weekly_delay_penalty"`
	ExplanationThreshold int          `yaml:"explanation_threshold"`
}

// MatchWeights weights the five compatibility dimensions. They must sum to 1.
type MatchWeights struct {
	Price        float64 `yaml:"price"`
	Location     float64 `yaml:"location"`
	Amenities    float64 `yaml:"amenities"`
	Size         float64 `yaml:"size"`
	Availability float64 `yaml:"availability"`
}

// Sum returns the total of all match weights.
func (w MatchWeights) Sum() float64 {
	return w.Price + w.Location + w.Amenities + w.Size + w.Availability
}

// RecommendationConfig holds the thresholds that drive recommendations.
type RecommendationConfig struct {
	Thresholds       map[models.SubScoreKey]int `yaml:"thresholds"`
	DefaultThreshold int                        `yaml:"default_threshold"`
	HighBelow        int                        `yaml:"high_below"`
	MediumBelow      int                        `yaml:"medium_below"`
}

// DefaultConfig returns the reference weight table and thresholds.
func DefaultConfig() Config {
	return Config{
		SubScoreWeights: map[models.SubScoreKey]float64{
			models.PaymentHistory:       0.20,
			models.CreditScore:          0.15,
			models.IncomeStability:      0.12,
			models.RentalHistory:        0.12,
			models.EmploymentStability:  0.08,
			models.IdentityVerification: 0.05,
			models.References:           0.05,
			models.ApplicationQuality:   0.05,
			models.Promptness:           0.08,
			models.EvictionHistory:      0.06,
			models.CriminalCheck:        0.04,
		},
		NeutralSubScore: 50,
		Match: MatchConfig{
			Weights: MatchWeights{
				Price:        0.30,
				Location:     0.25,
				Amenities:    0.20,
				Size:         0.15,
				Availability: 0.10,
			},
			MaxOverBudgetRatio:   0.5,
			NoBudgetScore:        70,
			NoLocationScore:      70,
			SameRegionScore:      50,
			BedroomPenalty:       35,
			AreaUnitSqft:         100,
			AreaPenalty:          10,
			WeeklyDelayPenalty:   15,
			ExplanationThreshold: 60,
		},
		Recommendation: RecommendationConfig{
			Thresholds:       map[models.SubScoreKey]int{},
			DefaultThreshold: 70,
			HighBelow:        40,
			MediumBelow:      60,
		},
	}
}

// LoadConfigFile reads a YAML file and overlays it on DefaultConfig.
// Keys absent from the file keep their default values.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read scoring config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal scoring config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that the weight tables are complete and sum to one and that
// every threshold is inside the 0-100 score range.
func (c Config) Validate() error {
	var sum float64
	for key, w := range c.SubScoreWeights {
		if !models.IsKnownSubScore(key) {
			return fmt.Errorf("%w: unknown sub-score %q", ErrInvalidConfig, key)
		}
		if w < 0 {
			return fmt.Errorf("%w: weight for %s must be >= 0", ErrInvalidConfig, key)
		}
		sum += w
	}
	for _, key := range models.SubScoreKeys {
		if _, ok := c.SubScoreWeights[key]; !ok {
			return fmt.Errorf("%w: missing weight for %s", ErrInvalidConfig, key)
		}
	}
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: sub-score weights sum to %.4f, must sum to 1", ErrInvalidConfig, sum)
	}

	mw := c.Match.Weights
	for name, w := range map[string]float64{
		"price": mw.Price, "location": mw.Location, "amenities": mw.Amenities,
		"size": mw.Size, "availability": mw.Availability,
	} {
		if w < 0 {
			return fmt.Errorf("%w: match weight %s must be >= 0", ErrInvalidConfig, name)
		}
	}
	if math.Abs(mw.Sum()-1) > weightTolerance {
		return fmt.Errorf("%w: match weights sum to %.4f, must sum to 1", ErrInvalidConfig, mw.Sum())
	}

	if c.Match.MaxOverBudgetRatio <= 0 {
		return fmt.Errorf("%w: max_over_budget_ratio must be > 0", ErrInvalidConfig)
	}
	if c.Match.AreaUnitSqft <= 0 {
		return fmt.Errorf("%w: area_unit_sqft must be > 0", ErrInvalidConfig)
	}
	if c.Match.BedroomPenalty < 0 || c.Match.AreaPenalty < 0 || c.Match.WeeklyDelayPenalty < 0 {
		return fmt.Errorf("%w: penalties must be >= 0", ErrInvalidConfig)
	}

	scores := map[string]int{
		"neutral_sub_score":     c.NeutralSubScore,
		"no_budget_score":       c.Match.NoBudgetScore,
		"no_location_score":     c.Match.NoLocationScore,
		"same_region_score":     c.Match.SameRegionScore,
		"explanation_threshold": c.Match.ExplanationThreshold,
		"default_threshold":     c.Recommendation.DefaultThreshold,
		"high_below":            c.Recommendation.HighBelow,
		"medium_below":          c.Recommendation.MediumBelow,
	}
	for key, v := range c.Recommendation.Thresholds {
		if !models.IsKnownSubScore(key) {
			return fmt.Errorf("%w: threshold for unknown sub-score %q", ErrInvalidConfig, key)
		}
		scores["threshold "+string(key)] = v
	}
	for name, v := range scores {
		if v < 0 || v > MaxScore {
			return fmt.Errorf("%w: %s must be between 0 and %d", ErrInvalidConfig, name, MaxScore)
		}
	}
	if c.Recommendation.HighBelow > c.Recommendation.MediumBelow {
		return fmt.Errorf("%w: high_below must not exceed medium_below", ErrInvalidConfig)
	}

	return nil
}

// weight returns the sub-score weight for key.
func (c Config) weight(key models.SubScoreKey) float64 {
	return c.SubScoreWeights[key]
}

// threshold returns the recommendation threshold for key.
func (c Config) threshold(key models.SubScoreKey) int {
	if t, ok := c.Recommendation.Thresholds[key]; ok {
		return t
	}
	return c.Recommendation.DefaultThreshold
}
