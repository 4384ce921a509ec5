package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rentr/api/internal/models"
)

const hoursPerDay = 24

// MatchBreakdown scores each compatibility dimension from 0 to 100.
type MatchBreakdown struct {
	PriceMatch        int `json:"priceMatch"`
	LocationMatch     int `json:"locationMatch"`
	AmenitiesMatch    int `json:"amenitiesMatch"`
	SizeMatch         int `json:"sizeMatch"`
	AvailabilityMatch int `json:"availabilityMatch"`
}

// PropertyMatch is the derived compatibility of one property with a tenant.
type PropertyMatch struct {
	PropertyID      string         `json:"propertyId"`
	Explanation     []string       `json:"explanation"`
	MatchBreakdown  MatchBreakdown `json:"matchBreakdown"`
	MatchPercentage int            `json:"matchPercentage"`
}

// MatchProperties scores every property against the tenant's preferences and
// returns the matches ordered by match percentage descending, then property
// id ascending. The score must exist and the catalog must not be empty.
func (e *Engine) MatchProperties(score *models.TenantScore, prefs models.TenantPreferences, properties []models.Property) ([]PropertyMatch, error) {
	if score == nil {
		return nil, fmt.Errorf("%w: tenant score is required before matching", ErrValidation)
	}
	if len(properties) == 0 {
		return nil, fmt.Errorf("%w: no properties to match", ErrValidation)
	}
	if err := e.ValidatePreferences(prefs); err != nil {
		return nil, err
	}

	m := newMatcher(e.cfg.Match, prefs)

	matches := make([]PropertyMatch, 0, len(properties))
	for i := range properties {
		matches = append(matches, m.match(&properties[i]))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].MatchPercentage != matches[j].MatchPercentage {
			return matches[i].MatchPercentage > matches[j].MatchPercentage
		}
		return matches[i].PropertyID < matches[j].PropertyID
	})

	return matches, nil
}

// ValidatePreferences checks preference values using their struct tags.
func (e *Engine) ValidatePreferences(prefs models.TenantPreferences) error {
	if err := e.validate.Struct(prefs); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: preference %s failed %s", ErrValidation, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// matcher holds per-call state. Casers and printers are not safe to share
// between goroutines so each MatchProperties call builds its own.
type matcher struct {
	fold      cases.Caser
	printer   *message.Printer
	prefs     models.TenantPreferences
	requested []string
	cfg       MatchConfig
}

func newMatcher(cfg MatchConfig, prefs models.TenantPreferences) *matcher {
	m := &matcher{
		cfg:     cfg,
		prefs:   prefs,
		fold:    cases.Fold(),
		printer: message.NewPrinter(language.English),
	}
	seen := make(map[string]struct{}, len(prefs.Amenities))
	for _, a := range prefs.Amenities {
		key := m.normalize(a)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		m.requested = append(m.requested, key)
	}
	return m
}

func (m *matcher) normalize(s string) string {
	return m.fold.String(strings.TrimSpace(s))
}

func (m *matcher) match(p *models.Property) PropertyMatch {
	var explanation []string
	explain := func(score int, reason func() string) int {
		if score < m.cfg.ExplanationThreshold && reason != nil {
			explanation = append(explanation, reason())
		}
		return score
	}

	price, priceWhy := m.priceMatch(p)
	location, locationWhy := m.locationMatch(p)
	amenities, amenitiesWhy := m.amenitiesMatch(p)
	size, sizeWhy := m.sizeMatch(p)
	availability, availabilityWhy := m.availabilityMatch(p)

	// Fixed dimension order keeps explanations reproducible.
	b := MatchBreakdown{
		PriceMatch:        explain(price, priceWhy),
		LocationMatch:     explain(location, locationWhy),
		AmenitiesMatch:    explain(amenities, amenitiesWhy),
		SizeMatch:         explain(size, sizeWhy),
		AvailabilityMatch: explain(availability, availabilityWhy),
	}

	w := m.cfg.Weights
	total := w.Price*float64(b.PriceMatch) +
		w.Location*float64(b.LocationMatch) +
		w.Amenities*float64(b.AmenitiesMatch) +
		w.Size*float64(b.SizeMatch) +
		w.Availability*float64(b.AvailabilityMatch)

	if explanation == nil {
		explanation = []string{}
	}

	return PropertyMatch{
		PropertyID:      p.ID,
		MatchPercentage: clampScore(int(math.Round(total))),
		MatchBreakdown:  b,
		Explanation:     explanation,
	}
}

// maxReportedOverRatio caps the overage quoted in price explanations.
const maxReportedOverRatio = 10.0

// priceMatch is 100 within budget and falls linearly to 0 once rent exceeds
// the budget by MaxOverBudgetRatio.
func (m *matcher) priceMatch(p *models.Property) (int, func() string) {
	if m.prefs.BudgetCents == nil {
		return m.cfg.NoBudgetScore, func() string {
			return "No budget set, so rent could not be compared"
		}
	}
	budget := *m.prefs.BudgetCents
	if p.PriceCents <= budget {
		return MaxScore, nil
	}

	over := float64(p.PriceCents-budget) / float64(budget)
	score := MinScore
	if over < m.cfg.MaxOverBudgetRatio {
		score = clampScore(int(math.Round(MaxScore * (1 - over/m.cfg.MaxOverBudgetRatio))))
	}
	return score, func() string {
		if over > maxReportedOverRatio {
			return m.printer.Sprintf("Rent of %s/month is more than %d%% over your %s budget",
				m.money(p.PriceCents), int(maxReportedOverRatio*100), m.money(budget))
		}
		return m.printer.Sprintf("Rent of %s/month is %d%% over your %s budget",
			m.money(p.PriceCents), int(math.Round(over*100)), m.money(budget))
	}
}

// locationMatch compares the preferred city first and falls back to the
// broader region.
func (m *matcher) locationMatch(p *models.Property) (int, func() string) {
	city := m.normalize(m.prefs.City)
	region := m.normalize(m.prefs.Region)
	if city == "" && region == "" {
		return m.cfg.NoLocationScore, func() string {
			return "No preferred location set"
		}
	}

	sameRegion := region != "" && m.normalize(p.Region) == region
	if city != "" {
		if m.normalize(p.City) == city {
			return MaxScore, nil
		}
		if sameRegion {
			return m.cfg.SameRegionScore, func() string {
				return fmt.Sprintf("Located in %s, outside your preferred city of %s", p.City, m.prefs.City)
			}
		}
		return MinScore, func() string {
			return fmt.Sprintf("Located in %s, outside your preferred area of %s", p.City, m.prefs.City)
		}
	}

	if sameRegion {
		return MaxScore, nil
	}
	return MinScore, func() string {
		return fmt.Sprintf("Located in %s, outside your preferred region of %s", p.Region, m.prefs.Region)
	}
}

// amenitiesMatch is the share of requested amenities the property offers.
func (m *matcher) amenitiesMatch(p *models.Property) (int, func() string) {
	if len(m.requested) == 0 {
		return MaxScore, nil
	}

	offered := make(map[string]struct{}, len(p.Amenities))
	for _, a := range p.Amenities {
		offered[m.normalize(a)] = struct{}{}
	}

	var missing []string
	for _, want := range m.requested {
		if _, ok := offered[want]; !ok {
			missing = append(missing, want)
		}
	}

	present := len(m.requested) - len(missing)
	score := clampScore(int(math.Round(MaxScore * float64(present) / float64(len(m.requested)))))
	return score, func() string {
		return fmt.Sprintf("Missing %d of %d requested amenities: %s",
			len(missing), len(m.requested), strings.Join(missing, ", "))
	}
}

// sizeMatch takes the worse of the bedroom and floor area checks. A property
// with unknown area is judged on bedrooms only.
func (m *matcher) sizeMatch(p *models.Property) (int, func() string) {
	score := MaxScore
	var why func() string

	if m.prefs.MinBedrooms != nil {
		short := *m.prefs.MinBedrooms - p.Bedrooms
		if short > 0 {
			s := clampScore(MaxScore - m.cfg.BedroomPenalty*short)
			if s < score {
				score = s
				why = func() string {
					return fmt.Sprintf("Has %d bedroom(s), %d fewer than the %d you need",
						p.Bedrooms, short, *m.prefs.MinBedrooms)
				}
			}
		}
	}

	if m.prefs.MinAreaSqft != nil && p.AreaSqft != nil {
		shortSqft := *m.prefs.MinAreaSqft - *p.AreaSqft
		if shortSqft > 0 {
			units := (shortSqft + m.cfg.AreaUnitSqft - 1) / m.cfg.AreaUnitSqft
			s := clampScore(MaxScore - m.cfg.AreaPenalty*units)
			if s < score {
				score = s
				why = func() string {
					return m.printer.Sprintf("Offers %d sq ft, below your %d sq ft minimum",
						*p.AreaSqft, *m.prefs.MinAreaSqft)
				}
			}
		}
	}

	return score, why
}

// availabilityMatch penalizes every started week between the desired move-in
// date and the date the property becomes available.
func (m *matcher) availabilityMatch(p *models.Property) (int, func() string) {
	if m.prefs.MoveInDate == nil || p.AvailableFrom == nil {
		return MaxScore, nil
	}

	desired := dateOnly(*m.prefs.MoveInDate)
	available := dateOnly(*p.AvailableFrom)
	if !available.After(desired) {
		return MaxScore, nil
	}

	days := int(available.Sub(desired).Hours() / hoursPerDay)
	weeks := (days + 6) / 7
	score := clampScore(MaxScore - m.cfg.WeeklyDelayPenalty*weeks)
	return score, func() string {
		return fmt.Sprintf("Available %s, %d week(s) after your move-in date of %s",
			available.Format(time.DateOnly), weeks, desired.Format(time.DateOnly))
	}
}

// money renders minor currency units as dollars with digit grouping.
func (m *matcher) money(cents int64) string {
	if cents%100 == 0 {
		return m.printer.Sprintf("$%d", cents/100)
	}
	return m.printer.Sprintf("$%.2f", float64(cents)/100)
}

func dateOnly(t time.Time) time.Time {
	y, mo, d := t.UTC().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}
