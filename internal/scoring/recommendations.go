package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/rentr/api/internal/models"
)

// Priority ranks recommendations and actionable items.
type Priority string

// Priority levels, most urgent first.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Actionable item status values.
const (
	StatusComplete   = "complete"
	StatusIncomplete = "incomplete"
)

// RecommendationItem suggests how to raise one sub-score.
type RecommendationItem struct {
	Type        Priority           `json:"type"`
	Dimension   models.SubScoreKey `json:"dimension"`
	Message     string             `json:"message"`
	ActionItems []string           `json:"actionItems"`
	Impact      int                `json:"impact"`
}

// ImprovementPlan groups related recommendations under one theme.
type ImprovementPlan struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Timeframe         string   `json:"timeframe"`
	Difficulty        string   `json:"difficulty"`
	Steps             []string `json:"steps"`
	PotentialIncrease int      `json:"potentialIncrease"`
}

// ActionableItem is a discrete remediation step a tenant can complete.
type ActionableItem struct {
	Name          string   `json:"name"`
	Status        string   `json:"status"`
	Priority      Priority `json:"priority"`
	Description   string   `json:"description"`
	EstimatedTime string   `json:"estimatedTime"`
	Link          string   `json:"link"`
	Impact        int      `json:"impact"`
}

// Analysis is everything derived from one tenant score.
type Analysis struct {
	Recommendations  []RecommendationItem `json:"recommendations"`
	ImprovementPlans []ImprovementPlan    `json:"improvementPlans"`
	ActionableItems  []ActionableItem     `json:"actionableItems"`
}

type advice struct {
	message     string
	actionItems []string
}

var adviceCatalog = map[models.SubScoreKey]advice{
	models.PaymentHistory: {
		message: "Your payment history score is %d. On-time rent payments carry the most weight in your tenant score.",
		actionItems: []string{
			"Set up automatic rent payments",
			"Pay any overdue balances",
		},
	},
	models.CreditScore: {
		message: "Your credit score component is %d. Landlords look for a steady credit profile.",
		actionItems: []string{
			"Connect your credit report",
			"Keep credit utilization below 30%",
		},
	},
	models.IncomeStability: {
		message: "Your income stability score is %d. Showing reliable income relative to rent helps approvals.",
		actionItems: []string{
			"Upload recent pay stubs or bank statements",
			"Add any secondary income sources",
		},
	},
	models.RentalHistory: {
		message: "Your rental history score is %d. A documented rental track record builds landlord confidence.",
		actionItems: []string{
			"Add previous rental addresses",
			"Upload past lease agreements",
		},
	},
	models.EmploymentStability: {
		message: "Your employment stability score is %d. Verified employment strengthens your application.",
		actionItems: []string{
			"Add your current employer details",
			"Upload an employment verification letter",
		},
	},
	models.IdentityVerification: {
		message: "Your identity verification score is %d. Verified tenants are prioritized by landlords.",
		actionItems: []string{
			"Complete identity verification",
		},
	},
	models.References: {
		message: "Your references score is %d. Positive references from past landlords make a difference.",
		actionItems: []string{
			"Add a positive landlord reference",
			"Add a professional reference",
		},
	},
	models.ApplicationQuality: {
		message: "Your application quality score is %d. Complete applications get faster responses.",
		actionItems: []string{
			"Fill in every section of your rental profile",
			"Add a short introduction for landlords",
		},
	},
	models.Promptness: {
		message: "Your promptness score is %d. Paying and responding on time improves this quickly.",
		actionItems: []string{
			"Pay rent on or before the due date",
			"Respond to landlord requests within 48 hours",
		},
	},
	models.EvictionHistory: {
		message: "Your eviction history score is %d. Resolving past records can lift your score.",
		actionItems: []string{
			"Resolve outstanding eviction records",
			"Add context for past rental disputes",
		},
	},
	models.CriminalCheck: {
		message: "Your background check score is %d. A completed background check reassures landlords.",
		actionItems: []string{
			"Run a background check",
		},
	},
}

type actionSpec struct {
	name          string
	dimension     models.SubScoreKey
	priority      Priority
	description   string
	estimatedTime string
	link          string
	completeAt    int
	target        int
}

var actionCatalog = []actionSpec{
	{
		name: "Complete identity verification", dimension: models.IdentityVerification,
		priority: PriorityHigh, completeAt: 100, target: 100,
		description:   "Verify a government-issued ID so landlords know who you are.",
		estimatedTime: "10 minutes", link: "/tenant/verification",
	},
	{
		name: "Set up automatic rent payments", dimension: models.PaymentHistory,
		priority: PriorityHigh, completeAt: 80, target: 90,
		description:   "Autopay makes sure every rent payment lands on time.",
		estimatedTime: "5 minutes", link: "/tenant/payments/autopay",
	},
	{
		name: "Connect your credit report", dimension: models.CreditScore,
		priority: PriorityHigh, completeAt: 60, target: 70,
		description:   "Share your credit report so it counts toward your score.",
		estimatedTime: "15 minutes", link: "/tenant/credit",
	},
	{
		name: "Upload proof of income", dimension: models.IncomeStability,
		priority: PriorityHigh, completeAt: 70, target: 80,
		description:   "Recent pay stubs or bank statements show you can cover rent.",
		estimatedTime: "10 minutes", link: "/tenant/documents/income",
	},
	{
		name: "Resolve outstanding eviction records", dimension: models.EvictionHistory,
		priority: PriorityHigh, completeAt: 90, target: 100,
		description:   "Upload settlement or dismissal documents for past eviction filings.",
		estimatedTime: "1-2 weeks", link: "/tenant/support/eviction-records",
	},
	{
		name: "Pay rent on or before the due date", dimension: models.Promptness,
		priority: PriorityMedium, completeAt: 80, target: 95,
		description:   "Consistently early payments raise your promptness score.",
		estimatedTime: "Ongoing", link: "/tenant/payments",
	},
	{
		name: "Add a positive landlord reference", dimension: models.References,
		priority: PriorityMedium, completeAt: 70, target: 90,
		description:   "Invite a previous landlord to vouch for you.",
		estimatedTime: "5 minutes", link: "/tenant/references",
	},
	{
		name: "Add previous rental addresses", dimension: models.RentalHistory,
		priority: PriorityMedium, completeAt: 70, target: 80,
		description:   "List where you have rented before, with dates.",
		estimatedTime: "10 minutes", link: "/tenant/profile/rental-history",
	},
	{
		name: "Add employment details", dimension: models.EmploymentStability,
		priority: PriorityMedium, completeAt: 70, target: 80,
		description:   "Tell landlords where you work and for how long.",
		estimatedTime: "5 minutes", link: "/tenant/profile/employment",
	},
	{
		name: "Run a background check", dimension: models.CriminalCheck,
		priority: PriorityMedium, completeAt: 100, target: 100,
		description:   "Authorize a background check once and share it with every application.",
		estimatedTime: "1-3 days", link: "/tenant/verification/background",
	},
	{
		name: "Complete your rental application profile", dimension: models.ApplicationQuality,
		priority: PriorityLow, completeAt: 80, target: 100,
		description:   "Fill in every section so your applications are ready to send.",
		estimatedTime: "20 minutes", link: "/tenant/applications",
	},
}

type planTheme struct {
	title       string
	description string
	timeframe   string
	difficulty  string
	dimensions  []models.SubScoreKey
}

var planThemes = []planTheme{
	{
		title:       "Boost payment reliability",
		description: "Build a record of on-time payments landlords can trust.",
		timeframe:   "3-6 months",
		difficulty:  "medium",
		dimensions:  []models.SubScoreKey{models.PaymentHistory, models.Promptness},
	},
	{
		title:       "Strengthen your financial profile",
		description: "Show stable income, employment, and credit.",
		timeframe:   "6-12 months",
		difficulty:  "hard",
		dimensions:  []models.SubScoreKey{models.CreditScore, models.IncomeStability, models.EmploymentStability},
	},
	{
		title:       "Build your rental track record",
		description: "Document past tenancies and gather references.",
		timeframe:   "1-3 months",
		difficulty:  "medium",
		dimensions:  []models.SubScoreKey{models.RentalHistory, models.References, models.EvictionHistory},
	},
	{
		title:       "Complete your verification",
		description: "Finish identity, background, and application checks.",
		timeframe:   "1-2 weeks",
		difficulty:  "easy",
		dimensions:  []models.SubScoreKey{models.IdentityVerification, models.CriminalCheck, models.ApplicationQuality},
	},
}

// Analyze derives recommendations, improvement plans, and outstanding
// actionable items from a tenant score.
func (e *Engine) Analyze(score models.TenantScore) Analysis {
	recs := e.recommendations(score.SubScores)
	return Analysis{
		Recommendations:  recs,
		ImprovementPlans: e.improvementPlans(recs),
		ActionableItems:  e.actionableItems(score.SubScores),
	}
}

// Impact estimates the overall-score gain from moving key from its current
// value to target.
func (e *Engine) Impact(key models.SubScoreKey, current, target int) int {
	if target <= current {
		return 0
	}
	return int(math.Round(e.cfg.weight(key) * float64(target-current)))
}

func (e *Engine) recommendations(subs models.SubScores) []RecommendationItem {
	type ranked struct {
		item  RecommendationItem
		order int
	}

	var out []ranked
	for i, key := range models.SubScoreKeys {
		current := e.effective(subs, key)
		if current >= e.cfg.threshold(key) {
			continue
		}
		adv := adviceCatalog[key]
		out = append(out, ranked{
			order: i,
			item: RecommendationItem{
				Type:        e.priorityFor(current),
				Dimension:   key,
				Message:     fmt.Sprintf(adv.message, current),
				ActionItems: append([]string(nil), adv.actionItems...),
				Impact:      e.Impact(key, current, MaxScore),
			},
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].item.Impact != out[j].item.Impact {
			return out[i].item.Impact > out[j].item.Impact
		}
		return out[i].order < out[j].order
	})

	recs := make([]RecommendationItem, 0, len(out))
	for _, r := range out {
		recs = append(recs, r.item)
	}
	return recs
}

func (e *Engine) priorityFor(current int) Priority {
	switch {
	case current < e.cfg.Recommendation.HighBelow:
		return PriorityHigh
	case current < e.cfg.Recommendation.MediumBelow:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func (e *Engine) improvementPlans(recs []RecommendationItem) []ImprovementPlan {
	type ranked struct {
		plan  ImprovementPlan
		order int
	}

	var out []ranked
	for i, theme := range planThemes {
		inTheme := make(map[models.SubScoreKey]bool, len(theme.dimensions))
		for _, d := range theme.dimensions {
			inTheme[d] = true
		}

		plan := ImprovementPlan{
			Title:       theme.title,
			Description: theme.description,
			Timeframe:   theme.timeframe,
			Difficulty:  theme.difficulty,
			Steps:       []string{},
		}
		seen := make(map[string]bool)
		matched := false
		for _, rec := range recs {
			if !inTheme[rec.Dimension] {
				continue
			}
			matched = true
			plan.PotentialIncrease += rec.Impact
			for _, step := range rec.ActionItems {
				if seen[step] {
					continue
				}
				seen[step] = true
				plan.Steps = append(plan.Steps, step)
			}
		}
		if matched {
			out = append(out, ranked{plan: plan, order: i})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].plan.PotentialIncrease != out[j].plan.PotentialIncrease {
			return out[i].plan.PotentialIncrease > out[j].plan.PotentialIncrease
		}
		return out[i].order < out[j].order
	})

	plans := make([]ImprovementPlan, 0, len(out))
	for _, r := range out {
		plans = append(plans, r.plan)
	}
	return plans
}

func (e *Engine) actionableItems(subs models.SubScores) []ActionableItem {
	type ranked struct {
		item  ActionableItem
		order int
	}

	var out []ranked
	for i, act := range actionCatalog {
		current := e.effective(subs, act.dimension)
		if current >= act.completeAt {
			continue
		}
		impact := e.Impact(act.dimension, current, act.target)
		if impact == 0 {
			continue
		}
		out = append(out, ranked{
			order: i,
			item: ActionableItem{
				Name:          act.name,
				Status:        StatusIncomplete,
				Priority:      act.priority,
				Impact:        impact,
				Description:   act.description,
				EstimatedTime: act.estimatedTime,
				Link:          act.link,
			},
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].item, out[j].item
		if a.Priority.rank() != b.Priority.rank() {
			return a.Priority.rank() < b.Priority.rank()
		}
		if a.Impact != b.Impact {
			return a.Impact > b.Impact
		}
		return out[i].order < out[j].order
	})

	items := make([]ActionableItem, 0, len(out))
	for _, r := range out {
		items = append(items, r.item)
	}
	return items
}
