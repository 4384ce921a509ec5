package models

import (
	"time"

	"github.com/google/uuid"
)

// SubScoreKey names one weighted dimension of a tenant score.
type SubScoreKey string

// Sub-score dimensions. The JSON names match the client contract.
const (
	PaymentHistory       SubScoreKey = "paymentHistory"
	CreditScore          SubScoreKey = "creditScore"
	IncomeStability      SubScoreKey = "incomeStability"
	RentalHistory        SubScoreKey = "rentalHistory"
	EmploymentStability  SubScoreKey = "employmentStability"
	IdentityVerification SubScoreKey = "identityVerification"
	References           SubScoreKey = "references"
	ApplicationQuality   SubScoreKey = "applicationQuality"
	Promptness           SubScoreKey = "promptness"
	EvictionHistory      SubScoreKey = "evictionHistory"
	CriminalCheck        SubScoreKey = "criminalCheck"
)

// SubScoreKeys lists every dimension in weight-table order. Anything that
// needs a deterministic tie-break between dimensions iterates this slice.
var SubScoreKeys = []SubScoreKey{
	PaymentHistory,
	CreditScore,
	IncomeStability,
	RentalHistory,
	EmploymentStability,
	IdentityVerification,
	References,
	ApplicationQuality,
	Promptness,
	EvictionHistory,
	CriminalCheck,
}

// SubScores holds the individually settable components of a tenant score.
// A nil field has not been assessed yet.
type SubScores struct {
	PaymentHistory       *int `json:"paymentHistory"`
	CreditScore          *int `json:"creditScore"`
	IncomeStability      *int `json:"incomeStability"`
	RentalHistory        *int `json:"rentalHistory"`
	EmploymentStability  *int `json:"employmentStability"`
	IdentityVerification *int `json:"identityVerification"`
	References           *int `json:"references"`
	ApplicationQuality   *int `json:"applicationQuality"`
	Promptness           *int `json:"promptness"`
	EvictionHistory      *int `json:"evictionHistory"`
	CriminalCheck        *int `json:"criminalCheck"`
}

// field returns a pointer to the struct field backing key, or nil for an
// unknown key.
func (s *SubScores) field(key SubScoreKey) **int {
	switch key {
	case PaymentHistory:
		return &s.PaymentHistory
	case CreditScore:
		return &s.CreditScore
	case IncomeStability:
		return &s.IncomeStability
	case RentalHistory:
		return &s.RentalHistory
	case EmploymentStability:
		return &s.EmploymentStability
	case IdentityVerification:
		return &s.IdentityVerification
	case References:
		return &s.References
	case ApplicationQuality:
		return &s.ApplicationQuality
	case Promptness:
		return &s.Promptness
	case EvictionHistory:
		return &s.EvictionHistory
	case CriminalCheck:
		return &s.CriminalCheck
	}
	return nil
}

// Get returns the value for key, or nil when absent or unknown.
func (s SubScores) Get(key SubScoreKey) *int {
	f := s.field(key)
	if f == nil {
		return nil
	}
	return *f
}

// Set stores a copy of v under key. Unknown keys are ignored.
func (s *SubScores) Set(key SubScoreKey, v *int) {
	f := s.field(key)
	if f == nil {
		return
	}
	if v == nil {
		*f = nil
		return
	}
	val := *v
	*f = &val
}

// Merge returns a copy of s with every non-nil field of patch applied.
func (s SubScores) Merge(patch SubScores) SubScores {
	out := s
	for _, key := range SubScoreKeys {
		if v := patch.Get(key); v != nil {
			out.Set(key, v)
		}
	}
	return out
}

// IsKnownSubScore reports whether key names a dimension.
func IsKnownSubScore(key SubScoreKey) bool {
	var s SubScores
	return s.field(key) != nil
}

// TenantScore is one persisted version of a tenant's score. At most one
// row per tenant is active; superseded rows are archived, never deleted.
type TenantScore struct {
	CreatedAt  time.Time  `json:"createdAt"`
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`
	TenantID   string     `json:"tenantId"`
	SubScores
	Overall int       `json:"overall"`
	ID      uuid.UUID `json:"id"`
	Active  bool      `json:"active"`
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
