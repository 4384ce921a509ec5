package models

import (
	"time"
)

// Property status values.
const (
	PropertyStatusAvailable = "available"
	PropertyStatusLeased    = "leased"
	PropertyStatusArchived  = "archived"
)

// Property is a rental listing owned by the listings subsystem.
// Nullable columns use pointers to distinguish unknown from zero.
type Property struct {
	CreatedAt     time.Time  `json:"createdAt"`
	AvailableFrom *time.Time `json:"availableFrom,omitempty"`
	AreaSqft      *int       `json:"areaSqft,omitempty"`
	ID            string     `json:"id"`
	LandlordID    string     `json:"landlordId"`
	Title         string     `json:"title"`
	City          string     `json:"city"`
	Region        string     `json:"region"`
	Status        string     `json:"status"`
	Amenities     []string   `json:"amenities"`
	PriceCents    int64      `json:"priceCents"`
	Bedrooms      int        `json:"bedrooms"`
	Bathrooms     int        `json:"bathrooms"`
}

// TenantPreferences captures what a tenant is looking for. Every field is
// optional; an unset field leaves the matching dimension neutral.
type TenantPreferences struct {
	BudgetCents *int64     `json:"budgetCents,omitempty" validate:"omitempty,gt=0"`
	MinBedrooms *int       `json:"minBedrooms,omitempty" validate:"omitempty,gte=0,lte=20"`
	MinAreaSqft *int       `json:"minAreaSqft,omitempty" validate:"omitempty,gte=0,lte=100000"`
	MoveInDate  *time.Time `json:"moveInDate,omitempty"`
	TenantID    string     `json:"tenantId"`
	City        string     `json:"city,omitempty" validate:"max=120"`
	Region      string     `json:"region,omitempty" validate:"max=120"`
	Amenities   []string   `json:"amenities,omitempty" validate:"max=50,dive,max=64"`
}

// Override returns a copy of p with every set field of o applied on top.
func (p TenantPreferences) Override(o TenantPreferences) TenantPreferences {
	out := p
	if o.BudgetCents != nil {
		out.BudgetCents = o.BudgetCents
	}
	if o.MinBedrooms != nil {
		out.MinBedrooms = o.MinBedrooms
	}
	if o.MinAreaSqft != nil {
		out.MinAreaSqft = o.MinAreaSqft
	}
	if o.MoveInDate != nil {
		out.MoveInDate = o.MoveInDate
	}
	if o.City != "" {
		out.City = o.City
	}
	if o.Region != "" {
		out.Region = o.Region
	}
	if len(o.Amenities) > 0 {
		out.Amenities = o.Amenities
	}
	return out
}
