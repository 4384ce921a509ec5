package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/rentr/api/internal/database"
	"github.com/rentr/api/internal/models"
)

// PreferenceRepository reads stored tenant search preferences.
type PreferenceRepository interface {
	// FindByTenant returns the tenant's stored preferences.
	// Returns nil, nil if the tenant never saved any.
	FindByTenant(ctx context.Context, tenantID string) (*models.TenantPreferences, error)
}

type preferenceRepository struct {
	db *database.Database
}

// NewPreferenceRepository creates a new instance of PreferenceRepository.
func NewPreferenceRepository(db *database.Database) PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) FindByTenant(ctx context.Context, tenantID string) (*models.TenantPreferences, error) {
	query := `
		SELECT
			tenant_id,
			budget_cents,
			city,
			region,
			amenities,
			min_bedrooms,
			min_area_sqft,
			move_in_date
		FROM tenant_preferences
		WHERE tenant_id = $1
	`

	var p models.TenantPreferences
	err := r.db.Pool.QueryRow(ctx, query, tenantID).Scan(
		&p.TenantID,
		&p.BudgetCents,
		&p.City,
		&p.Region,
		&p.Amenities,
		&p.MinBedrooms,
		&p.MinAreaSqft,
		&p.MoveInDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "preference repository: find preferences for tenant %s", tenantID)
	}
	return &p, nil
}
