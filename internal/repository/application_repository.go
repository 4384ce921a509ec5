package repository

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/rentr/api/internal/database"
)

// ApplicationRepository answers questions about rental applications, which
// decide what a landlord is allowed to see about a tenant.
type ApplicationRepository interface {
	// ExistsForLandlord reports whether tenantID has applied to any property
	// owned by landlordID.
	ExistsForLandlord(ctx context.Context, tenantID, landlordID string) (bool, error)
}

type applicationRepository struct {
	db *database.Database
}

// NewApplicationRepository creates a new instance of ApplicationRepository.
func NewApplicationRepository(db *database.Database) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) ExistsForLandlord(ctx context.Context, tenantID, landlordID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM applications a
			JOIN properties p ON p.id = a.property_id
			WHERE a.tenant_id = $1 AND p.landlord_id = $2
		)
	`

	var exists bool
	if err := r.db.Pool.QueryRow(ctx, query, tenantID, landlordID).Scan(&exists); err != nil {
		return false, eris.Wrapf(err, "application repository: check tenant %s for landlord %s", tenantID, landlordID)
	}
	return exists, nil
}
