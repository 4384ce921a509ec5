package repository

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/rentr/api/internal/database"
	"github.com/rentr/api/internal/models"
)

// PropertyRepository reads the property catalog owned by the listings service.
type PropertyRepository interface {
	// ListAvailable returns up to limit properties with status "available",
	// ordered by id. Returns an empty slice when none are available.
	ListAvailable(ctx context.Context, limit int) ([]models.Property, error)
}

type propertyRepository struct {
	db *database.Database
}

// NewPropertyRepository creates a new instance of PropertyRepository.
func NewPropertyRepository(db *database.Database) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) ListAvailable(ctx context.Context, limit int) ([]models.Property, error) {
	query := `
		SELECT
			id,
			landlord_id,
			title,
			price_cents,
			city,
			region,
			amenities,
			bedrooms,
			bathrooms,
			area_sqft,
			available_from,
			status,
			created_at
		FROM properties
		WHERE status = $1
		ORDER BY id
		LIMIT $2
	`

	rows, err := r.db.Pool.Query(ctx, query, models.PropertyStatusAvailable, limit)
	if err != nil {
		return nil, eris.Wrap(err, "property repository: query available properties")
	}
	defer rows.Close()

	properties := []models.Property{}
	for rows.Next() {
		var p models.Property
		if err := rows.Scan(
			&p.ID,
			&p.LandlordID,
			&p.Title,
			&p.PriceCents,
			&p.City,
			&p.Region,
			&p.Amenities,
			&p.Bedrooms,
			&p.Bathrooms,
			&p.AreaSqft,
			&p.AvailableFrom,
			&p.Status,
			&p.CreatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "property repository: scan property row")
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "property repository: iterate property rows")
	}

	return properties, nil
}
