package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/rentr/api/internal/database"
	"github.com/rentr/api/internal/models"
)

// ErrConflict is returned when a write loses the race for the single
// active score slot of a tenant.
var ErrConflict = errors.New("active tenant score already exists")

// ScoreRepository defines the data access operations for tenant scores.
type ScoreRepository interface {
	// FindActiveByTenant returns the tenant's active score.
	// Returns nil, nil if the tenant has no active score.
	FindActiveByTenant(ctx context.Context, tenantID string) (*models.TenantScore, error)

	// InsertActive stores score as the tenant's active score.
	// Returns ErrConflict if another active score already exists.
	InsertActive(ctx context.Context, score models.TenantScore) error

	// Supersede archives the active score identified by currentID and inserts
	// score in its place, atomically. Returns ErrConflict if currentID is no
	// longer the tenant's active score.
	Supersede(ctx context.Context, currentID uuid.UUID, score models.TenantScore) error
}

type scoreRepository struct {
	db *database.Database
}

// NewScoreRepository creates a new instance of ScoreRepository.
func NewScoreRepository(db *database.Database) ScoreRepository {
	return &scoreRepository{db: db}
}

const scoreColumns = `id, tenant_id,
	payment_history, credit_score, income_stability, rental_history,
	employment_stability, identity_verification, "references",
	application_quality, promptness, eviction_history, criminal_check,
	overall, active, created_at, archived_at`

const insertScoreSQL = `
	INSERT INTO tenant_scores (` + scoreColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	ON CONFLICT (tenant_id) WHERE active DO NOTHING`

func (r *scoreRepository) FindActiveByTenant(ctx context.Context, tenantID string) (*models.TenantScore, error) {
	query := `SELECT ` + scoreColumns + `
		FROM tenant_scores
		WHERE tenant_id = $1 AND active
		LIMIT 1`

	var s models.TenantScore
	err := r.db.Pool.QueryRow(ctx, query, tenantID).Scan(
		&s.ID,
		&s.TenantID,
		&s.PaymentHistory,
		&s.CreditScore,
		&s.IncomeStability,
		&s.RentalHistory,
		&s.EmploymentStability,
		&s.IdentityVerification,
		&s.References,
		&s.ApplicationQuality,
		&s.Promptness,
		&s.EvictionHistory,
		&s.CriminalCheck,
		&s.Overall,
		&s.Active,
		&s.CreatedAt,
		&s.ArchivedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "score repository: find active score for tenant %s", tenantID)
	}
	return &s, nil
}

func (r *scoreRepository) InsertActive(ctx context.Context, score models.TenantScore) error {
	tag, err := r.db.Pool.Exec(ctx, insertScoreSQL, insertArgs(score)...)
	if err != nil {
		return eris.Wrapf(err, "score repository: insert score for tenant %s", score.TenantID)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

func (r *scoreRepository) Supersede(ctx context.Context, currentID uuid.UUID, score models.TenantScore) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "score repository: begin supersede")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	archived, err := tx.Exec(ctx,
		`UPDATE tenant_scores SET active = FALSE, archived_at = $3
		 WHERE id = $1 AND tenant_id = $2 AND active`,
		currentID, score.TenantID, score.CreatedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "score repository: archive active score for tenant %s", score.TenantID)
	}
	// Someone else archived it after we read it.
	if archived.RowsAffected() == 0 {
		return ErrConflict
	}

	tag, err := tx.Exec(ctx, insertScoreSQL, insertArgs(score)...)
	if err != nil {
		return eris.Wrapf(err, "score repository: insert superseding score for tenant %s", score.TenantID)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "score repository: commit supersede")
	}
	return nil
}

func insertArgs(s models.TenantScore) []any {
	return []any{
		s.ID,
		s.TenantID,
		s.PaymentHistory,
		s.CreditScore,
		s.IncomeStability,
		s.RentalHistory,
		s.EmploymentStability,
		s.IdentityVerification,
		s.References,
		s.ApplicationQuality,
		s.Promptness,
		s.EvictionHistory,
		s.CriminalCheck,
		s.Overall,
		s.Active,
		s.CreatedAt,
		s.ArchivedAt,
	}
}
