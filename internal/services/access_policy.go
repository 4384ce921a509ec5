package services

import (
	"context"
	"fmt"

	"github.com/rentr/api/internal/logger"
	"github.com/rentr/api/internal/models"
	"github.com/rentr/api/internal/repository"
)

// AccessPolicy decides which tenants a caller may see or rescore.
type AccessPolicy interface {
	// CanViewTenant returns nil when viewer may read tenantID's score data.
	// Admins see everyone, tenants see themselves, and landlords see tenants
	// who applied to one of their properties. Returns ErrForbidden otherwise.
	CanViewTenant(ctx context.Context, viewer models.Viewer, tenantID string) error

	// CanUpdateTenant returns nil when viewer may replace tenantID's
	// sub-scores. Tenants never may; landlords need an application link.
	CanUpdateTenant(ctx context.Context, viewer models.Viewer, tenantID string) error
}

type accessPolicy struct {
	applications repository.ApplicationRepository
	log          *logger.Logger
}

// NewAccessPolicy creates a new instance of AccessPolicy.
func NewAccessPolicy(applications repository.ApplicationRepository, log *logger.Logger) AccessPolicy {
	return &accessPolicy{
		applications: applications,
		log:          log,
	}
}

func (p *accessPolicy) CanViewTenant(ctx context.Context, viewer models.Viewer, tenantID string) error {
	switch viewer.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleTenant:
		if viewer.UserID == tenantID {
			return nil
		}
		return p.deny(viewer, tenantID)
	case models.RoleLandlord:
		return p.landlordLink(ctx, viewer, tenantID)
	default:
		return p.deny(viewer, tenantID)
	}
}

func (p *accessPolicy) CanUpdateTenant(ctx context.Context, viewer models.Viewer, tenantID string) error {
	switch viewer.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleLandlord:
		return p.landlordLink(ctx, viewer, tenantID)
	default:
		return p.deny(viewer, tenantID)
	}
}

func (p *accessPolicy) landlordLink(ctx context.Context, viewer models.Viewer, tenantID string) error {
	ok, err := p.applications.ExistsForLandlord(ctx, tenantID, viewer.UserID)
	if err != nil {
		return fmt.Errorf("failed to check landlord access: %w", err)
	}
	if !ok {
		return p.deny(viewer, tenantID)
	}
	return nil
}

func (p *accessPolicy) deny(viewer models.Viewer, tenantID string) error {
	p.log.Warn("Tenant access denied", map[string]interface{}{
		"user_id":   viewer.UserID,
		"role":      string(viewer.Role),
		"tenant_id": tenantID,
	})
	return ErrForbidden
}
