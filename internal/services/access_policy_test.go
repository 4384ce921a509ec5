package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rentr/api/internal/logger"
	"github.com/rentr/api/internal/models"
)

func TestAccessPolicy_CanViewTenant(t *testing.T) {
	tests := []struct {
		name      string
		viewer    models.Viewer
		tenantID  string
		linked    *bool
		wantError error
	}{
		{
			name:     "admin sees anyone",
			viewer:   models.Viewer{UserID: "admin-1", Role: models.RoleAdmin},
			tenantID: "tenant-1",
		},
		{
			name:     "tenant sees self",
			viewer:   models.Viewer{UserID: "tenant-1", Role: models.RoleTenant},
			tenantID: "tenant-1",
		},
		{
			name:      "tenant cannot see others",
			viewer:    models.Viewer{UserID: "tenant-2", Role: models.RoleTenant},
			tenantID:  "tenant-1",
			wantError: ErrForbidden,
		},
		{
			name:     "landlord with application",
			viewer:   models.Viewer{UserID: "landlord-1", Role: models.RoleLandlord},
			tenantID: "tenant-1",
			linked:   boolPtr(true),
		},
		{
			name:      "landlord without application",
			viewer:    models.Viewer{UserID: "landlord-1", Role: models.RoleLandlord},
			tenantID:  "tenant-1",
			linked:    boolPtr(false),
			wantError: ErrForbidden,
		},
		{
			name:      "unknown role",
			viewer:    models.Viewer{UserID: "x", Role: "guest"},
			tenantID:  "tenant-1",
			wantError: ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apps := new(MockApplicationRepository)
			if tt.linked != nil {
				apps.On("ExistsForLandlord", mock.Anything, tt.tenantID, tt.viewer.UserID).Return(*tt.linked, nil)
			}
			policy := NewAccessPolicy(apps, logger.New("test"))

			err := policy.CanViewTenant(context.Background(), tt.viewer, tt.tenantID)

			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
			} else {
				assert.NoError(t, err)
			}
			apps.AssertExpectations(t)
		})
	}
}

func TestAccessPolicy_CanUpdateTenant(t *testing.T) {
	apps := new(MockApplicationRepository)
	apps.On("ExistsForLandlord", mock.Anything, "tenant-1", "landlord-1").Return(true, nil)
	policy := NewAccessPolicy(apps, logger.New("test"))
	ctx := context.Background()

	assert.NoError(t, policy.CanUpdateTenant(ctx, models.Viewer{UserID: "admin-1", Role: models.RoleAdmin}, "tenant-1"))
	assert.NoError(t, policy.CanUpdateTenant(ctx, models.Viewer{UserID: "landlord-1", Role: models.RoleLandlord}, "tenant-1"))
	assert.ErrorIs(t,
		policy.CanUpdateTenant(ctx, models.Viewer{UserID: "tenant-1", Role: models.RoleTenant}, "tenant-1"),
		ErrForbidden)
}

func TestAccessPolicy_RepositoryError(t *testing.T) {
	apps := new(MockApplicationRepository)
	dbErr := errors.New("timeout")
	apps.On("ExistsForLandlord", mock.Anything, "tenant-1", "landlord-1").Return(false, dbErr)
	policy := NewAccessPolicy(apps, logger.New("test"))

	err := policy.CanViewTenant(context.Background(), models.Viewer{UserID: "landlord-1", Role: models.RoleLandlord}, "tenant-1")

	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrForbidden)
}

func boolPtr(v bool) *bool { return &v }
