package authz

import (
	"testing"
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeActor(tenantID uuid.UUID, role RoleTier) Actor {
	return Actor{
		ID:       uuid.New(),
		TenantID: tenantID,
		Role:     role,
		Active:   true,
	}
}

func TestGuard_TenantIsolation(t *testing.T) {
	guard := NewGuard()
	tenantA := uuid.New()
	tenantB := uuid.New()

	tiers := []RoleTier{RoleStaff, RoleManager, RoleOwner}
	actions := []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionRestore, ActionPurge}

	for _, tier := range tiers {
		for _, action := range actions {
			t.Run(tier.String()+"_"+string(action), func(t *testing.T) {
				actor := activeActor(tenantA, tier)
				err := guard.Authorize(actor, Resource{TenantID: tenantB}, action)
				assert.ErrorIs(t, err, shared.ErrTenantMismatch)
			})
		}
	}
}

func TestGuard_DenyByDefault(t *testing.T) {
	guard := NewGuard()
	tenantID := uuid.New()

	t.Run("inactive actor denied", func(t *testing.T) {
		actor := activeActor(tenantID, RoleOwner)
		actor.Active = false
		err := guard.Authorize(actor, Resource{TenantID: tenantID}, ActionRead)
		assert.ErrorIs(t, err, shared.ErrAuthorizationDenied)
	})

	t.Run("missing actor tenant denied", func(t *testing.T) {
		actor := activeActor(tenantID, RoleOwner)
		actor.TenantID = uuid.Nil
		err := guard.Authorize(actor, Resource{TenantID: tenantID}, ActionRead)
		assert.ErrorIs(t, err, shared.ErrAuthorizationDenied)
	})

	t.Run("missing resource tenant denied", func(t *testing.T) {
		actor := activeActor(tenantID, RoleOwner)
		err := guard.Authorize(actor, Resource{}, ActionRead)
		assert.ErrorIs(t, err, shared.ErrAuthorizationDenied)
	})

	t.Run("unknown role denied", func(t *testing.T) {
		actor := activeActor(tenantID, RoleTier(0))
		err := guard.Authorize(actor, Resource{TenantID: tenantID}, ActionRead)
		assert.ErrorIs(t, err, shared.ErrAuthorizationDenied)
	})

	t.Run("unknown action denied", func(t *testing.T) {
		actor := activeActor(tenantID, RoleOwner)
		err := guard.Authorize(actor, Resource{TenantID: tenantID}, Action("drop_table"))
		assert.ErrorIs(t, err, shared.ErrAuthorizationDenied)
	})
}

func TestGuard_OwnerActsTenantWide(t *testing.T) {
	guard := NewGuard()
	tenantID := uuid.New()
	owner := activeActor(tenantID, RoleOwner)

	otherCreator := uuid.New()
	otherLocation := uuid.New()
	resource := Resource{
		TenantID:   tenantID,
		LocationID: &otherLocation,
		CreatedBy:  &otherCreator,
	}

	for _, action := range []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete} {
		assert.NoError(t, guard.Authorize(owner, resource, action), string(action))
	}
}

func TestGuard_LowerTierScoping(t *testing.T) {
	guard := NewGuard()
	tenantID := uuid.New()
	locationID := uuid.New()

	t.Run("creator may act on own resource", func(t *testing.T) {
		staff := activeActor(tenantID, RoleStaff)
		resource := Resource{TenantID: tenantID, CreatedBy: &staff.ID}
		assert.NoError(t, guard.Authorize(staff, resource, ActionUpdate))
	})

	t.Run("location match allows", func(t *testing.T) {
		staff := activeActor(tenantID, RoleStaff)
		staff.LocationID = &locationID
		resource := Resource{TenantID: tenantID, LocationID: &locationID}
		assert.NoError(t, guard.Authorize(staff, resource, ActionUpdate))
	})

	t.Run("no ownership and no location match denies", func(t *testing.T) {
		staff := activeActor(tenantID, RoleStaff)
		otherLocation := uuid.New()
		otherCreator := uuid.New()
		resource := Resource{TenantID: tenantID, LocationID: &otherLocation, CreatedBy: &otherCreator}
		err := guard.Authorize(staff, resource, ActionUpdate)
		assert.ErrorIs(t, err, shared.ErrAuthorizationDenied)
	})

	t.Run("actor without assigned location denied on location-scoped resource", func(t *testing.T) {
		manager := activeActor(tenantID, RoleManager)
		resource := Resource{TenantID: tenantID, LocationID: &locationID}
		err := guard.Authorize(manager, resource, ActionUpdate)
		assert.ErrorIs(t, err, shared.ErrAuthorizationDenied)
	})
}

func TestGuard_SoftDeleteVisibility(t *testing.T) {
	guard := NewGuard()
	tenantID := uuid.New()
	deletedAt := time.Now().Add(-time.Hour)

	resource := Resource{TenantID: tenantID, DeletedAt: &deletedAt}

	t.Run("invisible below top tier", func(t *testing.T) {
		for _, tier := range []RoleTier{RoleStaff, RoleManager} {
			actor := activeActor(tenantID, tier)
			err := guard.Authorize(actor, resource, ActionRead)
			assert.ErrorIs(t, err, shared.ErrAuthorizationDenied, tier.String())
		}
	})

	t.Run("owner may read restore purge", func(t *testing.T) {
		owner := activeActor(tenantID, RoleOwner)
		for _, action := range []Action{ActionRead, ActionRestore, ActionPurge} {
			assert.NoError(t, guard.Authorize(owner, resource, action), string(action))
		}
	})

	t.Run("owner may not mutate a soft-deleted resource", func(t *testing.T) {
		owner := activeActor(tenantID, RoleOwner)
		for _, action := range []Action{ActionCreate, ActionUpdate, ActionDelete} {
			err := guard.Authorize(owner, resource, action)
			assert.ErrorIs(t, err, shared.ErrAuthorizationDenied, string(action))
		}
	})

	t.Run("cross-tenant beats soft-delete rules", func(t *testing.T) {
		owner := activeActor(uuid.New(), RoleOwner)
		err := guard.Authorize(owner, resource, ActionRestore)
		assert.ErrorIs(t, err, shared.ErrTenantMismatch)
	})
}

func TestParseRoleTier(t *testing.T) {
	tests := []struct {
		claim string
		tier  RoleTier
	}{
		{"owner", RoleOwner},
		{"manager", RoleManager},
		{"staff", RoleStaff},
		{"superuser", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.claim, func(t *testing.T) {
			assert.Equal(t, tt.tier, ParseRoleTier(tt.claim))
		})
	}
}

func TestRoleTier_Ordering(t *testing.T) {
	require.True(t, RoleOwner.AtLeast(RoleManager))
	require.True(t, RoleManager.AtLeast(RoleStaff))
	require.False(t, RoleStaff.AtLeast(RoleManager))
	require.True(t, RoleStaff.AtLeast(RoleStaff))
}
