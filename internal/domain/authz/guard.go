// Package authz implements the tenant authorization guard: a pure,
// side-effect-free rule set evaluated in the application layer before any
// persistent change. Keeping the rules as compiled Go rather than embedded
// per-row database predicates makes them unit-testable independent of the
// storage engine.
package authz

import (
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Resource describes the scoping attributes of the entity an action targets.
// Callers build it from the aggregate under consideration; the guard never
// loads anything itself.
type Resource struct {
	TenantID   uuid.UUID
	LocationID *uuid.UUID // owning branch/warehouse, nil if not location-scoped
	CreatedBy  *uuid.UUID // creating actor, nil if unknown
	DeletedAt  *time.Time // soft-delete marker
}

// Guard evaluates authorization decisions. It holds no state and has no side
// effects; a zero Guard is ready to use.
type Guard struct{}

// NewGuard creates a new Guard
func NewGuard() *Guard {
	return &Guard{}
}

// Authorize decides whether the actor may perform the action on the resource.
// It returns nil to allow, shared.ErrTenantMismatch for a cross-tenant
// attempt, and shared.ErrAuthorizationDenied for everything else. Missing or
// ambiguous scoping information always denies.
func (g *Guard) Authorize(actor Actor, resource Resource, action Action) error {
	if !actor.Active {
		return shared.ErrAuthorizationDenied
	}
	if actor.ID == uuid.Nil || actor.TenantID == uuid.Nil || !actor.Role.IsValid() {
		return shared.ErrAuthorizationDenied
	}
	if !action.IsValid() {
		return shared.ErrAuthorizationDenied
	}
	if resource.TenantID == uuid.Nil {
		return shared.ErrAuthorizationDenied
	}

	// Tenant isolation is a hard requirement, never overridable by tier.
	if resource.TenantID != actor.TenantID {
		return shared.ErrTenantMismatch
	}

	if resource.DeletedAt != nil {
		return g.authorizeDeleted(actor, action)
	}

	if actor.Role.AtLeast(RoleOwner) {
		return nil
	}

	// Lower tiers act only on what they created or what belongs to their
	// assigned location.
	if resource.CreatedBy != nil && *resource.CreatedBy == actor.ID {
		return nil
	}
	if resource.LocationID != nil && actor.LocationID != nil && *resource.LocationID == *actor.LocationID {
		return nil
	}

	return shared.ErrAuthorizationDenied
}

// authorizeDeleted applies the soft-delete visibility rules: only the top
// tier sees soft-deleted resources at all, and even the top tier may only
// restore or purge them.
func (g *Guard) authorizeDeleted(actor Actor, action Action) error {
	if !actor.Role.AtLeast(RoleOwner) {
		return shared.ErrAuthorizationDenied
	}
	switch action {
	case ActionRead, ActionRestore, ActionPurge:
		return nil
	}
	return shared.ErrAuthorizationDenied
}
