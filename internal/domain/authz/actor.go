package authz

import "github.com/google/uuid"

// RoleTier is an ordered privilege tier. Higher values carry more privilege.
type RoleTier int

const (
	RoleStaff RoleTier = iota + 1
	RoleManager
	RoleOwner
)

// String returns the string representation of RoleTier
func (r RoleTier) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleManager:
		return "manager"
	case RoleStaff:
		return "staff"
	}
	return "unknown"
}

// IsValid returns true if the tier is a known privilege level
func (r RoleTier) IsValid() bool {
	return r == RoleStaff || r == RoleManager || r == RoleOwner
}

// AtLeast reports whether the tier carries at least the given privilege
func (r RoleTier) AtLeast(other RoleTier) bool {
	return r >= other
}

// ParseRoleTier maps a role claim string to a RoleTier. Unknown roles map to
// zero, which the guard denies.
func ParseRoleTier(s string) RoleTier {
	switch s {
	case "owner":
		return RoleOwner
	case "manager":
		return RoleManager
	case "staff":
		return RoleStaff
	}
	return 0
}

// Actor is an authenticated identity as supplied by the identity provider.
// It is never persisted by this core; every request carries a fresh copy.
type Actor struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	LocationID *uuid.UUID // assigned branch/warehouse, nil for tenant-wide actors
	Role       RoleTier
	Active     bool
}

// Action is an operation an actor attempts on a resource
type Action string

const (
	ActionRead    Action = "read"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionRestore Action = "restore"
	ActionPurge   Action = "purge"
)

// IsValid returns true if the action is recognized
func (a Action) IsValid() bool {
	switch a {
	case ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionRestore, ActionPurge:
		return true
	}
	return false
}
