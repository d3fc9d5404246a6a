package partner

import (
	"strings"
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LocationStatus represents the status of a location
type LocationStatus string

const (
	LocationStatusActive   LocationStatus = "active"
	LocationStatusInactive LocationStatus = "inactive"
)

// Location is a physical site of a tenant: a store, warehouse, or branch.
// Stock balances and staff/manager scoping hang off a location.
type Location struct {
	shared.TenantAggregateRoot
	Code      string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_location_tenant_code,priority:2"`
	Name      string         `gorm:"type:varchar(200);not null"`
	Address   string         `gorm:"type:text"`
	Status    LocationStatus `gorm:"type:varchar(20);not null;default:'active'"`
	IsDefault bool           `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "locations"
}

// NewLocation creates a new location
func NewLocation(tenantID uuid.UUID, code, name string) (*Location, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Location code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Location code cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Location name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Location name cannot exceed 200 characters")
	}

	return &Location{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Status:              LocationStatusActive,
	}, nil
}

// Update updates the location's basic information
func (l *Location) Update(name, address string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Location name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Location name cannot exceed 200 characters")
	}

	l.Name = name
	l.Address = address
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// SetDefault marks the location as the tenant default
func (l *Location) SetDefault(isDefault bool) {
	l.IsDefault = isDefault
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// Activate activates the location
func (l *Location) Activate() {
	l.Status = LocationStatusActive
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// Deactivate deactivates the location
func (l *Location) Deactivate() {
	l.Status = LocationStatusInactive
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// IsActive returns true if the location is active
func (l *Location) IsActive() bool {
	return l.Status == LocationStatusActive
}
