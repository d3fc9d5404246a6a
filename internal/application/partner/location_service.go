package partner

import (
	"context"
	"errors"

	"github.com/bizops/backend/internal/domain/authz"
	"github.com/bizops/backend/internal/domain/partner"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LocationService manages the stores, warehouses, and branches inventory
// balances are keyed on.
type LocationService struct {
	scope TransactionScope
	guard *authz.Guard
}

// NewLocationService creates a new LocationService
func NewLocationService(scope TransactionScope) *LocationService {
	return &LocationService{
		scope: scope,
		guard: authz.NewGuard(),
	}
}

func (s *LocationService) targetTenant(actor authz.Actor, requested uuid.UUID) uuid.UUID {
	if requested != uuid.Nil {
		return requested
	}
	return actor.TenantID
}

// CreateLocation registers a location. The code is unique per tenant.
func (s *LocationService) CreateLocation(ctx context.Context, actor authz.Actor, req CreateLocationRequest) (*LocationResponse, error) {
	tenantID := s.targetTenant(actor, req.TenantID)
	if err := s.guard.Authorize(actor, authz.Resource{TenantID: tenantID}, authz.ActionCreate); err != nil {
		return nil, err
	}

	location, err := partner.NewLocation(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if req.Address != "" {
		if err := location.Update(location.Name, req.Address); err != nil {
			return nil, err
		}
	}
	if req.IsDefault {
		location.SetDefault(true)
	}
	location.CreatedBy = &actor.ID

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		_, err := repos.LocationRepo().FindByCode(ctx, tenantID, location.Code)
		if err == nil {
			return shared.ErrAlreadyExists
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		return repos.LocationRepo().Create(ctx, location)
	})
	if err != nil {
		return nil, err
	}

	response := ToLocationResponse(location)
	return &response, nil
}

// GetLocation retrieves a location by ID
func (s *LocationService) GetLocation(ctx context.Context, actor authz.Actor, tenantID, id uuid.UUID) (*LocationResponse, error) {
	tenantID = s.targetTenant(actor, tenantID)

	var response *LocationResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		location, err := repos.LocationRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}

		resource := authz.Resource{
			TenantID:   location.TenantID,
			LocationID: &location.ID,
			CreatedBy:  location.CreatedBy,
			DeletedAt:  location.DeletedAt,
		}
		if err := s.guard.Authorize(actor, resource, authz.ActionRead); err != nil {
			return err
		}

		resp := ToLocationResponse(location)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// ListLocations lists locations for a tenant
func (s *LocationService) ListLocations(ctx context.Context, actor authz.Actor, tenantID uuid.UUID, filter shared.Filter) ([]LocationResponse, int64, error) {
	tenantID = s.targetTenant(actor, tenantID)
	if err := s.guard.Authorize(actor, authz.Resource{TenantID: tenantID}, authz.ActionRead); err != nil {
		return nil, 0, err
	}

	var (
		items []partner.Location
		total int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		items, total, err = repos.LocationRepo().ListForTenant(ctx, tenantID, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return ToLocationResponses(items), total, nil
}
