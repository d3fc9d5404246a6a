package partner

import (
	"context"
	"errors"

	"github.com/bizops/backend/internal/domain/authz"
	"github.com/bizops/backend/internal/domain/partner"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerService manages the customer master data the receivables engine
// allocates against. A customer row must exist before payments can settle or
// surplus credit can accrue.
type CustomerService struct {
	scope          TransactionScope
	guard          *authz.Guard
	eventPublisher shared.EventPublisher
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(scope TransactionScope) *CustomerService {
	return &CustomerService{
		scope: scope,
		guard: authz.NewGuard(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CustomerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *CustomerService) publishDomainEvents(ctx context.Context, c *partner.Customer) {
	if s.eventPublisher == nil || c == nil {
		return
	}
	events := c.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	c.ClearDomainEvents()
}

func (s *CustomerService) targetTenant(actor authz.Actor, requested uuid.UUID) uuid.UUID {
	if requested != uuid.Nil {
		return requested
	}
	return actor.TenantID
}

// CreateCustomer registers a customer. The code is unique per tenant; a
// duplicate surfaces as ALREADY_EXISTS whether caught up front or at the
// constraint.
func (s *CustomerService) CreateCustomer(ctx context.Context, actor authz.Actor, req CreateCustomerRequest) (*CustomerResponse, error) {
	tenantID := s.targetTenant(actor, req.TenantID)
	if err := s.guard.Authorize(actor, authz.Resource{TenantID: tenantID}, authz.ActionCreate); err != nil {
		return nil, err
	}

	customer, err := partner.NewCustomer(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if req.ContactName != "" || req.Phone != "" || req.Email != "" {
		if err := customer.SetContact(req.ContactName, req.Phone, req.Email); err != nil {
			return nil, err
		}
	}
	customer.Notes = req.Notes
	customer.CreatedBy = &actor.ID

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		_, err := repos.CustomerRepo().FindByCode(ctx, tenantID, customer.Code)
		if err == nil {
			return shared.ErrAlreadyExists
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		return repos.CustomerRepo().Create(ctx, customer)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, customer)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, actor authz.Actor, tenantID, id uuid.UUID) (*CustomerResponse, error) {
	tenantID = s.targetTenant(actor, tenantID)

	var response *CustomerResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		customer, err := repos.CustomerRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}

		resource := authz.Resource{TenantID: customer.TenantID, CreatedBy: customer.CreatedBy, DeletedAt: customer.DeletedAt}
		if err := s.guard.Authorize(actor, resource, authz.ActionRead); err != nil {
			return err
		}

		resp := ToCustomerResponse(customer)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// ListCustomers lists customers for a tenant with filtering
func (s *CustomerService) ListCustomers(ctx context.Context, actor authz.Actor, tenantID uuid.UUID, filter shared.Filter) ([]CustomerResponse, int64, error) {
	tenantID = s.targetTenant(actor, tenantID)
	if err := s.guard.Authorize(actor, authz.Resource{TenantID: tenantID}, authz.ActionRead); err != nil {
		return nil, 0, err
	}

	var (
		items []partner.Customer
		total int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		items, total, err = repos.CustomerRepo().ListForTenant(ctx, tenantID, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return ToCustomerResponses(items), total, nil
}

// CreditHistory returns the customer's credit ledger, newest first
func (s *CustomerService) CreditHistory(ctx context.Context, actor authz.Actor, tenantID, customerID uuid.UUID, filter shared.Filter) ([]CreditEntryResponse, int64, error) {
	tenantID = s.targetTenant(actor, tenantID)

	var (
		items []partner.BalanceTransaction
		total int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		customer, err := repos.CustomerRepo().FindByIDForTenant(ctx, tenantID, customerID)
		if err != nil {
			return err
		}

		resource := authz.Resource{TenantID: customer.TenantID, CreatedBy: customer.CreatedBy, DeletedAt: customer.DeletedAt}
		if err := s.guard.Authorize(actor, resource, authz.ActionRead); err != nil {
			return err
		}

		items, total, err = repos.BalanceTxRepo().ListByCustomer(ctx, tenantID, customerID, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return ToCreditEntryResponses(items), total, nil
}
