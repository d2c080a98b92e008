package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/partner"
	"github.com/sfa/backend/internal/domain/shared"
)

// CustomerService handles customer business operations
type CustomerService struct {
	customerRepo   partner.CustomerRepository
	eventPublisher shared.EventPublisher
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *CustomerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	exists, err := s.customerRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists
	}

	channel := partner.SalesChannel(req.Channel)
	customer, err := partner.NewCustomer(req.Code, req.Name, channel)
	if err != nil {
		return nil, err
	}

	if err := customer.SetClassification(req.CategoryID, req.TypeID, channel); err != nil {
		return nil, err
	}
	customer.AssignTerritory(req.DepotID, req.ZoneID, req.RouteID)
	if req.SalespersonID != nil {
		if err := customer.AssignSalesperson(*req.SalespersonID); err != nil {
			return nil, err
		}
	}
	customer.SetContact(req.ContactName, req.Phone)
	customer.SetAddress(req.Address)
	customer.SetNotes(req.Notes)

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, customer)

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// GetByCode retrieves a customer by its unique code
func (s *CustomerService) GetByCode(ctx context.Context, code string) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Update updates a customer's mutable fields
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := customer.Update(req.Name); err != nil {
		return nil, err
	}
	if err := customer.SetClassification(req.CategoryID, req.TypeID, partner.SalesChannel(req.Channel)); err != nil {
		return nil, err
	}
	customer.AssignTerritory(req.DepotID, req.ZoneID, req.RouteID)
	if req.SalespersonID != nil {
		if err := customer.AssignSalesperson(*req.SalespersonID); err != nil {
			return nil, err
		}
	}
	customer.SetContact(req.ContactName, req.Phone)
	customer.SetAddress(req.Address)
	customer.SetNotes(req.Notes)

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// List retrieves customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = *filter.Status
	}
	if filter.Channel != nil {
		domainFilter.Filters["channel"] = *filter.Channel
	}
	if filter.DepotID != nil {
		domainFilter.Filters["depot_id"] = *filter.DepotID
	}
	if filter.ZoneID != nil {
		domainFilter.Filters["zone_id"] = *filter.ZoneID
	}
	if filter.SalespersonID != nil {
		domainFilter.Filters["salesperson_id"] = *filter.SalespersonID
	}

	customers, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, ToCustomerResponse(&customers[i]))
	}
	return responses, total, nil
}

// CountByStatus returns customer counts grouped by status
func (s *CustomerService) CountByStatus(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, 3)
	for _, status := range []partner.CustomerStatus{
		partner.CustomerStatusActive,
		partner.CustomerStatusInactive,
		partner.CustomerStatusSuspended,
	} {
		count, err := s.customerRepo.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		counts[string(status)] = count
	}
	return counts, nil
}

// Activate reinstates a customer
func (s *CustomerService) Activate(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	customer.Activate()
	return s.customerRepo.Save(ctx, customer)
}

// Deactivate disables a customer
func (s *CustomerService) Deactivate(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	customer.Deactivate()
	return s.customerRepo.Save(ctx, customer)
}

// Suspend blocks a customer from ordering
func (s *CustomerService) Suspend(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	customer.Suspend()
	return s.customerRepo.Save(ctx, customer)
}

// Delete removes a customer
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.customerRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, id)
}

func (s *CustomerService) publishEvents(ctx context.Context, customer *partner.Customer) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range customer.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	customer.ClearDomainEvents()
}
