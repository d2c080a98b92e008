package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/partner"
	"github.com/sfa/backend/internal/domain/shared"
)

// DepotService handles depot business operations
type DepotService struct {
	depotRepo partner.DepotRepository
	zoneRepo  partner.ZoneRepository
}

// NewDepotService creates a new DepotService
func NewDepotService(depotRepo partner.DepotRepository, zoneRepo partner.ZoneRepository) *DepotService {
	return &DepotService{depotRepo: depotRepo, zoneRepo: zoneRepo}
}

// Create creates a new depot
func (s *DepotService) Create(ctx context.Context, req CreateDepotRequest) (*DepotResponse, error) {
	exists, err := s.depotRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists
	}

	depot, err := partner.NewDepot(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if req.Address != "" || req.Phone != "" {
		if err := depot.Update(req.Name, req.Address, req.Phone); err != nil {
			return nil, err
		}
	}

	if err := s.depotRepo.Save(ctx, depot); err != nil {
		return nil, err
	}

	resp := ToDepotResponse(depot)
	return &resp, nil
}

// GetByID retrieves a depot by ID
func (s *DepotService) GetByID(ctx context.Context, id uuid.UUID) (*DepotResponse, error) {
	depot, err := s.depotRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToDepotResponse(depot)
	return &resp, nil
}

// Update updates a depot
func (s *DepotService) Update(ctx context.Context, id uuid.UUID, req UpdateDepotRequest) (*DepotResponse, error) {
	depot, err := s.depotRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := depot.Update(req.Name, req.Address, req.Phone); err != nil {
		return nil, err
	}
	if err := s.depotRepo.Save(ctx, depot); err != nil {
		return nil, err
	}
	resp := ToDepotResponse(depot)
	return &resp, nil
}

// List retrieves depots with filtering and pagination
func (s *DepotService) List(ctx context.Context, filter shared.Filter) ([]DepotResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	depots, err := s.depotRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.depotRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]DepotResponse, 0, len(depots))
	for i := range depots {
		responses = append(responses, ToDepotResponse(&depots[i]))
	}
	return responses, total, nil
}

// Enable reopens a depot
func (s *DepotService) Enable(ctx context.Context, id uuid.UUID) error {
	depot, err := s.depotRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	depot.Enable()
	return s.depotRepo.Save(ctx, depot)
}

// Disable closes a depot
func (s *DepotService) Disable(ctx context.Context, id uuid.UUID) error {
	depot, err := s.depotRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	depot.Disable()
	return s.depotRepo.Save(ctx, depot)
}

// Delete removes a depot that has no zones attached
func (s *DepotService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.depotRepo.FindByID(ctx, id); err != nil {
		return err
	}
	zones, err := s.zoneRepo.FindByDepot(ctx, id, shared.DefaultFilter())
	if err != nil {
		return err
	}
	if len(zones) > 0 {
		return shared.NewDomainError("DEPOT_IN_USE", "Depot still has zones assigned")
	}
	return s.depotRepo.Delete(ctx, id)
}
