package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/partner"
	"github.com/sfa/backend/internal/domain/shared"
)

// ZoneService handles sales zone business operations
type ZoneService struct {
	zoneRepo  partner.ZoneRepository
	depotRepo partner.DepotRepository
}

// NewZoneService creates a new ZoneService
func NewZoneService(zoneRepo partner.ZoneRepository, depotRepo partner.DepotRepository) *ZoneService {
	return &ZoneService{zoneRepo: zoneRepo, depotRepo: depotRepo}
}

// Create creates a new zone under a depot
func (s *ZoneService) Create(ctx context.Context, req CreateZoneRequest) (*ZoneResponse, error) {
	exists, err := s.zoneRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists
	}
	if _, err := s.depotRepo.FindByID(ctx, req.DepotID); err != nil {
		return nil, err
	}

	zone, err := partner.NewZone(req.Code, req.Name, req.DepotID)
	if err != nil {
		return nil, err
	}
	if err := s.zoneRepo.Save(ctx, zone); err != nil {
		return nil, err
	}

	resp := ToZoneResponse(zone)
	return &resp, nil
}

// GetByID retrieves a zone by ID
func (s *ZoneService) GetByID(ctx context.Context, id uuid.UUID) (*ZoneResponse, error) {
	zone, err := s.zoneRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToZoneResponse(zone)
	return &resp, nil
}

// Update updates a zone, optionally moving it to another depot
func (s *ZoneService) Update(ctx context.Context, id uuid.UUID, req UpdateZoneRequest) (*ZoneResponse, error) {
	zone, err := s.zoneRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := zone.Update(req.Name); err != nil {
		return nil, err
	}
	if req.DepotID != nil && *req.DepotID != zone.DepotID {
		if _, err := s.depotRepo.FindByID(ctx, *req.DepotID); err != nil {
			return nil, err
		}
		if err := zone.Reassign(*req.DepotID); err != nil {
			return nil, err
		}
	}
	if err := s.zoneRepo.Save(ctx, zone); err != nil {
		return nil, err
	}
	resp := ToZoneResponse(zone)
	return &resp, nil
}

// List retrieves zones with filtering and pagination
func (s *ZoneService) List(ctx context.Context, filter shared.Filter) ([]ZoneResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	zones, err := s.zoneRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.zoneRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ZoneResponse, 0, len(zones))
	for i := range zones {
		responses = append(responses, ToZoneResponse(&zones[i]))
	}
	return responses, total, nil
}

// ListByDepot retrieves zones belonging to a depot
func (s *ZoneService) ListByDepot(ctx context.Context, depotID uuid.UUID, filter shared.Filter) ([]ZoneResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	zones, err := s.zoneRepo.FindByDepot(ctx, depotID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ZoneResponse, 0, len(zones))
	for i := range zones {
		responses = append(responses, ToZoneResponse(&zones[i]))
	}
	return responses, nil
}

// Activate enables a zone
func (s *ZoneService) Activate(ctx context.Context, id uuid.UUID) error {
	zone, err := s.zoneRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	zone.Activate()
	return s.zoneRepo.Save(ctx, zone)
}

// Deactivate disables a zone
func (s *ZoneService) Deactivate(ctx context.Context, id uuid.UUID) error {
	zone, err := s.zoneRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	zone.Deactivate()
	return s.zoneRepo.Save(ctx, zone)
}

// Delete removes a zone
func (s *ZoneService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.zoneRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.zoneRepo.Delete(ctx, id)
}
