package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sfa/backend/internal/domain/catalog"
	"github.com/sfa/backend/internal/domain/inventory"
	"github.com/sfa/backend/internal/domain/shared"
)

// InventoryService handles stock queries and receiving
type InventoryService struct {
	stockItems  inventory.StockItemRepository
	batchLots   inventory.BatchLotRepository
	serials     inventory.SerialNumberRepository
	movements   inventory.StockMovementRepository
	productRepo catalog.ProductRepository
	ledger      *inventory.Ledger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	stockItems inventory.StockItemRepository,
	batchLots inventory.BatchLotRepository,
	serials inventory.SerialNumberRepository,
	movements inventory.StockMovementRepository,
	productRepo catalog.ProductRepository,
) *InventoryService {
	return &InventoryService{
		stockItems:  stockItems,
		batchLots:   batchLots,
		serials:     serials,
		movements:   movements,
		productRepo: productRepo,
		ledger:      inventory.NewLedger(stockItems, batchLots, serials, movements),
	}
}

// Receive books incoming stock using the product's tracking strategy
func (s *InventoryService) Receive(ctx context.Context, req ReceiveStockRequest) error {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return err
	}
	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity is not a valid decimal")
	}

	return s.ledger.Receive(ctx, inventory.ReceiveRequest{
		ProductID:   req.ProductID,
		DepotID:     req.DepotID,
		Quantity:    quantity,
		Tracking:    product.Tracking,
		BatchNumber: req.BatchNumber,
		ExpiryDate:  req.ExpiryDate,
		Serials:     req.Serials,
		ActorID:     req.ActorID,
		Remark:      req.Remark,
	})
}

// ListStock retrieves stock balances with filtering and pagination
func (s *InventoryService) ListStock(ctx context.Context, filter StockListFilter) ([]StockItemResponse, int64, error) {
	domainFilter := buildFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.DepotID != nil {
		domainFilter.Filters["depot_id"] = *filter.DepotID
	}

	items, err := s.stockItems.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.stockItems.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]StockItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, ToStockItemResponse(item))
	}
	return responses, total, nil
}

// ListMovements retrieves movement history with filtering and pagination
func (s *InventoryService) ListMovements(ctx context.Context, filter MovementListFilter) ([]StockMovementResponse, int64, error) {
	domainFilter := buildFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)
	if domainFilter.OrderBy == "created_at" {
		domainFilter.OrderBy = "occurred_at"
	}
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.DepotID != nil {
		domainFilter.Filters["depot_id"] = *filter.DepotID
	}
	if filter.MovementType != nil {
		domainFilter.Filters["movement_type"] = *filter.MovementType
	}

	movements, err := s.movements.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.movements.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		responses = append(responses, ToStockMovementResponse(m))
	}
	return responses, total, nil
}

// ListBatchLots retrieves the batch lots of a product at a depot
func (s *InventoryService) ListBatchLots(ctx context.Context, productID, depotID uuid.UUID) ([]BatchLotResponse, error) {
	lots, err := s.batchLots.FindByProductAndDepot(ctx, productID, depotID)
	if err != nil {
		return nil, err
	}
	responses := make([]BatchLotResponse, 0, len(lots))
	for _, lot := range lots {
		responses = append(responses, ToBatchLotResponse(lot))
	}
	return responses, nil
}

// ListAvailableSerials retrieves the sellable serial units of a product at a depot
func (s *InventoryService) ListAvailableSerials(ctx context.Context, productID, depotID uuid.UUID) ([]SerialNumberResponse, error) {
	units, err := s.serials.FindAvailable(ctx, productID, depotID)
	if err != nil {
		return nil, err
	}
	responses := make([]SerialNumberResponse, 0, len(units))
	for _, u := range units {
		responses = append(responses, ToSerialNumberResponse(u))
	}
	return responses, nil
}

func buildFilter(page, pageSize int, orderBy, orderDir string) shared.Filter {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if orderBy == "" {
		orderBy = "created_at"
	}
	if orderDir == "" {
		orderDir = "desc"
	}
	return shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  orderBy,
		OrderDir: orderDir,
		Filters:  make(map[string]interface{}),
	}
}
