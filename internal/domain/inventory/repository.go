package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/shared"
)

// StockItemRepository defines the persistence interface for stock balances
type StockItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockItem, error)
	FindByProductAndDepot(ctx context.Context, productID, depotID uuid.UUID) (*StockItem, error)
	// FindByProductAndDepotForUpdate locks the balance row until the enclosing
	// transaction ends, serializing concurrent consumption of the same stock.
	FindByProductAndDepotForUpdate(ctx context.Context, productID, depotID uuid.UUID) (*StockItem, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*StockItem, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, item *StockItem) error
}

// BatchLotRepository defines the persistence interface for batch lots
type BatchLotRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BatchLot, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*BatchLot, error)
	FindByProductAndDepot(ctx context.Context, productID, depotID uuid.UUID) ([]*BatchLot, error)
	Save(ctx context.Context, lot *BatchLot) error
}

// SerialNumberRepository defines the persistence interface for serial units
type SerialNumberRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SerialNumber, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*SerialNumber, error)
	FindBySerial(ctx context.Context, productID uuid.UUID, serial string) (*SerialNumber, error)
	FindAvailable(ctx context.Context, productID, depotID uuid.UUID) ([]*SerialNumber, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*SerialNumber, error)
	Save(ctx context.Context, serial *SerialNumber) error
}

// StockMovementRepository defines the persistence interface for movement history
type StockMovementRepository interface {
	FindAll(ctx context.Context, filter shared.Filter) ([]*StockMovement, error)
	FindByReference(ctx context.Context, refType ReferenceType, refID uuid.UUID) ([]*StockMovement, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, movement *StockMovement) error
}
