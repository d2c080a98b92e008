package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sfa/backend/internal/domain/catalog"
	"github.com/sfa/backend/internal/domain/shared"
)

// Ledger errors. Shortfalls always abort the whole consumption, they are
// never silently clamped.
var (
	ErrBatchQuantityMismatch = shared.NewDomainError("BATCH_QUANTITY_MISMATCH", "Batch quantities must sum exactly to the line quantity")
	ErrSerialCountMismatch   = shared.NewDomainError("SERIAL_COUNT_MISMATCH", "Serial count must equal the line quantity")
	ErrBatchNotFound         = shared.NewDomainError("BATCH_NOT_FOUND", "Batch lot not found for this product and depot")
	ErrSerialNotFound        = shared.NewDomainError("SERIAL_NOT_FOUND", "Serial number not found for this product and depot")
)

// BatchAllocation assigns part of a line quantity to a specific batch lot
type BatchAllocation struct {
	BatchLotID uuid.UUID
	Quantity   decimal.Decimal
}

// ConsumeRequest describes one order line's draw on inventory
type ConsumeRequest struct {
	ProductID  uuid.UUID
	DepotID    uuid.UUID
	Quantity   decimal.Decimal
	Tracking   catalog.TrackingStrategy
	Batches    []BatchAllocation
	SerialIDs  []uuid.UUID
	CustomerID uuid.UUID
	OrderID    uuid.UUID
	ActorID    uuid.UUID
}

// ReceiveRequest describes a stock receipt for one product at a depot
type ReceiveRequest struct {
	ProductID   uuid.UUID
	DepotID     uuid.UUID
	Quantity    decimal.Decimal
	Tracking    catalog.TrackingStrategy
	BatchNumber string
	ExpiryDate  *time.Time
	Serials     []string
	ActorID     uuid.UUID
	Remark      string
}

// Ledger applies stock consumption and receipt against the repositories it is
// given. Callers run it inside a transaction so that a failure on any unit
// rolls back every balance it touched.
type Ledger struct {
	stockItems StockItemRepository
	batchLots  BatchLotRepository
	serials    SerialNumberRepository
	movements  StockMovementRepository
}

// NewLedger creates an inventory ledger over the given repositories
func NewLedger(stockItems StockItemRepository, batchLots BatchLotRepository, serials SerialNumberRepository, movements StockMovementRepository) *Ledger {
	return &Ledger{
		stockItems: stockItems,
		batchLots:  batchLots,
		serials:    serials,
		movements:  movements,
	}
}

// ConsumeForSale draws down inventory for one order line according to the
// product's tracking strategy and writes one movement row per unit-group:
// one for an untracked line, one per batch lot drawn, one per serial unit.
func (l *Ledger) ConsumeForSale(ctx context.Context, req ConsumeRequest) error {
	if req.ActorID == uuid.Nil {
		return shared.ErrMissingActor
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
	}

	// Lock the balance row before checking sufficiency so two orders racing
	// on the same product and depot cannot both pass the availability check.
	item, err := l.stockItems.FindByProductAndDepotForUpdate(ctx, req.ProductID, req.DepotID)
	if err != nil {
		// Only a missing balance row means there is no stock to sell
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrInsufficientStock
		}
		return err
	}
	if err := item.Consume(req.Quantity); err != nil {
		return err
	}
	if err := l.stockItems.Save(ctx, item); err != nil {
		return err
	}

	switch req.Tracking {
	case catalog.TrackingBatch:
		return l.consumeBatches(ctx, req)
	case catalog.TrackingSerial:
		return l.consumeSerials(ctx, req)
	default:
		movement, err := NewStockMovement(req.ProductID, req.DepotID, MovementSale, req.Quantity.Neg(), ReferenceOrder, req.OrderID, req.ActorID)
		if err != nil {
			return err
		}
		return l.movements.Save(ctx, movement)
	}
}

func (l *Ledger) consumeBatches(ctx context.Context, req ConsumeRequest) error {
	total := decimal.Zero
	for _, alloc := range req.Batches {
		if alloc.Quantity.LessThanOrEqual(decimal.Zero) {
			return ErrBatchQuantityMismatch
		}
		total = total.Add(alloc.Quantity)
	}
	if !total.Equal(req.Quantity) {
		return ErrBatchQuantityMismatch
	}

	for _, alloc := range req.Batches {
		lot, err := l.batchLots.FindByID(ctx, alloc.BatchLotID)
		if err != nil {
			return ErrBatchNotFound
		}
		if lot.ProductID != req.ProductID || lot.DepotID != req.DepotID {
			return ErrBatchNotFound
		}
		if err := lot.Consume(alloc.Quantity); err != nil {
			return err
		}
		if err := l.batchLots.Save(ctx, lot); err != nil {
			return err
		}

		movement, err := NewStockMovement(req.ProductID, req.DepotID, MovementSale, alloc.Quantity.Neg(), ReferenceOrder, req.OrderID, req.ActorID)
		if err != nil {
			return err
		}
		if err := l.movements.Save(ctx, movement.WithBatchLot(lot.ID)); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) consumeSerials(ctx context.Context, req ConsumeRequest) error {
	count := decimal.NewFromInt(int64(len(req.SerialIDs)))
	if !count.Equal(req.Quantity) {
		return ErrSerialCountMismatch
	}

	one := decimal.NewFromInt(1)
	for _, serialID := range req.SerialIDs {
		unit, err := l.serials.FindByID(ctx, serialID)
		if err != nil {
			return ErrSerialNotFound
		}
		if unit.ProductID != req.ProductID || unit.DepotID != req.DepotID {
			return ErrSerialNotFound
		}
		if err := unit.MarkSold(req.CustomerID, req.OrderID); err != nil {
			return err
		}
		if err := l.serials.Save(ctx, unit); err != nil {
			return err
		}

		// Each serial unit leaves its own audit trail
		movement, err := NewStockMovement(req.ProductID, req.DepotID, MovementSale, one.Neg(), ReferenceOrder, req.OrderID, req.ActorID)
		if err != nil {
			return err
		}
		if err := l.movements.Save(ctx, movement.WithSerialNumber(unit.ID)); err != nil {
			return err
		}
	}
	return nil
}

// Receive books incoming stock, creating the stock record on first receipt
// and batch lots or serial units per the product's tracking strategy.
func (l *Ledger) Receive(ctx context.Context, req ReceiveRequest) error {
	if req.ActorID == uuid.Nil {
		return shared.ErrMissingActor
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Receive quantity must be positive")
	}

	switch req.Tracking {
	case catalog.TrackingBatch:
		if req.BatchNumber == "" {
			return shared.NewDomainError("INVALID_BATCH", "Batch number is required for batch-tracked products")
		}
		lot, err := NewBatchLot(req.ProductID, req.DepotID, req.BatchNumber, req.Quantity, req.ExpiryDate)
		if err != nil {
			return err
		}
		if err := l.batchLots.Save(ctx, lot); err != nil {
			return err
		}
	case catalog.TrackingSerial:
		if !decimal.NewFromInt(int64(len(req.Serials))).Equal(req.Quantity) {
			return ErrSerialCountMismatch
		}
		for _, serial := range req.Serials {
			unit, err := NewSerialNumber(req.ProductID, req.DepotID, serial)
			if err != nil {
				return err
			}
			if err := l.serials.Save(ctx, unit); err != nil {
				return err
			}
		}
	}

	item, err := l.stockItems.FindByProductAndDepot(ctx, req.ProductID, req.DepotID)
	if err != nil {
		item, err = NewStockItem(req.ProductID, req.DepotID)
		if err != nil {
			return err
		}
	}
	if err := item.Receive(req.Quantity); err != nil {
		return err
	}
	if err := l.stockItems.Save(ctx, item); err != nil {
		return err
	}

	movement, err := NewStockMovement(req.ProductID, req.DepotID, MovementReceipt, req.Quantity, ReferenceReceipt, uuid.New(), req.ActorID)
	if err != nil {
		return err
	}
	if req.Remark != "" {
		movement.WithRemark(req.Remark)
	}
	return l.movements.Save(ctx, movement)
}
