package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sfa/backend/internal/domain/shared"
)

// BatchLot is a received lot of a batch-tracked product at a depot
type BatchLot struct {
	shared.BaseAggregateRoot
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	DepotID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchNumber       string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_batch_product_number"`
	ExpiryDate        *time.Time      `gorm:"type:date"`
	ReceivedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RemainingQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (BatchLot) TableName() string {
	return "batch_lots"
}

// NewBatchLot creates a batch lot from a stock receipt
func NewBatchLot(productID, depotID uuid.UUID, batchNumber string, quantity decimal.Decimal, expiryDate *time.Time) (*BatchLot, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if depotID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DEPOT", "Depot ID cannot be empty")
	}
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH", "Batch number cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Batch quantity must be positive")
	}
	return &BatchLot{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		DepotID:           depotID,
		BatchNumber:       batchNumber,
		ExpiryDate:        expiryDate,
		ReceivedQuantity:  quantity,
		RemainingQuantity: quantity,
	}, nil
}

// Consume draws down the remaining quantity of the lot
func (b *BatchLot) Consume(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Consume quantity must be positive")
	}
	if b.RemainingQuantity.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}
	b.RemainingQuantity = b.RemainingQuantity.Sub(quantity)
	b.Touch()
	return nil
}

// Restore returns quantity to the lot, capped at the received amount
func (b *BatchLot) Restore(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Restore quantity must be positive")
	}
	if b.RemainingQuantity.Add(quantity).GreaterThan(b.ReceivedQuantity) {
		return shared.NewDomainError("INVALID_QUANTITY", "Restore would exceed received quantity")
	}
	b.RemainingQuantity = b.RemainingQuantity.Add(quantity)
	b.Touch()
	return nil
}

// IsExpiredOn reports whether the lot has passed its expiry date
func (b *BatchLot) IsExpiredOn(date time.Time) bool {
	return b.ExpiryDate != nil && date.After(*b.ExpiryDate)
}
