package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sfa/backend/internal/domain/shared"
)

// StockItem holds the on-hand balance for one product at one depot.
// Both quantity fields are invariantly non-negative.
type StockItem struct {
	shared.BaseAggregateRoot
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_depot"`
	DepotID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_depot"`
	CurrentQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AvailableQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockItem) TableName() string {
	return "stock_items"
}

// NewStockItem creates an empty stock record for a product at a depot
func NewStockItem(productID, depotID uuid.UUID) (*StockItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if depotID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DEPOT", "Depot ID cannot be empty")
	}
	return &StockItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		DepotID:           depotID,
		CurrentQuantity:   decimal.Zero,
		AvailableQuantity: decimal.Zero,
	}, nil
}

// Receive increases the balance by the received quantity
func (s *StockItem) Receive(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Receive quantity must be positive")
	}
	s.CurrentQuantity = s.CurrentQuantity.Add(quantity)
	s.AvailableQuantity = s.AvailableQuantity.Add(quantity)
	s.Touch()
	return nil
}

// Consume decreases the balance for a sale. Insufficient stock is always
// rejected, never driven negative.
func (s *StockItem) Consume(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Consume quantity must be positive")
	}
	if s.AvailableQuantity.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}
	s.CurrentQuantity = s.CurrentQuantity.Sub(quantity)
	s.AvailableQuantity = s.AvailableQuantity.Sub(quantity)
	s.Touch()
	return nil
}

// Restore returns previously consumed quantity to the balance
func (s *StockItem) Restore(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Restore quantity must be positive")
	}
	s.CurrentQuantity = s.CurrentQuantity.Add(quantity)
	s.AvailableQuantity = s.AvailableQuantity.Add(quantity)
	s.Touch()
	return nil
}
