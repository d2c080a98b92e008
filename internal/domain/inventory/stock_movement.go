package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sfa/backend/internal/domain/shared"
)

// MovementType classifies why stock changed
type MovementType string

const (
	MovementSale       MovementType = "SALE"
	MovementReceipt    MovementType = "RECEIPT"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementReturn     MovementType = "RETURN"
)

// IsValid checks if the movement type is valid
func (m MovementType) IsValid() bool {
	switch m {
	case MovementSale, MovementReceipt, MovementAdjustment, MovementReturn:
		return true
	}
	return false
}

// ReferenceType names the document a movement traces back to
type ReferenceType string

const (
	ReferenceOrder   ReferenceType = "ORDER"
	ReferenceReceipt ReferenceType = "RECEIPT"
	ReferenceManual  ReferenceType = "MANUAL"
)

// StockMovement is an immutable audit row recording one discrete stock change.
// Movements are only inserted, never updated or deleted.
type StockMovement struct {
	shared.BaseEntity
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	DepotID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	MovementType   MovementType    `gorm:"type:varchar(20);not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BatchLotID     *uuid.UUID      `gorm:"type:uuid;index"`
	SerialNumberID *uuid.UUID      `gorm:"type:uuid;index"`
	ReferenceType  ReferenceType   `gorm:"type:varchar(20);not null"`
	ReferenceID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ActorID        uuid.UUID       `gorm:"type:uuid;not null"`
	OccurredAt     time.Time       `gorm:"not null"`
	Remark         string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement records one stock change
func NewStockMovement(productID, depotID uuid.UUID, movementType MovementType, quantity decimal.Decimal, refType ReferenceType, refID, actorID uuid.UUID) (*StockMovement, error) {
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT", "Unknown movement type")
	}
	if quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity cannot be zero")
	}
	if actorID == uuid.Nil {
		return nil, shared.ErrMissingActor
	}
	return &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		ProductID:     productID,
		DepotID:       depotID,
		MovementType:  movementType,
		Quantity:      quantity,
		ReferenceType: refType,
		ReferenceID:   refID,
		ActorID:       actorID,
		OccurredAt:    time.Now(),
	}, nil
}

// WithBatchLot attaches the batch lot the movement drew from
func (m *StockMovement) WithBatchLot(batchLotID uuid.UUID) *StockMovement {
	m.BatchLotID = &batchLotID
	return m
}

// WithSerialNumber attaches the serial unit the movement consumed
func (m *StockMovement) WithSerialNumber(serialNumberID uuid.UUID) *StockMovement {
	m.SerialNumberID = &serialNumberID
	return m
}

// WithRemark attaches a free-form note
func (m *StockMovement) WithRemark(remark string) *StockMovement {
	m.Remark = remark
	return m
}
