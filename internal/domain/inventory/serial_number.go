package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/shared"
)

// SerialStatus tracks a serial unit through its lifecycle
type SerialStatus string

const (
	SerialStatusAvailable SerialStatus = "AVAILABLE"
	SerialStatusSold      SerialStatus = "SOLD"
)

// IsValid checks if the status is valid
func (s SerialStatus) IsValid() bool {
	return s == SerialStatusAvailable || s == SerialStatusSold
}

// SerialNumber is one serialized unit of a serial-tracked product.
// The AVAILABLE to SOLD transition happens once and binds the unit to the
// buying customer and order.
type SerialNumber struct {
	shared.BaseAggregateRoot
	ProductID      uuid.UUID    `gorm:"type:uuid;not null;index"`
	DepotID        uuid.UUID    `gorm:"type:uuid;not null;index"`
	Serial         string       `gorm:"type:varchar(100);not null;uniqueIndex:idx_serial_product_number"`
	Status         SerialStatus `gorm:"type:varchar(20);not null;default:'AVAILABLE'"`
	SoldCustomerID *uuid.UUID   `gorm:"type:uuid"`
	SoldOrderID    *uuid.UUID   `gorm:"type:uuid"`
	SoldAt         *time.Time
}

// TableName returns the table name for GORM
func (SerialNumber) TableName() string {
	return "serial_numbers"
}

// NewSerialNumber registers a serialized unit from a stock receipt
func NewSerialNumber(productID, depotID uuid.UUID, serial string) (*SerialNumber, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if depotID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DEPOT", "Depot ID cannot be empty")
	}
	if serial == "" {
		return nil, shared.NewDomainError("INVALID_SERIAL", "Serial cannot be empty")
	}
	return &SerialNumber{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		DepotID:           depotID,
		Serial:            serial,
		Status:            SerialStatusAvailable,
	}, nil
}

// MarkSold transitions the unit to SOLD, binding it to the customer and order
func (s *SerialNumber) MarkSold(customerID, orderID uuid.UUID) error {
	if s.Status != SerialStatusAvailable {
		return shared.NewDomainError("SERIAL_UNAVAILABLE", "Serial "+s.Serial+" is not available for sale")
	}
	if customerID == uuid.Nil || orderID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Sale must reference a customer and an order")
	}
	now := time.Now()
	s.Status = SerialStatusSold
	s.SoldCustomerID = &customerID
	s.SoldOrderID = &orderID
	s.SoldAt = &now
	s.UpdatedAt = now
	return nil
}

// Release returns a sold unit to stock, clearing the sale binding
func (s *SerialNumber) Release() error {
	if s.Status != SerialStatusSold {
		return shared.NewDomainError("INVALID_STATE", "Only sold serials can be released")
	}
	s.Status = SerialStatusAvailable
	s.SoldCustomerID = nil
	s.SoldOrderID = nil
	s.SoldAt = nil
	s.Touch()
	return nil
}

// IsAvailable reports whether the unit can be sold
func (s *SerialNumber) IsAvailable() bool {
	return s.Status == SerialStatusAvailable
}
