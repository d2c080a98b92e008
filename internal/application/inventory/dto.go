package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/inventory"
)

// ReceiveStockRequest books incoming stock for a product at a depot
type ReceiveStockRequest struct {
	ProductID   uuid.UUID  `json:"product_id" binding:"required"`
	DepotID     uuid.UUID  `json:"depot_id" binding:"required"`
	Quantity    string     `json:"quantity" binding:"required"`
	BatchNumber string     `json:"batch_number"`
	ExpiryDate  *time.Time `json:"expiry_date"`
	Serials     []string   `json:"serials"`
	ActorID     uuid.UUID  `json:"actor_id" binding:"required"`
	Remark      string     `json:"remark"`
}

// StockListFilter captures stock level list query parameters
type StockListFilter struct {
	Page      int
	PageSize  int
	OrderBy   string
	OrderDir  string
	ProductID *uuid.UUID
	DepotID   *uuid.UUID
}

// MovementListFilter captures movement history query parameters
type MovementListFilter struct {
	Page         int
	PageSize     int
	OrderBy      string
	OrderDir     string
	ProductID    *uuid.UUID
	DepotID      *uuid.UUID
	MovementType *string
}

// StockItemResponse is the API representation of a stock balance
type StockItemResponse struct {
	ID                uuid.UUID `json:"id"`
	ProductID         uuid.UUID `json:"product_id"`
	DepotID           uuid.UUID `json:"depot_id"`
	CurrentQuantity   string    `json:"current_quantity"`
	AvailableQuantity string    `json:"available_quantity"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ToStockItemResponse converts a stock item to its API representation
func ToStockItemResponse(item *inventory.StockItem) StockItemResponse {
	return StockItemResponse{
		ID:                item.ID,
		ProductID:         item.ProductID,
		DepotID:           item.DepotID,
		CurrentQuantity:   item.CurrentQuantity.String(),
		AvailableQuantity: item.AvailableQuantity.String(),
		UpdatedAt:         item.UpdatedAt,
	}
}

// StockMovementResponse is the API representation of a movement row
type StockMovementResponse struct {
	ID            uuid.UUID  `json:"id"`
	ProductID     uuid.UUID  `json:"product_id"`
	DepotID       uuid.UUID  `json:"depot_id"`
	MovementType  string     `json:"movement_type"`
	Quantity      string     `json:"quantity"`
	BatchLotID    *uuid.UUID `json:"batch_lot_id,omitempty"`
	ReferenceType string     `json:"reference_type"`
	ReferenceID   uuid.UUID  `json:"reference_id"`
	ActorID       uuid.UUID  `json:"actor_id"`
	OccurredAt    time.Time  `json:"occurred_at"`
	Remark        string     `json:"remark,omitempty"`
}

// ToStockMovementResponse converts a movement to its API representation
func ToStockMovementResponse(m *inventory.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		DepotID:       m.DepotID,
		MovementType:  string(m.MovementType),
		Quantity:      m.Quantity.String(),
		BatchLotID:    m.BatchLotID,
		ReferenceType: string(m.ReferenceType),
		ReferenceID:   m.ReferenceID,
		ActorID:       m.ActorID,
		OccurredAt:    m.OccurredAt,
		Remark:        m.Remark,
	}
}

// BatchLotResponse is the API representation of a batch lot
type BatchLotResponse struct {
	ID                uuid.UUID  `json:"id"`
	ProductID         uuid.UUID  `json:"product_id"`
	DepotID           uuid.UUID  `json:"depot_id"`
	BatchNumber       string     `json:"batch_number"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
	ReceivedQuantity  string     `json:"received_quantity"`
	RemainingQuantity string     `json:"remaining_quantity"`
}

// ToBatchLotResponse converts a batch lot to its API representation
func ToBatchLotResponse(lot *inventory.BatchLot) BatchLotResponse {
	return BatchLotResponse{
		ID:                lot.ID,
		ProductID:         lot.ProductID,
		DepotID:           lot.DepotID,
		BatchNumber:       lot.BatchNumber,
		ExpiryDate:        lot.ExpiryDate,
		ReceivedQuantity:  lot.ReceivedQuantity.String(),
		RemainingQuantity: lot.RemainingQuantity.String(),
	}
}

// SerialNumberResponse is the API representation of a serial unit
type SerialNumberResponse struct {
	ID             uuid.UUID  `json:"id"`
	ProductID      uuid.UUID  `json:"product_id"`
	DepotID        uuid.UUID  `json:"depot_id"`
	Serial         string     `json:"serial"`
	Status         string     `json:"status"`
	SoldCustomerID *uuid.UUID `json:"sold_customer_id,omitempty"`
	SoldOrderID    *uuid.UUID `json:"sold_order_id,omitempty"`
	SoldAt         *time.Time `json:"sold_at,omitempty"`
}

// ToSerialNumberResponse converts a serial unit to its API representation
func ToSerialNumberResponse(s *inventory.SerialNumber) SerialNumberResponse {
	return SerialNumberResponse{
		ID:             s.ID,
		ProductID:      s.ProductID,
		DepotID:        s.DepotID,
		Serial:         s.Serial,
		Status:         string(s.Status),
		SoldCustomerID: s.SoldCustomerID,
		SoldOrderID:    s.SoldOrderID,
		SoldAt:         s.SoldAt,
	}
}
