package order

import (
	"time"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/order"
)

// BatchAllocationInput assigns part of a line quantity to a batch lot
type BatchAllocationInput struct {
	BatchLotID uuid.UUID `json:"batch_lot_id" binding:"required"`
	Quantity   string    `json:"quantity" binding:"required"`
}

// OrderLineInput is one requested order line. Batch allocations or serial IDs
// are required when the product is tracked.
type OrderLineInput struct {
	ProductID uuid.UUID              `json:"product_id" binding:"required"`
	Quantity  string                 `json:"quantity" binding:"required"`
	UnitPrice *string                `json:"unit_price"`
	Batches   []BatchAllocationInput `json:"batches"`
	SerialIDs []uuid.UUID            `json:"serial_ids"`
	Remark    string                 `json:"remark"`
}

// CreateOrderRequest is the request to create an order
type CreateOrderRequest struct {
	CustomerID  uuid.UUID        `json:"customer_id" binding:"required"`
	DepotID     *uuid.UUID       `json:"depot_id"`
	OrderDate   *time.Time       `json:"order_date"`
	PromotionID *uuid.UUID       `json:"promotion_id"`
	TaxAmount   string           `json:"tax_amount"`
	ShippingFee string           `json:"shipping_fee"`
	Remark      string           `json:"remark"`
	Lines       []OrderLineInput `json:"lines" binding:"required,min=1"`
	ActorID     uuid.UUID        `json:"actor_id" binding:"required"`
}

// UpdateOrderRequest replaces an order's lines and charges wholesale
type UpdateOrderRequest struct {
	PromotionID *uuid.UUID       `json:"promotion_id"`
	TaxAmount   string           `json:"tax_amount"`
	ShippingFee string           `json:"shipping_fee"`
	Remark      string           `json:"remark"`
	Lines       []OrderLineInput `json:"lines" binding:"required,min=1"`
	ActorID     uuid.UUID        `json:"actor_id" binding:"required"`
}

// DecideOrderRequest carries an approval decision
type DecideOrderRequest struct {
	Approve    bool      `json:"approve"`
	Reason     string    `json:"reason"`
	ApproverID uuid.UUID `json:"approver_id" binding:"required"`
}

// OrderListFilter captures order list query parameters
type OrderListFilter struct {
	Page           int
	PageSize       int
	OrderBy        string
	OrderDir       string
	Search         string
	CustomerID     *uuid.UUID
	DepotID        *uuid.UUID
	Status         *string
	ApprovalStatus *string
}

// OrderLineResponse is the API representation of an order line
type OrderLineResponse struct {
	ID          uuid.UUID `json:"id"`
	Sequence    int       `json:"sequence"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductCode string    `json:"product_code"`
	ProductName string    `json:"product_name"`
	Quantity    string    `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	Amount      string    `json:"amount"`
	IsFreeGift  bool      `json:"is_free_gift"`
	Remark      string    `json:"remark,omitempty"`
}

// OrderResponse is the API representation of an order
type OrderResponse struct {
	ID             uuid.UUID           `json:"id"`
	OrderNumber    string              `json:"order_number"`
	CustomerID     uuid.UUID           `json:"customer_id"`
	DepotID        uuid.UUID           `json:"depot_id"`
	SalespersonID  *uuid.UUID          `json:"salesperson_id,omitempty"`
	OrderDate      time.Time           `json:"order_date"`
	Status         string              `json:"status"`
	ApprovalStatus string              `json:"approval_status"`
	PromotionID    *uuid.UUID          `json:"promotion_id,omitempty"`
	Subtotal       string              `json:"subtotal"`
	DiscountAmount string              `json:"discount_amount"`
	TaxAmount      string              `json:"tax_amount"`
	ShippingFee    string              `json:"shipping_fee"`
	TotalAmount    string              `json:"total_amount"`
	Remark         string              `json:"remark,omitempty"`
	ApprovedBy     *uuid.UUID          `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time          `json:"approved_at,omitempty"`
	RejectReason   string              `json:"reject_reason,omitempty"`
	Lines          []OrderLineResponse `json:"lines"`
	Version        int                 `json:"version"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// OrderListItemResponse is the compact list representation of an order
type OrderListItemResponse struct {
	ID             uuid.UUID `json:"id"`
	OrderNumber    string    `json:"order_number"`
	CustomerID     uuid.UUID `json:"customer_id"`
	DepotID        uuid.UUID `json:"depot_id"`
	OrderDate      time.Time `json:"order_date"`
	Status         string    `json:"status"`
	ApprovalStatus string    `json:"approval_status"`
	TotalAmount    string    `json:"total_amount"`
	LineCount      int       `json:"line_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToOrderResponse converts an order to its API representation
func ToOrderResponse(o *order.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLineResponse{
			ID:          l.ID,
			Sequence:    l.Sequence,
			ProductID:   l.ProductID,
			ProductCode: l.ProductCode,
			ProductName: l.ProductName,
			Quantity:    l.Quantity.String(),
			UnitPrice:   l.UnitPrice.StringFixed(2),
			Amount:      l.Amount.StringFixed(2),
			IsFreeGift:  l.IsFreeGift,
			Remark:      l.Remark,
		})
	}
	return OrderResponse{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		CustomerID:     o.CustomerID,
		DepotID:        o.DepotID,
		SalespersonID:  o.SalespersonID,
		OrderDate:      o.OrderDate,
		Status:         string(o.Status),
		ApprovalStatus: string(o.ApprovalStatus),
		PromotionID:    o.PromotionID,
		Subtotal:       o.Subtotal.StringFixed(2),
		DiscountAmount: o.DiscountAmount.StringFixed(2),
		TaxAmount:      o.TaxAmount.StringFixed(2),
		ShippingFee:    o.ShippingFee.StringFixed(2),
		TotalAmount:    o.TotalAmount.StringFixed(2),
		Remark:         o.Remark,
		ApprovedBy:     o.ApprovedBy,
		ApprovedAt:     o.ApprovedAt,
		RejectReason:   o.RejectReason,
		Lines:          lines,
		Version:        o.Version,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

// ToOrderListItemResponse converts an order to its list representation
func ToOrderListItemResponse(o *order.Order) OrderListItemResponse {
	return OrderListItemResponse{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		CustomerID:     o.CustomerID,
		DepotID:        o.DepotID,
		OrderDate:      o.OrderDate,
		Status:         string(o.Status),
		ApprovalStatus: string(o.ApprovalStatus),
		TotalAmount:    o.TotalAmount.StringFixed(2),
		LineCount:      len(o.Lines),
		CreatedAt:      o.CreatedAt,
	}
}
