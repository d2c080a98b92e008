package order

import (
	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/shared"
)

// Event types published by the order aggregate
const (
	EventTypeOrderCreated  = "order.created"
	EventTypeOrderApproved = "order.approved"
	EventTypeOrderRejected = "order.rejected"
)

// OrderCreatedEvent is published when a new order is confirmed
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	CustomerID  uuid.UUID `json:"customer_id"`
	DepotID     uuid.UUID `json:"depot_id"`
	TotalAmount string    `json:"total_amount"`
	CreatedBy   uuid.UUID `json:"created_by"`
}

// NewOrderCreatedEvent creates an order created event
func NewOrderCreatedEvent(o *Order, actorID uuid.UUID) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, "Order", o.ID),
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		DepotID:         o.DepotID,
		TotalAmount:     o.TotalAmount.String(),
		CreatedBy:       actorID,
	}
}

// OrderApprovedEvent is published when an order passes review
type OrderApprovedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	CustomerID  uuid.UUID `json:"customer_id"`
	ApprovedBy  uuid.UUID `json:"approved_by"`
}

// NewOrderApprovedEvent creates an order approved event
func NewOrderApprovedEvent(o *Order, approverID uuid.UUID) *OrderApprovedEvent {
	return &OrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderApproved, "Order", o.ID),
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		ApprovedBy:      approverID,
	}
}

// OrderRejectedEvent is published when an order fails review
type OrderRejectedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	CustomerID  uuid.UUID `json:"customer_id"`
	RejectedBy  uuid.UUID `json:"rejected_by"`
	Reason      string    `json:"reason"`
}

// NewOrderRejectedEvent creates an order rejected event
func NewOrderRejectedEvent(o *Order, approverID uuid.UUID, reason string) *OrderRejectedEvent {
	return &OrderRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderRejected, "Order", o.ID),
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		RejectedBy:      approverID,
		Reason:          reason,
	}
}
