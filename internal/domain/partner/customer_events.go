package partner

import (
	"github.com/sfa/backend/internal/domain/shared"
)

// Event types for the customer aggregate
const (
	EventTypeCustomerCreated = "partner.customer.created"
)

// CustomerCreatedEvent is emitted when a customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	Code    string       `json:"code"`
	Name    string       `json:"name"`
	Channel SalesChannel `json:"channel"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(customer *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, "Customer", customer.ID),
		Code:            customer.Code,
		Name:            customer.Name,
		Channel:         customer.Channel,
	}
}
