package event

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/sfa/backend/internal/domain/order"
	"github.com/sfa/backend/internal/domain/partner"
	"github.com/sfa/backend/internal/domain/shared"
)

// EventSerializer converts domain events to and from their outbox payloads.
// Deserialization needs the concrete Go type for an event type string, so
// every event that passes through the outbox must be registered here.
type EventSerializer struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewEventSerializer creates an empty serializer.
func NewEventSerializer() *EventSerializer {
	return &EventSerializer{types: make(map[string]reflect.Type)}
}

// NewDefaultEventSerializer creates a serializer with all known events registered
func NewDefaultEventSerializer() *EventSerializer {
	s := NewEventSerializer()
	s.Register(order.EventTypeOrderCreated, &order.OrderCreatedEvent{})
	s.Register(order.EventTypeOrderApproved, &order.OrderApprovedEvent{})
	s.Register(order.EventTypeOrderRejected, &order.OrderRejectedEvent{})
	s.Register(partner.EventTypeCustomerCreated, &partner.CustomerCreatedEvent{})
	return s
}

// Register binds an event type string to the concrete event struct.
func (s *EventSerializer) Register(eventType string, eventInstance shared.DomainEvent) {
	t := reflect.TypeOf(eventInstance)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	s.mu.Lock()
	s.types[eventType] = t
	s.mu.Unlock()
}

// Serialize renders a domain event as its JSON payload.
func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	return json.Marshal(event)
}

// Deserialize reconstructs the registered event struct from a payload.
func (s *EventSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	s.mu.RLock()
	t, ok := s.types[eventType]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	target := reflect.New(t).Interface()
	if err := json.Unmarshal(data, target); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	event, ok := target.(shared.DomainEvent)
	if !ok {
		return nil, fmt.Errorf("deserialized object does not implement DomainEvent")
	}
	return event, nil
}

// IsRegistered reports whether the event type has a registered struct.
func (s *EventSerializer) IsRegistered(eventType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.types[eventType]
	return ok
}

// RegisteredTypes lists every registered event type string.
func (s *EventSerializer) RegisteredTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.types))
	for t := range s.types {
		out = append(out, t)
	}
	return out
}
