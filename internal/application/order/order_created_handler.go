package order

import (
	"context"
	"fmt"

	"github.com/sfa/backend/internal/domain/order"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/sfa/backend/internal/domain/workflow"
)

// OrderCreatedHandler reacts to order.created events delivered by the outbox
// processor: it opens an approval request and notifies the order's creator.
type OrderCreatedHandler struct {
	orderRepo        order.Repository
	notificationRepo workflow.NotificationRepository
	approvalRepo     workflow.ApprovalRequestRepository
}

// NewOrderCreatedHandler creates an OrderCreatedHandler
func NewOrderCreatedHandler(
	orderRepo order.Repository,
	notificationRepo workflow.NotificationRepository,
	approvalRepo workflow.ApprovalRequestRepository,
) *OrderCreatedHandler {
	return &OrderCreatedHandler{
		orderRepo:        orderRepo,
		notificationRepo: notificationRepo,
		approvalRepo:     approvalRepo,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderCreatedHandler) EventTypes() []string {
	return []string{order.EventTypeOrderCreated}
}

// Handle processes an order.created event
func (h *OrderCreatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	created, ok := event.(*order.OrderCreatedEvent)
	if !ok {
		return nil
	}

	// existing open request means this delivery is a retry
	if existing, err := h.approvalRepo.FindOpenByDocument(ctx, "ORDER", created.AggregateID()); err == nil && existing != nil {
		return nil
	}

	request, err := workflow.NewApprovalRequest("ORDER", created.AggregateID(), created.OrderNumber, created.CreatedBy)
	if err != nil {
		return err
	}
	if err := h.approvalRepo.Save(ctx, request); err != nil {
		return err
	}

	// the order enters the review queue together with its request; an order
	// already decided before delivery stays as it is
	o, err := h.orderRepo.FindByID(ctx, created.AggregateID())
	if err != nil {
		return err
	}
	if o.ApprovalStatus == order.ApprovalPending {
		if err := o.SubmitForApproval(); err != nil {
			return err
		}
		if err := h.orderRepo.Save(ctx, o); err != nil {
			return err
		}
	}

	notification, err := workflow.NewNotification(
		created.CreatedBy,
		workflow.NotificationOrderCreated,
		fmt.Sprintf("Order %s created", created.OrderNumber),
		fmt.Sprintf("Order %s for %s is awaiting approval.", created.OrderNumber, created.TotalAmount),
		"ORDER",
		created.AggregateID(),
	)
	if err != nil {
		return err
	}
	return h.notificationRepo.Save(ctx, notification)
}

var _ shared.EventHandler = (*OrderCreatedHandler)(nil)
