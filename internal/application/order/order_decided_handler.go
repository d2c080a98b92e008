package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/order"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/sfa/backend/internal/domain/workflow"
)

// OrderDecidedHandler reacts to approval decisions: it closes the order's
// approval request and notifies the order's creator of the outcome.
type OrderDecidedHandler struct {
	orderRepo        order.Repository
	notificationRepo workflow.NotificationRepository
	approvalRepo     workflow.ApprovalRequestRepository
}

// NewOrderDecidedHandler creates an OrderDecidedHandler
func NewOrderDecidedHandler(
	orderRepo order.Repository,
	notificationRepo workflow.NotificationRepository,
	approvalRepo workflow.ApprovalRequestRepository,
) *OrderDecidedHandler {
	return &OrderDecidedHandler{
		orderRepo:        orderRepo,
		notificationRepo: notificationRepo,
		approvalRepo:     approvalRepo,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderDecidedHandler) EventTypes() []string {
	return []string{order.EventTypeOrderApproved, order.EventTypeOrderRejected}
}

// Handle processes an approval decision event
func (h *OrderDecidedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch decided := event.(type) {
	case *order.OrderApprovedEvent:
		return h.apply(ctx, decided.AggregateID(), decided.OrderNumber, true, "")
	case *order.OrderRejectedEvent:
		return h.apply(ctx, decided.AggregateID(), decided.OrderNumber, false, decided.Reason)
	}
	return nil
}

func (h *OrderDecidedHandler) apply(ctx context.Context, orderID uuid.UUID, orderNumber string, approved bool, reason string) error {
	o, err := h.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if request, err := h.approvalRepo.FindOpenByDocument(ctx, "ORDER", orderID); err == nil && request != nil {
		decidedBy := o.CreatedBy
		if o.ApprovedBy != nil {
			decidedBy = o.ApprovedBy
		}
		if decidedBy != nil {
			if err := request.Close(approved, *decidedBy, reason); err == nil {
				if err := h.approvalRepo.Save(ctx, request); err != nil {
					return err
				}
			}
		}
	}

	recipient := o.CreatedBy
	if recipient == nil {
		return nil
	}

	kind := workflow.NotificationOrderApproved
	title := fmt.Sprintf("Order %s approved", orderNumber)
	body := fmt.Sprintf("Order %s has been approved.", orderNumber)
	if !approved {
		kind = workflow.NotificationOrderRejected
		title = fmt.Sprintf("Order %s rejected", orderNumber)
		body = fmt.Sprintf("Order %s was rejected: %s", orderNumber, reason)
	}

	notification, err := workflow.NewNotification(*recipient, kind, title, body, "ORDER", orderID)
	if err != nil {
		return err
	}
	return h.notificationRepo.Save(ctx, notification)
}

var _ shared.EventHandler = (*OrderDecidedHandler)(nil)
