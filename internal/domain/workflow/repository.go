package workflow

import (
	"context"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/shared"
)

// NotificationRepository defines the persistence interface for notifications
type NotificationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindByRecipient(ctx context.Context, recipientID uuid.UUID, filter shared.Filter) ([]*Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	Save(ctx context.Context, notification *Notification) error
}

// ApprovalRequestRepository defines the persistence interface for review work items
type ApprovalRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ApprovalRequest, error)
	FindOpenByDocument(ctx context.Context, documentType string, documentID uuid.UUID) (*ApprovalRequest, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*ApprovalRequest, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, request *ApprovalRequest) error
}
