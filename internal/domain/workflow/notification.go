package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/shared"
)

// NotificationKind classifies what a notification announces
type NotificationKind string

const (
	NotificationOrderCreated  NotificationKind = "ORDER_CREATED"
	NotificationOrderApproved NotificationKind = "ORDER_APPROVED"
	NotificationOrderRejected NotificationKind = "ORDER_REJECTED"
)

// Notification is a record shown to a user about something that happened.
// Rows are produced by the outbox processor after the originating
// transaction commits.
type Notification struct {
	shared.BaseEntity
	RecipientID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Kind        NotificationKind `gorm:"type:varchar(30);not null"`
	Title       string           `gorm:"type:varchar(200);not null"`
	Body        string           `gorm:"type:varchar(1000)"`
	RefType     string           `gorm:"type:varchar(30);not null"`
	RefID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	ReadAt      *time.Time
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NewNotification creates an unread notification
func NewNotification(recipientID uuid.UUID, kind NotificationKind, title, body, refType string, refID uuid.UUID) (*Notification, error) {
	if recipientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Notification recipient cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Notification title cannot be empty")
	}
	return &Notification{
		BaseEntity:  shared.NewBaseEntity(),
		RecipientID: recipientID,
		Kind:        kind,
		Title:       title,
		Body:        body,
		RefType:     refType,
		RefID:       refID,
	}, nil
}

// MarkRead stamps the notification as read
func (n *Notification) MarkRead() {
	if n.ReadAt == nil {
		now := time.Now()
		n.ReadAt = &now
		n.UpdatedAt = now
	}
}

// IsRead reports whether the notification has been read
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
