package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/workflow"
)

// NotificationResponse is the API representation of a notification
type NotificationResponse struct {
	ID          uuid.UUID  `json:"id"`
	RecipientID uuid.UUID  `json:"recipient_id"`
	Kind        string     `json:"kind"`
	Title       string     `json:"title"`
	Body        string     `json:"body,omitempty"`
	RefType     string     `json:"ref_type"`
	RefID       uuid.UUID  `json:"ref_id"`
	Read        bool       `json:"read"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToNotificationResponse converts a notification to its API representation
func ToNotificationResponse(n *workflow.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Kind:        string(n.Kind),
		Title:       n.Title,
		Body:        n.Body,
		RefType:     n.RefType,
		RefID:       n.RefID,
		Read:        n.IsRead(),
		ReadAt:      n.ReadAt,
		CreatedAt:   n.CreatedAt,
	}
}

// ApprovalRequestResponse is the API representation of a review work item
type ApprovalRequestResponse struct {
	ID           uuid.UUID  `json:"id"`
	DocumentType string     `json:"document_type"`
	DocumentID   uuid.UUID  `json:"document_id"`
	DocumentRef  string     `json:"document_ref"`
	RequestedBy  uuid.UUID  `json:"requested_by"`
	Status       string     `json:"status"`
	DecidedBy    *uuid.UUID `json:"decided_by,omitempty"`
	DecidedAt    *time.Time `json:"decided_at,omitempty"`
	Note         string     `json:"note,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ToApprovalRequestResponse converts a review work item to its API representation
func ToApprovalRequestResponse(r *workflow.ApprovalRequest) ApprovalRequestResponse {
	return ApprovalRequestResponse{
		ID:           r.ID,
		DocumentType: r.DocumentType,
		DocumentID:   r.DocumentID,
		DocumentRef:  r.DocumentRef,
		RequestedBy:  r.RequestedBy,
		Status:       string(r.Status),
		DecidedBy:    r.DecidedBy,
		DecidedAt:    r.DecidedAt,
		Note:         r.Note,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
