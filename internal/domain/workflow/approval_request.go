package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/shared"
)

// ApprovalRequestStatus mirrors the decision state of the referenced document
type ApprovalRequestStatus string

const (
	ApprovalRequestOpen     ApprovalRequestStatus = "OPEN"
	ApprovalRequestApproved ApprovalRequestStatus = "APPROVED"
	ApprovalRequestRejected ApprovalRequestStatus = "REJECTED"
)

// ApprovalRequest is a work item in the reviewer queue, created when an order
// enters approval and closed when the decision lands.
type ApprovalRequest struct {
	shared.BaseEntity
	DocumentType string                `gorm:"type:varchar(30);not null"`
	DocumentID   uuid.UUID             `gorm:"type:uuid;not null;index"`
	DocumentRef  string                `gorm:"type:varchar(50);not null"` // human-readable number, e.g. the order number
	RequestedBy  uuid.UUID             `gorm:"type:uuid;not null"`
	Status       ApprovalRequestStatus `gorm:"type:varchar(20);not null;default:'OPEN'"`
	DecidedBy    *uuid.UUID            `gorm:"type:uuid"`
	DecidedAt    *time.Time
	Note         string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ApprovalRequest) TableName() string {
	return "approval_requests"
}

// NewApprovalRequest opens a review work item for a document
func NewApprovalRequest(documentType string, documentID uuid.UUID, documentRef string, requestedBy uuid.UUID) (*ApprovalRequest, error) {
	if documentType == "" || documentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Approval request must reference a document")
	}
	if requestedBy == uuid.Nil {
		return nil, shared.ErrMissingActor
	}
	return &ApprovalRequest{
		BaseEntity:   shared.NewBaseEntity(),
		DocumentType: documentType,
		DocumentID:   documentID,
		DocumentRef:  documentRef,
		RequestedBy:  requestedBy,
		Status:       ApprovalRequestOpen,
	}, nil
}

// Close records the decision on an open request
func (r *ApprovalRequest) Close(approved bool, decidedBy uuid.UUID, note string) error {
	if r.Status != ApprovalRequestOpen {
		return shared.NewDomainError("INVALID_STATE", "Approval request is already closed")
	}
	if decidedBy == uuid.Nil {
		return shared.ErrMissingActor
	}
	now := time.Now()
	if approved {
		r.Status = ApprovalRequestApproved
	} else {
		r.Status = ApprovalRequestRejected
	}
	r.DecidedBy = &decidedBy
	r.DecidedAt = &now
	r.Note = note
	r.UpdatedAt = now
	return nil
}

// IsOpen reports whether the request still awaits a decision
func (r *ApprovalRequest) IsOpen() bool {
	return r.Status == ApprovalRequestOpen
}
