// Package workflow provides application services for notifications and
// review work items.
package workflow

import (
	"context"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/shared"
	"github.com/sfa/backend/internal/domain/workflow"
)

// WorkflowService handles notification and approval request queries
type WorkflowService struct {
	notificationRepo workflow.NotificationRepository
	approvalRepo     workflow.ApprovalRequestRepository
}

// NewWorkflowService creates a new WorkflowService
func NewWorkflowService(
	notificationRepo workflow.NotificationRepository,
	approvalRepo workflow.ApprovalRequestRepository,
) *WorkflowService {
	return &WorkflowService{
		notificationRepo: notificationRepo,
		approvalRepo:     approvalRepo,
	}
}

// ListNotifications retrieves a recipient's notifications
func (s *WorkflowService) ListNotifications(ctx context.Context, recipientID uuid.UUID, filter shared.Filter) ([]NotificationResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	notifications, err := s.notificationRepo.FindByRecipient(ctx, recipientID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, ToNotificationResponse(n))
	}
	return responses, nil
}

// CountUnreadNotifications counts a recipient's unread notifications
func (s *WorkflowService) CountUnreadNotifications(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, recipientID)
}

// MarkNotificationRead marks a notification as read
func (s *WorkflowService) MarkNotificationRead(ctx context.Context, id uuid.UUID) (*NotificationResponse, error) {
	notification, err := s.notificationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	notification.MarkRead()
	if err := s.notificationRepo.Save(ctx, notification); err != nil {
		return nil, err
	}

	resp := ToNotificationResponse(notification)
	return &resp, nil
}

// ListApprovalRequests retrieves review work items with filtering
func (s *WorkflowService) ListApprovalRequests(ctx context.Context, filter shared.Filter) ([]ApprovalRequestResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	requests, err := s.approvalRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.approvalRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ApprovalRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, ToApprovalRequestResponse(r))
	}
	return responses, total, nil
}

// GetApprovalRequest retrieves a single review work item
func (s *WorkflowService) GetApprovalRequest(ctx context.Context, id uuid.UUID) (*ApprovalRequestResponse, error) {
	request, err := s.approvalRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToApprovalRequestResponse(request)
	return &resp, nil
}
