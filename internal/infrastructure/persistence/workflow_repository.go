package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sfa/backend/internal/domain/shared"
	"github.com/sfa/backend/internal/domain/workflow"
)

// GormNotificationRepository implements NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByID finds a notification by its ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*workflow.Notification, error) {
	var notification workflow.Notification
	if err := r.db.WithContext(ctx).First(&notification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &notification, nil
}

// FindByRecipient finds notifications for a recipient, newest first
func (r *GormNotificationRepository) FindByRecipient(ctx context.Context, recipientID uuid.UUID, filter shared.Filter) ([]*workflow.Notification, error) {
	query := r.db.WithContext(ctx).
		Model(&workflow.Notification{}).
		Where("recipient_id = ?", recipientID)

	if unread, ok := filter.Filters["unread"]; ok && unread == true {
		query = query.Where("read_at IS NULL")
	}
	if filter.Paginate() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, NotificationSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var notifications []*workflow.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// CountUnread counts a recipient's unread notifications
func (r *GormNotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&workflow.Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, notification *workflow.Notification) error {
	return r.db.WithContext(ctx).Save(notification).Error
}

// Ensure GormNotificationRepository implements NotificationRepository
var _ workflow.NotificationRepository = (*GormNotificationRepository)(nil)

// GormApprovalRequestRepository implements ApprovalRequestRepository using GORM
type GormApprovalRequestRepository struct {
	db *gorm.DB
}

// NewGormApprovalRequestRepository creates a new GormApprovalRequestRepository
func NewGormApprovalRequestRepository(db *gorm.DB) *GormApprovalRequestRepository {
	return &GormApprovalRequestRepository{db: db}
}

// FindByID finds an approval request by its ID
func (r *GormApprovalRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*workflow.ApprovalRequest, error) {
	var request workflow.ApprovalRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindOpenByDocument finds the open review work item for a document
func (r *GormApprovalRequestRepository) FindOpenByDocument(ctx context.Context, documentType string, documentID uuid.UUID) (*workflow.ApprovalRequest, error) {
	var request workflow.ApprovalRequest
	if err := r.db.WithContext(ctx).
		Where("document_type = ? AND document_id = ? AND status = ?",
			documentType, documentID, workflow.ApprovalRequestOpen).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindAll finds approval requests matching the filter
func (r *GormApprovalRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*workflow.ApprovalRequest, error) {
	var requests []*workflow.ApprovalRequest
	query := applyApprovalRequestFilter(r.db.WithContext(ctx).Model(&workflow.ApprovalRequest{}), filter, true)
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Count counts approval requests matching the filter
func (r *GormApprovalRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyApprovalRequestFilter(r.db.WithContext(ctx).Model(&workflow.ApprovalRequest{}), filter, false)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an approval request
func (r *GormApprovalRequestRepository) Save(ctx context.Context, request *workflow.ApprovalRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func applyApprovalRequestFilter(query *gorm.DB, filter shared.Filter, paginate bool) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "document_type":
			query = query.Where("document_type = ?", value)
		case "requested_by":
			query = query.Where("requested_by = ?", value)
		}
	}

	if !paginate {
		return query
	}
	if filter.Paginate() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, ApprovalRequestSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// Ensure GormApprovalRequestRepository implements ApprovalRequestRepository
var _ workflow.ApprovalRequestRepository = (*GormApprovalRequestRepository)(nil)
