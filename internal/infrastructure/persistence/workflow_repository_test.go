package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/sfa/backend/internal/domain/shared"
	"github.com/sfa/backend/internal/domain/workflow"
)

func TestGormNotificationRepository_FindByRecipient(t *testing.T) {
	t.Run("filters unread when requested", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormNotificationRepository(gormDB)

		recipientID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "recipient_id", "kind", "title", "ref_type", "ref_id"}).
			AddRow(uuid.New(), recipientID, "ORDER_CREATED", "Order ORD-1 created", "ORDER", uuid.New())

		mock.ExpectQuery(`SELECT \* FROM "notifications" WHERE recipient_id = \$1 AND read_at IS NULL ORDER BY created_at DESC LIMIT .*`).
			WithArgs(recipientID, 20).
			WillReturnRows(rows)

		filter := shared.DefaultFilter()
		filter.Filters["unread"] = true

		notifications, err := repo.FindByRecipient(context.Background(), recipientID, filter)

		assert.NoError(t, err)
		assert.Len(t, notifications, 1)
		assert.False(t, notifications[0].IsRead())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns all notifications without unread filter", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormNotificationRepository(gormDB)

		recipientID := uuid.New()
		readAt := time.Now()

		rows := sqlmock.NewRows([]string{"id", "recipient_id", "kind", "title", "ref_type", "ref_id", "read_at"}).
			AddRow(uuid.New(), recipientID, "ORDER_CREATED", "Order ORD-1 created", "ORDER", uuid.New(), nil).
			AddRow(uuid.New(), recipientID, "ORDER_APPROVED", "Order ORD-2 approved", "ORDER", uuid.New(), readAt)

		mock.ExpectQuery(`SELECT \* FROM "notifications" WHERE recipient_id = \$1 ORDER BY created_at DESC LIMIT .*`).
			WithArgs(recipientID, 20).
			WillReturnRows(rows)

		notifications, err := repo.FindByRecipient(context.Background(), recipientID, shared.DefaultFilter())

		assert.NoError(t, err)
		assert.Len(t, notifications, 2)
		assert.True(t, notifications[1].IsRead())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormNotificationRepository_CountUnread(t *testing.T) {
	gormDB, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormNotificationRepository(gormDB)

	recipientID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "notifications" WHERE recipient_id = \$1 AND read_at IS NULL`).
		WithArgs(recipientID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountUnread(context.Background(), recipientID)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormApprovalRequestRepository_FindOpenByDocument(t *testing.T) {
	t.Run("finds open request", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormApprovalRequestRepository(gormDB)

		documentID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "document_type", "document_id", "document_ref", "requested_by", "status"}).
			AddRow(uuid.New(), "ORDER", documentID, "ORD-20260829-0001", uuid.New(), "OPEN")

		mock.ExpectQuery(`SELECT \* FROM "approval_requests" WHERE document_type = \$1 AND document_id = \$2 AND status = \$3 ORDER BY .* LIMIT .*`).
			WithArgs("ORDER", documentID, workflow.ApprovalRequestOpen, 1).
			WillReturnRows(rows)

		request, err := repo.FindOpenByDocument(context.Background(), "ORDER", documentID)

		assert.NoError(t, err)
		assert.True(t, request.IsOpen())
		assert.Equal(t, documentID, request.DocumentID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when no open request exists", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormApprovalRequestRepository(gormDB)

		documentID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "approval_requests" WHERE document_type = \$1 AND document_id = \$2 AND status = \$3 ORDER BY .* LIMIT .*`).
			WithArgs("ORDER", documentID, workflow.ApprovalRequestOpen, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		request, err := repo.FindOpenByDocument(context.Background(), "ORDER", documentID)

		assert.Nil(t, request)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormApprovalRequestRepository_FindAll(t *testing.T) {
	t.Run("applies status filter", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormApprovalRequestRepository(gormDB)

		rows := sqlmock.NewRows([]string{"id", "document_type", "document_id", "document_ref", "requested_by", "status"}).
			AddRow(uuid.New(), "ORDER", uuid.New(), "ORD-20260829-0001", uuid.New(), "OPEN")

		mock.ExpectQuery(`SELECT \* FROM "approval_requests" WHERE status = \$1 ORDER BY created_at DESC LIMIT .*`).
			WithArgs("OPEN", 20).
			WillReturnRows(rows)

		filter := shared.DefaultFilter()
		filter.Filters["status"] = "OPEN"

		requests, err := repo.FindAll(context.Background(), filter)

		assert.NoError(t, err)
		assert.Len(t, requests, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
