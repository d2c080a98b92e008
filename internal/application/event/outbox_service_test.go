package event

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfa/backend/internal/domain/shared"
)

// mockOutboxRepoForService is a mock implementation for testing OutboxService
type mockOutboxRepoForService struct {
	entries map[uuid.UUID]*shared.OutboxEntry
}

func newMockOutboxRepoForService() *mockOutboxRepoForService {
	return &mockOutboxRepoForService{
		entries: make(map[uuid.UUID]*shared.OutboxEntry),
	}
}

func (r *mockOutboxRepoForService) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	return nil
}

func (r *mockOutboxRepoForService) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	if e, ok := r.entries[id]; ok {
		return e, nil
	}
	return nil, shared.ErrNotFound
}

func (r *mockOutboxRepoForService) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusPending {
			result = append(result, e)
			if len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

func (r *mockOutboxRepoForService) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	return nil, nil
}

func (r *mockOutboxRepoForService) FindDead(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusDead {
			result = append(result, e)
		}
	}
	total := int64(len(result))

	start := (page - 1) * pageSize
	if start >= len(result) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

func (r *mockOutboxRepoForService) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	return nil, nil
}

func (r *mockOutboxRepoForService) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	r.entries[entry.ID] = entry
	return nil
}

func (r *mockOutboxRepoForService) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (r *mockOutboxRepoForService) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	counts := make(map[shared.OutboxStatus]int64)
	for _, e := range r.entries {
		counts[e.Status]++
	}
	return counts, nil
}

func newDeadEntry() *shared.OutboxEntry {
	return &shared.OutboxEntry{
		ID:            uuid.New(),
		EventID:       uuid.New(),
		EventType:     "order.created",
		AggregateID:   uuid.New(),
		AggregateType: "Order",
		Status:        shared.OutboxStatusDead,
		RetryCount:    5,
		MaxRetries:    5,
		LastError:     "delivery failed",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func TestOutboxService_ListDead(t *testing.T) {
	repo := newMockOutboxRepoForService()
	service := NewOutboxService(repo)

	for i := 0; i < 5; i++ {
		entry := newDeadEntry()
		repo.entries[entry.ID] = entry
	}

	pendingEntry := &shared.OutboxEntry{
		ID:     uuid.New(),
		Status: shared.OutboxStatusPending,
	}
	repo.entries[pendingEntry.ID] = pendingEntry

	entries, total, err := service.ListDead(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, entries, 5)

	for _, entry := range entries {
		assert.Equal(t, "DEAD", entry.Status)
	}
}

func TestOutboxService_ListDead_DefaultsPagination(t *testing.T) {
	repo := newMockOutboxRepoForService()
	service := NewOutboxService(repo)

	entry := newDeadEntry()
	repo.entries[entry.ID] = entry

	entries, total, err := service.ListDead(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, entries, 1)
}

func TestOutboxService_GetEntry(t *testing.T) {
	repo := newMockOutboxRepoForService()
	service := NewOutboxService(repo)

	entry := newDeadEntry()
	repo.entries[entry.ID] = entry

	resp, err := service.GetEntry(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, resp.ID)
	assert.Equal(t, "order.created", resp.EventType)

	_, err = service.GetEntry(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOutboxService_RetryDead(t *testing.T) {
	repo := newMockOutboxRepoForService()
	service := NewOutboxService(repo)

	deadEntry := newDeadEntry()
	repo.entries[deadEntry.ID] = deadEntry

	result, err := service.RetryDead(context.Background(), deadEntry.ID)
	require.NoError(t, err)
	assert.Equal(t, "PENDING", result.Status)
	assert.Equal(t, 0, result.RetryCount)
	assert.Empty(t, result.LastError)
}

func TestOutboxService_RetryDead_NotFound(t *testing.T) {
	repo := newMockOutboxRepoForService()
	service := NewOutboxService(repo)

	_, err := service.RetryDead(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestOutboxService_RetryDead_NotDead(t *testing.T) {
	repo := newMockOutboxRepoForService()
	service := NewOutboxService(repo)

	entry := &shared.OutboxEntry{
		ID:     uuid.New(),
		Status: shared.OutboxStatusPending,
	}
	repo.entries[entry.ID] = entry

	_, err := service.RetryDead(context.Background(), entry.ID)
	assert.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestOutboxService_Stats(t *testing.T) {
	repo := newMockOutboxRepoForService()
	service := NewOutboxService(repo)

	statuses := []shared.OutboxStatus{
		shared.OutboxStatusPending,
		shared.OutboxStatusPending,
		shared.OutboxStatusProcessing,
		shared.OutboxStatusSent,
		shared.OutboxStatusSent,
		shared.OutboxStatusSent,
		shared.OutboxStatusFailed,
		shared.OutboxStatusDead,
	}

	for _, status := range statuses {
		entry := &shared.OutboxEntry{
			ID:     uuid.New(),
			Status: status,
		}
		repo.entries[entry.ID] = entry
	}

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats["PENDING"])
	assert.Equal(t, int64(1), stats["PROCESSING"])
	assert.Equal(t, int64(3), stats["SENT"])
	assert.Equal(t, int64(1), stats["FAILED"])
	assert.Equal(t, int64(1), stats["DEAD"])
}
