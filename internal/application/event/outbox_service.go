// Package event provides application services for outbox administration.
package event

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/shared"
)

// OutboxService exposes outbox administration operations: inspecting the
// dead letter queue, requeueing dead entries and reading delivery stats.
type OutboxService struct {
	outboxRepo shared.OutboxRepository
}

// NewOutboxService creates a new OutboxService
func NewOutboxService(outboxRepo shared.OutboxRepository) *OutboxService {
	return &OutboxService{outboxRepo: outboxRepo}
}

// OutboxEntryResponse is the API representation of an outbox entry
type OutboxEntryResponse struct {
	ID            uuid.UUID  `json:"id"`
	EventID       uuid.UUID  `json:"event_id"`
	EventType     string     `json:"event_type"`
	AggregateID   uuid.UUID  `json:"aggregate_id"`
	AggregateType string     `json:"aggregate_type"`
	Status        string     `json:"status"`
	RetryCount    int        `json:"retry_count"`
	MaxRetries    int        `json:"max_retries"`
	LastError     string     `json:"last_error,omitempty"`
	NextRetryAt   *time.Time `json:"next_retry_at,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ToOutboxEntryResponse converts an outbox entry to its API representation
func ToOutboxEntryResponse(e *shared.OutboxEntry) OutboxEntryResponse {
	return OutboxEntryResponse{
		ID:            e.ID,
		EventID:       e.EventID,
		EventType:     e.EventType,
		AggregateID:   e.AggregateID,
		AggregateType: e.AggregateType,
		Status:        string(e.Status),
		RetryCount:    e.RetryCount,
		MaxRetries:    e.MaxRetries,
		LastError:     e.LastError,
		NextRetryAt:   e.NextRetryAt,
		ProcessedAt:   e.ProcessedAt,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// GetEntry retrieves a single outbox entry by ID
func (s *OutboxService) GetEntry(ctx context.Context, id uuid.UUID) (*OutboxEntryResponse, error) {
	entry, err := s.outboxRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOutboxEntryResponse(entry)
	return &resp, nil
}

// ListDead retrieves dead letter entries with pagination
func (s *OutboxService) ListDead(ctx context.Context, page, pageSize int) ([]OutboxEntryResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	entries, total, err := s.outboxRepo.FindDead(ctx, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OutboxEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, ToOutboxEntryResponse(entry))
	}
	return responses, total, nil
}

// RetryDead requeues a dead letter entry for delivery
func (s *OutboxService) RetryDead(ctx context.Context, id uuid.UUID) (*OutboxEntryResponse, error) {
	entry, err := s.outboxRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := entry.ResetForRetry(); err != nil {
		return nil, shared.NewDomainError("INVALID_STATE", err.Error())
	}

	if err := s.outboxRepo.Update(ctx, entry); err != nil {
		return nil, err
	}

	resp := ToOutboxEntryResponse(entry)
	return &resp, nil
}

// Stats returns outbox entry counts grouped by status
func (s *OutboxService) Stats(ctx context.Context) (map[string]int64, error) {
	counts, err := s.outboxRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]int64, len(counts))
	for status, count := range counts {
		stats[string(status)] = count
	}
	return stats, nil
}
