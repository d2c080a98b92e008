package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/shared"
)

// Repository defines the persistence interface for orders
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByNumber(ctx context.Context, orderNumber string) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Order, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]*Order, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id uuid.UUID) error

	// GenerateOrderNumber returns the next unique number in the SO-YYYY-NNNNN
	// sequence. Implementations find the current maximum, increment, and
	// re-check uniqueness with bounded retries before falling back to a
	// timestamp-derived suffix.
	GenerateOrderNumber(ctx context.Context) (string, error)
}
