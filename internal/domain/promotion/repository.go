package promotion

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/shared"
)

// Repository defines the persistence interface for promotions
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Promotion, error)
	FindByCode(ctx context.Context, code string) (*Promotion, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Promotion, error)
	FindActiveOn(ctx context.Context, date time.Time) ([]*Promotion, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, promo *Promotion) error
	Delete(ctx context.Context, id uuid.UUID) error
}
