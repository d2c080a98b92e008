package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/shared"
)

// CustomerRepository defines persistence operations for customers
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByCode(ctx context.Context, code string) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByStatus(ctx context.Context, status CustomerStatus) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DepotRepository defines persistence operations for depots
type DepotRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Depot, error)
	FindByCode(ctx context.Context, code string) (*Depot, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Depot, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, depot *Depot) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ZoneRepository defines persistence operations for zones
type ZoneRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Zone, error)
	FindByDepot(ctx context.Context, depotID uuid.UUID, filter shared.Filter) ([]Zone, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Zone, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, zone *Zone) error
	Delete(ctx context.Context, id uuid.UUID) error
}
