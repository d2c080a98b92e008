package order

import (
	"context"

	"github.com/sfa/backend/internal/domain/inventory"
	"github.com/sfa/backend/internal/domain/order"
	"github.com/sfa/backend/internal/domain/shared"
)

// TransactionalRepositories provides repositories bound to one database
// transaction. Everything obtained from it commits or rolls back together.
type TransactionalRepositories interface {
	Orders() order.Repository
	StockItems() inventory.StockItemRepository
	BatchLots() inventory.BatchLotRepository
	Serials() inventory.SerialNumberRepository
	Movements() inventory.StockMovementRepository
	Outbox() shared.OutboxRepository
}

// TransactionScope executes a function within a single database transaction.
// The order orchestrator runs order write, inventory consumption and outbox
// inserts inside one scope so a failure in any step rolls back all of them.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}
