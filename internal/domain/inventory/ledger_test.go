package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sfa/backend/internal/domain/catalog"
	"github.com/sfa/backend/internal/domain/shared"
)

type mockStockItemRepo struct {
	mock.Mock
}

func (m *mockStockItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*StockItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StockItem), args.Error(1)
}

func (m *mockStockItemRepo) FindByProductAndDepot(ctx context.Context, productID, depotID uuid.UUID) (*StockItem, error) {
	args := m.Called(ctx, productID, depotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StockItem), args.Error(1)
}

func (m *mockStockItemRepo) FindByProductAndDepotForUpdate(ctx context.Context, productID, depotID uuid.UUID) (*StockItem, error) {
	args := m.Called(ctx, productID, depotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StockItem), args.Error(1)
}

func (m *mockStockItemRepo) FindAll(ctx context.Context, filter shared.Filter) ([]*StockItem, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*StockItem), args.Error(1)
}

func (m *mockStockItemRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStockItemRepo) Save(ctx context.Context, item *StockItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

type mockBatchLotRepo struct {
	mock.Mock
}

func (m *mockBatchLotRepo) FindByID(ctx context.Context, id uuid.UUID) (*BatchLot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BatchLot), args.Error(1)
}

func (m *mockBatchLotRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*BatchLot, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*BatchLot), args.Error(1)
}

func (m *mockBatchLotRepo) FindByProductAndDepot(ctx context.Context, productID, depotID uuid.UUID) ([]*BatchLot, error) {
	args := m.Called(ctx, productID, depotID)
	return args.Get(0).([]*BatchLot), args.Error(1)
}

func (m *mockBatchLotRepo) Save(ctx context.Context, lot *BatchLot) error {
	args := m.Called(ctx, lot)
	return args.Error(0)
}

type mockSerialRepo struct {
	mock.Mock
}

func (m *mockSerialRepo) FindByID(ctx context.Context, id uuid.UUID) (*SerialNumber, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SerialNumber), args.Error(1)
}

func (m *mockSerialRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*SerialNumber, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*SerialNumber), args.Error(1)
}

func (m *mockSerialRepo) FindBySerial(ctx context.Context, productID uuid.UUID, serial string) (*SerialNumber, error) {
	args := m.Called(ctx, productID, serial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SerialNumber), args.Error(1)
}

func (m *mockSerialRepo) FindAvailable(ctx context.Context, productID, depotID uuid.UUID) ([]*SerialNumber, error) {
	args := m.Called(ctx, productID, depotID)
	return args.Get(0).([]*SerialNumber), args.Error(1)
}

func (m *mockSerialRepo) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*SerialNumber, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]*SerialNumber), args.Error(1)
}

func (m *mockSerialRepo) Save(ctx context.Context, serial *SerialNumber) error {
	args := m.Called(ctx, serial)
	return args.Error(0)
}

type mockMovementRepo struct {
	mock.Mock
}

func (m *mockMovementRepo) FindAll(ctx context.Context, filter shared.Filter) ([]*StockMovement, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*StockMovement), args.Error(1)
}

func (m *mockMovementRepo) FindByReference(ctx context.Context, refType ReferenceType, refID uuid.UUID) ([]*StockMovement, error) {
	args := m.Called(ctx, refType, refID)
	return args.Get(0).([]*StockMovement), args.Error(1)
}

func (m *mockMovementRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMovementRepo) Save(ctx context.Context, movement *StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

type ledgerFixture struct {
	stockItems *mockStockItemRepo
	batchLots  *mockBatchLotRepo
	serials    *mockSerialRepo
	movements  *mockMovementRepo
	ledger     *Ledger
}

func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{
		stockItems: new(mockStockItemRepo),
		batchLots:  new(mockBatchLotRepo),
		serials:    new(mockSerialRepo),
		movements:  new(mockMovementRepo),
	}
	f.ledger = NewLedger(f.stockItems, f.batchLots, f.serials, f.movements)
	return f
}

func stockWith(t *testing.T, productID, depotID uuid.UUID, qty int64) *StockItem {
	t.Helper()
	item, err := NewStockItem(productID, depotID)
	require.NoError(t, err)
	require.NoError(t, item.Receive(decimal.NewFromInt(qty)))
	return item
}

func TestLedger_ConsumeUntracked(t *testing.T) {
	productID := uuid.New()
	depotID := uuid.New()
	f := newLedgerFixture()

	item := stockWith(t, productID, depotID, 10)
	f.stockItems.On("FindByProductAndDepotForUpdate", mock.Anything, productID, depotID).Return(item, nil)
	f.stockItems.On("Save", mock.Anything, item).Return(nil)
	f.movements.On("Save", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)

	err := f.ledger.ConsumeForSale(context.Background(), ConsumeRequest{
		ProductID:  productID,
		DepotID:    depotID,
		Quantity:   decimal.NewFromInt(4),
		Tracking:   catalog.TrackingNone,
		CustomerID: uuid.New(),
		OrderID:    uuid.New(),
		ActorID:    uuid.New(),
	})

	require.NoError(t, err)
	assert.True(t, item.AvailableQuantity.Equal(decimal.NewFromInt(6)))
	f.movements.AssertNumberOfCalls(t, "Save", 1)
}

func TestLedger_ConsumeUntrackedInsufficient(t *testing.T) {
	productID := uuid.New()
	depotID := uuid.New()
	f := newLedgerFixture()

	item := stockWith(t, productID, depotID, 3)
	f.stockItems.On("FindByProductAndDepotForUpdate", mock.Anything, productID, depotID).Return(item, nil)

	err := f.ledger.ConsumeForSale(context.Background(), ConsumeRequest{
		ProductID:  productID,
		DepotID:    depotID,
		Quantity:   decimal.NewFromInt(5),
		Tracking:   catalog.TrackingNone,
		CustomerID: uuid.New(),
		OrderID:    uuid.New(),
		ActorID:    uuid.New(),
	})

	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.True(t, item.AvailableQuantity.Equal(decimal.NewFromInt(3)), "balance must be untouched on rejection")
}

func TestLedger_ConsumeBalanceLookup(t *testing.T) {
	productID := uuid.New()
	depotID := uuid.New()

	consume := func(f *ledgerFixture) error {
		return f.ledger.ConsumeForSale(context.Background(), ConsumeRequest{
			ProductID:  productID,
			DepotID:    depotID,
			Quantity:   decimal.NewFromInt(1),
			Tracking:   catalog.TrackingNone,
			CustomerID: uuid.New(),
			OrderID:    uuid.New(),
			ActorID:    uuid.New(),
		})
	}

	t.Run("missing balance row reads as no stock", func(t *testing.T) {
		f := newLedgerFixture()
		f.stockItems.On("FindByProductAndDepotForUpdate", mock.Anything, productID, depotID).
			Return(nil, shared.ErrNotFound)

		assert.ErrorIs(t, consume(f), shared.ErrInsufficientStock)
	})

	t.Run("storage failure propagates unchanged", func(t *testing.T) {
		f := newLedgerFixture()
		dbErr := errors.New("connection reset by peer")
		f.stockItems.On("FindByProductAndDepotForUpdate", mock.Anything, productID, depotID).
			Return(nil, dbErr)

		err := consume(f)
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, shared.ErrInsufficientStock)
	})
}

func TestLedger_ConsumeBatch(t *testing.T) {
	productID := uuid.New()
	depotID := uuid.New()
	f := newLedgerFixture()

	lotA, err := NewBatchLot(productID, depotID, "B-001", decimal.NewFromInt(3), nil)
	require.NoError(t, err)
	lotB, err := NewBatchLot(productID, depotID, "B-002", decimal.NewFromInt(5), nil)
	require.NoError(t, err)

	item := stockWith(t, productID, depotID, 8)
	f.stockItems.On("FindByProductAndDepotForUpdate", mock.Anything, productID, depotID).Return(item, nil)
	f.stockItems.On("Save", mock.Anything, item).Return(nil)
	f.batchLots.On("FindByID", mock.Anything, lotA.ID).Return(lotA, nil)
	f.batchLots.On("FindByID", mock.Anything, lotB.ID).Return(lotB, nil)
	f.batchLots.On("Save", mock.Anything, mock.AnythingOfType("*inventory.BatchLot")).Return(nil)
	f.movements.On("Save", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)

	err = f.ledger.ConsumeForSale(context.Background(), ConsumeRequest{
		ProductID: productID,
		DepotID:   depotID,
		Quantity:  decimal.NewFromInt(5),
		Tracking:  catalog.TrackingBatch,
		Batches: []BatchAllocation{
			{BatchLotID: lotA.ID, Quantity: decimal.NewFromInt(3)},
			{BatchLotID: lotB.ID, Quantity: decimal.NewFromInt(2)},
		},
		CustomerID: uuid.New(),
		OrderID:    uuid.New(),
		ActorID:    uuid.New(),
	})

	require.NoError(t, err)
	assert.True(t, lotA.RemainingQuantity.IsZero())
	assert.True(t, lotB.RemainingQuantity.Equal(decimal.NewFromInt(3)))
	// one movement row per batch lot drawn
	f.movements.AssertNumberOfCalls(t, "Save", 2)
}

func TestLedger_ConsumeBatchSumMismatch(t *testing.T) {
	productID := uuid.New()
	depotID := uuid.New()
	f := newLedgerFixture()

	item := stockWith(t, productID, depotID, 10)
	f.stockItems.On("FindByProductAndDepotForUpdate", mock.Anything, productID, depotID).Return(item, nil)
	f.stockItems.On("Save", mock.Anything, item).Return(nil)

	err := f.ledger.ConsumeForSale(context.Background(), ConsumeRequest{
		ProductID: productID,
		DepotID:   depotID,
		Quantity:  decimal.NewFromInt(5),
		Tracking:  catalog.TrackingBatch,
		Batches: []BatchAllocation{
			{BatchLotID: uuid.New(), Quantity: decimal.NewFromInt(3)},
			{BatchLotID: uuid.New(), Quantity: decimal.NewFromInt(1)},
		},
		CustomerID: uuid.New(),
		OrderID:    uuid.New(),
		ActorID:    uuid.New(),
	})

	assert.ErrorIs(t, err, ErrBatchQuantityMismatch)
}

func TestLedger_ConsumeBatchInsufficientLot(t *testing.T) {
	productID := uuid.New()
	depotID := uuid.New()
	f := newLedgerFixture()

	// lot A holds 3, lot B holds only 1; allocations ask for 3 and 2
	lotA, err := NewBatchLot(productID, depotID, "B-001", decimal.NewFromInt(3), nil)
	require.NoError(t, err)
	lotB, err := NewBatchLot(productID, depotID, "B-002", decimal.NewFromInt(1), nil)
	require.NoError(t, err)

	item := stockWith(t, productID, depotID, 4)
	f.stockItems.On("FindByProductAndDepotForUpdate", mock.Anything, productID, depotID).Return(item, nil)
	f.stockItems.On("Save", mock.Anything, item).Return(nil)
	f.batchLots.On("FindByID", mock.Anything, lotA.ID).Return(lotA, nil)
	f.batchLots.On("FindByID", mock.Anything, lotB.ID).Return(lotB, nil)
	f.batchLots.On("Save", mock.Anything, mock.AnythingOfType("*inventory.BatchLot")).Return(nil)
	f.movements.On("Save", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)

	err = f.ledger.ConsumeForSale(context.Background(), ConsumeRequest{
		ProductID: productID,
		DepotID:   depotID,
		Quantity:  decimal.NewFromInt(4),
		Tracking:  catalog.TrackingBatch,
		Batches: []BatchAllocation{
			{BatchLotID: lotA.ID, Quantity: decimal.NewFromInt(3)},
			{BatchLotID: lotB.ID, Quantity: decimal.NewFromInt(2)},
		},
		CustomerID: uuid.New(),
		OrderID:    uuid.New(),
		ActorID:    uuid.New(),
	})

	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
}

func TestLedger_ConsumeSerials(t *testing.T) {
	productID := uuid.New()
	depotID := uuid.New()
	customerID := uuid.New()
	orderID := uuid.New()
	f := newLedgerFixture()

	unitA, err := NewSerialNumber(productID, depotID, "SN-001")
	require.NoError(t, err)
	unitB, err := NewSerialNumber(productID, depotID, "SN-002")
	require.NoError(t, err)

	item := stockWith(t, productID, depotID, 2)
	f.stockItems.On("FindByProductAndDepotForUpdate", mock.Anything, productID, depotID).Return(item, nil)
	f.stockItems.On("Save", mock.Anything, item).Return(nil)
	f.serials.On("FindByID", mock.Anything, unitA.ID).Return(unitA, nil)
	f.serials.On("FindByID", mock.Anything, unitB.ID).Return(unitB, nil)
	f.serials.On("Save", mock.Anything, mock.AnythingOfType("*inventory.SerialNumber")).Return(nil)

	var saved []*StockMovement
	f.movements.On("Save", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).
		Run(func(args mock.Arguments) {
			saved = append(saved, args.Get(1).(*StockMovement))
		}).
		Return(nil)

	err = f.ledger.ConsumeForSale(context.Background(), ConsumeRequest{
		ProductID:  productID,
		DepotID:    depotID,
		Quantity:   decimal.NewFromInt(2),
		Tracking:   catalog.TrackingSerial,
		SerialIDs:  []uuid.UUID{unitA.ID, unitB.ID},
		CustomerID: customerID,
		OrderID:    orderID,
		ActorID:    uuid.New(),
	})

	require.NoError(t, err)
	assert.Equal(t, SerialStatusSold, unitA.Status)
	assert.Equal(t, customerID, *unitA.SoldCustomerID)
	assert.Equal(t, orderID, *unitB.SoldOrderID)

	// One movement per serial unit, each traceable to the unit it consumed
	require.Len(t, saved, 2)
	assert.Equal(t, unitA.ID, *saved[0].SerialNumberID)
	assert.Equal(t, unitB.ID, *saved[1].SerialNumberID)
	for _, m := range saved {
		assert.True(t, m.Quantity.Equal(decimal.NewFromInt(-1)))
		assert.Equal(t, orderID, m.ReferenceID)
	}
}

func TestLedger_ConsumeSerialCountMismatch(t *testing.T) {
	productID := uuid.New()
	depotID := uuid.New()
	f := newLedgerFixture()

	item := stockWith(t, productID, depotID, 5)
	f.stockItems.On("FindByProductAndDepotForUpdate", mock.Anything, productID, depotID).Return(item, nil)
	f.stockItems.On("Save", mock.Anything, item).Return(nil)

	err := f.ledger.ConsumeForSale(context.Background(), ConsumeRequest{
		ProductID:  productID,
		DepotID:    depotID,
		Quantity:   decimal.NewFromInt(3),
		Tracking:   catalog.TrackingSerial,
		SerialIDs:  []uuid.UUID{uuid.New(), uuid.New()},
		CustomerID: uuid.New(),
		OrderID:    uuid.New(),
		ActorID:    uuid.New(),
	})

	assert.ErrorIs(t, err, ErrSerialCountMismatch)
}

func TestLedger_ConsumeSoldSerialRejected(t *testing.T) {
	productID := uuid.New()
	depotID := uuid.New()
	f := newLedgerFixture()

	unit, err := NewSerialNumber(productID, depotID, "SN-001")
	require.NoError(t, err)
	require.NoError(t, unit.MarkSold(uuid.New(), uuid.New()))

	item := stockWith(t, productID, depotID, 5)
	f.stockItems.On("FindByProductAndDepotForUpdate", mock.Anything, productID, depotID).Return(item, nil)
	f.stockItems.On("Save", mock.Anything, item).Return(nil)
	f.serials.On("FindByID", mock.Anything, unit.ID).Return(unit, nil)

	err = f.ledger.ConsumeForSale(context.Background(), ConsumeRequest{
		ProductID:  productID,
		DepotID:    depotID,
		Quantity:   decimal.NewFromInt(1),
		Tracking:   catalog.TrackingSerial,
		SerialIDs:  []uuid.UUID{unit.ID},
		CustomerID: uuid.New(),
		OrderID:    uuid.New(),
		ActorID:    uuid.New(),
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SERIAL_UNAVAILABLE", domainErr.Code)
}

func TestLedger_MissingActor(t *testing.T) {
	f := newLedgerFixture()

	err := f.ledger.ConsumeForSale(context.Background(), ConsumeRequest{
		ProductID:  uuid.New(),
		DepotID:    uuid.New(),
		Quantity:   decimal.NewFromInt(1),
		Tracking:   catalog.TrackingNone,
		CustomerID: uuid.New(),
		OrderID:    uuid.New(),
	})

	assert.ErrorIs(t, err, shared.ErrMissingActor)
}

func TestLedger_ReceiveCreatesStockItem(t *testing.T) {
	productID := uuid.New()
	depotID := uuid.New()
	f := newLedgerFixture()

	f.stockItems.On("FindByProductAndDepot", mock.Anything, productID, depotID).Return(nil, shared.ErrNotFound)
	f.stockItems.On("Save", mock.Anything, mock.AnythingOfType("*inventory.StockItem")).Return(nil)
	f.movements.On("Save", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)

	err := f.ledger.Receive(context.Background(), ReceiveRequest{
		ProductID: productID,
		DepotID:   depotID,
		Quantity:  decimal.NewFromInt(20),
		Tracking:  catalog.TrackingNone,
		ActorID:   uuid.New(),
	})

	require.NoError(t, err)
	f.stockItems.AssertCalled(t, "Save", mock.Anything, mock.AnythingOfType("*inventory.StockItem"))
}

func TestLedger_ReceiveBatchRequiresNumber(t *testing.T) {
	f := newLedgerFixture()

	err := f.ledger.Receive(context.Background(), ReceiveRequest{
		ProductID: uuid.New(),
		DepotID:   uuid.New(),
		Quantity:  decimal.NewFromInt(10),
		Tracking:  catalog.TrackingBatch,
		ActorID:   uuid.New(),
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_BATCH", domainErr.Code)
}
