package order

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sfa/backend/internal/domain/catalog"
	"github.com/sfa/backend/internal/domain/inventory"
	"github.com/sfa/backend/internal/domain/order"
	"github.com/sfa/backend/internal/domain/partner"
	"github.com/sfa/backend/internal/domain/promotion"
	"github.com/sfa/backend/internal/domain/shared"
)

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepo) FindByNumber(ctx context.Context, number string) (*order.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepo) FindAll(ctx context.Context, filter shared.Filter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *mockOrderRepo) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]*order.Order, error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *mockOrderRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOrderRepo) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *mockOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOrderRepo) GenerateOrderNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type mockCustomerRepo struct {
	mock.Mock
}

func (m *mockCustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *mockCustomerRepo) FindByCode(ctx context.Context, code string) (*partner.Customer, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *mockCustomerRepo) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *mockCustomerRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCustomerRepo) CountByStatus(ctx context.Context, status partner.CustomerStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCustomerRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *mockCustomerRepo) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *mockCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockProductRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *mockProductRepo) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockProductRepo) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *mockProductRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProductRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *mockProductRepo) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockPromoRepo struct {
	mock.Mock
}

func (m *mockPromoRepo) FindByID(ctx context.Context, id uuid.UUID) (*promotion.Promotion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promotion.Promotion), args.Error(1)
}

func (m *mockPromoRepo) FindByCode(ctx context.Context, code string) (*promotion.Promotion, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(*promotion.Promotion), args.Error(1)
}

func (m *mockPromoRepo) FindAll(ctx context.Context, filter shared.Filter) ([]*promotion.Promotion, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*promotion.Promotion), args.Error(1)
}

func (m *mockPromoRepo) FindActiveOn(ctx context.Context, date time.Time) ([]*promotion.Promotion, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]*promotion.Promotion), args.Error(1)
}

func (m *mockPromoRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPromoRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *mockPromoRepo) Save(ctx context.Context, promo *promotion.Promotion) error {
	args := m.Called(ctx, promo)
	return args.Error(0)
}

func (m *mockPromoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// fakeStockItemRepo is a minimal in-memory stock balance store
type fakeStockItemRepo struct {
	items map[string]*inventory.StockItem
}

func newFakeStockItemRepo() *fakeStockItemRepo {
	return &fakeStockItemRepo{items: make(map[string]*inventory.StockItem)}
}

func stockKey(productID, depotID uuid.UUID) string {
	return productID.String() + "/" + depotID.String()
}

func (f *fakeStockItemRepo) put(item *inventory.StockItem) {
	f.items[stockKey(item.ProductID, item.DepotID)] = item
}

func (f *fakeStockItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockItem, error) {
	for _, item := range f.items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeStockItemRepo) FindByProductAndDepot(ctx context.Context, productID, depotID uuid.UUID) (*inventory.StockItem, error) {
	if item, ok := f.items[stockKey(productID, depotID)]; ok {
		return item, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeStockItemRepo) FindByProductAndDepotForUpdate(ctx context.Context, productID, depotID uuid.UUID) (*inventory.StockItem, error) {
	return f.FindByProductAndDepot(ctx, productID, depotID)
}

func (f *fakeStockItemRepo) FindAll(ctx context.Context, filter shared.Filter) ([]*inventory.StockItem, error) {
	return nil, nil
}

func (f *fakeStockItemRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(f.items)), nil
}

func (f *fakeStockItemRepo) Save(ctx context.Context, item *inventory.StockItem) error {
	f.put(item)
	return nil
}

// fakeMovementRepo captures written movement rows
type fakeMovementRepo struct {
	rows []*inventory.StockMovement
}

func (f *fakeMovementRepo) FindAll(ctx context.Context, filter shared.Filter) ([]*inventory.StockMovement, error) {
	return f.rows, nil
}

func (f *fakeMovementRepo) FindByReference(ctx context.Context, refType inventory.ReferenceType, refID uuid.UUID) ([]*inventory.StockMovement, error) {
	matched := make([]*inventory.StockMovement, 0)
	for _, row := range f.rows {
		if row.ReferenceType == refType && row.ReferenceID == refID {
			matched = append(matched, row)
		}
	}
	return matched, nil
}

func (f *fakeMovementRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(f.rows)), nil
}

func (f *fakeMovementRepo) Save(ctx context.Context, movement *inventory.StockMovement) error {
	f.rows = append(f.rows, movement)
	return nil
}

// fakeBatchLotRepo holds batch lots in memory
type fakeBatchLotRepo struct {
	lots map[uuid.UUID]*inventory.BatchLot
}

func newFakeBatchLotRepo() *fakeBatchLotRepo {
	return &fakeBatchLotRepo{lots: make(map[uuid.UUID]*inventory.BatchLot)}
}

func (f *fakeBatchLotRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.BatchLot, error) {
	if lot, ok := f.lots[id]; ok {
		return lot, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeBatchLotRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*inventory.BatchLot, error) {
	result := make([]*inventory.BatchLot, 0, len(ids))
	for _, id := range ids {
		if lot, ok := f.lots[id]; ok {
			result = append(result, lot)
		}
	}
	return result, nil
}

func (f *fakeBatchLotRepo) FindByProductAndDepot(ctx context.Context, productID, depotID uuid.UUID) ([]*inventory.BatchLot, error) {
	result := make([]*inventory.BatchLot, 0)
	for _, lot := range f.lots {
		if lot.ProductID == productID && lot.DepotID == depotID {
			result = append(result, lot)
		}
	}
	return result, nil
}

func (f *fakeBatchLotRepo) Save(ctx context.Context, lot *inventory.BatchLot) error {
	f.lots[lot.ID] = lot
	return nil
}

// fakeSerialRepo holds serial units in memory
type fakeSerialRepo struct {
	units map[uuid.UUID]*inventory.SerialNumber
}

func newFakeSerialRepo() *fakeSerialRepo {
	return &fakeSerialRepo{units: make(map[uuid.UUID]*inventory.SerialNumber)}
}

func (f *fakeSerialRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.SerialNumber, error) {
	if unit, ok := f.units[id]; ok {
		return unit, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeSerialRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*inventory.SerialNumber, error) {
	result := make([]*inventory.SerialNumber, 0, len(ids))
	for _, id := range ids {
		if unit, ok := f.units[id]; ok {
			result = append(result, unit)
		}
	}
	return result, nil
}

func (f *fakeSerialRepo) FindBySerial(ctx context.Context, productID uuid.UUID, serial string) (*inventory.SerialNumber, error) {
	for _, unit := range f.units {
		if unit.ProductID == productID && unit.Serial == serial {
			return unit, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeSerialRepo) FindAvailable(ctx context.Context, productID, depotID uuid.UUID) ([]*inventory.SerialNumber, error) {
	result := make([]*inventory.SerialNumber, 0)
	for _, unit := range f.units {
		if unit.ProductID == productID && unit.DepotID == depotID && unit.IsAvailable() {
			result = append(result, unit)
		}
	}
	return result, nil
}

func (f *fakeSerialRepo) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*inventory.SerialNumber, error) {
	result := make([]*inventory.SerialNumber, 0)
	for _, unit := range f.units {
		if unit.SoldOrderID != nil && *unit.SoldOrderID == orderID {
			result = append(result, unit)
		}
	}
	return result, nil
}

func (f *fakeSerialRepo) Save(ctx context.Context, unit *inventory.SerialNumber) error {
	f.units[unit.ID] = unit
	return nil
}

// fakeOutboxRepo captures outbox entries written inside the transaction
type fakeOutboxRepo struct {
	entries []*shared.OutboxEntry
}

func (f *fakeOutboxRepo) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeOutboxRepo) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	for _, e := range f.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeOutboxRepo) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	return f.entries, nil
}

func (f *fakeOutboxRepo) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) FindDead(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	return nil, 0, nil
}

func (f *fakeOutboxRepo) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	return nil
}

func (f *fakeOutboxRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeOutboxRepo) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	return nil, nil
}

// stubScope runs the transaction body directly against the fixture repos
type stubScope struct {
	repos *stubRepos
}

func (s *stubScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.repos)
}

type stubRepos struct {
	orders     *mockOrderRepo
	stockItems *fakeStockItemRepo
	batchLots  *fakeBatchLotRepo
	serials    *fakeSerialRepo
	movements  *fakeMovementRepo
	outbox     *fakeOutboxRepo
}

func (r *stubRepos) Orders() order.Repository                        { return r.orders }
func (r *stubRepos) StockItems() inventory.StockItemRepository       { return r.stockItems }
func (r *stubRepos) BatchLots() inventory.BatchLotRepository         { return r.batchLots }
func (r *stubRepos) Serials() inventory.SerialNumberRepository       { return r.serials }
func (r *stubRepos) Movements() inventory.StockMovementRepository    { return r.movements }
func (r *stubRepos) Outbox() shared.OutboxRepository                 { return r.outbox }

type serviceFixture struct {
	service   *OrderService
	orders    *mockOrderRepo
	customers *mockCustomerRepo
	products  *mockProductRepo
	promos    *mockPromoRepo
	repos     *stubRepos
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		orders:    new(mockOrderRepo),
		customers: new(mockCustomerRepo),
		products:  new(mockProductRepo),
		promos:    new(mockPromoRepo),
	}
	f.repos = &stubRepos{
		orders:     f.orders,
		stockItems: newFakeStockItemRepo(),
		batchLots:  newFakeBatchLotRepo(),
		serials:    newFakeSerialRepo(),
		movements:  &fakeMovementRepo{},
		outbox:     &fakeOutboxRepo{},
	}
	f.service = NewOrderService(&stubScope{repos: f.repos}, f.orders, f.customers, f.products, f.promos)
	return f
}

func activeCustomer(t *testing.T) *partner.Customer {
	t.Helper()
	customer, err := partner.NewCustomer("C-001", "Corner Store", partner.ChannelGeneralTrade)
	require.NoError(t, err)
	return customer
}

func sellableProduct(t *testing.T, price int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("P-001", "Widget", "pcs", decimal.NewFromInt(price), catalog.TrackingNone)
	require.NoError(t, err)
	return product
}

func (f *serviceFixture) seedStock(t *testing.T, productID, depotID uuid.UUID, qty int64) {
	t.Helper()
	item, err := inventory.NewStockItem(productID, depotID)
	require.NoError(t, err)
	require.NoError(t, item.Receive(decimal.NewFromInt(qty)))
	f.repos.stockItems.put(item)
}

func TestOrderService_CreateConfirmsAndConsumes(t *testing.T) {
	f := newServiceFixture()
	customer := activeCustomer(t)
	depotID := uuid.New()
	customer.AssignTerritory(&depotID, nil, nil)
	product := sellableProduct(t, 100)
	actor := uuid.New()

	f.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.orders.On("GenerateOrderNumber", mock.Anything).Return("SO-2026-00042", nil)
	f.orders.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
	f.seedStock(t, product.ID, depotID, 50)

	resp, err := f.service.Create(context.Background(), CreateOrderRequest{
		CustomerID: customer.ID,
		Lines:      []OrderLineInput{{ProductID: product.ID, Quantity: "10"}},
		ActorID:    actor,
	})
	require.NoError(t, err)

	assert.Equal(t, "SO-2026-00042", resp.OrderNumber)
	assert.Equal(t, string(order.StatusConfirmed), resp.Status)
	assert.Equal(t, string(order.ApprovalPending), resp.ApprovalStatus)
	assert.Equal(t, "1000.00", resp.Subtotal)
	assert.Equal(t, "1000.00", resp.TotalAmount)

	// stock drew down and one movement row was written
	item, err := f.repos.stockItems.FindByProductAndDepot(context.Background(), product.ID, depotID)
	require.NoError(t, err)
	assert.True(t, item.AvailableQuantity.Equal(decimal.NewFromInt(40)))
	assert.Len(t, f.repos.movements.rows, 1)

	// order.created landed in the outbox inside the same transaction
	require.Len(t, f.repos.outbox.entries, 1)
	assert.Equal(t, order.EventTypeOrderCreated, f.repos.outbox.entries[0].EventType)
}

func TestOrderService_CreateRequiresActor(t *testing.T) {
	f := newServiceFixture()

	_, err := f.service.Create(context.Background(), CreateOrderRequest{
		CustomerID: uuid.New(),
		Lines:      []OrderLineInput{{ProductID: uuid.New(), Quantity: "1"}},
	})

	assert.ErrorIs(t, err, shared.ErrMissingActor)
}

func TestOrderService_CreateRejectsSuspendedCustomer(t *testing.T) {
	f := newServiceFixture()
	customer := activeCustomer(t)
	customer.Suspend()

	f.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)

	_, err := f.service.Create(context.Background(), CreateOrderRequest{
		CustomerID: customer.ID,
		Lines:      []OrderLineInput{{ProductID: uuid.New(), Quantity: "1"}},
		ActorID:    uuid.New(),
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CUSTOMER_CANNOT_ORDER", domainErr.Code)
}

func TestOrderService_CreateInsufficientStockAborts(t *testing.T) {
	f := newServiceFixture()
	customer := activeCustomer(t)
	depotID := uuid.New()
	customer.AssignTerritory(&depotID, nil, nil)
	product := sellableProduct(t, 100)

	f.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.orders.On("GenerateOrderNumber", mock.Anything).Return("SO-2026-00042", nil)
	f.seedStock(t, product.ID, depotID, 3)

	_, err := f.service.Create(context.Background(), CreateOrderRequest{
		CustomerID: customer.ID,
		Lines:      []OrderLineInput{{ProductID: product.ID, Quantity: "10"}},
		ActorID:    uuid.New(),
	})

	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	// nothing was persisted or queued
	f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	assert.Empty(t, f.repos.outbox.entries)
}

func TestOrderService_CreateWithPromotionAndFreeGift(t *testing.T) {
	f := newServiceFixture()
	customer := activeCustomer(t)
	depotID := uuid.New()
	customer.AssignTerritory(&depotID, nil, nil)
	product := sellableProduct(t, 100)
	gift, err := catalog.NewProduct("P-GIFT", "Sample pack", "pcs", decimal.NewFromInt(5), catalog.TrackingNone)
	require.NoError(t, err)

	promo, err := promotion.NewPromotion("PROMO-01", "Volume deal", time.Now().AddDate(0, 0, -1), time.Now().AddDate(0, 0, 10))
	require.NoError(t, err)
	require.NoError(t, promo.AddCondition(promotion.TargetProduct, product.ID, decimal.Zero, decimal.NewFromInt(500)))
	level, err := promo.AddLevel(decimal.NewFromInt(500), promotion.DiscountPercentage, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, level.AddBenefit(gift.ID, decimal.NewFromInt(2), decimal.Zero))

	f.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.products.On("FindByID", mock.Anything, gift.ID).Return(gift, nil)
	f.promos.On("FindByID", mock.Anything, promo.ID).Return(promo, nil)
	f.orders.On("GenerateOrderNumber", mock.Anything).Return("SO-2026-00043", nil)
	f.orders.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
	f.seedStock(t, product.ID, depotID, 50)
	f.seedStock(t, gift.ID, depotID, 10)

	resp, err := f.service.Create(context.Background(), CreateOrderRequest{
		CustomerID:  customer.ID,
		PromotionID: &promo.ID,
		Lines:       []OrderLineInput{{ProductID: product.ID, Quantity: "10"}},
		ActorID:     uuid.New(),
	})
	require.NoError(t, err)

	// 10 x 100 with a 10 percent discount
	assert.Equal(t, "1000.00", resp.Subtotal)
	assert.Equal(t, "100.00", resp.DiscountAmount)
	assert.Equal(t, "900.00", resp.TotalAmount)

	// the free gift became a zero-priced line and consumed stock
	require.Len(t, resp.Lines, 2)
	assert.True(t, resp.Lines[1].IsFreeGift)
	giftStock, err := f.repos.stockItems.FindByProductAndDepot(context.Background(), gift.ID, depotID)
	require.NoError(t, err)
	assert.True(t, giftStock.AvailableQuantity.Equal(decimal.NewFromInt(8)))
}

func TestOrderService_CreatePromotionThresholdUnmet(t *testing.T) {
	f := newServiceFixture()
	customer := activeCustomer(t)
	depotID := uuid.New()
	customer.AssignTerritory(&depotID, nil, nil)
	product := sellableProduct(t, 10)

	promo, err := promotion.NewPromotion("PROMO-01", "Volume deal", time.Now().AddDate(0, 0, -1), time.Now().AddDate(0, 0, 10))
	require.NoError(t, err)
	_, err = promo.AddLevel(decimal.NewFromInt(10000), promotion.DiscountPercentage, decimal.NewFromInt(10))
	require.NoError(t, err)

	f.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.promos.On("FindByID", mock.Anything, promo.ID).Return(promo, nil)
	f.orders.On("GenerateOrderNumber", mock.Anything).Return("SO-2026-00044", nil)
	f.seedStock(t, product.ID, depotID, 50)

	_, err = f.service.Create(context.Background(), CreateOrderRequest{
		CustomerID:  customer.ID,
		PromotionID: &promo.ID,
		Lines:       []OrderLineInput{{ProductID: product.ID, Quantity: "2"}},
		ActorID:     uuid.New(),
	})

	assert.ErrorIs(t, err, promotion.ErrPromotionThresholdUnmet)
}

func TestOrderService_UpdateReplacesLinesAndRestoresStock(t *testing.T) {
	f := newServiceFixture()
	customer := activeCustomer(t)
	depotID := uuid.New()
	customer.AssignTerritory(&depotID, nil, nil)
	product := sellableProduct(t, 100)
	actor := uuid.New()

	f.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.orders.On("GenerateOrderNumber", mock.Anything).Return("SO-2026-00045", nil)
	f.orders.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
	f.seedStock(t, product.ID, depotID, 50)

	created, err := f.service.Create(context.Background(), CreateOrderRequest{
		CustomerID: customer.ID,
		Lines:      []OrderLineInput{{ProductID: product.ID, Quantity: "10"}},
		ActorID:    actor,
	})
	require.NoError(t, err)

	// approve, then edit: approval must reset to pending
	var stored *order.Order
	for _, call := range f.orders.Calls {
		if call.Method == "Save" {
			stored = call.Arguments.Get(1).(*order.Order)
		}
	}
	require.NotNil(t, stored)
	require.NoError(t, stored.Approve(uuid.New()))
	stored.ClearDomainEvents()
	f.orders.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)

	updated, err := f.service.Update(context.Background(), stored.ID, UpdateOrderRequest{
		Lines:   []OrderLineInput{{ProductID: product.ID, Quantity: "4"}},
		ActorID: actor,
	})
	require.NoError(t, err)

	assert.Equal(t, created.OrderNumber, updated.OrderNumber)
	require.Len(t, updated.Lines, 1)
	assert.Equal(t, "4", updated.Lines[0].Quantity)
	assert.Equal(t, string(order.ApprovalPending), updated.ApprovalStatus)

	// net consumption after the replace is 4, so 46 remain
	item, err := f.repos.stockItems.FindByProductAndDepot(context.Background(), product.ID, depotID)
	require.NoError(t, err)
	assert.True(t, item.AvailableQuantity.Equal(decimal.NewFromInt(46)), "got %s", item.AvailableQuantity)
}

func TestOrderService_DecideApproveAndConflict(t *testing.T) {
	f := newServiceFixture()
	actor := uuid.New()
	o, err := order.NewOrder("SO-2026-00050", uuid.New(), uuid.New(), time.Now(), actor)
	require.NoError(t, err)
	require.NoError(t, o.AddLine(uuid.New(), "P-01", "Widget", decimal.NewFromInt(1), decimal.NewFromInt(10), ""))

	f.orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	f.orders.On("Save", mock.Anything, o).Return(nil)

	approver := uuid.New()
	resp, err := f.service.Decide(context.Background(), o.ID, DecideOrderRequest{Approve: true, ApproverID: approver})
	require.NoError(t, err)
	assert.Equal(t, string(order.ApprovalApproved), resp.ApprovalStatus)
	assert.Equal(t, approver, *resp.ApprovedBy)

	// the approval event went to the outbox
	require.Len(t, f.repos.outbox.entries, 1)
	assert.Equal(t, order.EventTypeOrderApproved, f.repos.outbox.entries[0].EventType)

	// second decision is a conflict
	_, err = f.service.Decide(context.Background(), o.ID, DecideOrderRequest{Approve: false, Reason: "late", ApproverID: approver})
	assert.ErrorIs(t, err, order.ErrApprovalConflict)
}

func TestOrderService_DecideRejectVoidsOrderAndRestoresStock(t *testing.T) {
	f := newServiceFixture()
	customer := activeCustomer(t)
	depotID := uuid.New()
	customer.AssignTerritory(&depotID, nil, nil)
	product := sellableProduct(t, 100)
	actor := uuid.New()

	f.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.orders.On("GenerateOrderNumber", mock.Anything).Return("SO-2026-00052", nil)
	f.orders.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
	f.seedStock(t, product.ID, depotID, 20)

	_, err := f.service.Create(context.Background(), CreateOrderRequest{
		CustomerID: customer.ID,
		Lines:      []OrderLineInput{{ProductID: product.ID, Quantity: "5"}},
		ActorID:    actor,
	})
	require.NoError(t, err)

	var stored *order.Order
	for _, call := range f.orders.Calls {
		if call.Method == "Save" {
			stored = call.Arguments.Get(1).(*order.Order)
		}
	}
	require.NotNil(t, stored)
	stored.ClearDomainEvents()
	f.orders.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)

	approver := uuid.New()
	resp, err := f.service.Decide(context.Background(), stored.ID, DecideOrderRequest{
		Approve:    false,
		Reason:     "credit limit exceeded",
		ApproverID: approver,
	})
	require.NoError(t, err)

	// rejection voids the order and hands the stock back
	assert.Equal(t, string(order.ApprovalRejected), resp.ApprovalStatus)
	assert.Equal(t, string(order.StatusCancelled), resp.Status)
	assert.Equal(t, "credit limit exceeded", resp.RejectReason)

	item, err := f.repos.stockItems.FindByProductAndDepot(context.Background(), product.ID, depotID)
	require.NoError(t, err)
	assert.True(t, item.AvailableQuantity.Equal(decimal.NewFromInt(20)), "got %s", item.AvailableQuantity)
}

func TestOrderService_CancelRestoresStock(t *testing.T) {
	f := newServiceFixture()
	customer := activeCustomer(t)
	depotID := uuid.New()
	customer.AssignTerritory(&depotID, nil, nil)
	product := sellableProduct(t, 100)
	actor := uuid.New()

	f.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.orders.On("GenerateOrderNumber", mock.Anything).Return("SO-2026-00051", nil)
	f.orders.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
	f.seedStock(t, product.ID, depotID, 20)

	_, err := f.service.Create(context.Background(), CreateOrderRequest{
		CustomerID: customer.ID,
		Lines:      []OrderLineInput{{ProductID: product.ID, Quantity: "5"}},
		ActorID:    actor,
	})
	require.NoError(t, err)

	var stored *order.Order
	for _, call := range f.orders.Calls {
		if call.Method == "Save" {
			stored = call.Arguments.Get(1).(*order.Order)
		}
	}
	require.NotNil(t, stored)
	f.orders.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)

	resp, err := f.service.Cancel(context.Background(), stored.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, string(order.StatusCancelled), resp.Status)

	item, err := f.repos.stockItems.FindByProductAndDepot(context.Background(), product.ID, depotID)
	require.NoError(t, err)
	assert.True(t, item.AvailableQuantity.Equal(decimal.NewFromInt(20)))
}
