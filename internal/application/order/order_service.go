package order

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sfa/backend/internal/domain/catalog"
	"github.com/sfa/backend/internal/domain/inventory"
	"github.com/sfa/backend/internal/domain/order"
	"github.com/sfa/backend/internal/domain/partner"
	"github.com/sfa/backend/internal/domain/promotion"
	"github.com/sfa/backend/internal/domain/shared"
)

// OrderService orchestrates order processing: validation, promotion
// evaluation, pricing, inventory consumption and outbox writes all happen
// inside one transaction per request.
type OrderService struct {
	scope        TransactionScope
	orderRepo    order.Repository
	customerRepo partner.CustomerRepository
	productRepo  catalog.ProductRepository
	promoRepo    promotion.Repository
	evaluator    *promotion.Evaluator
}

// NewOrderService creates a new OrderService
func NewOrderService(
	scope TransactionScope,
	orderRepo order.Repository,
	customerRepo partner.CustomerRepository,
	productRepo catalog.ProductRepository,
	promoRepo promotion.Repository,
) *OrderService {
	return &OrderService{
		scope:        scope,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		promoRepo:    promoRepo,
		evaluator:    promotion.NewEvaluator(),
	}
}

type resolvedLine struct {
	input     OrderLineInput
	product   *catalog.Product
	quantity  decimal.Decimal
	unitPrice decimal.Decimal
	remark    string
}

// Create creates, prices and confirms an order in a single transaction
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	if req.ActorID == uuid.Nil {
		return nil, shared.ErrMissingActor
	}

	customer, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.CanOrder() {
		return nil, shared.NewDomainError("CUSTOMER_CANNOT_ORDER", "Customer is not allowed to place orders")
	}

	depotID, err := resolveDepot(req.DepotID, customer)
	if err != nil {
		return nil, err
	}

	lines, err := s.resolveLines(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	tax, shipping, err := parseCharges(req.TaxAmount, req.ShippingFee)
	if err != nil {
		return nil, err
	}

	orderDate := time.Now()
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}

	var created *order.Order
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		number, err := repos.Orders().GenerateOrderNumber(ctx)
		if err != nil {
			return err
		}

		o, err := order.NewOrder(number, customer.ID, depotID, orderDate, req.ActorID)
		if err != nil {
			return err
		}
		o.SalespersonID = customer.SalespersonID
		o.RouteID = customer.RouteID
		o.Remark = req.Remark

		if err := s.buildOrder(ctx, repos, o, customer, depotID, lines, req.PromotionID, tax, shipping, orderDate, req.ActorID); err != nil {
			return err
		}

		o.AddDomainEvent(order.NewOrderCreatedEvent(o, req.ActorID))
		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}
		if err := saveEventsToOutbox(ctx, repos.Outbox(), o.GetDomainEvents()); err != nil {
			return err
		}
		o.ClearDomainEvents()

		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToOrderResponse(created)
	return &resp, nil
}

// Update replaces an order's lines wholesale. Previously consumed inventory
// is returned before the new lines consume it again, and the approval state
// goes back to pending.
func (s *OrderService) Update(ctx context.Context, orderID uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	if req.ActorID == uuid.Nil {
		return nil, shared.ErrMissingActor
	}

	lines, err := s.resolveLines(ctx, req.Lines)
	if err != nil {
		return nil, err
	}
	tax, shipping, err := parseCharges(req.TaxAmount, req.ShippingFee)
	if err != nil {
		return nil, err
	}

	var updated *order.Order
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !o.IsEditable() {
			return shared.NewDomainError("INVALID_STATE", "Cancelled orders cannot be edited")
		}

		customer, err := s.customerRepo.FindByID(ctx, o.CustomerID)
		if err != nil {
			return err
		}

		if err := s.restoreOrderInventory(ctx, repos, o, req.ActorID); err != nil {
			return err
		}

		o.ClearLines()
		o.PromotionID = nil
		o.DiscountAmount = decimal.Zero
		o.Remark = req.Remark

		if err := s.buildOrder(ctx, repos, o, customer, o.DepotID, lines, req.PromotionID, tax, shipping, o.OrderDate, req.ActorID); err != nil {
			return err
		}

		o.ResetApproval()
		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}

		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToOrderResponse(updated)
	return &resp, nil
}

// Decide approves or rejects an order. Deciding twice is a conflict.
func (s *OrderService) Decide(ctx context.Context, orderID uuid.UUID, req DecideOrderRequest) (*OrderResponse, error) {
	if req.ApproverID == uuid.Nil {
		return nil, shared.ErrMissingActor
	}

	var decided *order.Order
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		if req.Approve {
			err = o.Approve(req.ApproverID)
		} else {
			err = o.Reject(req.ApproverID, req.Reason)
		}
		if err != nil {
			return err
		}

		// Rejection voids the order, so its consumed stock goes back
		if !req.Approve {
			if err := s.restoreOrderInventory(ctx, repos, o, req.ApproverID); err != nil {
				return err
			}
		}

		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}
		if err := saveEventsToOutbox(ctx, repos.Outbox(), o.GetDomainEvents()); err != nil {
			return err
		}
		o.ClearDomainEvents()

		decided = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToOrderResponse(decided)
	return &resp, nil
}

// Cancel voids an order and returns its consumed inventory to stock
func (s *OrderService) Cancel(ctx context.Context, orderID, actorID uuid.UUID) (*OrderResponse, error) {
	if actorID == uuid.Nil {
		return nil, shared.ErrMissingActor
	}

	var cancelled *order.Order
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := o.Cancel(); err != nil {
			return err
		}
		if err := s.restoreOrderInventory(ctx, repos, o, actorID); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}
		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToOrderResponse(cancelled)
	return &resp, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// GetByNumber retrieves an order by its order number
func (s *OrderService) GetByNumber(ctx context.Context, number string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.DepotID != nil {
		domainFilter.Filters["depot_id"] = *filter.DepotID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = *filter.Status
	}
	if filter.ApprovalStatus != nil {
		domainFilter.Filters["approval_status"] = *filter.ApprovalStatus
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderListItemResponse, 0, len(orders))
	for _, o := range orders {
		responses = append(responses, ToOrderListItemResponse(o))
	}
	return responses, total, nil
}

// buildOrder fills an empty order: paid lines, promotion evaluation, free
// gifts, charges, confirmation and per-line inventory consumption.
func (s *OrderService) buildOrder(
	ctx context.Context,
	repos TransactionalRepositories,
	o *order.Order,
	customer *partner.Customer,
	depotID uuid.UUID,
	lines []resolvedLine,
	promotionID *uuid.UUID,
	tax, shipping decimal.Decimal,
	orderDate time.Time,
	actorID uuid.UUID,
) error {
	for i := range lines {
		line := &lines[i]
		remark, err := s.describeTracking(ctx, repos, line)
		if err != nil {
			return err
		}
		line.remark = joinRemark(line.input.Remark, remark)
		if err := o.AddLine(line.product.ID, line.product.Code, line.product.Name, line.quantity, line.unitPrice, line.remark); err != nil {
			return err
		}
	}

	var promoResult *promotion.Result
	if promotionID != nil {
		promo, err := s.promoRepo.FindByID(ctx, *promotionID)
		if err != nil {
			return shared.NewDomainError("PROMOTION_NOT_FOUND", "Requested promotion does not exist")
		}
		promoResult, err = s.evaluator.Evaluate(promo, s.promotionContext(customer, depotID, orderDate, lines))
		if err != nil {
			return err
		}
	}

	if err := o.ApplyCharges(decimal.Zero, tax, shipping); err != nil {
		return err
	}
	if promoResult != nil {
		if err := o.ApplyPromotion(promoResult.PromotionID, promoResult.DiscountAmount); err != nil {
			return err
		}
	}

	if o.Status == order.StatusDraft {
		if err := o.Confirm(); err != nil {
			return err
		}
	}

	ledger := inventory.NewLedger(repos.StockItems(), repos.BatchLots(), repos.Serials(), repos.Movements())

	for _, line := range lines {
		if err := ledger.ConsumeForSale(ctx, inventory.ConsumeRequest{
			ProductID:  line.product.ID,
			DepotID:    depotID,
			Quantity:   line.quantity,
			Tracking:   line.product.Tracking,
			Batches:    toBatchAllocations(line.input.Batches, line.quantity),
			SerialIDs:  line.input.SerialIDs,
			CustomerID: customer.ID,
			OrderID:    o.ID,
			ActorID:    actorID,
		}); err != nil {
			return err
		}
	}

	if promoResult != nil {
		for _, gift := range promoResult.FreeItems {
			if err := s.addFreeGift(ctx, repos, ledger, o, customer, depotID, gift, promoResult.PromotionCode, actorID); err != nil {
				return err
			}
		}
	}
	return nil
}

// addFreeGift appends a free line and consumes its stock. Tracked gift
// products are auto-allocated: oldest batch lots first, any available serials.
func (s *OrderService) addFreeGift(
	ctx context.Context,
	repos TransactionalRepositories,
	ledger *inventory.Ledger,
	o *order.Order,
	customer *partner.Customer,
	depotID uuid.UUID,
	gift promotion.FreeItem,
	promoCode string,
	actorID uuid.UUID,
) error {
	product, err := s.productRepo.FindByID(ctx, gift.ProductID)
	if err != nil {
		return err
	}

	req := inventory.ConsumeRequest{
		ProductID:  product.ID,
		DepotID:    depotID,
		Quantity:   gift.Quantity,
		Tracking:   product.Tracking,
		CustomerID: customer.ID,
		OrderID:    o.ID,
		ActorID:    actorID,
	}

	var detail string
	switch product.Tracking {
	case catalog.TrackingBatch:
		req.Batches, detail, err = s.autoAllocateBatches(ctx, repos, product.ID, depotID, gift.Quantity)
	case catalog.TrackingSerial:
		req.SerialIDs, detail, err = s.autoAllocateSerials(ctx, repos, product.ID, depotID, gift.Quantity)
	}
	if err != nil {
		return err
	}

	remark := "free gift (" + promoCode + ")"
	if detail != "" {
		remark += " " + detail
	}
	if err := o.AddFreeGiftLine(product.ID, product.Code, product.Name, gift.Quantity, remark); err != nil {
		return err
	}
	return ledger.ConsumeForSale(ctx, req)
}

func (s *OrderService) autoAllocateBatches(ctx context.Context, repos TransactionalRepositories, productID, depotID uuid.UUID, quantity decimal.Decimal) ([]inventory.BatchAllocation, string, error) {
	lots, err := repos.BatchLots().FindByProductAndDepot(ctx, productID, depotID)
	if err != nil {
		return nil, "", err
	}

	allocations := make([]inventory.BatchAllocation, 0, 2)
	details := make([]string, 0, 2)
	remaining := quantity
	for _, lot := range lots {
		if remaining.IsZero() {
			break
		}
		if lot.RemainingQuantity.LessThanOrEqual(decimal.Zero) {
			continue
		}
		take := decimal.Min(remaining, lot.RemainingQuantity)
		allocations = append(allocations, inventory.BatchAllocation{BatchLotID: lot.ID, Quantity: take})
		details = append(details, fmt.Sprintf("%s x%s", lot.BatchNumber, take.String()))
		remaining = remaining.Sub(take)
	}
	if !remaining.IsZero() {
		return nil, "", shared.ErrInsufficientStock
	}
	return allocations, "[" + strings.Join(details, ", ") + "]", nil
}

func (s *OrderService) autoAllocateSerials(ctx context.Context, repos TransactionalRepositories, productID, depotID uuid.UUID, quantity decimal.Decimal) ([]uuid.UUID, string, error) {
	units, err := repos.Serials().FindAvailable(ctx, productID, depotID)
	if err != nil {
		return nil, "", err
	}
	needed := int(quantity.IntPart())
	if !quantity.Equal(decimal.NewFromInt(int64(needed))) || len(units) < needed {
		return nil, "", shared.ErrInsufficientStock
	}

	ids := make([]uuid.UUID, 0, needed)
	serials := make([]string, 0, needed)
	for _, u := range units[:needed] {
		ids = append(ids, u.ID)
		serials = append(serials, u.Serial)
	}
	return ids, "[" + strings.Join(serials, ", ") + "]", nil
}

// describeTracking renders the batch or serial detail of a paid line for the
// line remark, so the picking document names the exact units.
func (s *OrderService) describeTracking(ctx context.Context, repos TransactionalRepositories, line *resolvedLine) (string, error) {
	switch line.product.Tracking {
	case catalog.TrackingBatch:
		if len(line.input.Batches) == 0 {
			return "", shared.NewDomainError("BATCH_REQUIRED", "Batch allocations are required for product "+line.product.Code)
		}
		details := make([]string, 0, len(line.input.Batches))
		for _, alloc := range line.input.Batches {
			lot, err := repos.BatchLots().FindByID(ctx, alloc.BatchLotID)
			if err != nil {
				return "", inventory.ErrBatchNotFound
			}
			details = append(details, lot.BatchNumber+" x"+alloc.Quantity)
		}
		return "[" + strings.Join(details, ", ") + "]", nil
	case catalog.TrackingSerial:
		if len(line.input.SerialIDs) == 0 {
			return "", shared.NewDomainError("SERIAL_REQUIRED", "Serial numbers are required for product "+line.product.Code)
		}
		serials := make([]string, 0, len(line.input.SerialIDs))
		for _, id := range line.input.SerialIDs {
			unit, err := repos.Serials().FindByID(ctx, id)
			if err != nil {
				return "", inventory.ErrSerialNotFound
			}
			serials = append(serials, unit.Serial)
		}
		return "[" + strings.Join(serials, ", ") + "]", nil
	}
	return "", nil
}

// restoreOrderInventory reverses the order's net outstanding consumption.
// Netting SALE against RETURN movements keeps the reversal idempotent across
// repeated edits.
func (s *OrderService) restoreOrderInventory(ctx context.Context, repos TransactionalRepositories, o *order.Order, actorID uuid.UUID) error {
	movements, err := repos.Movements().FindByReference(ctx, inventory.ReferenceOrder, o.ID)
	if err != nil {
		return err
	}

	type unitKey struct {
		productID uuid.UUID
		batchID   uuid.UUID
	}
	net := make(map[unitKey]decimal.Decimal)
	for _, m := range movements {
		if m.MovementType != inventory.MovementSale && m.MovementType != inventory.MovementReturn {
			continue
		}
		key := unitKey{productID: m.ProductID}
		if m.BatchLotID != nil {
			key.batchID = *m.BatchLotID
		}
		net[key] = net[key].Add(m.Quantity)
	}

	productTotals := make(map[uuid.UUID]decimal.Decimal)
	for key, qty := range net {
		if !qty.IsNegative() {
			continue
		}
		restore := qty.Neg()

		if key.batchID != uuid.Nil {
			lot, err := repos.BatchLots().FindByID(ctx, key.batchID)
			if err != nil {
				return err
			}
			if err := lot.Restore(restore); err != nil {
				return err
			}
			if err := repos.BatchLots().Save(ctx, lot); err != nil {
				return err
			}
		}
		productTotals[key.productID] = productTotals[key.productID].Add(restore)

		movement, err := inventory.NewStockMovement(key.productID, o.DepotID, inventory.MovementReturn, restore, inventory.ReferenceOrder, o.ID, actorID)
		if err != nil {
			return err
		}
		if key.batchID != uuid.Nil {
			movement.WithBatchLot(key.batchID)
		}
		if err := repos.Movements().Save(ctx, movement); err != nil {
			return err
		}
	}

	for productID, qty := range productTotals {
		item, err := repos.StockItems().FindByProductAndDepot(ctx, productID, o.DepotID)
		if err != nil {
			return err
		}
		if err := item.Restore(qty); err != nil {
			return err
		}
		if err := repos.StockItems().Save(ctx, item); err != nil {
			return err
		}
	}

	units, err := repos.Serials().FindByOrder(ctx, o.ID)
	if err != nil {
		return err
	}
	for _, unit := range units {
		if err := unit.Release(); err != nil {
			return err
		}
		if err := repos.Serials().Save(ctx, unit); err != nil {
			return err
		}
	}
	return nil
}

func (s *OrderService) resolveLines(ctx context.Context, inputs []OrderLineInput) ([]resolvedLine, error) {
	lines := make([]resolvedLine, 0, len(inputs))
	for _, input := range inputs {
		product, err := s.productRepo.FindByID(ctx, input.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.IsActive() {
			return nil, shared.NewDomainError("PRODUCT_NOT_SELLABLE", "Product "+product.Code+" is not active")
		}

		quantity, err := decimal.NewFromString(input.Quantity)
		if err != nil || quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be a positive decimal")
		}

		unitPrice := product.SellingPrice
		if input.UnitPrice != nil {
			unitPrice, err = decimal.NewFromString(*input.UnitPrice)
			if err != nil || unitPrice.IsNegative() {
				return nil, shared.NewDomainError("INVALID_PRICE", "Line price must be a non-negative decimal")
			}
		}

		lines = append(lines, resolvedLine{
			input:     input,
			product:   product,
			quantity:  quantity,
			unitPrice: unitPrice,
		})
	}
	return lines, nil
}

func (s *OrderService) promotionContext(customer *partner.Customer, depotID uuid.UUID, orderDate time.Time, lines []resolvedLine) promotion.OrderContext {
	promoLines := make([]promotion.LineInput, 0, len(lines))
	for _, line := range lines {
		promoLines = append(promoLines, promotion.LineInput{
			ProductID:  line.product.ID,
			CategoryID: line.product.CategoryID,
			Quantity:   line.quantity,
			UnitPrice:  line.unitPrice,
		})
	}
	return promotion.OrderContext{
		CustomerID:         customer.ID,
		CustomerCategoryID: customer.CategoryID,
		CustomerTypeID:     customer.TypeID,
		Channel:            string(customer.Channel),
		DepotID:            &depotID,
		SalespersonID:      customer.SalespersonID,
		RouteID:            customer.RouteID,
		OrderDate:          orderDate,
		Lines:              promoLines,
	}
}

func resolveDepot(requested *uuid.UUID, customer *partner.Customer) (uuid.UUID, error) {
	if requested != nil {
		return *requested, nil
	}
	if customer.DepotID != nil {
		return *customer.DepotID, nil
	}
	return uuid.Nil, shared.NewDomainError("DEPOT_REQUIRED", "Order needs a depot and the customer has none assigned")
}

func parseCharges(taxRaw, shippingRaw string) (decimal.Decimal, decimal.Decimal, error) {
	tax := decimal.Zero
	shipping := decimal.Zero
	var err error
	if taxRaw != "" {
		if tax, err = decimal.NewFromString(taxRaw); err != nil {
			return tax, shipping, shared.NewDomainError("INVALID_AMOUNT", "Tax amount is not a valid decimal")
		}
	}
	if shippingRaw != "" {
		if shipping, err = decimal.NewFromString(shippingRaw); err != nil {
			return tax, shipping, shared.NewDomainError("INVALID_AMOUNT", "Shipping fee is not a valid decimal")
		}
	}
	return tax, shipping, nil
}

func toBatchAllocations(inputs []BatchAllocationInput, lineQty decimal.Decimal) []inventory.BatchAllocation {
	allocations := make([]inventory.BatchAllocation, 0, len(inputs))
	for _, input := range inputs {
		qty, err := decimal.NewFromString(input.Quantity)
		if err != nil {
			// force the sum check in the ledger to fail with a mismatch
			qty = lineQty.Neg()
		}
		allocations = append(allocations, inventory.BatchAllocation{BatchLotID: input.BatchLotID, Quantity: qty})
	}
	return allocations
}

func joinRemark(userRemark, trackingDetail string) string {
	switch {
	case userRemark == "":
		return trackingDetail
	case trackingDetail == "":
		return userRemark
	default:
		return userRemark + " " + trackingDetail
	}
}

func saveEventsToOutbox(ctx context.Context, outbox shared.OutboxRepository, events []shared.DomainEvent) error {
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if err := outbox.Save(ctx, shared.NewOutboxEntry(event, payload)); err != nil {
			return err
		}
	}
	return nil
}
