package promotion

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sfa/backend/internal/domain/shared"
)

// Rejection reasons returned by the evaluator. Callers branch on the code to
// report why a requested promotion did not apply.
var (
	ErrPromotionInactive       = shared.NewDomainError("PROMOTION_INACTIVE", "Promotion is not active")
	ErrPromotionExpired        = shared.NewDomainError("PROMOTION_EXPIRED", "Promotion is outside its validity period")
	ErrPromotionExcluded       = shared.NewDomainError("PROMOTION_EXCLUDED", "Customer is excluded from this promotion")
	ErrPromotionIneligible     = shared.NewDomainError("PROMOTION_INELIGIBLE", "Order does not match the promotion scope")
	ErrPromotionConditionUnmet = shared.NewDomainError("PROMOTION_CONDITION_UNMET", "Order does not satisfy any promotion condition")
	ErrPromotionThresholdUnmet = shared.NewDomainError("PROMOTION_THRESHOLD_UNMET", "Order value does not reach any promotion level")
	ErrPromotionNoLevels       = shared.NewDomainError("PROMOTION_NO_LEVELS", "Promotion has no discount levels configured")
)

// LineInput is one order line as seen by the evaluator
type LineInput struct {
	ProductID  uuid.UUID
	CategoryID *uuid.UUID
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
}

// Amount returns the line value before any discount
func (l LineInput) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(l.Quantity)
}

// OrderContext carries the order attributes promotions scope against
type OrderContext struct {
	CustomerID         uuid.UUID
	CustomerCategoryID *uuid.UUID
	CustomerTypeID     *uuid.UUID
	Channel            string
	DepotID            *uuid.UUID
	SalespersonID      *uuid.UUID
	RouteID            *uuid.UUID
	OrderDate          time.Time
	Lines              []LineInput
}

// Subtotal returns the sum of line amounts
func (c OrderContext) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Amount())
	}
	return total
}

// FreeItem is a free-product grant produced by a matched level
type FreeItem struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
}

// Result describes a successfully applied promotion
type Result struct {
	PromotionID    uuid.UUID
	PromotionCode  string
	PromotionName  string
	LevelID        uuid.UUID
	DiscountAmount decimal.Decimal
	FreeItems      []FreeItem
}

// Evaluator decides whether a promotion applies to an order and computes the
// resulting discount and free items. It holds no state and touches no storage.
type Evaluator struct{}

// NewEvaluator creates a promotion evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate applies a single promotion to the order context. It returns a
// rejection error naming the first gate the order failed, otherwise the
// computed discount and free items for the highest satisfied level.
func (e *Evaluator) Evaluate(promo *Promotion, orderCtx OrderContext) (*Result, error) {
	if !promo.Active {
		return nil, ErrPromotionInactive
	}
	if !promo.IsActiveOn(orderCtx.OrderDate) {
		return nil, ErrPromotionExpired
	}
	if promo.IsCustomerExcluded(orderCtx.CustomerID) {
		return nil, ErrPromotionExcluded
	}
	if !e.matchesScope(promo, orderCtx) {
		return nil, ErrPromotionIneligible
	}

	basis, err := e.matchCondition(promo, orderCtx)
	if err != nil {
		return nil, err
	}

	level, err := e.matchLevel(promo, basis)
	if err != nil {
		return nil, err
	}

	discount := e.computeDiscount(level, basis)
	free := e.collectFreeItems(level)

	return &Result{
		PromotionID:    promo.ID,
		PromotionCode:  promo.Code,
		PromotionName:  promo.Name,
		LevelID:        level.ID,
		DiscountAmount: discount,
		FreeItems:      free,
	}, nil
}

// EvaluateBest evaluates every candidate and returns the result with the
// largest discount. It returns nil without error when no candidate applies.
func (e *Evaluator) EvaluateBest(promos []*Promotion, orderCtx OrderContext) *Result {
	var best *Result
	for _, p := range promos {
		res, err := e.Evaluate(p, orderCtx)
		if err != nil {
			continue
		}
		if best == nil || res.DiscountAmount.GreaterThan(best.DiscountAmount) {
			best = res
		}
	}
	return best
}

// matchesScope checks the scope dimensions the promotion declares. The order
// is eligible when any configured entry matches its corresponding attribute.
// A promotion with no scope entries matches every order.
func (e *Evaluator) matchesScope(promo *Promotion, orderCtx OrderContext) bool {
	if !promo.HasScope() {
		return true
	}
	for _, s := range promo.Scopes {
		actual := e.dimensionValue(s.Dimension, orderCtx)
		if actual != "" && actual == s.Value {
			return true
		}
	}
	return false
}

func (e *Evaluator) dimensionValue(dim ScopeDimension, orderCtx OrderContext) string {
	switch dim {
	case ScopeDepot:
		return uuidString(orderCtx.DepotID)
	case ScopeSalesperson:
		return uuidString(orderCtx.SalespersonID)
	case ScopeRoute:
		return uuidString(orderCtx.RouteID)
	case ScopeCustomerCategory:
		return uuidString(orderCtx.CustomerCategoryID)
	case ScopeCustomerType:
		return uuidString(orderCtx.CustomerTypeID)
	case ScopeChannel:
		return orderCtx.Channel
	}
	return ""
}

// matchCondition walks the conditions in sequence order and returns the value
// basis of the first one the order satisfies. A promotion with no conditions
// qualifies unconditionally with the whole order subtotal as basis.
func (e *Evaluator) matchCondition(promo *Promotion, orderCtx OrderContext) (decimal.Decimal, error) {
	if len(promo.Conditions) == 0 {
		return orderCtx.Subtotal(), nil
	}

	conds := make([]Condition, len(promo.Conditions))
	copy(conds, promo.Conditions)
	sort.SliceStable(conds, func(i, j int) bool { return conds[i].Sequence < conds[j].Sequence })

	for _, cond := range conds {
		qty, value := e.aggregateLines(cond, orderCtx.Lines)
		if !cond.MinQuantity.IsZero() && qty.LessThan(cond.MinQuantity) {
			continue
		}
		if !cond.MinValue.IsZero() && value.LessThan(cond.MinValue) {
			continue
		}
		if qty.IsZero() && value.IsZero() {
			continue // no matching lines at all
		}
		return value, nil
	}
	return decimal.Zero, ErrPromotionConditionUnmet
}

// aggregateLines sums quantity and value over the lines matching the condition target
func (e *Evaluator) aggregateLines(cond Condition, lines []LineInput) (decimal.Decimal, decimal.Decimal) {
	qty := decimal.Zero
	value := decimal.Zero
	for _, l := range lines {
		switch cond.TargetType {
		case TargetProduct:
			if l.ProductID != cond.TargetID {
				continue
			}
		case TargetCategory:
			if l.CategoryID == nil || *l.CategoryID != cond.TargetID {
				continue
			}
		default:
			continue
		}
		qty = qty.Add(l.Quantity)
		value = value.Add(l.Amount())
	}
	return qty, value
}

// matchLevel picks the highest threshold the basis reaches
func (e *Evaluator) matchLevel(promo *Promotion, basis decimal.Decimal) (*Level, error) {
	if len(promo.Levels) == 0 {
		return nil, ErrPromotionNoLevels
	}

	levels := make([]Level, len(promo.Levels))
	copy(levels, promo.Levels)
	sort.SliceStable(levels, func(i, j int) bool { return levels[i].Threshold.GreaterThan(levels[j].Threshold) })

	for i := range levels {
		if basis.GreaterThanOrEqual(levels[i].Threshold) {
			return &levels[i], nil
		}
	}
	return nil, ErrPromotionThresholdUnmet
}

// computeDiscount derives the discount amount from the matched level. The
// result never exceeds the basis it was computed over.
func (e *Evaluator) computeDiscount(level *Level, basis decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch level.DiscountType {
	case DiscountPercentage:
		discount = basis.Mul(level.DiscountValue).Div(decimal.NewFromInt(100))
	case DiscountFixed:
		discount = level.DiscountValue
	}
	if discount.GreaterThan(basis) {
		discount = basis
	}
	return discount.Round(2)
}

// collectFreeItems expands the level's benefits, capping each at its per-order limit
func (e *Evaluator) collectFreeItems(level *Level) []FreeItem {
	items := make([]FreeItem, 0, len(level.Benefits))
	for _, b := range level.Benefits {
		qty := b.Quantity
		if !b.MaxPerOrder.IsZero() && qty.GreaterThan(b.MaxPerOrder) {
			qty = b.MaxPerOrder
		}
		items = append(items, FreeItem{ProductID: b.ProductID, Quantity: qty})
	}
	return items
}

func uuidString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
