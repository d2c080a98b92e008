package promotion

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sfa/backend/internal/domain/promotion"
	"github.com/sfa/backend/internal/domain/shared"
)

// PromotionCache invalidates cached promotion lookups after writes
type PromotionCache interface {
	Invalidate(ctx context.Context, promotionID uuid.UUID)
	InvalidateAll(ctx context.Context)
}

// PromotionService handles promotion configuration operations
type PromotionService struct {
	promoRepo promotion.Repository
	cache     PromotionCache
}

// NewPromotionService creates a new PromotionService
func NewPromotionService(promoRepo promotion.Repository) *PromotionService {
	return &PromotionService{promoRepo: promoRepo}
}

// SetCache sets the cache to invalidate on writes
func (s *PromotionService) SetCache(cache PromotionCache) {
	s.cache = cache
}

// Create creates a new promotion with its scopes, conditions and levels
func (s *PromotionService) Create(ctx context.Context, req CreatePromotionRequest) (*PromotionResponse, error) {
	exists, err := s.promoRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists
	}

	promo, err := promotion.NewPromotion(req.Code, req.Name, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	promo.Remark = req.Remark

	if err := s.applyStructure(promo, req.Scopes, req.ExcludedCustomers, req.Conditions, req.Levels); err != nil {
		return nil, err
	}

	if err := s.promoRepo.Save(ctx, promo); err != nil {
		return nil, err
	}
	s.invalidate(ctx, promo.ID)

	resp := ToPromotionResponse(promo)
	return &resp, nil
}

// GetByID retrieves a promotion by ID
func (s *PromotionService) GetByID(ctx context.Context, id uuid.UUID) (*PromotionResponse, error) {
	promo, err := s.promoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPromotionResponse(promo)
	return &resp, nil
}

// Update replaces the promotion's header and its whole structure
func (s *PromotionService) Update(ctx context.Context, id uuid.UUID, req UpdatePromotionRequest) (*PromotionResponse, error) {
	promo, err := s.promoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := promo.Update(req.Name, req.StartDate, req.EndDate, req.Remark); err != nil {
		return nil, err
	}

	promo.Scopes = promo.Scopes[:0]
	promo.Exclusions = promo.Exclusions[:0]
	promo.Conditions = promo.Conditions[:0]
	promo.Levels = promo.Levels[:0]
	if err := s.applyStructure(promo, req.Scopes, req.ExcludedCustomers, req.Conditions, req.Levels); err != nil {
		return nil, err
	}

	if err := s.promoRepo.Save(ctx, promo); err != nil {
		return nil, err
	}
	s.invalidate(ctx, promo.ID)

	resp := ToPromotionResponse(promo)
	return &resp, nil
}

// List retrieves promotions with filtering and pagination
func (s *PromotionService) List(ctx context.Context, filter PromotionListFilter) ([]PromotionResponse, int64, error) {
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
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	promos, err := s.promoRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.promoRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PromotionResponse, 0, len(promos))
	for _, p := range promos {
		responses = append(responses, ToPromotionResponse(p))
	}
	return responses, total, nil
}

// Activate enables a promotion
func (s *PromotionService) Activate(ctx context.Context, id uuid.UUID) error {
	promo, err := s.promoRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	promo.Activate()
	if err := s.promoRepo.Save(ctx, promo); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// Deactivate disables a promotion
func (s *PromotionService) Deactivate(ctx context.Context, id uuid.UUID) error {
	promo, err := s.promoRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	promo.Deactivate()
	if err := s.promoRepo.Save(ctx, promo); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// Delete removes a promotion
func (s *PromotionService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.promoRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.promoRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *PromotionService) applyStructure(promo *promotion.Promotion, scopes []ScopeInput, excluded []uuid.UUID, conditions []ConditionInput, levels []LevelInput) error {
	for _, sc := range scopes {
		if err := promo.AddScope(promotion.ScopeDimension(sc.Dimension), sc.Value); err != nil {
			return err
		}
	}
	for _, customerID := range excluded {
		if err := promo.ExcludeCustomer(customerID); err != nil {
			return err
		}
	}
	for _, c := range conditions {
		minQty, err := parseDecimal(c.MinQuantity)
		if err != nil {
			return shared.NewDomainError("INVALID_CONDITION", "Condition minimum quantity is not a valid decimal")
		}
		minValue, err := parseDecimal(c.MinValue)
		if err != nil {
			return shared.NewDomainError("INVALID_CONDITION", "Condition minimum value is not a valid decimal")
		}
		if err := promo.AddCondition(promotion.ConditionTarget(c.TargetType), c.TargetID, minQty, minValue); err != nil {
			return err
		}
	}
	for _, l := range levels {
		threshold, err := decimal.NewFromString(l.Threshold)
		if err != nil {
			return shared.NewDomainError("INVALID_LEVEL", "Level threshold is not a valid decimal")
		}
		value, err := decimal.NewFromString(l.DiscountValue)
		if err != nil {
			return shared.NewDomainError("INVALID_LEVEL", "Level discount value is not a valid decimal")
		}
		level, err := promo.AddLevel(threshold, promotion.DiscountType(l.DiscountType), value)
		if err != nil {
			return err
		}
		for _, b := range l.Benefits {
			qty, err := decimal.NewFromString(b.Quantity)
			if err != nil {
				return shared.NewDomainError("INVALID_BENEFIT", "Benefit quantity is not a valid decimal")
			}
			maxPerOrder, err := parseDecimal(b.MaxPerOrder)
			if err != nil {
				return shared.NewDomainError("INVALID_BENEFIT", "Gift limit is not a valid decimal")
			}
			if err := level.AddBenefit(b.ProductID, qty, maxPerOrder); err != nil {
				return err
			}
		}
	}
	return nil
}

// Preview evaluates a promotion against a prospective order without creating
// anything. Evaluation rejections come back in the response, not as errors.
func (s *PromotionService) Preview(ctx context.Context, id uuid.UUID, req PreviewRequest) (*PreviewResponse, error) {
	promo, err := s.promoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lines := make([]promotion.LineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		qty, err := decimal.NewFromString(l.Quantity)
		if err != nil || !qty.IsPositive() {
			return nil, shared.NewDomainError("INVALID_LINE", "Line quantity must be a positive decimal")
		}
		price, err := decimal.NewFromString(l.UnitPrice)
		if err != nil || price.IsNegative() {
			return nil, shared.NewDomainError("INVALID_LINE", "Line unit price must be a non-negative decimal")
		}
		lines = append(lines, promotion.LineInput{
			ProductID:  l.ProductID,
			CategoryID: l.CategoryID,
			Quantity:   qty,
			UnitPrice:  price,
		})
	}

	orderDate := time.Now()
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}

	result, evalErr := promotion.NewEvaluator().Evaluate(promo, promotion.OrderContext{
		CustomerID:         req.CustomerID,
		CustomerCategoryID: req.CustomerCategoryID,
		CustomerTypeID:     req.CustomerTypeID,
		Channel:            req.Channel,
		DepotID:            req.DepotID,
		SalespersonID:      req.SalespersonID,
		RouteID:            req.RouteID,
		OrderDate:          orderDate,
		Lines:              lines,
	})

	resp := &PreviewResponse{
		PromotionID:    promo.ID,
		PromotionCode:  promo.Code,
		DiscountAmount: "0",
		FreeItems:      []FreeItemResponse{},
	}
	if evalErr != nil {
		var domainErr *shared.DomainError
		if errors.As(evalErr, &domainErr) {
			resp.RejectionCode = domainErr.Code
			resp.RejectionReason = domainErr.Message
			return resp, nil
		}
		return nil, evalErr
	}

	resp.Applicable = true
	levelID := result.LevelID
	resp.LevelID = &levelID
	resp.DiscountAmount = result.DiscountAmount.String()
	for _, item := range result.FreeItems {
		resp.FreeItems = append(resp.FreeItems, FreeItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity.String(),
		})
	}
	return resp, nil
}

func (s *PromotionService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
