package promotion

import (
	"time"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/promotion"
)

// ScopeInput declares one scoping dimension value
type ScopeInput struct {
	Dimension string `json:"dimension" binding:"required"`
	Value     string `json:"value" binding:"required"`
}

// ConditionInput declares one qualifying condition
type ConditionInput struct {
	TargetType  string    `json:"target_type" binding:"required"`
	TargetID    uuid.UUID `json:"target_id" binding:"required"`
	MinQuantity string    `json:"min_quantity"`
	MinValue    string    `json:"min_value"`
}

// BenefitInput declares one free-product benefit on a level
type BenefitInput struct {
	ProductID   uuid.UUID `json:"product_id" binding:"required"`
	Quantity    string    `json:"quantity" binding:"required"`
	MaxPerOrder string    `json:"max_per_order"`
}

// LevelInput declares one discount level
type LevelInput struct {
	Threshold     string         `json:"threshold" binding:"required"`
	DiscountType  string         `json:"discount_type" binding:"required"`
	DiscountValue string         `json:"discount_value" binding:"required"`
	Benefits      []BenefitInput `json:"benefits"`
}

// CreatePromotionRequest is the request to create a promotion
type CreatePromotionRequest struct {
	Code               string           `json:"code" binding:"required"`
	Name               string           `json:"name" binding:"required"`
	StartDate          time.Time        `json:"start_date" binding:"required"`
	EndDate            time.Time        `json:"end_date" binding:"required"`
	Remark             string           `json:"remark"`
	Scopes             []ScopeInput     `json:"scopes"`
	ExcludedCustomers  []uuid.UUID      `json:"excluded_customers"`
	Conditions         []ConditionInput `json:"conditions"`
	Levels             []LevelInput     `json:"levels" binding:"required,min=1"`
}

// UpdatePromotionRequest is the request to update a promotion. Scope,
// condition and level sets are replaced wholesale.
type UpdatePromotionRequest struct {
	Name              string           `json:"name" binding:"required"`
	StartDate         time.Time        `json:"start_date" binding:"required"`
	EndDate           time.Time        `json:"end_date" binding:"required"`
	Remark            string           `json:"remark"`
	Scopes            []ScopeInput     `json:"scopes"`
	ExcludedCustomers []uuid.UUID      `json:"excluded_customers"`
	Conditions        []ConditionInput `json:"conditions"`
	Levels            []LevelInput     `json:"levels" binding:"required,min=1"`
}

// PromotionListFilter captures promotion list query parameters
type PromotionListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Active   *bool
}

// ScopeResponse is the API representation of a scope entry
type ScopeResponse struct {
	Dimension string `json:"dimension"`
	Value     string `json:"value"`
}

// ConditionResponse is the API representation of a condition
type ConditionResponse struct {
	Sequence    int       `json:"sequence"`
	TargetType  string    `json:"target_type"`
	TargetID    uuid.UUID `json:"target_id"`
	MinQuantity string    `json:"min_quantity"`
	MinValue    string    `json:"min_value"`
}

// BenefitResponse is the API representation of a benefit
type BenefitResponse struct {
	ProductID   uuid.UUID `json:"product_id"`
	Quantity    string    `json:"quantity"`
	MaxPerOrder string    `json:"max_per_order"`
}

// LevelResponse is the API representation of a level
type LevelResponse struct {
	ID            uuid.UUID         `json:"id"`
	Threshold     string            `json:"threshold"`
	DiscountType  string            `json:"discount_type"`
	DiscountValue string            `json:"discount_value"`
	Benefits      []BenefitResponse `json:"benefits"`
}

// PromotionResponse is the API representation of a promotion
type PromotionResponse struct {
	ID                uuid.UUID           `json:"id"`
	Code              string              `json:"code"`
	Name              string              `json:"name"`
	StartDate         time.Time           `json:"start_date"`
	EndDate           time.Time           `json:"end_date"`
	Active            bool                `json:"active"`
	Remark            string              `json:"remark,omitempty"`
	Scopes            []ScopeResponse     `json:"scopes"`
	ExcludedCustomers []uuid.UUID         `json:"excluded_customers"`
	Conditions        []ConditionResponse `json:"conditions"`
	Levels            []LevelResponse     `json:"levels"`
	Version           int                 `json:"version"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// ToPromotionResponse converts a promotion to its API representation
func ToPromotionResponse(p *promotion.Promotion) PromotionResponse {
	scopes := make([]ScopeResponse, 0, len(p.Scopes))
	for _, s := range p.Scopes {
		scopes = append(scopes, ScopeResponse{Dimension: string(s.Dimension), Value: s.Value})
	}
	excluded := make([]uuid.UUID, 0, len(p.Exclusions))
	for _, e := range p.Exclusions {
		excluded = append(excluded, e.CustomerID)
	}
	conditions := make([]ConditionResponse, 0, len(p.Conditions))
	for _, c := range p.Conditions {
		conditions = append(conditions, ConditionResponse{
			Sequence:    c.Sequence,
			TargetType:  string(c.TargetType),
			TargetID:    c.TargetID,
			MinQuantity: c.MinQuantity.String(),
			MinValue:    c.MinValue.String(),
		})
	}
	levels := make([]LevelResponse, 0, len(p.Levels))
	for _, l := range p.Levels {
		benefits := make([]BenefitResponse, 0, len(l.Benefits))
		for _, b := range l.Benefits {
			benefits = append(benefits, BenefitResponse{
				ProductID:   b.ProductID,
				Quantity:    b.Quantity.String(),
				MaxPerOrder: b.MaxPerOrder.String(),
			})
		}
		levels = append(levels, LevelResponse{
			ID:            l.ID,
			Threshold:     l.Threshold.String(),
			DiscountType:  string(l.DiscountType),
			DiscountValue: l.DiscountValue.String(),
			Benefits:      benefits,
		})
	}
	return PromotionResponse{
		ID:                p.ID,
		Code:              p.Code,
		Name:              p.Name,
		StartDate:         p.StartDate,
		EndDate:           p.EndDate,
		Active:            p.Active,
		Remark:            p.Remark,
		Scopes:            scopes,
		ExcludedCustomers: excluded,
		Conditions:        conditions,
		Levels:            levels,
		Version:           p.Version,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// PreviewLineInput is one order line in an evaluation preview
type PreviewLineInput struct {
	ProductID  uuid.UUID  `json:"product_id" binding:"required"`
	CategoryID *uuid.UUID `json:"category_id"`
	Quantity   string     `json:"quantity" binding:"required"`
	UnitPrice  string     `json:"unit_price" binding:"required"`
}

// PreviewRequest describes a prospective order to evaluate a promotion against
type PreviewRequest struct {
	CustomerID         uuid.UUID          `json:"customer_id" binding:"required"`
	CustomerCategoryID *uuid.UUID         `json:"customer_category_id"`
	CustomerTypeID     *uuid.UUID         `json:"customer_type_id"`
	Channel            string             `json:"channel"`
	DepotID            *uuid.UUID         `json:"depot_id"`
	SalespersonID      *uuid.UUID         `json:"salesperson_id"`
	RouteID            *uuid.UUID         `json:"route_id"`
	OrderDate          *time.Time         `json:"order_date"`
	Lines              []PreviewLineInput `json:"lines" binding:"required,min=1"`
}

// FreeItemResponse is one free-product grant in a preview result
type FreeItemResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  string    `json:"quantity"`
}

// PreviewResponse reports the evaluation outcome. A rejection is part of the
// response body rather than an error so callers can show the reason.
type PreviewResponse struct {
	PromotionID     uuid.UUID          `json:"promotion_id"`
	PromotionCode   string             `json:"promotion_code"`
	Applicable      bool               `json:"applicable"`
	RejectionCode   string             `json:"rejection_code,omitempty"`
	RejectionReason string             `json:"rejection_reason,omitempty"`
	LevelID         *uuid.UUID         `json:"level_id,omitempty"`
	DiscountAmount  string             `json:"discount_amount"`
	FreeItems       []FreeItemResponse `json:"free_items"`
}
