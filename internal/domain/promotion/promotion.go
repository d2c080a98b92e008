package promotion

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sfa/backend/internal/domain/shared"
)

// ScopeDimension identifies which order attribute a scope entry constrains
type ScopeDimension string

const (
	ScopeDepot            ScopeDimension = "DEPOT"
	ScopeSalesperson      ScopeDimension = "SALESPERSON"
	ScopeRoute            ScopeDimension = "ROUTE"
	ScopeCustomerCategory ScopeDimension = "CUSTOMER_CATEGORY"
	ScopeCustomerType     ScopeDimension = "CUSTOMER_TYPE"
	ScopeChannel          ScopeDimension = "CHANNEL"
)

// IsValid checks if the dimension is known
func (d ScopeDimension) IsValid() bool {
	switch d {
	case ScopeDepot, ScopeSalesperson, ScopeRoute, ScopeCustomerCategory, ScopeCustomerType, ScopeChannel:
		return true
	}
	return false
}

// ConditionTarget identifies what a condition's aggregate is computed over
type ConditionTarget string

const (
	TargetProduct  ConditionTarget = "PRODUCT"
	TargetCategory ConditionTarget = "CATEGORY"
)

// DiscountType identifies how a level's discount is computed
type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED"
)

// Scope restricts a promotion to orders matching a dimension value.
// A promotion with no scope entries applies to every order.
type Scope struct {
	shared.BaseEntity
	PromotionID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Dimension   ScopeDimension `gorm:"type:varchar(30);not null"`
	Value       string         `gorm:"type:varchar(100);not null"` // uuid or channel code depending on dimension
}

// TableName returns the table name for GORM
func (Scope) TableName() string {
	return "promotion_scopes"
}

// Exclusion removes a specific customer from a promotion's reach
type Exclusion struct {
	shared.BaseEntity
	PromotionID uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerID  uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (Exclusion) TableName() string {
	return "promotion_exclusions"
}

// Condition is a qualifying threshold over the order lines matching its target.
// Conditions are evaluated in sequence order; the first satisfied condition wins.
type Condition struct {
	shared.BaseEntity
	PromotionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Sequence    int             `gorm:"not null;default:0"`
	TargetType  ConditionTarget `gorm:"type:varchar(20);not null"`
	TargetID    uuid.UUID       `gorm:"type:uuid;not null"`
	MinQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinValue    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Condition) TableName() string {
	return "promotion_conditions"
}

// Benefit is a free-product grant attached to a level
type Benefit struct {
	shared.BaseEntity
	LevelID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MaxPerOrder   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // 0 means unlimited
}

// TableName returns the table name for GORM
func (Benefit) TableName() string {
	return "promotion_benefits"
}

// Level maps a value threshold to a discount and optional free-product benefits.
// Levels are evaluated highest threshold first; the first satisfied level wins.
type Level struct {
	shared.BaseEntity
	PromotionID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Sequence      int             `gorm:"not null;default:0"`
	Threshold     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountType  DiscountType    `gorm:"type:varchar(20);not null"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Benefits      []Benefit       `gorm:"foreignKey:LevelID;references:ID"`
}

// TableName returns the table name for GORM
func (Level) TableName() string {
	return "promotion_levels"
}

// Promotion is a time-bounded offer granting discounts and free products to
// eligible orders. It is the aggregate root for all promotion configuration.
type Promotion struct {
	shared.BaseAggregateRoot
	Code       string      `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name       string      `gorm:"type:varchar(200);not null"`
	StartDate  time.Time   `gorm:"type:date;not null"`
	EndDate    time.Time   `gorm:"type:date;not null"`
	Active     bool        `gorm:"not null;default:true"`
	Remark     string      `gorm:"type:varchar(500)"`
	Scopes     []Scope     `gorm:"foreignKey:PromotionID;references:ID"`
	Exclusions []Exclusion `gorm:"foreignKey:PromotionID;references:ID"`
	Conditions []Condition `gorm:"foreignKey:PromotionID;references:ID"`
	Levels     []Level     `gorm:"foreignKey:PromotionID;references:ID"`
}

// TableName returns the table name for GORM
func (Promotion) TableName() string {
	return "promotions"
}

// NewPromotion creates a new promotion
func NewPromotion(code, name string, startDate, endDate time.Time) (*Promotion, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Promotion code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Promotion name cannot be empty")
	}
	if endDate.Before(startDate) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "End date cannot be before start date")
	}

	return &Promotion{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		StartDate:         startDate,
		EndDate:           endDate,
		Active:            true,
		Scopes:            make([]Scope, 0),
		Exclusions:        make([]Exclusion, 0),
		Conditions:        make([]Condition, 0),
		Levels:            make([]Level, 0),
	}, nil
}

// Update updates the promotion header fields
func (p *Promotion) Update(name string, startDate, endDate time.Time, remark string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Promotion name cannot be empty")
	}
	if endDate.Before(startDate) {
		return shared.NewDomainError("INVALID_PERIOD", "End date cannot be before start date")
	}
	p.Name = name
	p.StartDate = startDate
	p.EndDate = endDate
	p.Remark = remark
	p.Touch()
	return nil
}

// AddScope adds a scoping dimension value
func (p *Promotion) AddScope(dimension ScopeDimension, value string) error {
	if !dimension.IsValid() {
		return shared.NewDomainError("INVALID_SCOPE", "Unknown scope dimension")
	}
	if value == "" {
		return shared.NewDomainError("INVALID_SCOPE", "Scope value cannot be empty")
	}
	p.Scopes = append(p.Scopes, Scope{
		BaseEntity:  shared.NewBaseEntity(),
		PromotionID: p.ID,
		Dimension:   dimension,
		Value:       value,
	})
	p.Touch()
	return nil
}

// ExcludeCustomer adds a customer to the exclusion list
func (p *Promotion) ExcludeCustomer(customerID uuid.UUID) error {
	if customerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	for _, e := range p.Exclusions {
		if e.CustomerID == customerID {
			return nil // already excluded
		}
	}
	p.Exclusions = append(p.Exclusions, Exclusion{
		BaseEntity:  shared.NewBaseEntity(),
		PromotionID: p.ID,
		CustomerID:  customerID,
	})
	p.Touch()
	return nil
}

// AddCondition appends a qualifying condition
func (p *Promotion) AddCondition(targetType ConditionTarget, targetID uuid.UUID, minQuantity, minValue decimal.Decimal) error {
	if targetType != TargetProduct && targetType != TargetCategory {
		return shared.NewDomainError("INVALID_CONDITION", "Unknown condition target type")
	}
	if targetID == uuid.Nil {
		return shared.NewDomainError("INVALID_CONDITION", "Condition target cannot be empty")
	}
	if minQuantity.IsNegative() || minValue.IsNegative() {
		return shared.NewDomainError("INVALID_CONDITION", "Condition minimums cannot be negative")
	}
	p.Conditions = append(p.Conditions, Condition{
		BaseEntity:  shared.NewBaseEntity(),
		PromotionID: p.ID,
		Sequence:    len(p.Conditions),
		TargetType:  targetType,
		TargetID:    targetID,
		MinQuantity: minQuantity,
		MinValue:    minValue,
	})
	p.Touch()
	return nil
}

// AddLevel appends a discount level
func (p *Promotion) AddLevel(threshold decimal.Decimal, discountType DiscountType, discountValue decimal.Decimal) (*Level, error) {
	if discountType != DiscountPercentage && discountType != DiscountFixed {
		return nil, shared.NewDomainError("INVALID_LEVEL", "Unknown discount type")
	}
	if threshold.IsNegative() {
		return nil, shared.NewDomainError("INVALID_LEVEL", "Threshold cannot be negative")
	}
	if discountValue.IsNegative() {
		return nil, shared.NewDomainError("INVALID_LEVEL", "Discount value cannot be negative")
	}
	if discountType == DiscountPercentage && discountValue.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_LEVEL", "Percentage discount cannot exceed 100")
	}
	level := Level{
		BaseEntity:    shared.NewBaseEntity(),
		PromotionID:   p.ID,
		Sequence:      len(p.Levels),
		Threshold:     threshold,
		DiscountType:  discountType,
		DiscountValue: discountValue,
		Benefits:      make([]Benefit, 0),
	}
	p.Levels = append(p.Levels, level)
	p.Touch()
	return &p.Levels[len(p.Levels)-1], nil
}

// AddBenefit attaches a free-product benefit to a level
func (l *Level) AddBenefit(productID uuid.UUID, quantity, maxPerOrder decimal.Decimal) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_BENEFIT", "Benefit product cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_BENEFIT", "Benefit quantity must be positive")
	}
	if maxPerOrder.IsNegative() {
		return shared.NewDomainError("INVALID_BENEFIT", "Gift limit cannot be negative")
	}
	l.Benefits = append(l.Benefits, Benefit{
		BaseEntity:  shared.NewBaseEntity(),
		LevelID:     l.ID,
		ProductID:   productID,
		Quantity:    quantity,
		MaxPerOrder: maxPerOrder,
	})
	return nil
}

// Activate enables the promotion
func (p *Promotion) Activate() {
	p.Active = true
	p.Touch()
}

// Deactivate disables the promotion
func (p *Promotion) Deactivate() {
	p.Active = false
	p.Touch()
}

// IsActiveOn returns true if the promotion is active and the date falls inside
// its validity window (inclusive on both ends, compared by calendar day).
func (p *Promotion) IsActiveOn(date time.Time) bool {
	if !p.Active {
		return false
	}
	day := date.Truncate(24 * time.Hour)
	start := p.StartDate.Truncate(24 * time.Hour)
	end := p.EndDate.Truncate(24 * time.Hour)
	return !day.Before(start) && !day.After(end)
}

// IsCustomerExcluded returns true if the customer is on the exclusion list
func (p *Promotion) IsCustomerExcluded(customerID uuid.UUID) bool {
	for _, e := range p.Exclusions {
		if e.CustomerID == customerID {
			return true
		}
	}
	return false
}

// HasScope returns true if the promotion declares any scoping dimension
func (p *Promotion) HasScope() bool {
	return len(p.Scopes) > 0
}
