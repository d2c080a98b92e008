package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sfa/backend/internal/domain/shared"
)

// OrderStatus is the fulfillment state of an order
type OrderStatus string

const (
	StatusDraft     OrderStatus = "DRAFT"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks the status machine. Confirmed and cancelled are terminal
// except that a confirmed order may still be cancelled.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case StatusDraft:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusCancelled
	}
	return false
}

// ApprovalStatus is the review state of an order
type ApprovalStatus string

const (
	ApprovalPending   ApprovalStatus = "PENDING"
	ApprovalSubmitted ApprovalStatus = "SUBMITTED"
	ApprovalApproved  ApprovalStatus = "APPROVED"
	ApprovalRejected  ApprovalStatus = "REJECTED"
)

// IsValid checks if the approval status is valid
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalPending, ApprovalSubmitted, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// IsDecided reports whether the approval reached a terminal state
func (s ApprovalStatus) IsDecided() bool {
	return s == ApprovalApproved || s == ApprovalRejected
}

// ErrApprovalConflict is returned when approving or rejecting an already
// decided order. Handlers surface it as a conflict.
var ErrApprovalConflict = shared.NewDomainError("APPROVAL_CONFLICT", "Order approval has already been decided")

// OrderLine is one product row on an order. Free-gift lines carry a zero
// price and the promotion that granted them in the remark.
type OrderLine struct {
	shared.BaseEntity
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Sequence    int             `gorm:"not null;default:0"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductCode string          `gorm:"type:varchar(50);not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	IsFreeGift  bool            `gorm:"not null;default:false"`
	Remark      string          `gorm:"type:varchar(500)"` // batch or serial detail for tracked products
}

// TableName returns the table name for GORM
func (OrderLine) TableName() string {
	return "order_lines"
}

// Order is the sales order aggregate root. Money fields satisfy
// total = subtotal - discount + tax + shipping at all times.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber    string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	CustomerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	DepotID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	SalespersonID  *uuid.UUID      `gorm:"type:uuid;index"`
	RouteID        *uuid.UUID      `gorm:"type:uuid"`
	OrderDate      time.Time       `gorm:"type:date;not null"`
	Status         OrderStatus     `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	ApprovalStatus ApprovalStatus  `gorm:"type:varchar(20);not null;default:'PENDING'"`
	PromotionID    *uuid.UUID      `gorm:"type:uuid"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ShippingFee    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Remark         string          `gorm:"type:varchar(500)"`
	ApprovedBy     *uuid.UUID      `gorm:"type:uuid"`
	ApprovedAt     *time.Time
	RejectReason   string      `gorm:"type:varchar(500)"`
	Lines          []OrderLine `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a draft order for a customer at a depot. The acting user
// is mandatory and recorded as the creator.
func NewOrder(orderNumber string, customerID, depotID uuid.UUID, orderDate time.Time, actorID uuid.UUID) (*Order, error) {
	if actorID == uuid.Nil {
		return nil, shared.ErrMissingActor
	}
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if depotID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DEPOT", "Depot ID cannot be empty")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRootWithCreator(actorID),
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		DepotID:           depotID,
		OrderDate:         orderDate,
		Status:            StatusDraft,
		ApprovalStatus:    ApprovalPending,
		Subtotal:          decimal.Zero,
		DiscountAmount:    decimal.Zero,
		TaxAmount:         decimal.Zero,
		ShippingFee:       decimal.Zero,
		TotalAmount:       decimal.Zero,
		Lines:             make([]OrderLine, 0),
	}
	return order, nil
}

// AddLine appends a paid line and recomputes the totals
func (o *Order) AddLine(productID uuid.UUID, productCode, productName string, quantity, unitPrice decimal.Decimal, remark string) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Line product cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Line price cannot be negative")
	}
	o.Lines = append(o.Lines, OrderLine{
		BaseEntity:  shared.NewBaseEntity(),
		OrderID:     o.ID,
		Sequence:    len(o.Lines),
		ProductID:   productID,
		ProductCode: productCode,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      unitPrice.Mul(quantity).Round(2),
		Remark:      remark,
	})
	o.recalculate()
	return nil
}

// AddFreeGiftLine appends a zero-priced line granted by a promotion
func (o *Order) AddFreeGiftLine(productID uuid.UUID, productCode, productName string, quantity decimal.Decimal, remark string) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Line product cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
	}
	o.Lines = append(o.Lines, OrderLine{
		BaseEntity:  shared.NewBaseEntity(),
		OrderID:     o.ID,
		Sequence:    len(o.Lines),
		ProductID:   productID,
		ProductCode: productCode,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   decimal.Zero,
		Amount:      decimal.Zero,
		IsFreeGift:  true,
		Remark:      remark,
	})
	o.recalculate()
	return nil
}

// ClearLines removes every line ahead of a full replace
func (o *Order) ClearLines() {
	o.Lines = make([]OrderLine, 0)
	o.recalculate()
}

// ApplyCharges sets discount, tax and shipping and recomputes the total
func (o *Order) ApplyCharges(discount, tax, shipping decimal.Decimal) error {
	if discount.IsNegative() || tax.IsNegative() || shipping.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Charges cannot be negative")
	}
	if discount.GreaterThan(o.Subtotal) {
		return shared.NewDomainError("INVALID_AMOUNT", "Discount cannot exceed the subtotal")
	}
	o.DiscountAmount = discount
	o.TaxAmount = tax
	o.ShippingFee = shipping
	o.recalculate()
	return nil
}

// ApplyPromotion records the winning promotion and its discount
func (o *Order) ApplyPromotion(promotionID uuid.UUID, discount decimal.Decimal) error {
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Discount cannot be negative")
	}
	if discount.GreaterThan(o.Subtotal) {
		discount = o.Subtotal
	}
	o.PromotionID = &promotionID
	o.DiscountAmount = discount
	o.recalculate()
	return nil
}

func (o *Order) recalculate() {
	subtotal := decimal.Zero
	for _, line := range o.Lines {
		subtotal = subtotal.Add(line.Amount)
	}
	o.Subtotal = subtotal.Round(2)
	o.TotalAmount = o.Subtotal.Sub(o.DiscountAmount).Add(o.TaxAmount).Add(o.ShippingFee).Round(2)
	o.Touch()
}

// Confirm moves the order out of draft
func (o *Order) Confirm() error {
	if !o.Status.CanTransitionTo(StatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be confirmed from status "+string(o.Status))
	}
	if len(o.Lines) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Order must have at least one line")
	}
	o.Status = StatusConfirmed
	o.Touch()
	return nil
}

// Cancel voids the order
func (o *Order) Cancel() error {
	if !o.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be cancelled from status "+string(o.Status))
	}
	o.Status = StatusCancelled
	o.Touch()
	return nil
}

// SubmitForApproval moves a pending order into the review queue
func (o *Order) SubmitForApproval() error {
	if o.ApprovalStatus != ApprovalPending {
		return ErrApprovalConflict
	}
	o.ApprovalStatus = ApprovalSubmitted
	o.Touch()
	return nil
}

// Approve records the approver's decision. Re-deciding is a conflict.
func (o *Order) Approve(approverID uuid.UUID) error {
	if approverID == uuid.Nil {
		return shared.ErrMissingActor
	}
	if o.ApprovalStatus.IsDecided() {
		return ErrApprovalConflict
	}
	now := time.Now()
	o.ApprovalStatus = ApprovalApproved
	o.ApprovedBy = &approverID
	o.ApprovedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderApprovedEvent(o, approverID))
	return nil
}

// Reject records a rejection with its reason and voids the order.
// Re-deciding is a conflict.
func (o *Order) Reject(approverID uuid.UUID, reason string) error {
	if approverID == uuid.Nil {
		return shared.ErrMissingActor
	}
	if o.ApprovalStatus.IsDecided() {
		return ErrApprovalConflict
	}
	now := time.Now()
	o.ApprovalStatus = ApprovalRejected
	o.Status = StatusCancelled
	o.ApprovedBy = &approverID
	o.ApprovedAt = &now
	o.RejectReason = reason
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderRejectedEvent(o, approverID, reason))
	return nil
}

// ResetApproval returns an edited order to the pending queue
func (o *Order) ResetApproval() {
	o.ApprovalStatus = ApprovalPending
	o.ApprovedBy = nil
	o.ApprovedAt = nil
	o.RejectReason = ""
	o.Touch()
}

// IsEditable reports whether the order's lines may still be replaced
func (o *Order) IsEditable() bool {
	return o.Status != StatusCancelled
}

// PaidLines returns the lines the customer pays for
func (o *Order) PaidLines() []OrderLine {
	lines := make([]OrderLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		if !l.IsFreeGift {
			lines = append(lines, l)
		}
	}
	return lines
}
