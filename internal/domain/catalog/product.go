package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sfa/backend/internal/domain/shared"
)

// TrackingStrategy defines how individual inventory units of a product are identified
type TrackingStrategy string

const (
	// TrackingNone means stock is tracked only as a quantity per depot
	TrackingNone TrackingStrategy = "NONE"
	// TrackingBatch means stock is tracked per batch lot
	TrackingBatch TrackingStrategy = "BATCH"
	// TrackingSerial means every physical unit carries a unique serial number
	TrackingSerial TrackingStrategy = "SERIAL"
)

// IsValid checks if the tracking strategy is valid
func (t TrackingStrategy) IsValid() bool {
	switch t {
	case TrackingNone, TrackingBatch, TrackingSerial:
		return true
	}
	return false
}

// String returns the string representation
func (t TrackingStrategy) String() string {
	return string(t)
}

// ProductStatus represents the lifecycle status of a product
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "ACTIVE"
	ProductStatusInactive     ProductStatus = "INACTIVE"
	ProductStatusDiscontinued ProductStatus = "DISCONTINUED"
)

// IsValid checks if the status is valid
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive, ProductStatusDiscontinued:
		return true
	}
	return false
}

// Product represents a sellable item in the catalog.
// Its tracking strategy determines how the inventory ledger consumes stock
// for order lines referencing this product.
type Product struct {
	shared.BaseAggregateRoot
	Code         string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string           `gorm:"type:varchar(200);not null"`
	CategoryID   *uuid.UUID       `gorm:"type:uuid;index"`
	Unit         string           `gorm:"type:varchar(20);not null;default:'pcs'"`
	SellingPrice decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Tracking     TrackingStrategy `gorm:"type:varchar(10);not null;default:'NONE'"`
	Status       ProductStatus    `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	Remark       string           `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(code, name, unit string, sellingPrice decimal.Decimal, tracking TrackingStrategy) (*Product, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if unit == "" {
		unit = "pcs"
	}
	if sellingPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}
	if !tracking.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRACKING", "Unknown tracking strategy")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Unit:              unit,
		SellingPrice:      sellingPrice,
		Tracking:          tracking,
		Status:            ProductStatusActive,
	}, nil
}

// Update updates the mutable product fields
func (p *Product) Update(name, unit string, sellingPrice decimal.Decimal) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if sellingPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}

	p.Name = name
	if unit != "" {
		p.Unit = unit
	}
	p.SellingPrice = sellingPrice
	p.Touch()
	return nil
}

// SetCategory assigns the product to a category
func (p *Product) SetCategory(categoryID uuid.UUID) {
	p.CategoryID = &categoryID
	p.Touch()
}

// SetRemark sets the product remark
func (p *Product) SetRemark(remark string) {
	p.Remark = remark
	p.Touch()
}

// Activate marks the product as active
func (p *Product) Activate() error {
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("INVALID_STATE", "Discontinued products cannot be reactivated")
	}
	p.Status = ProductStatusActive
	p.Touch()
	return nil
}

// Deactivate marks the product as inactive
func (p *Product) Deactivate() {
	p.Status = ProductStatusInactive
	p.Touch()
}

// Discontinue permanently retires the product
func (p *Product) Discontinue() {
	p.Status = ProductStatusDiscontinued
	p.Touch()
}

// IsActive returns true if the product can be sold
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// IsBatchTracked returns true if the product uses batch lot tracking
func (p *Product) IsBatchTracked() bool {
	return p.Tracking == TrackingBatch
}

// IsSerialTracked returns true if the product uses serial number tracking
func (p *Product) IsSerialTracked() bool {
	return p.Tracking == TrackingSerial
}
