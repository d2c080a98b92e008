package partner

import (
	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/shared"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive    CustomerStatus = "ACTIVE"
	CustomerStatusInactive  CustomerStatus = "INACTIVE"
	CustomerStatusSuspended CustomerStatus = "SUSPENDED"
)

// IsValid checks if the status is valid
func (s CustomerStatus) IsValid() bool {
	switch s {
	case CustomerStatusActive, CustomerStatusInactive, CustomerStatusSuspended:
		return true
	}
	return false
}

// SalesChannel identifies how a customer is served
type SalesChannel string

const (
	ChannelGeneralTrade SalesChannel = "GT" // traditional/general trade
	ChannelModernTrade  SalesChannel = "MT" // modern trade (chains, marts)
	ChannelWholesale    SalesChannel = "WS"
	ChannelHoreca       SalesChannel = "HORECA"
)

// IsValid checks if the channel is a known sales channel
func (c SalesChannel) IsValid() bool {
	switch c {
	case ChannelGeneralTrade, ChannelModernTrade, ChannelWholesale, ChannelHoreca:
		return true
	}
	return false
}

// Customer represents an outlet served by the sales force.
// The depot/zone/route/salesperson references and the category/type/channel
// dimensions drive promotion eligibility.
type Customer struct {
	shared.BaseAggregateRoot
	Code          string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string         `gorm:"type:varchar(200);not null"`
	CategoryID    *uuid.UUID     `gorm:"type:uuid;index"` // customer category (e.g. supermarket, kiosk)
	TypeID        *uuid.UUID     `gorm:"type:uuid;index"` // customer type (e.g. key account)
	Channel       SalesChannel   `gorm:"type:varchar(10);not null;default:'GT'"`
	DepotID       *uuid.UUID     `gorm:"type:uuid;index"`
	ZoneID        *uuid.UUID     `gorm:"type:uuid;index"`
	RouteID       *uuid.UUID     `gorm:"type:uuid;index"`
	SalespersonID *uuid.UUID     `gorm:"type:uuid;index"`
	ContactName   string         `gorm:"type:varchar(100)"`
	Phone         string         `gorm:"type:varchar(30);index"`
	Address       string         `gorm:"type:varchar(500)"`
	Status        CustomerStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	Notes         string         `gorm:"type:varchar(1000)"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer
func NewCustomer(code, name string, channel SalesChannel) (*Customer, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Customer code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if channel == "" {
		channel = ChannelGeneralTrade
	}
	if !channel.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "Unknown sales channel")
	}

	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Channel:           channel,
		Status:            CustomerStatusActive,
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// Update updates the customer's display fields
func (c *Customer) Update(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	c.Name = name
	c.Touch()
	return nil
}

// SetContact sets contact information
func (c *Customer) SetContact(contactName, phone string) {
	c.ContactName = contactName
	c.Phone = phone
	c.Touch()
}

// SetAddress sets the customer address
func (c *Customer) SetAddress(address string) {
	c.Address = address
	c.Touch()
}

// SetNotes sets free-form notes
func (c *Customer) SetNotes(notes string) {
	c.Notes = notes
	c.Touch()
}

// AssignTerritory assigns the customer to a depot/zone/route
func (c *Customer) AssignTerritory(depotID, zoneID, routeID *uuid.UUID) {
	c.DepotID = depotID
	c.ZoneID = zoneID
	c.RouteID = routeID
	c.Touch()
}

// AssignSalesperson assigns the customer to a salesperson
func (c *Customer) AssignSalesperson(salespersonID uuid.UUID) error {
	if salespersonID == uuid.Nil {
		return shared.NewDomainError("INVALID_SALESPERSON", "Salesperson ID cannot be empty")
	}
	c.SalespersonID = &salespersonID
	c.Touch()
	return nil
}

// SetClassification sets the category/type dimensions used for promotion scoping
func (c *Customer) SetClassification(categoryID, typeID *uuid.UUID, channel SalesChannel) error {
	if channel != "" && !channel.IsValid() {
		return shared.NewDomainError("INVALID_CHANNEL", "Unknown sales channel")
	}
	c.CategoryID = categoryID
	c.TypeID = typeID
	if channel != "" {
		c.Channel = channel
	}
	c.Touch()
	return nil
}

// Activate marks the customer as active
func (c *Customer) Activate() {
	c.Status = CustomerStatusActive
	c.Touch()
}

// Deactivate marks the customer as inactive
func (c *Customer) Deactivate() {
	c.Status = CustomerStatusInactive
	c.Touch()
}

// Suspend suspends the customer (e.g. credit hold)
func (c *Customer) Suspend() {
	c.Status = CustomerStatusSuspended
	c.Touch()
}

// CanOrder returns true if orders may be placed for this customer
func (c *Customer) CanOrder() bool {
	return c.Status == CustomerStatusActive
}
