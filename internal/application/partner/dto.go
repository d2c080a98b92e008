package partner

import (
	"time"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/partner"
)

// CreateCustomerRequest is the request to create a customer
type CreateCustomerRequest struct {
	Code          string     `json:"code" binding:"required"`
	Name          string     `json:"name" binding:"required"`
	Channel       string     `json:"channel" binding:"required"`
	CategoryID    *uuid.UUID `json:"category_id"`
	TypeID        *uuid.UUID `json:"type_id"`
	DepotID       *uuid.UUID `json:"depot_id"`
	ZoneID        *uuid.UUID `json:"zone_id"`
	RouteID       *uuid.UUID `json:"route_id"`
	SalespersonID *uuid.UUID `json:"salesperson_id"`
	ContactName   string     `json:"contact_name"`
	Phone         string     `json:"phone"`
	Address       string     `json:"address"`
	Notes         string     `json:"notes"`
}

// UpdateCustomerRequest is the request to update a customer
type UpdateCustomerRequest struct {
	Name          string     `json:"name" binding:"required"`
	Channel       string     `json:"channel" binding:"required"`
	CategoryID    *uuid.UUID `json:"category_id"`
	TypeID        *uuid.UUID `json:"type_id"`
	DepotID       *uuid.UUID `json:"depot_id"`
	ZoneID        *uuid.UUID `json:"zone_id"`
	RouteID       *uuid.UUID `json:"route_id"`
	SalespersonID *uuid.UUID `json:"salesperson_id"`
	ContactName   string     `json:"contact_name"`
	Phone         string     `json:"phone"`
	Address       string     `json:"address"`
	Notes         string     `json:"notes"`
}

// CustomerListFilter captures customer list query parameters
type CustomerListFilter struct {
	Page          int
	PageSize      int
	OrderBy       string
	OrderDir      string
	Search        string
	Status        *string
	Channel       *string
	DepotID       *uuid.UUID
	ZoneID        *uuid.UUID
	SalespersonID *uuid.UUID
}

// CustomerResponse is the API representation of a customer
type CustomerResponse struct {
	ID            uuid.UUID  `json:"id"`
	Code          string     `json:"code"`
	Name          string     `json:"name"`
	Channel       string     `json:"channel"`
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	TypeID        *uuid.UUID `json:"type_id,omitempty"`
	DepotID       *uuid.UUID `json:"depot_id,omitempty"`
	ZoneID        *uuid.UUID `json:"zone_id,omitempty"`
	RouteID       *uuid.UUID `json:"route_id,omitempty"`
	SalespersonID *uuid.UUID `json:"salesperson_id,omitempty"`
	ContactName   string     `json:"contact_name,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Address       string     `json:"address,omitempty"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes,omitempty"`
	Version       int        `json:"version"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ToCustomerResponse converts a customer to its API representation
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:            c.ID,
		Code:          c.Code,
		Name:          c.Name,
		Channel:       string(c.Channel),
		CategoryID:    c.CategoryID,
		TypeID:        c.TypeID,
		DepotID:       c.DepotID,
		ZoneID:        c.ZoneID,
		RouteID:       c.RouteID,
		SalespersonID: c.SalespersonID,
		ContactName:   c.ContactName,
		Phone:         c.Phone,
		Address:       c.Address,
		Status:        string(c.Status),
		Notes:         c.Notes,
		Version:       c.Version,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// CreateDepotRequest is the request to create a depot
type CreateDepotRequest struct {
	Code    string `json:"code" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// UpdateDepotRequest is the request to update a depot
type UpdateDepotRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// DepotResponse is the API representation of a depot
type DepotResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToDepotResponse converts a depot to its API representation
func ToDepotResponse(d *partner.Depot) DepotResponse {
	return DepotResponse{
		ID:        d.ID,
		Code:      d.Code,
		Name:      d.Name,
		Address:   d.Address,
		Phone:     d.Phone,
		Status:    string(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// CreateZoneRequest is the request to create a zone
type CreateZoneRequest struct {
	Code    string    `json:"code" binding:"required"`
	Name    string    `json:"name" binding:"required"`
	DepotID uuid.UUID `json:"depot_id" binding:"required"`
}

// UpdateZoneRequest is the request to update a zone
type UpdateZoneRequest struct {
	Name    string     `json:"name" binding:"required"`
	DepotID *uuid.UUID `json:"depot_id"`
}

// ZoneResponse is the API representation of a zone
type ZoneResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	DepotID   uuid.UUID `json:"depot_id"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToZoneResponse converts a zone to its API representation
func ToZoneResponse(z *partner.Zone) ZoneResponse {
	return ZoneResponse{
		ID:        z.ID,
		Code:      z.Code,
		Name:      z.Name,
		DepotID:   z.DepotID,
		Active:    z.Active,
		CreatedAt: z.CreatedAt,
		UpdatedAt: z.UpdatedAt,
	}
}
