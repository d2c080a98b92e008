package partner

import (
	"github.com/sfa/backend/internal/domain/shared"
)

// DepotStatus represents the operational status of a depot
type DepotStatus string

const (
	DepotStatusEnabled  DepotStatus = "ENABLED"
	DepotStatusDisabled DepotStatus = "DISABLED"
)

// Depot is a physical distribution point holding inventory.
// Inventory stock rows are keyed to a depot.
type Depot struct {
	shared.BaseAggregateRoot
	Code    string      `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name    string      `gorm:"type:varchar(200);not null"`
	Address string      `gorm:"type:varchar(500)"`
	Phone   string      `gorm:"type:varchar(30)"`
	Status  DepotStatus `gorm:"type:varchar(20);not null;default:'ENABLED'"`
}

// TableName returns the table name for GORM
func (Depot) TableName() string {
	return "depots"
}

// NewDepot creates a new depot
func NewDepot(code, name string) (*Depot, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Depot code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Depot name cannot be empty")
	}

	return &Depot{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Status:            DepotStatusEnabled,
	}, nil
}

// Update updates the depot fields
func (d *Depot) Update(name, address, phone string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Depot name cannot be empty")
	}
	d.Name = name
	d.Address = address
	d.Phone = phone
	d.Touch()
	return nil
}

// Enable marks the depot as operational
func (d *Depot) Enable() {
	d.Status = DepotStatusEnabled
	d.Touch()
}

// Disable takes the depot out of service
func (d *Depot) Disable() {
	d.Status = DepotStatusDisabled
	d.Touch()
}

// IsEnabled returns true if the depot is operational
func (d *Depot) IsEnabled() bool {
	return d.Status == DepotStatusEnabled
}
