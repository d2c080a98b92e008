package partner

import (
	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/shared"
)

// Zone is a sales territory under a depot. Customers are assigned to zones
// and routes within zones.
type Zone struct {
	shared.BaseAggregateRoot
	Code    string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name    string    `gorm:"type:varchar(200);not null"`
	DepotID uuid.UUID `gorm:"type:uuid;not null;index"`
	Active  bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Zone) TableName() string {
	return "zones"
}

// NewZone creates a new zone under a depot
func NewZone(code, name string, depotID uuid.UUID) (*Zone, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Zone code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Zone name cannot be empty")
	}
	if depotID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DEPOT", "Depot ID cannot be empty")
	}

	return &Zone{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		DepotID:           depotID,
		Active:            true,
	}, nil
}

// Update updates the zone fields
func (z *Zone) Update(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Zone name cannot be empty")
	}
	z.Name = name
	z.Touch()
	return nil
}

// Reassign moves the zone to a different depot
func (z *Zone) Reassign(depotID uuid.UUID) error {
	if depotID == uuid.Nil {
		return shared.NewDomainError("INVALID_DEPOT", "Depot ID cannot be empty")
	}
	z.DepotID = depotID
	z.Touch()
	return nil
}

// Activate marks the zone as active
func (z *Zone) Activate() {
	z.Active = true
	z.Touch()
}

// Deactivate marks the zone as inactive
func (z *Zone) Deactivate() {
	z.Active = false
	z.Touch()
}
