package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sfa/backend/internal/domain/partner"
	"github.com/sfa/backend/internal/domain/shared"
)

// GormZoneRepository implements ZoneRepository using GORM
type GormZoneRepository struct {
	db *gorm.DB
}

// NewGormZoneRepository creates a new GormZoneRepository
func NewGormZoneRepository(db *gorm.DB) *GormZoneRepository {
	return &GormZoneRepository{db: db}
}

// FindByID finds a zone by its ID
func (r *GormZoneRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Zone, error) {
	var zone partner.Zone
	if err := r.db.WithContext(ctx).First(&zone, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &zone, nil
}

// FindByDepot finds zones belonging to a depot
func (r *GormZoneRepository) FindByDepot(ctx context.Context, depotID uuid.UUID, filter shared.Filter) ([]partner.Zone, error) {
	var zones []partner.Zone
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&partner.Zone{}).Where("depot_id = ?", depotID),
		filter,
	)
	if err := query.Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}

// FindAll finds all zones matching the filter
func (r *GormZoneRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Zone, error) {
	var zones []partner.Zone
	query := r.applyFilter(r.db.WithContext(ctx).Model(&partner.Zone{}), filter)
	if err := query.Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}

// Count counts zones matching the filter
func (r *GormZoneRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&partner.Zone{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a zone with the given code exists
func (r *GormZoneRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&partner.Zone{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a zone
func (r *GormZoneRepository) Save(ctx context.Context, zone *partner.Zone) error {
	return r.db.WithContext(ctx).Save(zone).Error
}

// Delete deletes a zone
func (r *GormZoneRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Zone{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormZoneRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Paginate() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ZoneSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormZoneRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "depot_id":
			query = query.Where("depot_id = ?", value)
		}
	}

	return query
}

// Ensure GormZoneRepository implements ZoneRepository
var _ partner.ZoneRepository = (*GormZoneRepository)(nil)
