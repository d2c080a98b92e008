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

// GormDepotRepository implements DepotRepository using GORM
type GormDepotRepository struct {
	db *gorm.DB
}

// NewGormDepotRepository creates a new GormDepotRepository
func NewGormDepotRepository(db *gorm.DB) *GormDepotRepository {
	return &GormDepotRepository{db: db}
}

// FindByID finds a depot by its ID
func (r *GormDepotRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Depot, error) {
	var depot partner.Depot
	if err := r.db.WithContext(ctx).First(&depot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &depot, nil
}

// FindByCode finds a depot by its code
func (r *GormDepotRepository) FindByCode(ctx context.Context, code string) (*partner.Depot, error) {
	var depot partner.Depot
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&depot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &depot, nil
}

// FindAll finds all depots matching the filter
func (r *GormDepotRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Depot, error) {
	var depots []partner.Depot
	query := r.applyFilter(r.db.WithContext(ctx).Model(&partner.Depot{}), filter)
	if err := query.Find(&depots).Error; err != nil {
		return nil, err
	}
	return depots, nil
}

// Count counts depots matching the filter
func (r *GormDepotRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&partner.Depot{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a depot with the given code exists
func (r *GormDepotRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&partner.Depot{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a depot
func (r *GormDepotRepository) Save(ctx context.Context, depot *partner.Depot) error {
	return r.db.WithContext(ctx).Save(depot).Error
}

// Delete deletes a depot
func (r *GormDepotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Depot{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormDepotRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Paginate() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, DepotSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormDepotRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return query
}

// Ensure GormDepotRepository implements DepotRepository
var _ partner.DepotRepository = (*GormDepotRepository)(nil)
