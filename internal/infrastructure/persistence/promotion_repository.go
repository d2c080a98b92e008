package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sfa/backend/internal/domain/promotion"
	"github.com/sfa/backend/internal/domain/shared"
)

// GormPromotionRepository implements promotion.Repository using GORM
type GormPromotionRepository struct {
	db *gorm.DB
}

// NewGormPromotionRepository creates a new GormPromotionRepository
func NewGormPromotionRepository(db *gorm.DB) *GormPromotionRepository {
	return &GormPromotionRepository{db: db}
}

func (r *GormPromotionRepository) withStructure(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Scopes").
		Preload("Exclusions").
		Preload("Conditions").
		Preload("Levels").
		Preload("Levels.Benefits")
}

// FindByID finds a promotion with its full structure
func (r *GormPromotionRepository) FindByID(ctx context.Context, id uuid.UUID) (*promotion.Promotion, error) {
	var promo promotion.Promotion
	if err := r.withStructure(r.db.WithContext(ctx)).First(&promo, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &promo, nil
}

// FindByCode finds a promotion by its code
func (r *GormPromotionRepository) FindByCode(ctx context.Context, code string) (*promotion.Promotion, error) {
	var promo promotion.Promotion
	if err := r.withStructure(r.db.WithContext(ctx)).
		Where("code = ?", strings.ToUpper(code)).
		First(&promo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &promo, nil
}

// FindAll finds all promotions matching the filter
func (r *GormPromotionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*promotion.Promotion, error) {
	var promos []*promotion.Promotion
	query := r.applyFilter(r.db.WithContext(ctx).Model(&promotion.Promotion{}), filter)
	if err := r.withStructure(query).Find(&promos).Error; err != nil {
		return nil, err
	}
	return promos, nil
}

// FindActiveOn finds promotions whose validity window covers the given date
func (r *GormPromotionRepository) FindActiveOn(ctx context.Context, date time.Time) ([]*promotion.Promotion, error) {
	day := date.Truncate(24 * time.Hour)
	var promos []*promotion.Promotion
	if err := r.withStructure(r.db.WithContext(ctx)).
		Where("active = ? AND start_date <= ? AND end_date >= ?", true, day, day).
		Order("code ASC").
		Find(&promos).Error; err != nil {
		return nil, err
	}
	return promos, nil
}

// Count counts promotions matching the filter
func (r *GormPromotionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&promotion.Promotion{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a promotion with the given code exists
func (r *GormPromotionRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&promotion.Promotion{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save persists a promotion and replaces its structure rows.
// Scope, exclusion, condition and level sets are rewritten wholesale so that
// removed rows do not survive an update.
func (r *GormPromotionRepository) Save(ctx context.Context, promo *promotion.Promotion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Scopes", "Exclusions", "Conditions", "Levels").Save(promo).Error; err != nil {
			return err
		}

		levelIDs := make([]uuid.UUID, len(promo.Levels))
		for i := range promo.Levels {
			levelIDs[i] = promo.Levels[i].ID
		}

		if err := tx.Where("level_id IN (?)",
			tx.Model(&promotion.Level{}).Select("id").Where("promotion_id = ?", promo.ID),
		).Delete(&promotion.Benefit{}).Error; err != nil {
			return err
		}
		for _, child := range []any{&promotion.Scope{}, &promotion.Exclusion{}, &promotion.Condition{}, &promotion.Level{}} {
			if err := tx.Where("promotion_id = ?", promo.ID).Delete(child).Error; err != nil {
				return err
			}
		}

		for i := range promo.Scopes {
			promo.Scopes[i].PromotionID = promo.ID
			if err := tx.Create(&promo.Scopes[i]).Error; err != nil {
				return err
			}
		}
		for i := range promo.Exclusions {
			promo.Exclusions[i].PromotionID = promo.ID
			if err := tx.Create(&promo.Exclusions[i]).Error; err != nil {
				return err
			}
		}
		for i := range promo.Conditions {
			promo.Conditions[i].PromotionID = promo.ID
			if err := tx.Create(&promo.Conditions[i]).Error; err != nil {
				return err
			}
		}
		for i := range promo.Levels {
			promo.Levels[i].PromotionID = promo.ID
			if err := tx.Omit("Benefits").Create(&promo.Levels[i]).Error; err != nil {
				return err
			}
			for j := range promo.Levels[i].Benefits {
				promo.Levels[i].Benefits[j].LevelID = promo.Levels[i].ID
				if err := tx.Create(&promo.Levels[i].Benefits[j]).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
}

// Delete deletes a promotion and its structure rows
func (r *GormPromotionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("level_id IN (?)",
			tx.Model(&promotion.Level{}).Select("id").Where("promotion_id = ?", id),
		).Delete(&promotion.Benefit{}).Error; err != nil {
			return err
		}
		for _, child := range []any{&promotion.Scope{}, &promotion.Exclusion{}, &promotion.Condition{}, &promotion.Level{}} {
			if err := tx.Where("promotion_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&promotion.Promotion{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormPromotionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Paginate() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PromotionSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormPromotionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		case "active_on":
			if day, ok := value.(time.Time); ok {
				query = query.Where("start_date <= ? AND end_date >= ?", day, day)
			}
		}
	}

	return query
}

// Ensure GormPromotionRepository implements promotion.Repository
var _ promotion.Repository = (*GormPromotionRepository)(nil)
