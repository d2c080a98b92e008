package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sfa/backend/internal/domain/inventory"
	"github.com/sfa/backend/internal/domain/shared"
)

// GormStockItemRepository implements StockItemRepository using GORM
type GormStockItemRepository struct {
	db *gorm.DB
}

// NewGormStockItemRepository creates a new GormStockItemRepository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

// FindByID finds a stock item by its ID
func (r *GormStockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockItem, error) {
	var item inventory.StockItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByProductAndDepot finds the stock balance for a product at a depot
func (r *GormStockItemRepository) FindByProductAndDepot(ctx context.Context, productID, depotID uuid.UUID) (*inventory.StockItem, error) {
	var item inventory.StockItem
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND depot_id = ?", productID, depotID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByProductAndDepotForUpdate loads the balance row with SELECT ... FOR UPDATE.
// The lock is only held when the repository runs inside a transaction.
func (r *GormStockItemRepository) FindByProductAndDepotForUpdate(ctx context.Context, productID, depotID uuid.UUID) (*inventory.StockItem, error) {
	var item inventory.StockItem
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND depot_id = ?", productID, depotID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindAll finds stock items matching the filter
func (r *GormStockItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*inventory.StockItem, error) {
	var items []*inventory.StockItem
	query := applyStockItemFilter(r.db.WithContext(ctx).Model(&inventory.StockItem{}), filter, true)
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Count counts stock items matching the filter
func (r *GormStockItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyStockItemFilter(r.db.WithContext(ctx).Model(&inventory.StockItem{}), filter, false)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a stock item
func (r *GormStockItemRepository) Save(ctx context.Context, item *inventory.StockItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func applyStockItemFilter(query *gorm.DB, filter shared.Filter, paginate bool) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "depot_id":
			query = query.Where("depot_id = ?", value)
		}
	}

	if !paginate {
		return query
	}
	if filter.Paginate() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, StockItemSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// Ensure GormStockItemRepository implements StockItemRepository
var _ inventory.StockItemRepository = (*GormStockItemRepository)(nil)

// GormBatchLotRepository implements BatchLotRepository using GORM
type GormBatchLotRepository struct {
	db *gorm.DB
}

// NewGormBatchLotRepository creates a new GormBatchLotRepository
func NewGormBatchLotRepository(db *gorm.DB) *GormBatchLotRepository {
	return &GormBatchLotRepository{db: db}
}

// FindByID finds a batch lot by its ID
func (r *GormBatchLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.BatchLot, error) {
	var lot inventory.BatchLot
	if err := r.db.WithContext(ctx).First(&lot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindByIDs finds multiple batch lots by their IDs
func (r *GormBatchLotRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*inventory.BatchLot, error) {
	if len(ids) == 0 {
		return []*inventory.BatchLot{}, nil
	}
	var lots []*inventory.BatchLot
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindByProductAndDepot finds batch lots for a product at a depot, oldest expiry first
func (r *GormBatchLotRepository) FindByProductAndDepot(ctx context.Context, productID, depotID uuid.UUID) ([]*inventory.BatchLot, error) {
	var lots []*inventory.BatchLot
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND depot_id = ?", productID, depotID).
		Order("expiry_date ASC NULLS LAST, created_at ASC").
		Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// Save creates or updates a batch lot
func (r *GormBatchLotRepository) Save(ctx context.Context, lot *inventory.BatchLot) error {
	return r.db.WithContext(ctx).Save(lot).Error
}

// Ensure GormBatchLotRepository implements BatchLotRepository
var _ inventory.BatchLotRepository = (*GormBatchLotRepository)(nil)

// GormSerialNumberRepository implements SerialNumberRepository using GORM
type GormSerialNumberRepository struct {
	db *gorm.DB
}

// NewGormSerialNumberRepository creates a new GormSerialNumberRepository
func NewGormSerialNumberRepository(db *gorm.DB) *GormSerialNumberRepository {
	return &GormSerialNumberRepository{db: db}
}

// FindByID finds a serial unit by its ID
func (r *GormSerialNumberRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.SerialNumber, error) {
	var serial inventory.SerialNumber
	if err := r.db.WithContext(ctx).First(&serial, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &serial, nil
}

// FindByIDs finds multiple serial units by their IDs
func (r *GormSerialNumberRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*inventory.SerialNumber, error) {
	if len(ids) == 0 {
		return []*inventory.SerialNumber{}, nil
	}
	var serials []*inventory.SerialNumber
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&serials).Error; err != nil {
		return nil, err
	}
	return serials, nil
}

// FindBySerial finds a serial unit by product and serial string
func (r *GormSerialNumberRepository) FindBySerial(ctx context.Context, productID uuid.UUID, serial string) (*inventory.SerialNumber, error) {
	var unit inventory.SerialNumber
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND serial = ?", productID, serial).
		First(&unit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// FindAvailable finds available serial units for a product at a depot
func (r *GormSerialNumberRepository) FindAvailable(ctx context.Context, productID, depotID uuid.UUID) ([]*inventory.SerialNumber, error) {
	var serials []*inventory.SerialNumber
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND depot_id = ? AND status = ?",
			productID, depotID, inventory.SerialStatusAvailable).
		Order("created_at ASC").
		Find(&serials).Error; err != nil {
		return nil, err
	}
	return serials, nil
}

// FindByOrder finds the serial units sold against an order
func (r *GormSerialNumberRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*inventory.SerialNumber, error) {
	var serials []*inventory.SerialNumber
	if err := r.db.WithContext(ctx).
		Where("sold_order_id = ?", orderID).
		Find(&serials).Error; err != nil {
		return nil, err
	}
	return serials, nil
}

// Save creates or updates a serial unit
func (r *GormSerialNumberRepository) Save(ctx context.Context, serial *inventory.SerialNumber) error {
	return r.db.WithContext(ctx).Save(serial).Error
}

// Ensure GormSerialNumberRepository implements SerialNumberRepository
var _ inventory.SerialNumberRepository = (*GormSerialNumberRepository)(nil)

// GormStockMovementRepository implements StockMovementRepository using GORM
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// FindAll finds stock movements matching the filter
func (r *GormStockMovementRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*inventory.StockMovement, error) {
	var movements []*inventory.StockMovement
	query := applyMovementFilter(r.db.WithContext(ctx).Model(&inventory.StockMovement{}), filter, true)
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByReference finds movements recorded for a source document
func (r *GormStockMovementRepository) FindByReference(ctx context.Context, refType inventory.ReferenceType, refID uuid.UUID) ([]*inventory.StockMovement, error) {
	var movements []*inventory.StockMovement
	if err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", refType, refID).
		Order("occurred_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// Count counts stock movements matching the filter
func (r *GormStockMovementRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyMovementFilter(r.db.WithContext(ctx).Model(&inventory.StockMovement{}), filter, false)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save appends a stock movement. Movements are immutable history rows.
func (r *GormStockMovementRepository) Save(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func applyMovementFilter(query *gorm.DB, filter shared.Filter, paginate bool) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "depot_id":
			query = query.Where("depot_id = ?", value)
		case "movement_type":
			query = query.Where("movement_type = ?", value)
		case "reference_type":
			query = query.Where("reference_type = ?", value)
		case "reference_id":
			query = query.Where("reference_id = ?", value)
		}
	}

	if !paginate {
		return query
	}
	if filter.Paginate() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, StockMovementSortFields, "occurred_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// Ensure GormStockMovementRepository implements StockMovementRepository
var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
