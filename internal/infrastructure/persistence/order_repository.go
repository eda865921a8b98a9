package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/store/backend/internal/domain/shared"
	"github.com/store/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with items and actions
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := session(ctx, r.db).
		Preload("Items").
		Preload("Actions", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByNumber finds an order by its customer-facing number
func (r *GormOrderRepository) FindByNumber(ctx context.Context, number string) (*trade.Order, error) {
	var order trade.Order
	if err := session(ctx, r.db).
		Preload("Items").
		Preload("Actions", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&order, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// List finds orders matching the filter with a total count
func (r *GormOrderRepository) List(ctx context.Context, filter trade.OrderFilter) ([]trade.Order, int64, error) {
	query := session(ctx, r.db).Model(&trade.Order{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ProfileID != nil {
		query = query.Where("profile_id = ?", *filter.ProfileID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var orders []trade.Order
	if err := query.
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Create inserts an order with its items
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	return session(ctx, r.db).Omit("Actions").Create(order).Error
}

// Update saves an order without touching items or actions
func (r *GormOrderRepository) Update(ctx context.Context, order *trade.Order) error {
	return session(ctx, r.db).Omit("Items", "Actions").Save(order).Error
}

// AddAction appends an entry to the order action log
func (r *GormOrderRepository) AddAction(ctx context.Context, action *trade.OrderAction) error {
	return session(ctx, r.db).Create(action).Error
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
