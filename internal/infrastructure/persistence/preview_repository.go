package persistence

import (
	"context"

	"github.com/store/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormPreviewRepository implements PreviewRepository using GORM
type GormPreviewRepository struct {
	db *gorm.DB
}

// NewGormPreviewRepository creates a new GormPreviewRepository
func NewGormPreviewRepository(db *gorm.DB) *GormPreviewRepository {
	return &GormPreviewRepository{db: db}
}

// FindByProduct finds all previews of a product ordered by index
func (r *GormPreviewRepository) FindByProduct(ctx context.Context, productID int64) ([]catalog.Preview, error) {
	var previews []catalog.Preview
	if err := session(ctx, r.db).
		Where("product_id = ?", productID).
		Order("position ASC").
		Find(&previews).Error; err != nil {
		return nil, err
	}
	return previews, nil
}

// Create inserts previews
func (r *GormPreviewRepository) Create(ctx context.Context, previews []*catalog.Preview) error {
	if len(previews) == 0 {
		return nil
	}
	return session(ctx, r.db).Create(previews).Error
}

// Update saves a preview
func (r *GormPreviewRepository) Update(ctx context.Context, preview *catalog.Preview) error {
	return session(ctx, r.db).Save(preview).Error
}

// Delete removes previews
func (r *GormPreviewRepository) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return session(ctx, r.db).Delete(&catalog.Preview{}, "id IN ?", ids).Error
}

// Ensure GormPreviewRepository implements PreviewRepository
var _ catalog.PreviewRepository = (*GormPreviewRepository)(nil)

// GormDetailRepository implements DetailRepository using GORM
type GormDetailRepository struct {
	db *gorm.DB
}

// NewGormDetailRepository creates a new GormDetailRepository
func NewGormDetailRepository(db *gorm.DB) *GormDetailRepository {
	return &GormDetailRepository{db: db}
}

// FindByProduct finds all details of a product ordered by index
func (r *GormDetailRepository) FindByProduct(ctx context.Context, productID int64) ([]catalog.Detail, error) {
	var details []catalog.Detail
	if err := session(ctx, r.db).
		Where("product_id = ?", productID).
		Order("type ASC, position ASC").
		Find(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

// Create inserts details
func (r *GormDetailRepository) Create(ctx context.Context, details []*catalog.Detail) error {
	if len(details) == 0 {
		return nil
	}
	return session(ctx, r.db).Create(details).Error
}

// Update saves a detail
func (r *GormDetailRepository) Update(ctx context.Context, detail *catalog.Detail) error {
	return session(ctx, r.db).Save(detail).Error
}

// Delete removes details
func (r *GormDetailRepository) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return session(ctx, r.db).Delete(&catalog.Detail{}, "id IN ?", ids).Error
}

// Ensure GormDetailRepository implements DetailRepository
var _ catalog.DetailRepository = (*GormDetailRepository)(nil)
