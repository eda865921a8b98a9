package persistence

import (
	"context"
	"errors"

	"github.com/store/backend/internal/domain/catalog"
	"github.com/store/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID with previews and details
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var product catalog.Product
	if err := session(ctx, r.db).
		Preload("Previews", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByArticle finds a product by its article
func (r *GormProductRepository) FindByArticle(ctx context.Context, article string) (*catalog.Product, error) {
	var product catalog.Product
	if err := session(ctx, r.db).
		Preload("Previews", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&product, "article = ?", article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByArticles finds all products with the given articles
func (r *GormProductRepository) FindByArticles(ctx context.Context, articles []string) ([]catalog.Product, error) {
	if len(articles) == 0 {
		return nil, nil
	}
	var products []catalog.Product
	if err := session(ctx, r.db).
		Where("article IN ?", articles).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ExistsByArticle checks whether another product already uses the article
func (r *GormProductRepository) ExistsByArticle(ctx context.Context, article string, excludeID int64) (bool, error) {
	var count int64
	query := session(ctx, r.db).Model(&catalog.Product{}).Where("article = ?", article)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List finds products matching the filter with a total count
func (r *GormProductRepository) List(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	query := session(ctx, r.db).Model(&catalog.Product{})
	query = r.applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var products []catalog.Product
	if err := query.
		Preload("Previews", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter catalog.ProductFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR article ILIKE ?", pattern, pattern)
	}
	if filter.Article != "" {
		query = query.Where("article = ?", filter.Article)
	}
	if len(filter.TagIDs) > 0 {
		query = query.Where(
			"id IN (SELECT product_id FROM tag_products WHERE tag_id IN ? GROUP BY product_id HAVING COUNT(DISTINCT tag_id) = ?)",
			filter.TagIDs, len(filter.TagIDs))
	}
	if filter.ProductGroupID != nil {
		query = query.Where("product_group_id = ?", *filter.ProductGroupID)
	}
	if filter.PriceMin != nil {
		query = query.Where("price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		query = query.Where("price <= ?", *filter.PriceMax)
	}
	if filter.VisibleOnly {
		query = query.Where("visible = ?", true)
	}
	if filter.AvailableOnly {
		query = query.Where("available = ?", true)
	}
	return query
}

// Create inserts a product
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return session(ctx, r.db).Omit("Previews", "Details").Create(product).Error
}

// Update saves a product
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	return session(ctx, r.db).Omit("Previews", "Details").Save(product).Error
}

// Delete removes a product
func (r *GormProductRepository) Delete(ctx context.Context, id int64) error {
	result := session(ctx, r.db).Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DecrementStock conditionally decrements stock in a single statement.
// The WHERE guard makes the decrement atomic: two concurrent orders can
// never drive the count below zero.
func (r *GormProductRepository) DecrementStock(ctx context.Context, id int64, quantity int) (bool, error) {
	result := session(ctx, r.db).Model(&catalog.Product{}).
		Where("id = ? AND count >= ?", id, quantity).
		Updates(map[string]interface{}{
			"count":     gorm.Expr("count - ?", quantity),
			"available": gorm.Expr("count - ? > 0", quantity),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
