package persistence

import (
	"context"
	"errors"

	"github.com/store/backend/internal/domain/catalog"
	"github.com/store/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTagRepository implements TagRepository using GORM
type GormTagRepository struct {
	db *gorm.DB
}

// NewGormTagRepository creates a new GormTagRepository
func NewGormTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

// FindByID finds a tag by its ID
func (r *GormTagRepository) FindByID(ctx context.Context, id int64) (*catalog.Tag, error) {
	var tag catalog.Tag
	if err := session(ctx, r.db).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// FindByName finds a tag by its name
func (r *GormTagRepository) FindByName(ctx context.Context, name string) (*catalog.Tag, error) {
	var tag catalog.Tag
	if err := session(ctx, r.db).First(&tag, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// FindAll finds all tags
func (r *GormTagRepository) FindAll(ctx context.Context) ([]catalog.Tag, error) {
	var tags []catalog.Tag
	if err := session(ctx, r.db).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// ExistsByName checks whether another tag already uses the name
func (r *GormTagRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	query := session(ctx, r.db).Model(&catalog.Tag{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a tag
func (r *GormTagRepository) Create(ctx context.Context, tag *catalog.Tag) error {
	return session(ctx, r.db).Create(tag).Error
}

// Update saves a tag
func (r *GormTagRepository) Update(ctx context.Context, tag *catalog.Tag) error {
	return session(ctx, r.db).Save(tag).Error
}

// Delete removes a tag and its product links
func (r *GormTagRepository) Delete(ctx context.Context, id int64) error {
	if err := session(ctx, r.db).Delete(&catalog.TagProduct{}, "tag_id = ?", id).Error; err != nil {
		return err
	}
	result := session(ctx, r.db).Delete(&catalog.Tag{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindIDsByProduct finds the IDs of all tags linked to a product
func (r *GormTagRepository) FindIDsByProduct(ctx context.Context, productID int64) ([]int64, error) {
	var ids []int64
	if err := session(ctx, r.db).Model(&catalog.TagProduct{}).
		Where("product_id = ?", productID).
		Pluck("tag_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// LinkProduct links tags to a product
func (r *GormTagRepository) LinkProduct(ctx context.Context, productID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]catalog.TagProduct, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		links = append(links, catalog.TagProduct{TagID: tagID, ProductID: productID})
	}
	return session(ctx, r.db).Create(&links).Error
}

// UnlinkProduct removes tag links from a product
func (r *GormTagRepository) UnlinkProduct(ctx context.Context, productID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	return session(ctx, r.db).
		Delete(&catalog.TagProduct{}, "product_id = ? AND tag_id IN ?", productID, tagIDs).Error
}

// Ensure GormTagRepository implements TagRepository
var _ catalog.TagRepository = (*GormTagRepository)(nil)

// GormTagGroupRepository implements TagGroupRepository using GORM
type GormTagGroupRepository struct {
	db *gorm.DB
}

// NewGormTagGroupRepository creates a new GormTagGroupRepository
func NewGormTagGroupRepository(db *gorm.DB) *GormTagGroupRepository {
	return &GormTagGroupRepository{db: db}
}

// FindByID finds a tag group by its ID
func (r *GormTagGroupRepository) FindByID(ctx context.Context, id int64) (*catalog.TagGroup, error) {
	var group catalog.TagGroup
	if err := session(ctx, r.db).First(&group, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// FindAll finds all tag groups
func (r *GormTagGroupRepository) FindAll(ctx context.Context) ([]catalog.TagGroup, error) {
	var groups []catalog.TagGroup
	if err := session(ctx, r.db).Order("name ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// ExistsByName checks whether another group already uses the name
func (r *GormTagGroupRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	query := session(ctx, r.db).Model(&catalog.TagGroup{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a tag group
func (r *GormTagGroupRepository) Create(ctx context.Context, group *catalog.TagGroup) error {
	return session(ctx, r.db).Create(group).Error
}

// Update saves a tag group
func (r *GormTagGroupRepository) Update(ctx context.Context, group *catalog.TagGroup) error {
	return session(ctx, r.db).Save(group).Error
}

// Delete removes a tag group, detaching its tags
func (r *GormTagGroupRepository) Delete(ctx context.Context, id int64) error {
	if err := session(ctx, r.db).Model(&catalog.Tag{}).
		Where("tag_group_id = ?", id).
		Update("tag_group_id", nil).Error; err != nil {
		return err
	}
	result := session(ctx, r.db).Delete(&catalog.TagGroup{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormTagGroupRepository implements TagGroupRepository
var _ catalog.TagGroupRepository = (*GormTagGroupRepository)(nil)

// GormProductGroupRepository implements ProductGroupRepository using GORM
type GormProductGroupRepository struct {
	db *gorm.DB
}

// NewGormProductGroupRepository creates a new GormProductGroupRepository
func NewGormProductGroupRepository(db *gorm.DB) *GormProductGroupRepository {
	return &GormProductGroupRepository{db: db}
}

// FindByID finds a product group by its ID
func (r *GormProductGroupRepository) FindByID(ctx context.Context, id int64) (*catalog.ProductGroup, error) {
	var group catalog.ProductGroup
	if err := session(ctx, r.db).First(&group, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// FindAll finds all product groups
func (r *GormProductGroupRepository) FindAll(ctx context.Context) ([]catalog.ProductGroup, error) {
	var groups []catalog.ProductGroup
	if err := session(ctx, r.db).Order("name ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// ExistsByName checks whether another group already uses the name
func (r *GormProductGroupRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	query := session(ctx, r.db).Model(&catalog.ProductGroup{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a product group
func (r *GormProductGroupRepository) Create(ctx context.Context, group *catalog.ProductGroup) error {
	return session(ctx, r.db).Create(group).Error
}

// Update saves a product group
func (r *GormProductGroupRepository) Update(ctx context.Context, group *catalog.ProductGroup) error {
	return session(ctx, r.db).Save(group).Error
}

// Delete removes a product group, detaching its products
func (r *GormProductGroupRepository) Delete(ctx context.Context, id int64) error {
	if err := session(ctx, r.db).Model(&catalog.Product{}).
		Where("product_group_id = ?", id).
		Update("product_group_id", nil).Error; err != nil {
		return err
	}
	result := session(ctx, r.db).Delete(&catalog.ProductGroup{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormProductGroupRepository implements ProductGroupRepository
var _ catalog.ProductGroupRepository = (*GormProductGroupRepository)(nil)
