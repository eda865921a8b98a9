package persistence

import (
	"context"
	"errors"

	"github.com/store/backend/internal/domain/content"
	"github.com/store/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSlideRepository implements SlideRepository using GORM
type GormSlideRepository struct {
	db *gorm.DB
}

// NewGormSlideRepository creates a new GormSlideRepository
func NewGormSlideRepository(db *gorm.DB) *GormSlideRepository {
	return &GormSlideRepository{db: db}
}

// FindAll finds all slides ordered by index
func (r *GormSlideRepository) FindAll(ctx context.Context) ([]content.Slide, error) {
	var slides []content.Slide
	if err := session(ctx, r.db).Order("position ASC").Find(&slides).Error; err != nil {
		return nil, err
	}
	return slides, nil
}

// FindByIDs finds all slides with the given IDs
func (r *GormSlideRepository) FindByIDs(ctx context.Context, ids []int64) ([]content.Slide, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var slides []content.Slide
	if err := session(ctx, r.db).Where("id IN ?", ids).Find(&slides).Error; err != nil {
		return nil, err
	}
	return slides, nil
}

// Create inserts slides
func (r *GormSlideRepository) Create(ctx context.Context, slides []*content.Slide) error {
	if len(slides) == 0 {
		return nil
	}
	return session(ctx, r.db).Create(slides).Error
}

// Update saves a slide
func (r *GormSlideRepository) Update(ctx context.Context, slide *content.Slide) error {
	return session(ctx, r.db).Save(slide).Error
}

// Delete removes slides
func (r *GormSlideRepository) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return session(ctx, r.db).Delete(&content.Slide{}, "id IN ?", ids).Error
}

// Ensure GormSlideRepository implements SlideRepository
var _ content.SlideRepository = (*GormSlideRepository)(nil)

// GormCategoryBlockRepository implements CategoryBlockRepository using GORM
type GormCategoryBlockRepository struct {
	db *gorm.DB
}

// NewGormCategoryBlockRepository creates a new GormCategoryBlockRepository
func NewGormCategoryBlockRepository(db *gorm.DB) *GormCategoryBlockRepository {
	return &GormCategoryBlockRepository{db: db}
}

// FindAll finds all category blocks with children ordered by index
func (r *GormCategoryBlockRepository) FindAll(ctx context.Context) ([]content.CategoryBlock, error) {
	var blocks []content.CategoryBlock
	if err := session(ctx, r.db).
		Preload("SubBlocks").
		Preload("Links").
		Order("position ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

// FindByID finds a category block with children
func (r *GormCategoryBlockRepository) FindByID(ctx context.Context, id int64) (*content.CategoryBlock, error) {
	var block content.CategoryBlock
	if err := session(ctx, r.db).
		Preload("SubBlocks").
		Preload("Links").
		First(&block, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &block, nil
}

// Create inserts a category block
func (r *GormCategoryBlockRepository) Create(ctx context.Context, block *content.CategoryBlock) error {
	return session(ctx, r.db).Omit("SubBlocks", "Links").Create(block).Error
}

// Update saves a category block
func (r *GormCategoryBlockRepository) Update(ctx context.Context, block *content.CategoryBlock) error {
	return session(ctx, r.db).Omit("SubBlocks", "Links").Save(block).Error
}

// Delete removes category blocks with their children
func (r *GormCategoryBlockRepository) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	db := session(ctx, r.db)
	if err := db.Delete(&content.CategorySubBlock{}, "category_block_id IN ?", ids).Error; err != nil {
		return err
	}
	if err := db.Delete(&content.CategoryBlockLink{}, "category_block_id IN ?", ids).Error; err != nil {
		return err
	}
	return db.Delete(&content.CategoryBlock{}, "id IN ?", ids).Error
}

// FindSubBlocks finds the sub-blocks of a category block
func (r *GormCategoryBlockRepository) FindSubBlocks(ctx context.Context, blockID int64) ([]content.CategorySubBlock, error) {
	var subBlocks []content.CategorySubBlock
	if err := session(ctx, r.db).
		Where("category_block_id = ?", blockID).
		Find(&subBlocks).Error; err != nil {
		return nil, err
	}
	return subBlocks, nil
}

// CreateSubBlocks inserts sub-blocks
func (r *GormCategoryBlockRepository) CreateSubBlocks(ctx context.Context, subBlocks []*content.CategorySubBlock) error {
	if len(subBlocks) == 0 {
		return nil
	}
	return session(ctx, r.db).Create(subBlocks).Error
}

// UpdateSubBlock saves a sub-block
func (r *GormCategoryBlockRepository) UpdateSubBlock(ctx context.Context, subBlock *content.CategorySubBlock) error {
	return session(ctx, r.db).Save(subBlock).Error
}

// DeleteSubBlocks removes sub-blocks
func (r *GormCategoryBlockRepository) DeleteSubBlocks(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return session(ctx, r.db).Delete(&content.CategorySubBlock{}, "id IN ?", ids).Error
}

// FindLinks finds the links of a category block
func (r *GormCategoryBlockRepository) FindLinks(ctx context.Context, blockID int64) ([]content.CategoryBlockLink, error) {
	var links []content.CategoryBlockLink
	if err := session(ctx, r.db).
		Where("category_block_id = ?", blockID).
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// CreateLinks inserts links
func (r *GormCategoryBlockRepository) CreateLinks(ctx context.Context, links []*content.CategoryBlockLink) error {
	if len(links) == 0 {
		return nil
	}
	return session(ctx, r.db).Create(links).Error
}

// UpdateLink saves a link
func (r *GormCategoryBlockRepository) UpdateLink(ctx context.Context, link *content.CategoryBlockLink) error {
	return session(ctx, r.db).Save(link).Error
}

// DeleteLinks removes links
func (r *GormCategoryBlockRepository) DeleteLinks(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return session(ctx, r.db).Delete(&content.CategoryBlockLink{}, "id IN ?", ids).Error
}

// Ensure GormCategoryBlockRepository implements CategoryBlockRepository
var _ content.CategoryBlockRepository = (*GormCategoryBlockRepository)(nil)

// GormHomeCategoryRepository implements HomeCategoryRepository using GORM
type GormHomeCategoryRepository struct {
	db *gorm.DB
}

// NewGormHomeCategoryRepository creates a new GormHomeCategoryRepository
func NewGormHomeCategoryRepository(db *gorm.DB) *GormHomeCategoryRepository {
	return &GormHomeCategoryRepository{db: db}
}

// FindAll finds all home categories
func (r *GormHomeCategoryRepository) FindAll(ctx context.Context) ([]content.HomeCategory, error) {
	var categories []content.HomeCategory
	if err := session(ctx, r.db).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindByID finds a home category by its ID
func (r *GormHomeCategoryRepository) FindByID(ctx context.Context, id int64) (*content.HomeCategory, error) {
	var category content.HomeCategory
	if err := session(ctx, r.db).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// ExistsByProductGroup checks whether the group is already pinned
func (r *GormHomeCategoryRepository) ExistsByProductGroup(ctx context.Context, productGroupID int64) (bool, error) {
	var count int64
	if err := session(ctx, r.db).Model(&content.HomeCategory{}).
		Where("product_group_id = ?", productGroupID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a home category
func (r *GormHomeCategoryRepository) Create(ctx context.Context, category *content.HomeCategory) error {
	return session(ctx, r.db).Create(category).Error
}

// Delete removes a home category
func (r *GormHomeCategoryRepository) Delete(ctx context.Context, id int64) error {
	result := session(ctx, r.db).Delete(&content.HomeCategory{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormHomeCategoryRepository implements HomeCategoryRepository
var _ content.HomeCategoryRepository = (*GormHomeCategoryRepository)(nil)

// GormPageBlockRepository implements PageBlockRepository using GORM
type GormPageBlockRepository struct {
	db *gorm.DB
}

// NewGormPageBlockRepository creates a new GormPageBlockRepository
func NewGormPageBlockRepository(db *gorm.DB) *GormPageBlockRepository {
	return &GormPageBlockRepository{db: db}
}

// FindByPageType finds all blocks of a static page
func (r *GormPageBlockRepository) FindByPageType(ctx context.Context, pageType string) ([]content.PageBlock, error) {
	var blocks []content.PageBlock
	if err := session(ctx, r.db).
		Where("page_type = ?", pageType).
		Order("id ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

// DeleteByPageType removes all blocks of a static page
func (r *GormPageBlockRepository) DeleteByPageType(ctx context.Context, pageType string) error {
	return session(ctx, r.db).Delete(&content.PageBlock{}, "page_type = ?", pageType).Error
}

// Create inserts page blocks
func (r *GormPageBlockRepository) Create(ctx context.Context, blocks []*content.PageBlock) error {
	if len(blocks) == 0 {
		return nil
	}
	return session(ctx, r.db).Create(blocks).Error
}

// Ensure GormPageBlockRepository implements PageBlockRepository
var _ content.PageBlockRepository = (*GormPageBlockRepository)(nil)

// GormContactRepository implements ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// Get returns the contact card singleton
func (r *GormContactRepository) Get(ctx context.Context) (*content.Contact, error) {
	var contact content.Contact
	if err := session(ctx, r.db).First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &contact, nil
}

// Save creates or updates the contact card
func (r *GormContactRepository) Save(ctx context.Context, contact *content.Contact) error {
	return session(ctx, r.db).Save(contact).Error
}

// Ensure GormContactRepository implements ContactRepository
var _ content.ContactRepository = (*GormContactRepository)(nil)

// GormRepairServiceRepository implements RepairServiceRepository using GORM
type GormRepairServiceRepository struct {
	db *gorm.DB
}

// NewGormRepairServiceRepository creates a new GormRepairServiceRepository
func NewGormRepairServiceRepository(db *gorm.DB) *GormRepairServiceRepository {
	return &GormRepairServiceRepository{db: db}
}

// FindAll finds all repair services
func (r *GormRepairServiceRepository) FindAll(ctx context.Context) ([]content.RepairService, error) {
	var services []content.RepairService
	if err := session(ctx, r.db).Order("id ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// DeleteAll truncates the price list
func (r *GormRepairServiceRepository) DeleteAll(ctx context.Context) error {
	return session(ctx, r.db).Where("1 = 1").Delete(&content.RepairService{}).Error
}

// Create inserts repair services
func (r *GormRepairServiceRepository) Create(ctx context.Context, services []*content.RepairService) error {
	if len(services) == 0 {
		return nil
	}
	return session(ctx, r.db).Create(services).Error
}

// Ensure GormRepairServiceRepository implements RepairServiceRepository
var _ content.RepairServiceRepository = (*GormRepairServiceRepository)(nil)

// GormUserRequestRepository implements UserRequestRepository using GORM
type GormUserRequestRepository struct {
	db *gorm.DB
}

// NewGormUserRequestRepository creates a new GormUserRequestRepository
func NewGormUserRequestRepository(db *gorm.DB) *GormUserRequestRepository {
	return &GormUserRequestRepository{db: db}
}

// FindByID finds a user request by its ID
func (r *GormUserRequestRepository) FindByID(ctx context.Context, id int64) (*content.UserRequest, error) {
	var request content.UserRequest
	if err := session(ctx, r.db).First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// List finds user requests with a total count
func (r *GormUserRequestRepository) List(ctx context.Context, page, pageSize int, checked *bool) ([]content.UserRequest, int64, error) {
	query := session(ctx, r.db).Model(&content.UserRequest{})
	if checked != nil {
		query = query.Where("checked = ?", *checked)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page > 0 && pageSize > 0 {
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}

	var requests []content.UserRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// Create inserts a user request
func (r *GormUserRequestRepository) Create(ctx context.Context, request *content.UserRequest) error {
	return session(ctx, r.db).Create(request).Error
}

// Update saves a user request
func (r *GormUserRequestRepository) Update(ctx context.Context, request *content.UserRequest) error {
	return session(ctx, r.db).Save(request).Error
}

// Delete removes a user request
func (r *GormUserRequestRepository) Delete(ctx context.Context, id int64) error {
	result := session(ctx, r.db).Delete(&content.UserRequest{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormUserRequestRepository implements UserRequestRepository
var _ content.UserRequestRepository = (*GormUserRequestRepository)(nil)
