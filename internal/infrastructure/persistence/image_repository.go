package persistence

import (
	"context"
	"errors"

	"github.com/store/backend/internal/domain/media"
	"github.com/store/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormImageRepository implements ImageRepository using GORM
type GormImageRepository struct {
	db *gorm.DB
}

// NewGormImageRepository creates a new GormImageRepository
func NewGormImageRepository(db *gorm.DB) *GormImageRepository {
	return &GormImageRepository{db: db}
}

// FindByID finds an image by its ID
func (r *GormImageRepository) FindByID(ctx context.Context, id int64) (*media.Image, error) {
	var image media.Image
	if err := session(ctx, r.db).First(&image, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &image, nil
}

// FindByIDs finds all images with the given IDs
func (r *GormImageRepository) FindByIDs(ctx context.Context, ids []int64) ([]media.Image, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var images []media.Image
	if err := session(ctx, r.db).Where("id IN ?", ids).Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// FindByFilename finds an image by its storage filename
func (r *GormImageRepository) FindByFilename(ctx context.Context, filename string) (*media.Image, error) {
	var image media.Image
	if err := session(ctx, r.db).First(&image, "filename = ?", filename).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &image, nil
}

// Create inserts image records
func (r *GormImageRepository) Create(ctx context.Context, images []*media.Image) error {
	if len(images) == 0 {
		return nil
	}
	return session(ctx, r.db).Create(images).Error
}

// Delete removes image records
func (r *GormImageRepository) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return session(ctx, r.db).Delete(&media.Image{}, "id IN ?", ids).Error
}

// Ensure GormImageRepository implements ImageRepository
var _ media.ImageRepository = (*GormImageRepository)(nil)

// GormImageReferenceChecker reports image references across every
// content table that points at images.
type GormImageReferenceChecker struct {
	db *gorm.DB
}

// NewGormImageReferenceChecker creates a new GormImageReferenceChecker
func NewGormImageReferenceChecker(db *gorm.DB) *GormImageReferenceChecker {
	return &GormImageReferenceChecker{db: db}
}

// ReferencedImageIDs returns the subset of ids still referenced by a
// preview, slide, category block, sub-block or home category.
func (r *GormImageReferenceChecker) ReferencedImageIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var referenced []int64
	err := session(ctx, r.db).Raw(`
		SELECT image_id FROM previews WHERE image_id IN ?
		UNION
		SELECT image_id FROM slides WHERE image_id IN ?
		UNION
		SELECT image_id FROM category_blocks WHERE image_id IN ?
		UNION
		SELECT image_id FROM category_sub_blocks WHERE image_id IN ?
		UNION
		SELECT image_id FROM home_categories WHERE image_id IN ?`,
		ids, ids, ids, ids, ids,
	).Scan(&referenced).Error
	if err != nil {
		return nil, err
	}
	return referenced, nil
}

// Ensure GormImageReferenceChecker implements ReferenceChecker
var _ media.ReferenceChecker = (*GormImageReferenceChecker)(nil)
