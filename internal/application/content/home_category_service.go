package content

import (
	"context"

	appmedia "github.com/store/backend/internal/application/media"
	"github.com/store/backend/internal/domain/catalog"
	"github.com/store/backend/internal/domain/content"
	"github.com/store/backend/internal/domain/media"
	"github.com/store/backend/internal/domain/reconcile"
	"github.com/store/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// HomeCategoryView is a home category joined with its group name, the
// tags of the group's products and the image filename.
type HomeCategoryView struct {
	ID             int64   `json:"id"`
	ProductGroupID int64   `json:"product_group_id"`
	GroupName      string  `json:"group_name"`
	TagIDs         []int64 `json:"tag_ids"`
	ImageID        int64   `json:"image_id"`
	Filename       string  `json:"filename"`
}

// HomeCategoryService manages the product groups pinned to the home
// page.
type HomeCategoryService struct {
	categories content.HomeCategoryRepository
	groups     catalog.ProductGroupRepository
	products   catalog.ProductRepository
	tags       catalog.TagRepository
	images     media.ImageRepository
	imageSvc   *appmedia.ImageService
	uow        shared.UnitOfWork
	logger     *zap.Logger
}

// NewHomeCategoryService creates a new home category service
func NewHomeCategoryService(
	categories content.HomeCategoryRepository,
	groups catalog.ProductGroupRepository,
	products catalog.ProductRepository,
	tags catalog.TagRepository,
	images media.ImageRepository,
	imageSvc *appmedia.ImageService,
	uow shared.UnitOfWork,
	logger *zap.Logger,
) *HomeCategoryService {
	return &HomeCategoryService{
		categories: categories,
		groups:     groups,
		products:   products,
		tags:       tags,
		images:     images,
		imageSvc:   imageSvc,
		uow:        uow,
		logger:     logger,
	}
}

// ListCategories returns every home category joined with its group name
// and the distinct tags of the group's products.
func (s *HomeCategoryService) ListCategories(ctx context.Context) ([]HomeCategoryView, error) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	imageIDs := make([]int64, 0, len(categories))
	for _, c := range categories {
		imageIDs = append(imageIDs, c.ImageID)
	}
	images, err := s.images.FindByIDs(ctx, imageIDs)
	if err != nil {
		return nil, err
	}
	filenames := make(map[int64]string, len(images))
	for _, image := range images {
		filenames[image.ID] = image.Filename
	}

	views := make([]HomeCategoryView, 0, len(categories))
	for _, c := range categories {
		group, err := s.groups.FindByID(ctx, c.ProductGroupID)
		if err != nil {
			return nil, err
		}
		tagIDs, err := s.groupTagIDs(ctx, c.ProductGroupID)
		if err != nil {
			return nil, err
		}
		views = append(views, HomeCategoryView{
			ID:             c.ID,
			ProductGroupID: c.ProductGroupID,
			GroupName:      group.Name,
			TagIDs:         tagIDs,
			ImageID:        c.ImageID,
			Filename:       filenames[c.ImageID],
		})
	}
	return views, nil
}

// CreateCategory pins a product group to the home page. Each group may
// be pinned once; the image comes from a stored image or an uploaded
// file.
func (s *HomeCategoryService) CreateCategory(ctx context.Context, productGroupID int64, image reconcile.ImageRef, files []appmedia.UploadFile) (*content.HomeCategory, error) {
	if _, err := s.groups.FindByID(ctx, productGroupID); err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("INVALID_INPUT",
				"Product group does not exist")
		}
		return nil, err
	}
	exists, err := s.categories.ExistsByProductGroup(ctx, productGroupID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS",
			"This product group is already on the home page")
	}

	category := &content.HomeCategory{ProductGroupID: productGroupID}
	err = s.uow.Do(ctx, func(ctx context.Context) error {
		if image.Filename != "" {
			uploaded, err := s.imageSvc.CreateImages(ctx, files)
			if err != nil {
				return err
			}
			for i, f := range files {
				if f.Name == image.Filename {
					category.ImageID = uploaded[i].ID
				}
			}
			if category.ImageID == 0 {
				return shared.NewDomainError("INVALID_INPUT",
					"No uploaded file matches the image reference")
			}
		} else {
			if _, err := s.imageSvc.GetImage(ctx, image.ImageID); err != nil {
				return err
			}
			category.ImageID = image.ImageID
		}
		return s.categories.Create(ctx, category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory unpins a group from the home page and sweeps its image
// unless another container still references it.
func (s *HomeCategoryService) DeleteCategory(ctx context.Context, id int64) error {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return s.uow.Do(ctx, func(ctx context.Context) error {
		if err := s.categories.Delete(ctx, id); err != nil {
			return err
		}
		return s.imageSvc.DeleteUnreferenced(ctx, []int64{category.ImageID})
	})
}

// groupTagIDs collects the distinct tag IDs across the visible products
// of a group.
func (s *HomeCategoryService) groupTagIDs(ctx context.Context, groupID int64) ([]int64, error) {
	products, _, err := s.products.List(ctx, catalog.ProductFilter{
		Page:           1,
		PageSize:       500,
		ProductGroupID: &groupID,
		VisibleOnly:    true,
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	var tagIDs []int64
	for _, p := range products {
		ids, err := s.tags.FindIDsByProduct(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				tagIDs = append(tagIDs, id)
			}
		}
	}
	return tagIDs, nil
}
