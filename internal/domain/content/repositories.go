package content

import "context"

// SlideRepository defines persistence for promotion slider slides
type SlideRepository interface {
	FindAll(ctx context.Context) ([]Slide, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Slide, error)
	Create(ctx context.Context, slides []*Slide) error
	Update(ctx context.Context, slide *Slide) error
	Delete(ctx context.Context, ids []int64) error
}

// CategoryBlockRepository defines persistence for category blocks and
// their children
type CategoryBlockRepository interface {
	FindAll(ctx context.Context) ([]CategoryBlock, error)
	FindByID(ctx context.Context, id int64) (*CategoryBlock, error)
	Create(ctx context.Context, block *CategoryBlock) error
	Update(ctx context.Context, block *CategoryBlock) error
	Delete(ctx context.Context, ids []int64) error

	FindSubBlocks(ctx context.Context, blockID int64) ([]CategorySubBlock, error)
	CreateSubBlocks(ctx context.Context, subBlocks []*CategorySubBlock) error
	UpdateSubBlock(ctx context.Context, subBlock *CategorySubBlock) error
	DeleteSubBlocks(ctx context.Context, ids []int64) error

	FindLinks(ctx context.Context, blockID int64) ([]CategoryBlockLink, error)
	CreateLinks(ctx context.Context, links []*CategoryBlockLink) error
	UpdateLink(ctx context.Context, link *CategoryBlockLink) error
	DeleteLinks(ctx context.Context, ids []int64) error
}

// HomeCategoryRepository defines persistence for home categories
type HomeCategoryRepository interface {
	FindAll(ctx context.Context) ([]HomeCategory, error)
	FindByID(ctx context.Context, id int64) (*HomeCategory, error)
	ExistsByProductGroup(ctx context.Context, productGroupID int64) (bool, error)
	Create(ctx context.Context, category *HomeCategory) error
	Delete(ctx context.Context, id int64) error
}

// PageBlockRepository defines persistence for static page blocks
type PageBlockRepository interface {
	FindByPageType(ctx context.Context, pageType string) ([]PageBlock, error)
	DeleteByPageType(ctx context.Context, pageType string) error
	Create(ctx context.Context, blocks []*PageBlock) error
}

// ContactRepository defines persistence for the contact card
type ContactRepository interface {
	Get(ctx context.Context) (*Contact, error)
	Save(ctx context.Context, contact *Contact) error
}

// RepairServiceRepository defines persistence for the repair price list
type RepairServiceRepository interface {
	FindAll(ctx context.Context) ([]RepairService, error)
	DeleteAll(ctx context.Context) error
	Create(ctx context.Context, services []*RepairService) error
}

// UserRequestRepository defines persistence for call-back requests
type UserRequestRepository interface {
	FindByID(ctx context.Context, id int64) (*UserRequest, error)
	List(ctx context.Context, page, pageSize int, checked *bool) ([]UserRequest, int64, error)
	Create(ctx context.Context, request *UserRequest) error
	Update(ctx context.Context, request *UserRequest) error
	Delete(ctx context.Context, id int64) error
}
