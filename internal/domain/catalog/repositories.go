package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	Page           int
	PageSize       int
	Search         string
	Article        string
	TagIDs         []int64
	ProductGroupID *int64
	PriceMin       *decimal.Decimal
	PriceMax       *decimal.Decimal
	VisibleOnly    bool
	AvailableOnly  bool
}

// ProductRepository defines persistence for products
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*Product, error)
	FindByArticle(ctx context.Context, article string) (*Product, error)
	FindByArticles(ctx context.Context, articles []string) ([]Product, error)
	ExistsByArticle(ctx context.Context, article string, excludeID int64) (bool, error)
	List(ctx context.Context, filter ProductFilter) ([]Product, int64, error)
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id int64) error
	// DecrementStock atomically decrements the stock count, keeping the
	// availability flag in sync. Returns false when the remaining stock
	// does not cover the quantity; nothing is written in that case.
	DecrementStock(ctx context.Context, id int64, quantity int) (bool, error)
}

// PreviewRepository defines persistence for product previews
type PreviewRepository interface {
	FindByProduct(ctx context.Context, productID int64) ([]Preview, error)
	Create(ctx context.Context, previews []*Preview) error
	Update(ctx context.Context, preview *Preview) error
	Delete(ctx context.Context, ids []int64) error
}

// DetailRepository defines persistence for product details
type DetailRepository interface {
	FindByProduct(ctx context.Context, productID int64) ([]Detail, error)
	Create(ctx context.Context, details []*Detail) error
	Update(ctx context.Context, detail *Detail) error
	Delete(ctx context.Context, ids []int64) error
}

// TagRepository defines persistence for tags and their product links
type TagRepository interface {
	FindByID(ctx context.Context, id int64) (*Tag, error)
	FindByName(ctx context.Context, name string) (*Tag, error)
	FindAll(ctx context.Context) ([]Tag, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, tag *Tag) error
	Update(ctx context.Context, tag *Tag) error
	Delete(ctx context.Context, id int64) error

	FindIDsByProduct(ctx context.Context, productID int64) ([]int64, error)
	LinkProduct(ctx context.Context, productID int64, tagIDs []int64) error
	UnlinkProduct(ctx context.Context, productID int64, tagIDs []int64) error
}

// TagGroupRepository defines persistence for tag groups
type TagGroupRepository interface {
	FindByID(ctx context.Context, id int64) (*TagGroup, error)
	FindAll(ctx context.Context) ([]TagGroup, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, group *TagGroup) error
	Update(ctx context.Context, group *TagGroup) error
	Delete(ctx context.Context, id int64) error
}

// ProductGroupRepository defines persistence for product groups
type ProductGroupRepository interface {
	FindByID(ctx context.Context, id int64) (*ProductGroup, error)
	FindAll(ctx context.Context) ([]ProductGroup, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, group *ProductGroup) error
	Update(ctx context.Context, group *ProductGroup) error
	Delete(ctx context.Context, id int64) error
}
