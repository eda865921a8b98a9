package catalog

import "time"

// PromotionTagName is the reserved tag that follows promotion pricing.
// It is linked and unlinked automatically and cannot be managed by hand.
const PromotionTagName = "Акция"

// Tag labels products for storefront filtering.
type Tag struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	TagGroupID *int64    `gorm:"index" json:"tag_group_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns the table name for GORM
func (Tag) TableName() string {
	return "tags"
}

// TagGroup clusters tags in the filter sidebar.
type TagGroup struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for GORM
func (TagGroup) TableName() string {
	return "tag_groups"
}

// TagProduct links a tag to a product.
type TagProduct struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	TagID     int64 `gorm:"not null;index:idx_tag_product,unique" json:"tag_id"`
	ProductID int64 `gorm:"not null;index:idx_tag_product,unique" json:"product_id"`
}

// TableName returns the table name for GORM
func (TagProduct) TableName() string {
	return "tag_products"
}

// ProductGroup bundles variants of the same product line.
type ProductGroup struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for GORM
func (ProductGroup) TableName() string {
	return "product_groups"
}
