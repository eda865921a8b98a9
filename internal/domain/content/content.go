// Package content holds the editorial aggregates of the storefront:
// the promotion slider, category blocks, home categories, static page
// blocks, the contact card and the repair price list.
package content

import (
	"time"

	"github.com/store/backend/internal/domain/shared"
)

// Slide is one banner of the promotion slider. Its index is the
// position in the submitted array.
type Slide struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Index     int       `gorm:"column:position;not null" json:"index"`
	Href      string    `gorm:"size:512" json:"href"`
	ImageID   int64     `gorm:"not null;index" json:"image_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for GORM
func (Slide) TableName() string {
	return "slides"
}

// CategoryBlock is a navigation tile on the catalog landing page. It
// owns sub-blocks and plain links.
type CategoryBlock struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Index     int       `gorm:"column:position;not null" json:"index"`
	ImageID   *int64    `gorm:"index" json:"image_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SubBlocks []CategorySubBlock  `gorm:"foreignKey:CategoryBlockID" json:"sub_blocks,omitempty"`
	Links     []CategoryBlockLink `gorm:"foreignKey:CategoryBlockID" json:"links,omitempty"`
}

// TableName returns the table name for GORM
func (CategoryBlock) TableName() string {
	return "category_blocks"
}

// CategorySubBlock is a nested tile inside a category block.
type CategorySubBlock struct {
	ID              int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryBlockID int64  `gorm:"not null;index" json:"category_block_id"`
	Title           string `gorm:"size:255;not null" json:"title"`
	Href            string `gorm:"size:512;not null" json:"href"`
	ImageID         *int64 `gorm:"index" json:"image_id,omitempty"`
}

// TableName returns the table name for GORM
func (CategorySubBlock) TableName() string {
	return "category_sub_blocks"
}

// CategoryBlockLink is a plain link inside a category block.
type CategoryBlockLink struct {
	ID              int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryBlockID int64  `gorm:"not null;index" json:"category_block_id"`
	Title           string `gorm:"size:255;not null" json:"title"`
	Href            string `gorm:"size:512;not null" json:"href"`
}

// TableName returns the table name for GORM
func (CategoryBlockLink) TableName() string {
	return "category_block_links"
}

// HomeCategory pins a product group to the home page with its own
// image. One entry per group.
type HomeCategory struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductGroupID int64     `gorm:"not null;uniqueIndex" json:"product_group_id"`
	ImageID        int64     `gorm:"not null;index" json:"image_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName returns the table name for GORM
func (HomeCategory) TableName() string {
	return "home_categories"
}

// PageBlock is a titled text section of a static page.
type PageBlock struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	PageType    string `gorm:"size:64;not null;index" json:"page_type"`
	Title       string `gorm:"size:100;not null" json:"title"`
	Description string `gorm:"size:1000;not null" json:"description"`
}

// TableName returns the table name for GORM
func (PageBlock) TableName() string {
	return "page_blocks"
}

// Validate checks the editorial length limits.
func (b *PageBlock) Validate() error {
	if n := len([]rune(b.Title)); n < 4 || n > 100 {
		return shared.NewDomainError("INVALID_INPUT",
			"Title must be between 4 and 100 characters")
	}
	if n := len([]rune(b.Description)); n < 20 || n > 1000 {
		return shared.NewDomainError("INVALID_INPUT",
			"Description must be between 20 and 1000 characters")
	}
	return nil
}

// Contact is the single contact card shown in the footer.
type Contact struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Phone     string    `gorm:"size:32" json:"phone"`
	Email     string    `gorm:"size:255" json:"email"`
	Address   string    `gorm:"size:512" json:"address"`
	Schedule  string    `gorm:"size:255" json:"schedule"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for GORM
func (Contact) TableName() string {
	return "contacts"
}

// RepairService is one row of the repair price list.
type RepairService struct {
	ID    int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"size:255;not null" json:"name"`
	Price string `gorm:"size:64;not null" json:"price"`
}

// TableName returns the table name for GORM
func (RepairService) TableName() string {
	return "repair_services"
}

// UserRequest is a call-back request left by a visitor.
type UserRequest struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Phone     string    `gorm:"size:32;not null" json:"phone"`
	Checked   bool      `gorm:"not null;default:false" json:"checked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for GORM
func (UserRequest) TableName() string {
	return "user_requests"
}
