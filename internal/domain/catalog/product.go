// Package catalog holds the product aggregate with its previews,
// detail texts, tags and groups.
package catalog

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/store/backend/internal/domain/shared"
)

// DetailType partitions product detail texts into the tabs shown on
// the product page.
type DetailType string

const (
	DetailDescription   DetailType = "DESCRIPTION"
	DetailSpecification DetailType = "SPECIFICATION"
	DetailEquipment     DetailType = "EQUIPMENT"
)

// Valid reports whether the detail type is one of the known tabs.
func (t DetailType) Valid() bool {
	switch t {
	case DetailDescription, DetailSpecification, DetailEquipment:
		return true
	}
	return false
}

// Product is the catalog aggregate root.
type Product struct {
	ID                  int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                string           `gorm:"size:255;not null" json:"name"`
	Article             string           `gorm:"size:64;not null;uniqueIndex" json:"article"`
	Count               int              `gorm:"not null;default:0" json:"count"`
	Available           bool             `gorm:"not null;default:false" json:"available"`
	Visible             bool             `gorm:"not null;default:true" json:"visible"`
	Price               decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"price"`
	WholesalePrice      decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"wholesale_price"`
	OldPrice            *decimal.Decimal `gorm:"type:decimal(12,2)" json:"old_price,omitempty"`
	PromotionPercentage *int             `json:"promotion_percentage,omitempty"`
	Weight              decimal.Decimal  `gorm:"type:decimal(10,3);not null" json:"weight"`
	Height              decimal.Decimal  `gorm:"type:decimal(10,1);not null" json:"height"`
	Width               decimal.Decimal  `gorm:"type:decimal(10,1);not null" json:"width"`
	Length              decimal.Decimal  `gorm:"type:decimal(10,1);not null" json:"length"`
	ProductGroupID      *int64           `gorm:"index" json:"product_group_id,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`

	Previews []Preview `gorm:"foreignKey:ProductID" json:"previews,omitempty"`
	Details  []Detail  `gorm:"foreignKey:ProductID" json:"details,omitempty"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// OnPromotion reports whether the product carries promotion pricing.
func (p *Product) OnPromotion() bool {
	return p.OldPrice != nil
}

// SyncAvailability derives the availability flag from the stock count.
func (p *Product) SyncAvailability() {
	p.Available = p.Count > 0
}

// ValidatePromotion checks promotion pricing and fills in the
// percentage when the client did not supply one.
func (p *Product) ValidatePromotion() error {
	if p.OldPrice == nil {
		if p.PromotionPercentage != nil {
			return shared.NewDomainError("INVALID_INPUT",
				"Promotion percentage requires an old price")
		}
		return nil
	}
	if !p.OldPrice.GreaterThan(p.Price) {
		return shared.NewDomainError("INVALID_INPUT",
			"Old price must be greater than the current price")
	}
	if p.PromotionPercentage == nil {
		ratio, _ := p.Price.Div(*p.OldPrice).Float64()
		pct := int(math.Ceil((1 - ratio) * 100))
		p.PromotionPercentage = &pct
		return nil
	}
	if *p.PromotionPercentage < 1 || *p.PromotionPercentage > 100 {
		return shared.NewDomainError("INVALID_INPUT",
			"Promotion percentage must be between 1 and 100")
	}
	return nil
}

// ValidatePhysical checks that weight and dimensions are positive.
func (p *Product) ValidatePhysical() error {
	for _, v := range []decimal.Decimal{p.Weight, p.Height, p.Width, p.Length} {
		if !v.IsPositive() {
			return shared.NewDomainError("INVALID_INPUT",
				"Weight and dimensions must be positive")
		}
	}
	return nil
}

// Preview is an ordered image attached to a product.
type Preview struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`
	ImageID   int64 `gorm:"not null;index" json:"image_id"`
	// stored as "position" because "index" is reserved in some dialects
	Index int `gorm:"column:position;not null" json:"index"`
}

// TableName returns the table name for GORM
func (Preview) TableName() string {
	return "previews"
}

// Detail is an ordered text block attached to a product. Indexes are
// assigned per type, so each tab keeps its own ordering.
type Detail struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64      `gorm:"not null;index" json:"product_id"`
	Type      DetailType `gorm:"size:32;not null" json:"type"`
	Index     int        `gorm:"column:position;not null" json:"index"`
	Text      string     `gorm:"type:text;not null" json:"text"`
}

// TableName returns the table name for GORM
func (Detail) TableName() string {
	return "details"
}
