package persistence

import (
	"github.com/store/backend/internal/domain/catalog"
	"github.com/store/backend/internal/domain/content"
	"github.com/store/backend/internal/domain/identity"
	"github.com/store/backend/internal/domain/media"
	"github.com/store/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// AutoMigrate creates the schema from the domain models. Production
// deployments run SQL migrations via cmd/migrate instead; this is used
// by tests and local bootstrapping.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&media.Image{},
		&catalog.ProductGroup{},
		&catalog.Product{},
		&catalog.Preview{},
		&catalog.Detail{},
		&catalog.TagGroup{},
		&catalog.Tag{},
		&catalog.TagProduct{},
		&content.Slide{},
		&content.CategoryBlock{},
		&content.CategorySubBlock{},
		&content.CategoryBlockLink{},
		&content.HomeCategory{},
		&content.PageBlock{},
		&content.Contact{},
		&content.RepairService{},
		&content.UserRequest{},
		&trade.Order{},
		&trade.OrderItem{},
		&trade.OrderAction{},
		&identity.Profile{},
	)
}
