// Package media holds the image aggregate shared by every content
// container in the catalog.
package media

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/store/backend/internal/domain/shared"
)

// Image is a stored file record. The filename doubles as the object
// storage key.
type Image struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Filename  string    `gorm:"size:255;not null;uniqueIndex" json:"filename"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for GORM
func (Image) TableName() string {
	return "images"
}

// allowed upload extensions, lowercase without the dot
var allowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
}

// NewImage validates the original filename and derives a collision-free
// storage key from a random UUID plus the original extension.
func NewImage(originalName string) (*Image, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(originalName)), ".")
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, shared.NewDomainError("INVALID_INPUT",
			"Only png, jpg and jpeg files are accepted")
	}
	return &Image{Filename: uuid.NewString() + "." + ext}, nil
}

// ContentType returns the MIME type matching the image extension.
func (i *Image) ContentType() string {
	if strings.HasSuffix(i.Filename, ".png") {
		return "image/png"
	}
	return "image/jpeg"
}

// ImageRepository defines persistence for image records
type ImageRepository interface {
	FindByID(ctx context.Context, id int64) (*Image, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Image, error)
	FindByFilename(ctx context.Context, filename string) (*Image, error)
	Create(ctx context.Context, images []*Image) error
	Delete(ctx context.Context, ids []int64) error
}

// ReferenceChecker reports which of the given images are still
// referenced by any content row. Implemented over all referencing
// tables so a shared image survives the deletion of one container.
type ReferenceChecker interface {
	ReferencedImageIDs(ctx context.Context, ids []int64) ([]int64, error)
}
