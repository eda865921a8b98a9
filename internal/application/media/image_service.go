// Package media implements image upload and lifecycle use cases.
package media

import (
	"context"

	"github.com/store/backend/internal/domain/media"
	"github.com/store/backend/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ObjectStorage stores image blobs under their storage keys.
type ObjectStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	DeleteObjects(ctx context.Context, storageKeys []string) error
}

// UploadFile is one file received from a multipart request.
type UploadFile struct {
	Name string
	Data []byte
}

// ImageService handles image creation and deletion across the database
// and object storage.
type ImageService struct {
	images  media.ImageRepository
	refs    media.ReferenceChecker
	storage ObjectStorage
	uow     shared.UnitOfWork
	logger  *zap.Logger
}

// NewImageService creates a new image service
func NewImageService(
	images media.ImageRepository,
	refs media.ReferenceChecker,
	storage ObjectStorage,
	uow shared.UnitOfWork,
	logger *zap.Logger,
) *ImageService {
	return &ImageService{
		images:  images,
		refs:    refs,
		storage: storage,
		uow:     uow,
		logger:  logger,
	}
}

// CreateImages registers and uploads a batch of files. The batch is
// all-or-nothing: rows are inserted first, then blobs are uploaded
// concurrently, and any failure rolls the rows back with the enclosing
// transaction. Blobs uploaded before a failing sibling may orphan in
// storage; rows never reference a missing blob.
func (s *ImageService) CreateImages(ctx context.Context, files []UploadFile) ([]*media.Image, error) {
	if len(files) == 0 {
		return nil, nil
	}

	images := make([]*media.Image, 0, len(files))
	for _, file := range files {
		image, err := media.NewImage(file.Name)
		if err != nil {
			return nil, err
		}
		images = append(images, image)
	}

	err := s.uow.Do(ctx, func(ctx context.Context) error {
		if err := s.images.Create(ctx, images); err != nil {
			return err
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := range images {
			image, data := images[i], files[i].Data
			g.Go(func() error {
				return s.storage.Upload(gctx, image.Filename, data, image.ContentType())
			})
		}
		return g.Wait()
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

// GetImage loads a single image record
func (s *ImageService) GetImage(ctx context.Context, id int64) (*media.Image, error) {
	return s.images.FindByID(ctx, id)
}

// DeleteImages removes image rows and their blobs. Blob deletion runs
// after the rows are gone; a storage failure at that point leaves
// orphaned blobs and is logged rather than returned.
func (s *ImageService) DeleteImages(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	images, err := s.images.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}

	keys := make([]string, 0, len(images))
	rowIDs := make([]int64, 0, len(images))
	for _, image := range images {
		keys = append(keys, image.Filename)
		rowIDs = append(rowIDs, image.ID)
	}

	if err := s.images.Delete(ctx, rowIDs); err != nil {
		return err
	}

	if err := s.storage.DeleteObjects(ctx, keys); err != nil {
		s.logger.Warn("failed to delete image blobs, orphaned objects remain",
			zap.Strings("keys", keys),
			zap.Error(err))
	}
	return nil
}

// DeleteUnreferenced deletes only those of the given images that no
// preview, slide, category block, sub-block or home category still
// references. Shared images survive until their last reference is gone.
func (s *ImageService) DeleteUnreferenced(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	referenced, err := s.refs.ReferencedImageIDs(ctx, ids)
	if err != nil {
		return err
	}

	keep := make(map[int64]bool, len(referenced))
	for _, id := range referenced {
		keep[id] = true
	}

	orphans := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !keep[id] {
			orphans = append(orphans, id)
		}
	}
	return s.DeleteImages(ctx, orphans)
}
