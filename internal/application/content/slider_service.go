// Package content implements editorial use cases: the promotion
// slider, category blocks, home categories, static pages, the contact
// card, the repair price list and call-back requests.
package content

import (
	"context"
	"fmt"

	appmedia "github.com/store/backend/internal/application/media"
	"github.com/store/backend/internal/domain/content"
	"github.com/store/backend/internal/domain/media"
	"github.com/store/backend/internal/domain/reconcile"
	"github.com/store/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SlideInput is one slide of the submitted slider state. A negative ID
// marks a new slide backed by an uploaded file; the position in the
// slice becomes the display index.
type SlideInput struct {
	ID       int64
	Href     string
	Filename string
}

// SlideView is a slide joined with its image filename.
type SlideView struct {
	ID       int64  `json:"id"`
	Index    int    `json:"index"`
	Href     string `json:"href"`
	ImageID  int64  `json:"image_id"`
	Filename string `json:"filename"`
}

// SliderService manages the promotion slider as one replaceable unit.
type SliderService struct {
	slides   content.SlideRepository
	images   media.ImageRepository
	imageSvc *appmedia.ImageService
	uow      shared.UnitOfWork
	logger   *zap.Logger
}

// NewSliderService creates a new slider service
func NewSliderService(
	slides content.SlideRepository,
	images media.ImageRepository,
	imageSvc *appmedia.ImageService,
	uow shared.UnitOfWork,
	logger *zap.Logger,
) *SliderService {
	return &SliderService{
		slides:   slides,
		images:   images,
		imageSvc: imageSvc,
		uow:      uow,
		logger:   logger,
	}
}

// ListSlides returns every slide with its image filename, ordered by
// display index.
func (s *SliderService) ListSlides(ctx context.Context) ([]SlideView, error) {
	slides, err := s.slides.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	imageIDs := make([]int64, 0, len(slides))
	for _, slide := range slides {
		imageIDs = append(imageIDs, slide.ImageID)
	}
	images, err := s.images.FindByIDs(ctx, imageIDs)
	if err != nil {
		return nil, err
	}
	filenames := make(map[int64]string, len(images))
	for _, image := range images {
		filenames[image.ID] = image.Filename
	}

	views := make([]SlideView, 0, len(slides))
	for _, slide := range slides {
		views = append(views, SlideView{
			ID:       slide.ID,
			Index:    slide.Index,
			Href:     slide.Href,
			ImageID:  slide.ImageID,
			Filename: filenames[slide.ImageID],
		})
	}
	return views, nil
}

// UpdateSlider reconciles the stored slider against the submitted
// state in one transaction. Slides absent from the submission are
// deleted together with their now-unreferenced images.
func (s *SliderService) UpdateSlider(ctx context.Context, items []SlideInput, files []appmedia.UploadFile) ([]SlideView, error) {
	current, err := s.slides.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	currentIDs := make([]int64, 0, len(current))
	currentByID := make(map[int64]content.Slide, len(current))
	for _, slide := range current {
		currentIDs = append(currentIDs, slide.ID)
		currentByID[slide.ID] = slide
	}
	entries := make([]reconcile.Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, reconcile.Entry{ID: item.ID})
	}
	plan, err := reconcile.Classify(currentIDs, entries)
	if err != nil {
		return nil, err
	}

	fileNames := make(map[string]bool, len(files))
	for _, f := range files {
		fileNames[f.Name] = true
	}
	for _, item := range items {
		if item.ID < 0 && !fileNames[item.Filename] {
			return nil, shared.NewDomainError("INVALID_INPUT",
				fmt.Sprintf("No uploaded file named %q", item.Filename))
		}
	}

	err = s.uow.Do(ctx, func(ctx context.Context) error {
		uploaded, err := s.uploadFiles(ctx, files)
		if err != nil {
			return err
		}

		var sweepIDs []int64
		for _, id := range plan.DeleteIDs {
			sweepIDs = append(sweepIDs, currentByID[id].ImageID)
		}
		if err := s.slides.Delete(ctx, plan.DeleteIDs); err != nil {
			return err
		}

		var createRows []*content.Slide
		for index, item := range items {
			if item.ID < 0 {
				createRows = append(createRows, &content.Slide{
					Index:   index,
					Href:    item.Href,
					ImageID: uploaded[item.Filename].ID,
				})
				continue
			}
			slide := currentByID[item.ID]
			if slide.Index == index && slide.Href == item.Href {
				continue
			}
			slide.Index = index
			slide.Href = item.Href
			if err := s.slides.Update(ctx, &slide); err != nil {
				return err
			}
		}
		if err := s.slides.Create(ctx, createRows); err != nil {
			return err
		}
		return s.imageSvc.DeleteUnreferenced(ctx, sweepIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.ListSlides(ctx)
}

func (s *SliderService) uploadFiles(ctx context.Context, files []appmedia.UploadFile) (map[string]*media.Image, error) {
	images, err := s.imageSvc.CreateImages(ctx, files)
	if err != nil {
		return nil, err
	}
	uploaded := make(map[string]*media.Image, len(images))
	for i, image := range images {
		uploaded[files[i].Name] = image
	}
	return uploaded, nil
}
