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

// BlockInput is one category block of the submitted state. A negative
// ID is a placeholder: sub-blocks and links of a new block reference it
// through their BlockID.
type BlockInput struct {
	ID    int64
	Title string
	Index int
	Image reconcile.ImageRef
}

// SubBlockInput is one sub-block of the submitted state.
type SubBlockInput struct {
	ID      int64
	BlockID int64
	Title   string
	Href    string
	Image   reconcile.ImageRef
}

// LinkInput is one plain link of the submitted state.
type LinkInput struct {
	ID      int64
	BlockID int64
	Title   string
	Href    string
}

// CategoryBlocksInput is the full desired state of the catalog landing
// page submitted in one request.
type CategoryBlocksInput struct {
	Blocks    []BlockInput
	SubBlocks []SubBlockInput
	Links     []LinkInput
	Files     []appmedia.UploadFile
}

// CategoryBlockService manages the catalog landing page blocks as one
// replaceable unit.
type CategoryBlockService struct {
	blocks   content.CategoryBlockRepository
	imageSvc *appmedia.ImageService
	uow      shared.UnitOfWork
	logger   *zap.Logger
}

// NewCategoryBlockService creates a new category block service
func NewCategoryBlockService(
	blocks content.CategoryBlockRepository,
	imageSvc *appmedia.ImageService,
	uow shared.UnitOfWork,
	logger *zap.Logger,
) *CategoryBlockService {
	return &CategoryBlockService{
		blocks:   blocks,
		imageSvc: imageSvc,
		uow:      uow,
		logger:   logger,
	}
}

// ListBlocks returns every category block with its children, ordered by
// display index.
func (s *CategoryBlockService) ListBlocks(ctx context.Context) ([]content.CategoryBlock, error) {
	return s.blocks.FindAll(ctx)
}

// UpdateBlocks reconciles blocks, sub-blocks and links against the
// submitted state in one serializable transaction, so two concurrent
// editors cannot interleave partial layouts. Children of new blocks
// reference their parent through its negative placeholder ID.
func (s *CategoryBlockService) UpdateBlocks(ctx context.Context, input CategoryBlocksInput) ([]content.CategoryBlock, error) {
	current, err := s.blocks.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	indexes := make([]int, 0, len(input.Blocks))
	for _, b := range input.Blocks {
		indexes = append(indexes, b.Index)
	}
	if err := reconcile.CheckUniqueIndexes(indexes); err != nil {
		return nil, err
	}

	plans, err := classifyBlockTree(current, input)
	if err != nil {
		return nil, err
	}

	err = s.uow.DoSerializable(ctx, func(ctx context.Context) error {
		uploaded, err := s.uploadFiles(ctx, input.Files)
		if err != nil {
			return err
		}
		sweepIDs, err := s.applyBlockTree(ctx, current, input, plans, uploaded)
		if err != nil {
			return err
		}
		return s.imageSvc.DeleteUnreferenced(ctx, sweepIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.blocks.FindAll(ctx)
}

type blockTreePlans struct {
	blocks    reconcile.Plan
	subBlocks reconcile.Plan
	links     reconcile.Plan
}

func classifyBlockTree(current []content.CategoryBlock, input CategoryBlocksInput) (blockTreePlans, error) {
	var blockIDs, subIDs, linkIDs []int64
	for _, b := range current {
		blockIDs = append(blockIDs, b.ID)
		for _, sb := range b.SubBlocks {
			subIDs = append(subIDs, sb.ID)
		}
		for _, l := range b.Links {
			linkIDs = append(linkIDs, l.ID)
		}
	}

	var plans blockTreePlans
	var err error
	if plans.blocks, err = reconcile.Classify(blockIDs, blockEntries(input.Blocks)); err != nil {
		return blockTreePlans{}, err
	}
	if plans.subBlocks, err = reconcile.Classify(subIDs, subBlockEntries(input.SubBlocks)); err != nil {
		return blockTreePlans{}, err
	}
	if plans.links, err = reconcile.Classify(linkIDs, linkEntries(input.Links)); err != nil {
		return blockTreePlans{}, err
	}
	return plans, nil
}

func blockEntries(blocks []BlockInput) []reconcile.Entry {
	entries := make([]reconcile.Entry, 0, len(blocks))
	for _, b := range blocks {
		entries = append(entries, reconcile.Entry{ID: b.ID})
	}
	return entries
}

func subBlockEntries(subBlocks []SubBlockInput) []reconcile.Entry {
	entries := make([]reconcile.Entry, 0, len(subBlocks))
	for _, sb := range subBlocks {
		entries = append(entries, reconcile.Entry{ID: sb.ID})
	}
	return entries
}

func linkEntries(links []LinkInput) []reconcile.Entry {
	entries := make([]reconcile.Entry, 0, len(links))
	for _, l := range links {
		entries = append(entries, reconcile.Entry{ID: l.ID})
	}
	return entries
}

func (s *CategoryBlockService) applyBlockTree(
	ctx context.Context,
	current []content.CategoryBlock,
	input CategoryBlocksInput,
	plans blockTreePlans,
	uploaded map[string]*media.Image,
) ([]int64, error) {
	currentBlocks := make(map[int64]content.CategoryBlock, len(current))
	currentSubBlocks := make(map[int64]content.CategorySubBlock)
	currentLinks := make(map[int64]content.CategoryBlockLink)
	var sweepIDs []int64
	for _, b := range current {
		currentBlocks[b.ID] = b
		for _, sb := range b.SubBlocks {
			currentSubBlocks[sb.ID] = sb
		}
		for _, l := range b.Links {
			currentLinks[l.ID] = l
		}
	}

	// deletions first so unique constraints cannot trip on survivors
	for _, id := range plans.subBlocks.DeleteIDs {
		if imageID := currentSubBlocks[id].ImageID; imageID != nil {
			sweepIDs = append(sweepIDs, *imageID)
		}
	}
	if err := s.blocks.DeleteSubBlocks(ctx, plans.subBlocks.DeleteIDs); err != nil {
		return nil, err
	}
	if err := s.blocks.DeleteLinks(ctx, plans.links.DeleteIDs); err != nil {
		return nil, err
	}
	for _, id := range plans.blocks.DeleteIDs {
		block := currentBlocks[id]
		if block.ImageID != nil {
			sweepIDs = append(sweepIDs, *block.ImageID)
		}
		for _, sb := range block.SubBlocks {
			if sb.ImageID != nil {
				sweepIDs = append(sweepIDs, *sb.ImageID)
			}
		}
		subIDs := make([]int64, 0, len(block.SubBlocks))
		for _, sb := range block.SubBlocks {
			subIDs = append(subIDs, sb.ID)
		}
		linkIDs := make([]int64, 0, len(block.Links))
		for _, l := range block.Links {
			linkIDs = append(linkIDs, l.ID)
		}
		if err := s.blocks.DeleteSubBlocks(ctx, subIDs); err != nil {
			return nil, err
		}
		if err := s.blocks.DeleteLinks(ctx, linkIDs); err != nil {
			return nil, err
		}
	}
	if err := s.blocks.Delete(ctx, plans.blocks.DeleteIDs); err != nil {
		return nil, err
	}

	// placeholder IDs of new blocks map to their real IDs once created
	blockIDMap := make(map[int64]int64, len(input.Blocks))
	for _, b := range input.Blocks {
		if b.ID > 0 {
			blockIDMap[b.ID] = b.ID
			continue
		}

		imageID, err := s.resolveOptionalImage(ctx, b.Image, uploaded)
		if err != nil {
			return nil, err
		}
		block := &content.CategoryBlock{Title: b.Title, Index: b.Index, ImageID: imageID}
		if err := s.blocks.Create(ctx, block); err != nil {
			return nil, err
		}
		blockIDMap[b.ID] = block.ID
	}

	for _, b := range input.Blocks {
		if b.ID < 0 {
			continue
		}
		block := currentBlocks[b.ID]
		var currentImageID int64
		if block.ImageID != nil {
			currentImageID = *block.ImageID
		}
		changed := false
		switch reconcile.ResolveImageAction(b.Image, currentImageID) {
		case reconcile.ImageReplace:
			imageID, err := s.resolveOptionalImage(ctx, b.Image, uploaded)
			if err != nil {
				return nil, err
			}
			if block.ImageID != nil {
				sweepIDs = append(sweepIDs, *block.ImageID)
			}
			block.ImageID = imageID
			changed = true
		case reconcile.ImageRelink:
			if _, err := s.imageSvc.GetImage(ctx, b.Image.ImageID); err != nil {
				return nil, err
			}
			if block.ImageID != nil {
				sweepIDs = append(sweepIDs, *block.ImageID)
			}
			id := b.Image.ImageID
			block.ImageID = &id
			changed = true
		}
		if block.Title != b.Title || block.Index != b.Index {
			block.Title = b.Title
			block.Index = b.Index
			changed = true
		}
		if !changed {
			continue
		}
		block.SubBlocks = nil
		block.Links = nil
		if err := s.blocks.Update(ctx, &block); err != nil {
			return nil, err
		}
	}

	for _, sb := range input.SubBlocks {
		parentID, ok := blockIDMap[sb.BlockID]
		if !ok {
			return nil, shared.NewDomainError("INVALID_INPUT",
				fmt.Sprintf("Sub-block references unknown block %d", sb.BlockID))
		}

		if sb.ID < 0 {
			imageID, err := s.resolveOptionalImage(ctx, sb.Image, uploaded)
			if err != nil {
				return nil, err
			}
			row := &content.CategorySubBlock{
				CategoryBlockID: parentID,
				Title:           sb.Title,
				Href:            sb.Href,
				ImageID:         imageID,
			}
			if err := s.blocks.CreateSubBlocks(ctx, []*content.CategorySubBlock{row}); err != nil {
				return nil, err
			}
			continue
		}

		row := currentSubBlocks[sb.ID]
		var currentImageID int64
		if row.ImageID != nil {
			currentImageID = *row.ImageID
		}
		changed := false
		switch reconcile.ResolveImageAction(sb.Image, currentImageID) {
		case reconcile.ImageReplace:
			imageID, err := s.resolveOptionalImage(ctx, sb.Image, uploaded)
			if err != nil {
				return nil, err
			}
			if row.ImageID != nil {
				sweepIDs = append(sweepIDs, *row.ImageID)
			}
			row.ImageID = imageID
			changed = true
		case reconcile.ImageRelink:
			if _, err := s.imageSvc.GetImage(ctx, sb.Image.ImageID); err != nil {
				return nil, err
			}
			if row.ImageID != nil {
				sweepIDs = append(sweepIDs, *row.ImageID)
			}
			id := sb.Image.ImageID
			row.ImageID = &id
			changed = true
		}
		if row.CategoryBlockID != parentID || row.Title != sb.Title || row.Href != sb.Href {
			row.CategoryBlockID = parentID
			row.Title = sb.Title
			row.Href = sb.Href
			changed = true
		}
		if !changed {
			continue
		}
		if err := s.blocks.UpdateSubBlock(ctx, &row); err != nil {
			return nil, err
		}
	}

	for _, l := range input.Links {
		parentID, ok := blockIDMap[l.BlockID]
		if !ok {
			return nil, shared.NewDomainError("INVALID_INPUT",
				fmt.Sprintf("Link references unknown block %d", l.BlockID))
		}

		if l.ID < 0 {
			row := &content.CategoryBlockLink{
				CategoryBlockID: parentID,
				Title:           l.Title,
				Href:            l.Href,
			}
			if err := s.blocks.CreateLinks(ctx, []*content.CategoryBlockLink{row}); err != nil {
				return nil, err
			}
			continue
		}

		row := currentLinks[l.ID]
		if row.CategoryBlockID == parentID && row.Title == l.Title && row.Href == l.Href {
			continue
		}
		row.CategoryBlockID = parentID
		row.Title = l.Title
		row.Href = l.Href
		if err := s.blocks.UpdateLink(ctx, &row); err != nil {
			return nil, err
		}
	}
	return sweepIDs, nil
}

// resolveOptionalImage maps an image reference to a stored image ID,
// or nil when the entry carries no image.
func (s *CategoryBlockService) resolveOptionalImage(ctx context.Context, ref reconcile.ImageRef, uploaded map[string]*media.Image) (*int64, error) {
	if ref.Filename != "" {
		image, ok := uploaded[ref.Filename]
		if !ok {
			return nil, shared.NewDomainError("INVALID_INPUT",
				fmt.Sprintf("No uploaded file named %q", ref.Filename))
		}
		return &image.ID, nil
	}
	if ref.ImageID == 0 {
		return nil, nil
	}
	if _, err := s.imageSvc.GetImage(ctx, ref.ImageID); err != nil {
		return nil, err
	}
	id := ref.ImageID
	return &id, nil
}

func (s *CategoryBlockService) uploadFiles(ctx context.Context, files []appmedia.UploadFile) (map[string]*media.Image, error) {
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
