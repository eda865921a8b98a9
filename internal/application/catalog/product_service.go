// Package catalog implements product, tag and group management use
// cases for the admin console and the storefront.
package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	appmedia "github.com/store/backend/internal/application/media"
	"github.com/store/backend/internal/domain/catalog"
	"github.com/store/backend/internal/domain/media"
	"github.com/store/backend/internal/domain/reconcile"
	"github.com/store/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DetailInput is one detail text submitted with a product. A negative ID
// marks a detail to be created.
type DetailInput struct {
	ID   int64
	Type catalog.DetailType
	Text string
}

// PreviewInput is one preview submitted with a product. A negative ID
// marks a preview to be created; the image reference carries either a
// stored image ID or the name of a file uploaded with the request.
type PreviewInput struct {
	ID    int64
	Index int
	Image reconcile.ImageRef
}

// ProductInput carries everything a create or update request submits.
type ProductInput struct {
	Name                string
	Article             string
	Count               int
	Visible             bool
	Price               decimal.Decimal
	WholesalePrice      decimal.Decimal
	OldPrice            *decimal.Decimal
	PromotionPercentage *int
	Weight              decimal.Decimal
	Height              decimal.Decimal
	Width               decimal.Decimal
	Length              decimal.Decimal
	ProductGroupID      *int64
	TagIDs              []int64
	Details             []DetailInput
	Previews            []PreviewInput
	Files               []appmedia.UploadFile
}

// BasketItem is a storefront basket line resolved by article.
type BasketItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Article   string          `json:"article"`
	Price     decimal.Decimal `json:"price"`
	Count     int             `json:"count"`
}

// ProductService handles product lifecycle use cases.
type ProductService struct {
	products catalog.ProductRepository
	previews catalog.PreviewRepository
	details  catalog.DetailRepository
	tags     catalog.TagRepository
	imageSvc *appmedia.ImageService
	uow      shared.UnitOfWork
	logger   *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(
	products catalog.ProductRepository,
	previews catalog.PreviewRepository,
	details catalog.DetailRepository,
	tags catalog.TagRepository,
	imageSvc *appmedia.ImageService,
	uow shared.UnitOfWork,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		products: products,
		previews: previews,
		details:  details,
		tags:     tags,
		imageSvc: imageSvc,
		uow:      uow,
		logger:   logger,
	}
}

// CreateProduct validates and stores a new product with its details,
// previews, images and tag links in one transaction.
func (s *ProductService) CreateProduct(ctx context.Context, input ProductInput) (*catalog.Product, error) {
	product := buildProduct(input)
	if err := validateProductInput(product, input); err != nil {
		return nil, err
	}

	exists, err := s.products.ExistsByArticle(ctx, input.Article, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS",
			"Product with this article already exists")
	}

	if err := s.checkTagsExist(ctx, input.TagIDs); err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(ctx context.Context) error {
		if err := s.products.Create(ctx, product); err != nil {
			return err
		}

		uploaded, err := s.uploadFiles(ctx, input.Files)
		if err != nil {
			return err
		}

		previewRows := make([]*catalog.Preview, 0, len(input.Previews))
		for _, p := range input.Previews {
			imageID, err := s.resolveImageRef(ctx, p.Image, uploaded)
			if err != nil {
				return err
			}
			previewRows = append(previewRows, &catalog.Preview{
				ProductID: product.ID,
				ImageID:   imageID,
				Index:     p.Index,
			})
		}
		if err := s.previews.Create(ctx, previewRows); err != nil {
			return err
		}

		if err := s.details.Create(ctx, buildDetails(product.ID, input.Details)); err != nil {
			return err
		}

		return s.syncTagLinks(ctx, product.ID, nil, input.TagIDs, product.OnPromotion())
	})
	if err != nil {
		return nil, err
	}
	return s.products.FindByID(ctx, product.ID)
}

// UpdateProduct reconciles the stored product and its children against
// the submitted state in one transaction, then sweeps images left
// without references.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, input ProductInput) (*catalog.Product, error) {
	current, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product := buildProduct(input)
	product.ID = id
	product.CreatedAt = current.CreatedAt
	if err := validateProductInput(product, input); err != nil {
		return nil, err
	}

	exists, err := s.products.ExistsByArticle(ctx, input.Article, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS",
			"Product with this article already exists")
	}
	if err := s.checkTagsExist(ctx, input.TagIDs); err != nil {
		return nil, err
	}

	previewPlan, err := classifyPreviews(current.Previews, input.Previews)
	if err != nil {
		return nil, err
	}
	detailPlan, err := classifyDetails(current.Details, input.Details)
	if err != nil {
		return nil, err
	}

	currentTagIDs, err := s.tags.FindIDsByProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(ctx context.Context) error {
		if productRowChanged(current, product) {
			if err := s.products.Update(ctx, product); err != nil {
				return err
			}
		}

		uploaded, err := s.uploadFiles(ctx, input.Files)
		if err != nil {
			return err
		}

		sweepIDs, err := s.applyPreviewPlan(ctx, id, previewPlan, input.Previews, current.Previews, uploaded)
		if err != nil {
			return err
		}
		if err := s.applyDetailPlan(ctx, id, detailPlan, input.Details, current.Details); err != nil {
			return err
		}

		if err := s.syncTagLinks(ctx, id, currentTagIDs, input.TagIDs, product.OnPromotion()); err != nil {
			return err
		}

		// References written above are already visible here, so images
		// shared with other containers survive the sweep.
		return s.imageSvc.DeleteUnreferenced(ctx, sweepIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.products.FindByID(ctx, id)
}

// DeleteProduct removes a product with its children and sweeps its
// preview images.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}

	previewIDs := make([]int64, 0, len(product.Previews))
	imageIDs := make([]int64, 0, len(product.Previews))
	for _, p := range product.Previews {
		previewIDs = append(previewIDs, p.ID)
		imageIDs = append(imageIDs, p.ImageID)
	}
	detailIDs := make([]int64, 0, len(product.Details))
	for _, d := range product.Details {
		detailIDs = append(detailIDs, d.ID)
	}

	tagIDs, err := s.tags.FindIDsByProduct(ctx, id)
	if err != nil {
		return err
	}

	err = s.uow.Do(ctx, func(ctx context.Context) error {
		if err := s.previews.Delete(ctx, previewIDs); err != nil {
			return err
		}
		if err := s.details.Delete(ctx, detailIDs); err != nil {
			return err
		}
		if err := s.tags.UnlinkProduct(ctx, id, tagIDs); err != nil {
			return err
		}
		if err := s.products.Delete(ctx, id); err != nil {
			return err
		}
		return s.imageSvc.DeleteUnreferenced(ctx, imageIDs)
	})
	return err
}

// GetProduct loads a product with its children and tag IDs
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*catalog.Product, []int64, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	tagIDs, err := s.tags.FindIDsByProduct(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return product, tagIDs, nil
}

// GetProductByArticle loads a product by its article
func (s *ProductService) GetProductByArticle(ctx context.Context, article string) (*catalog.Product, []int64, error) {
	product, err := s.products.FindByArticle(ctx, article)
	if err != nil {
		return nil, nil, err
	}
	tagIDs, err := s.tags.FindIDsByProduct(ctx, product.ID)
	if err != nil {
		return nil, nil, err
	}
	return product, tagIDs, nil
}

// ListProducts returns a filtered product page with the total count
func (s *ProductService) ListProducts(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	return s.products.List(ctx, filter)
}

// Basket resolves basket lines by article. Hidden and out-of-stock
// products are dropped; partners see wholesale prices.
func (s *ProductService) Basket(ctx context.Context, articles []string, wholesale bool) ([]BasketItem, error) {
	products, err := s.products.FindByArticles(ctx, articles)
	if err != nil {
		return nil, err
	}

	items := make([]BasketItem, 0, len(products))
	for _, p := range products {
		if !p.Visible || !p.Available {
			continue
		}
		price := p.Price
		if wholesale {
			price = p.WholesalePrice
		}
		items = append(items, BasketItem{
			ProductID: p.ID,
			Name:      p.Name,
			Article:   p.Article,
			Price:     price,
			Count:     p.Count,
		})
	}
	return items, nil
}

func buildProduct(input ProductInput) *catalog.Product {
	product := &catalog.Product{
		Name:                input.Name,
		Article:             input.Article,
		Count:               input.Count,
		Visible:             input.Visible,
		Price:               input.Price,
		WholesalePrice:      input.WholesalePrice,
		OldPrice:            input.OldPrice,
		PromotionPercentage: input.PromotionPercentage,
		Weight:              input.Weight,
		Height:              input.Height,
		Width:               input.Width,
		Length:              input.Length,
		ProductGroupID:      input.ProductGroupID,
	}
	product.SyncAvailability()
	return product
}

// productRowChanged reports whether the rebuilt product differs from
// the stored row in any persisted field. Resubmitting the current
// state must not touch the products table.
func productRowChanged(current, next *catalog.Product) bool {
	return next.Name != current.Name ||
		next.Article != current.Article ||
		next.Count != current.Count ||
		next.Available != current.Available ||
		next.Visible != current.Visible ||
		!next.Price.Equal(current.Price) ||
		!next.WholesalePrice.Equal(current.WholesalePrice) ||
		!decimalPtrEqual(next.OldPrice, current.OldPrice) ||
		!intPtrEqual(next.PromotionPercentage, current.PromotionPercentage) ||
		!next.Weight.Equal(current.Weight) ||
		!next.Height.Equal(current.Height) ||
		!next.Width.Equal(current.Width) ||
		!next.Length.Equal(current.Length) ||
		!int64PtrEqual(next.ProductGroupID, current.ProductGroupID)
}

func decimalPtrEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func validateProductInput(product *catalog.Product, input ProductInput) error {
	if err := product.ValidatePromotion(); err != nil {
		return err
	}
	if err := product.ValidatePhysical(); err != nil {
		return err
	}

	if len(input.Previews) == 0 {
		return shared.NewDomainError("INVALID_INPUT",
			"Product requires at least one preview")
	}
	indexes := make([]int, 0, len(input.Previews))
	for _, p := range input.Previews {
		indexes = append(indexes, p.Index)
	}
	if err := reconcile.CheckUniqueIndexes(indexes); err != nil {
		return err
	}

	hasDescription := false
	for _, d := range input.Details {
		if !d.Type.Valid() {
			return shared.NewDomainError("INVALID_INPUT",
				fmt.Sprintf("Unknown detail type %q", d.Type))
		}
		if d.Type == catalog.DetailDescription {
			hasDescription = true
		}
	}
	if !hasDescription {
		return shared.NewDomainError("INVALID_INPUT",
			"Product requires at least one description detail")
	}
	return nil
}

// buildDetails assigns display indexes per detail type in submission
// order, so each tab keeps its own sequence.
func buildDetails(productID int64, inputs []DetailInput) []*catalog.Detail {
	counters := make(map[catalog.DetailType]int, 3)
	rows := make([]*catalog.Detail, 0, len(inputs))
	for _, d := range inputs {
		rows = append(rows, &catalog.Detail{
			ProductID: productID,
			Type:      d.Type,
			Index:     counters[d.Type],
			Text:      d.Text,
		})
		counters[d.Type]++
	}
	return rows
}

func classifyPreviews(current []catalog.Preview, desired []PreviewInput) (reconcile.Plan, error) {
	currentIDs := make([]int64, 0, len(current))
	for _, p := range current {
		currentIDs = append(currentIDs, p.ID)
	}
	entries := make([]reconcile.Entry, 0, len(desired))
	for _, p := range desired {
		entries = append(entries, reconcile.Entry{ID: p.ID})
	}
	return reconcile.Classify(currentIDs, entries)
}

func classifyDetails(current []catalog.Detail, desired []DetailInput) (reconcile.Plan, error) {
	currentIDs := make([]int64, 0, len(current))
	for _, d := range current {
		currentIDs = append(currentIDs, d.ID)
	}
	entries := make([]reconcile.Entry, 0, len(desired))
	for _, d := range desired {
		entries = append(entries, reconcile.Entry{ID: d.ID})
	}
	return reconcile.Classify(currentIDs, entries)
}

func (s *ProductService) uploadFiles(ctx context.Context, files []appmedia.UploadFile) (map[string]*media.Image, error) {
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

// resolveImageRef maps an image reference to a stored image ID. A
// filename must match a file uploaded with the same request.
func (s *ProductService) resolveImageRef(ctx context.Context, ref reconcile.ImageRef, uploaded map[string]*media.Image) (int64, error) {
	if ref.Filename != "" {
		image, ok := uploaded[ref.Filename]
		if !ok {
			return 0, shared.NewDomainError("INVALID_INPUT",
				fmt.Sprintf("No uploaded file named %q", ref.Filename))
		}
		return image.ID, nil
	}
	if ref.ImageID == 0 {
		return 0, shared.NewDomainError("INVALID_INPUT",
			"Preview requires an image")
	}
	if _, err := s.imageSvc.GetImage(ctx, ref.ImageID); err != nil {
		return 0, err
	}
	return ref.ImageID, nil
}

// applyPreviewPlan executes the preview reconciliation plan and returns
// the image IDs whose references may be gone.
func (s *ProductService) applyPreviewPlan(
	ctx context.Context,
	productID int64,
	plan reconcile.Plan,
	desired []PreviewInput,
	current []catalog.Preview,
	uploaded map[string]*media.Image,
) ([]int64, error) {
	currentByID := make(map[int64]catalog.Preview, len(current))
	for _, p := range current {
		currentByID[p.ID] = p
	}

	var sweepIDs []int64
	for _, id := range plan.DeleteIDs {
		sweepIDs = append(sweepIDs, currentByID[id].ImageID)
	}
	if err := s.previews.Delete(ctx, plan.DeleteIDs); err != nil {
		return nil, err
	}

	var createRows []*catalog.Preview
	for _, p := range desired {
		if p.ID < 0 {
			imageID, err := s.resolveImageRef(ctx, p.Image, uploaded)
			if err != nil {
				return nil, err
			}
			createRows = append(createRows, &catalog.Preview{
				ProductID: productID,
				ImageID:   imageID,
				Index:     p.Index,
			})
			continue
		}

		row := currentByID[p.ID]
		changed := false
		switch reconcile.ResolveImageAction(p.Image, row.ImageID) {
		case reconcile.ImageReplace:
			imageID, err := s.resolveImageRef(ctx, p.Image, uploaded)
			if err != nil {
				return nil, err
			}
			sweepIDs = append(sweepIDs, row.ImageID)
			row.ImageID = imageID
			changed = true
		case reconcile.ImageRelink:
			if _, err := s.imageSvc.GetImage(ctx, p.Image.ImageID); err != nil {
				return nil, err
			}
			sweepIDs = append(sweepIDs, row.ImageID)
			row.ImageID = p.Image.ImageID
			changed = true
		}
		if row.Index != p.Index {
			row.Index = p.Index
			changed = true
		}
		if !changed {
			continue
		}
		if err := s.previews.Update(ctx, &row); err != nil {
			return nil, err
		}
	}
	if err := s.previews.Create(ctx, createRows); err != nil {
		return nil, err
	}
	return sweepIDs, nil
}

func (s *ProductService) applyDetailPlan(ctx context.Context, productID int64, plan reconcile.Plan, desired []DetailInput, current []catalog.Detail) error {
	currentByID := make(map[int64]catalog.Detail, len(current))
	for _, d := range current {
		currentByID[d.ID] = d
	}

	if err := s.details.Delete(ctx, plan.DeleteIDs); err != nil {
		return err
	}

	counters := make(map[catalog.DetailType]int, 3)
	var createRows []*catalog.Detail
	for _, d := range desired {
		index := counters[d.Type]
		counters[d.Type]++

		if d.ID < 0 {
			createRows = append(createRows, &catalog.Detail{
				ProductID: productID,
				Type:      d.Type,
				Index:     index,
				Text:      d.Text,
			})
			continue
		}
		row := currentByID[d.ID]
		if row.Type == d.Type && row.Index == index && row.Text == d.Text {
			continue
		}
		err := s.details.Update(ctx, &catalog.Detail{
			ID:        d.ID,
			ProductID: productID,
			Type:      d.Type,
			Index:     index,
			Text:      d.Text,
		})
		if err != nil {
			return err
		}
	}
	return s.details.Create(ctx, createRows)
}

func (s *ProductService) checkTagsExist(ctx context.Context, tagIDs []int64) error {
	for _, id := range tagIDs {
		if _, err := s.tags.FindByID(ctx, id); err != nil {
			if shared.IsNotFound(err) {
				return shared.NewDomainError("INVALID_INPUT",
					fmt.Sprintf("Tag %d does not exist", id))
			}
			return err
		}
	}
	return nil
}

// syncTagLinks reconciles tag links and keeps the promotion tag in step
// with promotion pricing.
func (s *ProductService) syncTagLinks(ctx context.Context, productID int64, currentIDs, desiredIDs []int64, onPromotion bool) error {
	promotion, err := s.ensurePromotionTag(ctx)
	if err != nil {
		return err
	}

	desired := make(map[int64]bool, len(desiredIDs)+1)
	for _, id := range desiredIDs {
		if id == promotion.ID {
			// managed automatically, never by hand
			continue
		}
		desired[id] = true
	}
	if onPromotion {
		desired[promotion.ID] = true
	}

	currentSet := make(map[int64]bool, len(currentIDs))
	var unlink []int64
	for _, id := range currentIDs {
		currentSet[id] = true
		if !desired[id] {
			unlink = append(unlink, id)
		}
	}
	var link []int64
	for id := range desired {
		if !currentSet[id] {
			link = append(link, id)
		}
	}

	if err := s.tags.UnlinkProduct(ctx, productID, unlink); err != nil {
		return err
	}
	return s.tags.LinkProduct(ctx, productID, link)
}

func (s *ProductService) ensurePromotionTag(ctx context.Context) (*catalog.Tag, error) {
	tag, err := s.tags.FindByName(ctx, catalog.PromotionTagName)
	if err == nil {
		return tag, nil
	}
	if !shared.IsNotFound(err) {
		return nil, err
	}
	tag = &catalog.Tag{Name: catalog.PromotionTagName}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}
