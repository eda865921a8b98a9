package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	catalogapp "github.com/store/backend/internal/application/catalog"
	"github.com/store/backend/internal/domain/catalog"
	"github.com/store/backend/internal/domain/reconcile"
	"github.com/store/backend/internal/interfaces/http/middleware"
)

// ProductHandler handles product endpoints for the storefront and the
// admin console.
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// ImageRefRequest references an image for a reconciled entry: a stored
// image by ID, or a file uploaded with the same request by name.
type ImageRefRequest struct {
	ImageID  int64  `json:"image_id"`
	Filename string `json:"filename"`
}

func (r ImageRefRequest) toDomain() reconcile.ImageRef {
	return reconcile.ImageRef{ImageID: r.ImageID, Filename: r.Filename}
}

// DetailRequest is one detail text of a product payload. Negative IDs
// mark details to be created.
type DetailRequest struct {
	ID   int64  `json:"id" binding:"required"`
	Type string `json:"type" binding:"required"`
	Text string `json:"text" binding:"required"`
}

// PreviewRequest is one preview of a product payload.
type PreviewRequest struct {
	ID    int64           `json:"id" binding:"required"`
	Index int             `json:"index"`
	Image ImageRefRequest `json:"image"`
}

// ProductRequest is the JSON payload part of a product create or
// update request.
type ProductRequest struct {
	Name                string           `json:"name" binding:"required,max=255"`
	Article             string           `json:"article" binding:"required,max=64"`
	Count               int              `json:"count" binding:"min=0"`
	Visible             bool             `json:"visible"`
	Price               decimal.Decimal  `json:"price"`
	WholesalePrice      decimal.Decimal  `json:"wholesale_price"`
	OldPrice            *decimal.Decimal `json:"old_price"`
	PromotionPercentage *int             `json:"promotion_percentage"`
	Weight              decimal.Decimal  `json:"weight"`
	Height              decimal.Decimal  `json:"height"`
	Width               decimal.Decimal  `json:"width"`
	Length              decimal.Decimal  `json:"length"`
	ProductGroupID      *int64           `json:"product_group_id"`
	TagIDs              []int64          `json:"tag_ids"`
	Details             []DetailRequest  `json:"details"`
	Previews            []PreviewRequest `json:"previews"`
}

// ProductListQuery narrows product listings.
type ProductListQuery struct {
	Page           int      `form:"page" binding:"omitempty,min=1"`
	PageSize       int      `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search         string   `form:"search"`
	Article        string   `form:"article"`
	TagIDs         []int64  `form:"tag_ids"`
	ProductGroupID *int64   `form:"product_group_id"`
	PriceMin       *float64 `form:"price_min"`
	PriceMax       *float64 `form:"price_max"`
	AvailableOnly  bool     `form:"available_only"`
}

// BasketRequest resolves basket articles to current catalog lines.
type BasketRequest struct {
	Articles []string `json:"articles" binding:"required,min=1"`
}

func buildProductInput(req ProductRequest) catalogapp.ProductInput {
	input := catalogapp.ProductInput{
		Name:                req.Name,
		Article:             req.Article,
		Count:               req.Count,
		Visible:             req.Visible,
		Price:               req.Price,
		WholesalePrice:      req.WholesalePrice,
		OldPrice:            req.OldPrice,
		PromotionPercentage: req.PromotionPercentage,
		Weight:              req.Weight,
		Height:              req.Height,
		Width:               req.Width,
		Length:              req.Length,
		ProductGroupID:      req.ProductGroupID,
		TagIDs:              req.TagIDs,
	}
	for _, d := range req.Details {
		input.Details = append(input.Details, catalogapp.DetailInput{
			ID:   d.ID,
			Type: catalog.DetailType(d.Type),
			Text: d.Text,
		})
	}
	for _, p := range req.Previews {
		input.Previews = append(input.Previews, catalogapp.PreviewInput{
			ID:    p.ID,
			Index: p.Index,
			Image: p.Image.toDomain(),
		})
	}
	return input
}

func buildProductFilter(q ProductListQuery, visibleOnly bool) catalog.ProductFilter {
	filter := catalog.ProductFilter{
		Page:           q.Page,
		PageSize:       q.PageSize,
		Search:         q.Search,
		Article:        q.Article,
		TagIDs:         q.TagIDs,
		ProductGroupID: q.ProductGroupID,
		VisibleOnly:    visibleOnly,
		AvailableOnly:  q.AvailableOnly,
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}
	if q.PriceMin != nil {
		min := decimal.NewFromFloat(*q.PriceMin)
		filter.PriceMin = &min
	}
	if q.PriceMax != nil {
		max := decimal.NewFromFloat(*q.PriceMax)
		filter.PriceMax = &max
	}
	return filter
}

// List returns the storefront product listing. Hidden products are
// never included.
func (h *ProductHandler) List(c *gin.Context) {
	var q ProductListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := buildProductFilter(q, true)
	products, total, err := h.productService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// ListAdmin returns the full product listing including hidden products.
func (h *ProductHandler) ListAdmin(c *gin.Context) {
	var q ProductListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := buildProductFilter(q, false)
	products, total, err := h.productService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// GetByArticle returns one product card by its article.
func (h *ProductHandler) GetByArticle(c *gin.Context) {
	article := c.Param("article")
	if article == "" {
		h.BadRequest(c, "Article is required")
		return
	}

	product, tagIDs, err := h.productService.GetProductByArticle(c.Request.Context(), article)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"product": product, "tag_ids": tagIDs})
}

// GetByID returns one product by ID for the admin console.
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, tagIDs, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"product": product, "tag_ids": tagIDs})
}

// Basket resolves the submitted articles against the current catalog.
// Authenticated partners get wholesale prices.
func (h *ProductHandler) Basket(c *gin.Context) {
	var req BasketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	wholesale := middleware.GetProfileID(c) != uuid.Nil
	items, err := h.productService.Basket(c.Request.Context(), req.Articles, wholesale)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// Create stores a new product from a multipart request: a JSON payload
// part plus the uploaded preview images.
func (h *ProductHandler) Create(c *gin.Context) {
	var req ProductRequest
	files, err := bindMultipartPayload(c, &req)
	if err != nil {
		h.BadRequest(c, "Invalid multipart payload")
		return
	}

	input := buildProductInput(req)
	input.Files = files

	product, err := h.productService.CreateProduct(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// Update reconciles a product against the submitted payload.
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req ProductRequest
	files, err := bindMultipartPayload(c, &req)
	if err != nil {
		h.BadRequest(c, "Invalid multipart payload")
		return
	}

	input := buildProductInput(req)
	input.Files = files

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete removes a product with its previews, details, tag links and
// now-unreferenced images.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
