package handler

import (
	"github.com/gin-gonic/gin"
	contentapp "github.com/store/backend/internal/application/content"
)

// HomeCategoryHandler handles the home page category tiles.
type HomeCategoryHandler struct {
	BaseHandler
	categoryService *contentapp.HomeCategoryService
}

// NewHomeCategoryHandler creates a new home category handler
func NewHomeCategoryHandler(categoryService *contentapp.HomeCategoryService) *HomeCategoryHandler {
	return &HomeCategoryHandler{
		categoryService: categoryService,
	}
}

// HomeCategoryRequest is the JSON payload part of a home category
// create request.
type HomeCategoryRequest struct {
	ProductGroupID int64           `json:"product_group_id"`
	Image          ImageRefRequest `json:"image"`
}

// List returns the home page tiles with their group names and the tag
// IDs carried by each group's products.
func (h *HomeCategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// Create pins a product group to the home page.
func (h *HomeCategoryHandler) Create(c *gin.Context) {
	var req HomeCategoryRequest
	files, err := bindMultipartPayload(c, &req)
	if err != nil {
		h.BadRequest(c, "Invalid multipart payload")
		return
	}

	category, err := h.categoryService.CreateCategory(
		c.Request.Context(), req.ProductGroupID, req.Image.toDomain(), files)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// Delete unpins a product group from the home page.
func (h *HomeCategoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid home category ID")
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
