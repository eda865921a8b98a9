package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/store/backend/internal/application/catalog"
)

// ProductGroupHandler handles product group endpoints.
type ProductGroupHandler struct {
	BaseHandler
	groupService *catalogapp.ProductGroupService
}

// NewProductGroupHandler creates a new product group handler
func NewProductGroupHandler(groupService *catalogapp.ProductGroupService) *ProductGroupHandler {
	return &ProductGroupHandler{
		groupService: groupService,
	}
}

// ProductGroupRequest carries a product group create or update payload
type ProductGroupRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// List returns all product groups.
func (h *ProductGroupHandler) List(c *gin.Context) {
	groups, err := h.groupService.ListGroups(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, groups)
}

// Create stores a new product group.
func (h *ProductGroupHandler) Create(c *gin.Context) {
	var req ProductGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, group)
}

// Update renames a product group.
func (h *ProductGroupHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid product group ID")
		return
	}

	var req ProductGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	group, err := h.groupService.UpdateGroup(c.Request.Context(), id, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, group)
}

// Delete removes a product group.
func (h *ProductGroupHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid product group ID")
		return
	}

	if err := h.groupService.DeleteGroup(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
