package handler

import (
	"github.com/gin-gonic/gin"
	contentapp "github.com/store/backend/internal/application/content"
	"github.com/store/backend/internal/domain/content"
)

// PageHandler handles static page blocks, the contact card and the
// repair price list.
type PageHandler struct {
	BaseHandler
	pageService *contentapp.PageService
}

// NewPageHandler creates a new page handler
func NewPageHandler(pageService *contentapp.PageService) *PageHandler {
	return &PageHandler{
		pageService: pageService,
	}
}

// PageBlockRequest is one titled text section of a static page
type PageBlockRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// PageBlocksRequest replaces all blocks of one page
type PageBlocksRequest struct {
	Blocks []PageBlockRequest `json:"blocks" binding:"required"`
}

// ContactRequest updates the contact card
type ContactRequest struct {
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Schedule string `json:"schedule"`
}

// RepairServiceRequest is one row of the repair price list
type RepairServiceRequest struct {
	Name  string `json:"name" binding:"required"`
	Price string `json:"price" binding:"required"`
}

// RepairServicesRequest replaces the whole repair price list
type RepairServicesRequest struct {
	Services []RepairServiceRequest `json:"services" binding:"required"`
}

// GetBlocks returns the blocks of one static page.
func (h *PageHandler) GetBlocks(c *gin.Context) {
	pageType := c.Param("page_type")
	if pageType == "" {
		h.BadRequest(c, "Page type is required")
		return
	}

	blocks, err := h.pageService.GetPageBlocks(c.Request.Context(), pageType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, blocks)
}

// ReplaceBlocks swaps the full content of one static page.
func (h *PageHandler) ReplaceBlocks(c *gin.Context) {
	pageType := c.Param("page_type")
	if pageType == "" {
		h.BadRequest(c, "Page type is required")
		return
	}

	var req PageBlocksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	inputs := make([]contentapp.PageBlockInput, 0, len(req.Blocks))
	for _, b := range req.Blocks {
		inputs = append(inputs, contentapp.PageBlockInput{
			Title:       b.Title,
			Description: b.Description,
		})
	}

	blocks, err := h.pageService.ReplacePageBlocks(c.Request.Context(), pageType, inputs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, blocks)
}

// GetContact returns the contact card.
func (h *PageHandler) GetContact(c *gin.Context) {
	contact, err := h.pageService.GetContact(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contact)
}

// UpdateContact edits the contact card.
func (h *PageHandler) UpdateContact(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	contact, err := h.pageService.UpdateContact(
		c.Request.Context(), req.Phone, req.Email, req.Address, req.Schedule)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contact)
}

// ListRepairServices returns the repair price list.
func (h *PageHandler) ListRepairServices(c *gin.Context) {
	services, err := h.pageService.ListRepairServices(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, services)
}

// ReplaceRepairServices swaps the whole repair price list.
func (h *PageHandler) ReplaceRepairServices(c *gin.Context) {
	var req RepairServicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	services := make([]content.RepairService, 0, len(req.Services))
	for _, s := range req.Services {
		services = append(services, content.RepairService{
			Name:  s.Name,
			Price: s.Price,
		})
	}

	updated, err := h.pageService.ReplaceRepairServices(c.Request.Context(), services)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}
