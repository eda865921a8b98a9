package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	contentapp "github.com/store/backend/internal/application/content"
)

// RequestHandler handles visitor call-back requests.
type RequestHandler struct {
	BaseHandler
	requestService *contentapp.RequestService
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(requestService *contentapp.RequestService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
	}
}

// CallbackRequest is a call-back form submission
type CallbackRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

// Create stores a call-back request left by a visitor.
func (h *RequestHandler) Create(c *gin.Context) {
	var req CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	request, err := h.requestService.CreateRequest(c.Request.Context(), req.Name, req.Phone)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, request)
}

// List returns a page of call-back requests, optionally filtered by
// their checked flag.
func (h *RequestHandler) List(c *gin.Context) {
	req, err := listRequest(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var checked *bool
	if raw, ok := c.GetQuery("checked"); ok {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "Invalid checked filter")
			return
		}
		checked = &value
	}

	requests, total, err := h.requestService.ListRequests(c.Request.Context(), req.Page, req.PageSize, checked)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, requests, total, req.Page, req.PageSize)
}

// MarkChecked flags a request as processed.
func (h *RequestHandler) MarkChecked(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	request, err := h.requestService.MarkChecked(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

// Delete removes a call-back request.
func (h *RequestHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	if err := h.requestService.DeleteRequest(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
