package handler

import (
	"github.com/gin-gonic/gin"
	contentapp "github.com/store/backend/internal/application/content"
)

// CategoryBlockHandler handles the catalog landing page blocks.
type CategoryBlockHandler struct {
	BaseHandler
	blockService *contentapp.CategoryBlockService
}

// NewCategoryBlockHandler creates a new category block handler
func NewCategoryBlockHandler(blockService *contentapp.CategoryBlockService) *CategoryBlockHandler {
	return &CategoryBlockHandler{
		blockService: blockService,
	}
}

// BlockRequest is one category block of the submitted state. Negative
// IDs are placeholders that children may reference through block_id.
type BlockRequest struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Index int             `json:"index"`
	Image ImageRefRequest `json:"image"`
}

// SubBlockRequest is one sub-block of the submitted state.
type SubBlockRequest struct {
	ID      int64           `json:"id"`
	BlockID int64           `json:"block_id"`
	Title   string          `json:"title"`
	Href    string          `json:"href"`
	Image   ImageRefRequest `json:"image"`
}

// BlockLinkRequest is one plain link of the submitted state.
type BlockLinkRequest struct {
	ID      int64  `json:"id"`
	BlockID int64  `json:"block_id"`
	Title   string `json:"title"`
	Href    string `json:"href"`
}

// CategoryBlocksRequest is the JSON payload part of a landing page
// update: the full desired block tree in one request.
type CategoryBlocksRequest struct {
	Blocks    []BlockRequest     `json:"blocks"`
	SubBlocks []SubBlockRequest  `json:"sub_blocks"`
	Links     []BlockLinkRequest `json:"links"`
}

// List returns every category block with its children.
func (h *CategoryBlockHandler) List(c *gin.Context) {
	blocks, err := h.blockService.ListBlocks(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, blocks)
}

// Update reconciles the whole landing page against the submitted tree.
func (h *CategoryBlockHandler) Update(c *gin.Context) {
	var req CategoryBlocksRequest
	files, err := bindMultipartPayload(c, &req)
	if err != nil {
		h.BadRequest(c, "Invalid multipart payload")
		return
	}

	input := contentapp.CategoryBlocksInput{Files: files}
	for _, b := range req.Blocks {
		input.Blocks = append(input.Blocks, contentapp.BlockInput{
			ID:    b.ID,
			Title: b.Title,
			Index: b.Index,
			Image: b.Image.toDomain(),
		})
	}
	for _, sb := range req.SubBlocks {
		input.SubBlocks = append(input.SubBlocks, contentapp.SubBlockInput{
			ID:      sb.ID,
			BlockID: sb.BlockID,
			Title:   sb.Title,
			Href:    sb.Href,
			Image:   sb.Image.toDomain(),
		})
	}
	for _, l := range req.Links {
		input.Links = append(input.Links, contentapp.LinkInput{
			ID:      l.ID,
			BlockID: l.BlockID,
			Title:   l.Title,
			Href:    l.Href,
		})
	}

	blocks, err := h.blockService.UpdateBlocks(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, blocks)
}
