package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/store/backend/internal/application/catalog"
)

// TagHandler handles tag and tag group endpoints.
type TagHandler struct {
	BaseHandler
	tagService *catalogapp.TagService
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tagService *catalogapp.TagService) *TagHandler {
	return &TagHandler{
		tagService: tagService,
	}
}

// TagRequest carries a tag create or update payload
type TagRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	TagGroupID *int64 `json:"tag_group_id"`
}

// TagGroupRequest carries a tag group create or update payload
type TagGroupRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// ListTags returns all tags.
func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.tagService.ListTags(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tags)
}

// CreateTag stores a new tag.
func (h *TagHandler) CreateTag(c *gin.Context) {
	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	tag, err := h.tagService.CreateTag(c.Request.Context(), req.Name, req.TagGroupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tag)
}

// UpdateTag renames a tag or moves it to another group.
func (h *TagHandler) UpdateTag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid tag ID")
		return
	}

	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	tag, err := h.tagService.UpdateTag(c.Request.Context(), id, req.Name, req.TagGroupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tag)
}

// DeleteTag removes a tag and its product links.
func (h *TagHandler) DeleteTag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid tag ID")
		return
	}

	if err := h.tagService.DeleteTag(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListTagGroups returns all tag groups.
func (h *TagHandler) ListTagGroups(c *gin.Context) {
	groups, err := h.tagService.ListTagGroups(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, groups)
}

// CreateTagGroup stores a new tag group.
func (h *TagHandler) CreateTagGroup(c *gin.Context) {
	var req TagGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	group, err := h.tagService.CreateTagGroup(c.Request.Context(), req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, group)
}

// UpdateTagGroup renames a tag group.
func (h *TagHandler) UpdateTagGroup(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid tag group ID")
		return
	}

	var req TagGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	group, err := h.tagService.UpdateTagGroup(c.Request.Context(), id, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, group)
}

// DeleteTagGroup removes a tag group. Tags keep existing without a group.
func (h *TagHandler) DeleteTagGroup(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid tag group ID")
		return
	}

	if err := h.tagService.DeleteTagGroup(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
