package handler

import (
	"github.com/gin-gonic/gin"
	contentapp "github.com/store/backend/internal/application/content"
)

// SliderHandler handles the promotion slider endpoints.
type SliderHandler struct {
	BaseHandler
	sliderService *contentapp.SliderService
}

// NewSliderHandler creates a new slider handler
func NewSliderHandler(sliderService *contentapp.SliderService) *SliderHandler {
	return &SliderHandler{
		sliderService: sliderService,
	}
}

// SlideRequest is one slide of the slider payload. Negative IDs mark
// slides to be created from an uploaded file of the same name.
type SlideRequest struct {
	ID       int64  `json:"id"`
	Href     string `json:"href"`
	Filename string `json:"filename"`
}

// SliderRequest is the JSON payload part of a slider update. Slide
// order follows the array order.
type SliderRequest struct {
	Slides []SlideRequest `json:"slides"`
}

// List returns the slider in display order.
func (h *SliderHandler) List(c *gin.Context) {
	slides, err := h.sliderService.ListSlides(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, slides)
}

// Update reconciles the whole slider against the submitted payload.
func (h *SliderHandler) Update(c *gin.Context) {
	var req SliderRequest
	files, err := bindMultipartPayload(c, &req)
	if err != nil {
		h.BadRequest(c, "Invalid multipart payload")
		return
	}

	items := make([]contentapp.SlideInput, 0, len(req.Slides))
	for _, s := range req.Slides {
		items = append(items, contentapp.SlideInput{
			ID:       s.ID,
			Href:     s.Href,
			Filename: s.Filename,
		})
	}

	slides, err := h.sliderService.UpdateSlider(c.Request.Context(), items, files)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, slides)
}
