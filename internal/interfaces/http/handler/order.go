package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	tradeapp "github.com/store/backend/internal/application/trade"
	"github.com/store/backend/internal/domain/trade"
	"github.com/store/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles checkout and order management endpoints.
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// OrderLineRequest is one basket line of a checkout
type OrderLineRequest struct {
	Article  string `json:"article" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest is a checkout submission
type CreateOrderRequest struct {
	Name            string             `json:"name" binding:"required"`
	Phone           string             `json:"phone" binding:"required"`
	Email           string             `json:"email"`
	DeliveryType    string             `json:"delivery_type" binding:"required"`
	DeliveryAddress string             `json:"delivery_address"`
	PaymentType     string             `json:"payment_type" binding:"required"`
	Comment         string             `json:"comment"`
	Items           []OrderLineRequest `json:"items" binding:"required,min=1"`
}

// OrderStatusRequest moves an order to a new status
type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderTrackingResponse is the public view of an order: enough to
// track it, nothing about the customer.
type OrderTrackingResponse struct {
	Number    string            `json:"number"`
	Status    trade.OrderStatus `json:"status"`
	Total     decimal.Decimal   `json:"total"`
	Items     []trade.OrderItem `json:"items"`
	CreatedAt time.Time         `json:"created_at"`
}

// Create runs a checkout. An authenticated partner is linked to the
// order and billed wholesale prices.
func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	input := tradeapp.CreateOrderInput{
		Name:            req.Name,
		Phone:           req.Phone,
		Email:           req.Email,
		DeliveryType:    trade.DeliveryType(req.DeliveryType),
		DeliveryAddress: req.DeliveryAddress,
		PaymentType:     trade.PaymentType(req.PaymentType),
		Comment:         req.Comment,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, tradeapp.OrderLineInput{
			Article:  item.Article,
			Quantity: item.Quantity,
		})
	}
	if profileID := middleware.GetProfileID(c); profileID != uuid.Nil {
		input.ProfileID = &profileID
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// Track returns the public view of an order by its number.
func (h *OrderHandler) Track(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Order number is required")
		return
	}

	order, err := h.orderService.GetOrderByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, OrderTrackingResponse{
		Number:    order.Number,
		Status:    order.Status,
		Total:     order.Total,
		Items:     order.Items,
		CreatedAt: order.CreatedAt,
	})
}

// List returns a page of orders for the admin console.
func (h *OrderHandler) List(c *gin.Context) {
	req, err := listRequest(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := trade.OrderFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if raw, ok := c.GetQuery("status"); ok {
		status := trade.OrderStatus(raw)
		filter.Status = &status
	}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// GetByNumber returns the full order with its action log for the admin
// console.
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Order number is required")
		return
	}

	order, err := h.orderService.GetOrderByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// UpdateStatus moves an order to a new status and logs the change.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Order number is required")
		return
	}

	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), number, trade.OrderStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// ListMine returns the authenticated partner's orders.
func (h *OrderHandler) ListMine(c *gin.Context) {
	profileID, err := getProfileID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	req, bindErr := listRequest(c)
	if bindErr != nil {
		h.BadRequest(c, bindErr.Error())
		return
	}

	orders, total, err := h.orderService.ListProfileOrders(c.Request.Context(), profileID, req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, req.Page, req.PageSize)
}
