// Package trade holds the order aggregate produced by basket checkout.
package trade

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/store/backend/internal/domain/shared"
)

// OrderStatus tracks the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "CREATED"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDone      OrderStatus = "DONE"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// DeliveryType is how the customer receives the order.
type DeliveryType string

const (
	DeliveryCourier DeliveryType = "COURIER"
	DeliveryPickup  DeliveryType = "PICKUP"
)

// PaymentType is how the customer pays.
type PaymentType string

const (
	PaymentCash PaymentType = "CASH"
	PaymentCard PaymentType = "CARD"
)

// ActionType labels entries of the order action log.
type ActionType string

const (
	ActionCreated       ActionType = "CREATED"
	ActionStatusChanged ActionType = "STATUS_CHANGED"
)

// Order is the aggregate root of a checkout.
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Number          string          `gorm:"size:32;not null;uniqueIndex" json:"number"`
	Name            string          `gorm:"size:255;not null" json:"name"`
	Phone           string          `gorm:"size:32;not null" json:"phone"`
	Email           string          `gorm:"size:255" json:"email"`
	DeliveryType    DeliveryType    `gorm:"size:32;not null" json:"delivery_type"`
	DeliveryAddress string          `gorm:"size:512" json:"delivery_address"`
	PaymentType     PaymentType     `gorm:"size:32;not null" json:"payment_type"`
	Comment         string          `gorm:"size:1000" json:"comment"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Status          OrderStatus     `gorm:"size:32;not null" json:"status"`
	ProfileID       *uuid.UUID      `gorm:"type:uuid;index" json:"profile_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Items   []OrderItem   `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Actions []OrderAction `gorm:"foreignKey:OrderID" json:"actions,omitempty"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots a product line at checkout time so later catalog
// edits do not rewrite history.
type OrderItem struct {
	ID       int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	Name     string          `gorm:"size:255;not null" json:"name"`
	Article  string          `gorm:"size:64;not null" json:"article"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Quantity int             `gorm:"not null" json:"quantity"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderAction is one entry of the order audit log.
type OrderAction struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id"`
	Type      ActionType `gorm:"size:32;not null" json:"type"`
	Detail    string     `gorm:"size:255" json:"detail"`
	CreatedAt time.Time  `json:"created_at"`
}

// TableName returns the table name for GORM
func (OrderAction) TableName() string {
	return "order_actions"
}

// NewOrderNumber generates a customer-facing order number: the ORD-
// prefix followed by fifteen random digits.
func NewOrderNumber() string {
	const digits = 15
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(digits), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		n = big.NewInt(time.Now().UnixNano())
	}
	return fmt.Sprintf("ORD-%015d", n)
}

// ValidateDelivery enforces the address rule: courier delivery needs a
// destination, pickup does not.
func (o *Order) ValidateDelivery() error {
	switch o.DeliveryType {
	case DeliveryCourier:
		if o.DeliveryAddress == "" {
			return shared.NewDomainError("INVALID_INPUT",
				"Delivery address is required for courier delivery")
		}
	case DeliveryPickup:
	default:
		return shared.NewDomainError("INVALID_INPUT", "Unknown delivery type")
	}
	return nil
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	Page      int
	PageSize  int
	Status    *OrderStatus
	ProfileID *uuid.UUID
}

// OrderRepository defines persistence for orders
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByNumber(ctx context.Context, number string) (*Order, error)
	List(ctx context.Context, filter OrderFilter) ([]Order, int64, error)
	Create(ctx context.Context, order *Order) error
	Update(ctx context.Context, order *Order) error
	AddAction(ctx context.Context, action *OrderAction) error
}
