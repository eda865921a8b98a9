// Package trade implements basket checkout and order management.
package trade

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/store/backend/internal/domain/catalog"
	"github.com/store/backend/internal/domain/identity"
	"github.com/store/backend/internal/domain/shared"
	"github.com/store/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// OrderLineInput is one basket line submitted at checkout.
type OrderLineInput struct {
	Article  string
	Quantity int
}

// CreateOrderInput carries everything a checkout request submits.
type CreateOrderInput struct {
	Name            string
	Phone           string
	Email           string
	DeliveryType    trade.DeliveryType
	DeliveryAddress string
	PaymentType     trade.PaymentType
	Comment         string
	Items           []OrderLineInput
	ProfileID       *uuid.UUID
}

// OrderService handles checkout and order management use cases.
type OrderService struct {
	orders   trade.OrderRepository
	products catalog.ProductRepository
	profiles identity.ProfileRepository
	uow      shared.UnitOfWork
	logger   *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orders trade.OrderRepository,
	products catalog.ProductRepository,
	profiles identity.ProfileRepository,
	uow shared.UnitOfWork,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		profiles: profiles,
		uow:      uow,
		logger:   logger,
	}
}

// CreateOrder runs checkout in one serializable transaction: basket
// lines are snapshotted at current prices and stock is decremented with
// a conditional update, so two concurrent checkouts cannot oversell.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*trade.Order, error) {
	if input.Name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Name is required")
	}
	if err := identity.ValidatePhone(input.Phone); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Order requires at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_INPUT",
				fmt.Sprintf("Quantity for article %s must be positive", item.Article))
		}
	}
	switch input.PaymentType {
	case trade.PaymentCash, trade.PaymentCard:
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown payment type")
	}

	wholesale := false
	if input.ProfileID != nil {
		profile, err := s.profiles.FindByID(ctx, *input.ProfileID)
		if err != nil {
			return nil, err
		}
		if !profile.CanLogin() {
			return nil, shared.ErrForbidden
		}
		wholesale = true
	}

	order := &trade.Order{
		ID:              uuid.New(),
		Number:          trade.NewOrderNumber(),
		Name:            input.Name,
		Phone:           input.Phone,
		Email:           input.Email,
		DeliveryType:    input.DeliveryType,
		DeliveryAddress: input.DeliveryAddress,
		PaymentType:     input.PaymentType,
		Comment:         input.Comment,
		Status:          trade.OrderStatusCreated,
		ProfileID:       input.ProfileID,
	}
	if err := order.ValidateDelivery(); err != nil {
		return nil, err
	}

	err := s.uow.DoSerializable(ctx, func(ctx context.Context) error {
		articles := make([]string, 0, len(input.Items))
		for _, item := range input.Items {
			articles = append(articles, item.Article)
		}
		products, err := s.products.FindByArticles(ctx, articles)
		if err != nil {
			return err
		}
		byArticle := make(map[string]catalog.Product, len(products))
		for _, p := range products {
			byArticle[p.Article] = p
		}

		total := decimal.Zero
		for _, item := range input.Items {
			product, ok := byArticle[item.Article]
			if !ok || !product.Visible {
				return shared.NewDomainError("INVALID_INPUT",
					fmt.Sprintf("Article %s is not available for order", item.Article))
			}

			price := product.Price
			if wholesale {
				price = product.WholesalePrice
			}
			order.Items = append(order.Items, trade.OrderItem{
				OrderID:  order.ID,
				Name:     product.Name,
				Article:  product.Article,
				Price:    price,
				Quantity: item.Quantity,
			})
			total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))

			ok, err := s.products.DecrementStock(ctx, product.ID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return shared.ErrInsufficientStock
			}
		}
		order.Total = total

		if err := s.orders.Create(ctx, order); err != nil {
			return err
		}
		return s.orders.AddAction(ctx, &trade.OrderAction{
			OrderID: order.ID,
			Type:    trade.ActionCreated,
			Detail:  "Order created",
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("number", order.Number),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.Total.String()))
	return s.orders.FindByID(ctx, order.ID)
}

// GetOrder loads an order with items and actions
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// GetOrderByNumber loads an order by its customer-facing number
func (s *OrderService) GetOrderByNumber(ctx context.Context, number string) (*trade.Order, error) {
	return s.orders.FindByNumber(ctx, number)
}

// ListOrders returns a filtered order page with the total count
func (s *OrderService) ListOrders(ctx context.Context, filter trade.OrderFilter) ([]trade.Order, int64, error) {
	return s.orders.List(ctx, filter)
}

// ListProfileOrders returns the orders of one partner profile
func (s *OrderService) ListProfileOrders(ctx context.Context, profileID uuid.UUID, page, pageSize int) ([]trade.Order, int64, error) {
	return s.orders.List(ctx, trade.OrderFilter{
		Page:      page,
		PageSize:  pageSize,
		ProfileID: &profileID,
	})
}

// UpdateStatus moves an order to a new status and logs the change
func (s *OrderService) UpdateStatus(ctx context.Context, number string, status trade.OrderStatus) (*trade.Order, error) {
	switch status {
	case trade.OrderStatusCreated, trade.OrderStatusConfirmed, trade.OrderStatusShipped,
		trade.OrderStatusDone, trade.OrderStatusCancelled:
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown order status")
	}

	order, err := s.orders.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		return order, nil
	}

	detail := fmt.Sprintf("Status changed from %s to %s", order.Status, status)
	order.Status = status
	err = s.uow.Do(ctx, func(ctx context.Context) error {
		if err := s.orders.Update(ctx, order); err != nil {
			return err
		}
		return s.orders.AddAction(ctx, &trade.OrderAction{
			OrderID: order.ID,
			Type:    trade.ActionStatusChanged,
			Detail:  detail,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.orders.FindByID(ctx, order.ID)
}
