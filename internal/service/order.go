package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghhamo/lootsy/internal/dto"
	"github.com/ghhamo/lootsy/internal/model"
	"github.com/ghhamo/lootsy/internal/repository"
)

var (
	ErrOrderNotFound      = newError(ErrNotFound, "order not found")
	ErrCartEmpty          = newError(ErrValidation, "cart is empty")
	ErrOrderTotalMismatch = newError(ErrValidation, "order total does not match cart total")
	ErrInvalidOrderStatus = newError(ErrValidation, "invalid order status")
)

// totalTolerance is the largest accepted gap between the client total and the computed one.
var totalTolerance = decimal.RequireFromString("0.01")

// EventPublisher delivers order events to other consumers.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event model.OrderEvent) error
}

type OrderService struct {
	orderRepo    repository.OrderRepository
	cartRepo     repository.CartRepository
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
	shippingRepo repository.ShippingRepository
	publisher    EventPublisher
	logger       *slog.Logger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	shippingRepo repository.ShippingRepository,
	publisher EventPublisher,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo, cartRepo: cartRepo, productRepo: productRepo,
		userRepo: userRepo, shippingRepo: shippingRepo,
		publisher: publisher, logger: logger,
	}
}

// CreateOrder turns the user's cart into a PENDING order. The recomputed total must match
// req.TotalAmount within totalTolerance. Order, items and the emptied cart commit together.
func (s *OrderService) CreateOrder(ctx context.Context, userID int64, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	shipping, err := s.shippingRepo.GetByID(ctx, req.ShippingID)
	if err != nil {
		return nil, fmt.Errorf("get shipping: %w", err)
	}
	if shipping == nil {
		return nil, ErrShippingNotFound
	}

	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if cart == nil {
		return nil, ErrCartEmpty
	}
	lines, err := s.cartRepo.Lines(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("get cart lines: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	total := decimal.Zero
	items := make([]model.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, err := s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("get product: %w", err)
		}
		if product == nil {
			return nil, ErrProductNotFound
		}
		subtotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(subtotal)
		items = append(items, model.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
			Subtotal:    subtotal,
		})
	}

	clientTotal := decimal.Zero
	if req.TotalAmount != nil {
		clientTotal = *req.TotalAmount
	}
	if total.Sub(clientTotal).Abs().GreaterThan(totalTolerance) {
		return nil, ErrOrderTotalMismatch
	}

	order := &model.Order{
		Status:      model.OrderStatusPending,
		TotalAmount: total,
		Currency:    req.Currency,
		UserID:      user.ID,
		ShippingID:  shipping.ID,
		Items:       items,
	}
	if err := s.orderRepo.PlaceOrder(ctx, order, cart.ID); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("place order: %w", err)
	}

	s.publishCreated(ctx, order)
	resp := dto.FromOrder(order)
	return &resp, nil
}

func (s *OrderService) publishCreated(ctx context.Context, order *model.Order) {
	if s.publisher == nil {
		return
	}
	event := model.OrderEvent{
		ID:          uuid.NewString(),
		Type:        model.OrderEventCreated,
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Currency:    order.Currency,
		OccurredAt:  order.CreatedAt,
	}
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish order event", "order_id", order.ID, "error", err)
	}
}

func (s *OrderService) GetByID(ctx context.Context, id int64) (*dto.OrderResponse, error) {
	order, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromOrder(order)
	return &resp, nil
}

// ListByUser returns a user's orders, newest first.
func (s *OrderService) ListByUser(ctx context.Context, userID int64, page dto.Pagination) (*dto.Page[dto.OrderResponse], error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.list(ctx, repository.OrderFilter{UserID: userID}, page)
}

// ListMine filters on creation time only when both bounds are given.
func (s *OrderService) ListMine(ctx context.Context, userID int64, page dto.Pagination, from, to *time.Time) (*dto.Page[dto.OrderResponse], error) {
	f := repository.OrderFilter{UserID: userID}
	if from != nil && to != nil {
		f.From, f.To = from, to
	}
	return s.list(ctx, f, page)
}

func (s *OrderService) list(ctx context.Context, f repository.OrderFilter, page dto.Pagination) (*dto.Page[dto.OrderResponse], error) {
	orders, err := s.orderRepo.ListByUser(ctx, f, page.PageSize, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	total, err := s.orderRepo.CountByUser(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, dto.FromOrder(&orders[i]))
	}
	return &dto.Page[dto.OrderResponse]{Items: items, Total: total, PageIndex: page.PageIndex, PageSize: page.PageSize}, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) (*dto.OrderResponse, error) {
	if !status.Valid() {
		return nil, ErrInvalidOrderStatus
	}
	order, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Status = status
	if err := s.orderRepo.UpdateStatus(ctx, order); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	resp := dto.FromOrder(order)
	return &resp, nil
}

func (s *OrderService) get(ctx context.Context, id int64) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}
