package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ghhamo/lootsy/internal/dto"
	"github.com/ghhamo/lootsy/internal/model"
	"github.com/ghhamo/lootsy/internal/repository"
)

var (
	ErrCartNotFound      = newError(ErrNotFound, "cart not found")
	ErrCartAlreadyExists = newError(ErrAlreadyExists, "cart already exists for user")
)

type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, userRepo repository.UserRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo, userRepo: userRepo}
}

// GetCart returns the user's cart, creating an empty one on first access.
func (s *CartService) GetCart(ctx context.Context, userID int64) (*dto.CartResponse, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get or create cart: %w", err)
	}
	return s.view(ctx, cart)
}

// GetByUser returns an existing cart without creating one.
func (s *CartService) GetByUser(ctx context.Context, userID int64) (*dto.CartResponse, error) {
	cart, err := s.existingCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

func (s *CartService) Create(ctx context.Context, userID int64) (*dto.CartSummaryResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	existing, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if existing != nil {
		return nil, ErrCartAlreadyExists
	}

	cart := &model.Cart{UserID: userID}
	if err := s.cartRepo.Create(ctx, cart); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCartAlreadyExists
		}
		return nil, fmt.Errorf("create cart: %w", err)
	}
	resp := dto.FromCartSummary(cart)
	return &resp, nil
}

// AddItem adds quantity of a product, merging with an existing line. Non-positive quantities count as 1.
func (s *CartService) AddItem(ctx context.Context, userID, productID int64, quantity int) (*dto.CartResponse, error) {
	if quantity <= 0 {
		quantity = 1
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get or create cart: %w", err)
	}

	err = s.cartRepo.AddItem(ctx, &model.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity})
	if err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("add cart item: %w", err)
	}
	return s.view(ctx, cart)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID int64) error {
	cart, err := s.existingCart(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.cartRepo.RemoveItem(ctx, cart.ID, productID); err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID int64) error {
	cart, err := s.existingCart(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.cartRepo.Clear(ctx, cart.ID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *CartService) List(ctx context.Context, page dto.Pagination) (*dto.Page[dto.CartSummaryResponse], error) {
	carts, err := s.cartRepo.List(ctx, page.PageSize, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list carts: %w", err)
	}
	total, err := s.cartRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count carts: %w", err)
	}

	items := make([]dto.CartSummaryResponse, 0, len(carts))
	for i := range carts {
		items = append(items, dto.FromCartSummary(&carts[i]))
	}
	return &dto.Page[dto.CartSummaryResponse]{Items: items, Total: total, PageIndex: page.PageIndex, PageSize: page.PageSize}, nil
}

func (s *CartService) existingCart(ctx context.Context, userID int64) (*model.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	return cart, nil
}

func (s *CartService) view(ctx context.Context, cart *model.Cart) (*dto.CartResponse, error) {
	lines, err := s.cartRepo.Lines(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("get cart lines: %w", err)
	}
	resp := dto.FromCart(cart, lines)
	return &resp, nil
}
