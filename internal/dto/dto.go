package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghhamo/lootsy/internal/model"
)

// --- Pagination ---

type Pagination struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
}

func (p Pagination) Offset() int { return p.PageIndex * p.PageSize }

type Page[T any] struct {
	Items     []T   `json:"items"`
	Total     int64 `json:"total"`
	PageIndex int   `json:"pageIndex"`
	PageSize  int   `json:"pageSize"`
}

// --- Auth ---

type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// --- User ---

type CreateUserRequest struct {
	Name        string `json:"name" binding:"required"`
	Surname     string `json:"surname" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

type UserResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

type UpdateAccountRequest struct {
	Name        string `json:"name" binding:"required"`
	Surname     string `json:"surname" binding:"required"`
	PhoneNumber string `json:"phoneNumber"`
}

type AccountResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Surname     string          `json:"surname"`
	Email       string          `json:"email"`
	PhoneNumber string          `json:"phoneNumber"`
	Enabled     bool            `json:"enabled"`
	Stats       model.UserStats `json:"stats"`
}

// --- Category ---

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// --- Product ---

type CreateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Price       string `json:"price" binding:"required"`
	Description string `json:"description" binding:"required"`
	CategoryID  int64  `json:"categoryId" binding:"required"`
	ImageURLS   string `json:"imageUrlS"`
	ImageURLM   string `json:"imageUrlM"`
	ImageURLL   string `json:"imageUrlL"`
}

// ProductQuery carries the optional catalog filters. Price bounds only apply as a pair.
type ProductQuery struct {
	Search      string
	CategoryIDs []int64
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
}

type ProductHomePageResponse struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl"`
}

type ProductDetailsResponse struct {
	Name         string `json:"name"`
	Price        string `json:"price"`
	CategoryName string `json:"categoryName"`
	Description  string `json:"description"`
	ImageURL     string `json:"imageUrl"`
}

// --- Cart ---

type AddToCartRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  *int  `json:"quantity"`
}

type CartResponse struct {
	ID     int64              `json:"id"`
	UserID int64              `json:"userId"`
	Items  []CartLineResponse `json:"items"`
}

type CartLineResponse struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	ImageURL  string `json:"imageUrl"`
}

type CartSummaryResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// --- Shipping ---

type ShippingDTO struct {
	ID            int64  `json:"id"`
	FirstName     string `json:"firstName" binding:"required"`
	LastName      string `json:"lastName" binding:"required"`
	Country       string `json:"country" binding:"required"`
	City          string `json:"city" binding:"required"`
	StreetAddress string `json:"streetAddress" binding:"required"`
	PhoneNumber   string `json:"phoneNumber" binding:"required"`
}

type UpdateShippingRequest struct {
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	Country       *string `json:"country"`
	City          *string `json:"city"`
	StreetAddress *string `json:"streetAddress"`
	PhoneNumber   *string `json:"phoneNumber"`
}

// --- Order ---

type CreateOrderRequest struct {
	ShippingID  int64            `json:"shippingId" binding:"required"`
	TotalAmount *decimal.Decimal `json:"totalAmount" binding:"required"`
	Currency    string           `json:"currency"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

type OrderResponse struct {
	ID          int64               `json:"id"`
	OrderStatus model.OrderStatus   `json:"orderStatus"`
	TotalAmount decimal.Decimal     `json:"totalAmount"`
	Currency    string              `json:"currency"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	UserID      int64               `json:"userId"`
	ShippingID  int64               `json:"shippingId"`
	Items       []OrderItemResponse `json:"items"`
}

type OrderItemResponse struct {
	OrderID     int64           `json:"orderId"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}
