package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID          int64
	Name        string
	Surname     string
	Email       string
	Password    string
	PhoneNumber string
	Enabled     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type UserStats struct {
	TotalOrders int             `json:"totalOrders"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
}

type Category struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Product struct {
	ID           int64
	Name         string
	Price        decimal.Decimal
	Description  string
	CategoryID   int64
	CategoryName string
	ImageURLS    string
	ImageURLM    string
	ImageURLL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Cart struct {
	ID        int64
	UserID    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem is keyed by (CartID, ProductID).
type CartItem struct {
	CartID    int64
	ProductID int64
	Quantity  int
	AddedAt   time.Time
}

// CartLine is a cart item joined with the product it points at.
type CartLine struct {
	ProductID int64
	Name      string
	Price     decimal.Decimal
	Quantity  int
	ImageURLS string
	ImageURLM string
	ImageURLL string
	AddedAt   time.Time
}

type Shipping struct {
	ID            int64
	FirstName     string
	LastName      string
	Country       string
	City          string
	StreetAddress string
	PhoneNumber   string
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID          int64
	Status      OrderStatus
	TotalAmount decimal.Decimal
	Currency    string
	UserID      int64
	ShippingID  int64
	Items       []OrderItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderItem is keyed by (OrderID, ProductID) and frozen at order time.
type OrderItem struct {
	OrderID     int64
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

const OrderEventCreated = "order.created"

type OrderEvent struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	OrderID     int64           `json:"order_id"`
	UserID      int64           `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Currency    string          `json:"currency"`
	OccurredAt  time.Time       `json:"occurred_at"`
}
