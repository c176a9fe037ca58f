package dto

import (
	"path"
	"strings"

	"github.com/ghhamo/lootsy/internal/model"
)

// ProductImagePrefix is the URL prefix product images are served under.
const ProductImagePrefix = "/images/products/"

// ProductImagePath returns the public path of the first non-blank image, or "".
func ProductImagePath(paths ...string) string {
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		return ProductImagePrefix + path.Base(strings.ReplaceAll(p, "\\", "/"))
	}
	return ""
}

func FromUser(u *model.User) UserResponse {
	return UserResponse{
		ID: u.ID, Name: u.Name, Surname: u.Surname,
		Email: u.Email, PhoneNumber: u.PhoneNumber,
	}
}

func FromAccount(u *model.User, stats model.UserStats) AccountResponse {
	return AccountResponse{
		ID: u.ID, Name: u.Name, Surname: u.Surname, Email: u.Email,
		PhoneNumber: u.PhoneNumber, Enabled: u.Enabled, Stats: stats,
	}
}

func FromCategory(c *model.Category) CategoryResponse {
	return CategoryResponse{
		ID: c.ID, Name: c.Name, Description: c.Description,
		CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}

func FromCartLine(l model.CartLine) CartLineResponse {
	return CartLineResponse{
		ProductID: l.ProductID,
		Name:      l.Name,
		Price:     l.Price.StringFixed(2),
		Quantity:  l.Quantity,
		ImageURL:  ProductImagePath(l.ImageURLS, l.ImageURLM, l.ImageURLL),
	}
}

func FromCart(c *model.Cart, lines []model.CartLine) CartResponse {
	items := make([]CartLineResponse, 0, len(lines))
	for _, l := range lines {
		items = append(items, FromCartLine(l))
	}
	return CartResponse{ID: c.ID, UserID: c.UserID, Items: items}
}

func FromCartSummary(c *model.Cart) CartSummaryResponse {
	return CartSummaryResponse{ID: c.ID, UserID: c.UserID, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func FromShipping(s *model.Shipping) ShippingDTO {
	return ShippingDTO{
		ID:            s.ID,
		FirstName:     s.FirstName,
		LastName:      s.LastName,
		Country:       s.Country,
		City:          s.City,
		StreetAddress: s.StreetAddress,
		PhoneNumber:   s.PhoneNumber,
	}
}

func ToShipping(d ShippingDTO) *model.Shipping {
	return &model.Shipping{
		ID:            d.ID,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		Country:       d.Country,
		City:          d.City,
		StreetAddress: d.StreetAddress,
		PhoneNumber:   d.PhoneNumber,
	}
}

func FromOrder(o *model.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			OrderID:     o.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return OrderResponse{
		ID:          o.ID,
		OrderStatus: o.Status,
		TotalAmount: o.TotalAmount,
		Currency:    o.Currency,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		UserID:      o.UserID,
		ShippingID:  o.ShippingID,
		Items:       items,
	}
}

// FromProductHomePage prefers the medium image, as the catalog grid renders it.
func FromProductHomePage(p *model.Product, baseURL string) ProductHomePageResponse {
	return ProductHomePageResponse{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		ImageURL: imageURL(baseURL, p.ImageURLM, p.ImageURLL, p.ImageURLS),
	}
}

func FromProductDetails(p *model.Product, baseURL string) ProductDetailsResponse {
	return ProductDetailsResponse{
		Name:         p.Name,
		Price:        p.Price.StringFixed(2),
		CategoryName: p.CategoryName,
		Description:  p.Description,
		ImageURL:     imageURL(baseURL, p.ImageURLM, p.ImageURLL, p.ImageURLS),
	}
}

func imageURL(baseURL string, paths ...string) string {
	p := ProductImagePath(paths...)
	if p == "" {
		return ""
	}
	return strings.TrimSuffix(baseURL, "/") + p
}
