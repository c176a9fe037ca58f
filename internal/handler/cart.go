package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ghhamo/lootsy/internal/dto"
)

type cartService interface {
	GetCart(ctx context.Context, userID int64) (*dto.CartResponse, error)
	GetByUser(ctx context.Context, userID int64) (*dto.CartResponse, error)
	Create(ctx context.Context, userID int64) (*dto.CartSummaryResponse, error)
	AddItem(ctx context.Context, userID, productID int64, quantity int) (*dto.CartResponse, error)
	RemoveItem(ctx context.Context, userID, productID int64) error
	Clear(ctx context.Context, userID int64) error
	List(ctx context.Context, page dto.Pagination) (*dto.Page[dto.CartSummaryResponse], error)
}

type CartHandler struct {
	svc   cartService
	pages pager
	errs  errorWriter
}

func NewCartHandler(svc cartService, maxPageSize int, log *slog.Logger) *CartHandler {
	return &CartHandler{svc: svc, pages: pager{maxSize: maxPageSize}, errs: errorWriter{log: log}}
}

func (h *CartHandler) List(c *gin.Context) {
	page, ok := h.pages.required(c)
	if !ok {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), page)
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) Create(c *gin.Context) {
	identity, ok := currentUser(c)
	if !ok {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), identity.UserID)
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CartHandler) Current(c *gin.Context) {
	identity, ok := currentUser(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetCart(c.Request.Context(), identity.UserID)
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) Add(c *gin.Context) {
	identity, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	resp, err := h.svc.AddItem(c.Request.Context(), identity.UserID, req.ProductID, quantity)
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CartHandler) Remove(c *gin.Context) {
	identity, ok := currentUser(c)
	if !ok {
		return
	}
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	if err := h.svc.RemoveItem(c.Request.Context(), identity.UserID, productID); err != nil {
		h.errs.write(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *CartHandler) Clear(c *gin.Context) {
	identity, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.svc.Clear(c.Request.Context(), identity.UserID); err != nil {
		h.errs.write(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *CartHandler) ByUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetByUser(c.Request.Context(), userID)
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
