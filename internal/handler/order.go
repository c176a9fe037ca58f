package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ghhamo/lootsy/internal/dto"
	"github.com/ghhamo/lootsy/internal/model"
)

type orderService interface {
	CreateOrder(ctx context.Context, userID int64, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.OrderResponse, error)
	ListByUser(ctx context.Context, userID int64, page dto.Pagination) (*dto.Page[dto.OrderResponse], error)
	ListMine(ctx context.Context, userID int64, page dto.Pagination, from, to *time.Time) (*dto.Page[dto.OrderResponse], error)
	UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) (*dto.OrderResponse, error)
}

type OrderHandler struct {
	svc   orderService
	pages pager
	errs  errorWriter
	now   func() time.Time
}

func NewOrderHandler(svc orderService, maxPageSize int, log *slog.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, pages: pager{maxSize: maxPageSize}, errs: errorWriter{log: log}, now: time.Now}
}

func (h *OrderHandler) Create(c *gin.Context) {
	identity, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	resp, err := h.svc.CreateOrder(c.Request.Context(), identity.UserID, req)
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) ListForUser(c *gin.Context) {
	identity, ok := currentUser(c)
	if !ok {
		return
	}
	page, ok := h.pages.required(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListByUser(c.Request.Context(), identity.UserID, page)
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListMine accepts optional RFC 3339 from/to bounds. When only one is given the other is
// opened up to the zero time or now.
func (h *OrderHandler) ListMine(c *gin.Context) {
	identity, ok := currentUser(c)
	if !ok {
		return
	}
	page, ok := h.pages.withDefaults(c)
	if !ok {
		return
	}

	from, ok := timeQuery(c, "from")
	if !ok {
		return
	}
	to, ok := timeQuery(c, "to")
	if !ok {
		return
	}
	if from != nil || to != nil {
		if from == nil {
			from = &time.Time{}
		}
		if to == nil {
			now := h.now()
			to = &now
		}
	}

	resp, err := h.svc.ListMine(c.Request.Context(), identity.UserID, page, from, to)
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	resp, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func timeQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{name: "must be an RFC 3339 timestamp"}})
		return nil, false
	}
	return &t, true
}
