package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ghhamo/lootsy/internal/dto"
)

type shippingService interface {
	Create(ctx context.Context, req dto.ShippingDTO) (*dto.ShippingDTO, error)
	List(ctx context.Context, page dto.Pagination) (*dto.Page[dto.ShippingDTO], error)
	GetByID(ctx context.Context, id int64) (*dto.ShippingDTO, error)
	Update(ctx context.Context, id int64, req dto.UpdateShippingRequest) (*dto.ShippingDTO, error)
	Delete(ctx context.Context, id int64) error
}

type ShippingHandler struct {
	svc   shippingService
	pages pager
	errs  errorWriter
}

func NewShippingHandler(svc shippingService, maxPageSize int, log *slog.Logger) *ShippingHandler {
	return &ShippingHandler{svc: svc, pages: pager{maxSize: maxPageSize}, errs: errorWriter{log: log}}
}

func (h *ShippingHandler) Create(c *gin.Context) {
	var req dto.ShippingDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ShippingHandler) List(c *gin.Context) {
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

func (h *ShippingHandler) GetByID(c *gin.Context) {
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

func (h *ShippingHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ShippingHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.errs.write(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
