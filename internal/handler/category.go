package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ghhamo/lootsy/internal/dto"
)

type categoryService interface {
	Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
}

type CategoryHandler struct {
	svc  categoryService
	errs errorWriter
}

func NewCategoryHandler(svc categoryService, log *slog.Logger) *CategoryHandler {
	return &CategoryHandler{svc: svc, errs: errorWriter{log: log}}
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
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

func (h *CategoryHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
