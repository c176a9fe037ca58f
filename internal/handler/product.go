package handler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ghhamo/lootsy/internal/dto"
)

type productService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductHomePageResponse, error)
	List(ctx context.Context, q dto.ProductQuery, page dto.Pagination) (*dto.Page[dto.ProductHomePageResponse], error)
	GetByID(ctx context.Context, id int64) (*dto.ProductHomePageResponse, error)
	GetDetails(ctx context.Context, id int64) (*dto.ProductDetailsResponse, error)
	ExportXLSX(ctx context.Context, w io.Writer) error
}

type ProductHandler struct {
	svc   productService
	pages pager
	errs  errorWriter
}

func NewProductHandler(svc productService, maxPageSize int, log *slog.Logger) *ProductHandler {
	return &ProductHandler{svc: svc, pages: pager{maxSize: maxPageSize}, errs: errorWriter{log: log}}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
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

// List supports search, categories (repeated or comma separated) and a minPrice/maxPrice pair.
func (h *ProductHandler) List(c *gin.Context) {
	page, ok := h.pages.withDefaults(c)
	if !ok {
		return
	}

	q := dto.ProductQuery{Search: c.Query("search")}
	for _, raw := range c.QueryArray("categories") {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"categories": "must be integer ids"}})
				return
			}
			q.CategoryIDs = append(q.CategoryIDs, id)
		}
	}
	if q.MinPrice, ok = priceQuery(c, "minPrice"); !ok {
		return
	}
	if q.MaxPrice, ok = priceQuery(c, "maxPrice"); !ok {
		return
	}

	resp, err := h.svc.List(c.Request.Context(), q, page)
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductHandler) GetByID(c *gin.Context) {
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

func (h *ProductHandler) GetDetails(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetDetails(c.Request.Context(), id)
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *ProductHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.svc.ExportXLSX(c.Request.Context(), &buf); err != nil {
		h.errs.write(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="products.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func priceQuery(c *gin.Context, name string) (*decimal.Decimal, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{name: "must be a decimal"}})
		return nil, false
	}
	return &d, true
}
