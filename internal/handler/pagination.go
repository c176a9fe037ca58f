package handler

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ghhamo/lootsy/internal/dto"
)

const defaultPageSize = 20

// pager reads pageIndex/pageSize query parameters and enforces the configured maximum.
type pager struct {
	maxSize int
}

// required rejects the request when either parameter is missing.
func (p pager) required(c *gin.Context) (dto.Pagination, bool) {
	return p.parse(c, false)
}

// withDefaults falls back to the first page of defaultPageSize.
func (p pager) withDefaults(c *gin.Context) (dto.Pagination, bool) {
	return p.parse(c, true)
}

func (p pager) parse(c *gin.Context, defaults bool) (dto.Pagination, bool) {
	page := dto.Pagination{PageIndex: 0, PageSize: defaultPageSize}
	if defaults && page.PageSize > p.maxSize {
		page.PageSize = p.maxSize
	}

	for _, q := range []struct {
		name string
		dst  *int
	}{
		{"pageIndex", &page.PageIndex},
		{"pageSize", &page.PageSize},
	} {
		raw, ok := c.GetQuery(q.name)
		if !ok {
			if defaults {
				continue
			}
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{q.name: "required"}})
			return dto.Pagination{}, false
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{q.name: "must be an integer"}})
			return dto.Pagination{}, false
		}
		*q.dst = n
	}

	if page.PageSize > p.maxSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Page size exceeds maximum allowed size"})
		return dto.Pagination{}, false
	}
	if page.PageSize < 1 || page.PageIndex < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageIndex must be >= 0 and pageSize >= 1"})
		return dto.Pagination{}, false
	}
	// the row offset is pageIndex*pageSize and must fit in an int
	if page.PageIndex > math.MaxInt/page.PageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageIndex is too large"})
		return dto.Pagination{}, false
	}
	return page, true
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
