package helpers

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage     = 1 // pages are 1-based
	DefaultPageSize = 3
)

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// NormalizePagination makes page and size usable: negative values are taken
// by absolute value, page 0 becomes the first page and size 0 the default size.
func NormalizePagination(page, size int) (int, int) {
	page, size = abs(page), abs(size)
	if page == 0 {
		page = DefaultPage
	}
	if size == 0 {
		size = DefaultPageSize
	}
	return page, size
}

// CalculateOffsetLimit converts a normalized 1-based page into SQL offset/limit.
func CalculateOffsetLimit(page, size int) (offset, limit int) {
	page, size = NormalizePagination(page, size)
	return (page - 1) * size, size
}

// QueryInt reads an integer query parameter, falling back to def when it is absent.
func QueryInt(c *gin.Context, name string, def int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query parameter %q must be an integer, got %q", name, raw)
	}
	return v, nil
}

// ParsePaginationParams extracts and normalizes page and size from the request.
func ParsePaginationParams(c *gin.Context) (page, size int, err error) {
	if page, err = QueryInt(c, "page", DefaultPage); err != nil {
		return 0, 0, err
	}
	if size, err = QueryInt(c, "size", DefaultPageSize); err != nil {
		return 0, 0, err
	}
	if page == math.MinInt || size == math.MinInt {
		return 0, 0, fmt.Errorf("page and size must be greater than %d", math.MinInt)
	}
	page, size = NormalizePagination(page, size)
	if page-1 > math.MaxInt/size {
		return 0, 0, fmt.Errorf("page %d of size %d is out of range", page, size)
	}
	return page, size, nil
}
