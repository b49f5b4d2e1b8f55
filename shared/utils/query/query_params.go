package query

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultItemsPerPage = 10
	MaxItemsPerPage     = 100
)

// PageParams represents pagination parameters
type PageParams struct {
	Page         int `json:"page"`
	ItemsPerPage int `json:"items_per_page"`
}

// PaginatedResponse is one page of items plus the metadata clients page with.
type PaginatedResponse[T any] struct {
	Data         []T   `json:"data"`
	TotalCount   int64 `json:"total_count"`
	HasMore      bool  `json:"has_more"`
	Page         int   `json:"page"`
	ItemsPerPage int   `json:"items_per_page"`
}

// ParsePageParams reads page and items_per_page from the query string.
// Missing or unparsable values fall back to defaults; out of range values are clamped.
func ParsePageParams(c *gin.Context) PageParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	perPage, err := strconv.Atoi(c.DefaultQuery("items_per_page", strconv.Itoa(DefaultItemsPerPage)))
	if err != nil {
		perPage = DefaultItemsPerPage
	}
	if perPage < 1 {
		perPage = 1
	}
	if perPage > MaxItemsPerPage {
		perPage = MaxItemsPerPage
	}

	return PageParams{Page: page, ItemsPerPage: perPage}
}

// Offset is the number of rows before the first row of the page.
func (p PageParams) Offset() int {
	return ComputeOffset(p.Page, p.ItemsPerPage)
}

func ComputeOffset(page, itemsPerPage int) int {
	return (page - 1) * itemsPerPage
}

// HasMore reports whether rows exist past the given page.
func HasMore(page, itemsPerPage int, total int64) bool {
	return int64(page)*int64(itemsPerPage) < total
}

func NewPaginatedResponse[T any](data []T, total int64, params PageParams) PaginatedResponse[T] {
	if data == nil {
		data = []T{}
	}
	return PaginatedResponse[T]{
		Data:         data,
		TotalCount:   total,
		HasMore:      HasMore(params.Page, params.ItemsPerPage, total),
		Page:         params.Page,
		ItemsPerPage: params.ItemsPerPage,
	}
}
