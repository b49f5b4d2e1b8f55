package query

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHasMore(t *testing.T) {
	assert.True(t, HasMore(1, 1, 10))
	assert.False(t, HasMore(11, 1, 10))
	assert.False(t, HasMore(1, 10, 10))
	assert.True(t, HasMore(1, 10, 11))
	assert.False(t, HasMore(1, 10, 0))
}

func TestComputeOffset(t *testing.T) {
	assert.Equal(t, 0, ComputeOffset(1, 10))
	assert.Equal(t, 20, ComputeOffset(3, 10))
	assert.Equal(t, 4, ComputeOffset(5, 1))
}

func TestParsePageParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query string
		want  PageParams
	}{
		{"", PageParams{Page: 1, ItemsPerPage: 10}},
		{"?page=3&items_per_page=25", PageParams{Page: 3, ItemsPerPage: 25}},
		{"?page=0&items_per_page=0", PageParams{Page: 1, ItemsPerPage: 1}},
		{"?page=abc&items_per_page=xyz", PageParams{Page: 1, ItemsPerPage: 10}},
		{"?items_per_page=1000", PageParams{Page: 1, ItemsPerPage: 100}},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/users"+tt.query, nil)

		assert.Equal(t, tt.want, ParsePageParams(c), tt.query)
	}
}

func TestNewPaginatedResponse(t *testing.T) {
	resp := NewPaginatedResponse([]string{"a"}, 10, PageParams{Page: 1, ItemsPerPage: 1})
	assert.Equal(t, []string{"a"}, resp.Data)
	assert.Equal(t, int64(10), resp.TotalCount)
	assert.True(t, resp.HasMore)

	empty := NewPaginatedResponse[string](nil, 0, PageParams{Page: 1, ItemsPerPage: 10})
	assert.NotNil(t, empty.Data)
	assert.False(t, empty.HasMore)
}
