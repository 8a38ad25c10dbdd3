package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		page, limit string
		want        Params
	}{
		{"", "", Params{Page: 1, Limit: 20}},
		{"3", "10", Params{Page: 3, Limit: 10}},
		{"0", "0", Params{Page: 1, Limit: 20}},
		{"-2", "500", Params{Page: 1, Limit: MaxLimit}},
		{"abc", "x", Params{Page: 1, Limit: 20}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, New(tt.page, tt.limit), "page=%q limit=%q", tt.page, tt.limit)
	}
}

func TestParse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/invoices?page=2&limit=5", nil)

	p := Parse(c)
	assert.Equal(t, Params{Page: 2, Limit: 5}, p)
	assert.Equal(t, 5, p.Offset())
}

func TestParams_Meta(t *testing.T) {
	p := Params{Page: 2, Limit: 20}

	assert.Equal(t, Meta{Page: 2, Limit: 20, Total: 41, TotalPages: 3}, p.Meta(41))
	assert.Equal(t, Meta{Page: 2, Limit: 20, Total: 40, TotalPages: 2}, p.Meta(40))
	assert.Equal(t, 0, p.Meta(0).TotalPages)
}
