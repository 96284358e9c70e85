package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name  string
		query string
		want  Params
	}{
		{"defaults", "", Params{Page: 1, Limit: 20, Offset: 0}},
		{"explicit", "page=3&limit=15", Params{Page: 3, Limit: 15, Offset: 30}},
		{"zero page clamps", "page=0&limit=10", Params{Page: 1, Limit: 10, Offset: 0}},
		{"negative limit falls back", "page=2&limit=-5", Params{Page: 2, Limit: 20, Offset: 20}},
		{"limit capped", "limit=9999", Params{Page: 1, Limit: 100, Offset: 0}},
		{"garbage ignored", "page=abc&limit=xyz", Params{Page: 1, Limit: 20, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			assert.Equal(t, tt.want, Parse(c))
		})
	}
}
