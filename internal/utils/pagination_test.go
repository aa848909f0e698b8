package utils_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"campusride/internal/utils"

	"github.com/gin-gonic/gin"
)

func paramsForQuery(t *testing.T, query string) *utils.PaginationParams {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return utils.GetPaginationParams(c)
}

func TestGetPaginationParamsSortWhitelist(t *testing.T) {
	tests := []struct {
		query    string
		wantSort string
	}{
		{"sort=rating", "rating"},
		{"sort=updated_at", "updated_at"},
		{"", "created_at"},
		// Client-supplied sort keys outside the known set must not reach
		// the query layer.
		{"sort=password_hash", "created_at"},
		{"sort=$where", "created_at"},
	}

	for _, tt := range tests {
		if got := paramsForQuery(t, tt.query).Sort; got != tt.wantSort {
			t.Errorf("query %q: sort = %q, want %q", tt.query, got, tt.wantSort)
		}
	}
}

func TestGetPaginationParamsClamping(t *testing.T) {
	params := paramsForQuery(t, "page=0&page_size=9999&order=sideways")
	if params.Page != 1 {
		t.Errorf("page = %d, want 1", params.Page)
	}
	if params.PageSize != utils.MaxPageSize {
		t.Errorf("page size = %d, want %d", params.PageSize, utils.MaxPageSize)
	}
	if params.Order != "desc" {
		t.Errorf("order = %q, want desc", params.Order)
	}
}
