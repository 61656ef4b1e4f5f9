package echoapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/schooldash/core"
)

func TestOrdering_Bind(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []core.DBOrdering
	}{
		{"none", "/", nil},
		{"empty", "/?ordering=", nil},
		{"mixed", "/?ordering=name,-grade", []core.DBOrdering{{Field: "name", Ascending: true}, {Field: "grade", Ascending: false}}},
		{"blanks", "/?ordering=,%20-id%20,", []core.DBOrdering{{Field: "id", Ascending: false}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := echo.New().NewContext(httptest.NewRequest(http.MethodGet, tt.query, nil), httptest.NewRecorder())
			var ord Ordering
			ord.Bind(ctx)
			assert.Equal(t, tt.want, ord.Orderings)
		})
	}
}
