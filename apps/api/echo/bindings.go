package echoapi

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind reads `?ordering=name,-grade`; a leading "-" sorts descending.
func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}
	for _, field := range core.SplitList(val, ",") {
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

func bindOrdering(ctx echo.Context) []core.DBOrdering {
	var ord Ordering
	ord.Bind(ctx)
	return ord.Orderings
}

// pathID parses the named path parameter; a malformed id is reported as not found.
func pathID(ctx echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errHttpNotFound
	}
	return id, nil
}

// queryID parses an optional id query parameter.
func queryID(ctx echo.Context, name string) (null.Int64, error) {
	val := ctx.QueryParam(name)
	if val == "" {
		return null.Int64{}, nil
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return null.Int64{}, core.NewValidationError(nil, core.FieldError{Field: name, Error: "must be an integer"})
	}
	return null.Int64From(id), nil
}
