// Package unmatched exposes the resolution-failure backlog.
package unmatched

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/internal/repositories/unmatched"
)

// Register registers unmatched backlog routes
func Register(g *echo.Group) {
	g.GET("", ListUnmatched)
}

// ListUnmatched lists unmatched items, busiest first
func ListUnmatched(c echo.Context) error {
	ctx := c.Request().Context()

	var sourceSystem, kind *string
	if s := c.QueryParam("source_system"); s != "" {
		sourceSystem = &s
	}
	if k := c.QueryParam("item_kind"); k != "" {
		kind = &k
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	ctx, repo, err := ectoinject.GetContext[*unmatched.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	items, err := repo.List(ctx, sourceSystem, kind, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, items)
}
