// Package reference exposes read-only paged reference vocabulary listings.
package reference

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/internal/repositories/reference"
	"github.com/Ramsey-B/fern/pkg/models"
)

// Register registers reference data routes
func Register(g *echo.Group) {
	g.GET("", ListReference)
}

// ListReference pages reference rows for one entity kind
func ListReference(c echo.Context) error {
	ctx := c.Request().Context()

	kind := models.EntityKind(c.QueryParam("kind"))
	if !kind.IsValid() {
		return httperror.NewHTTPError(http.StatusBadRequest, "kind query parameter must be one of sport, league, team, bookmaker")
	}

	var parent *string
	if p := c.QueryParam("parent_id"); p != "" {
		parent = &p
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	ctx, repo, err := ectoinject.GetContext[*reference.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	entries, err := repo.List(ctx, kind, parent, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, entries)
}
