// Package flaggedevent exposes the operator review queue.
package flaggedevent

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/internal/repositories/flaggedevent"
)

// Register registers flagged event routes
func Register(g *echo.Group) {
	g.GET("", ListFlaggedEvents)
	g.GET("/:id", GetFlaggedEvent)
	g.POST("/:id/resolve", ResolveFlaggedEvent)
}

// ListFlaggedEvents pages the review queue
func ListFlaggedEvents(c echo.Context) error {
	ctx := c.Request().Context()

	var status *string
	if s := c.QueryParam("status"); s != "" {
		status = &s
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	ctx, repo, err := ectoinject.GetContext[*flaggedevent.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	events, err := repo.List(ctx, status, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, events)
}

// GetFlaggedEvent gets a flagged event by ID
func GetFlaggedEvent(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*flaggedevent.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	event, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, event)
}

// ResolveFlaggedEvent marks a flagged event as reviewed
func ResolveFlaggedEvent(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*flaggedevent.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	event, err := repo.Resolve(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, event)
}
