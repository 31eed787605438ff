// Package mapping exposes the learned-mapping admin API.
package mapping

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/internal/repositories/mapping"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
)

// Register registers mapping routes
func Register(g *echo.Group) {
	g.GET("", ListMappings)
	g.POST("", CreateMapping)
}

// ListMappings lists learned mappings for one entity kind
func ListMappings(c echo.Context) error {
	ctx := c.Request().Context()

	kind := models.EntityKind(c.QueryParam("kind"))
	if !kind.IsValid() {
		return httperror.NewHTTPError(http.StatusBadRequest, "kind query parameter must be one of sport, league, team, bookmaker")
	}

	var scope *string
	if s := c.QueryParam("context"); s != "" {
		scope = &s
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	ctx, repo, err := ectoinject.GetContext[*mapping.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	mappings, err := repo.List(ctx, kind, scope, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, mappings)
}

// CreateMapping inserts a manually verified mapping at confidence 1.0.
// Source values are normalized before storage so exact lookups hit.
func CreateMapping(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.CreateMappingRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if !req.Kind.IsValid() {
		return httperror.NewHTTPError(http.StatusBadRequest, "kind must be one of sport, league, team, bookmaker")
	}
	if req.SourceValue == "" || req.TargetValue == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "source_value and target_value are required")
	}
	if req.Kind.HasContext() && req.Context == nil {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "%s mappings require a sport context", req.Kind)
	}

	ctx, repo, err := ectoinject.GetContext[*mapping.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	sourceValue := normalizers.Identifier(req.SourceValue)
	scope := req.Context
	if !req.Kind.HasContext() {
		scope = nil
	}

	if err := repo.Upsert(ctx, req.Kind, sourceValue, req.TargetValue, 1.0, scope); err != nil {
		return err
	}

	created, err := repo.Lookup(ctx, req.Kind, sourceValue, scope)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, created)
}
