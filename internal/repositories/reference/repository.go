// Package reference reads the target system's authoritative vocabulary
// tables, the candidate pool for fuzzy matching.
package reference

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/fern/internal/database"
	"github.com/Ramsey-B/fern/internal/tracing"
	"github.com/Ramsey-B/fern/pkg/models"
)

var tables = map[models.EntityKind]string{
	models.EntityKindSport:     "sports_reference",
	models.EntityKindLeague:    "leagues_reference",
	models.EntityKindTeam:      "teams_reference",
	models.EntityKindBookmaker: "bookmakers_reference",
}

var columns = []string{"id", "name", "active", "parent_id", "created_at", "updated_at"}

// Repository handles reference vocabulary reads
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new reference repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func tableFor(kind models.EntityKind) (string, error) {
	table, ok := tables[kind]
	if !ok {
		return "", httperror.NewHTTPErrorf(http.StatusBadRequest, "unknown entity kind: %s", kind)
	}
	return table, nil
}

// Names returns the active canonical names for a kind, ordered for
// deterministic iteration. parent scopes leagues and teams to a sport name.
func (r *Repository) Names(ctx context.Context, kind models.EntityKind, parent *string) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "reference.Repository.Names")
	defer span.End()

	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("name")
	sb.From(table)
	sb.Where(
		sb.Equal("active", true),
		sb.IsNull("deleted_at"),
	)
	if parent != nil {
		sb.Where(sb.Equal("parent_id", *parent))
	}
	sb.OrderBy("name ASC")

	query, args := sb.Build()
	names := []string{}
	if err := r.db.SelectContext(ctx, &names, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"kind": kind.String(),
		}).Error("Failed to load reference vocabulary")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to load reference vocabulary")
	}

	return names, nil
}

// List pages full reference rows for the admin API.
func (r *Repository) List(ctx context.Context, kind models.EntityKind, parent *string, limit, offset int) ([]*models.ReferenceEntry, error) {
	ctx, span := tracing.StartSpan(ctx, "reference.Repository.List")
	defer span.End()

	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 500 {
		limit = 100
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)
	sb.Where(sb.IsNull("deleted_at"))
	if parent != nil {
		sb.Where(sb.Equal("parent_id", *parent))
	}
	sb.OrderBy("name ASC")
	sb.Limit(limit)
	sb.Offset(offset)

	query, args := sb.Build()
	results := []*models.ReferenceEntry{}
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list reference entries")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list reference entries")
	}

	return results, nil
}
