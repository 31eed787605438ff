// Package mapping persists learned name translations, one table per entity
// kind.
package mapping

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/fern/internal/database"
	"github.com/Ramsey-B/fern/internal/tracing"
	"github.com/Ramsey-B/fern/pkg/models"
)

var tables = map[models.EntityKind]string{
	models.EntityKindSport:     "sport_mappings",
	models.EntityKindLeague:    "league_mappings",
	models.EntityKindTeam:      "team_mappings",
	models.EntityKindBookmaker: "bookmaker_mappings",
}

var columns = []string{"id", "source_value", "target_value", "context", "confidence", "last_verified", "created_at", "updated_at"}

// Repository handles entity mapping persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new mapping repository
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

// Lookup returns the best mapping for a normalized source value, or nil when
// none exists. scope filters by sport context for team and league kinds.
// Highest confidence wins; last_verified breaks ties.
func (r *Repository) Lookup(ctx context.Context, kind models.EntityKind, sourceValue string, scope *string) (*models.EntityMapping, error) {
	ctx, span := tracing.StartSpan(ctx, "mapping.Repository.Lookup")
	defer span.End()

	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)
	sb.Where(sb.Equal("source_value", sourceValue))
	if scope != nil {
		sb.Where(sb.Equal("context", *scope))
	} else {
		sb.Where(sb.IsNull("context"))
	}
	sb.OrderBy("confidence DESC", "last_verified DESC")
	sb.Limit(1)

	query, args := sb.Build()
	var result models.EntityMapping
	if err := r.db.GetContext(ctx, &result, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"kind":         kind.String(),
			"source_value": sourceValue,
		}).Error("Failed to look up mapping")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to look up mapping")
	}

	return &result, nil
}

// Upsert records a translation. On conflict the stored confidence only ever
// increases, and last_verified refreshes on every confirmation.
func (r *Repository) Upsert(ctx context.Context, kind models.EntityKind, sourceValue, targetValue string, confidence float64, scope *string) error {
	ctx, span := tracing.StartSpan(ctx, "mapping.Repository.Upsert")
	defer span.End()

	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto(table)
	sb.Cols(columns...)
	sb.Values(uuid.New().String(), sourceValue, targetValue, scope, confidence, now, now, now)

	query, args := sb.Build()
	query += " ON CONFLICT (source_value, target_value, COALESCE(context, '')) DO UPDATE SET" +
		" confidence = GREATEST(" + table + ".confidence, EXCLUDED.confidence)," +
		" last_verified = EXCLUDED.last_verified," +
		" updated_at = EXCLUDED.updated_at"

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"kind":         kind.String(),
			"source_value": sourceValue,
			"target_value": targetValue,
		}).Error("Failed to upsert mapping")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert mapping")
	}

	return nil
}

// List returns learned mappings for the admin API, newest first.
func (r *Repository) List(ctx context.Context, kind models.EntityKind, scope *string, limit, offset int) ([]*models.EntityMapping, error) {
	ctx, span := tracing.StartSpan(ctx, "mapping.Repository.List")
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
	if scope != nil {
		sb.Where(sb.Equal("context", *scope))
	}
	sb.OrderBy("last_verified DESC")
	sb.Limit(limit)
	sb.Offset(offset)

	query, args := sb.Build()
	results := []*models.EntityMapping{}
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list mappings")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list mappings")
	}

	return results, nil
}
