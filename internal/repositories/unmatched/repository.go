// Package unmatched persists the resolution-failure ledger.
package unmatched

import (
	"context"
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

var columns = []string{"id", "source_system", "item_kind", "item_value", "context", "attempt_count", "first_attempt", "last_attempt"}

// Repository handles unmatched item persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new unmatched ledger repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Record upserts a failure for (source_system, item_kind, item_value).
// attempt_count increments on every repeat and never resets; first_attempt
// is set once.
func (r *Repository) Record(ctx context.Context, sourceSystem string, kind models.EntityKind, value string, scope *string) error {
	ctx, span := tracing.StartSpan(ctx, "unmatched.Repository.Record")
	defer span.End()

	now := time.Now().UTC()

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("unmatched_items")
	sb.Cols(columns...)
	sb.Values(uuid.New().String(), sourceSystem, kind.String(), value, scope, 1, now, now)

	query, args := sb.Build()
	query += " ON CONFLICT (source_system, item_kind, item_value) DO UPDATE SET" +
		" attempt_count = unmatched_items.attempt_count + 1," +
		" last_attempt = EXCLUDED.last_attempt," +
		" context = EXCLUDED.context"

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"source_system": sourceSystem,
			"item_kind":     kind.String(),
			"item_value":    value,
		}).Error("Failed to record unmatched item")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to record unmatched item")
	}

	return nil
}

// List returns the backlog ordered by attempt count, busiest first.
func (r *Repository) List(ctx context.Context, sourceSystem, kind *string, limit, offset int) ([]*models.UnmatchedItem, error) {
	ctx, span := tracing.StartSpan(ctx, "unmatched.Repository.List")
	defer span.End()

	if limit <= 0 || limit > 500 {
		limit = 100
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("unmatched_items")
	if sourceSystem != nil {
		sb.Where(sb.Equal("source_system", *sourceSystem))
	}
	if kind != nil {
		sb.Where(sb.Equal("item_kind", *kind))
	}
	sb.OrderBy("attempt_count DESC", "last_attempt DESC")
	sb.Limit(limit)
	sb.Offset(offset)

	query, args := sb.Build()
	results := []*models.UnmatchedItem{}
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list unmatched items")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list unmatched items")
	}

	return results, nil
}
