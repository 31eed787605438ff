// Package flaggedevent persists records parked for operator review.
package flaggedevent

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

var columns = []string{"id", "source_game_id", "flag_reason", "status", "translations", "missing_elements", "created_at", "updated_at", "resolved_at"}

// Repository handles flagged event persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new flagged event repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Upsert flags a source game for review. Re-flagging the same game refreshes
// the reason and partial translations and reopens it if it was resolved.
func (r *Repository) Upsert(ctx context.Context, flagged *models.FlaggedEvent) error {
	ctx, span := tracing.StartSpan(ctx, "flaggedevent.Repository.Upsert")
	defer span.End()

	if flagged.ID == "" {
		flagged.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	flagged.CreatedAt = now
	flagged.UpdatedAt = now
	if flagged.Status == "" {
		flagged.Status = models.FlaggedEventStatusPending
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("flagged_events")
	sb.Cols(columns...)
	sb.Values(flagged.ID, flagged.SourceGameID, flagged.FlagReason, flagged.Status, flagged.Translations, flagged.MissingElements, flagged.CreatedAt, flagged.UpdatedAt, flagged.ResolvedAt)

	query, args := sb.Build()
	query += " ON CONFLICT (source_game_id) DO UPDATE SET" +
		" flag_reason = EXCLUDED.flag_reason," +
		" status = EXCLUDED.status," +
		" translations = EXCLUDED.translations," +
		" missing_elements = EXCLUDED.missing_elements," +
		" resolved_at = NULL," +
		" updated_at = EXCLUDED.updated_at"

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"source_game_id": flagged.SourceGameID,
		}).Error("Failed to upsert flagged event")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert flagged event")
	}

	return nil
}

// Resolve marks a flagged event as reviewed.
func (r *Repository) Resolve(ctx context.Context, id string) (*models.FlaggedEvent, error) {
	ctx, span := tracing.StartSpan(ctx, "flaggedevent.Repository.Resolve")
	defer span.End()

	now := time.Now().UTC()

	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update("flagged_events")
	ub.Set(
		ub.Assign("status", models.FlaggedEventStatusResolved),
		ub.Assign("resolved_at", now),
		ub.Assign("updated_at", now),
	)
	ub.Where(ub.Equal("id", id))

	query, args := ub.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to resolve flagged event")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to resolve flagged event")
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "flagged event %s not found", id)
	}

	return r.Get(ctx, id)
}

// Get retrieves a flagged event by ID.
func (r *Repository) Get(ctx context.Context, id string) (*models.FlaggedEvent, error) {
	ctx, span := tracing.StartSpan(ctx, "flaggedevent.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("flagged_events")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var flagged models.FlaggedEvent
	if err := r.db.GetContext(ctx, &flagged, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "flagged event %s not found", id)
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get flagged event")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get flagged event")
	}

	return &flagged, nil
}

// List pages the review queue, newest first.
func (r *Repository) List(ctx context.Context, status *string, limit, offset int) ([]*models.FlaggedEvent, error) {
	ctx, span := tracing.StartSpan(ctx, "flaggedevent.Repository.List")
	defer span.End()

	if limit <= 0 || limit > 500 {
		limit = 100
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("flagged_events")
	if status != nil {
		sb.Where(sb.Equal("status", *status))
	}
	sb.OrderBy("updated_at DESC")
	sb.Limit(limit)
	sb.Offset(offset)

	query, args := sb.Build()
	results := []*models.FlaggedEvent{}
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list flagged events")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list flagged events")
	}

	return results, nil
}
