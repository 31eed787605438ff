// Package eventmatch persists confirmed calendar event matches.
package eventmatch

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

var columns = []string{"id", "source_game_id", "event_id", "home_similarity", "away_similarity", "kickoff_delta_seconds", "matched_at"}

// Repository handles event match persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new event match repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Record inserts the match audit row. The (source_game_id, event_id) pair is
// unique; re-recording the same match is a no-op.
func (r *Repository) Record(ctx context.Context, match *models.EventMatch) error {
	ctx, span := tracing.StartSpan(ctx, "eventmatch.Repository.Record")
	defer span.End()

	if match.ID == "" {
		match.ID = uuid.New().String()
	}
	if match.MatchedAt.IsZero() {
		match.MatchedAt = time.Now().UTC()
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("event_matches")
	sb.Cols(columns...)
	sb.Values(match.ID, match.SourceGameID, match.EventID, match.HomeSimilarity, match.AwaySimilarity, match.KickoffDelta, match.MatchedAt)

	query, args := sb.Build()
	query += " ON CONFLICT (source_game_id, event_id) DO NOTHING"

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"source_game_id": match.SourceGameID,
			"event_id":       match.EventID,
		}).Error("Failed to record event match")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to record event match")
	}

	return nil
}

// GetBySourceGame returns the most recent match for a source game, or nil.
func (r *Repository) GetBySourceGame(ctx context.Context, sourceGameID string) (*models.EventMatch, error) {
	ctx, span := tracing.StartSpan(ctx, "eventmatch.Repository.GetBySourceGame")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("event_matches")
	sb.Where(sb.Equal("source_game_id", sourceGameID))
	sb.OrderBy("matched_at DESC")
	sb.Limit(1)

	query, args := sb.Build()
	var match models.EventMatch
	if err := r.db.GetContext(ctx, &match, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get event match")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get event match")
	}

	return &match, nil
}
