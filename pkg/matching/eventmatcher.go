package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/internal/tracing"
	"github.com/Ramsey-B/fern/pkg/models"
)

// CalendarClient queries the target system's event calendar.
type CalendarClient interface {
	ListEvents(ctx context.Context, sport string, from, to time.Time) ([]models.CalendarEvent, error)
}

// EventMatchRecorder persists confirmed event matches. Recording the same
// (source game, event) pair twice is a no-op.
type EventMatchRecorder interface {
	Record(ctx context.Context, match *models.EventMatch) error
}

// EventMatcherConfig tunes the calendar search.
type EventMatcherConfig struct {
	// Tolerance is the window around the observed kickoff searched for
	// candidate events. Wide enough to absorb timezone-normalization errors
	// and source clock skew.
	Tolerance time.Duration
	// TeamThreshold is the per-side similarity bar. Looser than the team
	// matcher's own threshold because both names have already been
	// canonicalized once.
	TeamThreshold float64
}

// DefaultEventMatcherConfig returns the production search window.
func DefaultEventMatcherConfig() EventMatcherConfig {
	return EventMatcherConfig{
		Tolerance:     8 * time.Hour,
		TeamThreshold: 0.80,
	}
}

// EventMatcher locates the pre-existing calendar event for a translated game.
type EventMatcher struct {
	log      ectologger.Logger
	calendar CalendarClient
	recorder EventMatchRecorder
	scorer   *Scorer
	cfg      EventMatcherConfig
}

// NewEventMatcher creates a new EventMatcher.
func NewEventMatcher(
	log ectologger.Logger,
	calendar CalendarClient,
	recorder EventMatchRecorder,
	cfg EventMatcherConfig,
) *EventMatcher {
	return &EventMatcher{
		log:      log,
		calendar: calendar,
		recorder: recorder,
		scorer:   NewScorer(),
		cfg:      cfg,
	}
}

// FindExistingEvent searches the calendar for sport events within the
// tolerance window around kickoff whose home and away names both score at
// least the team threshold against the translated names. Among qualifying
// candidates the smallest kickoff delta wins; delta ties go to the higher
// combined similarity. Returns nil when no event qualifies.
//
// Calendar transport failures return an error wrapping
// models.ErrUpstreamUnavailable so callers can tell "confirmed absent" from
// "could not check".
func (e *EventMatcher) FindExistingEvent(ctx context.Context, sourceGameID, home, away, sport string, kickoff time.Time) (*models.CalendarEvent, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.EventMatcher.FindExistingEvent")
	defer span.End()

	from := kickoff.Add(-e.cfg.Tolerance)
	to := kickoff.Add(e.cfg.Tolerance)

	events, err := e.calendar.ListEvents(ctx, sport, from, to)
	if err != nil {
		e.log.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"sport":   sport,
			"kickoff": kickoff,
		}).Warn("calendar query failed")
		return nil, fmt.Errorf("querying calendar for %s: %w", sport, models.ErrUpstreamUnavailable)
	}

	var (
		best         *models.CalendarEvent
		bestDelta    time.Duration
		bestCombined float64
		bestHome     float64
		bestAway     float64
	)

	for i := range events {
		event := events[i]

		homeScore := e.scorer.Similarity(home, event.HomeTeam)
		awayScore := e.scorer.Similarity(away, event.AwayTeam)
		if homeScore < e.cfg.TeamThreshold || awayScore < e.cfg.TeamThreshold {
			continue
		}

		delta := event.StartTime.Sub(kickoff)
		if delta < 0 {
			delta = -delta
		}
		combined := homeScore + awayScore

		if best == nil || delta < bestDelta || (delta == bestDelta && combined > bestCombined) {
			best = &event
			bestDelta = delta
			bestCombined = combined
			bestHome = homeScore
			bestAway = awayScore
		}
	}

	if best == nil {
		return nil, nil
	}

	if e.recorder != nil {
		match := &models.EventMatch{
			SourceGameID:   sourceGameID,
			EventID:        best.ID,
			HomeSimilarity: bestHome,
			AwaySimilarity: bestAway,
			KickoffDelta:   int64(bestDelta / time.Second),
		}
		if err := e.recorder.Record(ctx, match); err != nil {
			// The match itself stands; only the audit row is lost.
			e.log.WithContext(ctx).WithError(err).Error("failed to record event match")
		}
	}

	return best, nil
}
