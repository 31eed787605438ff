// Package resolution drives a raw game record through entity matching and
// event matching and classifies the result.
package resolution

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/internal/tracing"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
)

// EntityResolver translates one raw name for an entity kind.
type EntityResolver interface {
	Resolve(ctx context.Context, kind models.EntityKind, rawValue string, sportContext *string) models.Resolution
}

// EventFinder locates the pre-existing calendar event for a translated game.
type EventFinder interface {
	FindExistingEvent(ctx context.Context, sourceGameID, home, away, sport string, kickoff time.Time) (*models.CalendarEvent, error)
}

// FlagStore parks non-ready records for operator review.
type FlagStore interface {
	Upsert(ctx context.Context, flagged *models.FlaggedEvent) error
}

// Orchestrator classifies incoming records as ready, partial, or unresolved.
type Orchestrator struct {
	log      ectologger.Logger
	resolver EntityResolver
	events   EventFinder
	flags    FlagStore
}

// NewOrchestrator creates a new Orchestrator. flags may be nil to disable
// review-queue persistence.
func NewOrchestrator(log ectologger.Logger, resolver EntityResolver, events EventFinder, flags FlagStore) *Orchestrator {
	return &Orchestrator{
		log:      log,
		resolver: resolver,
		events:   events,
		flags:    flags,
	}
}

// ProcessRecord resolves every field of the record, attempts event matching
// when sport and both teams translated, and returns the classification.
//
// Sport resolves first so it can scope every later lookup. A missing league
// on input is not a failure. Bookmaker names on markets translate
// opportunistically and never affect classification. No failure here aborts
// sibling records; the returned outcome is always usable.
func (o *Orchestrator) ProcessRecord(ctx context.Context, record *models.IncomingRecord) *models.ResolutionOutcome {
	ctx, span := tracing.StartSpan(ctx, "resolution.Orchestrator.ProcessRecord")
	defer span.End()

	log := o.log.WithContext(ctx).WithFields(map[string]any{
		"source_game_id": record.SourceGameID,
	})

	outcome := &models.ResolutionOutcome{
		SourceGameID: record.SourceGameID,
		Resolved:     map[string]string{},
		Missing:      []string{},
	}

	sport := o.resolveField(ctx, outcome, models.EntityKindSport, "sport", record.Sport, nil)

	var sportContext *string
	if sport.Resolved() {
		sportContext = &sport.Value
	}

	// league is informative only: it scopes nothing downstream and never
	// affects classification, but a present-and-unresolved league still
	// appears in the missing list for triage
	if record.League != nil && strings.TrimSpace(*record.League) != "" {
		o.resolveField(ctx, outcome, models.EntityKindLeague, "league", *record.League, sportContext)
	}

	home := o.resolveField(ctx, outcome, models.EntityKindTeam, "home_team", record.HomeTeam, sportContext)
	away := o.resolveField(ctx, outcome, models.EntityKindTeam, "away_team", record.AwayTeam, sportContext)

	o.resolveBookmakers(ctx, outcome, record, sportContext)

	if sport.Resolved() && home.Resolved() && away.Resolved() {
		o.matchEvent(ctx, outcome, record, home.Value, away.Value, sport.Value)
	} else {
		metrics.EventMatchesTotal.WithLabelValues(metrics.EventOutcomeSkipped).Inc()
	}

	outcome.Status = classify(sport, home, away)
	metrics.ResolutionsTotal.WithLabelValues(string(outcome.Status)).Inc()

	if outcome.Status != models.ResolutionStatusReady {
		o.flagRecord(ctx, outcome)
	}

	log.WithFields(map[string]any{
		"status":  outcome.Status,
		"missing": outcome.Missing,
	}).Info("record classified")

	return outcome
}

// resolveField runs the matcher for one field and folds the result into the
// outcome.
func (o *Orchestrator) resolveField(ctx context.Context, outcome *models.ResolutionOutcome, kind models.EntityKind, field, rawValue string, sportContext *string) models.Resolution {
	res := o.resolver.Resolve(ctx, kind, rawValue, sportContext)
	metrics.FieldResolutionsTotal.WithLabelValues(kind.String(), string(res.Method)).Inc()

	if res.Resolved() {
		outcome.Resolved[field] = res.Value
	} else {
		outcome.Missing = append(outcome.Missing, field)
		if res.Degraded {
			metrics.UpstreamFailuresTotal.WithLabelValues("reference").Inc()
		}
	}
	return res
}

// resolveBookmakers translates the bookmaker on each market. Failures leave
// the market untouched; they are ledgered by the matcher like any other miss.
func (o *Orchestrator) resolveBookmakers(ctx context.Context, outcome *models.ResolutionOutcome, record *models.IncomingRecord, sportContext *string) {
	if len(record.Markets) == 0 {
		return
	}

	translated := map[string]string{}
	for _, market := range record.Markets {
		if market.Bookmaker == "" {
			continue
		}
		if _, done := translated[market.Bookmaker]; done {
			continue
		}
		res := o.resolver.Resolve(ctx, models.EntityKindBookmaker, market.Bookmaker, nil)
		metrics.FieldResolutionsTotal.WithLabelValues(models.EntityKindBookmaker.String(), string(res.Method)).Inc()
		if res.Resolved() {
			translated[market.Bookmaker] = res.Value
		}
	}

	if len(translated) > 0 {
		outcome.Bookmakers = translated
	}
}

func (o *Orchestrator) matchEvent(ctx context.Context, outcome *models.ResolutionOutcome, record *models.IncomingRecord, home, away, sport string) {
	event, err := o.events.FindExistingEvent(ctx, record.SourceGameID, home, away, sport, record.KickoffTime)
	if err != nil {
		// fail open: an unreachable calendar must not stall the pipeline,
		// but the outcome records that absence was not confirmed
		if errors.Is(err, models.ErrUpstreamUnavailable) {
			outcome.EventLookupFailed = true
			metrics.EventMatchesTotal.WithLabelValues(metrics.EventOutcomeLookupFailed).Inc()
			metrics.UpstreamFailuresTotal.WithLabelValues("calendar").Inc()
			return
		}
		o.log.WithContext(ctx).WithError(err).Error("event matching failed")
		outcome.EventLookupFailed = true
		metrics.EventMatchesTotal.WithLabelValues(metrics.EventOutcomeLookupFailed).Inc()
		return
	}

	if event == nil {
		metrics.EventMatchesTotal.WithLabelValues(metrics.EventOutcomeAbsent).Inc()
		return
	}

	outcome.EventID = &event.ID
	metrics.EventMatchesTotal.WithLabelValues(metrics.EventOutcomeMatched).Inc()
}

// classify applies the terminal classification rules. Ready requires sport
// and both teams; a found event is not required because a legitimately
// absent event means the creation collaborator should create it.
func classify(sport, home, away models.Resolution) models.ResolutionStatus {
	if sport.Resolved() && home.Resolved() && away.Resolved() {
		return models.ResolutionStatusReady
	}
	if !sport.Resolved() && (!home.Resolved() || !away.Resolved()) {
		return models.ResolutionStatusUnresolved
	}
	return models.ResolutionStatusPartial
}

func (o *Orchestrator) flagRecord(ctx context.Context, outcome *models.ResolutionOutcome) {
	if o.flags == nil {
		return
	}

	translations, err := json.Marshal(outcome.Resolved)
	if err != nil {
		translations = []byte("{}")
	}
	missing, err := json.Marshal(outcome.Missing)
	if err != nil {
		missing = []byte("[]")
	}

	flagged := &models.FlaggedEvent{
		SourceGameID:    outcome.SourceGameID,
		FlagReason:      flagReason(outcome),
		Status:          models.FlaggedEventStatusPending,
		Translations:    translations,
		MissingElements: missing,
	}

	if err := o.flags.Upsert(ctx, flagged); err != nil {
		// the classification stands; only the review row is lost
		o.log.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"source_game_id": outcome.SourceGameID,
		}).Error("failed to flag record for review")
	}
}

func flagReason(outcome *models.ResolutionOutcome) string {
	if len(outcome.Missing) == 0 {
		return "classification " + string(outcome.Status)
	}
	return "unresolved fields: " + strings.Join(outcome.Missing, ", ")
}
