// Package matching implements entity name resolution: exact lookup against
// the learned mapping tables, falling back to fuzzy matching against the
// target system's reference vocabulary.
package matching

import (
	"context"
	"errors"
	"sort"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/internal/tracing"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
)

// MappingStore is the learned-translation cache the matcher reads and writes.
// scope carries the sport context for team and league rows.
type MappingStore interface {
	Lookup(ctx context.Context, kind models.EntityKind, sourceValue string, scope *string) (*models.EntityMapping, error)
	Upsert(ctx context.Context, kind models.EntityKind, sourceValue, targetValue string, confidence float64, scope *string) error
}

// UnmatchedLedger records resolution failures for operator triage.
type UnmatchedLedger interface {
	Record(ctx context.Context, sourceSystem string, kind models.EntityKind, value string, scope *string) error
}

// VocabularyProvider returns the fuzzy candidate pool: the target system's
// canonical names for a kind, optionally scoped by parent sport.
type VocabularyProvider interface {
	Vocabulary(ctx context.Context, kind models.EntityKind, scope *string) ([]string, error)
}

// Config contains the per-kind acceptance thresholds. Teams collide across
// sports far more easily than sports collide with each other, so team
// matches require higher confidence, and higher still without sport context.
type Config struct {
	SportThreshold           float64
	LeagueThreshold          float64
	LeagueThresholdNoContext float64
	TeamThreshold            float64
	TeamThresholdNoContext   float64
	BookmakerThreshold       float64
	SourceSystem             string
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		SportThreshold:           0.80,
		LeagueThreshold:          0.70,
		LeagueThresholdNoContext: 0.80,
		TeamThreshold:            0.85,
		TeamThresholdNoContext:   0.90,
		BookmakerThreshold:       0.70,
		SourceSystem:             "oddsfeed",
	}
}

// Threshold returns the acceptance bar for a kind given whether a sport
// context narrowed the candidate pool.
func (c Config) Threshold(kind models.EntityKind, hasContext bool) float64 {
	switch kind {
	case models.EntityKindSport:
		return c.SportThreshold
	case models.EntityKindLeague:
		if hasContext {
			return c.LeagueThreshold
		}
		return c.LeagueThresholdNoContext
	case models.EntityKindTeam:
		if hasContext {
			return c.TeamThreshold
		}
		return c.TeamThresholdNoContext
	case models.EntityKindBookmaker:
		return c.BookmakerThreshold
	}
	return 1.0
}

// Matcher resolves raw source-system names to canonical target names.
type Matcher struct {
	log    ectologger.Logger
	store  MappingStore
	ledger UnmatchedLedger
	vocab  VocabularyProvider
	scorer *Scorer
	cfg    Config
}

// NewMatcher creates a new Matcher.
func NewMatcher(
	log ectologger.Logger,
	store MappingStore,
	ledger UnmatchedLedger,
	vocab VocabularyProvider,
	cfg Config,
) *Matcher {
	return &Matcher{
		log:    log,
		store:  store,
		ledger: ledger,
		vocab:  vocab,
		scorer: NewScorer(),
		cfg:    cfg,
	}
}

// Resolve translates rawValue for the given kind. sportContext scopes team
// and league lookups and is ignored for sports and bookmakers.
//
// Exact mapping hits return with their stored confidence. Otherwise the best
// fuzzy candidate from the reference vocabulary is accepted when it meets the
// kind's threshold and persisted for next time; below-threshold misses are
// recorded in the unmatched ledger. An unreachable vocabulary degrades to a
// miss without a ledger write.
func (m *Matcher) Resolve(ctx context.Context, kind models.EntityKind, rawValue string, sportContext *string) models.Resolution {
	ctx, span := tracing.StartSpan(ctx, "matching.Matcher.Resolve")
	defer span.End()

	none := models.Resolution{Method: models.ResolutionMethodNone}

	normalized := normalizers.Identifier(rawValue)
	if normalized == "" {
		return none
	}

	if !kind.HasContext() {
		sportContext = nil
	}

	log := m.log.WithContext(ctx).WithFields(map[string]any{
		"kind":  kind.String(),
		"value": rawValue,
	})

	mapping, err := m.store.Lookup(ctx, kind, normalized, sportContext)
	if err != nil {
		// A broken lookup must not abort the record; fall through to fuzzy.
		log.WithError(err).Warn("mapping lookup failed, falling back to fuzzy matching")
	} else if mapping != nil {
		return models.Resolution{
			Value:      mapping.TargetValue,
			Confidence: mapping.Confidence,
			Method:     models.ResolutionMethodExact,
		}
	}

	candidates, err := m.vocab.Vocabulary(ctx, kind, sportContext)
	if err != nil {
		if errors.Is(err, models.ErrUpstreamUnavailable) {
			log.WithError(err).Warn("reference vocabulary unavailable, cannot fuzzy match")
		} else {
			log.WithError(err).Error("failed to fetch reference vocabulary")
		}
		none.Degraded = true
		return none
	}

	if len(candidates) == 0 {
		m.recordUnmatched(ctx, kind, rawValue, sportContext)
		return none
	}

	best, score := m.bestCandidate(normalized, candidates)
	threshold := m.cfg.Threshold(kind, sportContext != nil)

	if score < threshold {
		log.WithFields(map[string]any{
			"best_candidate": best,
			"score":          score,
			"threshold":      threshold,
		}).Info("best fuzzy candidate below threshold")
		m.recordUnmatched(ctx, kind, rawValue, sportContext)
		return none
	}

	if err := m.store.Upsert(ctx, kind, normalized, best, score, sportContext); err != nil {
		// The resolution stands; the mapping just isn't cached for next time.
		log.WithError(err).Error("failed to persist learned mapping")
	}

	return models.Resolution{
		Value:      best,
		Confidence: score,
		Method:     models.ResolutionMethodFuzzy,
	}
}

// bestCandidate scores every vocabulary entry and returns the winner.
// Ties break deterministically: highest score, then shortest candidate,
// then lexicographic order.
func (m *Matcher) bestCandidate(normalized string, candidates []string) (string, float64) {
	type scored struct {
		value string
		score float64
	}

	results := make([]scored, 0, len(candidates))
	for _, candidate := range candidates {
		results = append(results, scored{
			value: candidate,
			score: m.scorer.Similarity(normalized, candidate),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		if len(results[i].value) != len(results[j].value) {
			return len(results[i].value) < len(results[j].value)
		}
		return results[i].value < results[j].value
	})

	return results[0].value, results[0].score
}

func (m *Matcher) recordUnmatched(ctx context.Context, kind models.EntityKind, rawValue string, sportContext *string) {
	if err := m.ledger.Record(ctx, m.cfg.SourceSystem, kind, rawValue, sportContext); err != nil {
		m.log.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"kind":  kind.String(),
			"value": rawValue,
		}).Error("failed to record unmatched item")
	}
}
