package matching

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

type fakeMappingStore struct {
	mappings   map[string]*models.EntityMapping
	lookupErr  error
	upsertErr  error
	upsertCall int
}

func newFakeMappingStore() *fakeMappingStore {
	return &fakeMappingStore{mappings: map[string]*models.EntityMapping{}}
}

func mappingKey(kind models.EntityKind, sourceValue string, scope *string) string {
	scoped := ""
	if scope != nil {
		scoped = *scope
	}
	return fmt.Sprintf("%s|%s|%s", kind, sourceValue, scoped)
}

func (s *fakeMappingStore) Lookup(ctx context.Context, kind models.EntityKind, sourceValue string, scope *string) (*models.EntityMapping, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	return s.mappings[mappingKey(kind, sourceValue, scope)], nil
}

func (s *fakeMappingStore) Upsert(ctx context.Context, kind models.EntityKind, sourceValue, targetValue string, confidence float64, scope *string) error {
	s.upsertCall++
	if s.upsertErr != nil {
		return s.upsertErr
	}
	key := mappingKey(kind, sourceValue, scope)
	if existing, ok := s.mappings[key]; ok && existing.Confidence > confidence {
		return nil
	}
	s.mappings[key] = &models.EntityMapping{
		SourceValue:  sourceValue,
		TargetValue:  targetValue,
		Context:      scope,
		Confidence:   confidence,
		LastVerified: time.Now(),
	}
	return nil
}

type fakeLedger struct {
	items map[string]int
	err   error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{items: map[string]int{}}
}

func (l *fakeLedger) Record(ctx context.Context, sourceSystem string, kind models.EntityKind, value string, scope *string) error {
	if l.err != nil {
		return l.err
	}
	l.items[fmt.Sprintf("%s|%s|%s", sourceSystem, kind, value)]++
	return nil
}

type fakeVocabulary struct {
	byKind map[string][]string
	err    error
}

func newFakeVocabulary() *fakeVocabulary {
	return &fakeVocabulary{byKind: map[string][]string{}}
}

func vocabKey(kind models.EntityKind, scope *string) string {
	scoped := ""
	if scope != nil {
		scoped = *scope
	}
	return fmt.Sprintf("%s|%s", kind, scoped)
}

func (v *fakeVocabulary) Vocabulary(ctx context.Context, kind models.EntityKind, scope *string) ([]string, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.byKind[vocabKey(kind, scope)], nil
}

func newTestMatcher(store *fakeMappingStore, ledger *fakeLedger, vocab *fakeVocabulary) *Matcher {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return NewMatcher(logger, store, ledger, vocab, DefaultConfig())
}

func strPtr(s string) *string {
	return &s
}

func TestMatcher_Resolve_ExactMatch(t *testing.T) {
	store := newFakeMappingStore()
	ledger := newFakeLedger()
	vocab := newFakeVocabulary()
	matcher := newTestMatcher(store, ledger, vocab)

	require.NoError(t, store.Upsert(context.Background(), models.EntityKindSport, "baseball", "Baseball", 1.0, nil))

	t.Run("normalized exact lookup wins", func(t *testing.T) {
		res := matcher.Resolve(context.Background(), models.EntityKindSport, "  BASEBALL  ", nil)
		assert.Equal(t, models.ResolutionMethodExact, res.Method)
		assert.Equal(t, "Baseball", res.Value)
		assert.Equal(t, 1.0, res.Confidence)
	})

	t.Run("empty raw value is none", func(t *testing.T) {
		res := matcher.Resolve(context.Background(), models.EntityKindSport, "   ", nil)
		assert.Equal(t, models.ResolutionMethodNone, res.Method)
		assert.False(t, res.Degraded)
	})
}

func TestMatcher_Resolve_FuzzyMatch(t *testing.T) {
	store := newFakeMappingStore()
	ledger := newFakeLedger()
	vocab := newFakeVocabulary()
	matcher := newTestMatcher(store, ledger, vocab)

	sport := strPtr("Baseball")
	vocab.byKind[vocabKey(models.EntityKindTeam, sport)] = []string{
		"Boston Red Sox",
		"New York Yankees",
		"New York Mets",
	}

	t.Run("reordered team name resolves fuzzily and is persisted", func(t *testing.T) {
		res := matcher.Resolve(context.Background(), models.EntityKindTeam, "Yankees New York", sport)
		require.Equal(t, models.ResolutionMethodFuzzy, res.Method)
		assert.Equal(t, "New York Yankees", res.Value)
		assert.GreaterOrEqual(t, res.Confidence, 0.85)

		stored, err := store.Lookup(context.Background(), models.EntityKindTeam, "yankees new york", sport)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "New York Yankees", stored.TargetValue)
	})

	t.Run("second resolution hits the learned mapping exactly", func(t *testing.T) {
		res := matcher.Resolve(context.Background(), models.EntityKindTeam, "Yankees New York", sport)
		assert.Equal(t, models.ResolutionMethodExact, res.Method)
		assert.Equal(t, "New York Yankees", res.Value)
	})

	t.Run("below threshold goes to the ledger", func(t *testing.T) {
		res := matcher.Resolve(context.Background(), models.EntityKindTeam, "Springfield Isotopes", sport)
		assert.Equal(t, models.ResolutionMethodNone, res.Method)
		assert.Equal(t, 1, ledger.items["oddsfeed|team|Springfield Isotopes"])

		// a repeat failure increments the same ledger entry
		matcher.Resolve(context.Background(), models.EntityKindTeam, "Springfield Isotopes", sport)
		assert.Equal(t, 2, ledger.items["oddsfeed|team|Springfield Isotopes"])
	})

	t.Run("empty vocabulary records unmatched", func(t *testing.T) {
		res := matcher.Resolve(context.Background(), models.EntityKindBookmaker, "Pinnacle", nil)
		assert.Equal(t, models.ResolutionMethodNone, res.Method)
		assert.False(t, res.Degraded)
		assert.Equal(t, 1, ledger.items["oddsfeed|bookmaker|Pinnacle"])
	})
}

func TestMatcher_Resolve_ContextIsolation(t *testing.T) {
	store := newFakeMappingStore()
	ledger := newFakeLedger()
	vocab := newFakeVocabulary()
	matcher := newTestMatcher(store, ledger, vocab)

	hockey := strPtr("Hockey")
	baseball := strPtr("Baseball")

	require.NoError(t, store.Upsert(context.Background(), models.EntityKindTeam, "rangers", "Texas Rangers", 1.0, baseball))
	vocab.byKind[vocabKey(models.EntityKindTeam, hockey)] = []string{"New York Islanders"}

	res := matcher.Resolve(context.Background(), models.EntityKindTeam, "Rangers", hockey)
	assert.Equal(t, models.ResolutionMethodNone, res.Method, "a baseball mapping must not satisfy a hockey lookup")
}

func TestMatcher_Resolve_ThresholdBoundary(t *testing.T) {
	store := newFakeMappingStore()
	ledger := newFakeLedger()
	vocab := newFakeVocabulary()

	// threshold of 0.75 lines up with a one-edit-in-four score, which is
	// exactly representable, so the at-threshold case is not float-fragile
	cfg := DefaultConfig()
	cfg.SportThreshold = 0.75
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	matcher := NewMatcher(logger, store, ledger, vocab, cfg)

	vocab.byKind[vocabKey(models.EntityKindSport, nil)] = []string{"abce"}

	t.Run("score exactly at threshold is accepted", func(t *testing.T) {
		// one edit over four characters: exactly 0.75
		res := matcher.Resolve(context.Background(), models.EntityKindSport, "abcd", nil)
		assert.Equal(t, models.ResolutionMethodFuzzy, res.Method)
		assert.Equal(t, 0.75, res.Confidence)
	})

	t.Run("score below threshold is rejected", func(t *testing.T) {
		// two edits over four characters: 0.50
		res := matcher.Resolve(context.Background(), models.EntityKindSport, "abxy", nil)
		assert.Equal(t, models.ResolutionMethodNone, res.Method)
	})
}

func TestMatcher_Resolve_DeterministicTieBreak(t *testing.T) {
	store := newFakeMappingStore()
	ledger := newFakeLedger()
	vocab := newFakeVocabulary()
	matcher := newTestMatcher(store, ledger, vocab)

	// both candidates are one edit from the input, same length:
	// lexicographic order decides
	vocab.byKind[vocabKey(models.EntityKindSport, nil)] = []string{"basebalz", "basebali"}

	// the first pass resolves fuzzily and learns the mapping; later passes
	// hit it exactly, but the winner must be stable either way
	for i := 0; i < 5; i++ {
		res := matcher.Resolve(context.Background(), models.EntityKindSport, "baseball", nil)
		require.True(t, res.Resolved())
		assert.Equal(t, "basebali", res.Value)
	}
}

func TestMatcher_Resolve_Degraded(t *testing.T) {
	store := newFakeMappingStore()
	ledger := newFakeLedger()
	vocab := newFakeVocabulary()
	matcher := newTestMatcher(store, ledger, vocab)

	vocab.err = fmt.Errorf("dialing reference api: %w", models.ErrUpstreamUnavailable)

	res := matcher.Resolve(context.Background(), models.EntityKindSport, "Baseball", nil)
	assert.Equal(t, models.ResolutionMethodNone, res.Method)
	assert.True(t, res.Degraded)
	assert.Empty(t, ledger.items, "degraded misses must not pollute the unmatched ledger")
}

func TestMatcher_Resolve_StorageFailures(t *testing.T) {
	t.Run("lookup failure falls through to fuzzy", func(t *testing.T) {
		store := newFakeMappingStore()
		store.lookupErr = fmt.Errorf("connection refused")
		ledger := newFakeLedger()
		vocab := newFakeVocabulary()
		vocab.byKind[vocabKey(models.EntityKindSport, nil)] = []string{"Baseball"}
		matcher := newTestMatcher(store, ledger, vocab)

		res := matcher.Resolve(context.Background(), models.EntityKindSport, "Baseball", nil)
		assert.Equal(t, models.ResolutionMethodFuzzy, res.Method)
		assert.Equal(t, "Baseball", res.Value)
	})

	t.Run("upsert failure does not undo the resolution", func(t *testing.T) {
		store := newFakeMappingStore()
		store.upsertErr = fmt.Errorf("connection refused")
		ledger := newFakeLedger()
		vocab := newFakeVocabulary()
		vocab.byKind[vocabKey(models.EntityKindSport, nil)] = []string{"Baseball"}
		matcher := newTestMatcher(store, ledger, vocab)

		res := matcher.Resolve(context.Background(), models.EntityKindSport, "Baseball", nil)
		assert.Equal(t, models.ResolutionMethodFuzzy, res.Method)
	})
}

func TestConfig_Threshold(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name       string
		kind       models.EntityKind
		hasContext bool
		expected   float64
	}{
		{"sport", models.EntityKindSport, false, 0.80},
		{"league with context", models.EntityKindLeague, true, 0.70},
		{"league without context", models.EntityKindLeague, false, 0.80},
		{"team with context", models.EntityKindTeam, true, 0.85},
		{"team without context", models.EntityKindTeam, false, 0.90},
		{"bookmaker", models.EntityKindBookmaker, false, 0.70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cfg.Threshold(tt.kind, tt.hasContext))
		})
	}
}
