package vocabulary

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

type fakeSource struct {
	names map[string][]string
	calls int
	err   error
}

func (s *fakeSource) Names(ctx context.Context, kind models.EntityKind, parent *string) ([]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	scoped := ""
	if parent != nil {
		scoped = *parent
	}
	return s.names[string(kind)+"|"+scoped], nil
}

type fakeCache struct {
	entries map[string]string
	getErr  error
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]string{}}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	value, ok := c.entries[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	switch v := value.(type) {
	case []byte:
		c.entries[key] = string(v)
	case string:
		c.entries[key] = v
	}
	return nil
}

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestProvider_Vocabulary(t *testing.T) {
	source := &fakeSource{names: map[string][]string{
		"sport|":        {"Baseball", "Hockey"},
		"team|Baseball": {"Boston Red Sox", "New York Yankees"},
	}}
	cache := newFakeCache()
	provider := NewProvider(source, cache, 5*time.Minute, testLogger())

	t.Run("cache miss reads through and populates", func(t *testing.T) {
		names, err := provider.Vocabulary(context.Background(), models.EntityKindSport, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"Baseball", "Hockey"}, names)
		assert.Equal(t, 1, source.calls)
		assert.Contains(t, cache.entries, "fern:vocab:sport:")
	})

	t.Run("cache hit skips the source", func(t *testing.T) {
		names, err := provider.Vocabulary(context.Background(), models.EntityKindSport, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"Baseball", "Hockey"}, names)
		assert.Equal(t, 1, source.calls, "second call must be served from cache")
	})

	t.Run("scoped lookups use distinct keys", func(t *testing.T) {
		sport := "Baseball"
		names, err := provider.Vocabulary(context.Background(), models.EntityKindTeam, &sport)
		require.NoError(t, err)
		assert.Equal(t, []string{"Boston Red Sox", "New York Yankees"}, names)
		assert.Contains(t, cache.entries, "fern:vocab:team:Baseball")
	})
}

func TestProvider_Vocabulary_CacheFailuresFallOpen(t *testing.T) {
	source := &fakeSource{names: map[string][]string{
		"sport|": {"Baseball"},
	}}
	cache := newFakeCache()
	cache.getErr = fmt.Errorf("connection refused")
	cache.setErr = fmt.Errorf("connection refused")
	provider := NewProvider(source, cache, 5*time.Minute, testLogger())

	names, err := provider.Vocabulary(context.Background(), models.EntityKindSport, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Baseball"}, names)
}

func TestProvider_Vocabulary_NilCache(t *testing.T) {
	source := &fakeSource{names: map[string][]string{
		"sport|": {"Baseball"},
	}}
	provider := NewProvider(source, nil, 5*time.Minute, testLogger())

	names, err := provider.Vocabulary(context.Background(), models.EntityKindSport, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Baseball"}, names)
}

func TestProvider_Vocabulary_SourceFailure(t *testing.T) {
	source := &fakeSource{err: fmt.Errorf("querying reference tables: %w", models.ErrUpstreamUnavailable)}
	provider := NewProvider(source, nil, 5*time.Minute, testLogger())

	_, err := provider.Vocabulary(context.Background(), models.EntityKindSport, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
}
