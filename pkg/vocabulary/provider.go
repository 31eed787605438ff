// Package vocabulary serves the fuzzy-match candidate pool: canonical names
// from the target system's reference tables, fronted by a read-through cache.
package vocabulary

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/redis/go-redis/v9"

	"github.com/Ramsey-B/fern/internal/tracing"
	"github.com/Ramsey-B/fern/pkg/models"
)

// Source loads canonical names from the reference tables.
type Source interface {
	Names(ctx context.Context, kind models.EntityKind, parent *string) ([]string, error)
}

// Cache is the read-through layer, satisfied by the redis package's Client.
// Both methods may fail without affecting correctness; the provider falls
// open to the source.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// Provider is the VocabularyProvider used by the matcher.
type Provider struct {
	source Source
	cache  Cache
	ttl    time.Duration
	logger ectologger.Logger
}

// NewProvider creates a new Provider. cache may be nil to disable caching.
func NewProvider(source Source, cache Cache, ttl time.Duration, logger ectologger.Logger) *Provider {
	return &Provider{
		source: source,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func cacheKey(kind models.EntityKind, scope *string) string {
	scoped := ""
	if scope != nil {
		scoped = *scope
	}
	return fmt.Sprintf("fern:vocab:%s:%s", kind, scoped)
}

// Vocabulary returns the active canonical names for a kind, optionally scoped
// by parent sport. Cache misses and cache failures both read through to the
// source; only a source failure is an error.
func (p *Provider) Vocabulary(ctx context.Context, kind models.EntityKind, scope *string) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "vocabulary.Provider.Vocabulary")
	defer span.End()

	key := cacheKey(kind, scope)

	if p.cache != nil {
		cached, err := p.cache.Get(ctx, key)
		if err == nil {
			var names []string
			if err := json.Unmarshal([]byte(cached), &names); err == nil {
				return names, nil
			}
			p.logger.WithContext(ctx).WithError(err).Warn("discarding malformed vocabulary cache entry")
		} else if err != redis.Nil {
			p.logger.WithContext(ctx).WithError(err).Warn("vocabulary cache read failed")
		}
	}

	names, err := p.source.Names(ctx, kind, scope)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		payload, err := json.Marshal(names)
		if err == nil {
			if err := p.cache.Set(ctx, key, payload, p.ttl); err != nil {
				p.logger.WithContext(ctx).WithError(err).Warn("vocabulary cache write failed")
			}
		}
	}

	return names, nil
}
