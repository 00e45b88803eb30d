package marketdata

import (
	"context"
	"time"

	"github.com/wonny/trendsignal/internal/contracts"
	"github.com/wonny/trendsignal/pkg/logger"
	"github.com/wonny/trendsignal/pkg/redis"
)

// CachedSource decorates a TickSource with a Redis cache. With Redis
// disabled it is a transparent pass-through.
type CachedSource struct {
	source contracts.TickSource
	cache  *redis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedSource wraps a tick source with caching.
func NewCachedSource(source contracts.TickSource, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *CachedSource {
	return &CachedSource{
		source: source,
		cache:  cache,
		ttl:    ttl,
		logger: log,
	}
}

// FetchOHLCV returns cached ticks when fresh, otherwise fetches and
// caches. Cache failures degrade to a direct fetch, never to an error.
func (s *CachedSource) FetchOHLCV(ctx context.Context, symbol string) ([]contracts.Tick, error) {
	key := "ohlcv:" + symbol

	var cached []contracts.Tick
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.WithError(err).Warn("OHLCV cache read failed")
	}
	if found && len(cached) > 0 {
		s.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"count":  len(cached),
		}).Debug("OHLCV cache hit")
		return cached, nil
	}

	ticks, err := s.source.FetchOHLCV(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, ticks, s.ttl); err != nil {
		s.logger.WithError(err).Warn("OHLCV cache write failed")
	}

	return ticks, nil
}
