package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/campus-booking/internal/domain"
	"github.com/spec-kit/campus-booking/internal/repository"
	apperrors "github.com/spec-kit/campus-booking/pkg/util"
)

const statsCacheKey = "campus-booking:stats"

// StatsCache stores the last computed dashboard statistics.
// Get returns nil, nil on a miss.
type StatsCache interface {
	Get(ctx context.Context) (*domain.Stats, error)
	Set(ctx context.Context, stats *domain.Stats) error
	Invalidate(ctx context.Context) error
}

type redisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStatsCache returns a Redis-backed cache, or nil when caching is
// disabled by a missing client or a zero TTL.
func NewRedisStatsCache(client *redis.Client, ttl time.Duration) StatsCache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &redisStatsCache{client: client, ttl: ttl}
}

func (c *redisStatsCache) Get(ctx context.Context) (*domain.Stats, error) {
	raw, err := c.client.Get(ctx, statsCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var stats domain.Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *redisStatsCache) Set(ctx context.Context, stats *domain.Stats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsCacheKey, raw, c.ttl).Err()
}

func (c *redisStatsCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, statsCacheKey).Err()
}

// StatsService serves admin dashboard counters.
type StatsService struct {
	stats  repository.StatsRepository
	cache  StatsCache
	logger *zap.Logger
}

// NewStatsService constructs the service. cache may be nil.
func NewStatsService(stats repository.StatsRepository, cache StatsCache, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{stats: stats, cache: cache, logger: logger}
}

// Stats returns the counters, from cache when fresh. Cache failures fall
// back to direct aggregation.
func (s *StatsService) Stats(ctx context.Context) (*domain.Stats, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("stats cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	stats, err := s.stats.Collect(ctx)
	if err != nil {
		s.logger.Error("stats aggregation failed", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, stats); err != nil {
			s.logger.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

// Invalidate drops cached counters.
func (s *StatsService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}
