package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/models"
)

// DefaultTTL applies when no TTL is configured
const DefaultTTL = 10 * time.Minute

// Cache kinds, used as metric labels
const (
	KindPlayers = "players"
	KindCareer  = "career"
	KindSeasons = "seasons"
)

// Observer receives cache hit/miss notifications
type Observer interface {
	CacheHit(kind string)
	CacheMiss(kind string)
}

type nopObserver struct{}

func (nopObserver) CacheHit(string)  {}
func (nopObserver) CacheMiss(string) {}

// PlayerCache is a read-through Redis cache in front of a PlayerSource.
// Only raw source records are cached; unknown ids are never cached. Redis
// failures degrade to the underlying source.
type PlayerCache struct {
	next     contracts.PlayerSource
	client   *redis.Client
	ttl      time.Duration
	logger   *slog.Logger
	observer Observer
}

var (
	_ contracts.PlayerSource = (*PlayerCache)(nil)
	_ contracts.Reloader     = (*PlayerCache)(nil)
	_ contracts.PlayerWriter = (*PlayerCache)(nil)
)

// NewPlayerCache wraps next. A nil observer disables notifications.
func NewPlayerCache(next contracts.PlayerSource, client *redis.Client, ttl time.Duration, logger *slog.Logger, observer Observer) *PlayerCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &PlayerCache{
		next:     next,
		client:   client,
		ttl:      ttl,
		logger:   logger,
		observer: observer,
	}
}

func playersKey() string                { return "players:all" }
func careerKey(playerID string) string  { return fmt.Sprintf("player:%s:career", playerID) }
func seasonsKey(playerID string) string { return fmt.Sprintf("player:%s:seasons", playerID) }

func (c *PlayerCache) ListPlayers(ctx context.Context) ([]models.RawRecord, error) {
	var players []models.RawRecord
	if c.read(ctx, KindPlayers, playersKey(), &players) {
		return players, nil
	}

	players, err := c.next.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	c.write(ctx, playersKey(), players)
	return players, nil
}

func (c *PlayerCache) GetCareerRecord(ctx context.Context, playerID string) (models.RawRecord, error) {
	var rec models.RawRecord
	if c.read(ctx, KindCareer, careerKey(playerID), &rec) {
		return rec, nil
	}

	rec, err := c.next.GetCareerRecord(ctx, playerID)
	if err != nil {
		return nil, err
	}
	c.write(ctx, careerKey(playerID), rec)
	return rec, nil
}

func (c *PlayerCache) GetSeasonRecords(ctx context.Context, playerID string) ([]models.RawRecord, error) {
	var seasons []models.RawRecord
	if c.read(ctx, KindSeasons, seasonsKey(playerID), &seasons) {
		return seasons, nil
	}

	seasons, err := c.next.GetSeasonRecords(ctx, playerID)
	if err != nil {
		return nil, err
	}
	c.write(ctx, seasonsKey(playerID), seasons)
	return seasons, nil
}

// Ping checks both Redis and the underlying source
func (c *PlayerCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return c.next.Ping(ctx)
}

// Reload reloads the underlying source when it supports it, then drops cached records
func (c *PlayerCache) Reload(ctx context.Context) error {
	if r, ok := c.next.(contracts.Reloader); ok {
		if err := r.Reload(ctx); err != nil {
			return err
		}
	}
	return c.Invalidate(ctx)
}

// ReplacePlayers writes through to the underlying source and drops cached records
func (c *PlayerCache) ReplacePlayers(ctx context.Context, header []string, records []models.RawRecord) error {
	w, ok := c.next.(contracts.PlayerWriter)
	if !ok {
		return errors.New("underlying player source is read-only")
	}
	if err := w.ReplacePlayers(ctx, header, records); err != nil {
		return err
	}
	return c.Invalidate(ctx)
}

// Invalidate removes every cached player key
func (c *PlayerCache) Invalidate(ctx context.Context) error {
	keys := []string{playersKey()}

	iter := c.client.Scan(ctx, 0, "player:*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scanning cached players: %w", err)
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("deleting cached players: %w", err)
	}
	c.logger.DebugContext(ctx, "player cache invalidated", slog.Int("keys", len(keys)))
	return nil
}

func (c *PlayerCache) read(ctx context.Context, kind, key string, dest interface{}) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "redis read failed", slog.String("key", key), slog.Any("error", err))
		}
		c.observer.CacheMiss(kind)
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.WarnContext(ctx, "discarding corrupt cache entry", slog.String("key", key), slog.Any("error", err))
		c.observer.CacheMiss(kind)
		return false
	}

	c.observer.CacheHit(kind)
	return true
}

func (c *PlayerCache) write(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.WarnContext(ctx, "marshaling cache entry", slog.String("key", key), slog.Any("error", err))
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "redis write failed", slog.String("key", key), slog.Any("error", err))
	}
}
