package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Dee-Olulo/House-hunting-platform/internal/domain"
	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/logger"
)

const propertyKeyPrefix = "property:"

// NewRedisClient connects to Redis and verifies the connection with a ping.
func NewRedisClient(ctx context.Context, addr, password string, db int, log *logger.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Error("Failed to connect to Redis", zap.String("address", addr), zap.Error(err))
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	log.Info("Successfully connected to Redis", zap.String("address", addr))
	return rdb, nil
}

// PropertyCache stores JSON snapshots of properties keyed by ID.
type PropertyCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *logger.Logger
}

// NewPropertyCache creates a PropertyCache whose entries expire after ttl.
func NewPropertyCache(client redis.Cmdable, ttl time.Duration, log *logger.Logger) *PropertyCache {
	return &PropertyCache{
		client: client,
		ttl:    ttl,
		logger: log.Named("PropertyCache"),
	}
}

func propertyKey(id string) string {
	return propertyKeyPrefix + id
}

// Get returns domain.ErrNotFound on a cache miss.
func (c *PropertyCache) Get(ctx context.Context, id string) (*domain.Property, error) {
	data, err := c.client.Get(ctx, propertyKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		c.logger.Error("Redis Get operation failed", zap.String("property_id", id), zap.Error(err))
		return nil, fmt.Errorf("PropertyCache.Get for '%s': %w", id, err)
	}

	var p domain.Property
	if err := json.Unmarshal(data, &p); err != nil {
		c.logger.Warn("Dropping undecodable cache entry", zap.String("property_id", id), zap.Error(err))
		_ = c.client.Del(ctx, propertyKey(id)).Err()
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (c *PropertyCache) Set(ctx context.Context, p *domain.Property) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("PropertyCache.Set marshal: %w", err)
	}
	id := p.ID.Hex()
	if err := c.client.Set(ctx, propertyKey(id), data, c.ttl).Err(); err != nil {
		c.logger.Error("Redis Set operation failed", zap.String("property_id", id), zap.Error(err))
		return fmt.Errorf("PropertyCache.Set for '%s': %w", id, err)
	}
	c.logger.Debug("Redis Set operation successful", zap.String("property_id", id), zap.Duration("ttl", c.ttl))
	return nil
}

func (c *PropertyCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, propertyKey(id)).Err(); err != nil {
		c.logger.Error("Redis Del operation failed", zap.String("property_id", id), zap.Error(err))
		return fmt.Errorf("PropertyCache.Delete for '%s': %w", id, err)
	}
	return nil
}
