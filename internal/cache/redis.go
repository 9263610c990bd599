package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avetluv/flightbook/config"
	"github.com/avetluv/flightbook/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache memoizes transformed search results for a short window so
// repeated identical searches skip the upstream round trip.
type RedisCache struct {
	client    *redis.Client
	offersTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, offersTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		offersTTL: offersTTL,
	}
}

func (c *RedisCache) GetOffers(ctx context.Context, key string) ([]domain.FlightOffer, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var offers []domain.FlightOffer
	if err := json.Unmarshal(data, &offers); err != nil {
		return nil, false
	}
	return offers, true
}

func (c *RedisCache) SetOffers(ctx context.Context, key string, offers []domain.FlightOffer) error {
	payload, err := json.Marshal(offers)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.offersTTL).Err()
}

func (c *RedisCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
