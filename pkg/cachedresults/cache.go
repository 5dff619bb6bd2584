package cachedresults

import (
	"context"
	"encoding/json"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/rtmonitor/pkg/efa"
)

const DefaultExpiration = 5 * time.Minute

// Cache keeps upstream results as JSON in Redis
type Cache struct {
	Cache *cache.Cache[string]
}

func (c *Cache) Setup(client *redis.Client, expiration time.Duration) {
	if expiration <= 0 {
		expiration = DefaultExpiration
	}

	redisStore := redisstore.NewRedis(client, store.WithExpiration(expiration))

	c.Cache = cache.New[string](redisStore)
}

// Key identifies a request by its endpoint and encoded wire parameters
func Key(endpoint string, params efa.Params) string {
	return endpoint + params.Encode()
}

// Get decodes the cached value for key into target and reports whether there was one
func (c *Cache) Get(ctx context.Context, key string, target interface{}) bool {
	value, err := c.Cache.Get(ctx, key)
	if err != nil {
		return false
	}

	if err := json.Unmarshal([]byte(value), target); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Discarding unreadable cache entry")
		return false
	}

	return true
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.Cache.Set(ctx, key, string(valueJSON))
}
