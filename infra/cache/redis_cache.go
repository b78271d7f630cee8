package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/fxconvert/pkg/cache"
	"github.com/amirasaad/fxconvert/pkg/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache keeps rates in Redis so several server processes share one
// cache. Expiry is enforced with the key TTL. A sorted set ranks keys by
// last use, and Set drops the least recently used keys beyond size.
type RedisCache struct {
	client   *redis.Client
	prefix   string
	size     int
	indexKey string
	seqKey   string
	logger   *slog.Logger
}

// NewRedisCache connects to the Redis server at url (redis://host:port/db)
// and keeps at most size pairs under prefix.
func NewRedisCache(url, prefix string, size int, logger *slog.Logger) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewRedisCacheWithOptions(opt, prefix, size, logger), nil
}

// NewRedisCacheWithOptions creates a RedisCache from redis.Options.
func NewRedisCacheWithOptions(opt *redis.Options, prefix string, size int, logger *slog.Logger) *RedisCache {
	if size <= 0 {
		size = DefaultSize
	}
	return &RedisCache{
		client:   redis.NewClient(opt),
		prefix:   prefix,
		size:     size,
		indexKey: prefix + "_lru",
		seqKey:   prefix + "_seq",
		logger:   logger,
	}
}

func (r *RedisCache) key(key string) string {
	return r.prefix + key
}

// KEYS: entry, index, seq. ARGV: value, ttl in ms, size.
var setScript = redis.NewScript(`
if tonumber(ARGV[2]) > 0 then
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
else
	redis.call('SET', KEYS[1], ARGV[1])
end
redis.call('ZADD', KEYS[2], redis.call('INCR', KEYS[3]), KEYS[1])
local over = redis.call('ZCARD', KEYS[2]) - tonumber(ARGV[3])
if over <= 0 then
	return 0
end
local victims = redis.call('ZRANGE', KEYS[2], 0, over - 1)
redis.call('DEL', unpack(victims))
redis.call('ZREM', KEYS[2], unpack(victims))
return over
`)

// KEYS: entry, index, seq.
var getScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if not v then
	redis.call('ZREM', KEYS[2], KEYS[1])
	return false
end
redis.call('ZADD', KEYS[2], redis.call('INCR', KEYS[3]), KEYS[1])
return v
`)

// Ping checks the connection.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// Get retrieves a rate and marks it as recently used.
func (r *RedisCache) Get(ctx context.Context, key string) (*domain.ExchangeRate, error) {
	val, err := getScript.Run(ctx, r.client, r.scriptKeys(key)).Text()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis cache miss", "key", key)
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Redis cache get error", "key", key, "error", err)
		return nil, err
	}
	var rate domain.ExchangeRate
	if err := json.Unmarshal([]byte(val), &rate); err != nil {
		r.logger.Error("Redis cache unmarshal error", "key", key, "error", err)
		return nil, err
	}
	r.logger.Debug("Redis cache hit", "key", key, "rate", rate.Rate)
	return &rate, nil
}

// Set stores a rate for ttl and evicts the least recently used pairs past
// the size limit.
func (r *RedisCache) Set(
	ctx context.Context,
	key string,
	rate *domain.ExchangeRate,
	ttl time.Duration,
) error {
	data, err := json.Marshal(rate)
	if err != nil {
		return err
	}
	evicted, err := setScript.Run(ctx, r.client, r.scriptKeys(key), data, ttl.Milliseconds(), r.size).Int()
	if err != nil {
		r.logger.Error("Redis cache set error", "key", key, "error", err)
		return err
	}
	r.logger.Debug("Redis cache set", "key", key, "rate", rate.Rate, "ttl", ttl, "evicted", evicted)
	return nil
}

// Delete removes a rate.
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key(key))
		pipe.ZRem(ctx, r.indexKey, r.key(key))
		return nil
	})
	return err
}

func (r *RedisCache) scriptKeys(key string) []string {
	return []string{r.key(key), r.indexKey, r.seqKey}
}

// Len counts the rates stored under the cache prefix.
func (r *RedisCache) Len(ctx context.Context) (int, error) {
	var (
		cursor uint64
		count  int
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", 100).Result()
		if err != nil {
			return 0, err
		}
		for _, k := range keys {
			if k != r.indexKey && k != r.seqKey {
				count++
			}
		}
		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}

var _ cache.ExchangeRateCache = (*RedisCache)(nil)
