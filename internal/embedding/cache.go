package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/jonathan/ats-scorer/internal/metrics"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache stores vectors by key. GetMany returns a nil entry for each miss.
type Cache interface {
	GetMany(ctx context.Context, keys []string) ([][]float64, error)
	SetMany(ctx context.Context, keys []string, vectors [][]float64) error
}

// MemoryCache is an in-process Cache bounded by entry count
type MemoryCache struct {
	mu         sync.RWMutex
	items      map[string][]float64
	maxEntries int
}

// NewMemoryCache creates a memory cache. maxEntries <= 0 means unbounded.
func NewMemoryCache(maxEntries int) *MemoryCache {
	return &MemoryCache{items: make(map[string][]float64), maxEntries: maxEntries}
}

// GetMany implements Cache
func (m *MemoryCache) GetMany(_ context.Context, keys []string) ([][]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([][]float64, len(keys))
	for i, k := range keys {
		if v, ok := m.items[k]; ok {
			out[i] = append([]float64(nil), v...)
		}
	}
	return out, nil
}

// SetMany implements Cache. New keys are dropped once the cache is full.
func (m *MemoryCache) SetMany(_ context.Context, keys []string, vectors [][]float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, k := range keys {
		if _, exists := m.items[k]; !exists && m.maxEntries > 0 && len(m.items) >= m.maxEntries {
			continue
		}
		m.items[k] = append([]float64(nil), vectors[i]...)
	}
	return nil
}

// Len returns the number of cached vectors
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// RedisCache stores vectors in Redis as little-endian float64 bytes
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCache connects to Redis using a redis:// URL
func NewRedisCache(url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	return NewRedisCacheFromClient(redis.NewClient(opts), ttl), nil
}

// NewRedisCacheFromClient wraps an existing client
func NewRedisCacheFromClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, prefix: "ats:emb:"}
}

// Ping tests the Redis connection
func (r *RedisCache) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// GetMany implements Cache
func (r *RedisCache) GetMany(ctx context.Context, keys []string) ([][]float64, error) {
	out := make([][]float64, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = r.prefix + k
	}

	values, err := r.client.MGet(ctx, prefixed...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget failed: %w", err)
	}

	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		vec, err := decodeVector([]byte(s))
		if err != nil {
			continue
		}
		out[i] = vec
	}
	return out, nil
}

// SetMany implements Cache
func (r *RedisCache) SetMany(ctx context.Context, keys []string, vectors [][]float64) error {
	if len(keys) == 0 {
		return nil
	}
	pipe := r.client.Pipeline()
	for i, k := range keys {
		pipe.Set(ctx, r.prefix+k, encodeVector(vectors[i]), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline failed: %w", err)
	}
	return nil
}

func encodeVector(v []float64) []byte {
	buf := make([]byte, 8*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(x))
	}
	return buf
}

func decodeVector(b []byte) ([]float64, error) {
	if len(b) == 0 || len(b)%8 != 0 {
		return nil, fmt.Errorf("invalid vector encoding of %d bytes", len(b))
	}
	v := make([]float64, len(b)/8)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return v, nil
}

// Cached serves previously embedded texts from a Cache and embeds only misses.
// Cache failures are logged and treated as misses.
type Cached struct {
	inner     Embedder
	cache     Cache
	namespace string
	logger    *zap.Logger
}

// NewCached wraps inner. namespace must identify the model so vectors from
// different models never share keys.
func NewCached(inner Embedder, cache Cache, namespace string, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{inner: inner, cache: cache, namespace: namespace, logger: logger}
}

// Embed implements Embedder
func (c *Cached) Embed(ctx context.Context, texts []string) (Result, error) {
	keys := make([]string, len(texts))
	for i, t := range texts {
		keys[i] = c.key(t)
	}

	vectors, err := c.cache.GetMany(ctx, keys)
	if err != nil || len(vectors) != len(keys) {
		c.logger.Warn("embedding cache read failed", zap.Error(err))
		vectors = make([][]float64, len(keys))
	}

	var missIdx []int
	var missTexts []string
	for i, v := range vectors {
		if v == nil {
			missIdx = append(missIdx, i)
			missTexts = append(missTexts, texts[i])
		}
	}
	metrics.EmbeddingCache.WithLabelValues("hit").Add(float64(len(texts) - len(missIdx)))
	metrics.EmbeddingCache.WithLabelValues("miss").Add(float64(len(missIdx)))

	if len(missIdx) == 0 {
		return Result{Vectors: vectors, Strategy: c.namespace}, nil
	}

	res, err := c.inner.Embed(ctx, missTexts)
	if err != nil {
		return Result{}, err
	}
	if len(res.Vectors) != len(missTexts) {
		return Result{}, fmt.Errorf("expected %d vectors, got %d", len(missTexts), len(res.Vectors))
	}

	missKeys := make([]string, len(missIdx))
	for j, i := range missIdx {
		vectors[i] = res.Vectors[j]
		missKeys[j] = keys[i]
	}
	if err := c.cache.SetMany(ctx, missKeys, res.Vectors); err != nil {
		c.logger.Warn("embedding cache write failed", zap.Error(err))
	}

	strategy := res.Strategy
	if strategy == "" {
		strategy = c.namespace
	}
	return Result{Vectors: vectors, Strategy: strategy}, nil
}

func (c *Cached) key(text string) string {
	sum := sha256.Sum256([]byte(c.namespace + "\x00" + text))
	return hex.EncodeToString(sum[:])
}
