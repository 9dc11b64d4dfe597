package ratelimit

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests move time forward without sleeping
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestLimiter(t *testing.T, cfg *Config) (*Limiter, *fakeClock) {
	t.Helper()
	cfg.CleanupInterval = 0
	l := NewLimiter(cfg)
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l.now = clock.Now
	t.Cleanup(l.Stop)
	return l, clock
}

func TestLimiter_Allow(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		allowed, info := l.Allow("127.0.0.1", "/test", http.MethodGet)
		require.True(t, allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := l.Allow("127.0.0.1", "/test", http.MethodGet)
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	// one token every 6s
	assert.Equal(t, 6*time.Second, info.RetryAfter)
	assert.True(t, info.ResetTime.After(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestLimiter_Refill(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		l.Allow("client", "/test", http.MethodGet)
	}
	allowed, _ := l.Allow("client", "/test", http.MethodGet)
	require.False(t, allowed)

	clock.Advance(6 * time.Second)
	allowed, _ = l.Allow("client", "/test", http.MethodGet)
	assert.True(t, allowed)

	allowed, _ = l.Allow("client", "/test", http.MethodGet)
	assert.False(t, allowed)
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	allowed, _ := l.Allow("a", "/test", http.MethodGet)
	assert.True(t, allowed)
	allowed, _ = l.Allow("a", "/test", http.MethodGet)
	assert.False(t, allowed)
	allowed, _ = l.Allow("b", "/test", http.MethodGet)
	assert.True(t, allowed)
}

func TestLimiter_DefaultBucketIsShared(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 2, DefaultWindow: time.Minute})

	allowed, _ := l.Allow("client", "/v1/analyses", http.MethodGet)
	assert.True(t, allowed)
	allowed, _ = l.Allow("client", "/v1/analyses/abc", http.MethodGet)
	assert.True(t, allowed)
	allowed, _ = l.Allow("client", "/other", http.MethodGet)
	assert.False(t, allowed)
}

func TestLimiter_Whitelist(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     ParseIPList("10.0.0.1"),
	})

	for i := 0; i < 5; i++ {
		allowed, info := l.Allow("10.0.0.1", "/test", http.MethodGet)
		assert.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Blacklist:     ParseIPList("10.0.0.2"),
	})

	allowed, _ := l.Allow("10.0.0.2", "/test", http.MethodGet)
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: false, DefaultLimit: 1, DefaultWindow: time.Minute})

	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("client", "/test", http.MethodGet)
		assert.True(t, allowed)
	}
	assert.Equal(t, 0, l.size())
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:         true,
		DefaultLimit:    100,
		DefaultWindow:   time.Minute,
		EndpointConfigs: ScoringEndpoints(2, time.Minute, 2),
	})

	for i := 0; i < 2; i++ {
		allowed, info := l.Allow("client", "/v1/analyze", http.MethodPost)
		require.True(t, allowed)
		assert.Equal(t, 2, info.Limit)
	}
	allowed, info := l.Allow("client", "/v1/analyze", http.MethodPost)
	assert.False(t, allowed)
	assert.Equal(t, 30*time.Second, info.RetryAfter)

	// the upload endpoint has its own bucket
	allowed, _ = l.Allow("client", "/v1/analyze/upload", http.MethodPost)
	assert.True(t, allowed)

	// reads fall back to the default limit
	allowed, info = l.Allow("client", "/v1/analyses", http.MethodGet)
	assert.True(t, allowed)
	assert.Equal(t, 100, info.Limit)
}

func TestLimiter_UnlimitedPaths(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("client", "/health", http.MethodGet)
		assert.True(t, allowed)
		allowed, _ = l.Allow("client", "/metrics", http.MethodGet)
		assert.True(t, allowed)
	}
}

func TestLimiter_Burst(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/burst", Method: http.MethodPost, Limit: 60, Window: time.Minute, Burst: 3},
		},
	})

	for i := 0; i < 3; i++ {
		allowed, _ := l.Allow("client", "/burst", http.MethodPost)
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("client", "/burst", http.MethodPost)
	assert.False(t, allowed)
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})

	var allowedCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("client", "/test", http.MethodGet); ok {
				allowedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(50), allowedCount.Load())
}

func TestLimiter_Cleanup(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		IdleTimeout:   10 * time.Minute,
	})

	for i := 0; i < 3; i++ {
		l.Allow(fmt.Sprintf("client-%d", i), "/test", http.MethodGet)
	}
	require.Equal(t, 3, l.size())

	clock.Advance(5 * time.Minute)
	l.Allow("client-0", "/test", http.MethodGet)
	clock.Advance(6 * time.Minute)

	l.cleanupBuckets()
	assert.Equal(t, 1, l.size())
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, CleanupInterval: time.Millisecond})
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestNewLimiter_NilConfig(t *testing.T) {
	l := NewLimiter(nil)
	defer l.Stop()

	allowed, info := l.Allow("client", "/v1/analyze", http.MethodPost)
	assert.True(t, allowed)
	assert.Equal(t, 60, info.Limit)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/v1/analyze", Method: http.MethodPost, Limit: 1},
		{Path: "/v1/analyses/", Method: http.MethodGet, Limit: 2},
	}

	tests := []struct {
		name      string
		path      string
		method    string
		wantLimit int
		wantNil   bool
	}{
		{"exact", "/v1/analyze", http.MethodPost, 1, false},
		{"method mismatch", "/v1/analyze", http.MethodGet, 0, true},
		{"prefix", "/v1/analyses/123", http.MethodGet, 2, false},
		{"health unlimited", "/health", http.MethodGet, 0, false},
		{"metrics unlimited", "/metrics", http.MethodGet, 0, false},
		{"no match", "/unknown", http.MethodGet, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestParseIPList(t *testing.T) {
	assert.Empty(t, ParseIPList(""))
	assert.Equal(t, map[string]bool{"1.1.1.1": true, "2.2.2.2": true}, ParseIPList(" 1.1.1.1, ,2.2.2.2 "))
}
