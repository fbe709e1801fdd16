package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go-clubmatch-backend/internal/delivery/http/response"
	"go-clubmatch-backend/pkg/logger"
	"go-clubmatch-backend/pkg/redis"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig describes one fixed-window limit. Counters live in redis;
// when redis is down the limiter degrades to a per-process in-memory window
// unless FailClosed is set.
type RateLimitConfig struct {
	Limit      int
	Window     time.Duration
	KeyPrefix  string
	FailClosed bool
	KeyFunc    func(*gin.Context) string
}

func clientIPKey(c *gin.Context) string { return c.ClientIP() }

// AuthRateLimitConfig covers registration endpoints. Fails closed: letting
// unmetered signups through during a redis outage is worse than a 503.
func AuthRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{Limit: 10, Window: time.Minute, KeyPrefix: "rl:auth:", FailClosed: true, KeyFunc: clientIPKey}
}

// LoginRateLimitConfig is the tightest limit; it bounds credential guessing.
func LoginRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{Limit: 5, Window: time.Minute, KeyPrefix: "rl:login:", FailClosed: true, KeyFunc: clientIPKey}
}

// UploadRateLimitConfig covers the club logo upload.
func UploadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{Limit: 10, Window: time.Minute, KeyPrefix: "rl:upload:", FailClosed: false, KeyFunc: clientIPKey}
}

// WebhookRateLimitConfig bounds inbound gateway deliveries. Generous: the
// gateway retries with backoff and bursts on redelivery after an outage.
func WebhookRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{Limit: 300, Window: time.Minute, KeyPrefix: "rl:webhook:", FailClosed: false, KeyFunc: clientIPKey}
}

// GlobalRateLimitMiddleware applies the catch-all per-IP limit to every route.
func GlobalRateLimitMiddleware() gin.HandlerFunc {
	return RateLimitMiddleware(RateLimitConfig{
		Limit: 100, Window: time.Minute, KeyPrefix: "rl:ip:", FailClosed: false, KeyFunc: clientIPKey,
	})
}

// INCR the counter, arm the window TTL on first hit, report both.
// KEYS[1] counter key, ARGV[1] window seconds. Returns {count, ttl}.
const counterScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return {count, redis.call('TTL', KEYS[1])}
`

// RateLimitMiddleware enforces cfg on the routes it is attached to.
func RateLimitMiddleware(cfg RateLimitConfig) gin.HandlerFunc {
	fallback := newMemoryWindow(cfg.Window)

	return func(c *gin.Context) {
		key := cfg.KeyPrefix + cfg.KeyFunc(c)

		count, resetAt, err := hitRedis(c.Request.Context(), key, cfg)
		if err != nil {
			if cfg.FailClosed {
				logger.Log.Error("Rate limit store unavailable", "error", err, "ip", c.ClientIP())
				response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
				c.Abort()
				return
			}
			count, resetAt = fallback.hit(key)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > cfg.Limit {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			reqID, _ := c.Get("RequestID")
			logger.Log.Warn("Rate limit exceeded",
				"ip", c.ClientIP(),
				"path", c.FullPath(),
				"request_id", reqID,
			)
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(cfg.Limit-count))
		c.Next()
	}
}

func hitRedis(ctx context.Context, key string, cfg RateLimitConfig) (int, time.Time, error) {
	client := redis.Client()
	if client == nil {
		return 0, time.Time{}, goredis.ErrClosed
	}

	res, err := client.Eval(ctx, counterScript, []string{key}, int(cfg.Window.Seconds())).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("rate limit eval: %w", err)
	}
	arr, ok := res.([]interface{})
	if !ok || len(arr) != 2 {
		return 0, time.Time{}, fmt.Errorf("rate limit eval: unexpected reply %T", res)
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)
	return int(count), time.Now().Add(time.Duration(ttl) * time.Second), nil
}

// memoryWindow is the degraded single-process fallback. Counters are pruned
// lazily on access; there is no background sweeper to leak.
type memoryWindow struct {
	window time.Duration

	mu      sync.Mutex
	counts  map[string]int
	resets  map[string]time.Time
	pruneAt time.Time
}

func newMemoryWindow(window time.Duration) *memoryWindow {
	return &memoryWindow{
		window:  window,
		counts:  make(map[string]int),
		resets:  make(map[string]time.Time),
		pruneAt: time.Now().Add(window),
	}
}

func (w *memoryWindow) hit(key string) (int, time.Time) {
	now := time.Now()

	w.mu.Lock()
	defer w.mu.Unlock()

	if now.After(w.pruneAt) {
		for k, reset := range w.resets {
			if now.After(reset) {
				delete(w.resets, k)
				delete(w.counts, k)
			}
		}
		w.pruneAt = now.Add(w.window)
	}

	reset, ok := w.resets[key]
	if !ok || now.After(reset) {
		reset = now.Add(w.window)
		w.resets[key] = reset
		w.counts[key] = 0
	}
	w.counts[key]++
	return w.counts[key], reset
}
