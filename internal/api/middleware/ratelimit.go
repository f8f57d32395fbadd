package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hiredesk/hiredesk/internal/utils"
	"github.com/redis/go-redis/v9"
)

// Fixed-window counter per key. INCR and PEXPIRE must run atomically,
// hence the script.
const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(rateLimitScript),
	}
}

// Allow fails open: if redis is down or misconfigured the request goes
// through rather than locking everyone out of login.
func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	if l == nil || l.client == nil {
		return true
	}
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{key}, ttl, limit).Int64()
	if err != nil {
		return true
	}
	return allowed == 1
}

// RateLimit throttles a route group by client IP.
func RateLimit(limiter *RedisLimiter, name string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ratelimit:" + name + ":" + c.ClientIP()
		if !limiter.Allow(c.Request.Context(), key, limit, window) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apiError{
				Code:    utils.CodeTooManyRequests,
				Message: "too many requests, slow down",
			})
			return
		}
		c.Next()
	}
}
