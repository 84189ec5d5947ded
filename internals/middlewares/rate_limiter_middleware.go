package middlewares

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"
)

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

// RedisLimiter is a fixed-window counter shared by every instance.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{client: client, script: redis.NewScript(rateLimitScript)}
}

// Allow fails open when redis is slow or down.
func (l *RedisLimiter) Allow(key string, limit int, window time.Duration) bool {
	if l == nil || l.client == nil || key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{key}, ttl, limit).Int64()
	if err != nil {
		return true
	}
	return allowed == 1
}

// shared is set by UseRedisLimiter at startup; nil means per-process limits.
var shared *RedisLimiter

func UseRedisLimiter(l *RedisLimiter) { shared = l }

func tooMany(message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"success":    false,
			"message":    message,
			"error_code": "TOO_MANY_REQUESTS",
			"retryable":  true,
		})
	}
}

func newLimiter(name string, max int, window time.Duration, message string) fiber.Handler {
	if shared != nil {
		reached := tooMany(message)
		return func(c *fiber.Ctx) error {
			if !shared.Allow("rl:"+name+":"+c.IP(), max, window) {
				return reached(c)
			}
			return c.Next()
		}
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: tooMany(message),
	})
}

// Global limiter: every regular endpoint
func GlobalRateLimiter() fiber.Handler {
	return newLimiter("global", 100, time.Minute, "Too many requests, try again later.")
}

func LoginRateLimiter() fiber.Handler {
	return newLimiter("login", 5, time.Minute, "Too many sign-in attempts, try again shortly.")
}

func RegisterRateLimiter() fiber.Handler {
	return newLimiter("register", 3, 5*time.Minute, "Too many sign-up attempts, wait a few minutes.")
}
