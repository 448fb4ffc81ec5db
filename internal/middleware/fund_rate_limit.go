package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FundRateLimit limits funding attempts per payer phone or IP using Redis if
// available. A funding call can hold a connection for the whole poll
// deadline, so unbounded attempts are an easy way to exhaust the server.
func FundRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 10
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next() // no-op without Redis
		}
		var req struct {
			Phone string `json:"phone"`
		}
		_ = c.BodyParser(&req)
		key := strings.TrimSpace(req.Phone)
		if key == "" {
			key = c.IP()
		}
		key = "rl:fund:" + key
		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err == nil && cnt == 1 {
			cache.Expire(c.UserContext(), key, time.Minute)
		}
		if err != nil {
			return c.Next() // fail-open on cache errors
		}
		if cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "too many funding attempts, try again later")
		}
		return c.Next()
	}
}
