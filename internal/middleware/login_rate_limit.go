package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/swiftcart/authgate/pkg/authapi"
)

// LoginRateLimit limits login attempts per email or client IP using Redis if
// available. The window is a fixed minute.
func LoginRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 5
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next() // no-op without Redis
		}
		var req struct {
			Email string `json:"email"`
		}
		_ = c.BodyParser(&req)
		key := strings.ToLower(strings.TrimSpace(req.Email))
		if key == "" {
			key = c.IP()
		}
		key = "rl:login:" + key
		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err != nil {
			return c.Next() // fail-open on cache errors
		}
		if cnt == 1 {
			cache.Expire(c.UserContext(), key, time.Minute)
		}
		if cnt > int64(maxPerMin) {
			return c.Status(http.StatusTooManyRequests).JSON(authapi.ErrorBody{Error: authapi.ErrorDetail{
				Code:    authapi.CodeRateLimited,
				Message: "too many login attempts, try again later",
			}})
		}
		return c.Next()
	}
}
