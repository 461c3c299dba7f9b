package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/youssef9656/server/pkg/errx"
)

// Limiter decides whether one more hit on key fits in the window
type Limiter interface {
	Allow(key string, limit int, window time.Duration) bool
}

var ErrRegistry = errx.NewRegistry("RATE_LIMIT")

var CodeTooManyRequests = ErrRegistry.Register("TOO_MANY_REQUESTS", errx.TypeBusiness, http.StatusTooManyRequests, "Too many requests, please retry later")

func ErrTooManyRequests() *errx.Error {
	return ErrRegistry.New(CodeTooManyRequests)
}

// Middleware limits requests per client IP for one route family
func Middleware(l Limiter, scope string, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if l == nil {
			return c.Next()
		}
		key := "rl:" + scope + ":" + c.IP()
		if !l.Allow(key, limit, window) {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(window.Seconds())))
			return ErrTooManyRequests().WithDetail("scope", scope)
		}
		return c.Next()
	}
}
