package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/youssef9656/server/pkg/errx"
)

func TestMemoryLimiterWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter()
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !l.Allow("k", 3, time.Minute) {
			t.Fatalf("hit %d should be allowed", i+1)
		}
	}
	if l.Allow("k", 3, time.Minute) {
		t.Errorf("fourth hit should be limited")
	}
	if !l.Allow("other", 3, time.Minute) {
		t.Errorf("keys must be independent")
	}

	now = now.Add(time.Minute)
	if !l.Allow("k", 3, time.Minute) {
		t.Errorf("new window should allow again")
	}
}

func TestNilRedisLimiterFailsOpen(t *testing.T) {
	var l *RedisLimiter
	if !l.Allow("k", 1, time.Second) {
		t.Errorf("nil limiter must allow")
	}
	if NewRedisLimiter(nil) != nil {
		t.Errorf("nil client should give a nil limiter")
	}
}

func TestMiddleware(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := errx.AsError(err); ok {
				return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	app.Post("/contact", Middleware(NewMemoryLimiter(), "contact", 1, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/contact", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("want 201, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("POST", "/contact", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Errorf("want 429, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") != "60" {
		t.Errorf("want Retry-After 60, got %q", resp.Header.Get("Retry-After"))
	}
}
