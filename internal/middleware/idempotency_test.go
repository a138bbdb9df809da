package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/swiftcart/authgate/internal/logging"
)

func setupIdempotencyApp(t *testing.T) (*fiber.App, *int) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	calls := 0
	app := fiber.New()
	app.Post("/checkout", CheckoutIdempotency(cache, time.Minute, logging.Discard()), func(c *fiber.Ctx) error {
		calls++
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"order_id": "o1"})
	})
	return app, &calls
}

func TestCheckoutIdempotencyRequiresHeader(t *testing.T) {
	app, _ := setupIdempotencyApp(t)

	req := httptest.NewRequest(fiber.MethodPost, "/checkout", strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected %d got %d", fiber.StatusBadRequest, resp.StatusCode)
	}
}

func TestCheckoutIdempotencyDoesNotCacheServerFailures(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	calls := 0
	app := fiber.New()
	app.Post("/checkout", CheckoutIdempotency(cache, time.Minute, logging.Discard()), func(c *fiber.Ctx) error {
		calls++
		if calls == 1 {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "catalog unavailable"})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"order_id": "o1"})
	})

	do := func() int {
		req := httptest.NewRequest(fiber.MethodPost, "/checkout", strings.NewReader("{}"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		req.Header.Set(idempotencyKeyHeader, "key-retry")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if status := do(); status != fiber.StatusInternalServerError {
		t.Fatalf("expected %d got %d", fiber.StatusInternalServerError, status)
	}
	if status := do(); status != fiber.StatusCreated {
		t.Fatalf("retry after failure should reach the handler, got %d", status)
	}
	if calls != 2 {
		t.Fatalf("handler should run twice, ran %d times", calls)
	}
}

func TestCheckoutIdempotencyReplaysResponse(t *testing.T) {
	app, calls := setupIdempotencyApp(t)

	do := func() (int, string) {
		req := httptest.NewRequest(fiber.MethodPost, "/checkout", strings.NewReader("{}"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		req.Header.Set(idempotencyKeyHeader, "key-1")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode, string(body)
	}

	status1, body1 := do()
	status2, body2 := do()

	if status1 != fiber.StatusCreated || status2 != fiber.StatusCreated {
		t.Fatalf("expected created twice, got %d / %d", status1, status2)
	}
	if body1 != body2 {
		t.Fatalf("expected replayed body %q, got %q", body1, body2)
	}
	if *calls != 1 {
		t.Fatalf("handler should run once, ran %d times", *calls)
	}
}
