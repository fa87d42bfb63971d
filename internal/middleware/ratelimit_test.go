package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newRateLimitedHandler(t *testing.T, limit int) (http.Handler, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	config := RateLimitConfig{
		RequestsPerWindow: limit,
		Window:            time.Second,
		KeyPrefix:         "test_rate_limit",
	}

	handler := RateLimitMiddleware(redisClient, config, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	return handler, func() {
		redisClient.Close()
		mr.Close()
	}
}

func TestProperty_RateLimitingBlocksExcessiveRequests(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("requests beyond the window limit are blocked with 429", prop.ForAll(
		func(requestsPerWindow int, excessRequests int) bool {
			handler, cleanup := newRateLimitedHandler(t, requestsPerWindow)
			defer cleanup()

			successCount := 0
			blockedCount := 0

			for i := 0; i < requestsPerWindow+excessRequests; i++ {
				req := httptest.NewRequest(http.MethodGet, "/products", nil)
				// Same client, new source port each time
				req.RemoteAddr = fmt.Sprintf("192.168.1.100:%d", 40000+i)
				w := httptest.NewRecorder()

				handler.ServeHTTP(w, req)

				switch w.Code {
				case http.StatusOK:
					successCount++
				case http.StatusTooManyRequests:
					blockedCount++
				}
			}

			return successCount == requestsPerWindow && blockedCount == excessRequests
		},
		gen.IntRange(5, 20),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_RateLimitHeadersAreSet(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("rate limit headers are present in responses", prop.ForAll(
		func(requestsPerWindow int) bool {
			handler, cleanup := newRateLimitedHandler(t, requestsPerWindow)
			defer cleanup()

			req := httptest.NewRequest(http.MethodGet, "/products", nil)
			req.RemoteAddr = "192.168.1.101:5555"
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			return w.Header().Get("X-RateLimit-Limit") == fmt.Sprint(requestsPerWindow) &&
				w.Header().Get("X-RateLimit-Remaining") == fmt.Sprint(requestsPerWindow-1)
		},
		gen.IntRange(5, 50),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRateLimit_ClientsAreCountedSeparately(t *testing.T) {
	handler, cleanup := newRateLimitedHandler(t, 1)
	defer cleanup()

	for _, addr := range []string{"10.0.0.1:1000", "10.0.0.2:1000"} {
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("client %s: expected 200, got %d", addr, w.Code)
		}
	}
}

func TestRateLimit_RedisUnavailableAllowsRequest(t *testing.T) {
	redisClient := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer redisClient.Close()

	handler := RateLimitMiddleware(redisClient, RateLimitConfig{RequestsPerWindow: 1, Window: time.Second, KeyPrefix: "down"}, zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected request to pass through, got %d", w.Code)
	}
}

func TestRateLimitMiddleware_CounterWithoutExpiryRecovers(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	window := time.Minute
	handler := RateLimitMiddleware(redisClient, RateLimitConfig{
		RequestsPerWindow: 5,
		Window:            window,
		KeyPrefix:         "test_rate_limit",
	}, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// A counter left behind without a TTL, e.g. after a failed EXPIRE
	key := "test_rate_limit:192.168.1.100"
	if err := mr.Set(key, "100"); err != nil {
		t.Fatalf("Failed to seed counter: %v", err)
	}

	serve := func() int {
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		req.RemoteAddr = "192.168.1.100:40000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	if code := serve(); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 while over the limit, got %d", code)
	}
	if ttl := mr.TTL(key); ttl <= 0 || ttl > window {
		t.Fatalf("expected the counter to get a window expiry, got %v", ttl)
	}

	mr.FastForward(window)

	if code := serve(); code != http.StatusOK {
		t.Errorf("expected the client to be allowed after the window, got %d", code)
	}
}
