package ratelimit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexscreen/pkg/requestcontext"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemorySlidingWindow(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 2, 15, 0, 0, 0, time.UTC)}
	store := NewMemory()
	store.now = clock.Now
	ctx := context.Background()

	for i := range 3 {
		r, err := store.Allow(ctx, "start:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, r.Allowed)
		assert.Equal(t, 2-i, r.Remaining)
		clock.Advance(10 * time.Second)
	}

	r, err := store.Allow(ctx, "start:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, r.Allowed)
	assert.Equal(t, 30*time.Second, r.RetryAfter)

	other, err := store.Allow(ctx, "start:5.6.7.8", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, other.Allowed, "keys are independent")

	clock.Advance(31 * time.Second)
	r, err = store.Allow(ctx, "start:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, r.Allowed, "oldest request left the window")
}

func TestMemorySweep(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 2, 15, 0, 0, 0, time.UTC)}
	store := NewMemory()
	store.now = clock.Now
	_, _ = store.Allow(context.Background(), "a", 5, time.Minute)
	clock.Advance(30 * time.Second)
	_, _ = store.Allow(context.Background(), "b", 5, time.Minute)
	clock.Advance(40 * time.Second)

	assert.Equal(t, 1, store.Sweep(time.Minute))
	assert.Len(t, store.windows, 1)
}

type storeFunc func(ctx context.Context, key string, limit int, window time.Duration) (Result, error)

func (f storeFunc) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	return f(ctx, key, limit, window)
}

func TestMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	request := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/screenings", nil)
		return req.WithContext(requestcontext.WithClientMetadata(req.Context(), "203.0.113.7", "", ""))
	}

	t.Run("refuses over the limit", func(t *testing.T) {
		h := NewMiddleware(NewMemory(), 1, time.Minute, logger).Limit("public")(ok)

		first := httptest.NewRecorder()
		h.ServeHTTP(first, request())
		assert.Equal(t, http.StatusNoContent, first.Code)
		assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

		second := httptest.NewRecorder()
		h.ServeHTTP(second, request())
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.NotEmpty(t, second.Header().Get("Retry-After"))
		assert.Contains(t, second.Body.String(), "rate_limit_exceeded")
	})

	t.Run("keys by class and ip", func(t *testing.T) {
		var key string
		store := storeFunc(func(_ context.Context, k string, limit int, _ time.Duration) (Result, error) {
			key = k
			return Result{Allowed: true, Limit: limit}, nil
		})
		NewMiddleware(store, 5, time.Minute, logger).Limit("public")(ok).ServeHTTP(httptest.NewRecorder(), request())
		assert.Equal(t, "public:203.0.113.7", key)
	})

	t.Run("fails open", func(t *testing.T) {
		store := storeFunc(func(context.Context, string, int, time.Duration) (Result, error) {
			return Result{}, errors.New("redis down")
		})
		rec := httptest.NewRecorder()
		NewMiddleware(store, 1, time.Minute, logger).Limit("public")(ok).ServeHTTP(rec, request())
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("disabled", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewMiddleware(nil, 0, time.Minute, logger).Limit("public")(ok).ServeHTTP(rec, request())
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
