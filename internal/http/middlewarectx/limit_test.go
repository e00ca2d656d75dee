package middlewarectx_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xchsh/by-computer/internal/http/middlewarectx"
	"github.com/0xchsh/by-computer/internal/models"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := middlewarectx.NewRateLimiter(0.001, 2)
	handler := middlewarectx.RateLimitMiddleware(newNoopLogger(), limiter)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }))

	do := func(accountID string) int {
		req := httptest.NewRequest(http.MethodPost, "/agents/logo/run", nil)
		if accountID != "" {
			req = req.WithContext(middlewarectx.WithSession(req.Context(), &models.Session{AccountID: accountID}))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("acc-1"))
	assert.Equal(t, http.StatusOK, do("acc-1"))
	assert.Equal(t, http.StatusTooManyRequests, do("acc-1"))

	// другой аккаунт не затронут
	assert.Equal(t, http.StatusOK, do("acc-2"))
	assert.Equal(t, http.StatusOK, do(""))
}

func TestRateLimiter_Prune(t *testing.T) {
	limiter := middlewarectx.NewRateLimiter(0.001, 1)

	assert.True(t, limiter.Allow("acc-1"))
	assert.False(t, limiter.Allow("acc-1"))
	assert.True(t, limiter.Allow("acc-2"))

	assert.Equal(t, 0, limiter.Prune(time.Now().Add(-time.Hour)))
	assert.False(t, limiter.Allow("acc-1"))

	assert.Equal(t, 2, limiter.Len())
	assert.Equal(t, 2, limiter.Prune(time.Now().Add(time.Second)))
	assert.Equal(t, 0, limiter.Len())
	assert.Equal(t, 0, limiter.Prune(time.Now().Add(time.Second)))
	// после удаления аккаунт получает новый, полный лимитер
	assert.True(t, limiter.Allow("acc-1"))
}

func TestRateLimiter_IdleTTL(t *testing.T) {
	assert.Equal(t, 6*time.Second, middlewarectx.NewRateLimiter(0.5, 3).IdleTTL())
	assert.Equal(t, time.Minute, middlewarectx.NewRateLimiter(0, 3).IdleTTL())
	assert.Equal(t, time.Minute, middlewarectx.NewRateLimiter(1, 0).IdleTTL())
}

func TestRateLimiter_RunEvictsIdle(t *testing.T) {
	limiter := middlewarectx.NewRateLimiter(1000, 1)
	limiter.Allow("acc-1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		limiter.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Equal(t, 1, limiter.Len())
	assert.Eventually(t, func() bool {
		return limiter.Len() == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("limiter sweep did not stop")
	}
}

func TestSessionFrom(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, middlewarectx.SessionFrom(req.Context()))

	s := &models.Session{AccountID: "acc-1"}
	ctx := middlewarectx.WithSession(req.Context(), s)
	assert.Same(t, s, middlewarectx.SessionFrom(ctx))
}
