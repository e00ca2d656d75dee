package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/0xchsh/by-computer/internal/http/response"
)

// RateLimiter ограничивает частоту запросов для каждого аккаунта отдельно.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter создаёт ограничитель с rps запросов в секунду и всплеском burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

// Allow сообщает, можно ли выполнить ещё один запрос для ключа.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	e, ok := l.limiters[key]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = time.Now()
	l.mu.Unlock()
	return e.lim.Allow()
}

// IdleTTL время простоя, после которого лимитер аккаунта снова полон
// и его можно удалить без потери состояния.
func (l *RateLimiter) IdleTTL() time.Duration {
	if l.limit <= 0 || l.limit == rate.Inf || l.burst <= 0 {
		return time.Minute
	}
	return time.Duration(float64(l.burst) / float64(l.limit) * float64(time.Second))
}

// Len возвращает число аккаунтов с активным лимитером.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Prune удаляет лимитеры, к которым не обращались с момента before.
// Возвращает число удалённых записей.
func (l *RateLimiter) Prune(before time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for key, e := range l.limiters {
		if e.lastSeen.Before(before) {
			delete(l.limiters, key)
			n++
		}
	}
	return n
}

// Run периодически удаляет простаивающие лимитеры, пока ctx не отменён.
func (l *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.Prune(now.Add(-l.IdleTTL()))
		}
	}
}

// RateLimitMiddleware отвечает 429, если аккаунт превысил лимит запусков.
// Запросы без сессии делят общий ключ.
func RateLimitMiddleware(log *slog.Logger, limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "anonymous"
			if s := SessionFrom(r.Context()); s != nil {
				key = s.AccountID
			}
			if !limiter.Allow(key) {
				log.Warn("too many requests", slog.String("key", key))
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
