// Package bycomputer собирает HTTP-приложение каталога агентов.
package bycomputer

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/0xchsh/by-computer/docs"
	"github.com/0xchsh/by-computer/internal/http/gate"
	agentslist "github.com/0xchsh/by-computer/internal/http/handlers/agents/list"
	"github.com/0xchsh/by-computer/internal/http/handlers/agents/run"
	"github.com/0xchsh/by-computer/internal/http/handlers/agents/view"
	"github.com/0xchsh/by-computer/internal/http/handlers/health"
	outputslist "github.com/0xchsh/by-computer/internal/http/handlers/outputs/list"
	"github.com/0xchsh/by-computer/internal/http/handlers/outputs/read"
	"github.com/0xchsh/by-computer/internal/http/handlers/settings"
	"github.com/0xchsh/by-computer/internal/http/middlewarectx"
	"github.com/0xchsh/by-computer/internal/lib/clock"
	"github.com/0xchsh/by-computer/internal/services/catalog"
)

// Deps зависимости обработчиков.
type Deps struct {
	Gate     *gate.Gate
	Catalog  *catalog.Service
	Executor run.Executor
	Storage  health.Pinger
	Limiter  *middlewarectx.RateLimiter
	Metrics  http.Handler
	Clock    clock.Clock
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, d Deps) {
	// Глобальные middleware, gate идёт до любой логики страниц
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		d.Gate.Middleware,
	)

	r.Get("/healthz", health.New(logger, d.Storage).ServeHTTP)
	r.Handle("/metrics", d.Metrics)
	r.Get("/docs/*", httpSwagger.WrapHandler)

	// Защищённые страницы: сессию уже проверил gate, здесь загружается аккаунт
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.AccountMiddleware(logger, d.Catalog))

		r.Get("/dashboard", agentslist.New(logger, d.Catalog, d.Clock).ServeHTTP)
		r.Get("/agents/{slug}", view.New(logger, d.Catalog, d.Clock).ServeHTTP)
		r.With(middlewarectx.RateLimitMiddleware(logger, d.Limiter)).
			Post("/agents/{slug}/run", run.New(logger, d.Catalog, d.Executor, d.Clock).ServeHTTP)
		r.Get("/history", outputslist.New(logger, d.Catalog).ServeHTTP)
		r.Get("/outputs/{id}", read.New(logger, d.Catalog).ServeHTTP)
		r.Get("/settings", settings.New(logger, d.Clock).ServeHTTP)
	})
}
