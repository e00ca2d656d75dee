package bycomputer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streadway/amqp"

	"github.com/0xchsh/by-computer/internal/cache"
	"github.com/0xchsh/by-computer/internal/config"
	"github.com/0xchsh/by-computer/internal/dispatcher"
	grpchealth "github.com/0xchsh/by-computer/internal/grpc/health"
	"github.com/0xchsh/by-computer/internal/http/gate"
	"github.com/0xchsh/by-computer/internal/http/middlewarectx"
	"github.com/0xchsh/by-computer/internal/identity"
	"github.com/0xchsh/by-computer/internal/lib/clock"
	"github.com/0xchsh/by-computer/internal/lib/jwt"
	"github.com/0xchsh/by-computer/internal/lib/rabbitmq"
	"github.com/0xchsh/by-computer/internal/lib/sl"
	"github.com/0xchsh/by-computer/internal/metrics"
	"github.com/0xchsh/by-computer/internal/migrations"
	"github.com/0xchsh/by-computer/internal/services/catalog"
	"github.com/0xchsh/by-computer/internal/services/execution"
	"github.com/0xchsh/by-computer/internal/storage"
)

const (
	shutdownTimeout     = 15 * time.Second
	healthCheckInterval = 10 * time.Second
)

type App struct {
	server *http.Server
	health *grpchealth.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
	amqp   *amqp.Connection
	events *rabbitmq.Publisher
	limits *middlewarectx.RateLimiter
}

// New поднимает зависимости и собирает HTTP-сервер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, err error) {
	const op = "bycomputer.New"
	a := &App{logger: logger}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	a.db, err = storage.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(a.db.DB, cfg.MigrationsPath); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a.cache, err = cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var events execution.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		a.amqp, err = rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.Retries, cfg.RetryDelay)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		var ch *amqp.Channel
		ch, err = rabbitmq.SetupChannel(a.amqp, cfg.Exchange, rabbitmq.GetOutputQueues())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.events = rabbitmq.NewPublisher(ch, cfg.Exchange)
		events = a.events
	} else {
		logger.Warn("rabbitmq url is not set, output events are disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	resolver := identity.NewResolver(
		jwt.NewMaker(cfg.JWTSecretKey, 0),
		identity.NewProviderClient(cfg.Identity.URL, cfg.AnonKey, cfg.RefreshTimeout),
		identity.CookieConfig{
			AccessName:  cfg.AccessCookie,
			RefreshName: cfg.RefreshCookie,
			RefreshTTL:  cfg.RefreshCookieTTL,
			Secure:      cfg.SecureCookies,
		},
		logger,
	)

	catalogService := catalog.New(a.db, a.cache, cfg.AgentTTL, logger)
	orchestrator := execution.New(
		execution.Config{DispatchTimeout: cfg.Dispatch.Timeout, StoreTimeout: cfg.StoreTimeout},
		dispatcher.NewClient(nil),
		a.db,
		events,
		m,
		logger,
	)

	a.health, err = grpchealth.New(cfg.GRPCHealthAddress, a.db, healthCheckInterval, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a.limits = middlewarectx.NewRateLimiter(cfg.RPS, cfg.Burst)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Deps{
		Gate:     gate.New(resolver, m, logger),
		Catalog:  catalogService,
		Executor: orchestrator,
		Storage:  a.db,
		Limiter:  a.limits,
		Metrics:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Clock:    clock.System{},
	})

	a.server = &http.Server{
		Addr:              cfg.AddressHTTP,
		Handler:           router,
		ReadHeaderTimeout: cfg.TimeoutHTTP,
		ReadTimeout:       cfg.TimeoutHTTP,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
	return a, nil
}

// Run обслуживает HTTP и gRPC health до отмены ctx, затем останавливается.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	bgCtx, stopBackground := context.WithCancel(ctx)
	defer stopBackground()
	go func() {
		if err := a.health.Run(bgCtx); err != nil {
			errCh <- err
		}
	}()

	go a.limits.Run(bgCtx, a.limits.IdleTTL())

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
	}

	stopBackground()
	timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.logger.Info("shutting down HTTP server gracefully")
	if err := a.server.Shutdown(timeoutCtx); err != nil {
		runErr = errors.Join(runErr, err)
	}
	a.close()
	return runErr
}

func (a *App) close() {
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq channel", sl.Err(err))
		}
	}
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close redis connection", sl.Err(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close storage", sl.Err(err))
		}
	}
}
