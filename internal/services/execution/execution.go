// Package execution запускает агента: отправляет запрос во внешний endpoint,
// проверяет ответ и сохраняет ровно одну запись Output.
//
// Вызов endpoint выполняется один раз без повторов: внешняя задача может быть
// неидемпотентной. Если запись не сохранилась после успешного вызова,
// возвращается ErrPersistenceFailed, отдельно от ошибок отправки.
package execution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/0xchsh/by-computer/internal/lib/sl"
	"github.com/0xchsh/by-computer/internal/metrics"
	"github.com/0xchsh/by-computer/internal/models"
)

const (
	// RoutingKeyCreated событие о новой записи Output.
	RoutingKeyCreated = "output.created"
	// RoutingKeyOrphaned артефакт создан, но запись не сохранилась.
	RoutingKeyOrphaned = "output.orphaned"
)

// Payload тело запроса к endpoint агента.
type Payload struct {
	Input     string `json:"input"`
	Style     string `json:"style"`
	Text      string `json:"text"`
	AgentSlug string `json:"agent_slug"`
	UserID    string `json:"user_id"`
}

// Response ответ endpoint агента. FileURL пуст, если поле отсутствует.
type Response struct {
	StatusCode int
	FileURL    string
}

// Dispatcher отправляет задачу во внешний endpoint. Ошибка возвращается только
// при сбое транспорта; HTTP-статус проверяет Orchestrator.
type Dispatcher interface {
	Dispatch(ctx context.Context, endpoint string, payload Payload) (*Response, error)
}

// OutputStore сохраняет запись Output и возвращает её с присвоенным идентификатором.
type OutputStore interface {
	CreateOutput(ctx context.Context, output models.Output) (*models.Output, error)
}

// EventPublisher публикует события о результатах запусков.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// OutputCreated публикуется после сохранения записи.
type OutputCreated struct {
	OutputID  string    `json:"output_id"`
	AccountID string    `json:"user_id"`
	AgentSlug string    `json:"agent_slug"`
	FileURL   string    `json:"file_url"`
	CreatedAt time.Time `json:"created_at"`
}

// OutputOrphaned публикуется, когда артефакт создан, а запись нет.
type OutputOrphaned struct {
	AccountID string                  `json:"user_id"`
	AgentSlug string                  `json:"agent_slug"`
	FileURL   string                  `json:"file_url"`
	Input     models.ExecutionRequest `json:"input_json"`
	Reason    string                  `json:"reason"`
}

// Orchestrator выполняет запуск агентов.
type Orchestrator struct {
	dispatcher      Dispatcher
	store           OutputStore
	events          EventPublisher
	metrics         *metrics.Metrics
	log             *slog.Logger
	tracer          trace.Tracer
	dispatchTimeout time.Duration
	storeTimeout    time.Duration
}

// Config задаёт ограничения по времени для двух шагов запуска.
type Config struct {
	DispatchTimeout time.Duration
	StoreTimeout    time.Duration
}

// New создаёт Orchestrator. events и m могут быть nil.
func New(cfg Config, dispatcher Dispatcher, store OutputStore, events EventPublisher, m *metrics.Metrics, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		dispatcher:      dispatcher,
		store:           store,
		events:          events,
		metrics:         m,
		log:             log,
		tracer:          otel.Tracer("github.com/0xchsh/by-computer/internal/services/execution"),
		dispatchTimeout: cfg.DispatchTimeout,
		storeTimeout:    cfg.StoreTimeout,
	}
}

// Execute запускает агента с полями req от имени accountID.
//
// Шаги строго последовательны: запись начинается только после проверки ответа.
// Отмена ctx не гарантирует отмену задачи на стороне агента.
func (o *Orchestrator) Execute(ctx context.Context, agent models.Agent, req models.ExecutionRequest, accountID string) (out *models.Output, err error) {
	const op = "execution.Execute"
	log := o.log.With(
		slog.String("op", op),
		slog.String("agent_slug", agent.Slug),
		slog.String("user_id", accountID),
	)

	ctx, span := o.tracer.Start(ctx, "execution.Execute", trace.WithAttributes(
		attribute.String("agent.slug", agent.Slug),
		attribute.String("agent.category", string(agent.Category)),
	))
	defer func() {
		o.metrics.Execution(agent.Slug, outcome(err))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome(err))
		}
		span.End()
	}()

	if agent.Endpoint == "" {
		log.Error("agent has no endpoint")
		return nil, fmt.Errorf("%s: %w", op, ErrMissingEndpoint)
	}

	fileURL, err := o.dispatch(ctx, agent, req, accountID)
	if err != nil {
		log.Error("agent dispatch failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("agent returned artifact", slog.String("file_url", fileURL))

	out, err = o.persist(ctx, models.Output{
		AccountID: accountID,
		AgentSlug: agent.Slug,
		Input:     req,
		FileURL:   fileURL,
	})
	if err != nil {
		log.Error("artifact generated but output was not saved, needs reconciliation",
			slog.String("file_url", fileURL), sl.Err(err))
		o.publish(ctx, log, RoutingKeyOrphaned, OutputOrphaned{
			AccountID: accountID,
			AgentSlug: agent.Slug,
			FileURL:   fileURL,
			Input:     req,
			Reason:    err.Error(),
		})
		return nil, fmt.Errorf("%s: %w: %w", op, ErrPersistenceFailed, err)
	}

	log.Info("output saved", slog.String("output_id", out.ID.String()))
	o.publish(ctx, log, RoutingKeyCreated, OutputCreated{
		OutputID:  out.ID.String(),
		AccountID: out.AccountID,
		AgentSlug: out.AgentSlug,
		FileURL:   out.FileURL,
		CreatedAt: out.CreatedAt,
	})
	return out, nil
}

func (o *Orchestrator) dispatch(ctx context.Context, agent models.Agent, req models.ExecutionRequest, accountID string) (string, error) {
	if o.dispatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.dispatchTimeout)
		defer cancel()
	}

	ctx, span := o.tracer.Start(ctx, "execution.dispatch")
	defer span.End()

	start := time.Now()
	resp, err := o.dispatcher.Dispatch(ctx, agent.Endpoint, Payload{
		Input:     req.Input,
		Style:     req.Style,
		Text:      req.Text,
		AgentSlug: agent.Slug,
		UserID:    accountID,
	})
	o.metrics.Dispatch(time.Since(start))
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		if errors.Is(err, ErrTimeout) || errors.Is(err, ErrDispatchFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrDispatchFailed, err)
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", ErrDispatchFailed, resp.StatusCode)
	}
	if resp.FileURL == "" {
		return "", ErrMissingArtifact
	}
	return resp.FileURL, nil
}

func (o *Orchestrator) persist(ctx context.Context, output models.Output) (*models.Output, error) {
	// Запись не должна отменяться вместе с запросом: внешний артефакт уже создан.
	ctx = context.WithoutCancel(ctx)
	if o.storeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.storeTimeout)
		defer cancel()
	}
	return o.store.CreateOutput(ctx, output)
}

func (o *Orchestrator) publish(ctx context.Context, log *slog.Logger, routingKey string, event any) {
	if o.events == nil {
		return
	}
	if err := o.events.Publish(context.WithoutCancel(ctx), routingKey, event); err != nil {
		log.Warn("failed to publish event", slog.String("routing_key", routingKey), sl.Err(err))
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
