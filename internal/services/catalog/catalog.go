// Package catalog отдаёт данные каталога: агентов, аккаунты и результаты запусков.
// Агенты читаются через кэш, остальное всегда из хранилища.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/0xchsh/by-computer/internal/lib/sl"
	"github.com/0xchsh/by-computer/internal/models"
)

// Repository определяет методы хранилища, нужные каталогу.
type Repository interface {
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	GetAgentBySlug(ctx context.Context, slug string) (*models.Agent, error)
	ListAgents(ctx context.Context) ([]*models.Agent, error)
	ListOutputs(ctx context.Context, accountID string) ([]*models.Output, error)
	GetOutput(ctx context.Context, id uuid.UUID, accountID string) (*models.Output, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// cachedAgent хранит агента в кэше вместе с endpoint, который не попадает в ответы API.
type cachedAgent struct {
	models.Agent
	Endpoint string `json:"endpoint"`
}

// Service реализует чтение каталога с кэшированием агентов.
type Service struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// New создает сервис каталога. cache может быть nil, тогда агенты читаются напрямую.
func New(repo Repository, cache Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

func agentKey(slug string) string {
	return "agent:" + slug
}

// AgentBySlug возвращает агента по slug, сначала пробуя кэш.
// Ошибки кэша не мешают чтению из хранилища.
func (s *Service) AgentBySlug(ctx context.Context, slug string) (*models.Agent, error) {
	const op = "catalog.AgentBySlug"
	log := s.log.With(slog.String("op", op), slog.String("slug", slug))

	key := agentKey(slug)
	if s.cache != nil {
		var cached cachedAgent
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Warn("failed to read agent from cache", sl.Err(err))
		}
		if found && err == nil {
			agent := cached.Agent
			agent.Endpoint = cached.Endpoint
			return &agent, nil
		}
	}

	agent, err := s.repo.GetAgentBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, cachedAgent{Agent: *agent, Endpoint: agent.Endpoint}, s.ttl); err != nil {
			log.Warn("failed to cache agent", sl.Err(err))
		}
	}
	return agent, nil
}

// InvalidateAgent удаляет агента из кэша, чтобы следующий запрос перечитал его из хранилища.
func (s *Service) InvalidateAgent(ctx context.Context, slug string) error {
	const op = "catalog.InvalidateAgent"
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Invalidate(ctx, agentKey(slug)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListAgents возвращает всех агентов в порядке создания.
func (s *Service) ListAgents(ctx context.Context) ([]*models.Agent, error) {
	const op = "catalog.ListAgents"
	agents, err := s.repo.ListAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return agents, nil
}

func (s *Service) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	const op = "catalog.GetAccount"
	account, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return account, nil
}

// ListOutputs возвращает результаты аккаунта, новые первыми.
func (s *Service) ListOutputs(ctx context.Context, accountID string) ([]*models.Output, error) {
	const op = "catalog.ListOutputs"
	outputs, err := s.repo.ListOutputs(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return outputs, nil
}

// GetOutput возвращает результат, только если он принадлежит аккаунту.
func (s *Service) GetOutput(ctx context.Context, id uuid.UUID, accountID string) (*models.Output, error) {
	const op = "catalog.GetOutput"
	output, err := s.repo.GetOutput(ctx, id, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return output, nil
}
