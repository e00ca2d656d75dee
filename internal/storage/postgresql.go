// Package storage реализует хранилище записей каталога на PostgreSQL:
// аккаунты и агенты только читаются, результаты запусков создаются и читаются.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/0xchsh/by-computer/internal/models"
)

// ErrNotFound возвращается, если запись не найдена.
var ErrNotFound = errors.New("record not found")

// Storage инкапсулирует соединение с PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его.
func New(ctx context.Context, storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{DB: db}, nil
}

// Ping проверяет доступность базы.
func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Close закрывает соединение.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// ===== ACCOUNTS =====

// GetAccount возвращает аккаунт по идентификатору сессии.
// Неизвестное значение тарифа даёт нулевой models.Plan, которому доступ запрещён.
func (s *Storage) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	const op = "storage.GetAccount"

	query := `SELECT id, email, plan, trial_end_date, created_at
			  FROM users WHERE id = $1`

	var (
		acc  models.Account
		plan string
	)
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&acc.ID, &acc.Email, &plan, &acc.TrialEndDate, &acc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	acc.Plan, _ = models.ParsePlan(plan)
	return &acc, nil
}

// ===== AGENTS =====

const agentColumns = `id, name, slug, category, COALESCE(webhook_url, ''), description, input_schema_json, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgent(row rowScanner) (*models.Agent, error) {
	var (
		a      models.Agent
		schema []byte
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Slug, &a.Category, &a.Endpoint, &a.Description, &schema, &a.CreatedAt); err != nil {
		return nil, err
	}
	if len(schema) > 0 {
		if err := json.Unmarshal(schema, &a.InputContract); err != nil {
			return nil, fmt.Errorf("decode input schema of %s: %w", a.Slug, err)
		}
	}
	return &a, nil
}

// GetAgentBySlug возвращает агента по slug.
func (s *Storage) GetAgentBySlug(ctx context.Context, slug string) (*models.Agent, error) {
	const op = "storage.GetAgentBySlug"

	row := s.DB.QueryRowContext(ctx, `SELECT `+agentColumns+` FROM agents WHERE slug = $1`, slug)
	a, err := scanAgent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// ListAgents возвращает каталог агентов в порядке создания.
func (s *Storage) ListAgents(ctx context.Context) ([]*models.Agent, error) {
	const op = "storage.ListAgents"

	rows, err := s.DB.QueryContext(ctx, `SELECT `+agentColumns+` FROM agents ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ===== OUTPUTS =====

// CreateOutput вставляет запись о результате запуска и возвращает её
// с новым идентификатором и временем создания.
func (s *Storage) CreateOutput(ctx context.Context, output models.Output) (*models.Output, error) {
	const op = "storage.CreateOutput"

	input, err := json.Marshal(output.Input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	output.ID = uuid.New()
	query := `INSERT INTO outputs (id, user_id, agent_slug, input_json, file_url)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING created_at`
	if err := s.DB.QueryRowContext(ctx, query,
		output.ID, output.AccountID, output.AgentSlug, input, output.FileURL).Scan(&output.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &output, nil
}

const outputColumns = `id, user_id, agent_slug, input_json, file_url, created_at`

func scanOutput(row rowScanner) (*models.Output, error) {
	var (
		o     models.Output
		input []byte
	)
	if err := row.Scan(&o.ID, &o.AccountID, &o.AgentSlug, &input, &o.FileURL, &o.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(input, &o.Input); err != nil {
		return nil, fmt.Errorf("decode input of output %s: %w", o.ID, err)
	}
	return &o, nil
}

// ListOutputs возвращает результаты аккаунта, новые первыми.
func (s *Storage) ListOutputs(ctx context.Context, accountID string) ([]*models.Output, error) {
	const op = "storage.ListOutputs"

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+outputColumns+` FROM outputs WHERE user_id = $1 ORDER BY created_at DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Output
	for rows.Next() {
		o, err := scanOutput(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetOutput возвращает результат по идентификатору, только если он принадлежит аккаунту.
func (s *Storage) GetOutput(ctx context.Context, id uuid.UUID, accountID string) (*models.Output, error) {
	const op = "storage.GetOutput"

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+outputColumns+` FROM outputs WHERE id = $1 AND user_id = $2`, id, accountID)
	o, err := scanOutput(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}
