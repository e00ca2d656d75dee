package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/0xchsh/by-computer/internal/migrations"
	"github.com/0xchsh/by-computer/internal/models"
)

func setupTestDB(t *testing.T) *Storage {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(ctx, dsn)
	require.NoError(t, err)

	path, err := filepath.Abs(filepath.Join("..", "..", "migrations"))
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, path))

	t.Cleanup(func() {
		_ = storage.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})
	return storage
}

// testData наполняет базу тестовыми записями.
type testData struct {
	s *Storage
}

func (d testData) account(t *testing.T, plan string, trialEnd time.Time) string {
	id := uuid.NewString()
	_, err := d.s.DB.Exec(`INSERT INTO users (id, email, plan, trial_end_date) VALUES ($1, $2, $3, $4)`,
		id, id+"@example.com", plan, trialEnd)
	require.NoError(t, err)
	return id
}

func (d testData) agent(t *testing.T, slug string, category models.Category, endpoint *string, createdAt time.Time) {
	_, err := d.s.DB.Exec(`INSERT INTO agents (name, slug, category, webhook_url, description, input_schema_json, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		"Agent "+slug, slug, string(category), endpoint, "makes things",
		`{"fields":{"input":{"type":"text","label":"Brand","required":true},"style":{"type":"select","label":"Style","options":["minimal","bold"],"required":true}}}`,
		createdAt)
	require.NoError(t, err)
}

func TestStorage_GetAccount(t *testing.T) {
	s := setupTestDB(t)
	d := testData{s: s}
	ctx := context.Background()

	trialEnd := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	freeID := d.account(t, "free", trialEnd)
	legacyID := d.account(t, "enterprise", trialEnd)

	acc, err := s.GetAccount(ctx, freeID)
	require.NoError(t, err)
	assert.Equal(t, freeID, acc.ID)
	assert.Equal(t, models.PlanFree, acc.Plan)
	assert.True(t, trialEnd.Equal(acc.TrialEndDate))

	acc, err = s.GetAccount(ctx, legacyID)
	require.NoError(t, err)
	assert.Equal(t, models.Plan(0), acc.Plan)

	_, err = s.GetAccount(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_Agents(t *testing.T) {
	s := setupTestDB(t)
	d := testData{s: s}
	ctx := context.Background()

	endpoint := "https://hooks.example.com/logo"
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	d.agent(t, "video-cutter", models.CategoryVideo, nil, base.Add(time.Hour))
	d.agent(t, "logo-maker", models.CategoryDesign, &endpoint, base)

	a, err := s.GetAgentBySlug(ctx, "logo-maker")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryDesign, a.Category)
	assert.Equal(t, endpoint, a.Endpoint)
	require.NoError(t, a.InputContract.Validate())
	assert.Equal(t, []string{"minimal", "bold"}, a.InputContract.Fields.Style.Options)
	assert.Nil(t, a.InputContract.Fields.Text)

	a, err = s.GetAgentBySlug(ctx, "video-cutter")
	require.NoError(t, err)
	assert.Empty(t, a.Endpoint)

	_, err = s.GetAgentBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := s.ListAgents(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "logo-maker", list[0].Slug)
	assert.Equal(t, "video-cutter", list[1].Slug)
}

func TestStorage_Outputs(t *testing.T) {
	s := setupTestDB(t)
	d := testData{s: s}
	ctx := context.Background()

	owner := d.account(t, "all-access", time.Now())
	other := d.account(t, "free", time.Now())

	input := models.ExecutionRequest{Input: "coffee", Style: "minimal", Text: ""}
	first, err := s.CreateOutput(ctx, models.Output{AccountID: owner, AgentSlug: "logo-maker", Input: input, FileURL: "https://x/1.png"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	time.Sleep(10 * time.Millisecond)
	second, err := s.CreateOutput(ctx, models.Output{AccountID: owner, AgentSlug: "logo-maker", Input: input, FileURL: "https://x/2.png"})
	require.NoError(t, err)

	got, err := s.GetOutput(ctx, first.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, input, got.Input)
	assert.Equal(t, "https://x/1.png", got.FileURL)

	_, err = s.GetOutput(ctx, first.ID, other)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := s.ListOutputs(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	list, err = s.ListOutputs(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, list)
}
