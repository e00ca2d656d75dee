package bycomputer

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xchsh/by-computer/internal/http/gate"
	"github.com/0xchsh/by-computer/internal/http/middlewarectx"
	"github.com/0xchsh/by-computer/internal/lib/clock"
	"github.com/0xchsh/by-computer/internal/metrics"
	"github.com/0xchsh/by-computer/internal/models"
	"github.com/0xchsh/by-computer/internal/services/catalog"
	"github.com/0xchsh/by-computer/internal/storage"
)

const (
	accountID = "5d6f1b2a-3c4e-4f60-8a71-9b0c1d2e3f40"
	ghostID   = "00000000-0000-4000-8000-000000000001"
)

// headerResolver считает запрос авторизованным, если передан X-Test-Account.
type headerResolver struct{}

func (headerResolver) Resolve(_ context.Context, r *http.Request) (*models.Session, []*http.Cookie, error) {
	id := r.Header.Get("X-Test-Account")
	if id == "" {
		return nil, nil, nil
	}
	return &models.Session{AccountID: id}, nil, nil
}

type fakeRepo struct{}

func (fakeRepo) GetAccount(_ context.Context, id string) (*models.Account, error) {
	if id != accountID {
		return nil, storage.ErrNotFound
	}
	return &models.Account{ID: id, Plan: models.PlanDesign}, nil
}

func (fakeRepo) GetAgentBySlug(_ context.Context, slug string) (*models.Agent, error) {
	if slug != "logo-maker" {
		return nil, storage.ErrNotFound
	}
	return &models.Agent{
		Slug:     slug,
		Name:     "Logo Maker",
		Category: models.CategoryDesign,
		Endpoint: "https://hooks.example.com/logo",
		InputContract: models.InputContract{Fields: models.InputFields{
			Input: &models.Field{Type: models.FieldText, Required: true},
			Style: &models.Field{Type: models.FieldText, Required: true},
		}},
	}, nil
}

func (r fakeRepo) ListAgents(ctx context.Context) ([]*models.Agent, error) {
	a, _ := r.GetAgentBySlug(ctx, "logo-maker")
	return []*models.Agent{a}, nil
}

func (fakeRepo) ListOutputs(context.Context, string) ([]*models.Output, error) {
	return []*models.Output{}, nil
}

func (fakeRepo) GetOutput(context.Context, uuid.UUID, string) (*models.Output, error) {
	return nil, storage.ErrNotFound
}

type fakeExecutor struct{}

func (fakeExecutor) Execute(_ context.Context, agent models.Agent, _ models.ExecutionRequest, accountID string) (*models.Output, error) {
	return &models.Output{ID: uuid.New(), AccountID: accountID, AgentSlug: agent.Slug, FileURL: "https://cdn.example.com/x.png"}, nil
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	r := chi.NewRouter()
	RegisterRoutes(r, logger, Deps{
		Gate:     gate.New(headerResolver{}, m, logger),
		Catalog:  catalog.New(fakeRepo{}, nil, time.Minute, logger),
		Executor: fakeExecutor{},
		Storage:  okPinger{},
		Limiter:  middlewarectx.NewRateLimiter(0.001, 1),
		Metrics:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Clock:    clock.Fixed(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
	})
	return r
}

func TestRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name           string
		method         string
		path           string
		account        string
		body           string
		expectedStatus int
		location       string
		bodyContains   string
	}{
		{name: "protected without session", method: http.MethodGet, path: "/dashboard", expectedStatus: http.StatusFound, location: "/auth/sign-in?redirectTo=%2Fdashboard"},
		{name: "dashboard", method: http.MethodGet, path: "/dashboard", account: accountID, expectedStatus: http.StatusOK, bodyContains: `"entitled":true`},
		{name: "session without account record", method: http.MethodGet, path: "/settings", account: ghostID, expectedStatus: http.StatusUnauthorized},
		{name: "session subject is not a uuid", method: http.MethodGet, path: "/settings", account: "service-role", expectedStatus: http.StatusUnauthorized, bodyContains: `"error":"unauthorized"`},
		{name: "sign-in with session", method: http.MethodGet, path: "/auth/sign-in", account: accountID, expectedStatus: http.StatusFound, location: "/dashboard"},
		{name: "agent page", method: http.MethodGet, path: "/agents/logo-maker", account: accountID, expectedStatus: http.StatusOK, bodyContains: `"access":true`},
		{name: "unknown agent", method: http.MethodGet, path: "/agents/nope", account: accountID, expectedStatus: http.StatusNotFound},
		{name: "run", method: http.MethodPost, path: "/agents/logo-maker/run", account: accountID, body: `{"input":"a","style":"b"}`, expectedStatus: http.StatusOK, bodyContains: `"redirect":"/outputs/`},
		{name: "history", method: http.MethodGet, path: "/history", account: accountID, expectedStatus: http.StatusOK},
		{name: "foreign output", method: http.MethodGet, path: "/outputs/" + uuid.NewString(), account: accountID, expectedStatus: http.StatusNotFound},
		{name: "health is public", method: http.MethodGet, path: "/healthz", expectedStatus: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", expectedStatus: http.StatusOK, bodyContains: "bycomputer_route_gate_decisions_total"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.account != "" {
				req.Header.Set("X-Test-Account", tt.account)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, rec.Header().Get("Location"))
			}
			if tt.bodyContains != "" {
				assert.Contains(t, rec.Body.String(), tt.bodyContains)
			}
		})
	}
}

func TestRoutes_RunIsRateLimited(t *testing.T) {
	router := newTestRouter(t)

	do := func() int {
		req := httptest.NewRequest(http.MethodPost, "/agents/logo-maker/run", strings.NewReader(`{"input":"a","style":"b"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-Account", accountID)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusTooManyRequests, do())
}
