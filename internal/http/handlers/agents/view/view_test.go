package view

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/0xchsh/by-computer/internal/http/middlewarectx"
	"github.com/0xchsh/by-computer/internal/lib/clock"
	"github.com/0xchsh/by-computer/internal/models"
	"github.com/0xchsh/by-computer/internal/storage"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) AgentBySlug(ctx context.Context, slug string) (*models.Agent, error) {
	args := m.Called(ctx, slug)
	if res := args.Get(0); res != nil {
		return res.(*models.Agent), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestViewHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	videoAgent := &models.Agent{
		Slug:     "video-cutter",
		Name:     "Video Cutter",
		Category: models.CategoryVideo,
		Endpoint: "https://hooks.example.com/video",
		InputContract: models.InputContract{Fields: models.InputFields{
			Input: &models.Field{Type: models.FieldText, Label: "Clip URL", Required: true},
			Style: &models.Field{Type: models.FieldSelect, Label: "Pace", Options: []string{"slow", "fast"}, Required: true},
		}},
	}

	tests := []struct {
		name           string
		slug           string
		account        *models.Account
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   []string
		notExpected    string
	}{
		{
			name:    "entitled account gets the form",
			slug:    "video-cutter",
			account: &models.Account{Plan: models.PlanAllAccess},
			setupMock: func(m *MockService) {
				m.On("AgentBySlug", mock.Anything, "video-cutter").Return(videoAgent, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`"access":true`, `"input_schema"`, `"options":["slow","fast"]`},
			notExpected:    "hooks.example.com",
		},
		{
			name:    "design plan gets upgrade prompt",
			slug:    "video-cutter",
			account: &models.Account{Plan: models.PlanDesign},
			setupMock: func(m *MockService) {
				m.On("AgentBySlug", mock.Anything, "video-cutter").Return(videoAgent, nil)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   []string{`"access":false`, `"upgrade_url":"/pricing"`, `"agent_name":"Video Cutter"`},
			notExpected:    "input_schema",
		},
		{
			name:    "expired trial gets upgrade prompt",
			slug:    "video-cutter",
			account: &models.Account{Plan: models.PlanFree, TrialEndDate: now.Add(-time.Second)},
			setupMock: func(m *MockService) {
				m.On("AgentBySlug", mock.Anything, "video-cutter").Return(videoAgent, nil)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   []string{`"upgrade_url":"/pricing"`},
		},
		{
			name:    "unknown slug",
			slug:    "nope",
			account: &models.Account{Plan: models.PlanAllAccess},
			setupMock: func(m *MockService) {
				m.On("AgentBySlug", mock.Anything, "nope").Return(nil, fmt.Errorf("catalog.AgentBySlug: %w", storage.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   []string{`{"status":"Error","error":"agent not found"}`},
		},
		{
			name:    "storage error",
			slug:    "video-cutter",
			account: &models.Account{Plan: models.PlanAllAccess},
			setupMock: func(m *MockService) {
				m.On("AgentBySlug", mock.Anything, "video-cutter").Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   []string{`"could not load agent"`},
		},
		{
			name:           "no account",
			slug:           "video-cutter",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   []string{`"unauthorized"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			handler := New(logger, svc, clock.Fixed(now))

			req := httptest.NewRequest(http.MethodGet, "/agents/"+tt.slug, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("slug", tt.slug)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.account != nil {
				ctx = context.WithValue(ctx, middlewarectx.AccountKey, tt.account)
			}
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			for _, s := range tt.expectedBody {
				assert.Contains(t, rec.Body.String(), s)
			}
			if tt.notExpected != "" {
				assert.NotContains(t, rec.Body.String(), tt.notExpected)
			}
			svc.AssertExpectations(t)
		})
	}
}
