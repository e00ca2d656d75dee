package middlewarectx_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/0xchsh/by-computer/internal/http/middlewarectx"
	"github.com/0xchsh/by-computer/internal/models"
	"github.com/0xchsh/by-computer/internal/storage"
)

type MockAccountLoader struct {
	mock.Mock
}

func (m *MockAccountLoader) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

const (
	accountID = "5d6f1b2a-3c4e-4f60-8a71-9b0c1d2e3f40"
	ghostID   = "00000000-0000-4000-8000-000000000001"
)

func TestAccountMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		session        *models.Session
		setupMocks     func(*MockAccountLoader)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "account loaded",
			session: &models.Session{AccountID: accountID},
			setupMocks: func(m *MockAccountLoader) {
				m.On("GetAccount", mock.Anything, accountID).Return(&models.Account{ID: accountID, Plan: models.PlanDesign}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   accountID + ":design",
		},
		{
			name:           "no session",
			setupMocks:     func(_ *MockAccountLoader) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:           "subject is not a uuid",
			session:        &models.Session{AccountID: "service-role"},
			setupMocks:     func(_ *MockAccountLoader) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:    "no account record",
			session: &models.Session{AccountID: ghostID},
			setupMocks: func(m *MockAccountLoader) {
				m.On("GetAccount", mock.Anything, ghostID).Return(nil, fmt.Errorf("catalog.GetAccount: %w", storage.ErrNotFound)).Once()
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:    "storage failure",
			session: &models.Session{AccountID: accountID},
			setupMocks: func(m *MockAccountLoader) {
				m.On("GetAccount", mock.Anything, accountID).Return(nil, errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"internal service error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := new(MockAccountLoader)
			tt.setupMocks(loader)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				a := middlewarectx.AccountFrom(r.Context())
				_, _ = fmt.Fprintf(w, "%s:%s", a.ID, a.Plan)
			})
			handler := middlewarectx.AccountMiddleware(newNoopLogger(), loader)(next)

			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			if tt.session != nil {
				req = req.WithContext(middlewarectx.WithSession(req.Context(), tt.session))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			loader.AssertExpectations(t)
		})
	}
}

func TestAccountFrom_Empty(t *testing.T) {
	assert.Nil(t, middlewarectx.AccountFrom(context.Background()))
}
