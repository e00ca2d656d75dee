package settings

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xchsh/by-computer/internal/http/middlewarectx"
	"github.com/0xchsh/by-computer/internal/lib/clock"
	"github.com/0xchsh/by-computer/internal/models"
)

func TestSettingsHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	trialEnd := now.Add(72 * time.Hour)

	tests := []struct {
		name        string
		account     models.Account
		wantPlan    string
		wantTrial   bool
		wantEndDate bool
	}{
		{
			name:        "free plan shows trial end",
			account:     models.Account{Email: "a@example.com", Plan: models.PlanFree, TrialEndDate: trialEnd},
			wantPlan:    "free",
			wantTrial:   true,
			wantEndDate: true,
		},
		{
			name:      "paid plan hides trial end",
			account:   models.Account{Email: "b@example.com", Plan: models.PlanAllAccess, TrialEndDate: trialEnd},
			wantPlan:  "all-access",
			wantTrial: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := New(logger, clock.Fixed(now))

			req := httptest.NewRequest(http.MethodGet, "/settings", nil)
			account := tt.account
			req = req.WithContext(context.WithValue(req.Context(), middlewarectx.AccountKey, &account))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)

			var body struct {
				Data struct {
					Email        string     `json:"email"`
					Plan         string     `json:"plan"`
					TrialActive  bool       `json:"trial_active"`
					TrialEndDate *time.Time `json:"trial_end_date"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.account.Email, body.Data.Email)
			assert.Equal(t, tt.wantPlan, body.Data.Plan)
			assert.Equal(t, tt.wantTrial, body.Data.TrialActive)
			if tt.wantEndDate {
				require.NotNil(t, body.Data.TrialEndDate)
				assert.True(t, trialEnd.Equal(*body.Data.TrialEndDate))
			} else {
				assert.Nil(t, body.Data.TrialEndDate)
			}
		})
	}
}

func TestSettingsHandler_NoAccount(t *testing.T) {
	handler := New(slog.New(slog.NewTextHandler(io.Discard, nil)), clock.System{})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/settings", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
