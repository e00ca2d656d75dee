// Package settings реализует HTTP-обработчик страницы настроек аккаунта.
package settings

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/0xchsh/by-computer/internal/http/middlewarectx"
	"github.com/0xchsh/by-computer/internal/http/response"
	"github.com/0xchsh/by-computer/internal/lib/clock"
	"github.com/0xchsh/by-computer/internal/models"
	"github.com/0xchsh/by-computer/internal/services/entitlement"
)

type Handler struct {
	log   *slog.Logger
	clock clock.Clock
}

// Settings данные страницы настроек.
type Settings struct {
	Email        string      `json:"email" example:"user@example.com"`
	Plan         models.Plan `json:"plan" swaggertype:"string" example:"design"`
	TrialActive  bool        `json:"trial_active"`
	TrialEndDate *time.Time  `json:"trial_end_date,omitempty"`
	MemberSince  time.Time   `json:"member_since"`
}

func New(log *slog.Logger, c clock.Clock) *Handler {
	return &Handler{
		log:   log,
		clock: c,
	}
}

// ServeHTTP godoc
// @Summary Настройки аккаунта
// @Description Возвращает тариф и состояние пробного периода текущего аккаунта.
// @Tags Account
// @Produce  json
// @Success 200 {object} response.Response{data=Settings} "Настройки"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /settings [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	account := middlewarectx.AccountFrom(r.Context())
	if account == nil {
		log.Error("account not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	settings := Settings{
		Email:       account.Email,
		Plan:        account.Plan,
		TrialActive: entitlement.TrialActive(*account, h.clock.Now()),
		MemberSince: account.CreatedAt,
	}
	if account.Plan == models.PlanFree {
		trialEnd := account.TrialEndDate
		settings.TrialEndDate = &trialEnd
	}

	render.JSON(w, r, response.OKWithData(settings))
}
