// Package list реализует HTTP-обработчик каталога агентов (dashboard).
//
// Каждый агент помечается флагом entitled для текущего аккаунта,
// в ответ также попадают тариф и состояние пробного периода.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/0xchsh/by-computer/internal/http/middlewarectx"
	"github.com/0xchsh/by-computer/internal/http/response"
	"github.com/0xchsh/by-computer/internal/lib/clock"
	"github.com/0xchsh/by-computer/internal/lib/sl"
	"github.com/0xchsh/by-computer/internal/models"
	"github.com/0xchsh/by-computer/internal/services/entitlement"
)

// Handler обрабатывает запросы к каталогу агентов.
type Handler struct {
	log     *slog.Logger
	service Service
	clock   clock.Clock
}

// Service описывает интерфейс чтения каталога.
type Service interface {
	ListAgents(ctx context.Context) ([]*models.Agent, error)
}

// CatalogAgent агент каталога с признаком доступа.
type CatalogAgent struct {
	*models.Agent
	Entitled bool `json:"entitled"`
}

// Catalog данные страницы каталога.
type Catalog struct {
	Plan         models.Plan    `json:"plan" swaggertype:"string" example:"free"`
	TrialActive  bool           `json:"trial_active"`
	TrialEndDate *time.Time     `json:"trial_end_date,omitempty"`
	Agents       []CatalogAgent `json:"agents"`
}

func New(log *slog.Logger, service Service, c clock.Clock) *Handler {
	return &Handler{
		log:     log,
		service: service,
		clock:   c,
	}
}

// ServeHTTP godoc
// @Summary Каталог агентов
// @Description Возвращает агентов в порядке создания с признаком доступа на текущем тарифе.
// @Tags Agents
// @Produce  json
// @Success 200 {object} response.Response{data=Catalog} "Каталог"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.agents.list"
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

	agents, err := h.service.ListAgents(r.Context())
	if err != nil {
		log.Error("failed to list agents", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load agents"))
		return
	}

	now := h.clock.Now()
	catalog := Catalog{
		Plan:        account.Plan,
		TrialActive: entitlement.TrialActive(*account, now),
		Agents:      make([]CatalogAgent, 0, len(agents)),
	}
	if account.Plan == models.PlanFree {
		trialEnd := account.TrialEndDate
		catalog.TrialEndDate = &trialEnd
	}
	for _, a := range agents {
		catalog.Agents = append(catalog.Agents, CatalogAgent{
			Agent:    a,
			Entitled: bool(entitlement.Decide(*account, a.Category, now)),
		})
	}

	log.Info("catalog loaded", slog.Int("agents", len(agents)))
	render.JSON(w, r, response.OKWithData(catalog))
}
