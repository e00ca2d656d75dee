// Package view реализует HTTP-обработчик страницы агента.
//
// Если тариф аккаунта открывает категорию агента, отдаётся агент с контрактом полей,
// иначе предложение перейти на другой тариф.
package view

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/0xchsh/by-computer/internal/http/middlewarectx"
	"github.com/0xchsh/by-computer/internal/http/response"
	"github.com/0xchsh/by-computer/internal/lib/clock"
	"github.com/0xchsh/by-computer/internal/lib/sl"
	"github.com/0xchsh/by-computer/internal/models"
	"github.com/0xchsh/by-computer/internal/services/entitlement"
	"github.com/0xchsh/by-computer/internal/storage"
)

type Handler struct {
	log     *slog.Logger
	service Service
	clock   clock.Clock
}

// Service описывает интерфейс поиска агента.
type Service interface {
	AgentBySlug(ctx context.Context, slug string) (*models.Agent, error)
}

// AgentPage данные страницы доступного агента.
type AgentPage struct {
	Access bool          `json:"access" example:"true"`
	Agent  *models.Agent `json:"agent"`
}

func New(log *slog.Logger, service Service, c clock.Clock) *Handler {
	return &Handler{
		log:     log,
		service: service,
		clock:   c,
	}
}

// ServeHTTP godoc
// @Summary Страница агента
// @Description Возвращает агента и его форму, либо предложение апгрейда, если категория недоступна на тарифе.
// @Tags Agents
// @Produce  json
// @Param slug path string true "Slug агента"
// @Success 200 {object} response.Response{data=AgentPage} "Агент доступен"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.UpgradePrompt "Нужен другой тариф"
// @Failure 404 {object} response.ErrorResponse "Агент не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /agents/{slug} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.agents.view"
	slug := chi.URLParam(r, "slug")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("slug", slug),
	)

	account := middlewarectx.AccountFrom(r.Context())
	if account == nil {
		log.Error("account not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	agent, err := h.service.AgentBySlug(r.Context(), slug)
	if errors.Is(err, storage.ErrNotFound) {
		log.Info("agent not found")
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("agent not found"))
		return
	}
	if err != nil {
		log.Error("failed to load agent", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load agent"))
		return
	}

	if entitlement.Decide(*account, agent.Category, h.clock.Now()) == entitlement.Deny {
		log.Info("agent not available on plan", slog.String("plan", account.Plan.String()))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Upgrade(agent.Name, string(agent.Category)))
		return
	}

	render.JSON(w, r, response.OKWithData(AgentPage{
		Access: true,
		Agent:  agent,
	}))
}
