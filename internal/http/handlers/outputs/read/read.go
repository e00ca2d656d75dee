// Package read реализует HTTP-обработчик просмотра одного результата запуска.
//
// Результат отдаётся только владельцу; для чужого или несуществующего id ответ 404.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/0xchsh/by-computer/internal/http/middlewarectx"
	"github.com/0xchsh/by-computer/internal/http/response"
	"github.com/0xchsh/by-computer/internal/lib/sl"
	"github.com/0xchsh/by-computer/internal/models"
	"github.com/0xchsh/by-computer/internal/storage"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения результата и агента, который его создал.
type Service interface {
	GetOutput(ctx context.Context, id uuid.UUID, accountID string) (*models.Output, error)
	AgentBySlug(ctx context.Context, slug string) (*models.Agent, error)
}

// OutputPage результат вместе с описанием агента, если агент ещё существует.
type OutputPage struct {
	Output           *models.Output `json:"output"`
	AgentName        string         `json:"agent_name,omitempty" example:"Logo Maker"`
	AgentDescription string         `json:"agent_description,omitempty"`
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Результат запуска
// @Description Возвращает результат запуска по id, если он принадлежит текущему аккаунту.
// @Tags Outputs
// @Produce  json
// @Param id path string true "ID результата"
// @Success 200 {object} response.Response{data=OutputPage} "Результат"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Результат не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /outputs/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.outputs.read"
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

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		log.Info("failed to parse output id", sl.Err(err))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("output not found"))
		return
	}

	output, err := h.service.GetOutput(r.Context(), id, account.ID)
	if errors.Is(err, storage.ErrNotFound) {
		log.Info("output not found", slog.String("output_id", id.String()))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("output not found"))
		return
	}
	if err != nil {
		log.Error("failed to read output", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read output"))
		return
	}

	page := OutputPage{Output: output}
	agent, err := h.service.AgentBySlug(r.Context(), output.AgentSlug)
	switch {
	case err == nil:
		page.AgentName = agent.Name
		page.AgentDescription = agent.Description
	case errors.Is(err, storage.ErrNotFound):
		// агент удалён из каталога, результат остаётся доступен
	default:
		log.Warn("failed to load agent for output", sl.Err(err))
	}

	render.JSON(w, r, response.OKWithData(page))
}
