// Package list реализует HTTP-обработчик истории запусков аккаунта.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/0xchsh/by-computer/internal/http/middlewarectx"
	"github.com/0xchsh/by-computer/internal/http/response"
	"github.com/0xchsh/by-computer/internal/lib/sl"
	"github.com/0xchsh/by-computer/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения истории.
type Service interface {
	ListOutputs(ctx context.Context, accountID string) ([]*models.Output, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary История запусков
// @Description Возвращает результаты запусков текущего аккаунта, новые первыми.
// @Tags Outputs
// @Produce  json
// @Success 200 {object} response.Response{data=[]models.Output} "История"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /history [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.outputs.list"
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

	outputs, err := h.service.ListOutputs(r.Context(), account.ID)
	if err != nil {
		log.Error("failed to list outputs", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load history"))
		return
	}
	if outputs == nil {
		outputs = []*models.Output{}
	}

	log.Info("history loaded", slog.Int("count", len(outputs)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"outputs": outputs,
	}))
}
