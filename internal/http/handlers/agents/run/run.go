// Package run реализует HTTP-обработчик запуска агента.
//
// Handler принимает значения формы (JSON или x-www-form-urlencoded), проверяет их по
// контракту агента, повторно проверяет доступ по тарифу и передаёт запуск оркестратору.
// Ошибки запуска отдаются одним человекочитаемым сообщением.
package run

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/0xchsh/by-computer/internal/http/middlewarectx"
	"github.com/0xchsh/by-computer/internal/http/response"
	"github.com/0xchsh/by-computer/internal/lib/clock"
	"github.com/0xchsh/by-computer/internal/lib/sl"
	"github.com/0xchsh/by-computer/internal/models"
	"github.com/0xchsh/by-computer/internal/services/entitlement"
	"github.com/0xchsh/by-computer/internal/services/execution"
	"github.com/0xchsh/by-computer/internal/storage"
)

const maxBodyBytes = 64 << 10

// Handler управляет запусками агентов.
type Handler struct {
	log      *slog.Logger
	agents   AgentFinder
	executor Executor
	clock    clock.Clock
	validate *validator.Validate
}

// AgentFinder описывает поиск агента по slug и сброс его закэшированной записи.
type AgentFinder interface {
	AgentBySlug(ctx context.Context, slug string) (*models.Agent, error)
	InvalidateAgent(ctx context.Context, slug string) error
}

// Executor описывает запуск агента.
type Executor interface {
	Execute(ctx context.Context, agent models.Agent, req models.ExecutionRequest, accountID string) (*models.Output, error)
}

// Result ответ на успешный запуск.
type Result struct {
	OutputID string `json:"output_id" example:"3f1c2a9e-6b1d-4f0e-9a57-2d7c4f1b8e10"`
	FileURL  string `json:"file_url" example:"https://cdn.example.com/out.png"`
	Redirect string `json:"redirect" example:"/outputs/3f1c2a9e-6b1d-4f0e-9a57-2d7c4f1b8e10"`
}

func New(log *slog.Logger, agents AgentFinder, executor Executor, c clock.Clock) *Handler {
	return &Handler{
		log:      log,
		agents:   agents,
		executor: executor,
		clock:    c,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Запустить агента
// @Description Проверяет поля по контракту агента и доступ по тарифу, вызывает агента и сохраняет результат.
// @Tags Agents
// @Accept  json
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Param slug path string true "Slug агента"
// @Param request body models.ExecutionRequest true "Значения полей формы"
// @Success 200 {object} response.Response{data=Result} "Результат запуска"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело запроса"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.UpgradePrompt "Нужен другой тариф"
// @Failure 404 {object} response.ErrorResponse "Агент не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 429 {object} response.ErrorResponse "Слишком много запусков"
// @Failure 502 {object} response.ErrorResponse "Агент ответил ошибкой"
// @Failure 503 {object} response.ErrorResponse "У агента не настроен endpoint"
// @Failure 504 {object} response.ErrorResponse "Агент не ответил вовремя"
// @Router /agents/{slug}/run [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.agents.run"
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

	agent, err := h.agents.AgentBySlug(r.Context(), slug)
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
		log.Warn("run rejected, agent not available on plan", slog.String("plan", account.Plan.String()))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Upgrade(agent.Name, string(agent.Category)))
		return
	}

	req, err := decodeRequest(r)
	if err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			log.Error("validation failed", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("invalid request"))
			return
		}
		log.Info("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(verrs))
		return
	}

	if err := agent.InputContract.Validate(); err != nil {
		log.Error("agent input contract is broken", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("agent is misconfigured"))
		return
	}
	if err := checkContract(agent.InputContract, req); err != nil {
		log.Info("request does not match contract", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	out, err := h.executor.Execute(r.Context(), *agent, req, account.ID)
	if err != nil {
		log.Error("agent execution failed", sl.Err(err))
		if errors.Is(err, execution.ErrMissingEndpoint) {
			// endpoint могли настроить после кэширования агента
			if err := h.agents.InvalidateAgent(r.Context(), slug); err != nil {
				log.Warn("failed to invalidate cached agent", sl.Err(err))
			}
		}
		w.WriteHeader(statusFor(err))
		render.JSON(w, r, response.Error(execution.UserMessage(err)))
		return
	}

	id := out.ID.String()
	log.Info("agent executed", slog.String("output_id", id))
	render.JSON(w, r, response.OKWithData(Result{
		OutputID: id,
		FileURL:  out.FileURL,
		Redirect: "/outputs/" + id,
	}))
}

func decodeRequest(r *http.Request) (models.ExecutionRequest, error) {
	var req models.ExecutionRequest
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return req, err
		}
		req.Input = r.PostForm.Get("input")
		req.Style = r.PostForm.Get("style")
		req.Text = r.PostForm.Get("text")
	default:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, err
		}
	}
	return req, nil
}

// checkContract сверяет значения с объявленными полями агента.
// Значения не изменяются: агент получает их ровно в том виде, в каком они пришли.
func checkContract(c models.InputContract, req models.ExecutionRequest) error {
	if isBlank(req.Input) {
		return fmt.Errorf("field input is a required field")
	}
	if isBlank(req.Style) {
		return fmt.Errorf("field style is a required field")
	}
	if !c.Fields.Input.HasOption(req.Input) {
		return fmt.Errorf("field input must be one of: %s", strings.Join(c.Fields.Input.Options, ", "))
	}
	if !c.Fields.Style.HasOption(req.Style) {
		return fmt.Errorf("field style must be one of: %s", strings.Join(c.Fields.Style.Options, ", "))
	}
	if text := c.Fields.Text; text != nil {
		if text.Required && isBlank(req.Text) {
			return fmt.Errorf("field text is a required field")
		}
		if req.Text != "" && !text.HasOption(req.Text) {
			return fmt.Errorf("field text must be one of: %s", strings.Join(text.Options, ", "))
		}
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, execution.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, execution.ErrPersistenceFailed):
		return http.StatusInternalServerError
	case errors.Is(err, execution.ErrMissingEndpoint):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
