package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/0xchsh/by-computer/internal/http/response"
	"github.com/0xchsh/by-computer/internal/lib/sl"
	"github.com/0xchsh/by-computer/internal/models"
	"github.com/0xchsh/by-computer/internal/storage"
)

// AccountKey ключ аккаунта текущего пользователя в контексте.
const AccountKey Key = "account"

// AccountLoader загружает аккаунт по идентификатору из сессии.
type AccountLoader interface {
	GetAccount(ctx context.Context, id string) (*models.Account, error)
}

// AccountFrom возвращает аккаунт запроса или nil.
func AccountFrom(ctx context.Context) *models.Account {
	a, _ := ctx.Value(AccountKey).(*models.Account)
	return a
}

// AccountMiddleware загружает аккаунт по сессии запроса.
// Без сессии, с идентификатором не в формате UUID или без записи аккаунта ответ 401.
func AccountMiddleware(log *slog.Logger, loader AccountLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AccountMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			session := SessionFrom(r.Context())
			if session == nil || session.AccountID == "" {
				log.Error("session missing in context")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			if _, err := uuid.Parse(session.AccountID); err != nil {
				log.Warn("session subject is not an account id", slog.String("account_id", session.AccountID))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			account, err := loader.GetAccount(r.Context(), session.AccountID)
			if errors.Is(err, storage.ErrNotFound) {
				log.Warn("account record not found", slog.String("account_id", session.AccountID))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			if err != nil {
				log.Error("failed to load account", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			ctx := context.WithValue(r.Context(), AccountKey, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
