// Package middlewarectx содержит HTTP middleware и ключи контекста запроса.
//
// Сессия, определённая route gate, кладётся в контекст запроса и
// извлекается обработчиками через SessionFrom.
package middlewarectx

import (
	"context"

	"github.com/0xchsh/by-computer/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// SessionKey ключ сессии в контексте.
const SessionKey Key = "session"

// WithSession возвращает контекст с сессией запроса.
func WithSession(ctx context.Context, s *models.Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}

// SessionFrom возвращает сессию запроса или nil.
func SessionFrom(ctx context.Context) *models.Session {
	s, _ := ctx.Value(SessionKey).(*models.Session)
	return s
}
