package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/0xchsh/by-computer/internal/lib/jwt"
	"github.com/0xchsh/by-computer/internal/models"
)

// TokenParser проверяет access-токен.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.SessionClaims, error)
}

// Refresher обновляет пару токенов по refresh-токену.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

// CookieConfig задаёт имена и атрибуты cookie сессии.
type CookieConfig struct {
	AccessName  string
	RefreshName string
	RefreshTTL  time.Duration
	Secure      bool
}

// Resolver определяет сессию запроса.
type Resolver struct {
	tokens   TokenParser
	provider Refresher
	cookies  CookieConfig
	log      *slog.Logger
}

// NewResolver создаёт Resolver.
func NewResolver(tokens TokenParser, provider Refresher, cookies CookieConfig, log *slog.Logger) *Resolver {
	return &Resolver{
		tokens:   tokens,
		provider: provider,
		cookies:  cookies,
		log:      log,
	}
}

// Resolve возвращает сессию запроса или nil, если её нет.
//
// Действующий access-токен принимается без обращения к provider. Иначе, при наличии
// refresh-токена, сессия обновляется у provider, и возвращаются cookie, которые нужно
// выставить в ответе. Ошибка означает, что provider недоступен или отклонил обновление.
// Если provider отклонил refresh-токен, вместе с ошибкой возвращаются cookie, удаляющие
// обе cookie сессии.
func (r *Resolver) Resolve(ctx context.Context, req *http.Request) (*models.Session, []*http.Cookie, error) {
	const op = "identity.Resolve"

	if c, err := req.Cookie(r.cookies.AccessName); err == nil && c.Value != "" {
		claims, err := r.tokens.ParseToken(c.Value)
		if err == nil {
			return sessionFrom(claims), nil, nil
		}
		r.log.Debug("access token rejected", slog.String("op", op), slog.String("reason", err.Error()))
	}

	rc, err := req.Cookie(r.cookies.RefreshName)
	if err != nil || rc.Value == "" {
		return nil, nil, nil
	}

	pair, err := r.provider.Refresh(ctx, rc.Value)
	if errors.Is(err, ErrRefreshRejected) {
		return nil, r.cleared(), fmt.Errorf("%s: %w", op, err)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, err := r.tokens.ParseToken(pair.AccessToken)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: refreshed token: %w", op, err)
	}

	cookies := []*http.Cookie{r.cookie(r.cookies.AccessName, pair.AccessToken, time.Duration(pair.ExpiresIn)*time.Second)}
	if pair.RefreshToken != "" {
		cookies = append(cookies, r.cookie(r.cookies.RefreshName, pair.RefreshToken, r.cookies.RefreshTTL))
	}
	return sessionFrom(claims), cookies, nil
}

func (r *Resolver) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   r.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (r *Resolver) cleared() []*http.Cookie {
	access := r.cookie(r.cookies.AccessName, "", 0)
	access.MaxAge = -1
	refresh := r.cookie(r.cookies.RefreshName, "", 0)
	refresh.MaxAge = -1
	return []*http.Cookie{access, refresh}
}

func sessionFrom(claims *jwt.SessionClaims) *models.Session {
	s := &models.Session{
		AccountID: claims.Subject,
		Email:     claims.Email,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s
}
