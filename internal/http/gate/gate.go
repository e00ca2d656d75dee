// Package gate решает для каждого входящего запроса, пропустить его,
// перенаправить на вход или увести со страниц входа, до выполнения логики страниц.
//
// Решение зависит только от пути запроса и наличия сессии; состояние между
// запросами не хранится.
package gate

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/0xchsh/by-computer/internal/http/middlewarectx"
	"github.com/0xchsh/by-computer/internal/lib/sl"
	"github.com/0xchsh/by-computer/internal/metrics"
	"github.com/0xchsh/by-computer/internal/models"
)

const (
	// SignInPath страница входа.
	SignInPath = "/auth/sign-in"
	// SignUpPath страница регистрации.
	SignUpPath = "/auth/sign-up"
	// LandingPath стартовая страница после входа.
	LandingPath = "/dashboard"
	// RedirectParam параметр с исходным путём для возврата после входа.
	RedirectParam = "redirectTo"
)

var (
	protectedPrefixes = []string{"/dashboard", "/agents", "/history", "/outputs", "/settings"}
	authPaths         = []string{SignInPath, SignUpPath}
	assetPrefixes     = []string{"/static/", "/favicon.ico"}
	assetExtensions   = []string{".svg", ".png", ".jpg", ".jpeg", ".gif", ".webp"}
)

// Class класс пути запроса.
type Class int

const (
	Public Class = iota
	Protected
	AuthEntry
	Asset
)

func (c Class) String() string {
	switch c {
	case Protected:
		return "protected"
	case AuthEntry:
		return "auth_entry"
	case Asset:
		return "asset"
	default:
		return "public"
	}
}

// Classify определяет класс пути. Защищённые пути сравниваются по префиксу,
// пути входа по точному совпадению.
func Classify(p string) Class {
	for _, prefix := range assetPrefixes {
		if strings.HasPrefix(p, prefix) {
			return Asset
		}
	}
	for _, ext := range assetExtensions {
		if strings.EqualFold(path.Ext(p), ext) {
			return Asset
		}
	}
	for _, prefix := range protectedPrefixes {
		if strings.HasPrefix(p, prefix) {
			return Protected
		}
	}
	for _, ap := range authPaths {
		if p == ap {
			return AuthEntry
		}
	}
	return Public
}

// Outcome итог решения gate.
type Outcome int

const (
	Passthrough Outcome = iota
	RedirectSignIn
	RedirectLanding
)

func (o Outcome) String() string {
	switch o {
	case RedirectSignIn:
		return "redirect_sign_in"
	case RedirectLanding:
		return "redirect_landing"
	default:
		return "passthrough"
	}
}

// Decision решение gate для запроса. Location заполнен для перенаправлений.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Decide применяет таблицу переходов к классу пути и наличию сессии.
func Decide(class Class, sessionPresent bool, requestPath string) Decision {
	switch {
	case class == Protected && !sessionPresent:
		q := url.Values{}
		q.Set(RedirectParam, requestPath)
		return Decision{Outcome: RedirectSignIn, Location: SignInPath + "?" + q.Encode()}
	case class == AuthEntry && sessionPresent:
		return Decision{Outcome: RedirectLanding, Location: LandingPath}
	default:
		return Decision{Outcome: Passthrough}
	}
}

// SessionResolver определяет сессию запроса у identity provider.
// Возвращает cookie, которые нужно выставить в ответе.
type SessionResolver interface {
	Resolve(ctx context.Context, r *http.Request) (*models.Session, []*http.Cookie, error)
}

// Gate middleware, применяющий решение к каждому запросу.
type Gate struct {
	resolver SessionResolver
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// New создаёт Gate. m может быть nil.
func New(resolver SessionResolver, m *metrics.Metrics, log *slog.Logger) *Gate {
	return &Gate{
		resolver: resolver,
		metrics:  m,
		log:      log,
	}
}

// Middleware возвращает chi-совместимый middleware.
//
// Ошибка resolver трактуется как отсутствие сессии. Обновлённые cookie сессии
// выставляются в ответе при любом решении, включая перенаправление.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const op = "gate.Middleware"

		class := Classify(r.URL.Path)
		if class == Asset {
			next.ServeHTTP(w, r)
			return
		}

		session, cookies, err := g.resolver.Resolve(r.Context(), r)
		if err != nil {
			g.log.Warn("session check failed, treating request as anonymous",
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				sl.Err(err))
			session = nil
		}
		for _, c := range cookies {
			http.SetCookie(w, c)
		}

		d := Decide(class, session != nil, r.URL.Path)
		g.metrics.Gate(class.String(), d.Outcome.String())

		if d.Outcome != Passthrough {
			http.Redirect(w, r, d.Location, http.StatusFound)
			return
		}
		if session != nil {
			r = r.WithContext(middlewarectx.WithSession(r.Context(), session))
		}
		next.ServeHTTP(w, r)
	})
}
