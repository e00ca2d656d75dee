// Package jwt разбирает и выпускает access-токены сессии identity provider.
//
// Токены подписаны HS256 секретом проекта; subject токена содержит идентификатор аккаунта.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrExpired возвращается для токена с истёкшим сроком действия.
var ErrExpired = errors.New("token expired")

// SessionClaims claims access-токена сессии.
type SessionClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Maker выпускает и проверяет токены сессии.
type Maker struct {
	secretKey []byte
	tokenTTL  time.Duration
}

// NewMaker создаёт Maker на основе секрета проекта и времени жизни токена.
func NewMaker(secretKey string, ttl time.Duration) *Maker {
	return &Maker{
		secretKey: []byte(secretKey),
		tokenTTL:  ttl,
	}
}

// GenerateToken выпускает access-токен для аккаунта.
func (m *Maker) GenerateToken(accountID, email string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Email: email,
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
}

// ParseToken проверяет подпись и срок действия токена и возвращает его claims.
// Для просроченного токена возвращает ошибку, совместимую с ErrExpired.
func (m *Maker) ParseToken(tokenStr string) (*SessionClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(_ *jwt.Token) (any, error) {
		return m.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrExpired)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
