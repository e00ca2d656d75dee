// Package identity определяет текущую сессию запроса по cookie и при необходимости
// обновляет её через внешний identity provider.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrRefreshRejected provider отклонил refresh-токен.
var ErrRefreshRejected = errors.New("refresh token rejected")

// TokenPair новая пара токенов, выданная provider.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// ProviderClient обращается к HTTP API identity provider.
type ProviderClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewProviderClient создаёт клиент provider с базовым адресом и публичным ключом проекта.
func NewProviderClient(baseURL, apiKey string, timeout time.Duration) *ProviderClient {
	return &ProviderClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Refresh обменивает refresh-токен на новую пару токенов.
func (c *ProviderClient) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	const op = "identity.Refresh"

	body, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/v1/token?grant_type=refresh_token", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s: %w", op, ErrRefreshRejected)
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var pair TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if pair.AccessToken == "" {
		return nil, fmt.Errorf("%s: empty access token", op)
	}
	return &pair, nil
}
