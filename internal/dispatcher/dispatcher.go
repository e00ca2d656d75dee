// Package dispatcher реализует отправку задач агентам по HTTP.
package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/0xchsh/by-computer/internal/services/execution"
)

// maxResponseBytes ограничивает чтение ответа недоверенного endpoint.
const maxResponseBytes = 1 << 20

// Client отправляет POST-запросы с JSON-телом в endpoint агента.
// Таймаут задаёт контекст вызова.
type Client struct {
	httpClient *http.Client
}

// NewClient создаёт Client. Если httpClient nil, используется клиент без собственного таймаута.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{httpClient: httpClient}
}

type artifactResponse struct {
	FileURL string `json:"file_url"`
}

// Dispatch выполняет ровно одну попытку вызова endpoint.
func (c *Client) Dispatch(ctx context.Context, endpoint string, payload execution.Payload) (*execution.Response, error) {
	const op = "dispatcher.Dispatch"

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	result := &execution.Response{StatusCode: resp.StatusCode}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return result, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Тело без валидного JSON считается ответом без артефакта.
	var artifact artifactResponse
	if err := json.Unmarshal(body, &artifact); err == nil {
		result.FileURL = artifact.FileURL
	}
	return result, nil
}
