package models

import (
	"time"

	"github.com/google/uuid"
)

// ExecutionRequest значения полей формы запуска агента.
// Отдельно не сохраняется: уходит во внешний endpoint и копируется в Output.
type ExecutionRequest struct {
	Input string `json:"input" validate:"required"`
	Style string `json:"style" validate:"required"`
	Text  string `json:"text"`
}

// Output запись об одном успешном запуске агента. После создания не изменяется.
type Output struct {
	ID        uuid.UUID        `json:"id"`
	AccountID string           `json:"user_id"`
	AgentSlug string           `json:"agent_slug"`
	Input     ExecutionRequest `json:"input_json"`
	FileURL   string           `json:"file_url"`
	CreatedAt time.Time        `json:"created_at"`
}
