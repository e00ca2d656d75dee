// Package response содержит типы и функции для единообразных JSON-ответов
// HTTP-обработчиков: успешных ответов, ошибок и ошибок валидации.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Response описывает стандартную структуру JSON-ответа сервера.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse структура ошибки для Swagger-документации.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает ответ с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError собирает ошибки валидации в одно человекочитаемое сообщение.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "uuid":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only uuid", err.Field()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too long", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

// UpgradeURL страница выбора тарифа, куда ведёт предложение апгрейда.
const UpgradeURL = "/pricing"

// UpgradePrompt ответ для агента, недоступного на текущем тарифе.
type UpgradePrompt struct {
	Status     string `json:"status" example:"Error"`
	Error      string `json:"error" example:"upgrade required"`
	Access     bool   `json:"access" example:"false"`
	AgentName  string `json:"agent_name" example:"Logo Maker"`
	Category   string `json:"category" example:"Video"`
	UpgradeURL string `json:"upgrade_url" example:"/pricing"`
}

// Upgrade возвращает предложение перейти на тариф с доступом к агенту.
func Upgrade(agentName, category string) UpgradePrompt {
	return UpgradePrompt{
		Status:     StatusError,
		Error:      "upgrade required",
		Access:     false,
		AgentName:  agentName,
		Category:   category,
		UpgradeURL: UpgradeURL,
	}
}
