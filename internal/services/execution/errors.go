package execution

import "errors"

var (
	// ErrMissingEndpoint у агента не настроен внешний endpoint.
	ErrMissingEndpoint = errors.New("agent has no endpoint configured")
	// ErrDispatchFailed endpoint вернул неуспешный HTTP-статус или недоступен.
	ErrDispatchFailed = errors.New("agent dispatch failed")
	// ErrTimeout endpoint не ответил за отведённое время.
	ErrTimeout = errors.New("agent dispatch timed out")
	// ErrMissingArtifact успешный ответ без file_url.
	ErrMissingArtifact = errors.New("agent did not return a file url")
	// ErrPersistenceFailed артефакт создан внешне, но запись Output не сохранилась.
	// Требует ручной сверки.
	ErrPersistenceFailed = errors.New("failed to save output")
)

// UserMessage возвращает одно человекочитаемое сообщение для ошибки запуска.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingEndpoint):
		return "This agent is not available right now"
	case errors.Is(err, ErrTimeout):
		return "The agent took too long to respond"
	case errors.Is(err, ErrMissingArtifact):
		return "Agent did not return a file URL"
	case errors.Is(err, ErrPersistenceFailed):
		return "Failed to save output"
	default:
		return "Failed to execute agent"
	}
}

// outcome метка результата для метрик.
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrMissingEndpoint):
		return "missing_endpoint"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrMissingArtifact):
		return "missing_artifact"
	case errors.Is(err, ErrPersistenceFailed):
		return "persistence_failed"
	default:
		return "dispatch_failed"
	}
}
