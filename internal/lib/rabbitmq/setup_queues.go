package rabbitmq

import "github.com/0xchsh/by-computer/internal/services/execution"

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetOutputQueues возвращает очереди для событий о результатах запусков.
func GetOutputQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "outputs.created", RoutingKey: execution.RoutingKeyCreated},
		{QueueName: "outputs.orphaned", RoutingKey: execution.RoutingKeyOrphaned},
	}
}
