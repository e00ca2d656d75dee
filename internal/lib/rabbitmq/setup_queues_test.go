package rabbitmq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xchsh/by-computer/internal/services/execution"
)

func TestGetOutputQueues(t *testing.T) {
	queues := GetOutputQueues()
	require.Len(t, queues, 2)

	keys := map[string]string{}
	for _, q := range queues {
		_, dup := keys[q.QueueName]
		assert.Falsef(t, dup, "duplicate queue name: %s", q.QueueName)
		keys[q.QueueName] = q.RoutingKey
	}
	assert.Equal(t, execution.RoutingKeyCreated, keys["outputs.created"])
	assert.Equal(t, execution.RoutingKeyOrphaned, keys["outputs.orphaned"])
}
