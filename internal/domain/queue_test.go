package domain_test

import (
	"testing"

	"github.com/OliveiraNt/consumer-progress/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestCompareQueues(t *testing.T) {
	t.Parallel()
	base := domain.MessageQueue{Topic: "orders", BrokerName: "b1", QueueID: 2}

	require.Zero(t, domain.CompareQueues(base, base))
	require.Negative(t, domain.CompareQueues(base, domain.MessageQueue{Topic: "payments", BrokerName: "a0", QueueID: 0}))
	require.Negative(t, domain.CompareQueues(base, domain.MessageQueue{Topic: "orders", BrokerName: "b2", QueueID: 0}))
	require.Positive(t, domain.CompareQueues(base, domain.MessageQueue{Topic: "orders", BrokerName: "b1", QueueID: 1}))
}

func TestSortQueues(t *testing.T) {
	t.Parallel()
	queues := []domain.MessageQueue{
		{Topic: "orders", BrokerName: "b2", QueueID: 0},
		{Topic: "audit", BrokerName: "b9", QueueID: 7},
		{Topic: "orders", BrokerName: "b1", QueueID: 10},
		{Topic: "orders", BrokerName: "b1", QueueID: 2},
	}
	domain.SortQueues(queues)
	require.Equal(t, []domain.MessageQueue{
		{Topic: "audit", BrokerName: "b9", QueueID: 7},
		{Topic: "orders", BrokerName: "b1", QueueID: 2},
		{Topic: "orders", BrokerName: "b1", QueueID: 10},
		{Topic: "orders", BrokerName: "b2", QueueID: 0},
	}, queues)
}
