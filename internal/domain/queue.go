// Package domain defines the entities of a consumer progress report: message queues and their
// offsets, group connection details, the composite report record, and the abstractions used to
// query a cluster's administrative plane.
package domain

import (
	"cmp"
	"slices"
)

// MessageQueue identifies one partition of a topic hosted by a broker.
type MessageQueue struct {
	Topic      string `json:"topic"`
	BrokerName string `json:"broker_name"`
	QueueID    int32  `json:"queue_id"`
}

// CompareQueues orders queues by topic, then broker name, then queue id.
func CompareQueues(a, b MessageQueue) int {
	if c := cmp.Compare(a.Topic, b.Topic); c != 0 {
		return c
	}
	if c := cmp.Compare(a.BrokerName, b.BrokerName); c != 0 {
		return c
	}
	return cmp.Compare(a.QueueID, b.QueueID)
}

// SortQueues sorts queues in place using CompareQueues.
func SortQueues(queues []MessageQueue) {
	slices.SortStableFunc(queues, CompareQueues)
}
