package domain

import "github.com/samber/lo"

// OffsetPair holds the raw counters of a single queue.
type OffsetPair struct {
	BrokerOffset   int64 `json:"broker_offset"`
	ConsumerOffset int64 `json:"consumer_offset"`
}

// Lag returns BrokerOffset - ConsumerOffset. The result is negative when the consumer
// is ahead of the broker, e.g. after a broker restart.
func Lag(pair OffsetPair) int64 {
	return pair.BrokerOffset - pair.ConsumerOffset
}

// GroupStats is the consume progress of one group.
type GroupStats struct {
	Offsets    map[MessageQueue]OffsetPair
	ConsumeTPS float64
}

// TotalLag sums Lag over every queue of stats. A nil stats has no lag.
func TotalLag(stats *GroupStats) int64 {
	if stats == nil {
		return 0
	}
	var total int64
	for _, pair := range stats.Offsets {
		total += Lag(pair)
	}
	return total
}

// SortedQueues returns the queues of stats in CompareQueues order.
func (s *GroupStats) SortedQueues() []MessageQueue {
	if s == nil {
		return nil
	}
	queues := lo.Keys(s.Offsets)
	SortQueues(queues)
	return queues
}
