// Package metrics exposes the outcome of report passes as Prometheus series.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Query names used as the "query" label of QueryErrors.
const (
	QueryStats      = "stats"
	QueryConnection = "connection"
	QueryTopics     = "topics"
)

var (
	// GroupLag is the total diff of a consumer group at the last report
	GroupLag = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "consumer_progress_group_lag",
			Help: "Total diff between broker and consumer offsets of a consumer group",
		},
		[]string{"cluster", "consumer_group"},
	)

	// GroupMembers is the number of live connections of a consumer group
	GroupMembers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "consumer_progress_group_members",
			Help: "Number of live consumer connections of a consumer group",
		},
		[]string{"cluster", "consumer_group"},
	)

	// GroupTPS is the consume throughput of a consumer group
	GroupTPS = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "consumer_progress_group_tps",
			Help: "Consume throughput of a consumer group in messages per second",
		},
		[]string{"cluster", "consumer_group"},
	)

	// QueryErrors counts failed admin queries
	QueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consumer_progress_query_errors_total",
			Help: "Total number of failed admin queries",
		},
		[]string{"cluster", "query"},
	)

	// ReportDuration is the duration of the last all-groups report in seconds
	ReportDuration = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "consumer_progress_report_duration_seconds",
			Help: "Duration of the last all-groups report in seconds",
		},
		[]string{"cluster"},
	)
)
