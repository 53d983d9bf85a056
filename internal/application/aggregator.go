package application

import (
	"context"

	"github.com/OliveiraNt/consumer-progress/internal/config"
	"github.com/OliveiraNt/consumer-progress/internal/domain"
	"github.com/OliveiraNt/consumer-progress/internal/metrics"
	"github.com/OliveiraNt/consumer-progress/internal/utils"
	"golang.org/x/sync/errgroup"
)

// Aggregator queries consumer groups with bounded concurrency. A failed query only
// affects the fields of its own group.
type Aggregator struct {
	cluster        string
	maxConcurrency int
}

// NewAggregator creates an aggregator for the named cluster. maxConcurrency <= 0 uses
// config.DefaultMaxConcurrency.
func NewAggregator(cluster string, maxConcurrency int) *Aggregator {
	if maxConcurrency <= 0 {
		maxConcurrency = config.DefaultMaxConcurrency
	}
	return &Aggregator{cluster: cluster, maxConcurrency: maxConcurrency}
}

// Aggregate returns one record per group, in the order of groups.
func (a *Aggregator) Aggregate(ctx context.Context, groups []string, client domain.AdminQueryClient) []domain.GroupReportRecord {
	outcomes := a.Collect(ctx, groups, client)
	records := make([]domain.GroupReportRecord, len(outcomes))
	for i, o := range outcomes {
		records[i] = o.Record()
	}
	return records
}

// Collect runs both queries for every group and returns once all of them have finished.
// Groups not started before ctx is done are reported as failed with ctx's error.
func (a *Aggregator) Collect(ctx context.Context, groups []string, client domain.AdminQueryClient) []domain.GroupOutcome {
	outcomes := make([]domain.GroupOutcome, len(groups))

	var g errgroup.Group
	g.SetLimit(a.maxConcurrency)
	for i, group := range groups {
		if err := ctx.Err(); err != nil {
			a.warn(group, metrics.QueryStats, err)
			a.warn(group, metrics.QueryConnection, err)
			outcomes[i] = domain.GroupOutcome{Group: group, StatsErr: err, ConnErr: err}
			continue
		}
		g.Go(func() error {
			outcomes[i] = a.queryGroup(ctx, group, client)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (a *Aggregator) queryGroup(ctx context.Context, group string, client domain.AdminQueryClient) domain.GroupOutcome {
	out := domain.GroupOutcome{Group: group}

	stats, err := client.QueryStats(ctx, group)
	if err != nil {
		a.warn(group, metrics.QueryStats, err)
		out.StatsErr = err
	} else {
		out.Stats = stats
	}

	conn, err := client.QueryConnectionInfo(ctx, group)
	if err != nil {
		a.warn(group, metrics.QueryConnection, err)
		out.ConnErr = err
	} else {
		out.Conn = conn
	}

	return out
}

func (a *Aggregator) warn(group, query string, err error) {
	metrics.QueryErrors.WithLabelValues(a.cluster, query).Inc()
	utils.Logger.Warn("consumer group query failed", "cluster", a.cluster, "group", group, "query", query, "err", err)
}
