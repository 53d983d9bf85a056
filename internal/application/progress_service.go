package application

import (
	"context"
	"fmt"
	"time"

	"github.com/OliveiraNt/consumer-progress/internal/config"
	"github.com/OliveiraNt/consumer-progress/internal/domain"
	"github.com/OliveiraNt/consumer-progress/internal/metrics"
	"github.com/OliveiraNt/consumer-progress/internal/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// ProgressService builds consumer progress reports for configured clusters.
type ProgressService struct {
	clusterService *ClusterService
	repo           domain.ClusterRepository
}

// NewProgressService creates a progress service over the clusters of clusterService.
func NewProgressService(clusterService *ClusterService) *ProgressService {
	return &ProgressService{
		clusterService: clusterService,
		repo:           clusterService.getRepo(),
	}
}

func (s *ProgressService) client(clusterName string) (config.ClusterConfig, domain.AdminQueryClient, error) {
	cfg, err := s.clusterService.Resolve(clusterName)
	if err != nil {
		return cfg, nil, err
	}
	client, ok := s.repo.GetClient(cfg.Name)
	if !ok {
		utils.Logger.Warn("admin client not found", "cluster", cfg.Name)
		return cfg, nil, ErrClusterNotFound
	}
	return cfg, client, nil
}

// GroupDetail returns the per-queue progress of one group. Unlike the all-groups report,
// a failed query is an error here since there is nothing else to show.
func (s *ProgressService) GroupDetail(ctx context.Context, clusterName, group string) (*domain.GroupStats, error) {
	cfg, client, err := s.client(clusterName)
	if err != nil {
		return nil, err
	}

	stats, err := client.QueryStats(ctx, group)
	if err != nil {
		metrics.QueryErrors.WithLabelValues(cfg.Name, metrics.QueryStats).Inc()
		return nil, fmt.Errorf("%w: %s: %w", ErrGroupQueryFailed, group, err)
	}
	if stats == nil {
		stats = &domain.GroupStats{}
	}
	return stats, nil
}

// AllGroups discovers every consumer group of the cluster and returns one ranked record
// per group. Only a failure to list topics is returned as an error.
func (s *ProgressService) AllGroups(ctx context.Context, clusterName string) ([]domain.GroupReportRecord, error) {
	start := time.Now()
	cfg, client, err := s.client(clusterName)
	if err != nil {
		return nil, err
	}

	topics, err := client.ListTopics(ctx)
	if err != nil {
		metrics.QueryErrors.WithLabelValues(cfg.Name, metrics.QueryTopics).Inc()
		return nil, fmt.Errorf("%w: %w", ErrDiscoveryFailed, err)
	}

	groups := DiscoverGroups(topics, cfg.RetryTopicPrefix())
	utils.Logger.Debug("consumer groups discovered", "cluster", cfg.Name, "topics", len(topics), "groups", len(groups))

	records := NewAggregator(cfg.Name, cfg.Concurrency()).Aggregate(ctx, groups, client)
	RankRecords(records)

	publish(cfg.Name, records)
	metrics.ReportDuration.WithLabelValues(cfg.Name).Set(time.Since(start).Seconds())
	return records, nil
}

// publish replaces the cluster's per-group series so groups that disappeared stop exporting.
func publish(cluster string, records []domain.GroupReportRecord) {
	stale := prometheus.Labels{"cluster": cluster}
	metrics.GroupLag.DeletePartialMatch(stale)
	metrics.GroupMembers.DeletePartialMatch(stale)
	metrics.GroupTPS.DeletePartialMatch(stale)

	for _, r := range records {
		metrics.GroupLag.WithLabelValues(cluster, r.Group).Set(float64(r.DiffTotal))
		metrics.GroupMembers.WithLabelValues(cluster, r.Group).Set(float64(r.Count))
		metrics.GroupTPS.WithLabelValues(cluster, r.Group).Set(r.ConsumeTPS)
	}
}
