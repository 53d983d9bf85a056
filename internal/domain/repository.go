package domain

import (
	"context"

	"github.com/OliveiraNt/consumer-progress/internal/config"
)

// ClusterRepository provides cluster configurations and their admin clients.
type ClusterRepository interface {
	FindByName(name string) (config.ClusterConfig, bool)
	FindAll() []config.ClusterConfig
	Watch() error
	GetClient(name string) (AdminQueryClient, bool)
}

// ClientFactory creates admin clients from configuration.
type ClientFactory interface {
	CreateClient(cfg config.ClusterConfig) (AdminQueryClient, error)
}

// AdminQueryClient is the read side of a cluster's administrative plane.
type AdminQueryClient interface {
	// ListTopics returns every topic name known to the cluster.
	ListTopics(ctx context.Context) ([]string, error)
	// QueryStats returns the consume progress of a group.
	QueryStats(ctx context.Context, group string) (*GroupStats, error)
	// QueryConnectionInfo returns the live connections of a group.
	QueryConnectionInfo(ctx context.Context, group string) (*GroupConnectionInfo, error)
	Close()
}
