package application

import "errors"

var (
	// ErrClusterNotFound is returned when a cluster is not configured or has no client
	ErrClusterNotFound = errors.New("cluster not found")

	// ErrNoClusterConfigured is returned when no cluster name was given and none is configured
	ErrNoClusterConfigured = errors.New("no cluster configured")

	// ErrDiscoveryFailed is returned when the topic list cannot be retrieved
	ErrDiscoveryFailed = errors.New("consumer group discovery failed")

	// ErrGroupQueryFailed is returned when a single group report cannot be built
	ErrGroupQueryFailed = errors.New("consumer group query failed")
)
