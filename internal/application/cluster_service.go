package application

import (
	"github.com/OliveiraNt/consumer-progress/internal/config"
	"github.com/OliveiraNt/consumer-progress/internal/domain"
)

// ClusterService resolves configured clusters.
type ClusterService struct {
	repo domain.ClusterRepository
}

// NewClusterService creates a new cluster service.
func NewClusterService(repo domain.ClusterRepository) *ClusterService {
	return &ClusterService{repo: repo}
}

func (s *ClusterService) getRepo() domain.ClusterRepository {
	return s.repo
}

// ListClusters lists all clusters.
func (s *ClusterService) ListClusters() []config.ClusterConfig {
	return s.repo.FindAll()
}

// Resolve returns the named cluster, or the first configured one when name is empty.
func (s *ClusterService) Resolve(name string) (config.ClusterConfig, error) {
	if name == "" {
		all := s.repo.FindAll()
		if len(all) == 0 {
			return config.ClusterConfig{}, ErrNoClusterConfigured
		}
		return all[0], nil
	}
	cfg, ok := s.repo.FindByName(name)
	if !ok {
		return config.ClusterConfig{}, ErrClusterNotFound
	}
	return cfg, nil
}
