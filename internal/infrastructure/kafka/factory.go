package kafka

import (
	"github.com/OliveiraNt/consumer-progress/internal/config"
	"github.com/OliveiraNt/consumer-progress/internal/domain"
)

// Factory creates admin clients from configuration.
type Factory struct{}

// NewFactory creates a new client factory.
func NewFactory() *Factory {
	return &Factory{}
}

// CreateClient creates a new admin client from configuration.
func (f *Factory) CreateClient(cfg config.ClusterConfig) (domain.AdminQueryClient, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}
