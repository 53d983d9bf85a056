package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/OliveiraNt/consumer-progress/internal/config"
	"github.com/OliveiraNt/consumer-progress/internal/utils"
	"github.com/samber/lo"
)

type clusterSummary struct {
	Name        string   `json:"name"`
	Brokers     []string `json:"brokers"`
	Auth        string   `json:"auth"`
	RetryPrefix string   `json:"retry_prefix"`
}

func (s *Server) apiListClusters(w http.ResponseWriter, r *http.Request) {
	_ = r
	clusters := s.clusterService.ListClusters()
	utils.Logger.Debug("api list clusters", "count", len(clusters))

	out := lo.Map(clusters, func(c config.ClusterConfig, _ int) clusterSummary {
		return clusterSummary{Name: c.Name, Brokers: c.Brokers, Auth: c.GetAuthType(), RetryPrefix: c.RetryTopicPrefix()}
	})
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		utils.Logger.Error("encode clusters failed", "err", err)
	}
}
