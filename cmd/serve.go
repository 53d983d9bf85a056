package cmd

import (
	"context"

	httpserver "github.com/OliveiraNt/consumer-progress/internal/adapters/http"
	"github.com/OliveiraNt/consumer-progress/internal/application"
	"github.com/OliveiraNt/consumer-progress/internal/domain"
	"github.com/OliveiraNt/consumer-progress/internal/utils"
)

// serve runs the HTTP mode until ctx is done or the listener fails. The config
// file is reloaded on change while serving.
func serve(ctx context.Context, addr string, clusterService *application.ClusterService, progressService *application.ProgressService, repo domain.ClusterRepository) error {
	if err := repo.Watch(); err != nil {
		utils.Logger.Warn("failed to start config watcher", "err", err)
	}
	utils.Logger.Info("HTTP mode starting", "addr", addr)
	return httpserver.New(clusterService, progressService).Run(ctx, addr)
}
