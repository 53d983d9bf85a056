package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/OliveiraNt/consumer-progress/internal/application"
	"github.com/OliveiraNt/consumer-progress/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// Server exposes consumer progress reports over HTTP.
type Server struct {
	clusterService  *application.ClusterService
	progressService *application.ProgressService
}

// New creates a new HTTP server instance.
func New(clusterService *application.ClusterService, progressService *application.ProgressService) *Server {
	return &Server{
		clusterService:  clusterService,
		progressService: progressService,
	}
}

// Routes builds the router without starting a listener.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)

	r.Get("/clusters/{clusterName}/groups", s.textAllGroups)
	r.Get("/clusters/{clusterName}/groups/{groupName}", s.textGroupDetail)

	r.Get("/api/clusters", s.apiListClusters)
	r.Get("/api/clusters/{clusterName}/groups", s.apiListGroups)

	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Run serves on addr until ctx is done, then shuts down. Request contexts derive
// from ctx, so in-flight reports are cancelled with it.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		utils.Logger.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	utils.Logger.Info("HTTP server shutting down", "addr", addr)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		utils.Logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
		)
	})
}

// mapErrorToHTTPStatus maps application errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, application.ErrClusterNotFound), errors.Is(err, application.ErrNoClusterConfigured):
		return http.StatusNotFound
	case errors.Is(err, application.ErrDiscoveryFailed), errors.Is(err, application.ErrGroupQueryFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
