package repository

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/OliveiraNt/consumer-progress/internal/config"
	"github.com/OliveiraNt/consumer-progress/internal/domain"
	"github.com/OliveiraNt/consumer-progress/internal/utils"
	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 350 * time.Millisecond

// ClusterRepository holds cluster configurations and one admin client per cluster.
type ClusterRepository struct {
	mu         sync.RWMutex
	clients    map[string]domain.AdminQueryClient
	configs    map[string]config.ClusterConfig
	configData config.FileConfig
	configPath string
	watcher    *fsnotify.Watcher
	factory    domain.ClientFactory
}

// NewClusterRepository creates a repository backed by the config file at configPath.
func NewClusterRepository(configPath string, factory domain.ClientFactory) *ClusterRepository {
	return &ClusterRepository{
		clients:    make(map[string]domain.AdminQueryClient),
		configs:    make(map[string]config.ClusterConfig),
		configPath: configPath,
		factory:    factory,
	}
}

// NewStaticRepository creates a repository over a fixed set of clusters, used
// when brokers are given on the command line. Watch is a no-op.
func NewStaticRepository(factory domain.ClientFactory, clusters ...config.ClusterConfig) (*ClusterRepository, error) {
	r := NewClusterRepository("", factory)
	cfg := config.FileConfig{Clusters: clusters}
	r.configData = cfg
	if err := r.reconcile(cfg); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadFromFile loads configuration from file
func (r *ClusterRepository) LoadFromFile() error {
	cfg, err := config.ReadConfig(r.configPath)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.configData = cfg
	r.mu.Unlock()

	return r.reconcile(cfg)
}

// FindByName retrieves a cluster configuration by name
func (r *ClusterRepository) FindByName(name string) (config.ClusterConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.configData.Clusters {
		if c.Name == name {
			return c, true
		}
	}
	return config.ClusterConfig{}, false
}

// FindAll retrieves all cluster configurations in file order
func (r *ClusterRepository) FindAll() []config.ClusterConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]config.ClusterConfig, len(r.configData.Clusters))
	copy(out, r.configData.Clusters)
	return out
}

// GetClient returns the admin client for the given cluster name
func (r *ClusterRepository) GetClient(name string) (domain.AdminQueryClient, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.clients[name]
	return client, ok
}

// Watch sets a fsnotify watcher on the file for hot reload
func (r *ClusterRepository) Watch() error {
	if r.configPath == "" {
		return nil
	}
	abs, err := filepath.Abs(r.configPath)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return err
	}

	r.mu.Lock()
	r.watcher = w
	r.mu.Unlock()

	go r.watchLoop(w, abs)
	return nil
}

func (r *ClusterRepository) watchLoop(w *fsnotify.Watcher, abs string) {
	reload := func() {
		for i := 0; i < 10; i++ {
			if _, err := os.Stat(abs); err == nil {
				break
			}
			time.Sleep(100 * time.Millisecond)
		}

		utils.Logger.Info("config file changed", "path", abs)
		if err := r.LoadFromFile(); err != nil {
			utils.Logger.Error("failed to reload config", "path", abs, "err", err)
		}
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Name != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove|fsnotify.Chmod) == 0 {
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(debounceDelay, reload)
			} else {
				timer.Reset(debounceDelay)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			utils.Logger.Warn("fsnotify error", "err", err)
		}
	}
}

// Close stops the watcher and closes every client.
func (r *ClusterRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.watcher != nil {
		err = r.watcher.Close()
		r.watcher = nil
	}
	for name, client := range r.clients {
		client.Close()
		delete(r.clients, name)
		delete(r.configs, name)
	}
	return err
}

// reconcile synchronizes clients with configuration. Clients whose settings
// changed are recreated, clients no longer configured are closed.
func (r *ClusterRepository) reconcile(cfg config.FileConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	existing := make(map[string]struct{}, len(cfg.Clusters))
	for _, c := range cfg.Clusters {
		existing[c.Name] = struct{}{}

		cur, ok := r.clients[c.Name]
		if ok && reflect.DeepEqual(r.configs[c.Name], c) {
			continue
		}
		if ok {
			cur.Close()
			delete(r.clients, c.Name)
			delete(r.configs, c.Name)
		}

		client, err := r.factory.CreateClient(c)
		if err != nil {
			utils.Logger.Error("failed to create client", "cluster", c.Name, "err", err)
			errs = append(errs, err)
			continue
		}
		r.clients[c.Name] = client
		r.configs[c.Name] = c
	}

	for name, client := range r.clients {
		if _, ok := existing[name]; !ok {
			client.Close()
			delete(r.clients, name)
			delete(r.configs, name)
		}
	}

	return errors.Join(errs...)
}
