package testutil

import (
	"context"
	"sync"

	"github.com/OliveiraNt/consumer-progress/internal/config"
	"github.com/OliveiraNt/consumer-progress/internal/domain"
)

// FakeAdminClient is a test double implementing domain.AdminQueryClient with
// per-group responses. It is safe for concurrent use.
type FakeAdminClient struct {
	Topics    []string
	TopicsErr error
	Stats     map[string]*domain.GroupStats
	StatsErr  map[string]error
	Conns     map[string]*domain.GroupConnectionInfo
	ConnErr   map[string]error

	mu     sync.Mutex
	calls  map[string]int
	closed bool
}

func NewFakeAdminClient() *FakeAdminClient {
	return &FakeAdminClient{
		Stats:    map[string]*domain.GroupStats{},
		StatsErr: map[string]error{},
		Conns:    map[string]*domain.GroupConnectionInfo{},
		ConnErr:  map[string]error{},
		calls:    map[string]int{},
	}
}

func (f *FakeAdminClient) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[call]++
}

// Calls returns how many times the named call was made, e.g. "QueryStats:g1".
func (f *FakeAdminClient) Calls(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[call]
}

func (f *FakeAdminClient) ListTopics(_ context.Context) ([]string, error) {
	f.record("ListTopics")
	return f.Topics, f.TopicsErr
}

func (f *FakeAdminClient) QueryStats(_ context.Context, group string) (*domain.GroupStats, error) {
	f.record("QueryStats:" + group)
	if err := f.StatsErr[group]; err != nil {
		return nil, err
	}
	return f.Stats[group], nil
}

func (f *FakeAdminClient) QueryConnectionInfo(_ context.Context, group string) (*domain.GroupConnectionInfo, error) {
	f.record("QueryConnectionInfo:" + group)
	if err := f.ConnErr[group]; err != nil {
		return nil, err
	}
	return f.Conns[group], nil
}

func (f *FakeAdminClient) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *FakeAdminClient) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// FakeClusterRepository is a simple in-memory repository for tests.
type FakeClusterRepository struct {
	Cfgs    []config.ClusterConfig
	Clients map[string]domain.AdminQueryClient
}

func NewFakeClusterRepository() *FakeClusterRepository {
	return &FakeClusterRepository{Clients: map[string]domain.AdminQueryClient{}}
}

func (r *FakeClusterRepository) FindByName(name string) (config.ClusterConfig, bool) {
	for _, c := range r.Cfgs {
		if c.Name == name {
			return c, true
		}
	}
	return config.ClusterConfig{}, false
}
func (r *FakeClusterRepository) FindAll() []config.ClusterConfig {
	return append([]config.ClusterConfig(nil), r.Cfgs...)
}
func (r *FakeClusterRepository) Watch() error { return nil }
func (r *FakeClusterRepository) GetClient(name string) (domain.AdminQueryClient, bool) {
	c, ok := r.Clients[name]
	return c, ok
}

// FakeFactory returns Client, or a new FakeAdminClient, for any config.
type FakeFactory struct {
	Client domain.AdminQueryClient
	Err    error
}

func (f *FakeFactory) CreateClient(_ config.ClusterConfig) (domain.AdminQueryClient, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Client != nil {
		return f.Client, nil
	}
	return NewFakeAdminClient(), nil
}
