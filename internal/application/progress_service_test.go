package application

import (
	"context"
	"errors"
	"testing"

	"github.com/OliveiraNt/consumer-progress/internal/config"
	"github.com/OliveiraNt/consumer-progress/internal/domain"
	"github.com/OliveiraNt/consumer-progress/internal/metrics"
	"github.com/OliveiraNt/consumer-progress/internal/testutil"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func newProgressService(t *testing.T, cluster string, client *testutil.FakeAdminClient) *ProgressService {
	t.Helper()
	repo := testutil.NewFakeClusterRepository()
	repo.Cfgs = []config.ClusterConfig{{Name: cluster, Brokers: []string{"b1"}}}
	repo.Clients[cluster] = client
	return NewProgressService(NewClusterService(repo))
}

func TestProgressService_AllGroups(t *testing.T) {
	t.Parallel()
	client := testutil.NewFakeAdminClient()
	client.Topics = []string{"%RETRY%idle", "%RETRY%busy", "%RETRY%broken", "orders"}
	client.Stats["idle"] = oneQueue(5, 5)
	client.Stats["busy"] = oneQueue(100, 20)
	client.Conns["busy"] = &domain.GroupConnectionInfo{Connections: 4}
	client.Conns["idle"] = &domain.GroupConnectionInfo{Connections: 4}
	client.StatsErr["broken"] = errors.New("timeout")
	client.ConnErr["broken"] = errors.New("timeout")

	svc := newProgressService(t, "svc-all", client)
	records, err := svc.AllGroups(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, records, 3)
	require.Equal(t, "busy", records[0].Group)
	require.Equal(t, int64(80), records[0].DiffTotal)
	require.Equal(t, "idle", records[1].Group)
	require.Equal(t, domain.GroupReportRecord{Group: "broken"}, records[2])
	require.Zero(t, client.Calls("QueryStats:orders"))

	require.Equal(t, float64(80), promtest.ToFloat64(metrics.GroupLag.WithLabelValues("svc-all", "busy")))
	require.Equal(t, float64(4), promtest.ToFloat64(metrics.GroupMembers.WithLabelValues("svc-all", "idle")))
}

func TestProgressService_AllGroups_DiscoveryFailure(t *testing.T) {
	t.Parallel()
	client := testutil.NewFakeAdminClient()
	connErr := errors.New("connection refused")
	client.TopicsErr = connErr

	svc := newProgressService(t, "svc-disc", client)
	records, err := svc.AllGroups(context.Background(), "svc-disc")
	require.Nil(t, records)
	require.ErrorIs(t, err, ErrDiscoveryFailed)
	require.ErrorIs(t, err, connErr)
	require.Equal(t, float64(1), promtest.ToFloat64(metrics.QueryErrors.WithLabelValues("svc-disc", metrics.QueryTopics)))
}

func TestProgressService_UnknownCluster(t *testing.T) {
	t.Parallel()
	svc := newProgressService(t, "known", testutil.NewFakeAdminClient())

	_, err := svc.AllGroups(context.Background(), "unknown")
	require.ErrorIs(t, err, ErrClusterNotFound)
	_, err = svc.GroupDetail(context.Background(), "unknown", "g")
	require.ErrorIs(t, err, ErrClusterNotFound)
}

func TestProgressService_MissingClient(t *testing.T) {
	t.Parallel()
	repo := testutil.NewFakeClusterRepository()
	repo.Cfgs = []config.ClusterConfig{{Name: "c1"}}
	svc := NewProgressService(NewClusterService(repo))

	_, err := svc.AllGroups(context.Background(), "c1")
	require.ErrorIs(t, err, ErrClusterNotFound)
}

func TestProgressService_GroupDetail(t *testing.T) {
	t.Parallel()
	client := testutil.NewFakeAdminClient()
	client.Stats["g"] = oneQueue(100, 80)
	client.StatsErr["bad"] = errors.New("no such group")

	svc := newProgressService(t, "svc-detail", client)

	stats, err := svc.GroupDetail(context.Background(), "", "g")
	require.NoError(t, err)
	require.Equal(t, int64(20), domain.TotalLag(stats))

	_, err = svc.GroupDetail(context.Background(), "", "bad")
	require.ErrorIs(t, err, ErrGroupQueryFailed)
	require.Contains(t, err.Error(), "no such group")

	stats, err = svc.GroupDetail(context.Background(), "", "unknown-but-ok")
	require.NoError(t, err)
	require.NotNil(t, stats)
	require.Empty(t, stats.Offsets)
}

func TestProgressService_AllGroups_DropsVanishedGroups(t *testing.T) {
	t.Parallel()
	client := testutil.NewFakeAdminClient()
	client.Topics = []string{"%RETRY%kept", "%RETRY%gone"}
	client.Stats["kept"] = oneQueue(10, 5)
	client.Stats["gone"] = oneQueue(100, 0)

	svc := newProgressService(t, "svc-stale", client)
	_, err := svc.AllGroups(context.Background(), "svc-stale")
	require.NoError(t, err)
	require.Equal(t, float64(100), promtest.ToFloat64(metrics.GroupLag.WithLabelValues("svc-stale", "gone")))

	client.Topics = []string{"%RETRY%kept"}
	records, err := svc.AllGroups(context.Background(), "svc-stale")
	require.NoError(t, err)
	require.Len(t, records, 1)

	// DeleteLabelValues reports whether the series was still exported.
	require.False(t, metrics.GroupLag.DeleteLabelValues("svc-stale", "gone"))
	require.False(t, metrics.GroupMembers.DeleteLabelValues("svc-stale", "gone"))
	require.False(t, metrics.GroupTPS.DeleteLabelValues("svc-stale", "gone"))
	require.Equal(t, float64(5), promtest.ToFloat64(metrics.GroupLag.WithLabelValues("svc-stale", "kept")))
}
