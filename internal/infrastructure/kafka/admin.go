package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"slices"
	"strconv"
	"time"

	"github.com/OliveiraNt/consumer-progress/internal/domain"
	"github.com/OliveiraNt/consumer-progress/internal/utils"
	"github.com/samber/lo"
	"github.com/twmb/franz-go/pkg/kadm"
)

var (
	// ErrConnection is returned when the cluster cannot be reached.
	ErrConnection = errors.New("kafka connection failed")
	// ErrRemoteQuery is returned when a per-group admin request fails.
	ErrRemoteQuery = errors.New("kafka admin query failed")
)

// offsetAdmin is the subset of *kadm.Client used to build group reports.
type offsetAdmin interface {
	ListTopicsWithInternal(ctx context.Context, topics ...string) (kadm.TopicDetails, error)
	FetchOffsets(ctx context.Context, group string) (kadm.OffsetResponses, error)
	ListEndOffsets(ctx context.Context, topics ...string) (kadm.ListedOffsets, error)
	Metadata(ctx context.Context, topics ...string) (kadm.Metadata, error)
	DescribeGroups(ctx context.Context, groups ...string) (kadm.DescribedGroups, error)
}

type Admin struct {
	client  offsetAdmin
	timeout time.Duration
	window  time.Duration
}

// NewAdmin creates a new Admin. A zero window disables throughput sampling.
func NewAdmin(client offsetAdmin, timeout, window time.Duration) *Admin {
	return &Admin{client: client, timeout: timeout, window: window}
}

func (a *Admin) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}

// ListTopics returns the names of all topics, internal ones included.
func (a *Admin) ListTopics(ctx context.Context) ([]string, error) {
	cctx, cancel := a.withTimeout(ctx)
	defer cancel()

	topics, err := a.client.ListTopicsWithInternal(cctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	names := topics.Names()
	slices.Sort(names)
	return names, nil
}

// QueryStats returns the broker and committed offsets of every partition the group
// has committed to, keyed by queue.
func (a *Admin) QueryStats(ctx context.Context, group string) (*domain.GroupStats, error) {
	commits, err := a.fetchCommitted(ctx, group)
	if err != nil {
		return nil, err
	}

	topics := lo.Keys(commits)
	stats := &domain.GroupStats{Offsets: map[domain.MessageQueue]domain.OffsetPair{}}
	if len(topics) == 0 {
		return stats, nil
	}

	cctx, cancel := a.withTimeout(ctx)
	defer cancel()

	meta, err := a.client.Metadata(cctx, topics...)
	if err != nil {
		return nil, fmt.Errorf("%w: metadata for %s: %w", ErrRemoteQuery, group, err)
	}
	ends, err := a.client.ListEndOffsets(cctx, topics...)
	if err != nil {
		return nil, fmt.Errorf("%w: end offsets for %s: %w", ErrRemoteQuery, group, err)
	}

	stats = buildGroupStats(commits, ends, meta)
	if a.window > 0 {
		tps, err := a.sampleThroughput(ctx, group, commits)
		if err != nil {
			utils.Logger.Warn("throughput sampling failed", "group", group, "err", err)
		} else {
			stats.ConsumeTPS = tps
		}
	}
	return stats, nil
}

func (a *Admin) fetchCommitted(ctx context.Context, group string) (kadm.OffsetResponses, error) {
	cctx, cancel := a.withTimeout(ctx)
	defer cancel()

	commits, err := a.client.FetchOffsets(cctx, group)
	if err != nil {
		return nil, fmt.Errorf("%w: offsets for %s: %w", ErrRemoteQuery, group, err)
	}
	if err := commits.Error(); err != nil {
		return nil, fmt.Errorf("%w: offsets for %s: %w", ErrRemoteQuery, group, err)
	}
	return commits, nil
}

// sampleThroughput waits one window and divides the committed progress by it.
func (a *Admin) sampleThroughput(ctx context.Context, group string, before kadm.OffsetResponses) (float64, error) {
	timer := time.NewTimer(a.window)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%w: throughput for %s: %w", ErrRemoteQuery, group, ctx.Err())
	case <-timer.C:
	}

	after, err := a.fetchCommitted(ctx, group)
	if err != nil {
		return 0, err
	}
	return float64(committedDelta(before, after)) / a.window.Seconds(), nil
}

// committedDelta sums the forward progress of every partition present in both samples.
func committedDelta(before, after kadm.OffsetResponses) int64 {
	var delta int64
	after.Each(func(o kadm.OffsetResponse) {
		prev, ok := before.Lookup(o.Topic, o.Partition)
		if !ok || prev.Err != nil || o.Err != nil || prev.At < 0 {
			return
		}
		if d := o.At - prev.At; d > 0 {
			delta += d
		}
	})
	return delta
}

func buildGroupStats(commits kadm.OffsetResponses, ends kadm.ListedOffsets, meta kadm.Metadata) *domain.GroupStats {
	brokers := make(map[int32]string, len(meta.Brokers))
	for _, b := range meta.Brokers {
		brokers[b.NodeID] = net.JoinHostPort(b.Host, strconv.Itoa(int(b.Port)))
	}

	stats := &domain.GroupStats{Offsets: map[domain.MessageQueue]domain.OffsetPair{}}
	commits.Each(func(o kadm.OffsetResponse) {
		if o.Err != nil || o.At < 0 {
			return
		}
		end, ok := ends.Lookup(o.Topic, o.Partition)
		if !ok || end.Err != nil {
			return
		}
		q := domain.MessageQueue{
			Topic:      o.Topic,
			BrokerName: brokerName(brokers, meta.Topics, o.Topic, o.Partition),
			QueueID:    o.Partition,
		}
		stats.Offsets[q] = domain.OffsetPair{BrokerOffset: end.Offset, ConsumerOffset: o.At}
	})
	return stats
}

func brokerName(brokers map[int32]string, topics kadm.TopicDetails, topic string, partition int32) string {
	leader := int32(-1)
	if td, ok := topics[topic]; ok {
		if pd, ok := td.Partitions[partition]; ok {
			leader = pd.Leader
		}
	}
	if name, ok := brokers[leader]; ok {
		return name
	}
	return "broker-" + strconv.Itoa(int(leader))
}

// QueryConnectionInfo describes the group and summarizes its members.
func (a *Admin) QueryConnectionInfo(ctx context.Context, group string) (*domain.GroupConnectionInfo, error) {
	cctx, cancel := a.withTimeout(ctx)
	defer cancel()

	described, err := a.client.DescribeGroups(cctx, group)
	if err != nil {
		return nil, fmt.Errorf("%w: describe %s: %w", ErrRemoteQuery, group, err)
	}
	g, ok := described[group]
	if !ok {
		return nil, fmt.Errorf("%w: describe %s: group missing from response", ErrRemoteQuery, group)
	}
	if g.Err != nil {
		return nil, fmt.Errorf("%w: describe %s: %w", ErrRemoteQuery, group, g.Err)
	}
	return connectionInfo(g), nil
}

// connectionInfo maps a described group onto the report's connection summary.
// Kafka consumers always poll and share partitions, so the type is PULL and the
// model CLUSTERING.
func connectionInfo(g kadm.DescribedGroup) *domain.GroupConnectionInfo {
	info := &domain.GroupConnectionInfo{
		Connections:  len(g.Members),
		ConsumeType:  domain.ConsumeActively,
		MessageModel: domain.Clustering,
	}

	versions := lo.FilterMap(g.Members, func(m kadm.DescribedGroupMember, _ int) (int16, bool) {
		meta, ok := m.Join.AsConsumer()
		if !ok || meta == nil {
			return 0, false
		}
		return meta.Version, true
	})
	info.MinVersion = minProtocolVersion(versions)
	return info
}

// minProtocolVersion returns the lowest version, or V0 when no member declared one.
func minProtocolVersion(versions []int16) domain.ProtocolVersion {
	if len(versions) == 0 {
		return 0
	}
	return domain.ProtocolVersion(slices.Min(versions))
}
