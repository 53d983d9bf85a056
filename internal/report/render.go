// Package report renders consumer progress as fixed-width text tables.
package report

import (
	"fmt"
	"io"

	"github.com/OliveiraNt/consumer-progress/internal/domain"
)

const nameWidth = 32

const (
	detailHeader = "%-32s  %-32s  %-4s  %-20s  %-20s  %s\n"
	detailRow    = "%-32s  %-32s  %-4d  %-20d  %-20d  %d\n"
	groupsHeader = "%-32s  %-6s  %-24s %-5s  %-14s  %-7s  %s\n"
	groupsRow    = "%-32s  %-6d  %-24s %-5s  %-14s  %-7d  %d\n"
)

// tableWriter keeps the first write error so callers check once at the end.
type tableWriter struct {
	w   io.Writer
	err error
}

func (t *tableWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

// RenderGroupDetail writes every queue of stats in queue order, followed by the consume
// TPS and the total diff.
func RenderGroupDetail(w io.Writer, stats *domain.GroupStats) error {
	tw := &tableWriter{w: w}
	tw.printf(detailHeader, "#Topic", "#Broker Name", "#QID", "#Broker Offset", "#Consumer Offset", "#Diff")

	var diffTotal int64
	var tps float64
	if stats != nil {
		tps = stats.ConsumeTPS
		for _, mq := range stats.SortedQueues() {
			pair := stats.Offsets[mq]
			diff := domain.Lag(pair)
			diffTotal += diff
			tw.printf(detailRow, truncate(mq.Topic, nameWidth), truncate(mq.BrokerName, nameWidth), mq.QueueID,
				pair.BrokerOffset, pair.ConsumerOffset, diff)
		}
	}

	tw.printf("\n")
	tw.printf("Consume TPS: %d\n", int64(tps))
	tw.printf("Diff Total: %d\n", diffTotal)
	return tw.err
}

// RenderAllGroups writes one row per record, in the given order.
func RenderAllGroups(w io.Writer, records []domain.GroupReportRecord) error {
	tw := &tableWriter{w: w}
	tw.printf(groupsHeader, "#Group", "#Count", "#Version", "#Type", "#Model", "#TPS", "#Diff Total")
	for _, r := range records {
		tw.printf(groupsRow,
			truncate(r.Group, nameWidth),
			r.Count,
			VersionLabel(r.Count, r.Version),
			TypeLabel(r.Count, r.ConsumeType),
			ModelLabel(r.Count, r.ConsumeType, r.MessageModel),
			int64(r.ConsumeTPS),
			r.DiffTotal,
		)
	}
	return tw.err
}

// TypeLabel is PULL or PUSH, blank for a group without connections.
func TypeLabel(count int, t domain.ConsumeType) string {
	if count == 0 {
		return ""
	}
	return t.String()
}

// ModelLabel is the delivery model of a push group with connections. Pull consumers
// choose their own queues, so no model is shown for them.
func ModelLabel(count int, t domain.ConsumeType, m domain.MessageModel) string {
	if count == 0 || t != domain.ConsumePassively {
		return ""
	}
	return m.String()
}

// VersionLabel is the minimum client version, blank for a group without connections.
func VersionLabel(count int, v domain.ProtocolVersion) string {
	if count == 0 {
		return ""
	}
	return v.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
