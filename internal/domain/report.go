package domain

// GroupReportRecord is one row of the all-groups report. Fields whose source query failed keep
// their zero value.
type GroupReportRecord struct {
	Group        string          `json:"group"`
	Count        int             `json:"count"`
	Version      ProtocolVersion `json:"version"`
	ConsumeType  ConsumeType     `json:"consume_type"`
	MessageModel MessageModel    `json:"message_model"`
	ConsumeTPS   float64         `json:"consume_tps"`
	DiffTotal    int64           `json:"diff_total"`
}

// GroupOutcome is the result of querying one group. Stats and Conn are nil when the
// corresponding query failed, in which case the matching error is set.
type GroupOutcome struct {
	Group    string
	Stats    *GroupStats
	StatsErr error
	Conn     *GroupConnectionInfo
	ConnErr  error
}

// Record merges whatever part of the outcome succeeded into a report record.
func (o GroupOutcome) Record() GroupReportRecord {
	rec := GroupReportRecord{Group: o.Group}
	if o.Stats != nil {
		rec.ConsumeTPS = o.Stats.ConsumeTPS
		rec.DiffTotal = TotalLag(o.Stats)
	}
	if o.Conn != nil {
		rec.Count = o.Conn.Connections
		rec.ConsumeType = o.Conn.ConsumeType
		rec.MessageModel = o.Conn.MessageModel
		rec.Version = o.Conn.MinVersion
	}
	return rec
}
