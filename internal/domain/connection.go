package domain

import "strconv"

// ConsumeType is how a group receives messages.
type ConsumeType int

const (
	// ConsumeActively means consumers pull on their own schedule.
	ConsumeActively ConsumeType = iota
	// ConsumePassively means messages are pushed to consumers.
	ConsumePassively
)

// String returns PULL or PUSH.
func (t ConsumeType) String() string {
	if t == ConsumePassively {
		return "PUSH"
	}
	return "PULL"
}

// MessageModel is how messages are delivered across the members of a group.
type MessageModel int

const (
	// Clustering delivers each message to exactly one member.
	Clustering MessageModel = iota
	// Broadcasting delivers each message to every member.
	Broadcasting
)

func (m MessageModel) String() string {
	if m == Broadcasting {
		return "BROADCASTING"
	}
	return "CLUSTERING"
}

// ProtocolVersion is the client protocol version declared by a consumer.
type ProtocolVersion int16

func (v ProtocolVersion) String() string {
	return "V" + strconv.Itoa(int(v))
}

// GroupConnectionInfo describes the live connections of a group.
type GroupConnectionInfo struct {
	Connections  int
	ConsumeType  ConsumeType
	MessageModel MessageModel
	// MinVersion is the lowest protocol version among the connections.
	MinVersion ProtocolVersion
}
