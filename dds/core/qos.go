package core

import "time"

type ReliabilityKind int32

const (
	ReliabilityBestEffort ReliabilityKind = iota
	ReliabilityReliable
)

type DurabilityKind int32

const (
	DurabilityVolatile DurabilityKind = iota
	DurabilityTransientLocal
)

type HistoryKind int32

const (
	HistoryKeepLast HistoryKind = iota
	HistoryKeepAll
)

// Qos is a policy container consumed at entity creation. A nil *Qos means
// middleware defaults: best-effort, volatile, keep-last(1).
type Qos struct {
	Reliability     ReliabilityKind
	MaxBlockingTime time.Duration
	Durability      DurabilityKind
	History         HistoryKind
	Depth           int32
}

// NewQos returns a policy container holding the middleware defaults.
func NewQos() *Qos {
	return &Qos{
		Reliability: ReliabilityBestEffort,
		Durability:  DurabilityVolatile,
		History:     HistoryKeepLast,
		Depth:       1,
	}
}

func (q *Qos) SetReliability(kind ReliabilityKind, maxBlocking time.Duration) {
	q.Reliability = kind
	q.MaxBlockingTime = maxBlocking
}

func (q *Qos) SetDurability(kind DurabilityKind) {
	q.Durability = kind
}

func (q *Qos) SetHistory(kind HistoryKind, depth int32) {
	q.History = kind
	q.Depth = depth
}

// clone snapshots a policy so entities never alias caller-owned containers.
func (q *Qos) clone() *Qos {
	if q == nil {
		return NewQos()
	}
	c := *q
	return &c
}

// compatible applies the requested/offered matching rules: a reader asking
// for a stronger policy than the writer offers does not match.
func compatible(offered, requested *Qos) bool {
	if requested.Reliability == ReliabilityReliable && offered.Reliability == ReliabilityBestEffort {
		return false
	}
	if requested.Durability == DurabilityTransientLocal && offered.Durability == DurabilityVolatile {
		return false
	}
	return true
}
