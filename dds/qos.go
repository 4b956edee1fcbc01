package dds

import (
	"time"

	"github.com/tr-sdv-sandbox/vdr-light/dds/core"
)

// QosBuilder accumulates delivery policies through fluent setters and is
// consumed by value at entity construction. It is not safe for sharing and
// not meant to be retained afterwards.
type QosBuilder struct {
	qos *core.Qos
}

// NewQos allocates a policy container holding the middleware defaults
// (best-effort, volatile, keep-last 1).
func NewQos() (*QosBuilder, error) {
	qos := core.NewQos()
	if qos == nil {
		return nil, newResourceCreationError(core.RetcodeOutOfResources, "create qos")
	}
	return &QosBuilder{qos: qos}, nil
}

// ReliabilityReliable requests guaranteed delivery; a blocking-reliable
// write may stall up to maxBlocking before being rejected.
func (b *QosBuilder) ReliabilityReliable(maxBlocking time.Duration) *QosBuilder {
	b.qos.SetReliability(core.ReliabilityReliable, maxBlocking)
	return b
}

func (b *QosBuilder) ReliabilityBestEffort() *QosBuilder {
	b.qos.SetReliability(core.ReliabilityBestEffort, 0)
	return b
}

func (b *QosBuilder) DurabilityVolatile() *QosBuilder {
	b.qos.SetDurability(core.DurabilityVolatile)
	return b
}

// DurabilityTransientLocal makes late-joining readers receive the writer's
// retained history.
func (b *QosBuilder) DurabilityTransientLocal() *QosBuilder {
	b.qos.SetDurability(core.DurabilityTransientLocal)
	return b
}

func (b *QosBuilder) HistoryKeepLast(depth int32) *QosBuilder {
	b.qos.SetHistory(core.HistoryKeepLast, depth)
	return b
}

// HistoryKeepAll keeps every sample, bounded only by resource limits.
func (b *QosBuilder) HistoryKeepAll() *QosBuilder {
	b.qos.SetHistory(core.HistoryKeepAll, 0)
	return b
}

// Reliability returns the configured reliability kind and max blocking time.
func (b *QosBuilder) Reliability() (core.ReliabilityKind, time.Duration) {
	return b.qos.Reliability, b.qos.MaxBlockingTime
}

func (b *QosBuilder) Durability() core.DurabilityKind {
	return b.qos.Durability
}

// History returns the configured history kind and depth.
func (b *QosBuilder) History() (core.HistoryKind, int32) {
	return b.qos.History, b.qos.Depth
}

// policy hands the accumulated snapshot to a creation call. nil builders are
// legal and mean middleware defaults.
func (b *QosBuilder) policy() *core.Qos {
	if b == nil {
		return nil
	}
	return b.qos
}
