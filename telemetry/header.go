// Package telemetry defines the sample types exchanged between the probes
// and the readout side, their schema descriptors and topic names.
package telemetry

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Header is common to every telemetry sample.
type Header struct {
	SourceID      string `json:"source_id"`
	TimestampNS   int64  `json:"timestamp_ns"`
	SeqNum        uint32 `json:"seq_num"`
	CorrelationID string `json:"correlation_id"`
}

var sequences = struct {
	sync.Mutex
	bySource map[string]uint32
}{bySource: make(map[string]uint32)}

// NewHeader stamps a header for the given source: current nanosecond
// timestamp, per-source sequence number, fresh correlation id.
func NewHeader(sourceID string) Header {
	sequences.Lock()
	seq := sequences.bySource[sourceID]
	sequences.bySource[sourceID] = seq + 1
	sequences.Unlock()

	return Header{
		SourceID:      sourceID,
		TimestampNS:   time.Now().UnixNano(),
		SeqNum:        seq,
		CorrelationID: uuid.NewString(),
	}
}
