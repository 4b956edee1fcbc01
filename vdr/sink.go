package vdr

import (
	"context"
	"log/slog"
)

// Offboard topic names, as they would appear on the MQTT side.
const (
	OffboardVSSSignals  = "v1/vss/signals"
	OffboardEvents      = "v1/events"
	OffboardGauges      = "v1/telemetry/gauges"
	OffboardCounters    = "v1/telemetry/counters"
	OffboardHistograms  = "v1/telemetry/histograms"
	OffboardLogs        = "v1/logs"
	OffboardScalarDiags = "v1/diagnostics/scalar"
	OffboardVectorDiags = "v1/diagnostics/vector"
)

// Sink consumes encoded payloads bound for offboarding.
type Sink interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// LogSink logs what would be sent over MQTT. In production this slot is
// taken by a real MQTT client with batching and a compact binary encoding.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) LogSink {
	return LogSink{log: log}
}

func (s LogSink) Publish(_ context.Context, topic string, payload []byte) error {
	s.log.Info("[MQTT]", "topic", topic, "payload", string(payload))
	return nil
}
