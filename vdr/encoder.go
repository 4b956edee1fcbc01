package vdr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"

	"github.com/samber/lo"

	"github.com/tr-sdv-sandbox/vdr-light/telemetry"
)

// Encoder converts telemetry samples into the JSON payloads the offboarding
// side expects and fans them out to the configured sinks. A sink failure is
// logged per sink and never stops the other sinks.
type Encoder struct {
	log   *slog.Logger
	sinks []Sink
}

func NewEncoder(log *slog.Logger, sinks ...Sink) *Encoder {
	return &Encoder{log: log, sinks: sinks}
}

func encodeHeader(h telemetry.Header) map[string]any {
	return map[string]any{
		"source_id":      h.SourceID,
		"timestamp_ns":   h.TimestampNS,
		"seq_num":        h.SeqNum,
		"correlation_id": h.CorrelationID,
	}
}

func (e *Encoder) publish(ctx context.Context, topic string, payload map[string]any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		e.log.Error("failed to encode payload", "topic", topic, "err", err)
		return
	}
	for _, sink := range e.sinks {
		if err := sink.Publish(ctx, topic, raw); err != nil {
			e.log.Warn("sink rejected payload", "topic", topic, "err", err)
		}
	}
}

func (e *Encoder) SendSignal(ctx context.Context, msg *telemetry.Signal) {
	e.publish(ctx, OffboardVSSSignals, map[string]any{
		"header":     encodeHeader(msg.Header),
		"path":       msg.Path,
		"quality":    int32(msg.Quality),
		"value_type": int32(msg.ValueType),
		"value":      msg.Value(),
	})
}

func (e *Encoder) SendEvent(ctx context.Context, msg *telemetry.Event) {
	payload := map[string]any{
		"header":     encodeHeader(msg.Header),
		"event_id":   msg.EventID,
		"category":   msg.Category,
		"event_type": msg.EventType,
		"severity":   int32(msg.Severity),
	}
	if len(msg.Payload) > 0 {
		payload["payload_size"] = len(msg.Payload)
		payload["payload"] = base64.StdEncoding.EncodeToString(msg.Payload)
	}
	e.publish(ctx, OffboardEvents, payload)
}

func (e *Encoder) SendGauge(ctx context.Context, msg *telemetry.Gauge) {
	e.publish(ctx, OffboardGauges, map[string]any{
		"header": encodeHeader(msg.Header),
		"name":   msg.Name,
		"labels": msg.Labels,
		"value":  msg.Value,
	})
}

func (e *Encoder) SendCounter(ctx context.Context, msg *telemetry.Counter) {
	e.publish(ctx, OffboardCounters, map[string]any{
		"header": encodeHeader(msg.Header),
		"name":   msg.Name,
		"labels": msg.Labels,
		"value":  msg.Value,
	})
}

func (e *Encoder) SendHistogram(ctx context.Context, msg *telemetry.Histogram) {
	buckets := lo.Map(msg.Buckets, func(b telemetry.Bucket, _ int) map[string]any {
		return map[string]any{"upper_bound": b.UpperBound, "count": b.Count}
	})
	e.publish(ctx, OffboardHistograms, map[string]any{
		"header":  encodeHeader(msg.Header),
		"name":    msg.Name,
		"labels":  msg.Labels,
		"buckets": buckets,
		"sum":     msg.Sum,
		"count":   msg.Count,
	})
}

func (e *Encoder) SendLogEntry(ctx context.Context, msg *telemetry.LogEntry) {
	e.publish(ctx, OffboardLogs, map[string]any{
		"header":  encodeHeader(msg.Header),
		"level":   int32(msg.Level),
		"logger":  msg.Logger,
		"message": msg.Message,
	})
}

func (e *Encoder) SendScalarMeasurement(ctx context.Context, msg *telemetry.ScalarMeasurement) {
	e.publish(ctx, OffboardScalarDiags, map[string]any{
		"header": encodeHeader(msg.Header),
		"name":   msg.Name,
		"unit":   msg.Unit,
		"value":  msg.Value,
	})
}

func (e *Encoder) SendVectorMeasurement(ctx context.Context, msg *telemetry.VectorMeasurement) {
	e.publish(ctx, OffboardVectorDiags, map[string]any{
		"header": encodeHeader(msg.Header),
		"name":   msg.Name,
		"unit":   msg.Unit,
		"values": msg.Values,
	})
}
