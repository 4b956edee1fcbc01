package telemetry

import "github.com/tr-sdv-sandbox/vdr-light/dds"

// Topic names as published on the middleware.
const (
	TopicVSSSignals  = "rt/vss/signals"
	TopicEvents      = "rt/events/vehicle"
	TopicGauges      = "rt/telemetry/gauges"
	TopicCounters    = "rt/telemetry/counters"
	TopicHistograms  = "rt/telemetry/histograms"
	TopicLogEntries  = "rt/logs/entries"
	TopicScalarDiags = "rt/diagnostics/scalar"
	TopicVectorDiags = "rt/diagnostics/vector"
)

// Schema descriptors, one per sample type.
const (
	SignalDesc            dds.Descriptor = "telemetry::vss::Signal"
	EventDesc             dds.Descriptor = "telemetry::events::Event"
	GaugeDesc             dds.Descriptor = "telemetry::metrics::Gauge"
	CounterDesc           dds.Descriptor = "telemetry::metrics::Counter"
	HistogramDesc         dds.Descriptor = "telemetry::metrics::Histogram"
	LogEntryDesc          dds.Descriptor = "telemetry::logs::LogEntry"
	ScalarMeasurementDesc dds.Descriptor = "telemetry::diagnostics::ScalarMeasurement"
	VectorMeasurementDesc dds.Descriptor = "telemetry::diagnostics::VectorMeasurement"
)

// Quality of a VSS signal value.
type Quality int32

const (
	QualityValid Quality = iota
	QualityInvalid
	QualityNotAvailable
)

// ValueType discriminates the Signal value union.
type ValueType int32

const (
	ValueTypeBool ValueType = iota
	ValueTypeInt32
	ValueTypeInt64
	ValueTypeFloat
	ValueTypeDouble
	ValueTypeString
)

// Signal is one VSS data point, e.g. Vehicle.Speed.
type Signal struct {
	Header      Header
	Path        string
	Quality     Quality
	ValueType   ValueType
	BoolValue   bool
	Int32Value  int32
	Int64Value  int64
	FloatValue  float32
	DoubleValue float64
	StringValue string
}

// Value returns the field selected by ValueType.
func (s *Signal) Value() any {
	switch s.ValueType {
	case ValueTypeBool:
		return s.BoolValue
	case ValueTypeInt32:
		return s.Int32Value
	case ValueTypeInt64:
		return s.Int64Value
	case ValueTypeFloat:
		return s.FloatValue
	case ValueTypeDouble:
		return s.DoubleValue
	case ValueTypeString:
		return s.StringValue
	default:
		return nil
	}
}

// Severity of a vehicle event.
type Severity int32

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

// Event is a discrete vehicle occurrence with a free-form byte payload.
type Event struct {
	Header    Header
	EventID   string
	Category  string
	EventType string
	Severity  Severity
	Payload   []byte
}

// Gauge is a point-in-time measurement with label dimensions.
type Gauge struct {
	Header Header
	Name   string
	Labels map[string]string
	Value  float64
}

// Counter is a monotonically increasing count with label dimensions.
type Counter struct {
	Header Header
	Name   string
	Labels map[string]string
	Value  uint64
}

// Bucket is one histogram bucket: count of observations at or below the
// upper bound.
type Bucket struct {
	UpperBound float64
	Count      uint64
}

type Histogram struct {
	Header  Header
	Name    string
	Labels  map[string]string
	Buckets []Bucket
	Sum     float64
	Count   uint64
}

type LogLevel int32

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

// LogEntry is a forwarded log line from an on-board component.
type LogEntry struct {
	Header  Header
	Level   LogLevel
	Logger  string
	Message string
}

// ScalarMeasurement is a single diagnostic reading with a unit.
type ScalarMeasurement struct {
	Header Header
	Name   string
	Unit   string
	Value  float64
}

// VectorMeasurement is a multi-element diagnostic reading with a unit.
type VectorMeasurement struct {
	Header Header
	Name   string
	Unit   string
	Values []float64
}
