package canvss

import "github.com/tr-sdv-sandbox/vdr-light/telemetry"

// TelemetryQuality converts a pipeline quality to the wire enum.
func TelemetryQuality(q Quality) telemetry.Quality {
	switch q {
	case QualityValid:
		return telemetry.QualityValid
	case QualityInvalid:
		return telemetry.QualityInvalid
	default:
		return telemetry.QualityNotAvailable
	}
}

// TelemetrySignal builds the wire sample for one pipeline output, selecting
// the value field from the mapping's declared datatype. It reports false for
// value types the wire format cannot carry.
func TelemetrySignal(sig Signal, header telemetry.Header) (telemetry.Signal, bool) {
	msg := telemetry.Signal{
		Header:  header,
		Path:    sig.Path,
		Quality: TelemetryQuality(sig.Quality),
	}
	if sig.Quality != QualityValid {
		// No value to carry; the quality itself is the information.
		msg.ValueType = telemetry.ValueTypeDouble
		return msg, true
	}

	switch sig.Datatype {
	case "bool":
		v, ok := sig.Value.(bool)
		if !ok {
			return msg, false
		}
		msg.ValueType = telemetry.ValueTypeBool
		msg.BoolValue = v
	case "int8", "int16", "int32", "uint8", "uint16":
		v, ok := numericValue(sig.Value)
		if !ok {
			return msg, false
		}
		msg.ValueType = telemetry.ValueTypeInt32
		msg.Int32Value = int32(v)
	case "int64", "uint32", "uint64":
		v, ok := numericValue(sig.Value)
		if !ok {
			return msg, false
		}
		msg.ValueType = telemetry.ValueTypeInt64
		msg.Int64Value = int64(v)
	case "float":
		v, ok := numericValue(sig.Value)
		if !ok {
			return msg, false
		}
		msg.ValueType = telemetry.ValueTypeFloat
		msg.FloatValue = float32(v)
	case "string":
		v, ok := sig.Value.(string)
		if !ok {
			return msg, false
		}
		msg.ValueType = telemetry.ValueTypeString
		msg.StringValue = v
	default:
		// Unspecified or "double": strings map naturally, numbers default
		// to double.
		if s, ok := sig.Value.(string); ok {
			msg.ValueType = telemetry.ValueTypeString
			msg.StringValue = s
			return msg, true
		}
		v, ok := numericValue(sig.Value)
		if !ok {
			return msg, false
		}
		msg.ValueType = telemetry.ValueTypeDouble
		msg.DoubleValue = v
	}
	return msg, true
}
