// Package canvss transforms raw CAN signals into VSS data points: bit-level
// frame decoding, a dependency-ordered mapping pipeline with linear and
// value-map transforms, quality tracking, and a simulation source for
// running without a CAN interface.
package canvss

import "fmt"

// Frame is one raw CAN frame.
type Frame struct {
	ID   uint32
	Data []byte
}

// extractBits pulls length bits out of data starting at startBit. Intel
// (little-endian) numbering counts the start bit as the LSB; Motorola
// (big-endian) counts it as the MSB with the usual sawtooth bit order.
func extractBits(data []byte, startBit, length int, bigEndian bool) (uint64, error) {
	if length <= 0 || length > 64 {
		return 0, fmt.Errorf("signal length %d out of range", length)
	}

	var value uint64
	if bigEndian {
		bit := startBit
		for i := 0; i < length; i++ {
			byteIdx, bitIdx := bit/8, bit%8
			if byteIdx >= len(data) {
				return 0, fmt.Errorf("signal exceeds frame: byte %d of %d", byteIdx, len(data))
			}
			value = value<<1 | uint64(data[byteIdx]>>bitIdx&1)
			if bitIdx == 0 {
				bit = (byteIdx+1)*8 + 7
			} else {
				bit--
			}
		}
		return value, nil
	}

	for i := 0; i < length; i++ {
		bit := startBit + i
		byteIdx, bitIdx := bit/8, bit%8
		if byteIdx >= len(data) {
			return 0, fmt.Errorf("signal exceeds frame: byte %d of %d", byteIdx, len(data))
		}
		value |= uint64(data[byteIdx]>>bitIdx&1) << i
	}
	return value, nil
}

// signExtend interprets a length-bit raw value as two's complement.
func signExtend(raw uint64, length int) int64 {
	if length == 64 {
		return int64(raw)
	}
	sign := uint64(1) << (length - 1)
	if raw&sign != 0 {
		return int64(raw | ^(sign<<1 - 1))
	}
	return int64(raw)
}

// Decode extracts the physical value of one source spec from a frame.
func (s SourceSpec) Decode(frame Frame) (float64, error) {
	raw, err := extractBits(frame.Data, s.StartBit, s.Length, s.BigEndian)
	if err != nil {
		return 0, err
	}
	var scaled float64
	if s.Signed {
		scaled = float64(signExtend(raw, s.Length))
	} else {
		scaled = float64(raw)
	}
	return scaled*s.Factor + s.Offset, nil
}

// Decoder maps incoming frames to the raw signal updates the processor
// consumes, using the dbc-sourced entries of the mapping config.
type Decoder struct {
	byFrame map[uint32][]decoderEntry
}

type decoderEntry struct {
	signal string
	source SourceSpec
}

// NewDecoder indexes every dbc-sourced mapping by frame id.
func NewDecoder(mappings []SignalMapping) *Decoder {
	d := &Decoder{byFrame: make(map[uint32][]decoderEntry)}
	for _, m := range mappings {
		if m.Source.Type != SourceDBC {
			continue
		}
		d.byFrame[m.Source.CANID] = append(d.byFrame[m.Source.CANID], decoderEntry{
			signal: m.Signal,
			source: m.Source,
		})
	}
	return d
}

// Decode turns one frame into signal updates. A decode failure yields an
// invalid-quality update rather than dropping the signal silently.
func (d *Decoder) Decode(frame Frame) []Update {
	entries := d.byFrame[frame.ID]
	if len(entries) == 0 {
		return nil
	}
	updates := make([]Update, 0, len(entries))
	for _, entry := range entries {
		value, err := entry.source.Decode(frame)
		if err != nil {
			updates = append(updates, Update{Signal: entry.signal, Quality: QualityInvalid})
			continue
		}
		updates = append(updates, Update{Signal: entry.signal, Value: value, Quality: QualityValid})
	}
	return updates
}
