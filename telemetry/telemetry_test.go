package telemetry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewHeaderSequencesPerSource(t *testing.T) {
	req := require.New(t)

	a0 := NewHeader("probe-a")
	a1 := NewHeader("probe-a")
	b0 := NewHeader("probe-b")

	req.Equal("probe-a", a0.SourceID)
	req.Equal(a0.SeqNum+1, a1.SeqNum)
	req.Zero(b0.SeqNum)

	req.Positive(a0.TimestampNS)
	req.NotEmpty(a0.CorrelationID)
	req.NotEqual(a0.CorrelationID, a1.CorrelationID)
}

func TestSignalValueFollowsType(t *testing.T) {
	req := require.New(t)

	s := Signal{ValueType: ValueTypeDouble, DoubleValue: 88.5, StringValue: "ignored"}
	req.Equal(88.5, s.Value())

	s = Signal{ValueType: ValueTypeString, StringValue: "P", DoubleValue: 3}
	req.Equal("P", s.Value())

	s = Signal{ValueType: ValueTypeBool, BoolValue: true}
	req.Equal(true, s.Value())

	s = Signal{ValueType: ValueType(99)}
	req.Nil(s.Value())
}
