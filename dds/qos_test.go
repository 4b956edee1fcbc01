package dds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tr-sdv-sandbox/vdr-light/dds/core"
)

func TestQosBuilderFluentChaining(t *testing.T) {
	req := require.New(t)

	qos, err := NewQos()
	req.NoError(err)

	// Every setter mutates and returns the same builder.
	same := qos.ReliabilityReliable(2 * time.Second).
		DurabilityTransientLocal().
		HistoryKeepLast(5)
	req.Same(qos, same)

	reliability, maxBlocking := qos.Reliability()
	req.Equal(core.ReliabilityReliable, reliability)
	req.Equal(2*time.Second, maxBlocking)
	req.Equal(core.DurabilityTransientLocal, qos.Durability())

	history, depth := qos.History()
	req.Equal(core.HistoryKeepLast, history)
	req.Equal(int32(5), depth)
}

func TestReliableCriticalProfile(t *testing.T) {
	req := require.New(t)

	qos, err := ReliableCritical()
	req.NoError(err)

	reliability, maxBlocking := qos.Reliability()
	req.Equal(core.ReliabilityReliable, reliability)
	req.Equal(10*time.Second, maxBlocking)
	req.Equal(core.DurabilityTransientLocal, qos.Durability())

	history, _ := qos.History()
	req.Equal(core.HistoryKeepAll, history)
}

func TestReliableStandardProfile(t *testing.T) {
	req := require.New(t)

	qos, err := ReliableStandard(100)
	req.NoError(err)

	reliability, maxBlocking := qos.Reliability()
	req.Equal(core.ReliabilityReliable, reliability)
	req.Equal(time.Second, maxBlocking)
	req.Equal(core.DurabilityVolatile, qos.Durability())

	history, depth := qos.History()
	req.Equal(core.HistoryKeepLast, history)
	req.Equal(int32(100), depth)
}

func TestBestEffortProfile(t *testing.T) {
	req := require.New(t)

	qos, err := BestEffort(1)
	req.NoError(err)

	reliability, _ := qos.Reliability()
	req.Equal(core.ReliabilityBestEffort, reliability)
	req.Equal(core.DurabilityVolatile, qos.Durability())

	history, depth := qos.History()
	req.Equal(core.HistoryKeepLast, history)
	req.Equal(int32(1), depth)
}
