package dds

import "time"

// Named QoS presets shared by the probes and the readout side. Keeping both
// ends on the same preset guarantees endpoint matching.

// ReliableCritical is for events that must not be lost: reliable delivery
// with a 10s blocking budget, transient-local durability so the last known
// state survives writer restarts, unbounded history.
func ReliableCritical() (*QosBuilder, error) {
	qos, err := NewQos()
	if err != nil {
		return nil, err
	}
	qos.ReliabilityReliable(10 * time.Second).
		DurabilityTransientLocal().
		HistoryKeepAll()
	return qos, nil
}

// ReliableStandard is for important data with bounded history: reliable
// delivery with a 1s blocking budget, volatile durability, keep-last depth.
func ReliableStandard(depth int32) (*QosBuilder, error) {
	qos, err := NewQos()
	if err != nil {
		return nil, err
	}
	qos.ReliabilityReliable(time.Second).
		DurabilityVolatile().
		HistoryKeepLast(depth)
	return qos, nil
}

// BestEffort is for high-frequency, loss-tolerant data.
func BestEffort(depth int32) (*QosBuilder, error) {
	qos, err := NewQos()
	if err != nil {
		return nil, err
	}
	qos.ReliabilityBestEffort().
		DurabilityVolatile().
		HistoryKeepLast(depth)
	return qos, nil
}
