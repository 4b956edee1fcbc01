package sysmon

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/shirou/gopsutil/process"
	"github.com/stretchr/testify/require"

	"github.com/tr-sdv-sandbox/vdr-light/telemetry"
)

type captureGauges struct {
	samples chan telemetry.Gauge
}

func (c *captureGauges) Write(sample telemetry.Gauge) error {
	c.samples <- sample
	return nil
}

type captureCounters struct {
	samples chan telemetry.Counter
}

func (c *captureCounters) Write(sample telemetry.Counter) error {
	c.samples <- sample
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSelfStats(t *testing.T) {
	req := require.New(t)

	p, err := process.NewProcess(int32(os.Getpid()))
	req.NoError(err)

	stats, err := selfStats(p)
	req.NoError(err)
	req.Greater(stats.rssBytes, uint64(0))
	req.NotEmpty(stats.status)
}

func TestMonitorPublishesEachInterval(t *testing.T) {
	req := require.New(t)

	gauges := &captureGauges{samples: make(chan telemetry.Gauge, 16)}
	counters := &captureCounters{samples: make(chan telemetry.Counter, 16)}
	monitor := NewMonitor(testLogger(), "sys_probe", 20*time.Millisecond, gauges, counters)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- monitor.Run(ctx) }()

	var names []string
	deadline := time.After(2 * time.Second)
	for len(names) < 2 {
		select {
		case g := <-gauges.samples:
			req.Equal("sys_probe", g.Header.SourceID)
			req.NotEmpty(g.Labels["pid"])
			names = append(names, g.Name)
		case <-deadline:
			t.Fatal("no gauges published in time")
		}
	}
	req.Contains(names, "process_rss_bytes")
	req.Contains(names, "process_cpu_percent")

	select {
	case c := <-counters.samples:
		req.Equal("sysmon_cycles_total", c.Name)
		req.Equal(uint64(1), c.Value)
	case <-time.After(2 * time.Second):
		t.Fatal("no counter published in time")
	}

	cancel()
	select {
	case err := <-done:
		req.True(errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop on cancel")
	}
}
