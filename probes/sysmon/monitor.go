// Package sysmon publishes process health metrics of the probe itself:
// resident memory, CPU usage and a monotonic sample counter, as telemetry
// gauges and counters.
package sysmon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"github.com/tr-sdv-sandbox/vdr-light/telemetry"
)

// GaugeWriter and CounterWriter are the metric outputs the monitor feeds.
type GaugeWriter interface {
	Write(sample telemetry.Gauge) error
}

type CounterWriter interface {
	Write(sample telemetry.Counter) error
}

// Monitor samples the current process at a fixed interval and publishes the
// readings.
type Monitor struct {
	log      *slog.Logger
	sourceID string
	interval time.Duration
	gauges   GaugeWriter
	counters CounterWriter

	cycles uint64
}

func NewMonitor(
	log *slog.Logger,
	sourceID string,
	interval time.Duration,
	gauges GaugeWriter,
	counters CounterWriter,
) *Monitor {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Monitor{
		log:      log,
		sourceID: sourceID,
		interval: interval,
		gauges:   gauges,
		counters: counters,
	}
}

// Run publishes one metrics batch per interval until the context ends.
func (m *Monitor) Run(ctx context.Context) error {
	m.log.Info("Starting system monitor", "interval", m.interval)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return fmt.Errorf("failed to open self process: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			stats, err := selfStats(p)
			if err != nil {
				m.log.Error("Failed to collect self stats", "err", err)
				continue
			}
			if err := m.publish(stats); err != nil {
				m.log.Warn("Failed to publish metrics", "err", err)
			}
		}
	}
}

type processStats struct {
	rssBytes   uint64
	cpuPercent float64
	status     string
}

// selfStats retrieves technical metrics (Memory, CPU and OS status) for the
// given process.
func selfStats(p *process.Process) (processStats, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return processStats{}, err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return processStats{}, err
	}

	status, err := p.Status()
	if err != nil {
		return processStats{}, err
	}
	return processStats{rssBytes: memInfo.RSS, cpuPercent: cpuPercent, status: status}, nil
}

func (m *Monitor) publish(stats processStats) error {
	labels := map[string]string{
		"pid":    fmt.Sprintf("%d", os.Getpid()),
		"status": stats.status,
	}

	if err := m.gauges.Write(telemetry.Gauge{
		Header: telemetry.NewHeader(m.sourceID),
		Name:   "process_rss_bytes",
		Labels: labels,
		Value:  float64(stats.rssBytes),
	}); err != nil {
		return err
	}
	if err := m.gauges.Write(telemetry.Gauge{
		Header: telemetry.NewHeader(m.sourceID),
		Name:   "process_cpu_percent",
		Labels: labels,
		Value:  stats.cpuPercent,
	}); err != nil {
		return err
	}

	m.cycles++
	return m.counters.Write(telemetry.Counter{
		Header: telemetry.NewHeader(m.sourceID),
		Name:   "sysmon_cycles_total",
		Labels: map[string]string{"pid": labels["pid"]},
		Value:  m.cycles,
	})
}
