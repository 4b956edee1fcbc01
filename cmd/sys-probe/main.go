// sys-probe publishes process health metrics of the probe host onto the
// telemetry gauge and counter topics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tr-sdv-sandbox/vdr-light/dds"
	"github.com/tr-sdv-sandbox/vdr-light/internal/logs"
	"github.com/tr-sdv-sandbox/vdr-light/probes/sysmon"
	"github.com/tr-sdv-sandbox/vdr-light/runtime"
	"github.com/tr-sdv-sandbox/vdr-light/telemetry"
)

const (
	exitOK      = 0
	exitRuntime = 1
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sys-probe terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	domainID := flag.Uint("domain", uint(dds.DomainDefault), "middleware domain id")
	interval := flag.Duration("interval", 5*time.Second, "metrics publication interval")
	logLevel := flag.String("log-level", "INFO", "log level")
	flag.Parse()

	log := logs.FromLevelString(*logLevel)
	dds.SetLogger(log)

	participant, err := dds.NewParticipant(uint32(*domainID), nil)
	if err != nil {
		return exitRuntime, fmt.Errorf("participant creation failed: %w", err)
	}
	defer participant.Close()

	qos, err := dds.BestEffort(16)
	if err != nil {
		return exitRuntime, err
	}

	gaugeTopic, err := dds.NewTopic[telemetry.Gauge](participant, telemetry.GaugeDesc, telemetry.TopicGauges, qos)
	if err != nil {
		return exitRuntime, fmt.Errorf("gauge topic creation failed: %w", err)
	}
	defer gaugeTopic.Close()
	gauges, err := dds.NewWriter(participant, gaugeTopic, qos)
	if err != nil {
		return exitRuntime, fmt.Errorf("gauge writer creation failed: %w", err)
	}
	defer gauges.Close()

	counterTopic, err := dds.NewTopic[telemetry.Counter](participant, telemetry.CounterDesc, telemetry.TopicCounters, qos)
	if err != nil {
		return exitRuntime, fmt.Errorf("counter topic creation failed: %w", err)
	}
	defer counterTopic.Close()
	counters, err := dds.NewWriter(participant, counterTopic, qos)
	if err != nil {
		return exitRuntime, fmt.Errorf("counter writer creation failed: %w", err)
	}
	defer counters.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	monitor := sysmon.NewMonitor(log, "sys_probe", *interval, gauges, counters)
	sup := runtime.NewSupervisor(log)
	sup.Add(monitor).Run(ctx)

	log.Info("Program stopped cleanly")
	return exitOK, nil
}
