// vssdag-probe runs the CAN-to-VSS mapping pipeline: raw signal updates go
// through the dependency graph of the mapping config and come out as VSS
// signals on the telemetry topic.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tr-sdv-sandbox/vdr-light/canvss"
	"github.com/tr-sdv-sandbox/vdr-light/dds"
	"github.com/tr-sdv-sandbox/vdr-light/internal/logs"
	"github.com/tr-sdv-sandbox/vdr-light/runtime"
	"github.com/tr-sdv-sandbox/vdr-light/telemetry"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const sourceID = "vssdag_probe"

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "vssdag-probe terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	domainID := flag.Uint("domain", uint(dds.DomainDefault), "middleware domain id")
	configPath := flag.String("config", "config/signal-mappings.yaml", "signal mapping config")
	canInterface := flag.String("interface", "", "CAN interface (empty runs the simulated source)")
	pollInterval := flag.Duration("poll", 100*time.Millisecond, "source poll interval")
	logLevel := flag.String("log-level", "INFO", "log level")
	flag.Parse()

	if *canInterface != "" {
		return exitConfig, fmt.Errorf("SocketCAN input is not available in this build; run with the simulated source")
	}

	log := logs.FromLevelString(*logLevel)
	dds.SetLogger(log)

	mappings, err := canvss.LoadMappings(*configPath)
	if err != nil {
		return exitConfig, err
	}
	processor, err := canvss.NewProcessor(mappings)
	if err != nil {
		return exitConfig, err
	}

	participant, err := dds.NewParticipant(uint32(*domainID), nil)
	if err != nil {
		return exitRuntime, fmt.Errorf("participant creation failed: %w", err)
	}
	defer participant.Close()

	qos, err := dds.ReliableStandard(100)
	if err != nil {
		return exitRuntime, err
	}
	topic, err := dds.NewTopic[telemetry.Signal](participant, telemetry.SignalDesc, telemetry.TopicVSSSignals, qos)
	if err != nil {
		return exitRuntime, fmt.Errorf("topic creation failed: %w", err)
	}
	defer topic.Close()

	writer, err := dds.NewWriter(participant, topic, qos)
	if err != nil {
		return exitRuntime, fmt.Errorf("writer creation failed: %w", err)
	}
	defer writer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting VSS DAG probe",
		"domain", *domainID,
		"config", *configPath,
		"signals", len(mappings),
	)

	worker := &PipelineWorker{
		log:       log,
		processor: processor,
		source:    canvss.NewSimSource(*pollInterval),
		writer:    writer,
		interval:  *pollInterval,
	}
	sup := runtime.NewSupervisor(log)
	sup.Add(worker).Run(ctx)

	log.Info("Stopping VSS DAG probe")
	return exitOK, nil
}

// PipelineWorker polls the signal source, runs the mapping pipeline and
// publishes the resulting VSS signals.
type PipelineWorker struct {
	log       *slog.Logger
	processor *canvss.Processor
	source    *canvss.SimSource
	writer    *dds.Writer[telemetry.Signal]
	interval  time.Duration
}

func (w *PipelineWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			now := time.Now()
			out := w.processor.Process(w.source.Poll(now), now)
			out = append(out, w.processor.Tick(now)...)
			for _, sig := range out {
				sample, ok := canvss.TelemetrySignal(sig, telemetry.NewHeader(sourceID))
				if !ok {
					w.log.Warn("Signal value not representable", "path", sig.Path)
					continue
				}
				if err := w.writer.Write(sample); err != nil {
					w.log.Warn("Failed to publish signal", "path", sig.Path, "err", err)
				}
			}
		}
	}
}
