package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"

	"github.com/tr-sdv-sandbox/vdr-light/dds"
	"github.com/tr-sdv-sandbox/vdr-light/internal"
	"github.com/tr-sdv-sandbox/vdr-light/internal/logs"
	"github.com/tr-sdv-sandbox/vdr-light/telemetry"
	"github.com/tr-sdv-sandbox/vdr-light/vdr"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "VDR terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the readout lifecycle, and centralizes
// error reporting, so every defer executes before the process exits.
func run() (int, error) {
	subscriptionsPath := flag.String("subscriptions", "config/subscriptions.yaml", "per-topic subscription toggles")
	flag.Parse()

	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config vdr.RuntimeConfig
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, err
	}

	log := logs.FromLevelString(config.LogLevel)
	dds.SetLogger(log)

	subscriptions := vdr.LoadSubscriptions(*subscriptionsPath, log)

	// 2. Offboarding sinks
	sinks := []vdr.Sink{vdr.NewLogSink(log)}
	if config.RecordToDisk {
		db, err := badger.Open(badger.DefaultOptions(config.BadgerPath).WithLogger(nil))
		if err != nil {
			return exitRuntime, fmt.Errorf("database opening failed: %w", err)
		}
		defer func() {
			log.Info("Closing BadgerDB...")
			_ = db.Close()
		}()
		repository := vdr.NewRecordRepository(db, log)
		sinks = append(sinks, vdr.NewRecordSink(repository))

		if log.Enabled(context.Background(), slog.LevelDebug) {
			debugPort := 8081
			endpoint := "/inspect"
			internal.StartDebugServer(db, debugPort, endpoint, nil, func() map[string]any {
				stats := make(map[string]any)
				counts, err := repository.CountByTopic()
				if err != nil {
					return stats
				}
				for topic, count := range counts {
					stats[topic] = count
				}
				return stats
			})
			log.Debug("Record store inspection available", "url", fmt.Sprintf("http://localhost:%d%s", debugPort, endpoint))
		}
	}
	encoder := vdr.NewEncoder(log, sinks...)

	// 3. Middleware participant & subscriptions
	participant, err := dds.NewParticipant(config.DomainID, nil)
	if err != nil {
		return exitRuntime, fmt.Errorf("participant creation failed: %w", err)
	}
	defer participant.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager := vdr.NewSubscriptionManager(participant, subscriptions, config.WaitPoll, config.TakeBatch, log)
	if err := registerHandlers(ctx, manager, encoder); err != nil {
		return exitRuntime, err
	}

	log.Info("Starting vehicle data readout", "domain", config.DomainID, "record_to_disk", config.RecordToDisk)
	manager.Start(ctx)

	// 4. Wait for Stop
	<-ctx.Done()
	log.Info("Shutting down gracefully...")
	manager.Stop()
	log.Info("Program stopped cleanly")

	return exitOK, nil
}

// registerHandlers wires each enabled telemetry stream to its encoder method.
func registerHandlers(ctx context.Context, manager *vdr.SubscriptionManager, encoder *vdr.Encoder) error {
	if err := manager.OnSignal(func(msg *telemetry.Signal) { encoder.SendSignal(ctx, msg) }); err != nil {
		return err
	}
	if err := manager.OnEvent(func(msg *telemetry.Event) { encoder.SendEvent(ctx, msg) }); err != nil {
		return err
	}
	if err := manager.OnGauge(func(msg *telemetry.Gauge) { encoder.SendGauge(ctx, msg) }); err != nil {
		return err
	}
	if err := manager.OnCounter(func(msg *telemetry.Counter) { encoder.SendCounter(ctx, msg) }); err != nil {
		return err
	}
	if err := manager.OnHistogram(func(msg *telemetry.Histogram) { encoder.SendHistogram(ctx, msg) }); err != nil {
		return err
	}
	if err := manager.OnLogEntry(func(msg *telemetry.LogEntry) { encoder.SendLogEntry(ctx, msg) }); err != nil {
		return err
	}
	if err := manager.OnScalarMeasurement(func(msg *telemetry.ScalarMeasurement) { encoder.SendScalarMeasurement(ctx, msg) }); err != nil {
		return err
	}
	return manager.OnVectorMeasurement(func(msg *telemetry.VectorMeasurement) { encoder.SendVectorMeasurement(ctx, msg) })
}
