// vss-probe publishes a deterministic set of simulated VSS signals, useful
// for exercising the readout end to end without a vehicle network.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tr-sdv-sandbox/vdr-light/dds"
	"github.com/tr-sdv-sandbox/vdr-light/internal/logs"
	"github.com/tr-sdv-sandbox/vdr-light/telemetry"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const sourceID = "vss_probe"

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "vss-probe terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	domainID := flag.Uint("domain", uint(dds.DomainDefault), "middleware domain id")
	rateHz := flag.Float64("rate", 1.0, "publication rate in Hz")
	logLevel := flag.String("log-level", "INFO", "log level")
	flag.Parse()

	if *rateHz <= 0 {
		return exitConfig, fmt.Errorf("rate must be positive, got %v", *rateHz)
	}

	log := logs.FromLevelString(*logLevel)
	dds.SetLogger(log)

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

	interval := time.Duration(float64(time.Second) / *rateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("Starting VSS probe", "domain", *domainID, "rate_hz", *rateHz)

	var cycle uint64
	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping VSS probe", "cycles", cycle)
			return exitOK, nil
		case <-ticker.C:
			for _, sample := range simulate(cycle) {
				if err := writer.Write(sample); err != nil {
					log.Warn("Failed to publish signal", "path", sample.Path, "err", err)
				}
			}
			cycle++
		}
	}
}

// simulate produces one publication batch: a sinusoidal speed profile, a
// slowly declining state of charge and a handful of steady cabin values.
func simulate(cycle uint64) []telemetry.Signal {
	t := float64(cycle)
	speed := 60.0 + 40.0*math.Sin(t/10.0)
	soc := 100.0 - math.Mod(t*0.05, 90.0)

	return []telemetry.Signal{
		doubleSignal("Vehicle.Speed", speed),
		doubleSignal("Vehicle.Powertrain.TractionBattery.StateOfCharge.Current", soc),
		doubleSignal("Vehicle.Powertrain.TractionBattery.Temperature.Average", 25.0+2.0*math.Sin(t/30.0)),
		doubleSignal("Vehicle.Cabin.HVAC.AmbientAirTemperature", 21.5),
		doubleSignal("Vehicle.TraveledDistance", t*speed/3600.0*1000.0),
		boolSignal("Vehicle.Cabin.Door.Row1.DriverSide.IsOpen", false),
		boolSignal("Vehicle.LowVoltageSystemState", speed > 0.1),
	}
}

func doubleSignal(path string, value float64) telemetry.Signal {
	return telemetry.Signal{
		Header:      telemetry.NewHeader(sourceID),
		Path:        path,
		Quality:     telemetry.QualityValid,
		ValueType:   telemetry.ValueTypeDouble,
		DoubleValue: value,
	}
}

func boolSignal(path string, value bool) telemetry.Signal {
	return telemetry.Signal{
		Header:    telemetry.NewHeader(sourceID),
		Path:      path,
		Quality:   telemetry.QualityValid,
		ValueType: telemetry.ValueTypeBool,
		BoolValue: value,
	}
}
