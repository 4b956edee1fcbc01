// Package vdr is the Vehicle Data Readout: it subscribes to the telemetry
// topics and forwards every sample to the offboarding sinks.
package vdr

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/tr-sdv-sandbox/vdr-light/telemetry"
)

// RuntimeConfig holds the environment-sourced settings of the readout
// process.
type RuntimeConfig struct {
	DomainID     uint32        `env:"VDR_DOMAIN_ID,default=0"`
	LogLevel     string        `env:"VDR_LOG_LEVEL,default=INFO"`
	BadgerPath   string        `env:"VDR_BADGER_PATH,default=data/vdr-records"`
	RecordToDisk bool          `env:"VDR_RECORD_TO_DISK,default=false"`
	WaitPoll     time.Duration `env:"VDR_WAIT_POLL,default=100ms" validate:"gt=0"`
	TakeBatch    int           `env:"VDR_TAKE_BATCH,default=64" validate:"gt=0,lte=4096"`
}

// Validate checks the runtime settings after env binding.
func (c *RuntimeConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("runtime config: %w", err)
	}
	return nil
}

// SubscriptionConfig enables or disables each telemetry topic. The zero
// value disables everything; DefaultSubscriptions enables everything.
type SubscriptionConfig struct {
	VSSSignals         bool
	Events             bool
	Gauges             bool
	Counters           bool
	Histograms         bool
	Logs               bool
	ScalarMeasurements bool
	VectorMeasurements bool
}

func DefaultSubscriptions() SubscriptionConfig {
	return SubscriptionConfig{
		VSSSignals:         true,
		Events:             true,
		Gauges:             true,
		Counters:           true,
		Histograms:         true,
		Logs:               true,
		ScalarMeasurements: true,
		VectorMeasurements: true,
	}
}

type subscriptionFile struct {
	Subscriptions []struct {
		Topic   string `yaml:"topic"`
		Enabled *bool  `yaml:"enabled"`
	} `yaml:"subscriptions"`
}

// LoadSubscriptions reads the per-topic toggles from a YAML file. Topics not
// mentioned stay enabled; an unreadable file logs a warning and falls back
// to the defaults, matching how the readout always came up even with a
// missing config.
func LoadSubscriptions(path string, log *slog.Logger) SubscriptionConfig {
	config := DefaultSubscriptions()

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("failed to read subscription config, using defaults", "path", path, "err", err)
		return config
	}

	var file subscriptionFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		log.Warn("failed to parse subscription config, using defaults", "path", path, "err", err)
		return config
	}

	for _, sub := range file.Subscriptions {
		enabled := true
		if sub.Enabled != nil {
			enabled = *sub.Enabled
		}
		switch sub.Topic {
		case telemetry.TopicVSSSignals:
			config.VSSSignals = enabled
		case telemetry.TopicEvents:
			config.Events = enabled
		case telemetry.TopicGauges:
			config.Gauges = enabled
		case telemetry.TopicCounters:
			config.Counters = enabled
		case telemetry.TopicHistograms:
			config.Histograms = enabled
		case telemetry.TopicLogEntries:
			config.Logs = enabled
		case telemetry.TopicScalarDiags:
			config.ScalarMeasurements = enabled
		case telemetry.TopicVectorDiags:
			config.VectorMeasurements = enabled
		default:
			log.Warn("unknown topic in subscription config", "topic", sub.Topic)
		}
	}

	log.Info("loaded subscription config", "path", path)
	return config
}
