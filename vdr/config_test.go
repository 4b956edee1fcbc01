package vdr

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadSubscriptionsFromYAML(t *testing.T) {
	req := require.New(t)

	path := filepath.Join(t.TempDir(), "vdr_config.yaml")
	req.NoError(os.WriteFile(path, []byte(`
subscriptions:
  - topic: rt/vss/signals
    enabled: true
  - topic: rt/telemetry/gauges
    enabled: false
  - topic: rt/logs/entries
    enabled: false
`), 0o644))

	config := LoadSubscriptions(path, testLogger())
	req.True(config.VSSSignals)
	req.False(config.Gauges)
	req.False(config.Logs)
	// Topics not mentioned stay enabled.
	req.True(config.Events)
	req.True(config.Counters)
	req.True(config.Histograms)
}

func TestLoadSubscriptionsMissingFileFallsBack(t *testing.T) {
	req := require.New(t)

	config := LoadSubscriptions(filepath.Join(t.TempDir(), "nope.yaml"), testLogger())
	req.Equal(DefaultSubscriptions(), config)
}

func TestLoadSubscriptionsDefaultsEnabledWhenOmitted(t *testing.T) {
	req := require.New(t)

	path := filepath.Join(t.TempDir(), "vdr_config.yaml")
	req.NoError(os.WriteFile(path, []byte(`
subscriptions:
  - topic: rt/events/vehicle
`), 0o644))

	config := LoadSubscriptions(path, testLogger())
	req.True(config.Events)
}

func TestRuntimeConfigValidation(t *testing.T) {
	req := require.New(t)

	config := RuntimeConfig{WaitPoll: 100 * time.Millisecond, TakeBatch: 64}
	req.NoError(config.Validate())

	config.TakeBatch = 0
	req.Error(config.Validate())

	config = RuntimeConfig{WaitPoll: 0, TakeBatch: 64}
	req.Error(config.Validate())
}
