package canvss

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	SourceDBC     = "dbc"
	SourceDerived = "derived"
)

// Update triggers.
const (
	TriggerOnDependency = "on_dependency"
	TriggerPeriodic     = "periodic"
	TriggerBoth         = "both"
)

// SourceSpec says where a raw signal comes from. For dbc sources it carries
// the frame layout needed to decode the value.
type SourceSpec struct {
	Type      string  `yaml:"type"`
	Name      string  `yaml:"name"`
	CANID     uint32  `yaml:"can_id"`
	StartBit  int     `yaml:"start_bit"`
	Length    int     `yaml:"length"`
	Factor    float64 `yaml:"factor"`
	Offset    float64 `yaml:"offset"`
	Signed    bool    `yaml:"signed"`
	BigEndian bool    `yaml:"big_endian"`
}

// TransformSpec is either a linear scale/offset or a value map; a nil spec
// passes the value through.
type TransformSpec struct {
	Scale    *float64          `yaml:"scale"`
	Offset   float64           `yaml:"offset"`
	ValueMap map[string]string `yaml:"value_map"`
}

// SignalMapping is one entry of the mapping config: an input (dbc) or
// derived signal, optionally published under a VSS path.
type SignalMapping struct {
	Signal        string         `yaml:"signal"`
	Path          string         `yaml:"path"`
	Datatype      string         `yaml:"datatype"`
	Source        SourceSpec     `yaml:"source"`
	DependsOn     []string       `yaml:"depends_on"`
	Transform     *TransformSpec `yaml:"transform"`
	IntervalMS    int            `yaml:"interval_ms"`
	UpdateTrigger string         `yaml:"update_trigger"`
}

type mappingFile struct {
	Signals []SignalMapping `yaml:"signals"`
}

// LoadMappings reads and normalizes the signal mappings from a YAML file.
func LoadMappings(path string) ([]SignalMapping, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping config: %w", err)
	}
	var file mappingFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse mapping config: %w", err)
	}
	if len(file.Signals) == 0 {
		return nil, fmt.Errorf("no signals in mapping config %s", path)
	}
	return normalizeMappings(file.Signals)
}

func normalizeMappings(mappings []SignalMapping) ([]SignalMapping, error) {
	seen := make(map[string]bool, len(mappings))
	for i := range mappings {
		m := &mappings[i]
		if m.Signal == "" {
			return nil, fmt.Errorf("mapping %d has no signal name", i)
		}
		if seen[m.Signal] {
			return nil, fmt.Errorf("duplicate signal mapping %q", m.Signal)
		}
		seen[m.Signal] = true

		if m.Source.Type == "" {
			if len(m.DependsOn) > 0 {
				m.Source.Type = SourceDerived
			} else {
				m.Source.Type = SourceDBC
			}
		}
		if m.Source.Type == SourceDBC && m.Source.Factor == 0 {
			m.Source.Factor = 1
		}
		if m.UpdateTrigger == "" {
			m.UpdateTrigger = TriggerOnDependency
		}
		switch m.UpdateTrigger {
		case TriggerOnDependency, TriggerPeriodic, TriggerBoth:
		default:
			return nil, fmt.Errorf("signal %q: unknown update_trigger %q", m.Signal, m.UpdateTrigger)
		}
	}
	return mappings, nil
}
