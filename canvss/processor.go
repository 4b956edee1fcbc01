package canvss

import (
	"fmt"
	"strconv"
	"time"
)

// Quality of a processed value, tracked through the pipeline.
type Quality int

const (
	QualityValid Quality = iota
	QualityInvalid
	QualityNotAvailable
)

// Update is one raw input: a decoded CAN signal or a simulated value.
type Update struct {
	Signal  string
	Value   any
	Quality Quality
	At      time.Time
}

// Signal is one pipeline output, ready to publish under a VSS path.
type Signal struct {
	Path     string
	Datatype string
	Value    any
	Quality  Quality
}

type node struct {
	mapping  SignalMapping
	value    any
	quality  Quality
	hasValue bool
	lastEmit time.Time
}

// Processor evaluates the mapping pipeline. Derived signals are computed in
// dependency order, so a value propagates through the whole chain within a
// single Process call.
type Processor struct {
	nodes map[string]*node
	order []string
}

// NewProcessor validates the mappings and fixes the evaluation order with a
// topological sort. Unknown dependencies and cycles are config errors.
func NewProcessor(mappings []SignalMapping) (*Processor, error) {
	mappings, err := normalizeMappings(mappings)
	if err != nil {
		return nil, err
	}

	p := &Processor{nodes: make(map[string]*node, len(mappings))}
	for _, m := range mappings {
		p.nodes[m.Signal] = &node{mapping: m, quality: QualityNotAvailable}
	}

	for _, m := range mappings {
		for _, dep := range m.DependsOn {
			if _, ok := p.nodes[dep]; !ok {
				return nil, fmt.Errorf("signal %q depends on unknown signal %q", m.Signal, dep)
			}
		}
	}

	// Depth-first topological sort; a back edge means a dependency cycle.
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(p.nodes))
	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("dependency cycle through signal %q", name)
		}
		state[name] = visiting
		for _, dep := range p.nodes[name].mapping.DependsOn {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[name] = done
		p.order = append(p.order, name)
		return nil
	}
	for _, m := range mappings {
		if err := visit(m.Signal); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Process feeds raw updates through the pipeline and returns the VSS signals
// that changed, honoring per-signal throttling and update triggers.
func (p *Processor) Process(updates []Update, now time.Time) []Signal {
	changed := make(map[string]bool, len(updates))
	for _, u := range updates {
		n, ok := p.nodes[u.Signal]
		if !ok {
			continue
		}
		n.value = u.Value
		n.quality = u.Quality
		n.hasValue = true
		changed[u.Signal] = true
	}

	var out []Signal
	for _, name := range p.order {
		n := p.nodes[name]

		if len(n.mapping.DependsOn) > 0 {
			recompute := false
			for _, dep := range n.mapping.DependsOn {
				if changed[dep] {
					recompute = true
					break
				}
			}
			if !recompute {
				continue
			}
			dep := p.nodes[n.mapping.DependsOn[0]]
			n.value = dep.value
			n.quality = dep.quality
			n.hasValue = dep.hasValue
			changed[name] = true
		} else if !changed[name] {
			continue
		}

		value, quality := applyTransform(n.mapping.Transform, n.value, n.quality)
		n.value = value
		n.quality = quality

		if n.mapping.UpdateTrigger == TriggerPeriodic {
			continue // emitted by Tick only
		}
		if sig, ok := p.emit(n, now); ok {
			out = append(out, sig)
		}
	}
	return out
}

// Tick re-emits periodic signals whose interval elapsed, using their last
// computed value.
func (p *Processor) Tick(now time.Time) []Signal {
	var out []Signal
	for _, name := range p.order {
		n := p.nodes[name]
		switch n.mapping.UpdateTrigger {
		case TriggerPeriodic, TriggerBoth:
		default:
			continue
		}
		if !n.hasValue {
			continue
		}
		if sig, ok := p.emit(n, now); ok {
			out = append(out, sig)
		}
	}
	return out
}

func (p *Processor) emit(n *node, now time.Time) (Signal, bool) {
	if n.mapping.Path == "" || !n.hasValue {
		return Signal{}, false
	}
	if n.mapping.IntervalMS > 0 {
		interval := time.Duration(n.mapping.IntervalMS) * time.Millisecond
		if !n.lastEmit.IsZero() && now.Sub(n.lastEmit) < interval {
			return Signal{}, false
		}
	}
	n.lastEmit = now
	return Signal{
		Path:     n.mapping.Path,
		Datatype: n.mapping.Datatype,
		Value:    n.value,
		Quality:  n.quality,
	}, true
}

func applyTransform(spec *TransformSpec, value any, quality Quality) (any, Quality) {
	if spec == nil || quality != QualityValid {
		return value, quality
	}
	if len(spec.ValueMap) > 0 {
		mapped, ok := spec.ValueMap[stringifyValue(value)]
		if !ok {
			return nil, QualityInvalid
		}
		return mapped, QualityValid
	}
	if spec.Scale != nil {
		v, ok := numericValue(value)
		if !ok {
			return nil, QualityInvalid
		}
		return v*(*spec.Scale) + spec.Offset, QualityValid
	}
	return value, quality
}

func stringifyValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func numericValue(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
