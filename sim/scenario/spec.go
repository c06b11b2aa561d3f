// Package scenario loads queueing networks described in YAML and turns them
// into simulator configurations and build functions.
package scenario

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/queueing-sim/sim/trace"
)

// UnboundedCapacity is the queue_capacity value for a queue that never fills.
const UnboundedCapacity = -1

// Scenario is the top-level network description.
// Loaded from YAML via Load(path).
type Scenario struct {
	Version          string        `yaml:"version"`
	Seed             int64         `yaml:"seed"`
	TotalTime        float64       `yaml:"total_time"`
	CheckpointPeriod float64       `yaml:"checkpoint_period"`
	TraceLevel       string        `yaml:"trace_level,omitempty"`
	Producer         ProducerSpec  `yaml:"producer"`
	Stations         []StationSpec `yaml:"stations"`
}

// ProducerSpec configures the single arrival source.
type ProducerSpec struct {
	Entry        string   `yaml:"entry"`
	Interarrival DistSpec `yaml:"interarrival"`
}

// StationSpec defines one station and its outgoing links.
type StationSpec struct {
	ID            string       `yaml:"id"`
	QueueCapacity int          `yaml:"queue_capacity"` // -1 = unbounded
	Devices       []DeviceSpec `yaml:"devices"`
	Next          []EdgeSpec   `yaml:"next,omitempty"`
	OnFailure     string       `yaml:"on_failure,omitempty"`
}

// DeviceSpec is a group of identical devices.
type DeviceSpec struct {
	Count   int      `yaml:"count,omitempty"` // 0 = 1
	Service DistSpec `yaml:"service"`
}

// EdgeSpec is a weighted successor link.
type EdgeSpec struct {
	To     string `yaml:"to"`
	Weight int    `yaml:"weight,omitempty"` // 0 = 1
}

// DistSpec parameterizes a time distribution.
type DistSpec struct {
	Type    string             `yaml:"type"`
	Params  map[string]float64 `yaml:"params,omitempty"`
	Members []DistSpec         `yaml:"members,omitempty"`
}

var validVersions = map[string]bool{"": true, "1": true}

// Load reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a YAML scenario document.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if s.Version == "" {
		s.Version = "1"
	}
	return &s, nil
}

// Validate checks every field and every cross-reference between stations.
func (s *Scenario) Validate() error {
	if !validVersions[s.Version] {
		return fmt.Errorf("unsupported version %q; valid: 1", s.Version)
	}
	if err := validateFinitePositive("total_time", s.TotalTime); err != nil {
		return err
	}
	if err := validateFinitePositive("checkpoint_period", s.CheckpointPeriod); err != nil {
		return err
	}
	if !trace.IsValidTraceLevel(s.TraceLevel) {
		return fmt.Errorf("unknown trace_level %q; valid: none, decisions", s.TraceLevel)
	}
	if len(s.Stations) == 0 {
		return fmt.Errorf("at least one station required")
	}

	ids := make(map[string]bool, len(s.Stations))
	for i, st := range s.Stations {
		if st.ID == "" {
			return fmt.Errorf("station[%d]: id is required", i)
		}
		if ids[st.ID] {
			return fmt.Errorf("station[%d]: duplicate id %q", i, st.ID)
		}
		ids[st.ID] = true
	}

	if !ids[s.Producer.Entry] {
		return fmt.Errorf("producer.entry: unknown station %q", s.Producer.Entry)
	}
	if err := validateDistSpec("producer.interarrival", &s.Producer.Interarrival); err != nil {
		return err
	}
	for i := range s.Stations {
		if err := validateStation(&s.Stations[i], ids); err != nil {
			return err
		}
	}
	return nil
}

func validateStation(st *StationSpec, ids map[string]bool) error {
	prefix := fmt.Sprintf("station %q", st.ID)
	if st.QueueCapacity < UnboundedCapacity {
		return fmt.Errorf("%s: queue_capacity must be >= 0 or -1 (unbounded), got %d", prefix, st.QueueCapacity)
	}
	if len(st.Devices) == 0 {
		return fmt.Errorf("%s: at least one device required", prefix)
	}
	for i := range st.Devices {
		d := &st.Devices[i]
		if d.Count < 0 {
			return fmt.Errorf("%s.devices[%d]: count must be non-negative, got %d", prefix, i, d.Count)
		}
		if err := validateDistSpec(fmt.Sprintf("%s.devices[%d].service", prefix, i), &d.Service); err != nil {
			return err
		}
	}

	seen := make(map[string]bool, len(st.Next))
	for i, e := range st.Next {
		edge := fmt.Sprintf("%s.next[%d]", prefix, i)
		if !ids[e.To] {
			return fmt.Errorf("%s: unknown station %q", edge, e.To)
		}
		if e.To == st.ID {
			return fmt.Errorf("%s: station cannot be its own successor", edge)
		}
		if e.Weight < 0 {
			return fmt.Errorf("%s: weight must be >= 1, got %d", edge, e.Weight)
		}
		if seen[e.To] {
			logrus.Warnf("%s: duplicate successor %q ignored; the first weight is kept", edge, e.To)
		}
		seen[e.To] = true
	}

	if st.OnFailure != "" {
		if !ids[st.OnFailure] {
			return fmt.Errorf("%s.on_failure: unknown station %q", prefix, st.OnFailure)
		}
		if st.OnFailure == st.ID {
			return fmt.Errorf("%s.on_failure: station cannot be its own failure target", prefix)
		}
	}
	return nil
}

var validParams = map[string][]string{
	"exponential": {"rate"},
	"uniform":     {"low", "high"},
	"fixed":       {"value"},
	"mixed":       nil,
}

func validateDistSpec(prefix string, d *DistSpec) error {
	want, ok := validParams[d.Type]
	if !ok {
		return fmt.Errorf("%s: unknown distribution type %q; valid: exponential, uniform, fixed, mixed", prefix, d.Type)
	}
	for name, val := range d.Params {
		if !slices.Contains(want, name) {
			return fmt.Errorf("%s: unknown parameter %q for %s", prefix, name, d.Type)
		}
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("%s.params.%s must be a finite number, got %f", prefix, name, val)
		}
	}
	for _, name := range want {
		if _, ok := d.Params[name]; !ok {
			return fmt.Errorf("%s: %s requires parameter %q", prefix, d.Type, name)
		}
	}
	if d.Type != "mixed" && len(d.Members) > 0 {
		return fmt.Errorf("%s: members are only allowed for mixed", prefix)
	}

	switch d.Type {
	case "exponential":
		return validateFinitePositive(prefix+".params.rate", d.Params["rate"])
	case "uniform":
		low, high := d.Params["low"], d.Params["high"]
		if low < 0 || high <= low {
			return fmt.Errorf("%s: uniform requires 0 <= low < high, got low=%g high=%g", prefix, low, high)
		}
	case "fixed":
		return validateFinitePositive(prefix+".params.value", d.Params["value"])
	case "mixed":
		if len(d.Members) == 0 {
			return fmt.Errorf("%s: mixed requires at least one member", prefix)
		}
		for i := range d.Members {
			if err := validateDistSpec(fmt.Sprintf("%s.members[%d]", prefix, i), &d.Members[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	if val <= 0 {
		return fmt.Errorf("%s must be positive, got %f", name, val)
	}
	return nil
}
