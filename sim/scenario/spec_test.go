package scenario

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/queueing-sim/sim"
)

func TestLoad_SingleStation(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "single.yaml"))
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	assert.Equal(t, "1", s.Version)
	assert.Equal(t, int64(42), s.Seed)
	assert.Equal(t, 10.0, s.TotalTime)
	assert.Equal(t, "a", s.Producer.Entry)
	require.Len(t, s.Stations, 1)
	assert.Equal(t, UnboundedCapacity, s.Stations[0].QueueCapacity)
	assert.Equal(t, 0, s.Stations[0].Devices[0].Count)
	assert.Equal(t, 1.0, s.Stations[0].Devices[0].Service.Params["value"])
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "typo.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue_capacty")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "does-not-exist.yaml"))
	assert.ErrorContains(t, err, "reading scenario")
}

func TestParse_DefaultsVersion(t *testing.T) {
	s, err := Parse([]byte("total_time: 1\ncheckpoint_period: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, "1", s.Version)
}

// validScenario returns a two-station scenario each test case mutates.
func validScenario() *Scenario {
	return &Scenario{
		Version: "1", TotalTime: 100, CheckpointPeriod: 10,
		Producer: ProducerSpec{Entry: "a", Interarrival: DistSpec{Type: "exponential", Params: map[string]float64{"rate": 1}}},
		Stations: []StationSpec{
			{ID: "a", QueueCapacity: 3,
				Devices: []DeviceSpec{{Count: 2, Service: DistSpec{Type: "fixed", Params: map[string]float64{"value": 1}}}},
				Next:    []EdgeSpec{{To: "b", Weight: 2}}, OnFailure: "b"},
			{ID: "b", QueueCapacity: UnboundedCapacity,
				Devices: []DeviceSpec{{Service: DistSpec{Type: "uniform", Params: map[string]float64{"low": 0, "high": 2}}}}},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Scenario)
		wantErr string
	}{
		{"valid", func(s *Scenario) {}, ""},
		{"bad version", func(s *Scenario) { s.Version = "9" }, "unsupported version"},
		{"zero total time", func(s *Scenario) { s.TotalTime = 0 }, "total_time must be positive"},
		{"negative period", func(s *Scenario) { s.CheckpointPeriod = -2 }, "checkpoint_period must be positive"},
		{"unknown trace level", func(s *Scenario) { s.TraceLevel = "all" }, "unknown trace_level"},
		{"no stations", func(s *Scenario) { s.Stations = nil }, "at least one station"},
		{"missing id", func(s *Scenario) { s.Stations[1].ID = "" }, "id is required"},
		{"duplicate id", func(s *Scenario) { s.Stations[1].ID = "a" }, "duplicate id"},
		{"unknown entry", func(s *Scenario) { s.Producer.Entry = "z" }, "producer.entry"},
		{"capacity below -1", func(s *Scenario) { s.Stations[0].QueueCapacity = -2 }, "queue_capacity"},
		{"no devices", func(s *Scenario) { s.Stations[1].Devices = nil }, "at least one device"},
		{"negative count", func(s *Scenario) { s.Stations[0].Devices[0].Count = -1 }, "count must be non-negative"},
		{"unknown successor", func(s *Scenario) { s.Stations[0].Next[0].To = "z" }, "unknown station \"z\""},
		{"self successor", func(s *Scenario) { s.Stations[0].Next[0].To = "a" }, "own successor"},
		{"negative weight", func(s *Scenario) { s.Stations[0].Next[0].Weight = -1 }, "weight must be >= 1"},
		{"unknown failure target", func(s *Scenario) { s.Stations[0].OnFailure = "z" }, "on_failure: unknown station"},
		{"self failure target", func(s *Scenario) { s.Stations[1].OnFailure = "b" }, "own failure target"},
		{"unknown dist type", func(s *Scenario) { s.Producer.Interarrival.Type = "gamma" }, "unknown distribution type"},
		{"unknown param", func(s *Scenario) { s.Producer.Interarrival.Params["mean"] = 1 }, "unknown parameter \"mean\""},
		{"missing param", func(s *Scenario) { delete(s.Producer.Interarrival.Params, "rate") }, "requires parameter \"rate\""},
		{"zero rate", func(s *Scenario) { s.Producer.Interarrival.Params["rate"] = 0 }, "rate must be positive"},
		{"zero fixed", func(s *Scenario) { s.Stations[0].Devices[0].Service.Params["value"] = 0 }, "value must be positive"},
		{"inverted uniform", func(s *Scenario) { s.Stations[1].Devices[0].Service.Params["low"] = 3 }, "0 <= low < high"},
		{"empty mixed", func(s *Scenario) { s.Producer.Interarrival = DistSpec{Type: "mixed"} }, "at least one member"},
		{"invalid mixed member", func(s *Scenario) {
			s.Producer.Interarrival = DistSpec{Type: "mixed", Members: []DistSpec{{Type: "fixed"}}}
		}, "members[0]: fixed requires parameter"},
		{"members on non-mixed", func(s *Scenario) {
			s.Producer.Interarrival.Members = []DistSpec{{Type: "fixed", Params: map[string]float64{"value": 1}}}
		}, "only allowed for mixed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validScenario()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidate_DuplicateSuccessorIsOnlyAWarning(t *testing.T) {
	s := validScenario()
	s.Stations[0].Next = append(s.Stations[0].Next, EdgeSpec{To: "b", Weight: 5})
	assert.NoError(t, s.Validate())
}

func TestNewDistribution(t *testing.T) {
	tests := []struct {
		spec DistSpec
		want sim.Distribution
	}{
		{DistSpec{Type: "exponential", Params: map[string]float64{"rate": 2}}, sim.Exponential{Rate: 2}},
		{DistSpec{Type: "uniform", Params: map[string]float64{"low": 1, "high": 3}}, sim.Uniform{Low: 1, High: 3}},
		{DistSpec{Type: "fixed", Params: map[string]float64{"value": 4}}, sim.Fixed{Value: 4}},
		{
			DistSpec{Type: "mixed", Members: []DistSpec{
				{Type: "fixed", Params: map[string]float64{"value": 1}},
				{Type: "exponential", Params: map[string]float64{"rate": 0.5}},
			}},
			sim.Mixed{Members: []sim.Distribution{sim.Fixed{Value: 1}, sim.Exponential{Rate: 0.5}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.spec.Type, func(t *testing.T) {
			got, err := NewDistribution(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := NewDistribution(DistSpec{Type: "pareto"})
	assert.Error(t, err)
}
