package scenario

import (
	"fmt"

	"github.com/inference-sim/queueing-sim/sim"
	"github.com/inference-sim/queueing-sim/sim/trace"
)

// NewDistribution converts a validated DistSpec into a sampler.
func NewDistribution(d DistSpec) (sim.Distribution, error) {
	switch d.Type {
	case "exponential":
		return sim.Exponential{Rate: d.Params["rate"]}, nil
	case "uniform":
		return sim.Uniform{Low: d.Params["low"], High: d.Params["high"]}, nil
	case "fixed":
		return sim.Fixed{Value: d.Params["value"]}, nil
	case "mixed":
		members := make([]sim.Distribution, len(d.Members))
		for i, m := range d.Members {
			dist, err := NewDistribution(m)
			if err != nil {
				return nil, err
			}
			members[i] = dist
		}
		return sim.Mixed{Members: members}, nil
	default:
		return nil, fmt.Errorf("unknown distribution type %q", d.Type)
	}
}

// Config returns the run parameters of the scenario.
func (s *Scenario) Config() sim.Config {
	cfg := sim.NewConfig(s.TotalTime, s.CheckpointPeriod, s.Seed)
	cfg.Trace = trace.TraceConfig{Level: trace.TraceLevel(s.TraceLevel)}
	return cfg
}

// Build resolves every distribution and returns a function that registers
// the stations in file order, then their links, then the producer.
// The scenario must have been validated.
func (s *Scenario) Build() (sim.BuildFunc, error) {
	arrivals, err := NewDistribution(s.Producer.Interarrival)
	if err != nil {
		return nil, fmt.Errorf("producer.interarrival: %w", err)
	}
	services := make([][]sim.Distribution, len(s.Stations))
	for i, st := range s.Stations {
		for j, d := range st.Devices {
			dist, err := NewDistribution(d.Service)
			if err != nil {
				return nil, fmt.Errorf("station %q.devices[%d]: %w", st.ID, j, err)
			}
			for n := 0; n < max(d.Count, 1); n++ {
				services[i] = append(services[i], dist)
			}
		}
	}

	return func(b *sim.Builder) {
		ids := make(map[string]sim.StationID, len(s.Stations))
		for i, st := range s.Stations {
			capacity := st.QueueCapacity
			if capacity == UnboundedCapacity {
				capacity = sim.UnboundedQueue
			}
			id := b.AddStation(st.ID, capacity)
			ids[st.ID] = id
			for _, dist := range services[i] {
				b.AddDevice(id, dist)
			}
		}
		for _, st := range s.Stations {
			for _, e := range st.Next {
				b.AddNext(ids[st.ID], ids[e.To], max(e.Weight, 1))
			}
			if st.OnFailure != "" {
				b.SetOnFailure(ids[st.ID], ids[st.OnFailure])
			}
		}
		b.SetProducer(arrivals, ids[s.Producer.Entry])
	}, nil
}

// Run validates and simulates the scenario.
func (s *Scenario) Run() (*sim.Result, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	build, err := s.Build()
	if err != nil {
		return nil, err
	}
	return sim.Simulate(s.Config(), build)
}
