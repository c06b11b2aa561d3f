// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/queueing-sim/sim/trace"
)

// State is the lifecycle phase of a Simulator.
type State int

const (
	StateBuilding State = iota // stations and edges being added
	StateSealed                // discovery validated, run not started
	StateRunning
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateBuilding:
		return "building"
	case StateSealed:
		return "sealed"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Simulator drives one run: it repeatedly computes the smallest step until
// the next arrival, service completion, checkpoint or horizon, and advances
// the whole network by that step.
type Simulator struct {
	Config Config
	State  State
	Clock  float64
	Steps  int

	checkpoints int // checkpoints taken so far

	rng     *PartitionedRNG
	net     *Network
	builder *Builder
	trace   *trace.SimulationTrace
}

// NewSimulator creates a Simulator in the Building state.
func NewSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	var tr *trace.SimulationTrace
	if cfg.Trace.Enabled() {
		tr = trace.NewSimulationTrace(cfg.Trace)
	}
	net := newNetwork(rng.ForSubsystem(SubsystemRouting), tr)

	return &Simulator{
		Config:  cfg,
		State:   StateBuilding,
		rng:     rng,
		net:     net,
		builder: newBuilder(net, rng),
		trace:   tr,
	}, nil
}

// Builder returns the construction API. Panics outside the Building state.
func (sim *Simulator) Builder() *Builder {
	sim.mustBe(StateBuilding, "Builder")
	return sim.builder
}

// Network returns the station registry.
func (sim *Simulator) Network() *Network {
	return sim.net
}

// Seal validates the built network and moves to the Sealed state.
func (sim *Simulator) Seal() error {
	sim.mustBe(StateBuilding, "Seal")
	if err := sim.net.seal(); err != nil {
		return fmt.Errorf("invalid network: %w", err)
	}
	sim.State = StateSealed
	return nil
}

// Run advances the sealed network until Clock reaches the total time.
func (sim *Simulator) Run() {
	sim.mustBe(StateSealed, "Run")
	sim.State = StateRunning
	logrus.Infof("Starting simulation with %d stations, total time=%g, checkpoint period=%g, seed=%d",
		sim.net.Len(), sim.Config.TotalTime, sim.Config.CheckpointPeriod, sim.Config.Seed)

	for sim.Clock < sim.Config.TotalTime {
		sim.step()
	}

	sim.State = StateFinished
	logrus.Infof("[t=%g] Simulation ended after %d steps", sim.Clock, sim.Steps)
}

func (sim *Simulator) step() {
	delta := sim.net.nextEventDelta()

	checkpointAt := float64(sim.checkpoints+1) * sim.Config.CheckpointPeriod
	checkpoint := false
	if toCheckpoint := checkpointAt - sim.Clock; toCheckpoint <= delta {
		delta = toCheckpoint
		checkpoint = true
	}
	horizon := false
	if remaining := sim.Config.TotalTime - sim.Clock; remaining <= delta {
		if remaining < delta {
			checkpoint = false
		}
		delta = remaining
		horizon = true
	}

	sim.net.clock = sim.Clock + delta
	logrus.Tracef("[t=%g] step %d, delta=%g", sim.Clock, sim.Steps, delta)
	sim.net.advance(delta)

	// Snap to the boundary that bounded the step so rounding in the running
	// sum never skips a checkpoint or the horizon.
	switch {
	case horizon:
		sim.Clock = sim.Config.TotalTime
	case checkpoint:
		sim.Clock = checkpointAt
	default:
		sim.Clock += delta
	}
	sim.Steps++

	if checkpoint {
		sim.net.measure()
		sim.checkpoints++
	}
}

// Result snapshots every station. Valid in any state; the snapshot of a
// finished run is the final report.
func (sim *Simulator) Result() *Result {
	res := &Result{
		Seed:             sim.Config.Seed,
		TotalTime:        sim.Config.TotalTime,
		CheckpointPeriod: sim.Config.CheckpointPeriod,
		Clock:            sim.Clock,
		Steps:            sim.Steps,
		Stations:         make([]StationSnapshot, 0, len(sim.net.order)),
		Trace:            sim.trace,
	}
	if sim.net.producer != nil {
		res.Produced = sim.net.producer.Produced
	}
	for _, id := range sim.net.order {
		res.Stations = append(res.Stations, sim.net.stations[id].Snapshot())
	}
	return res
}

func (sim *Simulator) mustBe(want State, op string) {
	if sim.State != want {
		panic(fmt.Sprintf("%s: simulator is %s, want %s", op, sim.State, want))
	}
}

// Simulate builds, seals and runs one network and returns its final
// statistics. build must not retain the Builder.
func Simulate(cfg Config, build BuildFunc) (*Result, error) {
	if build == nil {
		return nil, fmt.Errorf("build function must not be nil")
	}
	sim, err := NewSimulator(cfg)
	if err != nil {
		return nil, err
	}
	build(sim.Builder())
	if err := sim.Seal(); err != nil {
		return nil, err
	}
	sim.Run()
	return sim.Result(), nil
}
