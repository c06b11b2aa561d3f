// Per-device and per-station statistics collected during a run, and the
// snapshots handed back to callers once the run finishes.

package sim

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/stat"

	"github.com/inference-sim/queueing-sim/sim/trace"
)

// DeviceStats accumulates utilization counters for one device.
type DeviceStats struct {
	BusyTime  float64 `yaml:"busy_time"`  // time spent serving jobs
	TotalTime float64 `yaml:"total_time"` // busy time plus idle time observed
	Processed int     `yaml:"processed"`  // jobs completed
}

func (s *DeviceStats) addBusy(dt float64) {
	s.BusyTime += dt
	s.TotalTime += dt
}

func (s *DeviceStats) addIdle(dt float64) {
	s.TotalTime += dt
}

// Utilization is BusyTime/TotalTime, or 0 before any time was observed.
func (s DeviceStats) Utilization() float64 {
	if s.TotalTime == 0 {
		return 0
	}
	return s.BusyTime / s.TotalTime
}

// StationStats accumulates admission and queueing counters for one station.
type StationStats struct {
	QueueSizes    []int   `yaml:"queue_sizes"`     // queue length sampled at each checkpoint
	Offered       int     `yaml:"offered"`         // admission attempts
	Rejected      int     `yaml:"rejected"`        // attempts refused (queue full, all devices busy)
	Completed     int     `yaml:"completed"`       // jobs that finished service here
	QueueWaitTime float64 `yaml:"queue_wait_time"` // integral of queue length over time
}

// FailureProbability is Rejected/Offered.
func (s StationStats) FailureProbability() float64 {
	if s.Offered == 0 {
		return 0
	}
	return float64(s.Rejected) / float64(s.Offered)
}

// Throughput is Completed/Offered.
func (s StationStats) Throughput() float64 {
	if s.Offered == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Offered)
}

// MeanWaitTime approximates the mean time an offered job spent queued.
func (s StationStats) MeanWaitTime() float64 {
	if s.Offered == 0 {
		return 0
	}
	return s.QueueWaitTime / float64(s.Offered)
}

// MeanQueueSize averages the checkpoint samples.
func (s StationStats) MeanQueueSize() float64 {
	if len(s.QueueSizes) == 0 {
		return 0
	}
	return stat.Mean(s.queueSamples(), nil)
}

// QueueSizeStdDev is the sample standard deviation of the checkpoint
// samples; 0 with fewer than two samples.
func (s StationStats) QueueSizeStdDev() float64 {
	if len(s.QueueSizes) < 2 {
		return 0
	}
	return stat.StdDev(s.queueSamples(), nil)
}

func (s StationStats) queueSamples() []float64 {
	xs := make([]float64, len(s.QueueSizes))
	for i, q := range s.QueueSizes {
		xs[i] = float64(q)
	}
	return xs
}

// DeviceSnapshot is the final state of one device.
type DeviceSnapshot struct {
	Index        int         `yaml:"index"`
	Distribution string      `yaml:"distribution"`
	Busy         bool        `yaml:"busy"`
	Stats        DeviceStats `yaml:"stats"`
	Utilization  float64     `yaml:"utilization"`
}

// StationSnapshot is the final state of one station together with the
// metrics derived from its counters.
type StationSnapshot struct {
	ID            StationID        `yaml:"id"`
	Name          string           `yaml:"name"`
	QueueCapacity int              `yaml:"queue_capacity"`
	QueueSize     int              `yaml:"queue_size"`
	InService     int              `yaml:"in_service"`
	Stats         StationStats     `yaml:"stats"`
	Devices       []DeviceSnapshot `yaml:"devices"`

	FailureProbability float64 `yaml:"failure_probability"`
	Throughput         float64 `yaml:"throughput"`
	MeanWaitTime       float64 `yaml:"mean_wait_time"`
	MeanQueueSize      float64 `yaml:"mean_queue_size"`
	QueueSizeStdDev    float64 `yaml:"queue_size_std_dev"`
}

// Snapshot copies the station's state. The copy shares nothing with the
// live station.
func (s *Station) Snapshot() StationSnapshot {
	stats := s.Stats
	stats.QueueSizes = append([]int(nil), s.Stats.QueueSizes...)

	snap := StationSnapshot{
		ID:            s.id,
		Name:          s.name,
		QueueCapacity: s.queueCapacity,
		QueueSize:     s.queueSize,
		InService:     s.InService(),
		Stats:         stats,
		Devices:       make([]DeviceSnapshot, len(s.devices)),

		FailureProbability: stats.FailureProbability(),
		Throughput:         stats.Throughput(),
		MeanWaitTime:       stats.MeanWaitTime(),
		MeanQueueSize:      stats.MeanQueueSize(),
		QueueSizeStdDev:    stats.QueueSizeStdDev(),
	}
	for i, d := range s.devices {
		snap.Devices[i] = DeviceSnapshot{
			Index:        i,
			Distribution: d.dist.String(),
			Busy:         d.busy,
			Stats:        d.Stats,
			Utilization:  d.Stats.Utilization(),
		}
	}
	return snap
}

// Result is everything a finished run hands back to its caller.
type Result struct {
	Seed             int64             `yaml:"seed"`
	TotalTime        float64           `yaml:"total_time"`
	CheckpointPeriod float64           `yaml:"checkpoint_period"`
	Clock            float64           `yaml:"clock"`
	Steps            int               `yaml:"steps"`
	Produced         int               `yaml:"produced"`
	Stations         []StationSnapshot `yaml:"stations"` // discovery order

	Trace *trace.SimulationTrace `yaml:"-"` // nil unless tracing was enabled
}

// Station returns the snapshot of the station with the given name.
func (r *Result) Station(name string) (StationSnapshot, bool) {
	for _, s := range r.Stations {
		if s.Name == name {
			return s, true
		}
	}
	return StationSnapshot{}, false
}

// Print writes a plain-text report of the run.
func (r *Result) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Total time           : %g\n", r.TotalTime)
	fmt.Fprintf(w, "Check period         : %g\n", r.CheckpointPeriod)
	fmt.Fprintf(w, "Clock                : %g\n", r.Clock)
	fmt.Fprintf(w, "Steps                : %d\n", r.Steps)
	fmt.Fprintf(w, "Produced             : %d\n", r.Produced)
	fmt.Fprintf(w, "Stations             : %d\n", len(r.Stations))

	for i, s := range r.Stations {
		fmt.Fprintf(w, "--- Station #%d (%s) ---\n", i, s.Name)
		fmt.Fprintf(w, "Devices              : %d\n", len(s.Devices))
		fmt.Fprintf(w, "Requests             : %d\n", s.Stats.Offered)
		fmt.Fprintf(w, "Failures             : %d\n", s.Stats.Rejected)
		fmt.Fprintf(w, "Processed            : %d\n", s.Stats.Completed)
		fmt.Fprintf(w, "Failure probability  : %.4f\n", s.FailureProbability)
		fmt.Fprintf(w, "Total wait time      : %.4f\n", s.Stats.QueueWaitTime)
		fmt.Fprintf(w, "Avg queue size       : %.4f (sd %.4f)\n", s.MeanQueueSize, s.QueueSizeStdDev)
		fmt.Fprintf(w, "Avg waiting time     : %.4f\n", s.MeanWaitTime)
		fmt.Fprintf(w, "Throughput           : %.4f\n", s.Throughput)
		for _, d := range s.Devices {
			fmt.Fprintf(w, "  device %d %s: busy=%.2f total=%.2f utilization=%.2f processed=%d\n",
				d.Index, d.Distribution, d.Stats.BusyTime, d.Stats.TotalTime, d.Utilization, d.Stats.Processed)
		}
	}

	if r.Trace != nil {
		sum := trace.Summarize(r.Trace)
		fmt.Fprintln(w, "--- Trace ---")
		fmt.Fprintf(w, "Admissions           : %d (admitted %d, rejected %d)\n", sum.TotalDecisions, sum.AdmittedCount, sum.RejectedCount)
		fmt.Fprintf(w, "Routings             : %d over %d targets\n", sum.TotalRoutings, sum.UniqueTargets)
		fmt.Fprintf(w, "Cascades             : %d rescued, %d lost\n", sum.CascadeRescues, sum.CascadeLosses)
	}
}
