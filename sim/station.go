// Defines the Station: a named service node with a bounded waiting line,
// a pool of devices, weighted successor edges and an optional failure target.

package sim

import (
	"fmt"
	"math"

	"github.com/inference-sim/queueing-sim/sim/trace"
)

// StationID is a stable handle into the network's station arena.
type StationID int

// NoStation marks an absent failure target.
const NoStation StationID = -1

// UnboundedQueue is the queue capacity of a station that never rejects.
const UnboundedQueue = math.MaxInt

// Admission is the outcome of offering a job to a station.
type Admission int

const (
	Rejected Admission = iota
	AcceptedByDevice
	AcceptedQueued
)

// Accepted reports whether the station took the job.
func (a Admission) Accepted() bool {
	return a != Rejected
}

func (a Admission) String() string {
	switch a {
	case AcceptedByDevice:
		return trace.ReasonDevice
	case AcceptedQueued:
		return trace.ReasonQueue
	default:
		return trace.ReasonRejected
	}
}

// Edge is a weighted successor link.
type Edge struct {
	To     StationID
	Weight int
}

// Station owns its devices and its waiting line. Successor and failure
// links are handles resolved through the owning Network, so cycles between
// stations carry no ownership.
type Station struct {
	id            StationID
	name          string
	queueCapacity int
	queueSize     int

	devices     []*Device
	next        []Edge
	totalWeight int
	onFailure   StationID

	net *Network

	Stats StationStats
}

// ID returns the station's handle.
func (s *Station) ID() StationID { return s.id }

// Name returns the station's unique name.
func (s *Station) Name() string { return s.name }

// QueueCapacity returns the maximum number of waiting jobs.
func (s *Station) QueueCapacity() int { return s.queueCapacity }

// QueueSize returns the number of jobs currently waiting.
func (s *Station) QueueSize() int { return s.queueSize }

// Devices returns the station's devices. Callers must not modify the slice.
func (s *Station) Devices() []*Device { return s.devices }

// Next returns a copy of the successor edges in insertion order.
func (s *Station) Next() []Edge { return append([]Edge(nil), s.next...) }

// OnFailure returns the failure target, or NoStation.
func (s *Station) OnFailure() StationID { return s.onFailure }

// InService counts busy devices.
func (s *Station) InService() int {
	n := 0
	for _, d := range s.devices {
		if d.Busy() {
			n++
		}
	}
	return n
}

// WorkRemaining returns the smallest remaining service time over the busy
// devices. ok is false when every device is idle.
func (s *Station) WorkRemaining() (remaining float64, ok bool) {
	for _, d := range s.devices {
		if w, busy := d.WorkRemaining(); busy && (!ok || w < remaining) {
			remaining, ok = w, true
		}
	}
	return remaining, ok
}

// Offer tries to admit one job: an idle device takes it first, otherwise it
// waits in the queue if there is room, otherwise it is rejected. Offer never
// follows the failure target; see Network.admit for that.
func (s *Station) Offer() Admission {
	s.Stats.Offered++

	result := Rejected
	for _, d := range s.devices {
		if !d.Busy() {
			d.BeginService()
			result = AcceptedByDevice
			break
		}
	}
	if result == Rejected && s.queueSize < s.queueCapacity {
		s.queueSize++
		result = AcceptedQueued
	}
	if result == Rejected {
		s.Stats.Rejected++
	}

	if tr := s.net.trace; tr != nil {
		tr.RecordAdmission(trace.AdmissionRecord{
			Station:  s.name,
			Clock:    s.net.clock,
			Admitted: result.Accepted(),
			Reason:   result.String(),
		})
	}
	return result
}

// Advance moves every device forward by dt, pulling waiting jobs onto idle
// devices first, then routes each job that completed during this call.
// Panics if the station has no devices.
func (s *Station) Advance(dt float64) {
	if len(s.devices) == 0 {
		panic(fmt.Sprintf("Advance: station %q has no devices", s.name))
	}

	departures := 0
	for _, d := range s.devices {
		if !d.Busy() {
			if s.queueSize == 0 {
				d.RecordIdleWait(dt)
				continue
			}
			s.queueSize--
			d.BeginService()
		}
		if d.Advance(dt) {
			departures++
		}
	}

	s.Stats.Completed += departures
	s.Stats.QueueWaitTime += float64(s.queueSize) * dt

	for i := 0; i < departures; i++ {
		s.net.depart(s)
	}
}

func (s *Station) measure() {
	s.Stats.QueueSizes = append(s.Stats.QueueSizes, s.queueSize)
}
