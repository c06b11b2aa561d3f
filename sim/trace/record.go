// Package trace provides decision-trace recording for queueing network runs.
// This package has no dependencies on sim/; it stores pure data types keyed
// by station name.
package trace

// Admission reasons.
const (
	ReasonDevice   = "device"   // an idle device took the job
	ReasonQueue    = "queue"    // the job was queued
	ReasonRejected = "rejected" // queue full and every device busy
)

// AdmissionRecord captures a single admission attempt at a station.
type AdmissionRecord struct {
	Station  string
	Clock    float64
	Admitted bool
	Reason   string
}

// RoutingRecord captures the successor chosen for one departure.
type RoutingRecord struct {
	From  string
	To    string
	Clock float64
}

// CascadeRecord captures the outcome of one walk along failure targets.
// LandedAt is empty when the job was lost.
type CascadeRecord struct {
	Origin   string // station whose rejection started the walk
	LandedAt string // station that finally admitted the job
	Hops     int    // failure targets tried
	Cycle    bool   // walk stopped on an already-visited station
	Clock    float64
}
