package sim

import (
	"fmt"
	"math/rand"
)

// Device is one server slot of a Station. It serves at most one job at a
// time; a busy device carries the sampled service time and the portion of
// it already elapsed.
type Device struct {
	dist Distribution
	rng  *rand.Rand

	busy     bool
	required float64 // sampled service time of the current job
	elapsed  float64 // time spent on the current job so far

	Stats DeviceStats
}

// NewDevice creates an idle device that samples service times from dist
// using rng.
func NewDevice(dist Distribution, rng *rand.Rand) *Device {
	if dist == nil {
		panic("NewDevice: dist must not be nil")
	}
	if rng == nil {
		panic("NewDevice: rng must not be nil")
	}
	return &Device{dist: dist, rng: rng}
}

// WorkRemaining returns the service time left on the current job.
// ok is false when the device is idle.
func (d *Device) WorkRemaining() (remaining float64, ok bool) {
	if !d.busy {
		return 0, false
	}
	return d.required - d.elapsed, true
}

// Busy reports whether the device is serving a job.
func (d *Device) Busy() bool {
	return d.busy
}

// BeginService starts a new job. Panics if the device is already busy.
func (d *Device) BeginService() {
	if d.busy {
		panic(fmt.Sprintf("BeginService: device is busy, %g time left", d.required-d.elapsed))
	}
	d.busy = true
	d.required = d.dist.Sample(d.rng)
	d.elapsed = 0
}

// Advance moves the current job forward by dt and reports whether it
// completed within this call. On completion only the part of dt that was
// actually needed counts as busy time; the overshoot counts as idle.
// Panics if the device is idle.
func (d *Device) Advance(dt float64) (completed bool) {
	if !d.busy {
		panic("Advance: device is not busy")
	}
	before := d.elapsed
	d.elapsed += dt
	if d.elapsed < d.required {
		d.Stats.addBusy(dt)
		return false
	}

	used := d.required - before
	d.Stats.addBusy(used)
	d.Stats.addIdle(dt - used)
	d.Stats.Processed++

	d.busy = false
	d.required = 0
	d.elapsed = 0
	return true
}

// RecordIdleWait accounts for a whole tick spent idle with nothing to serve.
// Panics if the device is busy.
func (d *Device) RecordIdleWait(dt float64) {
	if d.busy {
		panic(fmt.Sprintf("RecordIdleWait: device is busy, %g time left", d.required-d.elapsed))
	}
	d.Stats.addIdle(dt)
}

// Distribution returns the service time distribution.
func (d *Device) Distribution() Distribution {
	return d.dist
}
