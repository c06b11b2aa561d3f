package sim

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/inference-sim/queueing-sim/sim/trace"
)

var (
	// ErrNoProducer is returned when a network is sealed without a producer.
	ErrNoProducer = errors.New("no producer set")
	// ErrUnreachableStation is returned when a registered station cannot be
	// reached from the producer's entry station.
	ErrUnreachableStation = errors.New("stations not reachable from the producer")
	// ErrNoDevices is returned when a reachable station has no devices.
	ErrNoDevices = errors.New("station has no devices")
)

// Network is the registry that owns every station. Stations refer to each
// other only by StationID, so arbitrary cycles of successor and failure
// links are safe.
type Network struct {
	stations []*Station  // arena indexed by StationID
	order    []StationID // discovery order, fixed at seal
	producer *Producer

	routingRNG *rand.Rand
	trace      *trace.SimulationTrace
	clock      float64 // end of the tick being processed
	sealed     bool
}

func newNetwork(routingRNG *rand.Rand, tr *trace.SimulationTrace) *Network {
	return &Network{
		routingRNG: routingRNG,
		trace:      tr,
	}
}

// Station returns the station with the given handle.
// Panics on an unknown handle.
func (n *Network) Station(id StationID) *Station {
	if id < 0 || int(id) >= len(n.stations) {
		panic(fmt.Sprintf("Station: unknown station %d", id))
	}
	return n.stations[id]
}

// Len returns the number of stations.
func (n *Network) Len() int {
	return len(n.stations)
}

// Order returns the station handles in discovery order.
func (n *Network) Order() []StationID {
	return append([]StationID(nil), n.order...)
}

// Producer returns the arrival source.
func (n *Network) Producer() *Producer {
	return n.producer
}

// seal discovers every station reachable from the producer and checks it
// against the registered set. Membership is frozen afterwards.
func (n *Network) seal() error {
	if n.producer == nil {
		return ErrNoProducer
	}

	visited := make(map[StationID]bool, len(n.stations))
	n.order = n.order[:0]
	n.discover(n.producer.entry, visited)

	var orphans []string
	for _, st := range n.stations {
		if !visited[st.id] {
			orphans = append(orphans, st.name)
		}
	}
	if len(orphans) > 0 {
		return fmt.Errorf("%w: %s", ErrUnreachableStation, strings.Join(orphans, ", "))
	}

	for _, id := range n.order {
		if st := n.stations[id]; len(st.devices) == 0 {
			return fmt.Errorf("%w: %s", ErrNoDevices, st.name)
		}
	}

	n.sealed = true
	return nil
}

// discover marks a station before descending so cycles terminate. A
// station's failure target is listed before the station itself and its
// successors after it.
func (n *Network) discover(id StationID, visited map[StationID]bool) {
	if visited[id] {
		return
	}
	visited[id] = true

	st := n.stations[id]
	if st.onFailure != NoStation {
		n.discover(st.onFailure, visited)
	}
	n.order = append(n.order, id)
	for _, e := range st.next {
		n.discover(e.To, visited)
	}
}

// nextEventDelta is the time until the next arrival or service completion.
func (n *Network) nextEventDelta() float64 {
	delta := n.producer.TimeToNext()
	for _, id := range n.order {
		if w, ok := n.stations[id].WorkRemaining(); ok && w < delta {
			delta = w
		}
	}
	return delta
}

// advance runs every station in reverse discovery order, then the producer.
func (n *Network) advance(dt float64) {
	for i := len(n.order) - 1; i >= 0; i-- {
		n.stations[n.order[i]].Advance(dt)
	}
	n.producer.Advance(dt)
}

func (n *Network) measure() {
	for _, id := range n.order {
		n.stations[id].measure()
	}
}
