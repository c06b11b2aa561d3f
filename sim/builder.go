package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// BuildFunc populates a network before it is sealed.
type BuildFunc func(b *Builder)

// Builder is the construction-phase API of a Network. Every method panics
// on a malformed graph (self links, unknown handles, non-positive weights)
// and once the network has been sealed: these are programming errors in
// the build function, not runtime conditions.
type Builder struct {
	net   *Network
	rng   *PartitionedRNG
	names map[string]StationID
}

func newBuilder(net *Network, rng *PartitionedRNG) *Builder {
	return &Builder{
		net:   net,
		rng:   rng,
		names: make(map[string]StationID),
	}
}

// AddStation registers a station and returns its handle. An empty name
// defaults to "station_<id>". Use UnboundedQueue for a queue that never fills.
func (b *Builder) AddStation(name string, queueCapacity int) StationID {
	b.mustBuild("AddStation")
	if queueCapacity < 0 {
		panic(fmt.Sprintf("AddStation: queue capacity must be non-negative, got %d", queueCapacity))
	}

	id := StationID(len(b.net.stations))
	if name == "" {
		name = fmt.Sprintf("station_%d", id)
	}
	if _, dup := b.names[name]; dup {
		panic(fmt.Sprintf("AddStation: duplicate station name %q", name))
	}
	b.names[name] = id

	b.net.stations = append(b.net.stations, &Station{
		id:            id,
		name:          name,
		queueCapacity: queueCapacity,
		onFailure:     NoStation,
		net:           b.net,
	})
	return id
}

// AddDevice adds one server to the station.
func (b *Builder) AddDevice(id StationID, dist Distribution) {
	b.mustBuild("AddDevice")
	st := b.station("AddDevice", id)
	rng := b.rng.ForSubsystem(SubsystemDevice(id, len(st.devices)))
	st.devices = append(st.devices, NewDevice(dist, rng))
}

// AddNext adds a weighted successor edge. Adding a successor that is
// already present is ignored and the first weight is kept.
func (b *Builder) AddNext(from, to StationID, weight int) {
	b.mustBuild("AddNext")
	src := b.station("AddNext", from)
	dst := b.station("AddNext", to)
	if from == to {
		panic(fmt.Sprintf("AddNext: station %q cannot be its own successor", src.name))
	}
	if weight < 1 {
		panic(fmt.Sprintf("AddNext: weight %s -> %s must be >= 1, got %d", src.name, dst.name, weight))
	}
	for _, e := range src.next {
		if e.To == to {
			logrus.Debugf("AddNext: %s -> %s already present, ignoring", src.name, dst.name)
			return
		}
	}
	src.next = append(src.next, Edge{To: to, Weight: weight})
	src.totalWeight += weight
}

// SetOnFailure sets where jobs rejected by from are offered next.
func (b *Builder) SetOnFailure(from, to StationID) {
	b.mustBuild("SetOnFailure")
	src := b.station("SetOnFailure", from)
	b.station("SetOnFailure", to)
	if from == to {
		panic(fmt.Sprintf("SetOnFailure: station %q cannot be its own failure target", src.name))
	}
	src.onFailure = to
}

// SetProducer sets the arrival source feeding the entry station. The first
// inter-arrival gap is drawn immediately.
func (b *Builder) SetProducer(dist Distribution, entry StationID) {
	b.mustBuild("SetProducer")
	if dist == nil {
		panic("SetProducer: dist must not be nil")
	}
	b.station("SetProducer", entry)
	b.net.producer = newProducer(b.net, dist, b.rng.ForSubsystem(SubsystemArrivals), entry)
}

// Lookup returns the handle of a named station.
func (b *Builder) Lookup(name string) (StationID, bool) {
	id, ok := b.names[name]
	return id, ok
}

func (b *Builder) station(op string, id StationID) *Station {
	if id < 0 || int(id) >= len(b.net.stations) {
		panic(fmt.Sprintf("%s: unknown station %d", op, id))
	}
	return b.net.stations[id]
}

func (b *Builder) mustBuild(op string) {
	if b.net.sealed {
		panic(fmt.Sprintf("%s: network is sealed", op))
	}
}
