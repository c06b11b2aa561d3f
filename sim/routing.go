// Departure routing: weighted successor selection and the failure cascade.

package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/queueing-sim/sim/trace"
)

// selectWeighted picks an edge with probability Weight/total.
// total must equal the sum of the weights; each weight is >= 1.
func selectWeighted(edges []Edge, total int, rng *rand.Rand) StationID {
	r := rng.Intn(total)
	for _, e := range edges {
		if r < e.Weight {
			return e.To
		}
		r -= e.Weight
	}
	panic("selectWeighted: weights do not cover the draw")
}

// successor chooses where a job leaving from goes next.
// ok is false when from is a sink.
func (n *Network) successor(from *Station) (StationID, bool) {
	switch len(from.next) {
	case 0:
		return NoStation, false
	case 1:
		return from.next[0].To, true
	default:
		return selectWeighted(from.next, from.totalWeight, n.routingRNG), true
	}
}

// depart routes one job that finished service at from.
func (n *Network) depart(from *Station) {
	to, ok := n.successor(from)
	if !ok {
		return
	}
	if n.trace != nil {
		n.trace.RecordRouting(trace.RoutingRecord{
			From:  from.name,
			To:    n.stations[to].name,
			Clock: n.clock,
		})
	}
	n.admit(to)
}

// admit offers a job to the station and, if it rejects, walks the failure
// chain starting at that station's failure target.
func (n *Network) admit(id StationID) bool {
	st := n.stations[id]
	if st.Offer().Accepted() {
		return true
	}
	return n.cascade(st)
}

// cascade retries a job rejected by origin along failure targets only, in
// chain order. The job is lost when a station has no failure target or the
// walk comes back to a station it already tried.
func (n *Network) cascade(origin *Station) bool {
	if origin.onFailure == NoStation {
		return false
	}
	visited := map[StationID]struct{}{origin.id: {}}
	hops := 0
	cur := origin.onFailure

	for cur != NoStation {
		if _, seen := visited[cur]; seen {
			logrus.Debugf("[t=%g] job from %s lost: failure cycle at %s", n.clock, origin.name, n.stations[cur].name)
			n.recordCascade(origin, nil, hops, true)
			return false
		}
		visited[cur] = struct{}{}
		hops++

		st := n.stations[cur]
		if st.Offer().Accepted() {
			n.recordCascade(origin, st, hops, false)
			return true
		}
		cur = st.onFailure
	}

	logrus.Debugf("[t=%g] job from %s lost after %d failure hops", n.clock, origin.name, hops)
	n.recordCascade(origin, nil, hops, false)
	return false
}

func (n *Network) recordCascade(origin, landed *Station, hops int, cycle bool) {
	if n.trace == nil {
		return
	}
	rec := trace.CascadeRecord{Origin: origin.name, Hops: hops, Cycle: cycle, Clock: n.clock}
	if landed != nil {
		rec.LandedAt = landed.name
	}
	n.trace.RecordCascade(rec)
}
