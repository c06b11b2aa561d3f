package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestSimulator returns a simulator in the Building state.
func newTestSimulator(t *testing.T, totalTime, period float64, seed int64) *Simulator {
	t.Helper()
	s, err := NewSimulator(NewConfig(totalTime, period, seed))
	require.NoError(t, err)
	return s
}

// newTestStation adds a station with n devices of the given service
// distribution. The network is not sealed, so Offer and Advance can be
// driven by hand.
func newTestStation(b *Builder, name string, capacity, n int, service Distribution) *Station {
	id := b.AddStation(name, capacity)
	for i := 0; i < n; i++ {
		b.AddDevice(id, service)
	}
	return b.net.stations[id]
}

// fill offers jobs until the station rejects once, leaving it saturated.
func fill(st *Station) {
	for st.Offer().Accepted() {
	}
}

// assertConservation checks that every job offered to a station is
// accounted for: completed, rejected, waiting, or in service.
func assertConservation(t *testing.T, s StationSnapshot) {
	t.Helper()
	accounted := s.Stats.Completed + s.Stats.Rejected + s.QueueSize + s.InService
	if s.Stats.Offered != accounted {
		t.Errorf("station %s: offered=%d but completed=%d rejected=%d queued=%d in-service=%d",
			s.Name, s.Stats.Offered, s.Stats.Completed, s.Stats.Rejected, s.QueueSize, s.InService)
	}
	if s.QueueSize > s.QueueCapacity {
		t.Errorf("station %s: queue size %d exceeds capacity %d", s.Name, s.QueueSize, s.QueueCapacity)
	}
}
