package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeal_DiscoveryOrder_FailureTargetsFirstThenSuccessors(t *testing.T) {
	// GIVEN entry a with failure target f and successors b, c; b -> c; c fails back to a
	s := newTestSimulator(t, 10, 1, 1)
	b := s.Builder()
	a := b.AddStation("a", 1)
	f := b.AddStation("f", 1)
	bb := b.AddStation("b", 1)
	c := b.AddStation("c", 1)
	for _, id := range []StationID{a, f, bb, c} {
		b.AddDevice(id, Fixed{Value: 1})
	}
	b.SetOnFailure(a, f)
	b.AddNext(a, bb, 1)
	b.AddNext(a, c, 1)
	b.AddNext(bb, c, 1)
	b.SetOnFailure(c, a)
	b.SetProducer(Fixed{Value: 1}, a)

	// WHEN sealed
	require.NoError(t, s.Seal())

	// THEN f precedes a, successors follow depth-first, each station once
	assert.Equal(t, []StationID{f, a, bb, c}, s.Network().Order())
	assert.Equal(t, StateSealed, s.State)
}

func TestSeal_ToleratesSuccessorCycles(t *testing.T) {
	s := newTestSimulator(t, 10, 1, 1)
	b := s.Builder()
	ids := make([]StationID, 3)
	for i, name := range []string{"a", "b", "c"} {
		ids[i] = b.AddStation(name, 0)
		b.AddDevice(ids[i], Fixed{Value: 1})
	}
	b.AddNext(ids[0], ids[1], 1)
	b.AddNext(ids[1], ids[2], 1)
	b.AddNext(ids[2], ids[0], 1)
	b.SetProducer(Fixed{Value: 1}, ids[0])

	require.NoError(t, s.Seal())
	assert.Equal(t, ids, s.Network().Order())
}

func TestSeal_UnreachableStationIsConfigurationError(t *testing.T) {
	s := newTestSimulator(t, 10, 1, 1)
	b := s.Builder()
	a := b.AddStation("a", 0)
	orphan := b.AddStation("orphan", 0)
	b.AddDevice(a, Fixed{Value: 1})
	b.AddDevice(orphan, Fixed{Value: 1})
	b.SetProducer(Fixed{Value: 1}, a)

	err := s.Seal()

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreachableStation))
	assert.Contains(t, err.Error(), "orphan")
	assert.Equal(t, StateBuilding, s.State)
}

func TestSeal_OnlyFailureLinkMakesStationReachable(t *testing.T) {
	s := newTestSimulator(t, 10, 1, 1)
	b := s.Builder()
	a := b.AddStation("a", 0)
	spare := b.AddStation("spare", 0)
	b.AddDevice(a, Fixed{Value: 1})
	b.AddDevice(spare, Fixed{Value: 1})
	b.SetOnFailure(a, spare)
	b.SetProducer(Fixed{Value: 1}, a)

	require.NoError(t, s.Seal())
	assert.Equal(t, []StationID{spare, a}, s.Network().Order())
}

func TestSeal_MissingProducer(t *testing.T) {
	s := newTestSimulator(t, 10, 1, 1)
	b := s.Builder()
	b.AddDevice(b.AddStation("a", 0), Fixed{Value: 1})

	assert.ErrorIs(t, s.Seal(), ErrNoProducer)
}

func TestSeal_StationWithoutDevices(t *testing.T) {
	s := newTestSimulator(t, 10, 1, 1)
	b := s.Builder()
	a := b.AddStation("a", 0)
	b.SetProducer(Fixed{Value: 1}, a)

	err := s.Seal()
	assert.ErrorIs(t, err, ErrNoDevices)
}

func TestBuilder_MalformedGraphPanics(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder, a, c StationID)
	}{
		{"self successor", func(b *Builder, a, _ StationID) { b.AddNext(a, a, 1) }},
		{"self failure target", func(b *Builder, a, _ StationID) { b.SetOnFailure(a, a) }},
		{"zero weight", func(b *Builder, a, c StationID) { b.AddNext(a, c, 0) }},
		{"unknown successor", func(b *Builder, a, _ StationID) { b.AddNext(a, 42, 1) }},
		{"unknown failure target", func(b *Builder, a, _ StationID) { b.SetOnFailure(a, -3) }},
		{"device on unknown station", func(b *Builder, _, _ StationID) { b.AddDevice(9, Fixed{Value: 1}) }},
		{"negative capacity", func(b *Builder, _, _ StationID) { b.AddStation("neg", -1) }},
		{"duplicate name", func(b *Builder, _, _ StationID) { b.AddStation("a", 0) }},
		{"nil producer distribution", func(b *Builder, a, _ StationID) { b.SetProducer(nil, a) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestSimulator(t, 10, 1, 1).Builder()
			a := b.AddStation("a", 0)
			c := b.AddStation("c", 0)
			assert.Panics(t, func() { tt.build(b, a, c) })
		})
	}
}

func TestBuilder_DuplicateSuccessorKeepsFirstWeight(t *testing.T) {
	b := newTestSimulator(t, 10, 1, 1).Builder()
	a := b.AddStation("a", 0)
	c := b.AddStation("c", 0)

	b.AddNext(a, c, 2)
	b.AddNext(a, c, 9)

	st := b.net.stations[a]
	assert.Equal(t, []Edge{{To: c, Weight: 2}}, st.Next())
	assert.Equal(t, 2, st.totalWeight)
}

func TestBuilder_DefaultNamesAndLookup(t *testing.T) {
	b := newTestSimulator(t, 10, 1, 1).Builder()
	first := b.AddStation("", 0)
	named := b.AddStation("named", 0)

	assert.Equal(t, "station_0", b.net.stations[first].Name())
	id, ok := b.Lookup("named")
	assert.True(t, ok)
	assert.Equal(t, named, id)
	_, ok = b.Lookup("missing")
	assert.False(t, ok)
}

func TestBuilder_SealedNetworkIsImmutable(t *testing.T) {
	s := newTestSimulator(t, 10, 1, 1)
	b := s.Builder()
	a := b.AddStation("a", 0)
	b.AddDevice(a, Fixed{Value: 1})
	b.SetProducer(Fixed{Value: 1}, a)
	require.NoError(t, s.Seal())

	assert.Panics(t, func() { b.AddStation("late", 0) })
	assert.Panics(t, func() { b.AddDevice(a, Fixed{Value: 1}) })
	assert.Panics(t, func() { s.Builder() })
}
