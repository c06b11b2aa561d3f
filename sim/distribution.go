package sim

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// Distribution generates positive time samples: service durations for
// devices and inter-arrival gaps for the producer.
//
// Parameters are not validated here. Exponential{Rate: 0} or a Fixed value
// of zero are accepted as given; the scenario loader rejects them before a
// run is built.
type Distribution interface {
	// Sample draws one duration from rng.
	Sample(rng *rand.Rand) float64
	String() string
}

// Exponential samples -ln(U)/Rate.
type Exponential struct {
	Rate float64
}

func (d Exponential) Sample(rng *rand.Rand) float64 {
	return -(1.0 / d.Rate) * math.Log(nonZeroFloat64(rng))
}

func (d Exponential) String() string {
	return fmt.Sprintf("exponential(rate=%g)", d.Rate)
}

// Uniform samples from the open interval (Low, High).
type Uniform struct {
	Low, High float64
}

func (d Uniform) Sample(rng *rand.Rand) float64 {
	return d.Low + (d.High-d.Low)*nonZeroFloat64(rng)
}

func (d Uniform) String() string {
	return fmt.Sprintf("uniform(%g, %g)", d.Low, d.High)
}

// Fixed always returns Value and never consumes randomness.
type Fixed struct {
	Value float64
}

func (d Fixed) Sample(_ *rand.Rand) float64 {
	return d.Value
}

func (d Fixed) String() string {
	return fmt.Sprintf("fixed(%g)", d.Value)
}

// Mixed sums one independent sample of each member, in member order.
// A Mixed with no members samples zero.
type Mixed struct {
	Members []Distribution
}

func (d Mixed) Sample(rng *rand.Rand) float64 {
	total := 0.0
	for _, m := range d.Members {
		total += m.Sample(rng)
	}
	return total
}

func (d Mixed) String() string {
	parts := make([]string, len(d.Members))
	for i, m := range d.Members {
		parts[i] = m.String()
	}
	return "mixed(" + strings.Join(parts, " + ") + ")"
}

// nonZeroFloat64 draws from (0, 1). rand.Float64 can return exactly 0,
// which would make -ln(U) infinite.
func nonZeroFloat64(rng *rand.Rand) float64 {
	n := rng.Float64()
	for n == 0 {
		n = rng.Float64()
	}
	return n
}
