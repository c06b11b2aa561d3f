package sim

import "math/rand"

// Producer offers jobs to the network's entry station at sampled
// inter-arrival times.
type Producer struct {
	dist  Distribution
	rng   *rand.Rand
	entry StationID
	net   *Network

	elapsed  float64 // time since the last arrival
	required float64 // sampled gap to the next arrival

	Produced int
}

func newProducer(net *Network, dist Distribution, rng *rand.Rand, entry StationID) *Producer {
	return &Producer{
		dist:     dist,
		rng:      rng,
		entry:    entry,
		net:      net,
		required: dist.Sample(rng),
	}
}

// Entry returns the station arrivals are offered to.
func (p *Producer) Entry() StationID {
	return p.entry
}

// TimeToNext returns the time left until the next arrival.
func (p *Producer) TimeToNext() float64 {
	return p.required - p.elapsed
}

// Advance moves the producer forward by dt, emitting every arrival that
// falls inside the interval. An arrival the entry station cannot admit
// follows the entry station's failure chain like any other rejected job.
func (p *Producer) Advance(dt float64) {
	p.elapsed += dt
	for p.elapsed >= p.required {
		p.net.admit(p.entry)
		p.elapsed -= p.required
		p.required = p.dist.Sample(p.rng)
		p.Produced++
	}
}
