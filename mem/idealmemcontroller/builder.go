package idealmemcontroller

import (
	"log"

	"github.com/sarchlab/spmcache/sim"
)

// Builder can build ideal memory controllers.
type Builder struct {
	latency int
	freq    sim.Freq
}

// MakeBuilder returns a new Builder
func MakeBuilder() Builder {
	return Builder{
		latency: 100,
		freq:    1 * sim.GHz,
	}
}

// WithLatency sets the latency of the memory controller in cycles.
func (b Builder) WithLatency(latency int) Builder {
	b.latency = latency
	return b
}

// WithFreq sets the frequency of the memory controller
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// Build creates a new Comp
func (b Builder) Build(name string) *Comp {
	if b.latency < 0 {
		log.Panicf("latency cannot be negative, got %d", b.latency)
	}

	return &Comp{
		name:    name,
		freq:    b.freq,
		Latency: b.latency,
	}
}
