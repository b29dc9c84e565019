package spm

import (
	"log"

	"github.com/sarchlab/spmcache/sim"
)

// Builder can build scratchpad memories.
type Builder struct {
	readLatency     sim.VTimeInSec
	writeLatency    sim.VTimeInSec
	latencyVariance sim.VTimeInSec
	readEnergy      float64
	writeEnergy     float64
	overheadEnergy  float64
	bandwidth       float64
	randSource      sim.RandSource
}

// MakeBuilder returns a builder with the default scratchpad parameters.
func MakeBuilder() Builder {
	return Builder{
		readLatency:    2e-9,
		writeLatency:   10e-9,
		readEnergy:     100,
		writeEnergy:    600,
		overheadEnergy: 100,
		bandwidth:      64e9,
	}
}

// WithReadLatency sets the time it takes to serve a read.
func (b Builder) WithReadLatency(latency sim.VTimeInSec) Builder {
	b.readLatency = latency
	return b
}

// WithWriteLatency sets the time it takes to serve a write.
func (b Builder) WithWriteLatency(latency sim.VTimeInSec) Builder {
	b.writeLatency = latency
	return b
}

// WithLatencyVariance sets the upper bound of the random delay that is added
// to every access.
func (b Builder) WithLatencyVariance(variance sim.VTimeInSec) Builder {
	b.latencyVariance = variance
	return b
}

// WithReadEnergy sets the energy, in pJ, that a read consumes.
func (b Builder) WithReadEnergy(pj float64) Builder {
	b.readEnergy = pj
	return b
}

// WithWriteEnergy sets the energy, in pJ, that a write consumes.
func (b Builder) WithWriteEnergy(pj float64) Builder {
	b.writeEnergy = pj
	return b
}

// WithOverheadEnergy sets the energy, in pJ, of accesses that are neither
// reads nor writes.
func (b Builder) WithOverheadEnergy(pj float64) Builder {
	b.overheadEnergy = pj
	return b
}

// WithBandwidth sets the bandwidth in bytes per second.
func (b Builder) WithBandwidth(bytesPerSecond float64) Builder {
	b.bandwidth = bytesPerSecond
	return b
}

// WithRandSource sets the source of the latency variance.
func (b Builder) WithRandSource(r sim.RandSource) Builder {
	b.randSource = r
	return b
}

// Build creates a scratchpad memory.
func (b Builder) Build(name string) *Comp {
	b.mustBeValid()

	c := &Comp{
		name:            name,
		readLatency:     b.readLatency,
		writeLatency:    b.writeLatency,
		latencyVariance: b.latencyVariance,
		readEnergy:      b.readEnergy,
		writeEnergy:     b.writeEnergy,
		overheadEnergy:  b.overheadEnergy,
		bandwidth:       b.bandwidth,
		randSource:      b.randSource,
	}

	if c.randSource == nil {
		c.randSource = sim.NewRandSource(0)
	}

	return c
}

func (b Builder) mustBeValid() {
	if b.bandwidth <= 0 {
		log.Panicf("bandwidth must be positive, got %g", b.bandwidth)
	}

	if b.readLatency < 0 || b.writeLatency < 0 || b.latencyVariance < 0 {
		log.Panic("latencies cannot be negative")
	}
}
