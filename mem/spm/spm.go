// Package spm models a scratchpad memory. Only timing and energy are
// modeled; the scratchpad does not store data.
package spm

import (
	"sync"

	"github.com/sarchlab/spmcache/mem"
	"github.com/sarchlab/spmcache/sim"
)

const picosecond = 1e-12

// Comp is a scratchpad memory.
type Comp struct {
	name            string
	readLatency     sim.VTimeInSec
	writeLatency    sim.VTimeInSec
	latencyVariance sim.VTimeInSec
	readEnergy      float64
	writeEnergy     float64
	overheadEnergy  float64
	bandwidth       float64
	randSource      sim.RandSource

	lock      sync.Mutex
	busyUntil sim.VTimeInSec
	stats     Stats
}

// Name returns the name of the scratchpad.
func (c *Comp) Name() string {
	return c.name
}

// Access serves a request. A request cannot start before the previous one
// has been transferred, and holds the scratchpad for size/bandwidth seconds.
func (c *Comp) Access(req mem.AccessReq, now sim.VTimeInSec) sim.VTimeInSec {
	c.lock.Lock()
	defer c.lock.Unlock()

	start := max(now, c.busyUntil)
	c.busyUntil = start + sim.VTimeInSec(float64(req.ByteSize)/c.bandwidth)

	var latency sim.VTimeInSec

	switch req.Type {
	case mem.AccessTypeRead:
		c.stats.NumReads++
		latency = c.readLatency
	case mem.AccessTypeWrite:
		c.stats.NumWrites++
		latency = c.writeLatency
	default:
		c.stats.NumOthers++
		latency = c.readLatency
	}

	c.stats.BytesTransferred += req.ByteSize

	return c.busyUntil + latency + c.variance()
}

func (c *Comp) variance() sim.VTimeInSec {
	steps := int(float64(c.latencyVariance)/picosecond + 0.5)
	if steps == 0 {
		return 0
	}

	return sim.VTimeInSec(c.randSource.IntN(steps+1)) * picosecond
}

// Stats returns a snapshot of the access counters and the energy figures.
func (c *Comp) Stats() Stats {
	c.lock.Lock()
	defer c.lock.Unlock()

	s := c.stats
	s.ReadEnergy = float64(s.NumReads) * c.readEnergy
	s.WriteEnergy = float64(s.NumWrites) * c.writeEnergy
	s.OverheadEnergy = float64(s.NumOthers) * c.overheadEnergy
	s.TotalEnergy = s.ReadEnergy + s.WriteEnergy + s.OverheadEnergy

	if c.overheadEnergy == 0 {
		s.AverageEnergy = s.TotalEnergy / 2
	} else {
		s.AverageEnergy = s.TotalEnergy / 3
	}

	return s
}

// Stats are the counters of a scratchpad. Energies are in pJ.
type Stats struct {
	NumReads         uint64 `json:"num_reads"`
	NumWrites        uint64 `json:"num_writes"`
	NumOthers        uint64 `json:"num_others"`
	BytesTransferred uint64 `json:"bytes_transferred"`

	ReadEnergy     float64 `json:"energy_read"`
	WriteEnergy    float64 `json:"energy_write"`
	OverheadEnergy float64 `json:"energy_overhead"`
	TotalEnergy    float64 `json:"energy_total"`
	AverageEnergy  float64 `json:"energy_average"`
}
