package cache

import (
	"log"

	"github.com/sarchlab/spmcache/mem"
	"github.com/sarchlab/spmcache/mem/cache/internal/tagging"
	"github.com/sarchlab/spmcache/mem/cache/replacement"
	"github.com/sarchlab/spmcache/sim"
)

// Builder can build caches.
type Builder struct {
	freq sim.Freq

	log2BlockSize    int
	wayAssociativity int
	byteSize         uint64
	hitLatency       int
	policy           replacement.Policy
	lowModule        mem.Module
	scratchpad       mem.Module
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		freq:             1 * sim.GHz,
		log2BlockSize:    6,
		wayAssociativity: 4,
		byteSize:         16 * mem.KB,
		hitLatency:       2,
	}
}

// WithFreq sets the frequency of the cache.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithLog2BlockSize sets the log2 of the cache line size.
func (b Builder) WithLog2BlockSize(n int) Builder {
	b.log2BlockSize = n
	return b
}

// WithWayAssociativity sets the number of ways in each set.
func (b Builder) WithWayAssociativity(n int) Builder {
	b.wayAssociativity = n
	return b
}

// WithByteSize sets the capacity of the cache.
func (b Builder) WithByteSize(byteSize uint64) Builder {
	b.byteSize = byteSize
	return b
}

// WithHitLatency sets the number of cycles needed to check the tags and serve
// a hit.
func (b Builder) WithHitLatency(cycles int) Builder {
	b.hitLatency = cycles
	return b
}

// WithPolicy sets the replacement policy. A BRRIPSPM policy with default
// parameters is used if no policy is given.
func (b Builder) WithPolicy(policy replacement.Policy) Builder {
	b.policy = policy
	return b
}

// WithLowModule sets the memory that serves misses and receives write-backs.
func (b Builder) WithLowModule(m mem.Module) Builder {
	b.lowModule = m
	return b
}

// WithScratchpad sets the memory that receives the lines that the policy
// selects for migration. Without a scratchpad, those lines are written back
// to the low module.
func (b Builder) WithScratchpad(m mem.Module) Builder {
	b.scratchpad = m
	return b
}

// Build builds a cache.
func (b Builder) Build(name string) *Comp {
	if b.lowModule == nil {
		log.Panic("a cache requires a low module")
	}

	blockSize := 1 << b.log2BlockSize
	b.mustBeFullSets(blockSize)
	numSets := int(b.byteSize / uint64(blockSize*b.wayAssociativity))

	policy := b.policy
	if policy == nil {
		policy = replacement.MakeBuilder().Build()
	}

	c := &Comp{
		name:          name,
		freq:          b.freq,
		hitLatency:    b.hitLatency,
		log2BlockSize: b.log2BlockSize,
		policy:        policy,
		tags: tagging.NewTagArray(
			numSets, b.wayAssociativity, blockSize, policy),
		victimFinder: tagging.NewPolicyVictimFinder(policy),
		lowModule:    b.lowModule,
		scratchpad:   b.scratchpad,
		spmResident:  make(map[lineKey]bool),
	}

	if advisor, ok := policy.(replacement.MigrationAdvisor); ok {
		c.advisor = advisor
	}

	return c
}

func (b Builder) mustBeFullSets(blockSize int) {
	if b.wayAssociativity < 1 {
		log.Panic("a cache must have at least one way")
	}

	setSize := uint64(blockSize * b.wayAssociativity)
	if b.byteSize == 0 || b.byteSize%setSize != 0 {
		log.Panic("cache must have a integer number of sets")
	}
}
