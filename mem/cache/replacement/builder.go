package replacement

import (
	"log"
	"slices"

	"github.com/sarchlab/spmcache/sim"
)

// Builder can build replacement policies.
type Builder struct {
	numRRPVBits int
	hitPriority bool
	btp         int
	randSource  sim.RandSource
}

// MakeBuilder creates a builder with 2-bit RRPVs, frequency priority, and a
// bimodal throttle of 3 percent.
func MakeBuilder() Builder {
	return Builder{
		numRRPVBits: 2,
		hitPriority: false,
		btp:         3,
	}
}

// WithNumRRPVBits sets the width of the re-reference prediction counter. A
// width of 1 makes the policy behave as not-recently-used.
func (b Builder) WithNumRRPVBits(n int) Builder {
	b.numRRPVBits = n
	return b
}

// WithHitPriority selects hit priority (a hit resets the RRPV to 0) when true
// and frequency priority (a hit decrements the RRPV) when false.
func (b Builder) WithHitPriority(hitPriority bool) Builder {
	b.hitPriority = hitPriority
	return b
}

// WithBTP sets the bimodal throttle percentage, the share of insertions that
// get a long rather than distant re-reference prediction.
func (b Builder) WithBTP(btp int) Builder {
	b.btp = btp
	return b
}

// WithRandSource sets the random source used for bimodal insertion.
func (b Builder) WithRandSource(r sim.RandSource) Builder {
	b.randSource = r
	return b
}

// Build creates a BRRIPSPM policy.
func (b Builder) Build() *BRRIPSPM {
	b.mustBeValid()

	r := b.randSource
	if r == nil {
		r = sim.NewRandSource(0)
	}

	return &BRRIPSPM{
		numRRPVBits: b.numRRPVBits,
		hitPriority: b.hitPriority,
		btp:         b.btp,
		rand:        r,
		numPRBits:   NumPRBits,
		prThreshold: PRThreshold,
	}
}

// BuildLRU creates an LRU policy.
func (b Builder) BuildLRU() *LRU {
	return &LRU{}
}

// Names of the policies that BuildByName can create.
const (
	NameBRRIPSPM = "brripspm"
	NameLRU      = "lru"
)

// PolicyNames lists the names accepted by BuildByName.
var PolicyNames = []string{NameBRRIPSPM, NameLRU}

// IsKnownPolicy returns true if BuildByName can create a policy of the name.
func IsKnownPolicy(name string) bool {
	return slices.Contains(PolicyNames, name)
}

// BuildByName creates the policy registered under the given name.
func (b Builder) BuildByName(name string) Policy {
	switch name {
	case NameBRRIPSPM:
		return b.Build()
	case NameLRU:
		return b.BuildLRU()
	default:
		log.Panicf("unknown replacement policy: %s", name)
	}

	return nil
}

func (b Builder) mustBeValid() {
	if b.numRRPVBits < 1 || b.numRRPVBits > MaxCounterBits {
		log.Panicf("RRPV width must be in [1, %d], got %d",
			MaxCounterBits, b.numRRPVBits)
	}

	if b.btp < 0 || b.btp > 100 {
		log.Panicf("bimodal throttle percentage must be in [0, 100], got %d",
			b.btp)
	}
}
