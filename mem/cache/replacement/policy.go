// Package replacement provides the replacement policies that decide which
// cache line to evict from a set.
package replacement

import (
	"log"

	"github.com/sarchlab/spmcache/mem"
)

// State is the replacement bookkeeping attached to one cache line. The line
// owns its State; policies only mutate it through the Policy methods.
type State struct {
	// RRPV is the re-reference prediction value. 0 predicts a near-immediate
	// re-reference and the saturated value predicts a distant one.
	RRPV SatCounter

	// PR accumulates the write intensity of the line.
	PR SatCounter

	// Valid is false when the line holds no live data.
	Valid bool

	// LastTouch orders lines by recency for LRU.
	LastTouch uint64
}

// A Policy updates per-line replacement state on cache events and selects
// victims.
type Policy interface {
	// InstantiateEntry creates the state of a newly constructed line.
	InstantiateEntry() State

	// Invalidate marks a line as holding no data and makes it the most
	// attractive victim.
	Invalidate(s *State)

	// Touch records a hit. The access type tells whether the hit writes the
	// line. AccessTypeUnknown skips write tracking.
	Touch(s *State, accessType mem.AccessType)

	// Reset records that a new block is installed into the line.
	Reset(s *State)

	// GetVictim returns the index of the candidate to evict. The order of
	// candidates only matters for breaking ties. Candidates must not be
	// empty.
	GetVictim(candidates []*State) int
}

// A MigrationAdvisor is a Policy that can tell whether the data of a line is
// better placed in the scratchpad than written back to the lower memory.
type MigrationAdvisor interface {
	ShouldMigrate(s *State) bool
}

func mustHaveCandidates(candidates []*State) {
	if len(candidates) == 0 {
		log.Panic("victim selection requires at least one candidate")
	}
}

func firstInvalid(candidates []*State) int {
	for i, c := range candidates {
		if !c.Valid {
			return i
		}
	}

	return -1
}
