package replacement

import (
	"github.com/sarchlab/spmcache/mem"
	"github.com/sarchlab/spmcache/sim"
)

const (
	// PRThreshold is the write-intensity level a line must exceed before it
	// is evicted for migration to the scratchpad.
	PRThreshold = 3

	// NumPRBits is the width of the write-intensity counter.
	NumPRBits = 2
)

// BRRIPSPM is a bimodal RRIP policy extended with a write-intensity counter.
// Lines whose write intensity exceeds PRThreshold are evicted first so that
// their data can migrate to the scratchpad. Otherwise the victim is chosen by
// RRIP aging.
//
// With NumPRBits = 2 the counter saturates at 3 and never exceeds
// PRThreshold, so the write-intensity stage does not fire under the built
// configuration.
type BRRIPSPM struct {
	numRRPVBits int
	hitPriority bool
	btp         int
	rand        sim.RandSource

	numPRBits   int
	prThreshold uint8
}

// InstantiateEntry creates an invalid line with both counters at 0.
func (p *BRRIPSPM) InstantiateEntry() State {
	return State{
		RRPV: NewSatCounter(p.numRRPVBits),
		PR:   NewSatCounter(p.numPRBits),
	}
}

// Invalidate sets the line as the next probable victim. The write intensity
// is kept.
func (p *BRRIPSPM) Invalidate(s *State) {
	s.Valid = false
	s.RRPV.Saturate()
}

// Touch promotes the line on a hit. Writes also raise the write intensity.
func (p *BRRIPSPM) Touch(s *State, accessType mem.AccessType) {
	if accessType.IsWrite() {
		s.PR.Increment()
	}

	if p.hitPriority {
		s.RRPV.Reset()
		return
	}

	s.RRPV.Decrement()
}

// Reset installs a new block. Most blocks are inserted with a distant
// re-reference prediction; btp percent of them get a long one.
func (p *BRRIPSPM) Reset(s *State) {
	s.Valid = true
	s.PR.Reset()
	s.RRPV.Saturate()

	if p.rand.IntN(100) < p.btp {
		s.RRPV.Decrement()
	}
}

// GetVictim prefers write-intensive lines and falls back to RRIP selection.
func (p *BRRIPSPM) GetVictim(candidates []*State) int {
	mustHaveCandidates(candidates)

	if victim, found := p.writeIntensiveVictim(candidates); found {
		return victim
	}

	return p.rrpvVictim(candidates)
}

// ShouldMigrate returns true if the line holds data that has been written
// often enough to be moved to the scratchpad.
func (p *BRRIPSPM) ShouldMigrate(s *State) bool {
	return s.Valid && s.PR.Value() > p.prThreshold
}

// writeIntensiveVictim returns the candidate with the highest write intensity
// above the threshold. The first one wins on ties. No state is modified.
func (p *BRRIPSPM) writeIntensiveVictim(candidates []*State) (int, bool) {
	victim := -1
	maxPR := p.prThreshold

	for i, c := range candidates {
		if c.PR.Value() > maxPR {
			victim = i
			maxPR = c.PR.Value()
		}
	}

	return victim, victim >= 0
}

// rrpvVictim returns the first invalid line, or else the first line with a
// distant re-reference prediction. If there is none, all candidates age
// until the oldest one reaches the maximum, which gives the same result as
// repeated single-step aging rounds.
func (p *BRRIPSPM) rrpvVictim(candidates []*State) int {
	if i := firstInvalid(candidates); i >= 0 {
		return i
	}

	victim := 0
	for i, c := range candidates {
		if c.RRPV.Value() > candidates[victim].RRPV.Value() {
			victim = i
		}
	}

	age := candidates[victim].RRPV.Max() - candidates[victim].RRPV.Value()
	if age > 0 {
		for _, c := range candidates {
			c.RRPV.Add(age)
		}
	}

	return victim
}
