package replacement

import "github.com/sarchlab/spmcache/mem"

// LRU evicts the least recently used line. Invalid lines are evicted first.
type LRU struct {
	clock uint64
}

// InstantiateEntry creates an invalid line.
func (p *LRU) InstantiateEntry() State {
	return State{}
}

// Invalidate drops the line.
func (p *LRU) Invalidate(s *State) {
	s.Valid = false
}

// Touch makes the line the most recently used one.
func (p *LRU) Touch(s *State, _ mem.AccessType) {
	p.clock++
	s.LastTouch = p.clock
}

// Reset makes the newly installed line the most recently used one.
func (p *LRU) Reset(s *State) {
	p.clock++
	s.Valid = true
	s.LastTouch = p.clock
}

// GetVictim returns the first invalid candidate, or else the least recently
// used one.
func (p *LRU) GetVictim(candidates []*State) int {
	mustHaveCandidates(candidates)

	if i := firstInvalid(candidates); i >= 0 {
		return i
	}

	victim := 0
	for i, c := range candidates {
		if c.LastTouch < candidates[victim].LastTouch {
			victim = i
		}
	}

	return victim
}
