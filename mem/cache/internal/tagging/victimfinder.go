package tagging

import (
	"github.com/sarchlab/spmcache/mem/cache/replacement"
)

// A VictimFinder decides with block should be evicted
type VictimFinder interface {
	FindVictim(tags TagArray, address uint64) Block
}

// PolicyVictimFinder asks a replacement policy to pick the victim among the
// ways of the set that the address maps to.
type PolicyVictimFinder struct {
	policy replacement.Policy
}

// NewPolicyVictimFinder returns a victim finder that delegates to the policy.
func NewPolicyVictimFinder(policy replacement.Policy) *PolicyVictimFinder {
	return &PolicyVictimFinder{policy: policy}
}

// FindVictim returns the block that the policy selects.
func (f *PolicyVictimFinder) FindVictim(tags TagArray, address uint64) Block {
	setID := tags.GetSetID(address)

	return tags.Block(setID, f.policy.GetVictim(tags.Candidates(setID)))
}
