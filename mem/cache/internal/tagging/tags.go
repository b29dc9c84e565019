package tagging

import (
	"github.com/sarchlab/spmcache/mem"
	"github.com/sarchlab/spmcache/mem/cache/replacement"
)

// A TagArray keeps the metadata of all the cache lines.
type TagArray interface {
	Lookup(pid mem.PID, reqAddr uint64) (Block, bool)
	GetSetID(reqAddr uint64) int
	Block(setID, wayID int) Block
	Update(block Block)
	State(setID, wayID int) *replacement.State
	Candidates(setID int) []*replacement.State
	NumSets() int
	NumWays() int
	BlockSize() int
	TotalSize() uint64
	Reset()
}

// NewTagArray creates a tag array. The policy provides the initial
// replacement state of every line.
func NewTagArray(
	numSets int,
	numWays int,
	blockSize int,
	policy replacement.Policy,
) TagArray {
	t := &tagArrayImpl{
		numSets:   numSets,
		numWays:   numWays,
		blockSize: blockSize,
		policy:    policy,
	}

	t.Reset()

	return t
}

// A Block of a cache is the information that is associated with a cache line
type Block struct {
	PID     mem.PID
	Tag     uint64
	WayID   int
	SetID   int
	IsValid bool
	IsDirty bool
}

// tagArrayImpl stores blocks and their replacement states in two arenas that
// share the slot index setID*numWays+wayID. The per-set candidate lists point
// into the state arena and are built once per Reset.
type tagArrayImpl struct {
	numSets   int
	numWays   int
	blockSize int
	policy    replacement.Policy

	blocks     []Block
	states     []replacement.State
	candidates [][]*replacement.State
}

func (t *tagArrayImpl) slot(setID, wayID int) int {
	return setID*t.numWays + wayID
}

func (t *tagArrayImpl) NumSets() int {
	return t.numSets
}

func (t *tagArrayImpl) NumWays() int {
	return t.numWays
}

func (t *tagArrayImpl) BlockSize() int {
	return t.blockSize
}

// TotalSize returns the maximum number of bytes can be stored in the cache
func (t *tagArrayImpl) TotalSize() uint64 {
	return uint64(t.numSets) * uint64(t.numWays) * uint64(t.blockSize)
}

// GetSetID returns the set that a certain address should store at
func (t *tagArrayImpl) GetSetID(reqAddr uint64) int {
	return int(reqAddr / uint64(t.blockSize) % uint64(t.numSets))
}

// Lookup finds the valid block that holds reqAddr for the given process.
func (t *tagArrayImpl) Lookup(pid mem.PID, reqAddr uint64) (Block, bool) {
	setID := t.GetSetID(reqAddr)
	tag := t.lineAddr(reqAddr)

	for wayID := 0; wayID < t.numWays; wayID++ {
		block := t.blocks[t.slot(setID, wayID)]
		if block.IsValid && block.Tag == tag && block.PID == pid {
			return block, true
		}
	}

	return Block{}, false
}

func (t *tagArrayImpl) lineAddr(addr uint64) uint64 {
	return addr / uint64(t.blockSize) * uint64(t.blockSize)
}

func (t *tagArrayImpl) Block(setID, wayID int) Block {
	return t.blocks[t.slot(setID, wayID)]
}

// Update overwrites the block metadata at the block's position.
func (t *tagArrayImpl) Update(block Block) {
	t.blocks[t.slot(block.SetID, block.WayID)] = block
}

// State returns the replacement state owned by a line.
func (t *tagArrayImpl) State(setID, wayID int) *replacement.State {
	return &t.states[t.slot(setID, wayID)]
}

// Candidates returns the replacement states of all the ways in a set, in way
// order. The returned slice must not be modified.
func (t *tagArrayImpl) Candidates(setID int) []*replacement.State {
	return t.candidates[setID]
}

// Reset marks all the blocks invalid and gives every line a fresh
// replacement state.
func (t *tagArrayImpl) Reset() {
	numLines := t.numSets * t.numWays
	t.blocks = make([]Block, numLines)
	t.states = make([]replacement.State, numLines)
	t.candidates = make([][]*replacement.State, t.numSets)

	for setID := 0; setID < t.numSets; setID++ {
		set := make([]*replacement.State, t.numWays)

		for wayID := 0; wayID < t.numWays; wayID++ {
			i := t.slot(setID, wayID)
			t.blocks[i] = Block{SetID: setID, WayID: wayID}
			t.states[i] = t.policy.InstantiateEntry()
			set[wayID] = &t.states[i]
		}

		t.candidates[setID] = set
	}
}
