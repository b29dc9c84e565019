package cache

import (
	"log"
	"sync"

	"github.com/sarchlab/spmcache/mem"
	"github.com/sarchlab/spmcache/mem/cache/internal/tagging"
	"github.com/sarchlab/spmcache/mem/cache/replacement"
	"github.com/sarchlab/spmcache/sim"
)

type lineKey struct {
	pid  mem.PID
	addr uint64
}

// A Comp implements a write-back, write-allocate cache. Lines that the
// replacement policy flags as write intensive are migrated to a scratchpad
// when they are evicted. Later misses on a migrated line are served by the
// scratchpad.
//
// A Comp is not safe for concurrent accesses. Stats can be read concurrently.
type Comp struct {
	sim.HookableBase

	name          string
	freq          sim.Freq
	hitLatency    int
	log2BlockSize int

	policy       replacement.Policy
	advisor      replacement.MigrationAdvisor
	tags         tagging.TagArray
	victimFinder tagging.VictimFinder
	lowModule    mem.Module
	scratchpad   mem.Module
	spmResident  map[lineKey]bool

	statsLock sync.Mutex
	stats     Stats
}

// Name returns the name of the cache.
func (c *Comp) Name() string {
	return c.name
}

// BlockSize returns the cache line size in bytes.
func (c *Comp) BlockSize() uint64 {
	return 1 << c.log2BlockSize
}

// TotalSize returns the number of bytes the cache can hold.
func (c *Comp) TotalSize() uint64 {
	return c.tags.TotalSize()
}

// NumWays returns the associativity of the cache.
func (c *Comp) NumWays() int {
	return c.tags.NumWays()
}

// AccessResult describes how a cache served an access.
type AccessResult struct {
	// Hit is true if every line touched by the access was in the cache.
	Hit bool

	// Evictions lists the lines that were evicted to make room.
	Evictions []Eviction

	// CompleteTime is when the data is available to the requester.
	CompleteTime sim.VTimeInSec
}

// Access serves a read or write. An access that spans several cache lines is
// served line by line.
func (c *Comp) Access(req mem.AccessReq, now sim.VTimeInSec) AccessResult {
	if req.ByteSize == 0 {
		log.Panicf("access %s has no bytes", req.ID)
	}

	if req.Address+req.ByteSize-1 < req.Address {
		log.Panicf("access %s at 0x%x with %d bytes overflows the address space",
			req.ID, req.Address, req.ByteSize)
	}

	start := c.freq.ThisTick(now)
	result := AccessResult{Hit: true, CompleteTime: start}

	blockSize := c.BlockSize()
	first := getCacheLineAddr(req.Address, c.log2BlockSize)
	last := getCacheLineAddr(req.Address+req.ByteSize-1, c.log2BlockSize)

	for lineAddr := first; lineAddr <= last; lineAddr += blockSize {
		lineReq := req
		lineReq.Address = lineAddr
		lineReq.ByteSize = blockSize

		done, hit, eviction := c.accessLine(lineReq, start)

		result.Hit = result.Hit && hit
		if done > result.CompleteTime {
			result.CompleteTime = done
		}

		if eviction != nil {
			result.Evictions = append(result.Evictions, *eviction)
		}
	}

	c.traceAccess(req, now, result)

	return result
}

func (c *Comp) accessLine(
	req mem.AccessReq,
	start sim.VTimeInSec,
) (done sim.VTimeInSec, hit bool, eviction *Eviction) {
	tagDone := c.freq.NCyclesLater(c.hitLatency, start)

	block, hit := c.tags.Lookup(req.PID, req.Address)
	if hit {
		c.handleHit(req, block)
		return tagDone, true, nil
	}

	done, eviction = c.handleMiss(req, tagDone)

	return done, false, eviction
}

func (c *Comp) handleHit(req mem.AccessReq, block tagging.Block) {
	c.policy.Touch(c.tags.State(block.SetID, block.WayID), req.Type)

	if req.Type.IsWrite() {
		block.IsDirty = true
		c.tags.Update(block)
	}

	c.countAccess(req.Type, true)
}

func (c *Comp) handleMiss(
	req mem.AccessReq,
	now sim.VTimeInSec,
) (sim.VTimeInSec, *Eviction) {
	victim := c.victimFinder.FindVictim(c.tags, req.Address)

	var eviction *Eviction
	if victim.IsValid {
		e := c.evict(victim, now)
		eviction = &e
	}

	fetch := mem.AccessReq{
		ID:       req.ID + ".fill",
		PID:      req.PID,
		Address:  req.Address,
		ByteSize: c.BlockSize(),
		Type:     mem.AccessTypeRead,
	}
	done := c.moduleFor(req.PID, req.Address).Access(fetch, now)

	victim.PID = req.PID
	victim.Tag = req.Address
	victim.IsValid = true
	victim.IsDirty = req.Type.IsWrite()
	c.tags.Update(victim)
	c.policy.Reset(c.tags.State(victim.SetID, victim.WayID))

	c.countAccess(req.Type, false)

	return done, eviction
}

// moduleFor returns the memory that currently backs a line.
func (c *Comp) moduleFor(pid mem.PID, lineAddr uint64) mem.Module {
	if c.spmResident[lineKey{pid: pid, addr: lineAddr}] {
		return c.scratchpad
	}

	return c.lowModule
}

func getCacheLineAddr(addr uint64, log2BlockSize int) uint64 {
	return addr >> log2BlockSize << log2BlockSize
}
