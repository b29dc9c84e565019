package cache

import (
	"github.com/sarchlab/spmcache/mem"
	"github.com/sarchlab/spmcache/mem/cache/internal/tagging"
	"github.com/sarchlab/spmcache/mem/cache/replacement"
	"github.com/sarchlab/spmcache/sim"
)

// An Eviction describes a line that left the cache.
type Eviction struct {
	PID     mem.PID
	Address uint64
	Dirty   bool

	// Migrated is true if the line was moved to the scratchpad.
	Migrated bool

	// WrittenBack is true if dirty data was written to the backing memory.
	WrittenBack bool
}

func (c *Comp) shouldMigrate(s *replacement.State) bool {
	return c.scratchpad != nil &&
		c.advisor != nil &&
		c.advisor.ShouldMigrate(s)
}

// evict removes a valid block. Write-intensive lines move to the scratchpad
// whether or not they are dirty. Other dirty lines are written back to the
// memory that backs them.
//
// The write-out drains as a write buffer would, so its completion time does
// not delay the miss. Its traffic still occupies the target module.
func (c *Comp) evict(block tagging.Block, now sim.VTimeInSec) Eviction {
	state := c.tags.State(block.SetID, block.WayID)
	e := Eviction{
		PID:     block.PID,
		Address: block.Tag,
		Dirty:   block.IsDirty,
	}

	switch {
	case c.shouldMigrate(state):
		c.writeLine(c.scratchpad, block, now)
		c.spmResident[lineKey{pid: block.PID, addr: block.Tag}] = true
		e.Migrated = true
	case block.IsDirty:
		c.writeLine(c.moduleFor(block.PID, block.Tag), block, now)
		e.WrittenBack = true
	}

	c.dropBlock(block)

	c.countEviction(e)
	c.traceEviction(e, now)

	return e
}

func (c *Comp) writeLine(
	m mem.Module,
	block tagging.Block,
	now sim.VTimeInSec,
) sim.VTimeInSec {
	req := mem.MakeAccessReqBuilder().
		WithPID(block.PID).
		WithAddress(block.Tag).
		WithByteSize(c.BlockSize()).
		WithType(mem.AccessTypeWrite).
		Build()

	return m.Access(req, now)
}

func (c *Comp) dropBlock(block tagging.Block) {
	c.policy.Invalidate(c.tags.State(block.SetID, block.WayID))

	block.IsValid = false
	block.IsDirty = false
	c.tags.Update(block)
}

// Invalidate drops the line that holds the address, writing back dirty data
// first. It returns when the write-back completes and whether a line was
// found.
func (c *Comp) Invalidate(
	pid mem.PID,
	addr uint64,
	now sim.VTimeInSec,
) (sim.VTimeInSec, bool) {
	block, found := c.tags.Lookup(pid, addr)
	if !found {
		return now, false
	}

	done := c.invalidateBlock(block, now)

	c.statsLock.Lock()
	c.stats.Invalidations++
	c.statsLock.Unlock()

	return done, true
}

func (c *Comp) invalidateBlock(
	block tagging.Block,
	now sim.VTimeInSec,
) sim.VTimeInSec {
	done := now

	if block.IsDirty {
		done = c.writeLine(c.moduleFor(block.PID, block.Tag), block, now)

		c.statsLock.Lock()
		c.stats.WriteBacks++
		c.statsLock.Unlock()
	}

	c.dropBlock(block)

	return done
}

// Flush writes back all the dirty lines and invalidates the whole cache. It
// returns when the last write-back completes.
func (c *Comp) Flush(now sim.VTimeInSec) sim.VTimeInSec {
	done := now

	for setID := 0; setID < c.tags.NumSets(); setID++ {
		for wayID := 0; wayID < c.tags.NumWays(); wayID++ {
			block := c.tags.Block(setID, wayID)
			if !block.IsValid {
				continue
			}

			t := c.invalidateBlock(block, now)
			if t > done {
				done = t
			}
		}
	}

	return done
}
