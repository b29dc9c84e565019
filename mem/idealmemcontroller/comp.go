// Package idealmemcontroller provides a memory that serves every access in a
// fixed number of cycles.
package idealmemcontroller

import (
	"sync/atomic"

	"github.com/sarchlab/spmcache/mem"
	"github.com/sarchlab/spmcache/sim"
)

// A Comp is an ideal memory controller. It always responds to a request in a
// fixed number of cycles and has no limitation on concurrency.
type Comp struct {
	name    string
	freq    sim.Freq
	Latency int

	numReads  atomic.Uint64
	numWrites atomic.Uint64
}

// Name returns the name of the memory controller.
func (c *Comp) Name() string {
	return c.name
}

// Access serves a request and returns when it completes.
func (c *Comp) Access(req mem.AccessReq, now sim.VTimeInSec) sim.VTimeInSec {
	if req.Type.IsWrite() {
		c.numWrites.Add(1)
	} else {
		c.numReads.Add(1)
	}

	return c.freq.NCyclesLater(c.Latency, now)
}

// NumReads returns the number of non-write accesses served.
func (c *Comp) NumReads() uint64 {
	return c.numReads.Load()
}

// NumWrites returns the number of writes served.
func (c *Comp) NumWrites() uint64 {
	return c.numWrites.Load()
}
