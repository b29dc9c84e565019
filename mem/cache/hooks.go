package cache

import (
	"github.com/sarchlab/spmcache/mem"
	"github.com/sarchlab/spmcache/sim"
)

// Hook positions triggered by a cache.
var (
	// HookPosAccess triggers after an access is served. The Item is the
	// mem.AccessReq and the Detail is an AccessEvent.
	HookPosAccess = &sim.HookPos{Name: "CacheAccess"}

	// HookPosEvict triggers when a line is evicted to make room. The Item and
	// the Detail are both the Eviction.
	HookPosEvict = &sim.HookPos{Name: "CacheEvict"}

	// HookPosMigrate triggers when an evicted line moves to the scratchpad,
	// right after HookPosEvict.
	HookPosMigrate = &sim.HookPos{Name: "CacheMigrate"}
)

// AccessEvent is the detail of a HookPosAccess hook.
type AccessEvent struct {
	Time   sim.VTimeInSec
	Result AccessResult
}

// EvictionEvent is the detail of HookPosEvict and HookPosMigrate hooks.
type EvictionEvent struct {
	Time     sim.VTimeInSec
	Eviction Eviction
}

func (c *Comp) traceAccess(
	req mem.AccessReq,
	now sim.VTimeInSec,
	result AccessResult,
) {
	if c.NumHooks() == 0 {
		return
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosAccess,
		Item:   req,
		Detail: AccessEvent{Time: now, Result: result},
	})
}

func (c *Comp) traceEviction(e Eviction, now sim.VTimeInSec) {
	if c.NumHooks() == 0 {
		return
	}

	detail := EvictionEvent{Time: now, Eviction: e}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosEvict,
		Item:   e,
		Detail: detail,
	})

	if e.Migrated {
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosMigrate,
			Item:   e,
			Detail: detail,
		})
	}
}
