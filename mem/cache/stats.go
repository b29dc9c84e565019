package cache

import "github.com/sarchlab/spmcache/mem"

// Stats counts the events observed by a cache.
type Stats struct {
	ReadHits      uint64 `json:"read_hits"`
	ReadMisses    uint64 `json:"read_misses"`
	WriteHits     uint64 `json:"write_hits"`
	WriteMisses   uint64 `json:"write_misses"`
	Evictions     uint64 `json:"evictions"`
	WriteBacks    uint64 `json:"write_backs"`
	Migrations    uint64 `json:"migrations"`
	Invalidations uint64 `json:"invalidations"`
}

// Accesses returns the number of line accesses.
func (s Stats) Accesses() uint64 {
	return s.ReadHits + s.ReadMisses + s.WriteHits + s.WriteMisses
}

// HitRate returns the fraction of line accesses that hit.
func (s Stats) HitRate() float64 {
	if s.Accesses() == 0 {
		return 0
	}

	return float64(s.ReadHits+s.WriteHits) / float64(s.Accesses())
}

// Stats returns a snapshot of the counters.
func (c *Comp) Stats() Stats {
	c.statsLock.Lock()
	defer c.statsLock.Unlock()

	return c.stats
}

// Accesses with an unknown type count as reads.
func (c *Comp) countAccess(t mem.AccessType, hit bool) {
	c.statsLock.Lock()
	defer c.statsLock.Unlock()

	switch {
	case t.IsWrite() && hit:
		c.stats.WriteHits++
	case t.IsWrite():
		c.stats.WriteMisses++
	case hit:
		c.stats.ReadHits++
	default:
		c.stats.ReadMisses++
	}
}

func (c *Comp) countEviction(e Eviction) {
	c.statsLock.Lock()
	defer c.statsLock.Unlock()

	c.stats.Evictions++

	if e.Migrated {
		c.stats.Migrations++
	}

	if e.WrittenBack {
		c.stats.WriteBacks++
	}
}
