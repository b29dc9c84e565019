// Package trace reads access traces and records what caches do with them.
package trace

import (
	"log"

	"github.com/sarchlab/spmcache/datarecording"
	"github.com/sarchlab/spmcache/mem"
	"github.com/sarchlab/spmcache/mem/cache"
	"github.com/sarchlab/spmcache/sim"
)

const (
	accessTable   = "cache_accesses"
	evictionTable = "cache_evictions"
)

type accessEntry struct {
	ID        string  `json:"id"`
	Location  string  `json:"location"`
	What      string  `json:"what"`
	PID       uint32  `json:"pid"`
	Address   uint64  `json:"address"`
	ByteSize  uint64  `json:"byte_size"`
	Hit       bool    `json:"hit"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

type evictionEntry struct {
	Location    string  `json:"location"`
	Time        float64 `json:"time"`
	PID         uint32  `json:"pid"`
	Address     uint64  `json:"address"`
	Dirty       bool    `json:"dirty"`
	WrittenBack bool    `json:"written_back"`
	Migrated    bool    `json:"migrated"`
}

type named interface {
	Name() string
}

func location(ctx sim.HookCtx) string {
	if n, ok := ctx.Domain.(named); ok {
		return n.Name()
	}

	return ""
}

// A dbTracer is a hook that records the accesses and the evictions of a
// cache into a database.
type dbTracer struct {
	dataRecorder datarecording.DataRecorder
}

// NewDBTracer creates a hook that records cache activity into the
// cache_accesses and cache_evictions tables.
func NewDBTracer(dataRecorder datarecording.DataRecorder) sim.Hook {
	t := &dbTracer{dataRecorder: dataRecorder}

	t.dataRecorder.CreateTable(accessTable, accessEntry{})
	t.dataRecorder.CreateTable(evictionTable, evictionEntry{})

	return t
}

func (t *dbTracer) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case cache.HookPosAccess:
		req := ctx.Item.(mem.AccessReq)
		event := ctx.Detail.(cache.AccessEvent)

		t.dataRecorder.InsertData(accessTable, accessEntry{
			ID:        req.ID,
			Location:  location(ctx),
			What:      req.Type.String(),
			PID:       uint32(req.PID),
			Address:   req.Address,
			ByteSize:  req.ByteSize,
			Hit:       event.Result.Hit,
			StartTime: float64(event.Time),
			EndTime:   float64(event.Result.CompleteTime),
		})
	case cache.HookPosEvict:
		event := ctx.Detail.(cache.EvictionEvent)
		e := event.Eviction

		t.dataRecorder.InsertData(evictionTable, evictionEntry{
			Location:    location(ctx),
			Time:        float64(event.Time),
			PID:         uint32(e.PID),
			Address:     e.Address,
			Dirty:       e.Dirty,
			WrittenBack: e.WrittenBack,
			Migrated:    e.Migrated,
		})
	}
}

// A logTracer prints cache activity as comma-separated lines.
type logTracer struct {
	logger *log.Logger
}

// NewLogTracer creates a hook that prints cache activity through the logger.
func NewLogTracer(logger *log.Logger) sim.Hook {
	return &logTracer{logger: logger}
}

func (t *logTracer) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case cache.HookPosAccess:
		req := ctx.Item.(mem.AccessReq)
		event := ctx.Detail.(cache.AccessEvent)

		t.logger.Printf("access, %.12f, %s, %s, %s, %d, 0x%x, %d, %t, %.12f\n",
			event.Time,
			location(ctx),
			req.ID,
			req.Type,
			req.PID,
			req.Address,
			req.ByteSize,
			event.Result.Hit,
			event.Result.CompleteTime,
		)
	case cache.HookPosEvict:
		t.printEviction("evict", ctx)
	case cache.HookPosMigrate:
		t.printEviction("migrate", ctx)
	}
}

func (t *logTracer) printEviction(what string, ctx sim.HookCtx) {
	event := ctx.Detail.(cache.EvictionEvent)
	e := event.Eviction

	t.logger.Printf("%s, %.12f, %s, %d, 0x%x, %t, %t\n",
		what,
		event.Time,
		location(ctx),
		e.PID,
		e.Address,
		e.Dirty,
		e.WrittenBack,
	)
}
