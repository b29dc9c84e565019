package trace

import (
	"context"

	"github.com/sarchlab/spmcache/datarecording"
)

// A Summary is the aggregate of the cache activity recorded by a DB tracer.
type Summary struct {
	Accesses   int
	Hits       int
	Evictions  int
	WriteBacks int
	Migrations int

	// LastAccess is the completion time of the latest access.
	LastAccess float64
}

// Summarize reads the tables that NewDBTracer writes and aggregates them.
func Summarize(
	ctx context.Context,
	reader datarecording.DataReader,
) (Summary, error) {
	reader.MapTable(accessTable, accessEntry{})
	reader.MapTable(evictionTable, evictionEntry{})

	var s Summary
	var err error

	counts := []struct {
		table string
		where string
		dst   *int
	}{
		{accessTable, "", &s.Accesses},
		{accessTable, "Hit = 1", &s.Hits},
		{evictionTable, "", &s.Evictions},
		{evictionTable, "WrittenBack = 1", &s.WriteBacks},
		{evictionTable, "Migrated = 1", &s.Migrations},
	}

	for _, c := range counts {
		_, *c.dst, err = reader.Query(ctx, c.table, datarecording.QueryParams{
			Where: c.where,
			Limit: 1,
		})
		if err != nil {
			return Summary{}, err
		}
	}

	last, _, err := reader.Query(ctx, accessTable, datarecording.QueryParams{
		OrderBy: "EndTime DESC",
		Limit:   1,
	})
	if err != nil {
		return Summary{}, err
	}

	if len(last) > 0 {
		s.LastAccess = last[0].(*accessEntry).EndTime
	}

	return s, nil
}
