package trace

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/sarchlab/spmcache/mem"
	"github.com/sarchlab/spmcache/sim"
)

// ErrMalformedRecord is returned when a line of a trace cannot be parsed.
var ErrMalformedRecord = errors.New("malformed trace record")

// A Record is one access of a trace.
type Record struct {
	Time sim.VTimeInSec
	Req  mem.AccessReq
}

// A Reader reads access traces. Each line has the form
//
//	time,op,address,size[,pid]
//
// where time is in seconds, op is R or W, and address and size are decimal
// or 0x-prefixed hexadecimal. Lines starting with # are ignored.
type Reader struct {
	csv *csv.Reader
}

// NewReader creates a reader that parses the trace from r.
func NewReader(r io.Reader) *Reader {
	c := csv.NewReader(r)
	c.Comment = '#'
	c.FieldsPerRecord = -1
	c.TrimLeadingSpace = true
	c.ReuseRecord = true

	return &Reader{csv: c}
}

// Read returns the next record. It returns io.EOF at the end of the trace.
func (r *Reader) Read() (Record, error) {
	fields, err := r.csv.Read()
	if err == io.EOF {
		return Record{}, io.EOF
	}

	if err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	line, _ := r.csv.FieldPos(0)

	rec, err := parseRecord(fields)
	if err != nil {
		return Record{}, fmt.Errorf("line %d: %w", line, err)
	}

	return rec, nil
}

// ReadAll reads all the remaining records.
func (r *Reader) ReadAll() ([]Record, error) {
	var records []Record

	for {
		rec, err := r.Read()
		if err == io.EOF {
			return records, nil
		}

		if err != nil {
			return nil, err
		}

		records = append(records, rec)
	}
}

func parseRecord(fields []string) (Record, error) {
	if len(fields) != 4 && len(fields) != 5 {
		return Record{}, fmt.Errorf("%w: expected 4 or 5 fields, got %d",
			ErrMalformedRecord, len(fields))
	}

	time, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil || time < 0 || math.IsNaN(time) || math.IsInf(time, 0) {
		return Record{}, fmt.Errorf("%w: bad time %q",
			ErrMalformedRecord, fields[0])
	}

	accessType, err := parseOp(fields[1])
	if err != nil {
		return Record{}, err
	}

	addr, err := parseNumber(fields[2], 64)
	if err != nil {
		return Record{}, fmt.Errorf("%w: bad address %q",
			ErrMalformedRecord, fields[2])
	}

	size, err := parseNumber(fields[3], 64)
	if err != nil || size == 0 {
		return Record{}, fmt.Errorf("%w: bad size %q",
			ErrMalformedRecord, fields[3])
	}

	if addr+size-1 < addr {
		return Record{}, fmt.Errorf("%w: access at %q with size %q overflows",
			ErrMalformedRecord, fields[2], fields[3])
	}

	builder := mem.MakeAccessReqBuilder().
		WithAddress(addr).
		WithByteSize(size).
		WithType(accessType)

	if len(fields) == 5 {
		pid, err := parseNumber(fields[4], 32)
		if err != nil {
			return Record{}, fmt.Errorf("%w: bad pid %q",
				ErrMalformedRecord, fields[4])
		}

		builder = builder.WithPID(mem.PID(pid))
	}

	return Record{Time: sim.VTimeInSec(time), Req: builder.Build()}, nil
}

func parseOp(s string) (mem.AccessType, error) {
	switch strings.TrimSpace(s) {
	case "R", "r":
		return mem.AccessTypeRead, nil
	case "W", "w":
		return mem.AccessTypeWrite, nil
	default:
		return mem.AccessTypeUnknown,
			fmt.Errorf("%w: bad op %q", ErrMalformedRecord, s)
	}
}

func parseNumber(s string, bitSize int) (uint64, error) {
	s = strings.TrimSpace(s)

	if hex, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		return strconv.ParseUint(hex, 16, bitSize)
	}

	return strconv.ParseUint(s, 10, bitSize)
}
