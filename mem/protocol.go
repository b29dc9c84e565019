// Package mem defines the access protocol shared by the memory models.
package mem

import (
	"fmt"

	"github.com/sarchlab/spmcache/sim"
)

// For capacity
const (
	_        = iota
	KB uint64 = 1 << (10 * iota)
	MB
	GB
)

// PID identifies the process that issues an access. Lines are tagged with the
// PID so that two processes never hit on each other's data.
type PID uint32

// AccessType classifies an access. Replacement policies use the
// classification to track write intensity.
type AccessType int

// Access types. AccessTypeUnknown marks an access whose classification is not
// available.
const (
	AccessTypeUnknown AccessType = -1
	AccessTypeRead    AccessType = 0
	AccessTypeWrite   AccessType = 1
)

func (t AccessType) String() string {
	switch t {
	case AccessTypeUnknown:
		return "unknown"
	case AccessTypeRead:
		return "read"
	case AccessTypeWrite:
		return "write"
	default:
		return fmt.Sprintf("AccessType(%d)", int(t))
	}
}

// IsWrite returns true if the access writes data.
func (t AccessType) IsWrite() bool {
	return t == AccessTypeWrite
}

// An AccessReq is a read or write request that travels through the memory
// hierarchy.
type AccessReq struct {
	ID       string
	PID      PID
	Address  uint64
	ByteSize uint64
	Type     AccessType
}

// A Module is a memory model that can serve accesses. Access returns the time
// at which the access completes.
type Module interface {
	Access(req AccessReq, now sim.VTimeInSec) sim.VTimeInSec
}

// AccessReqBuilder can build access requests.
type AccessReqBuilder struct {
	pid               PID
	address, byteSize uint64
	accessType        AccessType
}

// MakeAccessReqBuilder creates a builder for read requests of 4 bytes.
func MakeAccessReqBuilder() AccessReqBuilder {
	return AccessReqBuilder{
		byteSize:   4,
		accessType: AccessTypeRead,
	}
}

// WithPID sets the PID of the request to build.
func (b AccessReqBuilder) WithPID(pid PID) AccessReqBuilder {
	b.pid = pid
	return b
}

// WithAddress sets the address of the request to build.
func (b AccessReqBuilder) WithAddress(address uint64) AccessReqBuilder {
	b.address = address
	return b
}

// WithByteSize sets the byte size of the request to build.
func (b AccessReqBuilder) WithByteSize(byteSize uint64) AccessReqBuilder {
	b.byteSize = byteSize
	return b
}

// WithType sets the access type of the request to build.
func (b AccessReqBuilder) WithType(t AccessType) AccessReqBuilder {
	b.accessType = t
	return b
}

// Build creates a new AccessReq with a freshly generated ID.
func (b AccessReqBuilder) Build() AccessReq {
	return AccessReq{
		ID:       sim.GetIDGenerator().Generate(),
		PID:      b.pid,
		Address:  b.address,
		ByteSize: b.byteSize,
		Type:     b.accessType,
	}
}
