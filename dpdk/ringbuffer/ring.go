// Package ringbuffer contains bindings of the DPDK ring library.
package ringbuffer

/*
#include "../../csrc/core/common.h"
#include <rte_ring.h>
*/
import "C"
import (
	"unsafe"

	binutils "github.com/jfoster/binary-utilities"
	"github.com/flier/go-dpdk/core/cptr"
	"github.com/flier/go-dpdk/dpdk/eal"
	"github.com/pkg/math"
)

const (
	// MinCapacity is the smallest capacity AlignCapacity would return.
	MinCapacity = 4

	// MaxCapacity is the largest capacity accepted by the ring library.
	MaxCapacity = (C.RTE_RING_SZ_MASK + 1) / 2

	// DefaultCapacity is chosen when the requested capacity is zero or negative.
	DefaultCapacity = 256
)

// AlignCapacity rounds up a ring capacity to a power of two within bounds.
// Optional arguments are minimum, default, and maximum capacity.
// Zero or negative input selects the default capacity.
func AlignCapacity(capacity int, opts ...int) int {
	if len(opts) > 3 {
		panic("AlignCapacity: too many bounds")
	}
	floor, fallback, ceil := MinCapacity, DefaultCapacity, MaxCapacity
	if len(opts) >= 1 {
		floor = opts[0]
		fallback = floor
	}
	if len(opts) >= 2 {
		fallback = opts[1]
	}
	if len(opts) >= 3 {
		ceil = opts[2]
	}
	for _, bound := range []int{floor, fallback, ceil} {
		if binutils.NextPowerOfTwo(int64(bound)) != int64(bound) {
			panic("bounds must be powers of two")
		}
	}
	if fallback < floor || fallback > ceil {
		panic("default out of bounds")
	}

	aligned := capacity
	switch {
	case aligned <= 0:
		aligned = fallback
	default:
		aligned = int(binutils.NextPowerOfTwo(int64(aligned)))
	}
	return math.MinInt(ceil, math.MaxInt(floor, aligned))
}

// ProducerMode selects how concurrent enqueuers synchronize.
type ProducerMode int

// Producer synchronization modes.
const (
	ProducerMulti  ProducerMode = 0
	ProducerSingle ProducerMode = C.RING_F_SP_ENQ
	ProducerRts    ProducerMode = C.RING_F_MP_RTS_ENQ
	ProducerHts    ProducerMode = C.RING_F_MP_HTS_ENQ
)

// ConsumerMode selects how concurrent dequeuers synchronize.
type ConsumerMode int

// Consumer synchronization modes.
const (
	ConsumerMulti  ConsumerMode = 0
	ConsumerSingle ConsumerMode = C.RING_F_SC_DEQ
	ConsumerRts    ConsumerMode = C.RING_F_MC_RTS_DEQ
	ConsumerHts    ConsumerMode = C.RING_F_MC_HTS_DEQ
)

// Ring is a fixed-size FIFO of C void* pointers.
type Ring C.struct_rte_ring

// New creates a Ring in hugepage memory.
// The usable capacity is one less than the aligned capacity.
func New(capacity int, socket eal.NumaSocket, pm ProducerMode, cm ConsumerMode) (r *Ring, e error) {
	name := C.CString(eal.AllocObjectID("ringbuffer.Ring"))
	defer C.free(unsafe.Pointer(name))

	flags := C.uint(pm) | C.uint(cm)
	ring := C.rte_ring_create(name, C.uint(AlignCapacity(capacity)), C.int(socket.ID()), flags)
	if ring == nil {
		return nil, eal.GetErrno()
	}
	return (*Ring)(ring), nil
}

// FromPtr converts a *C.struct_rte_ring pointer to Ring.
func FromPtr(ptr unsafe.Pointer) *Ring { return (*Ring)(ptr) }

// Ptr returns the *C.struct_rte_ring pointer.
func (r *Ring) Ptr() unsafe.Pointer { return unsafe.Pointer(r) }

func (r *Ring) ptr() *C.struct_rte_ring { return (*C.struct_rte_ring)(r) }

// String returns the ring name.
func (r *Ring) String() string {
	return C.GoString(&r.name[0])
}

// Close releases the ring's memory.
func (r *Ring) Close() error {
	C.rte_ring_free(r.ptr())
	return nil
}

// Capacity returns the usable capacity.
func (r *Ring) Capacity() int { return int(C.rte_ring_get_capacity(r.ptr())) }

// CountAvailable returns the remaining free slots.
func (r *Ring) CountAvailable() int { return int(C.rte_ring_free_count(r.ptr())) }

// CountInUse returns the number of stored objects.
func (r *Ring) CountInUse() int { return int(C.rte_ring_count(r.ptr())) }

// IsEmpty returns true if the ring contains no objects.
func (r *Ring) IsEmpty() bool {
	return C.rte_ring_empty(r.ptr()) != 0
}

// IsFull returns true if the ring has no free space.
func (r *Ring) IsFull() bool {
	return C.rte_ring_full(r.ptr()) != 0
}

// Enqueue enqueues several objects on the ring.
// objs must be a slice of C void* pointers such as []unsafe.Pointer.
// Returns the number of objects actually enqueued.
func (r *Ring) Enqueue(objs any) (nEnqueued int) {
	first, count := cptr.ParseCptrArray(objs)
	return int(C.rte_ring_enqueue_burst(
		r.ptr(), (*unsafe.Pointer)(first), C.uint(count), nil,
	))
}

// Dequeue dequeues several objects from the ring.
// objs must be a slice of C void* pointers such as []unsafe.Pointer.
// Returns the number of objects actually dequeued.
func (r *Ring) Dequeue(objs any) (nDequeued int) {
	first, count := cptr.ParseCptrArray(objs)
	return int(C.rte_ring_dequeue_burst(
		r.ptr(), (*unsafe.Pointer)(first), C.uint(count), nil,
	))
}
