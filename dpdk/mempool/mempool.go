// Package mempool provides bindings of the DPDK memory pool library.
package mempool

/*
#include "../../csrc/core/common.h"
#include <rte_mempool.h>
*/
import "C"
import (
	"math/bits"
	"unsafe"

	"github.com/flier/go-dpdk/core/cptr"
	"github.com/flier/go-dpdk/dpdk/eal"
)

// ComputeOptimumCapacity turns an exact power of two into a power of two
// minus one, which suits the rte_ring underlying a mempool best.
func ComputeOptimumCapacity(capacity int) int {
	if bits.OnesCount64(uint64(capacity)) != 1 {
		return capacity
	}
	return capacity - 1
}

// ComputeCacheSize chooses a per-lcore cache size for a mempool capacity.
func ComputeCacheSize(capacity int) int {
	limit := C.RTE_MEMPOOL_CACHE_MAX_SIZE
	if size := capacity / 16; size < limit {
		return size
	}
	for size := limit; size >= limit/4; size-- {
		if capacity%size == 0 {
			return size
		}
	}
	return limit
}

// Config specifies how New builds a Mempool.
type Config struct {
	// Capacity is the number of objects; a power of two minus one is optimal.
	Capacity int

	// ElementSize is the size of each object in octets.
	ElementSize int

	// PrivSize is the size of the private data area appended to each object.
	PrivSize int

	// Socket is the preferred NUMA socket for pool memory.
	Socket eal.NumaSocket

	SingleProducer bool
	SingleConsumer bool
}

// Mempool is a DPDK memory pool of fixed-size objects.
type Mempool C.struct_rte_mempool

// New creates a Mempool.
func New(cfg Config) (mp *Mempool, e error) {
	nameC := C.CString(eal.AllocObjectID("mempool.Mempool"))
	defer C.free(unsafe.Pointer(nameC))

	var flags C.unsigned
	if cfg.SingleProducer {
		flags |= C.MEMPOOL_F_SP_PUT
	}
	if cfg.SingleConsumer {
		flags |= C.MEMPOOL_F_SC_GET
	}

	capacity := ComputeOptimumCapacity(cfg.Capacity)
	mp = (*Mempool)(C.rte_mempool_create(nameC, C.uint(capacity), C.uint(cfg.ElementSize),
		C.uint(ComputeCacheSize(capacity)), C.unsigned(cfg.PrivSize),
		nil, nil, nil, nil, C.int(cfg.Socket.ID()), flags))
	if mp == nil {
		return nil, eal.GetErrno()
	}
	return mp, nil
}

// Lookup finds an existing Mempool by name.
func Lookup(name string) (*Mempool, error) {
	nameC := C.CString(name)
	defer C.free(unsafe.Pointer(nameC))

	mp := C.rte_mempool_lookup(nameC)
	if mp == nil {
		return nil, eal.GetErrno()
	}
	return (*Mempool)(mp), nil
}

// FromPtr converts a *C.struct_rte_mempool pointer to Mempool.
func FromPtr(ptr unsafe.Pointer) *Mempool {
	return (*Mempool)(ptr)
}

// Ptr returns the *C.struct_rte_mempool pointer.
func (mp *Mempool) Ptr() unsafe.Pointer { return unsafe.Pointer(mp) }

func (mp *Mempool) ptr() *C.struct_rte_mempool { return (*C.struct_rte_mempool)(mp) }

// String returns the mempool name.
func (mp *Mempool) String() string {
	return C.GoString(&mp.name[0])
}

// Close destroys the mempool and releases its hugepage memory.
func (mp *Mempool) Close() error {
	C.rte_mempool_free(mp.ptr())
	return nil
}

// SizeofElement returns the element size.
func (mp *Mempool) SizeofElement() int { return int(mp.elt_size) }

// CountAvailable returns how many objects remain in the pool.
func (mp *Mempool) CountAvailable() int { return int(C.rte_mempool_avail_count(mp.ptr())) }

// CountInUse returns how many objects have been taken from the pool.
func (mp *Mempool) CountInUse() int { return int(C.rte_mempool_in_use_count(mp.ptr())) }

// IsFull determines whether every object is in the pool.
func (mp *Mempool) IsFull() bool {
	return mp.CountAvailable() == int(mp.size)
}

// IsEmpty determines whether the pool has no available objects.
func (mp *Mempool) IsEmpty() bool {
	return mp.CountAvailable() == 0
}

// Alloc takes several objects from the pool.
// objs must be a slice of C void* pointers such as []unsafe.Pointer.
// If the pool cannot satisfy the request, no object is allocated and the
// ENOENT errno is returned.
func (mp *Mempool) Alloc(objs any) error {
	first, count := cptr.ParseCptrArray(objs)
	if count == 0 {
		return nil
	}
	return eal.MakeErrno(C.rte_mempool_get_bulk(
		mp.ptr(), (*unsafe.Pointer)(first), C.uint(count),
	))
}

// Free returns several objects to the pool.
// objs must be a slice of C void* pointers such as []unsafe.Pointer.
func (mp *Mempool) Free(objs any) {
	first, count := cptr.ParseCptrArray(objs)
	if count == 0 {
		return
	}
	C.rte_mempool_put_bulk(mp.ptr(), (*unsafe.Pointer)(first), C.uint(count))
}

// Dump returns a description of the mempool state.
func (mp *Mempool) Dump() (string, error) {
	data, e := cptr.CaptureFileDump(func(fp unsafe.Pointer) {
		C.rte_mempool_dump((*C.FILE)(fp), mp.ptr())
	})
	return string(data), e
}
