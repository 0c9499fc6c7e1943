// Package bitmap contains bindings of DPDK bitmap.
package bitmap

/*
#include "../../csrc/core/common.h"
#include <rte_bitmap.h>
*/
import "C"
import (
	"errors"
	"unsafe"

	"github.com/flier/go-dpdk/dpdk/eal"
)

// Footprint calculates the memory footprint of a bitmap with nBits bits.
func Footprint(nBits int) int {
	return int(C.rte_bitmap_get_memory_footprint(C.uint32_t(nBits)))
}

// Bitmap is a fixed-size bitmap with hierarchical scan acceleration.
// It is not thread safe: a single writer may set/clear/scan, while readers
// may call Get concurrently with the writer.
type Bitmap struct {
	c   *C.struct_rte_bitmap
	mem unsafe.Pointer
}

// Init creates a Bitmap over caller-provided memory.
// mem must be cache line aligned and have at least Footprint(nBits) octets.
// The caller retains ownership of the memory.
func Init(nBits int, mem unsafe.Pointer, memSize int) (*Bitmap, error) {
	bm := C.rte_bitmap_init(C.uint32_t(nBits), (*C.uint8_t)(mem), C.uint32_t(memSize))
	if bm == nil {
		return nil, errors.New("bitmap init failed")
	}
	return &Bitmap{c: bm}, nil
}

// New creates a Bitmap with nBits bits, allocating memory on socket.
func New(nBits int, socket eal.NumaSocket) (*Bitmap, error) {
	footprint := Footprint(nBits)
	mem := eal.ZmallocAligned[C.uint8_t]("bitmap.Bitmap", footprint, 1, socket)
	bm, e := Init(nBits, unsafe.Pointer(mem), footprint)
	if e != nil {
		eal.Free(mem)
		return nil, e
	}
	bm.mem = unsafe.Pointer(mem)
	return bm, nil
}

// Ptr returns *C.struct_rte_bitmap pointer.
func (bm *Bitmap) Ptr() unsafe.Pointer {
	return unsafe.Pointer(bm.c)
}

// Close releases the bitmap memory, if owned.
func (bm *Bitmap) Close() error {
	C.rte_bitmap_free(bm.c)
	bm.c = nil
	if bm.mem != nil {
		eal.Free(bm.mem)
		bm.mem = nil
	}
	return nil
}

// Reset clears all bits.
func (bm *Bitmap) Reset() {
	C.rte_bitmap_reset(bm.c)
}

// Prefetch0 prefetches the cache line containing pos into L1.
func (bm *Bitmap) Prefetch0(pos int) {
	C.rte_bitmap_prefetch0(bm.c, C.uint32_t(pos))
}

// Get returns the bit at pos.
func (bm *Bitmap) Get(pos int) bool {
	return C.rte_bitmap_get(bm.c, C.uint32_t(pos)) != 0
}

// Set sets the bit at pos.
func (bm *Bitmap) Set(pos int) {
	C.rte_bitmap_set(bm.c, C.uint32_t(pos))
}

// SetSlab sets the 64-bit slab containing pos.
func (bm *Bitmap) SetSlab(pos int, slab uint64) {
	C.rte_bitmap_set_slab(bm.c, C.uint32_t(pos), C.uint64_t(slab))
}

// Clear clears the bit at pos.
func (bm *Bitmap) Clear(pos int) {
	C.rte_bitmap_clear(bm.c, C.uint32_t(pos))
}

// Scan returns the position and value of the next non-empty slab.
// pos is the bit offset of the slab start. The scan wraps around to the
// beginning of the bitmap; ok is false only when the bitmap is empty.
func (bm *Bitmap) Scan() (pos int, slab uint64, ok bool) {
	var posC C.uint32_t
	var slabC C.uint64_t
	if C.rte_bitmap_scan(bm.c, &posC, &slabC) == 0 {
		return 0, 0, false
	}
	return int(posC), uint64(slabC), true
}
