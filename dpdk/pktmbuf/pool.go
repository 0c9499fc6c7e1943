// Package pktmbuf contains bindings of DPDK mbuf library.
package pktmbuf

/*
#include "../../csrc/core/common.h"
#include <rte_mbuf.h>
*/
import "C"
import (
	"unsafe"

	"github.com/flier/go-dpdk/core/logging"
	"github.com/flier/go-dpdk/dpdk/eal"
	"github.com/flier/go-dpdk/dpdk/mempool"
	"go.uber.org/zap"
)

var logger = logging.New("pktmbuf")

// PoolConfig contains configuration for NewPool.
type PoolConfig struct {
	// Capacity is the maximum number of packets in the pool.
	Capacity int `json:"capacity"`

	// PrivSize is the size of private area in each mbuf.
	PrivSize int `json:"privSize,omitempty"`

	// Dataroom is the size of data buffer in each mbuf, including headroom.
	// It may be zero in a pool of indirect mbufs.
	Dataroom int `json:"dataroom,omitempty"`
}

// Pool represents a DPDK memory pool for packet buffers.
type Pool struct {
	mempool.Mempool
}

// NewPool creates a Pool.
func NewPool(cfg PoolConfig, socket eal.NumaSocket) (*Pool, error) {
	nameC := C.CString(eal.AllocObjectID("pktmbuf.Pool"))
	defer C.free(unsafe.Pointer(nameC))

	capacity := mempool.ComputeOptimumCapacity(cfg.Capacity)
	cacheSize := mempool.ComputeCacheSize(capacity)
	mpC := C.rte_pktmbuf_pool_create(nameC, C.uint(capacity), C.uint(cacheSize),
		C.uint16_t(cfg.PrivSize), C.uint16_t(cfg.Dataroom), C.int(socket.ID()))
	if mpC == nil {
		return nil, eal.GetErrno()
	}
	return PoolFromPtr(unsafe.Pointer(mpC)), nil
}

// PoolFromPtr converts *C.struct_rte_mempool pointer to Pool.
func PoolFromPtr(ptr unsafe.Pointer) *Pool {
	return (*Pool)(ptr)
}

func (mp *Pool) ptr() *C.struct_rte_mempool {
	return (*C.struct_rte_mempool)(mp.Ptr())
}

// Dataroom returns dataroom setting.
func (mp *Pool) Dataroom() int {
	return int(C.rte_pktmbuf_data_room_size(mp.ptr()))
}

// Alloc allocates a vector of packets.
// If the pool cannot satisfy the request, no packet is allocated and the
// ENOENT errno is returned.
func (mp *Pool) Alloc(count int) (Vector, error) {
	vec := make(Vector, count)
	res := C.rte_pktmbuf_alloc_bulk(mp.ptr(), vec.ptr(), C.uint(count))
	if res != 0 {
		return nil, eal.MakeErrno(res)
	}
	return vec, nil
}

// MustAlloc allocates a vector of packets, and panics upon error.
func (mp *Pool) MustAlloc(count int) Vector {
	vec, e := mp.Alloc(count)
	if e != nil {
		logger.Panic("mbuf allocation failed",
			zap.Int("count", count),
			zap.String("pool", mp.String()),
			zap.Error(e),
		)
	}
	return vec
}
