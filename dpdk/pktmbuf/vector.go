package pktmbuf

/*
#include "../../csrc/core/common.h"
#include <rte_mbuf.h>

static void c_pktmbufFreeBulk(struct rte_mbuf** pkts, unsigned count) {
	unsigned i;
	for (i = 0; i < count; ++i) {
		rte_pktmbuf_free(pkts[i]);
	}
}
*/
import "C"
import (
	"unsafe"

	"github.com/flier/go-dpdk/core/cptr"
)

// Vector is a vector of packet buffers.
type Vector []*Packet

// Ptr returns **C.struct_rte_mbuf pointer.
func (vec Vector) Ptr() unsafe.Pointer {
	ptr, _ := cptr.ParseCptrArray(vec)
	return ptr
}

func (vec Vector) ptr() **C.struct_rte_mbuf {
	return (**C.struct_rte_mbuf)(vec.Ptr())
}

// Close releases the mbufs.
// nil elements are skipped.
func (vec Vector) Close() error {
	if len(vec) == 0 {
		return nil
	}
	C.c_pktmbufFreeBulk(vec.ptr(), C.uint(len(vec)))
	return nil
}
