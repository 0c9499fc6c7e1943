package ethdev

/*
#include "../../csrc/core/common.h"
#include <rte_ethdev.h>

static size_t c_txBufferSize(uint16_t size)
{
	return RTE_ETH_TX_BUFFER_SIZE(size);
}

static int c_txBufferInit(struct rte_eth_dev_tx_buffer* b, uint16_t size, uint64_t* dropped)
{
	int res = rte_eth_tx_buffer_init(b, size);
	if (res != 0) {
		return res;
	}
	return rte_eth_tx_buffer_set_err_callback(b, rte_eth_tx_buffer_count_callback, dropped);
}
*/
import "C"
import (
	"unsafe"

	"github.com/flier/go-dpdk/dpdk/eal"
	"github.com/flier/go-dpdk/dpdk/pktmbuf"
)

// TxBuffer accumulates packets destined to one TX queue, transmitting them in
// bursts. It is not thread safe; use from a single sender thread.
type TxBuffer struct {
	c       *C.struct_rte_eth_dev_tx_buffer
	dropped *C.uint64_t
	owned   *C.uint64_t
}

// NewTxBuffer allocates a TxBuffer holding up to size packets on socket.
// Packets that cannot be transmitted during Buffer or Flush are freed and
// tallied; CountDropped reads the tally. dropCounter optionally redirects
// the tally to a uint64 residing in C memory; nil allocates one internally.
func NewTxBuffer(size int, socket eal.NumaSocket, dropCounter *uint64) (*TxBuffer, error) {
	b := &TxBuffer{}
	b.c = (*C.struct_rte_eth_dev_tx_buffer)(unsafe.Pointer(eal.ZmallocAligned[byte](
		"ethdev.TxBuffer", uintptr(C.c_txBufferSize(C.uint16_t(size))), 1, socket)))
	if dropCounter != nil {
		b.dropped = (*C.uint64_t)(unsafe.Pointer(dropCounter))
	} else {
		b.owned = eal.Zmalloc[C.uint64_t]("ethdev.TxBuffer.dropped", C.sizeof_uint64_t, socket)
		b.dropped = b.owned
	}
	if res := C.c_txBufferInit(b.c, C.uint16_t(size), b.dropped); res != 0 {
		b.Close()
		return nil, eal.MakeErrno(res)
	}
	return b, nil
}

// Buffer queues pkt for transmission on q, transmitting a burst if the buffer
// becomes full. Returns the number of packets actually transmitted.
func (b *TxBuffer) Buffer(q TxQueue, pkt *pktmbuf.Packet) int {
	return int(C.rte_eth_tx_buffer(C.uint16_t(q.Port), C.uint16_t(q.Queue), b.c,
		(*C.struct_rte_mbuf)(pkt.Ptr())))
}

// Flush transmits all buffered packets on q.
// Returns the number of packets actually transmitted.
func (b *TxBuffer) Flush(q TxQueue) int {
	return int(C.rte_eth_tx_buffer_flush(C.uint16_t(q.Port), C.uint16_t(q.Queue), b.c))
}

// CountDropped returns the number of packets dropped due to failed transmission.
func (b *TxBuffer) CountDropped() uint64 {
	return uint64(*b.dropped)
}

// Close releases the buffer memory.
// Buffered packets are not flushed; call Flush first.
func (b *TxBuffer) Close() error {
	if b.c != nil {
		eal.Free(b.c)
		b.c = nil
	}
	if b.owned != nil {
		eal.Free(b.owned)
		b.owned = nil
	}
	b.dropped = nil
	return nil
}
