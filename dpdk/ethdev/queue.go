package ethdev

/*
#include "../../csrc/core/common.h"
#include <rte_ethdev.h>
*/
import "C"
import (
	"github.com/flier/go-dpdk/core/cptr"
	"github.com/flier/go-dpdk/dpdk/pktmbuf"
)

// RxQueue represents an RX queue of an Ethernet port.
type RxQueue struct {
	Port  uint16
	Queue uint16
}

// RxBurst receives up to len(vec) packets into vec.
// It returns the number of packets stored, starting at vec[0].
func (q RxQueue) RxBurst(vec pktmbuf.Vector) int {
	if len(vec) == 0 {
		return 0
	}
	return int(C.rte_eth_rx_burst(
		C.uint16_t(q.Port), C.uint16_t(q.Queue),
		cptr.FirstPtr[*C.struct_rte_mbuf](vec), C.uint16_t(len(vec)),
	))
}

// TxQueue represents a TX queue of an Ethernet port.
type TxQueue struct {
	Port  uint16
	Queue uint16
}

// TxBurst enqueues up to len(vec) packets for transmission.
// Returns the number of packets accepted by the device; the caller keeps
// ownership of the rest of vec.
func (q TxQueue) TxBurst(vec pktmbuf.Vector) int {
	if len(vec) == 0 {
		return 0
	}
	return int(C.rte_eth_tx_burst(
		C.uint16_t(q.Port), C.uint16_t(q.Queue),
		cptr.FirstPtr[*C.struct_rte_mbuf](vec), C.uint16_t(len(vec)),
	))
}

// RxQueues returns RX queues of a configured port.
func (port EthDev) RxQueues() (list []RxQueue) {
	info := port.DevInfo()
	for q := 0; q < info.NumRxQueues(); q++ {
		list = append(list, RxQueue{Port: uint16(port.ID()), Queue: uint16(q)})
	}
	return list
}

// TxQueues returns TX queues of a configured port.
func (port EthDev) TxQueues() (list []TxQueue) {
	info := port.DevInfo()
	for q := 0; q < info.NumTxQueues(); q++ {
		list = append(list, TxQueue{Port: uint16(port.ID()), Queue: uint16(q)})
	}
	return list
}
