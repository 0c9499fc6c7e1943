// Package ethringdev creates Ethernet devices from software FIFOs.
package ethringdev

/*
#include "../../../csrc/core/common.h"
#include <rte_ethdev.h>
#include <rte_eth_ring.h>
*/
import "C"
import (
	"unsafe"

	"github.com/flier/go-dpdk/core/cptr"
	"github.com/flier/go-dpdk/core/logging"
	"github.com/flier/go-dpdk/core/macaddr"
	"github.com/flier/go-dpdk/dpdk/eal"
	"github.com/flier/go-dpdk/dpdk/ethdev"
	"github.com/flier/go-dpdk/dpdk/ringbuffer"
)

var logger = logging.New("ethringdev")

// New wraps RX and TX ring pairs into a net_ring EthDev.
// The EthDev takes a random unicast MAC address.
func New(rxRings, txRings []*ringbuffer.Ring, socket eal.NumaSocket) (dev ethdev.EthDev, e error) {
	nameC := C.CString(eal.AllocObjectID("ethringdev.EthDev"))
	defer C.free(unsafe.Pointer(nameC))

	rx, tx := cptr.FirstPtr[*C.struct_rte_ring](rxRings), cptr.FirstPtr[*C.struct_rte_ring](txRings)
	res := C.rte_eth_from_rings(nameC, rx, C.uint(len(rxRings)),
		tx, C.uint(len(txRings)), C.uint(socket.ID()))
	if res < 0 {
		return ethdev.EthDev{}, eal.GetErrno()
	}
	dev = ethdev.FromID(int(res))

	mac, e := ethdev.MakeEtherAddr(macaddr.MakeRandom(false))
	if e != nil {
		dev.Close()
		return ethdev.EthDev{}, e
	}
	if res := C.rte_eth_dev_mac_addr_add(C.uint16_t(dev.ID()),
		(*C.struct_rte_ether_addr)(mac.Ptr()), 0); res != 0 {
		dev.Close()
		return ethdev.EthDev{}, eal.MakeErrno(res)
	}
	return dev, nil
}
