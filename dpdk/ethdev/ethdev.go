// Package ethdev contains bindings of DPDK Ethernet device.
package ethdev

/*
#include "../../csrc/core/common.h"
#include <rte_ethdev.h>

static uint8_t c_EthLink_status(const struct rte_eth_link* l) { return l->link_status; }
static uint8_t c_EthLink_duplex(const struct rte_eth_link* l) { return l->link_duplex; }
static uint8_t c_EthLink_autoneg(const struct rte_eth_link* l) { return l->link_autoneg; }
*/
import "C"
import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"syscall"
	"unsafe"

	"github.com/flier/go-dpdk/core/cptr"
	"github.com/flier/go-dpdk/core/events"
	"github.com/flier/go-dpdk/dpdk/eal"
)

// EthDev represents an Ethernet port.
type EthDev struct {
	v int // port ID + 1
}

// FromID converts a port ID to EthDev.
func FromID(id int) EthDev {
	if id >= 0 && id < C.RTE_MAX_ETHPORTS {
		return EthDev{id + 1}
	}
	return EthDev{}
}

// List returns all available Ethernet ports.
func List() (list []EthDev) {
	for id := C.rte_eth_find_next(0); id < C.RTE_MAX_ETHPORTS; id = C.rte_eth_find_next(id + 1) {
		list = append(list, FromID(int(id)))
	}
	return list
}

// Find looks up an EthDev by device name.
func Find(name string) (port EthDev) {
	for _, p := range List() {
		if p.Name() == name {
			port = p
			break
		}
	}
	return port
}

// ID returns the port identifier.
func (port EthDev) ID() int { return port.v - 1 }

// Valid reports whether the port exists.
func (port EthDev) Valid() bool { return port.v > 0 }

func (port EthDev) String() string {
	if port.Valid() {
		return strconv.Itoa(port.ID())
	}
	return "invalid"
}

// Name returns the port name.
func (port EthDev) Name() string {
	var buf [C.RTE_ETH_NAME_MAX_LEN]C.char
	if res := C.rte_eth_dev_get_name_by_port(C.uint16_t(port.ID()), &buf[0]); res != 0 {
		return ""
	}
	return cptr.GetString(buf[:])
}

// NumaSocket returns the NUMA socket where this port is located.
func (port EthDev) NumaSocket() eal.NumaSocket {
	socketID := C.rte_eth_dev_socket_id(C.uint16_t(port.ID()))
	return eal.NumaSocketFromID(int(socketID))
}

// DevInfo retrieves hardware information about the port.
func (port EthDev) DevInfo() (info DevInfo) {
	infoC := (*C.struct_rte_eth_dev_info)(unsafe.Pointer(&info))
	C.rte_eth_dev_info_get(C.uint16_t(port.ID()), infoC)
	return info
}

// MacAddr reads the primary MAC address of this port.
func (port EthDev) MacAddr() (a EtherAddr) {
	C.rte_eth_macaddr_get(C.uint16_t(port.ID()), a.ptr())
	return
}

// SetMacAddr changes the primary MAC address of this port.
func (port EthDev) SetMacAddr(a EtherAddr) error {
	return eal.MakeErrno(C.rte_eth_dev_default_mac_addr_set(C.uint16_t(port.ID()), a.ptr()))
}

// Mtu reads the MTU of this port.
func (port EthDev) Mtu() int {
	var value C.uint16_t
	C.rte_eth_dev_get_mtu(C.uint16_t(port.ID()), &value)
	return int(value)
}

// LinkStatus describes the link status of an Ethernet port.
type LinkStatus struct {
	Up         bool `json:"up"`
	FullDuplex bool `json:"fullDuplex"`
	Autoneg    bool `json:"autoneg"`
	Speed      int  `json:"speed"` // Mbps, 0 if unknown
}

func (l LinkStatus) String() string {
	if !l.Up {
		return "down"
	}
	s := "up"
	if l.Speed > 0 {
		s += " " + strconv.Itoa(l.Speed) + "Mbps"
	}
	if l.FullDuplex {
		s += " FDX"
	} else {
		s += " HDX"
	}
	return s
}

// LinkStatus retrieves the link status.
// If wait is true, this blocks up to 9 seconds for link autonegotiation.
func (port EthDev) LinkStatus(wait bool) (l LinkStatus) {
	var link C.struct_rte_eth_link
	if wait {
		C.rte_eth_link_get(C.uint16_t(port.ID()), &link)
	} else {
		C.rte_eth_link_get_nowait(C.uint16_t(port.ID()), &link)
	}
	l.Up = C.c_EthLink_status(&link) != 0
	l.FullDuplex = C.c_EthLink_duplex(&link) != 0
	l.Autoneg = C.c_EthLink_autoneg(&link) != 0
	if speed := uint32(link.link_speed); speed != C.ETH_SPEED_NUM_UNKNOWN {
		l.Speed = int(speed)
	}
	return l
}

// IsDown determines whether the link is down.
func (port EthDev) IsDown() bool {
	return !port.LinkStatus(false).Up
}

// SetPromiscuous enables or disables promiscuous mode.
func (port EthDev) SetPromiscuous(enable bool) error {
	var res C.int
	if enable {
		res = C.rte_eth_promiscuous_enable(C.uint16_t(port.ID()))
	} else {
		res = C.rte_eth_promiscuous_disable(C.uint16_t(port.ID()))
	}
	return eal.MakeErrno(res)
}

// Promiscuous determines whether promiscuous mode is enabled.
func (port EthDev) Promiscuous() (bool, error) {
	res := C.rte_eth_promiscuous_get(C.uint16_t(port.ID()))
	if res < 0 {
		return false, eal.Errno(syscall.ENODEV)
	}
	return res == 1, nil
}

func (port EthDev) defaultConf(info DevInfo) *C.struct_rte_eth_conf {
	conf := new(C.struct_rte_eth_conf)
	mtu := port.Mtu()
	conf.rxmode.max_rx_pkt_len = C.uint32_t(mtu + C.RTE_ETHER_HDR_LEN + C.RTE_ETHER_CRC_LEN)
	if mtu > C.RTE_ETHER_MTU {
		conf.rxmode.offloads |= C.DEV_RX_OFFLOAD_JUMBO_FRAME
	}
	if info.HasTxMultiSegOffload() {
		conf.txmode.offloads |= C.DEV_TX_OFFLOAD_MULTI_SEGS
	}
	return conf
}

// Start configures and starts this port.
func (port EthDev) Start(cfg Config) error {
	devInfo := port.DevInfo()
	if n := devInfo.MaxRxQueues(); n > 0 && len(cfg.RxQueues) > n {
		return fmt.Errorf("cannot add more than %d RX queues", n)
	}
	if n := devInfo.MaxTxQueues(); n > 0 && len(cfg.TxQueues) > n {
		return fmt.Errorf("cannot add more than %d TX queues", n)
	}

	if cfg.Mtu > 0 {
		if res := C.rte_eth_dev_set_mtu(C.uint16_t(port.ID()), C.uint16_t(cfg.Mtu)); res != 0 && !devInfo.mtuErrorHarmless() {
			return fmt.Errorf("rte_eth_dev_set_mtu(%v,%d) %w", port, cfg.Mtu, eal.MakeErrno(res))
		}
	}

	var conf *C.struct_rte_eth_conf
	if cfg.Conf != nil {
		conf = (*C.struct_rte_eth_conf)(cfg.Conf)
	} else {
		conf = port.defaultConf(devInfo)
	}

	if res := C.rte_eth_dev_configure(C.uint16_t(port.ID()), C.uint16_t(len(cfg.RxQueues)),
		C.uint16_t(len(cfg.TxQueues)), conf); res < 0 {
		return fmt.Errorf("rte_eth_dev_configure(%v) %w", port, eal.Errno(-res))
	}

	rxLim, txLim := devInfo.RxDescLim(), devInfo.TxDescLim()
	for qi, q := range cfg.RxQueues {
		res := C.rte_eth_rx_queue_setup(C.uint16_t(port.ID()), C.uint16_t(qi),
			C.uint16_t(rxLim.adjustQueueCapacity(q.Capacity)), C.uint(q.Socket.ID()),
			(*C.struct_rte_eth_rxconf)(q.Conf), (*C.struct_rte_mempool)(q.RxPool.Ptr()))
		if res != 0 {
			return fmt.Errorf("rte_eth_rx_queue_setup(%v,%d) %w", port, qi, eal.MakeErrno(res))
		}
	}
	for qi, q := range cfg.TxQueues {
		res := C.rte_eth_tx_queue_setup(C.uint16_t(port.ID()), C.uint16_t(qi),
			C.uint16_t(txLim.adjustQueueCapacity(q.Capacity)), C.uint(q.Socket.ID()),
			(*C.struct_rte_eth_txconf)(q.Conf))
		if res != 0 {
			return fmt.Errorf("rte_eth_tx_queue_setup(%v,%d) %w", port, qi, eal.MakeErrno(res))
		}
	}

	if e := port.SetPromiscuous(cfg.Promisc); e != nil && !devInfo.promiscErrorHarmless() {
		var errno eal.Errno
		if !errors.As(e, &errno) || errno != eal.Errno(syscall.ENOTSUP) {
			return fmt.Errorf("cannot set promiscuous mode on %v: %w", port, e)
		}
	}

	if res := C.rte_eth_dev_start(C.uint16_t(port.ID())); res != 0 {
		return fmt.Errorf("rte_eth_dev_start(%v) %w", port, eal.MakeErrno(res))
	}
	return nil
}

// StopMode selects the behavior of stopping an EthDev.
type StopMode int

const (
	// StopDetach stops and detaches the port. It cannot be restarted.
	StopDetach StopMode = iota

	// StopReset stops and resets the port. It may be re-configured and started again.
	StopReset
)

// Stop stops this port.
func (port EthDev) Stop(mode StopMode) {
	id := C.uint16_t(port.ID())
	C.rte_eth_dev_stop(id)
	switch mode {
	case StopDetach:
		C.rte_eth_dev_close(id)
		emitter.EmitSync(evtDetach(port.ID()))
	case StopReset:
		C.rte_eth_dev_reset(id)
	}
}

// Close stops and detaches this port.
func (port EthDev) Close() error {
	port.Stop(StopDetach)
	return nil
}

var emitter = events.NewEmitter()

type evtDetach int

// OnDetach registers a callback to be invoked once when the port is stopped
// and detached. Returns an io.Closer that cancels the registration.
func OnDetach(port EthDev, cb func()) io.Closer {
	return emitter.Once(evtDetach(port.ID()), cb)
}
