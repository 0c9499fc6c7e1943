package ethdev

/*
#include "../../csrc/core/common.h"
#include <rte_ethdev.h>
*/
import "C"
import (
	"encoding/json"

	"github.com/pkg/math"
)

// Recognized PMD driver names.
const (
	DriverAfPacket = "net_af_packet"
	DriverMemif    = "net_memif"
	DriverNull     = "net_null"
	DriverRing     = "net_ring"
)

const (
	txOffloadMultiSegs = C.DEV_TX_OFFLOAD_MULTI_SEGS
	txOffloadChecksum  = C.DEV_TX_OFFLOAD_IPV4_CKSUM | C.DEV_TX_OFFLOAD_UDP_CKSUM
)

// DevInfo describes the capabilities and configuration of an Ethernet port.
type DevInfo C.struct_rte_eth_dev_info

// DriverName returns the DPDK net driver name.
func (info DevInfo) DriverName() string { return C.GoString(info.driver_name) }

// driverIn reports whether the port driver is one of the given names.
func (info DevInfo) driverIn(names ...string) bool {
	driver := info.DriverName()
	for _, name := range names {
		if driver == name {
			return true
		}
	}
	return false
}

// IsVDev reports whether the port is backed by a virtual device driver.
func (info DevInfo) IsVDev() bool {
	return info.driverIn(DriverAfPacket, DriverMemif, DriverNull, DriverRing)
}

// mtuErrorHarmless reports whether a set MTU failure is harmless on this driver.
func (info DevInfo) mtuErrorHarmless() bool {
	return info.driverIn(DriverMemif, DriverRing)
}

// promiscErrorHarmless reports whether a promiscuous mode failure is harmless on this driver.
func (info DevInfo) promiscErrorHarmless() bool {
	return info.driverIn(DriverMemif, DriverRing)
}

// MaxRxQueues returns the maximum number of RX queues, 0 for no limit.
func (info DevInfo) MaxRxQueues() int { return int(info.max_rx_queues) }

// MaxTxQueues returns the maximum number of TX queues, 0 for no limit.
func (info DevInfo) MaxTxQueues() int { return int(info.max_tx_queues) }

// NumRxQueues returns the number of configured RX queues.
func (info DevInfo) NumRxQueues() int { return int(info.nb_rx_queues) }

// NumTxQueues returns the number of configured TX queues.
func (info DevInfo) NumTxQueues() int { return int(info.nb_tx_queues) }

// MaxRxPktLen returns the maximum RX frame length.
func (info DevInfo) MaxRxPktLen() int { return int(info.max_rx_pktlen) }

// MtuRange returns the supported MTU range.
func (info DevInfo) MtuRange() (min, max int) {
	return int(info.min_mtu), int(info.max_mtu)
}

// HasTxMultiSegOffload reports whether the port can transmit segmented packets.
func (info DevInfo) HasTxMultiSegOffload() bool {
	if info.tx_offload_capa&txOffloadMultiSegs == txOffloadMultiSegs {
		return true
	}
	// net_ring handles segmented mbufs without advertising the capability
	return info.driverIn(DriverRing)
}

// HasTxChecksumOffload reports whether the port can fill IPv4 and UDP checksums on transmit.
func (info DevInfo) HasTxChecksumOffload() bool {
	return info.tx_offload_capa&txOffloadChecksum == txOffloadChecksum
}

// RxDescLim returns RX descriptor limits.
func (info DevInfo) RxDescLim() DescLim {
	return descLimFromC(info.rx_desc_lim)
}

// TxDescLim returns TX descriptor limits.
func (info DevInfo) TxDescLim() DescLim {
	return descLimFromC(info.tx_desc_lim)
}

// MarshalJSON encodes a summary of the port capabilities.
func (info DevInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"driverName":  info.DriverName(),
		"maxRxQueues": info.MaxRxQueues(),
		"maxTxQueues": info.MaxTxQueues(),
		"maxRxPktLen": info.MaxRxPktLen(),
		"rxDesc":      info.RxDescLim(),
		"txDesc":      info.TxDescLim(),
	})
}

// DescLim describes descriptor ring limits of the hardware.
type DescLim struct {
	Min   int `json:"min"`
	Max   int `json:"max"`
	Align int `json:"align"`
}

func descLimFromC(c C.struct_rte_eth_desc_lim) DescLim {
	return DescLim{Min: int(c.nb_min), Max: int(c.nb_max), Align: int(c.nb_align)}
}

// adjustQueueCapacity adjusts RX/TX queue capacity to satisfy descriptor limits.
func (lim DescLim) adjustQueueCapacity(capacity int) int {
	if lim.Align > 0 {
		capacity -= capacity % lim.Align
	}
	return math.MinInt(math.MaxInt(lim.Min, capacity), lim.Max)
}
