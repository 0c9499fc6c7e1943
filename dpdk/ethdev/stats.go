package ethdev

/*
#include "../../csrc/core/common.h"
#include <rte_ethdev.h>
*/
import "C"
import "fmt"

// Stats contains hardware statistics of an Ethernet port.
type Stats struct {
	Ipackets uint64 `json:"ipackets"`
	Opackets uint64 `json:"opackets"`
	Ibytes   uint64 `json:"ibytes"`
	Obytes   uint64 `json:"obytes"`
	Imissed  uint64 `json:"imissed"`
	Ierrors  uint64 `json:"ierrors"`
	Oerrors  uint64 `json:"oerrors"`
	RxNombuf uint64 `json:"rxNombuf"`
}

// Stats retrieves hardware statistics.
func (port EthDev) Stats() (es Stats) {
	var st C.struct_rte_eth_stats
	if res := C.rte_eth_stats_get(C.uint16_t(port.ID()), &st); res != 0 {
		return es
	}
	return Stats{
		Ipackets: uint64(st.ipackets),
		Opackets: uint64(st.opackets),
		Ibytes:   uint64(st.ibytes),
		Obytes:   uint64(st.obytes),
		Imissed:  uint64(st.imissed),
		Ierrors:  uint64(st.ierrors),
		Oerrors:  uint64(st.oerrors),
		RxNombuf: uint64(st.rx_nombuf),
	}
}

// ResetStats clears hardware statistics.
func (port EthDev) ResetStats() {
	C.rte_eth_stats_reset(C.uint16_t(port.ID()))
}

func (es Stats) String() string {
	return fmt.Sprintf("RX %d pkts, %d bytes, %d missed, %d errors, %d nombuf; TX %d pkts, %d bytes, %d errors",
		es.Ipackets, es.Ibytes, es.Imissed, es.Ierrors, es.RxNombuf, es.Opackets, es.Obytes, es.Oerrors)
}
