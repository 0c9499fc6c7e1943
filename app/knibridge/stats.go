package knibridge

import (
	"fmt"
	"io"
)

// Stats counts packets bridged between an Ethernet port and its kernel
// interfaces.
type Stats struct {
	// RxPackets is the number of packets received from the port and accepted
	// by the kernel interfaces.
	RxPackets uint64 `json:"rxPackets"`

	// RxDropped is the number of packets received from the port but rejected
	// by the kernel interfaces.
	RxDropped uint64 `json:"rxDropped"`

	// TxPackets is the number of packets read from the kernel interfaces and
	// transmitted on the port.
	TxPackets uint64 `json:"txPackets"`

	// TxDropped is the number of packets read from the kernel interfaces but
	// not transmitted on the port.
	TxDropped uint64 `json:"txDropped"`
}

func (st Stats) String() string {
	return fmt.Sprintf("%drx(%ddrop) %dtx(%ddrop)", st.RxPackets, st.RxDropped, st.TxPackets, st.TxDropped)
}

// Stats returns per-port counters keyed by Ethernet port ID.
// While the threads are running the snapshot is approximate; after Close it
// reflects the final counts.
func (b *Bridge) Stats() map[uint16]Stats {
	if b.final != nil {
		return b.final
	}
	return b.snapshotStats()
}

func (b *Bridge) snapshotStats() map[uint16]Stats {
	m := make(map[uint16]Stats, len(b.ports))
	for _, p := range b.ports {
		if p.stats != nil {
			m[p.params.Port] = *p.stats
		}
	}
	return m
}

// ResetStats zeroes all counters.
func (b *Bridge) ResetStats() {
	for _, p := range b.ports {
		if p.stats != nil {
			*p.stats = Stats{}
		}
	}
}

// PrintStats writes a statistics table to w.
func (b *Bridge) PrintStats(w io.Writer) {
	snapshot := b.Stats()
	fmt.Fprintf(w, "\n**KNI bridge statistics**\n"+
		"======  ==============  ============  ============  ============  ============\n"+
		" Port    Lcore(RX/TX)    rx_packets    rx_dropped    tx_packets    tx_dropped\n"+
		"------  --------------  ------------  ------------  ------------  ------------\n")
	for _, p := range b.ports {
		st := snapshot[p.params.Port]
		fmt.Fprintf(w, "%7d  %10d/%2d  %13d  %13d  %13d  %13d\n",
			p.params.Port, p.params.LCoreRx, p.params.LCoreTx,
			st.RxPackets, st.RxDropped, st.TxPackets, st.TxDropped)
	}
	fmt.Fprintf(w, "======  ==============  ============  ============  ============  ============\n")
}
