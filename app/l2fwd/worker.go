package l2fwd

import (
	"github.com/flier/go-dpdk/dpdk/eal"
	"github.com/flier/go-dpdk/dpdk/ealthread"
	"github.com/flier/go-dpdk/dpdk/ethdev"
	"github.com/flier/go-dpdk/dpdk/pktmbuf"
)

// worker polls the RX queues of a subset of ports.
type worker struct {
	ealthread.Thread
	stop    ealthread.StopChan
	app     *App
	rxPorts []uint16
	report  bool
}

var _ ealthread.ThreadWithRole = &worker{}

func newWorker(app *App, devs []ethdev.EthDev) *worker {
	w := &worker{
		stop: ealthread.NewStopChan(),
		app:  app,
	}
	for _, dev := range devs {
		w.rxPorts = append(w.rxPorts, uint16(dev.ID()))
	}
	w.Thread = ealthread.New(w.main, w.stop)
	return w
}

func (worker) ThreadRole() string {
	return Role
}

func (w *worker) main() int {
	app := w.app
	vec := make(pktmbuf.Vector, MaxPktBurst)
	drainTsc := eal.ToTscDuration(TxDrainInterval)
	statsTsc := eal.ToTscDuration(app.cfg.StatsInterval.Duration())
	var prevTsc, timerTsc int64

	for w.stop.Continue() {
		curTsc := int64(eal.TscNow())

		if diff := curTsc - prevTsc; diff > drainTsc {
			for _, rxPort := range w.rxPorts {
				dst := app.dstPort[rxPort]
				if sent := app.buffers[dst].Flush(app.txQueues[dst]); sent > 0 {
					app.stats[dst].TX += uint64(sent)
				}
			}

			if w.report && statsTsc > 0 {
				timerTsc += diff
				if timerTsc >= statsTsc {
					app.printPeriodicStats()
					timerTsc = 0
				}
			}

			prevTsc = curTsc
		}

		for _, rxPort := range w.rxPorts {
			n := ethdev.RxQueue{Port: rxPort}.RxBurst(vec)
			if n == 0 {
				continue
			}
			app.stats[rxPort].RX += uint64(n)
			for _, pkt := range vec[:n] {
				w.forward(pkt, rxPort)
			}
		}
	}
	return 0
}

// forward rewrites the Ethernet addresses and queues the packet toward the
// paired port. The destination address becomes 02:00:00:00:00:XX where XX is
// the low byte of the output port ID; the source address becomes the output
// port's own address.
func (w *worker) forward(pkt *pktmbuf.Packet, rxPort uint16) {
	app := w.app
	dst := app.dstPort[rxPort]

	// RX queues are configured without scatter, so hdr aliases the mbuf.
	if hdr := pkt.ZeroCopyBytes(); len(hdr) >= 12 {
		hdr[0], hdr[1], hdr[2], hdr[3], hdr[4], hdr[5] = 0x02, 0x00, 0x00, 0x00, 0x00, byte(dst)
		mac := app.macs[dst]
		copy(hdr[6:12], mac.Bytes[:])
	}

	if sent := app.buffers[dst].Buffer(app.txQueues[dst], pkt); sent > 0 {
		app.stats[dst].TX += uint64(sent)
	}
}
