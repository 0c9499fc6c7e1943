package knibridge

import (
	"github.com/flier/go-dpdk/dpdk/ealthread"
	"github.com/flier/go-dpdk/dpdk/ethdev"
	"github.com/flier/go-dpdk/dpdk/pktmbuf"
	"go.uber.org/zap"
)

// ingress moves packets from an Ethernet port into its kernel interfaces.
// It also pumps kernel requests, so netlink operations against the kernel
// interfaces complete only while ingress is running.
type ingress struct {
	ealthread.Thread
	stop ealthread.StopChan
	port *port
}

var _ ealthread.ThreadWithRole = &ingress{}

func newIngress(p *port) *ingress {
	g := &ingress{
		stop: ealthread.NewStopChan(),
		port: p,
	}
	g.Thread = ealthread.New(g.main, g.stop)
	return g
}

func (ingress) ThreadRole() string {
	return RoleRx
}

func (g *ingress) main() int {
	p := g.port
	rxq := ethdev.RxQueue{Port: p.params.Port}
	vec := make(pktmbuf.Vector, PktBurst)
	exit := 0

	// After a fault the loop keeps consuming stop signals so that Stop
	// does not block.
	for g.stop.Continue() {
		if exit != 0 {
			continue
		}
		for _, ki := range p.knis {
			nRx := rxq.RxBurst(vec)
			if nRx > PktBurst {
				logger.Error("anomalous RX burst from port",
					zap.Uint16("port", p.params.Port),
					zap.Int("count", nRx),
				)
				exit = 1
				break
			}

			num := ki.TxBurst(vec[:nRx])
			if num > 0 {
				p.stats.RxPackets += uint64(num)
			}
			ki.HandleRequests()
			if num < nRx {
				vec[num:nRx].Close()
				p.stats.RxDropped += uint64(nRx - num)
			}
		}
	}
	return exit
}

// egress moves packets from the kernel interfaces out of an Ethernet port.
type egress struct {
	ealthread.Thread
	stop ealthread.StopChan
	port *port
}

var _ ealthread.ThreadWithRole = &egress{}

func newEgress(p *port) *egress {
	g := &egress{
		stop: ealthread.NewStopChan(),
		port: p,
	}
	g.Thread = ealthread.New(g.main, g.stop)
	return g
}

func (egress) ThreadRole() string {
	return RoleTx
}

func (g *egress) main() int {
	p := g.port
	txq := ethdev.TxQueue{Port: p.params.Port}
	vec := make(pktmbuf.Vector, PktBurst)
	exit := 0

	for g.stop.Continue() {
		if exit != 0 {
			continue
		}
		for _, ki := range p.knis {
			num := ki.RxBurst(vec)
			if num > PktBurst {
				logger.Error("anomalous RX burst from kernel interface",
					zap.String("netif", ki.Name()),
					zap.Int("count", num),
				)
				exit = 1
				break
			}
			if num == 0 {
				continue
			}

			nTx := txq.TxBurst(vec[:num])
			if nTx > 0 {
				p.stats.TxPackets += uint64(nTx)
			}
			if nTx < num {
				vec[nTx:num].Close()
				p.stats.TxDropped += uint64(num - nTx)
			}
		}
	}
	return exit
}
