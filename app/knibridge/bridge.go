// Package knibridge bridges Ethernet ports to kernel network interfaces.
package knibridge

import (
	"errors"
	"fmt"
	"net"
	"unsafe"

	"github.com/flier/go-dpdk/core/logging"
	"github.com/flier/go-dpdk/core/macaddr"
	"github.com/flier/go-dpdk/dpdk/eal"
	"github.com/flier/go-dpdk/dpdk/ealthread"
	"github.com/flier/go-dpdk/dpdk/ethdev"
	"github.com/flier/go-dpdk/dpdk/kni"
	"github.com/flier/go-dpdk/dpdk/pktmbuf"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var logger = logging.New("knibridge")

// Bridge moves packets between Ethernet ports and kernel network interfaces.
// Each bridged port gets one or more kernel interfaces backed by a shared
// packet pool, an ingress thread feeding the kernel, and an egress thread
// transmitting what the kernel sends.
type Bridge struct {
	cfg    Config
	pool   *pktmbuf.Pool
	ports  []*port
	kniUp  bool
	closed bool
	final  map[uint16]Stats
}

// port is the bridge state of one Ethernet port.
type port struct {
	bridge *Bridge
	params PortParams
	dev    ethdev.EthDev
	knis   []*kni.KNI
	stats  *Stats
	rx     *ingress
	tx     *egress
}

// New creates a Bridge.
// This configures and starts the Ethernet ports, initializes the KNI
// subsystem, and allocates the kernel interfaces, but does not launch the
// packet moving threads.
func New(cfg Config) (_ *Bridge, e error) {
	if e := cfg.applyDefaults(); e != nil {
		return nil, e
	}

	b := &Bridge{cfg: cfg}
	defer func() {
		if e != nil {
			b.Close()
		}
	}()

	enabled := cfg.enabledPorts()
	nKnis := 0
	for _, params := range enabled {
		nKnis += params.numKnis()
	}

	b.pool, e = pktmbuf.NewPool(pktmbuf.PoolConfig{
		Capacity: cfg.MempoolCapacity,
		Dataroom: pktmbuf.DefaultHeadroom + MaxPacketSize,
	}, eal.MainLCore.NumaSocket())
	if e != nil {
		return nil, fmt.Errorf("mempool: %w", e)
	}

	if e := kni.Init(nKnis); e != nil {
		return nil, fmt.Errorf("kni subsystem: %w", e)
	}
	b.kniUp = true

	for _, params := range enabled {
		p, e := b.newPort(params)
		if e != nil {
			return nil, e
		}
		b.ports = append(b.ports, p)
	}
	return b, nil
}

func (b *Bridge) newPort(params PortParams) (_ *port, e error) {
	p := &port{bridge: b, params: params}
	for _, dev := range ethdev.List() {
		if dev.ID() == int(params.Port) {
			p.dev = dev
		}
	}
	if !p.dev.Valid() {
		return nil, fmt.Errorf("port %d does not exist", params.Port)
	}
	defer func() {
		if e != nil {
			p.close()
		}
	}()

	if e := p.dev.Start(p.devConfig(0)); e != nil {
		return nil, fmt.Errorf("port %d start: %w", params.Port, e)
	}

	socket := p.dev.NumaSocket()
	p.stats = eal.ZmallocAligned[Stats]("knibridge.Stats", unsafe.Sizeof(Stats{}), 1, socket)

	minMTU, maxMTU := p.dev.DevInfo().MtuRange()
	for i := 0; i < params.numKnis(); i++ {
		kcfg := kni.Config{
			Name:     params.kniName(i),
			GroupID:  params.Port,
			MbufSize: MaxPacketSize,
			MAC:      p.dev.MacAddr(),
			MTU:      p.dev.Mtu(),
			MinMTU:   minMTU,
			MaxMTU:   maxMTU,
		}
		if len(params.KThreads) > 0 {
			kcfg.Core = params.KThreads[i]
			kcfg.ForceBind = true
		}

		// The first interface of each port serves the kernel requests.
		var h *kni.Handlers
		if i == 0 {
			h = p.handlers()
		}

		ki, e := kni.Alloc(b.pool, kcfg, h)
		if e != nil {
			return nil, fmt.Errorf("kni %s: %w", kcfg.Name, e)
		}
		p.knis = append(p.knis, ki)
	}

	p.rx = newIngress(p)
	p.tx = newEgress(p)
	logger.Info("port bridged",
		zap.Uint16("port", params.Port),
		zap.Int("lcore-rx", params.LCoreRx),
		zap.Int("lcore-tx", params.LCoreTx),
		zap.Int("knis", len(p.knis)),
	)
	return p, nil
}

// devConfig builds the Ethernet port configuration.
// mtu is zero to keep the port's current MTU.
func (p *port) devConfig(mtu int) (cfg ethdev.Config) {
	socket := p.dev.NumaSocket()
	cfg.AddRxQueues(1, ethdev.RxQueueConfig{Capacity: NbRxDesc, Socket: socket, RxPool: p.bridge.pool})
	cfg.AddTxQueues(1, ethdev.TxQueueConfig{Capacity: NbTxDesc, Socket: socket})
	cfg.Mtu = mtu
	cfg.Promisc = p.bridge.cfg.Promisc
	return cfg
}

func (p *port) handlers() *kni.Handlers {
	return &kni.Handlers{
		Port:           p.params.Port,
		ChangeMTU:      p.handleChangeMTU,
		SetLinkState:   p.handleSetLinkState,
		SetMACAddr:     p.handleSetMACAddr,
		SetPromiscuity: p.handleSetPromiscuity,
	}
}

// handleChangeMTU restarts the Ethernet port with the requested MTU.
func (p *port) handleChangeMTU(id uint16, mtu int) error {
	logger.Info("changing MTU", zap.Uint16("port", id), zap.Int("mtu", mtu))
	p.dev.Stop(ethdev.StopReset)
	if e := p.dev.Start(p.devConfig(mtu)); e != nil {
		logger.Error("port restart failed", zap.Uint16("port", id), zap.Error(e))
		return e
	}
	return nil
}

// handleSetLinkState stops the Ethernet port, and starts it again if the
// kernel interface is brought up.
func (p *port) handleSetLinkState(id uint16, up bool) error {
	logger.Info("changing link state", zap.Uint16("port", id), zap.Bool("up", up))
	p.dev.Stop(ethdev.StopReset)
	if !up {
		return nil
	}
	if e := p.dev.Start(p.devConfig(0)); e != nil {
		logger.Error("port restart failed", zap.Uint16("port", id), zap.Error(e))
		return e
	}
	return nil
}

func (p *port) handleSetMACAddr(id uint16, mac net.HardwareAddr) error {
	logger.Info("changing MAC address", zap.Uint16("port", id), zap.Stringer("mac", mac))
	if !macaddr.IsUnicast(mac) {
		return errors.New("not a unicast MAC-48 address")
	}
	a, e := ethdev.MakeEtherAddr(mac)
	if e != nil {
		return e
	}
	return p.dev.SetMacAddr(a)
}

func (p *port) handleSetPromiscuity(id uint16, enable bool) error {
	logger.Info("changing promiscuous mode", zap.Uint16("port", id), zap.Bool("enable", enable))
	return p.dev.SetPromiscuous(enable)
}

func (p *port) close() (e error) {
	for _, ki := range p.knis {
		e = multierr.Append(e, ki.Close())
	}
	p.knis = nil
	if p.dev.Valid() {
		e = multierr.Append(e, p.dev.Close())
		p.dev = ethdev.EthDev{}
	}
	if p.stats != nil {
		eal.Free(p.stats)
		p.stats = nil
	}
	return e
}

// Launch launches the ingress and egress threads of every port on their
// configured lcores.
func (b *Bridge) Launch() error {
	for _, p := range b.ports {
		for _, assignment := range []struct {
			th ealthread.ThreadWithRole
			lc int
		}{
			{p.rx, p.params.LCoreRx},
			{p.tx, p.params.LCoreTx},
		} {
			lc, e := workerLCore(assignment.lc)
			if e != nil {
				b.Stop()
				return e
			}
			assignment.th.SetLCore(lc)
			assignment.th.Launch()
			logger.Info("thread launched",
				zap.String("role", assignment.th.ThreadRole()),
				zap.Uint16("port", p.params.Port),
				lc.ZapField("lc"),
			)
		}
	}
	return nil
}

// workerLCore resolves an lcore ID to an idle EAL worker lcore.
func workerLCore(id int) (eal.LCore, error) {
	for _, lc := range eal.Workers {
		if lc.ID() != id {
			continue
		}
		if lc.IsBusy() {
			return eal.LCore{}, fmt.Errorf("lcore %d is busy", id)
		}
		return lc, nil
	}
	return eal.LCore{}, fmt.Errorf("lcore %d is not an EAL worker", id)
}

// Stop stops the bridge threads.
// The Ethernet ports and kernel interfaces stay, so the threads can be
// launched again.
func (b *Bridge) Stop() (e error) {
	for _, p := range b.ports {
		e = multierr.Append(e, p.rx.Stop())
		e = multierr.Append(e, p.tx.Stop())
	}
	return e
}

// Close stops the threads, removes the kernel interfaces, closes the
// Ethernet ports, shuts down the KNI subsystem, and releases the packet pool.
func (b *Bridge) Close() (e error) {
	if b.closed {
		return nil
	}
	b.closed = true

	e = b.Stop()
	b.final = b.snapshotStats()
	for _, p := range b.ports {
		e = multierr.Append(e, p.close())
	}
	if b.kniUp {
		kni.CloseAll()
		b.kniUp = false
	}
	if b.pool != nil {
		e = multierr.Append(e, b.pool.Close())
		b.pool = nil
	}
	return e
}
