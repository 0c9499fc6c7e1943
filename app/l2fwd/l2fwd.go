// Package l2fwd implements Layer 2 forwarding between pairs of Ethernet ports.
package l2fwd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unsafe"

	"github.com/flier/go-dpdk/core/cptr"
	"github.com/flier/go-dpdk/core/logging"
	"github.com/flier/go-dpdk/dpdk/eal"
	"github.com/flier/go-dpdk/dpdk/ealthread"
	"github.com/flier/go-dpdk/dpdk/ethdev"
	"github.com/flier/go-dpdk/dpdk/pktmbuf"
	"github.com/pkg/math"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var logger = logging.New("l2fwd")

// App is an L2 forwarding application instance.
//
// Enabled ports are paired in mask order: packets received on one port of a
// pair are transmitted out of the other, with the destination MAC rewritten
// to 02:00:00:00:00:XX (XX is the output port ID) and the source MAC set to
// the output port's address. An odd last port forwards to itself.
type App struct {
	// StatsWriter receives periodic statistics printouts.
	// It defaults to os.Stdout, where each printout clears the terminal first.
	StatsWriter io.Writer

	cfg  Config
	pool *pktmbuf.Pool

	devs     []ethdev.EthDev // enabled ports, ascending
	dstPort  map[uint16]uint16
	macs     map[uint16]ethdev.EtherAddr
	txQueues map[uint16]ethdev.TxQueue
	buffers  map[uint16]*ethdev.TxBuffer
	stats    map[uint16]*PortStats // cache-aligned, in DPDK memory
	final    map[uint16]PortStats  // set by Close

	workers []*worker
	closed  bool
}

// New creates an App.
// Ports selected by cfg.PortMask are configured with one RX and one TX queue,
// set to promiscuous mode, and started; RX ports are then assigned to workers
// round-robin, cfg.RxQueuesPerLCore ports each.
func New(cfg Config) (_ *App, e error) {
	if e := cfg.applyDefaults(); e != nil {
		return nil, e
	}

	app := &App{
		StatsWriter: os.Stdout,
		cfg:         cfg,
		dstPort:     map[uint16]uint16{},
		macs:        map[uint16]ethdev.EtherAddr{},
		txQueues:    map[uint16]ethdev.TxQueue{},
		buffers:     map[uint16]*ethdev.TxBuffer{},
		stats:       map[uint16]*PortStats{},
	}
	defer func() {
		if e != nil {
			app.Close()
		}
	}()

	enabled := cptr.ExpandBits(32, cfg.PortMask)
	for _, dev := range ethdev.List() {
		if id := dev.ID(); id < len(enabled) && enabled[id] {
			app.devs = append(app.devs, dev)
		}
	}
	if len(app.devs) == 0 {
		return nil, errors.New("all available ports are disabled by the port mask")
	}

	var last uint16
	for i, dev := range app.devs {
		port := uint16(dev.ID())
		if i%2 == 1 {
			app.dstPort[port] = last
			app.dstPort[last] = port
		} else {
			last = port
		}
	}
	if len(app.devs)%2 == 1 {
		app.dstPort[last] = last
		logger.Info("odd number of ports, last port forwards to itself",
			zap.Uint16("port", last))
	}

	poolSocket := eal.MainLCore.NumaSocket()
	if sockets := eal.NumaSocketsOf(app.devs); len(sockets) > 0 {
		shared := sockets[0]
		for _, socket := range sockets[1:] {
			if !socket.Match(shared) {
				shared = eal.NumaSocket{}
				break
			}
		}
		// a pool local to the NICs saves a QPI crossing per packet
		if !shared.IsAny() {
			poolSocket = shared
		}
	}
	app.pool, e = pktmbuf.NewPool(pktmbuf.PoolConfig{
		Capacity: cfg.MempoolCapacity,
		Dataroom: pktmbuf.DefaultDataroom,
	}, poolSocket)
	if e != nil {
		return nil, fmt.Errorf("mempool: %w", e)
	}

	for _, dev := range app.devs {
		port := uint16(dev.ID())
		socket := dev.NumaSocket()

		var dcfg ethdev.Config
		dcfg.AddRxQueues(1, ethdev.RxQueueConfig{Capacity: cfg.RxDescriptors, Socket: socket, RxPool: app.pool})
		dcfg.AddTxQueues(1, ethdev.TxQueueConfig{Capacity: cfg.TxDescriptors, Socket: socket})
		dcfg.Promisc = true
		if e := dev.Start(dcfg); e != nil {
			return nil, fmt.Errorf("port %d start: %w", port, e)
		}

		app.macs[port] = dev.MacAddr()
		app.txQueues[port] = ethdev.TxQueue{Port: port}

		st := eal.ZmallocAligned[PortStats]("l2fwd.PortStats", unsafe.Sizeof(PortStats{}), 1, socket)
		app.stats[port] = st

		buffer, e := ethdev.NewTxBuffer(MaxPktBurst, socket, &st.Dropped)
		if e != nil {
			return nil, fmt.Errorf("port %d tx buffer: %w", port, e)
		}
		app.buffers[port] = buffer

		logger.Info("port ready",
			zap.Uint16("port", port),
			zap.Uint16("dst-port", app.dstPort[port]),
			zap.Stringer("mac", app.macs[port]),
		)
	}

	for start := 0; start < len(app.devs); start += cfg.RxQueuesPerLCore {
		end := math.MinInt(start+cfg.RxQueuesPerLCore, len(app.devs))
		app.workers = append(app.workers, newWorker(app, app.devs[start:end]))
	}
	app.workers[0].report = cfg.StatsInterval > 0

	return app, nil
}

// Launch allocates lcores and launches forwarding workers.
func (app *App) Launch() error {
	for _, w := range app.workers {
		if e := ealthread.AllocLaunch(w); e != nil {
			app.Stop()
			return e
		}
	}
	return nil
}

// Stop stops forwarding workers.
// Each worker finishes its current iteration; packets remain in the transmit
// buffers until Close flushes them. Workers keep their lcores and can be
// relaunched.
func (app *App) Stop() (e error) {
	for _, w := range app.workers {
		e = multierr.Append(e, w.Stop())
	}
	return e
}

// Close stops the workers, flushes transmit buffers, and releases ports,
// buffers, statistics, and the packet pool.
// The final statistics remain readable through Stats and PrintStats.
func (app *App) Close() (e error) {
	if app.closed {
		return nil
	}
	app.closed = true

	e = app.Stop()
	for port, buffer := range app.buffers {
		if sent := buffer.Flush(app.txQueues[port]); sent > 0 {
			app.stats[port].TX += uint64(sent)
		}
	}
	app.final = app.snapshotStats()

	for _, w := range app.workers {
		if lc := w.LCore(); lc.Valid() {
			ealthread.DefaultAllocator.Free(lc)
		}
	}
	for _, dev := range app.devs {
		e = multierr.Append(e, dev.Close())
	}
	for _, buffer := range app.buffers {
		e = multierr.Append(e, buffer.Close())
	}
	for _, st := range app.stats {
		eal.Free(st)
	}
	app.buffers, app.stats = nil, nil
	if app.pool != nil {
		e = multierr.Append(e, app.pool.Close())
		app.pool = nil
	}
	return e
}
