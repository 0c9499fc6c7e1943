package ethringdev

import (
	"fmt"

	"github.com/flier/go-dpdk/dpdk/eal"
	"github.com/flier/go-dpdk/dpdk/ethdev"
	"github.com/flier/go-dpdk/dpdk/pktmbuf"
	"github.com/flier/go-dpdk/dpdk/ringbuffer"
	"go.uber.org/multierr"
	"go4.org/must"
)

// PairConfig tunes the construction of a Pair.
type PairConfig struct {
	// NQueues is the number of RX and TX queues on each port.
	NQueues int

	// RingCapacity is the capacity of each ring connecting the two ports.
	RingCapacity int

	// QueueCapacity is the capacity of each RX and TX queue.
	QueueCapacity int

	// Socket is the preferred NUMA socket for rings and queues.
	Socket eal.NumaSocket

	// RxPool supplies mbufs for packet reception.
	RxPool *pktmbuf.Pool
}

func (cfg *PairConfig) applyDefaults() {
	if cfg.RxPool == nil {
		logger.Panic("PairConfig.RxPool is missing")
	}
	for _, field := range []struct {
		value *int
		dflt  int
	}{
		{&cfg.NQueues, 1},
		{&cfg.RingCapacity, 1024},
		{&cfg.QueueCapacity, 64},
	} {
		if *field.value <= 0 {
			*field.value = field.dflt
		}
	}
}

func (cfg PairConfig) portConfig() (dcfg ethdev.Config) {
	dcfg.AddRxQueues(cfg.NQueues, ethdev.RxQueueConfig{
		Capacity: cfg.QueueCapacity,
		Socket:   cfg.Socket,
		RxPool:   cfg.RxPool,
	})
	dcfg.AddTxQueues(cfg.NQueues, ethdev.TxQueueConfig{
		Capacity: cfg.QueueCapacity,
		Socket:   cfg.Socket,
	})
	return dcfg
}

// Pair is two EthDevs connected back-to-back via the ring-based PMD.
type Pair struct {
	PortA ethdev.EthDev
	PortB ethdev.EthDev

	cfg   PairConfig
	fifos []*ringbuffer.Ring
}

// EthDevConfig builds the configuration both ports should be started with.
func (pair *Pair) EthDevConfig() ethdev.Config {
	return pair.cfg.portConfig()
}

// Close stops both ports and releases the rings.
func (pair *Pair) Close() error {
	var errs []error
	for _, port := range []*ethdev.EthDev{&pair.PortA, &pair.PortB} {
		if port.Valid() {
			errs = append(errs, port.Close())
			*port = ethdev.EthDev{}
		}
	}
	for _, r := range pair.fifos {
		errs = append(errs, r.Close())
	}
	pair.fifos = nil
	return multierr.Combine(errs...)
}

// NewPair builds two EthDevs wired back to back over shared rings.
func NewPair(cfg PairConfig) (pair *Pair, e error) {
	cfg.applyDefaults()
	pair = &Pair{cfg: cfg}
	defer func() {
		if e == nil {
			return
		}
		must.Close(pair)
	}()

	for i := 0; i < 2*cfg.NQueues; i++ {
		r, e := ringbuffer.New(cfg.RingCapacity, cfg.Socket, ringbuffer.ProducerSingle, ringbuffer.ConsumerSingle)
		if e != nil {
			return nil, fmt.Errorf("ringbuffer.New %w", e)
		}
		pair.fifos = append(pair.fifos, r)
	}
	rxA, rxB := pair.fifos[:cfg.NQueues], pair.fifos[cfg.NQueues:]

	if pair.PortA, e = New(rxA, rxB, cfg.Socket); e != nil {
		return nil, fmt.Errorf("ethringdev.New %w", e)
	}
	if pair.PortB, e = New(rxB, rxA, cfg.Socket); e != nil {
		return nil, fmt.Errorf("ethringdev.New %w", e)
	}

	return pair, nil
}
