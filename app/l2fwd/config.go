package l2fwd

import (
	"fmt"
	"time"

	"github.com/flier/go-dpdk/core/nnduration"
)

const (
	// MaxPktBurst is the maximum number of packets in an RX burst, and the
	// capacity of each transmit buffer.
	MaxPktBurst = 32

	// TxDrainInterval is how often workers flush their transmit buffers.
	TxDrainInterval = 100 * time.Microsecond

	// MaxRxQueuePerLCore is the upper bound of Config.RxQueuesPerLCore.
	MaxRxQueuePerLCore = 16

	// MaxStatsInterval is the upper bound of Config.StatsInterval.
	MaxStatsInterval = nnduration.Milliseconds(86400 * 1000)
)

// Role is the lcore role of forwarding workers.
const Role = "L2FWD"

// Config contains l2fwd configuration.
type Config struct {
	// PortMask selects Ethernet ports: bit i enables port i.
	PortMask uint32 `json:"portMask"`

	// RxQueuesPerLCore is the number of RX ports polled by each worker.
	// Default is 1.
	RxQueuesPerLCore int `json:"rxQueuesPerLCore,omitempty"`

	// StatsInterval is how often the designated worker prints statistics.
	// Zero disables the printout.
	StatsInterval nnduration.Milliseconds `json:"statsInterval,omitempty"`

	// MempoolCapacity is the capacity of the shared packet pool.
	// Default is 2048.
	MempoolCapacity int `json:"mempoolCapacity,omitempty"`

	// RxDescriptors and TxDescriptors are per-queue descriptor ring sizes.
	// Defaults are 128 and 512.
	RxDescriptors int `json:"rxDescriptors,omitempty"`
	TxDescriptors int `json:"txDescriptors,omitempty"`
}

func (cfg *Config) applyDefaults() error {
	if cfg.RxQueuesPerLCore == 0 {
		cfg.RxQueuesPerLCore = 1
	}
	if cfg.RxQueuesPerLCore < 1 || cfg.RxQueuesPerLCore > MaxRxQueuePerLCore {
		return fmt.Errorf("rxQueuesPerLCore must be between 1 and %d", MaxRxQueuePerLCore)
	}
	if cfg.StatsInterval > MaxStatsInterval {
		return fmt.Errorf("statsInterval cannot exceed %s", MaxStatsInterval.Duration())
	}
	if cfg.MempoolCapacity == 0 {
		cfg.MempoolCapacity = 2048
	}
	if cfg.RxDescriptors == 0 {
		cfg.RxDescriptors = 128
	}
	if cfg.TxDescriptors == 0 {
		cfg.TxDescriptors = 512
	}
	return nil
}
