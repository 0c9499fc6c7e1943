package ethdev

import (
	"unsafe"

	"github.com/flier/go-dpdk/dpdk/eal"
	"github.com/flier/go-dpdk/dpdk/pktmbuf"
)

// Config selects the port-level settings applied by Start.
type Config struct {
	RxQueues []RxQueueConfig
	TxQueues []TxQueueConfig
	Mtu      int            // if non-zero, change MTU
	Promisc  bool           // promiscuous mode
	Conf     unsafe.Pointer // pointer to rte_eth_conf, nil means default
}

// AddRxQueues adds RxQueueConfig for several queues.
func (cfg *Config) AddRxQueues(count int, qcfg RxQueueConfig) {
	for i := 0; i < count; i++ {
		cfg.RxQueues = append(cfg.RxQueues, qcfg)
	}
}

// AddTxQueues adds TxQueueConfig for several queues.
func (cfg *Config) AddTxQueues(count int, qcfg TxQueueConfig) {
	for i := 0; i < count; i++ {
		cfg.TxQueues = append(cfg.TxQueues, qcfg)
	}
}

// RxQueueConfig configures one RX queue.
type RxQueueConfig struct {
	Capacity int            // descriptor ring capacity
	Socket   eal.NumaSocket // NUMA socket for the descriptor ring
	RxPool   *pktmbuf.Pool  // where to store received packets
	Conf     unsafe.Pointer // optional rte_eth_rxconf override
}

// TxQueueConfig configures one TX queue.
type TxQueueConfig struct {
	Capacity int            // descriptor ring capacity
	Socket   eal.NumaSocket // NUMA socket for the descriptor ring
	Conf     unsafe.Pointer // optional rte_eth_txconf override
}
