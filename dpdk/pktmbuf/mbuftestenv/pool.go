package mbuftestenv

import (
	"github.com/flier/go-dpdk/dpdk/eal"
	"github.com/flier/go-dpdk/dpdk/pktmbuf"
)

func init() {
	for _, tpl := range []pktmbuf.Template{pktmbuf.Direct, pktmbuf.Indirect} {
		tpl.Update(pktmbuf.PoolConfig{Capacity: 4095})
	}
}

// DirectMempool returns a mempool created from the DIRECT template.
func DirectMempool() *pktmbuf.Pool {
	return pktmbuf.Direct.Get(eal.NumaSocket{})
}

// IndirectMempool returns a mempool created from the INDIRECT template.
func IndirectMempool() *pktmbuf.Pool {
	return pktmbuf.Indirect.Get(eal.NumaSocket{})
}
