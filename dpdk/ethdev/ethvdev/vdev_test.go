package ethvdev_test

import (
	"os"
	"testing"

	"github.com/flier/go-dpdk/core/testenv"
	"github.com/flier/go-dpdk/dpdk/eal"
	"github.com/flier/go-dpdk/dpdk/ealtestenv"
	"github.com/flier/go-dpdk/dpdk/ethdev"
	"github.com/flier/go-dpdk/dpdk/ethdev/ethvdev"
	"github.com/flier/go-dpdk/dpdk/pktmbuf"
	"github.com/flier/go-dpdk/dpdk/pktmbuf/mbuftestenv"
)

func TestMain(m *testing.M) {
	ealtestenv.Init()
	os.Exit(m.Run())
}

var makeAR = testenv.MakeAR

func TestNetNull(t *testing.T) {
	assert, require := makeAR(t)

	dev, e := ethvdev.New("net_null0", nil, eal.NumaSocket{})
	require.NoError(e)
	assert.Equal(ethdev.DriverNull, dev.DevInfo().DriverName())
	assert.True(dev.DevInfo().IsVDev())

	var cfg ethdev.Config
	cfg.AddRxQueues(1, ethdev.RxQueueConfig{RxPool: mbuftestenv.DirectMempool()})
	cfg.AddTxQueues(1, ethdev.TxQueueConfig{})
	require.NoError(dev.Start(cfg))

	// net_null generates 64-octet packets on RX and discards on TX
	rx := make(pktmbuf.Vector, 4)
	n := dev.RxQueues()[0].RxBurst(rx)
	require.Equal(4, n)
	for _, pkt := range rx[:n] {
		assert.Equal(64, pkt.Len())
	}
	assert.Equal(n, dev.TxQueues()[0].TxBurst(rx[:n]))

	name := dev.Name()
	require.NoError(dev.Close())
	assert.False(ethdev.Find(name).Valid())
}
