package ethdev_test

import (
	"testing"

	"github.com/flier/go-dpdk/dpdk/eal"
	"github.com/flier/go-dpdk/dpdk/ethdev"
	"github.com/flier/go-dpdk/dpdk/ethdev/ethringdev"
	"github.com/flier/go-dpdk/dpdk/pktmbuf"
	"github.com/flier/go-dpdk/dpdk/pktmbuf/mbuftestenv"
)

func TestEthDev(t *testing.T) {
	assert, require := makeAR(t)

	pair, e := ethringdev.NewPair(ethringdev.PairConfig{RxPool: mbuftestenv.DirectMempool()})
	require.NoError(e)
	defer pair.Close()
	portA, portB := pair.PortA, pair.PortB

	require.True(portA.Valid())
	assert.NotEqual(portA.ID(), portB.ID())
	assert.Equal(ethdev.DriverRing, portA.DevInfo().DriverName())
	assert.True(portA.DevInfo().IsVDev())
	assert.NotEmpty(portA.Name())
	assert.Equal(portA, ethdev.Find(portA.Name()))
	assert.Contains(ethdev.List(), portA)
	assert.False(portA.MacAddr().IsZero())
	assert.True(portA.MacAddr().IsUnicast())

	cfg := pair.EthDevConfig()
	cfg.Promisc = true
	require.NoError(portA.Start(cfg))
	require.NoError(portB.Start(cfg))
	assert.False(portA.IsDown())
	assert.True(portA.LinkStatus(false).Up)

	promisc, e := portA.Promiscuous()
	assert.NoError(e)
	assert.True(promisc)

	require.Len(portA.RxQueues(), 1)
	require.Len(portB.TxQueues(), 1)
	rxqA, txqB := portA.RxQueues()[0], portB.TxQueues()[0]

	vec := mbuftestenv.DirectMempool().MustAlloc(2)
	vec[0].Append([]byte{0xA0, 0xA1, 0xA2, 0xA3})
	vec[1].Append([]byte{0xB0, 0xB1})
	require.Equal(2, txqB.TxBurst(vec))

	rx := make(pktmbuf.Vector, 4)
	nRx := rxqA.RxBurst(rx)
	require.Equal(2, nRx)
	assert.Equal([]byte{0xA0, 0xA1, 0xA2, 0xA3}, rx[0].Bytes())
	assert.Equal([]byte{0xB0, 0xB1}, rx[1].Bytes())
	rx[:nRx].Close()

	assert.EqualValues(2, portB.Stats().Opackets)
	assert.EqualValues(2, portA.Stats().Ipackets)
	portA.ResetStats()
	assert.EqualValues(0, portA.Stats().Ipackets)
}

func TestTxBuffer(t *testing.T) {
	assert, require := makeAR(t)

	pair, e := ethringdev.NewPair(ethringdev.PairConfig{
		RingCapacity: 4, // usable capacity 3, to force drops
		RxPool:       mbuftestenv.DirectMempool(),
	})
	require.NoError(e)
	defer pair.Close()
	require.NoError(pair.PortA.Start(pair.EthDevConfig()))
	require.NoError(pair.PortB.Start(pair.EthDevConfig()))

	rxq, txq := pair.PortA.RxQueues()[0], pair.PortB.TxQueues()[0]
	buf, e := ethdev.NewTxBuffer(8, eal.NumaSocket{}, nil)
	require.NoError(e)
	defer buf.Close()

	vec := mbuftestenv.DirectMempool().MustAlloc(8)
	sent := 0
	for i, pkt := range vec {
		pkt.Append([]byte{byte(i)})
		sent += buf.Buffer(txq, pkt)
	}
	assert.Equal(3, sent) // 8th packet fills the buffer; flush fits 3 in the ring
	assert.EqualValues(5, buf.CountDropped())

	rx := make(pktmbuf.Vector, 8)
	nRx := rxq.RxBurst(rx)
	require.Equal(3, nRx)
	rx[:nRx].Close()

	vec2 := mbuftestenv.DirectMempool().MustAlloc(2)
	for _, pkt := range vec2 {
		assert.Equal(0, buf.Buffer(txq, pkt))
	}
	assert.Equal(2, buf.Flush(txq))
	nRx = rxq.RxBurst(rx)
	require.Equal(2, nRx)
	rx[:nRx].Close()
	assert.EqualValues(5, buf.CountDropped())
}
