package ethringdev_test

import (
	"os"
	"testing"

	"github.com/flier/go-dpdk/core/testenv"
	"github.com/flier/go-dpdk/dpdk/ealtestenv"
	"github.com/flier/go-dpdk/dpdk/ethdev/ethringdev"
	"github.com/flier/go-dpdk/dpdk/pktmbuf"
	"github.com/flier/go-dpdk/dpdk/pktmbuf/mbuftestenv"
)

func TestMain(m *testing.M) {
	ealtestenv.Init()
	os.Exit(m.Run())
}

var makeAR = testenv.MakeAR

func TestPair(t *testing.T) {
	assert, require := makeAR(t)

	pair, e := ethringdev.NewPair(ethringdev.PairConfig{
		NQueues: 2,
		RxPool:  mbuftestenv.DirectMempool(),
	})
	require.NoError(e)
	defer pair.Close()

	require.NoError(pair.PortA.Start(pair.EthDevConfig()))
	require.NoError(pair.PortB.Start(pair.EthDevConfig()))
	assert.Len(pair.PortA.RxQueues(), 2)
	assert.Len(pair.PortA.TxQueues(), 2)
	assert.False(pair.PortA.MacAddr().Equal(pair.PortB.MacAddr()))

	txA := pair.PortA.TxQueues()[0]
	rxB := pair.PortB.RxQueues()[0]
	txB := pair.PortB.TxQueues()[1]
	rxA := pair.PortA.RxQueues()[1]

	vec := mbuftestenv.DirectMempool().MustAlloc(3)
	for i, pkt := range vec {
		pkt.Append([]byte{byte(i), 0xBB})
	}
	require.Equal(3, txA.TxBurst(vec))

	rx := make(pktmbuf.Vector, 6)
	n := rxB.RxBurst(rx)
	require.Equal(3, n)
	for i, pkt := range rx[:n] {
		assert.Equal([]byte{byte(i), 0xBB}, pkt.Bytes())
	}

	require.Equal(3, txB.TxBurst(rx[:n])) // forward back unchanged
	n = rxA.RxBurst(rx)
	require.Equal(3, n)
	rx[:n].Close()

	assert.EqualValues(3, pair.PortA.Stats().Opackets)
	assert.EqualValues(3, pair.PortA.Stats().Ipackets)
}
