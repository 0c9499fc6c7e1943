package l2fwd_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/flier/go-dpdk/app/l2fwd"
	"github.com/flier/go-dpdk/dpdk/ethdev"
	"github.com/flier/go-dpdk/dpdk/ethdev/ethringdev"
	"github.com/flier/go-dpdk/dpdk/pktmbuf"
	"github.com/flier/go-dpdk/dpdk/pktmbuf/mbuftestenv"
	"github.com/pkg/math"
)

func TestConfig(t *testing.T) {
	assert, _ := makeAR(t)

	_, e := l2fwd.New(l2fwd.Config{PortMask: 0x1, RxQueuesPerLCore: l2fwd.MaxRxQueuePerLCore + 1})
	assert.Error(e)

	_, e = l2fwd.New(l2fwd.Config{PortMask: 0x1, StatsInterval: l2fwd.MaxStatsInterval + 1})
	assert.Error(e)

	_, e = l2fwd.New(l2fwd.Config{PortMask: 0})
	assert.Error(e)
}

func TestForwarding(t *testing.T) {
	assert, require := makeAR(t)

	pair, e := ethringdev.NewPair(ethringdev.PairConfig{
		RingCapacity:  1024,
		QueueCapacity: 64,
		RxPool:        mbuftestenv.DirectMempool(),
	})
	require.NoError(e)
	defer pair.Close()
	portA, portB := uint16(pair.PortA.ID()), uint16(pair.PortB.ID())

	app, e := l2fwd.New(l2fwd.Config{PortMask: 1<<portA | 1<<portB})
	require.NoError(e)
	macA, macB := pair.PortA.MacAddr(), pair.PortB.MacAddr()

	// Injected packets circulate between the port pair: l2fwd receives each
	// packet, rewrites its addresses, and transmits it back into the same
	// ring. Raw TxBurst does not touch application counters.
	inject := func(q ethdev.TxQueue, count int) {
		for count > 0 {
			burst := math.MinInt(count, 16)
			vec := mbuftestenv.DirectMempool().MustAlloc(burst)
			for _, pkt := range vec {
				require.NoError(pkt.Append(make([]byte, 60)))
			}
			require.Equal(burst, q.TxBurst(vec))
			count -= burst
		}
	}
	inject(ethdev.TxQueue{Port: portB}, 80) // toward port A
	inject(ethdev.TxQueue{Port: portA}, 48) // toward port B

	require.NoError(app.Launch())
	time.Sleep(100 * time.Millisecond)
	require.NoError(app.Stop())

	drain := func(q ethdev.RxQueue, dst uint16, srcMac ethdev.EtherAddr) (count int) {
		vec := make(pktmbuf.Vector, l2fwd.MaxPktBurst)
		for {
			n := q.RxBurst(vec)
			if n == 0 {
				return count
			}
			for _, pkt := range vec[:n] {
				b := pkt.Bytes()
				if assert.Len(b, 60) {
					assert.Equal([]byte{0x02, 0x00, 0x00, 0x00, 0x00, byte(dst)}, b[0:6])
					assert.Equal(srcMac.Bytes[:], b[6:12])
				}
			}
			vec[:n].Close()
			count += n
		}
	}
	assert.Greater(drain(ethdev.RxQueue{Port: portA}, portB, macB), 0)
	assert.Greater(drain(ethdev.RxQueue{Port: portB}, portA, macA), 0)

	require.NoError(app.Close())
	stats := app.Stats()
	assert.Greater(int(stats[portA].RX), 0)
	assert.Greater(int(stats[portB].RX), 0)

	// Every packet received on one port was either transmitted out of the
	// paired port or dropped there.
	assert.EqualValues(stats[portA].RX, stats[portB].TX+stats[portB].Dropped)
	assert.EqualValues(stats[portB].RX, stats[portA].TX+stats[portA].Dropped)
	assert.Zero(stats[portA].Dropped)
	assert.Zero(stats[portB].Dropped)

	var b bytes.Buffer
	app.PrintStats(&b)
	assert.Contains(b.String(), "Port statistics")
	assert.Contains(b.String(), "Aggregate statistics")
}
