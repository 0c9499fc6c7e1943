package kni_test

import (
	"os"
	"testing"
	"time"

	"github.com/flier/go-dpdk/dpdk/eal"
	"github.com/flier/go-dpdk/dpdk/kni"
	"github.com/flier/go-dpdk/dpdk/pktmbuf"
	"github.com/flier/go-dpdk/dpdk/pktmbuf/mbuftestenv"
	"github.com/vishvananda/netlink"
)

func TestAllocWithoutInit(t *testing.T) {
	assert, _ := makeAR(t)

	_, e := kni.Alloc(mbuftestenv.DirectMempool(),
		kni.Config{Name: "knpre0", MbufSize: 2048, MTU: 1500}, nil)
	assert.Error(e)
	var errno eal.Errno
	assert.ErrorAs(e, &errno)
}

// runRequest runs op in background while processing kernel requests on ifkni.
func runRequest(ifkni *kni.KNI, op func() error) error {
	done := make(chan error, 1)
	go func() { done <- op() }()
	for {
		select {
		case e := <-done:
			return e
		default:
			if e := ifkni.HandleRequests(); e != nil {
				return e
			}
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func TestInterface(t *testing.T) {
	assert, require := makeAR(t)
	if _, e := os.Stat("/dev/kni"); e != nil {
		t.Skip("rte_kni kernel module unavailable:", e)
	}

	require.NoError(kni.Init(4))
	defer kni.CloseAll()

	var gotMTU int
	var gotUp bool
	h := &kni.Handlers{
		Port: 0,
		ChangeMTU: func(port uint16, mtu int) error {
			gotMTU = mtu
			return nil
		},
		SetLinkState: func(port uint16, up bool) error {
			gotUp = up
			return nil
		},
	}

	mp := mbuftestenv.DirectMempool()
	ifkni, e := kni.Alloc(mp, kni.Config{
		Name:     "kntest0",
		GroupID:  0,
		MbufSize: 2048,
		MTU:      1500,
		MinMTU:   68,
		MaxMTU:   2000,
	}, h)
	require.NoError(e)

	assert.Equal("kntest0", ifkni.Name())
	assert.NotNil(kni.Get("kntest0"))
	assert.Nil(kni.Get("kntest1"))

	rxVec := make(pktmbuf.Vector, 4)
	assert.Equal(0, ifkni.RxBurst(rxVec))

	frame := make([]byte, 60)
	copy(frame, []byte{
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0x02, 0x00, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x00,
	})
	txVec := mp.MustAlloc(2)
	for _, pkt := range txVec {
		require.NoError(pkt.Append(frame))
	}
	assert.Equal(2, ifkni.TxBurst(txVec))

	link, e := netlink.LinkByName("kntest0")
	require.NoError(e)
	require.NoError(runRequest(ifkni, func() error { return netlink.LinkSetMTU(link, 1400) }))
	assert.Equal(1400, gotMTU)
	require.NoError(runRequest(ifkni, func() error { return netlink.LinkSetUp(link) }))
	assert.True(gotUp)

	require.NoError(ifkni.Close())
	assert.Nil(kni.Get("kntest0"))
	require.NoError(ifkni.Close())
}
