package macaddr_test

import (
	"net"
	"testing"

	"github.com/flier/go-dpdk/core/macaddr"
	"github.com/flier/go-dpdk/core/testenv"
)

var makeAR = testenv.MakeAR

func parseMAC(t *testing.T, input string) net.HardwareAddr {
	a, e := net.ParseMAC(input)
	if e != nil {
		t.Fatal(e)
	}
	return a
}

func TestClassify(t *testing.T) {
	assert, _ := makeAR(t)

	zero := parseMAC(t, "00:00:00:00:00:00")
	host := parseMAC(t, "0a:3b:7c:00:00:01")
	peer := parseMAC(t, "0a:3b:7c:00:00:02")
	group := parseMAC(t, "01:00:5e:10:20:30")
	bcast := parseMAC(t, "ff:ff:ff:ff:ff:ff")
	eui64 := parseMAC(t, "0a:3b:7c:00:00:00:00:01")

	assert.True(macaddr.Equal(host, host))
	assert.False(macaddr.Equal(host, peer))
	assert.False(macaddr.Equal(host, group))

	for _, a := range []net.HardwareAddr{zero, host, peer, group, bcast} {
		assert.True(macaddr.IsValid(a), "%s", a)
	}
	assert.False(macaddr.IsValid(eui64))

	assert.True(macaddr.IsUnicast(host))
	for _, a := range []net.HardwareAddr{zero, group, bcast, eui64} {
		assert.False(macaddr.IsUnicast(a), "%s", a)
	}

	assert.True(macaddr.IsMulticast(group))
	assert.True(macaddr.IsMulticast(bcast))
	for _, a := range []net.HardwareAddr{zero, host, eui64} {
		assert.False(macaddr.IsMulticast(a), "%s", a)
	}
}

func TestMakeRandom(t *testing.T) {
	assert, _ := makeAR(t)

	u := macaddr.MakeRandom(false)
	assert.True(macaddr.IsUnicast(u))
	m := macaddr.MakeRandom(true)
	assert.True(macaddr.IsMulticast(m))
	assert.False(macaddr.Equal(u, m))
}
