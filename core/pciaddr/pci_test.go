package pciaddr_test

import (
	"testing"

	"github.com/flier/go-dpdk/core/pciaddr"
	"github.com/flier/go-dpdk/core/testenv"
)

var (
	makeAR   = testenv.MakeAR
	fromJSON = testenv.FromJSON
	toJSON   = testenv.ToJSON
)

func TestParse(t *testing.T) {
	assert, require := makeAR(t)

	a, e := pciaddr.Parse("0001:3B:0A.2")
	require.NoError(e)
	assert.Equal(pciaddr.PCIAddress{Domain: 0x0001, Bus: 0x3b, Slot: 0x0a, Function: 0x2}, a)
	assert.Equal("0001:3b:0a.2", a.String())

	a, e = pciaddr.Parse("17:00.1")
	require.NoError(e)
	assert.EqualValues(0, a.Domain)
	assert.Equal("0000:17:00.1", a.String())

	for _, input := range []string{"", "bad", "17:00", "00:17:00.g"} {
		_, e = pciaddr.Parse(input)
		assert.ErrorIs(e, pciaddr.ErrPCIAddress, "%s", input)
	}

	assert.Panics(func() { pciaddr.MustParse("z") })
	assert.Equal("0000:5e:01.0", pciaddr.MustParse("5E:01.0").String())
}

func TestAddressJSON(t *testing.T) {
	assert, _ := makeAR(t)

	a := pciaddr.PCIAddress{Bus: 0xa5, Slot: 0x1f, Function: 0x7}
	assert.Equal(`"0000:a5:1f.7"`, toJSON(a))

	var decoded pciaddr.PCIAddress
	fromJSON(`"0000:a5:1f.7"`, &decoded)
	assert.Equal(a, decoded)

	_, e := pciaddr.PCIAddress{Function: 0x10}.MarshalText()
	assert.ErrorIs(e, pciaddr.ErrPCIAddress)
}
