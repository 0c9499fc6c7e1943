package ealconfig_test

import (
	"testing"

	"github.com/flier/go-dpdk/core/pciaddr"
	"github.com/flier/go-dpdk/dpdk/ealconfig"
)

func TestPCIAddress(t *testing.T) {
	assert, require := makeAR(t)

	a, e := ealconfig.ParsePCIAddress("5E:01.0")
	require.NoError(e)
	assert.Equal(pciaddr.MustParse("0000:5e:01.0"), a)
	assert.Equal("0000:5e:01.0", a.String())

	_, e = ealconfig.ParsePCIAddress("invalid")
	assert.ErrorIs(e, pciaddr.ErrPCIAddress)
	assert.Panics(func() { ealconfig.MustParsePCIAddress("invalid") })
}
