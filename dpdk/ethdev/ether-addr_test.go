package ethdev_test

import (
	"encoding/json"
	"testing"

	"github.com/flier/go-dpdk/dpdk/ethdev"
)

func TestEtherAddr(t *testing.T) {
	assert, require := makeAR(t)

	_, e := ethdev.ParseEtherAddr("XXXX")
	assert.Error(e)

	// EUI-64 parses as a hardware address but is not MAC-48
	_, e = ethdev.ParseEtherAddr("0E:18:5C:22:B0:09:00:00")
	assert.Error(e)

	zero, e := ethdev.ParseEtherAddr("00-00-00-00-00-00")
	require.NoError(e)
	assert.True(zero.IsZero())
	assert.False(zero.IsUnicast())
	assert.False(zero.IsGroup())
	assert.Equal("00:00:00:00:00:00", zero.String())

	unicast, e := ethdev.ParseEtherAddr("0E-18-5C-22-B0-09")
	require.NoError(e)
	assert.False(unicast.IsZero())
	assert.True(unicast.IsUnicast())
	assert.False(unicast.IsGroup())
	assert.Equal("0e:18:5c:22:b0:09", unicast.String())
	assert.True(unicast.Equal(unicast))

	group, e := ethdev.ParseEtherAddr("33:33:00:00:00:FB")
	require.NoError(e)
	assert.False(group.IsZero())
	assert.False(group.IsUnicast())
	assert.True(group.IsGroup())
	assert.Equal("33:33:00:00:00:fb", group.String())
	assert.False(unicast.Equal(group))
}

func TestEtherAddrJSON(t *testing.T) {
	assert, require := makeAR(t)

	a, _ := ethdev.ParseEtherAddr("33:33:00:00:00:FB")
	j, e := json.Marshal(a)
	require.NoError(e)
	assert.Equal(`"33:33:00:00:00:fb"`, string(j))

	e = json.Unmarshal([]byte(`{}`), &a)
	assert.Error(e)

	e = json.Unmarshal([]byte(`"0e:18:5c:22:b0:09"`), &a)
	require.NoError(e)
	assert.Equal("0e:18:5c:22:b0:09", a.String())
}
