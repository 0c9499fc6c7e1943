package ealtest

import (
	"testing"

	"github.com/flier/go-dpdk/dpdk/eal"
	"github.com/flier/go-dpdk/dpdk/ealtestenv"
)

func TestEal(t *testing.T) {
	assert, require := makeAR(t)

	assert.Equal([]string{"c7f36046-faa5-46dc-9855-e93d00217b8f"}, initEalRemainingArgs)

	assert.True(eal.MainLCore.Valid())
	assert.NotNil(eal.MainThread)
	assert.NotEmpty(eal.Sockets)
	assert.NotEmpty(eal.Version)

	require.Len(eal.Workers, ealtestenv.WantLCores-1)
	seen := map[eal.LCore]bool{}
	for _, worker := range eal.Workers {
		assert.True(worker.Valid())
		assert.False(worker.IsBusy())
		seen[worker] = true
	}
	require.Len(seen, ealtestenv.WantLCores-1)

	executedOnWorker := false
	require.NoError(eal.Workers[0].RemoteLaunch(func() int {
		assert.Equal(eal.Workers[0], eal.CurrentLCore())
		executedOnWorker = true

		ch := make(chan eal.LCore)
		go func() { ch <- eal.CurrentLCore() }()
		assert.False((<-ch).Valid())

		return 82
	}))
	assert.Equal(82, eal.Workers[0].Wait())
	assert.True(executedOnWorker)
}

func TestCallMain(t *testing.T) {
	assert, _ := makeAR(t)

	executed := false
	eal.CallMain(func() {
		assert.Equal(eal.MainLCore, eal.CurrentLCore())
		executed = true
	})
	assert.True(executed)
}

func TestEalJSON(t *testing.T) {
	assert, _ := makeAR(t)

	var lc eal.LCore
	assert.Equal("null", toJSON(lc))
	assert.Equal("7", toJSON(eal.LCoreFromID(7)))

	var socket eal.NumaSocket
	assert.Equal("null", toJSON(socket))
	assert.Equal("2", toJSON(eal.NumaSocketFromID(2)))
}
