package ealthread_test

import (
	"testing"

	"github.com/flier/go-dpdk/core/testenv"
	"github.com/flier/go-dpdk/dpdk/eal"
	"github.com/flier/go-dpdk/dpdk/ealthread"
)

var makeAR = testenv.MakeAR

// mockLCoreProvider declares 7 worker lcores.
// Workers 1-3 are on NUMA socket 0, workers 4-7 are on NUMA socket 1, worker 7 is busy.
type mockLCoreProvider struct{}

func (mockLCoreProvider) Workers() (list []eal.LCore) {
	for id := 1; id <= 7; id++ {
		list = append(list, eal.LCoreFromID(id))
	}
	return list
}

func (mockLCoreProvider) IsBusy(lc eal.LCore) bool {
	return lc.ID() == 7
}

func (mockLCoreProvider) NumaSocketOf(lc eal.LCore) eal.NumaSocket {
	if lc.ID() <= 3 {
		return eal.NumaSocketFromID(0)
	}
	return eal.NumaSocketFromID(1)
}

func TestAllocator(t *testing.T) {
	assert, _ := makeAR(t)
	numa0, numa1, numaAny := eal.NumaSocketFromID(0), eal.NumaSocketFromID(1), eal.NumaSocket{}

	la := ealthread.NewAllocator(mockLCoreProvider{})
	la.Config = ealthread.AllocConfig{
		"A": {LCores: []int{1, 6, 8}, EachNuma: 2},
		"B": {LCores: []int{4}, OnNuma: map[int]int{0: 1}},
		"C": {OnNuma: map[int]int{0: 3, 1: 4}},
	}

	// reserved lcores are allocated first, on the preferred NUMA socket
	assert.Equal(eal.LCoreFromID(1), la.Alloc("A", numa0))
	assert.Equal(eal.LCoreFromID(6), la.Alloc("A", numa1))
	assert.Equal(eal.LCoreFromID(4), la.Alloc("B", numaAny))

	// unreserved lcores are allocated within per-socket limits
	assert.Equal(eal.LCoreFromID(2), la.Alloc("B", numa0))
	assert.False(la.Alloc("B", numa0).Valid())
	assert.Equal(eal.LCoreFromID(5), la.Alloc("C", numa1))

	// when the preferred NUMA socket is exhausted, allocate on a remote socket
	assert.Equal(eal.LCoreFromID(3), la.Alloc("C", numa1))
	assert.False(la.Alloc("C", numaAny).Valid())

	la.Free(eal.LCoreFromID(2))
	assert.Equal(eal.LCoreFromID(2), la.Alloc("B", numa1))

	assert.Panics(func() { la.Free(eal.LCoreFromID(7)) })

	la.Clear()
	assert.Equal(eal.LCoreFromID(1), la.Alloc("A", numa0))
}

func TestAllocatorNoConfig(t *testing.T) {
	assert, _ := makeAR(t)
	numa1 := eal.NumaSocketFromID(1)

	la := ealthread.NewAllocator(mockLCoreProvider{})
	assert.Equal(eal.LCoreFromID(4), la.Alloc("X", numa1))

	list := la.AllocMax("Y")
	assert.Len(list, 5)
	assert.ElementsMatch(eal.LCores{
		eal.LCoreFromID(1), eal.LCoreFromID(2), eal.LCoreFromID(3),
		eal.LCoreFromID(5), eal.LCoreFromID(6),
	}, list)
	assert.False(la.Alloc("X", eal.NumaSocket{}).Valid())
}
