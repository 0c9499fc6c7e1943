package ealthreadtest

import (
	"testing"
	"time"

	"github.com/flier/go-dpdk/dpdk/ealthread"
)

type testThread struct {
	ealthread.Thread
	n    int
	stop ealthread.StopChan
}

func newTestThread() *testThread {
	th := &testThread{
		stop: ealthread.NewStopChan(),
	}
	th.Thread = ealthread.New(th.run, th.stop)
	return th
}

func (th *testThread) run() int {
	th.n = 0
	for th.stop.Continue() {
		th.n++
	}
	return 0
}

func (testThread) ThreadRole() string {
	return "TEST"
}

func TestThread(t *testing.T) {
	assert, require := makeAR(t)
	defer ealthread.DefaultAllocator.Clear()

	th := newTestThread()
	assert.False(th.IsRunning())
	assert.False(th.LCore().Valid())

	require.NoError(ealthread.AllocThread(th))
	assert.True(th.LCore().Valid())

	th.Launch()
	time.Sleep(5 * time.Millisecond)
	assert.True(th.IsRunning())

	require.NoError(th.Stop())
	assert.False(th.IsRunning())
	assert.Greater(th.n, 0)

	// a stopped thread can be relaunched
	th.Launch()
	assert.True(th.IsRunning())
	time.Sleep(1 * time.Millisecond)
	require.NoError(th.Stop())
}

func TestAllocLaunch(t *testing.T) {
	assert, require := makeAR(t)
	defer ealthread.DefaultAllocator.Clear()

	th := newTestThread()
	require.NoError(ealthread.AllocLaunch(th))
	assert.True(th.IsRunning())

	require.NoError(th.Stop())
	assert.False(th.IsRunning())
}

type drainThread struct {
	ealthread.Thread
	queue chan int
	sum   int
}

func newDrainThread() *drainThread {
	th := &drainThread{queue: make(chan int)}
	th.Thread = ealthread.New(th.run, ealthread.NewStopClose(th.queue))
	return th
}

func (th *drainThread) run() int {
	for v := range th.queue {
		th.sum += v
	}
	return 0
}

func (drainThread) ThreadRole() string {
	return "DRAIN"
}

func TestStopClose(t *testing.T) {
	assert, require := makeAR(t)
	defer ealthread.DefaultAllocator.Clear()

	th := newDrainThread()
	require.NoError(ealthread.AllocLaunch(th))
	for v := 1; v <= 10; v++ {
		th.queue <- v
	}

	require.NoError(th.Stop())
	assert.False(th.IsRunning())
	assert.Equal(55, th.sum)
}
