package ealtest

import (
	"testing"
	"time"

	"github.com/flier/go-dpdk/dpdk/eal"
)

func TestTsc(t *testing.T) {
	assert, _ := makeAR(t)

	assert.NotZero(eal.TscHz())
	assert.InEpsilon(float64(time.Second), eal.GetNanosInTscUnit()*float64(eal.TscHz()), 0.01)

	t0 := eal.TscNow()
	eal.Delay(1 * time.Millisecond)
	t1 := eal.TscNow()
	assert.Greater(uint64(t1), uint64(t0))
	assert.InDelta(float64(1*time.Millisecond), float64(t1.Sub(t0)), float64(40*time.Millisecond))

	d := 200 * time.Millisecond
	assert.InDelta(float64(d), float64(eal.FromTscDuration(eal.ToTscDuration(d))), float64(time.Millisecond))

	assert.InDelta(time.Now().UnixNano(), t1.ToTime().UnixNano(), float64(time.Second))
}

func TestRand(t *testing.T) {
	assert, _ := makeAR(t)

	eal.SeedRand(0x7015bcbd2a8b69ac)
	a, b := eal.Rand(), eal.Rand()
	eal.SeedRand(0x7015bcbd2a8b69ac)
	assert.Equal(a, eal.Rand())
	assert.Equal(b, eal.Rand())

	for i := 0; i < 16; i++ {
		assert.Less(eal.RandMax(1000), uint64(1000))
	}
}
