package bitmap_test

import (
	"testing"
	"unsafe"

	"github.com/flier/go-dpdk/dpdk/bitmap"
	"github.com/flier/go-dpdk/dpdk/eal"
)

func TestBitmap(t *testing.T) {
	assert, require := makeAR(t)

	bm, e := bitmap.New(1024, eal.NumaSocket{})
	require.NoError(e)
	defer bm.Close()

	_, _, ok := bm.Scan()
	assert.False(ok)

	bm.Set(3)
	bm.Set(70)
	bm.Set(70)
	assert.True(bm.Get(3))
	assert.True(bm.Get(70))
	assert.False(bm.Get(71))

	pos, slab, ok := bm.Scan()
	require.True(ok)
	assert.Equal(0, pos)
	assert.Equal(uint64(1)<<3, slab)

	pos, slab, ok = bm.Scan()
	require.True(ok)
	assert.Equal(64, pos)
	assert.Equal(uint64(1)<<6, slab)

	pos, slab, ok = bm.Scan() // wrap-around
	require.True(ok)
	assert.Equal(0, pos)
	assert.Equal(uint64(1)<<3, slab)

	bm.Clear(3)
	bm.Clear(70)
	assert.False(bm.Get(3))
	_, _, ok = bm.Scan()
	assert.False(ok)

	bm.SetSlab(128, 0x00F0)
	assert.True(bm.Get(132))
	bm.Prefetch0(132)
	pos, slab, ok = bm.Scan()
	require.True(ok)
	assert.Equal(128, pos)
	assert.Equal(uint64(0x00F0), slab)

	bm.Reset()
	assert.False(bm.Get(132))
	_, _, ok = bm.Scan()
	assert.False(ok)
}

func TestBitmapInit(t *testing.T) {
	assert, require := makeAR(t)

	footprint := bitmap.Footprint(512)
	require.Positive(footprint)
	mem := eal.ZmallocAligned[byte]("TestBitmapInit", footprint, 1, eal.NumaSocket{})
	defer eal.Free(mem)

	bm, e := bitmap.Init(512, unsafe.Pointer(mem), footprint)
	require.NoError(e)
	defer bm.Close()

	bm.Set(500)
	assert.True(bm.Get(500))

	pos, slab, ok := bm.Scan()
	require.True(ok)
	assert.Equal(448, pos)
	assert.Equal(uint64(1)<<52, slab)
}
