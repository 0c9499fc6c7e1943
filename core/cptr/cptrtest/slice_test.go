package cptrtest

import (
	"testing"
	"unsafe"

	"github.com/flier/go-dpdk/core/cptr"
)

func TestAsByteSlice(t *testing.T) {
	assert, _ := makeAR(t)

	assert.Nil(cptr.AsByteSlice([]int8{}))

	value := []int8{0x41, 0x42, 0x00, 0x43}
	b := cptr.AsByteSlice(value)
	assert.Equal([]byte{0x41, 0x42, 0x00, 0x43}, b)
	b[1] = 0x62
	assert.EqualValues(0x62, value[1])

	assert.Equal("Ab", cptr.GetString(value))
	assert.Equal("xy", cptr.GetString([]byte{'x', 'y'}))
}

func TestFirstPtr(t *testing.T) {
	assert, _ := makeAR(t)

	assert.Nil(cptr.FirstPtr[unsafe.Pointer]([]*int{}))

	x, y := 1, 2
	value := []*int{&x, &y}
	first := cptr.FirstPtr[*int](value)
	assert.Equal(&x, *first)
}

func TestExpandBits(t *testing.T) {
	assert, _ := makeAR(t)

	assert.Equal([]bool{true, false, true, false}, cptr.ExpandBits(4, uint32(0x05)))
}
