package cptrtest

import (
	"testing"

	"github.com/flier/go-dpdk/core/cptr"
	"github.com/flier/go-dpdk/core/testenv"
)

var makeAR = testenv.MakeAR

func TestCArgs(t *testing.T) {
	assert, _ := makeAR(t)

	args := []string{"a", "", "bc", "d"}
	a := cptr.NewCArgs(args)
	defer a.Close()

	assert.Equal(4, a.Argc)
	assert.Equal(args, readCArgs(a))
}
