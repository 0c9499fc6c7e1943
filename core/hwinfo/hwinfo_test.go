package hwinfo_test

import (
	"os"
	"testing"

	"github.com/flier/go-dpdk/core/hwinfo"
	"github.com/flier/go-dpdk/core/testenv"
)

var makeAR = testenv.MakeAR

func TestCores(t *testing.T) {
	assert, _ := makeAR(t)

	var empty hwinfo.Cores
	assert.Equal(-1, empty.MaxNumaSocket())

	cores := hwinfo.Cores{
		{NumaSocket: 0, PhysicalCore: 0, LogicalCore: 0},
		{NumaSocket: 1, PhysicalCore: 4, LogicalCore: 1},
		{NumaSocket: 0, PhysicalCore: 1, LogicalCore: 2},
		{NumaSocket: 1, PhysicalCore: 5, LogicalCore: 3},
		{NumaSocket: 0, PhysicalCore: 0, LogicalCore: 4}, // sibling of logical 0
		{NumaSocket: 1, PhysicalCore: 4, LogicalCore: 5}, // sibling of logical 1
	}
	assert.Equal(1, cores.MaxNumaSocket())

	bySocket := cores.ByNumaSocket()
	assert.Len(bySocket, 2)
	assert.Len(bySocket[0], 3)
	assert.Len(bySocket[1], 3)

	byLogical := cores.ByLogicalCore()
	assert.Len(byLogical, 6)
	assert.Equal(cores[3], byLogical[3])

	assert.Equal([]int{0, 1, 2, 3}, cores.ListPrimary())
	assert.Equal([]int{4, 5}, cores.ListSecondary())
}

func TestDefault(t *testing.T) {
	assert, _ := makeAR(t)

	cores := hwinfo.Default.Cores()
	assert.NotEmpty(cores)
	if os.Getenv("HWINFOTEST_SHOW") == "1" {
		t.Log(testenv.ToJSON(cores))
	}
}
