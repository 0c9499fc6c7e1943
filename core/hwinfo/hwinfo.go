// Package hwinfo discovers the CPU core topology of the host machine.
package hwinfo

import (
	"github.com/flier/go-dpdk/core/logging"
	"github.com/pkg/math"
)

var logger = logging.New("hwinfo")

// CoreInfo describes a logical CPU core.
type CoreInfo struct {
	NumaSocket   int // NUMA socket number
	PhysicalCore int // physical core identifier, unique within the host
	LogicalCore  int // kernel CPU number
}

// Cores is a list of logical CPU cores.
type Cores []CoreInfo

// ByNumaSocket groups cores by NUMA socket, preserving list order.
func (cores Cores) ByNumaSocket() map[int]Cores {
	bySocket := map[int]Cores{}
	for _, core := range cores {
		bySocket[core.NumaSocket] = append(bySocket[core.NumaSocket], core)
	}
	return bySocket
}

// MaxNumaSocket returns the highest NUMA socket number, or -1 if the list is empty.
func (cores Cores) MaxNumaSocket() int {
	socket := -1
	for _, core := range cores {
		socket = math.MaxInt(socket, core.NumaSocket)
	}
	return socket
}

// ByLogicalCore indexes cores by logical core number.
func (cores Cores) ByLogicalCore() map[int]CoreInfo {
	byLogical := map[int]CoreInfo{}
	for _, core := range cores {
		byLogical[core.LogicalCore] = core
	}
	return byLogical
}

// ListPrimary returns the first logical core of each physical core.
func (cores Cores) ListPrimary() []int {
	primary, _ := cores.splitHyperThreads()
	return primary
}

// ListSecondary returns the logical cores not in ListPrimary().
func (cores Cores) ListSecondary() []int {
	_, secondary := cores.splitHyperThreads()
	return secondary
}

func (cores Cores) splitHyperThreads() (primary, secondary []int) {
	claimed := map[[2]int]bool{}
	for _, core := range cores {
		physical := [2]int{core.NumaSocket, core.PhysicalCore}
		if claimed[physical] {
			secondary = append(secondary, core.LogicalCore)
			continue
		}
		claimed[physical] = true
		primary = append(primary, core.LogicalCore)
	}
	return
}

// Provider supplies hardware information.
type Provider interface {
	// Cores lists the logical CPU cores available to this process.
	Cores() Cores
}

// Default is the Provider used when none is supplied.
var Default Provider = &cpuinfoProvider{}
