package hwinfo

import (
	"fmt"
	"math/big"

	procinfo "github.com/c9s/goprocinfo/linux"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

const (
	cpuinfoPath   = "/proc/cpuinfo"
	statusPath    = "/proc/self/status"
	nodeSysfsPath = "/sys/devices/system/node"

	physicalStride = 4096
	numaNodeLimit  = 32
)

// cpuinfoProvider reads core topology from procfs and sysfs.
type cpuinfoProvider struct {
	cached Cores
}

func (p *cpuinfoProvider) Cores() Cores {
	if p.cached != nil {
		return p.cached
	}

	allowed := p.allowedCPUs()
	cpuInfo, e := procinfo.ReadCPUInfo(cpuinfoPath)
	if e != nil {
		logger.Panic(cpuinfoPath, zap.Error(e))
	}

	cores := Cores{}
	for _, proc := range cpuInfo.Processors {
		logical := int(proc.Id)
		if allowed.Bit(logical) == 0 || proc.CoreId >= physicalStride {
			continue
		}
		socket, ok := p.findNumaSocket(proc)
		if !ok {
			continue
		}
		cores = append(cores, CoreInfo{
			NumaSocket:   socket,
			PhysicalCore: physicalStride*int(proc.PhysicalId) + int(proc.CoreId),
			LogicalCore:  logical,
		})
	}

	p.cached = cores
	return cores
}

// allowedCPUs reads the process CPU affinity as a bitmask.
// Words of Cpus_allowed appear most significant first.
func (cpuinfoProvider) allowedCPUs() *big.Int {
	status, e := procinfo.ReadProcessStatus(statusPath)
	if e != nil {
		logger.Panic(statusPath, zap.Error(e))
	}
	allowed := &big.Int{}
	for _, word := range status.CpusAllowed {
		allowed.Lsh(allowed, 32)
		allowed.Add(allowed, big.NewInt(int64(word)))
	}
	return allowed
}

func (cpuinfoProvider) findNumaSocket(proc procinfo.Processor) (socket int, ok bool) {
	for node := 0; node < numaNodeLimit; node++ {
		path := fmt.Sprintf("%s/node%d/cpu%d", nodeSysfsPath, node, proc.Id)
		if unix.Access(path, unix.F_OK) != nil {
			continue
		}
		return node, true
	}
	return -1, false
}
