package ealconfig

import (
	"strconv"

	"github.com/flier/go-dpdk/core/hwinfo"
)

// MemoryConfig holds hugepage and memory settings.
type MemoryConfig struct {
	// MemChannels is the number of memory channels.
	// A wrong or missing value can degrade performance.
	MemChannels int `json:"memChannels,omitempty"`

	// MemPerNuma maps from NUMA socket ID to a memory limit in MiB.
	// Hugepages must be configured before the application starts.
	//
	// Example:
	//  MemPerNuma[0] = 16384  allows up to 16384MB on socket 0.
	//  Omitting MemPerNuma[1] places no limit on socket 1.
	//  MemPerNuma[2] = 0      allows up to 1MB on socket 2; DPDK does not accept a zero limit.
	MemPerNuma map[int]int `json:"memPerNuma,omitempty"`

	// FilePrefix is the shared data file prefix.
	// This allows multiple independent instances on the same host.
	FilePrefix string `json:"filePrefix,omitempty"`

	// DisableHugeUnlink keeps hugepage files after use.
	// The default is unlinking hugepage files so that they are cleaned up on process exit.
	DisableHugeUnlink bool `json:"disableHugeUnlink,omitempty"`

	// MemFlags is raw memory flags handed to DPDK verbatim.
	// When set, the other memory options are ignored.
	MemFlags string `json:"memFlags,omitempty"`
}

func (cfg MemoryConfig) args(req Request, hwInfo hwinfo.Provider) (args []string, e error) {
	if cfg.MemFlags != "" {
		return shellSplit("MemFlags", cfg.MemFlags)
	}

	if cfg.MemChannels > 0 {
		args = append(args, "-n", strconv.Itoa(cfg.MemChannels))
	}
	if limits := cfg.socketLimits(hwInfo); limits != "" {
		args = append(args, "--socket-limit", limits)
	}
	if cfg.FilePrefix != "" {
		args = append(args, "--file-prefix", cfg.FilePrefix)
	}
	if !cfg.DisableHugeUnlink {
		args = append(args, "--huge-unlink")
	}
	return args, nil
}

// socketLimits renders MemPerNuma as --socket-limit syntax, covering every socket up to the highest present.
func (cfg MemoryConfig) socketLimits(hwInfo hwinfo.Provider) string {
	if len(cfg.MemPerNuma) == 0 {
		return ""
	}

	var limits commaSeparated
	maxSocket := hwInfo.Cores().MaxNumaSocket()
	for socket := 0; socket <= maxSocket; socket++ {
		limit, ok := cfg.MemPerNuma[socket]
		if ok && limit <= 0 {
			limit = 1
		}
		limits.AppendInt(limit)
	}
	return limits.String()
}
