// Package ealconfig computes EAL command line arguments.
package ealconfig

import (
	"github.com/flier/go-dpdk/core/hwinfo"
	"github.com/flier/go-dpdk/core/logging"
)

var logger = logging.New("ealconfig")

// Request describes the application's demands on the EAL environment.
type Request struct {
	// MinLCores is the minimum number of lcores, including the main lcore.
	// If there are fewer processors available, lcores are created as floating threads.
	MinLCores int
}

type section interface {
	args(req Request, hwInfo hwinfo.Provider) (args []string, e error)
}

// Config gathers every EAL setting.
type Config struct {
	LCoreConfig
	MemoryConfig
	DeviceConfig

	// ExtraFlags is additional flags passed to DPDK, appended after computed arguments.
	ExtraFlags string `json:"extraFlags,omitempty"`

	// Flags is the complete DPDK argument string.
	// When set, every other option is ignored.
	Flags string `json:"flags,omitempty"`
}

// Args builds the EAL argument list from the configuration.
func (cfg Config) Args(req Request, hwInfo hwinfo.Provider) (args []string, e error) {
	if cfg.Flags != "" {
		return shellSplit("Flags", cfg.Flags)
	}
	if hwInfo == nil {
		hwInfo = hwinfo.Default
	}

	sections := []section{cfg.LCoreConfig, cfg.MemoryConfig, cfg.DeviceConfig}
	for _, sec := range sections {
		secArgs, e := sec.args(req, hwInfo)
		if e != nil {
			return nil, e
		}
		args = append(args, secArgs...)
	}

	if cfg.ExtraFlags == "" {
		return args, nil
	}
	extra, e := shellSplit("ExtraFlags", cfg.ExtraFlags)
	if e != nil {
		return nil, e
	}
	return append(args, extra...), nil
}
