package ealconfig

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/flier/go-dpdk/core/hwinfo"
)

// LCoreConfig selects processors and logical cores for DPDK.
type LCoreConfig struct {
	// Cores lists the processors (hardware cores) DPDK may use.
	// Go code is not pinned to these cores.
	//
	// By default every core is usable, subject to CPU affinity imposed by
	// systemd or Docker. Non-existent cores are silently skipped.
	Cores []int `json:"cores,omitempty"`

	// CoresPerNuma limits how many cores DPDK may use on each NUMA socket.
	// It has no effect when Cores is set.
	//
	// Example:
	//  CoresPerNuma[0] = 10     permits up to 10 cores on socket 0.
	//  CoresPerNuma[1] = -2     permits all but 2 cores on socket 1.
	//  CoresPerNuma[2] = 0      forbids every core on socket 2.
	//  Omitting CoresPerNuma[3] permits every core on socket 3.
	//
	// Non-existent NUMA sockets are silently skipped.
	CoresPerNuma map[int]int `json:"coresPerNuma,omitempty"`

	// LCoresPerNuma asks for a number of lcores to be created on each NUMA socket.
	//
	// Specify this only when the machine lacks enough processors for the
	// application. The lcores become threads floating among the available
	// processors of their socket, numbered from 0 upward starting at the
	// lowest numbered socket. Floating threads can degrade performance.
	//
	// Example:
	//  - Available processors: { 0: [2,3], 1: [5,6,7] }
	//  - LCoresPerNuma: { 0: 4, 1: 6 }
	//  - Created lcores: { 0: [0,1,2,3], 1: [4,5,6,7,8,9] }
	//
	// Leave this empty when there are enough processors.
	LCoresPerNuma map[int]int `json:"lcoresPerNuma,omitempty"`

	// LCoreMain overrides the DPDK main lcore ID.
	LCoreMain *int `json:"lcoreMain,omitempty"`

	// LCoreFlags, when set, replaces every other field with verbatim
	// lcore-related EAL flags.
	LCoreFlags string `json:"lcoreFlags,omitempty"`
}

func (cfg LCoreConfig) args(req Request, hwInfo hwinfo.Provider) (args []string, e error) {
	if cfg.LCoreFlags != "" {
		return shellSplit("LCoreFlags", cfg.LCoreFlags)
	}

	avail := cfg.availableCores(hwInfo)
	var usable []int
	for _, socketCores := range avail {
		usable = append(usable, socketCores...)
	}
	sort.Ints(usable)

	switch {
	case len(cfg.LCoresPerNuma) > 0:
		lcores, e := floatingLCores(cfg.LCoresPerNuma, avail)
		if e != nil {
			return nil, e
		}
		args = append(args, "--lcores", lcores)
	case len(usable) == 0:
		return nil, errors.New("no processor available")
	case req.MinLCores > len(usable):
		// more lcores demanded than processors, let the lcores float
		var cores commaSeparated
		cores.AppendInt(usable...)
		args = append(args, "--lcores", fmt.Sprintf("(0-%d)@(%s)", req.MinLCores-1, cores))
	default:
		var cores commaSeparated
		cores.AppendInt(usable...)
		args = append(args, "-l", cores.String())
	}

	if main := cfg.LCoreMain; main != nil {
		args = append(args, "--main-lcore", strconv.Itoa(*main))
	}
	return args, nil
}

func floatingLCores(wantBySocket map[int]int, avail map[int][]int) (string, error) {
	sockets := make([]int, 0, len(wantBySocket))
	for socket, want := range wantBySocket {
		switch {
		case want == 0:
			return "", fmt.Errorf("LCoresPerNuma[%d] should not be zero", socket)
		case len(avail[socket]) == 0:
			return "", fmt.Errorf("no processor available on NUMA socket %d", socket)
		}
		sockets = append(sockets, socket)
	}
	sort.Ints(sockets)

	var groups commaSeparated
	nextID := 0
	for _, socket := range sockets {
		var ids, cores commaSeparated
		for i := 0; i < wantBySocket[socket]; i++ {
			ids.AppendInt(nextID)
			nextID++
		}
		cores.AppendInt(avail[socket]...)
		groups = append(groups, fmt.Sprintf("(%s)@(%s)", ids, cores))
	}
	return groups.String(), nil
}

// availableCores groups the processors DPDK may use by NUMA socket.
func (cfg LCoreConfig) availableCores(hwInfo hwinfo.Provider) map[int][]int {
	avail := map[int][]int{}
	if len(cfg.Cores) > 0 {
		byLogical := hwInfo.Cores().ByLogicalCore()
		for _, id := range cfg.Cores {
			core, ok := byLogical[id]
			if !ok {
				continue
			}
			avail[core.NumaSocket] = append(avail[core.NumaSocket], id)
		}
		return avail
	}

	for socket, socketCores := range hwInfo.Cores().ByNumaSocket() {
		cores := append(socketCores.ListPrimary(), socketCores.ListSecondary()...)
		if limit, ok := cfg.CoresPerNuma[socket]; ok {
			if limit < 0 {
				limit += len(cores)
			}
			switch {
			case limit <= 0:
				cores = nil
			case len(cores) > limit:
				cores = cores[:limit]
			}
		}
		avail[socket] = cores
	}
	return avail
}
