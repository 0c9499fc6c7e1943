package knibridge

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// MaxPacketSize is the maximum frame size that can traverse a kernel
	// interface, and the dataroom of the shared packet pool.
	MaxPacketSize = 2048

	// PktBurst is the number of packets moved per burst in either direction.
	PktBurst = 32

	// MaxKThreads is the maximum number of kernel threads per port.
	MaxKThreads = 32

	// NbRxDesc and NbTxDesc are per-queue descriptor ring sizes.
	NbRxDesc = 128
	NbTxDesc = 512
)

// Thread roles.
const (
	RoleRx = "KNIRX"
	RoleTx = "KNITX"
)

// PortParams assigns lcores and kernel threads to a bridged port.
type PortParams struct {
	// Port is the Ethernet port ID.
	Port uint16 `json:"port"`

	// LCoreRx is the lcore that polls the port and feeds the kernel
	// interfaces.
	LCoreRx int `json:"lcoreRx"`

	// LCoreTx is the lcore that reads the kernel interfaces and transmits
	// on the port.
	LCoreTx int `json:"lcoreTx"`

	// KThreads optionally pins kernel threads to CPU cores. Each entry
	// creates one kernel interface whose kernel thread is bound to that
	// core. Empty creates a single interface with an unbound kernel thread.
	KThreads []int `json:"kthreads,omitempty"`
}

// ParsePortParams parses PortParams from a comma separated
// "port,lcoreRx,lcoreTx[,kthread]..." string.
func ParsePortParams(input string) (p PortParams, e error) {
	fields := strings.Split(input, ",")
	if len(fields) < 3 {
		return p, fmt.Errorf("invalid %q, want port,lcoreRx,lcoreTx[,kthread]...", input)
	}
	numbers := make([]int, len(fields))
	for i, field := range fields {
		n, e := strconv.Atoi(strings.TrimSpace(field))
		if e != nil || n < 0 {
			return p, fmt.Errorf("invalid %q, field %d is not a non-negative integer", input, i)
		}
		numbers[i] = n
	}
	if numbers[0] >= 1<<16 {
		return p, fmt.Errorf("port %d out of range", numbers[0])
	}

	p.Port = uint16(numbers[0])
	p.LCoreRx, p.LCoreTx = numbers[1], numbers[2]
	if len(numbers) > 3 {
		p.KThreads = numbers[3:]
	}
	if len(p.KThreads) > MaxKThreads {
		return PortParams{}, fmt.Errorf("port %d cannot have more than %d kernel threads", p.Port, MaxKThreads)
	}
	return p, nil
}

// numKnis returns the number of kernel interfaces of this port.
func (p PortParams) numKnis() int {
	if n := len(p.KThreads); n > 0 {
		return n
	}
	return 1
}

// kniName returns the kernel interface name of the i-th interface.
func (p PortParams) kniName(i int) string {
	if len(p.KThreads) > 0 {
		return fmt.Sprintf("vEth%d_%d", p.Port, i)
	}
	return fmt.Sprintf("vEth%d", p.Port)
}

// Config contains knibridge configuration.
type Config struct {
	// Ports assigns lcores to the bridged Ethernet ports.
	Ports []PortParams `json:"ports"`

	// PortMask optionally restricts Ports: when nonzero, only entries whose
	// port ID bit is set are bridged.
	PortMask uint32 `json:"portMask,omitempty"`

	// Promisc enables promiscuous mode on the Ethernet ports.
	Promisc bool `json:"promisc,omitempty"`

	// MempoolCapacity is the capacity of the shared packet pool.
	// Default is 8192.
	MempoolCapacity int `json:"mempoolCapacity,omitempty"`
}

func (cfg *Config) applyDefaults() error {
	if cfg.MempoolCapacity == 0 {
		cfg.MempoolCapacity = 8192
	}

	if len(cfg.Ports) == 0 {
		return errors.New("no ports configured")
	}
	enabled := cfg.enabledPorts()
	if len(enabled) == 0 {
		return errors.New("all configured ports are disabled by the port mask")
	}
	seenPort := map[uint16]bool{}
	seenLCore := map[int]string{}
	for _, p := range enabled {
		if seenPort[p.Port] {
			return fmt.Errorf("port %d is configured more than once", p.Port)
		}
		seenPort[p.Port] = true
		if len(p.KThreads) > MaxKThreads {
			return fmt.Errorf("port %d cannot have more than %d kernel threads", p.Port, MaxKThreads)
		}
		for _, assignment := range []struct {
			lc   int
			role string
		}{
			{p.LCoreRx, RoleRx},
			{p.LCoreTx, RoleTx},
		} {
			if prev, ok := seenLCore[assignment.lc]; ok {
				return fmt.Errorf("lcore %d is assigned to both %s and %s", assignment.lc, prev, assignment.role)
			}
			seenLCore[assignment.lc] = assignment.role
		}
	}
	return nil
}

// enabledPorts returns Ports filtered by PortMask.
func (cfg Config) enabledPorts() (list []PortParams) {
	for _, p := range cfg.Ports {
		if cfg.PortMask == 0 || (p.Port < 32 && cfg.PortMask&(1<<p.Port) != 0) {
			list = append(list, p)
		}
	}
	return list
}
