package ealconfig

import (
	"github.com/flier/go-dpdk/core/hwinfo"
)

// PmdPath is the location of DPDK drivers, passed to DPDK as -d flag.
// This is only needed when DPDK is built with shared libraries.
var PmdPath = ""

// DeviceConfig selects the devices attached to EAL.
type DeviceConfig struct {
	// Drivers is a list of shared object files or directories containing them.
	// Default is the PmdPath, applicable to shared library builds only.
	Drivers []string `json:"drivers,omitempty"`

	// PciDevices allowlists the PCI devices visible to DPDK.
	// Entries may be Ethernet adapters, NVMe controllers, and other PCI devices.
	PciDevices []PCIAddress `json:"pciDevices,omitempty"`

	// AllPciDevices enables all PCI devices.
	// If this is set, PciDevices is ignored.
	AllPciDevices bool `json:"allPciDevices,omitempty"`

	// VirtualDevices lists virtual devices, each in DPDK --vdev argument syntax.
	VirtualDevices []string `json:"virtualDevices,omitempty"`

	// DeviceFlags is raw device flags handed to DPDK verbatim.
	// When set, the other device options are ignored.
	DeviceFlags string `json:"deviceFlags,omitempty"`
}

func (cfg DeviceConfig) args(req Request, hwInfo hwinfo.Provider) (args []string, e error) {
	if cfg.DeviceFlags != "" {
		return shellSplit("DeviceFlags", cfg.DeviceFlags)
	}

	drivers := cfg.Drivers
	if len(drivers) == 0 && PmdPath != "" {
		drivers = []string{PmdPath}
	}
	for _, drv := range drivers {
		args = append(args, "-d", drv)
	}

	switch {
	case cfg.AllPciDevices:
	case len(cfg.PciDevices) > 0:
		for _, dev := range cfg.PciDevices {
			args = append(args, "-a", dev.String())
		}
	default:
		args = append(args, "--no-pci")
	}

	for _, vdev := range cfg.VirtualDevices {
		args = append(args, "--vdev", vdev)
	}
	return args, nil
}
