package ealconfig

import (
	"github.com/flier/go-dpdk/core/pciaddr"
)

// PCIAddress is a PCI address.
type PCIAddress = pciaddr.PCIAddress

// ParsePCIAddress parses a PCI address.
func ParsePCIAddress(input string) (PCIAddress, error) {
	return pciaddr.Parse(input)
}

// MustParsePCIAddress parses a PCI address, and panics on failure.
func MustParsePCIAddress(input string) PCIAddress {
	return pciaddr.MustParse(input)
}
