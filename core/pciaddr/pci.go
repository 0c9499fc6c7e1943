// Package pciaddr handles PCI addresses in extended BDF notation.
package pciaddr

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrPCIAddress indicates that the input PCI address cannot be parsed.
var ErrPCIAddress = errors.New("invalid PCI address")

var rePCI = regexp.MustCompile(`^(?:([[:xdigit:]]{1,4}):)?` + // domain, optional
	`([[:xdigit:]]{1,2}):([[:xdigit:]]{1,2})\.([[:xdigit:]])$`) // bus, slot, function

// PCIAddress is a PCI address in domain:bus:slot.function notation.
type PCIAddress struct {
	Domain   uint16
	Bus      uint8
	Slot     uint8
	Function uint8
}

// String formats the address as 0000:00:01.0, with the domain always present.
func (a PCIAddress) String() string {
	return fmt.Sprintf("%04x:%02x:%02x.%01x", a.Domain, a.Bus, a.Slot, a.Function)
}

// MarshalText implements the encoding.TextMarshaler interface.
func (a PCIAddress) MarshalText() ([]byte, error) {
	if a.Function > 0x0F {
		return nil, ErrPCIAddress
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (a *PCIAddress) UnmarshalText(text []byte) error {
	parsed, e := Parse(string(text))
	if e != nil {
		return e
	}
	*a = parsed
	return nil
}

// Parse parses a PCI address.
// The domain part may be omitted.
func Parse(input string) (a PCIAddress, e error) {
	match := rePCI.FindStringSubmatch(input)
	if match == nil {
		return a, ErrPCIAddress
	}

	field := func(s string, bits int) uint64 {
		if e != nil || s == "" {
			return 0
		}
		var u uint64
		if u, e = strconv.ParseUint(s, 16, bits); e != nil {
			e = ErrPCIAddress
		}
		return u
	}
	a.Domain = uint16(field(match[1], 16))
	a.Bus = uint8(field(match[2], 8))
	a.Slot = uint8(field(match[3], 8))
	a.Function = uint8(field(match[4], 4))
	if e != nil {
		return PCIAddress{}, e
	}
	return a, nil
}

// MustParse parses a PCI address, and panics on failure.
func MustParse(input string) PCIAddress {
	a, e := Parse(input)
	if e != nil {
		panic(e)
	}
	return a
}
