package ethdev

/*
#include "../../csrc/core/common.h"
#include <rte_ether.h>
*/
import "C"
import (
	"encoding/json"
	"errors"
	"net"
	"unsafe"

	"github.com/flier/go-dpdk/core/macaddr"
)

// EtherAddr is a MAC-48 address.
// This struct has the same memory layout as C.struct_rte_ether_addr.
type EtherAddr struct {
	Bytes [C.RTE_ETHER_ADDR_LEN]byte
}

// MakeEtherAddr builds an EtherAddr from a net.HardwareAddr.
func MakeEtherAddr(hw net.HardwareAddr) (EtherAddr, error) {
	var a EtherAddr
	if !macaddr.IsValid(hw) {
		return a, errors.New("invalid MAC-48 address")
	}
	copy(a.Bytes[:], hw)
	return a, nil
}

// ParseEtherAddr parses an EtherAddr from string.
func ParseEtherAddr(s string) (a EtherAddr, e error) {
	var hw net.HardwareAddr
	if hw, e = net.ParseMAC(s); e != nil {
		return a, e
	}
	return MakeEtherAddr(hw)
}

// Ptr returns the *C.struct_rte_ether_addr pointer.
func (a *EtherAddr) Ptr() unsafe.Pointer { return unsafe.Pointer(a) }

func (a *EtherAddr) ptr() *C.struct_rte_ether_addr {
	return (*C.struct_rte_ether_addr)(a.Ptr())
}

// CopyToC writes the address into a *C.struct_rte_ether_addr or any
// other 6-octet buffer.
func (a EtherAddr) CopyToC(ptr unsafe.Pointer) {
	*(*EtherAddr)(ptr) = a
}

// IsZero determines whether this is the all-zeros address.
func (a EtherAddr) IsZero() bool { return C.rte_is_zero_ether_addr(a.ptr()) != 0 }

// IsUnicast determines whether this is a valid assigned unicast address.
func (a EtherAddr) IsUnicast() bool { return C.rte_is_valid_assigned_ether_addr(a.ptr()) != 0 }

// IsGroup determines whether this is a multicast or broadcast address.
func (a EtherAddr) IsGroup() bool { return C.rte_is_multicast_ether_addr(a.ptr()) != 0 }

// Equal reports whether two addresses have identical octets.
func (a EtherAddr) Equal(other EtherAddr) bool { return a.Bytes == other.Bytes }

// HardwareAddr returns the address as net.HardwareAddr.
func (a EtherAddr) HardwareAddr() net.HardwareAddr { return net.HardwareAddr(a.Bytes[:]) }

// String returns the address in colon-separated form.
func (a EtherAddr) String() string { return a.HardwareAddr().String() }

// MarshalJSON encodes the address as a JSON string.
func (a EtherAddr) MarshalJSON() ([]byte, error) { return json.Marshal(a.String()) }

// UnmarshalJSON decodes a JSON string into the address.
func (a *EtherAddr) UnmarshalJSON(data []byte) error {
	var input string
	if e := json.Unmarshal(data, &input); e != nil {
		return e
	}
	parsed, e := ParseEtherAddr(input)
	if e != nil {
		return e
	}
	*a = parsed
	return nil
}
