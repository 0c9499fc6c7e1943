// Package macaddr validates and generates MAC-48 addresses.
package macaddr

import (
	"bytes"
	"math/rand"
	"net"
)

// Equal reports whether two HardwareAddrs are byte-wise identical.
func Equal(a, b net.HardwareAddr) bool {
	return bytes.Equal(a, b)
}

// IsValid reports whether the HardwareAddr is 48 bits long.
func IsValid(a net.HardwareAddr) bool {
	return len(a) == 6
}

// IsUnicast reports whether the HardwareAddr is a unicast MAC-48 address other than all-zeros.
func IsUnicast(a net.HardwareAddr) bool {
	if !IsValid(a) || a[0]&0x01 != 0 {
		return false
	}
	return a[0]|a[1]|a[2]|a[3]|a[4]|a[5] != 0
}

// IsMulticast reports whether the HardwareAddr is a multicast MAC-48 address.
func IsMulticast(a net.HardwareAddr) bool {
	return IsValid(a) && a[0]&0x01 != 0
}

// MakeRandom generates a MAC-48 address with the locally administered bit set.
// The multicast flag selects between a group address and an individual address.
func MakeRandom(multicast bool) net.HardwareAddr {
	a := make(net.HardwareAddr, 6)
	rand.Read(a)
	a[0] = a[0]&^0x01 | 0x02
	if multicast {
		a[0] |= 0x01
	}
	return a
}
