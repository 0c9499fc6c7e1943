package kni

/*
#include "../../csrc/core/common.h"
*/
import "C"
import (
	"errors"
	"net"
	"sync"
	"unsafe"

	"github.com/flier/go-dpdk/dpdk/eal"
)

// Handlers processes kernel requests on behalf of an Ethernet port.
// Requests are delivered during HandleRequests and run on the calling thread.
// A nil function rejects its request with ENOTSUP.
type Handlers struct {
	// Port is the Ethernet port passed to each function.
	// It also keys the handler registry, so at most one Handlers instance
	// can be active per port.
	Port uint16

	ChangeMTU      func(port uint16, mtu int) error
	SetLinkState   func(port uint16, up bool) error
	SetMACAddr     func(port uint16, mac net.HardwareAddr) error
	SetPromiscuity func(port uint16, enable bool) error
}

var (
	handlersLock sync.RWMutex
	handlersMap  = map[uint16]*Handlers{}
)

func registerHandlers(h *Handlers) {
	handlersLock.Lock()
	defer handlersLock.Unlock()
	handlersMap[h.Port] = h
}

func unregisterHandlers(h *Handlers) {
	handlersLock.Lock()
	defer handlersLock.Unlock()
	if handlersMap[h.Port] == h {
		delete(handlersMap, h.Port)
	}
}

func lookupHandlers(port uint16) *Handlers {
	handlersLock.RLock()
	defer handlersLock.RUnlock()
	return handlersMap[port]
}

func handlerResult(e error) C.int {
	if e == nil {
		return 0
	}
	var errno eal.Errno
	if errors.As(e, &errno) {
		return -C.int(errno)
	}
	return -C.int(C.EINVAL)
}

//export go_kniChangeMTU
func go_kniChangeMTU(port C.uint16_t, mtu C.uint) C.int {
	h := lookupHandlers(uint16(port))
	if h == nil || h.ChangeMTU == nil {
		return -C.int(C.ENOTSUP)
	}
	return handlerResult(h.ChangeMTU(uint16(port), int(mtu)))
}

//export go_kniConfigNetworkIf
func go_kniConfigNetworkIf(port C.uint16_t, up C.uint8_t) C.int {
	h := lookupHandlers(uint16(port))
	if h == nil || h.SetLinkState == nil {
		return -C.int(C.ENOTSUP)
	}
	return handlerResult(h.SetLinkState(uint16(port), up != 0))
}

//export go_kniConfigMacAddress
func go_kniConfigMacAddress(port C.uint16_t, mac *C.uint8_t) C.int {
	h := lookupHandlers(uint16(port))
	if h == nil || h.SetMACAddr == nil {
		return -C.int(C.ENOTSUP)
	}
	return handlerResult(h.SetMACAddr(uint16(port), net.HardwareAddr(C.GoBytes(unsafe.Pointer(mac), 6))))
}

//export go_kniConfigPromiscusity
func go_kniConfigPromiscusity(port C.uint16_t, on C.uint8_t) C.int {
	h := lookupHandlers(uint16(port))
	if h == nil || h.SetPromiscuity == nil {
		return -C.int(C.ENOTSUP)
	}
	return handlerResult(h.SetPromiscuity(uint16(port), on != 0))
}
