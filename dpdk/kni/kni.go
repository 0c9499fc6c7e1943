// Package kni contains bindings of DPDK kernel network interface.
package kni

/*
#include "../../csrc/core/common.h"
#include <rte_kni.h>

extern int go_kniChangeMTU(uint16_t port, unsigned int mtu);
extern int go_kniConfigNetworkIf(uint16_t port, uint8_t up);
extern int go_kniConfigMacAddress(uint16_t port, uint8_t* mac);
extern int go_kniConfigPromiscusity(uint16_t port, uint8_t on);

static void c_KniConf_setForceBind(struct rte_kni_conf* conf, bool enable)
{
	conf->force_bind = enable;
}

static void c_KniOps_init(struct rte_kni_ops* ops, uint16_t port)
{
	ops->port_id = port;
	ops->change_mtu = go_kniChangeMTU;
	ops->config_network_if = go_kniConfigNetworkIf;
	ops->config_mac_address = go_kniConfigMacAddress;
	ops->config_promiscusity = go_kniConfigPromiscusity;
}
*/
import "C"
import (
	"syscall"
	"unsafe"

	"github.com/flier/go-dpdk/core/cptr"
	"github.com/flier/go-dpdk/core/logging"
	"github.com/flier/go-dpdk/dpdk/eal"
	"github.com/flier/go-dpdk/dpdk/ethdev"
	"github.com/flier/go-dpdk/dpdk/pktmbuf"
	"go.uber.org/zap"
)

var logger = logging.New("kni")

// Init initializes and preallocates the KNI subsystem.
// The rte_kni kernel module must be loaded.
func Init(maxIfaces int) error {
	var res C.int
	eal.CallMain(func() {
		res = C.rte_kni_init(C.uint(maxIfaces))
	})
	if res != 0 {
		logger.Error("subsystem init failed, is the rte_kni kernel module loaded?",
			zap.Int("max-ifaces", maxIfaces),
		)
		return eal.MakeErrno(res)
	}
	return nil
}

// CloseAll releases KNI subsystem resources.
// Interfaces should be closed individually beforehand.
func CloseAll() {
	eal.CallMain(func() {
		C.rte_kni_close()
	})
}

// Config contains KNI interface configuration.
type Config struct {
	// Name is the kernel network interface name.
	// Keep it short, as it becomes part of a memzone name.
	Name string

	// Core is the CPU core for the kernel thread, effective with ForceBind.
	Core int

	// GroupID identifies the interface group, customarily the Ethernet port ID.
	GroupID uint16

	// MbufSize is the maximum packet size that can traverse the interface.
	MbufSize int

	// MAC is the initial MAC address.
	// If zero, the kernel assigns a random address.
	MAC ethdev.EtherAddr

	// MTU is the initial MTU.
	// MinMTU and MaxMTU bound later changes made from the kernel side;
	// zero keeps the kernel defaults.
	MTU    int
	MinMTU int
	MaxMTU int

	// ForceBind pins the kernel thread to Core.
	ForceBind bool
}

func (cfg Config) toC() (c C.struct_rte_kni_conf) {
	copy(cptr.AsByteSlice(c.name[:C.RTE_KNI_NAMESIZE-1]), cfg.Name)

	c.core_id = C.uint32_t(cfg.Core)
	c.group_id = C.uint16_t(cfg.GroupID)
	c.mbuf_size = C.uint(cfg.MbufSize)
	C.c_KniConf_setForceBind(&c, C.bool(cfg.ForceBind))
	cfg.MAC.CopyToC(unsafe.Pointer(&c.mac_addr[0]))
	c.mtu = C.uint16_t(cfg.MTU)
	c.min_mtu = C.uint16_t(cfg.MinMTU)
	c.max_mtu = C.uint16_t(cfg.MaxMTU)
	return c
}

// KNI represents a kernel network interface.
type KNI struct {
	c        *C.struct_rte_kni
	handlers *Handlers
}

// Alloc creates a KNI interface backed by mp.
// The interface appears in the kernel once this function returns.
// h customizes kernel request processing and may be nil.
func Alloc(mp *pktmbuf.Pool, cfg Config, h *Handlers) (*KNI, error) {
	conf := cfg.toC()
	var ops C.struct_rte_kni_ops
	var opsPtr *C.struct_rte_kni_ops
	if h != nil {
		C.c_KniOps_init(&ops, C.uint16_t(h.Port))
		opsPtr = &ops
	}

	var kniC *C.struct_rte_kni
	eal.CallMain(func() {
		kniC = C.rte_kni_alloc((*C.struct_rte_mempool)(mp.Ptr()), &conf, opsPtr)
	})
	if kniC == nil {
		errno := eal.GetErrno()
		if errno == 0 {
			errno = eal.Errno(syscall.ENODEV)
		}
		return nil, errno
	}

	kni := &KNI{c: kniC}
	if h != nil {
		kni.handlers = h
		registerHandlers(h)
	}
	logger.Info("interface allocated",
		zap.String("name", cfg.Name),
		zap.Uint16("group", cfg.GroupID),
	)
	return kni, nil
}

// Get retrieves an allocated interface by kernel interface name.
// Returns nil if no such interface exists.
func Get(name string) *KNI {
	nameC := C.CString(name)
	defer C.free(unsafe.Pointer(nameC))
	kniC := C.rte_kni_get(nameC)
	if kniC == nil {
		return nil
	}
	return &KNI{c: kniC}
}

// Ptr returns *C.struct_rte_kni pointer.
func (kni *KNI) Ptr() unsafe.Pointer {
	return unsafe.Pointer(kni.c)
}

// Name returns the kernel interface name.
func (kni *KNI) Name() string {
	return C.GoString(C.rte_kni_get_name(kni.c))
}

// RxBurst retrieves a burst of packets coming out of the kernel interface.
// Returns the number of packets received and written into vec.
func (kni *KNI) RxBurst(vec pktmbuf.Vector) int {
	if len(vec) == 0 {
		return 0
	}
	return int(C.rte_kni_rx_burst(kni.c, cptr.FirstPtr[*C.struct_rte_mbuf](vec), C.uint(len(vec))))
}

// TxBurst injects a burst of packets into the kernel interface.
// Returns the number of packets accepted; ownership of accepted packets
// passes to the interface, and the caller keeps the rest of vec.
func (kni *KNI) TxBurst(vec pktmbuf.Vector) int {
	if len(vec) == 0 {
		return 0
	}
	return int(C.rte_kni_tx_burst(kni.c, cptr.FirstPtr[*C.struct_rte_mbuf](vec), C.uint(len(vec))))
}

// HandleRequests processes pending kernel requests, such as MTU or link
// state changes, invoking registered handlers on the calling thread.
// This should be called periodically from the interface's service loop.
func (kni *KNI) HandleRequests() error {
	return eal.MakeErrno(C.rte_kni_handle_request(kni.c))
}

// RegisterHandlers replaces kernel request handlers of this interface.
func (kni *KNI) RegisterHandlers(h *Handlers) error {
	var ops C.struct_rte_kni_ops
	C.c_KniOps_init(&ops, C.uint16_t(h.Port))
	if res := C.rte_kni_register_handlers(kni.c, &ops); res != 0 {
		return eal.MakeErrno(res)
	}
	if kni.handlers != nil && kni.handlers != h {
		unregisterHandlers(kni.handlers)
	}
	kni.handlers = h
	registerHandlers(h)
	return nil
}

// UnregisterHandlers removes kernel request handlers of this interface.
func (kni *KNI) UnregisterHandlers() error {
	if res := C.rte_kni_unregister_handlers(kni.c); res != 0 {
		return eal.MakeErrno(res)
	}
	if kni.handlers != nil {
		unregisterHandlers(kni.handlers)
		kni.handlers = nil
	}
	return nil
}

// Close removes the interface from the kernel and releases its resources.
// Closing an already closed interface is a no-op.
func (kni *KNI) Close() error {
	if kni.c == nil {
		return nil
	}
	name := kni.Name()
	c := kni.c
	kni.c = nil

	var res C.int
	eal.CallMain(func() {
		res = C.rte_kni_release(c)
	})
	if kni.handlers != nil {
		unregisterHandlers(kni.handlers)
		kni.handlers = nil
	}
	logger.Info("interface released", zap.String("name", name))
	return eal.MakeErrno(res)
}
