package eal

/*
#include "../../csrc/core/common.h"
#include <rte_bus_vdev.h>
#include <rte_dev.h>
*/
import "C"
import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/flier/go-dpdk/core/pciaddr"
	"go.uber.org/zap"
)

// JoinDevArgs formats device argument key-value pairs as a devargs string.
// Pairs with a nil value are skipped.
// As a special case, the value of a "" key replaces all other arguments.
func JoinDevArgs(m map[string]any) string {
	if override, ok := m[""]; ok {
		return fmt.Sprint(override)
	}
	kv := make([]string, 0, len(m))
	for key, value := range m {
		if value == nil {
			continue
		}
		kv = append(kv, fmt.Sprintf("%s=%v", key, value))
	}
	return strings.Join(kv, ",")
}

// ProbePCI attaches a PCI device to EAL.
func ProbePCI(addr pciaddr.PCIAddress, args map[string]any) error {
	devargs := addr.String()
	if extra := JoinDevArgs(args); extra != "" {
		devargs = devargs + "," + extra
	}
	argsC := C.CString(devargs)
	defer C.free(unsafe.Pointer(argsC))

	entry := logger.With(zap.String("devargs", devargs))
	if e := MakeErrno(C.rte_dev_probe(argsC)); e != nil {
		entry.Error("rte_dev_probe error", zap.Error(e))
		return e
	}
	entry.Info("PCI device probed")
	return nil
}

// VDev is a virtual device on the vdev bus.
type VDev struct {
	name   string
	socket NumaSocket
}

// Name returns the vdev name.
func (vdev VDev) Name() string { return vdev.name }

// NumaSocket indicates where the device memory resides, if known.
func (vdev VDev) NumaSocket() NumaSocket { return vdev.socket }

// Close detaches and destroys the virtual device.
func (vdev *VDev) Close() error {
	nameC := C.CString(vdev.name)
	defer C.free(unsafe.Pointer(nameC))

	entry := logger.With(zap.String("name", vdev.name))
	if e := MakeErrno(C.rte_vdev_uninit(nameC)); e != nil {
		entry.Error("rte_vdev_uninit error", zap.Error(e))
		return e
	}
	entry.Info("virtual device destroyed")
	return nil
}

// NewVDev creates a virtual device from a name and devargs.
func NewVDev(name string, args map[string]any, socket NumaSocket) (vdev *VDev, e error) {
	devargs := JoinDevArgs(args)
	nameC, argsC := C.CString(name), C.CString(devargs)
	defer func() {
		C.free(unsafe.Pointer(nameC))
		C.free(unsafe.Pointer(argsC))
	}()

	entry := logger.With(
		zap.String("name", name),
		zap.String("args", devargs),
		socket.ZapField("socket"),
	)
	if e := MakeErrno(C.rte_vdev_init(nameC, argsC)); e != nil {
		entry.Error("rte_vdev_init error", zap.Error(e))
		return nil, e
	}
	entry.Info("virtual device created")
	return &VDev{name: name, socket: socket}, nil
}
