// Package cptrtest tests package cptr with cgo enabled.
package cptrtest

/*
#cgo pkg-config: libdpdk

#include "../../../csrc/core/common.h"
*/
import "C"
import (
	"unsafe"

	"github.com/flier/go-dpdk/core/cptr"
)

func readCArgs(a *cptr.CArgs) (args []string) {
	argv := unsafe.Slice((**C.char)(a.Argv), a.Argc)
	for _, arg := range argv {
		args = append(args, C.GoString(arg))
	}
	return args
}
