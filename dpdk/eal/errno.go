package eal

/*
#include "../../csrc/core/common.h"

static int c_errno(void) { return rte_errno; }
*/
import "C"
import (
	"fmt"
	"syscall"

	"golang.org/x/exp/constraints"
)

// Errno is an errno-style error code reported by DPDK.
type Errno syscall.Errno

func (e Errno) Error() string {
	return fmt.Sprintf("%d %s", int(e), C.GoString(C.rte_strerror(C.int(e))))
}

// MakeErrno turns a C return code into an error.
// Zero yields nil; negative and positive codes both map to the corresponding Errno.
func MakeErrno[I constraints.Signed](errno I) error {
	switch {
	case errno == 0:
		return nil
	case errno < 0:
		return Errno(-errno)
	}
	return Errno(errno)
}

// GetErrno reads the per-thread rte_errno.
func GetErrno() Errno {
	return Errno(C.c_errno())
}
