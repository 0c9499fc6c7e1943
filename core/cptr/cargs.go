package cptr

/*
#include "../../csrc/core/common.h"
*/
import "C"
import (
	"unsafe"
)

// CArgs holds an argc+argv pair copied into C memory.
type CArgs struct {
	Argc int            // argument count, cast to C.int at the call site
	Argv unsafe.Pointer // argument vector, cast to **C.char at the call site
}

// NewCArgs copies args into C memory.
// The vector has an extra NULL entry after the last argument.
func NewCArgs(args []string) (a *CArgs) {
	a = &CArgs{
		Argc: len(args),
		Argv: C.calloc(C.size_t(len(args)+1), C.size_t(unsafe.Sizeof((*C.char)(nil)))),
	}
	argv := unsafe.Slice((**C.char)(a.Argv), len(args))
	for i, arg := range args {
		argv[i] = C.CString(arg)
	}
	return a
}

// Close releases the C memory.
// Callees may have permuted the vector but must not replace its entries.
func (a *CArgs) Close() error {
	for _, s := range unsafe.Slice((**C.char)(a.Argv), a.Argc) {
		C.free(unsafe.Pointer(s))
	}
	C.free(a.Argv)
	return nil
}
