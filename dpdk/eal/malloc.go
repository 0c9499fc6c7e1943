package eal

/*
#include "../../csrc/core/common.h"
*/
import "C"
import (
	"reflect"
	"unsafe"

	"go.uber.org/zap"
)

// Zmalloc allocates zeroed memory on the given NumaSocket.
// It panics when the allocation fails.
func Zmalloc[T any](dbgtype string, size any, socket NumaSocket) *T {
	return ZmallocAligned[T](dbgtype, size, 0, socket)
}

// ZmallocAligned allocates zeroed memory on the given NumaSocket.
// It panics when the allocation fails.
// size may be a uintptr or any signed integer.
// align is the alignment requirement in cachelines (must be a power of 2), or 0 for no requirement.
func ZmallocAligned[T any](dbgtype string, size any, align int, socket NumaSocket) *T {
	nBytes := coerceSize(size)
	typeC := C.CString(dbgtype)
	defer C.free(unsafe.Pointer(typeC))

	ptr := C.rte_zmalloc_socket(typeC, C.size_t(nBytes), C.uint(align*C.RTE_CACHE_LINE_SIZE), C.int(socket.ID()))
	if ptr == nil {
		logger.Panic("rte_zmalloc_socket failed",
			socket.ZapField("socket"),
			zap.String("type", dbgtype),
			zap.Uintptr("size", nBytes),
		)
	}
	return (*T)(ptr)
}

func coerceSize(size any) uintptr {
	if sz, ok := size.(uintptr); ok {
		return sz
	}
	return uintptr(reflect.ValueOf(size).Int())
}

// Free releases memory obtained from Zmalloc.
func Free(ptr any) { C.rte_free(unsafe.Pointer(reflect.ValueOf(ptr).Pointer())) }
