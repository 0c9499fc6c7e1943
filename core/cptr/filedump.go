package cptr

/*
#include "../../csrc/core/common.h"
*/
import "C"
import (
	"errors"
	"unsafe"
)

// CaptureFileDump invokes fn with a FILE* stream backed by a memory buffer,
// and returns what fn wrote into the stream.
func CaptureFileDump(fn func(fp unsafe.Pointer)) ([]byte, error) {
	var buf *C.char
	var size C.size_t
	fp := C.open_memstream(&buf, &size)
	if fp == nil {
		return nil, errors.New("open_memstream failed")
	}

	fn(unsafe.Pointer(fp))

	if res := C.fclose(fp); res != 0 {
		return nil, errors.New("fclose failed")
	}
	defer C.free(unsafe.Pointer(buf))
	return C.GoBytes(unsafe.Pointer(buf), C.int(size)), nil
}
