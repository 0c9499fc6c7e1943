// Package cptr bridges Go values and C void* pointers.
package cptr

import (
	"bytes"
	"unsafe"

	_ "github.com/ianlancetaylor/cgosymbolizer"
)

// FirstPtr returns a pointer to slice[0], or nil when the slice is empty.
// T must be a pointer type of the same width as unsafe.Pointer, and *R must be
// layout-compatible with T.
func FirstPtr[R, T any, A ~[]T](value A) *R {
	if len(value) == 0 {
		return nil
	}
	_ = [1]byte{}[unsafe.Sizeof(value[0])-unsafe.Sizeof(unsafe.Pointer(nil))] // T and void* must have equal size
	return (*R)(unsafe.Pointer(unsafe.SliceData([]T(value))))
}

// AsByteSlice views []C.uint8_t or []C.char as []byte, sharing the backing array.
func AsByteSlice[T ~uint8 | ~int8, A ~[]T](value A) (b []byte) {
	if len(value) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData([]T(value)))), len(value))
}

// GetString reads a NUL-terminated string from []C.uint8_t or []C.char.
// Without a NUL byte, the whole slice is the string.
func GetString[T ~uint8 | ~int8, A ~[]T](value A) string {
	b := AsByteSlice(value)
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// ExpandBits unpacks the n least significant bits of mask into a bool slice.
func ExpandBits[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](n int, mask T) []bool {
	list := make([]bool, n)
	for i := range list {
		list[i] = mask>>i&1 != 0
	}
	return list
}
