package cptr

import (
	"io"
	"math/rand"
	"sync"
	"unsafe"
)

// ctxMap stores Go objects referenced from C callbacks.
// Handles are random 32-bit identifiers rather than real pointers, so the
// garbage collector never treats them as references.
var ctxMap sync.Map

func ctxID(ctx unsafe.Pointer) uint32 {
	return uint32(uintptr(ctx))
}

// CtxPut wraps an arbitrary Go object into a void* handle.
func CtxPut(obj any) unsafe.Pointer {
	for {
		id := rand.Uint32()
		if _, taken := ctxMap.LoadOrStore(id, obj); !taken {
			handle := uintptr(id)
			return unsafe.Pointer(handle)
		}
	}
}

// CtxGet returns the object wrapped in a void* handle.
// Panics if the handle is unknown.
func CtxGet(ctx unsafe.Pointer) any {
	obj, ok := ctxMap.Load(ctxID(ctx))
	if !ok {
		panic("unknown context handle")
	}
	return obj
}

// CtxClear releases a void* handle.
func CtxClear(ctx unsafe.Pointer) {
	ctxMap.Delete(ctxID(ctx))
}

// CtxPop retrieves the object and releases the handle in one step.
func CtxPop(ctx unsafe.Pointer) any {
	defer CtxClear(ctx)
	return CtxGet(ctx)
}

// CtxCloser wraps a handle as an io.Closer that releases it.
func CtxCloser(ctx unsafe.Pointer) io.Closer {
	return ctxCloser{handle: ctx}
}

type ctxCloser struct {
	handle unsafe.Pointer
}

func (cc ctxCloser) Close() error {
	CtxClear(cc.handle)
	return nil
}
