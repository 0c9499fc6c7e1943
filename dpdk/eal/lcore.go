package eal

/*
#include "../../csrc/core/common.h"

#include <rte_launch.h>
#include <rte_lcore.h>

extern int go_lcoreRun(void*);
*/
import "C"
import (
	"encoding/json"
	"strconv"
	"unsafe"

	"github.com/flier/go-dpdk/core/cptr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MaxLCoreID is the maximum LCore ID.
const MaxLCoreID = C.RTE_MAX_LCORE - 1

// LCore is a DPDK logical core.
// The zero value is an invalid lcore.
type LCore struct {
	v int // ID plus one, so that the zero value is invalid
}

// LCoreFromID converts an lcore ID to LCore.
func LCoreFromID(id int) LCore {
	if id < 0 || id > MaxLCoreID {
		return LCore{}
	}
	return LCore{v: id + 1}
}

// CurrentLCore returns the caller's lcore.
// It is invalid unless the caller runs on an lcore thread.
func CurrentLCore() LCore {
	return LCoreFromID(int(C.rte_lcore_id()))
}

// ID returns the lcore ID.
func (lc LCore) ID() int { return lc.v - 1 }

// Valid reports whether the lcore is valid.
func (lc LCore) Valid() bool { return lc.v != 0 }

func (lc LCore) String() string {
	if lc.Valid() {
		return strconv.Itoa(lc.ID())
	}
	return "invalid"
}

// MarshalJSON encodes lcore as number.
// Invalid lcore is encoded as null.
func (lc LCore) MarshalJSON() ([]byte, error) {
	if !lc.Valid() {
		return json.Marshal(nil)
	}
	return json.Marshal(lc.ID())
}

// ZapField returns a zap.Field for logging.
func (lc LCore) ZapField(key string) zap.Field {
	if !lc.Valid() {
		return zap.String(key, "invalid")
	}
	return zap.Int(key, lc.ID())
}

// NumaSocket reports the socket this lcore resides on.
func (lc LCore) NumaSocket() NumaSocket {
	if !lc.Valid() {
		return NumaSocket{}
	}
	socketID, ok := lcoreToSocket[lc.ID()]
	if !ok {
		return NumaSocket{}
	}
	return NumaSocketFromID(socketID)
}

// IsBusy reports whether the lcore is running a function.
func (lc LCore) IsBusy() bool {
	panicInWorker("LCore.IsBusy()")
	state := C.rte_eal_get_lcore_state(C.uint(lc.ID()))
	return state != C.WAIT
}

// RemoteLaunch starts fn on this lcore without waiting for completion.
func (lc LCore) RemoteLaunch(fn func() int) error {
	panicInWorker("LCore.RemoteLaunch()")
	if !lc.Valid() {
		logger.Panic("cannot launch on invalid lcore")
	}
	ctx := cptr.CtxPut(fn)
	res := C.rte_eal_remote_launch(
		(*C.lcore_function_t)(C.go_lcoreRun), ctx, C.uint(lc.ID()))
	if res != 0 {
		cptr.CtxClear(ctx)
		return MakeErrno(res)
	}
	return nil
}

// Wait blocks until the launched function finishes, and returns its return value.
// If nothing is running on this lcore, Wait returns 0 immediately.
func (lc LCore) Wait() int {
	panicInWorker("LCore.Wait()")
	ret := C.rte_eal_wait_lcore(C.uint(lc.ID()))
	return int(ret)
}

//export go_lcoreRun
func go_lcoreRun(ctx unsafe.Pointer) C.int {
	fn := cptr.CtxPop(ctx).(func() int)
	return C.int(fn())
}

// panicInWorker panics when invoked on a worker lcore thread.
// An invalid current lcore is allowed because the Go runtime may have
// scheduled the goroutine onto a non-lcore thread.
func panicInWorker(funcName string) {
	if lc := CurrentLCore(); lc.Valid() && lc != MainLCore {
		logger.Panic(funcName+" is unavailable in worker lcore",
			lc.ZapField("lc"),
			MainLCore.ZapField("main"),
		)
	}
}

// LCores is a list of LCores.
type LCores []LCore

// MarshalLogArray implements zapcore.ArrayMarshaler interface.
func (lcores LCores) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, lc := range lcores {
		enc.AppendInt(lc.ID())
	}
	return nil
}

// ByNumaSocket classifies lcores by NUMA socket.
func (lcores LCores) ByNumaSocket() (m map[NumaSocket]LCores) {
	m = map[NumaSocket]LCores{}
	for _, lc := range lcores {
		socket := lc.NumaSocket()
		m[socket] = append(m[socket], lc)
	}
	return m
}
