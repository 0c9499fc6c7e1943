// Package spinlock contains bindings of DPDK spinlock.
// These are busy-wait locks for lock words embedded in structures shared with
// C code; pure Go code should prefer sync.Mutex.
package spinlock

/*
#include "../../csrc/core/common.h"
#include <rte_spinlock.h>
*/
import "C"
import (
	"unsafe"

	"github.com/flier/go-dpdk/dpdk/eal"
)

// Lock is a non-recursive spinlock.
// The zero value is an unlocked lock. *Lock implements sync.Locker.
type Lock C.rte_spinlock_t

// New allocates an initialized Lock in DPDK memory on socket.
// The caller must release it with eal.Free.
func New(socket eal.NumaSocket) *Lock {
	sl := eal.Zmalloc[Lock]("spinlock.Lock", C.sizeof_rte_spinlock_t, socket)
	sl.Init()
	return sl
}

// FromPtr converts *C.rte_spinlock_t pointer to Lock.
func FromPtr(ptr unsafe.Pointer) *Lock {
	return (*Lock)(ptr)
}

// Ptr returns *C.rte_spinlock_t pointer.
func (sl *Lock) Ptr() unsafe.Pointer {
	return unsafe.Pointer(sl)
}

func (sl *Lock) ptr() *C.rte_spinlock_t {
	return (*C.rte_spinlock_t)(sl)
}

// Init resets the lock to unlocked state.
func (sl *Lock) Init() {
	C.rte_spinlock_init(sl.ptr())
}

// Lock busy-waits until the lock is acquired.
func (sl *Lock) Lock() {
	C.rte_spinlock_lock(sl.ptr())
}

// Unlock releases the lock.
func (sl *Lock) Unlock() {
	C.rte_spinlock_unlock(sl.ptr())
}

// TryLock acquires the lock if it is not held, and reports whether it succeeded.
func (sl *Lock) TryLock() bool {
	return C.rte_spinlock_trylock(sl.ptr()) != 0
}

// IsLocked reports whether the lock is currently held by any thread.
func (sl *Lock) IsLocked() bool {
	return C.rte_spinlock_is_locked(sl.ptr()) != 0
}

// RecursiveLock is a recursive spinlock, reentrant on the owning OS thread.
// It must be initialized with Init before use; the zero value is not valid.
// Ownership is tracked by thread ID, so a goroutine must stay on one OS
// thread (runtime.LockOSThread) between acquiring and releasing the lock.
type RecursiveLock C.rte_spinlock_recursive_t

// NewRecursive allocates an initialized RecursiveLock in DPDK memory on socket.
// The caller must release it with eal.Free.
func NewRecursive(socket eal.NumaSocket) *RecursiveLock {
	slr := eal.Zmalloc[RecursiveLock]("spinlock.RecursiveLock", C.sizeof_rte_spinlock_recursive_t, socket)
	slr.Init()
	return slr
}

// RecursiveFromPtr converts *C.rte_spinlock_recursive_t pointer to RecursiveLock.
func RecursiveFromPtr(ptr unsafe.Pointer) *RecursiveLock {
	return (*RecursiveLock)(ptr)
}

// Ptr returns *C.rte_spinlock_recursive_t pointer.
func (slr *RecursiveLock) Ptr() unsafe.Pointer {
	return unsafe.Pointer(slr)
}

func (slr *RecursiveLock) ptr() *C.rte_spinlock_recursive_t {
	return (*C.rte_spinlock_recursive_t)(slr)
}

// Init resets the lock to unlocked state.
func (slr *RecursiveLock) Init() {
	C.rte_spinlock_recursive_init(slr.ptr())
}

// Lock busy-waits until the lock is acquired.
// The owning thread may acquire the lock again without blocking.
func (slr *RecursiveLock) Lock() {
	C.rte_spinlock_recursive_lock(slr.ptr())
}

// Unlock decrements the recursion count, releasing the lock at zero.
func (slr *RecursiveLock) Unlock() {
	C.rte_spinlock_recursive_unlock(slr.ptr())
}

// TryLock acquires the lock if it is not held by another thread, and reports
// whether it succeeded.
func (slr *RecursiveLock) TryLock() bool {
	return C.rte_spinlock_recursive_trylock(slr.ptr()) != 0
}

// IsLocked reports whether the lock is currently held by any thread.
func (slr *RecursiveLock) IsLocked() bool {
	return C.rte_spinlock_is_locked(&slr.ptr().sl) != 0
}
