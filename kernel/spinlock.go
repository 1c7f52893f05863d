package kernel

import (
	"runtime"
	"sync/atomic"
)

// SpinLock is a busy-wait mutual exclusion lock. It never parks the caller.
//
// On a single core, a holder that is preempted by a handler which then calls
// Lock spins forever: mask the handler's source (see System.WithoutInterrupts)
// or post a message instead of locking from the handler.
type SpinLock struct {
	_    [0]func()
	held atomic.Bool
}

func (l *SpinLock) Lock() {
	for !l.held.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
}

// TryLock acquires the lock if it is free.
func (l *SpinLock) TryLock() bool {
	return l.held.CompareAndSwap(false, true)
}

func (l *SpinLock) Unlock() {
	if !l.held.Swap(false) {
		panic("kernel: unlock of unlocked SpinLock")
	}
}
