package kernel

import (
	"errors"
	"fmt"
	"math"
)

// MaxTimers is the capacity of a TimerCtl.
const MaxTimers = 500

var ErrNoTimer = errors.New("kernel: no available timer")

// TimerID identifies a timer slot.
type TimerID uint16

type TimerState uint8

const (
	TimerAvailable TimerState = iota
	TimerInUse
	TimerRunning
)

func (s TimerState) String() string {
	switch s {
	case TimerAvailable:
		return "available"
	case TimerInUse:
		return "in use"
	case TimerRunning:
		return "running"
	default:
		return "unknown"
	}
}

type timer struct {
	timeout uint64
	state   TimerState
	ep      Endpoint
	data    uint8
}

const noDeadline = math.MaxUint64

// TimerCtl is a one-shot timer queue. Running timers are kept in an array
// sorted by deadline so a tick only has to look at the front.
//
// TimerCtl does no locking; System serializes access between the tick
// handler and the main loop.
type TimerCtl struct {
	count   uint64
	next    uint64
	running int
	order   [MaxTimers]TimerID
	timers  [MaxTimers]timer
}

// NewTimerCtl returns an empty timer queue.
func NewTimerCtl() *TimerCtl {
	return &TimerCtl{next: noDeadline}
}

func (tc *TimerCtl) mustValid(id TimerID) *timer {
	if int(id) >= MaxTimers {
		panic(fmt.Sprintf("kernel: timer %d out of range", id))
	}
	t := &tc.timers[id]
	if t.state == TimerAvailable {
		panic(fmt.Sprintf("kernel: timer %d is not allocated", id))
	}
	return t
}

// Alloc reserves a free timer.
func (tc *TimerCtl) Alloc() (TimerID, error) {
	for i := range tc.timers {
		if tc.timers[i].state == TimerAvailable {
			tc.timers[i] = timer{state: TimerInUse}
			return TimerID(i), nil
		}
	}
	return 0, ErrNoTimer
}

// Init sets where the timer delivers its data byte on expiry.
func (tc *TimerCtl) Init(id TimerID, ep Endpoint, data uint8) {
	t := tc.mustValid(id)
	t.ep = ep
	t.data = data
}

// Set arms the timer to fire ticks ticks from now. A running timer is re-armed.
// Timers with equal deadlines fire in the order they were set.
func (tc *TimerCtl) Set(id TimerID, ticks uint64) {
	t := tc.mustValid(id)
	if t.state == TimerRunning {
		tc.remove(id)
	}
	t.timeout = tc.count + ticks
	t.state = TimerRunning

	at := tc.running
	for i := 0; i < tc.running; i++ {
		if tc.timers[tc.order[i]].timeout > t.timeout {
			at = i
			break
		}
	}
	copy(tc.order[at+1:tc.running+1], tc.order[at:tc.running])
	tc.order[at] = id
	tc.running++
	tc.next = tc.timers[tc.order[0]].timeout
}

// Cancel stops a running timer. It reports whether the timer was running.
func (tc *TimerCtl) Cancel(id TimerID) bool {
	t := tc.mustValid(id)
	if t.state != TimerRunning {
		return false
	}
	tc.remove(id)
	t.state = TimerInUse
	return true
}

// Free releases the timer, cancelling it first if needed.
func (tc *TimerCtl) Free(id TimerID) {
	tc.Cancel(id)
	tc.timers[id] = timer{}
}

func (tc *TimerCtl) remove(id TimerID) {
	for i := 0; i < tc.running; i++ {
		if tc.order[i] != id {
			continue
		}
		copy(tc.order[i:tc.running-1], tc.order[i+1:tc.running])
		tc.running--
		break
	}
	if tc.running > 0 {
		tc.next = tc.timers[tc.order[0]].timeout
	} else {
		tc.next = noDeadline
	}
}

// Advance moves the clock to now and fires every expired timer in deadline
// order. A fired timer returns to TimerInUse and may be re-armed with Set.
func (tc *TimerCtl) Advance(now uint64, fire func(ep Endpoint, data uint8)) int {
	if now > tc.count {
		tc.count = now
	}
	if tc.next > tc.count {
		return 0
	}

	fired := 0
	for fired < tc.running {
		t := &tc.timers[tc.order[fired]]
		if t.timeout > tc.count {
			break
		}
		t.state = TimerInUse
		if fire != nil {
			fire(t.ep, t.data)
		}
		fired++
	}
	copy(tc.order[:tc.running-fired], tc.order[fired:tc.running])
	tc.running -= fired
	if tc.running > 0 {
		tc.next = tc.timers[tc.order[0]].timeout
	} else {
		tc.next = noDeadline
	}
	return fired
}

// Now returns the last tick passed to Advance.
func (tc *TimerCtl) Now() uint64 { return tc.count }

// Running returns the number of armed timers.
func (tc *TimerCtl) Running() int { return tc.running }

// State reports the state of a timer slot.
func (tc *TimerCtl) State(id TimerID) TimerState {
	if int(id) >= MaxTimers {
		return TimerAvailable
	}
	return tc.timers[id].state
}
