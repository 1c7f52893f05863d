package kernel

import (
	"sync/atomic"
)

// System is the kernel state shared between interrupt-context producers and
// the main loop: endpoint mailboxes, the tick counter and the timer queue.
type System struct {
	mbox    [numEndpoints]Mailbox
	ticks   atomic.Uint64
	dropped atomic.Uint64

	// irq masks the tick handler while the main loop touches timers.
	irq    SpinLock
	timers *TimerCtl
}

// NewSystem creates a kernel instance.
func NewSystem() *System {
	return &System{timers: NewTimerCtl()}
}

// TickTo is the tick handler: it records the tick and fires expired timers.
func (s *System) TickTo(seq uint64) {
	if seq <= s.ticks.Load() {
		return
	}
	s.ticks.Store(seq)

	s.irq.Lock()
	s.timers.Advance(seq, func(ep Endpoint, data uint8) {
		s.Post(EPKernel, ep, MsgTimer, []byte{data})
	})
	s.irq.Unlock()
}

// Ticks returns the current tick count (1ms per tick).
func (s *System) Ticks() uint64 {
	return s.ticks.Load()
}

// WithoutInterrupts runs fn with the tick handler masked.
func (s *System) WithoutInterrupts(fn func(tc *TimerCtl)) {
	s.irq.Lock()
	defer s.irq.Unlock()
	fn(s.timers)
}

// Post copies the payload into a fixed-size message and enqueues it without
// blocking. It is safe to call from interrupt context. Messages that do not
// fit are dropped and counted.
func (s *System) Post(from, to Endpoint, kind uint8, payload []byte) bool {
	if to >= numEndpoints {
		return false
	}
	var msg Message
	msg.From = from
	msg.To = to
	msg.Kind = kind
	if len(payload) > 0 {
		if len(payload) > MaxMessageBytes {
			payload = payload[:MaxMessageBytes]
		}
		msg.Len = uint8(len(payload))
		copy(msg.Data[:], payload)
	}
	if !s.mbox[to].TrySend(msg) {
		s.dropped.Add(1)
		return false
	}
	return true
}

// TryRecv dequeues one message for the endpoint without blocking.
func (s *System) TryRecv(to Endpoint) (Message, bool) {
	if to >= numEndpoints {
		return Message{}, false
	}
	return s.mbox[to].TryRecv()
}

// Recv blocks until a message is available for the endpoint.
func (s *System) Recv(to Endpoint) Message {
	return s.mbox[to].Recv()
}

// Dropped returns the number of messages lost to full mailboxes.
func (s *System) Dropped() uint64 {
	return s.dropped.Load()
}
