package kernel

import (
	"runtime"
	"sync/atomic"
)

// MaxMessageBytes is the maximum payload size for IPC messages.
//
// Messages carry input deltas and timer data bytes; anything larger belongs
// in a layer buffer, not a mailbox copy.
const MaxMessageBytes = 16

// Message is a fixed-size message envelope.
type Message struct {
	From Endpoint
	To   Endpoint
	Kind uint8
	Len  uint8
	Data [MaxMessageBytes]byte
}

// Payload returns the valid part of Data.
func (m *Message) Payload() []byte {
	n := int(m.Len)
	if n > MaxMessageBytes {
		n = MaxMessageBytes
	}
	return m.Data[:n]
}

const (
	MsgKey uint8 = iota + 1
	MsgPointer
	MsgTimer
)

const mailboxSlots = 64

type slot struct {
	ready atomic.Bool
	msg   Message
}

// Mailbox is a fixed-size multi-producer, single-consumer queue.
// It is designed for interrupt-context producers: no allocations, no locks,
// busy-wait with Gosched() when blocking.
type Mailbox struct {
	_     [0]func() // prevent accidental copying.
	head  atomic.Uint32
	tail  atomic.Uint32
	slots [mailboxSlots]slot
}

// TrySend attempts to enqueue a message, returning false if the mailbox is full.
func (mb *Mailbox) TrySend(msg Message) bool {
	for {
		head := mb.head.Load()
		tail := mb.tail.Load()
		if head-tail >= mailboxSlots {
			return false
		}

		// Reserve a slot.
		if !mb.head.CompareAndSwap(head, head+1) {
			continue
		}

		s := &mb.slots[head%mailboxSlots]
		s.msg = msg
		s.ready.Store(true)
		return true
	}
}

// Send enqueues a message, blocking until it succeeds.
func (mb *Mailbox) Send(msg Message) {
	for !mb.TrySend(msg) {
		runtime.Gosched()
	}
}

// TryRecv attempts to dequeue one message, returning false if empty.
// A slot that is reserved but not yet written counts as empty.
func (mb *Mailbox) TryRecv() (Message, bool) {
	tail := mb.tail.Load()
	if tail == mb.head.Load() {
		return Message{}, false
	}

	s := &mb.slots[tail%mailboxSlots]
	if !s.ready.Load() {
		return Message{}, false
	}
	msg := s.msg
	s.ready.Store(false)
	mb.tail.Store(tail + 1)
	return msg, true
}

// Recv blocks until one message is available.
func (mb *Mailbox) Recv() Message {
	for {
		msg, ok := mb.TryRecv()
		if ok {
			return msg
		}
		runtime.Gosched()
	}
}

// Len reports the number of queued messages.
func (mb *Mailbox) Len() int {
	return int(mb.head.Load() - mb.tail.Load())
}
