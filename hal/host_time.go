//go:build !tinygo

package hal

import "time"

// TickDuration is the length of one host tick.
const TickDuration = time.Millisecond

// hostTime turns wall-clock progress, sampled by the backend loop, into a
// sequence of tick numbers. Ticks that do not fit the channel are dropped;
// consumers only care about the latest sequence number.
type hostTime struct {
	ch  chan uint64
	seq uint64

	last time.Time
	acc  time.Duration
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024)}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// step emits the ticks elapsed since the previous call. The first call
// emits min ticks to start the clock.
func (t *hostTime) step(min uint64) {
	now := time.Now()
	if t.last.IsZero() {
		t.last = now
		t.emit(min)
		return
	}

	t.acc += now.Sub(t.last)
	t.last = now

	n := uint64(t.acc / TickDuration)
	t.acc %= TickDuration
	if n < min {
		n = min
	}
	t.emit(n)
}

func (t *hostTime) emit(n uint64) {
	for ; n > 0; n-- {
		t.seq++
		select {
		case t.ch <- t.seq:
		default:
		}
	}
}
