//go:build tinygo

package hal

import (
	"machine"
	"time"

	"tinygo.org/x/drivers"
)

type tinyGoHAL struct {
	logger *serialLogger
	fb     *DisplayerFramebuffer
	in     tinyGoInput
	t      *tinyGoTime
}

// New returns a HAL that composes onto d and logs to the default serial
// port. Boards without input hardware get silent keyboard and pointer.
func New(d drivers.Displayer) HAL {
	return &tinyGoHAL{
		logger: &serialLogger{},
		fb:     NewDisplayerFramebuffer(d),
		in: tinyGoInput{
			kbd: nullKeyboard{},
			ptr: nullPointer{},
		},
		t: newTinyGoTime(),
	}
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) Display() Display { return tinyGoDisplay{fb: h.fb} }
func (h *tinyGoHAL) Input() Input     { return h.in }
func (h *tinyGoHAL) Time() Time       { return h.t }

type tinyGoDisplay struct {
	fb Framebuffer
}

func (d tinyGoDisplay) Framebuffer() Framebuffer { return d.fb }

type tinyGoInput struct {
	kbd Keyboard
	ptr Pointer
}

func (in tinyGoInput) Keyboard() Keyboard { return in.kbd }
func (in tinyGoInput) Pointer() Pointer   { return in.ptr }

type nullKeyboard struct{}

func (nullKeyboard) Events() <-chan KeyEvent { return nil }

type nullPointer struct{}

func (nullPointer) Events() <-chan PointerEvent { return nil }

type tinyGoTime struct {
	ch  chan uint64
	seq uint64
}

func newTinyGoTime() *tinyGoTime {
	t := &tinyGoTime{ch: make(chan uint64, 16)}
	go func() {
		ticker := time.NewTicker(time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			t.seq++
			select {
			case t.ch <- t.seq:
			default:
			}
		}
	}()
	return t
}

func (t *tinyGoTime) Ticks() <-chan uint64 { return t.ch }

type serialLogger struct{}

func (l *serialLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		machine.Serial.WriteByte(s[i])
	}
	machine.Serial.WriteByte('\r')
	machine.Serial.WriteByte('\n')
}

func (l *serialLogger) WriteLineBytes(b []byte) {
	machine.Serial.Write(b)
	machine.Serial.WriteByte('\r')
	machine.Serial.WriteByte('\n')
}
