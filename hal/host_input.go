//go:build !tinygo

package hal

type hostKeyboard struct {
	ch chan KeyEvent
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, 64)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

func (k *hostKeyboard) push(ev KeyEvent) {
	select {
	case k.ch <- ev:
	default:
	}
}

type hostPointer struct {
	ch chan PointerEvent

	// Last absolute position and buttons, for backends that report
	// absolute coordinates.
	init    bool
	x, y    int
	buttons Buttons
}

func newHostPointer() *hostPointer {
	return &hostPointer{ch: make(chan PointerEvent, 64)}
}

func (p *hostPointer) Events() <-chan PointerEvent { return p.ch }

// moveTo converts an absolute position into a delta event.
func (p *hostPointer) moveTo(x, y int, buttons Buttons) {
	if !p.init {
		p.init = true
		p.x, p.y, p.buttons = x, y, buttons
		return
	}
	dx, dy := x-p.x, y-p.y
	if dx == 0 && dy == 0 && buttons == p.buttons {
		return
	}
	p.x, p.y, p.buttons = x, y, buttons
	select {
	case p.ch <- PointerEvent{DX: dx, DY: dy, Buttons: buttons}:
	default:
	}
}
