// Package desktop is the UI service: it owns the background, the counter
// window and the mouse cursor, and it is the only code that mutates the
// compositor. Interrupt-context producers reach it through the
// kernel.EPDesktop mailbox.
package desktop

import (
	"fmt"
	"image"
	"log/slog"
	"strconv"

	"strata/compositor"
	"strata/gfx"
	"strata/hal"
	"strata/kernel"
	"strata/proto"
	"strata/vga"
)

const (
	WindowWidth  = 160
	WindowHeight = 52

	timerCounter uint8 = 1

	// keyStep is how far an arrow key moves the cursor.
	keyStep = 8

	// maxMessagesPerStep bounds the work done by one Step.
	maxMessagesPerStep = 256
)

// counterBox is where the counter text lives inside the window.
var counterBox = image.Rect(24, 28, 116, 44)

// Config controls the desktop service.
type Config struct {
	// Caption is the counter window's title.
	Caption string
	// CounterPeriod is the number of ticks between counter updates.
	// Zero disables the counter timer.
	CounterPeriod uint64
	// WindowX and WindowY place the counter window.
	WindowX, WindowY int
}

// DefaultConfig returns the boot configuration.
func DefaultConfig() Config {
	return Config{
		Caption:       "counter",
		CounterPeriod: 1000,
		WindowX:       80,
		WindowY:       72,
	}
}

// Desktop owns the layers that make up the screen.
type Desktop struct {
	log  *slog.Logger
	sys  *kernel.System
	fb   hal.Framebuffer
	comp *compositor.Compositor
	cfg  Config

	bg, win, cursor       compositor.LayerID
	bgCv, winCv, cursorCv *gfx.Canvas

	timer    kernel.TimerID
	hasTimer bool
	counter  uint64

	buttons  hal.Buttons
	dragging bool
	dirty    bool
}

// New sets the display mode and builds the boot screen: background at z 0,
// the counter window at z 1 and the cursor on top, centred above the taskbar.
func New(fb hal.Framebuffer, sys *kernel.System, log *slog.Logger, cfg Config) (*Desktop, error) {
	if fb == nil {
		return nil, fmt.Errorf("desktop: no framebuffer")
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.Caption == "" {
		cfg.Caption = DefaultConfig().Caption
	}
	if err := fb.SetMode(); err != nil {
		return nil, fmt.Errorf("desktop: set mode: %w", err)
	}

	w, h := fb.Width(), fb.Height()
	d := &Desktop{
		log: log,
		sys: sys,
		fb:  fb,
		cfg: cfg,
		comp: compositor.New(w, h, fb,
			compositor.WithLogger(log.With("component", "compositor")),
			compositor.WithBackdrop(vga.Black),
		),
	}

	var err error
	if d.bg, err = d.comp.Alloc(); err != nil {
		return nil, fmt.Errorf("desktop: background layer: %w", err)
	}
	if d.win, err = d.comp.Alloc(); err != nil {
		return nil, fmt.Errorf("desktop: window layer: %w", err)
	}
	if d.cursor, err = d.comp.Alloc(); err != nil {
		return nil, fmt.Errorf("desktop: cursor layer: %w", err)
	}

	d.bgCv = gfx.NewCanvas(w, h, vga.Black)
	gfx.DrawDesktop(d.bgCv)
	d.comp.SetBuf(d.bg, d.bgCv.Pix, w, h, compositor.NoKey)

	d.winCv = gfx.NewCanvas(WindowWidth, WindowHeight, vga.LightGrey)
	gfx.DrawWindow(d.winCv, cfg.Caption)
	d.drawCounter()
	d.comp.SetBuf(d.win, d.winCv.Pix, WindowWidth, WindowHeight, compositor.NoKey)

	d.cursorCv = gfx.NewCanvas(gfx.CursorWidth, gfx.CursorHeight, vga.Cyan)
	gfx.DrawCursor(d.cursorCv, vga.Cyan)
	d.comp.SetBuf(d.cursor, d.cursorCv.Pix, gfx.CursorWidth, gfx.CursorHeight, compositor.Key(vga.Cyan))

	d.comp.Slide(d.win, cfg.WindowX, cfg.WindowY)
	d.comp.Slide(d.cursor, (w-gfx.CursorWidth)/2, (h-gfx.TaskbarHeight-gfx.CursorHeight)/2)
	d.comp.UpDown(d.bg, 0)
	d.comp.UpDown(d.win, 1)
	d.comp.UpDown(d.cursor, 2)

	if cfg.CounterPeriod > 0 {
		if err := d.armCounter(); err != nil {
			return nil, err
		}
	}

	d.dirty = true
	log.Info("desktop ready", "width", w, "height", h, "layers", len(d.comp.Order()))
	return d, nil
}

func (d *Desktop) armCounter() error {
	var err error
	d.sys.WithoutInterrupts(func(tc *kernel.TimerCtl) {
		if !d.hasTimer {
			d.timer, err = tc.Alloc()
			if err != nil {
				return
			}
			d.hasTimer = true
			tc.Init(d.timer, kernel.EPDesktop, timerCounter)
		}
		tc.Set(d.timer, d.cfg.CounterPeriod)
	})
	if err != nil {
		return fmt.Errorf("desktop: counter timer: %w", err)
	}
	return nil
}

// Compositor exposes the compositor for inspection.
func (d *Desktop) Compositor() *compositor.Compositor { return d.comp }

// Background, Window and Cursor return the desktop's layer ids.
func (d *Desktop) Background() compositor.LayerID { return d.bg }
func (d *Desktop) Window() compositor.LayerID     { return d.win }
func (d *Desktop) Cursor() compositor.LayerID     { return d.cursor }

// Counter returns the number of counter ticks shown in the window.
func (d *Desktop) Counter() uint64 { return d.counter }

// Step handles pending messages and presents the framebuffer if anything
// was drawn.
func (d *Desktop) Step() error {
	for i := 0; i < maxMessagesPerStep; i++ {
		msg, ok := d.sys.TryRecv(kernel.EPDesktop)
		if !ok {
			break
		}
		d.handle(msg)
	}
	if !d.dirty {
		return nil
	}
	d.dirty = false
	return d.fb.Present()
}

func (d *Desktop) handle(msg kernel.Message) {
	switch msg.Kind {
	case kernel.MsgPointer:
		dx, dy, b, ok := proto.DecodePointerPayload(msg.Payload())
		if !ok {
			d.log.Warn("bad pointer payload", "len", msg.Len)
			return
		}
		d.pointer(dx, dy, hal.Buttons(b))
	case kernel.MsgKey:
		code, press, r, ok := proto.DecodeKeyPayload(msg.Payload())
		if !ok {
			d.log.Warn("bad key payload", "len", msg.Len)
			return
		}
		d.key(hal.KeyCode(code), press, r)
	case kernel.MsgTimer:
		data, ok := proto.DecodeTimerPayload(msg.Payload())
		if !ok || data != timerCounter {
			d.log.Warn("unknown timer", "data", data)
			return
		}
		d.tick()
	default:
		d.log.Debug("ignored message", "kind", msg.Kind, "from", msg.From)
	}
}

// hotspot returns the screen position the cursor points at.
func (d *Desktop) hotspot() image.Point {
	info := d.comp.Layer(d.cursor)
	return image.Pt(info.X, info.Y)
}

func (d *Desktop) pointer(dx, dy int, buttons hal.Buttons) {
	before := d.hotspot()
	d.comp.SlideByDiff(d.cursor, dx, dy, gfx.CursorWidth, gfx.CursorHeight)
	after := d.hotspot()
	moved := after.Sub(before)
	if moved != (image.Point{}) {
		d.dirty = true
	}

	pressed := buttons&hal.ButtonLeft != 0 && d.buttons&hal.ButtonLeft == 0
	released := buttons&hal.ButtonLeft == 0
	d.buttons = buttons

	switch {
	case pressed:
		d.click(after)
	case released:
		d.dragging = false
	case d.dragging && moved != (image.Point{}):
		d.comp.SlideByDiff(d.win, moved.X, moved.Y, WindowWidth, WindowHeight)
		d.dirty = true
	}
}

func (d *Desktop) click(p image.Point) {
	info := d.comp.Layer(d.win)
	if !info.Displayed() || !p.In(info.Rect()) {
		return
	}
	local := p.Sub(info.Rect().Min)
	switch {
	case local.In(gfx.CloseBox(WindowWidth)):
		d.setWindowVisible(false)
	case local.In(gfx.TitleBar(WindowWidth)):
		d.dragging = true
	}
}

func (d *Desktop) setWindowVisible(show bool) {
	if d.comp.Layer(d.win).Displayed() == show {
		return
	}
	if show {
		// Insert just below the cursor, which moves up by one.
		d.comp.UpDown(d.win, d.comp.Layer(d.cursor).Z)
	} else {
		d.comp.UpDown(d.win, compositor.Hidden)
		d.dragging = false
	}
	d.dirty = true
	d.log.Debug("window visibility", "shown", show)
}

func (d *Desktop) key(code hal.KeyCode, press bool, r rune) {
	if !press {
		return
	}
	switch code {
	case hal.KeyUp:
		d.pointer(0, -keyStep, d.buttons)
	case hal.KeyDown:
		d.pointer(0, keyStep, d.buttons)
	case hal.KeyLeft:
		d.pointer(-keyStep, 0, d.buttons)
	case hal.KeyRight:
		d.pointer(keyStep, 0, d.buttons)
	case hal.KeyF1:
		d.setWindowVisible(!d.comp.Layer(d.win).Displayed())
	case hal.KeyF2:
		d.comp.Redraw()
		d.dirty = true
	case hal.KeyF3:
		d.counter = 0
		d.redrawCounter()
	case hal.KeyEscape:
		d.setWindowVisible(false)
	default:
		if r != 0 {
			d.log.Debug("key", "rune", string(r))
		} else {
			d.log.Debug("key", "code", code)
		}
	}
}

func (d *Desktop) tick() {
	d.counter++
	d.redrawCounter()
	if err := d.armCounter(); err != nil {
		d.log.Error("re-arm counter", "err", err)
	}
}

func (d *Desktop) drawCounter() image.Rectangle {
	return gfx.TextBox(d.winCv,
		counterBox.Min.X, counterBox.Min.Y, counterBox.Max.X-1, counterBox.Max.Y-1,
		strconv.FormatUint(d.counter, 10), vga.Black, vga.White)
}

func (d *Desktop) redrawCounter() {
	damage := d.drawCounter()
	d.comp.Refresh(d.win, damage)
	d.dirty = true
}

// Close releases the desktop's timer and layers. The screen is left as
// drawn background only.
func (d *Desktop) Close() {
	if d.hasTimer {
		d.sys.WithoutInterrupts(func(tc *kernel.TimerCtl) {
			tc.Free(d.timer)
		})
		d.hasTimer = false
	}
	d.comp.Free(d.cursor)
	d.comp.Free(d.win)
	d.dirty = true
}
