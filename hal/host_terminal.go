//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"io"
	"time"

	"strata/vga"

	"github.com/gdamore/tcell/v2"
)

const terminalFrame = time.Second / 30

// RunTerminal renders the framebuffer into the terminal with half-block
// cells and forwards keys and mouse input. It blocks until ctx is done,
// Ctrl-C is pressed or the app step fails.
func RunTerminal(ctx context.Context, newApp func(HAL) func() error, logOut io.Writer) error {
	if logOut == nil {
		logOut = io.Discard
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	defer screen.Fini()

	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.EnableMouse()
	screen.HideCursor()
	screen.Clear()

	h := newHost(logOut)
	step := newApp(h)

	term := &terminalView{screen: screen, fb: h.fb}
	term.resize()

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(terminalFrame)
	defer ticker.Stop()

	var lastPresent uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				term.resize()
				screen.Sync()
				lastPresent = 0
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyCtrlC {
					return nil
				}
				if kev, ok := terminalKey(ev); ok {
					h.kbd.push(kev)
				}
			case *tcell.EventMouse:
				x, y := term.toPixel(ev.Position())
				h.ptr.moveTo(x, y, terminalButtons(ev.Buttons()))
			}
		case <-ticker.C:
			h.t.step(1)
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			if p := h.fb.Presents(); p != lastPresent {
				lastPresent = p
				term.draw()
				screen.Show()
			}
		}
	}
}

// terminalView maps the framebuffer onto terminal cells. Each cell shows
// two vertically stacked samples using the upper half block.
type terminalView struct {
	screen tcell.Screen
	fb     *MemFramebuffer
	pix    []vga.Color
	cols   int
	rows   int
	sx, sy int
}

func (v *terminalView) resize() {
	v.cols, v.rows = v.screen.Size()
	if v.cols < 1 {
		v.cols = 1
	}
	if v.rows < 1 {
		v.rows = 1
	}
	v.sx = ceilDiv(v.fb.width, v.cols)
	v.sy = ceilDiv(v.fb.height, 2*v.rows)
	if len(v.pix) != len(v.fb.pix) {
		v.pix = make([]vga.Color, len(v.fb.pix))
	}
}

func (v *terminalView) toPixel(col, row int) (int, int) {
	return col*v.sx + v.sx/2, row*2*v.sy + v.sy
}

func (v *terminalView) sample(x, y int) tcell.Color {
	if x >= v.fb.width || y >= v.fb.height {
		return tcell.ColorBlack
	}
	p := v.pix[y*v.fb.width+x].RGBA()
	return tcell.NewRGBColor(int32(p.R), int32(p.G), int32(p.B))
}

func (v *terminalView) draw() {
	v.fb.Snapshot(v.pix)
	for row := 0; row < v.rows; row++ {
		top := 2 * row * v.sy
		bottom := top + v.sy
		for col := 0; col < v.cols; col++ {
			x := col * v.sx
			style := tcell.StyleDefault.
				Foreground(v.sample(x, top)).
				Background(v.sample(x, bottom))
			v.screen.SetContent(col, row, '▀', nil, style)
		}
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

var terminalKeys = map[tcell.Key]KeyCode{
	tcell.KeyUp:         KeyUp,
	tcell.KeyDown:       KeyDown,
	tcell.KeyLeft:       KeyLeft,
	tcell.KeyRight:      KeyRight,
	tcell.KeyEnter:      KeyEnter,
	tcell.KeyEsc:        KeyEscape,
	tcell.KeyBackspace:  KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
	tcell.KeyTab:        KeyTab,
	tcell.KeyDelete:     KeyDelete,
	tcell.KeyHome:       KeyHome,
	tcell.KeyEnd:        KeyEnd,
	tcell.KeyF1:         KeyF1,
	tcell.KeyF2:         KeyF2,
	tcell.KeyF3:         KeyF3,
}

// terminalKey converts a tcell key. Terminals report presses only.
func terminalKey(ev *tcell.EventKey) (KeyEvent, bool) {
	if ev.Key() == tcell.KeyRune {
		return KeyEvent{Press: true, Rune: ev.Rune()}, true
	}
	code, ok := terminalKeys[ev.Key()]
	if !ok {
		return KeyEvent{}, false
	}
	return KeyEvent{Code: code, Press: true}, true
}

func terminalButtons(m tcell.ButtonMask) Buttons {
	var b Buttons
	if m&tcell.Button1 != 0 {
		b |= ButtonLeft
	}
	if m&tcell.Button2 != 0 {
		b |= ButtonRight
	}
	if m&tcell.Button3 != 0 {
		b |= ButtonMiddle
	}
	return b
}
