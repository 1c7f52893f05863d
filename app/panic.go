package app

import (
	"fmt"
	"image/color"
	"log/slog"
	"strings"
	"unicode/utf8"

	"strata/gfx"
	"strata/hal"
	"strata/kernel"
	"strata/vga"

	"tinygo.org/x/tinyfont"
)

const (
	panicBG = vga.Blue
	panicFG = vga.White
)

func installPanicHandler(h hal.HAL, log *slog.Logger) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		log.Error("kernel panic", "where", info.Where, "panic", info.Value)
		if l := h.Logger(); l != nil && len(info.Stack) > 0 {
			for _, line := range strings.Split(string(info.Stack), "\n") {
				if line == "" {
					continue
				}
				l.WriteLineString(line)
			}
		}

		disp := h.Display()
		if disp == nil {
			return
		}
		if fb := disp.Framebuffer(); fb != nil {
			drawPanicScreen(fb, info)
		}
	})
}

// drawPanicScreen replaces the composed screen with the panic report.
func drawPanicScreen(fb hal.Framebuffer, info kernel.PanicInfo) {
	fb.Clear(panicBG)

	font := gfx.Font
	_, outboxWidth := tinyfont.LineWidth(font, "0")
	fontWidth := int16(outboxWidth)
	fontHeight, fontOffset := int16(gfx.FontHeight), int16(gfx.FontAscent)
	if fontWidth <= 0 {
		_ = fb.Present()
		return
	}

	lines := []string{
		"*** STRATA PANIC ***",
		fmt.Sprintf("in: %s", info.Where),
		fmt.Sprintf("panic: %v", info.Value),
	}
	if len(info.Stack) > 0 {
		lines = append(lines, "stack:")
		for _, line := range strings.Split(string(info.Stack), "\n") {
			if line == "" {
				continue
			}
			lines = append(lines, strings.ReplaceAll(line, "\t", "  "))
		}
	} else {
		lines = append(lines, "stack: unavailable")
	}

	d := panicDisplay{fb: fb}
	fg := panicFG.RGBA()
	maxW, maxH := fb.Width(), fb.Height()
	cols := int16(maxW) / fontWidth
	if cols <= 0 {
		cols = 1
	}

	y := int16(2)
	for _, line := range lines {
		for len(line) > 0 {
			if int(y+fontHeight) > maxH {
				_ = fb.Present()
				return
			}
			chunk, rest := takeRunes(line, cols)
			drawTextLine(d, font, fontWidth, fontOffset, 0, y, chunk, fg)
			y += fontHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = fb.Present()
}

func drawTextLine(
	d panicDisplay,
	font tinyfont.Fonter,
	fontWidth, fontOffset int16,
	x0, y0 int16,
	s string,
	fg color.RGBA,
) {
	x := x0
	for _, r := range s {
		tinyfont.DrawChar(d, font, x, y0+fontOffset, r, fg)
		x += fontWidth
	}
}

// panicDisplay lets tinyfont draw straight onto the framebuffer,
// bypassing the compositor.
type panicDisplay struct {
	fb hal.Framebuffer
}

func (d panicDisplay) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d panicDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.fb.SetPixel(int(x), int(y), vga.Nearest(c))
}

func (d panicDisplay) Display() error { return nil }

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if utf8.RuneCountInString(s) <= int(n) {
		return s, ""
	}
	var i int
	for count := int16(0); i < len(s) && count < n; count++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return s[:i], s[i:]
}
