// Package gfx draws into the palette buffers that back compositor layers.
package gfx

import (
	"image"
	"image/color"

	"strata/vga"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Font is the UI font.
var Font tinyfont.Fonter = &proggy.TinySZ8pt7b

const (
	// FontHeight is the line height of Font in pixels.
	FontHeight = 10
	// FontAscent is the distance from the top of a line to the baseline.
	FontAscent = 8
)

// Canvas is a width x height palette buffer. It implements the tinyfont
// display interface so text can be written straight into a layer.
type Canvas struct {
	Pix []vga.Color
	W   int
	H   int
}

// NewCanvas allocates a canvas filled with c.
func NewCanvas(w, h int, c vga.Color) *Canvas {
	cv := &Canvas{Pix: make([]vga.Color, w*h), W: w, H: h}
	cv.Fill(c)
	return cv
}

func (cv *Canvas) Bounds() image.Rectangle { return image.Rect(0, 0, cv.W, cv.H) }

func (cv *Canvas) Fill(c vga.Color) {
	for i := range cv.Pix {
		cv.Pix[i] = c
	}
}

// At returns the color at (x, y); points outside the canvas read as black.
func (cv *Canvas) At(x, y int) vga.Color {
	if x < 0 || y < 0 || x >= cv.W || y >= cv.H {
		return vga.Black
	}
	return cv.Pix[y*cv.W+x]
}

func (cv *Canvas) Set(x, y int, c vga.Color) {
	if x < 0 || y < 0 || x >= cv.W || y >= cv.H {
		return
	}
	cv.Pix[y*cv.W+x] = c
}

// BoxFill fills the inclusive rectangle (x0, y0)-(x1, y1), clipped to the canvas.
func (cv *Canvas) BoxFill(c vga.Color, x0, y0, x1, y1 int) {
	r := image.Rect(x0, y0, x1+1, y1+1).Intersect(cv.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := cv.Pix[y*cv.W:]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = c
		}
	}
}

func (cv *Canvas) Size() (x, y int16) { return int16(cv.W), int16(cv.H) }

func (cv *Canvas) SetPixel(x, y int16, c color.RGBA) {
	cv.Set(int(x), int(y), vga.Nearest(c))
}

func (cv *Canvas) Display() error { return nil }

// Text writes s with its top-left corner at (x, y) and returns the pixel
// rectangle it may have touched.
func (cv *Canvas) Text(x, y int, s string, c vga.Color) image.Rectangle {
	tinyfont.WriteLine(cv, Font, int16(x), int16(y+FontAscent), s, c.RGBA())
	_, w := tinyfont.LineWidth(Font, s)
	return image.Rect(x, y, x+int(w), y+FontHeight).Intersect(cv.Bounds())
}
