package compositor

import (
	"image"

	"strata/vga"
)

// MaxLayers is the number of layer slots.
const MaxLayers = 256

// Hidden is the stacking index of a layer that is allocated but not displayed.
const Hidden = -1

// LayerID identifies a layer slot. It is stable only while the slot is allocated.
type LayerID uint8

// ColorKey is an optional transparent color.
type ColorKey struct {
	c  vga.Color
	ok bool
}

// NoKey makes every pixel of a layer opaque.
var NoKey ColorKey

// Key returns a color key that makes pixels equal to c transparent.
func Key(c vga.Color) ColorKey { return ColorKey{c: c, ok: true} }

// Color returns the keyed color and whether a key is set.
func (k ColorKey) Color() (vga.Color, bool) { return k.c, k.ok }

// Matches reports whether c is transparent under k.
func (k ColorKey) Matches(c vga.Color) bool { return k.ok && k.c == c }

// Layer is one rectangular pixel surface.
type Layer struct {
	buf    []vga.Color
	x, y   int
	w, h   int
	active bool
	z      int
	key    ColorKey
}

func (l *Layer) rect() image.Rectangle {
	return image.Rect(l.x, l.y, l.x+l.w, l.y+l.h)
}

// Info is a snapshot of a layer's state.
type Info struct {
	ID     LayerID
	Active bool
	X, Y   int
	Width  int
	Height int
	Z      int
	Key    ColorKey
}

// Displayed reports whether the layer is on the stack.
func (i Info) Displayed() bool { return i.Active && i.Z != Hidden }

// Rect returns the layer footprint in screen coordinates.
func (i Info) Rect() image.Rectangle {
	return image.Rect(i.X, i.Y, i.X+i.Width, i.Y+i.Height)
}
