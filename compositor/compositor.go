package compositor

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"

	"strata/kernel"
	"strata/vga"
)

var (
	ErrNoFreeLayer   = errors.New("compositor: no free layer slot")
	ErrInactiveLayer = errors.New("compositor: layer is not allocated")
	ErrLayerRange    = errors.New("compositor: stacking index out of range")
	ErrBadBuffer     = errors.New("compositor: buffer does not match geometry")
)

// noOwner marks a pixel no displayed layer covers opaquely.
const noOwner = 0xFFFF

// Sink receives composed pixels. hal.Framebuffer implements it.
type Sink interface {
	SetPixel(x, y int, c vga.Color)
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compositor) {
		if l != nil {
			c.log = l
		}
	}
}

// WithBackdrop sets the color painted where no layer is visible.
func WithBackdrop(col vga.Color) Option {
	return func(c *Compositor) { c.backdrop = col }
}

// Compositor owns the layer table, the stacking order and the ownership map.
type Compositor struct {
	mu kernel.SpinLock

	screen   image.Rectangle
	sink     Sink
	log      *slog.Logger
	backdrop vga.Color

	zMax   int
	order  [MaxLayers]LayerID
	layers [MaxLayers]Layer
	owners []uint16
}

// New creates a compositor for a width x height screen drawing into sink.
func New(width, height int, sink Sink, opts ...Option) *Compositor {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("compositor: invalid screen %dx%d", width, height))
	}
	if sink == nil {
		panic("compositor: nil sink")
	}
	c := &Compositor{
		screen:   image.Rect(0, 0, width, height),
		sink:     sink,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		backdrop: vga.Black,
		zMax:     Hidden,
		owners:   make([]uint16, width*height),
	}
	for i := range c.owners {
		c.owners[i] = noOwner
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Compositor) mustActive(id LayerID) *Layer {
	l := &c.layers[id]
	if !l.active {
		panic(fmt.Errorf("%w: %d", ErrInactiveLayer, id))
	}
	return l
}

// Screen returns the screen rectangle.
func (c *Compositor) Screen() image.Rectangle { return c.screen }

// ZMax returns the highest occupied stacking index, or Hidden if the stack is empty.
func (c *Compositor) ZMax() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zMax
}

// Order returns the displayed layers from bottom to top.
func (c *Compositor) Order() []LayerID {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]LayerID, c.zMax+1)
	copy(out, c.order[:c.zMax+1])
	return out
}

// Layer returns a snapshot of the slot id.
func (c *Compositor) Layer(id LayerID) Info {
	c.mu.Lock()
	defer c.mu.Unlock()
	l := &c.layers[id]
	z := l.z
	if !l.active {
		z = Hidden
	}
	return Info{
		ID:     id,
		Active: l.active,
		X:      l.x,
		Y:      l.y,
		Width:  l.w,
		Height: l.h,
		Z:      z,
		Key:    l.key,
	}
}

// Owner reports which layer supplies the visible pixel at (x, y).
// ok is false for background pixels and points off screen.
func (c *Compositor) Owner(x, y int) (id LayerID, ok bool) {
	if !image.Pt(x, y).In(c.screen) {
		return 0, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	o := c.owners[y*c.screen.Dx()+x]
	if o == noOwner {
		return 0, false
	}
	return LayerID(o), true
}
