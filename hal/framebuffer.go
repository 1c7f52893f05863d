package hal

import (
	"sync"
	"sync/atomic"

	"strata/vga"
)

// MemFramebuffer is a palette framebuffer in ordinary memory. Host backends
// present it by converting a snapshot through the palette.
//
// SetPixel is not synchronized with Snapshot: compose and present from the
// same goroutine.
type MemFramebuffer struct {
	mu       sync.Mutex
	width    int
	height   int
	pix      []vga.Color
	presents atomic.Uint64
}

// NewMemFramebuffer allocates a black width x height framebuffer.
func NewMemFramebuffer(width, height int) *MemFramebuffer {
	return &MemFramebuffer{
		width:  width,
		height: height,
		pix:    make([]vga.Color, width*height),
	}
}

func (f *MemFramebuffer) Width() int          { return f.width }
func (f *MemFramebuffer) Height() int         { return f.height }
func (f *MemFramebuffer) Format() PixelFormat { return PixelFormatPalette16 }

func (f *MemFramebuffer) SetMode() error {
	f.Clear(vga.Black)
	return nil
}

func (f *MemFramebuffer) SetPixel(x, y int, c vga.Color) {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return
	}
	f.pix[y*f.width+x] = c
}

func (f *MemFramebuffer) Pixel(x, y int) vga.Color {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return vga.Black
	}
	return f.pix[y*f.width+x]
}

func (f *MemFramebuffer) Clear(c vga.Color) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.pix {
		f.pix[i] = c
	}
}

func (f *MemFramebuffer) Present() error {
	f.presents.Add(1)
	return nil
}

// Presents returns how many times Present was called.
func (f *MemFramebuffer) Presents() uint64 { return f.presents.Load() }

// Snapshot copies the framebuffer into dst.
func (f *MemFramebuffer) Snapshot(dst []vga.Color) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.pix)
}
