package hal

import (
	"strata/vga"

	"tinygo.org/x/drivers"
)

// DisplayerFramebuffer drives any TinyGo display driver as a palette
// framebuffer. A shadow copy answers Pixel and suppresses redundant writes,
// which matter on SPI displays.
type DisplayerFramebuffer struct {
	d      drivers.Displayer
	width  int
	height int
	shadow []vga.Color
	valid  bool
}

// NewDisplayerFramebuffer wraps d. The display size is read once.
func NewDisplayerFramebuffer(d drivers.Displayer) *DisplayerFramebuffer {
	w, h := d.Size()
	return &DisplayerFramebuffer{
		d:      d,
		width:  int(w),
		height: int(h),
		shadow: make([]vga.Color, int(w)*int(h)),
	}
}

func (f *DisplayerFramebuffer) Width() int          { return f.width }
func (f *DisplayerFramebuffer) Height() int         { return f.height }
func (f *DisplayerFramebuffer) Format() PixelFormat { return PixelFormatPalette16 }

func (f *DisplayerFramebuffer) SetMode() error {
	f.valid = false
	f.Clear(vga.Black)
	return f.d.Display()
}

func (f *DisplayerFramebuffer) SetPixel(x, y int, c vga.Color) {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return
	}
	i := y*f.width + x
	if f.valid && f.shadow[i] == c {
		return
	}
	f.shadow[i] = c
	f.d.SetPixel(int16(x), int16(y), c.RGBA())
}

func (f *DisplayerFramebuffer) Pixel(x, y int) vga.Color {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return vga.Black
	}
	return f.shadow[y*f.width+x]
}

func (f *DisplayerFramebuffer) Clear(c vga.Color) {
	rgba := c.RGBA()
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			f.shadow[y*f.width+x] = c
			f.d.SetPixel(int16(x), int16(y), rgba)
		}
	}
	f.valid = true
}

func (f *DisplayerFramebuffer) Present() error {
	return f.d.Display()
}
