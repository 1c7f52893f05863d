package hal

import (
	"fmt"
	"image"
	"io"
	"os"

	"strata/vga"

	"golang.org/x/image/bmp"
)

// Image converts the framebuffer into a paletted image.
func Image(fb Framebuffer) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, fb.Width(), fb.Height()), vga.StdPalette())
	for y := 0; y < fb.Height(); y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < fb.Width(); x++ {
			row[x] = uint8(fb.Pixel(x, y))
		}
	}
	return img
}

// WriteBMP encodes the framebuffer as an 8-bit BMP.
func WriteBMP(w io.Writer, fb Framebuffer) error {
	return bmp.Encode(w, Image(fb))
}

// SaveBMP writes the framebuffer to path.
func SaveBMP(path string, fb Framebuffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := WriteBMP(f, fb); err != nil {
		f.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return f.Close()
}
