// Package vga defines the 16-color palette used by every pixel buffer in the
// system and the dimensions of the 640x480 graphics mode.
package vga

import "image/color"

const (
	ScreenWidth  = 640
	ScreenHeight = 480
)

// Color is an index into the 16-color VGA palette.
type Color uint8

const (
	Black Color = iota
	Blue
	Green
	Cyan
	Red
	Magenta
	Brown
	LightGrey
	DarkGrey
	LightBlue
	LightGreen
	LightCyan
	LightRed
	Pink
	Yellow
	White
)

// NumColors is the palette size.
const NumColors = 16

// Palette holds the default DAC values of mode 12h.
var Palette = [NumColors]color.RGBA{
	Black:      {0x00, 0x00, 0x00, 0xFF},
	Blue:       {0x00, 0x00, 0xAA, 0xFF},
	Green:      {0x00, 0xAA, 0x00, 0xFF},
	Cyan:       {0x00, 0xAA, 0xAA, 0xFF},
	Red:        {0xAA, 0x00, 0x00, 0xFF},
	Magenta:    {0xAA, 0x00, 0xAA, 0xFF},
	Brown:      {0xAA, 0x55, 0x00, 0xFF},
	LightGrey:  {0xAA, 0xAA, 0xAA, 0xFF},
	DarkGrey:   {0x55, 0x55, 0x55, 0xFF},
	LightBlue:  {0x55, 0x55, 0xFF, 0xFF},
	LightGreen: {0x55, 0xFF, 0x55, 0xFF},
	LightCyan:  {0x55, 0xFF, 0xFF, 0xFF},
	LightRed:   {0xFF, 0x55, 0x55, 0xFF},
	Pink:       {0xFF, 0x55, 0xFF, 0xFF},
	Yellow:     {0xFF, 0xFF, 0x55, 0xFF},
	White:      {0xFF, 0xFF, 0xFF, 0xFF},
}

var names = [NumColors]string{
	"black", "blue", "green", "cyan", "red", "magenta", "brown", "lightgrey",
	"darkgrey", "lightblue", "lightgreen", "lightcyan", "lightred", "pink", "yellow", "white",
}

func (c Color) String() string {
	if int(c) < NumColors {
		return names[c]
	}
	return "invalid"
}

// RGBA returns the palette entry for c. Out-of-range indices map to black.
func (c Color) RGBA() color.RGBA {
	if int(c) >= NumColors {
		return Palette[Black]
	}
	return Palette[c]
}

// Nearest returns the palette color closest to c in RGB space.
func Nearest(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	r8, g8, b8 := int(r>>8), int(g>>8), int(b>>8)

	best := Black
	bestDist := -1
	for i, p := range Palette {
		dr := r8 - int(p.R)
		dg := g8 - int(p.G)
		db := b8 - int(p.B)
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best = Color(i)
			bestDist = d
		}
	}
	return best
}

// ColorModel converts arbitrary colors to palette colors.
var ColorModel = color.ModelFunc(func(c color.Color) color.Color {
	return Nearest(c).RGBA()
})

// StdPalette returns the palette as a color.Palette for indexed images.
func StdPalette() color.Palette {
	p := make(color.Palette, NumColors)
	for i := range Palette {
		p[i] = Palette[i]
	}
	return p
}
