package vga

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNearestRoundTrip(t *testing.T) {
	for i := 0; i < NumColors; i++ {
		c := Color(i)
		assert.Equal(t, c, Nearest(c.RGBA()), "palette entry %s", c)
	}
}

func TestNearestApproximates(t *testing.T) {
	assert.Equal(t, White, Nearest(color.RGBA{0xF0, 0xF0, 0xF0, 0xFF}))
	assert.Equal(t, Black, Nearest(color.RGBA{0x10, 0x08, 0x00, 0xFF}))
	assert.Equal(t, Cyan, Nearest(color.RGBA{0x00, 0xA0, 0xB0, 0xFF}))
}

func TestInvalidColor(t *testing.T) {
	assert.Equal(t, "invalid", Color(42).String())
	assert.Equal(t, Palette[Black], Color(42).RGBA())
}
