package gfx

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"strata/vga"
)

func TestBoxFillClips(t *testing.T) {
	cv := NewCanvas(8, 4, vga.Black)
	cv.BoxFill(vga.Red, -5, 1, 2, 10)

	for y := 0; y < cv.H; y++ {
		for x := 0; x < cv.W; x++ {
			want := vga.Black
			if x <= 2 && y >= 1 {
				want = vga.Red
			}
			assert.Equal(t, want, cv.At(x, y), "(%d,%d)", x, y)
		}
	}
}

func TestSetPixelUsesNearestPaletteColor(t *testing.T) {
	cv := NewCanvas(2, 2, vga.Black)
	cv.SetPixel(1, 1, color.RGBA{0xFE, 0xFE, 0xFE, 0xFF})
	cv.SetPixel(5, 5, color.RGBA{0xFE, 0xFE, 0xFE, 0xFF})
	assert.Equal(t, vga.White, cv.At(1, 1))
	assert.Equal(t, []vga.Color{vga.Black, vga.Black, vga.Black, vga.White}, cv.Pix)
}

func TestDrawCursorUsesKey(t *testing.T) {
	cv := NewCanvas(CursorWidth, CursorHeight, vga.Red)
	DrawCursor(cv, vga.Cyan)

	assert.Equal(t, vga.Black, cv.At(0, 0))
	assert.Equal(t, vga.White, cv.At(1, 1))
	assert.Equal(t, vga.Cyan, cv.At(15, 0))
	assert.Equal(t, vga.Cyan, cv.At(0, 15))
	for _, c := range cv.Pix {
		assert.NotEqual(t, vga.Red, c)
	}
}

func TestDrawWindowFrame(t *testing.T) {
	cv := NewCanvas(160, 52, vga.Black)
	DrawWindow(cv, "counter")

	assert.Equal(t, vga.LightGrey, cv.At(0, 0))
	assert.Equal(t, vga.Black, cv.At(159, 51))
	assert.Equal(t, vga.LightGrey, cv.At(80, 30), "client area")

	titleWhite := 0
	for y := 3; y <= 20; y++ {
		for x := 3; x < 160-21; x++ {
			switch cv.At(x, y) {
			case vga.White:
				titleWhite++
			case vga.Blue:
			default:
				t.Fatalf("unexpected color %s in title bar at (%d,%d)", cv.At(x, y), x, y)
			}
		}
	}
	assert.Positive(t, titleWhite, "caption drawn")

	box := CloseBox(160)
	assert.Equal(t, vga.White, cv.At(box.Min.X, box.Min.Y))
	assert.Equal(t, vga.Black, cv.At(box.Min.X+4, box.Min.Y+3))
}

func TestTextBoxDamage(t *testing.T) {
	cv := NewCanvas(160, 52, vga.LightGrey)
	r := TextBox(cv, 24, 28, 115, 43, "0000042", vga.Black, vga.White)

	assert.Equal(t, 24, r.Min.X)
	assert.Equal(t, 116, r.Max.X)
	assert.Equal(t, 44, r.Max.Y)
	ink := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if cv.At(x, y) == vga.Black {
				ink++
			}
		}
	}
	assert.Positive(t, ink)
	assert.Equal(t, vga.LightGrey, cv.At(23, 28))
}

func TestDrawDesktopTaskbar(t *testing.T) {
	cv := NewCanvas(vga.ScreenWidth, vga.ScreenHeight, vga.Black)
	DrawDesktop(cv)
	assert.Equal(t, vga.Cyan, cv.At(320, 200))
	assert.Equal(t, vga.White, cv.At(320, vga.ScreenHeight-27))
	assert.Equal(t, vga.LightGrey, cv.At(320, vga.ScreenHeight-10))
	assert.Equal(t, vga.Black, cv.At(60, vga.ScreenHeight-10))
}
