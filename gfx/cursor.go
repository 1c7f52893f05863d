package gfx

import "strata/vga"

const (
	CursorWidth  = 16
	CursorHeight = 16
)

var cursorBitmap = [CursorHeight]string{
	"**************..",
	"*OOOOOOOOOOO*...",
	"*OOOOOOOOOO*....",
	"*OOOOOOOOO*.....",
	"*OOOOOOOO*......",
	"*OOOOOOO*.......",
	"*OOOOOOO*.......",
	"*OOOOOOOO*......",
	"*OOOO**OOO*.....",
	"*OOO*..*OOO*....",
	"*OO*....*OOO*...",
	"*O*......*OOO*..",
	"**........*OOO*.",
	"*..........*OOO*",
	"............*OO*",
	".............***",
}

// DrawCursor paints the arrow pointer into a CursorWidth x CursorHeight
// canvas, using key for the see-through pixels.
func DrawCursor(cv *Canvas, key vga.Color) {
	for y, row := range cursorBitmap {
		for x := 0; x < CursorWidth; x++ {
			switch row[x] {
			case '*':
				cv.Set(x, y, vga.Black)
			case 'O':
				cv.Set(x, y, vga.White)
			default:
				cv.Set(x, y, key)
			}
		}
	}
}
