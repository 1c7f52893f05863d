package gfx

import (
	"image"

	"strata/vga"
)

// TitleHeight is the height of the title bar, frame included.
const TitleHeight = 21

var closeButton = [14]string{
	"OOOOOOOOOOOOOOO@",
	"OQQQQQQQQQQQQQ$@",
	"OQQQQQQQQQQQQQ$@",
	"OQQQ@@QQQQ@@QQ$@",
	"OQQQQ@@QQ@@QQQ$@",
	"OQQQQQ@@@@QQQQ$@",
	"OQQQQQQ@@QQQQQ$@",
	"OQQQQQ@@@@QQQQ$@",
	"OQQQQ@@QQ@@QQQ$@",
	"OQQQ@@QQQQ@@QQ$@",
	"OQQQQQQQQQQQQQ$@",
	"OQQQQQQQQQQQQQ$@",
	"O$$$$$$$$$$$$$$@",
	"@@@@@@@@@@@@@@@@",
}

// DrawWindow paints a window frame with a title bar, caption and close button.
func DrawWindow(cv *Canvas, caption string) {
	w, h := cv.W, cv.H

	cv.BoxFill(vga.LightGrey, 0, 0, w-1, 0)
	cv.BoxFill(vga.White, 1, 1, w-2, 1)
	cv.BoxFill(vga.LightGrey, 0, 0, 0, h-1)
	cv.BoxFill(vga.White, 1, 1, 1, h-2)
	cv.BoxFill(vga.DarkGrey, w-2, 1, w-2, h-2)
	cv.BoxFill(vga.Black, w-1, 0, w-1, h-1)
	cv.BoxFill(vga.LightGrey, 2, 2, w-3, h-3)
	cv.BoxFill(vga.Blue, 3, 3, w-4, 20)
	cv.BoxFill(vga.DarkGrey, 1, h-2, w-2, h-2)
	cv.BoxFill(vga.Black, 0, h-1, w-1, h-1)

	cv.Text(24, 7, caption, vga.White)

	for y, row := range closeButton {
		for x := 0; x < len(row); x++ {
			var c vga.Color
			switch row[x] {
			case '@':
				c = vga.Black
			case '$':
				c = vga.DarkGrey
			case 'Q':
				c = vga.LightGrey
			default:
				c = vga.White
			}
			cv.Set(w-21+x, y+5, c)
		}
	}
}

// TitleBar returns the draggable part of a window's title bar.
func TitleBar(w int) image.Rectangle {
	return image.Rect(3, 3, w-21, TitleHeight)
}

// CloseBox returns the close button area of a w-wide window.
func CloseBox(w int) image.Rectangle {
	return image.Rect(w-21, 5, w-5, 19)
}

// TextBox fills a sunken text field and writes s in it. The returned
// rectangle is the damaged area.
func TextBox(cv *Canvas, x0, y0, x1, y1 int, s string, fg, bg vga.Color) image.Rectangle {
	cv.BoxFill(bg, x0, y0, x1, y1)
	cv.Text(x0+2, y0+1, s, fg)
	return image.Rect(x0, y0, x1+1, y1+1).Intersect(cv.Bounds())
}
