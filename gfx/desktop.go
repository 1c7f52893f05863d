package gfx

import "strata/vga"

// TaskbarHeight is the height of the bar at the bottom of the desktop.
const TaskbarHeight = 28

// DrawDesktop paints the desktop background and taskbar.
func DrawDesktop(cv *Canvas) {
	w, h := cv.W, cv.H

	cv.BoxFill(vga.Cyan, 0, 0, w-1, h-29)
	cv.BoxFill(vga.LightGrey, 0, h-28, w-1, h-28)
	cv.BoxFill(vga.White, 0, h-27, w-1, h-27)
	cv.BoxFill(vga.LightGrey, 0, h-26, w-1, h-1)

	// Start button.
	cv.BoxFill(vga.White, 3, h-24, 59, h-24)
	cv.BoxFill(vga.White, 2, h-24, 2, h-4)
	cv.BoxFill(vga.DarkGrey, 3, h-4, 59, h-4)
	cv.BoxFill(vga.DarkGrey, 59, h-23, 59, h-5)
	cv.BoxFill(vga.Black, 2, h-3, 59, h-3)
	cv.BoxFill(vga.Black, 60, h-24, 60, h-3)

	// Clock tray.
	cv.BoxFill(vga.DarkGrey, w-47, h-24, w-4, h-24)
	cv.BoxFill(vga.DarkGrey, w-47, h-23, w-47, h-4)
	cv.BoxFill(vga.White, w-47, h-3, w-4, h-3)
	cv.BoxFill(vga.White, w-3, h-24, w-3, h-3)
}
