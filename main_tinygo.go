//go:build tinygo && pyportal

package main

import (
	"image/color"
	"machine"

	"strata/app"
	"strata/hal"

	"tinygo.org/x/drivers/ili9341"
)

func main() {
	display := ili9341.NewParallel(
		machine.LCD_DATA0,
		machine.TFT_WR,
		machine.TFT_DC,
		machine.TFT_CS,
		machine.TFT_RESET,
		machine.TFT_RD,
	)

	backlight := machine.TFT_BACKLIGHT
	backlight.Configure(machine.PinConfig{Mode: machine.PinOutput})

	display.Configure(ili9341.Config{})
	display.SetRotation(ili9341.Rotation0)
	display.FillScreen(color.RGBA{0, 0, 0, 255})
	backlight.High()

	app.Run(hal.New(display))
}
