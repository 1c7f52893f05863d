//go:build !tinygo

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"strata/app"
	"strata/hal"
	"strata/internal/buildinfo"

	"github.com/urfave/cli"
)

func main() {
	cliApp := cli.NewApp()
	cliApp.Name = "strata"
	cliApp.Usage = "layered framebuffer desktop"
	cliApp.Version = buildinfo.String()
	cliApp.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without a window",
		},
		cli.BoolFlag{
			Name:  "terminal",
			Usage: "Render into the terminal with tcell",
		},
		cli.IntFlag{
			Name:  "hz",
			Usage: "Step rate in headless mode",
			Value: 60,
		},
		cli.Uint64Flag{
			Name:  "ticks",
			Usage: "Stop after N steps in headless mode (0 = run forever)",
		},
		cli.StringFlag{
			Name:  "snapshot",
			Usage: "Write a BMP of the screen here when headless mode stops",
		},
		cli.Uint64Flag{
			Name:  "counter-period",
			Usage: "Ticks (ms) between counter window updates (0 = off)",
			Value: app.DefaultConfig().Desktop.CounterPeriod,
		},
		cli.StringFlag{
			Name:  "caption",
			Usage: "Counter window caption",
			Value: app.DefaultConfig().Desktop.Caption,
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error",
			Value: "info",
		},
		cli.StringFlag{
			Name:  "log-file",
			Usage: "Write logs to this file instead of stderr",
		},
	}
	cliApp.Action = run

	if err := cliApp.Run(os.Args); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := app.DefaultConfig()
	cfg.Desktop.CounterPeriod = c.Uint64("counter-period")
	cfg.Desktop.Caption = c.String("caption")
	if err := cfg.LogLevel.UnmarshalText([]byte(c.String("log-level"))); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}

	var logOut io.Writer = os.Stderr
	if path := c.String("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}

	newApp := func(h hal.HAL) func() error {
		return app.NewWithConfig(h, cfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case c.Bool("headless"):
		return hal.RunHeadless(ctx, newApp, hal.HeadlessConfig{
			Enabled:      true,
			Hz:           c.Int("hz"),
			Ticks:        c.Uint64("ticks"),
			SnapshotPath: c.String("snapshot"),
			Log:          logOut,
		})
	case c.Bool("terminal"):
		if logOut == os.Stderr {
			logOut = io.Discard
		}
		return hal.RunTerminal(ctx, newApp, logOut)
	default:
		return hal.RunWindow(newApp)
	}
}
