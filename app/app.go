// Package app wires a HAL to the kernel and the desktop service.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"strata/desktop"
	"strata/hal"
	"strata/internal/buildinfo"
	"strata/kernel"
	"strata/proto"
)

// ErrHalted is returned by the step function once the system has panicked.
var ErrHalted = errors.New("app: system halted")

type Config struct {
	Desktop  desktop.Config
	LogLevel slog.Level
}

// DefaultConfig returns the boot configuration.
func DefaultConfig() Config {
	return Config{
		Desktop:  desktop.DefaultConfig(),
		LogLevel: slog.LevelInfo,
	}
}

type system struct {
	h       hal.HAL
	log     *slog.Logger
	k       *kernel.System
	desk    *desktop.Desktop
	dropped uint64
}

// New initializes and starts the OS with default config.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, DefaultConfig())
}

// Run starts the OS and steps it forever (TinyGo/native entrypoint).
func Run(h hal.HAL) {
	RunWithConfig(h, DefaultConfig())
}

// NewWithConfig boots the system and returns its step function. The host
// backend calls step once per frame; a non-nil error stops the backend.
func NewWithConfig(h hal.HAL, cfg Config) func() error {
	s, err := newSystem(h, cfg)
	if err != nil {
		return func() error { return err }
	}
	return s.step
}

func RunWithConfig(h hal.HAL, cfg Config) {
	step := NewWithConfig(h, cfg)
	for {
		if err := step(); err != nil {
			select {}
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func newLogger(h hal.HAL, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(hal.LogWriter(h.Logger()), &slog.HandlerOptions{Level: level}))
}

func newSystem(h hal.HAL, cfg Config) (*system, error) {
	log := newLogger(h, cfg.LogLevel)
	installPanicHandler(h, log)

	disp := h.Display()
	if disp == nil || disp.Framebuffer() == nil {
		return nil, fmt.Errorf("app: no display")
	}

	k := kernel.NewSystem()
	log.Info("booting", "version", buildinfo.Short())

	desk, err := desktop.New(disp.Framebuffer(), k, log.With("service", "desktop"), cfg.Desktop)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	s := &system{h: h, log: log, k: k, desk: desk}
	s.startProducers()
	return s, nil
}

// startProducers runs the interrupt-context side: device events become
// mailbox messages and never touch the compositor.
func (s *system) startProducers() {
	if ht := s.h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			go func() {
				for seq := range ch {
					s.k.TickTo(seq)
				}
			}()
		}
	}

	in := s.h.Input()
	if in == nil {
		return
	}
	if kbd := in.Keyboard(); kbd != nil {
		if ch := kbd.Events(); ch != nil {
			go func() {
				for ev := range ch {
					s.k.Post(kernel.EPKernel, kernel.EPDesktop, kernel.MsgKey,
						proto.KeyPayload(uint16(ev.Code), ev.Press, ev.Rune))
				}
			}()
		}
	}
	if ptr := in.Pointer(); ptr != nil {
		if ch := ptr.Events(); ch != nil {
			go func() {
				for ev := range ch {
					s.k.Post(kernel.EPKernel, kernel.EPDesktop, kernel.MsgPointer,
						proto.PointerPayload(ev.DX, ev.DY, uint8(ev.Buttons)))
				}
			}()
		}
	}
}

func (s *system) step() error {
	if kernel.InPanicMode() {
		return ErrHalted
	}
	if err := guard("desktop", s.desk.Step); err != nil {
		return err
	}
	if n := s.k.Dropped(); n != s.dropped {
		s.log.Warn("mailbox overflow", "dropped", n-s.dropped)
		s.dropped = n
	}
	return nil
}

// guard runs fn and turns a panic into kernel panic mode.
func guard(where string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			kernel.Panic(where, r)
			err = fmt.Errorf("%w: %s: %v", ErrHalted, where, r)
		}
	}()
	return fn()
}
