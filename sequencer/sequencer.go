// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sequencer powers the e-paper panel, refreshes it and puts it back
// to sleep, in the order the hardware requires.
//
// The panel only draws current while its waveform runs. A render cycle
// therefore switches the display rail on, brings the controller up if it
// lost power or slept, uploads and activates the frame, then sleeps the
// controller and switches the rail off again.
package sequencer

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/GermanBionicSystems/photopainter/axp2101"
	"github.com/GermanBionicSystems/photopainter/ed2208"
)

// ErrRailDropped is returned when the display rail was found off right after
// a refresh.
var ErrRailDropped = errors.New("sequencer: display rail dropped during refresh")

// Panel is the display side of a render cycle. *ed2208.Dev implements it.
type Panel interface {
	State() ed2208.State
	FrameSize() int
	Reset() error
	Init() error
	WriteFrame(frame []byte) error
	Activate() error
	Sleep() error
}

// PowerSupply is the PMIC side of a render cycle. *axp2101.Dev implements it.
type PowerSupply interface {
	RailEnabled(r axp2101.Rail) (bool, error)
	EnableRail(r axp2101.Rail) error
	DisableRail(r axp2101.Rail) error
	PowerOff() error
}

// Opts holds the sequencer configuration.
type Opts struct {
	// Rail feeds the panel. Defaults to axp2101.ALDO1.
	Rail axp2101.Rail
	// KeepRailOn leaves the rail enabled at the end of a cycle.
	KeepRailOn bool
	// RailSettle is waited after switching the rail on.
	RailSettle time.Duration
	// Logger receives one debug event per step. The zero value discards.
	Logger zerolog.Logger
}

// DefaultOpts is the recommended configuration.
var DefaultOpts = Opts{
	Rail:       axp2101.ALDO1,
	RailSettle: 5 * time.Millisecond,
}

// Sequencer coordinates a panel and its power supply. It is not safe for
// concurrent use.
type Sequencer struct {
	power PowerSupply
	panel Panel
	opts  Opts
	log   zerolog.Logger

	sleep func(time.Duration)
}

// New returns a Sequencer. A nil opts means DefaultOpts.
func New(power PowerSupply, panel Panel, opts *Opts) *Sequencer {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.Rail == 0 {
		o.Rail = axp2101.ALDO1
	}
	return &Sequencer{
		power: power,
		panel: panel,
		opts:  o,
		log:   o.Logger.With().Str("rail", o.Rail.String()).Logger(),
		sleep: time.Sleep,
	}
}

// RenderAndIdle displays frame and leaves the panel asleep.
//
// The frame size is checked before any hardware access. Any other failure
// aborts the cycle where it happened; nothing is rolled back and the next
// cycle starts with a reset.
func (s *Sequencer) RenderAndIdle(frame []byte) error {
	if want := s.panel.FrameSize(); len(frame) != want {
		err := fmt.Errorf("%w: got %d bytes, want %d", ed2208.ErrSizeMismatch, len(frame), want)
		s.log.Error().Err(err).Msg("frame rejected")
		return err
	}

	start := time.Now()
	powered := false
	if err := s.step("check rail", func() error {
		on, err := s.power.RailEnabled(s.opts.Rail)
		powered = on
		return err
	}); err != nil {
		return err
	}
	if !powered {
		if err := s.step("enable rail", func() error {
			return s.power.EnableRail(s.opts.Rail)
		}); err != nil {
			return err
		}
		s.sleep(s.opts.RailSettle)
	}

	// A controller that lost its supply must be brought up again, whatever
	// state the driver remembers.
	if !powered || s.panel.State() != ed2208.Idle {
		if err := s.step("reset", s.panel.Reset); err != nil {
			return err
		}
		if err := s.step("init", s.panel.Init); err != nil {
			return err
		}
	}

	if err := s.step("write frame", func() error {
		return s.panel.WriteFrame(frame)
	}); err != nil {
		return err
	}
	if err := s.step("activate", s.panel.Activate); err != nil {
		return err
	}

	stillOn := false
	if err := s.step("verify rail", func() error {
		on, err := s.power.RailEnabled(s.opts.Rail)
		stillOn = on
		return err
	}); err != nil {
		return err
	}
	if !stillOn {
		s.log.Error().Err(ErrRailDropped).Msg("sequence aborted")
		return ErrRailDropped
	}

	if err := s.step("sleep", s.panel.Sleep); err != nil {
		return err
	}
	if !s.opts.KeepRailOn {
		if err := s.step("disable rail", func() error {
			return s.power.DisableRail(s.opts.Rail)
		}); err != nil {
			return err
		}
	}

	s.log.Info().Dur("elapsed", time.Since(start)).Msg("panel refreshed")
	return nil
}

// PowerDown puts the panel to sleep, cuts its rail and finally switches the
// whole system off through the PMIC. On success it does not return on real
// hardware.
func (s *Sequencer) PowerDown() error {
	if st := s.panel.State(); st != ed2208.Sleeping && st != ed2208.Uninitialized {
		// Losing the supply without deep sleep is harmless to the image; keep
		// going.
		if err := s.step("sleep", s.panel.Sleep); err != nil {
			s.log.Warn().Err(err).Msg("powering down an awake panel")
		}
	}
	if err := s.step("disable rail", func() error {
		return s.power.DisableRail(s.opts.Rail)
	}); err != nil {
		return err
	}
	s.log.Info().Msg("system power off")
	return s.step("power off", s.power.PowerOff)
}

func (s *Sequencer) step(name string, fn func() error) error {
	s.log.Debug().Str("step", name).Msg("sequencer")
	if err := fn(); err != nil {
		s.log.Error().Err(err).Str("step", name).Msg("sequence aborted")
		return fmt.Errorf("sequencer: %s: %w", name, err)
	}
	return nil
}
