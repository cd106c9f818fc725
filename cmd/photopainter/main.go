// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// photopainter refreshes a battery powered e-paper frame on a schedule.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-colorable"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/GermanBionicSystems/photopainter/framebuf"
	"github.com/GermanBionicSystems/photopainter/internal/config"
	"github.com/GermanBionicSystems/photopainter/internal/render"
	"github.com/GermanBionicSystems/photopainter/sequencer"
	"github.com/GermanBionicSystems/photopainter/termview"
)

type flags struct {
	configPath string
	once       bool
	dryRun     bool
	text       string
	image      string
	status     bool
	powerOff   bool
	verbose    bool
}

func parseFlags(args []string) (*flags, error) {
	f := &flags{}
	fs := flag.NewFlagSet("photopainter", flag.ContinueOnError)
	fs.StringVar(&f.configPath, "config", "/etc/photopainter/config.yaml", "Path to config file")
	fs.BoolVar(&f.once, "once", false, "Run one refresh cycle and exit")
	fs.BoolVar(&f.dryRun, "dry-run", false, "Print the frame to the terminal; do not touch the hardware")
	fs.StringVar(&f.text, "text", "", "Text to display (overrides config)")
	fs.StringVar(&f.image, "image", "", "Picture to display (overrides config)")
	fs.BoolVar(&f.status, "status", false, "Print the battery status and exit")
	fs.BoolVar(&f.powerOff, "poweroff", false, "Switch the system off after the refresh")
	fs.BoolVar(&f.verbose, "v", false, "Verbose mode")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, errors.New("unexpected argument, try -help")
	}
	return f, nil
}

func newLogger(level string, verbose bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: colorable.NewColorableStderr()}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// loadConfig loads the config file. When a default config could not be
// written on first run, the defaults are returned with the write error in
// saveErr.
func loadConfig(path string) (cfg *config.Config, saveErr error, err error) {
	cfg, err = config.Load(path)
	if err != nil && cfg != nil {
		return cfg, err, nil
	}
	return cfg, nil, err
}

// buildFrame renders the configured content, with an optional status line.
func buildFrame(c *config.ContentConfig, w, h int, caption string) (*framebuf.HorizontalMSB, error) {
	var fb *framebuf.HorizontalMSB
	if c.Image != "" {
		var err error
		if fb, err = render.LoadPicture(c.Image, w, h); err != nil {
			return nil, err
		}
	} else {
		var err error
		if fb, err = render.Text(w, h, c.Text, c.FontSize); err != nil {
			return nil, err
		}
	}
	if caption != "" {
		render.Caption(fb, caption)
	}
	return fb, nil
}

func mainImpl() error {
	f, err := parseFlags(os.Args[1:])
	if err != nil {
		return err
	}

	cfg, saveErr, err := loadConfig(f.configPath)
	if err != nil {
		return err
	}
	if f.text != "" {
		cfg.Content.Text, cfg.Content.Image = f.text, ""
	}
	if f.image != "" {
		cfg.Content.Image = f.image
	}

	log := newLogger(cfg.LogLevel, f.verbose)
	if saveErr != nil {
		log.Warn().Err(saveErr).Str("config", f.configPath).Msg("using defaults, could not write the config file")
	}
	log.Debug().
		Str("config", f.configPath).
		Str("schedule", cfg.Schedule).
		Bool("dry_run", f.dryRun).
		Msg("effective config")

	if f.dryRun {
		fb, err := buildFrame(&cfg.Content, cfg.Panel.Width, cfg.Panel.Height, "")
		if err != nil {
			return err
		}
		tv := termview.New(&termview.Opts{Width: cfg.Panel.Width, Height: cfg.Panel.Height})
		if _, err := tv.Write(fb.Pix); err != nil {
			return err
		}
		return tv.Halt()
	}

	hw, err := openHardware(cfg)
	if err != nil {
		return err
	}
	defer hw.close(log)

	if f.status {
		return printStatus(os.Stdout, hw)
	}
	if err := hw.pmic.Init(); err != nil {
		return err
	}

	seq := sequencer.New(hw.pmic, hw.panel, &sequencer.Opts{
		Rail:       hw.rail,
		KeepRailOn: cfg.PMIC.KeepRailOn,
		RailSettle: cfg.PMIC.RailDelay,
		Logger:     log,
	})
	refresh := func() error {
		fb, err := buildFrame(&cfg.Content, cfg.Panel.Width, cfg.Panel.Height, hw.caption())
		if err != nil {
			return err
		}
		return seq.RenderAndIdle(fb.Pix)
	}

	if f.once {
		if err := refresh(); err != nil {
			return err
		}
		if f.powerOff {
			return seq.PowerDown()
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{log})))
	if _, err := c.AddFunc(cfg.Schedule, func() {
		if err := refresh(); err != nil {
			log.Error().Err(err).Msg("refresh failed")
		}
	}); err != nil {
		return fmt.Errorf("schedule %q: %w", cfg.Schedule, err)
	}

	// Show something right away instead of waiting for the first tick.
	if err := refresh(); err != nil {
		log.Error().Err(err).Msg("refresh failed")
	}
	c.Start()
	log.Info().Str("schedule", cfg.Schedule).Msg("waiting for the next refresh")

	<-ctx.Done()
	log.Info().Msg("signal received, shutting down")
	<-c.Stop().Done()
	return nil
}

// cronLogger routes the scheduler messages to zerolog.
type cronLogger struct {
	l zerolog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug().Fields(keysAndValues).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

var _ cron.Logger = cronLogger{}

func main() {
	if err := mainImpl(); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "photopainter: %s.\n", err)
		}
		os.Exit(1)
	}
}
