// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/photopainter/axp2101"
	"github.com/GermanBionicSystems/photopainter/ed2208"
	"github.com/GermanBionicSystems/photopainter/internal/config"
)

type hardware struct {
	spi   spi.PortCloser
	i2c   i2c.BusCloser
	panel *ed2208.Dev
	pmic  *axp2101.Dev
	rail  axp2101.Rail
}

func pin(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("unknown pin %q", name)
	}
	return p, nil
}

// openHardware initializes periph and opens the panel and the PMIC. The PMIC
// rails are left as they are.
func openHardware(cfg *config.Config) (*hardware, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}

	rail, err := axp2101.ParseRail(cfg.PMIC.DisplayRail)
	if err != nil {
		return nil, err
	}

	var pins [4]gpio.PinIO
	for i, name := range []string{cfg.Panel.DC, cfg.Panel.CS, cfg.Panel.RST, cfg.Panel.Busy} {
		if pins[i], err = pin(name); err != nil {
			return nil, err
		}
	}

	hw := &hardware{rail: rail}
	if hw.spi, err = spireg.Open(cfg.Panel.SPIPort); err != nil {
		return nil, err
	}
	if hw.i2c, err = i2creg.Open(cfg.PMIC.I2CBus); err != nil {
		hw.spi.Close()
		return nil, err
	}

	hw.pmic, err = axp2101.New(hw.i2c, &axp2101.Opts{
		Addr:             cfg.PMIC.Addr,
		SettleDelay:      cfg.PMIC.SettleDelay,
		DisplayRail:      rail,
		DisplayRailDelay: cfg.PMIC.RailDelay,
	})
	if err == nil {
		hw.panel, err = ed2208.NewSPI(hw.spi, pins[0], pins[1], pins[2], pins[3], &ed2208.Opts{
			Width:       cfg.Panel.Width,
			Height:      cfg.Panel.Height,
			BusyTimeout: cfg.Panel.BusyTimeout,
		})
	}
	if err != nil {
		hw.spi.Close()
		hw.i2c.Close()
		return nil, err
	}
	return hw, nil
}

func (hw *hardware) close(log zerolog.Logger) {
	if err := hw.spi.Close(); err != nil {
		log.Warn().Err(err).Msg("closing SPI port")
	}
	if err := hw.i2c.Close(); err != nil {
		log.Warn().Err(err).Msg("closing I²C bus")
	}
}

// caption returns a one line battery summary, or nothing if it can't be read.
func (hw *hardware) caption() string {
	present, err := hw.pmic.IsBatteryPresent()
	if err != nil {
		return ""
	}
	if !present {
		return "no battery"
	}
	state, err := hw.pmic.ChargeState()
	if err != nil {
		return ""
	}
	return formatCaption(state)
}

func formatCaption(s axp2101.ChargeState) string {
	switch s {
	case axp2101.Charging:
		return "battery: charging"
	case axp2101.NotCharging:
		return "battery"
	default:
		return "battery: check charger"
	}
}

// printStatus only reads the PMIC.
func printStatus(w io.Writer, hw *hardware) error {
	status, err := hw.pmic.Status()
	if err != nil {
		return err
	}
	charge, err := hw.pmic.ChargeStatus()
	if err != nil {
		return err
	}
	state, err := hw.pmic.ChargeState()
	if err != nil {
		return err
	}
	src, err := hw.pmic.PowerOnSource()
	if err != nil {
		return err
	}
	on, err := hw.pmic.RailEnabled(hw.rail)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n"+
		"  battery present: %t\n"+
		"  charger:         %s (%#04x)\n"+
		"  power-on source: %#04x\n"+
		"  %s:           %t\n",
		hw.pmic, status.BatteryPresent(), state, charge, src, hw.rail, on)
	return err
}
