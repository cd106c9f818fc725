// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package axp2101

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
)

// DefaultAddr is the fixed I²C address of the AXP2101.
const DefaultAddr uint16 = 0x34

// ErrDeviceNotFound is returned by New when the PMIC does not answer.
var ErrDeviceNotFound = errors.New("axp2101: device not found")

// Rail is a switchable output of the PMIC.
type Rail uint8

// Rails wired on the board.
const (
	DCDC1 Rail = iota + 1
	DCDC2
	DCDC3
	ALDO1
	ALDO2
)

var railNames = [...]string{"DCDC1", "DCDC2", "DCDC3", "ALDO1", "ALDO2"}

func (r Rail) String() string {
	if r > 0 && int(r) <= len(railNames) {
		return railNames[r-1]
	}
	return fmt.Sprintf("Rail(%d)", uint8(r))
}

// ParseRail returns the rail named s, as printed by Rail.String.
func ParseRail(s string) (Rail, error) {
	for i, n := range railNames {
		if n == s {
			return Rail(i + 1), nil
		}
	}
	return 0, fmt.Errorf("axp2101: unknown rail %q", s)
}

// control returns the enable register and bit of the rail.
func (r Rail) control() (Register, uint8, error) {
	switch r {
	case DCDC1:
		return RegDCOnOff, uint8(DCDC1On), nil
	case DCDC2:
		return RegDCOnOff, uint8(DCDC2On), nil
	case DCDC3:
		return RegDCOnOff, uint8(DCDC3On), nil
	case ALDO1:
		return RegLDOOnOff, uint8(ALDO1On), nil
	case ALDO2:
		return RegLDOOnOff, uint8(ALDO2On), nil
	default:
		return 0, 0, fmt.Errorf("axp2101: unknown rail %s", r)
	}
}

// ChargeState is the decoded charger state.
type ChargeState uint8

// Charger states.
const (
	NotCharging ChargeState = iota
	Charging
	// ChargeOther covers every state the driver does not decode, including
	// faults.
	ChargeOther
)

func (c ChargeState) String() string {
	switch c {
	case NotCharging:
		return "NotCharging"
	case Charging:
		return "Charging"
	case ChargeOther:
		return "Other"
	default:
		return fmt.Sprintf("ChargeState(%d)", uint8(c))
	}
}

// Opts holds the configuration options.
type Opts struct {
	// Addr defaults to DefaultAddr when zero.
	Addr uint16
	// SettleDelay is waited once at the end of Init.
	SettleDelay time.Duration
	// DisplayRail feeds the e-paper panel. Defaults to ALDO1 when zero.
	DisplayRail Rail
	// DisplayRailDelay is waited after EnableDisplayPower.
	DisplayRailDelay time.Duration
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Addr:             DefaultAddr,
	SettleDelay:      10 * time.Millisecond,
	DisplayRail:      ALDO1,
	DisplayRailDelay: 5 * time.Millisecond,
}

// Dev is a handle to an AXP2101.
type Dev struct {
	r    registers
	opts Opts

	sleep func(time.Duration)
}

// New opens a handle to the PMIC on bus b and checks that it answers.
//
// A nil opts means DefaultOpts.
func New(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.Addr == 0 {
		o.Addr = DefaultAddr
	}
	if o.DisplayRail == 0 {
		o.DisplayRail = ALDO1
	}
	if _, _, err := o.DisplayRail.control(); err != nil {
		return nil, err
	}

	d := &Dev{
		r:     registers{c: &i2c.Dev{Bus: b, Addr: o.Addr}},
		opts:  o,
		sleep: time.Sleep,
	}
	if _, err := d.r.read(RegStatus1); err != nil {
		return nil, fmt.Errorf("%w at %#x: %w", ErrDeviceNotFound, o.Addr, err)
	}
	return d, nil
}

// Init switches on every rail used by the board, one at a time, then waits
// for the outputs to settle.
func (d *Dev) Init() error {
	for _, r := range []Rail{DCDC1, DCDC2, DCDC3, ALDO1, ALDO2} {
		if err := d.EnableRail(r); err != nil {
			return err
		}
	}
	d.sleep(d.opts.SettleDelay)
	return nil
}

// EnableRail switches the rail on. Enabling an enabled rail is harmless.
func (d *Dev) EnableRail(r Rail) error {
	reg, bit, err := r.control()
	if err != nil {
		return err
	}
	return d.r.update(reg, bit, 0)
}

// DisableRail switches the rail off.
func (d *Dev) DisableRail(r Rail) error {
	reg, bit, err := r.control()
	if err != nil {
		return err
	}
	return d.r.update(reg, 0, bit)
}

// RailEnabled reads back the enable bit of the rail.
func (d *Dev) RailEnabled(r Rail) (bool, error) {
	reg, bit, err := r.control()
	if err != nil {
		return false, err
	}
	return d.r.getBit(reg, bit)
}

// DCRails returns the DC-DC enable register.
func (d *Dev) DCRails() (DCRails, error) {
	v, err := d.r.read(RegDCOnOff)
	return DCRails(v), err
}

// LDORails returns the LDO enable register.
func (d *Dev) LDORails() (LDORails, error) {
	v, err := d.r.read(RegLDOOnOff)
	return LDORails(v), err
}

// EnableDisplayPower switches the display rail on and waits for it to
// stabilize.
func (d *Dev) EnableDisplayPower() error {
	if err := d.EnableRail(d.opts.DisplayRail); err != nil {
		return err
	}
	d.sleep(d.opts.DisplayRailDelay)
	return nil
}

// DisableDisplayPower switches the display rail off.
func (d *Dev) DisableDisplayPower() error {
	return d.DisableRail(d.opts.DisplayRail)
}

// Status returns the raw content of the first status register.
func (d *Dev) Status() (Status, error) {
	v, err := d.r.read(RegStatus1)
	return Status(v), err
}

// ChargeStatus returns the raw content of the charger status register.
func (d *Dev) ChargeStatus() (uint8, error) {
	return d.r.read(RegStatus2)
}

// IsBatteryPresent reports whether a battery is connected.
func (d *Dev) IsBatteryPresent() (bool, error) {
	s, err := d.Status()
	return s.BatteryPresent(), err
}

// IsCharging reports whether the battery is being charged.
func (d *Dev) IsCharging() (bool, error) {
	s, err := d.ChargeState()
	return s == Charging, err
}

// ChargeState decodes the low nibble of the charger status register.
func (d *Dev) ChargeState() (ChargeState, error) {
	v, err := d.ChargeStatus()
	if err != nil {
		return ChargeOther, err
	}
	return decodeChargeState(v), nil
}

func decodeChargeState(v uint8) ChargeState {
	switch v & 0x0F {
	case 0x00:
		return NotCharging
	case 0x01, 0x02:
		return Charging
	default:
		return ChargeOther
	}
}

// PowerOnSource returns the raw power-on reason register.
func (d *Dev) PowerOnSource() (uint8, error) {
	return d.r.read(RegPowerOnSource)
}

// PowerOff cuts the system power, including the host running this code. It
// must be the last call made.
func (d *Dev) PowerOff() error {
	return d.r.update(RegPowerOffEnable, 0x01, 0)
}

// ClearIRQ acknowledges all pending interrupts.
func (d *Dev) ClearIRQ() error {
	if err := d.r.write(RegIRQStatus1, 0xFF); err != nil {
		return err
	}
	return d.r.write(RegIRQStatus2, 0xFF)
}

// EnableADC turns on every ADC channel.
func (d *Dev) EnableADC() error {
	return d.r.write(RegADCControl, 0xFF)
}

// DisableADC turns off every ADC channel.
func (d *Dev) DisableADC() error {
	return d.r.write(RegADCControl, 0x00)
}

// Halt implements conn.Resource. The rails are left as they are.
func (d *Dev) Halt() error {
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("axp2101: %s", d.r.c)
}

var _ conn.Resource = &Dev{}
