// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package axp2101

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// Register is an AXP2101 register address.
type Register uint8

// Registers used by the driver.
const (
	RegStatus1        Register = 0x00
	RegStatus2        Register = 0x01
	RegDataBuffer     Register = 0x04
	RegPowerOnSource  Register = 0x10
	RegPowerOffEnable Register = 0x12
	RegVBUSVoltage    Register = 0x16
	RegVSYSVoltage    Register = 0x27
	RegADCControl     Register = 0x30
	RegTSPinControl   Register = 0x38
	RegIRQEnable1     Register = 0x40
	RegIRQStatus1     Register = 0x48
	RegIRQStatus2     Register = 0x49
	RegDCOnOff        Register = 0x80
	RegLDOOnOff       Register = 0x90
)

var registerNames = map[Register]string{
	RegStatus1:        "Status1",
	RegStatus2:        "Status2",
	RegDataBuffer:     "DataBuffer",
	RegPowerOnSource:  "PowerOnSource",
	RegPowerOffEnable: "PowerOffEnable",
	RegVBUSVoltage:    "VBUSVoltage",
	RegVSYSVoltage:    "VSYSVoltage",
	RegADCControl:     "ADCControl",
	RegTSPinControl:   "TSPinControl",
	RegIRQEnable1:     "IRQEnable1",
	RegIRQStatus1:     "IRQStatus1",
	RegIRQStatus2:     "IRQStatus2",
	RegDCOnOff:        "DCOnOff",
	RegLDOOnOff:       "LDOOnOff",
}

func (r Register) String() string {
	if s, ok := registerNames[r]; ok {
		return s
	}
	return fmt.Sprintf("Register(%#04x)", uint8(r))
}

// DCRails is the content of RegDCOnOff.
type DCRails uint8

// DC-DC converter enable bits.
const (
	DCDC1On DCRails = 1 << iota
	DCDC2On
	DCDC3On
	DCDC4On
	DCDC5On
)

// Has reports whether all of flag is set.
func (b DCRails) Has(flag DCRails) bool { return b&flag == flag }

// LDORails is the content of RegLDOOnOff.
type LDORails uint8

// LDO enable bits.
const (
	ALDO1On LDORails = 1 << iota
	ALDO2On
	ALDO3On
	ALDO4On
	BLDO1On
	BLDO2On
	CPUSLDOOn
	DLDO1On
)

// Has reports whether all of flag is set.
func (b LDORails) Has(flag LDORails) bool { return b&flag == flag }

// Status is the content of RegStatus1.
type Status uint8

const (
	statusBatteryPresent Status = 0x08
)

// BatteryPresent reports whether a battery is connected.
func (s Status) BatteryPresent() bool { return s&statusBatteryPresent != 0 }

// registers accesses the PMIC registers. Nothing is cached: the charger
// updates status registers on its own.
type registers struct {
	c *i2c.Dev
}

func (r *registers) read(reg Register) (uint8, error) {
	rx := make([]byte, 1)
	if err := r.c.Tx([]byte{byte(reg)}, rx); err != nil {
		return 0, fmt.Errorf("axp2101: read %s: %w", reg, err)
	}
	return rx[0], nil
}

func (r *registers) write(reg Register, value uint8) error {
	if err := r.c.Tx([]byte{byte(reg), value}, nil); err != nil {
		return fmt.Errorf("axp2101: write %s: %w", reg, err)
	}
	return nil
}

// update sets then clears bits of reg in a single read-modify-write.
func (r *registers) update(reg Register, set, clear uint8) error {
	v, err := r.read(reg)
	if err != nil {
		return err
	}
	return r.write(reg, (v|set)&^clear)
}

func (r *registers) getBit(reg Register, mask uint8) (bool, error) {
	v, err := r.read(reg)
	return v&mask != 0, err
}
