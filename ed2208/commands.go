// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ed2208

import "fmt"

// Command is a controller opcode. It is always sent alone, with the
// data/command line low.
type Command byte

// Commands
const (
	driverOutputControl            Command = 0x01
	boosterSoftStartControl        Command = 0x0C
	deepSleepMode                  Command = 0x10
	dataEntryModeSetting           Command = 0x11
	swReset                        Command = 0x12
	masterActivation               Command = 0x20
	displayUpdateControl2          Command = 0x22
	writeRAM                       Command = 0x24
	writeVcomRegister              Command = 0x2C
	setDummyLinePeriod             Command = 0x3A
	setGateTime                    Command = 0x3B
	setRAMXAddressStartEndPosition Command = 0x44
	setRAMYAddressStartEndPosition Command = 0x45
	setRAMXAddressCounter          Command = 0x4E
	setRAMYAddressCounter          Command = 0x4F
	terminateFrameReadWrite        Command = 0xFF
)

// Parameters written during initialization and refresh.
const (
	boosterPhase1 byte = 0xD7
	boosterPhase2 byte = 0xD6
	boosterPhase3 byte = 0x9D
	vcom          byte = 0xA8
	dummyLine     byte = 0x1A
	gateTime      byte = 0x08

	// Y increment, X increment; address counter advances in X.
	dataEntryXYIncrement byte = 0b011

	// Enable clock and analog, load temperature and LUT from OTP, display
	// with the full refresh waveform, then disable analog and clock.
	displayUpdateFull byte = 0xC7

	// Deep sleep mode 1: RAM content is retained.
	deepSleepRetainRAM byte = 0x01
)

var commandNames = map[Command]string{
	driverOutputControl:            "DriverOutputControl",
	boosterSoftStartControl:        "BoosterSoftStartControl",
	deepSleepMode:                  "DeepSleepMode",
	dataEntryModeSetting:           "DataEntryModeSetting",
	swReset:                        "SWReset",
	masterActivation:               "MasterActivation",
	displayUpdateControl2:          "DisplayUpdateControl2",
	writeRAM:                       "WriteRAM",
	writeVcomRegister:              "WriteVCOMRegister",
	setDummyLinePeriod:             "SetDummyLinePeriod",
	setGateTime:                    "SetGateTime",
	setRAMXAddressStartEndPosition: "SetRAMXAddressStartEndPosition",
	setRAMYAddressStartEndPosition: "SetRAMYAddressStartEndPosition",
	setRAMXAddressCounter:          "SetRAMXAddressCounter",
	setRAMYAddressCounter:          "SetRAMYAddressCounter",
	terminateFrameReadWrite:        "TerminateFrameReadWrite",
}

func (c Command) String() string {
	if s, ok := commandNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Command(%#04x)", byte(c))
}
