// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ed2208

import "encoding/binary"

type controller interface {
	sendCommand(Command)
	sendData([]byte)
	waitUntilIdle()
}

func initDisplay(ctrl controller, opts *Opts) {
	ctrl.sendCommand(swReset)
	ctrl.waitUntilIdle()

	// Gate count, scanning from G0.
	gates := [3]byte{}
	binary.LittleEndian.PutUint16(gates[:2], uint16(opts.Height-1))
	ctrl.sendCommand(driverOutputControl)
	ctrl.sendData(gates[:])

	ctrl.sendCommand(boosterSoftStartControl)
	ctrl.sendData([]byte{boosterPhase1, boosterPhase2, boosterPhase3})

	ctrl.sendCommand(writeVcomRegister)
	ctrl.sendData([]byte{vcom})

	ctrl.sendCommand(setDummyLinePeriod)
	ctrl.sendData([]byte{dummyLine})

	ctrl.sendCommand(setGateTime)
	ctrl.sendData([]byte{gateTime})

	ctrl.sendCommand(dataEntryModeSetting)
	ctrl.sendData([]byte{dataEntryXYIncrement})

	setWindow(ctrl, 0, 0, opts.Width-1, opts.Height-1)
	setCursor(ctrl, 0, 0)

	ctrl.waitUntilIdle()
}

// setWindow configures the RAM area written by the next transfer. Horizontal
// positions are sent in bytes, vertical positions in pixels.
func setWindow(ctrl controller, xStart, yStart, xEnd, yEnd int) {
	ctrl.sendCommand(setRAMXAddressStartEndPosition)
	ctrl.sendData([]byte{byte(xStart / 8), byte(xEnd / 8)})

	startEndY := [4]byte{}
	binary.LittleEndian.PutUint16(startEndY[0:], uint16(yStart))
	binary.LittleEndian.PutUint16(startEndY[2:], uint16(yEnd))

	ctrl.sendCommand(setRAMYAddressStartEndPosition)
	ctrl.sendData(startEndY[:])
}

// setCursor positions the RAM address counters. The lower 3 bits of x are
// dropped.
func setCursor(ctrl controller, x, y int) {
	ctrl.sendCommand(setRAMXAddressCounter)
	ctrl.sendData([]byte{byte(x / 8)})

	counterY := [2]byte{}
	binary.LittleEndian.PutUint16(counterY[:], uint16(y))

	ctrl.sendCommand(setRAMYAddressCounter)
	ctrl.sendData(counterY[:])
}

// writeFrame uploads a complete frame into the panel RAM.
func writeFrame(ctrl controller, opts *Opts, frame []byte) {
	setWindow(ctrl, 0, 0, opts.Width-1, opts.Height-1)
	setCursor(ctrl, 0, 0)

	ctrl.sendCommand(writeRAM)
	ctrl.sendData(frame)
}

// activate runs the full refresh waveform and blocks until it completed.
func activate(ctrl controller) {
	ctrl.sendCommand(displayUpdateControl2)
	ctrl.sendData([]byte{displayUpdateFull})
	ctrl.sendCommand(masterActivation)
	ctrl.sendCommand(terminateFrameReadWrite)
	ctrl.waitUntilIdle()
}

// deepSleep turns off the DC/DC converter, clock, output load and MCU. RAM
// content is retained.
func deepSleep(ctrl controller) {
	ctrl.sendCommand(deepSleepMode)
	ctrl.sendData([]byte{deepSleepRetainRAM})
}
