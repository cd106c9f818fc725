// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ed2208

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type record struct {
	cmd  Command
	data []byte
	idle bool
}

// idlePoll marks a wait for the BUSY line in a transcript.
var idlePoll = record{idle: true}

type fakeController []record

func (r *fakeController) sendCommand(cmd Command) {
	*r = append(*r, record{
		cmd: cmd,
	})
}

func (r *fakeController) sendData(data []byte) {
	cur := &(*r)[len(*r)-1]
	cur.data = append(cur.data, data...)
}

func (r *fakeController) waitUntilIdle() {
	*r = append(*r, idlePoll)
}

func diffRecords(got, want []record) string {
	return cmp.Diff(got, want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{}))
}

func TestInitDisplay(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts Opts
		want []record
	}{
		{
			name: "epd2in13",
			opts: EPD2in13,
			want: []record{
				{cmd: swReset},
				idlePoll,
				{cmd: driverOutputControl, data: []byte{0x79, 0x00, 0x00}},
				{cmd: boosterSoftStartControl, data: []byte{0xD7, 0xD6, 0x9D}},
				{cmd: writeVcomRegister, data: []byte{0xA8}},
				{cmd: setDummyLinePeriod, data: []byte{0x1A}},
				{cmd: setGateTime, data: []byte{0x08}},
				{cmd: dataEntryModeSetting, data: []byte{0x03}},
				{cmd: setRAMXAddressStartEndPosition, data: []byte{0x00, 0x1F}},
				{cmd: setRAMYAddressStartEndPosition, data: []byte{0x00, 0x00, 0x79, 0x00}},
				{cmd: setRAMXAddressCounter, data: []byte{0x00}},
				{cmd: setRAMYAddressCounter, data: []byte{0x00, 0x00}},
				idlePoll,
			},
		},
		{
			name: "tall",
			opts: Opts{Width: 128, Height: 296},
			want: []record{
				{cmd: swReset},
				idlePoll,
				{cmd: driverOutputControl, data: []byte{0x27, 0x01, 0x00}},
				{cmd: boosterSoftStartControl, data: []byte{0xD7, 0xD6, 0x9D}},
				{cmd: writeVcomRegister, data: []byte{0xA8}},
				{cmd: setDummyLinePeriod, data: []byte{0x1A}},
				{cmd: setGateTime, data: []byte{0x08}},
				{cmd: dataEntryModeSetting, data: []byte{0x03}},
				{cmd: setRAMXAddressStartEndPosition, data: []byte{0x00, 0x0F}},
				{cmd: setRAMYAddressStartEndPosition, data: []byte{0x00, 0x00, 0x27, 0x01}},
				{cmd: setRAMXAddressCounter, data: []byte{0x00}},
				{cmd: setRAMYAddressCounter, data: []byte{0x00, 0x00}},
				idlePoll,
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var got fakeController

			initDisplay(&got, &tc.opts)

			if diff := diffRecords(got, tc.want); diff != "" {
				t.Errorf("initDisplay() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestSetWindow(t *testing.T) {
	for _, tc := range []struct {
		name           string
		x0, y0, x1, y1 int
		want           []record
	}{
		{
			name: "full",
			x1:   249, y1: 121,
			want: []record{
				{cmd: setRAMXAddressStartEndPosition, data: []byte{0, 31}},
				{cmd: setRAMYAddressStartEndPosition, data: []byte{0, 0, 121, 0}},
			},
		},
		{
			name: "unaligned columns",
			x0:   17, y0: 4, x1: 25, y1: 8,
			want: []record{
				{cmd: setRAMXAddressStartEndPosition, data: []byte{2, 3}},
				{cmd: setRAMYAddressStartEndPosition, data: []byte{4, 0, 8, 0}},
			},
		},
		{
			name: "16 bit rows",
			x0:   8, y0: 255, x1: 15, y1: 300,
			want: []record{
				{cmd: setRAMXAddressStartEndPosition, data: []byte{1, 1}},
				{cmd: setRAMYAddressStartEndPosition, data: []byte{0xFF, 0x00, 0x2C, 0x01}},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var got fakeController

			setWindow(&got, tc.x0, tc.y0, tc.x1, tc.y1)

			if diff := diffRecords(got, tc.want); diff != "" {
				t.Errorf("setWindow() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestSetCursorColumnsIgnoreRow(t *testing.T) {
	for x := 0; x < 250; x++ {
		for _, y := range []int{0, 1, 121, 256} {
			var got fakeController

			setCursor(&got, x, y)

			want := []record{
				{cmd: setRAMXAddressCounter, data: []byte{byte(x / 8)}},
				{cmd: setRAMYAddressCounter, data: []byte{byte(y), byte(y >> 8)}},
			}
			if diff := diffRecords(got, want); diff != "" {
				t.Fatalf("setCursor(%d, %d) difference (-got +want):\n%s", x, y, diff)
			}
		}
	}
}

func TestWriteFrame(t *testing.T) {
	frame := bytes.Repeat([]byte{0xAA}, EPD2in13.FrameSize())

	var got fakeController

	writeFrame(&got, &EPD2in13, frame)

	want := []record{
		{cmd: setRAMXAddressStartEndPosition, data: []byte{0x00, 0x1F}},
		{cmd: setRAMYAddressStartEndPosition, data: []byte{0x00, 0x00, 0x79, 0x00}},
		{cmd: setRAMXAddressCounter, data: []byte{0x00}},
		{cmd: setRAMYAddressCounter, data: []byte{0x00, 0x00}},
		{cmd: writeRAM, data: frame},
	}
	if diff := diffRecords(got, want); diff != "" {
		t.Errorf("writeFrame() difference (-got +want):\n%s", diff)
	}
}

func TestActivate(t *testing.T) {
	var got fakeController

	activate(&got)

	want := []record{
		{cmd: displayUpdateControl2, data: []byte{0xC7}},
		{cmd: masterActivation},
		{cmd: terminateFrameReadWrite},
		idlePoll,
	}
	if diff := diffRecords(got, want); diff != "" {
		t.Errorf("activate() difference (-got +want):\n%s", diff)
	}
}

func TestDeepSleep(t *testing.T) {
	var got fakeController

	deepSleep(&got)

	want := []record{
		{cmd: deepSleepMode, data: []byte{0x01}},
	}
	if diff := diffRecords(got, want); diff != "" {
		t.Errorf("deepSleep() difference (-got +want):\n%s", diff)
	}
}

func TestCommandString(t *testing.T) {
	for _, tc := range []struct {
		cmd  Command
		want string
	}{
		{swReset, "SWReset"},
		{terminateFrameReadWrite, "TerminateFrameReadWrite"},
		{Command(0x7F), "Command(0x7f)"},
	} {
		if got := tc.cmd.String(); got != tc.want {
			t.Errorf("Command(%#x).String() = %q, want %q", byte(tc.cmd), got, tc.want)
		}
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{
		Uninitialized: "Uninitialized",
		Resetting:     "Resetting",
		Initializing:  "Initializing",
		Idle:          "Idle",
		Writing:       "Writing",
		Activating:    "Activating",
		Sleeping:      "Sleeping",
		State(42):     "State(42)",
	} {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}
