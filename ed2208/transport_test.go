// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ed2208

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// traceLog collects pin changes and bus transfers in order.
type traceLog []string

type tracePin struct {
	gpiotest.Pin
	log *traceLog
}

func (p *tracePin) Out(l gpio.Level) error {
	*p.log = append(*p.log, fmt.Sprintf("%s=%s", p.N, l))
	return p.Pin.Out(l)
}

type traceConn struct {
	log   *traceLog
	limit int
	err   error
}

func (c *traceConn) String() string {
	return "trace"
}

func (c *traceConn) Tx(w, r []byte) error {
	if c.err != nil {
		return c.err
	}
	*c.log = append(*c.log, fmt.Sprintf("tx %x", w))
	return nil
}

func (c *traceConn) Duplex() conn.Duplex {
	return conn.Half
}

func (c *traceConn) MaxTxSize() int {
	return c.limit
}

func newTraceTransport(limit int) (*spiTransport, *traceLog, *traceConn) {
	log := &traceLog{}
	c := &traceConn{log: log, limit: limit}
	return &spiTransport{
		c:    c,
		dc:   &tracePin{Pin: gpiotest.Pin{N: "DC"}, log: log},
		cs:   &tracePin{Pin: gpiotest.Pin{N: "CS"}, log: log},
		rst:  &tracePin{Pin: gpiotest.Pin{N: "RST"}, log: log},
		busy: &gpiotest.Pin{N: "BUSY"},
	}, log, c
}

func TestSPITransportFraming(t *testing.T) {
	tr, log, _ := newTraceTransport(0)

	if err := tr.SendCommand(writeVcomRegister); err != nil {
		t.Fatalf("SendCommand() failed: %v", err)
	}
	if err := tr.SendData([]byte{0xA8}); err != nil {
		t.Fatalf("SendData() failed: %v", err)
	}

	want := traceLog{
		"DC=Low", "CS=Low", "tx 2c", "CS=High",
		"DC=High", "CS=Low", "tx a8", "CS=High",
	}
	if diff := cmp.Diff(*log, want); diff != "" {
		t.Errorf("trace difference (-got +want):\n%s", diff)
	}
}

func TestSPITransportChunking(t *testing.T) {
	tr, log, _ := newTraceTransport(4)

	if err := tr.SendData([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}); err != nil {
		t.Fatalf("SendData() failed: %v", err)
	}

	want := traceLog{
		"DC=High", "CS=Low",
		"tx 01020304", "tx 05060708", "tx 090a",
		"CS=High",
	}
	if diff := cmp.Diff(*log, want); diff != "" {
		t.Errorf("trace difference (-got +want):\n%s", diff)
	}
}

func TestSPITransportReleasesCSOnError(t *testing.T) {
	tr, log, c := newTraceTransport(0)
	c.err = errors.New("bus fault")

	if err := tr.SendData([]byte{0}); !errors.Is(err, c.err) {
		t.Errorf("SendData() = %v, want %v", err, c.err)
	}

	want := traceLog{"DC=High", "CS=Low", "CS=High"}
	if diff := cmp.Diff(*log, want); diff != "" {
		t.Errorf("trace difference (-got +want):\n%s", diff)
	}
}

func TestSPITransportBusyAndReset(t *testing.T) {
	tr, log, _ := newTraceTransport(0)
	busy := tr.busy.(*gpiotest.Pin)

	if tr.Busy() {
		t.Errorf("Busy() = true with BUSY low")
	}
	busy.L = gpio.High
	if !tr.Busy() {
		t.Errorf("Busy() = false with BUSY high")
	}

	if err := tr.SetReset(gpio.Low); err != nil {
		t.Fatalf("SetReset() failed: %v", err)
	}
	if diff := cmp.Diff(*log, traceLog{"RST=Low"}); diff != "" {
		t.Errorf("trace difference (-got +want):\n%s", diff)
	}
}
