// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ed2208

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// Transport is the link to the controller.
//
// Every SendCommand and SendData call is framed by its own chip select
// assertion. Implementations must not merge a command and its data into one
// transfer.
type Transport interface {
	// SendCommand transmits a single opcode with the data/command line low.
	SendCommand(cmd Command) error
	// SendData transmits data as one contiguous burst with the data/command
	// line high.
	SendData(data []byte) error
	// Busy reports whether the controller asserts its BUSY line.
	Busy() bool
	// SetReset drives the active low reset line.
	SetReset(l gpio.Level) error
}

// spiTransport implements Transport over a 4-wire SPI link.
type spiTransport struct {
	c conn.Conn

	dc   gpio.PinOut
	cs   gpio.PinOut
	rst  gpio.PinOut
	busy gpio.PinIn
}

func (t *spiTransport) SendCommand(cmd Command) error {
	return t.tx(gpio.Low, []byte{byte(cmd)})
}

func (t *spiTransport) SendData(data []byte) error {
	return t.tx(gpio.High, data)
}

func (t *spiTransport) Busy() bool {
	return t.busy.Read() == gpio.High
}

func (t *spiTransport) SetReset(l gpio.Level) error {
	return t.rst.Out(l)
}

// tx sends w within a single chip select assertion. Transfers larger than
// what the bus accepts at once are split while chip select stays low.
func (t *spiTransport) tx(dc gpio.Level, w []byte) error {
	eh := txErrorHandler{t: t}

	eh.dcOut(dc)
	eh.csOut(gpio.Low)

	chunk := len(w)
	if l, ok := t.c.(conn.Limits); ok {
		if limit := l.MaxTxSize(); limit > 0 && limit < chunk {
			chunk = limit
		}
	}
	for len(w) > 0 {
		n := chunk
		if n > len(w) {
			n = len(w)
		}
		eh.cTx(w[:n], nil)
		w = w[n:]
	}

	// Release the controller even if the transfer failed.
	if err := t.cs.Out(gpio.High); eh.err == nil {
		eh.err = err
	}

	return eh.err
}

func (t *spiTransport) String() string {
	return fmt.Sprintf("%s, %s", t.c, t.dc)
}

// txErrorHandler is a wrapper for error management of a single transfer.
type txErrorHandler struct {
	t   *spiTransport
	err error
}

func (eh *txErrorHandler) cTx(w []byte, r []byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.t.c.Tx(w, r)
}

func (eh *txErrorHandler) dcOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.t.dc.Out(l)
}

func (eh *txErrorHandler) csOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.t.cs.Out(l)
}

var _ Transport = &spiTransport{}
