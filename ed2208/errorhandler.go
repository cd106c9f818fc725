// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ed2208

import "periph.io/x/conn/v3/gpio"

// errorHandler is a wrapper for error management. Once an operation failed
// nothing else is sent to the controller.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.t.SetReset(l)
}

func (eh *errorHandler) sendCommand(cmd Command) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.t.SendCommand(cmd)
}

func (eh *errorHandler) sendData(data []byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.t.SendData(data)
}

func (eh *errorHandler) waitUntilIdle() {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.waitIdle()
}

var _ controller = &errorHandler{}
