// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1677

import (
	"errors"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// ErrBusyTimeout is returned when the busy line does not release within the
// polling ceiling (roughly 30 seconds). A full refresh takes a few seconds,
// so hitting this points to a wiring or power problem.
var ErrBusyTimeout = errors.New("ssd1677: timeout waiting for busy pin")

const (
	busyPollInterval = time.Millisecond
	busyTimeoutPolls = 30000
)

// errorHandler is a wrapper for error management: the first failure sticks
// and short-circuits all subsequent steps of a sequence.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.rst.Out(l)
}

func (eh *errorHandler) cTx(w []byte, r []byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.c.Tx(w, r)
}

func (eh *errorHandler) dcOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.dc.Out(l)
}

func (eh *errorHandler) sendCommand(cmd byte) {
	if eh.err != nil {
		return
	}

	eh.dcOut(gpio.Low)
	eh.cTx([]byte{cmd}, nil)
}

func (eh *errorHandler) sendData(data []byte) {
	if eh.err != nil {
		return
	}

	eh.dcOut(gpio.High)
	eh.cTx(data, nil)
}

func (eh *errorHandler) waitUntilIdle() {
	if eh.err != nil {
		return
	}

	for i := 0; eh.d.busy.Read() == gpio.High; i++ {
		if i >= busyTimeoutPolls {
			eh.err = ErrBusyTimeout
			return
		}
		time.Sleep(busyPollInterval)
	}
}
