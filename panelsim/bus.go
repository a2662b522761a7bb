// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package panelsim

import (
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Bus connects a Panel to driver code expecting an SPI port and control
// pins. Bytes written over the port are routed to Command or Data depending
// on the DC line, a rising edge on RST hard-resets the panel, and Busy stays
// released since the model completes everything instantly.
type Bus struct {
	panel *Panel

	// DC is the data/command select line.
	DC *gpiotest.Pin
	// RST is the active-low reset line.
	RST gpio.PinOut
	// Busy is the busy output, always idle.
	Busy *gpiotest.Pin
}

// NewBus returns a bus adapter for the given panel.
func NewBus(p *Panel) *Bus {
	b := &Bus{
		panel: p,
		DC:    &gpiotest.Pin{N: "SIM_DC"},
		Busy:  &gpiotest.Pin{N: "SIM_BUSY", EdgesChan: make(chan gpio.Level, 1)},
	}
	b.RST = &resetPin{
		Pin:   gpiotest.Pin{N: "SIM_RST", L: gpio.High},
		panel: p,
	}
	return b
}

// String implements spi.Port.
func (b *Bus) String() string {
	return "panelsim"
}

// Connect implements spi.Port.
func (b *Bus) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	return &busConn{bus: b}, nil
}

// resetPin triggers a panel hard reset on the rising edge.
type resetPin struct {
	gpiotest.Pin
	panel *Panel
}

func (r *resetPin) Out(l gpio.Level) error {
	prev := r.Pin.L
	if err := r.Pin.Out(l); err != nil {
		return err
	}
	if prev == gpio.Low && l == gpio.High {
		r.panel.HardReset()
	}
	return nil
}

type busConn struct {
	bus *Bus
}

// String implements conn.Conn.
func (c *busConn) String() string {
	return "panelsim"
}

// Tx implements conn.Conn, routing on the DC line level.
func (c *busConn) Tx(w, r []byte) error {
	if c.bus.DC.L == gpio.High {
		c.bus.panel.Data(w)
		return nil
	}
	for _, b := range w {
		c.bus.panel.Command(b)
	}
	return nil
}

// Duplex implements conn.Conn.
func (c *busConn) Duplex() conn.Duplex {
	return conn.Half
}

// TxPackets implements spi.Conn.
func (c *busConn) TxPackets(p []spi.Packet) error {
	for i := range p {
		if err := c.Tx(p[i].W, p[i].R); err != nil {
			return err
		}
	}
	return nil
}

var _ spi.Port = &Bus{}
var _ spi.Conn = &busConn{}
