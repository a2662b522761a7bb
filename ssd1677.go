// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1677

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3/rpi"
)

// LUT contains a custom waveform lookup table. The SSD1677 OTP tables are
// used unless one is loaded explicitly through Dev.LoadLUT.
type LUT []byte

// Dev is a handle to an SSD1677-driven panel.
type Dev struct {
	c conn.Conn

	dc   gpio.PinOut
	rst  gpio.PinOut
	busy gpio.PinIn

	opts Opts

	// powered tracks whether the analog supply and oscillator are up.
	// Refresh requests power-up only when they are not.
	powered bool

	frame *FrameBuffer
	// lastBW and lastRed hold the planes of the most recent frame sent,
	// nil until the first Draw or Clear after Init.
	lastBW  []byte
	lastRed []byte
}

// New opens a handle to the panel over the given SPI port and control pins.
//
// dc selects between command and data bytes, rst is the active-low hardware
// reset and busy is the controller's busy output. Chip select is expected to
// be handled by the SPI port itself.
func New(p spi.Port, dc, rst gpio.PinOut, busy gpio.PinIn, opts *Opts) (*Dev, error) {
	if opts.Dimensions == (Dimensions{}) {
		return nil, ErrMissingDimensions
	}
	if err := opts.Dimensions.validate(); err != nil {
		return nil, err
	}

	c, err := p.Connect(5*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}

	o := opts.withDefaults()
	d := &Dev{
		c:     c,
		dc:    dc,
		rst:   rst,
		busy:  busy,
		opts:  o,
		frame: NewFrameBuffer(o.Dimensions, o.Rotation),
	}

	return d, nil
}

// NewHat opens a handle using the default pin assignment of the Waveshare
// e-paper hats for the Raspberry Pi.
func NewHat(p spi.Port, opts *Opts) (*Dev, error) {
	dc := rpi.P1_22
	rst := rpi.P1_11
	busy := rpi.P1_18
	return New(p, dc, rst, busy, opts)
}

// Dimensions returns the native panel dimensions.
func (d *Dev) Dimensions() Dimensions {
	return d.opts.Dimensions
}

// Rotation returns the configured drawing rotation.
func (d *Dev) Rotation() Rotation {
	return d.opts.Rotation
}

// Init performs a hardware reset followed by the controller configuration
// sequence and a RAM clear. It must be called before the first update and
// again to wake the panel from deep sleep.
func (d *Dev) Init() error {
	eh := errorHandler{d: d}

	eh.rstOut(gpio.Low)
	time.Sleep(10 * time.Millisecond)
	eh.rstOut(gpio.High)
	time.Sleep(10 * time.Millisecond)
	eh.waitUntilIdle()

	initDisplay(&eh, &d.opts)
	clearRAM(&eh)

	if eh.err == nil {
		d.powered = false
		d.lastBW = nil
		d.lastRed = nil
	}
	return eh.err
}

// checkPlanes validates caller-supplied plane buffers against the required
// size.
func checkPlanes(required int, planes ...[]byte) error {
	for _, p := range planes {
		if len(p) < required {
			return &BufferSizeError{Required: required, Provided: len(p)}
		}
	}
	return nil
}

// Update writes full BW and red planes to controller RAM and refreshes the
// panel. Both buffers must hold at least BufferSize bytes; extra bytes are
// ignored.
func (d *Dev) Update(bw, red []byte) error {
	size := d.opts.Dimensions.BufferSize()
	if err := checkPlanes(size, bw, red); err != nil {
		return err
	}

	eh := errorHandler{d: d}
	// Normal mode: the red plane contributes to the refresh instead of
	// being bypassed.
	eh.sendCommand(displayUpdateControl1)
	eh.sendData([]byte{0x00})
	setUpdateWindow(&eh, &d.opts, 0, 0, d.opts.Dimensions.Cols, d.opts.Dimensions.Rows)

	sendPlane(&eh, writeRAMBW, bw[:size], d.opts.Dimensions.widthBytes())
	sendPlane(&eh, writeRAMRed, red[:size], d.opts.Dimensions.widthBytes())

	return d.refresh(&eh, false)
}

// sendPlane writes plane data one row per transfer to stay below SPI
// transfer size limits.
func sendPlane(eh *errorHandler, cmd byte, data []byte, widthBytes int) {
	eh.sendCommand(cmd)
	for off := 0; off < len(data); off += widthBytes {
		eh.sendData(data[off : off+widthBytes])
	}
}

// UpdateRegion writes region-sized BW and red plane fragments into the RAM
// window described by r and refreshes the panel. The fragments are laid out
// as r.Height() rows of r.WidthBytes() bytes, as produced by ExtractRegion.
func (d *Dev) UpdateRegion(r DiffRegion, bw, red []byte) error {
	if r.Changed == 0 {
		return nil
	}
	size := r.ByteCount()
	if err := checkPlanes(size, bw, red); err != nil {
		return err
	}

	eh := errorHandler{d: d}
	eh.sendCommand(displayUpdateControl1)
	eh.sendData([]byte{0x00})
	setUpdateWindow(&eh, &d.opts, r.XPixels(), r.YPixels(), r.WidthPixels(), r.HeightPixels())

	sendPlane(&eh, writeRAMBW, bw[:size], r.WidthBytes())
	sendPlane(&eh, writeRAMRed, red[:size], r.WidthBytes())

	return d.refresh(&eh, false)
}

// FullRefresh refreshes the whole panel from the RAM planes already loaded,
// excluding the red plane from the waveform selection.
func (d *Dev) FullRefresh() error {
	eh := errorHandler{d: d}

	eh.sendCommand(displayUpdateControl1)
	eh.sendData([]byte{displayUpdateBypassRed})

	return d.refresh(&eh, false)
}

// Refresh runs a display refresh cycle from RAM. With turnOff the analog
// supply and oscillator are shut down once the refresh completes.
func (d *Dev) Refresh(turnOff bool) error {
	eh := errorHandler{d: d}
	return d.refresh(&eh, turnOff)
}

func (d *Dev) refresh(eh *errorHandler, turnOff bool) error {
	mode := refreshMode(d.powered, turnOff)
	refreshDisplay(eh, mode)
	if eh.err == nil {
		d.powered = !turnOff
	}
	return eh.err
}

// LoadLUT loads a custom waveform lookup table, overriding the OTP waveform
// for subsequent refreshes. SSD1677 tables are 112 bytes.
func (d *Dev) LoadLUT(lut LUT) error {
	eh := errorHandler{d: d}
	eh.sendCommand(writeLutRegister)
	eh.sendData(lut)
	return eh.err
}

// DeepSleep puts the controller into its lowest power state. Only Init can
// wake it up again.
func (d *Dev) DeepSleep() error {
	eh := errorHandler{d: d}

	if d.powered {
		powerOff(&eh)
		if eh.err != nil {
			return eh.err
		}
		d.powered = false
	}

	eh.sendCommand(deepSleepMode)
	eh.sendData([]byte{deepSleepEnter})
	return eh.err
}

// Clear fills the panel with the given color and refreshes it.
func (d *Dev) Clear(c Color) error {
	d.frame.Fill(c)
	return d.flush()
}

// Draw rasterizes src into the internal frame buffer and sends the smallest
// changed region to the panel. The first Draw after Init transfers the full
// frame.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	draw.Src.Draw(d.frame, dstRect, src, srcPts)
	return d.flush()
}

func (d *Dev) flush() error {
	bw, red := d.frame.Planes()

	if d.lastBW == nil {
		if err := d.Update(bw, red); err != nil {
			return err
		}
		d.lastBW = append([]byte(nil), bw...)
		d.lastRed = append([]byte(nil), red...)
		return nil
	}

	dims := d.opts.Dimensions
	rBW, _ := ComputeDiff(bw, d.lastBW, dims.widthBytes(), dims.Rows)
	rRed, _ := ComputeDiff(red, d.lastRed, dims.widthBytes(), dims.Rows)
	r := rBW.Union(rRed)
	if r.Changed == 0 {
		return nil
	}

	bwRegion := ExtractRegion(bw, dims.widthBytes(), r, nil)
	redRegion := ExtractRegion(red, dims.widthBytes(), r, nil)
	if err := d.UpdateRegion(r, bwRegion, redRegion); err != nil {
		return err
	}

	copy(d.lastBW, bw)
	copy(d.lastRed, red)
	return nil
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return Model
}

// Bounds returns the drawing bounds, accounting for rotation.
func (d *Dev) Bounds() image.Rectangle {
	w, h := d.frame.Size()
	return image.Rect(0, 0, w, h)
}

// Halt puts the panel into deep sleep.
func (d *Dev) Halt() error {
	return d.DeepSleep()
}

// String implements conn.Resource.
func (d *Dev) String() string {
	return fmt.Sprintf("ssd1677.Dev{%s, %s, Rows: %d, Cols: %d}", d.c, d.dc, d.opts.Dimensions.Rows, d.opts.Dimensions.Cols)
}

var _ display.Drawer = &Dev{}
var _ conn.Resource = &Dev{}
