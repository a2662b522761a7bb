// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1677

import (
	"errors"
	"fmt"
)

// Driver line limits of the SSD1677.
const (
	// MaxGateOutputs is the number of gate (row) driver outputs.
	MaxGateOutputs = 800
	// MaxSourceOutputs is the number of source (column) driver outputs.
	MaxSourceOutputs = 960
)

// ErrMissingDimensions is returned by New when the options do not carry panel
// dimensions.
var ErrMissingDimensions = errors.New("ssd1677: dimensions not set")

// InvalidDimensionsError is returned when the requested panel dimensions
// cannot be driven by the controller.
type InvalidDimensionsError struct {
	Rows int
	Cols int
}

func (e *InvalidDimensionsError) Error() string {
	return fmt.Sprintf("ssd1677: invalid dimensions %dx%d (rows 1..%d, cols 8..%d and a multiple of 8)",
		e.Rows, e.Cols, MaxGateOutputs, MaxSourceOutputs)
}

// BufferSizeError is returned when a caller-supplied plane buffer is smaller
// than the panel requires.
type BufferSizeError struct {
	Required int
	Provided int
}

func (e *BufferSizeError) Error() string {
	return fmt.Sprintf("ssd1677: buffer too small: required %d bytes, provided %d", e.Required, e.Provided)
}

// Dimensions is the native size of a panel in pixels. Rows map to the
// controller's gate outputs and Cols to its source outputs. Cols must be a
// multiple of 8 since controller RAM is addressed byte-wise along the source
// axis.
type Dimensions struct {
	Rows int
	Cols int
}

// NewDimensions validates rows and cols against the controller limits.
func NewDimensions(rows, cols int) (Dimensions, error) {
	d := Dimensions{Rows: rows, Cols: cols}
	if err := d.validate(); err != nil {
		return Dimensions{}, err
	}
	return d, nil
}

func (d Dimensions) validate() error {
	if d.Rows < 1 || d.Rows > MaxGateOutputs ||
		d.Cols < 8 || d.Cols > MaxSourceOutputs || d.Cols%8 != 0 {
		return &InvalidDimensionsError{Rows: d.Rows, Cols: d.Cols}
	}
	return nil
}

// BufferSize returns the size in bytes of a single full RAM plane.
func (d Dimensions) BufferSize() int {
	return d.Rows * d.Cols / 8
}

// widthBytes returns the number of bytes covering one row.
func (d Dimensions) widthBytes() int {
	return d.Cols / 8
}

// Rotation maps logical drawing coordinates onto the panel's native
// orientation.
type Rotation uint8

// Valid rotations, clockwise.
const (
	Rotate0 Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

// Opts is the panel configuration.
//
// Dimensions are mandatory. The controller tuning bytes default to the
// datasheet values when left zero; panels needing different waveform or
// voltage settings override them, usually by starting from a preset such as
// EPD4in26.
type Opts struct {
	Dimensions Dimensions
	Rotation   Rotation

	// BoosterSoftStart is the 5-byte payload of the booster soft-start
	// control command.
	BoosterSoftStart [5]byte
	// GateScan selects the gate scanning direction and mode.
	GateScan byte
	// BorderWaveform selects the waveform applied to the panel border.
	BorderWaveform byte
	// VCOM is the common voltage register value.
	VCOM byte
	// DataEntryMode selects the RAM address counter directions. The default
	// 0x01 (X increment, Y decrement) matches the bottom-to-top gate scan.
	DataEntryMode byte
	// TempSensor selects the temperature sensor. 0x80 is the internal one.
	TempSensor byte
}

// EPD4in26 is the configuration for the common 4.26" 800x480 panel
// (e.g. GDEQ0426T82).
var EPD4in26 = Opts{
	Dimensions:       Dimensions{Rows: 480, Cols: 800},
	BoosterSoftStart: [5]byte{0xAE, 0xC7, 0xC3, 0xC0, 0x40},
	GateScan:         0x02,
	BorderWaveform:   0x01,
	VCOM:             0x3C,
	DataEntryMode:    0x01,
	TempSensor:       0x80,
}

// withDefaults returns a copy of o with zero tuning bytes replaced by the
// datasheet defaults.
func (o *Opts) withDefaults() Opts {
	out := *o
	if out.BoosterSoftStart == ([5]byte{}) {
		out.BoosterSoftStart = [5]byte{0xAE, 0xC7, 0xC3, 0xC0, 0x40}
	}
	if out.GateScan == 0 {
		out.GateScan = 0x02
	}
	if out.BorderWaveform == 0 {
		out.BorderWaveform = 0x01
	}
	if out.VCOM == 0 {
		out.VCOM = 0x3C
	}
	if out.DataEntryMode == 0 {
		out.DataEntryMode = 0x01
	}
	if out.TempSensor == 0 {
		out.TempSensor = 0x80
	}
	return out
}
