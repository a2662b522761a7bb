// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1677

import (
	"image"
	"image/color"
)

// Color is a pixel value on a bi-color panel.
type Color uint8

// Colors the panel can show.
const (
	Black Color = iota
	White
	Red
)

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	switch c {
	case White:
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	case Red:
		return 0xFFFF, 0, 0, 0xFFFF
	default:
		return 0, 0, 0, 0xFFFF
	}
}

// Model maps arbitrary colors onto the panel palette. Strongly red colors
// become Red, everything else is thresholded on luminance.
var Model = color.ModelFunc(func(c color.Color) color.Color {
	if co, ok := c.(Color); ok {
		return co
	}
	r, g, b, _ := c.RGBA()
	if r >= 0x8000 && r/2 > g && r/2 > b {
		return Red
	}
	// Rec. 601 luma.
	y := (299*r + 587*g + 114*b) / 1000
	if y >= 0x8000 {
		return White
	}
	return Black
})

// FrameBuffer holds the BW and red bit planes for one frame in the
// controller's native layout: row-major, MSB-first within each byte.
// Drawing goes through the configured rotation so callers work in logical
// coordinates.
type FrameBuffer struct {
	dims Dimensions
	rot  Rotation
	bw   []byte
	red  []byte
}

// NewFrameBuffer returns a frame buffer for the given panel geometry,
// initialized to all white.
func NewFrameBuffer(dims Dimensions, rot Rotation) *FrameBuffer {
	fb := &FrameBuffer{
		dims: dims,
		rot:  rot,
		bw:   make([]byte, dims.BufferSize()),
		red:  make([]byte, dims.BufferSize()),
	}
	fb.Fill(White)
	return fb
}

// Size returns the logical width and height, swapping axes for the sideways
// rotations.
func (fb *FrameBuffer) Size() (int, int) {
	switch fb.rot {
	case Rotate90, Rotate270:
		return fb.dims.Rows, fb.dims.Cols
	default:
		return fb.dims.Cols, fb.dims.Rows
	}
}

// Planes returns the backing BW and red plane buffers.
func (fb *FrameBuffer) Planes() ([]byte, []byte) {
	return fb.bw, fb.red
}

// pixelPosition maps logical coordinates to the native byte index and bit
// mask. ok is false when the pixel falls outside the panel.
func (fb *FrameBuffer) pixelPosition(x, y int) (idx int, mask byte, ok bool) {
	var nx, ny int
	switch fb.rot {
	case Rotate90:
		nx, ny = fb.dims.Cols-1-y, x
	case Rotate180:
		nx, ny = fb.dims.Cols-1-x, fb.dims.Rows-1-y
	case Rotate270:
		nx, ny = y, fb.dims.Rows-1-x
	default:
		nx, ny = x, y
	}
	if nx < 0 || nx >= fb.dims.Cols || ny < 0 || ny >= fb.dims.Rows {
		return 0, 0, false
	}
	return ny*fb.dims.widthBytes() + nx/8, 0x80 >> (nx % 8), true
}

// SetPixel sets a single pixel. Out-of-bounds coordinates are ignored.
func (fb *FrameBuffer) SetPixel(x, y int, c Color) {
	idx, mask, ok := fb.pixelPosition(x, y)
	if !ok {
		return
	}
	switch c {
	case White:
		fb.bw[idx] |= mask
		fb.red[idx] &^= mask
	case Red:
		fb.bw[idx] |= mask
		fb.red[idx] |= mask
	default:
		fb.bw[idx] &^= mask
		fb.red[idx] &^= mask
	}
}

// Pixel returns the color at the given logical coordinates, Black when out
// of bounds.
func (fb *FrameBuffer) Pixel(x, y int) Color {
	idx, mask, ok := fb.pixelPosition(x, y)
	if !ok {
		return Black
	}
	if fb.red[idx]&mask != 0 {
		return Red
	}
	if fb.bw[idx]&mask != 0 {
		return White
	}
	return Black
}

// Fill sets every pixel to the given color.
func (fb *FrameBuffer) Fill(c Color) {
	var bw, red byte
	switch c {
	case White:
		bw, red = 0xFF, 0x00
	case Red:
		bw, red = 0xFF, 0xFF
	default:
		bw, red = 0x00, 0x00
	}
	for i := range fb.bw {
		fb.bw[i] = bw
		fb.red[i] = red
	}
}

// ColorModel implements image.Image.
func (fb *FrameBuffer) ColorModel() color.Model {
	return Model
}

// Bounds implements image.Image.
func (fb *FrameBuffer) Bounds() image.Rectangle {
	w, h := fb.Size()
	return image.Rect(0, 0, w, h)
}

// At implements image.Image.
func (fb *FrameBuffer) At(x, y int) color.Color {
	return fb.Pixel(x, y)
}

// Set implements draw.Image.
func (fb *FrameBuffer) Set(x, y int, c color.Color) {
	fb.SetPixel(x, y, Model.Convert(c).(Color))
}
