// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package panelsim provides an in-memory model of an SSD1677-driven e-paper
// panel.
//
// The model interprets the controller command stream byte by byte: RAM
// windows, address counters, data entry modes, plane writes and refresh
// sequencing behave as on real hardware, minus the timing. Combined with the
// bus adapter from NewBus it lets driver code run unmodified against a
// software panel, either in tests or for on-terminal previews via TermView.
package panelsim

import (
	"fmt"
	"image"
	"image/color"
	"sync"
)

// Command opcodes understood by the model.
const (
	cmdDriverOutput   byte = 0x01
	cmdBoosterStart   byte = 0x0C
	cmdDeepSleep      byte = 0x10
	cmdDataEntryMode  byte = 0x11
	cmdSwReset        byte = 0x12
	cmdTempSensor     byte = 0x18
	cmdMasterActivate byte = 0x20
	cmdUpdateCtrl1    byte = 0x21
	cmdUpdateCtrl2    byte = 0x22
	cmdWriteBW        byte = 0x24
	cmdWriteRed       byte = 0x26
	cmdVCOM           byte = 0x2C
	cmdWriteLUT       byte = 0x32
	cmdBorder         byte = 0x3C
	cmdRAMXRange      byte = 0x44
	cmdRAMYRange      byte = 0x45
	cmdAutoWriteBW    byte = 0x46
	cmdAutoWriteRed   byte = 0x47
	cmdRAMXCounter    byte = 0x4E
	cmdRAMYCounter    byte = 0x4F
)

// argLen is the fixed payload length per opcode. Opcodes absent from the map
// take a variable-length data stream.
var argLen = map[byte]int{
	cmdDriverOutput:  3,
	cmdBoosterStart:  5,
	cmdDeepSleep:     1,
	cmdDataEntryMode: 1,
	cmdTempSensor:    1,
	cmdUpdateCtrl1:   1,
	cmdUpdateCtrl2:   1,
	cmdVCOM:          1,
	cmdBorder:        1,
	cmdRAMXRange:     4,
	cmdRAMYRange:     4,
	cmdAutoWriteBW:   1,
	cmdAutoWriteRed:  1,
	cmdRAMXCounter:   2,
	cmdRAMYCounter:   2,
}

// Panel models the controller state machine and panel RAM.
type Panel struct {
	mu sync.Mutex

	rows, cols int

	// Controller RAM planes.
	bw  []byte
	red []byte

	// Frame latched by the last display refresh.
	shownBW  []byte
	shownRed []byte
	// Whether the latched refresh excluded the red plane.
	shownBypassRed bool

	// Command decoding state.
	cur  byte
	args []byte

	// Address window and counters, X in pixels.
	xStart, xEnd int
	yStart, yEnd int
	xCtr, yCtr   int
	dataEntry    byte
	ctrl1, ctrl2 byte
	lut          []byte
	driverOutput [3]byte
	boosterStart [5]byte
	vcom, border byte
	tempSensor   byte

	powered   bool
	sleeping  bool
	refreshes int
}

// New returns a panel model with the given native geometry.
func New(rows, cols int) (*Panel, error) {
	if rows < 1 || cols < 8 || cols%8 != 0 {
		return nil, fmt.Errorf("panelsim: unsupported geometry %dx%d", rows, cols)
	}
	p := &Panel{
		rows:     rows,
		cols:     cols,
		bw:       make([]byte, rows*cols/8),
		red:      make([]byte, rows*cols/8),
		shownBW:  make([]byte, rows*cols/8),
		shownRed: make([]byte, rows*cols/8),
	}
	p.reset()
	// An unrefreshed e-paper panel shows whatever it held last; start white.
	for i := range p.shownBW {
		p.shownBW[i] = 0xFF
	}
	return p, nil
}

// reset restores the post-reset register state. RAM is preserved, matching
// hardware.
func (p *Panel) reset() {
	p.cur = 0
	p.args = nil
	p.xStart, p.xEnd = 0, p.cols-1
	p.yStart, p.yEnd = 0, p.rows-1
	p.xCtr, p.yCtr = 0, 0
	p.dataEntry = 0x03
	p.ctrl1, p.ctrl2 = 0, 0
	p.powered = false
	p.sleeping = false
}

// HardReset emulates a reset pulse on the RST line. It is the only way out
// of deep sleep.
func (p *Panel) HardReset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
}

// Command feeds one command opcode to the model.
func (p *Panel) Command(cmd byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sleeping {
		return
	}

	p.cur = cmd
	p.args = p.args[:0]

	switch cmd {
	case cmdSwReset:
		p.reset()
	case cmdMasterActivate:
		p.activate()
	}
}

// Data feeds payload bytes for the current command to the model.
func (p *Panel) Data(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sleeping {
		return
	}

	switch p.cur {
	case cmdWriteBW:
		for _, b := range data {
			p.writeRAM(p.bw, b)
		}
		return
	case cmdWriteRed:
		for _, b := range data {
			p.writeRAM(p.red, b)
		}
		return
	case cmdWriteLUT:
		p.lut = append(p.lut, data...)
		return
	}

	need, ok := argLen[p.cur]
	if !ok {
		return
	}
	p.args = append(p.args, data...)
	if len(p.args) < need {
		return
	}
	p.applyArgs()
}

func le16(lo, hi byte) int {
	return int(lo) | int(hi)<<8
}

func (p *Panel) applyArgs() {
	a := p.args
	switch p.cur {
	case cmdDriverOutput:
		copy(p.driverOutput[:], a)
	case cmdBoosterStart:
		copy(p.boosterStart[:], a)
	case cmdDeepSleep:
		if a[0] != 0 {
			p.sleeping = true
			p.powered = false
		}
	case cmdDataEntryMode:
		p.dataEntry = a[0]
	case cmdTempSensor:
		p.tempSensor = a[0]
	case cmdUpdateCtrl1:
		p.ctrl1 = a[0]
	case cmdUpdateCtrl2:
		p.ctrl2 = a[0]
	case cmdVCOM:
		p.vcom = a[0]
	case cmdBorder:
		p.border = a[0]
	case cmdRAMXRange:
		p.xStart = le16(a[0], a[1])
		p.xEnd = le16(a[2], a[3])
		p.xCtr = p.xStart
	case cmdRAMYRange:
		p.yStart = le16(a[0], a[1])
		p.yEnd = le16(a[2], a[3])
		p.yCtr = p.yStart
	case cmdAutoWriteBW:
		for i := range p.bw {
			p.bw[i] = 0xFF
		}
	case cmdAutoWriteRed:
		for i := range p.red {
			p.red[i] = 0x00
		}
	case cmdRAMXCounter:
		p.xCtr = le16(a[0], a[1])
	case cmdRAMYCounter:
		p.yCtr = le16(a[0], a[1])
	}
	p.args = p.args[:0]
}

// writeRAM stores one byte at the current address counters and advances
// them according to the data entry mode.
func (p *Panel) writeRAM(plane []byte, b byte) {
	if p.yCtr >= 0 && p.yCtr < p.rows && p.xCtr >= 0 && p.xCtr < p.cols {
		plane[p.yCtr*(p.cols/8)+p.xCtr/8] = b
	}

	p.xCtr += 8
	past := p.xCtr > p.xEnd
	if p.xEnd < p.xStart {
		past = p.xCtr < p.xEnd
	}
	if past {
		p.xCtr = p.xStart
		if p.dataEntry&0x02 != 0 {
			p.yCtr++
		} else {
			p.yCtr--
		}
	}
}

// activate runs a master activation with the mode previously loaded through
// update control 2.
func (p *Panel) activate() {
	mode := p.ctrl2

	if mode&(0x40|0x80) != 0 {
		p.powered = true
	}
	if mode&0x04 != 0 && p.powered {
		copy(p.shownBW, p.bw)
		copy(p.shownRed, p.red)
		p.shownBypassRed = p.ctrl1&0x40 != 0
		p.refreshes++
	}
	if mode&(0x01|0x02) != 0 {
		p.powered = false
	}
}

// Refreshes returns the number of display refreshes performed.
func (p *Panel) Refreshes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refreshes
}

// Powered reports whether the analog supply is up.
func (p *Panel) Powered() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.powered
}

// Asleep reports whether the controller is in deep sleep.
func (p *Panel) Asleep() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sleeping
}

// LUT returns the custom waveform table loaded since the last reset, nil if
// none.
func (p *Panel) LUT() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.lut...)
}

var (
	colorWhite = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	colorBlack = color.RGBA{A: 0xFF}
	colorRed   = color.RGBA{R: 0xFF, A: 0xFF}
)

// Image renders the frame shown on the panel, that is the state latched by
// the most recent refresh.
//
// Gate scanning runs bottom to top, so RAM row r appears on screen row
// rows-1-r.
func (p *Panel) Image() *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, p.cols, p.rows))
	widthBytes := p.cols / 8
	for ry := 0; ry < p.rows; ry++ {
		sy := p.rows - 1 - ry
		for x := 0; x < p.cols; x++ {
			idx := ry*widthBytes + x/8
			mask := byte(0x80) >> (x % 8)

			c := colorBlack
			switch {
			case !p.shownBypassRed && p.shownRed[idx]&mask != 0:
				c = colorRed
			case p.shownBW[idx]&mask != 0:
				c = colorWhite
			}
			img.SetRGBA(x, sy, c)
		}
	}
	return img
}
