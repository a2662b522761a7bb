// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package panelsim

import (
	"image/color"
	"testing"
)

// sendAll drives a command with its payload.
func sendAll(p *Panel, cmd byte, data ...byte) {
	p.Command(cmd)
	if len(data) > 0 {
		p.Data(data)
	}
}

// refresh runs a power-up display refresh.
func refresh(p *Panel) {
	sendAll(p, cmdUpdateCtrl2, 0xF4)
	p.Command(cmdMasterActivate)
}

func TestNewGeometry(t *testing.T) {
	if _, err := New(8, 16); err != nil {
		t.Errorf("New(8, 16) failed: %v", err)
	}
	for _, tc := range []struct{ rows, cols int }{
		{0, 16},
		{8, 0},
		{8, 12},
	} {
		if _, err := New(tc.rows, tc.cols); err == nil {
			t.Errorf("New(%d, %d) succeeded, want error", tc.rows, tc.cols)
		}
	}
}

func TestPanelShowsWhiteInitially(t *testing.T) {
	p, err := New(8, 16)
	if err != nil {
		t.Fatal(err)
	}

	img := p.Image()
	if got := img.RGBAAt(0, 0); got != colorWhite {
		t.Errorf("fresh panel pixel (0,0) = %v, want white", got)
	}
}

func TestPanelFullWrite(t *testing.T) {
	p, err := New(8, 16)
	if err != nil {
		t.Fatal(err)
	}

	sendAll(p, cmdDataEntryMode, 0x01)
	sendAll(p, cmdRAMXRange, 0, 0, 15, 0)
	sendAll(p, cmdRAMYRange, 7, 0, 0, 0)
	sendAll(p, cmdRAMXCounter, 0, 0)
	sendAll(p, cmdRAMYCounter, 7, 0)

	// 8 rows of 2 bytes, all black.
	p.Command(cmdWriteBW)
	p.Data(make([]byte, 16))

	if p.Refreshes() != 0 {
		t.Fatalf("Refreshes() = %d before activation, want 0", p.Refreshes())
	}

	refresh(p)

	if p.Refreshes() != 1 {
		t.Errorf("Refreshes() = %d, want 1", p.Refreshes())
	}
	if !p.Powered() {
		t.Error("Powered() = false after power-up refresh")
	}

	img := p.Image()
	for _, pt := range []struct{ x, y int }{{0, 0}, {15, 0}, {0, 7}, {15, 7}, {8, 4}} {
		if got := img.RGBAAt(pt.x, pt.y); got != colorBlack {
			t.Errorf("pixel (%d,%d) = %v, want black", pt.x, pt.y, got)
		}
	}
}

func TestPanelPartialWindow(t *testing.T) {
	p, err := New(16, 16)
	if err != nil {
		t.Fatal(err)
	}

	// Start from a refreshed all-white panel.
	sendAll(p, cmdAutoWriteBW, 0xF7)
	sendAll(p, cmdAutoWriteRed, 0xF7)
	refresh(p)

	// Black band on screen rows 4..7: RAM rows 11..8 with bottom-up gates.
	sendAll(p, cmdDataEntryMode, 0x01)
	sendAll(p, cmdRAMXRange, 8, 0, 15, 0)
	sendAll(p, cmdRAMYRange, 11, 0, 8, 0)
	sendAll(p, cmdRAMXCounter, 8, 0)
	sendAll(p, cmdRAMYCounter, 11, 0)
	p.Command(cmdWriteBW)
	p.Data([]byte{0x00, 0x00, 0x00, 0x00})
	refresh(p)

	img := p.Image()
	for y := 4; y <= 7; y++ {
		if got := img.RGBAAt(8, y); got != colorBlack {
			t.Errorf("pixel (8,%d) = %v, want black", y, got)
		}
	}
	if got := img.RGBAAt(0, 4); got != colorWhite {
		t.Errorf("pixel (0,4) = %v, want white (outside window)", got)
	}
	if got := img.RGBAAt(8, 3); got != colorWhite {
		t.Errorf("pixel (8,3) = %v, want white (above window)", got)
	}
	if got := img.RGBAAt(8, 8); got != colorWhite {
		t.Errorf("pixel (8,8) = %v, want white (below window)", got)
	}
}

func TestPanelRedPlane(t *testing.T) {
	p, err := New(8, 16)
	if err != nil {
		t.Fatal(err)
	}

	sendAll(p, cmdAutoWriteBW, 0xF7)
	sendAll(p, cmdDataEntryMode, 0x01)
	sendAll(p, cmdRAMXRange, 0, 0, 15, 0)
	sendAll(p, cmdRAMYRange, 7, 0, 0, 0)
	sendAll(p, cmdRAMXCounter, 0, 0)
	sendAll(p, cmdRAMYCounter, 7, 0)
	p.Command(cmdWriteRed)
	red := make([]byte, 16)
	red[0] = 0x80
	p.Data(red)
	refresh(p)

	// RAM row 7, bit 0 shows at screen (0, 0).
	img := p.Image()
	if got := img.RGBAAt(0, 0); got != colorRed {
		t.Errorf("pixel (0,0) = %v, want red", got)
	}
	if got := img.RGBAAt(1, 0); got != colorWhite {
		t.Errorf("pixel (1,0) = %v, want white", got)
	}

	// With the red plane bypassed the same refresh shows white.
	sendAll(p, cmdUpdateCtrl1, 0x40)
	refresh(p)
	img = p.Image()
	if got := img.RGBAAt(0, 0); got != colorWhite {
		t.Errorf("pixel (0,0) with red bypassed = %v, want white", got)
	}
}

func TestPanelDeepSleep(t *testing.T) {
	p, err := New(8, 16)
	if err != nil {
		t.Fatal(err)
	}

	sendAll(p, cmdDeepSleep, 0x01)
	if !p.Asleep() {
		t.Fatal("Asleep() = false after deep sleep command")
	}

	// Commands are ignored while asleep.
	refresh(p)
	if p.Refreshes() != 0 {
		t.Errorf("Refreshes() = %d while asleep, want 0", p.Refreshes())
	}

	p.HardReset()
	if p.Asleep() {
		t.Error("Asleep() = true after hard reset")
	}
	refresh(p)
	if p.Refreshes() != 1 {
		t.Errorf("Refreshes() = %d after wake, want 1", p.Refreshes())
	}
}

func TestPanelPowerDown(t *testing.T) {
	p, err := New(8, 16)
	if err != nil {
		t.Fatal(err)
	}

	refresh(p)
	if !p.Powered() {
		t.Fatal("Powered() = false after power-up refresh")
	}

	// Disable clock and analog without a display cycle.
	sendAll(p, cmdUpdateCtrl2, 0x03)
	p.Command(cmdMasterActivate)

	if p.Powered() {
		t.Error("Powered() = true after power-down activation")
	}
	if p.Refreshes() != 1 {
		t.Errorf("Refreshes() = %d, want 1", p.Refreshes())
	}
}

func TestPanelLUT(t *testing.T) {
	p, err := New(8, 16)
	if err != nil {
		t.Fatal(err)
	}

	lut := make([]byte, 112)
	for i := range lut {
		lut[i] = byte(i)
	}
	p.Command(cmdWriteLUT)
	p.Data(lut[:56])
	p.Data(lut[56:])

	got := p.LUT()
	if len(got) != 112 || got[0] != 0 || got[111] != 111 {
		t.Errorf("LUT() = %d bytes, first %d, last %d", len(got), got[0], got[len(got)-1])
	}
}

func TestImageColors(t *testing.T) {
	want := []color.RGBA{colorBlack, colorWhite, colorRed}
	for i, c := range want {
		if c.A != 0xFF {
			t.Errorf("palette color %d is not opaque: %v", i, c)
		}
	}
}
