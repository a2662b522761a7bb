// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1677

// SSD1677 command set.
const (
	driverOutputControl   byte = 0x01
	gateDrivingVoltage    byte = 0x03
	sourceDrivingVoltage  byte = 0x04
	boosterSoftStart      byte = 0x0C
	deepSleepMode         byte = 0x10
	dataEntryModeSetting  byte = 0x11
	swReset               byte = 0x12
	tempSensorControl     byte = 0x18
	masterActivation      byte = 0x20
	displayUpdateControl1 byte = 0x21
	displayUpdateControl2 byte = 0x22
	writeRAMBW            byte = 0x24
	writeRAMRed           byte = 0x26
	writeVcomRegister     byte = 0x2C
	writeLutRegister      byte = 0x32
	borderWaveformControl byte = 0x3C
	setRAMXAddressRange   byte = 0x44
	setRAMYAddressRange   byte = 0x45
	autoWriteRAMRed       byte = 0x47
	autoWriteRAMBW        byte = 0x46
	setRAMXAddressCounter byte = 0x4E
	setRAMYAddressCounter byte = 0x4F
)

// Flags for the displayUpdateControl2 command.
const (
	displayUpdateDisableClock  byte = 1 << iota // 0x01
	displayUpdateDisableAnalog                  // 0x02
	displayUpdateDisplay                        // 0x04
	displayUpdateMode2                          // 0x08
	displayUpdateLoadLUTFromOTP                 // 0x10
	displayUpdateLoadTemperature                // 0x20
	displayUpdateEnableClock                    // 0x40
	displayUpdateEnableAnalog                   // 0x80
)

// Flags for the displayUpdateControl1 command.
const (
	// displayUpdateBypassRed excludes the red plane from the refresh so it
	// can serve as the compare mask instead.
	displayUpdateBypassRed byte = 0x40
)

// deepSleepEnter is the deepSleepMode payload retaining RAM.
const deepSleepEnter byte = 0x01

// autoWritePattern fills a RAM plane with alternating height/width steps of
// 0xFF (datasheet "step height 7, step width 7").
const autoWritePattern byte = 0xF7

type controller interface {
	sendCommand(byte)
	sendData([]byte)
	waitUntilIdle()
}

// lowHigh splits a 16-bit value into the low/high byte order the controller
// expects.
func lowHigh(v int) (byte, byte) {
	return byte(v % 256), byte(v / 256)
}

func initDisplay(ctrl controller, opts *Opts) {
	ctrl.sendCommand(swReset)
	ctrl.waitUntilIdle()

	ctrl.sendCommand(tempSensorControl)
	ctrl.sendData([]byte{opts.TempSensor})

	ctrl.sendCommand(boosterSoftStart)
	ctrl.sendData(opts.BoosterSoftStart[:])

	lo, hi := lowHigh(opts.Dimensions.Rows - 1)
	ctrl.sendCommand(driverOutputControl)
	ctrl.sendData([]byte{lo, hi, opts.GateScan})

	ctrl.sendCommand(borderWaveformControl)
	ctrl.sendData([]byte{opts.BorderWaveform})

	ctrl.sendCommand(writeVcomRegister)
	ctrl.sendData([]byte{opts.VCOM})
}

// clearRAM resets both controller RAM planes through the auto-write
// commands. The BW plane becomes all white, the red plane all clear.
func clearRAM(ctrl controller) {
	ctrl.sendCommand(autoWriteRAMBW)
	ctrl.sendData([]byte{autoWritePattern})
	ctrl.waitUntilIdle()

	ctrl.sendCommand(autoWriteRAMRed)
	ctrl.sendData([]byte{autoWritePattern})
	ctrl.waitUntilIdle()
}

// setUpdateWindow programs the RAM window and address counters for a write
// covering the given pixel rectangle. x and w must be multiples of 8.
//
// Gate scanning runs bottom to top, so the Y range is expressed in reversed
// coordinates with start above end.
func setUpdateWindow(ctrl controller, opts *Opts, x, y, w, h int) {
	yRev := opts.Dimensions.Rows - y - h
	yStart := yRev + h - 1
	yEnd := yRev

	ctrl.sendCommand(dataEntryModeSetting)
	ctrl.sendData([]byte{opts.DataEntryMode})

	xsLo, xsHi := lowHigh(x)
	xeLo, xeHi := lowHigh(x + w - 1)
	ctrl.sendCommand(setRAMXAddressRange)
	ctrl.sendData([]byte{xsLo, xsHi, xeLo, xeHi})

	ysLo, ysHi := lowHigh(yStart)
	yeLo, yeHi := lowHigh(yEnd)
	ctrl.sendCommand(setRAMYAddressRange)
	ctrl.sendData([]byte{ysLo, ysHi, yeLo, yeHi})

	ctrl.sendCommand(setRAMXAddressCounter)
	ctrl.sendData([]byte{xsLo, xsHi})

	ctrl.sendCommand(setRAMYAddressCounter)
	ctrl.sendData([]byte{ysLo, ysHi})
}

// refreshMode composes the displayUpdateControl2 flag byte for a refresh.
// Analog and clock power-up is only requested when the panel is not already
// powered; turnOff additionally powers down after the refresh completes.
func refreshMode(poweredOn, turnOff bool) byte {
	mode := displayUpdateDisplay | displayUpdateLoadLUTFromOTP | displayUpdateLoadTemperature
	if !poweredOn {
		mode |= displayUpdateEnableClock | displayUpdateEnableAnalog
	}
	if turnOff {
		mode |= displayUpdateDisableClock | displayUpdateDisableAnalog
	}
	return mode
}

func refreshDisplay(ctrl controller, mode byte) {
	ctrl.sendCommand(displayUpdateControl2)
	ctrl.sendData([]byte{mode})
	ctrl.sendCommand(masterActivation)
	ctrl.waitUntilIdle()
}

func powerOff(ctrl controller) {
	ctrl.sendCommand(displayUpdateControl1)
	ctrl.sendData([]byte{displayUpdateBypassRed})
	ctrl.sendCommand(displayUpdateControl2)
	ctrl.sendData([]byte{displayUpdateDisableClock | displayUpdateDisableAnalog})
	ctrl.sendCommand(masterActivation)
	ctrl.waitUntilIdle()
}
