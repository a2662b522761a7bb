// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ssd1677 controls e-paper panels driven by the SSD1677 controller.
//
// The SSD1677 drives bi-color (black/white plus red plane) panels of up to
// 800 gate lines and 960 source lines over a 4-wire serial bus with separate
// data/command, reset and busy lines. Typical panels are the 4.26" 800x480
// modules found in e-readers and badge displays.
//
// The driver keeps two bit-packed RAM planes on the controller: the BW plane
// (1 = white, 0 = black) and the RED plane (1 = red ink, 0 = defer to the BW
// plane). Depending on the refresh mode the RED plane either contributes red
// pixels or acts as the compare mask that limits which pixels move during a
// fast refresh.
//
// Updates through Draw diff the new frame against the last one sent and only
// transfer and refresh the smallest byte-aligned rectangle that changed,
// which substantially reduces refresh latency and flicker for small changes
// such as page numbers or status lines.
//
// Datasheet
//
// https://www.solomon-systech.com.hk/product/ssd1677/
package ssd1677
