// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1677

import (
	"errors"
	"testing"
)

func TestNewDimensions(t *testing.T) {
	for _, tc := range []struct {
		name       string
		rows, cols int
		wantErr    bool
		wantSize   int
	}{
		{name: "4in26 panel", rows: 480, cols: 800, wantSize: 48000},
		{name: "minimum", rows: 1, cols: 8, wantSize: 1},
		{name: "maximum", rows: 800, cols: 960, wantSize: 96000},
		{name: "cols not multiple of 8", rows: 800, cols: 481, wantErr: true},
		{name: "cols too narrow", rows: 100, cols: 10, wantErr: true},
		{name: "zero rows", rows: 0, cols: 800, wantErr: true},
		{name: "rows beyond gate outputs", rows: 801, cols: 800, wantErr: true},
		{name: "cols beyond source outputs", rows: 480, cols: 968, wantErr: true},
		{name: "negative", rows: -1, cols: -8, wantErr: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d, err := NewDimensions(tc.rows, tc.cols)
			if tc.wantErr {
				var ide *InvalidDimensionsError
				if !errors.As(err, &ide) {
					t.Fatalf("NewDimensions(%d, %d) = %v, want InvalidDimensionsError", tc.rows, tc.cols, err)
				}
				if ide.Rows != tc.rows || ide.Cols != tc.cols {
					t.Errorf("error carries %dx%d, want %dx%d", ide.Rows, ide.Cols, tc.rows, tc.cols)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewDimensions(%d, %d) failed: %v", tc.rows, tc.cols, err)
			}
			if got := d.BufferSize(); got != tc.wantSize {
				t.Errorf("BufferSize() = %d, want %d", got, tc.wantSize)
			}
		})
	}
}

func TestOptsWithDefaults(t *testing.T) {
	opts := Opts{Dimensions: Dimensions{Rows: 480, Cols: 800}}
	got := opts.withDefaults()

	want := EPD4in26
	if got != want {
		t.Errorf("withDefaults() = %+v, want %+v", got, want)
	}
}

func TestOptsWithDefaultsKeepsOverrides(t *testing.T) {
	opts := EPD4in26
	opts.VCOM = 0x44
	opts.BorderWaveform = 0x05

	got := opts.withDefaults()
	if got.VCOM != 0x44 || got.BorderWaveform != 0x05 {
		t.Errorf("withDefaults() overwrote explicit settings: %+v", got)
	}
}
