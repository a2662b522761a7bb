// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package panelsim

import (
	"bytes"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// TermView renders panel frames to a terminal using ANSI color codes.
type TermView struct {
	w       io.Writer
	palette ansi256.Palette

	// scale is the number of panel pixels per character cell column.
	// Character cells are roughly twice as tall as wide, so each cell
	// covers a scale x 2*scale pixel block.
	scale int

	buf bytes.Buffer
}

// TermViewOpts represents the options available for a TermView.
type TermViewOpts struct {
	// Scale is the downsampling factor, pixels per character column.
	// Defaults to 8.
	Scale int
	// Palette is the ANSI palette to use. Defaults to ansi256.Default.
	Palette *ansi256.Palette
	// Writer overrides the output, which defaults to a colorable stdout.
	Writer io.Writer
}

// NewTermView returns a view that renders to the console.
//
// Permits watching driver output without panel hardware attached.
func NewTermView(opts *TermViewOpts) *TermView {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.Writer
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	scale := opts.Scale
	if scale < 1 {
		scale = 8
	}
	return &TermView{
		w:       w,
		palette: *p,
		scale:   scale,
	}
}

// Render draws the panel's currently shown frame.
func (v *TermView) Render(p *Panel) error {
	img := p.Image()
	bounds := img.Bounds()
	cellW := v.scale
	cellH := 2 * v.scale

	v.buf.Reset()
	_, _ = v.buf.WriteString("\033[0m")
	for y := bounds.Min.Y; y < bounds.Max.Y; y += cellH {
		for x := bounds.Min.X; x < bounds.Max.X; x += cellW {
			var r, g, b, n uint32
			for dy := 0; dy < cellH && y+dy < bounds.Max.Y; dy++ {
				for dx := 0; dx < cellW && x+dx < bounds.Max.X; dx++ {
					pr, pg, pb, _ := img.At(x+dx, y+dy).RGBA()
					r += pr >> 8
					g += pg >> 8
					b += pb >> 8
					n++
				}
			}
			c := color.NRGBA{byte(r / n), byte(g / n), byte(b / n), 255}
			_, _ = io.WriteString(&v.buf, v.palette.Block(c))
		}
		_, _ = v.buf.WriteString("\033[0m\n")
	}
	_, err := v.buf.WriteTo(v.w)
	return err
}
