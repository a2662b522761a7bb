// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1677

// DiffRegion is the byte-aligned bounding rectangle of the differences
// between two frames. The X axis is expressed in bytes (8 pixel columns per
// byte) to line up with the controller's RAM window granularity, the Y axis
// in rows. Changed counts the differing bytes inside the rectangle; a zero
// count means no difference.
type DiffRegion struct {
	MinXByte int
	MaxXByte int
	MinY     int
	MaxY     int
	Changed  int
}

// WidthBytes returns the region width in bytes.
func (r DiffRegion) WidthBytes() int {
	if r.Changed == 0 {
		return 0
	}
	return r.MaxXByte - r.MinXByte + 1
}

// Height returns the region height in rows.
func (r DiffRegion) Height() int {
	if r.Changed == 0 {
		return 0
	}
	return r.MaxY - r.MinY + 1
}

// ByteCount returns the size of a plane fragment covering the region.
func (r DiffRegion) ByteCount() int {
	return r.WidthBytes() * r.Height()
}

// XPixels returns the left edge of the region in pixels.
func (r DiffRegion) XPixels() int {
	return r.MinXByte * 8
}

// WidthPixels returns the region width in pixels.
func (r DiffRegion) WidthPixels() int {
	return r.WidthBytes() * 8
}

// YPixels returns the top edge of the region in rows.
func (r DiffRegion) YPixels() int {
	return r.MinY
}

// HeightPixels returns the region height in rows.
func (r DiffRegion) HeightPixels() int {
	return r.Height()
}

// Union returns the smallest region covering both r and o.
func (r DiffRegion) Union(o DiffRegion) DiffRegion {
	if r.Changed == 0 {
		return o
	}
	if o.Changed == 0 {
		return r
	}
	if o.MinXByte < r.MinXByte {
		r.MinXByte = o.MinXByte
	}
	if o.MaxXByte > r.MaxXByte {
		r.MaxXByte = o.MaxXByte
	}
	if o.MinY < r.MinY {
		r.MinY = o.MinY
	}
	if o.MaxY > r.MaxY {
		r.MaxY = o.MaxY
	}
	r.Changed += o.Changed
	return r
}

// ComputeDiff scans two bit-packed frames of widthBytes*height bytes and
// returns the bounding region of their differences. The second return is
// false when the frames are identical or the buffers do not cover the given
// geometry.
func ComputeDiff(current, previous []byte, widthBytes, height int) (DiffRegion, bool) {
	size := widthBytes * height
	if widthBytes <= 0 || height <= 0 || len(current) != size || len(previous) != size {
		return DiffRegion{}, false
	}

	var r DiffRegion
	for y := 0; y < height; y++ {
		row := y * widthBytes
		for x := 0; x < widthBytes; x++ {
			if current[row+x] == previous[row+x] {
				continue
			}
			if r.Changed == 0 {
				r = DiffRegion{MinXByte: x, MaxXByte: x, MinY: y, MaxY: y, Changed: 1}
				continue
			}
			if x < r.MinXByte {
				r.MinXByte = x
			}
			if x > r.MaxXByte {
				r.MaxXByte = x
			}
			// Rows are scanned in order, so MinY never moves.
			r.MaxY = y
			r.Changed++
		}
	}
	return r, r.Changed > 0
}

// ExtractRegion copies the rectangular region r out of a bit-packed frame of
// widthBytes-wide rows. The fragment is appended to out, which may be nil,
// and laid out as r.Height() rows of r.WidthBytes() bytes.
func ExtractRegion(source []byte, widthBytes int, r DiffRegion, out []byte) []byte {
	if r.Changed == 0 {
		return out
	}
	for y := r.MinY; y <= r.MaxY; y++ {
		start := y*widthBytes + r.MinXByte
		out = append(out, source[start:start+r.WidthBytes()]...)
	}
	return out
}
