// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1677_test

import (
	"image"
	"image/color"
	"image/draw"
	"log"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/devices/v3/ssd1677"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use spireg SPI bus registry to find the first available SPI bus.
	b, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()

	dev, err := ssd1677.NewHat(b, &ssd1677.EPD4in26) // Display config and size
	if err != nil {
		log.Fatalf("Failed to initialize driver: %v", err)
	}

	if err := dev.Init(); err != nil {
		log.Fatalf("Failed to initialize display: %v", err)
	}

	// Draw on it. Black text on a white background.
	img := image1bit.NewVerticalLSB(dev.Bounds())
	draw.Draw(img, img.Bounds(), &image.Uniform{image1bit.On}, image.Point{}, draw.Src)
	f := basicfont.Face7x13
	drawer := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.Off},
		Face: f,
		Dot:  fixed.P(0, img.Bounds().Dy()-1-f.Descent),
	}
	drawer.DrawString("Hello from periph!")

	if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
		log.Fatal(err)
	}

	// Subsequent draws only refresh the region that changed.
	drawer.Dot = fixed.P(0, f.Height)
	drawer.DrawString("Partial update")

	if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
		log.Fatal(err)
	}

	// Cut power to the panel until the next Init.
	if err := dev.DeepSleep(); err != nil {
		log.Fatal(err)
	}
}

func Example_red() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	b, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()

	dev, err := ssd1677.NewHat(b, &ssd1677.EPD4in26)
	if err != nil {
		log.Fatalf("Failed to initialize driver: %v", err)
	}

	if err := dev.Init(); err != nil {
		log.Fatalf("Failed to initialize display: %v", err)
	}

	// The panel's third color comes from a second RAM plane; anything
	// strongly red in the source image ends up on it.
	img := image.NewRGBA(dev.Bounds())
	draw.Draw(img, img.Bounds(), &image.Uniform{ssd1677.White}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, 0, 200, 100), &image.Uniform{color.RGBA{R: 0xFF, A: 0xFF}}, image.Point{}, draw.Src)

	if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
		log.Fatal(err)
	}

	if err := dev.Halt(); err != nil {
		log.Fatal(err)
	}
}
