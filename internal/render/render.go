// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package render turns text and pictures into packed 1 bit frames.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/MaxHalford/halfgone"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/GermanBionicSystems/photopainter/framebuf"
)

// Pack thresholds img into a new frame buffer of w×h pixels. img is drawn at
// the origin without scaling.
func Pack(img image.Image, w, h int) *framebuf.HorizontalMSB {
	fb := framebuf.NewHorizontalMSB(image.Rect(0, 0, w, h))
	fb.Fill(image1bit.On)
	draw.Src.Draw(fb, fb.Bounds(), img, img.Bounds().Min)
	return fb
}

// Text renders s centered in black on white, using Go Regular at size points.
func Text(w, h int, s string, size float64) (*framebuf.HorizontalMSB, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{Size: size})
	defer face.Close()

	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetColor(color.Black)
	dc.SetFontFace(face)
	dc.DrawStringWrapped(s, float64(w)/2, float64(h)/2, 0.5, 0.5, float64(w)-8, 1.2, gg.AlignCenter)

	return Pack(dc.Image(), w, h), nil
}

// Picture fits img in w×h, keeping its aspect ratio, centers it on white and
// dithers it to black and white.
func Picture(img image.Image, w, h int) *framebuf.HorizontalMSB {
	bounds := image.Rect(0, 0, w, h)
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	src := img
	if img.Bounds().Size() != bounds.Size() {
		src = imaging.Fit(img, w, h, imaging.Lanczos)
	}
	sb := src.Bounds()
	off := image.Pt((w-sb.Dx())/2, (h-sb.Dy())/2)
	draw.Draw(gray, sb.Sub(sb.Min).Add(off), src, sb.Min, draw.Src)

	return Pack(halfgone.FloydSteinbergDitherer{}.Apply(gray), w, h)
}

// LoadPicture opens the image file at path and renders it like Picture.
func LoadPicture(path string, w, h int) (*framebuf.HorizontalMSB, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return Picture(img, w, h), nil
}

// Caption writes s in black on a white band along the top edge of fb. The
// bottom rows of an unaligned panel are not stored, so the top is used.
func Caption(fb *framebuf.HorizontalMSB, s string) {
	f := basicfont.Face7x13
	b := fb.Bounds()
	band := image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+f.Height+2)
	draw.Draw(fb, band, &image.Uniform{C: image1bit.On}, image.Point{}, draw.Src)

	drawer := font.Drawer{
		Dst:  fb,
		Src:  &image.Uniform{C: image1bit.Off},
		Face: f,
		Dot:  fixed.P(b.Min.X+2, band.Max.Y-1-f.Descent),
	}
	drawer.DrawString(s)
}
