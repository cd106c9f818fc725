// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package framebuf

import (
	"image"
	"image/color"
	"image/draw"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Size returns the number of bytes of a w×h frame as the controller expects
// it. Rows are padded to whole bytes, so when w is not a multiple of 8 the
// last rows do not fit in Size bytes and are dropped.
func Size(w, h int) int {
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h / 8
}

// HorizontalMSB is a 1 bit image. A set bit is image1bit.On (white on the
// panel), a cleared bit is image1bit.Off.
type HorizontalMSB struct {
	// Pix holds the packed pixels, ready to be streamed to the controller.
	Pix []byte
	// Rect is the image bounds.
	Rect image.Rectangle
}

// NewHorizontalMSB returns an initialized HorizontalMSB with all pixels Off.
func NewHorizontalMSB(r image.Rectangle) *HorizontalMSB {
	return &HorizontalMSB{
		Pix:  make([]byte, Size(r.Dx(), r.Dy())),
		Rect: r,
	}
}

// ColorModel implements image.Image.
func (i *HorizontalMSB) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements image.Image.
func (i *HorizontalMSB) Bounds() image.Rectangle {
	return i.Rect
}

// At implements image.Image.
func (i *HorizontalMSB) At(x, y int) color.Color {
	return i.BitAt(x, y)
}

// BitAt is the optimized version of At.
func (i *HorizontalMSB) BitAt(x, y int) image1bit.Bit {
	offset, mask, ok := i.bitOffset(x, y)
	if !ok {
		return image1bit.Off
	}
	return image1bit.Bit(i.Pix[offset]&mask != 0)
}

// Opaque scans the entire image and reports whether it is fully opaque.
func (i *HorizontalMSB) Opaque() bool {
	return true
}

// Set implements draw.Image.
func (i *HorizontalMSB) Set(x, y int, c color.Color) {
	i.SetBit(x, y, image1bit.BitModel.Convert(c).(image1bit.Bit))
}

// SetBit is the optimized version of Set.
func (i *HorizontalMSB) SetBit(x, y int, b image1bit.Bit) {
	offset, mask, ok := i.bitOffset(x, y)
	if !ok {
		return
	}
	if b {
		i.Pix[offset] |= mask
	} else {
		i.Pix[offset] &^= mask
	}
}

// Fill sets every pixel to b.
func (i *HorizontalMSB) Fill(b image1bit.Bit) {
	var v byte
	if b {
		v = 0xFF
	}
	for j := range i.Pix {
		i.Pix[j] = v
	}
}

// bitOffset returns the byte offset and bit mask of the pixel at (x, y).
func (i *HorizontalMSB) bitOffset(x, y int) (int, byte, bool) {
	if !(image.Point{X: x, Y: y}.In(i.Rect)) {
		return 0, 0, false
	}
	dx := x - i.Rect.Min.X
	offset := (y-i.Rect.Min.Y)*i.Stride() + dx/8
	if offset >= len(i.Pix) {
		return 0, 0, false
	}
	return offset, 0x80 >> uint(dx%8), true
}

// Stride returns the number of bytes of one row in Pix.
func (i *HorizontalMSB) Stride() int {
	return (i.Rect.Dx() + 7) / 8
}

var _ draw.Image = &HorizontalMSB{}
