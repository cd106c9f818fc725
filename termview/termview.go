// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termview previews 1 bit e-paper frames on a terminal using ANSI
// color codes.
//
// Useful to iterate on a layout without waiting for a 2 seconds full refresh
// of the real panel.
package termview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/GermanBionicSystems/photopainter/framebuf"
)

// ErrFrameLength is returned by Write when the frame does not match the
// geometry.
var ErrFrameLength = errors.New("termview: invalid frame length")

// Opts represents the options available for this display.
type Opts struct {
	Width  int
	Height int
	// Scale is the side of the square of pixels shown by one terminal cell.
	// Defaults to 2.
	Scale   int
	Palette *ansi256.Palette
	// W defaults to a colorable stdout.
	W io.Writer

	_ struct{}
}

// Dev is an e-paper panel emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	palette ansi256.Palette
	scale   int

	fb  *framebuf.HorizontalMSB
	buf bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = 2
	}
	d := &Dev{
		w:       w,
		palette: *p,
		scale:   scale,
		fb:      framebuf.NewHorizontalMSB(image.Rect(0, 0, opts.Width, opts.Height)),
	}
	d.fb.Fill(image1bit.On)
	return d
}

func (d *Dev) String() string {
	return "TermView"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// FrameSize returns the number of bytes Write expects.
func (d *Dev) FrameSize() int {
	return len(d.fb.Pix)
}

// Write accepts a packed frame, as sent to the panel RAM, and prints it.
func (d *Dev) Write(frame []byte) (int, error) {
	if len(frame) != len(d.fb.Pix) {
		return 0, fmt.Errorf("%w: got %d bytes, want %d", ErrFrameLength, len(frame), len(d.fb.Pix))
	}
	copy(d.fb.Pix, frame)
	if err := d.refresh(); err != nil {
		return 0, err
	}
	return len(frame), nil
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.fb.Bounds()
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Src.Draw(d.fb, r.Intersect(d.Bounds()), src, sp)
	return d.refresh()
}

// refresh prints one line per row of cells. A cell is white when at least
// half of its pixels are.
func (d *Dev) refresh() error {
	b := d.fb.Bounds()
	white := d.palette.Block(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	black := d.palette.Block(color.NRGBA{A: 255})

	d.buf.Reset()
	for y := b.Min.Y; y < b.Max.Y; y += d.scale {
		_, _ = d.buf.WriteString("\033[0m")
		for x := b.Min.X; x < b.Max.X; x += d.scale {
			cell := image.Rect(x, y, x+d.scale, y+d.scale).Intersect(b)
			on := 0
			for cy := cell.Min.Y; cy < cell.Max.Y; cy++ {
				for cx := cell.Min.X; cx < cell.Max.X; cx++ {
					if d.fb.BitAt(cx, cy) {
						on++
					}
				}
			}
			if 2*on >= cell.Dx()*cell.Dy() {
				_, _ = d.buf.WriteString(white)
			} else {
				_, _ = d.buf.WriteString(black)
			}
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
