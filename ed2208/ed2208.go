// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ed2208

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/GermanBionicSystems/photopainter/framebuf"
)

var (
	// ErrSizeMismatch is returned when a frame does not have exactly
	// FrameSize bytes. Nothing is sent to the controller in that case.
	ErrSizeMismatch = errors.New("ed2208: frame size mismatch")
	// ErrUnresponsive is returned when BUSY stays asserted past
	// Opts.BusyTimeout.
	ErrUnresponsive = errors.New("ed2208: controller unresponsive")
	// ErrState is returned when an operation is not allowed in the current
	// controller state.
	ErrState = errors.New("ed2208: invalid controller state")
	// ErrOutOfRange is returned when RAM coordinates fall outside the panel.
	ErrOutOfRange = errors.New("ed2208: coordinates out of range")
)

// Reset pulse timing.
const (
	resetHighDelay = 200 * time.Millisecond
	resetLowDelay  = 2 * time.Millisecond
)

// DefaultBusyPollInterval is the BUSY line polling period.
const DefaultBusyPollInterval = 10 * time.Millisecond

// Opts defines the structure of the display configuration.
type Opts struct {
	Width  int
	Height int

	// BusyPollInterval is the delay between two reads of the BUSY line.
	// Defaults to DefaultBusyPollInterval.
	BusyPollInterval time.Duration
	// BusyTimeout bounds every wait for the controller. Zero waits forever.
	BusyTimeout time.Duration
}

// EPD2in13 contains the configuration of the ED2208-GCA 2.13 inch panel.
var EPD2in13 = Opts{
	Width:  250,
	Height: 122,
}

// FrameSize returns the number of bytes of a full frame for the geometry.
func (o *Opts) FrameSize() int {
	return framebuf.Size(o.Width, o.Height)
}

// Dev defines the handler which is used to access the display.
type Dev struct {
	t Transport

	opts   Opts
	state  State
	bounds image.Rectangle
	buffer *framebuf.HorizontalMSB

	sleep func(time.Duration)
	now   func() time.Time
}

// New returns a Dev driving the controller through t.
//
// The controller is not touched; call Reset and Init before drawing.
func New(t Transport, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &EPD2in13
	}
	o := *opts
	if o.Width <= 0 || o.Height <= 0 {
		return nil, fmt.Errorf("ed2208: invalid geometry %dx%d", o.Width, o.Height)
	}
	// Columns are addressed with one byte, gates with 9 bits.
	if (o.Width-1)/8 > 0xFF || o.Height > 0x200 {
		return nil, fmt.Errorf("ed2208: unsupported geometry %dx%d", o.Width, o.Height)
	}
	if o.BusyPollInterval <= 0 {
		o.BusyPollInterval = DefaultBusyPollInterval
	}

	bounds := image.Rect(0, 0, o.Width, o.Height)
	d := &Dev{
		t:      t,
		opts:   o,
		state:  Uninitialized,
		bounds: bounds,
		buffer: framebuf.NewHorizontalMSB(bounds),
		sleep:  time.Sleep,
		now:    time.Now,
	}

	// Default color
	d.buffer.Fill(image1bit.On)

	return d, nil
}

// NewSPI returns a Dev that communicates over SPI. cs is toggled by the
// driver around every command and data group.
func NewSPI(p spi.Port, dc, cs, rst gpio.PinOut, busy gpio.PinIn, opts *Opts) (*Dev, error) {
	c, err := p.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("ed2208: %w", err)
	}

	if err := busy.In(gpio.Float, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("ed2208: %w", err)
	}
	if err := cs.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("ed2208: %w", err)
	}
	if err := dc.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("ed2208: %w", err)
	}

	return New(&spiTransport{
		c:    c,
		dc:   dc,
		cs:   cs,
		rst:  rst,
		busy: busy,
	}, opts)
}

// State returns the controller state as last observed by the driver.
func (d *Dev) State() State {
	return d.state
}

// FrameSize returns the number of bytes WriteFrame expects.
func (d *Dev) FrameSize() int {
	return d.opts.FrameSize()
}

// Reset drives the reset line high, low and high again, leaving the
// controller in its pre-initialization state.
func (d *Dev) Reset() error {
	d.state = Resetting

	eh := errorHandler{d: d}

	eh.rstOut(gpio.High)
	d.sleep(resetHighDelay)
	eh.rstOut(gpio.Low)
	d.sleep(resetLowDelay)
	eh.rstOut(gpio.High)
	d.sleep(resetHighDelay)

	return d.settle(eh.err, Resetting)
}

// Init configures the controller after Reset. The sequence is fixed by the
// controller and waits for BUSY twice.
func (d *Dev) Init() error {
	if d.state != Resetting {
		return d.stateError("Init")
	}
	d.state = Initializing

	eh := errorHandler{d: d}
	initDisplay(&eh, &d.opts)

	return d.settle(eh.err, Idle)
}

// SetMemoryWindow sets the RAM area written by the next transfer. x0 and x1
// are pixel columns; they are sent divided by 8.
func (d *Dev) SetMemoryWindow(x0, y0, x1, y1 int) error {
	if x0 < 0 || y0 < 0 || x0 > x1 || y0 > y1 || x1 >= d.opts.Width || y1 >= d.opts.Height {
		return fmt.Errorf("%w: window (%d,%d)-(%d,%d)", ErrOutOfRange, x0, y0, x1, y1)
	}

	eh := errorHandler{d: d}
	setWindow(&eh, x0, y0, x1, y1)

	return d.settle(eh.err, d.state)
}

// SetMemoryPointer positions the RAM address counters. x is a pixel column;
// it is sent divided by 8.
func (d *Dev) SetMemoryPointer(x, y int) error {
	if !(image.Point{X: x, Y: y}.In(d.bounds)) {
		return fmt.Errorf("%w: pointer (%d,%d)", ErrOutOfRange, x, y)
	}

	eh := errorHandler{d: d}
	setCursor(&eh, x, y)

	return d.settle(eh.err, d.state)
}

// WriteFrame uploads frame to the panel RAM. It does not refresh the panel;
// call Activate for that.
//
// frame must hold exactly FrameSize bytes, packed 8 pixels per byte, most
// significant bit first, row major. It is not retained.
func (d *Dev) WriteFrame(frame []byte) error {
	if want := d.FrameSize(); len(frame) != want {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, len(frame), want)
	}
	if d.state != Idle {
		return d.stateError("WriteFrame")
	}
	d.state = Writing

	eh := errorHandler{d: d}
	writeFrame(&eh, &d.opts, frame)

	return d.settle(eh.err, Idle)
}

// Activate refreshes the panel with the RAM content using the full refresh
// waveform. It returns once the controller released BUSY; sending anything
// earlier would corrupt the waveform.
//
// The controller must be Idle: initialized and not put to sleep since.
func (d *Dev) Activate() error {
	if d.state != Idle {
		return d.stateError("Activate")
	}
	d.state = Activating

	eh := errorHandler{d: d}
	activate(&eh)

	return d.settle(eh.err, Idle)
}

// Sleep makes the controller enter deep sleep mode. It can be woken up by
// calling Reset and Init again.
func (d *Dev) Sleep() error {
	eh := errorHandler{d: d}
	deepSleep(&eh)

	return d.settle(eh.err, Sleeping)
}

// Buffer returns the frame buffer used by Clear, Display and Draw.
func (d *Dev) Buffer() *framebuf.HorizontalMSB {
	return d.buffer
}

// Clear fills the frame buffer with c and uploads it without refreshing.
func (d *Dev) Clear(c color.Color) error {
	d.buffer.Fill(image1bit.BitModel.Convert(c).(image1bit.Bit))
	return d.WriteFrame(d.buffer.Pix)
}

// Display uploads the frame buffer and refreshes the panel.
func (d *Dev) Display() error {
	if err := d.WriteFrame(d.buffer.Pix); err != nil {
		return err
	}
	return d.Activate()
}

// ColorModel returns a 1Bit color model.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds returns the bounds for the configured display.
func (d *Dev) Bounds() image.Rectangle {
	return d.bounds
}

// Draw draws the given image into the frame buffer and refreshes the whole
// panel.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	draw.Src.Draw(d.buffer, dstRect.Intersect(d.bounds), src, srcPts)
	return d.Display()
}

// Halt puts the controller to sleep. The panel keeps showing the last image.
func (d *Dev) Halt() error {
	return d.Sleep()
}

// String returns a string containing configuration information.
func (d *Dev) String() string {
	return fmt.Sprintf("ed2208.Dev{%v, Width: %d, Height: %d}", d.t, d.bounds.Dx(), d.bounds.Dy())
}

// waitIdle blocks while the controller asserts BUSY.
func (d *Dev) waitIdle() error {
	var deadline time.Time
	if d.opts.BusyTimeout > 0 {
		deadline = d.now().Add(d.opts.BusyTimeout)
	}
	for d.t.Busy() {
		if !deadline.IsZero() && !d.now().Before(deadline) {
			return fmt.Errorf("%w: busy for more than %s", ErrUnresponsive, d.opts.BusyTimeout)
		}
		d.sleep(d.opts.BusyPollInterval)
	}
	return nil
}

// settle records the outcome of an operation. After a failure the controller
// state is unknown and a new Reset is required.
func (d *Dev) settle(err error, next State) error {
	if err != nil {
		d.state = Uninitialized
		return err
	}
	d.state = next
	return nil
}

func (d *Dev) stateError(op string) error {
	return fmt.Errorf("%w: %s while %s", ErrState, op, d.state)
}

var _ display.Drawer = &Dev{}
