// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package framebuf implements a 1 bit per pixel canvas whose backing store is
// laid out the way SSD16xx class e-paper controllers consume RAM writes: row
// major, 8 pixels per byte, most significant bit first.
//
// Each row starts on a byte boundary: the stride is (Width+7)/8 bytes, the
// width of the controller RAM window. The store holds Width*Height/8 bytes,
// the frame size the controller is fed, so for widths that are not a multiple
// of 8 the rows past the end of the store are not addressable. On a 250×122
// panel that is the end of row 119 and rows 120 and 121.
//
// Drawing itself is left to image/draw and the libraries built on it; the
// canvas only implements draw.Image.
package framebuf
