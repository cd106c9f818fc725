// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ed2208 controls the ED2208-GCA 2.13 inch black and white e-paper
// panel fitted to the Waveshare ESP32-S3 PhotoPainter.
//
// The panel is driven by an SSD16xx class controller. The controller accepts
// a frame only after a fixed initialization sequence, and every RAM transfer
// is preceded by re-establishing the memory window and address counters. A
// full refresh takes about two seconds, during which the BUSY line is high and
// no command may be sent.
//
// Lifecycle
//
// Reset and Init must be called once after power is applied or after Sleep.
// WriteFrame and Activate may then be repeated. Sleep puts the controller in
// deep sleep with RAM retained; only a new Reset wakes it up.
//
// Product page:
//
// https://www.waveshare.com/wiki/ESP32-S3-PhotoPainter
package ed2208
