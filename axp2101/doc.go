// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package axp2101 controls the X-Powers AXP2101 power management IC over I²C.
//
// The driver covers what a battery powered display needs: switching the DC-DC
// and LDO output rails, reading the battery and charger status, acknowledging
// interrupts, enabling the ADC and cutting the system power.
//
// Every rail change is a read-modify-write of a single bit; the other rails
// sharing the control register are left untouched.
//
// # Datasheet
//
// http://www.x-powers.com/en.php/Info/product_detail/article_id/95
package axp2101
