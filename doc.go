// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package photopainter contains the drivers for a battery powered e-paper
// picture frame: the ED2208-GCA 2.13 inch panel (ed2208), its AXP2101 power
// management IC (axp2101) and the sequencer that powers the panel only while
// it refreshes.
//
// cmd/photopainter ties them together and refreshes the frame on a schedule.
package photopainter
