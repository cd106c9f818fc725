// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ed2208

import "strconv"

// State is the controller lifecycle state as tracked by Dev.
type State uint8

const (
	// Uninitialized is the state after New, and after any failed operation.
	Uninitialized State = iota
	// Resetting is entered by Reset. The controller waits for Init.
	Resetting
	// Initializing is held while Init runs.
	Initializing
	// Idle accepts WriteFrame, Activate and Sleep.
	Idle
	// Writing is held while a frame is uploaded.
	Writing
	// Activating is held while the panel refreshes.
	Activating
	// Sleeping is entered by Sleep. Only Reset leaves it.
	Sleeping
)

const stateName = "UninitializedResettingInitializingIdleWritingActivatingSleeping"

var stateIndex = [...]uint8{0, 13, 22, 34, 38, 45, 55, 63}

func (s State) String() string {
	if s >= State(len(stateIndex)-1) {
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
	return stateName[stateIndex[s]:stateIndex[s+1]]
}
