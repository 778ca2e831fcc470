// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cleaner tracks the state of a shoe cleaner and decides which
// commands may be sent to it.
package cleaner

import "github.com/kortschak/shoecleaner/command"

// State is the appliance cycle state as seen by the controller.
type State uint8

//go:generate go tool golang.org/x/tools/cmd/stringer -type State
const (
	Initial       State = iota // arm down, ready to raise
	ArmMovingUp                // raise sent, waiting for ArmUp
	ArmUp                      // ready for a cleaning mode
	Cleaning                   // mode sent, waiting for CleaningDone
	CleaningDone               // ready to lower
	ArmMovingDown              // lower sent, waiting for ArmDown
)

// allows reports whether cmd may be sent in state s, assuming the
// appliance is connected.
func (s State) allows(cmd command.Command) bool {
	switch cmd {
	case command.PowerOff:
		return true
	case command.SwingUp:
		return s == Initial
	case command.NormalMode, command.QuickMode:
		return s == ArmUp
	case command.SwingDown:
		return s == CleaningDone
	default:
		return false
	}
}

// after returns the state entered once cmd has been sent from s.
func (s State) after(cmd command.Command) State {
	switch cmd {
	case command.SwingUp:
		return ArmMovingUp
	case command.NormalMode, command.QuickMode:
		return Cleaning
	case command.SwingDown:
		return ArmMovingDown
	default:
		return s
	}
}

// reported returns the state the appliance is in after sending st.
// The appliance is authoritative, so the current state is not
// consulted.
func reported(st command.Status) (State, bool) {
	switch st {
	case command.ArmUp:
		return ArmUp, true
	case command.ArmDown:
		return Initial, true
	case command.CleaningDone:
		return CleaningDone, true
	default:
		return 0, false
	}
}
