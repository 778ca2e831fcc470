// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package command implements the shoe cleaner wire protocol.
//
// The controller writes fixed five byte command vectors to the appliance.
// Each vector is one-hot: exactly one byte is set, and its position
// selects the action. The appliance reports progress with single byte
// status notifications.
package command

import (
	"errors"
	"fmt"
)

// Command is an appliance action.
type Command uint8

//go:generate go tool golang.org/x/tools/cmd/stringer -type Command -linecomment
const (
	PowerOff   Command = iota // POWER_OFF
	NormalMode                // NORMAL_MODE
	QuickMode                 // QUICK_MODE
	SwingUp                   // SWING_UP
	SwingDown                 // SWING_DOWN

	numCommands = iota
)

// VectorSize is the length of a command vector in bytes.
const VectorSize = 5

// Vector is the encoded form of a Command.
type Vector [VectorSize]byte

// vectors is the command table. The set byte's index is the
// Command value.
var vectors = [numCommands]Vector{
	PowerOff:   {1, 0, 0, 0, 0},
	NormalMode: {0, 1, 0, 0, 0},
	QuickMode:  {0, 0, 1, 0, 0},
	SwingUp:    {0, 0, 0, 1, 0},
	SwingDown:  {0, 0, 0, 0, 1},
}

// ErrUnknownCommand is returned for labels and vectors that do not
// correspond to a Command.
var ErrUnknownCommand = errors.New("unknown command")

// Commands returns all commands in table order.
func Commands() []Command {
	return []Command{PowerOff, NormalMode, QuickMode, SwingUp, SwingDown}
}

// Parse returns the Command with the given label.
func Parse(label string) (Command, error) {
	for c := range Command(numCommands) {
		if c.String() == label {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, label)
}

// Lookup returns the vector for the given label. Unknown labels
// yield the zero vector, which the appliance ignores.
func Lookup(label string) Vector {
	c, err := Parse(label)
	if err != nil {
		return Vector{}
	}
	return c.Vector()
}

// Vector returns the command vector for c. Invalid commands
// return the zero vector.
func (c Command) Vector() Vector {
	if c >= numCommands {
		return Vector{}
	}
	return vectors[c]
}

// MarshalBinary returns the wire form of c.
func (c Command) MarshalBinary() ([]byte, error) {
	if c >= numCommands {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCommand, c)
	}
	v := vectors[c]
	return v[:], nil
}

// Decode returns the Command encoded in data. data must be exactly
// one vector long and have exactly one byte set to 1.
func Decode(data []byte) (Command, error) {
	if len(data) != VectorSize {
		return 0, fmt.Errorf("invalid vector length: %d", len(data))
	}
	var v Vector
	copy(v[:], data)
	for c, want := range vectors {
		if v == want {
			return Command(c), nil
		}
	}
	return 0, fmt.Errorf("%w: %#x", ErrUnknownCommand, data)
}
