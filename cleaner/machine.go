// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cleaner

import (
	"errors"
	"fmt"
	"sync"

	"github.com/kortschak/shoecleaner/command"
)

var (
	// ErrNotConnected is returned when a command is pressed while the
	// appliance is not connected.
	ErrNotConnected = errors.New("device is not connected")

	// ErrNotAllowed is returned when a command is pressed in a state
	// that does not accept it.
	ErrNotAllowed = errors.New("command not allowed in current state")
)

// Snapshot is a consistent view of a Machine.
type Snapshot struct {
	State     State
	Connected bool
}

// Enabled returns whether cmd may be sent.
func (s Snapshot) Enabled(cmd command.Command) bool {
	return s.Connected && s.State.allows(cmd)
}

// Event is a report from the appliance.
type Event struct {
	Status command.Status
	State  State
}

// Message returns a short human readable description of the event.
func (e Event) Message() string {
	switch e.Status {
	case command.ArmUp:
		return "swing arm raised"
	case command.ArmDown:
		return "swing arm lowered"
	case command.CleaningDone:
		return "cleaning complete"
	default:
		return e.Status.String()
	}
}

// Machine holds the controller's view of the appliance. Its methods
// are safe for concurrent use; Bluetooth callbacks arrive on stack
// goroutines.
type Machine struct {
	mu        sync.Mutex
	state     State
	connected bool

	observers []func(Snapshot)
}

// NewMachine returns a disconnected Machine in the Initial state.
func NewMachine() *Machine {
	return &Machine{}
}

// Observe registers fn to be called with each change to the machine.
// fn is called without the machine's lock held.
func (m *Machine) Observe(fn func(Snapshot)) {
	m.mu.Lock()
	m.observers = append(m.observers, fn)
	m.mu.Unlock()
}

// Snapshot returns the current state and connection status.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

func (m *Machine) snapshot() Snapshot {
	return Snapshot{State: m.state, Connected: m.connected}
}

// SetConnected records a connection change. The cycle state is left
// untouched.
func (m *Machine) SetConnected(ok bool) {
	m.update(func() bool {
		changed := m.connected != ok
		m.connected = ok
		return changed
	})
}

// Notify applies an appliance status report and returns the resulting
// event.
func (m *Machine) Notify(st command.Status) (Event, error) {
	next, ok := reported(st)
	if !ok {
		return Event{}, fmt.Errorf("%w: %d", command.ErrUnknownStatus, st)
	}
	m.update(func() bool {
		changed := m.state != next
		m.state = next
		return changed
	})
	return Event{Status: st, State: next}, nil
}

// check returns an error if cmd may not be sent now.
func (m *Machine) check(cmd command.Command) error {
	s := m.Snapshot()
	if !s.Connected {
		return ErrNotConnected
	}
	if !s.State.allows(cmd) {
		return fmt.Errorf("%w: %v in %v", ErrNotAllowed, cmd, s.State)
	}
	return nil
}

// sent records that cmd was written to the appliance.
func (m *Machine) sent(cmd command.Command) {
	m.update(func() bool {
		next := m.state.after(cmd)
		changed := m.state != next
		m.state = next
		return changed
	})
}

func (m *Machine) update(fn func() bool) {
	m.mu.Lock()
	changed := fn()
	s := m.snapshot()
	observers := m.observers
	m.mu.Unlock()
	if !changed {
		return
	}
	for _, o := range observers {
		o(s)
	}
}
