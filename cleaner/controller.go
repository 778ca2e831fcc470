// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cleaner

import (
	"fmt"
	"sync"

	"github.com/kortschak/shoecleaner/command"
)

// Link is a connection to an appliance that can carry command vectors.
type Link interface {
	Send(command.Vector) error
}

// Controller sends commands over a Link subject to the rules of its
// Machine.
type Controller struct {
	m *Machine

	// smu serialises the check, write and transition of each
	// command so that overlapping presses see each other's effect.
	smu sync.Mutex

	mu   sync.Mutex
	link Link

	// Events is called with each status report received from the
	// appliance. It may be nil.
	Events func(Event)
}

// NewController returns a Controller using m. The link is attached
// later with Attach once a connection has been made.
func NewController(m *Machine) *Controller {
	return &Controller{m: m}
}

// Machine returns the controller's state machine.
func (c *Controller) Machine() *Machine { return c.m }

// Attach sets the link used to send commands and marks the machine
// connected. A nil link marks the machine disconnected.
func (c *Controller) Attach(l Link) {
	c.mu.Lock()
	c.link = l
	c.mu.Unlock()
	c.m.SetConnected(l != nil)
}

// Connected records a connection state change reported by the
// Bluetooth stack.
func (c *Controller) Connected(ok bool) {
	c.m.SetConnected(ok)
}

// Press sends cmd to the appliance if the current state allows it.
func (c *Controller) Press(cmd command.Command) error {
	c.smu.Lock()
	defer c.smu.Unlock()
	err := c.m.check(cmd)
	if err != nil {
		return err
	}
	return c.send(cmd)
}

// Send sends cmd to the appliance whatever the current cycle state.
// It is intended for headless use where the controller has not seen
// the appliance's earlier reports. A connection is still required.
func (c *Controller) Send(cmd command.Command) error {
	c.smu.Lock()
	defer c.smu.Unlock()
	if !c.m.Snapshot().Connected {
		return ErrNotConnected
	}
	return c.send(cmd)
}

func (c *Controller) send(cmd command.Command) error {
	c.mu.Lock()
	l := c.link
	c.mu.Unlock()
	if l == nil {
		return ErrNotConnected
	}
	err := l.Send(cmd.Vector())
	if err != nil {
		return fmt.Errorf("failed to send %v: %w", cmd, err)
	}
	c.m.sent(cmd)
	return nil
}

// Handle processes a raw status notification. Payloads that do not
// carry a known status are returned as errors and leave the machine
// unchanged.
func (c *Controller) Handle(buf []byte) error {
	st, err := command.ParseStatus(buf)
	if err != nil {
		return err
	}
	ev, err := c.m.Notify(st)
	if err != nil {
		return err
	}
	if c.Events != nil {
		c.Events(ev)
	}
	return nil
}
