// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package link connects a cleaner.Controller to an appliance over the
// configured transport.
package link

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"tinygo.org/x/bluetooth"

	"github.com/kortschak/shoecleaner/ble"
	"github.com/kortschak/shoecleaner/cleaner"
	"github.com/kortschak/shoecleaner/internal/bluez"
	"github.com/kortschak/shoecleaner/rfcomm"
)

// Transports lists the supported transport names.
var Transports = []string{ble.UART.Name, ble.Serial.Name, "rfcomm"}

// Options specifies the appliance to connect to.
type Options struct {
	Transport string
	Name      string
	Address   string
	Channel   uint8
}

// Open connects c to the appliance described by opts. Errors from
// notification handling and from the connection after it is established
// are passed to errs, which must not be nil. Closing the returned Closer
// detaches the controller and closes the connection.
func Open(ctx context.Context, c *cleaner.Controller, opts Options, errs func(error)) (io.Closer, error) {
	handle := func(buf []byte) {
		if err := c.Handle(buf); err != nil {
			errs(fmt.Errorf("ignoring notification %#x: %w", buf, err))
		}
	}
	switch opts.Transport {
	case "", ble.UART.Name, ble.Serial.Name:
		return openBLE(ctx, c, opts, handle)
	case "rfcomm":
		return openRFCOMM(ctx, c, opts, handle, errs)
	default:
		return nil, fmt.Errorf("unknown transport: %q", opts.Transport)
	}
}

func openBLE(ctx context.Context, c *cleaner.Controller, opts Options, handle func([]byte)) (io.Closer, error) {
	name := opts.Transport
	if name == "" {
		name = ble.UART.Name
	}
	p, err := ble.ProfileByName(name)
	if err != nil {
		return nil, err
	}
	err = checkPowered()
	if err != nil {
		return nil, err
	}
	adapter := bluetooth.DefaultAdapter
	err = adapter.Enable()
	if err != nil {
		return nil, fmt.Errorf("failed to enable bluetooth: %w", err)
	}
	adapter.SetConnectHandler(func(dev bluetooth.Device, connected bool) {
		c.Connected(connected)
	})
	client, err := ble.Dial(ctx, adapter, p, opts.Name, handle)
	if err != nil {
		return nil, err
	}
	c.Attach(client)
	return closer(func() error {
		c.Attach(nil)
		return client.Close()
	}), nil
}

func openRFCOMM(ctx context.Context, c *cleaner.Controller, opts Options, handle func([]byte), errs func(error)) (io.Closer, error) {
	bz, err := bluez.Open(bluez.DefaultAdapter)
	if err != nil {
		return nil, err
	}
	defer bz.Close()
	err = bz.CheckPowered()
	if err != nil {
		return nil, err
	}
	addr := opts.Address
	if addr == "" {
		addr, err = bz.DeviceByName(opts.Name)
		if err != nil {
			return nil, err
		}
	}
	conn, err := rfcomm.Dial(ctx, addr, opts.Channel)
	if err != nil {
		return nil, err
	}
	c.Attach(conn)
	var closing atomic.Bool
	done := make(chan struct{})
	go func() {
		defer close(done)
		err := conn.Listen(handle)
		c.Connected(false)
		if err != nil && !closing.Load() {
			errs(fmt.Errorf("connection to %s lost: %w", addr, err))
		}
	}()
	return closer(func() error {
		closing.Store(true)
		c.Attach(nil)
		err := conn.Close()
		<-done
		return err
	}), nil
}

type closer func() error

func (fn closer) Close() error { return fn() }

// IsDisabled returns whether err reports that Bluetooth is turned off.
func IsDisabled(err error) bool {
	return errors.Is(err, bluez.ErrDisabled)
}

// Message returns the user facing description of a failure to open a
// link.
func Message(err error) string {
	if IsDisabled(err) {
		return "bluetooth is disabled"
	}
	return fmt.Sprintf("failed to connect: %v", err)
}
