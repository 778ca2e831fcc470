// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ble implements the Bluetooth Low Energy transports of the shoe
// cleaner.
//
// Two GATT layouts are supported. Current appliances expose a Nordic
// UART style service with separate control and completion
// characteristics. Earlier appliances used a serial module with a single
// characteristic carrying both directions.
package ble

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/kortschak/shoecleaner/command"
	"github.com/kortschak/shoecleaner/internal/forkbeard"
)

// DefaultName is the local name advertised by the appliance.
const DefaultName = "shoecleaner"

// DefaultScanTimeout is the scan duration used by the commands when
// no other timeout is given.
const DefaultScanTimeout = 15 * time.Second

// Service and characteristic identifiers.
const (
	uartServiceID  = "6e400001-b5a3-f393-e0a9-e50e24dcca9e"
	uartControlID  = "6e400002-b5a3-f393-e0a9-e50e24dcca9e"
	uartCompleteID = "6e400003-b5a3-f393-e0a9-e50e24dcca9e"

	serialServiceID = "ffe0"
	serialDataID    = "ffe1"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Profile describes the GATT layout of an appliance.
type Profile struct {
	// Name identifies the profile in configuration.
	Name string

	// Service is the primary service holding the characteristics.
	Service bluetooth.UUID
	// Control receives command vectors.
	Control bluetooth.UUID
	// Complete sends status notifications. It may be equal
	// to Control.
	Complete bluetooth.UUID
}

var (
	// UART is the profile of current appliances.
	UART = Profile{
		Name:     "uart",
		Service:  must(bluetooth.ParseUUID(uartServiceID)),
		Control:  must(bluetooth.ParseUUID(uartControlID)),
		Complete: must(bluetooth.ParseUUID(uartCompleteID)),
	}

	// Serial is the single characteristic profile of earlier
	// appliances.
	Serial = Profile{
		Name:     "serial",
		Service:  must(bluetooth.ParseUUID(serialServiceID)),
		Control:  must(bluetooth.ParseUUID(serialDataID)),
		Complete: must(bluetooth.ParseUUID(serialDataID)),
	}
)

// ProfileByName returns the named profile.
func ProfileByName(name string) (Profile, error) {
	switch name {
	case UART.Name:
		return UART, nil
	case Serial.Name:
		return Serial, nil
	default:
		return Profile{}, fmt.Errorf("unknown ble profile: %q", name)
	}
}

// Client is a connection to an appliance.
type Client struct {
	dev bluetooth.Device

	control, complete bluetooth.DeviceCharacteristic
}

// Dial scans for an appliance advertising name, connects to it and
// subscribes to its status notifications. The h function is called
// with each notification payload on a Bluetooth stack goroutine.
func Dial(ctx context.Context, adapter *bluetooth.Adapter, p Profile, name string, h func([]byte)) (*Client, error) {
	found, err := forkbeard.FindByName(ctx, adapter, name)
	if err != nil {
		return nil, err
	}
	return Connect(adapter, found.Address, p, h)
}

// Connect connects to the appliance at addr and subscribes to its status
// notifications.
func Connect(adapter *bluetooth.Adapter, addr bluetooth.Address, p Profile, h func([]byte)) (*Client, error) {
	dev, err := adapter.Connect(addr, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	chars, err := forkbeard.DeviceCharacteristics(&dev, p.Service, p.Control, p.Complete)
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("failed to get %s device characteristics: %w", p.Name, err),
			dev.Disconnect(),
		)
	}
	c := &Client{dev: dev, control: chars[0], complete: chars[1]}
	err = c.complete.EnableNotifications(func(buf []byte) {
		if h != nil {
			h(buf)
		}
	})
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("failed to enable %s notifications: %w", p.Name, err),
			dev.Disconnect(),
		)
	}
	return c, nil
}

// Send writes a command vector to the control characteristic.
func (c *Client) Send(v command.Vector) error {
	_, err := c.control.WriteWithoutResponse(v[:])
	if err != nil {
		return fmt.Errorf("failed to write command vector: %w", err)
	}
	return nil
}

// Address returns the appliance's Bluetooth address.
func (c *Client) Address() bluetooth.Address {
	return c.dev.Address
}

// Close disables notifications and disconnects the appliance.
func (c *Client) Close() error {
	return errors.Join(c.complete.EnableNotifications(nil), c.dev.Disconnect())
}
