// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bluez provides adapter and device queries against the BlueZ
// D-Bus API.
package bluez

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	busName       = "org.bluez"
	adapterIface  = "org.bluez.Adapter1"
	deviceIface   = "org.bluez.Device1"
	propsIface    = "org.freedesktop.DBus.Properties"
	objectManager = "org.freedesktop.DBus.ObjectManager"

	// DefaultAdapter is the object path of the first adapter.
	DefaultAdapter dbus.ObjectPath = "/org/bluez/hci0"
)

var (
	// ErrDisabled is returned when the adapter is powered off.
	ErrDisabled = errors.New("bluetooth is disabled")

	// ErrNoDevice is returned when no known device has the
	// requested name.
	ErrNoDevice = errors.New("no known device with name")
)

// Conn is a connection to BlueZ on the system bus.
type Conn struct {
	conn    *dbus.Conn
	adapter dbus.ObjectPath
}

// Open connects to the system bus and checks that BlueZ is present.
func Open(adapter dbus.ObjectPath) (*Conn, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", err)
	}
	var names []string
	err = conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to list bus names: %w", err)
	}
	if !slices.Contains(names, busName) {
		conn.Close()
		return nil, fmt.Errorf("%s not found on system bus", busName)
	}
	if adapter == "" {
		adapter = DefaultAdapter
	}
	return &Conn{conn: conn, adapter: adapter}, nil
}

// Close closes the bus connection.
func (c *Conn) Close() error { return c.conn.Close() }

// Powered returns whether the adapter is powered on.
func (c *Conn) Powered() (bool, error) {
	var v dbus.Variant
	err := c.conn.Object(busName, c.adapter).Call(propsIface+".Get", 0, adapterIface, "Powered").Store(&v)
	if err != nil {
		return false, fmt.Errorf("failed to get adapter power state: %w", err)
	}
	on, ok := v.Value().(bool)
	if !ok {
		return false, fmt.Errorf("adapter Powered is %T not bool", v.Value())
	}
	return on, nil
}

// CheckPowered returns ErrDisabled if the adapter is powered off.
func (c *Conn) CheckPowered() error {
	on, err := c.Powered()
	if err != nil {
		return err
	}
	if !on {
		return ErrDisabled
	}
	return nil
}

// DeviceByName returns the address of a device known to the adapter
// with the given name. Paired devices are preferred.
func (c *Conn) DeviceByName(name string) (string, error) {
	var objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	err := c.conn.Object(busName, "/").Call(objectManager+".GetManagedObjects", 0).Store(&objects)
	if err != nil {
		return "", fmt.Errorf("failed to get managed objects: %w", err)
	}
	return findDevice(objects, c.adapter, name)
}

func findDevice(objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant, adapter dbus.ObjectPath, name string) (string, error) {
	var (
		addr   string
		paired bool
	)
	// Iterate in path order so that the choice among unpaired
	// devices is stable.
	paths := make([]dbus.ObjectPath, 0, len(objects))
	for p := range objects {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	for _, p := range paths {
		if !strings.HasPrefix(string(p), string(adapter)+"/") {
			continue
		}
		props, ok := objects[p][deviceIface]
		if !ok {
			continue
		}
		if n, _ := props["Name"].Value().(string); n != name {
			continue
		}
		a, _ := props["Address"].Value().(string)
		if a == "" {
			continue
		}
		isPaired, _ := props["Paired"].Value().(bool)
		if addr == "" || (isPaired && !paired) {
			addr = a
			paired = isPaired
		}
	}
	if addr == "" {
		return "", fmt.Errorf("%w %q", ErrNoDevice, name)
	}
	return addr, nil
}
