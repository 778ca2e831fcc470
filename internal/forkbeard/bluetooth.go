// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package forkbeard provides helper functions for interacting with
// Bluetooth devices.
package forkbeard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tinygo.org/x/bluetooth"
)

// ErrNotFound is returned when a scan ends without finding the
// requested device.
var ErrNotFound = errors.New("device not found")

// FindByName scans for a device advertising the given local name and
// returns the first match. Scanning stops when a device is found or
// ctx is done.
func FindByName(ctx context.Context, adapter *bluetooth.Adapter, name string) (bluetooth.ScanResult, error) {
	return findByName(ctx, adapter, name)
}

type scanner interface {
	Scan(func(*bluetooth.Adapter, bluetooth.ScanResult)) error
	StopScan() error
}

func findByName(ctx context.Context, s scanner, name string) (bluetooth.ScanResult, error) {
	if err := ctx.Err(); err != nil {
		return bluetooth.ScanResult{}, fmt.Errorf("failed to find %q: %w", name, err)
	}
	found := make(chan bluetooth.ScanResult, 1)
	done := make(chan error, 1)
	go func() {
		done <- s.Scan(func(_ *bluetooth.Adapter, r bluetooth.ScanResult) {
			if ctx.Err() != nil {
				s.StopScan()
				return
			}
			if r.LocalName() != name {
				return
			}
			select {
			case found <- r:
				s.StopScan()
			default:
			}
		})
	}()
	select {
	case r := <-found:
		<-done
		return r, nil
	case err := <-done:
		select {
		case r := <-found:
			return r, nil
		default:
		}
		if err == nil {
			err = ErrNotFound
		}
		return bluetooth.ScanResult{}, fmt.Errorf("failed to find %q: %w", name, err)
	case <-ctx.Done():
		stopScan(s, done)
		return bluetooth.ScanResult{}, fmt.Errorf("failed to find %q: %w", name, ctx.Err())
	}
}

// stopScan stops s and waits for its scan to return. StopScan fails
// until the scan has started, so it is retried.
func stopScan(s scanner, done <-chan error) {
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	for {
		if s.StopScan() == nil {
			<-done
			return
		}
		select {
		case <-done:
			return
		case <-tick.C:
		}
	}
}

// DeviceCharacteristics returns the requested characteristics of a
// Bluetooth service in the order of charIDs. Repeated IDs return the
// same characteristic.
func DeviceCharacteristics(dev *bluetooth.Device, srvID bluetooth.UUID, charIDs ...bluetooth.UUID) ([]bluetooth.DeviceCharacteristic, error) {
	srv, err := dev.DiscoverServices([]bluetooth.UUID{srvID})
	if err != nil {
		return nil, fmt.Errorf("failed to discover service %s: %w", srvID, err)
	}
	if len(srv) == 0 {
		return nil, fmt.Errorf("service %s not found", srvID)
	}
	chars, err := srv[0].DiscoverCharacteristics(unique(charIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to discover characteristics of %s: %w", srvID, err)
	}
	dst := make([]bluetooth.DeviceCharacteristic, len(charIDs))
	for i, id := range charIDs {
		j := index(chars, id)
		if j < 0 {
			return nil, fmt.Errorf("device characteristic %s not found", id)
		}
		dst[i] = chars[j]
	}
	return dst, nil
}

func unique(ids []bluetooth.UUID) []bluetooth.UUID {
	var u []bluetooth.UUID
	for _, id := range ids {
		seen := false
		for _, e := range u {
			if e == id {
				seen = true
				break
			}
		}
		if !seen {
			u = append(u, id)
		}
	}
	return u
}

func index(chars []bluetooth.DeviceCharacteristic, id bluetooth.UUID) int {
	for i, c := range chars {
		if c.UUID() == id {
			return i
		}
	}
	return -1
}
