// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rfcomm implements the classic Bluetooth transport used by
// legacy shoe cleaners.
//
// The appliance listens on an RFCOMM channel and accepts a single
// client. Command vectors are written as-is to the stream, and each byte
// read back is a status report.
package rfcomm

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kortschak/shoecleaner/command"
)

// DefaultChannel is the RFCOMM channel the appliance listens on.
const DefaultChannel = 1

// ErrUnsupported is returned on platforms without RFCOMM sockets.
var ErrUnsupported = errors.New("rfcomm: not supported on this platform")

// ParseAddr parses a Bluetooth device address in the colon separated
// hexadecimal form, most significant byte first, into the little endian
// layout used by the kernel.
func ParseAddr(s string) ([6]byte, error) {
	var a [6]byte
	parts := strings.Split(s, ":")
	if len(parts) != len(a) {
		return a, fmt.Errorf("invalid bluetooth address: %q", s)
	}
	for i, p := range parts {
		if len(p) != 2 {
			return a, fmt.Errorf("invalid bluetooth address: %q", s)
		}
		b, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return a, fmt.Errorf("invalid bluetooth address: %q", s)
		}
		a[len(a)-1-i] = byte(b)
	}
	return a, nil
}

// FormatAddr is the inverse of ParseAddr.
func FormatAddr(a [6]byte) string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", a[5], a[4], a[3], a[2], a[1], a[0])
}

// Conn is an RFCOMM stream to a peer.
type Conn struct {
	rw     io.ReadWriteCloser
	remote string
}

// NewConn returns a Conn over an established stream. It is used by
// the platform implementations and by tests.
func NewConn(rw io.ReadWriteCloser, remote string) *Conn {
	return &Conn{rw: rw, remote: remote}
}

// RemoteAddr returns the peer's Bluetooth address.
func (c *Conn) RemoteAddr() string { return c.remote }

func (c *Conn) Read(p []byte) (int, error)  { return c.rw.Read(p) }
func (c *Conn) Write(p []byte) (int, error) { return c.rw.Write(p) }

// Close closes the stream.
func (c *Conn) Close() error { return c.rw.Close() }

// Send writes a command vector to the stream.
func (c *Conn) Send(v command.Vector) error {
	_, err := c.rw.Write(v[:])
	if err != nil {
		return fmt.Errorf("failed to write command vector: %w", err)
	}
	return nil
}

// Notify writes a single status report to the stream.
func (c *Conn) Notify(st command.Status) error {
	b, err := st.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = c.rw.Write(b)
	return err
}

// Listen reads status reports from the stream until it is closed,
// calling h with each byte received. A clean end of stream returns nil.
func (c *Conn) Listen(h func([]byte)) error {
	var buf [64]byte
	for {
		n, err := c.rw.Read(buf[:])
		for _, b := range buf[:n] {
			h([]byte{b})
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}
