// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux

package rfcomm

import "context"

// Dial connects to the appliance at addr on the given channel.
func Dial(ctx context.Context, addr string, channel uint8) (*Conn, error) {
	return nil, ErrUnsupported
}

// Listener accepts RFCOMM connections on a local channel.
type Listener struct{}

// Listen binds to channel on all local adapters.
func Listen(channel uint8) (*Listener, error) {
	return nil, ErrUnsupported
}

// Accept waits for the next connection.
func (l *Listener) Accept() (*Conn, error) { return nil, ErrUnsupported }

// Channel returns the listening channel.
func (l *Listener) Channel() uint8 { return 0 }

// Close stops listening.
func (l *Listener) Close() error { return nil }
