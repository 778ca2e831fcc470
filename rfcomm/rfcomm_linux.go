// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rfcomm

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

func socket() (int, error) {
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, unix.BTPROTO_RFCOMM)
	if err != nil {
		return -1, fmt.Errorf("failed to open rfcomm socket: %w", err)
	}
	return fd, nil
}

// Dial connects to the appliance at addr on the given channel.
func Dial(ctx context.Context, addr string, channel uint8) (*Conn, error) {
	bd, err := ParseAddr(addr)
	if err != nil {
		return nil, err
	}
	fd, err := socket()
	if err != nil {
		return nil, err
	}
	done := make(chan error, 1)
	go func() {
		done <- unix.Connect(fd, &unix.SockaddrRFCOMM{Addr: bd, Channel: channel})
	}()
	select {
	case err = <-done:
	case <-ctx.Done():
		unix.Shutdown(fd, unix.SHUT_RDWR)
		<-done
		err = ctx.Err()
	}
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to connect to %s channel %d: %w", addr, channel, err)
	}
	return newConn(fd, addr)
}

// newConn wraps a connected socket. The socket is made non-blocking so
// that it is served by the runtime poller and Close interrupts a
// pending Read.
func newConn(fd int, remote string) (*Conn, error) {
	err := unix.SetNonblock(fd, true)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to set rfcomm socket non-blocking: %w", err)
	}
	return NewConn(os.NewFile(uintptr(fd), "rfcomm"), remote), nil
}

// Listener accepts RFCOMM connections on a local channel.
type Listener struct {
	fd      int
	channel uint8
}

// Listen binds to channel on all local adapters.
func Listen(channel uint8) (*Listener, error) {
	fd, err := socket()
	if err != nil {
		return nil, err
	}
	err = unix.Bind(fd, &unix.SockaddrRFCOMM{Channel: channel})
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to bind rfcomm channel %d: %w", channel, err)
	}
	err = unix.Listen(fd, 1)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to listen on rfcomm channel %d: %w", channel, err)
	}
	return &Listener{fd: fd, channel: channel}, nil
}

// Accept waits for the next connection.
func (l *Listener) Accept() (*Conn, error) {
	nfd, sa, err := unix.Accept(l.fd)
	if err != nil {
		return nil, fmt.Errorf("failed to accept on rfcomm channel %d: %w", l.channel, err)
	}
	unix.CloseOnExec(nfd)
	var remote string
	if sa, ok := sa.(*unix.SockaddrRFCOMM); ok {
		remote = FormatAddr(sa.Addr)
	}
	return newConn(nfd, remote)
}

// Channel returns the listening channel.
func (l *Listener) Channel() uint8 { return l.channel }

// Close stops listening. A blocked Accept returns an error.
func (l *Listener) Close() error {
	unix.Shutdown(l.fd, unix.SHUT_RDWR)
	return unix.Close(l.fd)
}
