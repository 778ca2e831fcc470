// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tinygo.org/x/bluetooth"

	"github.com/kortschak/shoecleaner/ble"
	"github.com/kortschak/shoecleaner/command"
	"github.com/kortschak/shoecleaner/rfcomm"
)

// Stream is a controller connection carrying command vectors in and
// status reports out.
type Stream interface {
	io.Reader
	Notify(command.Status) error
}

// ServeConn forwards commands read from conn until it is closed, and
// relays status reports to it while it is open.
func (b *Bridge) ServeConn(conn Stream) error {
	detach := b.attach(conn.Notify)
	defer detach()

	f := newFramer()
	var buf [1024]byte
	for {
		n, err := conn.Read(buf[:])
		b.receive(f, buf[:n])
		if err != nil {
			if f.pending() != 0 {
				b.log.Warn().Int("bytes", f.pending()).Msg("connection closed with partial vector")
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// Acceptor is a source of controller connections.
type Acceptor interface {
	Accept() (*rfcomm.Conn, error)
	Close() error
}

// ServeRFCOMM accepts controllers from ln one at a time until ctx is
// done. Each controller is served until it disconnects.
func (b *Bridge) ServeRFCOMM(ctx context.Context, ln Acceptor) error {
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()
	for {
		b.log.Info().Msg("waiting for controller")
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		b.log.Info().Str("remote", conn.RemoteAddr()).Msg("controller connected")
		closeConn := context.AfterFunc(ctx, func() { conn.Close() })
		err = b.ServeConn(conn)
		closeConn()
		conn.Close()
		if err != nil && ctx.Err() == nil {
			b.log.Warn().Err(err).Str("remote", conn.RemoteAddr()).Msg("controller connection failed")
		}
		b.log.Info().Str("remote", conn.RemoteAddr()).Msg("controller disconnected")
		if ctx.Err() != nil {
			return nil
		}
	}
}

// Advertise registers the profile's service on adapter, advertises it
// under name and relays status reports as notifications. The adapter
// must be enabled.
func (b *Bridge) Advertise(adapter *bluetooth.Adapter, p ble.Profile, name string) error {
	var complete bluetooth.Characteristic
	control := bluetooth.CharacteristicConfig{
		UUID:  p.Control,
		Flags: bluetooth.CharacteristicWritePermission | bluetooth.CharacteristicWriteWithoutResponsePermission,
		WriteEvent: func(client bluetooth.Connection, offset int, value []byte) {
			if offset != 0 {
				return
			}
			b.receiveWrite(value)
		},
	}
	var chars []bluetooth.CharacteristicConfig
	if p.Complete == p.Control {
		control.Handle = &complete
		control.Flags |= bluetooth.CharacteristicNotifyPermission | bluetooth.CharacteristicReadPermission
		chars = []bluetooth.CharacteristicConfig{control}
	} else {
		chars = []bluetooth.CharacteristicConfig{
			control,
			{
				Handle: &complete,
				UUID:   p.Complete,
				Flags:  bluetooth.CharacteristicNotifyPermission | bluetooth.CharacteristicReadPermission,
			},
		}
	}
	err := adapter.AddService(&bluetooth.Service{
		UUID:            p.Service,
		Characteristics: chars,
	})
	if err != nil {
		return fmt.Errorf("failed to add %s service: %w", p.Name, err)
	}

	adv := adapter.DefaultAdvertisement()
	err = adv.Configure(bluetooth.AdvertisementOptions{
		LocalName:    name,
		ServiceUUIDs: []bluetooth.UUID{p.Service},
	})
	if err != nil {
		return fmt.Errorf("failed to configure advertisement: %w", err)
	}
	err = adv.Start()
	if err != nil {
		return fmt.Errorf("failed to start advertisement: %w", err)
	}

	b.attach(func(st command.Status) error {
		_, err := complete.Write([]byte{byte(st)})
		return err
	})
	b.log.Info().Str("name", name).Str("profile", p.Name).Msg("advertising")
	return nil
}
