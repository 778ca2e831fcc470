// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bridge implements the appliance side of the shoe cleaner.
//
// A Bridge accepts command vectors from a controller over Bluetooth and
// forwards them to the motor controller over a serial line. Status bytes
// written by the motor controller are relayed back to the connected
// controller.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.bug.st/serial"

	"github.com/kortschak/shoecleaner/command"
)

// Serial line defaults for the motor controller.
const (
	DefaultPort = "/dev/ttyUSB0"
	DefaultBaud = 9600

	// DefaultPause is the delay after each forwarded command
	// before the next is written.
	DefaultPause = 100 * time.Millisecond
)

// OpenSerial opens the motor controller serial line, 8N1.
func OpenSerial(path string, baud int) (serial.Port, error) {
	port, err := serial.Open(path, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", path, err)
	}
	return port, nil
}

// Bridge forwards commands to a motor controller.
type Bridge struct {
	port  io.ReadWriter
	log   zerolog.Logger
	pause time.Duration

	wmu sync.Mutex // serialises writes to port

	pmu  sync.Mutex
	peer func(command.Status) error
}

// New returns a Bridge writing to port. Pause is the delay after each
// forwarded command; zero uses DefaultPause.
func New(port io.ReadWriter, pause time.Duration, log zerolog.Logger) *Bridge {
	if pause == 0 {
		pause = DefaultPause
	}
	return &Bridge{port: port, log: log, pause: pause}
}

// Forward writes a command vector to the motor controller.
func (b *Bridge) Forward(cmd command.Command) error {
	v := cmd.Vector()
	b.wmu.Lock()
	defer b.wmu.Unlock()
	_, err := b.port.Write(v[:])
	if err != nil {
		return fmt.Errorf("failed to forward %v: %w", cmd, err)
	}
	b.log.Info().Stringer("command", cmd).Msg("forwarded command")
	time.Sleep(b.pause)
	return nil
}

// receive processes bytes from a stream controller.
func (b *Bridge) receive(f *framer, p []byte) {
	skipped := f.feed(p, b.forward)
	if skipped != 0 {
		b.log.Warn().Int("bytes", skipped).Msg("skipped invalid command bytes")
	}
}

// receiveWrite processes a single GATT write, which must hold exactly
// one command vector.
func (b *Bridge) receiveWrite(value []byte) {
	cmd, err := command.Decode(value)
	if err != nil {
		b.log.Warn().Err(err).Hex("value", value).Msg("dropping invalid write")
		return
	}
	b.forward(cmd)
}

func (b *Bridge) forward(cmd command.Command) {
	err := b.Forward(cmd)
	if err != nil {
		b.log.Error().Err(err).Msg("serial write failed")
	}
}

// attach sets the destination for status reports and returns a function
// that detaches it.
func (b *Bridge) attach(fn func(command.Status) error) (detach func()) {
	b.pmu.Lock()
	b.peer = fn
	b.pmu.Unlock()
	return func() {
		b.pmu.Lock()
		b.peer = nil
		b.pmu.Unlock()
	}
}

// publish sends st to the attached controller, if any.
func (b *Bridge) publish(st command.Status) {
	b.pmu.Lock()
	peer := b.peer
	b.pmu.Unlock()
	if peer == nil {
		b.log.Debug().Stringer("status", st).Msg("no controller attached")
		return
	}
	err := peer(st)
	if err != nil {
		b.log.Warn().Err(err).Stringer("status", st).Msg("failed to relay status")
		return
	}
	b.log.Info().Stringer("status", st).Msg("relayed status")
}

// RelayStatus reads status bytes from the motor controller until ctx is
// done or the port fails. Bytes that are not valid status values are
// ignored.
func (b *Bridge) RelayStatus(ctx context.Context) error {
	var buf [16]byte
	for {
		if ctx.Err() != nil {
			return nil
		}
		n, err := b.port.Read(buf[:])
		for _, c := range buf[:n] {
			st := command.Status(c)
			if !st.Valid() {
				b.log.Debug().Uint8("byte", c).Msg("ignoring serial byte")
				continue
			}
			b.publish(st)
		}
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to read serial port: %w", err)
		}
	}
}
