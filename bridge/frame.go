// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bridge

import (
	"github.com/smallnest/ringbuffer"

	"github.com/kortschak/shoecleaner/command"
)

// framer reassembles commands from a byte stream. Stream transports
// may split or merge the controller's writes. A window that is not a
// valid vector is discarded one byte at a time until the stream is
// aligned again.
type framer struct {
	rb *ringbuffer.RingBuffer
}

func newFramer() *framer {
	return &framer{rb: ringbuffer.New(16 * command.VectorSize)}
}

// feed adds p to the stream and calls fn with each complete command.
// It returns the number of bytes skipped while resynchronising.
func (f *framer) feed(p []byte, fn func(command.Command)) (skipped int) {
	var v command.Vector
	for len(p) != 0 {
		n, _ := f.rb.Write(p)
		p = p[n:]
		for f.rb.Length() >= command.VectorSize {
			f.rb.Peek(v[:])
			cmd, err := command.Decode(v[:])
			if err != nil {
				f.rb.ReadByte()
				skipped++
				continue
			}
			f.rb.Read(v[:])
			fn(cmd)
		}
	}
	return skipped
}

// pending returns the number of bytes of an incomplete vector held.
func (f *framer) pending() int {
	return f.rb.Length()
}
