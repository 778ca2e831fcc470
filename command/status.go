// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package command

import (
	"errors"
	"fmt"
)

// Status is an appliance progress report.
type Status uint8

//go:generate go tool golang.org/x/tools/cmd/stringer -type Status
const (
	ArmUp        Status = 1 // swing arm reached the top
	ArmDown      Status = 2 // swing arm reached the bottom
	CleaningDone Status = 3 // cleaning cycle finished
)

// ErrUnknownStatus is returned for status bytes outside the
// defined set.
var ErrUnknownStatus = errors.New("unknown status")

// Valid returns whether s is a defined status.
func (s Status) Valid() bool {
	return ArmUp <= s && s <= CleaningDone
}

// ParseStatus returns the status carried by a notification.
// Only the first byte is significant.
func ParseStatus(data []byte) (Status, error) {
	var s Status
	err := s.UnmarshalBinary(data)
	return s, err
}

func (s *Status) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return errors.New("empty status notification")
	}
	v := Status(data[0])
	if !v.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownStatus, data[0])
	}
	*s = v
	return nil
}

// MarshalBinary returns the single byte wire form of s.
func (s Status) MarshalBinary() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, s)
	}
	return []byte{byte(s)}, nil
}
