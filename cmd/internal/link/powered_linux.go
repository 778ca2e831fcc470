// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package link

import "github.com/kortschak/shoecleaner/internal/bluez"

// checkPowered returns bluez.ErrDisabled if the default adapter is
// powered off.
func checkPowered() error {
	bz, err := bluez.Open(bluez.DefaultAdapter)
	if err != nil {
		return err
	}
	defer bz.Close()
	return bz.CheckPowered()
}
