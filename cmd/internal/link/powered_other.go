// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux

package link

// checkPowered is a no-op without BlueZ; the platform stack reports
// a disabled adapter when it is enabled.
func checkPowered() error { return nil }
