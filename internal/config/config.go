// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads shared defaults for the shoe cleaner commands.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Config holds settings shared by the controller commands and the
// appliance daemon. Zero fields take the command defaults.
type Config struct {
	// Transport is one of "uart", "serial" or "rfcomm".
	Transport string `json:"transport,omitempty"`
	// Name is the advertised device name.
	Name string `json:"name,omitempty"`
	// Address is the device address for rfcomm.
	Address string `json:"address,omitempty"`
	// Channel is the rfcomm channel.
	Channel uint8 `json:"channel,omitempty"`

	// SerialPort and Baud configure the appliance motor
	// controller link.
	SerialPort string `json:"serial_port,omitempty"`
	Baud       int    `json:"baud,omitempty"`
}

// Path returns the default configuration file path.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "shoecleaner", "config.json")
}

// Load reads the configuration at path. A missing file is not an error
// and returns the zero Config.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	err = json.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Or returns v if it is not the zero value, otherwise def.
func Or[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
