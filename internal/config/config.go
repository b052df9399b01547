// go-evpilot
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-evpilot.
//
// go-evpilot is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-evpilot is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-evpilot; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Package config resolves the serial line settings for the evpilot CLI.
//
// Settings come from three layers, later ones winning: built-in defaults,
// an optional TOML file, then command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultPort is the simulator's UART on the test rig
	DefaultPort        = "/dev/ttyAPP2"
	DefaultBaudRate    = 57600
	DefaultReadTimeout = 1 * time.Second
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the resolved settings
type Config struct {
	Port        string
	IgnorePaths []string
	Blocklist   []string
	BaudRate    int
	ReadTimeout time.Duration
	Debug       bool
}

type fileConfig struct {
	Port          string   `toml:"port"`
	ReadTimeout   string   `toml:"read_timeout"`
	IgnorePaths   []string `toml:"ignore_paths"`
	Blocklist     []string `toml:"blocklist"`
	BaudRate      int      `toml:"baud_rate"`
	ReadTimeoutMS int64    `toml:"read_timeout_ms"`
	Debug         bool     `toml:"debug"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Port:        DefaultPort,
		BaudRate:    DefaultBaudRate,
		ReadTimeout: DefaultReadTimeout,
	}
}

// LoadFile overlays the keys defined in the TOML file at path onto the
// defaults. Keys absent from the file keep their default values.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalidConfig, path, strings.Join(keys, ", "))
	}

	if meta.IsDefined("port") {
		cfg.Port = strings.TrimSpace(raw.Port)
	}

	if meta.IsDefined("baud_rate") {
		cfg.BaudRate = raw.BaudRate
	}

	if meta.IsDefined("read_timeout") && meta.IsDefined("read_timeout_ms") {
		return Config{}, fmt.Errorf("%w: %s sets both read_timeout and read_timeout_ms", ErrInvalidConfig, path)
	}

	if meta.IsDefined("read_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ReadTimeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse read_timeout: %w", err)
		}
		cfg.ReadTimeout = d
	}

	if meta.IsDefined("read_timeout_ms") {
		cfg.ReadTimeout = time.Duration(raw.ReadTimeoutMS) * time.Millisecond
	}

	if meta.IsDefined("debug") {
		cfg.Debug = raw.Debug
	}

	if meta.IsDefined("ignore_paths") {
		cfg.IgnorePaths = normalizeList(raw.IgnorePaths)
	}

	if meta.IsDefined("blocklist") {
		cfg.Blocklist = normalizeList(raw.Blocklist)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the settings can open a port
func (c Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("%w: port is empty", ErrInvalidConfig)
	}
	if c.BaudRate <= 0 {
		return fmt.Errorf("%w: baud_rate must be positive, got %d", ErrInvalidConfig, c.BaudRate)
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("%w: read_timeout must be positive, got %v", ErrInvalidConfig, c.ReadTimeout)
	}
	return nil
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
