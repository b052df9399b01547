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

// Package detection lists serial ports that may host the pilot simulator
package detection

import (
	"errors"
	"fmt"
	"sort"

	"go.bug.st/serial/enumerator"
)

// ErrNoPorts is returned when no usable serial port is found
var ErrNoPorts = errors.New("no serial ports found")

// DeviceInfo describes a serial port
type DeviceInfo struct {
	Path         string
	VIDPID       string
	Product      string
	SerialNumber string
	IsUSB        bool
}

// String returns a one line description for listings
func (d DeviceInfo) String() string {
	if !d.IsUSB {
		return d.Path
	}
	s := fmt.Sprintf("%s (USB %s", d.Path, d.VIDPID)
	if d.Product != "" {
		s += " " + d.Product
	}
	if d.SerialNumber != "" {
		s += " sn " + d.SerialNumber
	}
	return s + ")"
}

// Options filters the port listing
type Options struct {
	// Blocklist holds VID:PID pairs to hide
	Blocklist []string
	// IgnorePaths holds device paths to hide
	IgnorePaths []string
	// USBOnly hides on-board UARTs
	USBOnly bool
}

// DefaultOptions returns the default listing options
func DefaultOptions() Options {
	return Options{
		Blocklist: DefaultBlocklist(),
	}
}

// enumeratePorts is a variable so tests can substitute a fixed port list
var enumeratePorts = enumerator.GetDetailedPortsList

// ListPorts returns the serial ports on this host that pass opts, sorted by path
func ListPorts(opts Options) ([]DeviceInfo, error) {
	details, err := enumeratePorts()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}

	devices := make([]DeviceInfo, 0, len(details))
	for _, d := range details {
		if d == nil || d.Name == "" {
			continue
		}
		info := DeviceInfo{
			Path:         d.Name,
			IsUSB:        d.IsUSB,
			Product:      d.Product,
			SerialNumber: d.SerialNumber,
		}
		if d.IsUSB {
			info.VIDPID = FormatVIDPID(d.VID, d.PID)
		}

		switch {
		case opts.USBOnly && !info.IsUSB:
			continue
		case IsBlocked(info.VIDPID, opts.Blocklist):
			continue
		case IsPathIgnored(info.Path, opts.IgnorePaths):
			continue
		}
		devices = append(devices, info)
	}

	if len(devices) == 0 {
		return nil, ErrNoPorts
	}

	sort.Slice(devices, func(i, j int) bool { return devices[i].Path < devices[j].Path })
	return devices, nil
}
