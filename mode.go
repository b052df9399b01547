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

package evpilot

import (
	"fmt"
	"strings"
)

// Mode selects which side of the charging handshake the simulator plays
type Mode int

const (
	// ModeUnknown is the zero value and stands for an unrecognised argument
	ModeUnknown Mode = iota
	// ModeSECC simulates the charging station: prox off, pilot on at 12V state A
	ModeSECC
	// ModeEVCC simulates the vehicle: prox pullup on, pilot state B
	ModeEVCC
	// ModeOff disconnects prox and pilot
	ModeOff
)

// Usage is printed when the mode argument is missing or unrecognised.
// The single %s verb takes the program name.
const Usage = "Usage: %s <mode> where the mode options are SECC, EVCC, and OFF"

var modeNames = map[Mode]string{
	ModeSECC: "SECC",
	ModeEVCC: "EVCC",
	ModeOff:  "OFF",
}

// String returns the canonical upper case mode name
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "UNKNOWN"
}

// Modes returns the recognised modes in documentation order
func Modes() []Mode {
	return []Mode{ModeSECC, ModeEVCC, ModeOff}
}

// ResolveMode matches arg against the known mode names, ignoring case and
// surrounding whitespace. Anything else yields ModeUnknown.
func ResolveMode(arg string) Mode {
	arg = strings.ToUpper(strings.TrimSpace(arg))
	for _, m := range Modes() {
		if modeNames[m] == arg {
			return m
		}
	}
	return ModeUnknown
}

// ParseMode is ResolveMode with an error for unrecognised input
func ParseMode(arg string) (Mode, error) {
	m := ResolveMode(arg)
	if m == ModeUnknown {
		return ModeUnknown, fmt.Errorf("%w: %q", ErrInvalidMode, arg)
	}
	return m, nil
}
