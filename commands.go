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

	"github.com/ZaparooProject/go-evpilot/internal/frame"
)

// Template is a named, immutable command frame without its checksum.
// The zero value is an empty template.
type Template struct {
	name string
	raw  string
}

// Name returns the template name, e.g. "disable_prox_pullup"
func (t Template) Name() string {
	return t.name
}

// Bytes returns a fresh copy of the template bytes. Callers may modify the
// result without affecting the template.
func (t Template) Bytes() []byte {
	return []byte(t.raw)
}

// Len returns the number of bytes in the template
func (t Template) Len() int {
	return len(t.raw)
}

// Frame returns the template with its checksum appended
func (t Template) Frame() []byte {
	return frame.AppendChecksum(t.Bytes())
}

// String implements fmt.Stringer
func (t Template) String() string {
	return fmt.Sprintf("%s [%s]", t.name, frame.FormatHex(t.Bytes()))
}

func newTemplate(name string, address uint16, payload ...byte) Template {
	raw, err := frame.Build(frame.OpcodeWrite, address, payload)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in template %s: %v", name, err))
	}
	return Template{name: name, raw: string(raw)}
}

// The built-in templates are unexported so they cannot be reassigned; use
// Templates or LookupTemplate to reach them.

// Proximity resistor selection. 0x00 selects 2700 Ohms, 0x07 disconnects.
var (
	enableProxResistor  = newTemplate("enable_prox_resistor", frame.AddrProxResistor, 0x00)
	disableProxResistor = newTemplate("disable_prox_resistor", frame.AddrProxResistor, 0x07)
)

// Pullup resistor on the proximity signal
var (
	enableProxPullup  = newTemplate("enable_prox_pullup", frame.AddrProxPullup, 0x01)
	disableProxPullup = newTemplate("disable_prox_pullup", frame.AddrProxPullup, 0x00)
)

// Pilot output
var (
	enablePilot  = newTemplate("enable_pilot", frame.AddrPilotEnable, 0x01)
	disablePilot = newTemplate("disable_pilot", frame.AddrPilotEnable, 0x00)
)

// EVCC pilot state resistor network. These values differ from the datasheet.
var (
	stateA = newTemplate("StateA", frame.AddrPilotState, 0x00) // no resistors
	stateB = newTemplate("StateB", frame.AddrPilotState, 0x01) // 2.7k
	stateC = newTemplate("StateC", frame.AddrPilotState, 0x03) // 2.7k || 1.3k = 888 Ohms
)

// seccStateA drives the pilot at 12V with 100% duty cycle
var seccStateA = newTemplate("secc_StateA", frame.AddrSECCPilot,
	0xE8, 0x03, // 1000
	0xE8, 0x03, // 1000
)

// Templates returns every built-in command template. Each call returns a
// new slice.
func Templates() []Template {
	return []Template{
		enableProxResistor,
		disableProxResistor,
		enableProxPullup,
		disableProxPullup,
		enablePilot,
		disablePilot,
		stateA,
		stateB,
		stateC,
		seccStateA,
	}
}

// LookupTemplate finds a built-in template by name, ignoring case
func LookupTemplate(name string) (Template, error) {
	name = strings.TrimSpace(name)
	for _, t := range Templates() {
		if strings.EqualFold(t.name, name) {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
}

// SequenceFor returns the ordered templates that put the simulator into mode.
// Each call returns a new slice. Unknown modes yield nil.
func SequenceFor(mode Mode) []Template {
	switch mode {
	case ModeSECC:
		return []Template{disableProxPullup, disableProxResistor, enablePilot, seccStateA}
	case ModeEVCC:
		return []Template{enableProxPullup, disablePilot, stateB}
	case ModeOff:
		return []Template{disableProxPullup, disableProxResistor, disablePilot, stateA}
	default:
		return nil
	}
}
