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

// Package frame provides frame manipulation and protocol constants for the
// charge-pilot simulator's UART command protocol.
//
// A command frame is laid out as:
//
//	opcode | length | address (2, big-endian) | payload (0..N) | checksum
//
// where length counts every byte after itself (address, payload and checksum)
// and checksum is the XOR of all preceding bytes.
package frame

// Opcodes
const (
	OpcodeWrite = 0x02 // Write a register on the simulator
)

// Register addresses
const (
	AddrSECCPilot    uint16 = 0x0011 // SECC pilot PWM (frequency/duty pair)
	AddrPilotEnable  uint16 = 0x0012 // Pilot output on/off
	AddrPilotState   uint16 = 0x0015 // EVCC pilot state resistor network
	AddrProxResistor uint16 = 0x0050 // Proximity resistor selection
	AddrProxPullup   uint16 = 0x0051 // Proximity pullup on/off
)

// Frame size limits
const (
	HeaderLength     = 4   // opcode + length + address
	MinFrameLength   = 5   // header + checksum, empty payload
	addressLength    = 2   // address bytes counted by the length field
	checksumLength   = 1   // trailing checksum byte counted by the length field
	MaxPayloadLength = 252 // largest payload whose length still fits in one byte
)
