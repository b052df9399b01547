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

package frame

import (
	"bytes"
	"errors"
	"testing"
)

func TestBuild(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		payload []byte
		want    []byte
		address uint16
		opcode  byte
	}{
		{
			name:    "prox resistor 2.7k",
			opcode:  OpcodeWrite,
			address: AddrProxResistor,
			payload: []byte{0x00},
			want:    []byte{0x02, 0x04, 0x00, 0x50, 0x00},
		},
		{
			name:    "pilot state C",
			opcode:  OpcodeWrite,
			address: AddrPilotState,
			payload: []byte{0x03},
			want:    []byte{0x02, 0x04, 0x00, 0x15, 0x03},
		},
		{
			name:    "secc pwm pair",
			opcode:  OpcodeWrite,
			address: AddrSECCPilot,
			payload: []byte{0xE8, 0x03, 0xE8, 0x03},
			want:    []byte{0x02, 0x07, 0x00, 0x11, 0xE8, 0x03, 0xE8, 0x03},
		},
		{
			name:    "empty payload",
			opcode:  OpcodeWrite,
			address: 0x1234,
			payload: nil,
			want:    []byte{0x02, 0x03, 0x12, 0x34},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Build(tt.opcode, tt.address, tt.payload)
			if err != nil {
				t.Fatalf("Build() unexpected error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Build() = % X, want % X", got, tt.want)
			}
		})
	}
}

func TestBuildPayloadTooLarge(t *testing.T) {
	t.Parallel()
	if _, err := Build(OpcodeWrite, 0, make([]byte, MaxPayloadLength)); err != nil {
		t.Fatalf("Build() at max payload: %v", err)
	}
	_, err := Build(OpcodeWrite, 0, make([]byte, MaxPayloadLength+1))
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Errorf("Build() error = %v, want ErrPayloadTooLarge", err)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	raw := AppendChecksum([]byte{0x02, 0x07, 0x00, 0x11, 0xE8, 0x03, 0xE8, 0x03})
	got, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if got.Opcode != OpcodeWrite {
		t.Errorf("Opcode = %02X, want %02X", got.Opcode, OpcodeWrite)
	}
	if got.Length != 0x07 {
		t.Errorf("Length = %d, want 7", got.Length)
	}
	if got.Address != AddrSECCPilot {
		t.Errorf("Address = %04X, want %04X", got.Address, AddrSECCPilot)
	}
	if !bytes.Equal(got.Payload, []byte{0xE8, 0x03, 0xE8, 0x03}) {
		t.Errorf("Payload = % X", got.Payload)
	}
	if got.Checksum != 0x14 {
		t.Errorf("Checksum = %02X, want 14", got.Checksum)
	}

	// Payload must be a copy
	got.Payload[0] = 0x00
	if raw[4] != 0xE8 {
		t.Error("Parse() payload aliases the input frame")
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		want  error
		name  string
		frame []byte
	}{
		{
			name:  "too short",
			frame: []byte{0x02, 0x04, 0x00, 0x50},
			want:  ErrFrameTooShort,
		},
		{
			name:  "length mismatch",
			frame: AppendChecksum([]byte{0x02, 0x05, 0x00, 0x50, 0x00}),
			want:  ErrLengthMismatch,
		},
		{
			name:  "bad checksum",
			frame: []byte{0x02, 0x04, 0x00, 0x50, 0x00, 0x00},
			want:  ErrChecksumMismatch,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Parse(tt.frame); !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

// TestBuildParseRoundTrip builds, checksums and parses every register write
// the simulator understands
func TestBuildParseRoundTrip(t *testing.T) {
	t.Parallel()
	writes := []struct {
		payload []byte
		address uint16
	}{
		{address: AddrProxResistor, payload: []byte{0x07}},
		{address: AddrProxPullup, payload: []byte{0x01}},
		{address: AddrPilotEnable, payload: []byte{0x00}},
		{address: AddrPilotState, payload: []byte{0x01}},
		{address: AddrSECCPilot, payload: append(EncodeUint16LE(1000), EncodeUint16LE(1000)...)},
	}

	for _, w := range writes {
		built, err := Build(OpcodeWrite, w.address, w.payload)
		if err != nil {
			t.Fatalf("Build(%04X): %v", w.address, err)
		}
		fields, err := Parse(AppendChecksum(built))
		if err != nil {
			t.Fatalf("Parse(%s): %v", FormatHex(built), err)
		}
		if fields.Address != w.address || !bytes.Equal(fields.Payload, w.payload) {
			t.Errorf("round trip of %04X gave address %04X payload % X", w.address, fields.Address, fields.Payload)
		}
	}
}
