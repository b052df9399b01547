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
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Frame errors
var (
	ErrFrameTooShort    = errors.New("frame too short")
	ErrLengthMismatch   = errors.New("frame length field does not match frame size")
	ErrChecksumMismatch = errors.New("frame checksum mismatch")
	ErrPayloadTooLarge  = errors.New("payload too large for frame")
	ErrValueOutOfRange  = errors.New("value out of range for 16-bit encoding")
)

// Fields holds the decoded parts of a checksummed command frame
type Fields struct {
	Payload  []byte
	Address  uint16
	Opcode   byte
	Length   byte
	Checksum byte
}

// Checksum returns the XOR of every byte in data. An empty slice yields 0.
func Checksum(data []byte) byte {
	var bcc byte
	for _, b := range data {
		bcc ^= b
	}
	return bcc
}

// AppendChecksum returns a new frame holding data followed by its checksum.
// The input is never modified and the result never shares its backing array.
func AppendChecksum(data []byte) []byte {
	out := make([]byte, len(data), len(data)+1)
	copy(out, data)
	return append(out, Checksum(data))
}

// ValidateChecksum reports whether the last byte of frame is the XOR of the
// bytes before it
func ValidateChecksum(frame []byte) bool {
	if len(frame) < 2 {
		return false
	}
	last := len(frame) - 1
	return Checksum(frame[:last]) == frame[last]
}

// FormatHex renders data as space separated uppercase hex pairs, e.g. "02 0A".
func FormatHex(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(data) * 3)
	for i, b := range data {
		if i > 0 {
			_ = sb.WriteByte(' ')
		}
		_, _ = fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}

// EncodeUint16LE returns v as two little-endian bytes
func EncodeUint16LE(v uint16) []byte {
	out := make([]byte, 2)
	binary.LittleEndian.PutUint16(out, v)
	return out
}

// EncodeDecimalLE truncates value to an integer and encodes it as an unsigned
// little-endian 16-bit quantity, as used by the SECC pilot PWM payload
// (1000 -> E8 03).
func EncodeDecimalLE(value float64) ([]byte, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("%w: %v", ErrValueOutOfRange, value)
	}
	truncated := math.Trunc(value)
	if truncated < 0 || truncated > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %v", ErrValueOutOfRange, value)
	}
	return EncodeUint16LE(uint16(truncated)), nil
}

// Build assembles an unchecksummed frame for opcode, address and payload.
// The length byte accounts for the checksum that AppendChecksum adds later.
func Build(opcode byte, address uint16, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadLength {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadTooLarge, len(payload), MaxPayloadLength)
	}

	out := make([]byte, 0, HeaderLength+len(payload)+checksumLength)
	out = append(out, opcode, byte(addressLength+len(payload)+checksumLength))
	out = binary.BigEndian.AppendUint16(out, address)
	return append(out, payload...), nil
}

// Parse splits a checksummed frame into its fields
func Parse(frame []byte) (Fields, error) {
	if len(frame) < MinFrameLength {
		return Fields{}, fmt.Errorf("%w: %d bytes", ErrFrameTooShort, len(frame))
	}

	length := frame[1]
	if int(length) != len(frame)-2 {
		return Fields{}, fmt.Errorf("%w: length byte %d, frame carries %d", ErrLengthMismatch, length, len(frame)-2)
	}

	if !ValidateChecksum(frame) {
		return Fields{}, fmt.Errorf("%w: got %02X, want %02X",
			ErrChecksumMismatch, frame[len(frame)-1], Checksum(frame[:len(frame)-1]))
	}

	payload := make([]byte, len(frame)-MinFrameLength)
	copy(payload, frame[HeaderLength:len(frame)-1])

	return Fields{
		Opcode:   frame[0],
		Length:   length,
		Address:  binary.BigEndian.Uint16(frame[2:4]),
		Payload:  payload,
		Checksum: frame[len(frame)-1],
	}, nil
}
