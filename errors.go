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
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidMode is returned when a mode argument names none of SECC, EVCC or OFF
	ErrInvalidMode = errors.New("invalid mode")
	// ErrUnknownTemplate is returned when a command template name is not recognised
	ErrUnknownTemplate = errors.New("unknown command template")

	// ErrTransportUnavailable is returned when the serial port cannot be opened
	ErrTransportUnavailable = errors.New("transport unavailable")
	// ErrTransportClosed is returned when using a transport after Close
	ErrTransportClosed = errors.New("transport closed")
	// ErrTransportWrite is returned when a frame cannot be written
	ErrTransportWrite = errors.New("transport write failed")
	// ErrTransportRead is returned when the port fails while reading a response
	ErrTransportRead = errors.New("transport read failed")
	// ErrShortWrite is returned when the port accepts fewer bytes than the frame holds
	ErrShortWrite = errors.New("short write")

	// ErrResponseRejected is returned by response validators for a bad acknowledgement
	ErrResponseRejected = errors.New("response rejected")
)

// TransportError provides detailed information about transport failures
type TransportError struct {
	Err  error
	Op   string
	Port string
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s on %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a new transport error
func NewTransportError(op, port string, err error) *TransportError {
	return &TransportError{
		Op:   op,
		Port: port,
		Err:  err,
	}
}

// StepError reports which step of a mode sequence failed
type StepError struct {
	Err      error
	Template string
	Mode     Mode
	Index    int
}

// Error implements the error interface
func (e *StepError) Error() string {
	return fmt.Sprintf("%s step %d (%s): %v", e.Mode, e.Index+1, e.Template, e.Err)
}

// Unwrap returns the underlying error
func (e *StepError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err was caused by the transport, as opposed
// to bad input or a rejected response
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
