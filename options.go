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

	"github.com/ZaparooProject/go-evpilot/internal/frame"
)

// Option is a functional option for configuring a Sequencer
type Option func(*Sequencer) error

// WithTransmitHook registers a callback invoked just before each frame is sent
func WithTransmitHook(fn func(Step)) Option {
	return func(s *Sequencer) error {
		s.onTransmit = fn
		return nil
	}
}

// WithResponseHook registers a callback invoked with every response,
// including empty ones produced by a read timeout
func WithResponseHook(fn func(Step, []byte)) Option {
	return func(s *Sequencer) error {
		s.onResponse = fn
		return nil
	}
}

// WithResponseValidator enables acknowledgement checking. Responses are not
// validated unless a validator is installed.
func WithResponseValidator(fn ResponseValidator) Option {
	return func(s *Sequencer) error {
		if fn == nil {
			return errors.New("response validator cannot be nil")
		}
		s.validate = fn
		return nil
	}
}

// RequireResponse is a ResponseValidator that rejects read timeouts
func RequireResponse(step Step, response []byte) error {
	if len(response) == 0 {
		return fmt.Errorf("%w: no response to %s", ErrResponseRejected, step.Template.Name())
	}
	return nil
}

// RequireChecksummedResponse is a ResponseValidator that rejects empty
// responses and responses whose trailing byte is not their XOR checksum.
// Trailing CR/LF line terminators are ignored.
func RequireChecksummedResponse(step Step, response []byte) error {
	if err := RequireResponse(step, response); err != nil {
		return err
	}
	trimmed := response
	for len(trimmed) > 0 && (trimmed[len(trimmed)-1] == '\n' || trimmed[len(trimmed)-1] == '\r') {
		trimmed = trimmed[:len(trimmed)-1]
	}
	if !frame.ValidateChecksum(trimmed) {
		return fmt.Errorf("%w: bad checksum in response to %s: %s",
			ErrResponseRejected, step.Template.Name(), frame.FormatHex(response))
	}
	return nil
}
