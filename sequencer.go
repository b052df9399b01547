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
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ZaparooProject/go-evpilot/internal/frame"
)

// Step describes one command of a mode sequence as it is sent
type Step struct {
	Template Template
	Frame    []byte
	Mode     Mode
	Index    int
}

// ResponseValidator inspects the device response to a step. Returning a
// non-nil error aborts the remaining sequence.
type ResponseValidator func(step Step, response []byte) error

// Sequencer issues command sequences to the simulator over a Transport.
//
// Commands are strictly sequential: a step is only transmitted after the
// response read of the previous step has completed. The Sequencer does not
// own the transport and never closes it.
type Sequencer struct {
	transport  Transport
	onTransmit func(Step)
	onResponse func(Step, []byte)
	validate   ResponseValidator
}

// NewSequencer creates a sequencer bound to transport
func NewSequencer(transport Transport, opts ...Option) (*Sequencer, error) {
	if transport == nil {
		return nil, fmt.Errorf("%w: nil transport", ErrTransportUnavailable)
	}

	s := &Sequencer{transport: transport}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Run puts the simulator into mode by sending every template of
// SequenceFor(mode) in order. An unknown mode fails with ErrInvalidMode
// before anything is transmitted.
func (s *Sequencer) Run(ctx context.Context, mode Mode) error {
	templates := SequenceFor(mode)
	if len(templates) == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}

	debugf("Running %s sequence (%d steps)", mode, len(templates))
	for i, tpl := range templates {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s sequence interrupted before step %d: %w", mode, i+1, err)
		}

		step := Step{Mode: mode, Index: i, Template: tpl, Frame: tpl.Frame()}
		if err := s.exchange(step); err != nil {
			return &StepError{Mode: mode, Index: i, Template: tpl.Name(), Err: err}
		}
	}
	debugf("%s sequence complete", mode)
	return nil
}

// Send transmits a single template and returns the raw response
func (s *Sequencer) Send(ctx context.Context, tpl Template) ([]byte, error) {
	if tpl.Len() == 0 {
		return nil, fmt.Errorf("%w: empty template", ErrUnknownTemplate)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("send %s: %w", tpl.Name(), err)
	}

	var response []byte
	step := Step{Mode: ModeUnknown, Template: tpl, Frame: tpl.Frame()}
	err := s.exchangeWith(step, func(resp []byte) { response = resp })
	if err != nil {
		return nil, fmt.Errorf("send %s: %w", tpl.Name(), err)
	}
	return response, nil
}

func (s *Sequencer) exchange(step Step) error {
	return s.exchangeWith(step, nil)
}

func (s *Sequencer) exchangeWith(step Step, sink func([]byte)) error {
	if s.onTransmit != nil {
		s.onTransmit(step)
	}
	debugln("transmit",
		zap.String("template", step.Template.Name()),
		zap.String("frame", frame.FormatHex(step.Frame)))

	if err := s.transport.Transmit(step.Frame); err != nil {
		return asTransportError("transmit", err)
	}

	resp, err := s.transport.Receive()
	if err != nil {
		return asTransportError("receive", err)
	}
	if len(resp) == 0 {
		debugln("no response before read timeout", zap.String("template", step.Template.Name()))
	} else {
		debugln("response", zap.String("data", frame.FormatHex(resp)))
	}

	if s.onResponse != nil {
		s.onResponse(step, resp)
	}
	if sink != nil {
		sink(resp)
	}

	if s.validate != nil {
		if err := s.validate(step, resp); err != nil {
			return err
		}
	}
	return nil
}

func asTransportError(op string, err error) error {
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	return NewTransportError(op, "", err)
}
