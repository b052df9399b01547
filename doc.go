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

/*
Package evpilot drives an EV charge-pilot simulator over its UART.

The simulator exposes the pilot and proximity lines of a charging connector
as registers that are written with short fixed command frames:

	opcode | length | address (2) | payload | checksum

where the checksum is the XOR of every preceding byte. The package provides
the named command templates, the per-mode command sequences and a Sequencer
that sends them one at a time, reading the device response after each
command.

Modes:
  - SECC simulates the charging station: prox pullup and resistor off,
    pilot on at 12V with 100% duty cycle (state A)
  - EVCC simulates the vehicle: prox pullup on, pilot output off,
    pilot state B (2.7k)
  - OFF disables prox and pilot and returns the pilot network to state A

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-evpilot"
	    "github.com/ZaparooProject/go-evpilot/transport/uart"
	)

	transport, err := uart.New("/dev/ttyAPP2")
	if err != nil {
	    return err
	}
	defer transport.Close()

	seq, err := evpilot.NewSequencer(transport)
	if err != nil {
	    return err
	}
	if err := seq.Run(ctx, evpilot.ResolveMode("evcc")); err != nil {
	    return err
	}

Responses are not validated by default. Install a ResponseValidator with
WithResponseValidator to abort a sequence on a missing or bad
acknowledgement.

Thread Safety: a Sequencer is meant for a single goroutine. Templates are
immutable values and safe to share.
*/
package evpilot
