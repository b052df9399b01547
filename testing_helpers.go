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
	"sync"
)

// MockTransport is an in-memory transport that records every transmitted
// frame and replays queued responses. It is used by tests and dry runs.
type MockTransport struct {
	// TransmitErr, when set, is returned by every Transmit call
	TransmitErr error
	// ReceiveErr, when set, is returned by every Receive call
	ReceiveErr error
	// ResponseFunc, when set, computes the response for the last frame sent
	ResponseFunc func(frame []byte) ([]byte, error)

	responses [][]byte
	sent      [][]byte
	receives  int
	mu        sync.Mutex
	closed    bool
}

// NewMockTransport creates a mock transport that answers with the given
// responses in order, then with empty (timed out) reads
func NewMockTransport(responses ...[]byte) *MockTransport {
	return &MockTransport{responses: responses}
}

// Transmit records a copy of frame
func (m *MockTransport) Transmit(frame []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrTransportClosed
	}
	if m.TransmitErr != nil {
		return m.TransmitErr
	}
	m.sent = append(m.sent, append([]byte(nil), frame...))
	return nil
}

// Receive returns the next queued response, or an empty response once the
// queue is exhausted
func (m *MockTransport) Receive() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.receives++
	if m.closed {
		return nil, ErrTransportClosed
	}
	if m.ReceiveErr != nil {
		return nil, m.ReceiveErr
	}
	if m.ResponseFunc != nil {
		var last []byte
		if len(m.sent) > 0 {
			last = m.sent[len(m.sent)-1]
		}
		return m.ResponseFunc(last)
	}
	if len(m.responses) == 0 {
		return []byte{}, nil
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return append([]byte{}, resp...), nil
}

// Sent returns copies of all frames transmitted so far
func (m *MockTransport) Sent() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([][]byte, len(m.sent))
	for i, f := range m.sent {
		out[i] = append([]byte(nil), f...)
	}
	return out
}

// TransmitCount returns how many frames have been transmitted
func (m *MockTransport) TransmitCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// ReceiveCount returns how many reads have been issued
func (m *MockTransport) ReceiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.receives
}

// Close marks the transport as closed
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// IsConnected returns false after Close
func (m *MockTransport) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed
}

// Type returns TransportMock
func (*MockTransport) Type() TransportType {
	return TransportMock
}
