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

// Package uart provides the serial transport for the charge-pilot simulator
package uart

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"

	evpilot "github.com/ZaparooProject/go-evpilot"
	"github.com/ZaparooProject/go-evpilot/internal/frame"
)

const (
	// DefaultBaudRate matches the simulator's factory UART setting
	DefaultBaudRate = 57600
	// DefaultReadTimeout bounds each response read
	DefaultReadTimeout = 1 * time.Second
	// maxResponseLength caps a single response read
	maxResponseLength = 256
	readChunkSize     = 64
)

// openPort is a variable so tests can substitute a fake port
var openPort = serial.Open

// Config holds the line settings for a UART transport. Parity is always
// none, with one stop bit and eight data bits.
type Config struct {
	PortName    string
	BaudRate    int
	ReadTimeout time.Duration
}

// DefaultConfig returns the default line settings for portName
func DefaultConfig(portName string) Config {
	return Config{
		PortName:    portName,
		BaudRate:    DefaultBaudRate,
		ReadTimeout: DefaultReadTimeout,
	}
}

// Transport implements the evpilot.Transport interface for UART communication
type Transport struct {
	port        serial.Port
	logger      *zap.Logger
	portName    string
	readTimeout time.Duration
	mu          sync.Mutex
}

// New opens portName with the default line settings
func New(portName string) (*Transport, error) {
	return NewWithConfig(DefaultConfig(portName))
}

// NewWithConfig opens a UART transport. Pending input is discarded so the
// first response read belongs to the first command.
func NewWithConfig(cfg Config) (*Transport, error) {
	if cfg.PortName == "" {
		return nil, evpilot.NewTransportError("open", "", fmt.Errorf("%w: empty port name", evpilot.ErrTransportUnavailable))
	}
	if cfg.BaudRate <= 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}

	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	}

	port, err := openPort(cfg.PortName, mode)
	if err != nil {
		return nil, evpilot.NewTransportError("open", cfg.PortName,
			fmt.Errorf("%w: %w", evpilot.ErrTransportUnavailable, err))
	}

	t, err := newTransport(cfg, port)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	t.logger.Debug("port opened",
		zap.Int("baud", cfg.BaudRate),
		zap.Duration("read_timeout", cfg.ReadTimeout))
	return t, nil
}

// newTransport wraps an already open port
func newTransport(cfg Config, port serial.Port) (*Transport, error) {
	t := &Transport{
		port:        port,
		portName:    cfg.PortName,
		readTimeout: cfg.ReadTimeout,
		logger:      evpilot.Logger().With(zap.String("port", cfg.PortName)),
	}

	if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
		return nil, evpilot.NewTransportError("configure", cfg.PortName,
			fmt.Errorf("%w: set read timeout: %w", evpilot.ErrTransportUnavailable, err))
	}

	if err := port.ResetInputBuffer(); err != nil {
		t.logger.Debug("failed to flush input buffer", zap.Error(err))
	}
	return t, nil
}

// Transmit writes a complete frame to the port
func (t *Transport) Transmit(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return evpilot.NewTransportError("transmit", t.portName, evpilot.ErrTransportClosed)
	}

	n, err := t.port.Write(data)
	if err != nil {
		return evpilot.NewTransportError("transmit", t.portName, fmt.Errorf("%w: %w", evpilot.ErrTransportWrite, err))
	}
	if n != len(data) {
		return evpilot.NewTransportError("transmit", t.portName,
			fmt.Errorf("%w: %w: wrote %d of %d bytes", evpilot.ErrTransportWrite, evpilot.ErrShortWrite, n, len(data)))
	}

	t.logger.Debug("TX", zap.String("data", frame.FormatHex(data)))
	return nil
}

// Receive reads one line of response: it returns when a newline arrives,
// the read timeout elapses or the response buffer fills. The read timeout
// bounds the whole call, not each read. A timeout with no
// data yields an empty slice and no error.
func (t *Transport) Receive() ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return nil, evpilot.NewTransportError("receive", t.portName, evpilot.ErrTransportClosed)
	}

	deadline := time.Now().Add(t.readTimeout)
	resp := make([]byte, 0, readChunkSize)
	buf := make([]byte, readChunkSize)

	// Reads after the first get only what is left of the timeout, so a
	// trickle of bytes without a newline cannot stretch the wait.
	shortened := false
	defer func() {
		if shortened {
			_ = t.port.SetReadTimeout(t.readTimeout)
		}
	}()

	for len(resp) < maxResponseLength {
		if len(resp) > 0 {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				break
			}
			if err := t.port.SetReadTimeout(remaining); err != nil {
				return resp, evpilot.NewTransportError("receive", t.portName, fmt.Errorf("%w: %w", evpilot.ErrTransportRead, err))
			}
			shortened = true
		}

		n, err := t.port.Read(buf[:min(readChunkSize, maxResponseLength-len(resp))])
		if err != nil {
			var portErr *serial.PortError
			if errors.As(err, &portErr) && portErr.Code() == serial.PortClosed {
				return resp, evpilot.NewTransportError("receive", t.portName, evpilot.ErrTransportClosed)
			}
			return resp, evpilot.NewTransportError("receive", t.portName, fmt.Errorf("%w: %w", evpilot.ErrTransportRead, err))
		}
		if n == 0 {
			// Read timeout
			break
		}

		chunk := buf[:n]
		if i := bytes.IndexByte(chunk, '\n'); i >= 0 {
			resp = append(resp, chunk[:i+1]...)
			break
		}
		resp = append(resp, chunk...)
	}

	t.logger.Debug("RX", zap.String("data", frame.FormatHex(resp)), zap.Int("len", len(resp)))
	return resp, nil
}

// SetTimeout sets the read timeout for the transport
func (t *Transport) SetTimeout(timeout time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if timeout <= 0 {
		return fmt.Errorf("invalid read timeout %v", timeout)
	}
	if t.port != nil {
		if err := t.port.SetReadTimeout(timeout); err != nil {
			return evpilot.NewTransportError("configure", t.portName, err)
		}
	}
	t.readTimeout = timeout
	return nil
}

// Close closes the port. It is safe to call more than once.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return nil
	}
	err := t.port.Close()
	t.port = nil
	if err != nil {
		return evpilot.NewTransportError("close", t.portName, err)
	}
	t.logger.Debug("port closed")
	return nil
}

// IsConnected returns true if the port is open
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.port != nil
}

// Type returns the transport type
func (*Transport) Type() evpilot.TransportType {
	return evpilot.TransportUART
}

// PortName returns the serial device path
func (t *Transport) PortName() string {
	return t.portName
}
