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

// Command evpilot switches the EV charge-pilot simulator between SECC, EVCC
// and OFF modes over its UART.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	evpilot "github.com/ZaparooProject/go-evpilot"
	"github.com/ZaparooProject/go-evpilot/detection"
	"github.com/ZaparooProject/go-evpilot/internal/config"
	"github.com/ZaparooProject/go-evpilot/internal/frame"
	"github.com/ZaparooProject/go-evpilot/transport/uart"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// transportFactory opens the transport for the resolved settings
type transportFactory func(cfg config.Config) (evpilot.Transport, error)

func openUART(cfg config.Config) (evpilot.Transport, error) {
	return uart.NewWithConfig(uart.Config{
		PortName:    cfg.Port,
		BaudRate:    cfg.BaudRate,
		ReadTimeout: cfg.ReadTimeout,
	})
}

type app struct {
	stdout    io.Writer
	stderr    io.Writer
	open      transportFactory
	listPorts func(detection.Options) ([]detection.DeviceInfo, error)
	program   string
}

type flags struct {
	configPath      string
	port            string
	raw             string
	baud            int
	timeout         time.Duration
	debug           bool
	list            bool
	requireResponse bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		open:      openUART,
		listPorts: detection.ListPorts,
		program:   filepath.Base(os.Args[0]),
	}
	code := a.run(ctx, os.Args[1:])
	_ = evpilot.Logger().Sync()
	stop()
	os.Exit(code)
}

func (a *app) usage() {
	_, _ = fmt.Fprintf(a.stderr, evpilot.Usage+"\n", a.program)
}

func (a *app) parseFlags(args []string) (*flags, *flag.FlagSet, error) {
	f := &flags{}
	fs := flag.NewFlagSet(a.program, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.StringVar(&f.configPath, "config", "", "TOML file with port settings")
	fs.StringVar(&f.port, "port", config.DefaultPort, "Serial device path (e.g., /dev/ttyUSB0 or COM3)")
	fs.IntVar(&f.baud, "baud", config.DefaultBaudRate, "Baud rate")
	fs.DurationVar(&f.timeout, "timeout", config.DefaultReadTimeout, "Response read timeout")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug output")
	fs.BoolVar(&f.list, "list", false, "List serial ports and exit")
	fs.StringVar(&f.raw, "raw", "", "Send a single named command template (e.g. StateC) instead of a mode")
	fs.BoolVar(&f.requireResponse, "require-response", false,
		"Abort the sequence when a command gets no response before the read timeout")
	fs.Usage = func() {
		a.usage()
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs, nil
}

// resolveConfig layers defaults, the optional config file, then any flags
// given explicitly on the command line
func resolveConfig(f *flags, fs *flag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.LoadFile(f.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "port":
			cfg.Port = f.port
		case "baud":
			cfg.BaudRate = f.baud
		case "timeout":
			cfg.ReadTimeout = f.timeout
		case "debug":
			cfg.Debug = f.debug
		}
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func (a *app) run(ctx context.Context, args []string) int {
	f, fs, err := a.parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := resolveConfig(f, fs)
	if err != nil {
		_, _ = fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitUsage
	}
	evpilot.SetDebugEnabled(cfg.Debug)

	if f.list {
		return a.runList(cfg)
	}

	// Resolve what to send before touching the port
	var (
		mode evpilot.Mode
		tpl  evpilot.Template
	)
	if f.raw != "" {
		if fs.NArg() > 0 {
			_, _ = fmt.Fprintf(a.stderr, "Error: -raw cannot be combined with a mode (got %q)\n", fs.Arg(0))
			a.usage()
			return exitUsage
		}
		tpl, err = evpilot.LookupTemplate(f.raw)
		if err != nil {
			_, _ = fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return exitUsage
		}
	} else {
		if fs.NArg() < 1 {
			a.usage()
			return exitUsage
		}
		mode = evpilot.ResolveMode(fs.Arg(0))
		if mode == evpilot.ModeUnknown {
			a.usage()
			return exitUsage
		}
	}

	transport, err := a.open(cfg)
	if err != nil {
		_, _ = fmt.Fprintf(a.stderr, "Failed to open %s: %v\n", cfg.Port, err)
		return exitError
	}
	defer func() {
		if closeErr := transport.Close(); closeErr != nil {
			_, _ = fmt.Fprintf(a.stderr, "Failed to close %s: %v\n", cfg.Port, closeErr)
		}
	}()

	opts := []evpilot.Option{
		evpilot.WithTransmitHook(func(step evpilot.Step) {
			_, _ = fmt.Fprintf(a.stdout, "Sending: %s\n", frame.FormatHex(step.Frame))
		}),
		evpilot.WithResponseHook(func(_ evpilot.Step, resp []byte) {
			_, _ = fmt.Fprintln(a.stdout, frame.FormatHex(resp))
		}),
	}
	if f.requireResponse {
		opts = append(opts, evpilot.WithResponseValidator(evpilot.RequireResponse))
	}

	seq, err := evpilot.NewSequencer(transport, opts...)
	if err != nil {
		_, _ = fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitError
	}

	if f.raw != "" {
		_, err = seq.Send(ctx, tpl)
	} else {
		err = seq.Run(ctx, mode)
	}
	if err != nil {
		_, _ = fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}

func (a *app) runList(cfg config.Config) int {
	opts := detection.DefaultOptions()
	opts.IgnorePaths = cfg.IgnorePaths
	if cfg.Blocklist != nil {
		opts.Blocklist = append(opts.Blocklist, cfg.Blocklist...)
	}

	devices, err := a.listPorts(opts)
	if err != nil {
		_, _ = fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitError
	}
	for _, d := range devices {
		_, _ = fmt.Fprintln(a.stdout, d.String())
	}
	return exitOK
}
