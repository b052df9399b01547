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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZaparooProject/go-evpilot/internal/frame"
)

func TestTemplateBytes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		template Template
		want     []byte
	}{
		{"enable_prox_resistor", enableProxResistor, []byte{0x02, 0x04, 0x00, 0x50, 0x00}},
		{"disable_prox_resistor", disableProxResistor, []byte{0x02, 0x04, 0x00, 0x50, 0x07}},
		{"enable_prox_pullup", enableProxPullup, []byte{0x02, 0x04, 0x00, 0x51, 0x01}},
		{"disable_prox_pullup", disableProxPullup, []byte{0x02, 0x04, 0x00, 0x51, 0x00}},
		{"enable_pilot", enablePilot, []byte{0x02, 0x04, 0x00, 0x12, 0x01}},
		{"disable_pilot", disablePilot, []byte{0x02, 0x04, 0x00, 0x12, 0x00}},
		{"StateA", stateA, []byte{0x02, 0x04, 0x00, 0x15, 0x00}},
		{"StateB", stateB, []byte{0x02, 0x04, 0x00, 0x15, 0x01}},
		{"StateC", stateC, []byte{0x02, 0x04, 0x00, 0x15, 0x03}},
		{"secc_StateA", seccStateA, []byte{0x02, 0x07, 0x00, 0x11, 0xE8, 0x03, 0xE8, 0x03}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.name, tt.template.Name())
			assert.Equal(t, tt.want, tt.template.Bytes())
			assert.Equal(t, len(tt.want), tt.template.Len())

			framed := tt.template.Frame()
			require.Len(t, framed, len(tt.want)+1)
			assert.Equal(t, tt.want, framed[:len(tt.want)])
			assert.Equal(t, frame.Checksum(tt.want), framed[len(tt.want)])
			assert.True(t, frame.ValidateChecksum(framed))

			_, err := frame.Parse(framed)
			assert.NoError(t, err)
		})
	}
}

func TestTemplateIsImmutable(t *testing.T) {
	t.Parallel()

	b := disablePilot.Bytes()
	b[4] = 0xFF

	assert.Equal(t, []byte{0x02, 0x04, 0x00, 0x12, 0x00}, disablePilot.Bytes())

	first := disablePilot.Frame()
	second := disablePilot.Frame()
	assert.Len(t, first, 6)
	assert.Len(t, second, 6)
	assert.Equal(t, first, second)
}

func TestTemplatesComplete(t *testing.T) {
	t.Parallel()

	all := Templates()
	require.Len(t, all, 10)

	seen := make(map[string]bool)
	for _, tpl := range all {
		assert.False(t, seen[tpl.Name()], "duplicate template %s", tpl.Name())
		seen[tpl.Name()] = true
	}
}

func TestLookupTemplate(t *testing.T) {
	t.Parallel()

	tpl, err := LookupTemplate("statec")
	require.NoError(t, err)
	assert.Equal(t, stateC, tpl)

	tpl, err = LookupTemplate(" SECC_STATEA ")
	require.NoError(t, err)
	assert.Equal(t, seccStateA, tpl)

	_, err = LookupTemplate("StateD")
	require.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestTemplateString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "StateB [02 04 00 15 01]", stateB.String())
}

func TestSequenceFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		want []string
		mode Mode
	}{
		{
			name: "SECC",
			mode: ModeSECC,
			want: []string{"disable_prox_pullup", "disable_prox_resistor", "enable_pilot", "secc_StateA"},
		},
		{
			name: "EVCC",
			mode: ModeEVCC,
			want: []string{"enable_prox_pullup", "disable_pilot", "StateB"},
		},
		{
			name: "OFF",
			mode: ModeOff,
			want: []string{"disable_prox_pullup", "disable_prox_resistor", "disable_pilot", "StateA"},
		},
		{
			name: "unknown",
			mode: ModeUnknown,
			want: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			seq := SequenceFor(tt.mode)
			var names []string
			for _, tpl := range seq {
				names = append(names, tpl.Name())
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestSequenceForReturnsFreshSlice(t *testing.T) {
	t.Parallel()

	seq := SequenceFor(ModeEVCC)
	seq[0] = stateC

	assert.Equal(t, enableProxPullup, SequenceFor(ModeEVCC)[0])
}

func TestTemplatesCannotBeReplaced(t *testing.T) {
	t.Parallel()

	all := Templates()
	require.Len(t, all, 10)
	all[6] = stateB

	tpl, err := LookupTemplate("StateA")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x04, 0x00, 0x15, 0x00}, tpl.Bytes())
	assert.Equal(t, "StateA", Templates()[6].Name())
}
