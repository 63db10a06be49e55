// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package xor provides a chip proving the bitwise exclusive-or of two 16-bit
// words, by decomposing each byte of both operands into bits.
package xor

import (
	"github.com/consensys/go-keccak-machine/pkg/air"
	"github.com/consensys/go-keccak-machine/pkg/air/gadgets"
	"github.com/consensys/go-keccak-machine/pkg/bus"
)

// Chip proves output = input1 XOR input2.  It receives the packed operands on
// the input bus, and sends the packed operands together with the packed output
// on the output bus.  Binding the operands to the result prevents a sender from
// pairing the output of one operation with the operands of another.
type Chip struct {
	BusInput  bus.ID
	BusOutput bus.ID
}

// Name implementation for air.Chip interface.
func (p *Chip) Name() string {
	return "xor"
}

// Width implementation for air.Chip interface.
func (p *Chip) Width() int {
	return NumCols
}

// PreprocessedWidth implementation for air.Chip interface.
func (p *Chip) PreprocessedWidth() int {
	return 0
}

// Eval implementation for air.Chip interface.
func (p *Chip) Eval(builder air.Builder) {
	var (
		cols  = &ColMap
		local = builder.Main().Local
	)
	//
	builder.AssertBool(local[cols.IsReal])
	//
	for i := 0; i < NUM_BYTES; i++ {
		var (
			bits1 = gadgets.Columns(local, cols.Bits1[i][:])
			bits2 = gadgets.Columns(local, cols.Bits2[i][:])
			ands  [8]air.Expr
		)
		//
		gadgets.ApplyBitDecompositionGadget(builder, local[cols.Input1[i]], bits1)
		gadgets.ApplyBitDecompositionGadget(builder, local[cols.Input2[i]], bits2)
		// AND as the weighted sum of bit products
		for k := 0; k < 8; k++ {
			ands[k] = bits1[k].Mul(bits2[k])
		}
		//
		and := gadgets.FromBits(ands[:])
		xor := local[cols.Input1[i]].Add(local[cols.Input2[i]]).Sub(air.Scale(and, 2))
		builder.AssertEq(local[cols.Output[i]], xor)
	}
}

// Sends implementation for bus.Interactive interface.
func (p *Chip) Sends() []bus.Interaction {
	return p.sends(&ColMap)
}

// Receives implementation for bus.Interactive interface.
func (p *Chip) Receives() []bus.Interaction {
	return p.receives(&ColMap)
}

// SendsFromIndices constructs the sends of this chip when embedded at the given
// column indices.
func (p *Chip) SendsFromIndices(_ []int, main []int) []bus.Interaction {
	cols := RebasedCols(main)
	return p.sends(&cols)
}

// ReceivesFromIndices constructs the receives of this chip when embedded at the
// given column indices.
func (p *Chip) ReceivesFromIndices(_ []int, main []int) []bus.Interaction {
	cols := RebasedCols(main)
	return p.receives(&cols)
}

func (p *Chip) sends(cols *Cols) []bus.Interaction {
	var (
		in1 = air.PackLimbs(bus.MainAll(cols.Input1[:]...), 8)
		in2 = air.PackLimbs(bus.MainAll(cols.Input2[:]...), 8)
		out = air.PackLimbs(bus.MainAll(cols.Output[:]...), 8)
	)
	//
	return []bus.Interaction{
		bus.NewInteraction(p.BusOutput, bus.Main(cols.IsReal), in1, in2, out),
	}
}

func (p *Chip) receives(cols *Cols) []bus.Interaction {
	var (
		in1 = air.PackLimbs(bus.MainAll(cols.Input1[:]...), 8)
		in2 = air.PackLimbs(bus.MainAll(cols.Input2[:]...), 8)
	)
	//
	return []bus.Interaction{
		bus.NewInteraction(p.BusInput, bus.Main(cols.IsReal), in1, in2),
	}
}
