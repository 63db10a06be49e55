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

// Package keccakpermute provides a chip which exposes the Keccak-f[1600]
// permutation core to other chips over a pair of buses.
package keccakpermute

import (
	"github.com/consensys/go-keccak-machine/pkg/air"
	"github.com/consensys/go-keccak-machine/pkg/bus"
	"github.com/consensys/go-keccak-machine/pkg/keccakf"
)

// Chip receives the 100 preimage limbs of each requested permutation on the
// input bus, and sends the preimage limbs followed by the 100 output limbs on
// the output bus.  The preimage binds each output to the request it answers.
type Chip struct {
	BusInput  bus.ID
	BusOutput bus.ID
}

// Name implementation for air.Chip interface.
func (p *Chip) Name() string {
	return "keccak_permute"
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
		cols      = &ColMap
		main      = builder.Main()
		local     = main.Local
		next      = main.Next
		firstStep = local[cols.Keccak.StepFlags[0]]
		finalStep = local[cols.Keccak.StepFlags[keccakf.NUM_ROUNDS-1]]
		isReal    = local[cols.IsReal]
	)
	// Permutation core
	keccakf.Air{}.Eval(builder.SubRange(0, keccakf.NumCols))
	//
	builder.AssertBool(isReal)
	builder.AssertEq(local[cols.IsRealInput], isReal.Mul(firstStep))
	builder.AssertEq(local[cols.IsRealOutput], isReal.Mul(finalStep))
	// is_real is constant across the rounds of a permutation
	builder.WhenTransition().When(air.Not(finalStep)).AssertEq(next[cols.IsReal], isReal)
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
	// The preimage is carried unchanged onto the final round.
	fields := bus.MainAll(cols.Keccak.PreimageLimbs()...)
	fields = append(fields, bus.MainAll(cols.Keccak.OutputLimbs()...)...)
	//
	return []bus.Interaction{bus.NewInteraction(p.BusOutput, bus.Main(cols.IsRealOutput), fields...)}
}

func (p *Chip) receives(cols *Cols) []bus.Interaction {
	fields := bus.MainAll(cols.Keccak.PreimageLimbs()...)
	//
	return []bus.Interaction{bus.NewInteraction(p.BusInput, bus.Main(cols.IsRealInput), fields...)}
}
