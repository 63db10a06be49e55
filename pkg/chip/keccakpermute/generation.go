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
package keccakpermute

import (
	"github.com/consensys/go-keccak-machine/pkg/field"
	"github.com/consensys/go-keccak-machine/pkg/keccakf"
	"github.com/consensys/go-keccak-machine/pkg/trace"
	"github.com/consensys/go-keccak-machine/pkg/util"
)

// Op is a single permutation request, given as 25 lanes in standard order.
type Op [keccakf.NUM_LANES]uint64

// OpFromLimbs constructs an operation from the 100 limbs of a state.
func OpFromLimbs(limbs []field.Element) Op {
	vals := make([]uint64, len(limbs))
	//
	for i, l := range limbs {
		vals[i] = l.Uint64()
	}
	//
	return Op(keccakf.LimbsToLanes(vals))
}

// GenerateTrace constructs the table for a given list of permutations, using
// NUM_ROUNDS rows for each.  The table is padded with permutations of the zero
// state, the last of which may be truncated, whose is_real flags are all
// zero.
func (p *Chip) GenerateTrace(ops []Op) *trace.Table {
	var (
		cols   = &ColMap
		height = trace.PaddedHeight(len(ops) * keccakf.NUM_ROUNDS)
		table  = trace.NewTable(height, NumCols)
		nperms = (height + keccakf.NUM_ROUNDS - 1) / keccakf.NUM_ROUNDS
	)
	// Core view of a row
	view := func(row []field.Element) []field.Element {
		return row[:keccakf.NumCols]
	}
	//
	util.ParallelFor(nperms, func(i int) {
		var (
			start = i * keccakf.NUM_ROUNDS
			input [keccakf.NUM_LANES]uint64
		)
		//
		if i >= len(ops) {
			keccakf.GeneratePartialRows(table, start, input, view)
			return
		}
		//
		keccakf.GeneratePartialRows(table, start, ops[i], view)
		//
		for r := 0; r < keccakf.NUM_ROUNDS; r++ {
			row := table.Row(start + r)
			row[cols.IsReal] = field.One()
			row[cols.IsRealInput] = field.Bool(r == 0)
			row[cols.IsRealOutput] = field.Bool(r == keccakf.NUM_ROUNDS-1)
		}
	})
	//
	return table
}
