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
package xor

import (
	"github.com/consensys/go-keccak-machine/pkg/field"
	"github.com/consensys/go-keccak-machine/pkg/trace"
	"github.com/consensys/go-keccak-machine/pkg/util"
)

// Op is a single exclusive-or of two 16-bit words.
type Op struct {
	Input1 uint16
	Input2 uint16
}

// GenerateTrace constructs the table for a given list of operations, one row
// per operation.  Padding rows are all zero, which trivially satisfies every
// constraint.
func (p *Chip) GenerateTrace(ops []Op) *trace.Table {
	var (
		cols  = &ColMap
		table = trace.NewTable(trace.PaddedHeight(len(ops)), NumCols)
	)
	//
	util.ParallelFor(len(ops), func(i int) {
		row := table.Row(i)
		row[cols.IsReal] = field.One()
		//
		for b := 0; b < NUM_BYTES; b++ {
			var (
				x = (ops[i].Input1 >> (8 * b)) & 0xFF
				y = (ops[i].Input2 >> (8 * b)) & 0xFF
			)
			//
			row[cols.Input1[b]] = field.Uint64(uint64(x))
			row[cols.Input2[b]] = field.Uint64(uint64(y))
			row[cols.Output[b]] = field.Uint64(uint64(x ^ y))
			//
			for k := 0; k < 8; k++ {
				row[cols.Bits1[b][k]] = field.Uint64(uint64(x>>k) & 1)
				row[cols.Bits2[b][k]] = field.Uint64(uint64(y>>k) & 1)
			}
		}
	})
	//
	return table
}
