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
package keccaksponge

import (
	"fmt"

	"github.com/consensys/go-keccak-machine/pkg/field"
	"github.com/consensys/go-keccak-machine/pkg/keccakf"
	"github.com/consensys/go-keccak-machine/pkg/trace"
	"github.com/consensys/go-keccak-machine/pkg/util"
)

// Op is a single absorption of a byte string.  Memory-backed absorptions read
// their input bytes from consecutive addresses starting at Addr, at a given
// Timestamp.  Otherwise, the input blocks are requested over the input bus.
type Op struct {
	Timestamp uint32
	Addr      uint32
	Input     []byte
	Memory    bool
}

// Rows returns the number of rows used by this absorption, namely one per
// full block plus the final (padded) block.
func (op *Op) Rows() int {
	return len(op.Input)/RATE_BYTES + 1
}

// GenerateTrace constructs the table for a given list of absorptions, whose
// rows are laid out consecutively.  Padding rows are all zero.
func (p *Chip) GenerateTrace(ops []Op) *trace.Table {
	var (
		offsets = make([]int, len(ops))
		nrows   = 0
	)
	//
	for i := range ops {
		offsets[i] = nrows
		nrows += ops[i].Rows()
	}
	//
	table := trace.NewTable(trace.PaddedHeight(nrows), NumCols)
	//
	util.ParallelFor(len(ops), func(i int) {
		rows := make([][]field.Element, ops[i].Rows())
		//
		for j := range rows {
			rows[j] = table.Row(offsets[i] + j)
		}
		//
		GenerateRows(rows, &ops[i])
	})
	//
	return table
}

// GenerateRows writes the rows for a single absorption, and returns the
// resulting digest.
func GenerateRows(rows [][]field.Element, op *Op) [DIGEST_BYTES]byte {
	var (
		cols  = &ColMap
		state [keccakf.NUM_LANES]uint64
		n     = op.Rows()
	)
	//
	if len(rows) != n {
		panic(fmt.Sprintf("absorption requires %d rows (was %d)", n, len(rows)))
	}
	//
	for i, row := range rows {
		var (
			absorbed = i * RATE_BYTES
			block    [RATE_BYTES]byte
		)
		//
		if len(row) < NumCols {
			panic(fmt.Sprintf("insufficient row length %d (expected %d)", len(row), NumCols))
		}
		//
		row[cols.Timestamp] = field.Uint64(uint64(op.Timestamp))
		row[cols.BaseAddr] = field.Uint64(uint64(op.Addr))
		row[cols.IsMemoryInput] = field.Bool(op.Memory)
		row[cols.AlreadyAbsorbedBytes] = field.Uint64(uint64(absorbed))
		//
		if i < n-1 {
			row[cols.IsFullInputBlock] = field.One()
			copy(block[:], op.Input[absorbed:absorbed+RATE_BYTES])
		} else {
			remaining := copy(block[:], op.Input[absorbed:])
			// pad10*1
			block[remaining] |= 0x01
			block[RATE_BYTES-1] |= 0x80
			//
			for j := remaining; j < RATE_BYTES; j++ {
				row[cols.IsPaddingByte[j]] = field.One()
			}
		}
		//
		absorb(row, cols, &state, &block)
	}
	//
	return digestOf(&state)
}

// absorb xors a block into the state and permutes it, filling in the state
// columns of the row along the way.
func absorb(row []field.Element, cols *Cols, state *[keccakf.NUM_LANES]uint64, block *[RATE_BYTES]byte) {
	for i, b := range block {
		row[cols.BlockBytes[i]] = field.Uint64(uint64(b))
	}
	//
	for i := 0; i < WIDTH_U16S; i++ {
		limb := field.Uint64(uint64(limbOf(state, i)))
		//
		if i < RATE_U16S {
			row[cols.OriginalRateU16s[i]] = limb
		} else {
			row[cols.OriginalCapacityU16s[i-RATE_U16S]] = limb
		}
	}
	// Xor in the block
	for i := 0; i < RATE_U16S; i++ {
		word := uint64(block[2*i]) | uint64(block[2*i+1])<<8
		state[i/4] ^= word << (16 * (i % 4))
		row[cols.XoredRateU16s[i]] = field.Uint64(uint64(limbOf(state, i)))
	}
	//
	keccakf.Permute(state)
	//
	for i := DIGEST_U16S; i < WIDTH_U16S; i++ {
		row[cols.PartialUpdatedStateU16s[i-DIGEST_U16S]] = field.Uint64(uint64(limbOf(state, i)))
	}
	//
	for i, b := range digestOf(state) {
		row[cols.UpdatedDigestStateBytes[i]] = field.Uint64(uint64(b))
	}
}

// limbOf returns the ith 16-bit limb of the state, where lanes are split into
// limbs least significant first.
func limbOf(state *[keccakf.NUM_LANES]uint64, i int) uint16 {
	return uint16(state[i/4] >> (16 * (i % 4)))
}

// digestOf returns the first DIGEST_BYTES bytes of the state, in little-endian
// order.
func digestOf(state *[keccakf.NUM_LANES]uint64) [DIGEST_BYTES]byte {
	var digest [DIGEST_BYTES]byte
	//
	for i := range digest {
		digest[i] = byte(state[i/8] >> (8 * (i % 8)))
	}
	//
	return digest
}
