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
	"github.com/consensys/go-keccak-machine/pkg/air"
	"github.com/consensys/go-keccak-machine/pkg/bus"
)

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
		row     = rowOf(cols)
		isReal  = row[cols.IsFullInputBlock].Add(row[cols.IsFinalBlock()])
		isFinal = row[cols.IsFinalBlock()]
		isMem   = row[cols.IsMemoryInput]
		sends   []bus.Interaction
	)
	// Xor each 16-bit limb of the block into the rate
	for i := 0; i < RATE_U16S; i++ {
		block := packBytes(row, cols.BlockBytes[2*i:2*i+2])
		sends = append(sends, bus.NewInteraction(p.BusXorInput, isReal, block, row[cols.OriginalRateU16s[i]]))
	}
	// Permute the xored rate and the original capacity
	sends = append(sends, bus.NewInteraction(p.BusPermuteInput, isReal, preimage(cols, row)...))
	// Every block byte and digest byte is a byte
	for _, col := range cols.BlockBytes {
		sends = append(sends, bus.NewInteraction(p.BusRange, isReal, row[col]))
	}
	//
	for _, col := range cols.UpdatedDigestStateBytes {
		sends = append(sends, bus.NewInteraction(p.BusRange, isReal, row[col]))
	}
	// Input bytes (but not padding bytes) read from memory
	for i, col := range cols.BlockBytes {
		var (
			addr  = row[cols.BaseAddr].Add(row[cols.AlreadyAbsorbedBytes]).Add(air.NewConst64(uint64(i)))
			count = isMem.Mul(isReal.Sub(row[cols.IsPaddingByte[i]]))
		)
		//
		sends = append(sends, bus.NewInteraction(p.BusMemory, count, row[cols.Timestamp], addr, row[col]))
	}
	// Digest of an absorption requested over the input bus, bound to its final
	// block.
	var (
		isOutput = isFinal.Sub(isFinal.Mul(isMem))
		digest   = append(inputBlock(cols, row), bus.MainAll(cols.UpdatedDigestStateBytes[:]...)...)
	)
	//
	sends = append(sends, bus.NewInteraction(p.BusOutput, isOutput, digest...))
	//
	return sends
}

func (p *Chip) receives(cols *Cols) []bus.Interaction {
	var (
		row      = rowOf(cols)
		isReal   = row[cols.IsFullInputBlock].Add(row[cols.IsFinalBlock()])
		isMem    = row[cols.IsMemoryInput]
		receives []bus.Interaction
	)
	// Blocks requested over the input bus, padding included
	receives = append(receives, bus.NewInteraction(p.BusInput, isReal.Sub(isMem), inputBlock(cols, row)...))
	// Xored rate limbs, bound to their operands
	for i := 0; i < RATE_U16S; i++ {
		var (
			block = packBytes(row, cols.BlockBytes[2*i:2*i+2])
			orig  = row[cols.OriginalRateU16s[i]]
			xored = row[cols.XoredRateU16s[i]]
		)
		//
		receives = append(receives, bus.NewInteraction(p.BusXorOutput, isReal, block, orig, xored))
	}
	// State after the permutation of this row's preimage
	state := append(preimage(cols, row), updatedState(cols, row)...)
	receives = append(receives, bus.NewInteraction(p.BusPermuteOutput, isReal, state...))
	//
	return receives
}

// inputBlock returns the number of bytes absorbed before a block, followed by
// the bytes of the block (padding included).
func inputBlock(cols *Cols, row []air.Expr) []air.Expr {
	return append([]air.Expr{row[cols.AlreadyAbsorbedBytes]}, bus.MainAll(cols.BlockBytes[:]...)...)
}

// preimage returns the state permuted by a row, namely the xored rate followed
// by the original capacity.
func preimage(cols *Cols, row []air.Expr) []air.Expr {
	var limbs []air.Expr
	//
	for _, col := range cols.XoredRateU16s {
		limbs = append(limbs, row[col])
	}
	//
	for _, col := range cols.OriginalCapacityU16s {
		limbs = append(limbs, row[col])
	}
	//
	return limbs
}

// rowOf constructs an expression for every column of the current row, indexed
// by column.  This allows the interactions to share the helpers used by the
// constraints.
func rowOf(cols *Cols) []air.Expr {
	var width = 0
	//
	for _, col := range allCols(cols) {
		width = max(width, col+1)
	}
	//
	row := make([]air.Expr, width)
	//
	for _, col := range allCols(cols) {
		row[col] = bus.Main(col)
	}
	//
	return row
}

func allCols(c *Cols) []int {
	cols := []int{c.Timestamp, c.BaseAddr, c.IsMemoryInput, c.IsFullInputBlock, c.AlreadyAbsorbedBytes}
	cols = append(cols, c.IsPaddingByte[:]...)
	cols = append(cols, c.OriginalState()...)
	cols = append(cols, c.BlockBytes[:]...)
	cols = append(cols, c.XoredRateU16s[:]...)
	cols = append(cols, c.PartialUpdatedStateU16s[:]...)
	//
	return append(cols, c.UpdatedDigestStateBytes[:]...)
}
